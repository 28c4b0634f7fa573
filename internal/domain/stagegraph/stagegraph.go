// Package stagegraph modela la definición estática y ordenada del pipeline de
// producción. Es configuración pura: todos los demás componentes la consumen
// para validar etapas, resolver la etapa siguiente y armar pares adyacentes.
package stagegraph

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/tulsipower/production-monitor/internal/domain/entity"
)

// Graph es el pipeline ordenado de etapas. Inmutable después de construido.
type Graph struct {
	defs  []entity.StageDefinition
	index map[string]int // stage → posición en defs (0-based)
}

// New construye el grafo validando los invariantes de la configuración:
// exactamente una definición por etapa y sequence_order único y contiguo
// desde 1.
func New(defs []entity.StageDefinition) (*Graph, error) {
	if len(defs) == 0 {
		return nil, fmt.Errorf("stagegraph: sin definiciones de etapa")
	}
	sorted := make([]entity.StageDefinition, len(defs))
	copy(sorted, defs)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].SequenceOrder < sorted[j].SequenceOrder
	})

	index := make(map[string]int, len(sorted))
	for i, def := range sorted {
		if def.Stage == "" {
			return nil, fmt.Errorf("stagegraph: definición %d sin nombre de etapa", i)
		}
		if _, dup := index[def.Stage]; dup {
			return nil, fmt.Errorf("stagegraph: etapa duplicada %q", def.Stage)
		}
		if def.SequenceOrder != i+1 {
			return nil, fmt.Errorf("stagegraph: sequence_order no contiguo en %q (esperado %d, tiene %d)",
				def.Stage, i+1, def.SequenceOrder)
		}
		index[def.Stage] = i
	}
	return &Graph{defs: sorted, index: index}, nil
}

// Default devuelve el pipeline de trefilado de la planta:
// RBD(1) → Inter(2) → Oven(3) → DPC(4) → Rewind(5), más las etapas
// extendidas de solo seguimiento Quality Check(6) → Packaging(7) →
// Dispatch(8).
func Default() *Graph {
	mm := func(v float64) *decimal.Decimal {
		d := decimal.NewFromFloat(v)
		return &d
	}
	minEff := decimal.NewFromInt(85)
	maxLoss := decimal.NewFromInt(5)
	g, err := New([]entity.StageDefinition{
		{Stage: entity.StageRBD, SequenceOrder: 1, ExpectedOutputSizeMM: mm(3.0), MinEfficiency: minEff, MaxLossPercentage: maxLoss},
		{Stage: entity.StageInter, SequenceOrder: 2, ExpectedInputSizeMM: mm(3.0), ExpectedOutputSizeMM: mm(1.0), MinEfficiency: minEff, MaxLossPercentage: maxLoss},
		{Stage: entity.StageOven, SequenceOrder: 3, MinEfficiency: minEff, MaxLossPercentage: maxLoss, HasAnnealing: true},
		{Stage: entity.StageDPC, SequenceOrder: 4, MinEfficiency: minEff, MaxLossPercentage: maxLoss},
		{Stage: entity.StageRewind, SequenceOrder: 5, MinEfficiency: minEff, MaxLossPercentage: maxLoss},
		{Stage: entity.StageQualityCheck, SequenceOrder: 6, TrackingOnly: true},
		{Stage: entity.StagePackaging, SequenceOrder: 7, TrackingOnly: true},
		{Stage: entity.StageDispatch, SequenceOrder: 8, TrackingOnly: true},
	})
	if err != nil {
		panic(err) // configuración estática, falla solo por error de programación
	}
	return g
}

// Stages devuelve las definiciones en orden de secuencia.
func (g *Graph) Stages() []entity.StageDefinition {
	out := make([]entity.StageDefinition, len(g.defs))
	copy(out, g.defs)
	return out
}

// Sequence devuelve solo los nombres de etapa, en orden.
func (g *Graph) Sequence() []string {
	out := make([]string, len(g.defs))
	for i, def := range g.defs {
		out[i] = def.Stage
	}
	return out
}

// Definition devuelve la definición de una etapa.
func (g *Graph) Definition(stage string) (entity.StageDefinition, bool) {
	i, ok := g.index[stage]
	if !ok {
		return entity.StageDefinition{}, false
	}
	return g.defs[i], true
}

// Contains indica si la etapa pertenece al pipeline.
func (g *Graph) Contains(stage string) bool {
	_, ok := g.index[stage]
	return ok
}

// IndexOf devuelve la posición 0-based de la etapa, o -1.
func (g *Graph) IndexOf(stage string) int {
	i, ok := g.index[stage]
	if !ok {
		return -1
	}
	return i
}

// Next devuelve la etapa que sigue a la dada ("" si es la última o desconocida).
func (g *Graph) Next(stage string) string {
	i, ok := g.index[stage]
	if !ok || i+1 >= len(g.defs) {
		return ""
	}
	return g.defs[i+1].Stage
}

// First devuelve la etapa inicial del pipeline.
func (g *Graph) First() string { return g.defs[0].Stage }

// Terminal devuelve la etapa final del pipeline, extendidas incluidas.
func (g *Graph) Terminal() string { return g.defs[len(g.defs)-1].Stage }

// ProductionSequence devuelve los nombres de las etapas productivas (las que
// generan registros de producción), en orden. Excluye las de solo seguimiento.
func (g *Graph) ProductionSequence() []string {
	out := make([]string, 0, len(g.defs))
	for _, def := range g.defs {
		if def.TrackingOnly {
			continue
		}
		out = append(out, def.Stage)
	}
	return out
}

// ProductionTerminal devuelve la última etapa productiva: la salida de planta
// que cuenta como producción terminada.
func (g *Graph) ProductionTerminal() string {
	seq := g.ProductionSequence()
	return seq[len(seq)-1]
}

// AdjacentPairs devuelve los pares (from, to) de etapas productivas
// consecutivas, para el cálculo de WIP entre etapas.
func (g *Graph) AdjacentPairs() [][2]string {
	seq := g.ProductionSequence()
	pairs := make([][2]string, 0, len(seq)-1)
	for i := 0; i+1 < len(seq); i++ {
		pairs = append(pairs, [2]string{seq[i], seq[i+1]})
	}
	return pairs
}

// IsAdjacent indica si b sigue inmediatamente a a en el pipeline.
func (g *Graph) IsAdjacent(a, b string) bool {
	return g.Next(a) == b && b != ""
}
