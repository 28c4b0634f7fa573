package stagegraph_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tulsipower/production-monitor/internal/domain/entity"
	"github.com/tulsipower/production-monitor/internal/domain/stagegraph"
)

func def(stage string, order int) entity.StageDefinition {
	return entity.StageDefinition{
		Stage:             stage,
		SequenceOrder:     order,
		MinEfficiency:     decimal.NewFromInt(85),
		MaxLossPercentage: decimal.NewFromInt(5),
	}
}

func TestNew_OrdenaYValida(t *testing.T) {
	// Desordenadas a propósito: New debe ordenarlas por sequence_order.
	g, err := stagegraph.New([]entity.StageDefinition{
		def("Oven", 3), def("RBD", 1), def("Inter", 2),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"RBD", "Inter", "Oven"}, g.Sequence())
	assert.Equal(t, "RBD", g.First())
	assert.Equal(t, "Oven", g.Terminal())
}

func TestNew_RechazaDuplicadosYHuecos(t *testing.T) {
	_, err := stagegraph.New([]entity.StageDefinition{def("RBD", 1), def("RBD", 2)})
	assert.Error(t, err, "etapa duplicada")

	_, err = stagegraph.New([]entity.StageDefinition{def("RBD", 1), def("Oven", 3)})
	assert.Error(t, err, "sequence_order con hueco")

	_, err = stagegraph.New([]entity.StageDefinition{def("RBD", 2), def("Inter", 3)})
	assert.Error(t, err, "sequence_order debe empezar en 1")

	_, err = stagegraph.New(nil)
	assert.Error(t, err, "sin definiciones")
}

func TestGraph_Navegacion(t *testing.T) {
	g := stagegraph.Default()

	assert.Equal(t, "Inter", g.Next("RBD"))
	assert.Equal(t, "Quality Check", g.Next("Rewind"))
	assert.Equal(t, "", g.Next("Dispatch"), "la última etapa no tiene siguiente")
	assert.Equal(t, "", g.Next("Galvanized"), "etapa desconocida")

	assert.True(t, g.Contains("DPC"))
	assert.True(t, g.Contains("Dispatch"))
	assert.False(t, g.Contains("Galvanized"))

	assert.Equal(t, 0, g.IndexOf("RBD"))
	assert.Equal(t, 4, g.IndexOf("Rewind"))
	assert.Equal(t, 7, g.IndexOf("Dispatch"))
	assert.Equal(t, -1, g.IndexOf("nope"))

	assert.True(t, g.IsAdjacent("Oven", "DPC"))
	assert.False(t, g.IsAdjacent("RBD", "Oven"))
}

func TestGraph_EtapasProductivasYExtendidas(t *testing.T) {
	g := stagegraph.Default()

	// Las ocho etapas viven en el grafo, pero solo las cinco primeras son
	// productivas; el resto es seguimiento de bobinas.
	assert.Len(t, g.Sequence(), 8)
	assert.Equal(t, []string{"RBD", "Inter", "Oven", "DPC", "Rewind"}, g.ProductionSequence())
	assert.Equal(t, "Rewind", g.ProductionTerminal())
	assert.Equal(t, "Dispatch", g.Terminal())

	qc, ok := g.Definition(entity.StageQualityCheck)
	require.True(t, ok)
	assert.True(t, qc.TrackingOnly)
}

func TestGraph_AdjacentPairs(t *testing.T) {
	g := stagegraph.Default()
	// Solo pares productivos: el WIP no aplica a las etapas extendidas.
	pairs := g.AdjacentPairs()
	require.Len(t, pairs, 4)
	assert.Equal(t, [2]string{"RBD", "Inter"}, pairs[0])
	assert.Equal(t, [2]string{"DPC", "Rewind"}, pairs[3])
}

func TestDefault_Umbrales(t *testing.T) {
	g := stagegraph.Default()
	oven, ok := g.Definition("Oven")
	require.True(t, ok)
	assert.True(t, oven.HasAnnealing)
	assert.True(t, oven.MinEfficiency.Equal(decimal.NewFromInt(85)))
	assert.True(t, oven.MaxLossPercentage.Equal(decimal.NewFromInt(5)))
}
