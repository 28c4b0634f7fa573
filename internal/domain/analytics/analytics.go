// Package analytics es el motor de cálculo de KPIs de producción: funciones
// puras sobre una ventana de registros de producción. No toca persistencia ni
// estado compartido, por lo que las lecturas del dashboard nunca bloquean a
// los escritores del ledger.
package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tulsipower/production-monitor/internal/domain/entity"
	"github.com/tulsipower/production-monitor/internal/domain/stagegraph"
)

var hundred = decimal.NewFromInt(100)

// Severidades de alerta.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)

// Thresholds son los umbrales globales de alerta (config de planta).
type Thresholds struct {
	EfficiencyWarning  decimal.Decimal // amarillo por debajo
	EfficiencyCritical decimal.Decimal // rojo por debajo
	LossWarning        decimal.Decimal // amarillo por encima
	LossCritical       decimal.Decimal // rojo por encima
}

// StageStats agrupa totales y promedios de una etapa en la ventana.
type StageStats struct {
	Stage             string
	TotalInput        decimal.Decimal
	TotalOutput       decimal.Decimal
	TotalScrap        decimal.Decimal
	AvgEfficiency     decimal.Decimal // ponderado por input, no media simple
	AvgLossPercentage decimal.Decimal
	RecordCount       int
}

// ComputeStageStats calcula los totales de una etapa. La eficiencia promedio
// se pondera por input (sum(output)/sum(input)) para que los registros de
// lotes pequeños no sesguen el promedio.
func ComputeStageStats(records []*entity.ProductionRecord, stage string) StageStats {
	stats := StageStats{
		Stage:       stage,
		TotalInput:  decimal.Zero,
		TotalOutput: decimal.Zero,
		TotalScrap:  decimal.Zero,
	}
	for _, r := range records {
		if r.Stage != stage {
			continue
		}
		stats.TotalInput = stats.TotalInput.Add(r.InputQty)
		stats.TotalOutput = stats.TotalOutput.Add(r.OutputQty)
		stats.TotalScrap = stats.TotalScrap.Add(r.ScrapQty)
		stats.RecordCount++
	}
	stats.AvgEfficiency = entity.ComputeEfficiency(stats.TotalInput, stats.TotalOutput)
	stats.AvgLossPercentage = entity.ComputeLossPercentage(stats.TotalInput, stats.TotalScrap)
	return stats
}

// StageEfficiency devuelve la eficiencia ponderada de una etapa en la ventana.
// Una etapa sin input devuelve 0, nunca error ni NaN.
func StageEfficiency(records []*entity.ProductionRecord, stage string) decimal.Decimal {
	return ComputeStageStats(records, stage).AvgEfficiency
}

// OverallEfficiency es la eficiencia ponderada del pipeline completo:
// output de la etapa productiva terminal contra input de la etapa inicial,
// misma ventana.
func OverallEfficiency(records []*entity.ProductionRecord, graph *stagegraph.Graph) decimal.Decimal {
	initial := ComputeStageStats(records, graph.First())
	terminal := ComputeStageStats(records, graph.ProductionTerminal())
	return entity.ComputeEfficiency(initial.TotalInput, terminal.TotalOutput)
}

// Bottleneck devuelve la etapa con menor eficiencia ponderada entre las que
// tienen registros en la ventana. Empates se resuelven por sequence_order más
// temprano; ok=false si no hay registros.
func Bottleneck(records []*entity.ProductionRecord, graph *stagegraph.Graph) (string, bool) {
	bottleneck := ""
	var worst decimal.Decimal
	// Recorrer en orden de secuencia garantiza el desempate por orden temprano:
	// un empate posterior no reemplaza al ya elegido.
	for _, def := range graph.Stages() {
		stats := ComputeStageStats(records, def.Stage)
		if stats.RecordCount == 0 {
			continue
		}
		if bottleneck == "" || stats.AvgEfficiency.LessThan(worst) {
			bottleneck = def.Stage
			worst = stats.AvgEfficiency
		}
	}
	return bottleneck, bottleneck != ""
}

// WIP (work-in-progress) entre dos etapas adyacentes: output acumulado de la
// primera menos input acumulado de la segunda en la ventana. Los valores
// negativos se reportan tal cual (señalan sobre-consumo o rezago de datos).
func WIP(records []*entity.ProductionRecord, fromStage, toStage string) decimal.Decimal {
	fromOut := decimal.Zero
	toIn := decimal.Zero
	for _, r := range records {
		switch r.Stage {
		case fromStage:
			fromOut = fromOut.Add(r.OutputQty)
		case toStage:
			toIn = toIn.Add(r.InputQty)
		}
	}
	return fromOut.Sub(toIn)
}

// Alert es una alerta de producción generada sobre la ventana.
type Alert struct {
	Severity    string
	Stage       string
	Message     string
	Date        time.Time
	Shift       string
	MetricValue decimal.Decimal
}

// GenerateAlerts evalúa cada registro contra los umbrales de su etapa
// (StageDefinition) y los umbrales globales de severidad:
//   - CRITICAL si efficiency < umbral crítico o loss > umbral crítico de merma
//   - WARNING si queda entre el umbral de la etapa y el crítico
//
// Además agrega una alerta WARNING por el cuello de botella actual. El
// resultado viene ordenado por severidad y fecha descendente.
func GenerateAlerts(records []*entity.ProductionRecord, graph *stagegraph.Graph, th Thresholds) []Alert {
	var alerts []Alert

	for _, r := range records {
		def, ok := graph.Definition(r.Stage)
		if !ok {
			continue
		}
		if r.InputQty.IsPositive() && r.Efficiency.LessThan(def.MinEfficiency) {
			severity := SeverityWarning
			if r.Efficiency.LessThan(th.EfficiencyCritical) {
				severity = SeverityCritical
			}
			alerts = append(alerts, Alert{
				Severity:    severity,
				Stage:       r.Stage,
				Message:     "Eficiencia baja: " + r.Efficiency.Round(1).String() + "% (esperado: >" + def.MinEfficiency.String() + "%)",
				Date:        r.Date,
				Shift:       r.Shift,
				MetricValue: r.Efficiency,
			})
		}
		if r.LossPercentage.GreaterThan(def.MaxLossPercentage) {
			severity := SeverityWarning
			if r.LossPercentage.GreaterThan(th.LossCritical) {
				severity = SeverityCritical
			}
			alerts = append(alerts, Alert{
				Severity:    severity,
				Stage:       r.Stage,
				Message:     "Merma alta: " + r.LossPercentage.Round(1).String() + "% (máximo: " + def.MaxLossPercentage.String() + "%)",
				Date:        r.Date,
				Shift:       r.Shift,
				MetricValue: r.LossPercentage,
			})
		}
	}

	if stage, ok := Bottleneck(records, graph); ok {
		stats := ComputeStageStats(records, stage)
		alerts = append(alerts, Alert{
			Severity:    SeverityWarning,
			Stage:       stage,
			Message:     "Cuello de botella: " + stage + " tiene la menor eficiencia (" + stats.AvgEfficiency.Round(1).String() + "%)",
			Date:        latestDate(records),
			MetricValue: stats.AvgEfficiency,
		})
	}

	severityRank := map[string]int{SeverityCritical: 0, SeverityWarning: 1, SeverityInfo: 2}
	sort.SliceStable(alerts, func(i, j int) bool {
		if severityRank[alerts[i].Severity] != severityRank[alerts[j].Severity] {
			return severityRank[alerts[i].Severity] < severityRank[alerts[j].Severity]
		}
		return alerts[i].Date.After(alerts[j].Date)
	})
	return alerts
}

// DailyPoint es un punto de la serie diaria para gráficos.
type DailyPoint struct {
	Date          time.Time
	Stage         string
	TotalOutput   decimal.Decimal
	AvgEfficiency decimal.Decimal
}

// Timeline agrupa los registros por día (y etapa, si stage != "") con el
// output total y la eficiencia ponderada del día.
func Timeline(records []*entity.ProductionRecord, stage string) []DailyPoint {
	type key struct {
		day   string
		stage string
	}
	type acc struct {
		date   time.Time
		stage  string
		input  decimal.Decimal
		output decimal.Decimal
	}
	groups := make(map[key]*acc)
	for _, r := range records {
		if stage != "" && r.Stage != stage {
			continue
		}
		k := key{day: r.Date.Format("2006-01-02"), stage: r.Stage}
		g, ok := groups[k]
		if !ok {
			g = &acc{date: r.Date, stage: r.Stage, input: decimal.Zero, output: decimal.Zero}
			groups[k] = g
		}
		g.input = g.input.Add(r.InputQty)
		g.output = g.output.Add(r.OutputQty)
	}

	points := make([]DailyPoint, 0, len(groups))
	for _, g := range groups {
		points = append(points, DailyPoint{
			Date:          g.date,
			Stage:         g.stage,
			TotalOutput:   g.output,
			AvgEfficiency: entity.ComputeEfficiency(g.input, g.output),
		})
	}
	sort.Slice(points, func(i, j int) bool {
		if !points[i].Date.Equal(points[j].Date) {
			return points[i].Date.Before(points[j].Date)
		}
		return points[i].Stage < points[j].Stage
	})
	return points
}

// ScrapByStage devuelve la merma total por etapa (solo etapas con merma > 0),
// en orden de secuencia del pipeline.
func ScrapByStage(records []*entity.ProductionRecord, graph *stagegraph.Graph) []StageStats {
	var out []StageStats
	for _, def := range graph.Stages() {
		stats := ComputeStageStats(records, def.Stage)
		if stats.TotalScrap.IsPositive() {
			out = append(out, stats)
		}
	}
	return out
}

func latestDate(records []*entity.ProductionRecord) time.Time {
	var latest time.Time
	for _, r := range records {
		if r.Date.After(latest) {
			latest = r.Date
		}
	}
	return latest
}
