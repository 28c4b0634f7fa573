package analytics

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tulsipower/production-monitor/internal/domain/entity"
	"github.com/tulsipower/production-monitor/internal/domain/stagegraph"
)

func rec(stage string, day int, input, output, scrap float64) *entity.ProductionRecord {
	in := decimal.NewFromFloat(input)
	out := decimal.NewFromFloat(output)
	sc := decimal.NewFromFloat(scrap)
	return &entity.ProductionRecord{
		Date:           time.Date(2026, 8, day, 0, 0, 0, 0, time.UTC),
		Shift:          entity.ShiftMorning,
		Stage:          stage,
		InputQty:       in,
		OutputQty:      out,
		ScrapQty:       sc,
		Efficiency:     entity.ComputeEfficiency(in, out),
		LossPercentage: entity.ComputeLossPercentage(in, sc),
	}
}

func TestStageEfficiency_PonderadaPorInput(t *testing.T) {
	// Dos registros: 1000kg al 90% y 10kg al 50%. La media simple sería 70%,
	// la ponderada queda cerca del 89.6%.
	records := []*entity.ProductionRecord{
		rec(entity.StageRBD, 1, 1000, 900, 10),
		rec(entity.StageRBD, 1, 10, 5, 5),
	}
	eff := StageEfficiency(records, entity.StageRBD)
	assert.True(t, eff.GreaterThan(decimal.NewFromInt(89)), "eficiencia = %s", eff)
	assert.True(t, eff.LessThan(decimal.NewFromInt(90)), "eficiencia = %s", eff)
}

func TestStageEfficiency_SinInputDevuelveCero(t *testing.T) {
	assert.True(t, StageEfficiency(nil, entity.StageOven).IsZero())

	records := []*entity.ProductionRecord{rec(entity.StageOven, 1, 0, 0, 0)}
	assert.True(t, StageEfficiency(records, entity.StageOven).IsZero())
}

func TestOverallEfficiency(t *testing.T) {
	g := stagegraph.Default()
	records := []*entity.ProductionRecord{
		rec(entity.StageRBD, 1, 1000, 950, 30),
		rec(entity.StageInter, 1, 950, 900, 20),
		rec(entity.StageRewind, 2, 850, 800, 10),
	}
	eff := OverallEfficiency(records, g)
	// 800 / 1000 * 100
	assert.True(t, eff.Equal(decimal.NewFromInt(80)), "overall = %s", eff)
}

func TestBottleneck_EligeMenorEficiencia(t *testing.T) {
	g := stagegraph.Default()
	records := []*entity.ProductionRecord{
		rec(entity.StageRBD, 1, 1000, 950, 30),
		rec(entity.StageInter, 1, 950, 700, 200), // ~73.7%, el peor
		rec(entity.StageOven, 1, 700, 690, 5),
	}
	stage, ok := Bottleneck(records, g)
	require.True(t, ok)
	assert.Equal(t, entity.StageInter, stage)
}

func TestBottleneck_EmpateGanaEtapaTemprana(t *testing.T) {
	g := stagegraph.Default()
	records := []*entity.ProductionRecord{
		rec(entity.StageInter, 1, 100, 90, 10),
		rec(entity.StageDPC, 1, 200, 180, 20), // mismo 90%
	}
	stage, ok := Bottleneck(records, g)
	require.True(t, ok)
	assert.Equal(t, entity.StageInter, stage)
}

func TestBottleneck_SinRegistros(t *testing.T) {
	_, ok := Bottleneck(nil, stagegraph.Default())
	assert.False(t, ok)
}

func TestWIP_PuedeSerNegativo(t *testing.T) {
	records := []*entity.ProductionRecord{
		rec(entity.StageRBD, 1, 500, 400, 20),
		rec(entity.StageInter, 1, 450, 430, 10),
	}
	wip := WIP(records, entity.StageRBD, entity.StageInter)
	assert.True(t, wip.Equal(decimal.NewFromInt(-50)), "wip = %s", wip)
}

func TestGenerateAlerts_UmbralesPorSeveridad(t *testing.T) {
	g := stagegraph.Default()
	th := Thresholds{
		EfficiencyWarning:  decimal.NewFromInt(90),
		EfficiencyCritical: decimal.NewFromInt(80),
		LossWarning:        decimal.NewFromInt(3),
		LossCritical:       decimal.NewFromInt(5),
	}
	records := []*entity.ProductionRecord{
		rec(entity.StageRBD, 1, 1000, 750, 100),   // 75% -> critical, merma 10% -> critical
		rec(entity.StageInter, 2, 1000, 840, 40),  // 84% -> warning (etapa exige 85)
		rec(entity.StageOven, 2, 1000, 990, 5),    // sin alerta
	}
	alerts := GenerateAlerts(records, g, th)
	require.NotEmpty(t, alerts)

	var criticals, warnings int
	for _, a := range alerts {
		switch a.Severity {
		case SeverityCritical:
			criticals++
		case SeverityWarning:
			warnings++
		}
	}
	assert.Equal(t, 2, criticals)
	// warning de eficiencia de Inter + warning de cuello de botella
	assert.Equal(t, 2, warnings)

	// Criticals primero.
	assert.Equal(t, SeverityCritical, alerts[0].Severity)
}

func TestTimeline_AgrupaPorDia(t *testing.T) {
	records := []*entity.ProductionRecord{
		rec(entity.StageRBD, 1, 500, 450, 10),
		rec(entity.StageRBD, 1, 300, 280, 5),
		rec(entity.StageRBD, 2, 400, 390, 2),
	}
	points := Timeline(records, entity.StageRBD)
	require.Len(t, points, 2)
	assert.True(t, points[0].TotalOutput.Equal(decimal.NewFromInt(730)))
	assert.True(t, points[1].TotalOutput.Equal(decimal.NewFromInt(390)))
	assert.True(t, points[0].Date.Before(points[1].Date))
}

func TestScrapByStage_OmiteEtapasSinMerma(t *testing.T) {
	g := stagegraph.Default()
	records := []*entity.ProductionRecord{
		rec(entity.StageRBD, 1, 500, 480, 15),
		rec(entity.StageInter, 1, 480, 480, 0),
	}
	out := ScrapByStage(records, g)
	require.Len(t, out, 1)
	assert.Equal(t, entity.StageRBD, out[0].Stage)
}
