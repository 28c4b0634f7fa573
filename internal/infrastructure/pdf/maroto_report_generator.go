// Package pdf implementa la generación del Informe de Producción de planta.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Planta + título  │  Rango de fechas               │
//	│  ─────────────────────────────────────────────────────────  │
//	│  KPIs GLOBALES: Eficiencia global / Producción / Merma      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Etapa | Entrada | Salida | Merma | Efic.% | Regs    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  ALERTAS: severidad + etapa + mensaje                       │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	appanalytics "github.com/tulsipower/production-monitor/internal/application/analytics"
	"github.com/tulsipower/production-monitor/internal/application/dto"
	domanalytics "github.com/tulsipower/production-monitor/internal/domain/analytics"
)

var _ appanalytics.ReportPDFGenerator = (*MarotoReportGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary  = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray     = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorCritical = &props.Color{Red: 180, Green: 30, Blue: 30}
	colorWarning  = &props.Color{Red: 190, Green: 130, Blue: 0}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoReportGenerator implementa analytics.ReportPDFGenerator usando Maroto v2.
type MarotoReportGenerator struct {
	plantName string
}

// NewMarotoReportGenerator construye el generador.
func NewMarotoReportGenerator(plantName string) *MarotoReportGenerator {
	return &MarotoReportGenerator{plantName: plantName}
}

// GenerateSummaryPDF genera el informe y devuelve sus bytes.
func (g *MarotoReportGenerator) GenerateSummaryPDF(
	_ context.Context,
	summary *dto.DashboardSummaryResponse,
	alerts []dto.AlertResponse,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Informe de Producción", true).
		WithAuthor(g.plantName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(g.plantName, summary))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(globalKPIsRow(summary))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	// Tabla de KPIs por etapa
	m.AddRows(tableHeaderRow())
	for _, r := range tableStageRows(summary.Stages) {
		m.AddRows(r)
	}

	// Alertas
	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	for _, r := range alertRows(alerts) {
		m.AddRows(r)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: planta + título (izq) y rango de fechas (der).
func headerRow(plantName string, summary *dto.DashboardSummaryResponse) core.Row {
	rango := fmt.Sprintf("%s — %s",
		summary.DateFrom.Format("02/01/2006"),
		summary.DateTo.Format("02/01/2006"),
	)
	return row.New(18).Add(
		col.New(7).Add(
			text.New(plantName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("INFORME DE PRODUCCIÓN POR ETAPA", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("PERÍODO", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(rango, props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 7,
			}),
			text.New("Generado: "+time.Now().Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// globalKPIsRow: eficiencia global, producción terminal y merma total.
func globalKPIsRow(summary *dto.DashboardSummaryResponse) core.Row {
	kpi := func(label, value string) core.Col {
		return col.New(3).Add(
			text.New(label, props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Center,
				Color: colorGray, Top: 1,
			}),
			text.New(value, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Center,
				Color: colorPrimary, Top: 7,
			}),
		)
	}
	bottleneck := "—"
	if summary.BottleneckStage != nil {
		bottleneck = *summary.BottleneckStage
	}
	return row.New(16).Add(
		kpi("EFICIENCIA GLOBAL", summary.OverallEfficiency.StringFixed(1)+"%"),
		kpi("PRODUCCIÓN (kg)", summary.TotalOutput.StringFixed(1)),
		kpi("MERMA (kg)", summary.TotalScrap.StringFixed(1)),
		kpi("CUELLO DE BOTELLA", bottleneck),
	)
}

// tableHeaderRow: cabecera de la tabla de etapas.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Etapa", 2, align.Left),
		h("Entrada (kg)", 2, align.Right),
		h("Salida (kg)", 2, align.Right),
		h("Merma (kg)", 2, align.Right),
		h("Efic. %", 2, align.Right),
		h("Registros", 2, align.Center),
	)
}

// tableStageRows: una fila por etapa del pipeline.
func tableStageRows(stages []dto.StageStatsResponse) []core.Row {
	result := make([]core.Row, 0, len(stages))
	for _, s := range stages {
		result = append(result, row.New(7).Add(
			col.New(2).Add(text.New(
				s.Stage,
				props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				s.TotalInput.StringFixed(1),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(2).Add(text.New(
				s.TotalOutput.StringFixed(1),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(2).Add(text.New(
				s.TotalScrap.StringFixed(1),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(2).Add(text.New(
				s.AvgEfficiency.StringFixed(1)+"%",
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(2).Add(text.New(
				fmt.Sprintf("%d", s.RecordCount),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
		))
	}
	return result
}

// alertRows: listado de alertas, críticas primero (ya vienen ordenadas).
func alertRows(alerts []dto.AlertResponse) []core.Row {
	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New("ALERTAS DEL PERÍODO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
		)),
	}

	if len(alerts) == 0 {
		rows = append(rows, row.New(6).Add(col.New(12).Add(
			text.New("Sin alertas en el período consultado.", props.Text{
				Size: 8, Color: colorGray, Top: 1, Left: 2,
			}),
		)))
		return rows
	}

	for _, a := range alerts {
		rows = append(rows, row.New(6).Add(
			col.New(2).Add(text.New(a.Severity, props.Text{
				Style: fontstyle.Bold, Size: 7.5, Top: 1, Left: 1,
				Color: severityColor(a.Severity),
			})),
			col.New(2).Add(text.New(a.Stage, props.Text{
				Size: 7.5, Top: 1,
			})),
			col.New(8).Add(text.New(a.Message, props.Text{
				Size: 7.5, Top: 1, Color: colorGray,
			})),
		))
	}
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func severityColor(severity string) *props.Color {
	switch severity {
	case domanalytics.SeverityCritical:
		return colorCritical
	case domanalytics.SeverityWarning:
		return colorWarning
	}
	return colorGray
}
