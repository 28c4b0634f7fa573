package analytics

import (
	"context"

	"github.com/tulsipower/production-monitor/internal/application/dto"
)

// ReportUseCase arma el informe PDF del resumen de producción.
type ReportUseCase struct {
	dashboard *DashboardUseCase
	generator ReportPDFGenerator
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(dashboard *DashboardUseCase, generator ReportPDFGenerator) *ReportUseCase {
	return &ReportUseCase{dashboard: dashboard, generator: generator}
}

// SummaryPDF genera el informe de la ventana pedida: KPIs por etapa,
// eficiencia global y alertas vigentes.
func (uc *ReportUseCase) SummaryPDF(ctx context.Context, in dto.DateRangeRequest) ([]byte, error) {
	summary, err := uc.dashboard.Summary(in)
	if err != nil {
		return nil, err
	}
	alerts, err := uc.dashboard.Alerts(in)
	if err != nil {
		return nil, err
	}
	return uc.generator.GenerateSummaryPDF(ctx, summary, alerts)
}
