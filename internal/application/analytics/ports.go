package analytics

import (
	"context"

	"github.com/tulsipower/production-monitor/internal/application/dto"
)

// ReportPDFGenerator define el puerto para generar el informe de producción
// en PDF. La infraestructura (Maroto) lo implementa.
type ReportPDFGenerator interface {
	GenerateSummaryPDF(ctx context.Context, summary *dto.DashboardSummaryResponse, alerts []dto.AlertResponse) ([]byte, error)
}
