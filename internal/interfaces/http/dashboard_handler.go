package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	appanalytics "github.com/tulsipower/production-monitor/internal/application/analytics"
	"github.com/tulsipower/production-monitor/internal/application/dto"
)

// DashboardHandler maneja los endpoints de analítica del pipeline (protegido).
type DashboardHandler struct {
	uc     *appanalytics.DashboardUseCase
	report *appanalytics.ReportUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase, report *appanalytics.ReportUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc, report: report}
}

// Summary devuelve el resumen del pipeline: KPIs por etapa, eficiencia global,
// cuello de botella y contadores.
// GET /api/dashboard/summary
func (h *DashboardHandler) Summary(c *fiber.Ctx) error {
	in, err := dateRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "formato de fecha: YYYY-MM-DD"})
	}
	summary, err := h.uc.Summary(in)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(summary)
}

// ProcessFlow devuelve los KPIs por etapa más el WIP entre pares adyacentes.
// GET /api/dashboard/process-flow
func (h *DashboardHandler) ProcessFlow(c *fiber.Ctx) error {
	in, err := dateRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "formato de fecha: YYYY-MM-DD"})
	}
	flow, err := h.uc.ProcessFlow(in)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(flow)
}

// Alerts devuelve las alertas de la ventana, críticas primero.
// GET /api/dashboard/alerts
func (h *DashboardHandler) Alerts(c *fiber.Ctx) error {
	in, err := dateRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "formato de fecha: YYYY-MM-DD"})
	}
	alerts, err := h.uc.Alerts(in)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(alerts)
}

// Timeline devuelve la serie diaria de output y eficiencia.
// GET /api/dashboard/timeline?stage=RBD
func (h *DashboardHandler) Timeline(c *fiber.Ctx) error {
	in, err := dateRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "formato de fecha: YYYY-MM-DD"})
	}
	points, err := h.uc.Timeline(in, c.Query("stage"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(points)
}

// ScrapAnalysis devuelve la merma por etapa de la ventana.
// GET /api/dashboard/scrap
func (h *DashboardHandler) ScrapAnalysis(c *fiber.Ctx) error {
	in, err := dateRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "formato de fecha: YYYY-MM-DD"})
	}
	analysis, err := h.uc.ScrapAnalysis(in)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(analysis)
}

// StageDetail devuelve la definición de una etapa, sus KPIs y últimos registros.
// GET /api/dashboard/stages/:stage
func (h *DashboardHandler) StageDetail(c *fiber.Ctx) error {
	stage := c.Params("stage")
	if stage == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "stage requerido"})
	}
	in, err := dateRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "formato de fecha: YYYY-MM-DD"})
	}
	detail, err := h.uc.StageDetail(stage, in)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(detail)
}

// SummaryPDF descarga el informe de producción de la ventana en PDF.
// GET /api/dashboard/report.pdf
func (h *DashboardHandler) SummaryPDF(c *fiber.Ctx) error {
	in, err := dateRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "formato de fecha: YYYY-MM-DD"})
	}
	pdfBytes, err := h.report.SummaryPDF(c.Context(), in)
	if err != nil {
		return domainError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(
		`attachment; filename="informe-produccion-%s.pdf"`, time.Now().Format("2006-01-02"),
	))
	return c.Send(pdfBytes)
}

// dateRange lee date_from/date_to (YYYY-MM-DD) de la query.
func dateRange(c *fiber.Ctx) (dto.DateRangeRequest, error) {
	var in dto.DateRangeRequest
	if raw := c.Query("date_from"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return in, err
		}
		in.DateFrom = &parsed
	}
	if raw := c.Query("date_to"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return in, err
		}
		// Incluir el día completo
		end := parsed.Add(24*time.Hour - time.Nanosecond)
		in.DateTo = &end
	}
	return in, nil
}
