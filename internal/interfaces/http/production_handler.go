package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/tulsipower/production-monitor/internal/application/dto"
	"github.com/tulsipower/production-monitor/internal/application/production"
	"github.com/tulsipower/production-monitor/internal/domain/repository"
)

// ProductionHandler maneja las peticiones HTTP de registros de producción (protegido).
type ProductionHandler struct {
	uc *production.RecordUseCase
}

// NewProductionHandler construye el handler.
func NewProductionHandler(uc *production.RecordUseCase) *ProductionHandler {
	return &ProductionHandler{uc: uc}
}

// Create registra la producción de un turno y acredita el output al stock de
// la etapa en la misma transacción.
// POST /api/production/records
func (h *ProductionHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateRecordRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.OperatorName == "" {
		in.OperatorName = GetUserID(c)
	}
	record, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toRecordResponse(record))
}

// List devuelve registros filtrados por etapa, turno y rango de fechas.
// GET /api/production/records
func (h *ProductionHandler) List(c *fiber.Ctx) error {
	var in dto.ListRecordsRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "query inválida"})
	}
	in.DefaultPage()

	records, err := h.uc.List(repository.RecordFilter{
		Stage:    in.Stage,
		Shift:    in.Shift,
		DateFrom: in.DateFrom,
		DateTo:   in.DateTo,
		Limit:    in.Limit,
		Offset:   in.Offset,
	})
	if err != nil {
		return domainError(c, err)
	}

	resp := dto.RecordListResponse{
		Items: make([]dto.RecordResponse, 0, len(records)),
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset},
	}
	for _, r := range records {
		resp.Items = append(resp.Items, toRecordResponse(r))
	}
	return c.JSON(resp)
}

// GetByID obtiene un registro de producción.
// GET /api/production/records/:id
func (h *ProductionHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	record, err := h.uc.Get(id)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(toRecordResponse(record))
}

// QuickStats devuelve el resumen del día para la pantalla de captura.
// GET /api/production/quick-stats?date=2026-08-30
func (h *ProductionHandler) QuickStats(c *fiber.Ctx) error {
	day := time.Now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "formato de fecha: YYYY-MM-DD"})
		}
		day = parsed
	}
	stats, err := h.uc.QuickStats(day)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(stats)
}
