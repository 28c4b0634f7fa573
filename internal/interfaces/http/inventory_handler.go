package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/tulsipower/production-monitor/internal/application/dto"
	"github.com/tulsipower/production-monitor/internal/application/inventory"
	"github.com/tulsipower/production-monitor/internal/domain/entity"
)

// InventoryHandler maneja las peticiones HTTP del ledger de inventario (protegido).
type InventoryHandler struct {
	uc *inventory.LedgerUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.LedgerUseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// Summary devuelve el stock de todas las etapas en orden de pipeline.
// GET /api/inventory
func (h *InventoryHandler) Summary(c *fiber.Ctx) error {
	stages, err := h.uc.Summary()
	if err != nil {
		return domainError(c, err)
	}

	resp := dto.InventorySummaryResponse{
		Stages:     make([]dto.StageInventoryResponse, 0, len(stages)),
		TotalStock: decimal.Zero,
	}
	for _, inv := range stages {
		resp.Stages = append(resp.Stages, toStageInventoryResponse(inv))
		resp.TotalStock = resp.TotalStock.Add(inv.CurrentStock)
		switch inv.StockStatus() {
		case entity.StockStatusLow:
			resp.LowStages = append(resp.LowStages, inv.Stage)
		case entity.StockStatusHigh:
			resp.HighStages = append(resp.HighStages, inv.Stage)
		}
	}
	return c.JSON(resp)
}

// Stage devuelve el stock de una sola etapa.
// GET /api/inventory/stages/:stage
func (h *InventoryHandler) Stage(c *fiber.Ctx) error {
	inv, err := h.uc.Stage(c.Params("stage"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(toStageInventoryResponse(inv))
}

// Alerts devuelve las etapas con stock fuera de rango.
// GET /api/inventory/alerts
func (h *InventoryHandler) Alerts(c *fiber.Ctx) error {
	alerts, err := h.uc.Alerts()
	if err != nil {
		return domainError(c, err)
	}
	out := make([]dto.InventoryAlertResponse, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, dto.InventoryAlertResponse{
			Stage:        a.Stage,
			Status:       a.Status,
			CurrentStock: a.CurrentStock,
			Threshold:    a.Threshold,
			Message:      a.Message,
		})
	}
	return c.JSON(out)
}

// ApplyTransaction registra un IN/OUT manual sobre el stock de una etapa.
// POST /api/inventory/transactions
func (h *InventoryHandler) ApplyTransaction(c *fiber.Ctx) error {
	var in dto.ApplyTransactionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	txn, err := h.uc.ApplyTransaction(c.Context(), inventory.TransactionInput{
		Stage:     in.Stage,
		Type:      in.Type,
		Quantity:  in.Quantity,
		Notes:     in.Notes,
		CreatedBy: GetUserID(c),
	})
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toTransactionResponse(txn))
}

// RecordMovement traslada material entre etapas (o registra una recepción
// externa si from_stage viene vacío).
// POST /api/inventory/movements
func (h *InventoryHandler) RecordMovement(c *fiber.Ctx) error {
	var in dto.RecordMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	mov, err := h.uc.RecordMovement(c.Context(), inventory.MovementInput{
		FromStage:  in.FromStage,
		ToStage:    in.ToStage,
		Quantity:   in.Quantity,
		ScrapQty:   in.ScrapQty,
		WireSizeMM: in.WireSizeMM,
		WireSWG:    in.WireSWG,
		Notes:      in.Notes,
		CreatedBy:  GetUserID(c),
	})
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toMovementResponse(mov))
}

// Transactions devuelve el journal de una etapa.
// GET /api/inventory/transactions?stage=RBD
func (h *InventoryHandler) Transactions(c *fiber.Ctx) error {
	stage := c.Query("stage")
	if stage == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "stage requerido"})
	}
	from, to, err := parseDateRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "formato de fecha: RFC3339"})
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "query inválida"})
	}
	page.DefaultPage()

	txns, err := h.uc.Transactions(stage, from, to, page.Limit, page.Offset)
	if err != nil {
		return domainError(c, err)
	}
	out := make([]dto.TransactionResponse, 0, len(txns))
	for _, txn := range txns {
		out = append(out, toTransactionResponse(txn))
	}
	return c.JSON(out)
}

// Movements devuelve el historial de traslados.
// GET /api/inventory/movements
func (h *InventoryHandler) Movements(c *fiber.Ctx) error {
	from, to, err := parseDateRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "formato de fecha: RFC3339"})
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "query inválida"})
	}
	page.DefaultPage()

	movs, err := h.uc.Movements(from, to, page.Limit, page.Offset)
	if err != nil {
		return domainError(c, err)
	}
	out := make([]dto.MovementResponse, 0, len(movs))
	for _, mov := range movs {
		out = append(out, toMovementResponse(mov))
	}
	return c.JSON(out)
}

// Sync reconstruye el stock de todas las etapas replayando el journal;
// start_date (YYYY-MM-DD, opcional) acota el replay a las entradas desde esa
// fecha. Operación administrativa: corrige proyecciones corruptas.
// POST /api/inventory/sync
func (h *InventoryHandler) Sync(c *fiber.Ctx) error {
	var since *time.Time
	if raw := c.Query("start_date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "start_date inválida, formato YYYY-MM-DD"})
		}
		since = &parsed
	}
	result, err := h.uc.Sync(c.Context(), since)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.SyncResponse{
		StagesUpdated: result.StagesUpdated,
		TxnsReplayed:  result.TxnsReplayed,
		FlooredStages: result.FlooredStages,
		CompletedAt:   result.CompletedAt,
	})
}

// parseDateRange lee date_from/date_to (RFC3339) de la query; nil = sin filtro.
func parseDateRange(c *fiber.Ctx) (from, to *time.Time, err error) {
	if raw := c.Query("date_from"); raw != "" {
		parsed, perr := time.Parse(time.RFC3339, raw)
		if perr != nil {
			return nil, nil, perr
		}
		from = &parsed
	}
	if raw := c.Query("date_to"); raw != "" {
		parsed, perr := time.Parse(time.RFC3339, raw)
		if perr != nil {
			return nil, nil, perr
		}
		to = &parsed
	}
	return from, to, nil
}
