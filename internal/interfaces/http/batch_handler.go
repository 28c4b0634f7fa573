package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tulsipower/production-monitor/internal/application/batch"
	"github.com/tulsipower/production-monitor/internal/application/dto"
	"github.com/tulsipower/production-monitor/internal/domain/repository"
)

// BatchHandler maneja las peticiones HTTP de bobinas (protegido).
type BatchHandler struct {
	uc *batch.TrackerUseCase
}

// NewBatchHandler construye el handler.
func NewBatchHandler(uc *batch.TrackerUseCase) *BatchHandler {
	return &BatchHandler{uc: uc}
}

// Create registra una bobina entrante.
// POST /api/batches
func (h *BatchHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateBatchRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	created, err := h.uc.Create(batch.CreateInput{
		BatchNumber:   in.BatchNumber,
		LotNumber:     in.LotNumber,
		MaterialType:  in.MaterialType,
		SupplierName:  in.SupplierName,
		Quantity:      in.Quantity,
		StageSequence: in.StageSequence,
		OrderID:       in.OrderID,
		ReceivedDate:  in.ReceivedDate,
		Notes:         in.Notes,
	})
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toBatchResponse(created))
}

// List devuelve bobinas filtradas por estado, etapa u orden.
// GET /api/batches
func (h *BatchHandler) List(c *fiber.Ctx) error {
	var in dto.ListBatchesRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "query inválida"})
	}
	in.DefaultPage()

	batches, err := h.uc.List(repository.BatchFilter{
		Status:  in.Status,
		Stage:   in.Stage,
		OrderID: in.OrderID,
		Limit:   in.Limit,
		Offset:  in.Offset,
	})
	if err != nil {
		return domainError(c, err)
	}

	resp := dto.BatchListResponse{
		Items: make([]dto.BatchResponse, 0, len(batches)),
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset},
	}
	for _, b := range batches {
		resp.Items = append(resp.Items, toBatchResponse(b))
	}
	return c.JSON(resp)
}

// GetByID devuelve una bobina con su recorrido completo.
// GET /api/batches/:id
func (h *BatchHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	b, journey, err := h.uc.Get(id)
	if err != nil {
		return domainError(c, err)
	}
	resp := dto.BatchJourneyResponse{
		Batch:   toBatchResponse(b),
		Journey: make([]dto.JourneyEventResponse, 0, len(journey)),
	}
	for _, e := range journey {
		resp.Journey = append(resp.Journey, toJourneyEventResponse(e))
	}
	return c.JSON(resp)
}

// Move avanza la bobina a una etapa: descuenta stock del origen, acredita el
// destino, registra el evento y actualiza la orden vinculada; todo en una
// transacción.
// POST /api/batches/:id/move
func (h *BatchHandler) Move(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	var in dto.MoveBatchRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	operator := in.Operator
	if operator == "" {
		operator = GetUserID(c)
	}
	moved, err := h.uc.Move(c.Context(), batch.MoveInput{
		BatchID:  id,
		ToStage:  in.ToStage,
		Quantity: in.Quantity,
		ScrapQty: in.ScrapQty,
		Operator: operator,
		Notes:    in.Notes,
	})
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(toBatchResponse(moved))
}

// SetHold pausa o reanuda una bobina según el estado pedido.
// POST /api/batches/:id/hold
func (h *BatchHandler) SetHold(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	var in dto.SetHoldRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	b, err := h.uc.SetHold(id, in.Hold, in.Reason)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(toBatchResponse(b))
}
