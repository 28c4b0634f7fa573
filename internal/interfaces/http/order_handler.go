package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tulsipower/production-monitor/internal/application/dto"
	"github.com/tulsipower/production-monitor/internal/application/order"
	"github.com/tulsipower/production-monitor/internal/domain/repository"
)

// OrderHandler maneja las peticiones HTTP de órdenes de cliente (protegido).
type OrderHandler struct {
	uc *order.LinkageUseCase
}

// NewOrderHandler construye el handler.
func NewOrderHandler(uc *order.LinkageUseCase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

// Create registra una orden de cliente.
// POST /api/orders
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	created, err := h.uc.Create(in)
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toOrderResponse(created))
}

// List devuelve órdenes filtradas por estado y cliente, urgentes primero.
// GET /api/orders
func (h *OrderHandler) List(c *fiber.Ctx) error {
	var in dto.ListOrdersRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "query inválida"})
	}
	in.DefaultPage()

	orders, err := h.uc.List(repository.OrderFilter{
		Status:   in.Status,
		Customer: in.Customer,
		Limit:    in.Limit,
		Offset:   in.Offset,
	})
	if err != nil {
		return domainError(c, err)
	}

	resp := dto.OrderListResponse{
		Items: make([]dto.OrderResponse, 0, len(orders)),
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset},
	}
	for _, o := range orders {
		resp.Items = append(resp.Items, toOrderResponse(o))
	}
	return c.JSON(resp)
}

// GetByID devuelve una orden con sus bobinas y el avance por etapa.
// GET /api/orders/:id
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	o, batches, progress, err := h.uc.Get(id)
	if err != nil {
		return domainError(c, err)
	}
	resp := dto.OrderDetailResponse{
		Order:         toOrderResponse(o),
		Batches:       make([]dto.BatchResponse, 0, len(batches)),
		StageProgress: progress,
	}
	for _, b := range batches {
		resp.Batches = append(resp.Batches, toBatchResponse(b))
	}
	return c.JSON(resp)
}

// UpdateStatus cambia manualmente el estado de una orden.
// PUT /api/orders/:id/status
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	var in dto.UpdateOrderStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	updated, err := h.uc.UpdateStatus(id, in)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(toOrderResponse(updated))
}
