package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/tulsipower/production-monitor/internal/application/dto"
	"github.com/tulsipower/production-monitor/internal/domain"
)

// errStatus mapea un error de dominio a (status HTTP, código de error).
var errStatus = []struct {
	err     error
	status  int
	code    string
	message string
}{
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND", "recurso no encontrado"},
	{domain.ErrUserNotFound, fiber.StatusNotFound, "NOT_FOUND", "usuario no encontrado"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION", "datos inválidos"},
	{domain.ErrInvalidQuantity, fiber.StatusBadRequest, "INVALID_QUANTITY", "la cantidad debe ser positiva"},
	{domain.ErrInvalidShift, fiber.StatusBadRequest, "INVALID_SHIFT", "turno inválido"},
	{domain.ErrUnknownStage, fiber.StatusBadRequest, "UNKNOWN_STAGE", "etapa desconocida"},
	{domain.ErrInsufficientStock, fiber.StatusConflict, "INSUFFICIENT_STOCK", "stock insuficiente en la etapa de origen"},
	{domain.ErrDuplicateBatchNumber, fiber.StatusConflict, "DUPLICATE_BATCH", "número de bobina ya registrado"},
	{domain.ErrDuplicateOrderNumber, fiber.StatusConflict, "DUPLICATE_ORDER", "número de orden ya registrado"},
	{domain.ErrBatchOnHold, fiber.StatusConflict, "BATCH_ON_HOLD", "la bobina está pausada"},
	{domain.ErrBatchConsumed, fiber.StatusConflict, "BATCH_CONSUMED", "la bobina ya fue consumida"},
	{domain.ErrQuantityExceedsRemaining, fiber.StatusConflict, "QUANTITY_EXCEEDS_REMAINING", "la cantidad excede el remanente de la bobina"},
	{domain.ErrInvalidStageTransition, fiber.StatusConflict, "INVALID_TRANSITION", "transición de etapa inválida"},
	{domain.ErrEmailAlreadyExists, fiber.StatusConflict, "EMAIL_EXISTS", "el email ya está registrado"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED", "credenciales inválidas"},
}

// domainError responde con el status HTTP que corresponde al error de dominio,
// o 500 si no está mapeado.
func domainError(c *fiber.Ctx, err error) error {
	for _, m := range errStatus {
		if errors.Is(err, m.err) {
			return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: m.message})
		}
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
