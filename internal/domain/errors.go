package domain

import "errors"

// Errores de dominio (sin dependencias externas).
//
// Taxonomía: errores de validación (entrada inválida, se rechazan antes de
// mutar nada), conflictos de estado (regla de negocio violada), no-encontrado
// y errores de consistencia interna (el replay del ledger no coincide con la
// proyección; nunca se auto-corrigen en silencio).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")

	// Validación
	ErrInvalidQuantity = errors.New("la cantidad debe ser mayor que cero")
	ErrInvalidShift    = errors.New("turno inválido")
	ErrUnknownStage    = errors.New("etapa desconocida")

	// Conflictos de estado (ledger de inventario)
	ErrInsufficientStock = errors.New("stock insuficiente")

	// Conflictos de estado (lotes)
	ErrDuplicateBatchNumber     = errors.New("el número de lote ya existe")
	ErrBatchOnHold              = errors.New("el lote está en pausa")
	ErrBatchConsumed            = errors.New("el lote ya fue consumido")
	ErrQuantityExceedsRemaining = errors.New("la cantidad excede el remanente del lote")
	ErrInvalidStageTransition   = errors.New("transición de etapa inválida")

	// Conflictos de estado (órdenes)
	ErrDuplicateOrderNumber = errors.New("el número de orden ya existe")

	// Usuarios / auth
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrUnauthorized       = errors.New("no autorizado")

	// Consistencia interna: el replay produjo un stock distinto al almacenado.
	// Se registra y se expone al operador; requiere un sync manual.
	ErrConsistency = errors.New("inconsistencia entre el log de eventos y la proyección")
)
