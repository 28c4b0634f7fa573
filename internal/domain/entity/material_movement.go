package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaterialMovement es el registro inmutable de una transferencia entre etapas.
// Aplicarlo equivale a un OUT en FromStage (si existe; nil = recepción externa)
// y un IN en ToStage, ejecutados como unidad atómica. Cuando el movimiento
// proviene de un lote, ScrapQuantity es la merma que sale junto con la
// cantidad movida: el OUT del origen lleva Quantity + ScrapQuantity y el IN
// del destino solo Quantity.
type MaterialMovement struct {
	ID        string
	FromStage *string
	ToStage   string

	Quantity      decimal.Decimal
	ScrapQuantity decimal.Decimal

	WireSizeMM  *decimal.Decimal
	WireSizeSWG *int

	// Trazabilidad de lote (opcional)
	BatchID     string
	BatchNumber string

	MovementDate time.Time
	Notes        string
}
