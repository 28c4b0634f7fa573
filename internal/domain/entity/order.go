package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una orden de producción.
const (
	OrderStatusPending    = "PENDING"
	OrderStatusInProgress = "IN_PROGRESS"
	OrderStatusCompleted  = "COMPLETED"
	OrderStatusCancelled  = "CANCELLED"
)

// Prioridades de orden.
const (
	PriorityNormal = 1
	PriorityHigh   = 2
	PriorityUrgent = 3
)

// Order es una orden de cliente. CompletedQuantity y CurrentStage son
// proyecciones derivadas de los journey events de los lotes vinculados:
// se cachean para lectura pero se recalculan en cada movimiento de lote.
type Order struct {
	ID          string
	OrderNumber string // único
	CustomerName string

	ProductSpecification string
	TargetWireSizeMM     *decimal.Decimal

	OrderedQuantity   decimal.Decimal // kg
	CompletedQuantity decimal.Decimal // derivado, cacheado

	Status       string
	CurrentStage *string // derivado, cacheado
	Priority     int     // 1=Normal, 2=Alta, 3=Urgente

	OrderDate            time.Time
	ExpectedDeliveryDate *time.Time
	ActualDeliveryDate   *time.Time

	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CompletionPercentage devuelve el % completado acotado a [0, 100].
func (o *Order) CompletionPercentage() decimal.Decimal {
	if !o.OrderedQuantity.IsPositive() {
		return decimal.Zero
	}
	pct := o.CompletedQuantity.Div(o.OrderedQuantity).Mul(hundred)
	if pct.IsNegative() {
		return decimal.Zero
	}
	if pct.GreaterThan(hundred) {
		return hundred
	}
	return pct
}
