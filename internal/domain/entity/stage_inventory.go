package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de stock por etapa.
const (
	StockStatusLow    = "LOW"
	StockStatusNormal = "NORMAL"
	StockStatusHigh   = "HIGH"
)

// StageInventory es la proyección mutable del stock actual de una etapa.
// Solo se muta a través de transacciones del ledger; siempre debe poder
// reconstruirse replayando el log de eventos desde cero.
type StageInventory struct {
	Stage        string
	CurrentStock decimal.Decimal // kg; invariante: nunca negativo

	// Especificación del alambre almacenado
	WireSizeMM  *decimal.Decimal
	WireSizeSWG *int

	// Umbrales de alerta
	MinStockLevel decimal.Decimal
	MaxStockLevel decimal.Decimal

	LastUpdated time.Time
}

// StockStatus es función pura del stock actual frente a [min, max]:
// LOW por debajo del mínimo, HIGH por encima del máximo, NORMAL en el rango.
func (s *StageInventory) StockStatus() string {
	if s.CurrentStock.LessThan(s.MinStockLevel) {
		return StockStatusLow
	}
	if s.CurrentStock.GreaterThan(s.MaxStockLevel) {
		return StockStatusHigh
	}
	return StockStatusNormal
}

// Utilization devuelve el % de ocupación frente a la capacidad máxima.
func (s *StageInventory) Utilization() decimal.Decimal {
	if !s.MaxStockLevel.IsPositive() {
		return decimal.Zero
	}
	return s.CurrentStock.Div(s.MaxStockLevel).Mul(hundred)
}
