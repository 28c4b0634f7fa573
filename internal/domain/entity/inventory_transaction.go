package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de transacción de inventario.
const (
	TransactionIN  = "IN"  // entra material a la etapa
	TransactionOUT = "OUT" // sale material de la etapa
)

// InventoryTransaction es una fila de auditoría inmutable del ledger.
// Invariante: StockAfter = StockBefore + Quantity (IN) o
// StockBefore - Quantity (OUT); sumando transacciones desde cero se debe
// reconstruir exactamente el CurrentStock de la etapa.
type InventoryTransaction struct {
	ID       string
	Stage    string
	Type     string
	Quantity decimal.Decimal // siempre > 0; el signo lo da Type

	StockBefore decimal.Decimal
	StockAfter  decimal.Decimal

	// Referencia opcional al registro de producción que la originó
	ProductionRecordID string

	Notes     string
	CreatedBy string // identidad opaca del operador
	Timestamp time.Time
}

// Signed devuelve la cantidad con signo según el tipo (IN positivo, OUT negativo).
func (t *InventoryTransaction) Signed() decimal.Decimal {
	if t.Type == TransactionOUT {
		return t.Quantity.Neg()
	}
	return t.Quantity
}
