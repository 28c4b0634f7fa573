package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ApplyTransactionRequest entrada para registrar un IN/OUT manual sobre el
// stock de una etapa.
type ApplyTransactionRequest struct {
	Stage    string          `json:"stage" validate:"required"`
	Type     string          `json:"type" validate:"required,oneof=IN OUT"`
	Quantity decimal.Decimal `json:"quantity"`
	Notes    string          `json:"notes"`
}

// RecordMovementRequest entrada para trasladar material entre etapas.
// FromStage vacío significa recepción externa (solo pierna IN).
type RecordMovementRequest struct {
	FromStage  string           `json:"from_stage"`
	ToStage    string           `json:"to_stage" validate:"required"`
	Quantity   decimal.Decimal  `json:"quantity"`
	ScrapQty   decimal.Decimal  `json:"scrap_quantity"`
	WireSizeMM *decimal.Decimal `json:"wire_size_mm"`
	WireSWG    *int             `json:"wire_swg"`
	Notes      string           `json:"notes"`
}

// StageInventoryResponse stock de una etapa con su estado derivado.
type StageInventoryResponse struct {
	Stage         string           `json:"stage"`
	CurrentStock  decimal.Decimal  `json:"current_stock"`
	WireSizeMM    *decimal.Decimal `json:"wire_size_mm,omitempty"`
	WireSWG       *int             `json:"wire_swg,omitempty"`
	MinStockLevel decimal.Decimal  `json:"min_stock_level"`
	MaxStockLevel decimal.Decimal  `json:"max_stock_level"`
	StockStatus   string           `json:"stock_status"`
	Utilization   decimal.Decimal  `json:"utilization"`
	LastUpdated   time.Time        `json:"last_updated"`
}

// InventorySummaryResponse vista de inventario de todas las etapas.
type InventorySummaryResponse struct {
	Stages     []StageInventoryResponse `json:"stages"`
	TotalStock decimal.Decimal          `json:"total_stock"`
	LowStages  []string                 `json:"low_stages"`
	HighStages []string                 `json:"high_stages"`
}

// TransactionResponse una entrada del journal IN/OUT.
type TransactionResponse struct {
	ID                 string          `json:"id"`
	Stage              string          `json:"stage"`
	Type               string          `json:"type"`
	Quantity           decimal.Decimal `json:"quantity"`
	StockBefore        decimal.Decimal `json:"stock_before"`
	StockAfter         decimal.Decimal `json:"stock_after"`
	ProductionRecordID *string         `json:"production_record_id,omitempty"`
	Notes              string          `json:"notes,omitempty"`
	CreatedBy          string          `json:"created_by,omitempty"`
	Timestamp          time.Time       `json:"timestamp"`
}

// MovementResponse un traslado de material entre etapas.
type MovementResponse struct {
	ID            string           `json:"id"`
	FromStage     *string          `json:"from_stage"`
	ToStage       string           `json:"to_stage"`
	Quantity      decimal.Decimal  `json:"quantity"`
	ScrapQuantity decimal.Decimal  `json:"scrap_quantity"`
	WireSizeMM    *decimal.Decimal `json:"wire_size_mm,omitempty"`
	WireSWG       *int             `json:"wire_swg,omitempty"`
	BatchID       *string          `json:"batch_id,omitempty"`
	BatchNumber   *string          `json:"batch_number,omitempty"`
	MovementDate  time.Time        `json:"movement_date"`
	Notes         string           `json:"notes,omitempty"`
}

// InventoryAlertResponse alerta de stock bajo/alto por etapa.
type InventoryAlertResponse struct {
	Stage        string          `json:"stage"`
	Status       string          `json:"status"`
	CurrentStock decimal.Decimal `json:"current_stock"`
	Threshold    decimal.Decimal `json:"threshold"`
	Message      string          `json:"message"`
}

// SyncResponse resultado de la reconstrucción del stock por replay.
type SyncResponse struct {
	StagesUpdated  int       `json:"stages_updated"`
	TxnsReplayed   int       `json:"transactions_replayed"`
	FlooredStages  []string  `json:"floored_stages,omitempty"`
	CompletedAt    time.Time `json:"completed_at"`
}
