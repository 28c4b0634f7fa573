package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tulsipower/production-monitor/internal/domain/entity"
)

// CreateBatchRequest entrada para registrar una bobina entrante.
type CreateBatchRequest struct {
	BatchNumber  string          `json:"batch_number" validate:"required,min=1,max=50"`
	LotNumber    string          `json:"lot_number"`
	MaterialType string          `json:"material_type"`
	SupplierName string          `json:"supplier_name"`
	Quantity     decimal.Decimal `json:"quantity"`
	// StageSequence opcional: vacía usa las etapas productivas del pipeline.
	StageSequence []string   `json:"stage_sequence"`
	OrderID       string     `json:"order_id"`
	ReceivedDate  *time.Time `json:"received_date"`
	Notes         string     `json:"notes"`
}

// MoveBatchRequest entrada para mover una bobina a una etapa.
type MoveBatchRequest struct {
	ToStage  string          `json:"to_stage" validate:"required"`
	Quantity decimal.Decimal `json:"quantity"`
	ScrapQty decimal.Decimal `json:"scrap_quantity"`
	Operator string          `json:"operator"`
	Notes    string          `json:"notes"`
}

// SetHoldRequest entrada para pausar o reanudar una bobina: hold true pausa,
// false reanuda. La razón es opcional.
type SetHoldRequest struct {
	Hold   bool   `json:"hold"`
	Reason string `json:"reason" validate:"max=500"`
}

// BatchResponse salida de una bobina.
type BatchResponse struct {
	ID                string                 `json:"id"`
	BatchNumber       string                 `json:"batch_number"`
	LotNumber         string                 `json:"lot_number,omitempty"`
	MaterialType      string                 `json:"material_type,omitempty"`
	SupplierName      string                 `json:"supplier_name,omitempty"`
	Quantity          decimal.Decimal        `json:"quantity"`
	RemainingQuantity decimal.Decimal        `json:"remaining_quantity"`
	CurrentStage      *string                `json:"current_stage"`
	CurrentStatus     string                 `json:"current_status"`
	StageSequence     []string               `json:"stage_sequence"`
	Progress          entity.JourneyProgress `json:"progress"`
	HoldHistory       []entity.HoldEntry     `json:"hold_history,omitempty"`
	OrderID           string                 `json:"order_id,omitempty"`
	ReceivedDate      time.Time              `json:"received_date"`
	Notes             string                 `json:"notes,omitempty"`
	CreatedAt         time.Time              `json:"created_at"`
	UpdatedAt         time.Time              `json:"updated_at"`
}

// JourneyEventResponse un paso del recorrido de la bobina.
type JourneyEventResponse struct {
	ID            string          `json:"id"`
	FromStage     *string         `json:"from_stage"`
	ToStage       string          `json:"to_stage"`
	Quantity      decimal.Decimal `json:"quantity"`
	ScrapQuantity decimal.Decimal `json:"scrap_quantity"`
	Operator      string          `json:"operator,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	MovementDate  time.Time       `json:"movement_date"`
}

// BatchJourneyResponse bobina más su historial completo.
type BatchJourneyResponse struct {
	Batch   BatchResponse          `json:"batch"`
	Journey []JourneyEventResponse `json:"journey"`
}

// ListBatchesRequest filtros de listado de bobinas.
type ListBatchesRequest struct {
	Status  string `query:"status"`
	Stage   string `query:"stage"`
	OrderID string `query:"order_id"`
	PageRequest
}

// BatchListResponse lista paginada de bobinas.
type BatchListResponse struct {
	Items []BatchResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}
