package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateOrderRequest entrada para registrar una orden de cliente.
type CreateOrderRequest struct {
	OrderNumber          string           `json:"order_number" validate:"required,min=1,max=50"`
	CustomerName         string           `json:"customer_name" validate:"required,min=1,max=200"`
	ProductSpecification string           `json:"product_specification"`
	TargetWireSizeMM     *decimal.Decimal `json:"target_wire_size_mm"`
	OrderedQuantity      decimal.Decimal  `json:"ordered_quantity"`
	Priority             int              `json:"priority" validate:"omitempty,min=1,max=3"`
	OrderDate            *time.Time       `json:"order_date"`
	ExpectedDeliveryDate *time.Time       `json:"expected_delivery_date"`
	Notes                string           `json:"notes"`
}

// UpdateOrderStatusRequest cambio manual de estado de una orden.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=PENDING IN_PROGRESS COMPLETED CANCELLED"`
	Notes  string `json:"notes"`
}

// OrderResponse salida de una orden.
type OrderResponse struct {
	ID                   string           `json:"id"`
	OrderNumber          string           `json:"order_number"`
	CustomerName         string           `json:"customer_name"`
	ProductSpecification string           `json:"product_specification,omitempty"`
	TargetWireSizeMM     *decimal.Decimal `json:"target_wire_size_mm,omitempty"`
	OrderedQuantity      decimal.Decimal  `json:"ordered_quantity"`
	CompletedQuantity    decimal.Decimal  `json:"completed_quantity"`
	CompletionPercentage decimal.Decimal  `json:"completion_percentage"`
	Status               string           `json:"status"`
	CurrentStage         *string          `json:"current_stage"`
	Priority             int              `json:"priority"`
	OrderDate            time.Time        `json:"order_date"`
	ExpectedDeliveryDate *time.Time       `json:"expected_delivery_date,omitempty"`
	ActualDeliveryDate   *time.Time       `json:"actual_delivery_date,omitempty"`
	Notes                string           `json:"notes,omitempty"`
	CreatedAt            time.Time        `json:"created_at"`
	UpdatedAt            time.Time        `json:"updated_at"`
}

// OrderStageProgress avance de una orden desglosado por etapa.
type OrderStageProgress struct {
	Stage       string          `json:"stage"`
	Quantity    decimal.Decimal `json:"quantity"`
	ScrapQty    decimal.Decimal `json:"scrap_quantity"`
	BatchCount  int             `json:"batch_count"`
}

// OrderDetailResponse orden con bobinas vinculadas y avance por etapa.
type OrderDetailResponse struct {
	Order         OrderResponse        `json:"order"`
	Batches       []BatchResponse      `json:"batches"`
	StageProgress []OrderStageProgress `json:"stage_progress"`
}

// ListOrdersRequest filtros de listado de órdenes.
type ListOrdersRequest struct {
	Status   string `query:"status"`
	Customer string `query:"customer"`
	PageRequest
}

// OrderListResponse lista paginada de órdenes.
type OrderListResponse struct {
	Items []OrderResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}
