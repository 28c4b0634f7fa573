package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateRecordRequest entrada para registrar producción de un turno.
type CreateRecordRequest struct {
	Date         time.Time        `json:"date" validate:"required"`
	Shift        string           `json:"shift" validate:"required,oneof=Morning Afternoon Night"`
	Stage        string           `json:"stage" validate:"required"`
	InputQty     decimal.Decimal  `json:"input_quantity"`
	OutputQty    decimal.Decimal  `json:"output_quantity"`
	ScrapQty     decimal.Decimal  `json:"scrap_quantity"`
	InputSizeMM  *decimal.Decimal `json:"input_size_mm"`
	OutputSizeMM *decimal.Decimal `json:"output_size_mm"`
	OperatorName string           `json:"operator_name"`
	Notes        string           `json:"notes"`
}

// RecordResponse salida de un registro de producción.
type RecordResponse struct {
	ID             string           `json:"id"`
	Date           time.Time        `json:"date"`
	Shift          string           `json:"shift"`
	Stage          string           `json:"stage"`
	InputQty       decimal.Decimal  `json:"input_quantity"`
	OutputQty      decimal.Decimal  `json:"output_quantity"`
	ScrapQty       decimal.Decimal  `json:"scrap_quantity"`
	InputSizeMM    *decimal.Decimal `json:"input_size_mm,omitempty"`
	OutputSizeMM   *decimal.Decimal `json:"output_size_mm,omitempty"`
	Efficiency     decimal.Decimal  `json:"efficiency"`
	LossPercentage decimal.Decimal  `json:"loss_percentage"`
	OperatorName   string           `json:"operator_name,omitempty"`
	Notes          string           `json:"notes,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
}

// ListRecordsRequest filtros de listado de registros.
type ListRecordsRequest struct {
	Stage    string     `query:"stage"`
	Shift    string     `query:"shift"`
	DateFrom *time.Time `query:"date_from"`
	DateTo   *time.Time `query:"date_to"`
	PageRequest
}

// RecordListResponse lista paginada de registros.
type RecordListResponse struct {
	Items []RecordResponse `json:"items"`
	Page  PageResponse     `json:"page"`
}

// QuickStatsResponse resumen rápido del día para la pantalla de captura.
type QuickStatsResponse struct {
	Date            time.Time       `json:"date"`
	TotalOutput     decimal.Decimal `json:"total_output"`
	TotalScrap      decimal.Decimal `json:"total_scrap"`
	AvgEfficiency   decimal.Decimal `json:"avg_efficiency"`
	RecordCount     int             `json:"record_count"`
	ShiftsReporting []string        `json:"shifts_reporting"`
}
