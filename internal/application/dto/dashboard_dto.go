package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateRangeRequest rango de fechas para consultas de analítica.
type DateRangeRequest struct {
	DateFrom *time.Time `query:"date_from"`
	DateTo   *time.Time `query:"date_to"`
}

// StageStatsResponse KPIs de una etapa en la ventana consultada.
type StageStatsResponse struct {
	Stage             string          `json:"stage"`
	SequenceOrder     int             `json:"sequence_order"`
	TotalInput        decimal.Decimal `json:"total_input"`
	TotalOutput       decimal.Decimal `json:"total_output"`
	TotalScrap        decimal.Decimal `json:"total_scrap"`
	AvgEfficiency     decimal.Decimal `json:"avg_efficiency"`
	AvgLossPercentage decimal.Decimal `json:"avg_loss_percentage"`
	RecordCount       int             `json:"record_count"`
}

// DashboardSummaryResponse KPIs del pipeline completo.
type DashboardSummaryResponse struct {
	DateFrom          time.Time            `json:"date_from"`
	DateTo            time.Time            `json:"date_to"`
	OverallEfficiency decimal.Decimal      `json:"overall_efficiency"`
	TotalOutput       decimal.Decimal      `json:"total_output"`
	TotalScrap        decimal.Decimal      `json:"total_scrap"`
	BottleneckStage   *string              `json:"bottleneck_stage"`
	Stages            []StageStatsResponse `json:"stages"`
	ActiveBatches     int                  `json:"active_batches"`
	OpenOrders        int                  `json:"open_orders"`
}

// WIPEntryResponse material en tránsito entre dos etapas adyacentes.
// Quantity puede ser negativa: señala sobre-consumo aguas abajo.
type WIPEntryResponse struct {
	FromStage string          `json:"from_stage"`
	ToStage   string          `json:"to_stage"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// ProcessFlowResponse flujo del pipeline: KPIs por etapa más el WIP entre
// cada par adyacente.
type ProcessFlowResponse struct {
	Stages []StageStatsResponse `json:"stages"`
	WIP    []WIPEntryResponse   `json:"wip"`
}

// AlertResponse alerta de producción.
type AlertResponse struct {
	Severity    string          `json:"severity"`
	Stage       string          `json:"stage"`
	Message     string          `json:"message"`
	Date        time.Time       `json:"date"`
	Shift       string          `json:"shift,omitempty"`
	MetricValue decimal.Decimal `json:"metric_value"`
}

// TimelinePointResponse punto de la serie diaria.
type TimelinePointResponse struct {
	Date          time.Time       `json:"date"`
	Stage         string          `json:"stage"`
	TotalOutput   decimal.Decimal `json:"total_output"`
	AvgEfficiency decimal.Decimal `json:"avg_efficiency"`
}

// ScrapAnalysisResponse merma total por etapa en la ventana.
type ScrapAnalysisResponse struct {
	Stages     []StageStatsResponse `json:"stages"`
	TotalScrap decimal.Decimal      `json:"total_scrap"`
}

// StageDetailResponse detalle de una etapa: definición, KPIs y últimos registros.
type StageDetailResponse struct {
	Stage             string             `json:"stage"`
	SequenceOrder     int                `json:"sequence_order"`
	ExpectedInputMM   *decimal.Decimal   `json:"expected_input_mm,omitempty"`
	ExpectedOutputMM  *decimal.Decimal   `json:"expected_output_mm,omitempty"`
	MinEfficiency     decimal.Decimal    `json:"min_efficiency"`
	MaxLossPercentage decimal.Decimal    `json:"max_loss_percentage"`
	HasAnnealing      bool               `json:"has_annealing"`
	Stats             StageStatsResponse `json:"stats"`
	RecentRecords     []RecordResponse   `json:"recent_records"`
}

// StageConfigResponse definición inmutable de una etapa del pipeline.
type StageConfigResponse struct {
	Stage             string           `json:"stage"`
	SequenceOrder     int              `json:"sequence_order"`
	ExpectedInputMM   *decimal.Decimal `json:"expected_input_mm,omitempty"`
	ExpectedOutputMM  *decimal.Decimal `json:"expected_output_mm,omitempty"`
	MinEfficiency     decimal.Decimal  `json:"min_efficiency"`
	MaxLossPercentage decimal.Decimal  `json:"max_loss_percentage"`
	HasAnnealing      bool             `json:"has_annealing"`
}
