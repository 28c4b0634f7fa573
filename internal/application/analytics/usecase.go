// Package analytics orquesta el motor de KPIs: trae la ventana de registros
// de los repositorios y delega el cálculo al motor puro del dominio. Todas las
// operaciones son de solo lectura y nunca bloquean a los escritores del ledger.
package analytics

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tulsipower/production-monitor/internal/application/dto"
	"github.com/tulsipower/production-monitor/internal/domain"
	domanalytics "github.com/tulsipower/production-monitor/internal/domain/analytics"
	"github.com/tulsipower/production-monitor/internal/domain/entity"
	"github.com/tulsipower/production-monitor/internal/domain/repository"
	"github.com/tulsipower/production-monitor/internal/domain/stagegraph"
)

// defaultWindowDays ventana por defecto del dashboard cuando no se pide rango.
const defaultWindowDays = 30

// DashboardUseCase consultas de analítica para el dashboard.
type DashboardUseCase struct {
	graph      *stagegraph.Graph
	recordRepo repository.ProductionRecordRepository
	batchRepo  repository.BatchRepository
	orderRepo  repository.OrderRepository
	thresholds domanalytics.Thresholds
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(
	graph *stagegraph.Graph,
	recordRepo repository.ProductionRecordRepository,
	batchRepo repository.BatchRepository,
	orderRepo repository.OrderRepository,
	thresholds domanalytics.Thresholds,
) *DashboardUseCase {
	return &DashboardUseCase{
		graph:      graph,
		recordRepo: recordRepo,
		batchRepo:  batchRepo,
		orderRepo:  orderRepo,
		thresholds: thresholds,
	}
}

func (uc *DashboardUseCase) window(in dto.DateRangeRequest) (time.Time, time.Time) {
	to := time.Now()
	if in.DateTo != nil {
		to = *in.DateTo
	}
	from := to.AddDate(0, 0, -defaultWindowDays)
	if in.DateFrom != nil {
		from = *in.DateFrom
	}
	return from, to
}

// Summary arma el resumen principal del dashboard: KPIs por etapa, eficiencia
// global, cuello de botella y contadores de bobinas y órdenes abiertas.
func (uc *DashboardUseCase) Summary(in dto.DateRangeRequest) (*dto.DashboardSummaryResponse, error) {
	from, to := uc.window(in)
	records, err := uc.recordRepo.ListWindow(from, to)
	if err != nil {
		return nil, err
	}

	resp := &dto.DashboardSummaryResponse{
		DateFrom:          from,
		DateTo:            to,
		OverallEfficiency: domanalytics.OverallEfficiency(records, uc.graph),
		TotalOutput:       decimal.Zero,
		TotalScrap:        decimal.Zero,
	}
	for _, def := range uc.graph.Stages() {
		if def.TrackingOnly {
			continue
		}
		stats := domanalytics.ComputeStageStats(records, def.Stage)
		resp.Stages = append(resp.Stages, toStageStatsResponse(stats, def.SequenceOrder))
		resp.TotalScrap = resp.TotalScrap.Add(stats.TotalScrap)
	}
	// La producción total del pipeline es el output de la etapa productiva
	// terminal (las extendidas no generan registros).
	terminal := domanalytics.ComputeStageStats(records, uc.graph.ProductionTerminal())
	resp.TotalOutput = terminal.TotalOutput

	if stage, ok := domanalytics.Bottleneck(records, uc.graph); ok {
		resp.BottleneckStage = &stage
	}

	active, err := uc.batchRepo.List(repository.BatchFilter{Status: entity.BatchStatusActive})
	if err != nil {
		return nil, err
	}
	resp.ActiveBatches = len(active)

	pending, err := uc.orderRepo.List(repository.OrderFilter{Status: entity.OrderStatusPending})
	if err != nil {
		return nil, err
	}
	inProgress, err := uc.orderRepo.List(repository.OrderFilter{Status: entity.OrderStatusInProgress})
	if err != nil {
		return nil, err
	}
	resp.OpenOrders = len(pending) + len(inProgress)
	return resp, nil
}

// ProcessFlow devuelve los KPIs por etapa más el WIP entre cada par adyacente.
// El WIP se reporta con signo: negativo señala sobre-consumo aguas abajo.
func (uc *DashboardUseCase) ProcessFlow(in dto.DateRangeRequest) (*dto.ProcessFlowResponse, error) {
	from, to := uc.window(in)
	records, err := uc.recordRepo.ListWindow(from, to)
	if err != nil {
		return nil, err
	}

	resp := &dto.ProcessFlowResponse{}
	for _, def := range uc.graph.Stages() {
		if def.TrackingOnly {
			continue
		}
		stats := domanalytics.ComputeStageStats(records, def.Stage)
		resp.Stages = append(resp.Stages, toStageStatsResponse(stats, def.SequenceOrder))
	}
	for _, pair := range uc.graph.AdjacentPairs() {
		resp.WIP = append(resp.WIP, dto.WIPEntryResponse{
			FromStage: pair[0],
			ToStage:   pair[1],
			Quantity:  domanalytics.WIP(records, pair[0], pair[1]),
		})
	}
	return resp, nil
}

// Alerts evalúa la ventana contra los umbrales por etapa y los globales.
func (uc *DashboardUseCase) Alerts(in dto.DateRangeRequest) ([]dto.AlertResponse, error) {
	from, to := uc.window(in)
	records, err := uc.recordRepo.ListWindow(from, to)
	if err != nil {
		return nil, err
	}

	alerts := domanalytics.GenerateAlerts(records, uc.graph, uc.thresholds)
	out := make([]dto.AlertResponse, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, dto.AlertResponse{
			Severity:    a.Severity,
			Stage:       a.Stage,
			Message:     a.Message,
			Date:        a.Date,
			Shift:       a.Shift,
			MetricValue: a.MetricValue,
		})
	}
	return out, nil
}

// Timeline devuelve la serie diaria de output y eficiencia, opcionalmente
// filtrada por etapa.
func (uc *DashboardUseCase) Timeline(in dto.DateRangeRequest, stage string) ([]dto.TimelinePointResponse, error) {
	if stage != "" && !uc.graph.Contains(stage) {
		return nil, domain.ErrUnknownStage
	}
	from, to := uc.window(in)
	records, err := uc.recordRepo.ListWindow(from, to)
	if err != nil {
		return nil, err
	}

	points := domanalytics.Timeline(records, stage)
	out := make([]dto.TimelinePointResponse, 0, len(points))
	for _, p := range points {
		out = append(out, dto.TimelinePointResponse{
			Date:          p.Date,
			Stage:         p.Stage,
			TotalOutput:   p.TotalOutput,
			AvgEfficiency: p.AvgEfficiency,
		})
	}
	return out, nil
}

// ScrapAnalysis devuelve la merma por etapa en la ventana.
func (uc *DashboardUseCase) ScrapAnalysis(in dto.DateRangeRequest) (*dto.ScrapAnalysisResponse, error) {
	from, to := uc.window(in)
	records, err := uc.recordRepo.ListWindow(from, to)
	if err != nil {
		return nil, err
	}

	resp := &dto.ScrapAnalysisResponse{TotalScrap: decimal.Zero}
	for _, stats := range domanalytics.ScrapByStage(records, uc.graph) {
		order := 0
		if def, ok := uc.graph.Definition(stats.Stage); ok {
			order = def.SequenceOrder
		}
		resp.Stages = append(resp.Stages, toStageStatsResponse(stats, order))
		resp.TotalScrap = resp.TotalScrap.Add(stats.TotalScrap)
	}
	return resp, nil
}

// StageDetail devuelve la definición de una etapa, sus KPIs de la ventana y
// sus últimos registros.
func (uc *DashboardUseCase) StageDetail(stage string, in dto.DateRangeRequest) (*dto.StageDetailResponse, error) {
	def, ok := uc.graph.Definition(stage)
	if !ok {
		return nil, domain.ErrUnknownStage
	}
	from, to := uc.window(in)
	records, err := uc.recordRepo.ListWindow(from, to)
	if err != nil {
		return nil, err
	}
	recent, err := uc.recordRepo.List(repository.RecordFilter{Stage: stage, Limit: 10})
	if err != nil {
		return nil, err
	}

	stats := domanalytics.ComputeStageStats(records, stage)
	resp := &dto.StageDetailResponse{
		Stage:             def.Stage,
		SequenceOrder:     def.SequenceOrder,
		ExpectedInputMM:   def.ExpectedInputSizeMM,
		ExpectedOutputMM:  def.ExpectedOutputSizeMM,
		MinEfficiency:     def.MinEfficiency,
		MaxLossPercentage: def.MaxLossPercentage,
		HasAnnealing:      def.HasAnnealing,
		Stats:             toStageStatsResponse(stats, def.SequenceOrder),
	}
	for _, r := range recent {
		resp.RecentRecords = append(resp.RecentRecords, toRecordResponse(r))
	}
	return resp, nil
}

func toStageStatsResponse(s domanalytics.StageStats, order int) dto.StageStatsResponse {
	return dto.StageStatsResponse{
		Stage:             s.Stage,
		SequenceOrder:     order,
		TotalInput:        s.TotalInput,
		TotalOutput:       s.TotalOutput,
		TotalScrap:        s.TotalScrap,
		AvgEfficiency:     s.AvgEfficiency,
		AvgLossPercentage: s.AvgLossPercentage,
		RecordCount:       s.RecordCount,
	}
}

func toRecordResponse(r *entity.ProductionRecord) dto.RecordResponse {
	return dto.RecordResponse{
		ID:             r.ID,
		Date:           r.Date,
		Shift:          r.Shift,
		Stage:          r.Stage,
		InputQty:       r.InputQty,
		OutputQty:      r.OutputQty,
		ScrapQty:       r.ScrapQty,
		InputSizeMM:    r.InputSizeMM,
		OutputSizeMM:   r.OutputSizeMM,
		Efficiency:     r.Efficiency,
		LossPercentage: r.LossPercentage,
		OperatorName:   r.OperatorName,
		Notes:          r.Notes,
		CreatedAt:      r.CreatedAt,
	}
}
