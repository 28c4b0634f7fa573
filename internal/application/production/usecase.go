// Package production implementa la captura de producción por turno. Cada
// registro es inmutable: las correcciones se hacen con un registro nuevo,
// nunca editando el existente.
package production

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tulsipower/production-monitor/internal/application/dto"
	"github.com/tulsipower/production-monitor/internal/application/inventory"
	"github.com/tulsipower/production-monitor/internal/domain"
	"github.com/tulsipower/production-monitor/internal/domain/entity"
	"github.com/tulsipower/production-monitor/internal/domain/repository"
	"github.com/tulsipower/production-monitor/internal/domain/stagegraph"
)

// RecordUseCase casos de uso de registros de producción.
type RecordUseCase struct {
	txRunner   TxRunner
	graph      *stagegraph.Graph
	ledger     *inventory.LedgerUseCase
	recordRepo repository.ProductionRecordRepository
}

// NewRecordUseCase construye el caso de uso.
func NewRecordUseCase(
	txRunner TxRunner,
	graph *stagegraph.Graph,
	ledger *inventory.LedgerUseCase,
	recordRepo repository.ProductionRecordRepository,
) *RecordUseCase {
	return &RecordUseCase{
		txRunner:   txRunner,
		graph:      graph,
		ledger:     ledger,
		recordRepo: recordRepo,
	}
}

// Create registra la producción de un turno y suma el output al stock de la
// etapa en la misma transacción. Los derivados (eficiencia, merma) se calculan
// aquí, en el momento de la escritura, y no se recalculan después.
func (uc *RecordUseCase) Create(ctx context.Context, in dto.CreateRecordRequest) (*entity.ProductionRecord, error) {
	def, ok := uc.graph.Definition(in.Stage)
	if !ok {
		return nil, domain.ErrUnknownStage
	}
	if def.TrackingOnly {
		// Las etapas extendidas registran recorrido de bobinas, no producción.
		return nil, domain.ErrUnknownStage
	}
	if !entity.ValidShift(in.Shift) {
		return nil, domain.ErrInvalidShift
	}
	if in.InputQty.IsNegative() || in.OutputQty.IsNegative() || in.ScrapQty.IsNegative() {
		return nil, domain.ErrInvalidQuantity
	}
	if in.OutputQty.Add(in.ScrapQty).GreaterThan(in.InputQty) {
		return nil, domain.ErrInvalidQuantity
	}

	now := time.Now()
	rec := &entity.ProductionRecord{
		ID:             uuid.New().String(),
		Date:           in.Date,
		Shift:          in.Shift,
		Stage:          in.Stage,
		InputQty:       in.InputQty,
		OutputQty:      in.OutputQty,
		ScrapQty:       in.ScrapQty,
		InputSizeMM:    in.InputSizeMM,
		OutputSizeMM:   in.OutputSizeMM,
		Efficiency:     entity.ComputeEfficiency(in.InputQty, in.OutputQty),
		LossPercentage: entity.ComputeLossPercentage(in.InputQty, in.ScrapQty),
		OperatorName:   in.OperatorName,
		Notes:          in.Notes,
		CreatedAt:      now,
	}

	err := uc.txRunner.Run(ctx, func(
		invRepo repository.StageInventoryRepository,
		txnRepo repository.InventoryTransactionRepository,
		recordRepo repository.ProductionRecordRepository,
	) error {
		if err := recordRepo.Create(rec); err != nil {
			return err
		}
		if !rec.OutputQty.IsPositive() {
			return nil
		}
		_, err := uc.ledger.ApplyTransactionTx(invRepo, txnRepo, inventory.TransactionInput{
			Stage:              rec.Stage,
			Type:               entity.TransactionIN,
			Quantity:           rec.OutputQty,
			ProductionRecordID: rec.ID,
			Notes:              "Producción turno " + rec.Shift,
			CreatedBy:          rec.OperatorName,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// List devuelve registros según filtro, más recientes primero.
func (uc *RecordUseCase) List(filter repository.RecordFilter) ([]*entity.ProductionRecord, error) {
	if filter.Stage != "" && !uc.graph.Contains(filter.Stage) {
		return nil, domain.ErrUnknownStage
	}
	if filter.Shift != "" && !entity.ValidShift(filter.Shift) {
		return nil, domain.ErrInvalidShift
	}
	return uc.recordRepo.List(filter)
}

// Get devuelve un registro por id.
func (uc *RecordUseCase) Get(id string) (*entity.ProductionRecord, error) {
	rec, err := uc.recordRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, domain.ErrNotFound
	}
	return rec, nil
}

// QuickStats resume la producción de un día para la pantalla de captura.
func (uc *RecordUseCase) QuickStats(day time.Time) (*dto.QuickStatsResponse, error) {
	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	to := from.Add(24*time.Hour - time.Nanosecond)
	records, err := uc.recordRepo.ListWindow(from, to)
	if err != nil {
		return nil, err
	}

	totalOutput := decimal.Zero
	totalScrap := decimal.Zero
	totalInput := decimal.Zero
	shiftSet := make(map[string]bool)
	for _, r := range records {
		totalOutput = totalOutput.Add(r.OutputQty)
		totalScrap = totalScrap.Add(r.ScrapQty)
		totalInput = totalInput.Add(r.InputQty)
		shiftSet[r.Shift] = true
	}

	shifts := make([]string, 0, 3)
	for _, s := range []string{entity.ShiftMorning, entity.ShiftAfternoon, entity.ShiftNight} {
		if shiftSet[s] {
			shifts = append(shifts, s)
		}
	}

	return &dto.QuickStatsResponse{
		Date:            from,
		TotalOutput:     totalOutput,
		TotalScrap:      totalScrap,
		AvgEfficiency:   entity.ComputeEfficiency(totalInput, totalOutput),
		RecordCount:     len(records),
		ShiftsReporting: shifts,
	}, nil
}
