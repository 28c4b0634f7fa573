// Package batch implementa el ciclo de vida de las bobinas: alta, movimiento
// entre etapas con contabilidad de merma, pausas y recorrido. El movimiento es
// el único punto donde el tracker y el ledger de inventario deben coincidir;
// ambos se escriben en la misma transacción.
package batch

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tulsipower/production-monitor/internal/application/inventory"
	"github.com/tulsipower/production-monitor/internal/application/order"
	"github.com/tulsipower/production-monitor/internal/domain"
	"github.com/tulsipower/production-monitor/internal/domain/entity"
	"github.com/tulsipower/production-monitor/internal/domain/repository"
	"github.com/tulsipower/production-monitor/internal/domain/stagegraph"
)

// TrackerUseCase casos de uso de bobinas.
type TrackerUseCase struct {
	txRunner    TxRunner
	graph       *stagegraph.Graph
	ledger      *inventory.LedgerUseCase
	linkage     *order.LinkageUseCase
	batchRepo   repository.BatchRepository
	journeyRepo repository.BatchJourneyRepository
	orderRepo   repository.OrderRepository
}

// NewTrackerUseCase construye el caso de uso.
func NewTrackerUseCase(
	txRunner TxRunner,
	graph *stagegraph.Graph,
	ledger *inventory.LedgerUseCase,
	linkage *order.LinkageUseCase,
	batchRepo repository.BatchRepository,
	journeyRepo repository.BatchJourneyRepository,
	orderRepo repository.OrderRepository,
) *TrackerUseCase {
	return &TrackerUseCase{
		txRunner:    txRunner,
		graph:       graph,
		ledger:      ledger,
		linkage:     linkage,
		batchRepo:   batchRepo,
		journeyRepo: journeyRepo,
		orderRepo:   orderRepo,
	}
}

// CreateInput entrada para registrar una bobina entrante.
type CreateInput struct {
	BatchNumber  string
	LotNumber    string
	MaterialType string
	SupplierName string
	Quantity     decimal.Decimal
	// StageSequence opcional: si viene vacía se usa la secuencia completa del
	// pipeline.
	StageSequence []string
	OrderID       string
	ReceivedDate  *time.Time
	Notes         string
}

// Create registra una bobina nueva en estado ACTIVE, sin etapa asignada hasta
// su primer movimiento.
func (uc *TrackerUseCase) Create(in CreateInput) (*entity.Batch, error) {
	if in.BatchNumber == "" {
		return nil, domain.ErrInvalidInput
	}
	if !in.Quantity.IsPositive() {
		return nil, domain.ErrInvalidQuantity
	}
	existing, err := uc.batchRepo.GetByNumber(in.BatchNumber)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicateBatchNumber
	}

	sequence := in.StageSequence
	if len(sequence) == 0 {
		// Por defecto la bobina recorre solo las etapas productivas; las
		// extendidas (calidad, empaque, despacho) se piden explícitamente.
		sequence = uc.graph.ProductionSequence()
	}
	for _, s := range sequence {
		if !uc.graph.Contains(s) {
			return nil, domain.ErrUnknownStage
		}
	}
	if in.OrderID != "" {
		o, err := uc.orderRepo.GetByID(in.OrderID)
		if err != nil {
			return nil, err
		}
		if o == nil {
			return nil, domain.ErrNotFound
		}
	}

	now := time.Now()
	received := in.ReceivedDate
	if received == nil {
		received = &now
	}
	b := &entity.Batch{
		ID:                uuid.New().String(),
		BatchNumber:       in.BatchNumber,
		LotNumber:         in.LotNumber,
		MaterialType:      in.MaterialType,
		SupplierName:      in.SupplierName,
		Quantity:          in.Quantity,
		RemainingQuantity: in.Quantity,
		CurrentStage:      nil,
		CurrentStatus:     entity.BatchStatusActive,
		StageSequence:     append([]string(nil), sequence...),
		OrderID:           in.OrderID,
		ReceivedDate:      received,
		Notes:             in.Notes,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := uc.batchRepo.Create(b); err != nil {
		return nil, err
	}
	return b, nil
}

// MoveInput entrada para mover una bobina a una etapa.
type MoveInput struct {
	BatchID  string
	ToStage  string
	Quantity decimal.Decimal
	ScrapQty decimal.Decimal
	Operator string
	Notes    string
}

// Move avanza una bobina a la etapa destino de forma atómica: bloquea la fila
// de la bobina, aplica las dos piernas del ledger (OUT por cantidad + merma en
// el origen, IN por la cantidad neta en el destino), registra el journey event,
// actualiza la bobina y recalcula el avance de la orden vinculada. Si la
// bobina llega a su etapa terminal, deja también un registro de producción.
func (uc *TrackerUseCase) Move(ctx context.Context, in MoveInput) (*entity.Batch, error) {
	if !in.Quantity.IsPositive() {
		return nil, domain.ErrInvalidQuantity
	}
	if in.ScrapQty.IsNegative() {
		return nil, domain.ErrInvalidQuantity
	}

	var moved *entity.Batch
	err := uc.txRunner.Run(ctx, func(
		invRepo repository.StageInventoryRepository,
		txnRepo repository.InventoryTransactionRepository,
		movRepo repository.MaterialMovementRepository,
		batchRepo repository.BatchRepository,
		journeyRepo repository.BatchJourneyRepository,
		orderRepo repository.OrderRepository,
		recordRepo repository.ProductionRecordRepository,
	) error {
		b, err := batchRepo.GetByIDForUpdate(in.BatchID)
		if err != nil {
			return err
		}
		if b == nil {
			return domain.ErrNotFound
		}
		if b.IsConsumed() {
			return domain.ErrBatchConsumed
		}
		if b.IsOnHold() {
			return domain.ErrBatchOnHold
		}

		targetIdx := b.StageIndex(in.ToStage)
		if targetIdx < 0 {
			return domain.ErrInvalidStageTransition
		}
		skipped := 0
		if b.CurrentStage != nil {
			// Solo se rechaza retroceder; mover a la misma etapa es una
			// pierna de reproceso válida.
			currentIdx := b.StageIndex(*b.CurrentStage)
			if targetIdx < currentIdx {
				return domain.ErrInvalidStageTransition
			}
			if targetIdx > currentIdx {
				skipped = targetIdx - currentIdx - 1
			}
		} else {
			skipped = targetIdx
		}

		consumed := in.Quantity.Add(in.ScrapQty)
		if consumed.GreaterThan(b.RemainingQuantity) {
			return domain.ErrQuantityExceedsRemaining
		}

		now := time.Now()

		// Piernas del ledger en la misma tx: si fallan, el movimiento de la
		// bobina tampoco se escribe.
		fromStage := ""
		if b.CurrentStage != nil {
			fromStage = *b.CurrentStage
		}
		var wireSize *decimal.Decimal
		if def, ok := uc.graph.Definition(in.ToStage); ok {
			wireSize = def.ExpectedOutputSizeMM
		}
		if _, err := uc.ledger.ApplyMovementTx(invRepo, txnRepo, movRepo, inventory.MovementInput{
			FromStage:   fromStage,
			ToStage:     in.ToStage,
			Quantity:    in.Quantity,
			ScrapQty:    in.ScrapQty,
			WireSizeMM:  wireSize,
			BatchID:     b.ID,
			BatchNumber: b.BatchNumber,
			Notes:       in.Notes,
			CreatedBy:   in.Operator,
		}); err != nil {
			return err
		}

		notes := in.Notes
		if skipped > 0 {
			audit := "Salto de etapas: " + pluralEtapas(skipped) + " omitidas"
			if notes != "" {
				notes = notes + " | " + audit
			} else {
				notes = audit
			}
		}
		event := &entity.BatchJourneyEvent{
			ID:            uuid.New().String(),
			BatchID:       b.ID,
			FromStage:     b.CurrentStage,
			ToStage:       in.ToStage,
			Quantity:      in.Quantity,
			ScrapQuantity: in.ScrapQty,
			Operator:      in.Operator,
			Notes:         notes,
			MovementDate:  now,
		}
		if err := journeyRepo.Create(event); err != nil {
			return err
		}

		stage := in.ToStage
		b.CurrentStage = &stage
		b.RemainingQuantity = b.RemainingQuantity.Sub(consumed)
		if b.RemainingQuantity.IsZero() {
			b.CurrentStatus = entity.BatchStatusConsumed
		}
		b.UpdatedAt = now
		if err := batchRepo.Update(b); err != nil {
			return err
		}

		// Llegada a la última etapa productiva del recorrido: queda también
		// como producción del turno. Las etapas extendidas no producen.
		if in.ToStage == uc.lastProductionStage(b.StageSequence) {
			rec := &entity.ProductionRecord{
				ID:             uuid.New().String(),
				Date:           now,
				Shift:          shiftForTime(now),
				Stage:          in.ToStage,
				InputQty:       consumed,
				OutputQty:      in.Quantity,
				ScrapQty:       in.ScrapQty,
				OutputSizeMM:   wireSize,
				Efficiency:     entity.ComputeEfficiency(consumed, in.Quantity),
				LossPercentage: entity.ComputeLossPercentage(consumed, in.ScrapQty),
				OperatorName:   in.Operator,
				Notes:          "Bobina " + b.BatchNumber,
				CreatedAt:      now,
			}
			if err := recordRepo.Create(rec); err != nil {
				return err
			}
		}

		if b.OrderID != "" {
			if _, err := uc.linkage.RollupTx(orderRepo, batchRepo, journeyRepo, b.OrderID); err != nil {
				return err
			}
		}

		moved = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return moved, nil
}

// SetHold fija el estado de pausa pedido: hold=true pausa la bobina,
// hold=false la reanuda. Si ya está en ese estado no escribe nada. La razón
// es opcional y queda en el historial de pausas.
func (uc *TrackerUseCase) SetHold(batchID string, hold bool, reason string) (*entity.Batch, error) {
	b, err := uc.batchRepo.GetByID(batchID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, domain.ErrNotFound
	}
	if b.IsConsumed() {
		return nil, domain.ErrBatchConsumed
	}
	if hold == b.IsOnHold() {
		return b, nil
	}

	now := time.Now()
	if hold {
		b.CurrentStatus = entity.BatchStatusOnHold
		b.HoldHistory = append(b.HoldHistory, entity.HoldEntry{
			Action:    entity.HoldActionHold,
			Reason:    reason,
			Timestamp: now,
		})
	} else {
		b.CurrentStatus = entity.BatchStatusActive
		b.HoldHistory = append(b.HoldHistory, entity.HoldEntry{
			Action:    entity.HoldActionResume,
			Reason:    reason,
			Timestamp: now,
		})
	}
	b.UpdatedAt = now
	if err := uc.batchRepo.Update(b); err != nil {
		return nil, err
	}
	return b, nil
}

// Get devuelve una bobina con su recorrido completo.
func (uc *TrackerUseCase) Get(batchID string) (*entity.Batch, []*entity.BatchJourneyEvent, error) {
	b, err := uc.batchRepo.GetByID(batchID)
	if err != nil {
		return nil, nil, err
	}
	if b == nil {
		return nil, nil, domain.ErrNotFound
	}
	journey, err := uc.journeyRepo.ListByBatch(batchID)
	if err != nil {
		return nil, nil, err
	}
	return b, journey, nil
}

// List devuelve las bobinas según filtro.
func (uc *TrackerUseCase) List(filter repository.BatchFilter) ([]*entity.Batch, error) {
	return uc.batchRepo.List(filter)
}

// shiftForTime deriva el turno del reloj de planta: 06-14 mañana, 14-22
// tarde, resto noche.
// lastProductionStage devuelve la última etapa productiva de la secuencia
// ("" si ninguna lo es).
func (uc *TrackerUseCase) lastProductionStage(sequence []string) string {
	last := ""
	for _, s := range sequence {
		if def, ok := uc.graph.Definition(s); ok && !def.TrackingOnly {
			last = s
		}
	}
	return last
}

func shiftForTime(t time.Time) string {
	h := t.Hour()
	switch {
	case h >= 6 && h < 14:
		return entity.ShiftMorning
	case h >= 14 && h < 22:
		return entity.ShiftAfternoon
	default:
		return entity.ShiftNight
	}
}

func pluralEtapas(n int) string {
	if n == 1 {
		return "1 etapa"
	}
	return strconv.Itoa(n) + " etapas"
}
