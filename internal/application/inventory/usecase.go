package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tulsipower/production-monitor/internal/domain"
	"github.com/tulsipower/production-monitor/internal/domain/entity"
	"github.com/tulsipower/production-monitor/internal/domain/repository"
	"github.com/tulsipower/production-monitor/internal/domain/stagegraph"
	"github.com/tulsipower/production-monitor/pkg/logger"
)

// StockDefaults niveles mín/máx aplicados al crear la fila de stock de una
// etapa que aún no tiene inventario.
type StockDefaults struct {
	MinLevel decimal.Decimal
	MaxLevel decimal.Decimal
}

// LedgerUseCase es el motor del ledger de inventario: aplica transacciones
// IN/OUT con bloqueo de fila (SELECT FOR UPDATE), registra traslados entre
// etapas de forma atómica y reconstruye el stock por replay del journal.
type LedgerUseCase struct {
	txRunner TxRunner
	graph    *stagegraph.Graph
	invRepo  repository.StageInventoryRepository
	txnRepo  repository.InventoryTransactionRepository
	movRepo  repository.MaterialMovementRepository
	defaults StockDefaults
	log      *logger.Logger
}

// NewLedgerUseCase construye el caso de uso del ledger.
func NewLedgerUseCase(
	txRunner TxRunner,
	graph *stagegraph.Graph,
	invRepo repository.StageInventoryRepository,
	txnRepo repository.InventoryTransactionRepository,
	movRepo repository.MaterialMovementRepository,
	defaults StockDefaults,
	log *logger.Logger,
) *LedgerUseCase {
	return &LedgerUseCase{
		txRunner: txRunner,
		graph:    graph,
		invRepo:  invRepo,
		txnRepo:  txnRepo,
		movRepo:  movRepo,
		defaults: defaults,
		log:      log,
	}
}

// TransactionInput entrada para aplicar un IN/OUT sobre el stock de una etapa.
type TransactionInput struct {
	Stage              string
	Type               string // IN | OUT
	Quantity           decimal.Decimal
	ProductionRecordID string
	Notes              string
	CreatedBy          string
}

// ApplyTransaction aplica un IN/OUT de forma transaccional: bloquea la fila de
// stock, valida fondos (OUT nunca deja stock negativo) y escribe la entrada
// del journal con el before/after capturado bajo el lock.
func (uc *LedgerUseCase) ApplyTransaction(ctx context.Context, in TransactionInput) (*entity.InventoryTransaction, error) {
	if !uc.graph.Contains(in.Stage) {
		return nil, domain.ErrUnknownStage
	}
	if in.Type != entity.TransactionIN && in.Type != entity.TransactionOUT {
		return nil, domain.ErrInvalidInput
	}
	if !in.Quantity.IsPositive() {
		return nil, domain.ErrInvalidQuantity
	}

	var txn *entity.InventoryTransaction
	err := uc.txRunner.Run(ctx, func(
		invRepo repository.StageInventoryRepository,
		txnRepo repository.InventoryTransactionRepository,
		_ repository.MaterialMovementRepository,
	) error {
		var err error
		txn, err = uc.applyTxn(invRepo, txnRepo, in, time.Now())
		return err
	})
	if err != nil {
		return nil, err
	}
	return txn, nil
}

// ApplyTransactionTx es la variante de ApplyTransaction para repos ya atados a
// una transacción abierta; la usan los casos de uso que acoplan el ledger a
// otras escrituras (registro de producción).
func (uc *LedgerUseCase) ApplyTransactionTx(
	invRepo repository.StageInventoryRepository,
	txnRepo repository.InventoryTransactionRepository,
	in TransactionInput,
) (*entity.InventoryTransaction, error) {
	if !uc.graph.Contains(in.Stage) {
		return nil, domain.ErrUnknownStage
	}
	if !in.Quantity.IsPositive() {
		return nil, domain.ErrInvalidQuantity
	}
	return uc.applyTxn(invRepo, txnRepo, in, time.Now())
}

// applyTxn es la pierna atómica del ledger: debe ejecutarse con una tx abierta
// y repos atados a ella. Bloquea la fila de stock antes de leer el saldo.
func (uc *LedgerUseCase) applyTxn(
	invRepo repository.StageInventoryRepository,
	txnRepo repository.InventoryTransactionRepository,
	in TransactionInput,
	now time.Time,
) (*entity.InventoryTransaction, error) {
	inv, err := invRepo.GetForUpdate(in.Stage)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		// Sin fila no hay qué bloquear: se materializa primero y se vuelve a
		// tomar el lock para que dos primeras escrituras se serialicen.
		if err := invRepo.Ensure(uc.newStageInventory(in.Stage, now)); err != nil {
			return nil, err
		}
		if inv, err = invRepo.GetForUpdate(in.Stage); err != nil {
			return nil, err
		}
	}

	before := inv.CurrentStock
	var after decimal.Decimal
	switch in.Type {
	case entity.TransactionIN:
		after = before.Add(in.Quantity)
	case entity.TransactionOUT:
		if before.LessThan(in.Quantity) {
			return nil, domain.ErrInsufficientStock
		}
		after = before.Sub(in.Quantity)
	default:
		return nil, domain.ErrInvalidInput
	}

	inv.CurrentStock = after
	inv.LastUpdated = now
	if err := invRepo.Upsert(inv); err != nil {
		return nil, err
	}

	txn := &entity.InventoryTransaction{
		ID:                 uuid.New().String(),
		Stage:              in.Stage,
		Type:               in.Type,
		Quantity:           in.Quantity,
		StockBefore:        before,
		StockAfter:         after,
		ProductionRecordID: in.ProductionRecordID,
		Notes:              in.Notes,
		CreatedBy:          in.CreatedBy,
		Timestamp:          now,
	}
	if err := txnRepo.Create(txn); err != nil {
		return nil, err
	}
	return txn, nil
}

// MovementInput entrada para trasladar material entre etapas.
// FromStage vacío significa recepción externa (solo pierna IN).
type MovementInput struct {
	FromStage   string
	ToStage     string
	Quantity    decimal.Decimal
	ScrapQty    decimal.Decimal
	WireSizeMM  *decimal.Decimal
	WireSWG     *int
	BatchID     string
	BatchNumber string
	Notes       string
	CreatedBy   string
}

// RecordMovement traslada material entre etapas en UNA transacción:
// OUT en origen por (cantidad + merma) e IN en destino por la cantidad neta.
// Si cualquier pierna falla, nada queda escrito.
func (uc *LedgerUseCase) RecordMovement(ctx context.Context, in MovementInput) (*entity.MaterialMovement, error) {
	var mov *entity.MaterialMovement
	err := uc.txRunner.Run(ctx, func(
		invRepo repository.StageInventoryRepository,
		txnRepo repository.InventoryTransactionRepository,
		movRepo repository.MaterialMovementRepository,
	) error {
		var err error
		mov, err = uc.ApplyMovementTx(invRepo, txnRepo, movRepo, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	return mov, nil
}

// ApplyMovementTx ejecuta ambas piernas del traslado con repos ya atados a una
// tx abierta. Expuesto para casos de uso que necesitan acoplar el traslado a
// otras escrituras en la misma transacción (movimiento de bobinas).
func (uc *LedgerUseCase) ApplyMovementTx(
	invRepo repository.StageInventoryRepository,
	txnRepo repository.InventoryTransactionRepository,
	movRepo repository.MaterialMovementRepository,
	in MovementInput,
) (*entity.MaterialMovement, error) {
	if !uc.graph.Contains(in.ToStage) {
		return nil, domain.ErrUnknownStage
	}
	if in.FromStage != "" && !uc.graph.Contains(in.FromStage) {
		return nil, domain.ErrUnknownStage
	}
	if !in.Quantity.IsPositive() {
		return nil, domain.ErrInvalidQuantity
	}
	if in.ScrapQty.IsNegative() {
		return nil, domain.ErrInvalidQuantity
	}

	now := time.Now()

	// Pierna OUT: el origen entrega cantidad neta + merma (la merma sale del
	// stock del origen aunque no llegue al destino).
	if in.FromStage != "" {
		outQty := in.Quantity.Add(in.ScrapQty)
		if _, err := uc.applyTxn(invRepo, txnRepo, TransactionInput{
			Stage:     in.FromStage,
			Type:      entity.TransactionOUT,
			Quantity:  outQty,
			Notes:     "Traslado a " + in.ToStage,
			CreatedBy: in.CreatedBy,
		}, now); err != nil {
			return nil, err
		}
	}

	// Pierna IN: el destino recibe solo la cantidad neta.
	inNotes := "Recepción externa"
	if in.FromStage != "" {
		inNotes = "Traslado desde " + in.FromStage
	}
	if _, err := uc.applyTxn(invRepo, txnRepo, TransactionInput{
		Stage:     in.ToStage,
		Type:      entity.TransactionIN,
		Quantity:  in.Quantity,
		Notes:     inNotes,
		CreatedBy: in.CreatedBy,
	}, now); err != nil {
		return nil, err
	}

	var fromStage *string
	if in.FromStage != "" {
		fromStage = &in.FromStage
	}
	mov := &entity.MaterialMovement{
		ID:            uuid.New().String(),
		FromStage:     fromStage,
		ToStage:       in.ToStage,
		Quantity:      in.Quantity,
		ScrapQuantity: in.ScrapQty,
		WireSizeMM:    in.WireSizeMM,
		WireSizeSWG:   in.WireSWG,
		BatchID:       in.BatchID,
		BatchNumber:   in.BatchNumber,
		MovementDate:  now,
		Notes:         in.Notes,
	}
	if err := movRepo.Create(mov); err != nil {
		return nil, err
	}
	return mov, nil
}

// Summary devuelve el stock por etapa en orden de pipeline. Las etapas
// productivas sin fila aparecen con stock cero (no se persisten); las de solo
// seguimiento se listan únicamente cuando tienen fila.
func (uc *LedgerUseCase) Summary() ([]*entity.StageInventory, error) {
	existing, err := uc.invRepo.List()
	if err != nil {
		return nil, err
	}
	byStage := make(map[string]*entity.StageInventory, len(existing))
	for _, inv := range existing {
		byStage[inv.Stage] = inv
	}

	out := make([]*entity.StageInventory, 0, len(uc.graph.Sequence()))
	for _, def := range uc.graph.Stages() {
		if inv, ok := byStage[def.Stage]; ok {
			out = append(out, inv)
			continue
		}
		// Las etapas de solo seguimiento aparecen únicamente cuando ya
		// acumularon stock; las productivas siempre.
		if def.TrackingOnly {
			continue
		}
		out = append(out, uc.newStageInventory(def.Stage, time.Time{}))
	}
	return out, nil
}

// InitializeStages materializa la fila de stock de cada etapa productiva que
// aún no la tiene. Se ejecuta al arranque: con todas las filas presentes,
// GetForUpdate siempre tiene qué bloquear y las primeras escrituras
// concurrentes sobre una etapa quedan serializadas.
func (uc *LedgerUseCase) InitializeStages() error {
	now := time.Now()
	for _, stage := range uc.graph.ProductionSequence() {
		if err := uc.invRepo.Ensure(uc.newStageInventory(stage, now)); err != nil {
			return err
		}
	}
	return nil
}

// Stage devuelve el stock de una sola etapa. Si la etapa aún no tiene fila
// persistida responde el snapshot con stock cero y umbrales por defecto.
func (uc *LedgerUseCase) Stage(stage string) (*entity.StageInventory, error) {
	if !uc.graph.Contains(stage) {
		return nil, domain.ErrUnknownStage
	}
	inv, err := uc.invRepo.Get(stage)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		inv = uc.newStageInventory(stage, time.Time{})
	}
	return inv, nil
}

// StockAlert alerta de nivel de stock de una etapa.
type StockAlert struct {
	Stage        string
	Status       string
	CurrentStock decimal.Decimal
	Threshold    decimal.Decimal
	Message      string
}

// Alerts devuelve las etapas fuera de rango (LOW o HIGH) según sus niveles
// mín/máx configurados.
func (uc *LedgerUseCase) Alerts() ([]StockAlert, error) {
	stages, err := uc.Summary()
	if err != nil {
		return nil, err
	}
	var alerts []StockAlert
	for _, inv := range stages {
		switch inv.StockStatus() {
		case entity.StockStatusLow:
			alerts = append(alerts, StockAlert{
				Stage:        inv.Stage,
				Status:       entity.StockStatusLow,
				CurrentStock: inv.CurrentStock,
				Threshold:    inv.MinStockLevel,
				Message:      "Stock bajo en " + inv.Stage + ": " + inv.CurrentStock.String() + " kg (mínimo: " + inv.MinStockLevel.String() + " kg)",
			})
		case entity.StockStatusHigh:
			alerts = append(alerts, StockAlert{
				Stage:        inv.Stage,
				Status:       entity.StockStatusHigh,
				CurrentStock: inv.CurrentStock,
				Threshold:    inv.MaxStockLevel,
				Message:      "Stock alto en " + inv.Stage + ": " + inv.CurrentStock.String() + " kg (máximo: " + inv.MaxStockLevel.String() + " kg)",
			})
		}
	}
	return alerts, nil
}

// Transactions devuelve el journal de una etapa, más reciente primero.
func (uc *LedgerUseCase) Transactions(stage string, from, to *time.Time, limit, offset int) ([]*entity.InventoryTransaction, error) {
	if stage != "" && !uc.graph.Contains(stage) {
		return nil, domain.ErrUnknownStage
	}
	return uc.txnRepo.ListByStage(stage, from, to, limit, offset)
}

// Movements devuelve el historial de traslados entre etapas.
func (uc *LedgerUseCase) Movements(from, to *time.Time, limit, offset int) ([]*entity.MaterialMovement, error) {
	return uc.movRepo.List(from, to, limit, offset)
}

func (uc *LedgerUseCase) newStageInventory(stage string, now time.Time) *entity.StageInventory {
	inv := &entity.StageInventory{
		Stage:         stage,
		CurrentStock:  decimal.Zero,
		MinStockLevel: uc.defaults.MinLevel,
		MaxStockLevel: uc.defaults.MaxLevel,
		LastUpdated:   now,
	}
	if def, ok := uc.graph.Definition(stage); ok {
		inv.WireSizeMM = def.ExpectedOutputSizeMM
	}
	return inv
}
