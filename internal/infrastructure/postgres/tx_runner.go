package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tulsipower/production-monitor/internal/application/batch"
	"github.com/tulsipower/production-monitor/internal/application/inventory"
	"github.com/tulsipower/production-monitor/internal/application/production"
	"github.com/tulsipower/production-monitor/internal/domain/repository"
)

var _ inventory.TxRunner = (*TxRunner)(nil)
var _ batch.TxRunner = (*BatchTxRunner)(nil)
var _ production.TxRunner = (*ProductionTxRunner)(nil)

// TxRunner ejecuta callbacks del ledger dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace
// Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	invRepo repository.StageInventoryRepository,
	txnRepo repository.InventoryTransactionRepository,
	movRepo repository.MaterialMovementRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(
		NewStageInventoryRepository(tx),
		NewInventoryTransactionRepository(tx),
		NewMaterialMovementRepository(tx),
	); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// BatchTxRunner ejecuta movimientos de bobina: ledger, bobina, journey, orden
// y registros de producción en una sola transacción.
type BatchTxRunner struct {
	pool *pgxpool.Pool
}

// NewBatchTxRunner construye el runner con el pool.
func NewBatchTxRunner(pool *pgxpool.Pool) *BatchTxRunner {
	return &BatchTxRunner{pool: pool}
}

// Run inicia la transacción del movimiento de bobina con todos sus repos.
func (r *BatchTxRunner) Run(ctx context.Context, fn func(
	invRepo repository.StageInventoryRepository,
	txnRepo repository.InventoryTransactionRepository,
	movRepo repository.MaterialMovementRepository,
	batchRepo repository.BatchRepository,
	journeyRepo repository.BatchJourneyRepository,
	orderRepo repository.OrderRepository,
	recordRepo repository.ProductionRecordRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(
		NewStageInventoryRepository(tx),
		NewInventoryTransactionRepository(tx),
		NewMaterialMovementRepository(tx),
		NewBatchRepository(tx),
		NewBatchJourneyRepository(tx),
		NewOrderRepository(tx),
		NewProductionRecordRepository(tx),
	); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// ProductionTxRunner acopla el registro de producción y su entrada de
// inventario en una transacción.
type ProductionTxRunner struct {
	pool *pgxpool.Pool
}

// NewProductionTxRunner construye el runner con el pool.
func NewProductionTxRunner(pool *pgxpool.Pool) *ProductionTxRunner {
	return &ProductionTxRunner{pool: pool}
}

// Run inicia la transacción del registro de producción.
func (r *ProductionTxRunner) Run(ctx context.Context, fn func(
	invRepo repository.StageInventoryRepository,
	txnRepo repository.InventoryTransactionRepository,
	recordRepo repository.ProductionRecordRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(
		NewStageInventoryRepository(tx),
		NewInventoryTransactionRepository(tx),
		NewProductionRecordRepository(tx),
	); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
