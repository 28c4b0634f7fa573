package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/tulsipower/production-monitor/internal/domain/entity"
	"github.com/tulsipower/production-monitor/internal/domain/repository"
)

var _ repository.InventoryTransactionRepository = (*InventoryTransactionRepo)(nil)

// InventoryTransactionRepo implementación del journal IN/OUT sobre PostgreSQL.
// La tabla es append-only: este adaptador no expone UPDATE ni DELETE.
type InventoryTransactionRepo struct {
	q Querier
}

func NewInventoryTransactionRepository(q Querier) *InventoryTransactionRepo {
	return &InventoryTransactionRepo{q: q}
}

const inventoryTxnColumns = `id, stage, type, quantity, stock_before, stock_after, production_record_id, notes, created_by, created_at`

// Create inserta una transacción del journal.
func (r *InventoryTransactionRepo) Create(txn *entity.InventoryTransaction) error {
	query := `
		INSERT INTO inventory_transactions
			(id, stage, type, quantity, stock_before, stock_after, production_record_id, notes, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		txn.ID, txn.Stage, txn.Type, txn.Quantity, txn.StockBefore, txn.StockAfter,
		txn.ProductionRecordID, txn.Notes, txn.CreatedBy, txn.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("create inventory transaction: %w", err)
	}
	return nil
}

// ListByStage devuelve transacciones de una etapa, más recientes primero.
func (r *InventoryTransactionRepo) ListByStage(stage string, from, to *time.Time, limit, offset int) ([]*entity.InventoryTransaction, error) {
	query := `SELECT ` + inventoryTxnColumns + `
		FROM inventory_transactions
		WHERE stage = $1
		  AND ($2::timestamptz IS NULL OR created_at >= $2)
		  AND ($3::timestamptz IS NULL OR created_at <= $3)
		ORDER BY created_at DESC, id DESC
		LIMIT $4 OFFSET $5`
	rows, err := r.q.Query(context.Background(), query, stage, from, to, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list inventory transactions: %w", err)
	}
	defer rows.Close()
	return r.scanAll(rows)
}

// ListAllOrdered devuelve el journal en orden de inserción; since nil trae
// el journal completo.
func (r *InventoryTransactionRepo) ListAllOrdered(since *time.Time) ([]*entity.InventoryTransaction, error) {
	query := `SELECT ` + inventoryTxnColumns + `
		FROM inventory_transactions
		WHERE ($1::timestamptz IS NULL OR created_at >= $1)
		ORDER BY created_at ASC, id ASC`
	rows, err := r.q.Query(context.Background(), query, since)
	if err != nil {
		return nil, fmt.Errorf("list inventory journal: %w", err)
	}
	defer rows.Close()
	return r.scanAll(rows)
}

func (r *InventoryTransactionRepo) scanAll(rows pgx.Rows) ([]*entity.InventoryTransaction, error) {
	var out []*entity.InventoryTransaction
	for rows.Next() {
		var txn entity.InventoryTransaction
		var recordID *string
		if err := rows.Scan(
			&txn.ID, &txn.Stage, &txn.Type, &txn.Quantity,
			&txn.StockBefore, &txn.StockAfter, &recordID,
			&txn.Notes, &txn.CreatedBy, &txn.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("scan inventory transaction: %w", err)
		}
		if recordID != nil {
			txn.ProductionRecordID = *recordID
		}
		out = append(out, &txn)
	}
	return out, rows.Err()
}
