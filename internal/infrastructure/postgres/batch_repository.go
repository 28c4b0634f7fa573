package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tulsipower/production-monitor/internal/domain"
	"github.com/tulsipower/production-monitor/internal/domain/entity"
	"github.com/tulsipower/production-monitor/internal/domain/repository"
)

var _ repository.BatchRepository = (*BatchRepo)(nil)

// BatchRepo implementación de BatchRepository sobre PostgreSQL.
// StageSequence y HoldHistory se guardan como jsonb.
type BatchRepo struct {
	q Querier
}

func NewBatchRepository(q Querier) *BatchRepo {
	return &BatchRepo{q: q}
}

const batchColumns = `id, batch_number, lot_number, material_type, supplier_name,
	quantity, remaining_quantity, current_stage, current_status,
	stage_sequence, hold_history, order_id, received_date, notes, created_at, updated_at`

// Create inserta una bobina nueva.
func (r *BatchRepo) Create(batch *entity.Batch) error {
	sequence, history, err := marshalBatchJSON(batch)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO batches
			(id, batch_number, lot_number, material_type, supplier_name,
			 quantity, remaining_quantity, current_stage, current_status,
			 stage_sequence, hold_history, order_id, received_date, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NULLIF($12, ''), $13, $14, $15, $16)`
	_, err = r.q.Exec(context.Background(), query,
		batch.ID, batch.BatchNumber, batch.LotNumber, batch.MaterialType, batch.SupplierName,
		batch.Quantity, batch.RemainingQuantity, batch.CurrentStage, batch.CurrentStatus,
		sequence, history, batch.OrderID, batch.ReceivedDate, batch.Notes,
		batch.CreatedAt, batch.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateBatchNumber
		}
		return fmt.Errorf("create batch: %w", err)
	}
	return nil
}

// GetByID obtiene una bobina por ID; nil si no existe.
func (r *BatchRepo) GetByID(id string) (*entity.Batch, error) {
	query := `SELECT ` + batchColumns + ` FROM batches WHERE id = $1`
	return r.scanOne(query, id)
}

// GetByIDForUpdate obtiene la bobina bloqueando la fila (SELECT FOR UPDATE)
// para serializar movimientos concurrentes sobre la misma bobina.
func (r *BatchRepo) GetByIDForUpdate(id string) (*entity.Batch, error) {
	query := `SELECT ` + batchColumns + ` FROM batches WHERE id = $1 FOR UPDATE`
	return r.scanOne(query, id)
}

// GetByNumber obtiene una bobina por su número único; nil si no existe.
func (r *BatchRepo) GetByNumber(batchNumber string) (*entity.Batch, error) {
	query := `SELECT ` + batchColumns + ` FROM batches WHERE batch_number = $1`
	return r.scanOne(query, batchNumber)
}

// Update persiste el estado mutable de la bobina.
func (r *BatchRepo) Update(batch *entity.Batch) error {
	sequence, history, err := marshalBatchJSON(batch)
	if err != nil {
		return err
	}
	query := `
		UPDATE batches
		SET remaining_quantity = $2,
		    current_stage = $3,
		    current_status = $4,
		    stage_sequence = $5,
		    hold_history = $6,
		    notes = $7,
		    updated_at = $8
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		batch.ID, batch.RemainingQuantity, batch.CurrentStage, batch.CurrentStatus,
		sequence, history, batch.Notes, batch.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update batch: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List devuelve bobinas filtradas, más recientes primero.
func (r *BatchRepo) List(filter repository.BatchFilter) ([]*entity.Batch, error) {
	query := `SELECT ` + batchColumns + `
		FROM batches
		WHERE ($1 = '' OR current_status = $1)
		  AND ($2 = '' OR current_stage = $2)
		  AND ($3 = '' OR order_id = $3)
		ORDER BY created_at DESC
		LIMIT $4 OFFSET $5`
	rows, err := r.q.Query(context.Background(), query,
		filter.Status, filter.Stage, filter.OrderID, filter.Limit, filter.Offset)
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	defer rows.Close()
	return r.scanAll(rows)
}

// ListByOrder devuelve todas las bobinas vinculadas a una orden.
func (r *BatchRepo) ListByOrder(orderID string) ([]*entity.Batch, error) {
	query := `SELECT ` + batchColumns + `
		FROM batches
		WHERE order_id = $1
		ORDER BY created_at ASC`
	rows, err := r.q.Query(context.Background(), query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list batches by order: %w", err)
	}
	defer rows.Close()
	return r.scanAll(rows)
}

func (r *BatchRepo) scanOne(query string, arg any) (*entity.Batch, error) {
	row := r.q.QueryRow(context.Background(), query, arg)
	batch, err := scanBatch(row.Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get batch: %w", err)
	}
	return batch, nil
}

func (r *BatchRepo) scanAll(rows pgx.Rows) ([]*entity.Batch, error) {
	var out []*entity.Batch
	for rows.Next() {
		batch, err := scanBatch(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		out = append(out, batch)
	}
	return out, rows.Err()
}

func scanBatch(scan func(dest ...any) error) (*entity.Batch, error) {
	var batch entity.Batch
	var sequence, history []byte
	var orderID *string
	err := scan(
		&batch.ID, &batch.BatchNumber, &batch.LotNumber, &batch.MaterialType, &batch.SupplierName,
		&batch.Quantity, &batch.RemainingQuantity, &batch.CurrentStage, &batch.CurrentStatus,
		&sequence, &history, &orderID, &batch.ReceivedDate, &batch.Notes,
		&batch.CreatedAt, &batch.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(sequence, &batch.StageSequence); err != nil {
		return nil, fmt.Errorf("decode stage sequence: %w", err)
	}
	if len(history) > 0 {
		if err := json.Unmarshal(history, &batch.HoldHistory); err != nil {
			return nil, fmt.Errorf("decode hold history: %w", err)
		}
	}
	if orderID != nil {
		batch.OrderID = *orderID
	}
	return &batch, nil
}

func marshalBatchJSON(batch *entity.Batch) (sequence, history []byte, err error) {
	sequence, err = json.Marshal(batch.StageSequence)
	if err != nil {
		return nil, nil, fmt.Errorf("encode stage sequence: %w", err)
	}
	if batch.HoldHistory == nil {
		history = []byte("[]")
	} else if history, err = json.Marshal(batch.HoldHistory); err != nil {
		return nil, nil, fmt.Errorf("encode hold history: %w", err)
	}
	return sequence, history, nil
}
