package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/tulsipower/production-monitor/internal/domain/entity"
	"github.com/tulsipower/production-monitor/internal/domain/repository"
)

var _ repository.MaterialMovementRepository = (*MaterialMovementRepo)(nil)

// MaterialMovementRepo implementación del historial de traslados sobre PostgreSQL.
type MaterialMovementRepo struct {
	q Querier
}

func NewMaterialMovementRepository(q Querier) *MaterialMovementRepo {
	return &MaterialMovementRepo{q: q}
}

const materialMovementColumns = `id, from_stage, to_stage, quantity, scrap_quantity, wire_size_mm, wire_size_swg, batch_id, batch_number, movement_date, notes`

// Create inserta un traslado de material.
func (r *MaterialMovementRepo) Create(mov *entity.MaterialMovement) error {
	query := `
		INSERT INTO material_movements
			(id, from_stage, to_stage, quantity, scrap_quantity, wire_size_mm, wire_size_swg, batch_id, batch_number, movement_date, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), NULLIF($9, ''), $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		mov.ID, mov.FromStage, mov.ToStage, mov.Quantity, mov.ScrapQuantity,
		mov.WireSizeMM, mov.WireSizeSWG, mov.BatchID, mov.BatchNumber,
		mov.MovementDate, mov.Notes,
	)
	if err != nil {
		return fmt.Errorf("create material movement: %w", err)
	}
	return nil
}

// List devuelve traslados, más recientes primero.
func (r *MaterialMovementRepo) List(from, to *time.Time, limit, offset int) ([]*entity.MaterialMovement, error) {
	query := `SELECT ` + materialMovementColumns + `
		FROM material_movements
		WHERE ($1::timestamptz IS NULL OR movement_date >= $1)
		  AND ($2::timestamptz IS NULL OR movement_date <= $2)
		ORDER BY movement_date DESC, id DESC
		LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(context.Background(), query, from, to, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list material movements: %w", err)
	}
	defer rows.Close()
	return r.scanAll(rows)
}

// ListByBatch devuelve los traslados de una bobina en orden cronológico.
func (r *MaterialMovementRepo) ListByBatch(batchID string) ([]*entity.MaterialMovement, error) {
	query := `SELECT ` + materialMovementColumns + `
		FROM material_movements
		WHERE batch_id = $1
		ORDER BY movement_date ASC, id ASC`
	rows, err := r.q.Query(context.Background(), query, batchID)
	if err != nil {
		return nil, fmt.Errorf("list movements by batch: %w", err)
	}
	defer rows.Close()
	return r.scanAll(rows)
}

func (r *MaterialMovementRepo) scanAll(rows pgx.Rows) ([]*entity.MaterialMovement, error) {
	var out []*entity.MaterialMovement
	for rows.Next() {
		var mov entity.MaterialMovement
		var batchID, batchNumber *string
		if err := rows.Scan(
			&mov.ID, &mov.FromStage, &mov.ToStage, &mov.Quantity, &mov.ScrapQuantity,
			&mov.WireSizeMM, &mov.WireSizeSWG, &batchID, &batchNumber,
			&mov.MovementDate, &mov.Notes,
		); err != nil {
			return nil, fmt.Errorf("scan material movement: %w", err)
		}
		if batchID != nil {
			mov.BatchID = *batchID
		}
		if batchNumber != nil {
			mov.BatchNumber = *batchNumber
		}
		out = append(out, &mov)
	}
	return out, rows.Err()
}
