package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/tulsipower/production-monitor/internal/domain"
	"github.com/tulsipower/production-monitor/internal/domain/entity"
	"github.com/tulsipower/production-monitor/internal/domain/repository"
)

var _ repository.ProductionRecordRepository = (*ProductionRecordRepo)(nil)

// ProductionRecordRepo implementación de ProductionRecordRepository sobre PostgreSQL.
type ProductionRecordRepo struct {
	q Querier
}

func NewProductionRecordRepository(q Querier) *ProductionRecordRepo {
	return &ProductionRecordRepo{q: q}
}

const productionRecordColumns = `id, date, shift, stage, input_qty, output_qty, scrap_qty,
	input_size_mm, output_size_mm, input_size_swg, output_size_swg,
	efficiency, loss_percentage, operator_name, notes, created_at`

// Create inserta un registro de producción.
func (r *ProductionRecordRepo) Create(record *entity.ProductionRecord) error {
	query := `
		INSERT INTO production_records
			(id, date, shift, stage, input_qty, output_qty, scrap_qty,
			 input_size_mm, output_size_mm, input_size_swg, output_size_swg,
			 efficiency, loss_percentage, operator_name, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(context.Background(), query,
		record.ID, record.Date, record.Shift, record.Stage,
		record.InputQty, record.OutputQty, record.ScrapQty,
		record.InputSizeMM, record.OutputSizeMM, record.InputSizeSWG, record.OutputSizeSWG,
		record.Efficiency, record.LossPercentage, record.OperatorName, record.Notes, record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create production record: %w", err)
	}
	return nil
}

// GetByID obtiene un registro por su ID; nil si no existe.
func (r *ProductionRecordRepo) GetByID(id string) (*entity.ProductionRecord, error) {
	query := `SELECT ` + productionRecordColumns + ` FROM production_records WHERE id = $1`
	var rec entity.ProductionRecord
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&rec.ID, &rec.Date, &rec.Shift, &rec.Stage,
		&rec.InputQty, &rec.OutputQty, &rec.ScrapQty,
		&rec.InputSizeMM, &rec.OutputSizeMM, &rec.InputSizeSWG, &rec.OutputSizeSWG,
		&rec.Efficiency, &rec.LossPercentage, &rec.OperatorName, &rec.Notes, &rec.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get production record: %w", err)
	}
	return &rec, nil
}

// List devuelve registros filtrados, más recientes primero.
func (r *ProductionRecordRepo) List(filter repository.RecordFilter) ([]*entity.ProductionRecord, error) {
	query := `SELECT ` + productionRecordColumns + `
		FROM production_records
		WHERE ($1 = '' OR stage = $1)
		  AND ($2 = '' OR shift = $2)
		  AND ($3::timestamptz IS NULL OR date >= $3)
		  AND ($4::timestamptz IS NULL OR date <= $4)
		ORDER BY date DESC, created_at DESC
		LIMIT $5 OFFSET $6`
	rows, err := r.q.Query(context.Background(), query,
		filter.Stage, filter.Shift, filter.DateFrom, filter.DateTo, filter.Limit, filter.Offset)
	if err != nil {
		return nil, fmt.Errorf("list production records: %w", err)
	}
	defer rows.Close()
	return r.scanAll(rows)
}

// ListWindow devuelve todos los registros del rango, sin paginar, en orden
// cronológico para el motor de analítica.
func (r *ProductionRecordRepo) ListWindow(from, to time.Time) ([]*entity.ProductionRecord, error) {
	query := `SELECT ` + productionRecordColumns + `
		FROM production_records
		WHERE date >= $1 AND date <= $2
		ORDER BY date ASC, created_at ASC`
	rows, err := r.q.Query(context.Background(), query, from, to)
	if err != nil {
		return nil, fmt.Errorf("list production window: %w", err)
	}
	defer rows.Close()
	return r.scanAll(rows)
}

// Delete elimina un registro (solo correcciones administrativas).
func (r *ProductionRecordRepo) Delete(id string) error {
	tag, err := r.q.Exec(context.Background(), `DELETE FROM production_records WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete production record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ProductionRecordRepo) scanAll(rows pgx.Rows) ([]*entity.ProductionRecord, error) {
	var out []*entity.ProductionRecord
	for rows.Next() {
		var rec entity.ProductionRecord
		if err := rows.Scan(
			&rec.ID, &rec.Date, &rec.Shift, &rec.Stage,
			&rec.InputQty, &rec.OutputQty, &rec.ScrapQty,
			&rec.InputSizeMM, &rec.OutputSizeMM, &rec.InputSizeSWG, &rec.OutputSizeSWG,
			&rec.Efficiency, &rec.LossPercentage, &rec.OperatorName, &rec.Notes, &rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan production record: %w", err)
		}
		out = append(out, &rec)
	}
	return out, rows.Err()
}
