package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tulsipower/production-monitor/internal/domain/entity"
	"github.com/tulsipower/production-monitor/internal/domain/repository"
)

var _ repository.BatchJourneyRepository = (*BatchJourneyRepo)(nil)

// BatchJourneyRepo implementación del historial de recorrido sobre PostgreSQL.
// Append-only.
type BatchJourneyRepo struct {
	q Querier
}

func NewBatchJourneyRepository(q Querier) *BatchJourneyRepo {
	return &BatchJourneyRepo{q: q}
}

const journeyColumns = `e.id, e.batch_id, e.from_stage, e.to_stage, e.quantity, e.scrap_quantity, e.operator, e.notes, e.movement_date`

// Create inserta un evento de recorrido.
func (r *BatchJourneyRepo) Create(event *entity.BatchJourneyEvent) error {
	query := `
		INSERT INTO batch_journey_events
			(id, batch_id, from_stage, to_stage, quantity, scrap_quantity, operator, notes, movement_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		event.ID, event.BatchID, event.FromStage, event.ToStage,
		event.Quantity, event.ScrapQuantity, event.Operator, event.Notes, event.MovementDate,
	)
	if err != nil {
		return fmt.Errorf("create journey event: %w", err)
	}
	return nil
}

// ListByBatch devuelve el recorrido de una bobina en orden cronológico.
func (r *BatchJourneyRepo) ListByBatch(batchID string) ([]*entity.BatchJourneyEvent, error) {
	query := `SELECT ` + journeyColumns + `
		FROM batch_journey_events e
		WHERE e.batch_id = $1
		ORDER BY e.movement_date ASC, e.id ASC`
	rows, err := r.q.Query(context.Background(), query, batchID)
	if err != nil {
		return nil, fmt.Errorf("list journey by batch: %w", err)
	}
	defer rows.Close()
	return r.scanAll(rows)
}

// ListByOrder devuelve los eventos de todas las bobinas vinculadas a una
// orden, en orden cronológico, para el rollup.
func (r *BatchJourneyRepo) ListByOrder(orderID string) ([]*entity.BatchJourneyEvent, error) {
	query := `SELECT ` + journeyColumns + `
		FROM batch_journey_events e
		JOIN batches b ON b.id = e.batch_id
		WHERE b.order_id = $1
		ORDER BY e.movement_date ASC, e.id ASC`
	rows, err := r.q.Query(context.Background(), query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list journey by order: %w", err)
	}
	defer rows.Close()
	return r.scanAll(rows)
}

func (r *BatchJourneyRepo) scanAll(rows pgx.Rows) ([]*entity.BatchJourneyEvent, error) {
	var out []*entity.BatchJourneyEvent
	for rows.Next() {
		var event entity.BatchJourneyEvent
		if err := rows.Scan(
			&event.ID, &event.BatchID, &event.FromStage, &event.ToStage,
			&event.Quantity, &event.ScrapQuantity, &event.Operator, &event.Notes, &event.MovementDate,
		); err != nil {
			return nil, fmt.Errorf("scan journey event: %w", err)
		}
		out = append(out, &event)
	}
	return out, rows.Err()
}
