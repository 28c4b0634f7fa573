package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tulsipower/production-monitor/internal/domain/entity"
	"github.com/tulsipower/production-monitor/internal/domain/repository"
)

var _ repository.StageRepository = (*StageRepo)(nil)

// StageRepo implementación de StageRepository sobre PostgreSQL.
// La configuración de etapas se lee al arranque para armar el grafo.
type StageRepo struct {
	q Querier
}

func NewStageRepository(q Querier) *StageRepo {
	return &StageRepo{q: q}
}

const stageColumns = `stage, sequence_order, expected_input_size_mm, expected_output_size_mm, min_efficiency, max_loss_percentage, has_annealing, tracking_only`

// List devuelve las definiciones de etapa en orden de secuencia.
func (r *StageRepo) List() ([]*entity.StageDefinition, error) {
	query := `SELECT ` + stageColumns + ` FROM stage_definitions ORDER BY sequence_order ASC`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list stage definitions: %w", err)
	}
	defer rows.Close()

	var out []*entity.StageDefinition
	for rows.Next() {
		var def entity.StageDefinition
		if err := rows.Scan(
			&def.Stage, &def.SequenceOrder, &def.ExpectedInputSizeMM, &def.ExpectedOutputSizeMM,
			&def.MinEfficiency, &def.MaxLossPercentage, &def.HasAnnealing, &def.TrackingOnly,
		); err != nil {
			return nil, fmt.Errorf("scan stage definition: %w", err)
		}
		out = append(out, &def)
	}
	return out, rows.Err()
}

// Get obtiene la definición de una etapa; nil si no existe.
func (r *StageRepo) Get(stage string) (*entity.StageDefinition, error) {
	query := `SELECT ` + stageColumns + ` FROM stage_definitions WHERE stage = $1`
	var def entity.StageDefinition
	err := r.q.QueryRow(context.Background(), query, stage).Scan(
		&def.Stage, &def.SequenceOrder, &def.ExpectedInputSizeMM, &def.ExpectedOutputSizeMM,
		&def.MinEfficiency, &def.MaxLossPercentage, &def.HasAnnealing, &def.TrackingOnly,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stage definition: %w", err)
	}
	return &def, nil
}

// Seed inserta las definiciones iniciales si la tabla está vacía.
func (r *StageRepo) Seed(defs []*entity.StageDefinition) error {
	ctx := context.Background()
	var count int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM stage_definitions`).Scan(&count); err != nil {
		return fmt.Errorf("count stage definitions: %w", err)
	}
	if count > 0 {
		return nil
	}
	query := `
		INSERT INTO stage_definitions
			(stage, sequence_order, expected_input_size_mm, expected_output_size_mm, min_efficiency, max_loss_percentage, has_annealing, tracking_only)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	for _, def := range defs {
		if _, err := r.q.Exec(ctx, query,
			def.Stage, def.SequenceOrder, def.ExpectedInputSizeMM, def.ExpectedOutputSizeMM,
			def.MinEfficiency, def.MaxLossPercentage, def.HasAnnealing, def.TrackingOnly,
		); err != nil {
			return fmt.Errorf("seed stage %s: %w", def.Stage, err)
		}
	}
	return nil
}
