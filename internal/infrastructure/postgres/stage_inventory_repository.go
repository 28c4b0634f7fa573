package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tulsipower/production-monitor/internal/domain/entity"
	"github.com/tulsipower/production-monitor/internal/domain/repository"
)

var _ repository.StageInventoryRepository = (*StageInventoryRepo)(nil)

// StageInventoryRepo implementación de StageInventoryRepository sobre
// PostgreSQL (usable con pool o tx).
type StageInventoryRepo struct {
	q Querier
}

// NewStageInventoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStageInventoryRepository(q Querier) *StageInventoryRepo {
	return &StageInventoryRepo{q: q}
}

const stageInventoryColumns = `stage, current_stock, wire_size_mm, wire_size_swg, min_stock_level, max_stock_level, last_updated`

// Get obtiene el stock de una etapa; nil si la etapa no tiene fila todavía.
func (r *StageInventoryRepo) Get(stage string) (*entity.StageInventory, error) {
	query := `SELECT ` + stageInventoryColumns + ` FROM stage_inventory WHERE stage = $1`
	return r.scanOne(query, stage)
}

// GetForUpdate obtiene el stock y bloquea la fila (SELECT FOR UPDATE).
func (r *StageInventoryRepo) GetForUpdate(stage string) (*entity.StageInventory, error) {
	query := `SELECT ` + stageInventoryColumns + ` FROM stage_inventory WHERE stage = $1 FOR UPDATE`
	return r.scanOne(query, stage)
}

func (r *StageInventoryRepo) scanOne(query, stage string) (*entity.StageInventory, error) {
	var inv entity.StageInventory
	err := r.q.QueryRow(context.Background(), query, stage).Scan(
		&inv.Stage, &inv.CurrentStock, &inv.WireSizeMM, &inv.WireSizeSWG,
		&inv.MinStockLevel, &inv.MaxStockLevel, &inv.LastUpdated,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stage inventory: %w", err)
	}
	return &inv, nil
}

// Ensure crea la fila de stock si no existe; no pisa filas existentes. Un
// escritor concurrente que insertó primero gana y este Ensure queda en no-op.
func (r *StageInventoryRepo) Ensure(inv *entity.StageInventory) error {
	query := `
		INSERT INTO stage_inventory (stage, current_stock, wire_size_mm, wire_size_swg, min_stock_level, max_stock_level, last_updated)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (stage) DO NOTHING`
	_, err := r.q.Exec(context.Background(), query,
		inv.Stage, inv.CurrentStock, inv.WireSizeMM, inv.WireSizeSWG,
		inv.MinStockLevel, inv.MaxStockLevel, inv.LastUpdated,
	)
	if err != nil {
		return fmt.Errorf("ensure stage inventory: %w", err)
	}
	return nil
}

// Upsert inserta o actualiza el stock de una etapa.
func (r *StageInventoryRepo) Upsert(inv *entity.StageInventory) error {
	query := `
		INSERT INTO stage_inventory (stage, current_stock, wire_size_mm, wire_size_swg, min_stock_level, max_stock_level, last_updated)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (stage)
		DO UPDATE SET current_stock = EXCLUDED.current_stock,
		              wire_size_mm = EXCLUDED.wire_size_mm,
		              wire_size_swg = EXCLUDED.wire_size_swg,
		              min_stock_level = EXCLUDED.min_stock_level,
		              max_stock_level = EXCLUDED.max_stock_level,
		              last_updated = EXCLUDED.last_updated`
	_, err := r.q.Exec(context.Background(), query,
		inv.Stage, inv.CurrentStock, inv.WireSizeMM, inv.WireSizeSWG,
		inv.MinStockLevel, inv.MaxStockLevel, inv.LastUpdated,
	)
	if err != nil {
		return fmt.Errorf("upsert stage inventory: %w", err)
	}
	return nil
}

// List devuelve todas las filas de stock.
func (r *StageInventoryRepo) List() ([]*entity.StageInventory, error) {
	query := `SELECT ` + stageInventoryColumns + ` FROM stage_inventory ORDER BY stage`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list stage inventory: %w", err)
	}
	defer rows.Close()

	var out []*entity.StageInventory
	for rows.Next() {
		var inv entity.StageInventory
		if err := rows.Scan(
			&inv.Stage, &inv.CurrentStock, &inv.WireSizeMM, &inv.WireSizeSWG,
			&inv.MinStockLevel, &inv.MaxStockLevel, &inv.LastUpdated,
		); err != nil {
			return nil, fmt.Errorf("scan stage inventory: %w", err)
		}
		out = append(out, &inv)
	}
	return out, rows.Err()
}
