package repository

import "github.com/tulsipower/production-monitor/internal/domain/entity"

// StageInventoryRepository define el puerto para el stock por etapa.
// Usado dentro de transacciones para garantizar consistencia.
type StageInventoryRepository interface {
	Get(stage string) (*entity.StageInventory, error)
	// GetForUpdate bloquea la fila para update (SELECT FOR UPDATE).
	GetForUpdate(stage string) (*entity.StageInventory, error)
	// Ensure crea la fila si no existe (INSERT ... ON CONFLICT DO NOTHING);
	// no toca filas existentes. Garantiza que GetForUpdate tenga qué bloquear.
	Ensure(inv *entity.StageInventory) error
	Upsert(inv *entity.StageInventory) error
	List() ([]*entity.StageInventory, error)
}
