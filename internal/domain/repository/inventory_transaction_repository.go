package repository

import (
	"time"

	"github.com/tulsipower/production-monitor/internal/domain/entity"
)

// InventoryTransactionRepository define el puerto para el journal IN/OUT.
// El journal es append-only: no hay Update ni Delete.
type InventoryTransactionRepository interface {
	Create(txn *entity.InventoryTransaction) error
	ListByStage(stage string, from, to *time.Time, limit, offset int) ([]*entity.InventoryTransaction, error)
	// ListAllOrdered devuelve el journal en orden de inserción para
	// reconstruir el stock por replay; since nil trae el journal completo.
	ListAllOrdered(since *time.Time) ([]*entity.InventoryTransaction, error)
}
