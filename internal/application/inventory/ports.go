package inventory

import (
	"context"

	"github.com/tulsipower/production-monitor/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad para el ledger.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		invRepo repository.StageInventoryRepository,
		txnRepo repository.InventoryTransactionRepository,
		movRepo repository.MaterialMovementRepository,
	) error) error
}
