package production

import (
	"context"

	"github.com/tulsipower/production-monitor/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD: el registro
// de producción y su entrada de inventario se escriben juntos.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		invRepo repository.StageInventoryRepository,
		txnRepo repository.InventoryTransactionRepository,
		recordRepo repository.ProductionRecordRepository,
	) error) error
}
