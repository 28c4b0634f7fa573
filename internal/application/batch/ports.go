package batch

import (
	"context"

	"github.com/tulsipower/production-monitor/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD con todos los
// repos que un movimiento de bobina puede tocar: ledger, bobina, journey,
// orden y registros de producción. O se escribe todo o nada.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		invRepo repository.StageInventoryRepository,
		txnRepo repository.InventoryTransactionRepository,
		movRepo repository.MaterialMovementRepository,
		batchRepo repository.BatchRepository,
		journeyRepo repository.BatchJourneyRepository,
		orderRepo repository.OrderRepository,
		recordRepo repository.ProductionRecordRepository,
	) error) error
}
