package inventory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tulsipower/production-monitor/internal/domain/repository"
)

// SyncResult resultado de la reconstrucción del stock por replay.
type SyncResult struct {
	StagesUpdated int
	TxnsReplayed  int
	FlooredStages []string
	CompletedAt   time.Time
}

// ctxCheckEvery cada cuántas transacciones del replay se revisa cancelación.
const ctxCheckEvery = 256

// Sync reconstruye el stock de todas las etapas reproduciendo el journal en
// orden de inserción; con since se reproducen solo las entradas desde esa
// fecha, partiendo de saldo cero. Los saldos se calculan primero en memoria y
// se vuelcan al final (build-then-swap): una cancelación a mitad de replay no
// deja stock a medias. Es idempotente: dos Sync consecutivos sin escrituras
// intermedias producen el mismo resultado.
func (uc *LedgerUseCase) Sync(ctx context.Context, since *time.Time) (*SyncResult, error) {
	var result *SyncResult
	err := uc.txRunner.Run(ctx, func(
		invRepo repository.StageInventoryRepository,
		txnRepo repository.InventoryTransactionRepository,
		_ repository.MaterialMovementRepository,
	) error {
		txns, err := txnRepo.ListAllOrdered(since)
		if err != nil {
			return err
		}

		stocks := make(map[string]decimal.Decimal, len(uc.graph.Sequence()))
		for _, stage := range uc.graph.Sequence() {
			stocks[stage] = decimal.Zero
		}

		flooredSet := make(map[string]bool)
		for i, t := range txns {
			if i%ctxCheckEvery == 0 {
				if err := ctx.Err(); err != nil {
					return err
				}
			}
			next := stocks[t.Stage].Add(t.Signed())
			if next.IsNegative() {
				// Journal inconsistente (escrituras legadas fuera del motor):
				// se fija el saldo en cero y se deja rastro en el log.
				uc.log.Warn().
					Str("stage", t.Stage).
					Str("transaction_id", t.ID).
					Str("balance", next.String()).
					Msg("replay dejó saldo negativo, ajustado a cero")
				next = decimal.Zero
				flooredSet[t.Stage] = true
			}
			stocks[t.Stage] = next
		}

		if err := ctx.Err(); err != nil {
			return err
		}

		now := time.Now()
		updated := 0
		for _, stage := range uc.graph.Sequence() {
			inv, err := invRepo.Get(stage)
			if err != nil {
				return err
			}
			if inv == nil {
				// Etapas de solo seguimiento sin fila ni saldo no se materializan.
				if def, ok := uc.graph.Definition(stage); ok && def.TrackingOnly && stocks[stage].IsZero() {
					continue
				}
				inv = uc.newStageInventory(stage, now)
			}
			inv.CurrentStock = stocks[stage]
			inv.LastUpdated = now
			if err := invRepo.Upsert(inv); err != nil {
				return err
			}
			updated++
		}

		floored := make([]string, 0, len(flooredSet))
		for _, stage := range uc.graph.Sequence() {
			if flooredSet[stage] {
				floored = append(floored, stage)
			}
		}

		result = &SyncResult{
			StagesUpdated: updated,
			TxnsReplayed:  len(txns),
			FlooredStages: floored,
			CompletedAt:   now,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Int("stages", result.StagesUpdated).
		Int("transactions", result.TxnsReplayed).
		Msg("stock reconstruido desde el journal")
	return result, nil
}
