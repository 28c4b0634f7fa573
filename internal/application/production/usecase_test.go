package production_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tulsipower/production-monitor/internal/application/apptest"
	"github.com/tulsipower/production-monitor/internal/application/dto"
	"github.com/tulsipower/production-monitor/internal/application/inventory"
	"github.com/tulsipower/production-monitor/internal/application/production"
	"github.com/tulsipower/production-monitor/internal/domain"
	"github.com/tulsipower/production-monitor/internal/domain/entity"
	"github.com/tulsipower/production-monitor/internal/domain/repository"
	"github.com/tulsipower/production-monitor/internal/domain/stagegraph"
	"github.com/tulsipower/production-monitor/pkg/logger"
)

func newUseCase(t *testing.T) (*production.RecordUseCase, *apptest.StageInventoryRepo, *apptest.TxnRepo, *apptest.RecordRepo) {
	t.Helper()
	graph := stagegraph.Default()
	inv := apptest.NewStageInventoryRepo()
	txn := apptest.NewTxnRepo()
	mov := apptest.NewMovementRepo()
	records := apptest.NewRecordRepo()

	ledger := inventory.NewLedgerUseCase(
		&apptest.LedgerTxRunner{Inv: inv, Txn: txn, Mov: mov},
		graph, inv, txn, mov,
		inventory.StockDefaults{MinLevel: decimal.NewFromInt(500), MaxLevel: decimal.NewFromInt(5000)},
		logger.Nop(),
	)
	runner := &apptest.ProductionTxRunner{Inv: inv, Txn: txn, Records: records}
	return production.NewRecordUseCase(runner, graph, ledger, records), inv, txn, records
}

func validRequest() dto.CreateRecordRequest {
	return dto.CreateRecordRequest{
		Date:         time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC),
		Shift:        entity.ShiftMorning,
		Stage:        entity.StageRBD,
		InputQty:     decimal.NewFromInt(1000),
		OutputQty:    decimal.NewFromInt(950),
		ScrapQty:     decimal.NewFromInt(30),
		OperatorName: "Ramesh",
	}
}

func TestCreate_CalculaDerivadosYSumaStock(t *testing.T) {
	uc, inv, txn, records := newUseCase(t)

	rec, err := uc.Create(context.Background(), validRequest())
	require.NoError(t, err)
	assert.True(t, rec.Efficiency.Equal(decimal.NewFromInt(95)))
	assert.True(t, rec.LossPercentage.Equal(decimal.NewFromInt(3)))
	require.Len(t, records.Records, 1)

	// El output del turno entra al stock de la etapa, ligado al registro.
	stock, _ := inv.Get(entity.StageRBD)
	assert.True(t, stock.CurrentStock.Equal(decimal.NewFromInt(950)))
	require.Len(t, txn.Txns, 1)
	assert.Equal(t, rec.ID, txn.Txns[0].ProductionRecordID)
}

func TestCreate_Validaciones(t *testing.T) {
	uc, _, _, _ := newUseCase(t)
	ctx := context.Background()

	in := validRequest()
	in.Stage = "PACKING"
	_, err := uc.Create(ctx, in)
	assert.ErrorIs(t, err, domain.ErrUnknownStage)

	in = validRequest()
	in.Shift = "DAWN"
	_, err = uc.Create(ctx, in)
	assert.ErrorIs(t, err, domain.ErrInvalidShift)

	in = validRequest()
	in.OutputQty = decimal.NewFromInt(990)
	in.ScrapQty = decimal.NewFromInt(30) // 990+30 > 1000
	_, err = uc.Create(ctx, in)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func TestCreate_InputCeroEficienciaCero(t *testing.T) {
	uc, _, _, _ := newUseCase(t)

	in := validRequest()
	in.InputQty = decimal.Zero
	in.OutputQty = decimal.Zero
	in.ScrapQty = decimal.Zero
	rec, err := uc.Create(context.Background(), in)
	require.NoError(t, err)
	assert.True(t, rec.Efficiency.IsZero())
	assert.True(t, rec.LossPercentage.IsZero())
}

func TestList_FiltraPorEtapaYTurno(t *testing.T) {
	uc, _, _, _ := newUseCase(t)
	ctx := context.Background()

	_, err := uc.Create(ctx, validRequest())
	require.NoError(t, err)
	in := validRequest()
	in.Stage = entity.StageInter
	in.Shift = entity.ShiftNight
	_, err = uc.Create(ctx, in)
	require.NoError(t, err)

	out, err := uc.List(repository.RecordFilter{Stage: entity.StageInter})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, entity.ShiftNight, out[0].Shift)

	_, err = uc.List(repository.RecordFilter{Shift: "DAWN"})
	assert.ErrorIs(t, err, domain.ErrInvalidShift)
}

func TestQuickStats(t *testing.T) {
	uc, _, _, _ := newUseCase(t)
	ctx := context.Background()

	_, err := uc.Create(ctx, validRequest())
	require.NoError(t, err)
	in := validRequest()
	in.Shift = entity.ShiftNight
	in.InputQty = decimal.NewFromInt(500)
	in.OutputQty = decimal.NewFromInt(400)
	in.ScrapQty = decimal.NewFromInt(20)
	_, err = uc.Create(ctx, in)
	require.NoError(t, err)

	stats, err := uc.QuickStats(time.Date(2026, 8, 20, 15, 30, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 2, stats.RecordCount)
	assert.True(t, stats.TotalOutput.Equal(decimal.NewFromInt(1350)))
	assert.True(t, stats.TotalScrap.Equal(decimal.NewFromInt(50)))
	assert.Equal(t, []string{entity.ShiftMorning, entity.ShiftNight}, stats.ShiftsReporting)
	// 1350/1500 = 90%
	assert.True(t, stats.AvgEfficiency.Equal(decimal.NewFromInt(90)))
}
