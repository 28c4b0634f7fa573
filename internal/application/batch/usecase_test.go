package batch_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tulsipower/production-monitor/internal/application/apptest"
	"github.com/tulsipower/production-monitor/internal/application/batch"
	"github.com/tulsipower/production-monitor/internal/application/dto"
	"github.com/tulsipower/production-monitor/internal/application/inventory"
	"github.com/tulsipower/production-monitor/internal/application/order"
	"github.com/tulsipower/production-monitor/internal/domain"
	"github.com/tulsipower/production-monitor/internal/domain/entity"
	"github.com/tulsipower/production-monitor/internal/domain/stagegraph"
	"github.com/tulsipower/production-monitor/pkg/logger"
)

type env struct {
	tracker *batch.TrackerUseCase
	linkage *order.LinkageUseCase
	inv     *apptest.StageInventoryRepo
	txn     *apptest.TxnRepo
	mov     *apptest.MovementRepo
	batches *apptest.BatchRepo
	journey *apptest.JourneyRepo
	orders  *apptest.OrderRepo
	records *apptest.RecordRepo
}

func newEnv(t *testing.T) *env {
	t.Helper()
	graph := stagegraph.Default()
	e := &env{
		inv:     apptest.NewStageInventoryRepo(),
		txn:     apptest.NewTxnRepo(),
		mov:     apptest.NewMovementRepo(),
		batches: apptest.NewBatchRepo(),
		orders:  apptest.NewOrderRepo(),
		records: apptest.NewRecordRepo(),
	}
	e.journey = apptest.NewJourneyRepo(e.batches)

	ledgerRunner := &apptest.LedgerTxRunner{Inv: e.inv, Txn: e.txn, Mov: e.mov}
	ledger := inventory.NewLedgerUseCase(ledgerRunner, graph, e.inv, e.txn, e.mov, inventory.StockDefaults{
		MinLevel: decimal.NewFromInt(500),
		MaxLevel: decimal.NewFromInt(5000),
	}, logger.Nop())

	e.linkage = order.NewLinkageUseCase(e.orders, e.batches, e.journey, graph)

	batchRunner := &apptest.BatchTxRunner{
		Inv: e.inv, Txn: e.txn, Mov: e.mov,
		Batches: e.batches, Journey: e.journey, Orders: e.orders, Records: e.records,
	}
	e.tracker = batch.NewTrackerUseCase(batchRunner, graph, ledger, e.linkage, e.batches, e.journey, e.orders)
	return e
}

func createBatch(t *testing.T, e *env, number string, qty int64, orderID string) *entity.Batch {
	t.Helper()
	b, err := e.tracker.Create(batch.CreateInput{
		BatchNumber:  number,
		MaterialType: "Alambrón de cobre",
		Quantity:     decimal.NewFromInt(qty),
		OrderID:      orderID,
	})
	require.NoError(t, err)
	return b
}

func TestCreate_Validaciones(t *testing.T) {
	e := newEnv(t)

	_, err := e.tracker.Create(batch.CreateInput{Quantity: decimal.NewFromInt(10)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = e.tracker.Create(batch.CreateInput{BatchNumber: "C-1", Quantity: decimal.Zero})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	createBatch(t, e, "C-1", 100, "")
	_, err = e.tracker.Create(batch.CreateInput{
		BatchNumber: "C-1", Quantity: decimal.NewFromInt(50),
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateBatchNumber)
}

func TestCreate_EstadoInicial(t *testing.T) {
	e := newEnv(t)
	b := createBatch(t, e, "C-100", 100, "")

	assert.Equal(t, entity.BatchStatusActive, b.CurrentStatus)
	assert.Nil(t, b.CurrentStage)
	assert.True(t, b.RemainingQuantity.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, stagegraph.Default().ProductionSequence(), b.StageSequence)
	assert.Equal(t, 0, b.Progress().Completed)
}

func TestMove_PrimerMovimientoSinPiernaOUT(t *testing.T) {
	e := newEnv(t)
	b := createBatch(t, e, "C-100", 100, "")

	moved, err := e.tracker.Move(context.Background(), batch.MoveInput{
		BatchID:  b.ID,
		ToStage:  entity.StageRBD,
		Quantity: decimal.NewFromInt(100),
		ScrapQty: decimal.Zero,
	})
	require.NoError(t, err)
	require.NotNil(t, moved.CurrentStage)
	assert.Equal(t, entity.StageRBD, *moved.CurrentStage)

	// Sin etapa previa no hay OUT: solo el IN de la recepción.
	require.Len(t, e.txn.Txns, 1)
	assert.Equal(t, entity.TransactionIN, e.txn.Txns[0].Type)
	inv, _ := e.inv.Get(entity.StageRBD)
	assert.True(t, inv.CurrentStock.Equal(decimal.NewFromInt(100)))
}

func TestMove_ConMermaDescuentaOrigenYRemanente(t *testing.T) {
	e := newEnv(t)
	b := createBatch(t, e, "C-100", 200, "")
	ctx := context.Background()

	_, err := e.tracker.Move(ctx, batch.MoveInput{
		BatchID: b.ID, ToStage: entity.StageRBD, Quantity: decimal.NewFromInt(100),
	})
	require.NoError(t, err)

	moved, err := e.tracker.Move(ctx, batch.MoveInput{
		BatchID:  b.ID,
		ToStage:  entity.StageInter,
		Quantity: decimal.NewFromInt(90),
		ScrapQty: decimal.NewFromInt(10),
	})
	require.NoError(t, err)

	// RBD entregó 100 (90 netos + 10 merma); Inter recibió 90.
	rbd, _ := e.inv.Get(entity.StageRBD)
	inter, _ := e.inv.Get(entity.StageInter)
	assert.True(t, rbd.CurrentStock.IsZero())
	assert.True(t, inter.CurrentStock.Equal(decimal.NewFromInt(90)))

	// remaining = 100 - (90+10) = 0 -> CONSUMED aunque no llegó al final.
	assert.True(t, moved.RemainingQuantity.IsZero())
	assert.Equal(t, entity.BatchStatusConsumed, moved.CurrentStatus)

	events, _ := e.journey.ListByBatch(b.ID)
	require.Len(t, events, 2)
	assert.True(t, events[1].ScrapQuantity.Equal(decimal.NewFromInt(10)))
}

func TestMove_ConsumidaRechazaTodo(t *testing.T) {
	e := newEnv(t)
	b := createBatch(t, e, "C-100", 200, "")
	ctx := context.Background()

	_, err := e.tracker.Move(ctx, batch.MoveInput{
		BatchID: b.ID, ToStage: entity.StageRBD, Quantity: decimal.NewFromInt(100),
	})
	require.NoError(t, err)
	_, err = e.tracker.Move(ctx, batch.MoveInput{
		BatchID: b.ID, ToStage: entity.StageInter,
		Quantity: decimal.NewFromInt(90), ScrapQty: decimal.NewFromInt(10),
	})
	require.NoError(t, err)

	_, err = e.tracker.Move(ctx, batch.MoveInput{
		BatchID: b.ID, ToStage: entity.StageOven, Quantity: decimal.NewFromInt(1),
	})
	assert.ErrorIs(t, err, domain.ErrBatchConsumed)

	_, err = e.tracker.SetHold(b.ID, true, "ajuste")
	assert.ErrorIs(t, err, domain.ErrBatchConsumed)
}

func TestMove_ExcedeRemanente(t *testing.T) {
	e := newEnv(t)
	b := createBatch(t, e, "C-100", 100, "")

	_, err := e.tracker.Move(context.Background(), batch.MoveInput{
		BatchID:  b.ID,
		ToStage:  entity.StageRBD,
		Quantity: decimal.NewFromInt(95),
		ScrapQty: decimal.NewFromInt(10),
	})
	assert.ErrorIs(t, err, domain.ErrQuantityExceedsRemaining)
}

func TestMove_RetrocesoRechazado(t *testing.T) {
	e := newEnv(t)
	b := createBatch(t, e, "C-100", 500, "")
	ctx := context.Background()

	_, err := e.tracker.Move(ctx, batch.MoveInput{
		BatchID: b.ID, ToStage: entity.StageInter, Quantity: decimal.NewFromInt(100),
	})
	require.NoError(t, err)

	// Hacia atrás y hacia la misma etapa, ambos inválidos.
	_, err = e.tracker.Move(ctx, batch.MoveInput{
		BatchID: b.ID, ToStage: entity.StageRBD, Quantity: decimal.NewFromInt(50),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidStageTransition)
	_, err = e.tracker.Move(ctx, batch.MoveInput{
		BatchID: b.ID, ToStage: entity.StageInter, Quantity: decimal.NewFromInt(50),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidStageTransition)
}

func TestMove_SaltoDeEtapaDejaNotaDeAuditoria(t *testing.T) {
	e := newEnv(t)
	b := createBatch(t, e, "C-100", 500, "")
	ctx := context.Background()

	_, err := e.tracker.Move(ctx, batch.MoveInput{
		BatchID: b.ID, ToStage: entity.StageRBD, Quantity: decimal.NewFromInt(200),
	})
	require.NoError(t, err)

	// RBD -> DPC salta INTERMEDIATE y OVEN.
	_, err = e.tracker.Move(ctx, batch.MoveInput{
		BatchID: b.ID, ToStage: entity.StageDPC, Quantity: decimal.NewFromInt(150),
	})
	require.NoError(t, err)

	events, _ := e.journey.ListByBatch(b.ID)
	require.Len(t, events, 2)
	assert.Contains(t, events[1].Notes, "2 etapas")
}

func TestMove_SinStockEnOrigenNoCambiaNada(t *testing.T) {
	e := newEnv(t)
	b := createBatch(t, e, "C-100", 500, "")
	ctx := context.Background()

	_, err := e.tracker.Move(ctx, batch.MoveInput{
		BatchID: b.ID, ToStage: entity.StageRBD, Quantity: decimal.NewFromInt(100),
	})
	require.NoError(t, err)

	// Alguien vació RBD por fuera del lote: la pierna OUT no tiene fondos.
	_, err = e.tracker.Move(ctx, batch.MoveInput{
		BatchID: b.ID, ToStage: entity.StageInter, Quantity: decimal.NewFromInt(300),
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	// La bobina sigue en RBD con su remanente intacto.
	after, _ := e.batches.GetByID(b.ID)
	assert.Equal(t, entity.StageRBD, *after.CurrentStage)
	assert.True(t, after.RemainingQuantity.Equal(decimal.NewFromInt(400)))
	events, _ := e.journey.ListByBatch(b.ID)
	assert.Len(t, events, 1)
}

func TestSetHold_BloqueaYReanuda(t *testing.T) {
	e := newEnv(t)
	b := createBatch(t, e, "C-100", 100, "")
	ctx := context.Background()

	held, err := e.tracker.SetHold(b.ID, true, "inspección de calidad")
	require.NoError(t, err)
	assert.Equal(t, entity.BatchStatusOnHold, held.CurrentStatus)

	_, err = e.tracker.Move(ctx, batch.MoveInput{
		BatchID: b.ID, ToStage: entity.StageRBD, Quantity: decimal.NewFromInt(50),
	})
	assert.ErrorIs(t, err, domain.ErrBatchOnHold)

	resumed, err := e.tracker.SetHold(b.ID, false, "inspección aprobada")
	require.NoError(t, err)
	assert.Equal(t, entity.BatchStatusActive, resumed.CurrentStatus)

	// Exactamente dos entradas: HOLD y RESUME, en orden.
	require.Len(t, resumed.HoldHistory, 2)
	assert.Equal(t, entity.HoldActionHold, resumed.HoldHistory[0].Action)
	assert.Equal(t, entity.HoldActionResume, resumed.HoldHistory[1].Action)

	_, err = e.tracker.Move(ctx, batch.MoveInput{
		BatchID: b.ID, ToStage: entity.StageRBD, Quantity: decimal.NewFromInt(50),
	})
	assert.NoError(t, err)
}

func TestSetHold_EstadoObjetivoEsIdempotente(t *testing.T) {
	e := newEnv(t)
	b := createBatch(t, e, "C-100", 100, "")

	// Sin razón también vale.
	held, err := e.tracker.SetHold(b.ID, true, "")
	require.NoError(t, err)
	assert.Equal(t, entity.BatchStatusOnHold, held.CurrentStatus)

	// Pedir HOLD sobre una bobina ya pausada no la reanuda ni suma historial.
	again, err := e.tracker.SetHold(b.ID, true, "duplicado")
	require.NoError(t, err)
	assert.Equal(t, entity.BatchStatusOnHold, again.CurrentStatus)
	assert.Len(t, again.HoldHistory, 1)

	// Reanudar una bobina activa tampoco escribe nada.
	resumed, err := e.tracker.SetHold(b.ID, false, "")
	require.NoError(t, err)
	noop, err := e.tracker.SetHold(b.ID, false, "")
	require.NoError(t, err)
	assert.Equal(t, entity.BatchStatusActive, noop.CurrentStatus)
	assert.Len(t, resumed.HoldHistory, 2)
	assert.Len(t, noop.HoldHistory, 2)
}

func TestMove_MismaEtapaEsReproceso(t *testing.T) {
	e := newEnv(t)
	b := createBatch(t, e, "C-100", 500, "")
	ctx := context.Background()

	_, err := e.tracker.Move(ctx, batch.MoveInput{
		BatchID: b.ID, ToStage: entity.StageRBD, Quantity: decimal.NewFromInt(200),
	})
	require.NoError(t, err)

	// Pierna de reproceso sobre la misma etapa: válida, consume remanente y
	// descuenta la merma del stock.
	moved, err := e.tracker.Move(ctx, batch.MoveInput{
		BatchID: b.ID, ToStage: entity.StageRBD,
		Quantity: decimal.NewFromInt(90), ScrapQty: decimal.NewFromInt(10),
	})
	require.NoError(t, err)
	assert.Equal(t, entity.StageRBD, *moved.CurrentStage)
	assert.True(t, moved.RemainingQuantity.Equal(decimal.NewFromInt(200)))

	// Retroceder sigue prohibido.
	_, err = e.tracker.Move(ctx, batch.MoveInput{
		BatchID: b.ID, ToStage: entity.StageInter, Quantity: decimal.NewFromInt(50),
	})
	require.NoError(t, err)
	_, err = e.tracker.Move(ctx, batch.MoveInput{
		BatchID: b.ID, ToStage: entity.StageRBD, Quantity: decimal.NewFromInt(10),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidStageTransition)
}

func TestMove_EtapaTerminalDejaRegistroDeProduccion(t *testing.T) {
	e := newEnv(t)
	// Cada movimiento consume remanente de la bobina original: 200 kg por
	// etapa agotan los 1000 kg justo al llegar al final.
	b := createBatch(t, e, "C-100", 1000, "")
	ctx := context.Background()

	stages := stagegraph.Default().ProductionSequence()
	for _, stage := range stages[:len(stages)-1] {
		_, err := e.tracker.Move(ctx, batch.MoveInput{
			BatchID: b.ID, ToStage: stage, Quantity: decimal.NewFromInt(200),
		})
		require.NoError(t, err)
	}
	assert.Empty(t, e.records.Records)

	moved, err := e.tracker.Move(ctx, batch.MoveInput{
		BatchID:  b.ID,
		ToStage:  entity.StageRewind,
		Quantity: decimal.NewFromInt(190),
		ScrapQty: decimal.NewFromInt(10),
	})
	require.NoError(t, err)
	assert.Equal(t, entity.BatchStatusConsumed, moved.CurrentStatus)

	require.Len(t, e.records.Records, 1)
	rec := e.records.Records[0]
	assert.Equal(t, entity.StageRewind, rec.Stage)
	assert.True(t, rec.InputQty.Equal(decimal.NewFromInt(200)))
	assert.True(t, rec.OutputQty.Equal(decimal.NewFromInt(190)))
	assert.True(t, rec.Efficiency.Equal(decimal.NewFromInt(95)))
}

func TestMove_ActualizaRollupDeLaOrden(t *testing.T) {
	e := newEnv(t)
	o, err := e.linkage.Create(dto.CreateOrderRequest{
		OrderNumber:     "ORD-1",
		CustomerName:    "Transformadores del Norte",
		OrderedQuantity: decimal.NewFromInt(180),
	})
	require.NoError(t, err)

	b := createBatch(t, e, "C-100", 1000, o.ID)
	ctx := context.Background()

	_, err = e.tracker.Move(ctx, batch.MoveInput{
		BatchID: b.ID, ToStage: entity.StageRBD, Quantity: decimal.NewFromInt(200),
	})
	require.NoError(t, err)

	// Primer movimiento: la orden pasa a IN_PROGRESS con su etapa cacheada.
	after, _ := e.orders.GetByID(o.ID)
	assert.Equal(t, entity.OrderStatusInProgress, after.Status)
	require.NotNil(t, after.CurrentStage)
	assert.Equal(t, entity.StageRBD, *after.CurrentStage)
	assert.True(t, after.CompletedQuantity.IsZero())

	stages := stagegraph.Default().ProductionSequence()
	for _, stage := range stages[1 : len(stages)-1] {
		_, err := e.tracker.Move(ctx, batch.MoveInput{
			BatchID: b.ID, ToStage: stage, Quantity: decimal.NewFromInt(200),
		})
		require.NoError(t, err)
	}
	_, err = e.tracker.Move(ctx, batch.MoveInput{
		BatchID: b.ID, ToStage: entity.StageRewind,
		Quantity: decimal.NewFromInt(190), ScrapQty: decimal.NewFromInt(10),
	})
	require.NoError(t, err)

	// 190 kg llegaron a la etapa terminal >= 180 pedidos y la bobina quedó
	// consumida -> COMPLETED.
	final, _ := e.orders.GetByID(o.ID)
	assert.True(t, final.CompletedQuantity.Equal(decimal.NewFromInt(190)))
	assert.Equal(t, entity.OrderStatusCompleted, final.Status)
	assert.NotNil(t, final.ActualDeliveryDate)
	assert.True(t, final.CompletionPercentage().Equal(decimal.NewFromInt(100)))
}
