package order_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tulsipower/production-monitor/internal/application/apptest"
	"github.com/tulsipower/production-monitor/internal/application/dto"
	"github.com/tulsipower/production-monitor/internal/application/order"
	"github.com/tulsipower/production-monitor/internal/domain"
	"github.com/tulsipower/production-monitor/internal/domain/entity"
	"github.com/tulsipower/production-monitor/internal/domain/stagegraph"
)

type env struct {
	linkage *order.LinkageUseCase
	orders  *apptest.OrderRepo
	batches *apptest.BatchRepo
	journey *apptest.JourneyRepo
}

func newEnv(t *testing.T) *env {
	t.Helper()
	e := &env{
		orders:  apptest.NewOrderRepo(),
		batches: apptest.NewBatchRepo(),
	}
	e.journey = apptest.NewJourneyRepo(e.batches)
	e.linkage = order.NewLinkageUseCase(e.orders, e.batches, e.journey, stagegraph.Default())
	return e
}

func createOrder(t *testing.T, e *env, number string, qty int64) *entity.Order {
	t.Helper()
	o, err := e.linkage.Create(dto.CreateOrderRequest{
		OrderNumber:     number,
		CustomerName:    "Cables del Pacífico",
		OrderedQuantity: decimal.NewFromInt(qty),
	})
	require.NoError(t, err)
	return o
}

func linkBatch(t *testing.T, e *env, id, number string, qty int64, orderID string) *entity.Batch {
	t.Helper()
	seq := stagegraph.Default().ProductionSequence()
	b := &entity.Batch{
		ID:                id,
		BatchNumber:       number,
		Quantity:          decimal.NewFromInt(qty),
		RemainingQuantity: decimal.NewFromInt(qty),
		CurrentStatus:     entity.BatchStatusActive,
		StageSequence:     seq,
		OrderID:           orderID,
		CreatedAt:         time.Now(),
	}
	require.NoError(t, e.batches.Create(b))
	return b
}

func addEvent(t *testing.T, e *env, batchID, toStage string, qty int64, at time.Time) {
	t.Helper()
	require.NoError(t, e.journey.Create(&entity.BatchJourneyEvent{
		ID:           batchID + "-" + toStage,
		BatchID:      batchID,
		ToStage:      toStage,
		Quantity:     decimal.NewFromInt(qty),
		MovementDate: at,
	}))
}

func TestCreate_Validaciones(t *testing.T) {
	e := newEnv(t)

	_, err := e.linkage.Create(dto.CreateOrderRequest{CustomerName: "X", OrderedQuantity: decimal.NewFromInt(10)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = e.linkage.Create(dto.CreateOrderRequest{
		OrderNumber: "ORD-1", CustomerName: "X", OrderedQuantity: decimal.Zero,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	createOrder(t, e, "ORD-1", 500)
	_, err = e.linkage.Create(dto.CreateOrderRequest{
		OrderNumber: "ORD-1", CustomerName: "Y", OrderedQuantity: decimal.NewFromInt(10),
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateOrderNumber)
}

func TestCreate_Defaults(t *testing.T) {
	e := newEnv(t)
	o := createOrder(t, e, "ORD-1", 500)

	assert.Equal(t, entity.OrderStatusPending, o.Status)
	assert.Equal(t, entity.PriorityNormal, o.Priority)
	assert.True(t, o.CompletedQuantity.IsZero())
	assert.Nil(t, o.CurrentStage)
}

func TestRollup_PendingPasaAInProgressConPrimerMovimiento(t *testing.T) {
	e := newEnv(t)
	o := createOrder(t, e, "ORD-1", 500)
	b := linkBatch(t, e, "b1", "C-1", 1000, o.ID)

	addEvent(t, e, b.ID, entity.StageRBD, 200, time.Now())

	updated, err := e.linkage.Rollup(o.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusInProgress, updated.Status)
	require.NotNil(t, updated.CurrentStage)
	assert.Equal(t, entity.StageRBD, *updated.CurrentStage)
	// Nada llegó a la etapa terminal todavía.
	assert.True(t, updated.CompletedQuantity.IsZero())
}

func TestRollup_SoloCuentaLlegadasALaEtapaTerminal(t *testing.T) {
	e := newEnv(t)
	o := createOrder(t, e, "ORD-1", 500)
	b := linkBatch(t, e, "b1", "C-1", 1000, o.ID)

	now := time.Now()
	addEvent(t, e, b.ID, entity.StageRBD, 300, now)
	addEvent(t, e, b.ID, entity.StageRewind, 250, now.Add(time.Hour))

	updated, err := e.linkage.Rollup(o.ID)
	require.NoError(t, err)
	assert.True(t, updated.CompletedQuantity.Equal(decimal.NewFromInt(250)))
	assert.Equal(t, entity.StageRewind, *updated.CurrentStage)
	// 250/500 = 50%
	assert.True(t, updated.CompletionPercentage().Equal(decimal.NewFromInt(50)))
	// La bobina aún tiene remanente activo fuera del terminal -> sigue en curso.
	assert.Equal(t, entity.OrderStatusInProgress, updated.Status)
}

func TestRollup_CompletaCuandoTodasLasBobinasTerminan(t *testing.T) {
	e := newEnv(t)
	o := createOrder(t, e, "ORD-1", 400)
	b1 := linkBatch(t, e, "b1", "C-1", 500, o.ID)
	b2 := linkBatch(t, e, "b2", "C-2", 500, o.ID)

	now := time.Now()
	addEvent(t, e, b1.ID, entity.StageRewind, 250, now)
	terminal := entity.StageRewind
	b1.CurrentStage = &terminal
	b1.CurrentStatus = entity.BatchStatusConsumed
	require.NoError(t, e.batches.Update(b1))

	// b2 todavía a mitad de pipeline: la orden no puede cerrarse aunque la
	// cantidad alcance.
	addEvent(t, e, b2.ID, entity.StageOven, 300, now.Add(time.Minute))
	oven := entity.StageOven
	b2.CurrentStage = &oven
	require.NoError(t, e.batches.Update(b2))
	addEvent(t, e, b2.ID, entity.StageRewind, 200, now.Add(2*time.Minute))

	updated, err := e.linkage.Rollup(o.ID)
	require.NoError(t, err)
	assert.True(t, updated.CompletedQuantity.Equal(decimal.NewFromInt(450)))
	assert.Equal(t, entity.OrderStatusInProgress, updated.Status)

	// b2 llega al terminal: ahora sí COMPLETED.
	b2.CurrentStage = &terminal
	require.NoError(t, e.batches.Update(b2))
	updated, err = e.linkage.Rollup(o.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusCompleted, updated.Status)
	assert.NotNil(t, updated.ActualDeliveryDate)
}

func TestRollup_OrdenCanceladaNoSeToca(t *testing.T) {
	e := newEnv(t)
	o := createOrder(t, e, "ORD-1", 400)
	_, err := e.linkage.UpdateStatus(o.ID, dto.UpdateOrderStatusRequest{Status: entity.OrderStatusCancelled})
	require.NoError(t, err)

	b := linkBatch(t, e, "b1", "C-1", 500, o.ID)
	addEvent(t, e, b.ID, entity.StageRewind, 500, time.Now())

	updated, err := e.linkage.Rollup(o.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusCancelled, updated.Status)
	assert.True(t, updated.CompletedQuantity.IsZero())
}

func TestGet_AvancePorEtapa(t *testing.T) {
	e := newEnv(t)
	o := createOrder(t, e, "ORD-1", 400)
	b1 := linkBatch(t, e, "b1", "C-1", 500, o.ID)
	b2 := linkBatch(t, e, "b2", "C-2", 500, o.ID)

	now := time.Now()
	addEvent(t, e, b1.ID, entity.StageRBD, 200, now)
	addEvent(t, e, b2.ID, entity.StageRBD, 150, now)
	addEvent(t, e, b1.ID, entity.StageInter, 100, now.Add(time.Hour))

	_, batches, progress, err := e.linkage.Get(o.ID)
	require.NoError(t, err)
	assert.Len(t, batches, 2)
	require.Len(t, progress, 2)
	assert.Equal(t, entity.StageRBD, progress[0].Stage)
	assert.True(t, progress[0].Quantity.Equal(decimal.NewFromInt(350)))
	assert.Equal(t, 2, progress[0].BatchCount)
	assert.Equal(t, entity.StageInter, progress[1].Stage)
	assert.Equal(t, 1, progress[1].BatchCount)
}

func TestCompletionPercentage_Recortado(t *testing.T) {
	o := &entity.Order{
		OrderedQuantity:   decimal.NewFromInt(100),
		CompletedQuantity: decimal.NewFromInt(150),
	}
	assert.True(t, o.CompletionPercentage().Equal(decimal.NewFromInt(100)))
}
