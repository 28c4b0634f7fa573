// Package apptest provee repositorios en memoria y un TxRunner simulado para
// los tests de casos de uso. El runner toma un snapshot del estado antes de
// ejecutar la función y lo restaura si falla, imitando el rollback de una
// transacción real.
package apptest

import (
	"context"
	"sort"
	"time"

	"github.com/tulsipower/production-monitor/internal/domain"
	"github.com/tulsipower/production-monitor/internal/domain/entity"
	"github.com/tulsipower/production-monitor/internal/domain/repository"
)

// ─── StageInventory ───────────────────────────────────────────────────────────

// StageInventoryRepo implementación en memoria de StageInventoryRepository.
type StageInventoryRepo struct {
	ByStage map[string]*entity.StageInventory
}

func NewStageInventoryRepo() *StageInventoryRepo {
	return &StageInventoryRepo{ByStage: make(map[string]*entity.StageInventory)}
}

func (r *StageInventoryRepo) Get(stage string) (*entity.StageInventory, error) {
	inv, ok := r.ByStage[stage]
	if !ok {
		return nil, nil
	}
	cp := *inv
	return &cp, nil
}

func (r *StageInventoryRepo) GetForUpdate(stage string) (*entity.StageInventory, error) {
	return r.Get(stage)
}

func (r *StageInventoryRepo) Ensure(inv *entity.StageInventory) error {
	if _, ok := r.ByStage[inv.Stage]; ok {
		return nil
	}
	return r.Upsert(inv)
}

func (r *StageInventoryRepo) Upsert(inv *entity.StageInventory) error {
	cp := *inv
	r.ByStage[inv.Stage] = &cp
	return nil
}

func (r *StageInventoryRepo) List() ([]*entity.StageInventory, error) {
	stages := make([]string, 0, len(r.ByStage))
	for s := range r.ByStage {
		stages = append(stages, s)
	}
	sort.Strings(stages)
	out := make([]*entity.StageInventory, 0, len(stages))
	for _, s := range stages {
		cp := *r.ByStage[s]
		out = append(out, &cp)
	}
	return out, nil
}

func (r *StageInventoryRepo) snapshot() map[string]*entity.StageInventory {
	snap := make(map[string]*entity.StageInventory, len(r.ByStage))
	for k, v := range r.ByStage {
		cp := *v
		snap[k] = &cp
	}
	return snap
}

// ─── InventoryTransaction ─────────────────────────────────────────────────────

// TxnRepo implementación en memoria del journal, en orden de inserción.
type TxnRepo struct {
	Txns []*entity.InventoryTransaction
}

func NewTxnRepo() *TxnRepo { return &TxnRepo{} }

func (r *TxnRepo) Create(txn *entity.InventoryTransaction) error {
	cp := *txn
	r.Txns = append(r.Txns, &cp)
	return nil
}

func (r *TxnRepo) ListByStage(stage string, from, to *time.Time, limit, offset int) ([]*entity.InventoryTransaction, error) {
	var filtered []*entity.InventoryTransaction
	for i := len(r.Txns) - 1; i >= 0; i-- { // más reciente primero
		t := r.Txns[i]
		if stage != "" && t.Stage != stage {
			continue
		}
		if from != nil && t.Timestamp.Before(*from) {
			continue
		}
		if to != nil && t.Timestamp.After(*to) {
			continue
		}
		filtered = append(filtered, t)
	}
	return paginate(filtered, limit, offset), nil
}

func (r *TxnRepo) ListAllOrdered(since *time.Time) ([]*entity.InventoryTransaction, error) {
	out := make([]*entity.InventoryTransaction, 0, len(r.Txns))
	for _, t := range r.Txns {
		if since != nil && t.Timestamp.Before(*since) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

// ─── MaterialMovement ─────────────────────────────────────────────────────────

// MovementRepo implementación en memoria de MaterialMovementRepository.
type MovementRepo struct {
	Movs []*entity.MaterialMovement
}

func NewMovementRepo() *MovementRepo { return &MovementRepo{} }

func (r *MovementRepo) Create(mov *entity.MaterialMovement) error {
	cp := *mov
	r.Movs = append(r.Movs, &cp)
	return nil
}

func (r *MovementRepo) List(from, to *time.Time, limit, offset int) ([]*entity.MaterialMovement, error) {
	var filtered []*entity.MaterialMovement
	for i := len(r.Movs) - 1; i >= 0; i-- {
		m := r.Movs[i]
		if from != nil && m.MovementDate.Before(*from) {
			continue
		}
		if to != nil && m.MovementDate.After(*to) {
			continue
		}
		filtered = append(filtered, m)
	}
	return paginate(filtered, limit, offset), nil
}

func (r *MovementRepo) ListByBatch(batchID string) ([]*entity.MaterialMovement, error) {
	var out []*entity.MaterialMovement
	for _, m := range r.Movs {
		if m.BatchID == batchID {
			out = append(out, m)
		}
	}
	return out, nil
}

// ─── Batch ────────────────────────────────────────────────────────────────────

// BatchRepo implementación en memoria de BatchRepository.
type BatchRepo struct {
	ByID map[string]*entity.Batch
}

func NewBatchRepo() *BatchRepo { return &BatchRepo{ByID: make(map[string]*entity.Batch)} }

func (r *BatchRepo) Create(b *entity.Batch) error {
	for _, existing := range r.ByID {
		if existing.BatchNumber == b.BatchNumber {
			return domain.ErrDuplicateBatchNumber
		}
	}
	r.ByID[b.ID] = cloneBatch(b)
	return nil
}

func (r *BatchRepo) GetByID(id string) (*entity.Batch, error) {
	b, ok := r.ByID[id]
	if !ok {
		return nil, nil
	}
	return cloneBatch(b), nil
}

func (r *BatchRepo) GetByIDForUpdate(id string) (*entity.Batch, error) {
	return r.GetByID(id)
}

func (r *BatchRepo) GetByNumber(batchNumber string) (*entity.Batch, error) {
	for _, b := range r.ByID {
		if b.BatchNumber == batchNumber {
			return cloneBatch(b), nil
		}
	}
	return nil, nil
}

func (r *BatchRepo) Update(b *entity.Batch) error {
	if _, ok := r.ByID[b.ID]; !ok {
		return domain.ErrNotFound
	}
	r.ByID[b.ID] = cloneBatch(b)
	return nil
}

func (r *BatchRepo) List(filter repository.BatchFilter) ([]*entity.Batch, error) {
	var all []*entity.Batch
	for _, b := range r.ByID {
		if filter.Status != "" && b.CurrentStatus != filter.Status {
			continue
		}
		if filter.Stage != "" && (b.CurrentStage == nil || *b.CurrentStage != filter.Stage) {
			continue
		}
		if filter.OrderID != "" && b.OrderID != filter.OrderID {
			continue
		}
		all = append(all, cloneBatch(b))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.Before(all[j].CreatedAt) })
	return paginate(all, filter.Limit, filter.Offset), nil
}

func (r *BatchRepo) ListByOrder(orderID string) ([]*entity.Batch, error) {
	return r.List(repository.BatchFilter{OrderID: orderID})
}

func (r *BatchRepo) snapshot() map[string]*entity.Batch {
	snap := make(map[string]*entity.Batch, len(r.ByID))
	for k, v := range r.ByID {
		snap[k] = cloneBatch(v)
	}
	return snap
}

func cloneBatch(b *entity.Batch) *entity.Batch {
	cp := *b
	cp.StageSequence = append([]string(nil), b.StageSequence...)
	cp.HoldHistory = append([]entity.HoldEntry(nil), b.HoldHistory...)
	if b.CurrentStage != nil {
		s := *b.CurrentStage
		cp.CurrentStage = &s
	}
	return &cp
}

// ─── BatchJourney ─────────────────────────────────────────────────────────────

// JourneyRepo implementación en memoria de BatchJourneyRepository.
type JourneyRepo struct {
	Events  []*entity.BatchJourneyEvent
	Batches *BatchRepo // para resolver eventos por orden
}

func NewJourneyRepo(batches *BatchRepo) *JourneyRepo {
	return &JourneyRepo{Batches: batches}
}

func (r *JourneyRepo) Create(e *entity.BatchJourneyEvent) error {
	cp := *e
	r.Events = append(r.Events, &cp)
	return nil
}

func (r *JourneyRepo) ListByBatch(batchID string) ([]*entity.BatchJourneyEvent, error) {
	var out []*entity.BatchJourneyEvent
	for _, e := range r.Events {
		if e.BatchID == batchID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *JourneyRepo) ListByOrder(orderID string) ([]*entity.BatchJourneyEvent, error) {
	linked := make(map[string]bool)
	for _, b := range r.Batches.ByID {
		if b.OrderID == orderID {
			linked[b.ID] = true
		}
	}
	var out []*entity.BatchJourneyEvent
	for _, e := range r.Events {
		if linked[e.BatchID] {
			out = append(out, e)
		}
	}
	return out, nil
}

// ─── Order ────────────────────────────────────────────────────────────────────

// OrderRepo implementación en memoria de OrderRepository.
type OrderRepo struct {
	ByID map[string]*entity.Order
}

func NewOrderRepo() *OrderRepo { return &OrderRepo{ByID: make(map[string]*entity.Order)} }

func (r *OrderRepo) Create(o *entity.Order) error {
	for _, existing := range r.ByID {
		if existing.OrderNumber == o.OrderNumber {
			return domain.ErrDuplicateOrderNumber
		}
	}
	cp := *o
	r.ByID[o.ID] = &cp
	return nil
}

func (r *OrderRepo) GetByID(id string) (*entity.Order, error) {
	o, ok := r.ByID[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (r *OrderRepo) GetByNumber(orderNumber string) (*entity.Order, error) {
	for _, o := range r.ByID {
		if o.OrderNumber == orderNumber {
			cp := *o
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *OrderRepo) Update(o *entity.Order) error {
	if _, ok := r.ByID[o.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *o
	r.ByID[o.ID] = &cp
	return nil
}

func (r *OrderRepo) List(filter repository.OrderFilter) ([]*entity.Order, error) {
	var all []*entity.Order
	for _, o := range r.ByID {
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		cp := *o
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.Before(all[j].CreatedAt) })
	return paginate(all, filter.Limit, filter.Offset), nil
}

func (r *OrderRepo) snapshot() map[string]*entity.Order {
	snap := make(map[string]*entity.Order, len(r.ByID))
	for k, v := range r.ByID {
		cp := *v
		snap[k] = &cp
	}
	return snap
}

// ─── ProductionRecord ─────────────────────────────────────────────────────────

// RecordRepo implementación en memoria de ProductionRecordRepository.
type RecordRepo struct {
	Records []*entity.ProductionRecord
}

func NewRecordRepo() *RecordRepo { return &RecordRepo{} }

func (r *RecordRepo) Create(rec *entity.ProductionRecord) error {
	cp := *rec
	r.Records = append(r.Records, &cp)
	return nil
}

func (r *RecordRepo) GetByID(id string) (*entity.ProductionRecord, error) {
	for _, rec := range r.Records {
		if rec.ID == id {
			cp := *rec
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *RecordRepo) List(filter repository.RecordFilter) ([]*entity.ProductionRecord, error) {
	var filtered []*entity.ProductionRecord
	for i := len(r.Records) - 1; i >= 0; i-- {
		rec := r.Records[i]
		if filter.Stage != "" && rec.Stage != filter.Stage {
			continue
		}
		if filter.Shift != "" && rec.Shift != filter.Shift {
			continue
		}
		if filter.DateFrom != nil && rec.Date.Before(*filter.DateFrom) {
			continue
		}
		if filter.DateTo != nil && rec.Date.After(*filter.DateTo) {
			continue
		}
		filtered = append(filtered, rec)
	}
	return paginate(filtered, filter.Limit, filter.Offset), nil
}

func (r *RecordRepo) ListWindow(from, to time.Time) ([]*entity.ProductionRecord, error) {
	var out []*entity.ProductionRecord
	for _, rec := range r.Records {
		if rec.Date.Before(from) || rec.Date.After(to) {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func (r *RecordRepo) Delete(id string) error {
	for i, rec := range r.Records {
		if rec.ID == id {
			r.Records = append(r.Records[:i], r.Records[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

// ─── User ─────────────────────────────────────────────────────────────────────

// UserRepo implementación en memoria de UserRepository.
type UserRepo struct {
	ByID map[string]*entity.User
}

func NewUserRepo() *UserRepo { return &UserRepo{ByID: make(map[string]*entity.User)} }

func (r *UserRepo) Create(u *entity.User) error {
	for _, existing := range r.ByID {
		if existing.Email == u.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	cp := *u
	r.ByID[u.ID] = &cp
	return nil
}

func (r *UserRepo) GetByID(id string) (*entity.User, error) {
	u, ok := r.ByID[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *UserRepo) GetByEmail(email string) (*entity.User, error) {
	for _, u := range r.ByID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *UserRepo) Update(u *entity.User) error {
	if _, ok := r.ByID[u.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *u
	r.ByID[u.ID] = &cp
	return nil
}

// ─── TxRunners ────────────────────────────────────────────────────────────────

// LedgerTxRunner implementa inventory.TxRunner sobre los fakes. Ante error
// restaura el estado previo (rollback simulado).
type LedgerTxRunner struct {
	Inv *StageInventoryRepo
	Txn *TxnRepo
	Mov *MovementRepo
}

func (r *LedgerTxRunner) Run(ctx context.Context, fn func(
	invRepo repository.StageInventoryRepository,
	txnRepo repository.InventoryTransactionRepository,
	movRepo repository.MaterialMovementRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	invSnap := r.Inv.snapshot()
	txnSnap := len(r.Txn.Txns)
	movSnap := len(r.Mov.Movs)

	if err := fn(r.Inv, r.Txn, r.Mov); err != nil {
		r.Inv.ByStage = invSnap
		r.Txn.Txns = r.Txn.Txns[:txnSnap]
		r.Mov.Movs = r.Mov.Movs[:movSnap]
		return err
	}
	return nil
}

// BatchTxRunner implementa batch.TxRunner sobre los fakes, con el mismo
// rollback simulado.
type BatchTxRunner struct {
	Inv     *StageInventoryRepo
	Txn     *TxnRepo
	Mov     *MovementRepo
	Batches *BatchRepo
	Journey *JourneyRepo
	Orders  *OrderRepo
	Records *RecordRepo
}

func (r *BatchTxRunner) Run(ctx context.Context, fn func(
	invRepo repository.StageInventoryRepository,
	txnRepo repository.InventoryTransactionRepository,
	movRepo repository.MaterialMovementRepository,
	batchRepo repository.BatchRepository,
	journeyRepo repository.BatchJourneyRepository,
	orderRepo repository.OrderRepository,
	recordRepo repository.ProductionRecordRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	invSnap := r.Inv.snapshot()
	txnSnap := len(r.Txn.Txns)
	movSnap := len(r.Mov.Movs)
	batchSnap := r.Batches.snapshot()
	journeySnap := len(r.Journey.Events)
	orderSnap := r.Orders.snapshot()
	recordSnap := len(r.Records.Records)

	if err := fn(r.Inv, r.Txn, r.Mov, r.Batches, r.Journey, r.Orders, r.Records); err != nil {
		r.Inv.ByStage = invSnap
		r.Txn.Txns = r.Txn.Txns[:txnSnap]
		r.Mov.Movs = r.Mov.Movs[:movSnap]
		r.Batches.ByID = batchSnap
		r.Journey.Events = r.Journey.Events[:journeySnap]
		r.Orders.ByID = orderSnap
		r.Records.Records = r.Records.Records[:recordSnap]
		return err
	}
	return nil
}

// ProductionTxRunner implementa production.TxRunner sobre los fakes.
type ProductionTxRunner struct {
	Inv     *StageInventoryRepo
	Txn     *TxnRepo
	Records *RecordRepo
}

func (r *ProductionTxRunner) Run(ctx context.Context, fn func(
	invRepo repository.StageInventoryRepository,
	txnRepo repository.InventoryTransactionRepository,
	recordRepo repository.ProductionRecordRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	invSnap := r.Inv.snapshot()
	txnSnap := len(r.Txn.Txns)
	recordSnap := len(r.Records.Records)

	if err := fn(r.Inv, r.Txn, r.Records); err != nil {
		r.Inv.ByStage = invSnap
		r.Txn.Txns = r.Txn.Txns[:txnSnap]
		r.Records.Records = r.Records.Records[:recordSnap]
		return err
	}
	return nil
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
