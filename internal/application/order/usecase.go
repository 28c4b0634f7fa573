// Package order implementa la vinculación de bobinas con órdenes de cliente:
// alta de órdenes y rollup del avance a partir de los journey events de las
// bobinas vinculadas.
package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tulsipower/production-monitor/internal/application/dto"
	"github.com/tulsipower/production-monitor/internal/domain"
	"github.com/tulsipower/production-monitor/internal/domain/entity"
	"github.com/tulsipower/production-monitor/internal/domain/repository"
	"github.com/tulsipower/production-monitor/internal/domain/stagegraph"
)

// LinkageUseCase casos de uso de órdenes de cliente.
type LinkageUseCase struct {
	orderRepo   repository.OrderRepository
	batchRepo   repository.BatchRepository
	journeyRepo repository.BatchJourneyRepository
	graph       *stagegraph.Graph
}

// NewLinkageUseCase construye el caso de uso.
func NewLinkageUseCase(
	orderRepo repository.OrderRepository,
	batchRepo repository.BatchRepository,
	journeyRepo repository.BatchJourneyRepository,
	graph *stagegraph.Graph,
) *LinkageUseCase {
	return &LinkageUseCase{
		orderRepo:   orderRepo,
		batchRepo:   batchRepo,
		journeyRepo: journeyRepo,
		graph:       graph,
	}
}

// Create registra una orden de cliente.
func (uc *LinkageUseCase) Create(in dto.CreateOrderRequest) (*entity.Order, error) {
	if in.OrderNumber == "" || in.CustomerName == "" {
		return nil, domain.ErrInvalidInput
	}
	if !in.OrderedQuantity.IsPositive() {
		return nil, domain.ErrInvalidQuantity
	}
	existing, err := uc.orderRepo.GetByNumber(in.OrderNumber)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicateOrderNumber
	}

	now := time.Now()
	orderDate := now
	if in.OrderDate != nil {
		orderDate = *in.OrderDate
	}
	priority := in.Priority
	if priority == 0 {
		priority = entity.PriorityNormal
	}
	if priority < entity.PriorityNormal || priority > entity.PriorityUrgent {
		return nil, domain.ErrInvalidInput
	}

	o := &entity.Order{
		ID:                   uuid.New().String(),
		OrderNumber:          in.OrderNumber,
		CustomerName:         in.CustomerName,
		ProductSpecification: in.ProductSpecification,
		TargetWireSizeMM:     in.TargetWireSizeMM,
		OrderedQuantity:      in.OrderedQuantity,
		CompletedQuantity:    decimal.Zero,
		Status:               entity.OrderStatusPending,
		Priority:             priority,
		OrderDate:            orderDate,
		ExpectedDeliveryDate: in.ExpectedDeliveryDate,
		Notes:                in.Notes,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if err := uc.orderRepo.Create(o); err != nil {
		return nil, err
	}
	return o, nil
}

// List devuelve las órdenes según filtro.
func (uc *LinkageUseCase) List(filter repository.OrderFilter) ([]*entity.Order, error) {
	return uc.orderRepo.List(filter)
}

// Get devuelve una orden con sus bobinas vinculadas y el avance por etapa.
func (uc *LinkageUseCase) Get(id string) (*entity.Order, []*entity.Batch, []dto.OrderStageProgress, error) {
	o, err := uc.orderRepo.GetByID(id)
	if err != nil {
		return nil, nil, nil, err
	}
	if o == nil {
		return nil, nil, nil, domain.ErrNotFound
	}
	batches, err := uc.batchRepo.ListByOrder(id)
	if err != nil {
		return nil, nil, nil, err
	}
	events, err := uc.journeyRepo.ListByOrder(id)
	if err != nil {
		return nil, nil, nil, err
	}

	progress := make([]dto.OrderStageProgress, 0, len(uc.graph.Sequence()))
	for _, stage := range uc.graph.Sequence() {
		qty := decimal.Zero
		scrap := decimal.Zero
		seen := make(map[string]bool)
		for _, e := range events {
			if e.ToStage != stage {
				continue
			}
			qty = qty.Add(e.Quantity)
			scrap = scrap.Add(e.ScrapQuantity)
			seen[e.BatchID] = true
		}
		if len(seen) == 0 {
			continue
		}
		progress = append(progress, dto.OrderStageProgress{
			Stage:      stage,
			Quantity:   qty,
			ScrapQty:   scrap,
			BatchCount: len(seen),
		})
	}
	return o, batches, progress, nil
}

// UpdateStatus cambia el estado de una orden manualmente (p.ej. CANCELLED).
func (uc *LinkageUseCase) UpdateStatus(id string, in dto.UpdateOrderStatusRequest) (*entity.Order, error) {
	o, err := uc.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrNotFound
	}
	switch in.Status {
	case entity.OrderStatusPending, entity.OrderStatusInProgress,
		entity.OrderStatusCompleted, entity.OrderStatusCancelled:
	default:
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	o.Status = in.Status
	if in.Status == entity.OrderStatusCompleted && o.ActualDeliveryDate == nil {
		o.ActualDeliveryDate = &now
	}
	if in.Notes != "" {
		o.Notes = in.Notes
	}
	o.UpdatedAt = now
	if err := uc.orderRepo.Update(o); err != nil {
		return nil, err
	}
	return o, nil
}

// Rollup recalcula el avance de una orden desde los journey events y
// actualiza la proyección cacheada en la fila de la orden.
func (uc *LinkageUseCase) Rollup(orderID string) (*entity.Order, error) {
	return uc.RollupTx(uc.orderRepo, uc.batchRepo, uc.journeyRepo, orderID)
}

// RollupTx es la variante para repos atados a una transacción abierta: el
// movimiento de bobinas la invoca en la misma tx que el movimiento, para que
// la proyección de la orden nunca quede desfasada.
//
// completed_quantity = suma de las cantidades que llegaron a la etapa terminal
// de cada bobina vinculada (la cantidad del evento ya es neta de merma).
// current_stage = etapa del movimiento más reciente entre las bobinas.
func (uc *LinkageUseCase) RollupTx(
	orderRepo repository.OrderRepository,
	batchRepo repository.BatchRepository,
	journeyRepo repository.BatchJourneyRepository,
	orderID string,
) (*entity.Order, error) {
	o, err := orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrNotFound
	}
	if o.Status == entity.OrderStatusCancelled {
		return o, nil
	}

	batches, err := batchRepo.ListByOrder(orderID)
	if err != nil {
		return nil, err
	}
	events, err := journeyRepo.ListByOrder(orderID)
	if err != nil {
		return nil, err
	}

	terminalByBatch := make(map[string]string, len(batches))
	for _, b := range batches {
		terminalByBatch[b.ID] = b.TerminalStage()
	}

	completed := decimal.Zero
	var currentStage *string
	var latest time.Time
	for _, e := range events {
		if terminal, ok := terminalByBatch[e.BatchID]; ok && e.ToStage == terminal {
			completed = completed.Add(e.Quantity)
		}
		if e.MovementDate.After(latest) {
			latest = e.MovementDate
			stage := e.ToStage
			currentStage = &stage
		}
	}

	now := time.Now()
	o.CompletedQuantity = completed
	o.CurrentStage = currentStage

	if o.Status == entity.OrderStatusPending && len(events) > 0 {
		o.Status = entity.OrderStatusInProgress
	}
	if o.Status == entity.OrderStatusInProgress &&
		completed.GreaterThanOrEqual(o.OrderedQuantity) &&
		allBatchesFinished(batches) {
		o.Status = entity.OrderStatusCompleted
		if o.ActualDeliveryDate == nil {
			o.ActualDeliveryDate = &now
		}
	}

	o.UpdatedAt = now
	if err := orderRepo.Update(o); err != nil {
		return nil, err
	}
	return o, nil
}

// allBatchesFinished: cada bobina vinculada llegó a su etapa terminal o ya
// quedó consumida.
func allBatchesFinished(batches []*entity.Batch) bool {
	if len(batches) == 0 {
		return false
	}
	for _, b := range batches {
		if b.IsConsumed() {
			continue
		}
		if b.CurrentStage == nil || *b.CurrentStage != b.TerminalStage() {
			return false
		}
	}
	return true
}
