package repository

import "github.com/tulsipower/production-monitor/internal/domain/entity"

// BatchFilter filtra el listado de bobinas.
type BatchFilter struct {
	Status  string
	Stage   string
	OrderID string
	Limit   int
	Offset  int
}

// BatchRepository define el puerto de persistencia para bobinas (lotes de
// materia prima que atraviesan el pipeline).
type BatchRepository interface {
	Create(batch *entity.Batch) error
	GetByID(id string) (*entity.Batch, error)
	// GetByIDForUpdate bloquea la fila de la bobina (SELECT FOR UPDATE)
	// para serializar movimientos concurrentes sobre la misma bobina.
	GetByIDForUpdate(id string) (*entity.Batch, error)
	GetByNumber(batchNumber string) (*entity.Batch, error)
	Update(batch *entity.Batch) error
	List(filter BatchFilter) ([]*entity.Batch, error)
	ListByOrder(orderID string) ([]*entity.Batch, error)
}

// BatchJourneyRepository define el puerto para el historial de recorrido de
// una bobina. Append-only.
type BatchJourneyRepository interface {
	Create(event *entity.BatchJourneyEvent) error
	ListByBatch(batchID string) ([]*entity.BatchJourneyEvent, error)
	ListByOrder(orderID string) ([]*entity.BatchJourneyEvent, error)
}
