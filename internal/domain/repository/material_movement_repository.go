package repository

import (
	"time"

	"github.com/tulsipower/production-monitor/internal/domain/entity"
)

// MaterialMovementRepository define el puerto para el historial de traslados
// de material entre etapas.
type MaterialMovementRepository interface {
	Create(mov *entity.MaterialMovement) error
	List(from, to *time.Time, limit, offset int) ([]*entity.MaterialMovement, error)
	ListByBatch(batchID string) ([]*entity.MaterialMovement, error)
}
