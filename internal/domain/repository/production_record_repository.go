package repository

import (
	"time"

	"github.com/tulsipower/production-monitor/internal/domain/entity"
)

// RecordFilter filtra la consulta de registros de producción.
// Los punteros nil significan "sin filtro".
type RecordFilter struct {
	Stage    string
	Shift    string
	DateFrom *time.Time
	DateTo   *time.Time
	Limit    int
	Offset   int
}

// ProductionRecordRepository define el puerto de persistencia para registros
// de producción por turno.
type ProductionRecordRepository interface {
	Create(record *entity.ProductionRecord) error
	GetByID(id string) (*entity.ProductionRecord, error)
	List(filter RecordFilter) ([]*entity.ProductionRecord, error)
	// ListWindow devuelve todos los registros del rango sin paginar,
	// para el motor de analítica.
	ListWindow(from, to time.Time) ([]*entity.ProductionRecord, error)
	Delete(id string) error
}
