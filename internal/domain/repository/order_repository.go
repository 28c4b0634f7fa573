package repository

import "github.com/tulsipower/production-monitor/internal/domain/entity"

// OrderFilter filtra el listado de órdenes de cliente.
type OrderFilter struct {
	Status   string
	Customer string
	Limit    int
	Offset   int
}

// OrderRepository define el puerto de persistencia para órdenes de cliente.
type OrderRepository interface {
	Create(order *entity.Order) error
	GetByID(id string) (*entity.Order, error)
	GetByNumber(orderNumber string) (*entity.Order, error)
	Update(order *entity.Order) error
	List(filter OrderFilter) ([]*entity.Order, error)
}
