package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tulsipower/production-monitor/internal/domain"
	"github.com/tulsipower/production-monitor/internal/domain/entity"
	"github.com/tulsipower/production-monitor/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo implementación de OrderRepository sobre PostgreSQL.
type OrderRepo struct {
	q Querier
}

func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

const orderColumns = `id, order_number, customer_name, product_specification, target_wire_size_mm,
	ordered_quantity, completed_quantity, status, current_stage, priority,
	order_date, expected_delivery_date, actual_delivery_date, notes, created_at, updated_at`

// Create inserta una orden de cliente.
func (r *OrderRepo) Create(order *entity.Order) error {
	query := `
		INSERT INTO orders
			(id, order_number, customer_name, product_specification, target_wire_size_mm,
			 ordered_quantity, completed_quantity, status, current_stage, priority,
			 order_date, expected_delivery_date, actual_delivery_date, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(context.Background(), query,
		order.ID, order.OrderNumber, order.CustomerName, order.ProductSpecification, order.TargetWireSizeMM,
		order.OrderedQuantity, order.CompletedQuantity, order.Status, order.CurrentStage, order.Priority,
		order.OrderDate, order.ExpectedDeliveryDate, order.ActualDeliveryDate, order.Notes,
		order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateOrderNumber
		}
		return fmt.Errorf("create order: %w", err)
	}
	return nil
}

// GetByID obtiene una orden por ID; nil si no existe.
func (r *OrderRepo) GetByID(id string) (*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	return r.scanOne(query, id)
}

// GetByNumber obtiene una orden por su número único; nil si no existe.
func (r *OrderRepo) GetByNumber(orderNumber string) (*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE order_number = $1`
	return r.scanOne(query, orderNumber)
}

// Update persiste el estado mutable de la orden (rollup y cambios de estado).
func (r *OrderRepo) Update(order *entity.Order) error {
	query := `
		UPDATE orders
		SET completed_quantity = $2,
		    status = $3,
		    current_stage = $4,
		    priority = $5,
		    expected_delivery_date = $6,
		    actual_delivery_date = $7,
		    notes = $8,
		    updated_at = $9
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		order.ID, order.CompletedQuantity, order.Status, order.CurrentStage, order.Priority,
		order.ExpectedDeliveryDate, order.ActualDeliveryDate, order.Notes, order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List devuelve órdenes filtradas: primero por prioridad, luego más recientes.
func (r *OrderRepo) List(filter repository.OrderFilter) ([]*entity.Order, error) {
	query := `SELECT ` + orderColumns + `
		FROM orders
		WHERE ($1 = '' OR status = $1)
		  AND ($2 = '' OR customer_name ILIKE '%' || $2 || '%')
		ORDER BY priority DESC, order_date DESC
		LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(context.Background(), query,
		filter.Status, filter.Customer, filter.Limit, filter.Offset)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var out []*entity.Order
	for rows.Next() {
		order, err := scanOrder(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		out = append(out, order)
	}
	return out, rows.Err()
}

func (r *OrderRepo) scanOne(query string, arg any) (*entity.Order, error) {
	row := r.q.QueryRow(context.Background(), query, arg)
	order, err := scanOrder(row.Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return order, nil
}

func scanOrder(scan func(dest ...any) error) (*entity.Order, error) {
	var order entity.Order
	err := scan(
		&order.ID, &order.OrderNumber, &order.CustomerName, &order.ProductSpecification, &order.TargetWireSizeMM,
		&order.OrderedQuantity, &order.CompletedQuantity, &order.Status, &order.CurrentStage, &order.Priority,
		&order.OrderDate, &order.ExpectedDeliveryDate, &order.ActualDeliveryDate, &order.Notes,
		&order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &order, nil
}
