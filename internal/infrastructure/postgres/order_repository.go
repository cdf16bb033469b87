package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/distribuidora-api/internal/domain"
	"github.com/jhoicas/distribuidora-api/internal/domain/entity"
	"github.com/jhoicas/distribuidora-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo implementación de OrderRepository sobre PostgreSQL (usable con pool o tx).
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador de pedidos.
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

const orderSelect = `
	SELECT o.id, o.code, o.client_id, o.status_id, o.currency, o.subtotal, o.total, o.notes,
	       o.created_by_user_id, o.updated_by_user_id, o.created_at, o.updated_at,
	       st.id, st.code, st.label, st.sort_order, st.is_active,
	       c.id, c.name, c.document, c.is_active, c.created_at, c.updated_at
	FROM orders o
	JOIN order_statuses st ON st.id = o.status_id
	JOIN clients c         ON c.id  = o.client_id`

func scanOrder(row pgx.Row) (*entity.Order, error) {
	var (
		o  entity.Order
		st entity.OrderStatus
		c  entity.Client
	)
	err := row.Scan(
		&o.ID, &o.Code, &o.ClientID, &o.StatusID, &o.Currency, &o.Subtotal, &o.Total, &o.Notes,
		&o.CreatedByUserID, &o.UpdatedByUserID, &o.CreatedAt, &o.UpdatedAt,
		&st.ID, &st.Code, &st.Label, &st.SortOrder, &st.IsActive,
		&c.ID, &c.Name, &c.Document, &c.IsActive, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	o.Status = &st
	o.Client = &c
	return &o, nil
}

// Create persiste la cabecera del pedido y asigna su ID.
func (r *OrderRepo) Create(ctx context.Context, order *entity.Order) error {
	query := `
		INSERT INTO orders (code, client_id, status_id, currency, subtotal, total, notes,
		                    created_by_user_id, updated_by_user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		order.Code, order.ClientID, order.StatusID, order.Currency, order.Subtotal, order.Total, order.Notes,
		order.CreatedByUserID, order.UpdatedByUserID, order.CreatedAt, order.UpdatedAt,
	).Scan(&order.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.NewNotFoundError("cliente", order.ClientID)
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// CreateItem persiste una línea del pedido.
func (r *OrderRepo) CreateItem(ctx context.Context, item *entity.OrderItem) error {
	query := `
		INSERT INTO order_items (order_id, variant_id, qty, unit_price, list_price, currency, line_total, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		item.OrderID, item.VariantID, item.Qty, item.UnitPrice, item.ListPrice, item.Currency,
		item.LineTotal, item.Description, item.CreatedAt,
	).Scan(&item.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.NewNotFoundError("variante", item.VariantID)
		}
		if isCheckViolation(err) {
			return domain.NewValidationError("items", "cantidad o precio inválido")
		}
		return fmt.Errorf("insert order item: %w", err)
	}
	return nil
}

// GetByID obtiene el pedido con su estado y cliente.
func (r *OrderRepo) GetByID(ctx context.Context, id int64) (*entity.Order, error) {
	o, err := scanOrder(r.q.QueryRow(ctx, orderSelect+` WHERE o.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return o, nil
}

// GetForUpdate lee el pedido y bloquea su fila hasta el fin de la transacción.
func (r *OrderRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Order, error) {
	o, err := scanOrder(r.q.QueryRow(ctx, orderSelect+` WHERE o.id = $1 FOR UPDATE OF o`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order for update: %w", err)
	}
	return o, nil
}

// UpdateStatus cambia el estado solo si sigue siendo ExpectedStatusID.
func (r *OrderRepo) UpdateStatus(ctx context.Context, update repository.OrderStatusUpdate) (bool, error) {
	query := `
		UPDATE orders
		SET status_id = $3, updated_by_user_id = $4, updated_at = $5
		WHERE id = $1 AND status_id = $2`
	cmd, err := r.q.Exec(ctx, query,
		update.OrderID, update.ExpectedStatusID, update.NewStatusID, update.UpdatedByUserID, update.UpdatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("update order status: %w", err)
	}
	return cmd.RowsAffected() == 1, nil
}

// ListItems líneas del pedido en orden de inserción.
func (r *OrderRepo) ListItems(ctx context.Context, orderID int64) ([]entity.OrderItem, error) {
	query := `
		SELECT id, order_id, variant_id, qty, unit_price, list_price, currency, line_total, description, created_at
		FROM order_items WHERE order_id = $1 ORDER BY id`
	rows, err := r.q.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()
	var items []entity.OrderItem
	for rows.Next() {
		var it entity.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.VariantID, &it.Qty, &it.UnitPrice, &it.ListPrice,
			&it.Currency, &it.LineTotal, &it.Description, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// List pedidos más recientes primero.
func (r *OrderRepo) List(ctx context.Context, filter repository.OrderFilter) ([]*entity.Order, int, error) {
	var c conds
	if filter.StatusCode != "" {
		c.add(`st.code = $?`, filter.StatusCode)
	}
	if filter.ClientID != nil {
		c.add(`o.client_id = $?`, *filter.ClientID)
	}
	var total int
	countQuery := `SELECT COUNT(*) FROM orders o JOIN order_statuses st ON st.id = o.status_id` + c.where()
	if err := r.q.QueryRow(ctx, countQuery, c.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	suffix, args := c.page(filter.Limit, filter.Offset)
	rows, err := r.q.Query(ctx, orderSelect+c.where()+` ORDER BY o.id DESC`+suffix, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan order: %w", err)
		}
		list = append(list, o)
	}
	return list, total, rows.Err()
}

var _ repository.OrderStatusRepository = (*OrderStatusRepo)(nil)

// OrderStatusRepo acceso a order_statuses.
type OrderStatusRepo struct {
	q Querier
}

// NewOrderStatusRepository construye el adaptador de estados.
func NewOrderStatusRepository(q Querier) *OrderStatusRepo {
	return &OrderStatusRepo{q: q}
}

// GetByCode estado por código, o (nil, nil) si no existe.
func (r *OrderStatusRepo) GetByCode(ctx context.Context, code string) (*entity.OrderStatus, error) {
	var st entity.OrderStatus
	err := r.q.QueryRow(ctx, `SELECT id, code, label, sort_order, is_active FROM order_statuses WHERE code = $1`, code).
		Scan(&st.ID, &st.Code, &st.Label, &st.SortOrder, &st.IsActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order status: %w", err)
	}
	return &st, nil
}

// List estados en el orden del flujo.
func (r *OrderStatusRepo) List(ctx context.Context) ([]*entity.OrderStatus, error) {
	rows, err := r.q.Query(ctx, `SELECT id, code, label, sort_order, is_active FROM order_statuses ORDER BY sort_order, id`)
	if err != nil {
		return nil, fmt.Errorf("list order statuses: %w", err)
	}
	defer rows.Close()
	var list []*entity.OrderStatus
	for rows.Next() {
		var st entity.OrderStatus
		if err := rows.Scan(&st.ID, &st.Code, &st.Label, &st.SortOrder, &st.IsActive); err != nil {
			return nil, fmt.Errorf("scan order status: %w", err)
		}
		list = append(list, &st)
	}
	return list, rows.Err()
}
