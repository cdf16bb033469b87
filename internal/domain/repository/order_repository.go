package repository

import (
	"context"
	"time"

	"github.com/jhoicas/distribuidora-api/internal/domain/entity"
)

// OrderStatusUpdate cambio de estado condicionado: solo se aplica si el pedido sigue en ExpectedStatusID.
type OrderStatusUpdate struct {
	OrderID          int64
	ExpectedStatusID int64
	NewStatusID      int64
	UpdatedByUserID  *int64
	UpdatedAt        time.Time
}

// OrderFilter filtros del listado de pedidos.
type OrderFilter struct {
	StatusCode string
	ClientID   *int64
	Limit      int
	Offset     int
}

// OrderRepository define el puerto de persistencia para Order y sus líneas.
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	CreateItem(ctx context.Context, item *entity.OrderItem) error
	// GetByID devuelve el pedido con Status y Client, o (nil, nil) si no existe.
	GetByID(ctx context.Context, id int64) (*entity.Order, error)
	// GetForUpdate bloquea la fila del pedido (SELECT FOR UPDATE) y devuelve su estado actual.
	GetForUpdate(ctx context.Context, id int64) (*entity.Order, error)
	// UpdateStatus devuelve false si el estado ya no era ExpectedStatusID (compare-and-swap).
	UpdateStatus(ctx context.Context, update OrderStatusUpdate) (bool, error)
	ListItems(ctx context.Context, orderID int64) ([]entity.OrderItem, error)
	List(ctx context.Context, filter OrderFilter) ([]*entity.Order, int, error)
}

// OrderStatusRepository acceso a la tabla de referencia de estados.
type OrderStatusRepository interface {
	GetByCode(ctx context.Context, code string) (*entity.OrderStatus, error)
	List(ctx context.Context) ([]*entity.OrderStatus, error)
}
