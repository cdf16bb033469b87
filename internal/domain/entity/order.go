package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order pedido de un cliente. StatusID solo cambia a través del flujo de estados.
// Status, Client e Items se llenan en lecturas con join.
type Order struct {
	ID              int64
	Code            string
	ClientID        int64
	StatusID        int64
	Currency        string
	Subtotal        decimal.Decimal
	Total           decimal.Decimal
	Notes           string
	CreatedByUserID *int64
	UpdatedByUserID *int64
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Status *OrderStatus
	Client *Client
	Items  []OrderItem
}

// OrderItem línea de pedido. Registro histórico inmutable: guarda el precio y la descripción
// vigentes al momento de la venta.
type OrderItem struct {
	ID          int64
	OrderID     int64
	VariantID   int64
	Qty         int
	UnitPrice   decimal.Decimal
	ListPrice   *decimal.Decimal // precio de lista al vender; nil si no se registró
	Currency    string
	LineTotal   decimal.Decimal
	Description string
	CreatedAt   time.Time
}
