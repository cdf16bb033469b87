package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateOrderRequest entrada para registrar una cotización (pedido en COTIZADO).
type CreateOrderRequest struct {
	ClientID int64                    `json:"client_id" validate:"required,gt=0"`
	Currency string                   `json:"currency" validate:"omitempty,len=3"`
	Notes    string                   `json:"notes" validate:"max=2000"`
	Items    []CreateOrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

// CreateOrderItemRequest línea de la cotización. Sin unit_price ni list_price se usa el precio del producto.
type CreateOrderItemRequest struct {
	VariantID int64            `json:"variant_id" validate:"required,gt=0"`
	Qty       int              `json:"qty" validate:"required,gt=0"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
	ListPrice *decimal.Decimal `json:"list_price"`
}

// TransitionStatusRequest body para PATCH /api/orders/:id/status.
type TransitionStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// OrderStatusResponse estado de un pedido.
type OrderStatusResponse struct {
	ID    int64  `json:"id"`
	Code  string `json:"code"`
	Label string `json:"label"`
}

// ClientRefResponse referencia corta a un cliente.
type ClientRefResponse struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Document *string `json:"document"`
}

// OrderItemResponse línea de pedido.
type OrderItemResponse struct {
	ID          int64            `json:"id"`
	VariantID   int64            `json:"variant_id"`
	Description string           `json:"description"`
	Qty         int              `json:"qty"`
	UnitPrice   decimal.Decimal  `json:"unit_price"`
	ListPrice   *decimal.Decimal `json:"list_price"`
	Currency    string           `json:"currency"`
	LineTotal   decimal.Decimal  `json:"line_total"`
}

// OrderResponse pedido con estado y cliente.
type OrderResponse struct {
	ID              int64               `json:"id"`
	Code            string              `json:"code"`
	Status          OrderStatusResponse `json:"status"`
	Client          *ClientRefResponse  `json:"client"`
	Currency        string              `json:"currency"`
	Subtotal        decimal.Decimal     `json:"subtotal"`
	Total           decimal.Decimal     `json:"total"`
	Notes           string              `json:"notes"`
	CreatedByUserID *int64              `json:"created_by_user_id"`
	UpdatedByUserID *int64              `json:"updated_by_user_id"`
	AllowedNext     []string            `json:"allowed_next"`
	Items           []OrderItemResponse `json:"items,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// TransitionStatusResponse resultado de un cambio de estado.
type TransitionStatusResponse struct {
	Message string        `json:"message"`
	Order   OrderResponse `json:"order"`
}

// OrderListRequest filtros del listado de pedidos.
type OrderListRequest struct {
	PageRequest
	Status   string `query:"status"`
	ClientID *int64 `query:"client_id"`
}

// OrderListResponse lista paginada de pedidos.
type OrderListResponse struct {
	Items []OrderResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}
