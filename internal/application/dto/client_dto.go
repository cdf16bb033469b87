package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ClientListRequest filtros del listado de clientes.
type ClientListRequest struct {
	PageRequest
	Search   string `query:"search"`
	IsActive *bool  `query:"is_active"`
}

// ClientResponse cliente con sus totales de ventas realizadas (sin cotizaciones ni cancelados).
type ClientResponse struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Document    *string         `json:"document"`
	IsActive    bool            `json:"is_active"`
	OrderCount  int             `json:"order_count"`
	TotalSpent  decimal.Decimal `json:"total_spent"`
	LastOrderAt *time.Time      `json:"last_order_at"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ClientListResponse lista paginada de clientes.
type ClientListResponse struct {
	Items []ClientResponse `json:"items"`
	Page  PageResponse     `json:"page"`
}

// ClientStatisticsResponse estadísticas globales de clientes.
type ClientStatisticsResponse struct {
	TotalClients      int              `json:"total_clients"`
	ActiveClients     int              `json:"active_clients"`
	InactiveClients   int              `json:"inactive_clients"`
	ClientsWithOrders int              `json:"clients_with_orders"`
	RealizedOrders    int              `json:"realized_orders"`
	TotalRevenue      decimal.Decimal  `json:"total_revenue"`
	AverageTicket     decimal.Decimal  `json:"average_ticket"`
	TopClients        []ClientResponse `json:"top_clients"`
}

// PriceHistoryEntry precio cobrado a un cliente por un producto en un pedido.
type PriceHistoryEntry struct {
	OrderID         int64            `json:"order_id"`
	OrderCode       string           `json:"order_code"`
	OrderDate       time.Time        `json:"order_date"`
	OrderStatus     string           `json:"order_status"`
	VariantID       int64            `json:"variant_id"`
	SKU             string           `json:"sku"`
	VariantName     *string          `json:"variant_name"`
	Description     string           `json:"description"`
	Qty             int              `json:"qty"`
	UnitPrice       decimal.Decimal  `json:"unit_price"`
	ListPrice       *decimal.Decimal `json:"list_price"`
	Discount        decimal.Decimal  `json:"discount"`
	DiscountPercent decimal.Decimal  `json:"discount_percent"`
	Currency        string           `json:"currency"`
}

// PriceHistoryResponse historial de precios de un producto para un cliente.
type PriceHistoryResponse struct {
	ClientID  int64               `json:"client_id"`
	ProductID int64               `json:"product_id"`
	Entries   []PriceHistoryEntry `json:"entries"`
}
