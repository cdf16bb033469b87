package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// InventorySummaryResult resultado crudo del resumen de inventario.
type InventorySummaryResult struct {
	TotalProducts  int             // productos activos
	StockTotal     int64           // suma de qty_on_hand
	LowStockCount  int             // filas (variante, bodega) bajo el umbral
	InventoryValue decimal.Decimal // Σ default_price × qty_on_hand (producto y variante activos)
}

// ProductStatsResult estadísticas globales de productos.
type ProductStatsResult struct {
	Total         int
	Active        int
	Inactive      int
	StockOnHand   int64
	StockReserved int64
}

// ClientStatsResult estadísticas globales de clientes (excluyendo los estados indicados).
type ClientStatsResult struct {
	TotalClients      int
	ActiveClients     int
	ClientsWithOrders int
	RealizedOrders    int
	TotalRevenue      decimal.Decimal
}

// PriceHistoryRow una línea de pedido de un cliente para un producto.
type PriceHistoryRow struct {
	OrderID     int64
	OrderCode   string
	OrderDate   time.Time
	StatusCode  string
	VariantID   int64
	SKU         string
	VariantName *string
	Description string
	Qty         int
	UnitPrice   decimal.Decimal
	ListPrice   *decimal.Decimal
	Currency    string
}

// AnalyticsRepository define las consultas de lectura para reportes.
// Las implementaciones son read-only (no modifican datos) y toleran lectura read-committed.
type AnalyticsRepository interface {
	InventorySummary(ctx context.Context, lowStockThreshold int) (*InventorySummaryResult, error)
	ProductStats(ctx context.Context) (*ProductStatsResult, error)
	ClientStats(ctx context.Context, excludedStatuses []string) (*ClientStatsResult, error)
	// TopClients los clientes con mayor total comprado, sin contar los estados excluidos.
	TopClients(ctx context.Context, excludedStatuses []string, limit int) ([]ClientSummary, error)
	// PriceHistory líneas del cliente cuyo variant pertenece al producto, pedido más reciente primero.
	PriceHistory(ctx context.Context, clientID, productID int64) ([]PriceHistoryRow, error)
}
