package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/distribuidora-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura para reportes de inventario, productos y clientes.
type AnalyticsRepo struct {
	q Querier
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(q Querier) *AnalyticsRepo {
	return &AnalyticsRepo{q: q}
}

// InventorySummary totales de inventario. El valor solo cuenta variantes y productos activos;
// las filas bajo el umbral incluyen las que están en cero.
func (r *AnalyticsRepo) InventorySummary(ctx context.Context, lowStockThreshold int) (*repository.InventorySummaryResult, error) {
	const query = `
	SELECT
	    (SELECT COUNT(*) FROM products WHERE is_active)                          AS total_products,
	    (SELECT COALESCE(SUM(qty_on_hand), 0) FROM inventory_stock)              AS stock_total,
	    (SELECT COUNT(*) FROM inventory_stock WHERE qty_on_hand < $1)            AS low_stock_count,
	    (SELECT COALESCE(SUM(p.default_price * s.qty_on_hand), 0)
	       FROM inventory_stock s
	       JOIN product_variants v ON v.id = s.variant_id
	       JOIN products         p ON p.id = v.product_id
	      WHERE v.is_active AND p.is_active)                                     AS inventory_value`

	res := &repository.InventorySummaryResult{InventoryValue: decimal.Zero}
	err := r.q.QueryRow(ctx, query, lowStockThreshold).
		Scan(&res.TotalProducts, &res.StockTotal, &res.LowStockCount, &res.InventoryValue)
	if err != nil {
		return nil, fmt.Errorf("analytics.InventorySummary: %w", err)
	}
	return res, nil
}

// ProductStats conteo de productos por estado y stock global.
func (r *AnalyticsRepo) ProductStats(ctx context.Context) (*repository.ProductStatsResult, error) {
	const query = `
	SELECT
	    (SELECT COUNT(*) FROM products)                                  AS total,
	    (SELECT COUNT(*) FROM products WHERE is_active)                  AS active,
	    (SELECT COUNT(*) FROM products WHERE NOT is_active)              AS inactive,
	    (SELECT COALESCE(SUM(qty_on_hand), 0) FROM inventory_stock)      AS stock_on_hand,
	    (SELECT COALESCE(SUM(qty_reserved), 0) FROM inventory_stock)     AS stock_reserved`

	res := &repository.ProductStatsResult{}
	err := r.q.QueryRow(ctx, query).
		Scan(&res.Total, &res.Active, &res.Inactive, &res.StockOnHand, &res.StockReserved)
	if err != nil {
		return nil, fmt.Errorf("analytics.ProductStats: %w", err)
	}
	return res, nil
}

// ClientStats totales de clientes y de pedidos que cuentan como venta.
func (r *AnalyticsRepo) ClientStats(ctx context.Context, excludedStatuses []string) (*repository.ClientStatsResult, error) {
	const query = `
	SELECT
	    (SELECT COUNT(*) FROM clients)                 AS total_clients,
	    (SELECT COUNT(*) FROM clients WHERE is_active) AS active_clients,
	    COUNT(DISTINCT o.client_id)                    AS clients_with_orders,
	    COUNT(o.id)                                    AS realized_orders,
	    COALESCE(SUM(o.total), 0)                      AS total_revenue
	FROM orders o
	JOIN order_statuses st ON st.id = o.status_id
	WHERE NOT (st.code = ANY($1))`

	res := &repository.ClientStatsResult{TotalRevenue: decimal.Zero}
	err := r.q.QueryRow(ctx, query, textArray(excludedStatuses)).
		Scan(&res.TotalClients, &res.ActiveClients, &res.ClientsWithOrders, &res.RealizedOrders, &res.TotalRevenue)
	if err != nil {
		return nil, fmt.Errorf("analytics.ClientStats: %w", err)
	}
	return res, nil
}

// TopClients los `limit` clientes con mayor total comprado; empates por id.
func (r *AnalyticsRepo) TopClients(ctx context.Context, excludedStatuses []string, limit int) ([]repository.ClientSummary, error) {
	query := clientSummarySelect("$1") + `
	WHERE a.order_count > 0
	ORDER BY a.total_spent DESC, c.id
	LIMIT $2`

	rows, err := r.q.Query(ctx, query, textArray(excludedStatuses), limit)
	if err != nil {
		return nil, fmt.Errorf("analytics.TopClients: %w", err)
	}
	defer rows.Close()
	var results []repository.ClientSummary
	for rows.Next() {
		s, err := scanClientSummary(rows)
		if err != nil {
			return nil, fmt.Errorf("analytics.TopClients scan: %w", err)
		}
		results = append(results, s)
	}
	return results, rows.Err()
}

// PriceHistory líneas vendidas al cliente de cualquier variante del producto, más reciente primero.
func (r *AnalyticsRepo) PriceHistory(ctx context.Context, clientID, productID int64) ([]repository.PriceHistoryRow, error) {
	const query = `
	SELECT o.id, o.code, o.created_at, st.code,
	       v.id, v.sku, v.variant_name,
	       oi.description, oi.qty, oi.unit_price, oi.list_price, oi.currency
	FROM order_items oi
	JOIN orders           o  ON o.id  = oi.order_id
	JOIN order_statuses   st ON st.id = o.status_id
	JOIN product_variants v  ON v.id  = oi.variant_id
	WHERE o.client_id = $1
	  AND v.product_id = $2
	ORDER BY o.created_at DESC, o.id DESC, oi.id`

	rows, err := r.q.Query(ctx, query, clientID, productID)
	if err != nil {
		return nil, fmt.Errorf("analytics.PriceHistory: %w", err)
	}
	defer rows.Close()
	var results []repository.PriceHistoryRow
	for rows.Next() {
		var h repository.PriceHistoryRow
		if err := rows.Scan(&h.OrderID, &h.OrderCode, &h.OrderDate, &h.StatusCode,
			&h.VariantID, &h.SKU, &h.VariantName,
			&h.Description, &h.Qty, &h.UnitPrice, &h.ListPrice, &h.Currency); err != nil {
			return nil, fmt.Errorf("analytics.PriceHistory scan: %w", err)
		}
		results = append(results, h)
	}
	return results, rows.Err()
}
