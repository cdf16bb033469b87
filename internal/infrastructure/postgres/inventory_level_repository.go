package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/distribuidora-api/internal/domain/inventory"
	"github.com/jhoicas/distribuidora-api/internal/domain/repository"
	"github.com/jhoicas/distribuidora-api/pkg/textutil"
)

var _ repository.InventoryLevelRepository = (*InventoryLevelRepo)(nil)

// InventoryLevelRepo implementación de InventoryLevelRepository sobre PostgreSQL.
type InventoryLevelRepo struct {
	q Querier
}

// NewInventoryLevelRepository construye el adaptador. Acepta pool o tx (Querier).
func NewInventoryLevelRepository(q Querier) *InventoryLevelRepo {
	return &InventoryLevelRepo{q: q}
}

// statusCondition traduce un estado de stock a condición SQL sobre s.qty_on_hand.
func statusCondition(status inventory.StockStatus) string {
	switch status {
	case inventory.OutOfStock:
		return `s.qty_on_hand <= 0`
	case inventory.LowStock:
		return `s.qty_on_hand > 0 AND s.qty_on_hand < $?`
	case inventory.InStock:
		return `s.qty_on_hand >= $?`
	}
	return ""
}

// List filas (variante, bodega) con datos de producto, ordenadas por producto, SKU y bodega.
func (r *InventoryLevelRepo) List(ctx context.Context, filter repository.InventoryFilter) ([]repository.InventoryLine, int, error) {
	var c conds
	if pattern := textutil.LikePattern(filter.Search); pattern != "" {
		c.add(`(unaccent(lower(p.name)) ILIKE $? OR unaccent(lower(v.sku)) ILIKE $?)`, pattern)
	}
	if filter.WarehouseID != nil {
		c.add(`s.warehouse_id = $?`, *filter.WarehouseID)
	}
	switch cond := statusCondition(filter.Status); filter.Status {
	case "":
	case inventory.OutOfStock:
		c.add(cond)
	default:
		c.add(cond, inventory.NewStockPolicy(filter.Threshold).LowStockThreshold)
	}

	const from = `
		FROM inventory_stock s
		JOIN product_variants v ON v.id = s.variant_id
		JOIN products p         ON p.id = v.product_id
		JOIN warehouses w       ON w.id = s.warehouse_id`

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*)`+from+c.where(), c.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count inventory: %w", err)
	}

	suffix, args := c.page(filter.Limit, filter.Offset)
	query := `
		SELECT v.id, p.id, p.name, v.sku, v.variant_name, w.id, w.name,
		       s.qty_on_hand, s.qty_reserved, p.default_price, p.currency` + from + c.where() + `
		ORDER BY p.name, v.sku, w.id` + suffix
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list inventory: %w", err)
	}
	defer rows.Close()
	var list []repository.InventoryLine
	for rows.Next() {
		var l repository.InventoryLine
		if err := rows.Scan(&l.VariantID, &l.ProductID, &l.ProductName, &l.SKU, &l.VariantName,
			&l.WarehouseID, &l.WarehouseName, &l.QtyOnHand, &l.QtyReserved, &l.DefaultPrice, &l.Currency); err != nil {
			return nil, 0, fmt.Errorf("scan inventory line: %w", err)
		}
		list = append(list, l)
	}
	return list, total, rows.Err()
}
