package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/distribuidora-api/internal/domain"
	"github.com/jhoicas/distribuidora-api/internal/domain/entity"
	"github.com/jhoicas/distribuidora-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// Upsert inserta o actualiza la fila (variante, bodega) en una sola sentencia.
// Los campos nil conservan su valor; en una fila nueva valen 0. Los CHECK de la tabla
// deciden si el resultado es válido, sin ventana entre lectura y escritura.
func (r *StockRepo) Upsert(ctx context.Context, change entity.StockChange) (*entity.InventoryStock, error) {
	query := `
		INSERT INTO inventory_stock (variant_id, warehouse_id, qty_on_hand, qty_reserved, updated_at)
		VALUES ($1, $2, COALESCE($3::int, 0), COALESCE($4::int, 0), now())
		ON CONFLICT (variant_id, warehouse_id)
		DO UPDATE SET qty_on_hand  = COALESCE($3::int, inventory_stock.qty_on_hand),
		              qty_reserved = COALESCE($4::int, inventory_stock.qty_reserved),
		              updated_at   = now()
		RETURNING variant_id, warehouse_id, qty_on_hand, qty_reserved, updated_at`
	var s entity.InventoryStock
	err := r.q.QueryRow(ctx, query, change.VariantID, change.WarehouseID, change.QtyOnHand, change.QtyReserved).Scan(
		&s.VariantID, &s.WarehouseID, &s.QtyOnHand, &s.QtyReserved, &s.UpdatedAt,
	)
	if err != nil {
		return nil, stockWriteError(change, err)
	}
	return &s, nil
}

func stockWriteError(change entity.StockChange, err error) error {
	switch {
	case isCheckViolation(err):
		return domain.NewValidationError(stockField(constraintName(err)), "las cantidades violan las restricciones de inventario")
	case isForeignKeyViolation(err):
		if strings.Contains(constraintName(err), "warehouse") {
			return domain.NewNotFoundError("bodega", change.WarehouseID)
		}
		return domain.NewNotFoundError("variante", change.VariantID)
	}
	return fmt.Errorf("upsert stock: %w", err)
}

func stockField(constraint string) string {
	switch constraint {
	case "ck_inventory_stock_on_hand":
		return "qty_on_hand"
	case "ck_inventory_stock_reserved", "ck_inventory_stock_reserved_le_on_hand":
		return "qty_reserved"
	}
	return "stock"
}

// ListByVariant filas de stock de la variante ordenadas por bodega.
func (r *StockRepo) ListByVariant(ctx context.Context, variantID int64) ([]*entity.InventoryStock, error) {
	query := `
		SELECT variant_id, warehouse_id, qty_on_hand, qty_reserved, updated_at
		FROM inventory_stock WHERE variant_id = $1 ORDER BY warehouse_id`
	rows, err := r.q.Query(ctx, query, variantID)
	if err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryStock
	for rows.Next() {
		var s entity.InventoryStock
		if err := rows.Scan(&s.VariantID, &s.WarehouseID, &s.QtyOnHand, &s.QtyReserved, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// Totals suma on_hand y reserved de la variante en todas las bodegas (0 si no hay filas).
func (r *StockRepo) Totals(ctx context.Context, variantID int64) (repository.StockTotals, error) {
	var t repository.StockTotals
	query := `
		SELECT COALESCE(SUM(qty_on_hand), 0), COALESCE(SUM(qty_reserved), 0)
		FROM inventory_stock WHERE variant_id = $1`
	if err := r.q.QueryRow(ctx, query, variantID).Scan(&t.OnHand, &t.Reserved); err != nil {
		return t, fmt.Errorf("stock totals: %w", err)
	}
	return t, nil
}
