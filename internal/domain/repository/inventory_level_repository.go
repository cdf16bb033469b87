package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/distribuidora-api/internal/domain/inventory"
)

// InventoryFilter filtros del listado de inventario por (variante, bodega).
// Status se evalúa con Threshold, el mismo umbral que usa la política de stock.
type InventoryFilter struct {
	Search      string
	WarehouseID *int64
	Status      inventory.StockStatus
	Threshold   int
	Limit       int
	Offset      int
}

// InventoryLine una fila de inventario con datos de producto y bodega.
type InventoryLine struct {
	VariantID     int64
	ProductID     int64
	ProductName   string
	SKU           string
	VariantName   *string
	WarehouseID   int64
	WarehouseName string
	QtyOnHand     int
	QtyReserved   int
	DefaultPrice  decimal.Decimal
	Currency      string
}

// InventoryLevelRepository consultas de lectura sobre el stock con joins a catálogo y bodegas.
type InventoryLevelRepository interface {
	List(ctx context.Context, filter InventoryFilter) ([]InventoryLine, int, error)
}
