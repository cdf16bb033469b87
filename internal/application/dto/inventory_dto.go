package dto

import "github.com/shopspring/decimal"

// UpsertStockRequest body para PUT /api/inventory/stock. Los campos ausentes no se modifican.
type UpsertStockRequest struct {
	VariantID   int64 `json:"variant_id" validate:"required,gt=0"`
	WarehouseID int64 `json:"warehouse_id" validate:"required,gt=0"`
	QtyOnHand   *int  `json:"qty_on_hand" validate:"omitempty,min=0"`
	QtyReserved *int  `json:"qty_reserved" validate:"omitempty,min=0"`
}

// StockResponse una fila de stock tras un upsert.
type StockResponse struct {
	VariantID    int64  `json:"variant_id"`
	WarehouseID  int64  `json:"warehouse_id"`
	QtyOnHand    int    `json:"qty_on_hand"`
	QtyReserved  int    `json:"qty_reserved"`
	QtyAvailable int    `json:"qty_available"`
	StockStatus  string `json:"stock_status"`
}

// VariantAvailabilityResponse agregados de stock de una variante sobre todas las bodegas.
type VariantAvailabilityResponse struct {
	VariantID     int64  `json:"variant_id"`
	TotalStock    int    `json:"total_stock"`
	TotalReserved int    `json:"total_reserved"`
	Available     int    `json:"available"`
	StockStatus   string `json:"stock_status"`
}

// InventorySummaryResponse resumen global de inventario.
type InventorySummaryResponse struct {
	TotalProducts     int             `json:"total_products"`
	StockTotal        int64           `json:"stock_total"`
	LowStockCount     int             `json:"low_stock_count"`
	InventoryValue    decimal.Decimal `json:"inventory_value"`
	LowStockThreshold int             `json:"low_stock_threshold"`
}

// InventoryListRequest filtros del listado de inventario.
type InventoryListRequest struct {
	PageRequest
	Search      string `query:"search"`
	StockStatus string `query:"stock_status"`
	WarehouseID *int64 `query:"warehouse_id"`
}

// InventoryItemResponse línea de inventario (variante, bodega) con estado derivado.
type InventoryItemResponse struct {
	VariantID     int64           `json:"variant_id"`
	ProductID     int64           `json:"product_id"`
	ProductName   string          `json:"product_name"`
	SKU           string          `json:"sku"`
	VariantName   *string         `json:"variant_name"`
	WarehouseID   int64           `json:"warehouse_id"`
	WarehouseName string          `json:"warehouse_name"`
	QtyOnHand     int             `json:"qty_on_hand"`
	QtyReserved   int             `json:"qty_reserved"`
	QtyAvailable  int             `json:"qty_available"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	StockValue    decimal.Decimal `json:"stock_value"`
	Currency      string          `json:"currency"`
	StockStatus   string          `json:"stock_status"`
}

// InventoryListResponse lista paginada de inventario.
type InventoryListResponse struct {
	Items []InventoryItemResponse `json:"items"`
	Page  PageResponse            `json:"page"`
}
