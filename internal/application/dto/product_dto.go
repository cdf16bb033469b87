package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto con sus variantes.
// price y default_price son alias: se usa price y, si falta, default_price.
type CreateProductRequest struct {
	Name         string           `json:"name" validate:"required,max=200"`
	Description  string           `json:"description" validate:"max=2000"`
	SKU          string           `json:"sku" validate:"required,max=100"`
	CategoryID   *int64           `json:"category_id"`
	Price        *decimal.Decimal `json:"price"`
	DefaultPrice *decimal.Decimal `json:"default_price"`
	Currency     string           `json:"currency" validate:"omitempty,len=3"`
	Variants     []VariantRequest `json:"variants" validate:"dive"`
}

// VariantRequest variante dentro de un alta o actualización de producto.
// En una actualización, ID presente = modificar variante existente; ausente = crear.
// stock e initial_stock son alias (se usa stock y, si falta, initial_stock).
type VariantRequest struct {
	ID           *int64  `json:"id"`
	SKU          *string `json:"sku" validate:"omitempty,max=100"`
	Barcode      *string `json:"barcode" validate:"omitempty,max=100"`
	Name         *string `json:"name" validate:"omitempty,max=200"`
	Type         *string `json:"type" validate:"omitempty,max=50"`
	Value        *string `json:"value" validate:"omitempty,max=100"`
	Stock        *int    `json:"stock"`
	InitialStock *int    `json:"initial_stock"`
	WarehouseID  *int64  `json:"warehouse_id"`
	IsActive     *bool   `json:"is_active"`
}

// UpdateProductRequest actualización parcial: solo se modifican los campos presentes.
// SKU es la base para generar SKUs de variantes nuevas.
type UpdateProductRequest struct {
	Name         *string          `json:"name" validate:"omitempty,max=200"`
	Description  *string          `json:"description" validate:"omitempty,max=2000"`
	SKU          *string          `json:"sku" validate:"omitempty,max=100"`
	CategoryID   *int64           `json:"category_id"`
	Price        *decimal.Decimal `json:"price"`
	DefaultPrice *decimal.Decimal `json:"default_price"`
	Currency     *string          `json:"currency" validate:"omitempty,len=3"`
	IsActive     *bool            `json:"is_active"`
	Variants     []VariantRequest `json:"variants" validate:"dive"`
}

// CreateProductResponse resultado del alta de producto.
type CreateProductResponse struct {
	ID              int64           `json:"id"`
	Name            string          `json:"name"`
	SKU             string          `json:"sku"`
	CategoryName    string          `json:"category_name"`
	Price           decimal.Decimal `json:"price"`
	Currency        string          `json:"currency"`
	VariantsCreated int             `json:"variants_created"`
	Message         string          `json:"message"`
}

// UpdateProductResponse resultado de la actualización de producto.
type UpdateProductResponse struct {
	ID              int64           `json:"id"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	CategoryID      *int64          `json:"category_id"`
	Price           decimal.Decimal `json:"price"`
	Currency        string          `json:"currency"`
	IsActive        bool            `json:"is_active"`
	VariantsUpdated int             `json:"variants_updated"`
	VariantsCreated int             `json:"variants_created"`
	Message         string          `json:"message"`
}

// ProductListRequest filtros del listado de productos.
type ProductListRequest struct {
	PageRequest
	Search     string `query:"search"`
	CategoryID *int64 `query:"category_id"`
	IsActive   *bool  `query:"is_active"`
}

// ProductListItem producto en el listado, con stock agregado y su clasificación.
type ProductListItem struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	CategoryID    *int64          `json:"category_id"`
	CategoryName  *string         `json:"category_name"`
	Price         decimal.Decimal `json:"price"`
	Currency      string          `json:"currency"`
	IsActive      bool            `json:"is_active"`
	VariantCount  int             `json:"variant_count"`
	TotalStock    int             `json:"total_stock"`
	TotalReserved int             `json:"total_reserved"`
	StockStatus   string          `json:"stock_status"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductListItem `json:"items"`
	Page  PageResponse      `json:"page"`
}

// CategoryResponse salida de una categoría.
type CategoryResponse struct {
	ID          int64  `json:"id"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
	SortOrder   int    `json:"sort_order"`
	IsActive    bool   `json:"is_active"`
}

// WarehouseStockResponse stock de una variante en una bodega.
type WarehouseStockResponse struct {
	WarehouseID   int64  `json:"warehouse_id"`
	WarehouseName string `json:"warehouse_name"`
	QtyOnHand     int    `json:"qty_on_hand"`
	QtyReserved   int    `json:"qty_reserved"`
	QtyAvailable  int    `json:"qty_available"`
}

// VariantDetailResponse variante con su stock por bodega.
type VariantDetailResponse struct {
	ID            int64                    `json:"id"`
	SKU           string                   `json:"sku"`
	Barcode       *string                  `json:"barcode"`
	VariantName   *string                  `json:"variant_name"`
	IsActive      bool                     `json:"is_active"`
	Stock         []WarehouseStockResponse `json:"stock"`
	TotalStock    int                      `json:"total_stock"`
	TotalReserved int                      `json:"total_reserved"`
	Available     int                      `json:"available"`
	StockStatus   string                   `json:"stock_status"`
}

// ProductDetailResponse detalle de producto con categoría, variantes y stock.
type ProductDetailResponse struct {
	ID            int64                   `json:"id"`
	Name          string                  `json:"name"`
	Description   string                  `json:"description"`
	Category      *CategoryResponse       `json:"category"`
	Price         decimal.Decimal         `json:"price"`
	Currency      string                  `json:"currency"`
	IsActive      bool                    `json:"is_active"`
	Variants      []VariantDetailResponse `json:"variants"`
	TotalStock    int                     `json:"total_stock"`
	TotalReserved int                     `json:"total_reserved"`
	StockStatus   string                  `json:"stock_status"`
	CreatedAt     time.Time               `json:"created_at"`
	UpdatedAt     time.Time               `json:"updated_at"`
}

// ProductStatsResponse estadísticas globales de productos.
type ProductStatsResponse struct {
	TotalProducts    int   `json:"total_products"`
	ActiveProducts   int   `json:"active_products"`
	InactiveProducts int   `json:"inactive_products"`
	TotalStock       int64 `json:"total_stock"`
	TotalReserved    int64 `json:"total_reserved"`
}
