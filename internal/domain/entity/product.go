package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo. Es dueño exclusivo de sus variantes;
// el stock se lleva por variante y bodega en InventoryStock.
type Product struct {
	ID           int64
	Name         string
	Description  string
	CategoryID   *int64
	DefaultPrice decimal.Decimal // precio de lista por defecto
	Currency     string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ProductVariant configuración vendible de un producto (talla, color...). El SKU es único globalmente.
type ProductVariant struct {
	ID          int64
	ProductID   int64
	SKU         string
	Barcode     *string
	VariantName *string // ej. "Color: Rojo"
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DisplayName devuelve el nombre de la variante o vacío si no tiene.
func (v *ProductVariant) DisplayName() string {
	if v.VariantName == nil {
		return ""
	}
	return *v.VariantName
}
