package repository

import (
	"context"

	"github.com/jhoicas/distribuidora-api/internal/domain/entity"
)

// ProductFilter filtros del listado de productos. Search ya viene normalizado (sin tildes, minúsculas).
type ProductFilter struct {
	Search     string
	CategoryID *int64
	IsActive   *bool
	Limit      int
	Offset     int
}

// ProductListRow producto con datos agregados para el listado.
type ProductListRow struct {
	Product       entity.Product
	CategoryName  *string
	VariantCount  int
	TotalStock    int
	TotalReserved int
}

// ProductRepository define el puerto de persistencia para Product (DIP).
// GetByID devuelve (nil, nil) si no existe.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id int64) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	List(ctx context.Context, filter ProductFilter) ([]ProductListRow, int, error)
}
