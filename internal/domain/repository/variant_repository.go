package repository

import (
	"context"

	"github.com/jhoicas/distribuidora-api/internal/domain/entity"
)

// VariantRepository define el puerto de persistencia para ProductVariant.
// Create y Update devuelven *domain.DuplicateSKUError si el SKU viola la restricción única.
type VariantRepository interface {
	Create(ctx context.Context, variant *entity.ProductVariant) error
	GetByID(ctx context.Context, id int64) (*entity.ProductVariant, error)
	Update(ctx context.Context, variant *entity.ProductVariant) error
	ListByProduct(ctx context.Context, productID int64) ([]*entity.ProductVariant, error)
	// ExistingSKUs devuelve cuáles de skus ya usa alguna variante distinta de excludeVariantID (0 = ninguna).
	ExistingSKUs(ctx context.Context, skus []string, excludeVariantID int64) ([]string, error)
}
