package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/distribuidora-api/internal/domain"
	"github.com/jhoicas/distribuidora-api/internal/domain/entity"
	"github.com/jhoicas/distribuidora-api/internal/domain/repository"
)

var _ repository.VariantRepository = (*VariantRepo)(nil)

// VariantRepo implementación de VariantRepository sobre PostgreSQL (usable con pool o tx).
type VariantRepo struct {
	q Querier
}

// NewVariantRepository construye el adaptador de variantes.
func NewVariantRepository(q Querier) *VariantRepo {
	return &VariantRepo{q: q}
}

const variantColumns = `id, product_id, sku, barcode, variant_name, is_active, created_at, updated_at`

func scanVariant(row pgx.Row) (*entity.ProductVariant, error) {
	var v entity.ProductVariant
	err := row.Scan(&v.ID, &v.ProductID, &v.SKU, &v.Barcode, &v.VariantName, &v.IsActive, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// Create persiste la variante. Un SKU repetido devuelve *domain.DuplicateSKUError.
func (r *VariantRepo) Create(ctx context.Context, variant *entity.ProductVariant) error {
	query := `
		INSERT INTO product_variants (product_id, sku, barcode, variant_name, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`
	err := r.q.QueryRow(ctx, query,
		variant.ProductID, variant.SKU, variant.Barcode, variant.VariantName, variant.IsActive,
	).Scan(&variant.ID, &variant.CreatedAt, &variant.UpdatedAt)
	if err != nil {
		return variantWriteError("insert variant", variant, err)
	}
	return nil
}

// GetByID obtiene una variante por ID.
func (r *VariantRepo) GetByID(ctx context.Context, id int64) (*entity.ProductVariant, error) {
	v, err := scanVariant(r.q.QueryRow(ctx, `SELECT `+variantColumns+` FROM product_variants WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get variant: %w", err)
	}
	return v, nil
}

// Update guarda SKU, código de barras, nombre y estado de la variante.
func (r *VariantRepo) Update(ctx context.Context, variant *entity.ProductVariant) error {
	query := `
		UPDATE product_variants
		SET sku = $2, barcode = $3, variant_name = $4, is_active = $5, updated_at = $6
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		variant.ID, variant.SKU, variant.Barcode, variant.VariantName, variant.IsActive, variant.UpdatedAt,
	)
	if err != nil {
		return variantWriteError("update variant", variant, err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NewNotFoundError("variante", variant.ID)
	}
	return nil
}

func variantWriteError(op string, variant *entity.ProductVariant, err error) error {
	switch {
	case isUniqueViolation(err):
		return &domain.DuplicateSKUError{SKU: variant.SKU}
	case isForeignKeyViolation(err):
		return domain.NewNotFoundError("producto", variant.ProductID)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// ListByProduct variantes del producto por id ascendente (orden de creación).
func (r *VariantRepo) ListByProduct(ctx context.Context, productID int64) ([]*entity.ProductVariant, error) {
	rows, err := r.q.Query(ctx, `SELECT `+variantColumns+` FROM product_variants WHERE product_id = $1 ORDER BY id`, productID)
	if err != nil {
		return nil, fmt.Errorf("list variants: %w", err)
	}
	defer rows.Close()
	var list []*entity.ProductVariant
	for rows.Next() {
		v, err := scanVariant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan variant: %w", err)
		}
		list = append(list, v)
	}
	return list, rows.Err()
}

// ExistingSKUs cuáles de skus ya están tomados por variantes distintas de excludeVariantID.
func (r *VariantRepo) ExistingSKUs(ctx context.Context, skus []string, excludeVariantID int64) ([]string, error) {
	if len(skus) == 0 {
		return nil, nil
	}
	rows, err := r.q.Query(ctx, `SELECT sku FROM product_variants WHERE sku = ANY($1) AND id <> $2`, skus, excludeVariantID)
	if err != nil {
		return nil, fmt.Errorf("existing skus: %w", err)
	}
	defer rows.Close()
	var taken []string
	for rows.Next() {
		var sku string
		if err := rows.Scan(&sku); err != nil {
			return nil, fmt.Errorf("scan sku: %w", err)
		}
		taken = append(taken, sku)
	}
	return taken, rows.Err()
}
