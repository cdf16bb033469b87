package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/distribuidora-api/internal/domain"
	"github.com/jhoicas/distribuidora-api/internal/domain/entity"
	"github.com/jhoicas/distribuidora-api/internal/domain/repository"
	"github.com/jhoicas/distribuidora-api/pkg/textutil"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `p.id, p.name, p.description, p.category_id, p.default_price, p.currency, p.is_active, p.created_at, p.updated_at`

func productDest(p *entity.Product) []any {
	return []any{&p.ID, &p.Name, &p.Description, &p.CategoryID, &p.DefaultPrice, &p.Currency, &p.IsActive, &p.CreatedAt, &p.UpdatedAt}
}

// Create persiste un nuevo producto; asigna ID y timestamps.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	query := `
		INSERT INTO products (name, description, category_id, default_price, currency, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`
	err := r.q.QueryRow(ctx, query,
		product.Name, product.Description, product.CategoryID, product.DefaultPrice, product.Currency, product.IsActive,
	).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		if isForeignKeyViolation(err) && product.CategoryID != nil {
			return domain.NewNotFoundError("categoría", *product.CategoryID)
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id int64) (*entity.Product, error) {
	var p entity.Product
	err := r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products p WHERE p.id = $1`, id).Scan(productDest(&p)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

// Update guarda los campos editables del producto.
func (r *ProductRepo) Update(ctx context.Context, product *entity.Product) error {
	query := `
		UPDATE products
		SET name = $2, description = $3, category_id = $4, default_price = $5,
		    currency = $6, is_active = $7, updated_at = $8
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		product.ID, product.Name, product.Description, product.CategoryID, product.DefaultPrice,
		product.Currency, product.IsActive, product.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) && product.CategoryID != nil {
			return domain.NewNotFoundError("categoría", *product.CategoryID)
		}
		return fmt.Errorf("update product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NewNotFoundError("producto", product.ID)
	}
	return nil
}

// List productos más recientes primero, con conteo de variantes y stock agregado.
// La búsqueda compara sin tildes contra el nombre y los SKU de sus variantes.
func (r *ProductRepo) List(ctx context.Context, filter repository.ProductFilter) ([]repository.ProductListRow, int, error) {
	var c conds
	if pattern := textutil.LikePattern(filter.Search); pattern != "" {
		c.add(`(unaccent(lower(p.name)) ILIKE $?
			OR EXISTS (SELECT 1 FROM product_variants sv
			           WHERE sv.product_id = p.id AND unaccent(lower(sv.sku)) ILIKE $?))`, pattern)
	}
	if filter.CategoryID != nil {
		c.add(`p.category_id = $?`, *filter.CategoryID)
	}
	if filter.IsActive != nil {
		c.add(`p.is_active = $?`, *filter.IsActive)
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM products p`+c.where(), c.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	suffix, args := c.page(filter.Limit, filter.Offset)
	query := `
		SELECT ` + productColumns + `, cat.name,
		       COALESCE(v.variant_count, 0), COALESCE(s.on_hand, 0), COALESCE(s.reserved, 0)
		FROM products p
		LEFT JOIN categories cat ON cat.id = p.category_id
		LEFT JOIN LATERAL (
		    SELECT COUNT(*) AS variant_count FROM product_variants pv WHERE pv.product_id = p.id
		) v ON true
		LEFT JOIN LATERAL (
		    SELECT SUM(st.qty_on_hand) AS on_hand, SUM(st.qty_reserved) AS reserved
		    FROM inventory_stock st
		    JOIN product_variants pv ON pv.id = st.variant_id
		    WHERE pv.product_id = p.id
		) s ON true` + c.where() + `
		ORDER BY p.id DESC` + suffix
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []repository.ProductListRow
	for rows.Next() {
		var row repository.ProductListRow
		dest := append(productDest(&row.Product), &row.CategoryName, &row.VariantCount, &row.TotalStock, &row.TotalReserved)
		if err := rows.Scan(dest...); err != nil {
			return nil, 0, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, row)
	}
	return list, total, rows.Err()
}
