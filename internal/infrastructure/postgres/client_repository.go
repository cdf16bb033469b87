package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/distribuidora-api/internal/domain/entity"
	"github.com/jhoicas/distribuidora-api/internal/domain/repository"
	"github.com/jhoicas/distribuidora-api/pkg/textutil"
)

var _ repository.ClientRepository = (*ClientRepo)(nil)

// ClientRepo implementación de ClientRepository sobre PostgreSQL.
type ClientRepo struct {
	q Querier
}

// NewClientRepository construye el adaptador de clientes.
func NewClientRepository(q Querier) *ClientRepo {
	return &ClientRepo{q: q}
}

const clientColumns = `c.id, c.name, c.document, c.is_active, c.created_at, c.updated_at`

// clientSummarySelect cliente con totales de pedidos; excludedParam es el placeholder
// del arreglo de códigos de estado que no cuentan como venta.
func clientSummarySelect(excludedParam string) string {
	return `
	SELECT ` + clientColumns + `,
	       COALESCE(a.order_count, 0), COALESCE(a.total_spent, 0), a.last_order_at
	FROM clients c
	LEFT JOIN LATERAL (
	    SELECT COUNT(*)          AS order_count,
	           SUM(o.total)      AS total_spent,
	           MAX(o.created_at) AS last_order_at
	    FROM orders o
	    JOIN order_statuses st ON st.id = o.status_id
	    WHERE o.client_id = c.id
	      AND NOT (st.code = ANY(` + excludedParam + `))
	) a ON true`
}

func scanClientSummary(row pgx.Row) (repository.ClientSummary, error) {
	var s repository.ClientSummary
	err := row.Scan(&s.Client.ID, &s.Client.Name, &s.Client.Document, &s.Client.IsActive,
		&s.Client.CreatedAt, &s.Client.UpdatedAt, &s.OrderCount, &s.TotalSpent, &s.LastOrderAt)
	return s, err
}

// GetByID obtiene un cliente por ID.
func (r *ClientRepo) GetByID(ctx context.Context, id int64) (*entity.Client, error) {
	var cl entity.Client
	err := r.q.QueryRow(ctx, `SELECT `+clientColumns+` FROM clients c WHERE c.id = $1`, id).
		Scan(&cl.ID, &cl.Name, &cl.Document, &cl.IsActive, &cl.CreatedAt, &cl.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get client: %w", err)
	}
	return &cl, nil
}

// List clientes por nombre con sus totales de ventas realizadas.
func (r *ClientRepo) List(ctx context.Context, filter repository.ClientFilter) ([]repository.ClientSummary, int, error) {
	var c conds
	if pattern := textutil.LikePattern(filter.Search); pattern != "" {
		c.add(`unaccent(lower(c.name)) ILIKE $?`, pattern)
	}
	if filter.IsActive != nil {
		c.add(`c.is_active = $?`, *filter.IsActive)
	}
	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM clients c`+c.where(), c.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count clients: %w", err)
	}

	where := c.where()
	excluded := c.bind(textArray(filter.ExcludedStatuses))
	suffix, args := c.page(filter.Limit, filter.Offset)
	rows, err := r.q.Query(ctx, clientSummarySelect(excluded)+where+` ORDER BY c.name, c.id`+suffix, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()
	var list []repository.ClientSummary
	for rows.Next() {
		s, err := scanClientSummary(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan client: %w", err)
		}
		list = append(list, s)
	}
	return list, total, rows.Err()
}
