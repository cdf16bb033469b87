package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/distribuidora-api/internal/application/catalog"
	"github.com/jhoicas/distribuidora-api/internal/application/order"
	"github.com/jhoicas/distribuidora-api/internal/domain/repository"
)

var (
	_ catalog.TxRunner = (*TxRunner)(nil)
	_ order.TxRunner   = (*TxRunner)(nil)
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(repos repository.TxRepositories) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewTxRepositories(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// NewTxRepositories arma los repositorios sobre q (pool o tx).
func NewTxRepositories(q Querier) repository.TxRepositories {
	return repository.TxRepositories{
		Products:      NewProductRepository(q),
		Variants:      NewVariantRepository(q),
		Warehouses:    NewWarehouseRepository(q),
		Stock:         NewStockRepository(q),
		Orders:        NewOrderRepository(q),
		OrderStatuses: NewOrderStatusRepository(q),
		Users:         NewUserRepository(q),
	}
}
