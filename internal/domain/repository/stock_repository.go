package repository

import (
	"context"

	"github.com/jhoicas/distribuidora-api/internal/domain/entity"
)

// StockTotals agregados de stock de una variante sobre todas las bodegas.
type StockTotals struct {
	OnHand   int
	Reserved int
}

// StockRepository define el puerto para consultar/actualizar stock por variante+bodega.
// Usado dentro de transacciones para garantizar consistencia.
type StockRepository interface {
	// Upsert aplica el cambio parcial en una sola sentencia atómica y devuelve la fila resultante.
	Upsert(ctx context.Context, change entity.StockChange) (*entity.InventoryStock, error)
	ListByVariant(ctx context.Context, variantID int64) ([]*entity.InventoryStock, error)
	Totals(ctx context.Context, variantID int64) (StockTotals, error)
}
