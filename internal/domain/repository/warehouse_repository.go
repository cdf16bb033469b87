package repository

import (
	"context"

	"github.com/jhoicas/distribuidora-api/internal/domain/entity"
)

// WarehouseRepository define el puerto de persistencia para Warehouse (DIP).
type WarehouseRepository interface {
	Create(ctx context.Context, warehouse *entity.Warehouse) error
	GetByID(ctx context.Context, id int64) (*entity.Warehouse, error)
	// GetDefault devuelve la bodega activa de menor id, o (nil, nil) si no hay ninguna.
	GetDefault(ctx context.Context) (*entity.Warehouse, error)
	List(ctx context.Context, onlyActive bool) ([]*entity.Warehouse, error)
}
