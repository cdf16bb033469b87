package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/distribuidora-api/internal/domain/entity"
)

// ClientFilter filtros del listado de clientes. ExcludedStatuses se excluyen de totales y conteos.
type ClientFilter struct {
	Search           string
	IsActive         *bool
	ExcludedStatuses []string
	Limit            int
	Offset           int
}

// ClientSummary cliente con sus totales de ventas realizadas.
type ClientSummary struct {
	Client      entity.Client
	OrderCount  int
	TotalSpent  decimal.Decimal
	LastOrderAt *time.Time
}

// ClientRepository define el puerto de persistencia para Client.
type ClientRepository interface {
	GetByID(ctx context.Context, id int64) (*entity.Client, error)
	List(ctx context.Context, filter ClientFilter) ([]ClientSummary, int, error)
}
