package order

import (
	"context"

	"github.com/jhoicas/distribuidora-api/internal/domain/entity"
	"github.com/jhoicas/distribuidora-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos repository.TxRepositories) error) error
}

// QuotePDFGenerator genera la representación gráfica de una cotización.
// El pedido llega con Status, Client e Items cargados.
type QuotePDFGenerator interface {
	GenerateQuotePDF(ctx context.Context, order *entity.Order) ([]byte, error)
}
