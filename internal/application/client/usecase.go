package client

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/distribuidora-api/internal/application/dto"
	"github.com/jhoicas/distribuidora-api/internal/domain"
	"github.com/jhoicas/distribuidora-api/internal/domain/order"
	"github.com/jhoicas/distribuidora-api/internal/domain/repository"
)

const topClientsLimit = 5

var hundred = decimal.NewFromInt(100)

// UseCase consultas agregadas sobre clientes. Los totales solo cuentan pedidos
// que son venta realizada (ver order.CountsAsRevenue).
type UseCase struct {
	clientRepo    repository.ClientRepository
	productRepo   repository.ProductRepository
	analyticsRepo repository.AnalyticsRepository
	limits        dto.PageLimits
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	clientRepo repository.ClientRepository,
	productRepo repository.ProductRepository,
	analyticsRepo repository.AnalyticsRepository,
	limits dto.PageLimits,
) *UseCase {
	return &UseCase{
		clientRepo:    clientRepo,
		productRepo:   productRepo,
		analyticsRepo: analyticsRepo,
		limits:        limits,
	}
}

// List clientes paginados con número de pedidos y total comprado.
func (uc *UseCase) List(ctx context.Context, in dto.ClientListRequest) (*dto.ClientListResponse, error) {
	p := uc.limits.Apply(in.PageRequest)
	rows, total, err := uc.clientRepo.List(ctx, repository.ClientFilter{
		Search:           in.Search,
		IsActive:         in.IsActive,
		ExcludedStatuses: order.NonRevenueStatuses(),
		Limit:            p.Limit,
		Offset:           p.Offset(),
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ClientResponse, 0, len(rows))
	for _, r := range rows {
		items = append(items, toClientResponse(r))
	}
	return &dto.ClientListResponse{Items: items, Page: dto.NewPageResponse(p, total)}, nil
}

// Statistics totales de clientes, ingresos realizados, ticket promedio y mejores clientes.
func (uc *UseCase) Statistics(ctx context.Context) (*dto.ClientStatisticsResponse, error) {
	excluded := order.NonRevenueStatuses()
	s, err := uc.analyticsRepo.ClientStats(ctx, excluded)
	if err != nil {
		return nil, err
	}
	top, err := uc.analyticsRepo.TopClients(ctx, excluded, topClientsLimit)
	if err != nil {
		return nil, err
	}
	avg := decimal.Zero
	if s.RealizedOrders > 0 {
		avg = s.TotalRevenue.Div(decimal.NewFromInt(int64(s.RealizedOrders))).Round(2)
	}
	res := &dto.ClientStatisticsResponse{
		TotalClients:      s.TotalClients,
		ActiveClients:     s.ActiveClients,
		InactiveClients:   s.TotalClients - s.ActiveClients,
		ClientsWithOrders: s.ClientsWithOrders,
		RealizedOrders:    s.RealizedOrders,
		TotalRevenue:      s.TotalRevenue,
		AverageTicket:     avg,
		TopClients:        make([]dto.ClientResponse, 0, len(top)),
	}
	for _, c := range top {
		res.TopClients = append(res.TopClients, toClientResponse(c))
	}
	return res, nil
}

// PriceHistory precios cobrados al cliente por las variantes de un producto, pedido más reciente primero.
func (uc *UseCase) PriceHistory(ctx context.Context, clientID, productID int64) (*dto.PriceHistoryResponse, error) {
	c, err := uc.clientRepo.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.NewNotFoundError("cliente", clientID)
	}
	p, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.NewNotFoundError("producto", productID)
	}

	rows, err := uc.analyticsRepo.PriceHistory(ctx, clientID, productID)
	if err != nil {
		return nil, err
	}
	res := &dto.PriceHistoryResponse{ClientID: clientID, ProductID: productID, Entries: make([]dto.PriceHistoryEntry, 0, len(rows))}
	for _, r := range rows {
		discount, percent := Discount(r.UnitPrice, r.ListPrice)
		res.Entries = append(res.Entries, dto.PriceHistoryEntry{
			OrderID:         r.OrderID,
			OrderCode:       r.OrderCode,
			OrderDate:       r.OrderDate,
			OrderStatus:     r.StatusCode,
			VariantID:       r.VariantID,
			SKU:             r.SKU,
			VariantName:     r.VariantName,
			Description:     r.Description,
			Qty:             r.Qty,
			UnitPrice:       r.UnitPrice,
			ListPrice:       r.ListPrice,
			Discount:        discount,
			DiscountPercent: percent,
			Currency:        r.Currency,
		})
	}
	return res, nil
}

// Discount descuento = lista - unitario y porcentaje = descuento / lista × 100, a 2 decimales.
// Sin precio de lista (o lista 0) ambos son 0.
func Discount(unit decimal.Decimal, list *decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	if list == nil {
		return decimal.Zero, decimal.Zero
	}
	discount := list.Sub(unit).Round(2)
	if list.IsZero() {
		return discount, decimal.Zero
	}
	return discount, list.Sub(unit).Div(*list).Mul(hundred).Round(2)
}

func toClientResponse(r repository.ClientSummary) dto.ClientResponse {
	return dto.ClientResponse{
		ID:          r.Client.ID,
		Name:        r.Client.Name,
		Document:    r.Client.Document,
		IsActive:    r.Client.IsActive,
		OrderCount:  r.OrderCount,
		TotalSpent:  r.TotalSpent,
		LastOrderAt: r.LastOrderAt,
		CreatedAt:   r.Client.CreatedAt,
	}
}
