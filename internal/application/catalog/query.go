package catalog

import (
	"context"

	"github.com/jhoicas/distribuidora-api/internal/application/dto"
	"github.com/jhoicas/distribuidora-api/internal/domain"
	"github.com/jhoicas/distribuidora-api/internal/domain/entity"
	"github.com/jhoicas/distribuidora-api/internal/domain/inventory"
	"github.com/jhoicas/distribuidora-api/internal/domain/repository"
)

// ProductQueryUseCase lectura del catálogo: listado, detalle, estadísticas y categorías.
type ProductQueryUseCase struct {
	productRepo   repository.ProductRepository
	variantRepo   repository.VariantRepository
	categoryRepo  repository.CategoryRepository
	warehouseRepo repository.WarehouseRepository
	stockRepo     repository.StockRepository
	analyticsRepo repository.AnalyticsRepository
	policy        inventory.StockPolicy
	limits        dto.PageLimits
}

// NewProductQueryUseCase construye el caso de uso.
func NewProductQueryUseCase(
	productRepo repository.ProductRepository,
	variantRepo repository.VariantRepository,
	categoryRepo repository.CategoryRepository,
	warehouseRepo repository.WarehouseRepository,
	stockRepo repository.StockRepository,
	analyticsRepo repository.AnalyticsRepository,
	policy inventory.StockPolicy,
	limits dto.PageLimits,
) *ProductQueryUseCase {
	return &ProductQueryUseCase{
		productRepo:   productRepo,
		variantRepo:   variantRepo,
		categoryRepo:  categoryRepo,
		warehouseRepo: warehouseRepo,
		stockRepo:     stockRepo,
		analyticsRepo: analyticsRepo,
		policy:        policy,
		limits:        limits,
	}
}

// List productos paginados con stock agregado de todas sus variantes.
func (uc *ProductQueryUseCase) List(ctx context.Context, in dto.ProductListRequest) (*dto.ProductListResponse, error) {
	p := uc.limits.Apply(in.PageRequest)
	rows, total, err := uc.productRepo.List(ctx, repository.ProductFilter{
		Search:     in.Search,
		CategoryID: in.CategoryID,
		IsActive:   in.IsActive,
		Limit:      p.Limit,
		Offset:     p.Offset(),
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductListItem, 0, len(rows))
	for _, r := range rows {
		items = append(items, dto.ProductListItem{
			ID:            r.Product.ID,
			Name:          r.Product.Name,
			Description:   r.Product.Description,
			CategoryID:    r.Product.CategoryID,
			CategoryName:  r.CategoryName,
			Price:         r.Product.DefaultPrice,
			Currency:      r.Product.Currency,
			IsActive:      r.Product.IsActive,
			VariantCount:  r.VariantCount,
			TotalStock:    r.TotalStock,
			TotalReserved: r.TotalReserved,
			StockStatus:   string(uc.policy.Classify(r.TotalStock)),
			CreatedAt:     r.Product.CreatedAt,
			UpdatedAt:     r.Product.UpdatedAt,
		})
	}
	return &dto.ProductListResponse{Items: items, Page: dto.NewPageResponse(p, total)}, nil
}

// Detail producto con categoría, variantes y stock por bodega.
func (uc *ProductQueryUseCase) Detail(ctx context.Context, productID int64) (*dto.ProductDetailResponse, error) {
	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.NewNotFoundError("producto", productID)
	}

	out := &dto.ProductDetailResponse{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.DefaultPrice,
		Currency:    product.Currency,
		IsActive:    product.IsActive,
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
		Variants:    []dto.VariantDetailResponse{},
	}
	if product.CategoryID != nil {
		category, err := uc.categoryRepo.GetByID(ctx, *product.CategoryID)
		if err != nil {
			return nil, err
		}
		if category != nil {
			c := toCategoryResponse(category)
			out.Category = &c
		}
	}

	warehouses, err := uc.warehouseRepo.List(ctx, false)
	if err != nil {
		return nil, err
	}
	names := make(map[int64]string, len(warehouses))
	for _, w := range warehouses {
		names[w.ID] = w.Name
	}

	variants, err := uc.variantRepo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	for _, v := range variants {
		rows, err := uc.stockRepo.ListByVariant(ctx, v.ID)
		if err != nil {
			return nil, err
		}
		vd := dto.VariantDetailResponse{
			ID:          v.ID,
			SKU:         v.SKU,
			Barcode:     v.Barcode,
			VariantName: v.VariantName,
			IsActive:    v.IsActive,
			Stock:       make([]dto.WarehouseStockResponse, 0, len(rows)),
		}
		for _, s := range rows {
			vd.Stock = append(vd.Stock, dto.WarehouseStockResponse{
				WarehouseID:   s.WarehouseID,
				WarehouseName: names[s.WarehouseID],
				QtyOnHand:     s.QtyOnHand,
				QtyReserved:   s.QtyReserved,
				QtyAvailable:  s.QtyAvailable(),
			})
			vd.TotalStock += s.QtyOnHand
			vd.TotalReserved += s.QtyReserved
		}
		vd.Available = vd.TotalStock - vd.TotalReserved
		vd.StockStatus = string(uc.policy.Classify(vd.TotalStock))
		out.Variants = append(out.Variants, vd)
		out.TotalStock += vd.TotalStock
		out.TotalReserved += vd.TotalReserved
	}
	out.StockStatus = string(uc.policy.Classify(out.TotalStock))
	return out, nil
}

// Stats totales de productos (activos/inactivos) y de stock.
func (uc *ProductQueryUseCase) Stats(ctx context.Context) (*dto.ProductStatsResponse, error) {
	s, err := uc.analyticsRepo.ProductStats(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.ProductStatsResponse{
		TotalProducts:    s.Total,
		ActiveProducts:   s.Active,
		InactiveProducts: s.Inactive,
		TotalStock:       s.StockOnHand,
		TotalReserved:    s.StockReserved,
	}, nil
}

// Categories categorías del catálogo; onlyActive filtra las inactivas.
func (uc *ProductQueryUseCase) Categories(ctx context.Context, onlyActive bool) ([]dto.CategoryResponse, error) {
	list, err := uc.categoryRepo.List(ctx, onlyActive)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		out = append(out, toCategoryResponse(c))
	}
	return out, nil
}

func toCategoryResponse(c *entity.Category) dto.CategoryResponse {
	return dto.CategoryResponse{
		ID:          c.ID,
		Code:        c.Code,
		Name:        c.Name,
		Description: c.Description,
		SortOrder:   c.SortOrder,
		IsActive:    c.IsActive,
	}
}
