package inventory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/distribuidora-api/internal/application/dto"
	"github.com/jhoicas/distribuidora-api/internal/domain"
	"github.com/jhoicas/distribuidora-api/internal/domain/entity"
	"github.com/jhoicas/distribuidora-api/internal/domain/inventory"
	"github.com/jhoicas/distribuidora-api/internal/domain/repository"
	"github.com/jhoicas/distribuidora-api/pkg/logger"
)

// LedgerUseCase libro de stock por (variante, bodega): upsert atómico y agregados de lectura.
type LedgerUseCase struct {
	stockRepo     repository.StockRepository
	variantRepo   repository.VariantRepository
	warehouseRepo repository.WarehouseRepository
	levelRepo     repository.InventoryLevelRepository
	analyticsRepo repository.AnalyticsRepository
	policy        inventory.StockPolicy
	limits        dto.PageLimits
	log           *logger.Logger
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(
	stockRepo repository.StockRepository,
	variantRepo repository.VariantRepository,
	warehouseRepo repository.WarehouseRepository,
	levelRepo repository.InventoryLevelRepository,
	analyticsRepo repository.AnalyticsRepository,
	policy inventory.StockPolicy,
	limits dto.PageLimits,
	log *logger.Logger,
) *LedgerUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &LedgerUseCase{
		stockRepo:     stockRepo,
		variantRepo:   variantRepo,
		warehouseRepo: warehouseRepo,
		levelRepo:     levelRepo,
		analyticsRepo: analyticsRepo,
		policy:        policy,
		limits:        limits,
		log:           log.Component("inventory"),
	}
}

// UpsertStock crea o actualiza la fila (variante, bodega). Los campos nil no se tocan
// (valen 0 si la fila se crea). La escritura es una sola sentencia atómica.
func (uc *LedgerUseCase) UpsertStock(ctx context.Context, in dto.UpsertStockRequest) (*dto.StockResponse, error) {
	if in.QtyOnHand != nil && *in.QtyOnHand < 0 {
		return nil, domain.NewValidationError("qty_on_hand", "no puede ser negativo")
	}
	if in.QtyReserved != nil && *in.QtyReserved < 0 {
		return nil, domain.NewValidationError("qty_reserved", "no puede ser negativo")
	}
	if in.QtyOnHand != nil && in.QtyReserved != nil && *in.QtyReserved > *in.QtyOnHand {
		return nil, domain.NewValidationError("qty_reserved", "no puede superar la cantidad física")
	}

	variant, err := uc.variantRepo.GetByID(ctx, in.VariantID)
	if err != nil {
		return nil, err
	}
	if variant == nil {
		return nil, domain.NewNotFoundError("variante", in.VariantID)
	}
	wh, err := uc.warehouseRepo.GetByID(ctx, in.WarehouseID)
	if err != nil {
		return nil, err
	}
	if wh == nil {
		return nil, domain.NewNotFoundError("bodega", in.WarehouseID)
	}

	row, err := uc.stockRepo.Upsert(ctx, entity.StockChange{
		VariantID:   in.VariantID,
		WarehouseID: in.WarehouseID,
		QtyOnHand:   in.QtyOnHand,
		QtyReserved: in.QtyReserved,
	})
	if err != nil {
		return nil, err
	}

	uc.log.Debug().
		Int64("variant_id", row.VariantID).
		Int64("warehouse_id", row.WarehouseID).
		Int("qty_on_hand", row.QtyOnHand).
		Int("qty_reserved", row.QtyReserved).
		Msg("stock actualizado")

	return &dto.StockResponse{
		VariantID:    row.VariantID,
		WarehouseID:  row.WarehouseID,
		QtyOnHand:    row.QtyOnHand,
		QtyReserved:  row.QtyReserved,
		QtyAvailable: row.QtyAvailable(),
		StockStatus:  string(uc.policy.Classify(row.QtyOnHand)),
	}, nil
}

// TotalStock suma de qty_on_hand de la variante en todas las bodegas (0 sin filas).
func (uc *LedgerUseCase) TotalStock(ctx context.Context, variantID int64) (int, error) {
	t, err := uc.stockRepo.Totals(ctx, variantID)
	if err != nil {
		return 0, err
	}
	return t.OnHand, nil
}

// TotalReserved suma de qty_reserved de la variante en todas las bodegas.
func (uc *LedgerUseCase) TotalReserved(ctx context.Context, variantID int64) (int, error) {
	t, err := uc.stockRepo.Totals(ctx, variantID)
	if err != nil {
		return 0, err
	}
	return t.Reserved, nil
}

// Availability disponible = total físico - total reservado.
func (uc *LedgerUseCase) Availability(ctx context.Context, variantID int64) (int, error) {
	t, err := uc.stockRepo.Totals(ctx, variantID)
	if err != nil {
		return 0, err
	}
	return t.OnHand - t.Reserved, nil
}

// VariantAvailability agregados de una variante existente con su clasificación.
func (uc *LedgerUseCase) VariantAvailability(ctx context.Context, variantID int64) (*dto.VariantAvailabilityResponse, error) {
	variant, err := uc.variantRepo.GetByID(ctx, variantID)
	if err != nil {
		return nil, err
	}
	if variant == nil {
		return nil, domain.NewNotFoundError("variante", variantID)
	}
	t, err := uc.stockRepo.Totals(ctx, variantID)
	if err != nil {
		return nil, err
	}
	return &dto.VariantAvailabilityResponse{
		VariantID:     variantID,
		TotalStock:    t.OnHand,
		TotalReserved: t.Reserved,
		Available:     t.OnHand - t.Reserved,
		StockStatus:   string(uc.policy.Classify(t.OnHand)),
	}, nil
}

// Summary resumen global: productos activos, unidades, filas bajo el umbral y valor del inventario.
func (uc *LedgerUseCase) Summary(ctx context.Context) (*dto.InventorySummaryResponse, error) {
	s, err := uc.analyticsRepo.InventorySummary(ctx, uc.policy.LowStockThreshold)
	if err != nil {
		return nil, err
	}
	return &dto.InventorySummaryResponse{
		TotalProducts:     s.TotalProducts,
		StockTotal:        s.StockTotal,
		LowStockCount:     s.LowStockCount,
		InventoryValue:    s.InventoryValue,
		LowStockThreshold: uc.policy.LowStockThreshold,
	}, nil
}

// List líneas (variante, bodega) paginadas con estado de stock derivado.
func (uc *LedgerUseCase) List(ctx context.Context, in dto.InventoryListRequest) (*dto.InventoryListResponse, error) {
	var status inventory.StockStatus
	if in.StockStatus != "" {
		s, err := inventory.ParseStockStatus(in.StockStatus)
		if err != nil {
			return nil, domain.NewValidationError("stock_status", err.Error())
		}
		status = s
	}
	p := uc.limits.Apply(in.PageRequest)
	lines, total, err := uc.levelRepo.List(ctx, repository.InventoryFilter{
		Search:      in.Search,
		WarehouseID: in.WarehouseID,
		Status:      status,
		Threshold:   uc.policy.LowStockThreshold,
		Limit:       p.Limit,
		Offset:      p.Offset(),
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.InventoryItemResponse, 0, len(lines))
	for _, l := range lines {
		items = append(items, dto.InventoryItemResponse{
			VariantID:     l.VariantID,
			ProductID:     l.ProductID,
			ProductName:   l.ProductName,
			SKU:           l.SKU,
			VariantName:   l.VariantName,
			WarehouseID:   l.WarehouseID,
			WarehouseName: l.WarehouseName,
			QtyOnHand:     l.QtyOnHand,
			QtyReserved:   l.QtyReserved,
			QtyAvailable:  l.QtyOnHand - l.QtyReserved,
			UnitPrice:     l.DefaultPrice,
			StockValue:    l.DefaultPrice.Mul(decimal.NewFromInt(int64(l.QtyOnHand))),
			Currency:      l.Currency,
			StockStatus:   string(uc.policy.Classify(l.QtyOnHand)),
		})
	}
	return &dto.InventoryListResponse{Items: items, Page: dto.NewPageResponse(p, total)}, nil
}
