package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/distribuidora-api/internal/application/dto"
	"github.com/jhoicas/distribuidora-api/internal/domain"
	"github.com/jhoicas/distribuidora-api/internal/domain/entity"
	"github.com/jhoicas/distribuidora-api/internal/domain/repository"
	"github.com/jhoicas/distribuidora-api/pkg/logger"
)

// ProductLifecycleUseCase alta y actualización transaccional de producto, variantes y stock inicial.
type ProductLifecycleUseCase struct {
	txRunner        TxRunner
	productRepo     repository.ProductRepository
	variantRepo     repository.VariantRepository
	categoryRepo    repository.CategoryRepository
	warehouseRepo   repository.WarehouseRepository
	defaultCurrency string
	log             *logger.Logger
	now             func() time.Time
}

// NewProductLifecycleUseCase construye el caso de uso.
func NewProductLifecycleUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	variantRepo repository.VariantRepository,
	categoryRepo repository.CategoryRepository,
	warehouseRepo repository.WarehouseRepository,
	defaultCurrency string,
	log *logger.Logger,
) *ProductLifecycleUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &ProductLifecycleUseCase{
		txRunner:        txRunner,
		productRepo:     productRepo,
		variantRepo:     variantRepo,
		categoryRepo:    categoryRepo,
		warehouseRepo:   warehouseRepo,
		defaultCurrency: defaultCurrency,
		log:             log.Component("catalog"),
		now:             time.Now,
	}
}

// Create valida el alta, comprueba SKUs y bodegas fuera de la transacción y luego
// escribe producto, variantes y filas de stock en orden dentro de una sola transacción.
func (uc *ProductLifecycleUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.CreateProductResponse, error) {
	draft, err := NormalizeCreate(in, uc.defaultCurrency)
	if err != nil {
		return nil, err
	}

	category, err := uc.categoryRepo.GetByID(ctx, draft.CategoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, domain.NewNotFoundError("categoría", draft.CategoryID)
	}

	skus := make([]string, 0, len(draft.Variants)+1)
	skus = append(skus, draft.BaseSKU)
	for _, v := range draft.Variants {
		skus = append(skus, v.SKU)
	}
	if err := checkRepeated(skus[1:]); err != nil {
		return nil, err
	}
	if err := uc.checkPersisted(ctx, skus, nil); err != nil {
		return nil, err
	}

	resolver := newWarehouseResolver(uc.warehouseRepo)
	warehouses := make([]int64, len(draft.Variants))
	for i, v := range draft.Variants {
		whID, err := resolver.resolve(ctx, v.WarehouseID)
		if err != nil {
			return nil, err
		}
		warehouses[i] = whID
	}

	product := &entity.Product{
		Name:         draft.Name,
		Description:  draft.Description,
		CategoryID:   &draft.CategoryID,
		DefaultPrice: draft.Price,
		Currency:     draft.Currency,
		IsActive:     true,
	}
	err = uc.txRunner.Run(ctx, func(repos repository.TxRepositories) error {
		if err := repos.Products.Create(ctx, product); err != nil {
			return err
		}
		for i, v := range draft.Variants {
			variant := &entity.ProductVariant{
				ProductID:   product.ID,
				SKU:         v.SKU,
				Barcode:     v.Barcode,
				VariantName: strPtr(v.Name),
				IsActive:    v.IsActive,
			}
			if err := repos.Variants.Create(ctx, variant); err != nil {
				return err
			}
			if _, err := repos.Stock.Upsert(ctx, initialStock(variant.ID, warehouses[i], v.InitialStock)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Int64("product_id", product.ID).
		Str("sku", draft.BaseSKU).
		Int("variants", len(draft.Variants)).
		Msg("producto creado")

	return &dto.CreateProductResponse{
		ID:              product.ID,
		Name:            product.Name,
		SKU:             draft.BaseSKU,
		CategoryName:    category.Name,
		Price:           product.DefaultPrice,
		Currency:        product.Currency,
		VariantsCreated: len(draft.Variants),
		Message:         fmt.Sprintf("Producto %q creado con %d variante(s)", product.Name, len(draft.Variants)),
	}, nil
}

// Update aplica una actualización parcial: campos del producto, cambios en variantes
// existentes (incluido su stock) y variantes nuevas, todo en una transacción.
func (uc *ProductLifecycleUseCase) Update(ctx context.Context, productID int64, in dto.UpdateProductRequest) (*dto.UpdateProductResponse, error) {
	patch, err := NormalizeUpdate(in)
	if err != nil {
		return nil, err
	}

	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.NewNotFoundError("producto", productID)
	}
	if patch.CategoryID != nil {
		category, err := uc.categoryRepo.GetByID(ctx, *patch.CategoryID)
		if err != nil {
			return nil, err
		}
		if category == nil {
			return nil, domain.NewNotFoundError("categoría", *patch.CategoryID)
		}
	}

	existing, err := uc.variantRepo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	owned := make(map[int64]*entity.ProductVariant, len(existing))
	for _, v := range existing {
		owned[v.ID] = v
	}

	// Variantes existentes: pertenencia y cambios de SKU. Los SKU que otra variante
	// del producto deja en la misma petición quedan libres.
	var requested []string
	freed := make(map[string]bool)
	for _, p := range patch.Updates {
		current, ok := owned[p.ID]
		if !ok {
			return nil, uc.foreignVariant(ctx, p.ID, productID)
		}
		if p.SKU != nil && *p.SKU != current.SKU {
			requested = append(requested, *p.SKU)
			freed[current.SKU] = true
		}
	}

	// Variantes nuevas: SKU y nombre generados a continuación de las existentes.
	newSKUs := make([]string, len(patch.NewVariants))
	newNames := make([]string, len(patch.NewVariants))
	base := baseSKU(patch.BaseSKU, existing)
	for i, nv := range patch.NewVariants {
		position := len(existing) + i + 1
		switch {
		case nv.SKU != nil:
			newSKUs[i] = *nv.SKU
		case base == "":
			return nil, domain.NewValidationError("sku", "se requiere un SKU base para generar el SKU de las variantes nuevas")
		default:
			newSKUs[i] = GenerateSKU(base, position)
		}
		newNames[i] = DefaultVariantName(position)
		if nv.Name != nil {
			newNames[i] = *nv.Name
		}
	}
	candidates := append(append([]string(nil), requested...), newSKUs...)
	if len(candidates) > 0 {
		if err := uc.checkPersisted(ctx, candidates, freed); err != nil {
			return nil, err
		}
	}
	if err := checkRepeated(candidates); err != nil {
		return nil, err
	}
	swapping := false
	for _, sku := range requested {
		swapping = swapping || freed[sku]
	}

	resolver := newWarehouseResolver(uc.warehouseRepo)
	stockTargets := make(map[int64]int64)
	for _, p := range patch.Updates {
		if p.Stock == nil {
			continue
		}
		whID, err := resolver.resolve(ctx, p.WarehouseID)
		if err != nil {
			return nil, err
		}
		stockTargets[p.ID] = whID
	}
	newWarehouses := make([]int64, len(patch.NewVariants))
	for i, nv := range patch.NewVariants {
		whID, err := resolver.resolve(ctx, nv.WarehouseID)
		if err != nil {
			return nil, err
		}
		newWarehouses[i] = whID
	}

	now := uc.now()
	applyProductPatch(product, patch)
	product.UpdatedAt = now

	err = uc.txRunner.Run(ctx, func(repos repository.TxRepositories) error {
		if err := repos.Products.Update(ctx, product); err != nil {
			return err
		}
		if swapping {
			if err := parkChangedSKUs(ctx, repos.Variants, owned, patch.Updates); err != nil {
				return err
			}
		}
		for _, p := range patch.Updates {
			variant := *owned[p.ID]
			if applyVariantPatch(&variant, p) {
				variant.UpdatedAt = now
				if err := repos.Variants.Update(ctx, &variant); err != nil {
					return err
				}
			}
			if p.Stock != nil {
				change := entity.StockChange{VariantID: p.ID, WarehouseID: stockTargets[p.ID], QtyOnHand: p.Stock}
				if _, err := repos.Stock.Upsert(ctx, change); err != nil {
					return err
				}
			}
		}
		for i, nv := range patch.NewVariants {
			variant := &entity.ProductVariant{
				ProductID:   product.ID,
				SKU:         newSKUs[i],
				Barcode:     nv.Barcode,
				VariantName: strPtr(newNames[i]),
				IsActive:    nv.IsActive,
			}
			if err := repos.Variants.Create(ctx, variant); err != nil {
				return err
			}
			if _, err := repos.Stock.Upsert(ctx, initialStock(variant.ID, newWarehouses[i], nv.InitialStock)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Int64("product_id", product.ID).
		Int("variants_updated", len(patch.Updates)).
		Int("variants_created", len(patch.NewVariants)).
		Msg("producto actualizado")

	return &dto.UpdateProductResponse{
		ID:              product.ID,
		Name:            product.Name,
		Description:     product.Description,
		CategoryID:      product.CategoryID,
		Price:           product.DefaultPrice,
		Currency:        product.Currency,
		IsActive:        product.IsActive,
		VariantsUpdated: len(patch.Updates),
		VariantsCreated: len(patch.NewVariants),
		Message: fmt.Sprintf("Producto actualizado: %d variante(s) actualizada(s), %d creada(s)",
			len(patch.Updates), len(patch.NewVariants)),
	}, nil
}

// foreignVariant distingue una variante inexistente de una que pertenece a otro producto.
func (uc *ProductLifecycleUseCase) foreignVariant(ctx context.Context, variantID, productID int64) error {
	v, err := uc.variantRepo.GetByID(ctx, variantID)
	if err != nil {
		return err
	}
	if v == nil {
		return domain.NewNotFoundError("variante", variantID)
	}
	return &domain.OwnershipError{VariantID: variantID, ProductID: productID}
}

// checkPersisted devuelve DuplicateSKUError con el primer SKU (en orden de la petición) ya usado.
// Los SKU de freed no cuentan como usados.
func (uc *ProductLifecycleUseCase) checkPersisted(ctx context.Context, skus []string, freed map[string]bool) error {
	taken, err := uc.variantRepo.ExistingSKUs(ctx, skus, 0)
	if err != nil {
		return err
	}
	set := make(map[string]bool, len(taken))
	for _, s := range taken {
		if !freed[s] {
			set[s] = true
		}
	}
	for _, s := range skus {
		if set[s] {
			return &domain.DuplicateSKUError{SKU: s}
		}
	}
	return nil
}

// parkChangedSKUs mueve a un SKU provisional las variantes que cambian de SKU, para que
// intercambios y cadenas dentro del mismo producto no choquen con la restricción única.
func parkChangedSKUs(ctx context.Context, variants repository.VariantRepository, owned map[int64]*entity.ProductVariant, updates []VariantPatch) error {
	for _, p := range updates {
		current := owned[p.ID]
		if p.SKU == nil || *p.SKU == current.SKU {
			continue
		}
		parked := *current
		parked.SKU = fmt.Sprintf("~swap~%d", current.ID)
		if err := variants.Update(ctx, &parked); err != nil {
			return err
		}
	}
	return nil
}

func checkRepeated(skus []string) error {
	seen := make(map[string]bool, len(skus))
	for _, s := range skus {
		if seen[s] {
			return &domain.DuplicateSKUError{SKU: s}
		}
		seen[s] = true
	}
	return nil
}

// baseSKU SKU base explícito o, si falta, el de la variante existente de menor id.
func baseSKU(explicit *string, existing []*entity.ProductVariant) string {
	if explicit != nil {
		return *explicit
	}
	var first *entity.ProductVariant
	for _, v := range existing {
		if first == nil || v.ID < first.ID {
			first = v
		}
	}
	if first == nil {
		return ""
	}
	return first.SKU
}

func applyProductPatch(p *entity.Product, patch *ProductPatch) {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.CategoryID != nil {
		p.CategoryID = patch.CategoryID
	}
	if patch.Price != nil {
		p.DefaultPrice = *patch.Price
	}
	if patch.Currency != nil {
		p.Currency = *patch.Currency
	}
	if patch.IsActive != nil {
		p.IsActive = *patch.IsActive
	}
}

// applyVariantPatch devuelve true si cambió algún campo de la variante.
func applyVariantPatch(v *entity.ProductVariant, p VariantPatch) bool {
	changed := false
	if p.SKU != nil && *p.SKU != v.SKU {
		v.SKU = *p.SKU
		changed = true
	}
	if p.Name != nil && (v.VariantName == nil || *v.VariantName != *p.Name) {
		v.VariantName = strPtr(*p.Name)
		changed = true
	}
	if p.Barcode != nil && (v.Barcode == nil || *v.Barcode != *p.Barcode) {
		v.Barcode = strPtr(*p.Barcode)
		changed = true
	}
	if p.IsActive != nil && *p.IsActive != v.IsActive {
		v.IsActive = *p.IsActive
		changed = true
	}
	return changed
}

func initialStock(variantID, warehouseID int64, qty int) entity.StockChange {
	reserved := 0
	return entity.StockChange{VariantID: variantID, WarehouseID: warehouseID, QtyOnHand: &qty, QtyReserved: &reserved}
}

func strPtr(s string) *string { return &s }

// warehouseResolver valida bodegas explícitas y resuelve (una sola vez) la bodega por defecto.
type warehouseResolver struct {
	repo       repository.WarehouseRepository
	defaultID  int64
	checked    map[int64]bool
	hasDefault bool
}

func newWarehouseResolver(repo repository.WarehouseRepository) *warehouseResolver {
	return &warehouseResolver{repo: repo, checked: make(map[int64]bool)}
}

func (r *warehouseResolver) resolve(ctx context.Context, explicit *int64) (int64, error) {
	if explicit != nil {
		if r.checked[*explicit] {
			return *explicit, nil
		}
		wh, err := r.repo.GetByID(ctx, *explicit)
		if err != nil {
			return 0, err
		}
		if wh == nil || !wh.IsActive {
			return 0, domain.NewNotFoundError("bodega", *explicit)
		}
		r.checked[*explicit] = true
		return *explicit, nil
	}
	if r.hasDefault {
		return r.defaultID, nil
	}
	wh, err := r.repo.GetDefault(ctx)
	if err != nil {
		return 0, err
	}
	if wh == nil {
		return 0, domain.ErrNoWarehouse
	}
	r.defaultID, r.hasDefault = wh.ID, true
	return wh.ID, nil
}
