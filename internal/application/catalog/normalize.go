package catalog

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/distribuidora-api/internal/application/dto"
	"github.com/jhoicas/distribuidora-api/internal/domain"
)

// ProductDraft alta de producto ya normalizada: sin alias ni valores por defecto pendientes.
type ProductDraft struct {
	Name        string
	Description string
	BaseSKU     string
	CategoryID  int64
	Price       decimal.Decimal
	Currency    string
	Variants    []VariantDraft
}

// VariantDraft variante a crear con SKU y nombre resueltos.
type VariantDraft struct {
	SKU          string
	Name         string
	Barcode      *string
	InitialStock int
	WarehouseID  *int64 // nil = bodega por defecto
	IsActive     bool
}

// ProductPatch actualización normalizada. nil = campo no enviado.
type ProductPatch struct {
	Name        *string
	Description *string
	BaseSKU     *string
	CategoryID  *int64
	Price       *decimal.Decimal
	Currency    *string
	IsActive    *bool
	Updates     []VariantPatch
	NewVariants []NewVariantSpec
}

// VariantPatch cambios sobre una variante existente.
type VariantPatch struct {
	ID          int64
	SKU         *string
	Name        *string
	Barcode     *string
	IsActive    *bool
	Stock       *int
	WarehouseID *int64
}

// NewVariantSpec variante nueva dentro de una actualización. SKU y Name quedan
// en nil cuando deben generarse a partir de las variantes existentes.
type NewVariantSpec struct {
	SKU          *string
	Name         *string
	Barcode      *string
	InitialStock int
	WarehouseID  *int64
	IsActive     bool
}

// GenerateSKU SKU de la variante en la posición n (1-based) a partir del SKU base.
func GenerateSKU(base string, n int) string {
	return fmt.Sprintf("%s-%d", base, n)
}

// DefaultVariantName nombre de la variante en la posición n (1-based) sin nombre ni tipo/valor.
func DefaultVariantName(n int) string {
	return fmt.Sprintf("Variante %d", n)
}

// NormalizeCreate resuelve alias y valores por defecto de un alta de producto.
func NormalizeCreate(in dto.CreateProductRequest, defaultCurrency string) (*ProductDraft, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.NewValidationError("name", "es requerido")
	}
	base := strings.TrimSpace(in.SKU)
	if base == "" {
		return nil, domain.NewValidationError("sku", "es requerido")
	}
	if in.CategoryID == nil {
		return nil, domain.NewValidationError("category_id", "es requerido")
	}
	price := pickPrice(in.Price, in.DefaultPrice)
	if price == nil {
		return nil, domain.NewValidationError("price", "es requerido")
	}
	if price.IsNegative() {
		return nil, domain.NewValidationError("price", "no puede ser negativo")
	}
	if len(in.Variants) == 0 {
		return nil, domain.NewValidationError("variants", "se requiere al menos una variante")
	}

	draft := &ProductDraft{
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		BaseSKU:     base,
		CategoryID:  *in.CategoryID,
		Price:       *price,
		Currency:    pickCurrency(in.Currency, defaultCurrency),
		Variants:    make([]VariantDraft, 0, len(in.Variants)),
	}
	for i, v := range in.Variants {
		field := fmt.Sprintf("variants[%d]", i)
		if v.ID != nil {
			return nil, domain.NewValidationError(field+".id", "no se permite en el alta")
		}
		stock := pickStock(v.Stock, v.InitialStock)
		if stock != nil && *stock < 0 {
			return nil, domain.NewValidationError(field+".stock", "no puede ser negativo")
		}
		vd := VariantDraft{
			SKU:      GenerateSKU(base, i+1),
			Name:     DefaultVariantName(i + 1),
			Barcode:  trimmed(v.Barcode),
			IsActive: v.IsActive == nil || *v.IsActive,
		}
		if sku := trimmed(v.SKU); sku != nil {
			vd.SKU = *sku
		}
		if n := variantName(v); n != nil {
			vd.Name = *n
		}
		if stock != nil {
			vd.InitialStock = *stock
		}
		vd.WarehouseID = v.WarehouseID
		draft.Variants = append(draft.Variants, vd)
	}
	return draft, nil
}

// NormalizeUpdate resuelve alias de una actualización parcial. Las variantes con id
// se tratan como modificaciones y las demás como altas.
func NormalizeUpdate(in dto.UpdateProductRequest) (*ProductPatch, error) {
	patch := &ProductPatch{
		Description: trimmedKeepEmpty(in.Description),
		BaseSKU:     trimmed(in.SKU),
		CategoryID:  in.CategoryID,
		IsActive:    in.IsActive,
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.NewValidationError("name", "no puede estar vacío")
		}
		patch.Name = &name
	}
	if price := pickPrice(in.Price, in.DefaultPrice); price != nil {
		if price.IsNegative() {
			return nil, domain.NewValidationError("price", "no puede ser negativo")
		}
		patch.Price = price
	}
	if cur := trimmed(in.Currency); cur != nil {
		up := strings.ToUpper(*cur)
		patch.Currency = &up
	}

	seen := make(map[int64]bool)
	for i, v := range in.Variants {
		field := fmt.Sprintf("variants[%d]", i)
		stock := pickStock(v.Stock, v.InitialStock)
		if stock != nil && *stock < 0 {
			return nil, domain.NewValidationError(field+".stock", "no puede ser negativo")
		}
		if v.ID != nil {
			if seen[*v.ID] {
				return nil, domain.NewValidationError(field+".id", "variante repetida en la petición")
			}
			seen[*v.ID] = true
			if v.SKU != nil && strings.TrimSpace(*v.SKU) == "" {
				return nil, domain.NewValidationError(field+".sku", "no puede estar vacío")
			}
			patch.Updates = append(patch.Updates, VariantPatch{
				ID:          *v.ID,
				SKU:         trimmed(v.SKU),
				Name:        variantName(v),
				Barcode:     trimmed(v.Barcode),
				IsActive:    v.IsActive,
				Stock:       stock,
				WarehouseID: v.WarehouseID,
			})
			continue
		}
		spec := NewVariantSpec{
			SKU:         trimmed(v.SKU),
			Name:        variantName(v),
			Barcode:     trimmed(v.Barcode),
			WarehouseID: v.WarehouseID,
			IsActive:    v.IsActive == nil || *v.IsActive,
		}
		if stock != nil {
			spec.InitialStock = *stock
		}
		patch.NewVariants = append(patch.NewVariants, spec)
	}
	return patch, nil
}

func pickPrice(price, defaultPrice *decimal.Decimal) *decimal.Decimal {
	if price != nil {
		return price
	}
	return defaultPrice
}

func pickStock(stock, initial *int) *int {
	if stock != nil {
		return stock
	}
	return initial
}

func pickCurrency(cur, def string) string {
	if c := strings.TrimSpace(cur); c != "" {
		return strings.ToUpper(c)
	}
	return def
}

// variantName nombre explícito o "Tipo: Valor"; nil si no hay ninguno.
func variantName(v dto.VariantRequest) *string {
	if n := trimmed(v.Name); n != nil {
		return n
	}
	typ, val := trimmed(v.Type), trimmed(v.Value)
	if typ != nil && val != nil {
		s := *typ + ": " + *val
		return &s
	}
	return nil
}

// trimmed devuelve nil si s es nil o queda vacío tras recortar espacios.
func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}

func trimmedKeepEmpty(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}
