package catalog_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/distribuidora-api/internal/application/catalog"
	"github.com/jhoicas/distribuidora-api/internal/application/dto"
	"github.com/jhoicas/distribuidora-api/internal/domain"
)

func ptr[T any](v T) *T { return &v }

func TestNormalizeCreate_ResuelveAlias(t *testing.T) {
	in := dto.CreateProductRequest{
		Name:         "  Camiseta  ",
		SKU:          "CAM",
		CategoryID:   ptr(int64(1)),
		DefaultPrice: ptr(decimal.NewFromInt(35000)),
		Variants: []dto.VariantRequest{
			{InitialStock: ptr(5)},
			{Type: ptr("Talla"), Value: ptr("M"), Stock: ptr(7), InitialStock: ptr(99)},
			{Name: ptr("Edición limitada"), SKU: ptr("CAM-ED")},
		},
	}

	draft, err := catalog.NormalizeCreate(in, "COP")
	require.NoError(t, err)

	assert.Equal(t, "Camiseta", draft.Name)
	assert.True(t, draft.Price.Equal(decimal.NewFromInt(35000)))
	assert.Equal(t, "COP", draft.Currency)
	require.Len(t, draft.Variants, 3)

	assert.Equal(t, "CAM-1", draft.Variants[0].SKU)
	assert.Equal(t, "Variante 1", draft.Variants[0].Name)
	assert.Equal(t, 5, draft.Variants[0].InitialStock)

	assert.Equal(t, "CAM-2", draft.Variants[1].SKU)
	assert.Equal(t, "Talla: M", draft.Variants[1].Name)
	assert.Equal(t, 7, draft.Variants[1].InitialStock, "stock tiene prioridad sobre initial_stock")

	assert.Equal(t, "CAM-ED", draft.Variants[2].SKU)
	assert.Equal(t, "Edición limitada", draft.Variants[2].Name)
	assert.Equal(t, 0, draft.Variants[2].InitialStock)
}

func TestNormalizeCreate_PricePrevaleceSobreDefaultPrice(t *testing.T) {
	in := dto.CreateProductRequest{
		Name: "P", SKU: "P", CategoryID: ptr(int64(1)),
		Price: ptr(decimal.NewFromInt(10)), DefaultPrice: ptr(decimal.NewFromInt(20)),
		Currency: "usd",
		Variants: []dto.VariantRequest{{}},
	}
	draft, err := catalog.NormalizeCreate(in, "COP")
	require.NoError(t, err)
	assert.True(t, draft.Price.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, "USD", draft.Currency)
}

func TestNormalizeCreate_Errores(t *testing.T) {
	valid := func() dto.CreateProductRequest {
		return dto.CreateProductRequest{
			Name: "P", SKU: "P", CategoryID: ptr(int64(1)), Price: ptr(decimal.Zero),
			Variants: []dto.VariantRequest{{}},
		}
	}
	cases := []struct {
		name  string
		edit  func(*dto.CreateProductRequest)
		field string
	}{
		{"nombre en blanco", func(r *dto.CreateProductRequest) { r.Name = "   " }, "name"},
		{"sku en blanco", func(r *dto.CreateProductRequest) { r.SKU = "" }, "sku"},
		{"sin categoría", func(r *dto.CreateProductRequest) { r.CategoryID = nil }, "category_id"},
		{"sin precio", func(r *dto.CreateProductRequest) { r.Price = nil }, "price"},
		{"precio negativo", func(r *dto.CreateProductRequest) { r.Price = ptr(decimal.NewFromInt(-1)) }, "price"},
		{"sin variantes", func(r *dto.CreateProductRequest) { r.Variants = nil }, "variants"},
		{"stock negativo", func(r *dto.CreateProductRequest) { r.Variants[0].Stock = ptr(-3) }, "variants[0].stock"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := valid()
			tc.edit(&in)
			_, err := catalog.NormalizeCreate(in, "COP")
			var ve *domain.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tc.field, ve.Field)
		})
	}
}

func TestNormalizeUpdate_SeparaModificacionesDeAltas(t *testing.T) {
	in := dto.UpdateProductRequest{
		DefaultPrice: ptr(decimal.NewFromInt(1200)),
		Currency:     ptr("usd"),
		Variants: []dto.VariantRequest{
			{ID: ptr(int64(4)), InitialStock: ptr(25)},
			{Type: ptr("Color"), Value: ptr("Rojo")},
		},
	}
	patch, err := catalog.NormalizeUpdate(in)
	require.NoError(t, err)

	assert.Nil(t, patch.Name)
	require.NotNil(t, patch.Price)
	assert.True(t, patch.Price.Equal(decimal.NewFromInt(1200)))
	assert.Equal(t, "USD", *patch.Currency)

	require.Len(t, patch.Updates, 1)
	assert.Equal(t, int64(4), patch.Updates[0].ID)
	assert.Equal(t, 25, *patch.Updates[0].Stock)

	require.Len(t, patch.NewVariants, 1)
	assert.Nil(t, patch.NewVariants[0].SKU)
	assert.Equal(t, "Color: Rojo", *patch.NewVariants[0].Name)
	assert.True(t, patch.NewVariants[0].IsActive)
}

func TestNormalizeUpdate_VarianteRepetida(t *testing.T) {
	in := dto.UpdateProductRequest{Variants: []dto.VariantRequest{{ID: ptr(int64(1))}, {ID: ptr(int64(1))}}}
	_, err := catalog.NormalizeUpdate(in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGenerateSKU(t *testing.T) {
	assert.Equal(t, "BASE-3", catalog.GenerateSKU("BASE", 3))
	assert.Equal(t, "Variante 2", catalog.DefaultVariantName(2))
}
