package inventory_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/distribuidora-api/internal/application/apptest"
	"github.com/jhoicas/distribuidora-api/internal/application/dto"
	appinventory "github.com/jhoicas/distribuidora-api/internal/application/inventory"
	"github.com/jhoicas/distribuidora-api/internal/domain"
	"github.com/jhoicas/distribuidora-api/internal/domain/inventory"
)

func ptr[T any](v T) *T { return &v }

func newLedger(s *apptest.Store) *appinventory.LedgerUseCase {
	repos := s.Repositories()
	return appinventory.NewLedgerUseCase(
		repos.Stock, repos.Variants, repos.Warehouses, s.InventoryLevels(), s.Analytics(),
		inventory.NewStockPolicy(20), dto.PageLimits{Default: 10, Max: 100}, nil,
	)
}

type ledgerFixture struct {
	store   *apptest.Store
	ledger  *appinventory.LedgerUseCase
	variant int64
	w1, w2  int64
}

func newLedgerFixture() *ledgerFixture {
	s := apptest.NewStore()
	w1 := s.AddWarehouse("Principal", true)
	w2 := s.AddWarehouse("Norte", true)
	p := s.AddProduct("Camiseta", decimal.NewFromInt(1000), nil)
	v := s.AddVariant(p.ID, "CAM-1", nil)
	return &ledgerFixture{store: s, ledger: newLedger(s), variant: v.ID, w1: w1.ID, w2: w2.ID}
}

// ─── Upsert ──────────────────────────────────────────────────────────────────

func TestUpsertStock_De15A25EnLaMismaBodega(t *testing.T) {
	f := newLedgerFixture()
	ctx := context.Background()

	_, err := f.ledger.UpsertStock(ctx, dto.UpsertStockRequest{VariantID: f.variant, WarehouseID: f.w1, QtyOnHand: ptr(15)})
	require.NoError(t, err)
	_, err = f.ledger.UpsertStock(ctx, dto.UpsertStockRequest{VariantID: f.variant, WarehouseID: f.w1, QtyOnHand: ptr(25)})
	require.NoError(t, err)

	total, err := f.ledger.TotalStock(ctx, f.variant)
	require.NoError(t, err)
	assert.Equal(t, 25, total, "el upsert reemplaza, no acumula")
}

func TestUpsertStock_CamposOmitidosNoSeTocan(t *testing.T) {
	f := newLedgerFixture()
	ctx := context.Background()

	res, err := f.ledger.UpsertStock(ctx, dto.UpsertStockRequest{VariantID: f.variant, WarehouseID: f.w1, QtyReserved: nil, QtyOnHand: ptr(30)})
	require.NoError(t, err)
	assert.Equal(t, 0, res.QtyReserved, "reservado vale 0 al crear la fila")

	res, err = f.ledger.UpsertStock(ctx, dto.UpsertStockRequest{VariantID: f.variant, WarehouseID: f.w1, QtyReserved: ptr(12)})
	require.NoError(t, err)
	assert.Equal(t, 30, res.QtyOnHand)
	assert.Equal(t, 12, res.QtyReserved)
	assert.Equal(t, 18, res.QtyAvailable)
}

func TestUpsertStock_SumaSobreBodegas(t *testing.T) {
	f := newLedgerFixture()
	ctx := context.Background()
	steps := []struct {
		wh             int64
		onHand, reserv int
	}{
		{f.w1, 10, 2}, {f.w2, 7, 1}, {f.w1, 4, 4}, {f.w2, 20, 0},
	}
	for _, s := range steps {
		_, err := f.ledger.UpsertStock(ctx, dto.UpsertStockRequest{VariantID: f.variant, WarehouseID: s.wh, QtyOnHand: ptr(s.onHand), QtyReserved: ptr(s.reserv)})
		require.NoError(t, err)
	}

	total, _ := f.ledger.TotalStock(ctx, f.variant)
	reserved, _ := f.ledger.TotalReserved(ctx, f.variant)
	available, _ := f.ledger.Availability(ctx, f.variant)
	assert.Equal(t, 24, total)
	assert.Equal(t, 4, reserved)
	assert.Equal(t, 20, available)
}

func TestUpsertStock_Validaciones(t *testing.T) {
	f := newLedgerFixture()
	ctx := context.Background()
	cases := []struct {
		name string
		req  dto.UpsertStockRequest
	}{
		{"físico negativo", dto.UpsertStockRequest{VariantID: f.variant, WarehouseID: f.w1, QtyOnHand: ptr(-1)}},
		{"reservado negativo", dto.UpsertStockRequest{VariantID: f.variant, WarehouseID: f.w1, QtyReserved: ptr(-1)}},
		{"reservado mayor que físico", dto.UpsertStockRequest{VariantID: f.variant, WarehouseID: f.w1, QtyOnHand: ptr(3), QtyReserved: ptr(4)}},
		{"reservado sobre fila nueva", dto.UpsertStockRequest{VariantID: f.variant, WarehouseID: f.w2, QtyReserved: ptr(1)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.ledger.UpsertStock(ctx, tc.req)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestUpsertStock_ReferenciasInexistentes(t *testing.T) {
	f := newLedgerFixture()
	ctx := context.Background()

	_, err := f.ledger.UpsertStock(ctx, dto.UpsertStockRequest{VariantID: 999, WarehouseID: f.w1, QtyOnHand: ptr(1)})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.ledger.UpsertStock(ctx, dto.UpsertStockRequest{VariantID: f.variant, WarehouseID: 999, QtyOnHand: ptr(1)})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ─── Lecturas ────────────────────────────────────────────────────────────────

func TestVariantAvailability_SinFilasEsCero(t *testing.T) {
	f := newLedgerFixture()
	res, err := f.ledger.VariantAvailability(context.Background(), f.variant)
	require.NoError(t, err)
	assert.Equal(t, 0, res.TotalStock)
	assert.Equal(t, string(inventory.OutOfStock), res.StockStatus)
}

func TestSummary_CuentaFilasBajoUmbralIncluyendoCero(t *testing.T) {
	f := newLedgerFixture()
	s := f.store
	p2 := s.AddProduct("Pantalón", decimal.NewFromInt(500), nil)
	v2 := s.AddVariant(p2.ID, "PAN-1", nil)
	s.SetStock(f.variant, f.w1, 0, 0)
	s.SetStock(f.variant, f.w2, 19, 0)
	s.SetStock(v2.ID, f.w1, 20, 5)

	sum, err := f.ledger.Summary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, sum.TotalProducts)
	assert.Equal(t, int64(39), sum.StockTotal)
	assert.Equal(t, 2, sum.LowStockCount)
	assert.True(t, sum.InventoryValue.Equal(decimal.NewFromInt(19*1000+20*500)))
	assert.Equal(t, 20, sum.LowStockThreshold)
}

func TestList_FiltraPorEstado(t *testing.T) {
	f := newLedgerFixture()
	f.store.SetStock(f.variant, f.w1, 0, 0)
	f.store.SetStock(f.variant, f.w2, 40, 0)

	res, err := f.ledger.List(context.Background(), dto.InventoryListRequest{StockStatus: "out_of_stock"})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, f.w1, res.Items[0].WarehouseID)
	assert.Equal(t, 1, res.Page.Total)

	_, err = f.ledger.List(context.Background(), dto.InventoryListRequest{StockStatus: "agotado"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestList_ValorDeStock(t *testing.T) {
	f := newLedgerFixture()
	f.store.SetStock(f.variant, f.w1, 3, 1)

	res, err := f.ledger.List(context.Background(), dto.InventoryListRequest{})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.True(t, res.Items[0].StockValue.Equal(decimal.NewFromInt(3000)))
	assert.Equal(t, 2, res.Items[0].QtyAvailable)
	assert.Equal(t, string(inventory.LowStock), res.Items[0].StockStatus)
}
