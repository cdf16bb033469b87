package client_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/distribuidora-api/internal/application/apptest"
	"github.com/jhoicas/distribuidora-api/internal/application/client"
	"github.com/jhoicas/distribuidora-api/internal/application/dto"
	"github.com/jhoicas/distribuidora-api/internal/domain"
	"github.com/jhoicas/distribuidora-api/internal/domain/entity"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newUseCase(s *apptest.Store) *client.UseCase {
	return client.NewUseCase(s.Clients(), s.Repositories().Products, s.Analytics(), dto.PageLimits{Default: 10, Max: 100})
}

func TestDiscount(t *testing.T) {
	cases := []struct {
		name            string
		unit            string
		list            *decimal.Decimal
		discount, perce string
	}{
		{"con lista", "80", ptr(dec("100")), "20", "20"},
		{"sin lista", "80", nil, "0", "0"},
		{"lista cero", "0", ptr(dec("0")), "0", "0"},
		{"recargo", "110", ptr(dec("100")), "-10", "-10"},
		{"redondeo", "2", ptr(dec("3")), "1", "33.33"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d, p := client.Discount(dec(tc.unit), tc.list)
			assert.True(t, d.Equal(dec(tc.discount)), "descuento %s", d)
			assert.True(t, p.Equal(dec(tc.perce)), "porcentaje %s", p)
		})
	}
}

func ptr[T any](v T) *T { return &v }

func TestList_ExcluyeCotizacionesYCancelados(t *testing.T) {
	s := apptest.NewStore()
	c := s.AddClient("Ana", true)
	p := s.AddProduct("Tornillo", dec("100"), nil)
	v := s.AddVariant(p.ID, "TOR-1", nil)
	for _, st := range []string{entity.OrderStatusCotizado, entity.OrderStatusCancelado, entity.OrderStatusTransmitido, entity.OrderStatusEnviado} {
		o := s.AddOrder(c.ID, st)
		s.AddItem(o.ID, v.ID, 1, dec("100"), nil)
	}

	res, err := newUseCase(s).List(context.Background(), dto.ClientListRequest{})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, 2, res.Items[0].OrderCount)
	assert.True(t, res.Items[0].TotalSpent.Equal(dec("200")))
	assert.NotNil(t, res.Items[0].LastOrderAt)
}

func TestList_Paginacion(t *testing.T) {
	s := apptest.NewStore()
	for i := 0; i < 25; i++ {
		s.AddClient("Cliente", true)
	}
	res, err := newUseCase(s).List(context.Background(), dto.ClientListRequest{PageRequest: dto.PageRequest{Page: 2, Limit: 10}})
	require.NoError(t, err)
	assert.Len(t, res.Items, 10)
	assert.Equal(t, 3, res.Page.TotalPages)
	assert.True(t, res.Page.HasNextPage)
	assert.True(t, res.Page.HasPrevPage)
}

func TestStatistics(t *testing.T) {
	s := apptest.NewStore()
	a := s.AddClient("Ana", true)
	b := s.AddClient("Beto", true)
	s.AddClient("Inactivo", false)
	p := s.AddProduct("Tornillo", dec("100"), nil)
	v := s.AddVariant(p.ID, "TOR-1", nil)

	o1 := s.AddOrder(a.ID, entity.OrderStatusEnviado)
	s.AddItem(o1.ID, v.ID, 3, dec("100"), nil)
	o2 := s.AddOrder(b.ID, entity.OrderStatusEnCurso)
	s.AddItem(o2.ID, v.ID, 1, dec("100"), nil)
	o3 := s.AddOrder(b.ID, entity.OrderStatusCotizado)
	s.AddItem(o3.ID, v.ID, 50, dec("100"), nil)

	st, err := newUseCase(s).Statistics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, st.TotalClients)
	assert.Equal(t, 1, st.InactiveClients)
	assert.Equal(t, 2, st.ClientsWithOrders)
	assert.Equal(t, 2, st.RealizedOrders)
	assert.True(t, st.TotalRevenue.Equal(dec("400")))
	assert.True(t, st.AverageTicket.Equal(dec("200")))
	require.Len(t, st.TopClients, 2)
	assert.Equal(t, "Ana", st.TopClients[0].Name)
}

func TestPriceHistory_MasRecientePrimero(t *testing.T) {
	s := apptest.NewStore()
	c := s.AddClient("Ana", true)
	p := s.AddProduct("Tornillo", dec("100"), nil)
	v := s.AddVariant(p.ID, "TOR-1", nil)
	other := s.AddProduct("Tuerca", dec("50"), nil)
	ov := s.AddVariant(other.ID, "TUE-1", nil)

	old := s.AddOrder(c.ID, entity.OrderStatusEnviado)
	s.AddItem(old.ID, v.ID, 1, dec("90"), ptr(dec("100")))
	recent := s.AddOrder(c.ID, entity.OrderStatusCotizado)
	s.AddItem(recent.ID, v.ID, 2, dec("75"), ptr(dec("100")))
	s.AddItem(recent.ID, ov.ID, 2, dec("50"), nil)

	res, err := newUseCase(s).PriceHistory(context.Background(), c.ID, p.ID)
	require.NoError(t, err)
	require.Len(t, res.Entries, 2)
	assert.Equal(t, recent.ID, res.Entries[0].OrderID)
	assert.True(t, res.Entries[0].DiscountPercent.Equal(dec("25")))
	assert.True(t, res.Entries[1].Discount.Equal(dec("10")))
}

func TestPriceHistory_Referencias(t *testing.T) {
	s := apptest.NewStore()
	c := s.AddClient("Ana", true)
	uc := newUseCase(s)

	_, err := uc.PriceHistory(context.Background(), 99, 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = uc.PriceHistory(context.Background(), c.ID, 99)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
