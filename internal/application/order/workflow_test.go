package order_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/distribuidora-api/internal/application/apptest"
	"github.com/jhoicas/distribuidora-api/internal/application/dto"
	apporder "github.com/jhoicas/distribuidora-api/internal/application/order"
	"github.com/jhoicas/distribuidora-api/internal/domain"
	"github.com/jhoicas/distribuidora-api/internal/domain/entity"
	domorder "github.com/jhoicas/distribuidora-api/internal/domain/order"
)

func ptr[T any](v T) *T { return &v }

type stubPDF struct {
	got *entity.Order
}

func (s *stubPDF) GenerateQuotePDF(_ context.Context, o *entity.Order) ([]byte, error) {
	s.got = o
	return []byte("%PDF-1.4"), nil
}

type orderFixture struct {
	store  *apptest.Store
	uc     *apporder.WorkflowUseCase
	pdf    *stubPDF
	client entity.Client
}

func newOrderFixture(t *testing.T, workflow *domorder.Workflow, strictActor bool) *orderFixture {
	t.Helper()
	s := apptest.NewStore()
	repos := s.Repositories()
	pdf := &stubPDF{}
	uc := apporder.NewWorkflowUseCase(s.TxRunner(), repos.Orders, s.Clients(), workflow, pdf, apporder.Options{
		StrictActor:     strictActor,
		DefaultCurrency: "COP",
		Limits:          dto.PageLimits{Default: 10, Max: 100},
	}, nil)
	return &orderFixture{store: s, uc: uc, pdf: pdf, client: s.AddClient("Ferretería El Tornillo", true)}
}

// ─── Transiciones ────────────────────────────────────────────────────────────

func TestTransitionStatus_TodosLosParesSegunLaTabla(t *testing.T) {
	for _, wf := range []*domorder.Workflow{domorder.NewReopenWorkflow(), domorder.NewStrictWorkflow()} {
		for _, from := range domorder.Statuses {
			for _, to := range domorder.Statuses {
				t.Run(fmt.Sprintf("%s/%s→%s", wf.Name(), from, to), func(t *testing.T) {
					f := newOrderFixture(t, wf, false)
					o := f.store.AddOrder(f.client.ID, from)

					res, err := f.uc.TransitionStatus(context.Background(), o.ID, to, nil)
					if wf.CanTransition(from, to) {
						require.NoError(t, err)
						assert.Equal(t, to, res.Order.Status.Code)
						assert.Equal(t, to, f.store.StatusCode(f.store.Order(o.ID).StatusID))
						return
					}
					var inv *domain.InvalidTransitionError
					require.ErrorAs(t, err, &inv)
					assert.Equal(t, from, inv.From)
					assert.Equal(t, to, inv.To)
					assert.Equal(t, from, f.store.StatusCode(f.store.Order(o.ID).StatusID), "el estado no cambia")
				})
			}
		}
	}
}

func TestTransitionStatus_TransmitidoLuegoCanceladoFalla(t *testing.T) {
	f := newOrderFixture(t, domorder.NewReopenWorkflow(), false)
	ctx := context.Background()
	o := f.store.AddOrder(f.client.ID, entity.OrderStatusCotizado)

	_, err := f.uc.TransitionStatus(ctx, o.ID, entity.OrderStatusTransmitido, nil)
	require.NoError(t, err)
	_, err = f.uc.TransitionStatus(ctx, o.ID, entity.OrderStatusCancelado, nil)

	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Equal(t, entity.OrderStatusTransmitido, f.store.StatusCode(f.store.Order(o.ID).StatusID))
}

func TestTransitionStatus_CanceladoReabreComoCotizado(t *testing.T) {
	f := newOrderFixture(t, domorder.NewReopenWorkflow(), false)
	o := f.store.AddOrder(f.client.ID, entity.OrderStatusCancelado)

	res, err := f.uc.TransitionStatus(context.Background(), o.ID, "cotizado", nil)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusCotizado, res.Order.Status.Code)
	assert.Equal(t, []string{entity.OrderStatusTransmitido, entity.OrderStatusCancelado}, res.Order.AllowedNext)
}

func TestTransitionStatus_EstadoDesconocido(t *testing.T) {
	f := newOrderFixture(t, domorder.NewReopenWorkflow(), false)
	o := f.store.AddOrder(f.client.ID, entity.OrderStatusCotizado)

	_, err := f.uc.TransitionStatus(context.Background(), o.ID, "FACTURADO", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestTransitionStatus_PedidoInexistente(t *testing.T) {
	f := newOrderFixture(t, domorder.NewReopenWorkflow(), false)
	_, err := f.uc.TransitionStatus(context.Background(), 404, entity.OrderStatusTransmitido, nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTransitionStatus_ModificacionConcurrente(t *testing.T) {
	f := newOrderFixture(t, domorder.NewReopenWorkflow(), false)
	o := f.store.AddOrder(f.client.ID, entity.OrderStatusCotizado)
	f.store.BeforeStatusUpdate = func() {
		f.store.ForceOrderStatus(o.ID, entity.OrderStatusCancelado)
	}

	_, err := f.uc.TransitionStatus(context.Background(), o.ID, entity.OrderStatusTransmitido, nil)

	var cm *domain.ConcurrentModificationError
	require.ErrorAs(t, err, &cm)
	assert.Equal(t, o.ID, cm.ID)
	assert.Equal(t, entity.OrderStatusCancelado, f.store.StatusCode(f.store.Order(o.ID).StatusID), "gana la escritura concurrente")
}

func TestTransitionStatus_AtribuyeAlUsuario(t *testing.T) {
	f := newOrderFixture(t, domorder.NewReopenWorkflow(), false)
	u := f.store.AddUser("vendedor@distribuidora.co")
	o := f.store.AddOrder(f.client.ID, entity.OrderStatusCotizado)

	res, err := f.uc.TransitionStatus(context.Background(), o.ID, entity.OrderStatusTransmitido, &u.ID)
	require.NoError(t, err)
	require.NotNil(t, res.Order.UpdatedByUserID)
	assert.Equal(t, u.ID, *res.Order.UpdatedByUserID)
}

func TestTransitionStatus_UsuarioInexistenteSinAtribucion(t *testing.T) {
	f := newOrderFixture(t, domorder.NewReopenWorkflow(), false)
	o := f.store.AddOrder(f.client.ID, entity.OrderStatusCotizado)

	res, err := f.uc.TransitionStatus(context.Background(), o.ID, entity.OrderStatusTransmitido, ptr(int64(77)))
	require.NoError(t, err)
	assert.Nil(t, res.Order.UpdatedByUserID)
	assert.Equal(t, entity.OrderStatusTransmitido, res.Order.Status.Code)
}

func TestTransitionStatus_UsuarioInexistenteEnModoEstricto(t *testing.T) {
	f := newOrderFixture(t, domorder.NewReopenWorkflow(), true)
	o := f.store.AddOrder(f.client.ID, entity.OrderStatusCotizado)

	_, err := f.uc.TransitionStatus(context.Background(), o.ID, entity.OrderStatusTransmitido, ptr(int64(77)))
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, entity.OrderStatusCotizado, f.store.StatusCode(f.store.Order(o.ID).StatusID))
}

// ─── Cotizaciones ────────────────────────────────────────────────────────────

func TestCreate_CopiaPreciosYDescripcion(t *testing.T) {
	f := newOrderFixture(t, domorder.NewReopenWorkflow(), false)
	p := f.store.AddProduct("Tornillo drywall", decimal.NewFromInt(120), nil)
	v := f.store.AddVariant(p.ID, "TOR-1", ptr("Caja x100"))

	res, err := f.uc.Create(context.Background(), dto.CreateOrderRequest{
		ClientID: f.client.ID,
		Items: []dto.CreateOrderItemRequest{
			{VariantID: v.ID, Qty: 10},
			{VariantID: v.ID, Qty: 5, UnitPrice: ptr(decimal.NewFromInt(100))},
		},
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, entity.OrderStatusCotizado, res.Status.Code)
	assert.Regexp(t, `^PED-[0-9A-F]{8}$`, res.Code)
	assert.Equal(t, "COP", res.Currency)
	require.Len(t, res.Items, 2)
	assert.Equal(t, "Tornillo drywall - Caja x100", res.Items[0].Description)
	assert.True(t, res.Items[0].LineTotal.Equal(decimal.NewFromInt(1200)))
	assert.True(t, res.Items[1].ListPrice.Equal(decimal.NewFromInt(120)))
	assert.True(t, res.Total.Equal(decimal.NewFromInt(1700)))
}

func TestCreate_ClienteInactivo(t *testing.T) {
	f := newOrderFixture(t, domorder.NewReopenWorkflow(), false)
	c := f.store.AddClient("Cerrado", false)
	_, err := f.uc.Create(context.Background(), dto.CreateOrderRequest{
		ClientID: c.ID,
		Items:    []dto.CreateOrderItemRequest{{VariantID: 1, Qty: 1}},
	}, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreate_VarianteInexistenteNoDejaPedido(t *testing.T) {
	f := newOrderFixture(t, domorder.NewReopenWorkflow(), false)
	_, err := f.uc.Create(context.Background(), dto.CreateOrderRequest{
		ClientID: f.client.ID,
		Items:    []dto.CreateOrderItemRequest{{VariantID: 999, Qty: 1}},
	}, nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, err := f.uc.List(context.Background(), dto.OrderListRequest{})
	require.NoError(t, err)
	assert.Zero(t, list.Page.Total)
}

func TestList_FiltraPorEstado(t *testing.T) {
	f := newOrderFixture(t, domorder.NewReopenWorkflow(), false)
	f.store.AddOrder(f.client.ID, entity.OrderStatusCotizado)
	f.store.AddOrder(f.client.ID, entity.OrderStatusEnviado)
	f.store.AddOrder(f.client.ID, entity.OrderStatusEnviado)

	res, err := f.uc.List(context.Background(), dto.OrderListRequest{Status: "enviado"})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Page.Total)
	assert.Empty(t, res.Items[0].AllowedNext, "ENVIADO es terminal")

	_, err = f.uc.List(context.Background(), dto.OrderListRequest{Status: "x"})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestQuotePDF_CargaLineas(t *testing.T) {
	f := newOrderFixture(t, domorder.NewReopenWorkflow(), false)
	p := f.store.AddProduct("Tornillo", decimal.NewFromInt(100), nil)
	v := f.store.AddVariant(p.ID, "TOR-1", nil)
	o := f.store.AddOrder(f.client.ID, entity.OrderStatusCotizado)
	f.store.AddItem(o.ID, v.ID, 3, decimal.NewFromInt(100), nil)

	b, name, err := f.uc.QuotePDF(context.Background(), o.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, b)
	assert.Equal(t, o.Code+".pdf", name)
	require.NotNil(t, f.pdf.got)
	assert.Len(t, f.pdf.got.Items, 1)
	assert.Equal(t, f.client.Name, f.pdf.got.Client.Name)
}
