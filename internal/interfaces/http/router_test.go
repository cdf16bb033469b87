package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/distribuidora-api/internal/application/apptest"
	"github.com/jhoicas/distribuidora-api/internal/application/catalog"
	"github.com/jhoicas/distribuidora-api/internal/application/client"
	"github.com/jhoicas/distribuidora-api/internal/application/dto"
	appinventory "github.com/jhoicas/distribuidora-api/internal/application/inventory"
	apporder "github.com/jhoicas/distribuidora-api/internal/application/order"
	"github.com/jhoicas/distribuidora-api/internal/application/usecase"
	"github.com/jhoicas/distribuidora-api/internal/domain/entity"
	"github.com/jhoicas/distribuidora-api/internal/domain/inventory"
	domorder "github.com/jhoicas/distribuidora-api/internal/domain/order"
	apphttp "github.com/jhoicas/distribuidora-api/internal/interfaces/http"
)

type fakePDF struct{}

func (fakePDF) GenerateQuotePDF(_ context.Context, o *entity.Order) ([]byte, error) {
	return []byte("%PDF-1.4 " + o.Code), nil
}

type apiFixture struct {
	app   *fiber.App
	store *apptest.Store
	auth  string
}

func newAPI(t *testing.T) *apiFixture {
	t.Helper()
	s := apptest.NewStore()
	repos := s.Repositories()
	limits := dto.PageLimits{Default: 10, Max: 100}
	policy := inventory.NewStockPolicy(20)

	deps := apphttp.RouterDeps{
		ProductLifecycle: catalog.NewProductLifecycleUseCase(s.TxRunner(), repos.Products, repos.Variants, s.Categories(), repos.Warehouses, "COP", nil),
		ProductQuery:     catalog.NewProductQueryUseCase(repos.Products, repos.Variants, s.Categories(), repos.Warehouses, repos.Stock, s.Analytics(), policy, limits),
		Ledger:           appinventory.NewLedgerUseCase(repos.Stock, repos.Variants, repos.Warehouses, s.InventoryLevels(), s.Analytics(), policy, limits, nil),
		Orders: apporder.NewWorkflowUseCase(s.TxRunner(), repos.Orders, s.Clients(), domorder.NewReopenWorkflow(), fakePDF{}, apporder.Options{
			DefaultCurrency: "COP",
			Limits:          limits,
		}, nil),
		Clients:     client.NewUseCase(s.Clients(), repos.Products, s.Analytics(), limits),
		WarehouseUC: usecase.NewWarehouseUseCase(repos.Warehouses),
		JWTSecret:   testJWTSecret,
	}
	app := fiber.New()
	apphttp.Router(app, deps)

	user := s.AddUser("vendedor@distribuidora.co")
	return &apiFixture{app: app, store: s, auth: bearer(t, user.ID)}
}

func (f *apiFixture) do(t *testing.T, method, path, body string) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Authorization", f.auth)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func decodeError(t *testing.T, raw []byte) dto.ErrorResponse {
	t.Helper()
	var out dto.ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return out
}

func TestRouter_SinToken_Retorna401(t *testing.T) {
	f := newAPI(t)
	resp, err := f.app.Test(httptest.NewRequest(http.MethodGet, "/api/products", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRouter_CrearProducto_SKUDuplicado(t *testing.T) {
	f := newAPI(t)
	cat := f.store.AddCategory("ROPA", "Ropa")
	f.store.AddWarehouse("Principal", true)

	body := `{"name":"Camiseta","sku":"CAM","category_id":` + itoa(cat.ID) + `,"price":35000,"variants":[{"stock":5}]}`
	resp, raw := f.do(t, http.MethodPost, "/api/products", body)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))

	var created dto.CreateProductResponse
	require.NoError(t, json.Unmarshal(raw, &created))
	assert.Equal(t, 1, created.VariantsCreated)
	assert.Equal(t, "Ropa", created.CategoryName)

	resp, raw = f.do(t, http.MethodPost, "/api/products", body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "DUPLICATE_SKU", decodeError(t, raw).Code)
}

func TestRouter_TransicionDeEstado(t *testing.T) {
	f := newAPI(t)
	c := f.store.AddClient("Ferretería El Tornillo", true)
	o := f.store.AddOrder(c.ID, entity.OrderStatusCotizado)
	path := "/api/orders/" + itoa(o.ID) + "/status"

	resp, raw := f.do(t, http.MethodPatch, path, `{"status":"TRANSMITIDO"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	var out dto.TransitionStatusResponse
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, entity.OrderStatusTransmitido, out.Order.Status.Code)
	assert.Equal(t, entity.OrderStatusTransmitido, f.store.StatusCode(f.store.Order(o.ID).StatusID))

	resp, raw = f.do(t, http.MethodPatch, path, `{"status":"CANCELADO"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_TRANSITION", decodeError(t, raw).Code)
}

func TestRouter_PedidoInexistente_Retorna404(t *testing.T) {
	f := newAPI(t)
	resp, raw := f.do(t, http.MethodGet, "/api/orders/999", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", decodeError(t, raw).Code)
}

func TestRouter_IDInvalido_Retorna400(t *testing.T) {
	f := newAPI(t)
	resp, raw := f.do(t, http.MethodGet, "/api/orders/abc", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", decodeError(t, raw).Code)
}

func TestRouter_HistorialDePrecios_RequiereProducto(t *testing.T) {
	f := newAPI(t)
	c := f.store.AddClient("Cliente", true)
	resp, raw := f.do(t, http.MethodGet, "/api/clients/"+itoa(c.ID)+"/price-history", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, decodeError(t, raw).Fields, "product_id")
}

func TestRouter_UpsertStock(t *testing.T) {
	f := newAPI(t)
	p := f.store.AddProduct("Camiseta", decimal.NewFromInt(1000), nil)
	v := f.store.AddVariant(p.ID, "CAM-1", nil)
	w := f.store.AddWarehouse("Principal", true)
	ids := `"variant_id":` + itoa(v.ID) + `,"warehouse_id":` + itoa(w.ID)

	resp, raw := f.do(t, http.MethodPut, "/api/inventory/stock", `{`+ids+`,"qty_on_hand":2,"qty_reserved":5}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", decodeError(t, raw).Code)

	resp, raw = f.do(t, http.MethodPut, "/api/inventory/stock", `{`+ids+`,"qty_on_hand":8}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	st, ok := f.store.Stock(v.ID, w.ID)
	require.True(t, ok)
	assert.Equal(t, 8, st.QtyOnHand)
}

func TestRouter_CrearBodega_NombreRequerido(t *testing.T) {
	f := newAPI(t)
	resp, raw := f.do(t, http.MethodPost, "/api/warehouses", `{"name":""}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	e := decodeError(t, raw)
	assert.Equal(t, "VALIDATION", e.Code)
	assert.Equal(t, "required", e.Fields["name"])
}

func TestRouter_PDFDeCotizacion(t *testing.T) {
	f := newAPI(t)
	c := f.store.AddClient("Cliente", true)
	o := f.store.AddOrder(c.ID, entity.OrderStatusCotizado)

	resp, raw := f.do(t, http.MethodGet, "/api/orders/"+itoa(o.ID)+"/pdf", "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), o.Code)
	assert.True(t, strings.HasPrefix(string(raw), "%PDF"))
}

func itoa(id int64) string {
	b, _ := json.Marshal(id)
	return string(b)
}
