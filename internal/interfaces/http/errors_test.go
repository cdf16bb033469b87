package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/distribuidora-api/internal/application/dto"
	"github.com/jhoicas/distribuidora-api/internal/domain"
	"github.com/jhoicas/distribuidora-api/pkg/logger"
)

func TestErrorStatus(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{domain.NewValidationError("price", "es requerido"), 400, "VALIDATION"},
		{&domain.DuplicateSKUError{SKU: "A-1"}, 400, "DUPLICATE_SKU"},
		{&domain.OwnershipError{VariantID: 1, ProductID: 2}, 400, "OWNERSHIP"},
		{domain.ErrNoWarehouse, 400, "NO_WAREHOUSE"},
		{&domain.InvalidTransitionError{From: "ENVIADO", To: "COTIZADO"}, 400, "INVALID_TRANSITION"},
		{domain.NewNotFoundError("pedido", int64(9)), 404, "NOT_FOUND"},
		{&domain.ConcurrentModificationError{Entity: "pedido", ID: 9}, 409, "CONCURRENT_MODIFICATION"},
		{fmt.Errorf("tx: %w", &domain.DuplicateSKUError{SKU: "A-1"}), 400, "DUPLICATE_SKU"},
		{&fieldsError{fields: map[string]string{"name": "required"}}, 400, "VALIDATION"},
		{errors.New("connection reset"), 500, "INTERNAL"},
	}
	for _, tc := range cases {
		status, code := errorStatus(tc.err)
		assert.Equal(t, tc.status, status, tc.err.Error())
		assert.Equal(t, tc.code, code, tc.err.Error())
	}
}

func respond(t *testing.T, err error) (int, dto.ErrorResponse) {
	t.Helper()
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error { return respondError(c, logger.Nop(), err) })
	resp, e := app.Test(httptest.NewRequest("GET", "/", nil), -1)
	require.NoError(t, e)
	defer resp.Body.Close()
	var body dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestRespondError_OcultaDetalleInterno(t *testing.T) {
	status, body := respond(t, errors.New("pq: password authentication failed"))
	assert.Equal(t, 500, status)
	assert.NotContains(t, body.Message, "password")
}

func TestRespondError_CampoDeValidacion(t *testing.T) {
	status, body := respond(t, domain.NewValidationError("variants[0].stock", "no puede ser negativo"))
	assert.Equal(t, 400, status)
	assert.Equal(t, "no puede ser negativo", body.Fields["variants[0].stock"])
}

func TestValidateStruct_NombresJSON(t *testing.T) {
	err := validateStruct(&dto.CreateOrderRequest{Items: []dto.CreateOrderItemRequest{{VariantID: 1}}})
	var ferr *fieldsError
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, "required", ferr.fields["client_id"])
	assert.Equal(t, "required", ferr.fields["items[0].qty"])
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
