package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/distribuidora-api/internal/domain"
)

func TestTypedErrors_UnwrapToSentinel(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		target error
	}{
		{"validation", domain.NewValidationError("name", "requerido"), domain.ErrInvalidInput},
		{"not found", domain.NewNotFoundError("producto", int64(7)), domain.ErrNotFound},
		{"duplicate sku", &domain.DuplicateSKUError{SKU: "CAM-1"}, domain.ErrDuplicateSKU},
		{"ownership", &domain.OwnershipError{VariantID: 3, ProductID: 9}, domain.ErrOwnership},
		{"transition", &domain.InvalidTransitionError{From: "ENVIADO", To: "COTIZADO"}, domain.ErrInvalidTransition},
		{"concurrent", &domain.ConcurrentModificationError{Entity: "pedido", ID: 1}, domain.ErrConcurrentModification},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			wrapped := fmt.Errorf("capa superior: %w", tc.err)
			assert.ErrorIs(t, wrapped, tc.target)
			assert.True(t, domain.IsBusinessError(wrapped))
		})
	}
}

func TestIsBusinessError_InfraestructuraNoEsNegocio(t *testing.T) {
	assert.False(t, domain.IsBusinessError(errors.New("conexión rechazada")))
	assert.False(t, domain.IsBusinessError(nil))
	assert.True(t, domain.IsBusinessError(domain.ErrNoWarehouse))
}

func TestDuplicateSKUError_IdentificaElSKU(t *testing.T) {
	var dup *domain.DuplicateSKUError
	err := fmt.Errorf("crear: %w", &domain.DuplicateSKUError{SKU: "BASE-2"})
	assert.True(t, errors.As(err, &dup))
	assert.Equal(t, "BASE-2", dup.SKU)
	assert.Contains(t, err.Error(), "BASE-2")
}
