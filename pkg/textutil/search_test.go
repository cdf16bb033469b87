package textutil_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/distribuidora-api/pkg/textutil"
)

func TestNormalizeSearch(t *testing.T) {
	cases := map[string]string{
		"  Camisa  AZÚL ": "camisa azul",
		"Pantalón Niño":   "pantalon nino",
		"":                "",
		"   ":             "",
		"Über-Straße":     "uber-straße",
	}
	for in, want := range cases {
		assert.Equal(t, want, textutil.NormalizeSearch(in), "entrada %q", in)
	}
}

func TestLikePattern_EscapaComodines(t *testing.T) {
	assert.Equal(t, "", textutil.LikePattern("  "))
	assert.Equal(t, "%cafe%", textutil.LikePattern("Café"))
	assert.Equal(t, `%100\% algodon%`, textutil.LikePattern("100% algodón"))
	assert.Equal(t, `%sku\_1%`, textutil.LikePattern("SKU_1"))
}
