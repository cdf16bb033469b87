package postgres

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigraciones_Embebidas(t *testing.T) {
	names, err := fs.Glob(migrationFiles, "migrations/*.sql")
	require.NoError(t, err)
	require.Len(t, names, 2)

	schema, err := migrationFiles.ReadFile("migrations/001_init.sql")
	require.NoError(t, err)
	for _, c := range []string{"uq_product_variants_sku", "ck_inventory_stock_reserved_le_on_hand", "PRIMARY KEY (variant_id, warehouse_id)", "uq_warehouses_name"} {
		assert.Contains(t, string(schema), c)
	}

	seed, err := migrationFiles.ReadFile("migrations/002_seed_order_statuses.sql")
	require.NoError(t, err)
	for _, code := range []string{"COTIZADO", "TRANSMITIDO", "EN_CURSO", "ENVIADO", "CANCELADO"} {
		assert.True(t, strings.Contains(string(seed), "'"+code+"'"), code)
	}
}
