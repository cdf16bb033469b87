package docs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

func TestReadDoc_RutasRegistradas(t *testing.T) {
	raw, err := swag.ReadDoc()
	require.NoError(t, err)

	var doc struct {
		Info  struct{ Title string }
		Paths map[string]map[string]any
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	assert.Equal(t, "Distribuidora API", doc.Info.Title)
	assert.Contains(t, doc.Paths, "/api/orders/{id}/status")
	assert.Contains(t, doc.Paths["/api/orders/{id}/status"], "patch")
	assert.Contains(t, doc.Paths, "/api/inventory/stock")
}
