package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/distribuidora-api/internal/domain/inventory"
)

func TestStatusCondition(t *testing.T) {
	assert.Equal(t, "", statusCondition(""))
	assert.Equal(t, "s.qty_on_hand <= 0", statusCondition(inventory.OutOfStock))
	assert.Contains(t, statusCondition(inventory.LowStock), "s.qty_on_hand < $?")
	assert.Equal(t, "s.qty_on_hand >= $?", statusCondition(inventory.InStock))

	var c conds
	c.add(statusCondition(inventory.LowStock), 20)
	assert.Equal(t, " WHERE s.qty_on_hand > 0 AND s.qty_on_hand < $1", c.where())
}
