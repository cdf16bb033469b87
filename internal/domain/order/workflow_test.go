package order_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/distribuidora-api/internal/domain"
	"github.com/jhoicas/distribuidora-api/internal/domain/entity"
	"github.com/jhoicas/distribuidora-api/internal/domain/order"
)

type edge struct{ from, to string }

var reopenEdges = map[edge]bool{
	{entity.OrderStatusCancelado, entity.OrderStatusCotizado}:   true,
	{entity.OrderStatusCotizado, entity.OrderStatusTransmitido}: true,
	{entity.OrderStatusCotizado, entity.OrderStatusCancelado}:   true,
	{entity.OrderStatusTransmitido, entity.OrderStatusEnCurso}:  true,
	{entity.OrderStatusEnCurso, entity.OrderStatusEnviado}:      true,
}

var strictEdges = map[edge]bool{
	{entity.OrderStatusCotizado, entity.OrderStatusTransmitido}:  true,
	{entity.OrderStatusCotizado, entity.OrderStatusCancelado}:    true,
	{entity.OrderStatusTransmitido, entity.OrderStatusEnCurso}:   true,
	{entity.OrderStatusTransmitido, entity.OrderStatusCancelado}: true,
	{entity.OrderStatusEnCurso, entity.OrderStatusEnviado}:       true,
}

// Recorre los 25 pares (from, to) y compara contra la tabla esperada.
func assertTable(t *testing.T, w *order.Workflow, expected map[edge]bool) {
	t.Helper()
	for _, from := range order.Statuses {
		for _, to := range order.Statuses {
			allowed := expected[edge{from, to}]
			assert.Equal(t, allowed, w.CanTransition(from, to), "%s → %s", from, to)

			err := w.Validate(from, to)
			if allowed {
				assert.NoError(t, err)
				continue
			}
			require.Error(t, err)
			var te *domain.InvalidTransitionError
			require.ErrorAs(t, err, &te)
			assert.Equal(t, from, te.From)
			assert.Equal(t, to, te.To)
		}
	}
}

func TestReopenWorkflow_TablaCompleta(t *testing.T) {
	assertTable(t, order.NewReopenWorkflow(), reopenEdges)
}

func TestStrictWorkflow_TablaCompleta(t *testing.T) {
	assertTable(t, order.NewStrictWorkflow(), strictEdges)
}

func TestNewWorkflow_PorNombre(t *testing.T) {
	w, err := order.NewWorkflow("")
	require.NoError(t, err)
	assert.Equal(t, order.WorkflowReopen, w.Name())

	w, err = order.NewWorkflow(order.WorkflowStrict)
	require.NoError(t, err)
	assert.Equal(t, order.WorkflowStrict, w.Name())

	_, err = order.NewWorkflow("mixta")
	assert.Error(t, err)
}

func TestNext_OrdenDelFlujo(t *testing.T) {
	w := order.NewReopenWorkflow()
	assert.Equal(t, []string{entity.OrderStatusTransmitido, entity.OrderStatusCancelado}, w.Next(entity.OrderStatusCotizado))
	assert.Empty(t, w.Next(entity.OrderStatusEnviado))
}

func TestCountsAsRevenue(t *testing.T) {
	assert.False(t, order.CountsAsRevenue(entity.OrderStatusCotizado))
	assert.False(t, order.CountsAsRevenue(entity.OrderStatusCancelado))
	assert.True(t, order.CountsAsRevenue(entity.OrderStatusTransmitido))
	assert.True(t, order.CountsAsRevenue(entity.OrderStatusEnCurso))
	assert.True(t, order.CountsAsRevenue(entity.OrderStatusEnviado))
	assert.ElementsMatch(t,
		[]string{entity.OrderStatusCotizado, entity.OrderStatusCancelado},
		order.NonRevenueStatuses())
}

func TestIsKnownStatus(t *testing.T) {
	for _, s := range order.Statuses {
		assert.True(t, order.IsKnownStatus(s))
	}
	assert.False(t, order.IsKnownStatus("ENTREGADO"))
	assert.False(t, order.IsKnownStatus(""))
}
