// Package order contiene las reglas del flujo de estados de un pedido.
//
// Existen dos tablas de transición históricas y se modelan por separado; la aplicación
// elige una por configuración y nunca las combina.
package order

import (
	"fmt"
	"sort"

	"github.com/jhoicas/distribuidora-api/internal/domain"
	"github.com/jhoicas/distribuidora-api/internal/domain/entity"
)

// Nombres de las tablas de transición disponibles.
const (
	WorkflowReopen = "reopen" // permite reabrir un pedido cancelado como cotización
	WorkflowStrict = "strict" // sin reapertura; permite cancelar un pedido transmitido
)

// Statuses todos los códigos de estado válidos, en orden del flujo.
var Statuses = []string{
	entity.OrderStatusCotizado,
	entity.OrderStatusTransmitido,
	entity.OrderStatusEnCurso,
	entity.OrderStatusEnviado,
	entity.OrderStatusCancelado,
}

// Workflow máquina de estados finita con una tabla de transiciones fija.
type Workflow struct {
	name  string
	edges map[string]map[string]bool
}

func newWorkflow(name string, table map[string][]string) *Workflow {
	edges := make(map[string]map[string]bool, len(table))
	for from, tos := range table {
		edges[from] = make(map[string]bool, len(tos))
		for _, to := range tos {
			edges[from][to] = true
		}
	}
	return &Workflow{name: name, edges: edges}
}

// NewReopenWorkflow tabla por defecto: CANCELADO puede volver a COTIZADO y
// solo se cancela antes de transmitir.
func NewReopenWorkflow() *Workflow {
	return newWorkflow(WorkflowReopen, map[string][]string{
		entity.OrderStatusCancelado:   {entity.OrderStatusCotizado},
		entity.OrderStatusCotizado:    {entity.OrderStatusTransmitido, entity.OrderStatusCancelado},
		entity.OrderStatusTransmitido: {entity.OrderStatusEnCurso},
		entity.OrderStatusEnCurso:     {entity.OrderStatusEnviado},
	})
}

// NewStrictWorkflow tabla alternativa: CANCELADO es terminal y TRANSMITIDO puede cancelarse.
func NewStrictWorkflow() *Workflow {
	return newWorkflow(WorkflowStrict, map[string][]string{
		entity.OrderStatusCotizado:    {entity.OrderStatusTransmitido, entity.OrderStatusCancelado},
		entity.OrderStatusTransmitido: {entity.OrderStatusEnCurso, entity.OrderStatusCancelado},
		entity.OrderStatusEnCurso:     {entity.OrderStatusEnviado},
	})
}

// NewWorkflow devuelve la tabla por nombre. Vacío equivale a WorkflowReopen.
func NewWorkflow(name string) (*Workflow, error) {
	switch name {
	case "", WorkflowReopen:
		return NewReopenWorkflow(), nil
	case WorkflowStrict:
		return NewStrictWorkflow(), nil
	}
	return nil, fmt.Errorf("tabla de transiciones desconocida: %q", name)
}

// Name nombre de la tabla activa.
func (w *Workflow) Name() string { return w.name }

// CanTransition indica si from → to es una arista de la tabla. Nunca permite from == to.
func (w *Workflow) CanTransition(from, to string) bool {
	return w.edges[from][to]
}

// Validate devuelve InvalidTransitionError si from → to no está permitido.
func (w *Workflow) Validate(from, to string) error {
	if !w.CanTransition(from, to) {
		return &domain.InvalidTransitionError{From: from, To: to}
	}
	return nil
}

// Next estados alcanzables desde from, ordenados según Statuses.
func (w *Workflow) Next(from string) []string {
	next := make([]string, 0, len(w.edges[from]))
	for to := range w.edges[from] {
		next = append(next, to)
	}
	sort.Slice(next, func(i, j int) bool { return statusRank(next[i]) < statusRank(next[j]) })
	return next
}

// IsKnownStatus indica si code pertenece a la enumeración cerrada de estados.
func IsKnownStatus(code string) bool {
	return statusRank(code) >= 0
}

// CountsAsRevenue indica si un pedido en este estado cuenta como venta realizada.
// Las cotizaciones y las cancelaciones nunca cuentan.
func CountsAsRevenue(code string) bool {
	return code != entity.OrderStatusCotizado && code != entity.OrderStatusCancelado
}

// NonRevenueStatuses códigos excluidos de totales y conteos de clientes.
func NonRevenueStatuses() []string {
	var out []string
	for _, s := range Statuses {
		if !CountsAsRevenue(s) {
			out = append(out, s)
		}
	}
	return out
}

func statusRank(code string) int {
	for i, s := range Statuses {
		if s == code {
			return i
		}
	}
	return -1
}
