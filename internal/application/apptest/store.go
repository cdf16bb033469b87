// Package apptest provee repositorios en memoria y un TxRunner con rollback
// para probar los casos de uso sin PostgreSQL.
package apptest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/distribuidora-api/internal/domain/entity"
	"github.com/jhoicas/distribuidora-api/internal/domain/repository"
)

type stockKey struct {
	variantID   int64
	warehouseID int64
}

type tables struct {
	seq        map[string]int64
	categories map[int64]entity.Category
	products   map[int64]entity.Product
	variants   map[int64]entity.ProductVariant
	warehouses map[int64]entity.Warehouse
	stock      map[stockKey]entity.InventoryStock
	statuses   map[int64]entity.OrderStatus
	orders     map[int64]entity.Order
	items      map[int64]entity.OrderItem
	clients    map[int64]entity.Client
	users      map[int64]entity.User
}

func newTables() tables {
	return tables{
		seq:        map[string]int64{},
		categories: map[int64]entity.Category{},
		products:   map[int64]entity.Product{},
		variants:   map[int64]entity.ProductVariant{},
		warehouses: map[int64]entity.Warehouse{},
		stock:      map[stockKey]entity.InventoryStock{},
		statuses:   map[int64]entity.OrderStatus{},
		orders:     map[int64]entity.Order{},
		items:      map[int64]entity.OrderItem{},
		clients:    map[int64]entity.Client{},
		users:      map[int64]entity.User{},
	}
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (t tables) clone() tables {
	return tables{
		seq:        cloneMap(t.seq),
		categories: cloneMap(t.categories),
		products:   cloneMap(t.products),
		variants:   cloneMap(t.variants),
		warehouses: cloneMap(t.warehouses),
		stock:      cloneMap(t.stock),
		statuses:   cloneMap(t.statuses),
		orders:     cloneMap(t.orders),
		items:      cloneMap(t.items),
		clients:    cloneMap(t.clients),
		users:      cloneMap(t.users),
	}
}

// Store base de datos en memoria. Las entidades se guardan por valor: lo que devuelven
// los repositorios son copias, igual que al leer de la BD.
type Store struct {
	mu  sync.Mutex
	t   tables
	now time.Time

	// BeforeStatusUpdate se ejecuta justo antes del compare-and-swap de estado (simula una carrera).
	BeforeStatusUpdate func()
	// FailVariantCreate fuerza un error de infraestructura al crear la variante con ese SKU.
	FailVariantCreate string

	Commits   int
	Rollbacks int

	open []*tables // instantáneas de las transacciones en curso
}

// NewStore crea una BD vacía con los estados de pedido ya sembrados.
func NewStore() *Store {
	s := &Store{t: newTables(), now: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)}
	for i, code := range []string{
		entity.OrderStatusCotizado,
		entity.OrderStatusTransmitido,
		entity.OrderStatusEnCurso,
		entity.OrderStatusEnviado,
		entity.OrderStatusCancelado,
	} {
		id := s.nextID("order_statuses")
		s.t.statuses[id] = entity.OrderStatus{ID: id, Code: code, Label: code, SortOrder: i + 1, IsActive: true}
	}
	return s
}

func (s *Store) nextID(table string) int64 {
	s.t.seq[table]++
	return s.t.seq[table]
}

func (s *Store) tick() time.Time {
	s.now = s.now.Add(time.Minute)
	return s.now
}

// Repositories repositorios sobre el store (equivalentes a los del pool).
func (s *Store) Repositories() repository.TxRepositories {
	return repository.TxRepositories{
		Products:      &ProductRepo{s: s},
		Variants:      &VariantRepo{s: s},
		Warehouses:    &WarehouseRepo{s: s},
		Stock:         &StockRepo{s: s},
		Orders:        &OrderRepo{s: s},
		OrderStatuses: &OrderStatusRepo{s: s},
		Users:         &UserRepo{s: s},
	}
}

// Categories repositorio de categorías.
func (s *Store) Categories() *CategoryRepo { return &CategoryRepo{s: s} }

// Clients repositorio de clientes.
func (s *Store) Clients() *ClientRepo { return &ClientRepo{s: s} }

// InventoryLevels repositorio de lectura de inventario.
func (s *Store) InventoryLevels() *InventoryLevelRepo { return &InventoryLevelRepo{s: s} }

// Analytics repositorio de reportes.
func (s *Store) Analytics() *AnalyticsRepo { return &AnalyticsRepo{s: s} }

// TxRunner ejecuta fn y, si devuelve error, restaura el estado previo completo.
type TxRunner struct {
	s *Store
}

// TxRunner devuelve el runner transaccional del store.
func (s *Store) TxRunner() *TxRunner { return &TxRunner{s: s} }

// Run emula BEGIN/COMMIT/ROLLBACK con una instantánea de todas las tablas.
func (r *TxRunner) Run(_ context.Context, fn func(repos repository.TxRepositories) error) error {
	r.s.mu.Lock()
	snapshot := r.s.t.clone()
	r.s.open = append(r.s.open, &snapshot)
	r.s.mu.Unlock()

	err := fn(r.s.Repositories())

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.open = r.s.open[:len(r.s.open)-1]
	if err != nil {
		r.s.t = snapshot
		r.s.Rollbacks++
		return err
	}
	r.s.Commits++
	return nil
}

// ForceOrderStatus simula otra transacción ya confirmada que cambia el estado del pedido.
// El cambio sobrevive al rollback de las transacciones en curso.
func (s *Store) ForceOrderStatus(orderID int64, code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.statusByCode(code)
	apply := func(t *tables) {
		o := t.orders[orderID]
		o.StatusID = st.ID
		t.orders[orderID] = o
	}
	apply(&s.t)
	for _, snap := range s.open {
		apply(snap)
	}
}

// ── Siembra de datos ─────────────────────────────────────────────────────────

// AddCategory crea una categoría activa.
func (s *Store) AddCategory(code, name string) entity.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID("categories")
	c := entity.Category{ID: id, Code: code, Name: name, IsActive: true, CreatedAt: s.tick(), UpdatedAt: s.now}
	s.t.categories[id] = c
	return c
}

// AddWarehouse crea una bodega.
func (s *Store) AddWarehouse(name string, active bool) entity.Warehouse {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID("warehouses")
	w := entity.Warehouse{ID: id, Name: name, IsActive: active, CreatedAt: s.tick(), UpdatedAt: s.now}
	s.t.warehouses[id] = w
	return w
}

// AddProduct crea un producto activo.
func (s *Store) AddProduct(name string, price decimal.Decimal, categoryID *int64) entity.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID("products")
	p := entity.Product{ID: id, Name: name, CategoryID: categoryID, DefaultPrice: price, Currency: "COP", IsActive: true, CreatedAt: s.tick(), UpdatedAt: s.now}
	s.t.products[id] = p
	return p
}

// SetProductActive cambia el estado activo de un producto.
func (s *Store) SetProductActive(id int64, active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.t.products[id]
	p.IsActive = active
	s.t.products[id] = p
}

// AddVariant crea una variante activa.
func (s *Store) AddVariant(productID int64, sku string, name *string) entity.ProductVariant {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID("product_variants")
	v := entity.ProductVariant{ID: id, ProductID: productID, SKU: sku, VariantName: name, IsActive: true, CreatedAt: s.tick(), UpdatedAt: s.now}
	s.t.variants[id] = v
	return v
}

// SetStock fija una fila de stock sin validaciones.
func (s *Store) SetStock(variantID, warehouseID int64, onHand, reserved int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.t.stock[stockKey{variantID, warehouseID}] = entity.InventoryStock{
		VariantID: variantID, WarehouseID: warehouseID, QtyOnHand: onHand, QtyReserved: reserved, UpdatedAt: s.tick(),
	}
}

// AddClient crea un cliente.
func (s *Store) AddClient(name string, active bool) entity.Client {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID("clients")
	c := entity.Client{ID: id, Name: name, IsActive: active, CreatedAt: s.tick(), UpdatedAt: s.now}
	s.t.clients[id] = c
	return c
}

// AddUser crea un usuario activo.
func (s *Store) AddUser(email string) entity.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID("users")
	u := entity.User{ID: id, Email: email, Name: email, IsActive: true, CreatedAt: s.tick(), UpdatedAt: s.now}
	s.t.users[id] = u
	return u
}

// AddOrder crea un pedido en el estado indicado. Cada pedido nuevo es más reciente que el anterior.
func (s *Store) AddOrder(clientID int64, statusCode string) entity.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.statusByCode(statusCode)
	id := s.nextID("orders")
	now := s.tick()
	o := entity.Order{ID: id, Code: fmt.Sprintf("PED-%08d", id), ClientID: clientID, StatusID: st.ID, Currency: "COP", CreatedAt: now, UpdatedAt: now}
	s.t.orders[id] = o
	return o
}

// AddItem agrega una línea al pedido y recalcula sus totales.
func (s *Store) AddItem(orderID, variantID int64, qty int, unit decimal.Decimal, list *decimal.Decimal) entity.OrderItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID("order_items")
	it := entity.OrderItem{
		ID: id, OrderID: orderID, VariantID: variantID, Qty: qty, UnitPrice: unit, ListPrice: list,
		Currency: "COP", LineTotal: unit.Mul(decimal.NewFromInt(int64(qty))), Description: "item", CreatedAt: s.now,
	}
	s.t.items[id] = it
	o := s.t.orders[orderID]
	o.Subtotal = o.Subtotal.Add(it.LineTotal)
	o.Total = o.Subtotal
	s.t.orders[orderID] = o
	return it
}

// ── Lecturas para aserciones ─────────────────────────────────────────────────

// Counts número de filas por tabla.
func (s *Store) Counts() (products, variants, stock int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.t.products), len(s.t.variants), len(s.t.stock)
}

// Stock fila de stock, si existe.
func (s *Store) Stock(variantID, warehouseID int64) (entity.InventoryStock, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.t.stock[stockKey{variantID, warehouseID}]
	return st, ok
}

// Order pedido persistido.
func (s *Store) Order(id int64) entity.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.t.orders[id]
}

// Variant variante persistida.
func (s *Store) Variant(id int64) (entity.ProductVariant, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.t.variants[id]
	return v, ok
}

// VariantsOf variantes de un producto ordenadas por id.
func (s *Store) VariantsOf(productID int64) []entity.ProductVariant {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.variantsOf(productID)
}

// Product producto persistido.
func (s *Store) Product(id int64) (entity.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.t.products[id]
	return p, ok
}

// StatusCode código de estado por id.
func (s *Store) StatusCode(statusID int64) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.t.statuses[statusID].Code
}

func (s *Store) statusByCode(code string) entity.OrderStatus {
	for _, st := range s.t.statuses {
		if st.Code == code {
			return st
		}
	}
	return entity.OrderStatus{}
}
