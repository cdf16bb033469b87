package apptest

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/distribuidora-api/internal/domain"
	"github.com/jhoicas/distribuidora-api/internal/domain/entity"
	"github.com/jhoicas/distribuidora-api/internal/domain/inventory"
	"github.com/jhoicas/distribuidora-api/internal/domain/repository"
	"github.com/jhoicas/distribuidora-api/pkg/textutil"
)

// ErrInjected error de infraestructura simulado.
var ErrInjected = errors.New("falla simulada de base de datos")

var (
	_ repository.CategoryRepository       = (*CategoryRepo)(nil)
	_ repository.ProductRepository        = (*ProductRepo)(nil)
	_ repository.VariantRepository        = (*VariantRepo)(nil)
	_ repository.WarehouseRepository      = (*WarehouseRepo)(nil)
	_ repository.StockRepository          = (*StockRepo)(nil)
	_ repository.InventoryLevelRepository = (*InventoryLevelRepo)(nil)
	_ repository.OrderRepository          = (*OrderRepo)(nil)
	_ repository.OrderStatusRepository    = (*OrderStatusRepo)(nil)
	_ repository.ClientRepository         = (*ClientRepo)(nil)
	_ repository.UserRepository           = (*UserRepo)(nil)
	_ repository.AnalyticsRepository      = (*AnalyticsRepo)(nil)
)

func page[T any](rows []T, limit, offset int) []T {
	if offset >= len(rows) {
		return []T{}
	}
	end := len(rows)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return rows[offset:end]
}

func matches(haystack, term string) bool {
	if term == "" {
		return true
	}
	return strings.Contains(textutil.NormalizeSearch(haystack), textutil.NormalizeSearch(term))
}

func (s *Store) variantsOf(productID int64) []entity.ProductVariant {
	var out []entity.ProductVariant
	for _, v := range s.t.variants {
		if v.ProductID == productID {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) totals(variantID int64) (onHand, reserved int) {
	for k, st := range s.t.stock {
		if k.variantID == variantID {
			onHand += st.QtyOnHand
			reserved += st.QtyReserved
		}
	}
	return onHand, reserved
}

func (s *Store) skuTaken(sku string, excludeID int64) bool {
	for _, v := range s.t.variants {
		if v.SKU == sku && v.ID != excludeID {
			return true
		}
	}
	return false
}

// ── Categorías ───────────────────────────────────────────────────────────────

type CategoryRepo struct{ s *Store }

func (r *CategoryRepo) GetByID(_ context.Context, id int64) (*entity.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.t.categories[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *CategoryRepo) List(_ context.Context, onlyActive bool) ([]*entity.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Category
	for _, c := range r.s.t.categories {
		if onlyActive && !c.IsActive {
			continue
		}
		c := c
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ── Productos ────────────────────────────────────────────────────────────────

type ProductRepo struct{ s *Store }

func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p.CategoryID != nil {
		if _, ok := r.s.t.categories[*p.CategoryID]; !ok {
			return domain.NewNotFoundError("categoría", *p.CategoryID)
		}
	}
	p.ID = r.s.nextID("products")
	p.CreatedAt = r.s.tick()
	p.UpdatedAt = p.CreatedAt
	r.s.t.products[p.ID] = *p
	return nil
}

func (r *ProductRepo) GetByID(_ context.Context, id int64) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.t.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *ProductRepo) Update(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.t.products[p.ID]; !ok {
		return domain.NewNotFoundError("producto", p.ID)
	}
	r.s.t.products[p.ID] = *p
	return nil
}

func (r *ProductRepo) List(_ context.Context, f repository.ProductFilter) ([]repository.ProductListRow, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var rows []repository.ProductListRow
	for _, p := range r.s.t.products {
		if f.CategoryID != nil && (p.CategoryID == nil || *p.CategoryID != *f.CategoryID) {
			continue
		}
		if f.IsActive != nil && p.IsActive != *f.IsActive {
			continue
		}
		variants := r.s.variantsOf(p.ID)
		hit := matches(p.Name, f.Search)
		for _, v := range variants {
			hit = hit || matches(v.SKU, f.Search)
		}
		if !hit {
			continue
		}
		row := repository.ProductListRow{Product: p, VariantCount: len(variants)}
		if p.CategoryID != nil {
			if c, ok := r.s.t.categories[*p.CategoryID]; ok {
				name := c.Name
				row.CategoryName = &name
			}
		}
		for _, v := range variants {
			onHand, reserved := r.s.totals(v.ID)
			row.TotalStock += onHand
			row.TotalReserved += reserved
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Product.ID > rows[j].Product.ID })
	return page(rows, f.Limit, f.Offset), len(rows), nil
}

// ── Variantes ────────────────────────────────────────────────────────────────

type VariantRepo struct{ s *Store }

func (r *VariantRepo) Create(_ context.Context, v *entity.ProductVariant) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.FailVariantCreate != "" && v.SKU == r.s.FailVariantCreate {
		return ErrInjected
	}
	if r.s.skuTaken(v.SKU, 0) {
		return &domain.DuplicateSKUError{SKU: v.SKU}
	}
	v.ID = r.s.nextID("product_variants")
	v.CreatedAt = r.s.tick()
	v.UpdatedAt = v.CreatedAt
	r.s.t.variants[v.ID] = *v
	return nil
}

func (r *VariantRepo) GetByID(_ context.Context, id int64) (*entity.ProductVariant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v, ok := r.s.t.variants[id]
	if !ok {
		return nil, nil
	}
	return &v, nil
}

func (r *VariantRepo) Update(_ context.Context, v *entity.ProductVariant) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.skuTaken(v.SKU, v.ID) {
		return &domain.DuplicateSKUError{SKU: v.SKU}
	}
	r.s.t.variants[v.ID] = *v
	return nil
}

func (r *VariantRepo) ListByProduct(_ context.Context, productID int64) ([]*entity.ProductVariant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.ProductVariant
	for _, v := range r.s.variantsOf(productID) {
		v := v
		out = append(out, &v)
	}
	return out, nil
}

func (r *VariantRepo) ExistingSKUs(_ context.Context, skus []string, excludeVariantID int64) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []string
	for _, sku := range skus {
		if r.s.skuTaken(sku, excludeVariantID) {
			out = append(out, sku)
		}
	}
	return out, nil
}

// ── Bodegas ──────────────────────────────────────────────────────────────────

type WarehouseRepo struct{ s *Store }

func (r *WarehouseRepo) Create(_ context.Context, w *entity.Warehouse) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.t.warehouses {
		if existing.Name == w.Name {
			return domain.NewValidationError("name", "ya existe una bodega con ese nombre")
		}
	}
	w.ID = r.s.nextID("warehouses")
	w.CreatedAt = r.s.tick()
	w.UpdatedAt = w.CreatedAt
	r.s.t.warehouses[w.ID] = *w
	return nil
}

func (r *WarehouseRepo) GetByID(_ context.Context, id int64) (*entity.Warehouse, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	w, ok := r.s.t.warehouses[id]
	if !ok {
		return nil, nil
	}
	return &w, nil
}

func (r *WarehouseRepo) GetDefault(ctx context.Context) (*entity.Warehouse, error) {
	list, _ := r.List(ctx, true)
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (r *WarehouseRepo) List(_ context.Context, onlyActive bool) ([]*entity.Warehouse, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Warehouse
	for _, w := range r.s.t.warehouses {
		if onlyActive && !w.IsActive {
			continue
		}
		w := w
		out = append(out, &w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ── Stock ────────────────────────────────────────────────────────────────────

type StockRepo struct{ s *Store }

// Upsert aplica las mismas restricciones que las CHECK y FK de la tabla inventory_stock.
func (r *StockRepo) Upsert(_ context.Context, c entity.StockChange) (*entity.InventoryStock, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.t.variants[c.VariantID]; !ok {
		return nil, domain.NewNotFoundError("variante", c.VariantID)
	}
	if _, ok := r.s.t.warehouses[c.WarehouseID]; !ok {
		return nil, domain.NewNotFoundError("bodega", c.WarehouseID)
	}
	key := stockKey{c.VariantID, c.WarehouseID}
	row, ok := r.s.t.stock[key]
	if !ok {
		row = entity.InventoryStock{VariantID: c.VariantID, WarehouseID: c.WarehouseID}
	}
	if c.QtyOnHand != nil {
		row.QtyOnHand = *c.QtyOnHand
	}
	if c.QtyReserved != nil {
		row.QtyReserved = *c.QtyReserved
	}
	if row.QtyOnHand < 0 || row.QtyReserved < 0 || row.QtyReserved > row.QtyOnHand {
		return nil, domain.NewValidationError("stock", "las cantidades violan las restricciones de inventario")
	}
	row.UpdatedAt = r.s.tick()
	r.s.t.stock[key] = row
	return &row, nil
}

func (r *StockRepo) ListByVariant(_ context.Context, variantID int64) ([]*entity.InventoryStock, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.InventoryStock
	for k, st := range r.s.t.stock {
		if k.variantID == variantID {
			st := st
			out = append(out, &st)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WarehouseID < out[j].WarehouseID })
	return out, nil
}

func (r *StockRepo) Totals(_ context.Context, variantID int64) (repository.StockTotals, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	onHand, reserved := r.s.totals(variantID)
	return repository.StockTotals{OnHand: onHand, Reserved: reserved}, nil
}

// ── Niveles de inventario ────────────────────────────────────────────────────

type InventoryLevelRepo struct{ s *Store }

func (r *InventoryLevelRepo) List(_ context.Context, f repository.InventoryFilter) ([]repository.InventoryLine, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	policy := inventory.NewStockPolicy(f.Threshold)
	var rows []repository.InventoryLine
	for k, st := range r.s.t.stock {
		v := r.s.t.variants[k.variantID]
		p := r.s.t.products[v.ProductID]
		w := r.s.t.warehouses[k.warehouseID]
		if f.WarehouseID != nil && *f.WarehouseID != w.ID {
			continue
		}
		if !matches(p.Name, f.Search) && !matches(v.SKU, f.Search) {
			continue
		}
		if f.Status != "" && policy.Classify(st.QtyOnHand) != f.Status {
			continue
		}
		rows = append(rows, repository.InventoryLine{
			VariantID: v.ID, ProductID: p.ID, ProductName: p.Name, SKU: v.SKU, VariantName: v.VariantName,
			WarehouseID: w.ID, WarehouseName: w.Name, QtyOnHand: st.QtyOnHand, QtyReserved: st.QtyReserved,
			DefaultPrice: p.DefaultPrice, Currency: p.Currency,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].ProductName != rows[j].ProductName {
			return rows[i].ProductName < rows[j].ProductName
		}
		if rows[i].SKU != rows[j].SKU {
			return rows[i].SKU < rows[j].SKU
		}
		return rows[i].WarehouseID < rows[j].WarehouseID
	})
	return page(rows, f.Limit, f.Offset), len(rows), nil
}

// ── Pedidos ──────────────────────────────────────────────────────────────────

type OrderRepo struct{ s *Store }

func (r *OrderRepo) Create(_ context.Context, o *entity.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o.ID = r.s.nextID("orders")
	r.s.t.orders[o.ID] = *o
	return nil
}

func (r *OrderRepo) CreateItem(_ context.Context, it *entity.OrderItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.t.orders[it.OrderID]; !ok {
		return domain.NewNotFoundError("pedido", it.OrderID)
	}
	it.ID = r.s.nextID("order_items")
	r.s.t.items[it.ID] = *it
	return nil
}

func (r *OrderRepo) load(id int64) (*entity.Order, bool) {
	o, ok := r.s.t.orders[id]
	if !ok {
		return nil, false
	}
	st := r.s.t.statuses[o.StatusID]
	o.Status = &st
	if c, ok := r.s.t.clients[o.ClientID]; ok {
		o.Client = &c
	}
	return &o, true
}

func (r *OrderRepo) GetByID(_ context.Context, id int64) (*entity.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.load(id)
	if !ok {
		return nil, nil
	}
	return o, nil
}

func (r *OrderRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Order, error) {
	return r.GetByID(ctx, id)
}

// UpdateStatus compare-and-swap: solo escribe si el estado actual sigue siendo el esperado.
func (r *OrderRepo) UpdateStatus(_ context.Context, u repository.OrderStatusUpdate) (bool, error) {
	if r.s.BeforeStatusUpdate != nil {
		hook := r.s.BeforeStatusUpdate
		r.s.BeforeStatusUpdate = nil
		hook()
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.t.orders[u.OrderID]
	if !ok || o.StatusID != u.ExpectedStatusID {
		return false, nil
	}
	o.StatusID = u.NewStatusID
	o.UpdatedByUserID = u.UpdatedByUserID
	o.UpdatedAt = u.UpdatedAt
	r.s.t.orders[u.OrderID] = o
	return true, nil
}

func (r *OrderRepo) ListItems(_ context.Context, orderID int64) ([]entity.OrderItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.OrderItem
	for _, it := range r.s.t.items {
		if it.OrderID == orderID {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *OrderRepo) List(_ context.Context, f repository.OrderFilter) ([]*entity.Order, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var rows []*entity.Order
	for id := range r.s.t.orders {
		o, _ := r.load(id)
		if f.StatusCode != "" && o.Status.Code != f.StatusCode {
			continue
		}
		if f.ClientID != nil && o.ClientID != *f.ClientID {
			continue
		}
		rows = append(rows, o)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID > rows[j].ID })
	return page(rows, f.Limit, f.Offset), len(rows), nil
}

type OrderStatusRepo struct{ s *Store }

func (r *OrderStatusRepo) GetByCode(_ context.Context, code string) (*entity.OrderStatus, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	st := r.s.statusByCode(code)
	if st.ID == 0 {
		return nil, nil
	}
	return &st, nil
}

func (r *OrderStatusRepo) List(_ context.Context) ([]*entity.OrderStatus, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.OrderStatus
	for _, st := range r.s.t.statuses {
		st := st
		out = append(out, &st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out, nil
}

// ── Clientes y usuarios ──────────────────────────────────────────────────────

type ClientRepo struct{ s *Store }

func (r *ClientRepo) GetByID(_ context.Context, id int64) (*entity.Client, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.t.clients[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (s *Store) summarize(c entity.Client, excluded []string) repository.ClientSummary {
	sum := repository.ClientSummary{Client: c, TotalSpent: decimal.Zero}
	for _, o := range s.t.orders {
		if o.ClientID != c.ID || contains(excluded, s.t.statuses[o.StatusID].Code) {
			continue
		}
		sum.OrderCount++
		sum.TotalSpent = sum.TotalSpent.Add(o.Total)
		if sum.LastOrderAt == nil || o.CreatedAt.After(*sum.LastOrderAt) {
			at := o.CreatedAt
			sum.LastOrderAt = &at
		}
	}
	return sum
}

func contains(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}

func (r *ClientRepo) List(_ context.Context, f repository.ClientFilter) ([]repository.ClientSummary, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var rows []repository.ClientSummary
	for _, c := range r.s.t.clients {
		if f.IsActive != nil && c.IsActive != *f.IsActive {
			continue
		}
		if !matches(c.Name, f.Search) {
			continue
		}
		rows = append(rows, r.s.summarize(c, f.ExcludedStatuses))
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Client.Name < rows[j].Client.Name })
	return page(rows, f.Limit, f.Offset), len(rows), nil
}

type UserRepo struct{ s *Store }

func (r *UserRepo) Exists(_ context.Context, id int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, ok := r.s.t.users[id]
	return ok, nil
}

// ── Reportes ─────────────────────────────────────────────────────────────────

type AnalyticsRepo struct{ s *Store }

func (r *AnalyticsRepo) InventorySummary(_ context.Context, threshold int) (*repository.InventorySummaryResult, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	res := &repository.InventorySummaryResult{InventoryValue: decimal.Zero}
	for _, p := range r.s.t.products {
		if p.IsActive {
			res.TotalProducts++
		}
	}
	for k, st := range r.s.t.stock {
		res.StockTotal += int64(st.QtyOnHand)
		if st.QtyOnHand < threshold {
			res.LowStockCount++
		}
		v := r.s.t.variants[k.variantID]
		p := r.s.t.products[v.ProductID]
		if v.IsActive && p.IsActive {
			res.InventoryValue = res.InventoryValue.Add(p.DefaultPrice.Mul(decimal.NewFromInt(int64(st.QtyOnHand))))
		}
	}
	return res, nil
}

func (r *AnalyticsRepo) ProductStats(_ context.Context) (*repository.ProductStatsResult, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	res := &repository.ProductStatsResult{}
	for _, p := range r.s.t.products {
		res.Total++
		if p.IsActive {
			res.Active++
		} else {
			res.Inactive++
		}
	}
	for _, st := range r.s.t.stock {
		res.StockOnHand += int64(st.QtyOnHand)
		res.StockReserved += int64(st.QtyReserved)
	}
	return res, nil
}

func (r *AnalyticsRepo) ClientStats(_ context.Context, excluded []string) (*repository.ClientStatsResult, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	res := &repository.ClientStatsResult{TotalRevenue: decimal.Zero}
	for _, c := range r.s.t.clients {
		res.TotalClients++
		if c.IsActive {
			res.ActiveClients++
		}
		sum := r.s.summarize(c, excluded)
		if sum.OrderCount > 0 {
			res.ClientsWithOrders++
		}
		res.RealizedOrders += sum.OrderCount
		res.TotalRevenue = res.TotalRevenue.Add(sum.TotalSpent)
	}
	return res, nil
}

func (r *AnalyticsRepo) TopClients(_ context.Context, excluded []string, limit int) ([]repository.ClientSummary, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var rows []repository.ClientSummary
	for _, c := range r.s.t.clients {
		sum := r.s.summarize(c, excluded)
		if sum.OrderCount > 0 {
			rows = append(rows, sum)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].TotalSpent.Equal(rows[j].TotalSpent) {
			return rows[i].TotalSpent.GreaterThan(rows[j].TotalSpent)
		}
		return rows[i].Client.ID < rows[j].Client.ID
	})
	return page(rows, limit, 0), nil
}

func (r *AnalyticsRepo) PriceHistory(_ context.Context, clientID, productID int64) ([]repository.PriceHistoryRow, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var rows []repository.PriceHistoryRow
	for _, it := range r.s.t.items {
		o := r.s.t.orders[it.OrderID]
		v := r.s.t.variants[it.VariantID]
		if o.ClientID != clientID || v.ProductID != productID {
			continue
		}
		rows = append(rows, repository.PriceHistoryRow{
			OrderID: o.ID, OrderCode: o.Code, OrderDate: o.CreatedAt, StatusCode: r.s.t.statuses[o.StatusID].Code,
			VariantID: v.ID, SKU: v.SKU, VariantName: v.VariantName, Description: it.Description,
			Qty: it.Qty, UnitPrice: it.UnitPrice, ListPrice: it.ListPrice, Currency: it.Currency,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].OrderDate.Equal(rows[j].OrderDate) {
			return rows[i].OrderDate.After(rows[j].OrderDate)
		}
		return rows[i].OrderID > rows[j].OrderID
	})
	return rows, nil
}
