package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/distribuidora-api/internal/application/catalog"
	"github.com/jhoicas/distribuidora-api/internal/application/client"
	"github.com/jhoicas/distribuidora-api/internal/application/inventory"
	"github.com/jhoicas/distribuidora-api/internal/application/order"
	"github.com/jhoicas/distribuidora-api/internal/application/usecase"
	"github.com/jhoicas/distribuidora-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductLifecycle *catalog.ProductLifecycleUseCase
	ProductQuery     *catalog.ProductQueryUseCase
	Ledger           *inventory.LedgerUseCase
	Orders           *order.WorkflowUseCase
	Clients          *client.UseCase
	WarehouseUC      *usecase.WarehouseUseCase
	JWTSecret        string
	Log              *logger.Logger
}

// Router registra las rutas de la API. Todas las rutas bajo /api requieren Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	log = log.Component("http")

	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	// Products
	productHandler := NewProductHandler(deps.ProductLifecycle, deps.ProductQuery, log)
	products := api.Group("/products")
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/stats", productHandler.Stats)
	products.Get("/:id", productHandler.Detail)
	products.Put("/:id", productHandler.Update)
	api.Get("/categories", productHandler.Categories)

	// Inventory
	inventoryHandler := NewInventoryHandler(deps.Ledger, log)
	inv := api.Group("/inventory")
	inv.Get("/", inventoryHandler.List)
	inv.Get("/summary", inventoryHandler.Summary)
	inv.Put("/stock", inventoryHandler.UpsertStock)
	inv.Get("/variants/:id", inventoryHandler.VariantAvailability)

	// Orders
	orderHandler := NewOrderHandler(deps.Orders, log)
	orders := api.Group("/orders")
	orders.Post("/", orderHandler.Create)
	orders.Get("/", orderHandler.List)
	orders.Get("/:id", orderHandler.Get)
	orders.Patch("/:id/status", orderHandler.TransitionStatus)
	orders.Get("/:id/pdf", orderHandler.QuotePDF)

	// Clients
	clientHandler := NewClientHandler(deps.Clients, log)
	clients := api.Group("/clients")
	clients.Get("/", clientHandler.List)
	clients.Get("/stats", clientHandler.Statistics)
	clients.Get("/:id/price-history", clientHandler.PriceHistory)

	// Warehouses
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC, log)
	warehouses := api.Group("/warehouses")
	warehouses.Post("/", warehouseHandler.Create)
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Get("/:id", warehouseHandler.GetByID)
}
