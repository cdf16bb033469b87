package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	_ "github.com/jhoicas/distribuidora-api/docs"
	"github.com/jhoicas/distribuidora-api/internal/application/catalog"
	"github.com/jhoicas/distribuidora-api/internal/application/client"
	"github.com/jhoicas/distribuidora-api/internal/application/dto"
	appinventory "github.com/jhoicas/distribuidora-api/internal/application/inventory"
	apporder "github.com/jhoicas/distribuidora-api/internal/application/order"
	"github.com/jhoicas/distribuidora-api/internal/application/usecase"
	"github.com/jhoicas/distribuidora-api/internal/domain/inventory"
	domorder "github.com/jhoicas/distribuidora-api/internal/domain/order"
	"github.com/jhoicas/distribuidora-api/internal/domain/repository"
	"github.com/jhoicas/distribuidora-api/internal/infrastructure/cache"
	infrapdf "github.com/jhoicas/distribuidora-api/internal/infrastructure/pdf"
	"github.com/jhoicas/distribuidora-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/distribuidora-api/internal/interfaces/http"
	"github.com/jhoicas/distribuidora-api/pkg/config"
	"github.com/jhoicas/distribuidora-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("workflow", cfg.Orders.Workflow).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es requerido")
	}

	workflow, err := domorder.NewWorkflow(cfg.Orders.Workflow)
	if err != nil {
		log.Fatal().Err(err).Msg("flujo de pedidos")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool, log.Component("migrate")); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	productRepo := postgres.NewProductRepository(pool)
	variantRepo := postgres.NewVariantRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	warehouseRepo := postgres.NewWarehouseRepository(pool)
	stockRepo := postgres.NewStockRepository(pool)
	levelRepo := postgres.NewInventoryLevelRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	clientRepo := postgres.NewClientRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	var analyticsRepo repository.AnalyticsRepository = postgres.NewAnalyticsRepository(pool)
	healthChecks := []httpRouter.HealthCheck{{Name: "db", Ping: pool.Ping}}
	if cfg.Cache.RedisURL != "" {
		rdb, err := cache.NewRedis(ctx, cfg.Cache.RedisURL)
		if err != nil {
			log.Warn().Err(err).Msg("Redis no disponible, reportes sin caché")
		} else {
			defer rdb.Close()
			analyticsRepo = cache.NewAnalyticsCache(analyticsRepo, rdb, cfg.Cache.StatsTTL, log)
			healthChecks = append(healthChecks, httpRouter.HealthCheck{Name: "redis", Ping: func(ctx context.Context) error {
				return rdb.Ping(ctx).Err()
			}})
		}
	}

	policy := inventory.NewStockPolicy(cfg.Inventory.LowStockThreshold)
	limits := dto.PageLimits{Default: cfg.Pagination.DefaultLimit, Max: cfg.Pagination.MaxLimit}

	lifecycleUC := catalog.NewProductLifecycleUseCase(
		txRunner, productRepo, variantRepo, categoryRepo, warehouseRepo,
		cfg.Catalog.DefaultCurrency, log,
	)
	queryUC := catalog.NewProductQueryUseCase(
		productRepo, variantRepo, categoryRepo, warehouseRepo, stockRepo, analyticsRepo, policy, limits,
	)
	ledgerUC := appinventory.NewLedgerUseCase(
		stockRepo, variantRepo, warehouseRepo, levelRepo, analyticsRepo, policy, limits, log,
	)

	// PDF: cotización del pedido
	quotePDF := infrapdf.NewQuoteGenerator(cfg.App.Name)
	orderUC := apporder.NewWorkflowUseCase(txRunner, orderRepo, clientRepo, workflow, quotePDF, apporder.Options{
		StrictActor:     cfg.Orders.StrictActor,
		DefaultCurrency: cfg.Catalog.DefaultCurrency,
		Limits:          limits,
	}, log)
	clientUC := client.NewUseCase(clientRepo, productRepo, analyticsRepo, limits)
	warehouseUC := usecase.NewWarehouseUseCase(warehouseRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Distribuidora API",
	}))

	app.Get("/health", httpRouter.Health(cfg.App.Name, healthChecks...))

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductLifecycle: lifecycleUC,
		ProductQuery:     queryUC,
		Ledger:           ledgerUC,
		Orders:           orderUC,
		Clients:          clientUC,
		WarehouseUC:      warehouseUC,
		JWTSecret:        cfg.JWT.Secret,
		Log:              log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
