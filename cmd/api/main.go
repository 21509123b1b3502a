package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/grocery-ims/internal/application/alerts"
	"github.com/jhoicas/grocery-ims/internal/application/analytics"
	"github.com/jhoicas/grocery-ims/internal/application/auth"
	"github.com/jhoicas/grocery-ims/internal/application/inventory"
	"github.com/jhoicas/grocery-ims/internal/application/sales"
	"github.com/jhoicas/grocery-ims/internal/application/usecase"
	"github.com/jhoicas/grocery-ims/internal/infrastructure/cache"
	infrapdf "github.com/jhoicas/grocery-ims/internal/infrastructure/pdf"
	"github.com/jhoicas/grocery-ims/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/grocery-ims/internal/interfaces/http"
	"github.com/jhoicas/grocery-ims/pkg/config"
	"github.com/jhoicas/grocery-ims/pkg/logger"
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
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	batchRepo := postgres.NewBatchRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	movRepo := postgres.NewStockMovementRepository(pool)
	alertRepo := postgres.NewAlertRepository(pool)
	analyticsRepo := postgres.NewAnalyticsRepository(pool)
	inventoryQueryRepo := postgres.NewInventoryQueryRepository(pool)
	auditRepo := postgres.NewAuditRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Caché de analítica: opcional, solo si REDIS_ADDR está configurado.
	// Sin Redis el resumen se calcula contra la base en cada petición.
	var summaryCache analytics.SummaryCache
	if cfg.Redis.Addr != "" {
		redisCache, err := cache.NewRedisCache(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer redisCache.Close()
		summaryCache = redisCache
		log.Info().Str("addr", cfg.Redis.Addr).Msg("caché Redis habilitado")
	}

	authUC := auth.NewUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	productUC := usecase.NewProductUseCase(productRepo)
	categoryUC := usecase.NewCategoryUseCase(categoryRepo)
	supplierUC := usecase.NewSupplierUseCase(supplierRepo)
	userUC := usecase.NewUserUseCase(userRepo)
	auditUC := usecase.NewAuditUseCase(auditRepo, log)
	inventoryUC := inventory.NewUseCase(productRepo, batchRepo, inventoryQueryRepo)
	salesUC := sales.NewUseCase(txRunner, productRepo, saleRepo, movRepo, sales.Config{
		RestockOnVoid: cfg.Sales.RestockOnVoid,
	})
	alertScanner := alerts.NewScanner(productRepo, batchRepo, alertRepo, log)
	alertsUC := alerts.NewUseCase(alertRepo)
	analyticsUC := analytics.NewUseCase(
		analyticsRepo, productRepo, inventoryQueryRepo, alertRepo, summaryCache, log,
	)
	receipts := infrapdf.NewMarotoReceiptGenerator(cfg.App.Name)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(helmet.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Grocery IMS API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:       authUC,
		ProductUC:    productUC,
		CategoryUC:   categoryUC,
		SupplierUC:   supplierUC,
		UserUC:       userUC,
		AuditUC:      auditUC,
		InventoryUC:  inventoryUC,
		SalesUC:      salesUC,
		AlertsUC:     alertsUC,
		AlertScanner: alertScanner,
		AnalyticsUC:  analyticsUC,
		Receipts:     receipts,
		JWTSecret:    cfg.JWT.Secret,
	})

	// Escaneo periódico de alertas en segundo plano.
	scanDone := make(chan struct{})
	if cfg.Alerts.ScanIntervalMinutes > 0 {
		interval := time.Duration(cfg.Alerts.ScanIntervalMinutes) * time.Minute
		go func() {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					if _, err := alertScanner.Scan(); err != nil {
						log.Error().Err(err).Msg("escaneo periódico de alertas")
					}
				case <-scanDone:
					return
				}
			}
		}()
		log.Info().Dur("interval", interval).Msg("escaneo de alertas programado")
	}

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")
	close(scanDone)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
