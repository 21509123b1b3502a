package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/jhoicas/grocery-ims/internal/application/alerts"
	"github.com/jhoicas/grocery-ims/internal/application/analytics"
	"github.com/jhoicas/grocery-ims/internal/application/auth"
	"github.com/jhoicas/grocery-ims/internal/application/inventory"
	"github.com/jhoicas/grocery-ims/internal/application/sales"
	"github.com/jhoicas/grocery-ims/internal/application/usecase"
	"github.com/jhoicas/grocery-ims/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.UseCase
	ProductUC    *usecase.ProductUseCase
	CategoryUC   *usecase.CategoryUseCase
	SupplierUC   *usecase.SupplierUseCase
	UserUC       *usecase.UserUseCase
	AuditUC      *usecase.AuditUseCase
	InventoryUC  *inventory.UseCase
	SalesUC      *sales.UseCase
	AlertsUC     *alerts.UseCase
	AlertScanner *alerts.Scanner
	AnalyticsUC  *analytics.UseCase
	Receipts     ReceiptGenerator
	JWTSecret    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público, con rate limit contra fuerza bruta)
	authGroup := api.Group("/auth", limiter.New(limiter.Config{
		Max:        20,
		Expiration: time.Minute,
	}))
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Products
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", RequirePermission(entity.PermProductsCreate), productHandler.Create)
	products.Get("/", RequirePermission(entity.PermProductsRead), productHandler.List)
	products.Get("/:id", RequirePermission(entity.PermProductsRead), productHandler.GetByID)
	products.Put("/:id", RequirePermission(entity.PermProductsUpdate), productHandler.Update)
	products.Delete("/:id", RequirePermission(entity.PermProductsDelete), productHandler.Delete)

	// Categories
	categories := protected.Group("/categories")
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories.Post("/", RequirePermission(entity.PermCategoriesCreate), categoryHandler.Create)
	categories.Get("/", RequirePermission(entity.PermCategoriesRead), categoryHandler.List)
	categories.Get("/:id", RequirePermission(entity.PermCategoriesRead), categoryHandler.GetByID)
	categories.Put("/:id", RequirePermission(entity.PermCategoriesUpdate), categoryHandler.Update)
	categories.Delete("/:id", RequirePermission(entity.PermCategoriesDelete), categoryHandler.Delete)

	// Suppliers
	suppliers := protected.Group("/suppliers")
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers.Post("/", RequirePermission(entity.PermSuppliersCreate), supplierHandler.Create)
	suppliers.Get("/", RequirePermission(entity.PermSuppliersRead), supplierHandler.List)
	suppliers.Get("/:id", RequirePermission(entity.PermSuppliersRead), supplierHandler.GetByID)
	suppliers.Put("/:id", RequirePermission(entity.PermSuppliersUpdate), supplierHandler.Update)
	suppliers.Delete("/:id", RequirePermission(entity.PermSuppliersDelete), supplierHandler.Delete)

	// Users
	users := protected.Group("/users")
	userHandler := NewUserHandler(deps.UserUC)
	users.Get("/me", userHandler.Me)
	users.Get("/", RequirePermission(entity.PermUsersRead), userHandler.List)
	users.Get("/:id", RequirePermission(entity.PermUsersRead), userHandler.GetByID)
	users.Put("/:id", RequirePermission(entity.PermUsersUpdate), userHandler.Update)
	users.Delete("/:id", RequirePermission(entity.PermUsersDelete), userHandler.Deactivate)

	// Inventory (resumen, vencimientos y lotes)
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.InventoryUC, deps.AuditUC)
	invGroup.Get("/summary", RequirePermission(entity.PermInventoryRead), inventoryHandler.Summary)
	invGroup.Get("/expiring", RequirePermission(entity.PermInventoryRead), inventoryHandler.Expiring)
	invGroup.Post("/batches", RequirePermission(entity.PermInventoryCreate), inventoryHandler.AddBatch)
	invGroup.Get("/batches", RequirePermission(entity.PermInventoryRead), inventoryHandler.ListBatches)
	invGroup.Put("/batches/:id", RequirePermission(entity.PermInventoryUpdate), inventoryHandler.UpdateBatch)
	invGroup.Delete("/batches/:id", RequirePermission(entity.PermInventoryDelete), inventoryHandler.RemoveBatch)

	// Sales
	salesGroup := protected.Group("/sales")
	saleHandler := NewSaleHandler(deps.SalesUC, deps.Receipts, deps.AuditUC)
	salesGroup.Post("/", RequirePermission(entity.PermSalesCreate), saleHandler.Create)
	salesGroup.Get("/", RequirePermission(entity.PermSalesRead), saleHandler.List)
	salesGroup.Get("/:id", RequirePermission(entity.PermSalesRead), saleHandler.GetByID)
	salesGroup.Get("/:id/receipt", RequirePermission(entity.PermSalesRead), saleHandler.Receipt)
	salesGroup.Post("/:id/void", RequirePermission(entity.PermSalesUpdate), saleHandler.Void)
	salesGroup.Post("/:id/refund", RequirePermission(entity.PermSalesUpdate), saleHandler.Refund)

	// Alerts
	alertsGroup := protected.Group("/alerts")
	alertHandler := NewAlertHandler(deps.AlertsUC, deps.AlertScanner)
	alertsGroup.Get("/", RequirePermission(entity.PermAlertsRead), alertHandler.List)
	alertsGroup.Post("/scan", RequirePermission(entity.PermAlertsResolve), alertHandler.Scan)
	alertsGroup.Get("/unread-count", RequirePermission(entity.PermAlertsRead), alertHandler.UnreadCount)
	alertsGroup.Post("/read-all", RequirePermission(entity.PermAlertsRead), alertHandler.MarkAllRead)
	alertsGroup.Post("/:id/read", RequirePermission(entity.PermAlertsRead), alertHandler.MarkRead)
	alertsGroup.Post("/:id/resolve", RequirePermission(entity.PermAlertsResolve), alertHandler.Resolve)

	// Analytics
	analyticsGroup := protected.Group("/analytics", RequirePermission(entity.PermAnalyticsRead))
	analyticsHandler := NewAnalyticsHandler(deps.AnalyticsUC)
	analyticsGroup.Get("/summary", analyticsHandler.Summary)
	analyticsGroup.Get("/daily-revenue", analyticsHandler.DailyRevenue)
	analyticsGroup.Get("/top-products", analyticsHandler.TopProducts)
	analyticsGroup.Get("/slow-moving", analyticsHandler.SlowMoving)

	// Audit (solo lectura, admin)
	auditGroup := protected.Group("/audit", RequirePermission(entity.PermUsersRead))
	auditHandler := NewAuditHandler(deps.AuditUC)
	auditGroup.Get("/", auditHandler.List)
}
