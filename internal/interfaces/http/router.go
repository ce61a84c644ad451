package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Kardex-api/internal/application/alerts"
	"github.com/jhoicas/Kardex-api/internal/application/auth"
	"github.com/jhoicas/Kardex-api/internal/application/bundles"
	"github.com/jhoicas/Kardex-api/internal/application/forecast"
	"github.com/jhoicas/Kardex-api/internal/application/ledger"
	"github.com/jhoicas/Kardex-api/internal/application/usecase"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CompanyUC   *usecase.CompanyUseCase
	WarehouseUC *usecase.WarehouseUseCase
	SupplierUC  *usecase.SupplierUseCase
	ProductUC   *usecase.ProductUseCase
	ApplyEntry  *ledger.ApplyEntryUseCase
	Queries     *ledger.Queries
	Resolver    *bundles.Resolver
	Engine      *forecast.Engine
	Aggregator  *alerts.Aggregator
	AuthUC      *auth.UseCase
	JWTSecret   string
}

// Router registra las rutas de la API.
// Escrituras de catálogo y kardex: admin y bodeguero. Lecturas: cualquier rol autenticado.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	writers := RequireRole(entity.RoleAdmin, entity.RoleBodeguero)

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Companies (público: alta del tenant)
	companies := api.Group("/companies")
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	companies.Post("/", companyHandler.Create)
	companies.Get("/", companyHandler.List)
	companies.Get("/:id", companyHandler.GetByID)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Warehouses (protegido)
	warehouses := protected.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	warehouses.Post("/", writers, warehouseHandler.Create)
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Get("/:id", warehouseHandler.GetByID)
	warehouses.Put("/:id", writers, warehouseHandler.Update)
	warehouses.Delete("/:id", RequireRole(entity.RoleAdmin), warehouseHandler.Delete)

	// Suppliers (protegido)
	suppliers := protected.Group("/suppliers")
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers.Post("/", writers, supplierHandler.Create)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Get("/:id", supplierHandler.GetByID)
	suppliers.Put("/:id", writers, supplierHandler.Update)
	suppliers.Delete("/:id", RequireRole(entity.RoleAdmin), supplierHandler.Delete)

	// Products y combos (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	inventoryHandler := NewInventoryHandler(deps.ApplyEntry, deps.Queries, deps.Resolver, deps.Engine)
	products.Post("/", writers, productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", writers, productHandler.Update)
	products.Delete("/:id", RequireRole(entity.RoleAdmin), productHandler.Delete)
	products.Put("/:id/components", writers, productHandler.SetComponents)
	products.Get("/:id/components", productHandler.GetComponents)
	products.Get("/:id/availability", inventoryHandler.GetAvailability)
	products.Get("/:id/forecast", inventoryHandler.GetForecast)

	// Kardex (protegido)
	invGroup := protected.Group("/inventory")
	invGroup.Post("/entries", writers, inventoryHandler.ApplyEntry)
	invGroup.Get("/entries", inventoryHandler.ListEntries)

	// Alertas de stock bajo (protegido)
	alertsGroup := protected.Group("/alerts")
	alertsHandler := NewAlertsHandler(deps.Aggregator)
	alertsGroup.Get("/low-stock", alertsHandler.LowStock)
}
