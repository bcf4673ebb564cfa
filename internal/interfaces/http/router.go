package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/jhoicas/Fabrica-api/internal/application/analytics"
	"github.com/jhoicas/Fabrica-api/internal/application/auth"
	"github.com/jhoicas/Fabrica-api/internal/application/dto"
	"github.com/jhoicas/Fabrica-api/internal/application/hr"
	"github.com/jhoicas/Fabrica-api/internal/application/inventory"
	"github.com/jhoicas/Fabrica-api/internal/application/orders"
	"github.com/jhoicas/Fabrica-api/internal/application/production"
	"github.com/jhoicas/Fabrica-api/internal/application/usecase"
	"github.com/jhoicas/Fabrica-api/internal/domain/entity"
	"github.com/jhoicas/Fabrica-api/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC        *auth.AuthUseCase
	UserUC        *usecase.UserUseCase
	SupplierUC    *usecase.SupplierUseCase
	WarehouseUC   *usecase.WarehouseUseCase
	MaterialUC    *usecase.MaterialUseCase
	ProductUC     *usecase.ProductUseCase
	Movements     *inventory.MovementUseCase
	Capacity      *inventory.CapacityUseCase
	StockAnalysis *inventory.StockAnalysisUseCase
	Replenishment *inventory.ReplenishmentUseCase
	ProductionUC  *production.UseCase
	OrdersUC      *orders.UseCase
	HRUC          *hr.UseCase
	KPIUC         *analytics.KPIUseCase
	ReportUC      *analytics.ReportUseCase
	DashboardUC   *analytics.DashboardUseCase

	// Opcionales: Redis nil desactiva la caché del dashboard; Gatherer nil oculta /metrics.
	Redis    redis.Cmdable
	CacheTTL time.Duration
	Gatherer prometheus.Gatherer

	JWTSecret string
	Logger    *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(dto.HealthResponse{Status: "ok", Time: time.Now().UTC()})
	})
	if deps.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC, deps.UserUC)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (Bearer Token + auditoría)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret), AuditMiddleware(deps.UserUC, deps.Logger))

	adminOnly := RequireRole(entity.RoleAdmin)
	warehouseRoles := RequireRole(entity.RoleAdmin, entity.RoleAlmacenista)
	productionRoles := RequireRole(entity.RoleAdmin, entity.RoleSupervisor)
	stockRoles := RequireRole(entity.RoleAdmin, entity.RoleAlmacenista, entity.RoleSupervisor)
	salesRoles := RequireRole(entity.RoleAdmin, entity.RoleVendedor)
	hrRoles := RequireRole(entity.RoleAdmin, entity.RoleRRHH)
	analyticsRoles := RequireRole(entity.RoleAdmin, entity.RoleSupervisor)

	// Usuarios y auditoría
	protected.Get("/users/me", authHandler.Me)
	users := protected.Group("/users", adminOnly)
	users.Post("/", authHandler.CreateUser)
	users.Get("/", authHandler.ListUsers)
	users.Get("/:id", authHandler.GetUser)
	protected.Get("/audit-logs", adminOnly, authHandler.ListAudit)

	// Proveedores
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers := protected.Group("/suppliers")
	suppliers.Get("/", supplierHandler.List)
	suppliers.Get("/:id", supplierHandler.GetByID)
	suppliers.Post("/", warehouseRoles, supplierHandler.Create)
	suppliers.Put("/:id", warehouseRoles, supplierHandler.Update)

	// Bodegas, ubicaciones y capacidad
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC, deps.Capacity)
	warehouses := protected.Group("/warehouses")
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Get("/:id", warehouseHandler.GetByID)
	warehouses.Get("/:id/locations", warehouseHandler.ListLocations)
	warehouses.Get("/:id/utilization", warehouseHandler.Utilization)
	warehouses.Get("/:id/storage-analysis", warehouseHandler.StorageAnalysis)
	warehouses.Get("/:id/available-locations", warehouseHandler.AvailableLocations)
	warehouses.Post("/", warehouseRoles, warehouseHandler.Create)
	warehouses.Put("/:id", warehouseRoles, warehouseHandler.Update)

	locations := protected.Group("/locations")
	locations.Get("/:id", warehouseHandler.GetLocation)
	locations.Post("/", warehouseRoles, warehouseHandler.CreateLocation)
	locations.Put("/:id", warehouseRoles, warehouseHandler.UpdateLocation)
	locations.Post("/:id/recompute-volume", warehouseRoles, warehouseHandler.RecomputeVolume)

	// Materiales (rutas fijas antes de /:id)
	materialHandler := NewMaterialHandler(deps.MaterialUC, deps.StockAnalysis, deps.Replenishment)
	materials := protected.Group("/materials")
	materials.Get("/low-stock", materialHandler.LowStock)
	materials.Get("/replenishment-list", materialHandler.Replenishment)
	materials.Get("/", materialHandler.List)
	materials.Get("/:id", materialHandler.GetByID)
	materials.Get("/:id/stock-analysis", materialHandler.Analysis)
	materials.Post("/", warehouseRoles, materialHandler.Create)
	materials.Put("/:id", warehouseRoles, materialHandler.Update)

	// Inventario: movimientos y stock
	inventoryHandler := NewInventoryHandler(deps.Movements)
	inv := protected.Group("/inventory")
	inv.Get("/movements/analysis", inventoryHandler.Analysis)
	inv.Get("/movements", inventoryHandler.ListMovements)
	inv.Get("/movements/:id", inventoryHandler.GetMovement)
	inv.Post("/movements", stockRoles, inventoryHandler.ApplyMovement)
	inv.Get("/stock/expiring", inventoryHandler.ListExpiring)
	inv.Get("/stock", inventoryHandler.ListStock)

	// Productos y recetas
	productHandler := NewProductHandler(deps.ProductUC)
	categories := protected.Group("/categories")
	categories.Get("/", productHandler.ListCategories)
	categories.Post("/", productionRoles, productHandler.CreateCategory)

	products := protected.Group("/products")
	products.Get("/", productHandler.List)
	products.Get("/component-usage", productHandler.ComponentUsage)
	products.Get("/:id", productHandler.GetByID)
	products.Get("/:id/components", productHandler.ListComponents)
	products.Get("/:id/bom", productHandler.BOM)
	products.Post("/", productionRoles, productHandler.Create)
	products.Put("/:id", productionRoles, productHandler.Update)
	products.Post("/:id/discontinue", productionRoles, productHandler.Discontinue)
	products.Post("/:id/components", productionRoles, productHandler.AddComponent)
	products.Delete("/:id/components/:componentId", productionRoles, productHandler.RemoveComponent)

	// Producción
	productionHandler := NewProductionHandler(deps.ProductionUC)
	prod := protected.Group("/production")
	prod.Get("/lines", productionHandler.ListLines)
	prod.Get("/lines/:id", productionHandler.GetLine)
	prod.Get("/lines/:id/maintenance", productionHandler.ListMaintenance)
	prod.Get("/lines/:id/schedule", productionHandler.LineSchedule)
	prod.Get("/lines/:id/performance", productionHandler.LinePerformance)
	prod.Get("/maintenance/schedule", productionHandler.MaintenanceSchedule)
	prod.Get("/consumption/report", productionHandler.ConsumptionReport)
	prod.Get("/quality/metrics", productionHandler.QualityMetrics)
	prod.Post("/lines", productionRoles, productionHandler.CreateLine)
	prod.Patch("/lines/:id/status", productionRoles, productionHandler.UpdateLineStatus)
	prod.Post("/lines/:id/maintenance", productionRoles, productionHandler.StartMaintenance)
	prod.Post("/maintenance/:id/complete", productionRoles, productionHandler.CompleteMaintenance)

	prod.Get("/orders", productionHandler.ListOrders)
	prod.Get("/orders/:id", productionHandler.GetOrder)
	prod.Get("/orders/:id/requirements", productionHandler.Requirements)
	prod.Get("/orders/:id/batches", productionHandler.ListBatches)
	prod.Get("/orders/:id/quality-rate", productionHandler.QualityRate)
	prod.Post("/orders", productionRoles, productionHandler.CreateOrder)
	prod.Patch("/orders/:id/status", productionRoles, productionHandler.UpdateOrderStatus)
	prod.Post("/orders/:id/start", productionRoles, productionHandler.Start)
	prod.Post("/orders/:id/complete", productionRoles, productionHandler.Complete)
	prod.Post("/orders/:id/batches", productionRoles, productionHandler.OpenBatch)

	prod.Get("/batches/:id/consumption", productionHandler.ListConsumption)
	prod.Get("/batches/:id/efficiency", productionHandler.BatchEfficiency)
	prod.Get("/batches/:id/quality-checks", productionHandler.ListQualityChecks)
	prod.Post("/batches/:id/production", productionRoles, productionHandler.RecordProduction)
	prod.Post("/batches/:id/complete", productionRoles, productionHandler.CompleteBatch)
	prod.Post("/batches/:id/consumption", productionRoles, productionHandler.RecordConsumption)
	prod.Post("/batches/:id/quality-checks", productionRoles, productionHandler.AddQualityCheck)

	// Pedidos de clientes
	orderHandler := NewOrderHandler(deps.OrdersUC)
	ord := protected.Group("/orders")
	ord.Get("/", orderHandler.List)
	ord.Get("/items/:itemId/requirements", orderHandler.ListRequirements)
	ord.Get("/:id", orderHandler.GetByID)
	ord.Get("/:id/payments", orderHandler.ListPayments)
	ord.Post("/", salesRoles, orderHandler.Create)
	ord.Patch("/:id/status", salesRoles, orderHandler.UpdateStatus)
	ord.Post("/:id/assign", salesRoles, orderHandler.Assign)
	ord.Post("/:id/payments", salesRoles, orderHandler.AddPayment)
	ord.Patch("/payments/:paymentId/status", salesRoles, orderHandler.UpdatePaymentStatus)
	ord.Patch("/items/:itemId/production", productionRoles, orderHandler.UpdateItemProduction)
	ord.Post("/items/:itemId/requirements", stockRoles, orderHandler.GenerateRequirements)
	ord.Post("/requirements/:reqId/allocate", warehouseRoles, orderHandler.Allocate)

	// Recursos humanos
	hrHandler := NewHRHandler(deps.HRUC)
	hrGroup := protected.Group("/hr")
	hrGroup.Get("/departments", hrHandler.ListDepartments)
	hrGroup.Get("/employees", hrHandler.ListEmployees)
	hrGroup.Get("/employees/:id", hrHandler.GetEmployee)
	hrGroup.Get("/employees/:id/attendance", hrHandler.ListAttendance)
	hrGroup.Get("/leaves", hrHandler.ListLeaves)
	hrGroup.Post("/departments", hrRoles, hrHandler.CreateDepartment)
	hrGroup.Post("/employees", hrRoles, hrHandler.CreateEmployee)
	hrGroup.Patch("/employees/:id/status", hrRoles, hrHandler.UpdateEmployeeStatus)
	hrGroup.Post("/leaves", hrHandler.CreateLeave)
	hrGroup.Post("/leaves/:id/approve", hrRoles, hrHandler.ApproveLeave)
	hrGroup.Post("/leaves/:id/reject", hrRoles, hrHandler.RejectLeave)
	hrGroup.Post("/attendance/check-in", hrHandler.CheckIn)
	hrGroup.Post("/attendance/check-out", hrHandler.CheckOut)

	// Analítica
	analyticsHandler := NewAnalyticsHandler(deps.KPIUC, deps.ReportUC, deps.DashboardUC)
	an := protected.Group("/analytics")
	an.Get("/dashboard", CacheMiddleware(deps.Redis, deps.CacheTTL, deps.Logger), analyticsHandler.GetDashboard)
	an.Get("/kpis", analyticsHandler.ListKPIs)
	an.Get("/kpis/:id", analyticsHandler.GetKPI)
	an.Get("/kpis/:id/history", analyticsHandler.History)
	an.Post("/kpis", analyticsRoles, analyticsHandler.CreateKPI)
	an.Post("/kpis/:id/values", analyticsRoles, analyticsHandler.RecordValue)
	an.Get("/alerts", analyticsHandler.ListAlerts)
	an.Post("/alerts/:id/acknowledge", analyticsRoles, analyticsHandler.AcknowledgeAlert)
	an.Post("/alerts/:id/resolve", analyticsRoles, analyticsHandler.ResolveAlert)
	an.Get("/reports", analyticsHandler.ListReports)
	an.Get("/reports/:id", analyticsHandler.GetReport)
	an.Get("/reports/:id/download", analyticsHandler.DownloadReport)
	an.Post("/reports", analyticsHandler.RequestReport)
}
