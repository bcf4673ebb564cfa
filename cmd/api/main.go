package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"

	_ "github.com/jhoicas/Fabrica-api/docs"
	appanalytics "github.com/jhoicas/Fabrica-api/internal/application/analytics"
	"github.com/jhoicas/Fabrica-api/internal/application/auth"
	"github.com/jhoicas/Fabrica-api/internal/application/hr"
	"github.com/jhoicas/Fabrica-api/internal/application/inventory"
	"github.com/jhoicas/Fabrica-api/internal/application/orders"
	"github.com/jhoicas/Fabrica-api/internal/application/production"
	"github.com/jhoicas/Fabrica-api/internal/application/usecase"
	"github.com/jhoicas/Fabrica-api/internal/domain/entity"
	"github.com/jhoicas/Fabrica-api/internal/infrastructure/csvreport"
	"github.com/jhoicas/Fabrica-api/internal/infrastructure/excel"
	"github.com/jhoicas/Fabrica-api/internal/infrastructure/kafka"
	"github.com/jhoicas/Fabrica-api/internal/infrastructure/mail"
	"github.com/jhoicas/Fabrica-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/Fabrica-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Fabrica-api/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/Fabrica-api/internal/infrastructure/redis"
	httpRouter "github.com/jhoicas/Fabrica-api/internal/interfaces/http"
	"github.com/jhoicas/Fabrica-api/pkg/config"
	"github.com/jhoicas/Fabrica-api/pkg/logger"
)

// @title                       Fabrica API
// @version                     1.0
// @description                 Backend de operaciones de planta: inventario, producción, pedidos, RRHH y analítica.
// @BasePath                    /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
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

	if cfg.DB.AutoMigrate {
		applied, err := postgres.Migrate(ctx, pool)
		if err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		log.Info().Strs("applied", applied).Msg("migraciones aplicadas")
	}

	// ── Adaptadores opcionales ────────────────────────────────────────────────
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.New(registry)

	var (
		redisClient *goredis.Client
		cache       goredis.Cmdable
		reportQueue appanalytics.ReportQueue = infraredis.NewMemoryQueue()
	)
	if cfg.Redis.Enabled() {
		redisClient, err = infraredis.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("conexión a Redis")
		}
		defer redisClient.Close()
		cache = redisClient
		reportQueue = infraredis.NewReportQueue(redisClient)
	} else {
		log.Warn().Msg("REDIS_ADDR vacío: cola de reportes en memoria y dashboard sin caché")
	}

	var events inventory.EventPublisher = kafka.NopPublisher{}
	if cfg.Kafka.Enabled() {
		publisher, err := kafka.NewPublisher(cfg.Kafka, log)
		if err != nil {
			log.Fatal().Err(err).Strs("brokers", cfg.Kafka.Brokers).Msg("productor Kafka")
		}
		defer publisher.Close()
		events = publisher
	}

	var notifier appanalytics.AlertNotifier
	if cfg.Mail.Enabled() {
		notifier = mail.NewAlertNotifier(cfg.Mail)
	}

	// ── Repositorios ──────────────────────────────────────────────────────────
	userRepo := postgres.NewUserRepository(pool)
	auditRepo := postgres.NewAuditLogRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	warehouseRepo := postgres.NewWarehouseRepository(pool)
	locationRepo := postgres.NewStorageLocationRepository(pool)
	materialRepo := postgres.NewMaterialRepository(pool)
	stockRepo := postgres.NewStockRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	componentRepo := postgres.NewProductComponentRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	productionOrderRepo := postgres.NewProductionOrderRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	kpiRepo := postgres.NewKPIRepository(pool)
	alertRepo := postgres.NewAlertRepository(pool)
	reportRepo := postgres.NewReportRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// ── Casos de uso ──────────────────────────────────────────────────────────
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	userUC := usecase.NewUserUseCase(userRepo, auditRepo)
	supplierUC := usecase.NewSupplierUseCase(supplierRepo)
	warehouseUC := usecase.NewWarehouseUseCase(warehouseRepo, locationRepo)
	materialUC := usecase.NewMaterialUseCase(materialRepo, supplierRepo)
	productUC := usecase.NewProductUseCase(productRepo, componentRepo, categoryRepo, materialRepo, txRunner)

	processor := inventory.NewMovementProcessor(txRunner, appMetrics, events, log)
	movementUC := inventory.NewMovementUseCase(processor, stockRepo, movementRepo)
	capacityUC := inventory.NewCapacityUseCase(txRunner, warehouseRepo, locationRepo)
	analysisUC := inventory.NewStockAnalysisUseCase(materialRepo, stockRepo, movementRepo)
	replenishmentUC := inventory.NewReplenishmentUseCase(materialRepo, movementRepo)

	productionUC := production.NewUseCase(production.Repos{
		Lines:       postgres.NewProductionLineRepository(pool),
		Orders:      productionOrderRepo,
		Batches:     postgres.NewProductionBatchRepository(pool),
		Consumption: postgres.NewMaterialConsumptionRepository(pool),
		Quality:     postgres.NewQualityCheckRepository(pool),
		Maintenance: postgres.NewMaintenanceLogRepository(pool),
		Products:    productRepo,
		Components:  componentRepo,
		Materials:   materialRepo,
		Stock:       stockRepo,
	}, txRunner, log)

	ordersUC := orders.NewUseCase(orders.Repos{
		Orders:       orderRepo,
		Items:        postgres.NewOrderItemRepository(pool),
		Payments:     postgres.NewPaymentRepository(pool),
		Requirements: postgres.NewMaterialRequirementRepository(pool),
		Products:     productRepo,
		Components:   componentRepo,
	}, txRunner, log)

	hrUC := hr.NewUseCase(
		postgres.NewDepartmentRepository(pool),
		postgres.NewEmployeeRepository(pool),
		postgres.NewLeaveRequestRepository(pool),
		postgres.NewAttendanceRepository(pool),
	)

	kpiUC := appanalytics.NewKPIUseCase(kpiRepo, alertRepo, txRunner, notifier, log)
	reportUC := appanalytics.NewReportUseCase(reportRepo, reportQueue, log)
	dashboardUC := appanalytics.NewDashboardUseCase(postgres.NewDashboardRepository(pool), productionOrderRepo, orderRepo)

	// Worker de reportes: consume la cola hasta el apagado.
	reportWorker := appanalytics.NewReportWorker(
		reportRepo,
		reportQueue,
		appanalytics.NewReportBuilder(appanalytics.ReportSources{
			KPIs:      kpiRepo,
			Alerts:    alertRepo,
			Materials: materialRepo,
			Movements: movementRepo,
		}),
		map[string]appanalytics.ReportRenderer{
			entity.ReportFormatPDF:   infrapdf.NewReportRenderer(),
			entity.ReportFormatExcel: excel.NewReportRenderer(),
			entity.ReportFormatCSV:   csvreport.NewReportRenderer(),
		},
		cfg.Reports.Dir,
		log,
	)
	workerCtx, stopWorker := context.WithCancel(context.Background())
	var workers sync.WaitGroup
	workers.Add(1)
	go func() {
		defer workers.Done()
		reportWorker.Run(workerCtx)
	}()

	// ── HTTP ──────────────────────────────────────────────────────────────────
	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log, appMetrics))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Fabrica API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:        authUC,
		UserUC:        userUC,
		SupplierUC:    supplierUC,
		WarehouseUC:   warehouseUC,
		MaterialUC:    materialUC,
		ProductUC:     productUC,
		Movements:     movementUC,
		Capacity:      capacityUC,
		StockAnalysis: analysisUC,
		Replenishment: replenishmentUC,
		ProductionUC:  productionUC,
		OrdersUC:      ordersUC,
		HRUC:          hrUC,
		KPIUC:         kpiUC,
		ReportUC:      reportUC,
		DashboardUC:   dashboardUC,
		Redis:         cache,
		CacheTTL:      cfg.Redis.CacheTTL,
		Gatherer:      registry,
		JWTSecret:     cfg.JWT.Secret,
		Logger:        log,
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
	stopWorker()
	workers.Wait()

	log.Info().Msg("aplicación detenida")
}
