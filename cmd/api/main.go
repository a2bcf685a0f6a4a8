package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/Laboratorio-api/internal/application/analytics"
	"github.com/jhoicas/Laboratorio-api/internal/application/auth"
	"github.com/jhoicas/Laboratorio-api/internal/application/inventory"
	"github.com/jhoicas/Laboratorio-api/internal/application/ports"
	"github.com/jhoicas/Laboratorio-api/internal/application/requisition"
	"github.com/jhoicas/Laboratorio-api/internal/domain/repository"
	"github.com/jhoicas/Laboratorio-api/internal/infrastructure/excel"
	"github.com/jhoicas/Laboratorio-api/internal/infrastructure/memory"
	"github.com/jhoicas/Laboratorio-api/internal/infrastructure/metrics"
	"github.com/jhoicas/Laboratorio-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Laboratorio-api/internal/interfaces/http"
	"github.com/jhoicas/Laboratorio-api/pkg/config"
	"github.com/jhoicas/Laboratorio-api/pkg/logger"
)

// storage agrupa los puertos de persistencia del driver elegido.
type storage struct {
	txRunner     inventory.TxRunner
	categories   repository.CategoryRepository
	materials    repository.MaterialRepository
	transactions repository.TransactionRepository
	requisitions repository.RequisitionRepository
	users        repository.UserRepository
	statistics   repository.StatisticsRepository
	close        func()
}

func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storage, error) {
	if cfg.Storage.Driver == config.StorageDriverMemory {
		log.Warn().Msg("STORAGE_DRIVER=memory: los datos se pierden al reiniciar")
		s := memory.NewStore()
		return &storage{
			txRunner:     s,
			categories:   s.Categories(),
			materials:    s.Materials(),
			transactions: s.Transactions(),
			requisitions: s.Requisitions(),
			users:        s.Users(),
			statistics:   s.Statistics(),
			close:        func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		log.Info().Msg("migraciones aplicadas")
	}
	return &storage{
		txRunner:     postgres.NewTxRunner(pool),
		categories:   postgres.NewCategoryRepository(pool),
		materials:    postgres.NewMaterialRepository(pool),
		transactions: postgres.NewTransactionRepository(pool),
		requisitions: postgres.NewRequisitionRepository(pool),
		users:        postgres.NewUserRepository(pool),
		statistics:   postgres.NewStatisticsRepository(pool),
		close:        pool.Close,
	}, nil
}

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
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("configuración inválida")
	}
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage.Driver).
		Str("timezone", cfg.App.Timezone).
		Msg("iniciando aplicación")

	ctx := context.Background()
	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer store.close()

	loc := cfg.App.Location()
	clock := ports.SystemClock(loc)

	var recorder *metrics.Recorder
	var metricsPort ports.MetricsRecorder = ports.NopMetrics{}
	if cfg.Metrics.Enabled {
		recorder = metrics.NewRecorder("laboratorio")
		metricsPort = recorder
	}

	categoryUC := inventory.NewCategoryUseCase(store.categories, store.materials, clock, log.Component("categories"))
	materialUC := inventory.NewMaterialUseCase(store.txRunner, store.materials, store.categories, store.transactions, clock, log.Component("materials"))
	stockUC := inventory.NewStockUseCase(store.txRunner, store.transactions, excel.NewLedgerExporter(loc), metricsPort, clock, log.Component("ledger"))
	statisticsUC := analytics.NewStatisticsUseCase(store.statistics, clock)
	requisitionUC := requisition.NewUseCase(store.txRunner, store.requisitions, store.materials, store.users, metricsPort, clock, log.Component("requisitions"))
	authUC := auth.NewAuthUseCase(store.users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, clock)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.HTTP.CORSOrigins}))
	app.Use(httpRouter.AccessLog(log.Component("http")))
	if recorder != nil {
		app.Use(httpRouter.Instrument(recorder))
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(recorder.Registry(), promhttp.HandlerOpts{})))
	}

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(cfg.HTTP.SwaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.HTTP.SwaggerFile,
			Path:     "docs",
			Title:    "Laboratorio API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		CategoryUC:    categoryUC,
		MaterialUC:    materialUC,
		StockUC:       stockUC,
		StatisticsUC:  statisticsUC,
		RequisitionUC: requisitionUC,
		AuthUC:        authUC,
		JWTSecret:     cfg.JWT.Secret,
		ApproverRoles: cfg.Auth.ApproverRoles,
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
