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
	appanalytics "github.com/jhoicas/stock-engine/internal/application/analytics"
	"github.com/jhoicas/stock-engine/internal/application/inventory"
	"github.com/jhoicas/stock-engine/internal/application/usecase"
	"github.com/jhoicas/stock-engine/internal/domain/repository"
	"github.com/jhoicas/stock-engine/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/stock-engine/internal/infrastructure/pdf"
	"github.com/jhoicas/stock-engine/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/stock-engine/internal/interfaces/http"
	"github.com/jhoicas/stock-engine/pkg/config"
	"github.com/jhoicas/stock-engine/pkg/logger"
)

// backend repositorios y runner de transacciones del driver configurado.
type backend struct {
	txRunner  inventory.TxRunner
	documents repository.DocumentRepository
	stock     repository.StockLevelRepository
	ledger    repository.LedgerRepository
	catalog   repository.CatalogRepository
	dashboard repository.DashboardRepository
	close     func()
}

func openBackend(ctx context.Context, cfg config.DBConfig, log *logger.Logger) (*backend, error) {
	if cfg.Driver == "memory" {
		store := memory.NewStore()
		if err := store.Seed(); err != nil {
			return nil, err
		}
		log.Warn().Msg("DB_DRIVER=memory: los datos no se persisten")
		return &backend{
			txRunner:  memory.NewTxRunner(store),
			documents: memory.NewDocumentRepository(store),
			stock:     memory.NewStockLevelRepository(store),
			ledger:    memory.NewLedgerRepository(store),
			catalog:   memory.NewCatalogRepository(store),
			dashboard: memory.NewDashboardRepository(store),
			close:     func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &backend{
		txRunner:  postgres.NewTxRunner(pool),
		documents: postgres.NewDocumentRepository(pool),
		stock:     postgres.NewStockLevelRepository(pool),
		ledger:    postgres.NewLedgerRepository(pool),
		catalog:   postgres.NewCatalogRepository(pool),
		dashboard: postgres.NewDashboardRepository(pool),
		close:     pool.Close,
	}, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("db_driver", cfg.DB.Driver).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es requerido")
	}

	ctx := context.Background()
	be, err := openBackend(ctx, cfg.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir almacenamiento")
	}
	defer be.close()

	engine := inventory.NewValidateDocumentUseCase(be.txRunner, log, inventory.EngineConfig{
		MaxRetries:   cfg.Engine.MaxRetries,
		RetryBackoff: cfg.Engine.RetryBackoff,
		RequireReady: cfg.Engine.RequireReady,
	})
	stockQuery := inventory.NewStockQueryUseCase(be.txRunner, be.stock, be.ledger)
	documentUC := usecase.NewDocumentUseCase(be.txRunner, be.documents)
	documentPDF := usecase.NewDocumentPDFUseCase(be.documents, be.catalog, infrapdf.NewMarotoPDFGenerator())
	dashboardUC := appanalytics.NewDashboardUseCase(be.dashboard, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI: http://localhost:<port>/docs
	if _, err := os.Stat(cfg.HTTP.SwaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.HTTP.SwaggerFile,
			Path:     "docs",
			Title:    "Stock Engine API",
		}))
	} else {
		log.Warn().Str("file", cfg.HTTP.SwaggerFile).Msg("swagger deshabilitado: archivo no encontrado")
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		DocumentUC:  documentUC,
		Engine:      engine,
		StockQuery:  stockQuery,
		DocumentPDF: documentPDF,
		DashboardUC: dashboardUC,
		Log:         log.Component("http"),
		JWTSecret:   cfg.JWT.Secret,
		ServiceName: cfg.App.Name,
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
