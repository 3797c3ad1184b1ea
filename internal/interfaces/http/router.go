package http

import (
	"github.com/gofiber/fiber/v2"
	appanalytics "github.com/jhoicas/stock-engine/internal/application/analytics"
	"github.com/jhoicas/stock-engine/internal/application/inventory"
	"github.com/jhoicas/stock-engine/internal/application/usecase"
	"github.com/jhoicas/stock-engine/pkg/jwt"
	"github.com/jhoicas/stock-engine/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	DocumentUC  *usecase.DocumentUseCase
	Engine      *inventory.ValidateDocumentUseCase
	StockQuery  *inventory.StockQueryUseCase
	DocumentPDF *usecase.DocumentPDFUseCase
	DashboardUC *appanalytics.DashboardUseCase
	Log         *logger.Logger
	JWTSecret   string
	ServiceName string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.Log == nil {
		deps.Log = logger.NewNop()
	}
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.ServiceName})
	})

	api := app.Group("/api")

	// Todo /api requiere Bearer Token
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	supervisors := RequireRole(jwt.RoleAdmin, jwt.RoleManager)

	documents := protected.Group("/documents")
	documentHandler := NewDocumentHandler(deps.DocumentUC, deps.Engine, deps.StockQuery, deps.DocumentPDF, deps.Log)
	documents.Post("/", documentHandler.Create)
	documents.Get("/", documentHandler.List)
	documents.Get("/:id", documentHandler.GetByID)
	documents.Put("/:id/lines", documentHandler.ReplaceLines)
	documents.Post("/:id/submit", documentHandler.Submit)
	documents.Post("/:id/approve", supervisors, documentHandler.Approve)
	documents.Post("/:id/cancel", supervisors, documentHandler.Cancel)
	documents.Get("/:id/ledger", documentHandler.Ledger)
	documents.Get("/:id/pdf", documentHandler.PDF)
	documents.Post("/:kind/:id/validate", supervisors, documentHandler.Validate)

	stock := protected.Group("/stock")
	stockHandler := NewStockHandler(deps.StockQuery, deps.Log)
	stock.Get("/levels", stockHandler.Levels)
	stock.Get("/ledger", stockHandler.Ledger)
	stock.Get("/reconcile", stockHandler.Reconcile)
	stock.Post("/rebuild", RequireRole(jwt.RoleAdmin), stockHandler.Rebuild)
	stock.Post("/reservations", stockHandler.Reserve)
	stock.Delete("/reservations", stockHandler.Release)

	dashboard := protected.Group("/dashboard")
	dashboardHandler := NewDashboardHandler(deps.DashboardUC, deps.Log)
	dashboard.Get("/summary", dashboardHandler.GetSummary)
}
