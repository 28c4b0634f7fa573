package http

import (
	"github.com/gofiber/fiber/v2"
	appanalytics "github.com/tulsipower/production-monitor/internal/application/analytics"
	"github.com/tulsipower/production-monitor/internal/application/auth"
	"github.com/tulsipower/production-monitor/internal/application/batch"
	"github.com/tulsipower/production-monitor/internal/application/inventory"
	"github.com/tulsipower/production-monitor/internal/application/order"
	"github.com/tulsipower/production-monitor/internal/application/production"
	"github.com/tulsipower/production-monitor/internal/domain/entity"
	"github.com/tulsipower/production-monitor/internal/domain/stagegraph"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductionUC *production.RecordUseCase
	LedgerUC     *inventory.LedgerUseCase
	TrackerUC    *batch.TrackerUseCase
	LinkageUC    *order.LinkageUseCase
	DashboardUC  *appanalytics.DashboardUseCase
	ReportUC     *appanalytics.ReportUseCase
	AuthUC       *auth.AuthUseCase
	Graph        *stagegraph.Graph
	JWTSecret    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Production records (protegido)
	prod := protected.Group("/production")
	productionHandler := NewProductionHandler(deps.ProductionUC)
	prod.Post("/records", productionHandler.Create)
	prod.Get("/records", productionHandler.List)
	prod.Get("/records/:id", productionHandler.GetByID)
	prod.Get("/quick-stats", productionHandler.QuickStats)

	// Inventory ledger (protegido)
	inv := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.LedgerUC)
	inv.Get("/", inventoryHandler.Summary)
	inv.Get("/alerts", inventoryHandler.Alerts)
	inv.Get("/transactions", inventoryHandler.Transactions)
	inv.Post("/transactions", inventoryHandler.ApplyTransaction)
	inv.Get("/movements", inventoryHandler.Movements)
	inv.Post("/movements", inventoryHandler.RecordMovement)
	inv.Get("/stages/:stage", inventoryHandler.Stage)
	inv.Post("/sync", RequireRole(entity.RoleAdmin), inventoryHandler.Sync)

	// Configuración del pipeline (protegido)
	stageHandler := NewStageHandler(deps.Graph)
	protected.Get("/stages", stageHandler.Config)

	// Batches (protegido)
	batches := protected.Group("/batches")
	batchHandler := NewBatchHandler(deps.TrackerUC)
	batches.Post("/", batchHandler.Create)
	batches.Get("/", batchHandler.List)
	batches.Get("/:id", batchHandler.GetByID)
	batches.Post("/:id/move", batchHandler.Move)
	batches.Post("/:id/hold", batchHandler.SetHold)

	// Orders (protegido)
	orders := protected.Group("/orders")
	orderHandler := NewOrderHandler(deps.LinkageUC)
	orders.Post("/", orderHandler.Create)
	orders.Get("/", orderHandler.List)
	orders.Get("/:id", orderHandler.GetByID)
	orders.Put("/:id/status", orderHandler.UpdateStatus)

	// Dashboard (protegido)
	dashboard := protected.Group("/dashboard")
	dashboardHandler := NewDashboardHandler(deps.DashboardUC, deps.ReportUC)
	dashboard.Get("/summary", dashboardHandler.Summary)
	dashboard.Get("/process-flow", dashboardHandler.ProcessFlow)
	dashboard.Get("/alerts", dashboardHandler.Alerts)
	dashboard.Get("/timeline", dashboardHandler.Timeline)
	dashboard.Get("/scrap", dashboardHandler.ScrapAnalysis)
	dashboard.Get("/stages/:stage", dashboardHandler.StageDetail)
	dashboard.Get("/report.pdf", dashboardHandler.SummaryPDF)
}
