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
	appanalytics "github.com/tulsipower/production-monitor/internal/application/analytics"
	"github.com/tulsipower/production-monitor/internal/application/auth"
	"github.com/tulsipower/production-monitor/internal/application/batch"
	"github.com/tulsipower/production-monitor/internal/application/inventory"
	"github.com/tulsipower/production-monitor/internal/application/order"
	"github.com/tulsipower/production-monitor/internal/application/production"
	domanalytics "github.com/tulsipower/production-monitor/internal/domain/analytics"
	"github.com/tulsipower/production-monitor/internal/domain/entity"
	"github.com/tulsipower/production-monitor/internal/domain/stagegraph"
	infrapdf "github.com/tulsipower/production-monitor/internal/infrastructure/pdf"
	"github.com/tulsipower/production-monitor/internal/infrastructure/postgres"
	httpRouter "github.com/tulsipower/production-monitor/internal/interfaces/http"
	"github.com/tulsipower/production-monitor/pkg/config"
	"github.com/tulsipower/production-monitor/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
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

	// Configuración de etapas: seed inicial y construcción del grafo del
	// pipeline a partir de la base.
	stageRepo := postgres.NewStageRepository(pool)
	graph, err := loadStageGraph(stageRepo)
	if err != nil {
		log.Fatal().Err(err).Msg("cargar grafo de etapas")
	}
	log.Info().Strs("stages", graph.Sequence()).Msg("pipeline cargado")

	invRepo := postgres.NewStageInventoryRepository(pool)
	txnRepo := postgres.NewInventoryTransactionRepository(pool)
	movRepo := postgres.NewMaterialMovementRepository(pool)
	recordRepo := postgres.NewProductionRecordRepository(pool)
	batchRepo := postgres.NewBatchRepository(pool)
	journeyRepo := postgres.NewBatchJourneyRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	userRepo := postgres.NewUserRepository(pool)

	ledgerUC := inventory.NewLedgerUseCase(
		postgres.NewTxRunner(pool), graph,
		invRepo, txnRepo, movRepo,
		inventory.StockDefaults{
			MinLevel: cfg.Plant.DefaultMinStockKg,
			MaxLevel: cfg.Plant.DefaultMaxStockKg,
		},
		log,
	)
	// Las filas de stock de las etapas productivas se materializan al
	// arranque: SELECT FOR UPDATE necesita una fila existente que bloquear.
	if err := ledgerUC.InitializeStages(); err != nil {
		log.Fatal().Err(err).Msg("inicializar stock por etapa")
	}

	linkageUC := order.NewLinkageUseCase(orderRepo, batchRepo, journeyRepo, graph)
	trackerUC := batch.NewTrackerUseCase(
		postgres.NewBatchTxRunner(pool), graph, ledgerUC, linkageUC,
		batchRepo, journeyRepo, orderRepo,
	)
	productionUC := production.NewRecordUseCase(
		postgres.NewProductionTxRunner(pool), graph, ledgerUC, recordRepo,
	)

	thresholds := domanalytics.Thresholds{
		EfficiencyWarning:  cfg.Plant.EfficiencyWarning,
		EfficiencyCritical: cfg.Plant.EfficiencyCritical,
		LossWarning:        cfg.Plant.LossWarning,
		LossCritical:       cfg.Plant.LossCritical,
	}
	dashboardUC := appanalytics.NewDashboardUseCase(graph, recordRepo, batchRepo, orderRepo, thresholds)

	// PDF: informe de producción por etapa
	pdfGenerator := infrapdf.NewMarotoReportGenerator(cfg.App.Name)
	reportUC := appanalytics.NewReportUseCase(dashboardUC, pdfGenerator)

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Production Monitor API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductionUC: productionUC,
		LedgerUC:     ledgerUC,
		TrackerUC:    trackerUC,
		LinkageUC:    linkageUC,
		DashboardUC:  dashboardUC,
		ReportUC:     reportUC,
		AuthUC:       authUC,
		Graph:        graph,
		JWTSecret:    cfg.JWT.Secret,
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

// loadStageGraph siembra las definiciones del pipeline si la tabla está vacía
// y construye el grafo desde la base.
func loadStageGraph(stageRepo *postgres.StageRepo) (*stagegraph.Graph, error) {
	defaults := stagegraph.Default().Stages()
	seed := make([]*entity.StageDefinition, 0, len(defaults))
	for i := range defaults {
		seed = append(seed, &defaults[i])
	}
	if err := stageRepo.Seed(seed); err != nil {
		return nil, err
	}

	rows, err := stageRepo.List()
	if err != nil {
		return nil, err
	}
	defs := make([]entity.StageDefinition, 0, len(rows))
	for _, row := range rows {
		defs = append(defs, *row)
	}
	return stagegraph.New(defs)
}
