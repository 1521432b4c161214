package router

import (
	"shopfloor/internal/config"
	"shopfloor/internal/handler"
	"shopfloor/internal/middleware"
	"shopfloor/internal/repository"
	"shopfloor/internal/service"
	"shopfloor/internal/worker"

	_ "shopfloor/docs"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
// A nil rdb disables background jobs.
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) (*gin.Engine, error) {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	rateLimit, err := middleware.RateLimiter(cfg.RateLimit)
	if err != nil {
		return nil, err
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(gzip.Gzip(gzip.DefaultCompression))
	r.Use(middleware.ErrorHandler())
	r.Use(rateLimit)

	// ── Repositories ─────────────────────────────────────────────────────────
	materialRepo := repository.NewMaterialRepository(db)
	movementRepo := repository.NewStockMovementRepository(db)
	orderRepo := repository.NewWorkOrderRepository(db)
	bomRepo := repository.NewBomRepository(db)
	logRepo := repository.NewProductionLogRepository(db)

	// Worker dispatcher, injected into the coordinator to announce completions
	var jobs service.JobEnqueuer
	if rdb != nil {
		jobs = worker.NewDispatcher(rdb)
	}

	// ── Services ─────────────────────────────────────────────────────────────
	inventorySvc := service.NewInventoryService(materialRepo, movementRepo)
	orderSvc := service.NewWorkOrderService(orderRepo)
	productionSvc := service.NewProductionService(orderRepo, bomRepo, materialRepo, movementRepo, logRepo, jobs)
	bomSvc := service.NewBomService(bomRepo, materialRepo)
	reportingSvc := service.NewReportingService(orderRepo, logRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	materialsH := handler.NewMaterialsHandler(inventorySvc)
	ordersH := handler.NewOrdersHandler(orderSvc, reportingSvc)
	machineH := handler.NewMachineHandler(productionSvc)
	bomH := handler.NewBomHandler(bomSvc)
	logsH := handler.NewProductionLogsHandler(reportingSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	api := r.Group("/api/mes")
	dashboard, machine := roleGuards(cfg)
	if cfg.AuthEnabled() {
		api.Use(middleware.JWTAuth(cfg.JWTSecret))
	}
	{
		// Machine endpoints: machines and dashboard operators
		api.GET("/machine/poll", machine, machineH.Poll)
		api.POST("/machine/report", machine, machineH.Report)

		// Inventory
		api.POST("/material/inbound", dashboard, materialsH.Inbound)
		api.GET("/materials", dashboard, materialsH.List)
		api.GET("/materials/movements", dashboard, materialsH.Movements)

		// Work orders
		api.POST("/order", dashboard, ordersH.Create)
		api.GET("/orders", dashboard, ordersH.List)
		api.GET("/orders/:id", dashboard, ordersH.Get)
		api.GET("/orders/:id/summary", dashboard, ordersH.Summary)
		api.GET("/orders/:id/traveler", dashboard, ordersH.Traveler)

		// Bill of materials
		api.POST("/bom", dashboard, bomH.Upsert)
		api.GET("/boms", dashboard, bomH.List)

		// Production log
		api.GET("/production-logs", dashboard, logsH.List)
		api.GET("/production-logs/export", dashboard, logsH.Export)
	}

	// Swagger UI, only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r, nil
}

// roleGuards returns the dashboard and machine role checks. Without a JWT
// secret both let every request through.
func roleGuards(cfg *config.Config) (dashboard, machine gin.HandlerFunc) {
	if !cfg.AuthEnabled() {
		open := func(c *gin.Context) { c.Next() }
		return open, open
	}
	return middleware.RequireRole(middleware.RoleDashboard),
		middleware.RequireRole(middleware.RoleMachine, middleware.RoleDashboard)
}
