package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/refineryiq/server/internal/alerts"
	"github.com/refineryiq/server/internal/api/handlers"
	"github.com/refineryiq/server/internal/auth"
	rediscache "github.com/refineryiq/server/internal/cache/redis"
	"github.com/refineryiq/server/internal/insight"
	"github.com/refineryiq/server/internal/llm"
	"github.com/refineryiq/server/internal/metrics"
	"github.com/refineryiq/server/internal/middleware/ratelimit"
	"github.com/refineryiq/server/internal/middleware/security"
	"github.com/refineryiq/server/internal/middleware/session"
	"github.com/refineryiq/server/internal/storage/sqlite"
	"github.com/refineryiq/server/internal/telemetry"
	"github.com/refineryiq/server/pkg/config"
	appLogger "github.com/refineryiq/server/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := appLogger.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.OutputPath); err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer appLogger.Sync()

	appLogger.Info("starting RefineryIQ telemetry & insight service")

	metrics.Init()

	store := telemetry.NewStore(cfg.Telemetry.Seed, cfg.Telemetry.SampleDays)
	alertManager := alerts.NewManager(store)
	gate := auth.NewGate(time.Duration(cfg.Auth.TokenTTLHours)*time.Hour, auth.DefaultCredentials())

	llmClient := llm.NewClient(cfg.LLM)
	if cfg.LLM.APIKey == "" {
		appLogger.Warn("no LLM API key configured; insight queries will return the configuration notice")
	}

	router := insight.NewRouter(store, alertManager, llmClient, cfg.LLM.APIKey != "")

	if cfg.Redis.Enabled {
		cache, err := rediscache.NewClient(cfg.Redis)
		if err != nil {
			appLogger.Warn("redis unavailable, continuing without response cache", zap.Error(err))
		} else {
			defer cache.Close()
			router.WithCache(cache)
		}
	}

	if cfg.SQLite.Enabled {
		audit, err := sqlite.NewClient(cfg.SQLite.Path)
		if err != nil {
			appLogger.Warn("sqlite unavailable, continuing without audit log", zap.Error(err))
		} else if err := audit.InitSchema(); err != nil {
			appLogger.Warn("audit schema init failed, continuing without audit log", zap.Error(err))
			audit.Close()
		} else {
			defer audit.Close()
			router.WithAuditLog(audit)
		}
	}

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    cfg.Server.BodyLimit,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(security.Headers(os.Getenv("REFINERYIQ_ENV") == "production"))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, OPTIONS",
	}))

	authHandler := handlers.NewAuthHandler(gate)
	telemetryHandler := handlers.NewTelemetryHandler(store)
	alertsHandler := handlers.NewAlertsHandler(alertManager)
	insightHandler := handlers.NewInsightHandler(router)
	wsHandler := handlers.NewWebSocketHandler(router)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "healthy", "time": time.Now().Unix()})
	})
	app.Get("/metrics", metrics.Handler())

	api := app.Group("/api/v1", ratelimit.New(120).Middleware())
	api.Post("/auth/login", authHandler.Login)

	// Everything below requires a valid session token.
	api.Use(session.Middleware(gate))

	api.Post("/auth/logout", authHandler.Logout)
	api.Get("/auth/me", authHandler.Me)

	api.Get("/energy", telemetryHandler.GetEnergy)
	api.Get("/energy/daily-totals", telemetryHandler.GetDailyTotals)
	api.Get("/energy/:unitID", telemetryHandler.GetUnitEnergy)

	api.Get("/kpis", telemetryHandler.GetKPIs)
	api.Get("/kpis/summary", telemetryHandler.GetKPISummary)
	api.Get("/kpis/sec", telemetryHandler.GetSEC)

	api.Get("/units", telemetryHandler.GetUnits)
	api.Get("/units/:unitID", telemetryHandler.GetUnit)

	api.Get("/alerts", alertsHandler.GetAlerts)
	api.Get("/alerts/active", alertsHandler.GetActive)
	api.Post("/alerts/:id/acknowledge", alertsHandler.Acknowledge)

	api.Get("/recommendations", telemetryHandler.GetRecommendations)
	api.Get("/predictions", telemetryHandler.GetPredictions)

	insightLimiter := ratelimit.New(20)
	api.Post("/insight/query", insightLimiter.Middleware(), insightHandler.HandleQuery)

	// Browsers cannot set Authorization on websocket upgrades, so the token
	// rides in the query string.
	app.Use("/ws/insight", func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		if !gate.IsValid(c.Query("token")) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "not authenticated",
			})
		}
		return c.Next()
	})
	app.Get("/ws/insight", websocket.New(wsHandler.HandleConnection))

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	appLogger.Info("server starting", zap.String("address", addr))

	go func() {
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("server shutting down")
	app.Shutdown()
	appLogger.Info("server stopped")
}
