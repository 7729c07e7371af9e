package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
	"go.uber.org/zap"

	"github.com/seu-repo/takeaway-voice/internal/adapter/ai/openai"
	"github.com/seu-repo/takeaway-voice/internal/adapter/cache"
	"github.com/seu-repo/takeaway-voice/internal/adapter/http/fiber/handlers"
	"github.com/seu-repo/takeaway-voice/internal/adapter/http/fiber/middleware"
	"github.com/seu-repo/takeaway-voice/internal/adapter/printer"
	"github.com/seu-repo/takeaway-voice/internal/adapter/queue"
	"github.com/seu-repo/takeaway-voice/internal/adapter/storage/postgres"
	"github.com/seu-repo/takeaway-voice/internal/adapter/telephony/twilio"
	"github.com/seu-repo/takeaway-voice/internal/adapter/vault"
	wsAdapter "github.com/seu-repo/takeaway-voice/internal/adapter/websocket"
	"github.com/seu-repo/takeaway-voice/internal/observability/telemetry"
	"github.com/seu-repo/takeaway-voice/internal/ports"
	"github.com/seu-repo/takeaway-voice/internal/service/callflow"
	"github.com/seu-repo/takeaway-voice/internal/service/email"
	"github.com/seu-repo/takeaway-voice/internal/service/extraction"
	"github.com/seu-repo/takeaway-voice/internal/service/menu"
	"github.com/seu-repo/takeaway-voice/internal/service/order"
	"github.com/seu-repo/takeaway-voice/pkg/config"
)

const (
	serviceName    = "takeaway-voice"
	serviceVersion = "v1.0.0"
)

func main() {
	// 1. Initialize Logger
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Sync()

	logger.Info("Starting Takeaway Voice",
		zap.String("service", serviceName),
		zap.String("version", serviceVersion),
	)

	// 2. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	// 3. Resolve secrets from Vault when enabled
	if cfg.Vault.Enabled {
		resolveSecrets(cfg, logger)
	}

	// 4. Initialize OpenTelemetry (Distributed Tracing)
	if cfg.Tracing.Enabled {
		tracerProvider, err := telemetry.InitTracer(serviceName, cfg.Tracing.JaegerEndpoint)
		if err != nil {
			logger.Fatal("Failed to initialize tracer", zap.Error(err))
		}
		defer func() {
			if err := tracerProvider.Shutdown(context.Background()); err != nil {
				logger.Error("Error shutting down tracer provider", zap.Error(err))
			}
		}()
	}

	// 5. Initialize PostgreSQL Connection Pool
	db, err := postgres.NewConnection(cfg.Database.URL, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("Failed to get underlying SQL DB", zap.Error(err))
	}
	defer sqlDB.Close()

	if err := postgres.RunMigrations(db); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// 6. Initialize Cache (Redis, local fallback)
	var appCache ports.Cache
	if cfg.Redis.Enabled {
		appCache, err = cache.NewRedisCache(cfg.Redis.URL, logger)
		if err != nil {
			logger.Warn("Redis unavailable, using local cache", zap.Error(err))
			appCache = cache.NewLocalCache(time.Minute, logger)
		}
	} else {
		appCache = cache.NewLocalCache(time.Minute, logger)
	}
	defer appCache.Close()

	// 7. Initialize Message Queue
	messageQueue, err := queue.New(cfg.Queue.Driver, cfg.Queue.URL, logger)
	if err != nil {
		logger.Fatal("Failed to connect to message queue", zap.Error(err))
	}
	defer messageQueue.Close()

	// 8. Load Menu
	catalog, err := menu.Load(cfg.Menu.Path)
	if err != nil {
		// Degraded mode: answer calls, apologize, never crash the line.
		logger.Error("Failed to load menu, starting degraded", zap.String("path", cfg.Menu.Path), zap.Error(err))
		catalog = menu.Empty()
	}

	// 9. Initialize Repositories
	orderRepo := postgres.NewOrderRepository(db, logger)
	sessionRepo := cache.NewSessionCache(postgres.NewSessionRepository(db, logger), appCache, logger)

	// 10. Initialize Services (Business Logic Layer)
	ticketPrinter := printer.New(cfg.Printer.Mode, cfg.Printer.Dir, cfg.Printer.NetworkHost, cfg.Printer.NetworkPort, logger)
	orderService := order.NewService(orderRepo, catalog, ticketPrinter, messageQueue, cfg.App.RestaurantName, cfg.Order.TaxRate, logger)

	openaiClient := openai.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model, logger)
	extractor := extraction.NewExtractor(openaiClient, catalog, time.Duration(cfg.OpenAI.TimeoutSeconds)*time.Second, logger)

	var alertService *email.Service
	if provider := newEmailProvider(cfg, logger); provider != nil {
		alertService = email.NewService(provider, cfg.Fallback.AlertEmail, logger)
	}

	flowService := callflow.NewService(sessionRepo, orderService, extractor, alertService, messageQueue, callflow.Config{
		RestaurantName:        cfg.App.RestaurantName,
		FallbackForwardNumber: cfg.Fallback.ForwardNumber,
		MaxExtractionFailures: cfg.OpenAI.MaxRetries,
	}, logger)

	// 11. Initialize WebSocket Hub (live dashboard feed)
	wsHub := wsAdapter.NewHub()
	go wsHub.Run()
	go startEventRelay(messageQueue, wsHub, logger)

	// 12. Initialize Fiber HTTP Server
	app := fiber.New(fiber.Config{
		AppName:               serviceName,
		ServerHeader:          serviceName,
		DisableStartupMessage: true,
		ErrorHandler:          middleware.ErrorHandler(logger),
	})

	// Global Middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New())
	if cfg.CORS.Enabled {
		app.Use(middleware.NewCORS(cfg.CORS))
	}
	if cfg.RateLimiting.Enabled {
		app.Use(limiter.New(limiter.Config{
			Max:        cfg.RateLimiting.MaxRequests,
			Expiration: cfg.RateLimiting.Window,
		}))
	}

	// Health Check Endpoints
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"service": serviceName, "status": "ok"})
	})
	app.Get("/health/live", func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})
	app.Get("/health/ready", func(c *fiber.Ctx) error {
		if err := sqlDB.Ping(); err != nil {
			return c.Status(503).SendString("Database not ready")
		}
		if err := appCache.Ping(); err != nil {
			return c.Status(503).SendString("Cache not ready")
		}
		return c.SendString("Ready")
	})

	// Metrics endpoint for Prometheus
	if cfg.Prometheus.Enabled {
		app.Get(cfg.Prometheus.Path, func(c *fiber.Ctx) error {
			handler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
			handler(c.Context())
			return nil
		})
	}

	// Twilio voice webhooks (authenticated upstream by Twilio)
	renderer := twilio.NewRenderer(cfg.Twilio.Voice, cfg.App.BaseURL)
	callHandler := handlers.NewCallHandler(flowService, renderer, logger)
	app.Post("/twilio/voice", callHandler.Voice)
	app.Post(callflow.PathProcess, callHandler.Process)
	app.Post(callflow.PathConfirm, callHandler.Confirm)

	// Staff admin API
	orderHandler := handlers.NewOrderHandler(orderService, logger)
	api := app.Group("/api", middleware.SharedSecret(cfg.Dashboard.Token), middleware.CircuitBreaker(logger))
	api.Get("/orders", orderHandler.List)
	api.Get("/orders/:id", orderHandler.Get)
	api.Post("/orders/:id/reprint", orderHandler.Reprint)

	// Dashboard live feed
	dashboardHandler := handlers.NewDashboardHandler(wsHub, logger)
	app.Use("/ws", middleware.SharedSecret(cfg.Dashboard.Token), dashboardHandler.Upgrade)
	app.Get("/ws/orders", dashboardHandler.Stream())

	// 13. Start HTTP Server
	go func() {
		logger.Info("Starting HTTP Server", zap.Int("port", cfg.HTTP.Port))
		if err := app.Listen(fmt.Sprintf(":%d", cfg.HTTP.Port)); err != nil {
			logger.Fatal("HTTP Server failed", zap.Error(err))
		}
	}()

	// 14. Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited gracefully")
}

// startEventRelay forwards broker events onto the dashboard feed.
func startEventRelay(mq queue.MessageQueue, hub *wsAdapter.Hub, logger *zap.Logger) {
	subjects := []string{order.SubjectOrderCreated, callflow.SubjectCallFallback}
	for _, subject := range subjects {
		if err := mq.Subscribe(subject, func(msg []byte) error {
			hub.Broadcast(msg)
			return nil
		}); err != nil {
			logger.Error("Failed to subscribe", zap.String("subject", subject), zap.Error(err))
		}
	}
}

// resolveSecrets overwrites config values with Vault entries when present.
// Missing entries keep the env/file values so local runs stay simple.
func resolveSecrets(cfg *config.Config, logger *zap.Logger) {
	sm, err := vault.NewSecretManager(cfg.Vault.Address, cfg.Vault.Token)
	if err != nil {
		logger.Warn("Vault unavailable, using config values", zap.Error(err))
		return
	}
	if url, err := sm.GetDatabaseURL(); err == nil && url != "" {
		cfg.Database.URL = url
	}
	if key, err := sm.GetOpenAIAPIKey(); err == nil && key != "" {
		cfg.OpenAI.APIKey = key
	}
	if token, err := sm.GetDashboardToken(); err == nil && token != "" {
		cfg.Dashboard.Token = token
	}
}

func newEmailProvider(cfg *config.Config, logger *zap.Logger) ports.EmailProvider {
	switch cfg.Email.Provider {
	case "sendgrid":
		return email.NewSendGridProvider(cfg.Email.APIKey, cfg.Email.From, cfg.Email.FromName)
	case "smtp":
		return email.NewSMTPProvider(cfg.Email.SMTPHost, cfg.Email.SMTPPort, "", "", cfg.Email.From, cfg.Email.FromName, false)
	case "":
		return nil
	default:
		logger.Warn("Unknown email provider, alerts disabled", zap.String("provider", cfg.Email.Provider))
		return nil
	}
}
