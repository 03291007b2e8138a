package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Issaqsk/farm2market/internal/adapter/advisory"
	"github.com/Issaqsk/farm2market/internal/adapter/email"
	"github.com/Issaqsk/farm2market/internal/adapter/memory"
	natsadapter "github.com/Issaqsk/farm2market/internal/adapter/nats"
	redisadapter "github.com/Issaqsk/farm2market/internal/adapter/redis"
	"github.com/Issaqsk/farm2market/internal/app/config"
	"github.com/Issaqsk/farm2market/internal/platform/logger"
	httpport "github.com/Issaqsk/farm2market/internal/port/http"
	"github.com/Issaqsk/farm2market/internal/repository"
	"github.com/Issaqsk/farm2market/internal/service"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
)

type App struct {
	cfg         *config.Config
	log         logger.Logger
	server      *httpport.Server
	natsConn    *nats.Conn
	redisClient *redis.Client
}

func New(cfg *config.Config) (*App, error) {
	ctx := context.Background()

	appLogger, err := logger.NewZapLogger(logger.ZapLoggerConfig{
		Level:      cfg.Logger.Level,
		Encoding:   cfg.Logger.Encoding,
		TimeFormat: cfg.Logger.TimeFormat,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	appLogger.Infof("Configuration loaded: Env=%s, HTTP addr: %s", cfg.Env, cfg.HTTPServer.Addr)

	catalogRepo := memory.NewCatalogRepository()
	orderRepo := memory.NewOrderRepository()
	appLogger.Info("In-memory stores initialized")

	var natsConn *nats.Conn
	publisher := natsadapter.NewNoopPublisher()
	if cfg.NATS.Enabled {
		natsConn, err = natsadapter.NewConnection(cfg.NATS)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to NATS: %w", err)
		}
		publisher, err = natsadapter.NewNATSPublisher(natsConn)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize NATS publisher: %w", err)
		}
		appLogger.Info("NATS publisher initialized")
	}

	var redisClient *redis.Client
	var advisoryCache repository.AdvisoryCache = memory.NewAdvisoryCache()
	if cfg.Redis.Enabled {
		redisClient, err = redisadapter.NewClient(ctx, cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Redis client: %w", err)
		}
		advisoryCache = redisadapter.NewAdvisoryCacheRepository(redisClient)
		appLogger.Info("Redis advisory cache initialized")
	}

	var emailSender email.Sender
	if cfg.SMTP.Enabled {
		emailSender, err = email.NewSMTPSender(cfg.SMTP, appLogger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SMTP sender: %w", err)
		}
		appLogger.Info("SMTP sender initialized")
	}

	advisorClient := advisory.NewClient(cfg.Advisory, appLogger)

	sessionService := service.NewSessionService(appLogger)
	catalogService := service.NewCatalogService(catalogRepo, publisher, appLogger)
	orderService := service.NewOrderService(orderRepo, catalogRepo, publisher, emailSender, appLogger)
	receiptService := service.NewReceiptService(orderRepo, appLogger)
	advisoryService := service.NewAdvisoryService(advisorClient, advisoryCache, cfg.Advisory.CacheTTL, appLogger)

	if cfg.Demo.Seed {
		if err := seedDemoData(ctx, catalogRepo, orderRepo); err != nil {
			appLogger.Warnf("Failed to seed demo data: %v", err)
		} else {
			appLogger.Info("Demo data seeded")
		}
	}

	router := httpport.NewRouter(sessionService, httpport.Handlers{
		Listing:  httpport.NewListingHandler(catalogService, appLogger),
		Order:    httpport.NewOrderHandler(orderService, receiptService, appLogger),
		Session:  httpport.NewSessionHandler(sessionService, appLogger),
		Advisory: httpport.NewAdvisoryHandler(advisoryService, sessionService, appLogger),
	})

	server := httpport.NewServer(cfg.HTTPServer, router, appLogger)
	appLogger.Info("HTTP server instance created")

	return &App{
		cfg:         cfg,
		log:         appLogger,
		server:      server,
		natsConn:    natsConn,
		redisClient: redisClient,
	}, nil
}

func (a *App) Run() {
	a.log.Info("Starting application components...")

	go func() {
		if err := a.server.Start(); err != nil {
			a.log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	receivedSignal := <-quit
	a.log.Infof("Received shutdown signal: %v. Shutting down application...", receivedSignal)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.HTTPServer.TimeoutGraceful+5*time.Second)
	defer cancel()

	if err := a.server.Stop(shutdownCtx); err != nil {
		a.log.Errorf("Error during HTTP server graceful shutdown: %v", err)
	} else {
		a.log.Info("HTTP server stopped successfully")
	}

	if a.natsConn != nil {
		a.natsConn.Close()
		a.log.Info("NATS connection closed")
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.log.Errorf("Error closing Redis client: %v", err)
		} else {
			a.log.Info("Redis client closed")
		}
	}

	a.log.Info("Application shut down successfully")
}
