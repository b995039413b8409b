package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/civicdesk/complaint-service/internal/api/http"
	"github.com/civicdesk/complaint-service/internal/api/http/handlers"
	"github.com/civicdesk/complaint-service/internal/chat"
	"github.com/civicdesk/complaint-service/internal/config"
	"github.com/civicdesk/complaint-service/internal/events"
	"github.com/civicdesk/complaint-service/internal/observability"
	"github.com/civicdesk/complaint-service/internal/ratelimit"
	"github.com/civicdesk/complaint-service/internal/service"
	"github.com/civicdesk/complaint-service/internal/store"
	"github.com/civicdesk/complaint-service/internal/triage"
	"github.com/civicdesk/complaint-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	repo := store.NewMemoryStore()
	if cfg.Store.SeedSampleData {
		store.SeedSampleData(repo)
	}

	analyzer := triage.NewAnalyzer(cfg.Triage, logger)
	dispatcher := events.NewInMemoryDispatcher(logger)
	metrics := observability.NewMetrics()

	limiter := ratelimit.New(cfg.Redis, cfg.RateLimit, logger)
	defer limiter.Close()

	complaintService := service.NewComplaintService(service.Dependencies{
		Repo:           repo,
		Analyzer:       analyzer,
		Dispatcher:     dispatcher,
		Logger:         logger,
		TriageBlocking: cfg.Triage.Blocking,
		SLAThreshold:   cfg.SLA.BreachThreshold(),
	})
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	chatManager := chat.NewManager(
		service.NewChatGateway(complaintService),
		cfg.Chat.ResetDelay(),
		cfg.Chat.SessionTTL(),
		logger,
	)

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: cfg.App.Env == "production",
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Complaints: handlers.NewComplaintsHandler(complaintService, limiter),
		Admin:      handlers.NewAdminHandler(complaintService, cfg.Notification),
		Chat:       handlers.NewChatHandler(chatManager),
		Analytics:  handlers.NewAnalyticsHandler(complaintService),
		Live:       handlers.NewLiveHandler(complaintService, logger),
		Health:     handlers.NewHealthHandler(cfg.App, metrics),
		AdminToken: cfg.Admin.Token,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
