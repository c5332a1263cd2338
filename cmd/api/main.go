package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/agency-crm/internal/api/http"
	"github.com/spec-kit/agency-crm/internal/api/http/handlers"
	"github.com/spec-kit/agency-crm/internal/auth"
	"github.com/spec-kit/agency-crm/internal/config"
	"github.com/spec-kit/agency-crm/internal/events"
	"github.com/spec-kit/agency-crm/internal/observability"
	"github.com/spec-kit/agency-crm/internal/persistence"
	"github.com/spec-kit/agency-crm/internal/repository"
	"github.com/spec-kit/agency-crm/internal/service"
	"github.com/spec-kit/agency-crm/internal/worker"
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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	promRegistry := prometheus.NewRegistry()
	metrics := observability.NewMetrics(promRegistry)

	pool := pg.PoolHandle()
	repos := repository.NewRegistry(pool)
	uow := repository.NewPgUnitOfWork(pool)
	dispatcher := events.NewInMemoryDispatcher()

	codes := persistence.NewVerificationCodeStore(redis, time.Duration(cfg.Auth.VerificationTTLMinutes)*time.Minute)

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:  repos.Users,
		AgentRepo: repos.Agents,
		Codes:     codes,
		Logger:    logger,
	})
	leadService := service.NewLeadService(service.LeadDependencies{
		Repos:      repos,
		UnitOfWork: uow,
		Dispatcher: dispatcher,
		Metrics:    metrics,
	})
	agentService := service.NewAgentService(*cfg, service.AgentDependencies{
		Repos:      repos,
		UnitOfWork: uow,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	messageService := service.NewMessageService(service.MessageDependencies{
		Repos:      repos,
		UnitOfWork: uow,
		Dispatcher: dispatcher,
		Metrics:    metrics,
		Logger:     logger,
	})
	policyService := service.NewPolicyService(*cfg, service.PolicyDependencies{
		Repos:      repos,
		Dispatcher: dispatcher,
		Metrics:    metrics,
		Logger:     logger,
	})
	performanceService := service.NewPerformanceService(repos.Agents, repos.Policies)
	notificationService := service.NewNotificationService(repos.Notifications, logger)
	taskService := service.NewTaskService(repos.Tasks)
	agencyService := service.NewAgencyService(repos)
	dashboardService := service.NewDashboardService(repos, policyService, logger)

	worker.StartNotificationWorker(notificationService, dispatcher)
	worker.StartRenewalWorker(ctx, policyService, time.Duration(cfg.Renewal.ScanIntervalMins)*time.Minute, logger)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), repos.Users, repos.Agents)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Clients:        handlers.NewClientsHandler(leadService, agencyService),
		Agents:         handlers.NewAgentsHandler(agentService, performanceService, agencyService),
		Policies:       handlers.NewPoliciesHandler(policyService),
		Messages:       handlers.NewMessagesHandler(messageService),
		Notifications:  handlers.NewNotificationsHandler(notificationService),
		Records:        handlers.NewRecordsHandler(taskService, agencyService),
		Dashboard:      handlers.NewDashboardHandler(dashboardService),
		AuthMiddleware: authMiddleware,
		Registry:       promRegistry,
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
