package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/page-delivery-service/internal/api/http"
	"github.com/spec-kit/page-delivery-service/internal/api/http/handlers"
	"github.com/spec-kit/page-delivery-service/internal/auth"
	"github.com/spec-kit/page-delivery-service/internal/config"
	"github.com/spec-kit/page-delivery-service/internal/events"
	"github.com/spec-kit/page-delivery-service/internal/observability"
	"github.com/spec-kit/page-delivery-service/internal/persistence"
	"github.com/spec-kit/page-delivery-service/internal/repository"
	"github.com/spec-kit/page-delivery-service/internal/service"
	"github.com/spec-kit/page-delivery-service/internal/signing"
	"github.com/spec-kit/page-delivery-service/internal/worker"
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

	// A missing signing secret is a deployment defect; refuse to come up.
	issuer, err := signing.NewIssuer(cfg.Delivery.SigningSecret)
	if err != nil {
		logger.Fatal("link signing misconfigured", zap.Error(err))
	}
	verifier, err := signing.NewVerifier(cfg.Delivery.SigningSecret, logger)
	if err != nil {
		logger.Fatal("link signing misconfigured", zap.Error(err))
	}
	linkBuilder := signing.NewLinkBuilder(issuer, cfg.Delivery.BaseURL)

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

	pool := pg.PoolHandle()
	accountRepo := repository.NewAccountRepository(pool)
	collectionRepo := repository.NewCollectionRepository(pool)
	pageRepo := repository.NewPageRepository(pool)

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	authService := service.NewAuthService(*cfg, accountRepo)
	linkService := service.NewLinkService(collectionRepo, pageRepo, linkBuilder, dispatcher, metrics)
	renderService := service.NewRenderService(pageRepo, redis, dispatcher, logger)
	auditService := service.NewAuditService(dispatcher, logger)
	worker.StartAuditWorker(auditService)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), accountRepo)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Links:          handlers.NewLinksHandler(linkService),
		Render:         handlers.NewRenderHandler(verifier, renderService, dispatcher, metrics),
		AuthMiddleware: authMiddleware,
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
