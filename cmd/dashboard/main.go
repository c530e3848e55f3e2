package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/jfsc-dain/audit-system/internal/api"
	"github.com/jfsc-dain/audit-system/internal/api/handler"
	"github.com/jfsc-dain/audit-system/internal/api/middleware"
	"github.com/jfsc-dain/audit-system/internal/core/ports"
	"github.com/jfsc-dain/audit-system/internal/core/service"
	"github.com/jfsc-dain/audit-system/internal/infrastructure/db/memory"
	mongodb "github.com/jfsc-dain/audit-system/internal/infrastructure/db/mongo"
	redisdb "github.com/jfsc-dain/audit-system/internal/infrastructure/db/redis"
	"github.com/jfsc-dain/audit-system/internal/infrastructure/jobs"
	"github.com/jfsc-dain/audit-system/internal/infrastructure/queue"
	"github.com/jfsc-dain/audit-system/internal/pkg/config"
	"github.com/jfsc-dain/audit-system/pkg/logger"
)

func main() {
	cfg := config.MustLoad()
	log := logger.Init(logger.ForEnv(cfg.Env, cfg.LogLevel, "dain-dashboard"))

	ctx := context.Background()
	checks := map[string]handler.Check{}

	// --- Session store ---
	var (
		stores      ports.SessionStoreProvider
		redisClient *redis.Client
	)
	switch cfg.Session.Store {
	case "redis":
		var err error
		redisClient, err = redisdb.Connect(ctx, redisdb.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect redis")
		}
		stores = redisdb.NewSessionStores(redisClient, cfg.Session.TTL)
		checks["redis"] = handler.RedisCheck(redisClient)
	default:
		log.Warn().Msg("using in-memory session store; sessions do not survive a restart")
		stores = memory.NewSessionStores()
	}

	// --- Audit trail ---
	var (
		mongoClient *mongo.Client
		trail       ports.SessionEventRepository
		events      ports.SessionEventPublisher
		dispatcher  *queue.Dispatcher
	)
	workersCtx, stopWorkers := context.WithCancel(ctx)
	defer stopWorkers()
	if cfg.Mongo.URI != "" {
		client, db, err := mongodb.Connect(ctx, mongodb.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
			AppName:  "dain-dashboard",
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect mongo")
		}
		mongoClient = client

		repo := mongodb.NewSessionEventRepository(db)
		if err := repo.EnsureIndexes(ctx); err != nil {
			log.Warn().Err(err).Msg("ensure audit trail indexes failed")
		}
		dispatcher = queue.NewDispatcher(cfg.Mongo.Workers, repo, logger.Component("audit-trail"))
		dispatcher.Start(workersCtx)

		trail, events = repo, dispatcher
		checks["mongodb"] = handler.MongoCheck(db)
	} else {
		log.Info().Msg("MONGO_URI not set; session audit trail disabled")
	}

	// --- Client instances ---
	registry := service.NewInstanceRegistry(api.NewInstanceFactory(api.InstanceOptions{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.API.Timeout,
		Stores:  stores,
		Events:  events,
		Logger:  logger.Component("session"),
	}), logger.Component("registry"))

	scheduler := jobs.NewScheduler(registry, cfg.Session.JanitorSpec, cfg.Session.IdleTTL, logger.Component("jobs"))
	if err := scheduler.Start(); err != nil {
		log.Error().Err(err).Msg("scheduler start failed")
	}

	e := api.NewRouter(api.Dependencies{
		Registry: registry,
		Policy:   service.NewRolePolicy(),
		Trail:    trail,
		Checks:   checks,
		Cookie: middleware.ClientOptions{
			CookieName: cfg.Session.CookieName,
			Secure:     cfg.Session.CookieSecure,
		},
		BootWait: cfg.Session.BootWait,
		Logger:   logger.Component("http"),
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("api_base_url", cfg.API.BaseURL).Msg("dashboard gateway listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	waitForShutdown(log, e, scheduler, func() {
		if dispatcher != nil {
			stopWorkers()
			dispatcher.Wait()
		}
		if mongoClient != nil {
			if err := mongoClient.Disconnect(context.Background()); err != nil {
				log.Error().Err(err).Msg("mongo disconnect error")
			}
		}
		if redisClient != nil {
			if err := redisClient.Close(); err != nil {
				log.Error().Err(err).Msg("redis close error")
			}
		}
	})
}

func waitForShutdown(log zerolog.Logger, e *echo.Echo, scheduler *jobs.Scheduler, closeDeps func()) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
		if err := e.Close(); err != nil {
			log.Error().Err(err).Msg("forced shutdown failed")
		}
	}

	scheduler.Stop(shutdownCtx)
	closeDeps()

	log.Info().Msg("server exited cleanly")
}
