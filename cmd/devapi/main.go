// Command devapi serves the backend authentication contract locally
// (login, verify-token and a sample audits listing) so the dashboard
// gateway can run without the hosted API.
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jfsc-dain/audit-system/internal/devapi"
	mongodb "github.com/jfsc-dain/audit-system/internal/infrastructure/db/mongo"
	"github.com/jfsc-dain/audit-system/internal/pkg/config"
	"github.com/jfsc-dain/audit-system/pkg/logger"
)

func main() {
	cfg, err := config.LoadDevAPI(context.Background())
	if err != nil {
		panic(err)
	}
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true, Service: "dain-devapi"})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var repo devapi.UserRepository
	if cfg.Mongo.URI != "" {
		client, db, err := mongodb.Connect(ctx, mongodb.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
			AppName:  "dain-devapi",
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect mongo")
		}
		defer func() { _ = client.Disconnect(context.Background()) }()

		users := mongodb.NewUserRepository(db)
		if err := users.EnsureIndexes(ctx); err != nil {
			log.Warn().Err(err).Msg("ensure user indexes failed")
		}
		repo = users
	} else {
		repo = devapi.NewMemoryUserRepository()
	}

	svc := devapi.NewAuthService(repo, cfg.JWTSecret, cfg.TokenTTL)
	if cfg.Seed {
		if err := devapi.Seed(ctx, svc, devapi.DefaultSeed); err != nil {
			log.Fatal().Err(err).Msg("seed users failed")
		}
		log.Info().Int("users", len(devapi.DefaultSeed)).Msg("seeded development users")
	}

	e := devapi.NewRouter(svc, cfg.BasePath, logger.Component("devapi"))
	go func() {
		log.Info().Str("port", cfg.Port).Str("base_path", cfg.BasePath).Msg("development backend listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
