package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/atomconnect/atom-connect-api/internal/api"
	"github.com/atomconnect/atom-connect-api/internal/api/handler"
	"github.com/atomconnect/atom-connect-api/internal/auth"
	"github.com/atomconnect/atom-connect-api/internal/core/service"
	"github.com/atomconnect/atom-connect-api/internal/infrastructure/config"
	mongorepo "github.com/atomconnect/atom-connect-api/internal/infrastructure/db/mongo"
	redisinfra "github.com/atomconnect/atom-connect-api/internal/infrastructure/db/redis"
	"github.com/atomconnect/atom-connect-api/internal/infrastructure/oauth"
	"github.com/atomconnect/atom-connect-api/internal/infrastructure/queue"
	"github.com/atomconnect/atom-connect-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// @title           Atom Connect API
// @version         1.0
// @description     Training and placement marketplace connecting freelance trainers with organizations.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log := logger.Init(logger.Options{Level: "info"})

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("configuration invalid")
	}
	logger.Reset()
	log = logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.Env == "development"})

	codec, err := auth.NewCodec(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("token codec init failed")
	}

	client, db, err := mongorepo.Connect(ctx, mongorepo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connect failed")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = client.Disconnect(disconnectCtx)
	}()

	rdb, err := redisinfra.Connect(ctx, redisinfra.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connect failed")
	}
	defer rdb.Close()

	userRepo := mongorepo.NewUserRepository(client, db)
	trainingRepo := mongorepo.NewTrainingRepository(client, db)
	taxonomyRepo := mongorepo.NewTaxonomyRepository(db)
	auditRepo := mongorepo.NewAuditRepository(db)
	for name, ensure := range map[string]func(context.Context) error{
		"users":     userRepo.EnsureIndexes,
		"trainings": trainingRepo.EnsureIndexes,
		"taxonomy":  taxonomyRepo.EnsureIndexes,
		"audit":     auditRepo.EnsureIndexes,
	} {
		if err := ensure(ctx); err != nil {
			log.Fatal().Err(err).Str("collection", name).Msg("index creation failed")
		}
	}

	dispatcher := queue.NewDispatcher(0, service.NewAuditService(auditRepo, log), log)
	dispatcher.Start(ctx)

	var provider handler.OAuthProvider
	if cfg.OAuthEnabled() {
		provider = oauth.NewGoogleProvider(cfg.OAuth)
		log.Info().Msg("google oauth enabled")
	}

	e := api.NewRouter(cfg, client, db, rdb, codec, dispatcher, provider, log)

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
