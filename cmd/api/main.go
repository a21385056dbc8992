// @title           Exam System API
// @version         1.0
// @description     Online examination backend: token authentication, question bank, exams and scoring.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/oles/exam-system/internal/api"
	"github.com/oles/exam-system/internal/api/handler"
	"github.com/oles/exam-system/internal/core/service"
	mongodb "github.com/oles/exam-system/internal/infrastructure/db/mongo"
	redisdb "github.com/oles/exam-system/internal/infrastructure/db/redis"
	"github.com/oles/exam-system/internal/infrastructure/queue"
	"github.com/oles/exam-system/internal/pkg/config"
	"github.com/oles/exam-system/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "exam-api",
		Version: version,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Stores ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:      cfg.Redis.Addr,
		DB:        cfg.Redis.DB,
		PoolSize:  cfg.Redis.PoolSize,
		OpTimeout: cfg.Redis.Timeout,
		Retries:   cfg.Redis.ConnectRetries,
	}, logger.With("redis"))
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("index creation failed")
	}

	users := mongodb.NewUserRepository(db)
	questions := mongodb.NewQuestionRepository(db)
	exams := mongodb.NewExamRepository(db)
	results := mongodb.NewResultRepository(db)

	if cfg.Seed.Enabled {
		seeder := service.NewSeeder(users, questions, exams, cfg.Seed.Password, logger.With("seed"))
		if err := seeder.Run(ctx); err != nil {
			log.Fatal().Err(err).Msg("seeding failed")
		}
	}

	// --- Audit trail ---
	dispatcher := queue.NewDispatcher(cfg.Audit.Workers, mongodb.NewAuditRepository(db), logger.With("audit"))
	dispatcher.Start(ctx)

	// --- Services ---
	tokens := service.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	guard := redisdb.NewSubmissionGuard(rdb, cfg.Submission.ReplayTTL)

	e := api.NewRouter(api.Deps{
		Auth:        service.NewAuthService(users, tokens, dispatcher, logger.With("auth")),
		Tokens:      tokens,
		Users:       users,
		Questions:   service.NewQuestionService(questions, logger.With("questions")),
		Exams:       service.NewExamService(exams, questions, logger.With("exams")),
		Submissions: service.NewSubmissionService(users, exams, questions, results, guard, dispatcher, logger.With("submissions")),
		Checks: map[string]handler.Check{
			"mongodb": handler.MongoCheck(db),
			"redis":   handler.RedisCheck(rdb),
		},
		Logger:     log,
		Registerer: prometheus.DefaultRegisterer,
		Gatherer:   prometheus.DefaultGatherer,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("http server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server shutdown failed")
	}
	dispatcher.Close()
	if err := mongoClient.Disconnect(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("mongo disconnect failed")
	}
	if err := rdb.Close(); err != nil {
		log.Error().Err(err).Msg("redis close failed")
	}
	log.Info().Msg("shutdown complete")
}
