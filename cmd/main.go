package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"gitlab.com/judge-session.net/internal/adapter/crypto"
	"gitlab.com/judge-session.net/internal/adapter/http/executorport"
	"gitlab.com/judge-session.net/internal/adapter/http/questionport"
	"gitlab.com/judge-session.net/internal/adapter/http/verificationport"
	"gitlab.com/judge-session.net/internal/adapter/postgres/questionrepository"
	"gitlab.com/judge-session.net/internal/adapter/redis/verificationcache"
	"gitlab.com/judge-session.net/internal/config"
	"gitlab.com/judge-session.net/internal/core/ports/primary"
	"gitlab.com/judge-session.net/internal/core/ports/secondary"
	"gitlab.com/judge-session.net/internal/core/services/registry"
	"gitlab.com/judge-session.net/internal/core/services/session"
	"gitlab.com/judge-session.net/internal/core/services/verification"
	"gitlab.com/judge-session.net/internal/domain"
	logger2 "gitlab.com/judge-session.net/internal/global/logger"
	"gitlab.com/judge-session.net/internal/handlers"
	http2 "gitlab.com/judge-session.net/internal/http"
)

func main() {
	InitReader()
	// Set up graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sysCfg := config.NewSystemConfig()
	logger2.SetDebug(sysCfg.DebugMode)
	logger := logger2.Logger
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting judge session service", "storeBackend", sysCfg.StoreBackend, "debug", sysCfg.DebugMode)

	// SECONDARY PORTS
	questions, verifications, closeStores, err := setupStores(sysCfg, logger)
	if err != nil {
		logger.Error("Failed to set up stores", "error", err)
		os.Exit(1)
	}
	defer closeStores()

	if sysCfg.RedisConfig.Enabled {
		redisClient := setupRedis(sysCfg.RedisConfig)
		defer redisClient.Close()
		verifications = verificationcache.NewVerificationCache(verifications, redisClient, sysCfg.SessionConfig.VerificationCacheTTL, logger)
	}

	collab := sysCfg.Collaborators
	executor := executorport.NewExecutorPort(collab.ExecutorServiceURL, collab.ExecutorTimeout, logger)

	//services
	tracker := verification.NewTracker(verifications, logger)
	deps := session.Dependencies{
		Questions: questions,
		Executor:  executor,
		Verifier:  tracker,
		Logger:    logger,
	}
	sessionRegistry, err := registry.NewRegistry(sysCfg.SessionConfig.MaxLive, newNavigatorFactory(deps, sysCfg.SessionConfig), logger)
	if err != nil {
		logger.Error("Failed to create session registry", "error", err)
		os.Exit(1)
	}

	//primary ports
	jwtProvider := crypto.NewJWTService(sysCfg.JwtConfig)
	middleware := handlers.New(jwtProvider, sysCfg.JwtConfig.SigningMethod, logger)

	//server
	serviceProvider := http2.NewServiceProvider(sessionRegistry, middleware)
	httpServer := http2.NewServer(sysCfg.HTTPPort, sysCfg.ServiceName, *serviceProvider, logger)
	if err := httpServer.Init(); err != nil {
		panic(err)
	}
	ctxBg := context.Background()
	httpServer.Start(ctxBg)

	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(ctxBg, 5*time.Second)
	defer cancel()
	if err := httpServer.Stop(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	logger.Info("successfully shutdown server")
}

func newNavigatorFactory(deps session.Dependencies, cfg *config.SessionConfig) registry.NavigatorFactory {
	return func(identity string, refs []domain.QuestionRef) (session.INavigator, error) {
		nav, err := session.NewNavigator(identity, refs, deps,
			session.WithDefaultCode(cfg.DefaultCode),
			session.WithMaxNotices(cfg.MaxNotices),
		)
		if err != nil {
			return nil, err
		}
		return nav, nil
	}
}

// setupStores picks where questions and verifications come from
func setupStores(cfg *config.AppConfig, logger primary.Logger) (secondary.QuestionStore, secondary.VerificationStore, func(), error) {
	switch cfg.StoreBackend {
	case config.StoreBackendHTTP:
		collab := cfg.Collaborators
		return questionport.NewQuestionPort(collab.QuestionServiceURL, collab.Timeout, logger),
			verificationport.NewVerificationPort(collab.VerificationServiceURL, collab.Timeout, logger),
			func() {},
			nil
	case config.StoreBackendPostgres:
		db, err := setupDatabase(cfg.PostgresConfig)
		if err != nil {
			return nil, nil, nil, err
		}
		schema := cfg.PostgresConfig.Schema
		return questionrepository.NewQuestionRepository(db, logger, schema),
			questionrepository.NewVerificationRepository(db, logger, schema),
			func() { _ = db.Close() },
			nil
	default:
		return nil, nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

// setupDatabase sets up the PostgreSQL connection
func setupDatabase(cfg *config.PostgresConfig) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", cfg.Url)
	if err != nil {
		return nil, err
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// setupRedis sets up the Redis connection
func setupRedis(cfg *config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Url,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// InitReader loads <env>.env when an environment name is given, .env otherwise
func InitReader() {
	if len(os.Args) < 2 {
		if err := godotenv.Load(); err != nil {
			log.Printf("No .env file loaded, using process environment")
		}
		return
	}

	environment := os.Args[1]
	if err := godotenv.Load(environment + ".env"); err != nil {
		log.Fatalf("Error loading %s.env file", environment)
	}
}
