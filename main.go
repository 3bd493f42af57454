package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"

	"github.com/logosreach/pathway-engine/pkg/cache"
	"github.com/logosreach/pathway-engine/pkg/config"
	"github.com/logosreach/pathway-engine/pkg/database"
	"github.com/logosreach/pathway-engine/pkg/handlers"
	"github.com/logosreach/pathway-engine/pkg/llm"
	"github.com/logosreach/pathway-engine/pkg/logging"
	"github.com/logosreach/pathway-engine/pkg/middleware"
	"github.com/logosreach/pathway-engine/pkg/questionbank"
	"github.com/logosreach/pathway-engine/pkg/repositories"
	"github.com/logosreach/pathway-engine/pkg/retry"
	"github.com/logosreach/pathway-engine/pkg/services"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := newLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Configuration loaded",
		zap.String("env", cfg.Env),
		zap.String("version", cfg.Version),
		zap.String("database", logging.SanitizeConnectionString(cfg.Database.ConnectionString())),
		zap.String("ai_model", cfg.AI.Model),
		zap.Bool("ai_configured", cfg.AI.IsConfigured()),
		zap.Bool("redis_configured", cfg.Redis.Host != ""))

	ctx := context.Background()

	db, err := database.NewConnection(ctx, cfg.Database.ConnectionString(), cfg.Database.MaxConnections)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.String("error", logging.SanitizeError(err)))
	}
	defer db.Close()

	if err := runMigrations(cfg, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.String("error", logging.SanitizeError(err)))
	}

	redisClient := database.NewRedisClient(&cfg.Redis)
	recCache := cache.New(redisClient,
		time.Duration(cfg.Cache.TTLSeconds)*time.Second,
		cfg.Cache.FallbackMaxEntries,
		logger)

	bank, err := questionbank.Load(cfg.QuestionsPath)
	if err != nil {
		logger.Fatal("Failed to load question bank", zap.Error(err))
	}

	llmClient, err := llm.NewClient(&llm.Config{
		Endpoint: cfg.AI.BaseURL,
		Model:    cfg.AI.Model,
		APIKey:   cfg.AI.APIKey,
		Timeout:  time.Duration(cfg.AI.TimeoutSeconds) * time.Second,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to create LLM client", zap.Error(err))
	}

	retryConfig := &retry.Config{
		MaxAttempts: cfg.AI.MaxAttempts,
		BaseDelay:   time.Duration(cfg.AI.RetryBaseDelaySeconds * float64(time.Second)),
		MaxDelay:    30 * time.Second,
	}

	recommendationService := services.NewRecommendationService(
		services.NewValidator(cfg.MaxAnswersCount, cfg.MaxAnswerLength),
		repositories.NewUserRepository(db),
		repositories.NewQuestionnaireRepository(db),
		repositories.NewRecommendationRepository(db),
		recCache,
		llmClient,
		bank,
		questionbank.Pathways(),
		retryConfig,
		cfg.AI.IsConfigured(),
		logger,
	)

	requestLogger := middleware.RequestLogger(logger)
	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute)
	auth := middleware.APIKeyAuth(cfg.APIKey)

	// Outermost first: log everything, then rate-limit, then authenticate.
	protected := func(next http.Handler) http.Handler {
		return requestLogger(rateLimiter.Middleware(auth(next)))
	}

	mux := http.NewServeMux()
	handlers.NewHealthHandler(cfg.Version, db, recCache, llmClient, cfg.AI.IsConfigured(), cfg.Redis.Host != "", logger).
		RegisterRoutes(mux, protected)
	handlers.NewQuestionsHandler(bank, logger).RegisterRoutes(mux, protected)
	handlers.NewPathwaysHandler(questionbank.Pathways(), logger).RegisterRoutes(mux, protected)
	handlers.NewRecommendationsHandler(recommendationService, logger).RegisterRoutes(mux, protected)

	addr := cfg.BindAddr + ":" + cfg.Port
	logger.Info("Starting pathway-engine", zap.String("addr", addr), zap.String("version", cfg.Version))
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}

// runMigrations opens a separate database/sql connection for golang-migrate;
// the pgx pool used for requests doesn't expose the *sql.DB it needs.
func runMigrations(cfg *config.Config, logger *zap.Logger) error {
	db, err := sql.Open("pgx", cfg.Database.ConnectionString())
	if err != nil {
		return err
	}
	defer db.Close()

	return database.RunMigrations(db, cfg.MigrationsPath, logger)
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "local" || env == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
