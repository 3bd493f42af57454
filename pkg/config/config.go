package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for pathway-engine.
// Configuration can come from YAML file (config.yaml) or environment variables.
// Environment variables always override YAML values for fields that support both.
// Secrets (passwords, keys) must only come from environment variables.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"0.0.0.0"`
	Port     string `yaml:"port" env:"PORT" env-default:"8000"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version  string `yaml:"-"` // Set at load time, not from config

	// APIKey is the shared secret clients must present in X-API-Key.
	// If unset the API rejects all protected requests.
	APIKey string `yaml:"-" env:"API_KEY"` // Secret - not in YAML

	// Database configuration (PostgreSQL)
	Database DatabaseConfig `yaml:"database"`

	// Redis configuration (shared recommendation cache)
	Redis RedisConfig `yaml:"redis"`

	// Cache behavior
	Cache CacheConfig `yaml:"cache"`

	// Upstream AI endpoint
	AI AIConfig `yaml:"ai"`

	// Rate limiting (fixed window per client)
	RateLimitPerMinute int `yaml:"rate_limit_per_minute" env:"RATE_LIMIT_PER_MINUTE" env-default:"60"`

	// Request validation bounds
	MaxAnswerLength int `yaml:"max_answer_length" env:"MAX_ANSWER_LENGTH" env-default:"1000"`
	MaxAnswersCount int `yaml:"max_answers_count" env:"MAX_ANSWERS_COUNT" env-default:"20"`

	// QuestionsPath points at the question bank / pathway registry file.
	QuestionsPath string `yaml:"questions_path" env:"QUESTIONS_PATH" env-default:"questions.yaml"`

	// MigrationsPath points at the SQL migrations directory.
	MigrationsPath string `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"migrations"`
}

// DatabaseConfig holds PostgreSQL database configuration.
type DatabaseConfig struct {
	Host           string `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port           int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User           string `yaml:"user" env:"PGUSER" env-default:"logosreach"`
	Password       string `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database       string `yaml:"database" env:"PGDATABASE" env-default:"pathway_engine"`
	MaxConnections int32  `yaml:"max_connections" env:"PGMAX_CONNECTIONS" env-default:"25"`
	SSLMode        string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`
}

// ConnectionString returns a PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// RedisConfig holds Redis connection configuration.
// An empty host disables the shared store; the in-process fallback then
// serves all cache traffic.
type RedisConfig struct {
	Host     string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port     int    `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	Password string `yaml:"-" env:"REDIS_PASSWORD"` // Secret - not in YAML
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

// CacheConfig holds recommendation cache behavior.
type CacheConfig struct {
	// TTLSeconds is the lifetime of cached recommendations.
	TTLSeconds int `yaml:"ttl_seconds" env:"CACHE_TTL" env-default:"3600"`
	// FallbackMaxEntries bounds the in-process fallback store.
	FallbackMaxEntries int `yaml:"fallback_max_entries" env:"CACHE_FALLBACK_MAX_ENTRIES" env-default:"1000"`
}

// AIConfig holds the upstream completion endpoint configuration.
type AIConfig struct {
	// BaseURL is the OpenAI-compatible API root, e.g. "https://openrouter.ai/api/v1".
	BaseURL string `yaml:"base_url" env:"OPENROUTER_BASE_URL" env-default:"https://openrouter.ai/api/v1"`
	Model   string `yaml:"model" env:"AI_MODEL" env-default:"mistralai/mistral-7b-instruct"`
	APIKey  string `yaml:"-" env:"OPENROUTER_API_KEY"` // Secret - not in YAML

	// MaxAttempts bounds total upstream attempts per request (not wall-clock).
	MaxAttempts int `yaml:"max_attempts" env:"AI_MAX_RETRIES" env-default:"3"`
	// RetryBaseDelaySeconds is the backoff base; delay is base * 2^attempt.
	RetryBaseDelaySeconds float64 `yaml:"retry_base_delay_seconds" env:"AI_RETRY_DELAY" env-default:"1.0"`
	// TimeoutSeconds is the hard per-attempt HTTP timeout.
	TimeoutSeconds int `yaml:"timeout_seconds" env:"AI_TIMEOUT_SECONDS" env-default:"30"`
}

// IsConfigured returns true if the upstream credential is present.
func (c *AIConfig) IsConfigured() bool {
	return c.APIKey != ""
}

// Load reads configuration from config.yaml with environment variable overrides.
// The version parameter is injected at build time and set on the returned Config.
func Load(version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
		return nil, fmt.Errorf("failed to read config.yaml: %w", err)
	}

	return cfg, nil
}
