package internal

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Dispatch providers.
const (
	DispatchMock     = "mock"
	DispatchSMTP     = "smtp"
	DispatchAMQP     = "amqp"
	DispatchTelegram = "telegram"
)

// Usage counter backends.
const (
	UsagePostgres = "postgres"
	UsageRedis    = "redis"
)

type Config struct {
	Env         string
	Port        int
	LogLevel    string
	DatabaseUrl string

	// Sweep scheduling
	SweepSchedule        string // cron spec; empty disables the scheduled sweep
	SweepJobTimeout      time.Duration
	DispatchTimeout      time.Duration
	DispatchLogRetention time.Duration
	PruneSchedule        string

	// Dispatch provider: "mock", "smtp", "amqp" or "telegram"
	DispatchProvider string

	// SMTP Configuration
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
	SMTPFromName string

	// AMQP Configuration
	AMQPURL      string
	AMQPExchange string

	// Telegram Configuration
	TelegramBotToken string

	// Usage counter: "postgres" or "redis"
	UsageBackend string
	RedisURL     string

	// Monthly reminder limits per plan tier
	PlanLimitBasic int
	PlanLimitPro   int

	// API authentication
	JWTSecret      string
	JWTIssuer      string
	InternalAPIKey string

	// Sweep report archive: "none", "local" or "r2"
	ArchiveProvider  string
	LocalArchivePath string

	// R2 Storage
	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string

	// Per-IP API rate limiting
	RateLimitRPS   float64
	RateLimitBurst int

	// Metrics endpoint authentication
	// If both are empty, the /metrics endpoint will be unprotected (not recommended)
	MetricsUsername string
	MetricsPassword string
}

func NewConfig() (*Config, error) {
	// Load .env file if it exists (ignored in production)
	_ = godotenv.Load()

	cfg := &Config{
		Env:      getEnv("ENV", "development"),
		Port:     getEnvInt("PORT", 8080),
		LogLevel: getEnv("LOG_LEVEL", "debug"),

		SweepSchedule:        os.Getenv("SWEEP_SCHEDULE"),
		SweepJobTimeout:      getEnvDuration("SWEEP_JOB_TIMEOUT", 2*time.Minute),
		DispatchTimeout:      getEnvDuration("DISPATCH_TIMEOUT", 10*time.Second),
		DispatchLogRetention: getEnvDuration("DISPATCH_LOG_RETENTION", 90*24*time.Hour),
		PruneSchedule:        getEnv("PRUNE_SCHEDULE", "@daily"),

		DispatchProvider: getEnv("DISPATCH_PROVIDER", DispatchMock),

		// SMTP defaults for Mailhog (development)
		SMTPHost:     getEnv("SMTP_HOST", "localhost"),
		SMTPPort:     getEnvInt("SMTP_PORT", 1025),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		SMTPFrom:     getEnv("SMTP_FROM", "reminders@duesoon.app"),
		SMTPFromName: getEnv("SMTP_FROM_NAME", "Duesoon"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "duesoon.reminders"),

		TelegramBotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),

		UsageBackend: getEnv("USAGE_BACKEND", UsagePostgres),
		RedisURL:     getEnv("REDIS_URL", ""),

		PlanLimitBasic: getEnvInt("PLAN_LIMIT_BASIC", 15),
		PlanLimitPro:   getEnvInt("PLAN_LIMIT_PRO", 100),

		JWTSecret:      os.Getenv("JWT_SECRET"),
		JWTIssuer:      getEnv("JWT_ISSUER", "duesoon"),
		InternalAPIKey: getEnv("INTERNAL_API_KEY", ""),

		ArchiveProvider:  getEnv("ARCHIVE_PROVIDER", "none"),
		LocalArchivePath: getEnv("LOCAL_ARCHIVE_PATH", "./archive"),

		R2AccountID:       getEnv("R2_ACCOUNT_ID", ""),
		R2AccessKeyID:     getEnv("R2_ACCESS_KEY_ID", ""),
		R2SecretAccessKey: getEnv("R2_SECRET_ACCESS_KEY", ""),
		R2BucketName:      getEnv("R2_BUCKET_NAME", ""),

		RateLimitRPS:   getEnvFloat("RATE_LIMIT_RPS", 5),
		RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", 20),

		MetricsUsername: getEnv("METRICS_USERNAME", ""),
		MetricsPassword: getEnv("METRICS_PASSWORD", ""),
	}

	// SWEEP_SCHEDULE set to an empty string disables the cron sweep; unset
	// means the default interval.
	if _, ok := os.LookupEnv("SWEEP_SCHEDULE"); !ok {
		cfg.SweepSchedule = "@every 5m"
	}

	// Required
	cfg.DatabaseUrl = os.Getenv("DATABASE_URL")
	if cfg.DatabaseUrl == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func (c *Config) validate() error {
	switch c.DispatchProvider {
	case DispatchMock:
	case DispatchSMTP:
		if c.SMTPHost == "" {
			return fmt.Errorf("SMTP_HOST is required when DISPATCH_PROVIDER is 'smtp'")
		}
	case DispatchAMQP:
		if c.AMQPURL == "" {
			return fmt.Errorf("AMQP_URL is required when DISPATCH_PROVIDER is 'amqp'")
		}
	case DispatchTelegram:
		if c.TelegramBotToken == "" {
			return fmt.Errorf("TELEGRAM_BOT_TOKEN is required when DISPATCH_PROVIDER is 'telegram'")
		}
	default:
		return fmt.Errorf("DISPATCH_PROVIDER must be one of 'mock', 'smtp', 'amqp' or 'telegram', got: %s", c.DispatchProvider)
	}

	switch c.UsageBackend {
	case UsagePostgres:
	case UsageRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required when USAGE_BACKEND is 'redis'")
		}
	default:
		return fmt.Errorf("USAGE_BACKEND must be either 'postgres' or 'redis', got: %s", c.UsageBackend)
	}

	switch c.ArchiveProvider {
	case "none", "local":
	case "r2":
		if c.R2AccountID == "" {
			return fmt.Errorf("R2_ACCOUNT_ID is required when ARCHIVE_PROVIDER is 'r2'")
		}
		if c.R2AccessKeyID == "" {
			return fmt.Errorf("R2_ACCESS_KEY_ID is required when ARCHIVE_PROVIDER is 'r2'")
		}
		if c.R2SecretAccessKey == "" {
			return fmt.Errorf("R2_SECRET_ACCESS_KEY is required when ARCHIVE_PROVIDER is 'r2'")
		}
		if c.R2BucketName == "" {
			return fmt.Errorf("R2_BUCKET_NAME is required when ARCHIVE_PROVIDER is 'r2'")
		}
	default:
		return fmt.Errorf("ARCHIVE_PROVIDER must be one of 'none', 'local' or 'r2', got: %s", c.ArchiveProvider)
	}

	if c.PlanLimitBasic < 0 || c.PlanLimitPro < 0 {
		return fmt.Errorf("plan limits must not be negative")
	}
	if c.DispatchTimeout <= 0 {
		return fmt.Errorf("DISPATCH_TIMEOUT must be positive, got: %s", c.DispatchTimeout)
	}

	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
