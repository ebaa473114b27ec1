package internal

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

// AgentConfig configures the reminder agent (cmd/agent).
type AgentConfig struct {
	Env      string
	LogLevel string

	APIURL       string
	PollInterval time.Duration

	// Token is used as-is when set. Otherwise a token is minted for UserID
	// with JWTSecret, which must then match the server's secret.
	Token     string
	JWTSecret string
	JWTIssuer string
	UserID    uuid.UUID
}

func NewAgentConfig() (*AgentConfig, error) {
	_ = godotenv.Load()

	cfg := &AgentConfig{
		Env:          getEnv("ENV", "development"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		APIURL:       getEnv("AGENT_API_URL", "http://localhost:8080"),
		PollInterval: getEnvDuration("AGENT_POLL_INTERVAL", time.Minute),
		Token:        getEnv("AGENT_TOKEN", ""),
		JWTSecret:    getEnv("JWT_SECRET", ""),
		JWTIssuer:    getEnv("JWT_ISSUER", "duesoon"),
	}

	if raw := getEnv("AGENT_USER_ID", ""); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("AGENT_USER_ID must be a UUID: %w", err)
		}
		cfg.UserID = id
	}

	if cfg.Token == "" && (cfg.JWTSecret == "" || cfg.UserID == uuid.Nil) {
		return nil, fmt.Errorf("AGENT_TOKEN, or JWT_SECRET with AGENT_USER_ID, is required")
	}
	if cfg.PollInterval < time.Second {
		return nil, fmt.Errorf("AGENT_POLL_INTERVAL must be at least 1s, got: %s", cfg.PollInterval)
	}

	return cfg, nil
}
