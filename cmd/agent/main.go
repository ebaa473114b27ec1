package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DukeRupert/duesoon/internal"
	"github.com/DukeRupert/duesoon/internal/auth"
	"github.com/DukeRupert/duesoon/internal/client"
	"github.com/DukeRupert/duesoon/internal/reminder"
)

func run() error {
	cfg, err := internal.NewAgentConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel, "agent")

	token := cfg.Token
	if token == "" {
		token, err = auth.IssueToken(cfg.JWTSecret, cfg.JWTIssuer, cfg.UserID, auth.DefaultTokenTTL, time.Now())
		if err != nil {
			return fmt.Errorf("token issue failed: %w", err)
		}
		logger.Info("Issued agent token", "user_id", cfg.UserID)
	}

	api := client.NewAPIClient(cfg.APIURL, token, nil)
	scheduler := reminder.NewScheduler(reminder.SystemClock(), client.LogNotifier(logger), logger)
	agent := client.NewAgent(api, scheduler, cfg.PollInterval, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Reminder agent starting",
		"api_url", cfg.APIURL,
		"poll_interval", cfg.PollInterval,
	)

	if err := agent.Run(ctx); err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			return fmt.Errorf("agent stopped: %w", err)
		}
		return err
	}

	logger.Info("Reminder agent stopped")
	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
