package mock

import (
	"context"
	"log/slog"
	"sync"

	"github.com/DukeRupert/duesoon/internal/dispatch"
)

// Gateway is a mock dispatch gateway for testing and development. It logs
// every payload instead of delivering it.
type Gateway struct {
	logger *slog.Logger

	mu sync.Mutex

	// Configurable behavior for testing. SendFunc wins over Outcome.
	Outcome  dispatch.Outcome
	SendFunc func(ctx context.Context, p dispatch.Payload) dispatch.Outcome

	// Call tracking for testing
	Calls []dispatch.Payload
}

// New creates a mock gateway that reports every send as delivered.
func New(logger *slog.Logger) *Gateway {
	return &Gateway{
		logger:  logger,
		Outcome: dispatch.Delivered(0),
	}
}

// Send records the payload and returns the configured outcome.
func (g *Gateway) Send(ctx context.Context, p dispatch.Payload) dispatch.Outcome {
	g.mu.Lock()
	g.Calls = append(g.Calls, p)
	fn := g.SendFunc
	outcome := g.Outcome
	g.mu.Unlock()

	if fn != nil {
		outcome = fn(ctx, p)
	}

	if g.logger != nil {
		g.logger.Info("reminder dispatched (mock)",
			"user_id", p.Recipient.UserID,
			"title", p.Title,
			"due_at", p.WhenDueAt,
			"ok", outcome.OK,
		)
	}
	return outcome
}

// CallCount returns how many payloads have been sent.
func (g *Gateway) CallCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.Calls)
}

// Sent returns a copy of the recorded payloads.
func (g *Gateway) Sent() []dispatch.Payload {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]dispatch.Payload, len(g.Calls))
	copy(out, g.Calls)
	return out
}

var _ dispatch.Gateway = (*Gateway)(nil)
