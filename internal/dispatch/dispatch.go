// Package dispatch delivers reminder notifications to users over an
// external channel.
//
// Implementations:
//   - mock.Gateway: logs and records calls (development and tests)
//   - SMTPGateway: plain email via any SMTP server
//   - AMQPGateway: publishes a reminder event for a downstream notifier
//   - TelegramGateway: direct message to the user's linked chat
package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/DukeRupert/duesoon/internal/domain"
)

// =============================================================================
// Interface Definition
// =============================================================================

// Gateway sends one reminder. Send never returns an error; every failure,
// including a missing recipient address, is reported through Outcome.
//
// Send must honor ctx cancellation. Callers still bound the wait themselves,
// so a gateway that blocks past its deadline only leaks a goroutine.
type Gateway interface {
	Send(ctx context.Context, p Payload) Outcome
}

// =============================================================================
// Data Types
// =============================================================================

// Payload is what a gateway delivers.
type Payload struct {
	Recipient domain.Recipient  `json:"recipient"`
	Title     string            `json:"title"`
	Body      string            `json:"body"`
	WhenDueAt time.Time         `json:"whenDueAt"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// Outcome is the result of a send attempt.
type Outcome struct {
	OK           bool
	StatusCode   int // Transport status when the channel has one (SMTP reply code, Telegram error code)
	ErrorMessage string
}

// NewPayload builds the payload for a notification addressed to recipient.
func NewPayload(recipient domain.Recipient, n domain.Notification) Payload {
	return Payload{
		Recipient: recipient,
		Title:     n.Title,
		Body:      n.Body,
		WhenDueAt: n.DueAt,
		Metadata:  n.Metadata,
	}
}

// Delivered returns a successful Outcome.
func Delivered(statusCode int) Outcome {
	return Outcome{OK: true, StatusCode: statusCode}
}

// Failed returns a failed Outcome with a formatted message.
func Failed(statusCode int, format string, args ...interface{}) Outcome {
	return Outcome{
		StatusCode:   statusCode,
		ErrorMessage: fmt.Sprintf(format, args...),
	}
}
