package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"
)

const (
	DefaultExchange   = "duesoon.reminders"
	ReminderDueRoute  = "reminder.due"
	ReminderEventType = "reminder.due"
)

// Publisher publishes a JSON-encoded body to an exchange.
type Publisher interface {
	Publish(ctx context.Context, exchange, routingKey string, body interface{}) error
}

// ReminderEvent is the message body published for each reminder.
type ReminderEvent struct {
	EventID     uuid.UUID `json:"eventId"`
	Type        string    `json:"type"`
	PublishedAt time.Time `json:"publishedAt"`
	Payload
}

// AMQPGateway hands reminders to a downstream notification service through
// a RabbitMQ topic exchange. A publish confirmed by the client library
// counts as delivered.
type AMQPGateway struct {
	publisher Publisher
	exchange  string
	logger    *slog.Logger
}

func NewAMQPGateway(publisher Publisher, exchange string, logger *slog.Logger) *AMQPGateway {
	if strings.TrimSpace(exchange) == "" {
		exchange = DefaultExchange
	}
	return &AMQPGateway{publisher: publisher, exchange: exchange, logger: logger}
}

func (g *AMQPGateway) Send(ctx context.Context, p Payload) Outcome {
	event := ReminderEvent{
		EventID:     uuid.New(),
		Type:        ReminderEventType,
		PublishedAt: time.Now().UTC(),
		Payload:     p,
	}

	if err := g.publisher.Publish(ctx, g.exchange, ReminderDueRoute, event); err != nil {
		g.logger.Error("failed to publish reminder event",
			"user_id", p.Recipient.UserID,
			"exchange", g.exchange,
			"error", err,
		)
		return Failed(0, "amqp publish: %v", err)
	}

	g.logger.Debug("reminder event published",
		"event_id", event.EventID,
		"user_id", p.Recipient.UserID,
	)
	return Delivered(0)
}

// =============================================================================
// RabbitMQ producer
// =============================================================================

// EventProducer publishes JSON events to RabbitMQ topic exchanges over a
// single connection and channel.
type EventProducer struct {
	conn    *amqp091.Connection
	channel *amqp091.Channel

	mu       sync.Mutex
	declared map[string]bool
}

func sanitizeAMQPURL(raw string) (string, error) {
	clean := strings.Trim(strings.TrimSpace(raw), "\"'")
	if !strings.HasSuffix(clean, "/") {
		clean += "/"
	}
	u, err := url.Parse(clean)
	if err != nil {
		return "", err
	}
	if u.Scheme != "amqp" && u.Scheme != "amqps" {
		return "", errors.New("AMQP scheme must be either 'amqp://' or 'amqps://'")
	}
	return clean, nil
}

// NewEventProducer dials RabbitMQ and opens a channel.
func NewEventProducer(amqpURL string) (*EventProducer, error) {
	cleanURL, err := sanitizeAMQPURL(amqpURL)
	if err != nil {
		return nil, err
	}

	conn, err := amqp091.Dial(cleanURL)
	if err != nil {
		return nil, err
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	return &EventProducer{
		conn:     conn,
		channel:  channel,
		declared: make(map[string]bool),
	}, nil
}

// Publish declares the topic exchange on first use and publishes body as a
// persistent JSON message.
func (p *EventProducer) Publish(ctx context.Context, exchange, routingKey string, body interface{}) error {
	if err := p.declare(exchange); err != nil {
		return err
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return err
	}

	return p.channel.PublishWithContext(ctx,
		exchange,   // exchange
		routingKey, // routing key
		false,      // mandatory
		false,      // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         jsonBody,
		})
}

func (p *EventProducer) declare(exchange string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.declared[exchange] {
		err := p.channel.ExchangeDeclare(
			exchange, // name
			"topic",  // type
			true,     // durable
			false,    // auto-deleted
			false,    // internal
			false,    // no-wait
			nil,      // arguments
		)
		if err != nil {
			return err
		}
		p.declared[exchange] = true
	}
	return nil
}

// Close closes the channel and connection.
func (p *EventProducer) Close() {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
}

var (
	_ Gateway   = (*AMQPGateway)(nil)
	_ Publisher = (*EventProducer)(nil)
)
