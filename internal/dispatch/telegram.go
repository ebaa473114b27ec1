package dispatch

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"strings"

	tele "gopkg.in/telebot.v4"
)

// telegramSender is the part of *tele.Bot the gateway uses.
type telegramSender interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

// TelegramGateway sends reminders as direct messages to the recipient's
// linked Telegram chat.
type TelegramGateway struct {
	bot    telegramSender
	logger *slog.Logger
}

// NewTelegramBot creates a send-only bot. No poller is started.
func NewTelegramBot(token string) (*tele.Bot, error) {
	if strings.TrimSpace(token) == "" {
		return nil, errors.New("telegram token is empty")
	}
	return tele.NewBot(tele.Settings{Token: token})
}

func NewTelegramGateway(bot telegramSender, logger *slog.Logger) *TelegramGateway {
	return &TelegramGateway{bot: bot, logger: logger}
}

func (g *TelegramGateway) Send(ctx context.Context, p Payload) Outcome {
	if p.Recipient.TelegramChatID == 0 {
		return Failed(0, "recipient has no linked telegram chat")
	}
	if err := ctx.Err(); err != nil {
		return Failed(0, "send cancelled: %v", err)
	}

	chat := &tele.Chat{ID: p.Recipient.TelegramChatID}
	opts := &tele.SendOptions{
		ParseMode:             tele.ModeHTML,
		DisableWebPagePreview: true,
	}

	if _, err := g.bot.Send(chat, formatTelegramMessage(p), opts); err != nil {
		g.logger.Error("failed to send telegram reminder",
			"user_id", p.Recipient.UserID,
			"error", err,
		)
		var apiErr *tele.Error
		if errors.As(err, &apiErr) {
			return Failed(apiErr.Code, "telegram: %s", apiErr.Description)
		}
		return Failed(0, "telegram: %v", err)
	}

	return Delivered(200)
}

func formatTelegramMessage(p Payload) string {
	return fmt.Sprintf("<b>%s</b>\n%s", html.EscapeString(p.Title), html.EscapeString(p.Body))
}

var _ Gateway = (*TelegramGateway)(nil)
