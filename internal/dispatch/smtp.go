package dispatch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/smtp"
	"net/textproto"
	"strings"
)

const (
	DefaultFromEmail = "reminders@duesoon.app"
	DefaultFromName  = "Duesoon"

	smtpBoundary = "===============DUESOON_BOUNDARY==============="
)

// SMTPConfig holds SMTP server configuration.
type SMTPConfig struct {
	Host     string // SMTP server hostname (e.g., "localhost" for Mailhog)
	Port     int    // SMTP server port (e.g., 1025 for Mailhog)
	Username string // Empty for Mailhog
	Password string
	From     string
	FromName string
}

// sendMailFunc matches smtp.SendMail.
type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPGateway emails reminders to the recipient's address.
//
// Works with Mailhog in development and any authenticated SMTP relay in
// production.
type SMTPGateway struct {
	config   SMTPConfig
	logger   *slog.Logger
	sendMail sendMailFunc
}

// NewSMTPGateway creates an SMTP gateway, filling in default sender fields.
func NewSMTPGateway(config SMTPConfig, logger *slog.Logger) *SMTPGateway {
	if config.From == "" {
		config.From = DefaultFromEmail
	}
	if config.FromName == "" {
		config.FromName = DefaultFromName
	}
	return &SMTPGateway{
		config:   config,
		logger:   logger,
		sendMail: smtp.SendMail,
	}
}

// Send delivers the reminder as a multipart text and HTML email.
func (g *SMTPGateway) Send(ctx context.Context, p Payload) Outcome {
	to := strings.TrimSpace(p.Recipient.Email)
	if to == "" {
		return Failed(0, "recipient has no email address")
	}
	if err := ctx.Err(); err != nil {
		return Failed(0, "send cancelled: %v", err)
	}

	addr := fmt.Sprintf("%s:%d", g.config.Host, g.config.Port)

	var auth smtp.Auth
	if g.config.Username != "" && g.config.Password != "" {
		auth = smtp.PlainAuth("", g.config.Username, g.config.Password, g.config.Host)
	}

	if err := g.sendMail(addr, auth, g.config.From, []string{to}, g.buildMessage(to, p)); err != nil {
		g.logger.Error("failed to send reminder email",
			"user_id", p.Recipient.UserID,
			"subject", p.Title,
			"error", err,
		)
		var protoErr *textproto.Error
		if errors.As(err, &protoErr) {
			return Failed(protoErr.Code, "smtp: %s", protoErr.Msg)
		}
		return Failed(0, "smtp: %v", err)
	}

	g.logger.Info("reminder email sent",
		"user_id", p.Recipient.UserID,
		"subject", p.Title,
	)
	return Delivered(250)
}

// buildMessage constructs the raw email message with headers.
func (g *SMTPGateway) buildMessage(to string, p Payload) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("From: %s <%s>\r\n", g.config.FromName, g.config.From))
	if p.Recipient.Name != "" && p.Recipient.Name != to {
		buf.WriteString(fmt.Sprintf("To: %s <%s>\r\n", p.Recipient.Name, to))
	} else {
		buf.WriteString(fmt.Sprintf("To: %s\r\n", to))
	}
	buf.WriteString(fmt.Sprintf("Subject: %s\r\n", p.Title))
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString(fmt.Sprintf("Content-Type: multipart/alternative; boundary=\"%s\"\r\n", smtpBoundary))
	buf.WriteString("\r\n")

	// Plain text part
	buf.WriteString(fmt.Sprintf("--%s\r\n", smtpBoundary))
	buf.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	buf.WriteString("\r\n")
	buf.WriteString(p.Body)
	buf.WriteString("\r\n")

	// HTML part
	buf.WriteString(fmt.Sprintf("--%s\r\n", smtpBoundary))
	buf.WriteString("Content-Type: text/html; charset=utf-8\r\n")
	buf.WriteString("\r\n")
	buf.WriteString(fmt.Sprintf("<h2>%s</h2><p>%s</p>",
		template.HTMLEscapeString(p.Title),
		template.HTMLEscapeString(p.Body),
	))
	buf.WriteString("\r\n")

	buf.WriteString(fmt.Sprintf("--%s--\r\n", smtpBoundary))

	return buf.Bytes()
}

var _ Gateway = (*SMTPGateway)(nil)
