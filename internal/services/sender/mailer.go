package sender

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/course-platform/internal/lib/sl"
	"github.com/magabrotheeeer/course-platform/internal/lib/smtp"
)

// ConsoleMailer пишет письма в лог вместо отправки.
type ConsoleMailer struct {
	from string
	log  *slog.Logger
}

// NewConsoleMailer создаёт ConsoleMailer.
func NewConsoleMailer(from string, log *slog.Logger) *ConsoleMailer {
	return &ConsoleMailer{from: from, log: log}
}

// Send логирует письмо.
func (m *ConsoleMailer) Send(_ context.Context, msg smtp.Message) error {
	m.log.Info("email",
		slog.String("from", m.from),
		slog.String("to", strings.Join(msg.To, ", ")),
		slog.String("subject", msg.Subject),
		slog.String("body", msg.Body),
	)
	return nil
}

// SMTPMailer отправляет письма через SMTP-сервер.
type SMTPMailer struct {
	transport smtp.TransportInterface
	log       *slog.Logger
}

// NewSMTPMailer создаёт SMTPMailer.
func NewSMTPMailer(transport smtp.TransportInterface, log *slog.Logger) *SMTPMailer {
	return &SMTPMailer{transport: transport, log: log}
}

// Send открывает соединение, отправляет одно письмо всем получателям и закрывает соединение.
func (m *SMTPMailer) Send(ctx context.Context, msg smtp.Message) error {
	const op = "sender.SMTPMailer.Send"
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	client, err := m.transport.Connect()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		if err := client.Close(); err != nil {
			m.log.Debug("failed to close SMTP client", sl.Err(err))
		}
	}()

	if err := smtp.Send(client, m.transport.From(), msg); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := client.Quit(); err != nil {
		m.log.Warn("failed to quit SMTP client", sl.Err(err))
	}
	return nil
}
