package smtp

import (
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/smtp"
	"time"

	"github.com/magabrotheeeer/course-platform/internal/lib/sl"
)

// ErrStartTLSUnsupported возвращается, когда сервер не объявляет STARTTLS, а он обязателен.
var ErrStartTLSUnsupported = errors.New("smtp server does not support STARTTLS")

// Settings параметры подключения к SMTP серверу.
type Settings struct {
	Host        string
	Port        string
	User        string
	Password    string
	From        string
	RequireTLS  bool
	DialTimeout time.Duration
}

// Transport реализует SMTP транспорт для отправки писем.
type Transport struct {
	settings Settings
	log      *slog.Logger
}

type smtpClientWrapper struct {
	client *smtp.Client
}

func (w *smtpClientWrapper) Mail(from string) error { return w.client.Mail(from) }

func (w *smtpClientWrapper) Rcpt(to string) error { return w.client.Rcpt(to) }

func (w *smtpClientWrapper) Data() (io.WriteCloser, error) { return w.client.Data() }

func (w *smtpClientWrapper) Quit() error { return w.client.Quit() }

func (w *smtpClientWrapper) Close() error { return w.client.Close() }

// NewTransport создает новый экземпляр Transport.
func NewTransport(settings Settings, log *slog.Logger) *Transport {
	if settings.DialTimeout <= 0 {
		settings.DialTimeout = 10 * time.Second
	}
	return &Transport{settings: settings, log: log}
}

// From возвращает адрес отправителя.
func (t *Transport) From() string {
	if t.settings.From != "" {
		return t.settings.From
	}
	return t.settings.User
}

// Connect устанавливает соединение с SMTP сервером. STARTTLS включается,
// если сервер его поддерживает; при RequireTLS его отсутствие — ошибка.
// Аутентификация выполняется только при заданном пользователе.
func (t *Transport) Connect() (Client, error) {
	const op = "smtp.Transport.Connect"
	addr := net.JoinHostPort(t.settings.Host, t.settings.Port)

	conn, err := net.DialTimeout("tcp", addr, t.settings.DialTimeout)
	if err != nil {
		t.log.Error("failed to dial SMTP server", sl.Err(err))
		return nil, fmt.Errorf("%s: failed to dial SMTP server: %w", op, err)
	}

	client, err := smtp.NewClient(conn, t.settings.Host)
	if err != nil {
		t.log.Error("failed to create SMTP client", sl.Err(err))
		if closeErr := conn.Close(); closeErr != nil {
			t.log.Error("failed to close connection", sl.Err(closeErr))
		}
		return nil, fmt.Errorf("%s: failed to create SMTP client: %w", op, err)
	}

	closeClient := func() {
		if closeErr := client.Close(); closeErr != nil {
			t.log.Error("failed to close client", sl.Err(closeErr))
		}
	}

	if ok, _ := client.Extension("STARTTLS"); ok {
		tlsConfig := &tls.Config{
			ServerName: t.settings.Host,
			MinVersion: tls.VersionTLS12,
		}
		if err = client.StartTLS(tlsConfig); err != nil {
			t.log.Error("failed to start TLS", sl.Err(err))
			closeClient()
			return nil, fmt.Errorf("%s: failed to start TLS: %w", op, err)
		}
	} else if t.settings.RequireTLS {
		t.log.Error("SMTP server does not support STARTTLS")
		closeClient()
		return nil, fmt.Errorf("%s: %w", op, ErrStartTLSUnsupported)
	}

	if t.settings.User != "" {
		auth := smtp.PlainAuth("", t.settings.User, t.settings.Password, t.settings.Host)
		if err = client.Auth(auth); err != nil {
			t.log.Error("smtp auth failed", sl.Err(err))
			closeClient()
			return nil, fmt.Errorf("%s: smtp auth failed: %w", op, err)
		}
	}

	return &smtpClientWrapper{client: client}, nil
}
