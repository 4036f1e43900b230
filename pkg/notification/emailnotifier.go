package notification

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"time"

	"github.com/tendant/simple-auth/pkg/domain"
	"github.com/wneessen/go-mail"
)

const defaultSMTPTimeout = 10 * time.Second

type SMTPConfig struct {
	Host     string
	Port     int
	TLS      bool
	Username string
	Password string
	From     string
	Timeout  time.Duration
}

// SMTPEmailClient implements EmailClient over SMTP.
type SMTPEmailClient struct {
	config SMTPConfig
	client *mail.Client
}

func NewSMTPEmailClient(config SMTPConfig) (*SMTPEmailClient, error) {
	if config.From == "" {
		return nil, fmt.Errorf("smtp sender address is required")
	}
	if config.Timeout <= 0 {
		config.Timeout = defaultSMTPTimeout
	}

	opts := []mail.Option{
		mail.WithPort(config.Port),
		mail.WithTimeout(config.Timeout),
	}

	// Only add authentication if username and password are provided
	if config.Username != "" && config.Password != "" {
		slog.Info("Adding SMTP authentication", "user", config.Username)
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthLogin),
			mail.WithUsername(config.Username),
			mail.WithPassword(config.Password),
		)
	}

	if config.TLS {
		opts = append(opts,
			mail.WithTLSConfig(&tls.Config{ServerName: config.Host, MinVersion: tls.VersionTLS12}),
			mail.WithTLSPolicy(mail.TLSMandatory),
		)
	} else {
		slog.Info("Using NoTLS policy for SMTP")
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
	}

	slog.Info("Creating mail client", "host", config.Host, "port", config.Port)
	client, err := mail.NewClient(config.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create mail client: %w", err)
	}

	return &SMTPEmailClient{config: config, client: client}, nil
}

func (c *SMTPEmailClient) SendEmail(ctx context.Context, recipient domain.Email, subject, content string) error {
	msg := mail.NewMsg()
	if err := msg.From(c.config.From); err != nil {
		return fmt.Errorf("failed to set from address: %w", err)
	}
	if err := msg.To(recipient.String()); err != nil {
		return fmt.Errorf("failed to set to address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, content)

	if err := c.client.DialAndSendWithContext(ctx, msg); err != nil {
		slog.Error("Failed to send email", "host", c.config.Host, "port", c.config.Port, "error", err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	slog.Info("Email sent", "host", c.config.Host, "port", c.config.Port)
	return nil
}
