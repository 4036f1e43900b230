package config

import (
	"github.com/tendant/simple-auth/pkg/notification"
)

const (
	EmailClientSMTP = "smtp"
	EmailClientMock = "mock"
)

// EmailConfig holds SMTP email configuration
type EmailConfig struct {
	Client   string `env:"EMAIL_CLIENT" env-default:"smtp"`
	Host     string `env:"EMAIL_HOST" env-default:"localhost"`
	Port     uint16 `env:"EMAIL_PORT" env-default:"1025"`
	Username string `env:"EMAIL_USERNAME" env-default:""`
	Password string `env:"EMAIL_PASSWORD" env-default:""`
	From     string `env:"EMAIL_FROM" env-default:"noreply@example.com"`
	TLS      bool   `env:"EMAIL_TLS" env-default:"false"`
	Timeout  string `env:"EMAIL_TIMEOUT" env-default:"30s"`
}

// ToSMTPConfig converts the config to a notification.SMTPConfig
func (e EmailConfig) ToSMTPConfig() (notification.SMTPConfig, error) {
	timeout, err := parseDurationISO8601(e.Timeout)
	if err != nil {
		return notification.SMTPConfig{}, err
	}
	return notification.SMTPConfig{
		Host:     e.Host,
		Port:     int(e.Port),
		Username: e.Username,
		Password: e.Password,
		From:     e.From,
		TLS:      e.TLS,
		Timeout:  timeout,
	}, nil
}
