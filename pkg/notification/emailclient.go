package notification

import (
	"context"

	"github.com/tendant/simple-auth/pkg/domain"
)

// EmailClient sends a single plain-text email. Any error means the message
// was not delivered.
type EmailClient interface {
	SendEmail(ctx context.Context, recipient domain.Email, subject, content string) error
}
