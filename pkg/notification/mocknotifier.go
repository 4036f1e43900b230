package notification

import (
	"context"
	"log/slog"
	"sync"

	"github.com/tendant/simple-auth/pkg/domain"
)

type SentEmail struct {
	Recipient domain.Email
	Subject   string
	Content   string
}

// MockEmailClient records every email instead of sending it. Setting Err
// makes SendEmail fail with it.
type MockEmailClient struct {
	mu   sync.Mutex
	sent []SentEmail
	Err  error
}

func NewMockEmailClient() *MockEmailClient {
	return &MockEmailClient{}
}

func (m *MockEmailClient) SendEmail(ctx context.Context, recipient domain.Email, subject, content string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return m.Err
	}
	m.sent = append(m.sent, SentEmail{Recipient: recipient, Subject: subject, Content: content})
	slog.Debug("Mock email recorded", "subject", subject)
	return nil
}

func (m *MockEmailClient) Sent() []SentEmail {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SentEmail, len(m.sent))
	copy(out, m.sent)
	return out
}

// Last returns the most recent email to recipient.
func (m *MockEmailClient) Last(recipient domain.Email) (SentEmail, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.sent) - 1; i >= 0; i-- {
		if m.sent[i].Recipient == recipient {
			return m.sent[i], true
		}
	}
	return SentEmail{}, false
}
