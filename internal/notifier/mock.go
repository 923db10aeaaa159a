package notifier

import (
	"context"
	"sync"
)

// Notification records one delivery made through the mock.
type Notification struct {
	Recipient string
	Subject   string
	Body      string
}

// MockNotifier records notifications instead of delivering them.
type MockNotifier struct {
	mu            sync.RWMutex
	notifications []Notification
}

func NewMockNotifier() *MockNotifier {
	return &MockNotifier{
		notifications: make([]Notification, 0),
	}
}

func (m *MockNotifier) Notify(_ context.Context, recipient, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.notifications = append(m.notifications, Notification{
		Recipient: recipient,
		Subject:   subject,
		Body:      body,
	})

	return nil
}

// Notifications returns a copy of everything recorded so far.
func (m *MockNotifier) Notifications() []Notification {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Notification, len(m.notifications))
	copy(out, m.notifications)
	return out
}
