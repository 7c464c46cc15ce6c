package notifier

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Notifier delivers a message to an operator channel. Implementations are
// best-effort: the caller logs failures and moves on, a lost notification
// never blocks a state transition.
type Notifier interface {
	Notify(ctx context.Context, chatID, text string) error
}

// MockNotifier is a stand-in notifier for local development and tests. It
// records every delivery so tests can assert on what went out.
type MockNotifier struct {
	Name string

	mu   sync.Mutex
	sent []string
}

// NewMockNotifier creates a new MockNotifier
func NewMockNotifier(name string) *MockNotifier {
	return &MockNotifier{Name: name}
}

// Notify simulates a delivery
func (n *MockNotifier) Notify(ctx context.Context, chatID, text string) error {
	n.mu.Lock()
	n.sent = append(n.sent, text)
	n.mu.Unlock()
	fmt.Printf("[%s Mock Notifier] %s -> chat %s: %s\n", n.Name, time.Now().Format(time.RFC3339), chatID, text)
	return nil
}

// Sent returns a copy of the delivered messages
func (n *MockNotifier) Sent() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.sent))
	copy(out, n.sent)
	return out
}
