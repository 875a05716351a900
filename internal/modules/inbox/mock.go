package inbox

import (
	"context"
	"sync"
)

// Mock records mark-read calls and serves canned messages in tests.
type Mock struct {
	mu       sync.Mutex
	Messages []Message
	Read     []string

	SearchErr   error
	MarkReadErr error
}

func (m *Mock) SearchUnread(ctx context.Context, from, subject string) ([]Message, error) {
	if m.SearchErr != nil {
		return nil, m.SearchErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Message, len(m.Messages))
	copy(out, m.Messages)
	return out, nil
}

func (m *Mock) MarkRead(ctx context.Context, id string) error {
	if m.MarkReadErr != nil {
		return m.MarkReadErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Read = append(m.Read, id)
	return nil
}
