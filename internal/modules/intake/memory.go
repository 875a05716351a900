package intake

import (
	"context"
	"sync"
)

// MemoryEventLog is the in-memory EventLog used in tests.
type MemoryEventLog struct {
	mu     sync.Mutex
	events map[string]*Event // keyed by payment ID

	RecordErr error
}

func NewMemoryEventLog() *MemoryEventLog {
	return &MemoryEventLog{events: make(map[string]*Event)}
}

func (m *MemoryEventLog) Seen(ctx context.Context, paymentID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.events[paymentID]
	return ok, nil
}

func (m *MemoryEventLog) Record(ctx context.Context, ev *Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.RecordErr != nil {
		return m.RecordErr
	}
	if _, ok := m.events[ev.PaymentID]; ok {
		return ErrEventExists
	}
	cp := *ev
	m.events[ev.PaymentID] = &cp
	return nil
}

func (m *MemoryEventLog) MarkProcessed(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ev := range m.events {
		if ev.ID == id {
			now := ev.ReceivedAt
			ev.ProcessedAt = &now
			return nil
		}
	}
	return nil
}

func (m *MemoryEventLog) MarkFailed(ctx context.Context, id string, cause error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ev := range m.events {
		if ev.ID == id {
			msg := cause.Error()
			ev.ProcessErr = &msg
			return nil
		}
	}
	return nil
}

// Events returns a snapshot of everything recorded.
func (m *MemoryEventLog) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Event, 0, len(m.events))
	for _, ev := range m.events {
		out = append(out, *ev)
	}
	return out
}
