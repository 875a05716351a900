package inbox

import (
	"context"
	"time"
)

// Message is one inbound mail with its raw (undecoded-by-us) content.
type Message struct {
	ID   string
	Date time.Time
	Raw  string
}

// Client is the minimal inbox surface the intake pipeline needs: find
// unread payment notifications and mark them read once picked up.
type Client interface {
	SearchUnread(ctx context.Context, from, subject string) ([]Message, error)
	MarkRead(ctx context.Context, id string) error
}
