package ledger

import (
	"context"
	"time"
)

// Store is the single durable home of order state. Everything else in the
// pipeline holds order data only for the duration of one operation.
type Store interface {
	Create(ctx context.Context, o *Order) error
	Get(ctx context.Context, id string) (Order, error)
	Update(ctx context.Context, id string, fields map[string]any) error

	// AwaitingPickup returns rows whose label exists but no carrier pickup
	// has been scheduled yet, in insertion order.
	AwaitingPickup(ctx context.Context) ([]Order, error)

	// InTransit returns rows with a label transaction but no receive date.
	InTransit(ctx context.Context) ([]Order, error)

	// ScrubCandidates returns unscrubbed rows received on or before cutoff.
	ScrubCandidates(ctx context.Context, cutoff time.Time) ([]Order, error)

	// Scrub blanks identifying columns, keeping only the retention
	// preserve-list (product, prices, shipping method, zip, dates).
	Scrub(ctx context.Context, id string) error
}
