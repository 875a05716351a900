package shipping

import (
	"context"
	"log/slog"
	"time"

	"github.com/LArkema/dctransistor-project/internal/modules/ledger"
)

// Tracker is the daily delivery sweep: any row with a label transaction and
// no receive date gets its tracking status checked; DELIVERED stamps today
// into the receive-date column. Re-running it is harmless since stamped
// rows drop out of the query.
type Tracker struct {
	store  ledger.Store
	broker Broker

	logger *slog.Logger
	now    func() time.Time
}

func NewTracker(store ledger.Store, broker Broker) *Tracker {
	return &Tracker{
		store:  store,
		broker: broker,
		logger: slog.Default(),
		now:    time.Now,
	}
}

func (t *Tracker) SetLogger(logger *slog.Logger) { t.logger = logger }

// SetClock overrides the time source for tests.
func (t *Tracker) SetClock(now func() time.Time) { t.now = now }

func (t *Tracker) Run(ctx context.Context) error {
	rows, err := t.store.InTransit(ctx)
	if err != nil {
		return err
	}

	delivered := 0
	for _, o := range rows {
		tr, err := t.broker.GetTransaction(ctx, o.LabelTransactionID)
		if err != nil {
			t.logger.ErrorContext(ctx, "tracking lookup failed", "order_id", o.ID, "transaction_id", o.LabelTransactionID, "err", err)
			continue
		}
		if tr.TrackingStatus != StatusDelivered {
			continue
		}

		today := t.now()
		if err := t.store.Update(ctx, o.ID, map[string]any{"receive_date": today}); err != nil {
			t.logger.ErrorContext(ctx, "receive date update failed", "order_id", o.ID, "err", err)
			continue
		}
		delivered++
	}

	t.logger.InfoContext(ctx, "delivery sweep complete", "checked", len(rows), "delivered", delivered)
	return nil
}
