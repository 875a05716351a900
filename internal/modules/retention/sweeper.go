// Package retention clears customer-identifying columns from orders a set
// number of days after delivery. Rows are kept for bookkeeping; only the
// personal fields are blanked.
package retention

import (
	"context"
	"log/slog"
	"time"

	"github.com/LArkema/dctransistor-project/internal/modules/ledger"
)

type Sweeper struct {
	store ledger.Store
	days  int

	logger *slog.Logger
	now    func() time.Time
}

func NewSweeper(store ledger.Store, days int) *Sweeper {
	return &Sweeper{
		store:  store,
		days:   days,
		logger: slog.Default(),
		now:    time.Now,
	}
}

func (s *Sweeper) SetLogger(logger *slog.Logger) { s.logger = logger }

// SetClock overrides the time source for tests.
func (s *Sweeper) SetClock(now func() time.Time) { s.now = now }

// Run scrubs every delivered order whose receive date is at least the
// retention window old. Each row is scrubbed independently so one failure
// does not block the rest.
func (s *Sweeper) Run(ctx context.Context) error {
	cutoff := s.now().AddDate(0, 0, -s.days)

	rows, err := s.store.ScrubCandidates(ctx, cutoff)
	if err != nil {
		return err
	}

	scrubbed := 0
	for _, o := range rows {
		if err := s.store.Scrub(ctx, o.ID); err != nil {
			s.logger.ErrorContext(ctx, "scrub failed", "order_id", o.ID, "err", err)
			continue
		}
		scrubbed++
	}

	s.logger.InfoContext(ctx, "retention sweep complete", "candidates", len(rows), "scrubbed", scrubbed, "cutoff", cutoff)
	return nil
}
