package shipping

import (
	"context"
	"log/slog"
	"time"

	"github.com/LArkema/dctransistor-project/internal/config"
	"github.com/LArkema/dctransistor-project/internal/modules/ledger"
	"github.com/LArkema/dctransistor-project/internal/notify"
)

// Broker wire format for pickup windows. The trailing Z is literal: the
// carrier interprets the timestamp in the pickup location's local time.
const brokerTimeLayout = "2006-01-02T15:04:05.000"

// PickupOutcome reports exactly what one scheduling run did. A pickup
// request covers every outstanding label at once, so a non-confirmed
// response is ambiguous (some labels may already be on an earlier pickup);
// the outcome surfaces that instead of hiding it in logs.
type PickupOutcome struct {
	Status           string
	ConfirmationCode string
	ConfirmedEnd     time.Time

	Requested []string // order ids included in the request
	Updated   []string // order ids marked scheduled
	Flagged   string   // order id carrying the error sentinel, if any
}

// Confirmed reports whether the carrier accepted the pickup request.
func (o PickupOutcome) Confirmed() bool { return o.Status == PickupConfirmed }

// Partial reports the ambiguous case: a request went out but not every
// included row was updated.
func (o PickupOutcome) Partial() bool {
	return len(o.Requested) > 0 && len(o.Updated) < len(o.Requested)
}

type PickupService struct {
	store    ledger.Store
	broker   Broker
	notifier *notify.Notifier

	sender config.SenderAddress
	shippo config.ShippoConfig
	loc    *time.Location

	logger *slog.Logger
	now    func() time.Time
}

func NewPickupService(store ledger.Store, broker Broker, notifier *notify.Notifier, sender config.SenderAddress, shippo config.ShippoConfig, loc *time.Location) *PickupService {
	return &PickupService{
		store:    store,
		broker:   broker,
		notifier: notifier,
		sender:   sender,
		shippo:   shippo,
		loc:      loc,
		logger:   slog.Default(),
		now:      time.Now,
	}
}

func (s *PickupService) SetLogger(logger *slog.Logger) { s.logger = logger }

// SetClock overrides the time source for tests.
func (s *PickupService) SetClock(now func() time.Time) { s.now = now }

// Schedule batches every order awaiting physical pickup into one carrier
// pickup request, then stamps confirmation data into each included row and
// emails each customer.
func (s *PickupService) Schedule(ctx context.Context) (PickupOutcome, error) {
	rows, err := s.store.AwaitingPickup(ctx)
	if err != nil {
		return PickupOutcome{}, err
	}
	if len(rows) == 0 {
		s.logger.InfoContext(ctx, "no orders awaiting pickup")
		return PickupOutcome{}, nil
	}

	earliest, latest := pickupWindow(s.now(), s.loc)

	var outcome PickupOutcome
	transactions := make([]string, 0, len(rows))
	for _, o := range rows {
		transactions = append(transactions, o.LabelTransactionID)
		outcome.Requested = append(outcome.Requested, o.ID)
	}

	req := PickupRequest{
		CarrierAccount: s.shippo.CarrierAccount,
		Location: PickupLocation{
			Address:              senderAddress(s.sender),
			BuildingLocationType: s.shippo.PickupLocationType,
			BuildingType:         s.shippo.PickupBuildingType,
			Instructions:         s.shippo.PickupInstructions,
		},
		Transactions:       transactions,
		RequestedStartTime: formatBrokerTime(earliest),
		RequestedEndTime:   formatBrokerTime(latest),
		IsTest:             false,
	}

	p, raw, err := s.broker.SchedulePickup(ctx, req)
	if err != nil {
		s.logger.ErrorContext(ctx, "pickup request failed", "err", err, "response", string(raw))
		return s.flagFirst(ctx, outcome, rows)
	}
	outcome.Status = p.Status

	if p.Status != PickupConfirmed {
		s.logger.ErrorContext(ctx, "pickup not confirmed", "status", p.Status, "response", string(raw))
		return s.flagFirst(ctx, outcome, rows)
	}

	outcome.ConfirmationCode = p.ConfirmationCode
	pickupDate, perr := time.Parse(time.RFC3339, p.ConfirmedEndTime)
	if perr != nil {
		s.logger.WarnContext(ctx, "unparseable confirmed end time, using window end", "value", p.ConfirmedEndTime)
		pickupDate = latest
	}
	outcome.ConfirmedEnd = pickupDate

	for _, o := range rows {
		err := s.store.Update(ctx, o.ID, map[string]any{
			"pickup_status":       ledger.PickupScheduled,
			"pickup_confirmation": p.ConfirmationCode,
			"ship_date":           pickupDate,
		})
		if err != nil {
			s.logger.ErrorContext(ctx, "pickup row update failed", "order_id", o.ID, "err", err)
			continue
		}
		outcome.Updated = append(outcome.Updated, o.ID)

		if err := s.notifier.PickupScheduled(ctx, notify.PickupParams{
			To:            o.Email,
			Name:          o.Name,
			ReceiptNumber: o.ReceiptNumber,
			TrackingURL:   o.TrackingURL,
			PickupDate:    pickupDate.In(s.loc),
		}); err != nil {
			s.logger.ErrorContext(ctx, "pickup email failed", "order_id", o.ID, "err", err)
		}
	}

	return outcome, nil
}

// flagFirst marks only the first outstanding row with the error sentinel;
// the others stay pending so the next run retries them.
func (s *PickupService) flagFirst(ctx context.Context, outcome PickupOutcome, rows []ledger.Order) (PickupOutcome, error) {
	first := rows[0]
	if err := s.store.Update(ctx, first.ID, map[string]any{"pickup_status": ledger.PickupError}); err != nil {
		return outcome, err
	}
	outcome.Flagged = first.ID
	return outcome, nil
}

// pickupWindow computes the earliest/latest carrier collection times:
// tomorrow 07:00 through three days out 23:00, in the sender's timezone.
func pickupWindow(now time.Time, loc *time.Location) (time.Time, time.Time) {
	local := now.In(loc)
	y, m, d := local.Date()
	earliest := time.Date(y, m, d+1, 7, 0, 0, 0, loc)
	latest := time.Date(y, m, d+3, 23, 0, 0, 0, loc)
	return earliest, latest
}

func formatBrokerTime(t time.Time) string {
	return t.Format(brokerTimeLayout) + "Z"
}
