// Package intake turns unread payment notification emails into ledger
// entries. Each poll searches the inbox, resolves the payment behind every
// matching message, and hands the charge to the order recorder.
package intake

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"regexp"

	"github.com/google/uuid"

	"github.com/LArkema/dctransistor-project/internal/config"
	"github.com/LArkema/dctransistor-project/internal/modules/inbox"
	"github.com/LArkema/dctransistor-project/internal/modules/orders"
	"github.com/LArkema/dctransistor-project/internal/modules/payments"
)

// Payment intent tokens sit on their own line in the notification body.
var paymentIntentRe = regexp.MustCompile(`(?m)^pi_[A-Za-z0-9]*`)

type Service struct {
	inbox    inbox.Client
	payments payments.Client
	recorder *orders.Recorder
	events   EventLog

	from    string
	subject string

	logger *slog.Logger
}

func NewService(in inbox.Client, pay payments.Client, rec *orders.Recorder, events EventLog, cfg config.StripeConfig) *Service {
	return &Service{
		inbox:    in,
		payments: pay,
		recorder: rec,
		events:   events,
		from:     cfg.NotificationsFrom,
		subject:  cfg.SubjectFilter,
		logger:   slog.Default(),
	}
}

func (s *Service) SetLogger(logger *slog.Logger) { s.logger = logger }

// Summary reports what a single poll did.
type Summary struct {
	Messages   int
	Recorded   int
	Duplicates int
	Skipped    int
	Failed     int
}

// Run processes every unread payment notification. Failures are isolated
// per message: a bad message is logged and the rest of the batch still
// runs. Messages with no recognizable payment token stay unread so a
// human notices them.
func (s *Service) Run(ctx context.Context) (Summary, error) {
	msgs, err := s.inbox.SearchUnread(ctx, s.from, s.subject)
	if err != nil {
		return Summary{}, err
	}

	sum := Summary{Messages: len(msgs)}
	for _, msg := range msgs {
		res, err := s.processMessage(ctx, msg)
		if err != nil {
			sum.Failed++
			s.logger.ErrorContext(ctx, "payment message failed", "message_id", msg.ID, "err", err)
			continue
		}
		switch {
		case res.duplicate:
			sum.Duplicates++
		case res.skipped:
			sum.Skipped++
		case res.recorded:
			sum.Recorded++
		}
	}

	s.logger.InfoContext(ctx, "intake poll complete",
		"messages", sum.Messages, "recorded", sum.Recorded,
		"duplicates", sum.Duplicates, "skipped", sum.Skipped, "failed", sum.Failed)
	return sum, nil
}

type messageResult struct {
	recorded  bool
	duplicate bool
	skipped   bool
}

func (s *Service) processMessage(ctx context.Context, msg inbox.Message) (messageResult, error) {
	token := paymentIntentRe.FindString(msg.Raw)
	if token == "" {
		// Not a notification we understand. Leave it unread.
		s.logger.WarnContext(ctx, "no payment token in message", "message_id", msg.ID)
		return messageResult{skipped: true}, nil
	}

	// Cheap dedupe before any payment API calls. The unique index on the
	// event log still backstops a race between concurrent polls.
	if seen, err := s.events.Seen(ctx, token); err != nil {
		return messageResult{}, err
	} else if seen {
		s.logger.InfoContext(ctx, "payment already seen", "payment_id", token)
		if err := s.inbox.MarkRead(ctx, msg.ID); err != nil {
			return messageResult{}, err
		}
		return messageResult{duplicate: true}, nil
	}

	// Mark read first so a crash mid-processing cannot replay the charge
	// against the ledger on the next poll.
	if err := s.inbox.MarkRead(ctx, msg.ID); err != nil {
		return messageResult{}, err
	}

	intent, err := s.payments.PaymentIntent(ctx, token)
	if err != nil {
		return messageResult{}, err
	}
	charge, err := s.payments.Charge(ctx, intent.LatestCharge)
	if err != nil {
		return messageResult{}, err
	}

	payload, err := json.Marshal(charge)
	if err != nil {
		return messageResult{}, err
	}
	ev := &Event{
		ID:          uuid.NewString(),
		PaymentID:   intent.ID,
		ChargeID:    charge.ID,
		PayloadJSON: payload,
		ReceivedAt:  msg.Date,
	}
	if err := s.events.Record(ctx, ev); err != nil {
		if errors.Is(err, ErrEventExists) {
			s.logger.InfoContext(ctx, "payment already seen", "payment_id", intent.ID)
			return messageResult{duplicate: true}, nil
		}
		return messageResult{}, err
	}

	res, err := s.recorder.Record(ctx, charge, msg.Date)
	if err != nil {
		if markErr := s.events.MarkFailed(ctx, ev.ID, err); markErr != nil {
			s.logger.ErrorContext(ctx, "event failure mark failed", "event_id", ev.ID, "err", markErr)
		}
		return messageResult{}, err
	}

	if err := s.events.MarkProcessed(ctx, ev.ID); err != nil {
		s.logger.ErrorContext(ctx, "event processed mark failed", "event_id", ev.ID, "err", err)
	}

	if res.Skipped {
		return messageResult{skipped: true}, nil
	}
	if res.Mismatch != nil {
		s.logger.WarnContext(ctx, "payment numbers do not add up",
			"order_id", res.OrderID,
			"subtotal_cents", res.Mismatch.SubtotalCents,
			"shipping_cents", res.Mismatch.ShippingCents,
			"charged_cents", res.Mismatch.ChargedCents,
			"captured_cents", res.Mismatch.CapturedCents)
	}
	return messageResult{recorded: true}, nil
}
