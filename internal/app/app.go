// Package app wires the fulfillment services together. Both the trigger
// server and the CLI build the same App and differ only in how they
// invoke it.
package app

import (
	"context"
	"log/slog"

	"gorm.io/gorm"

	"github.com/LArkema/dctransistor-project/internal/config"
	"github.com/LArkema/dctransistor-project/internal/mailer"
	"github.com/LArkema/dctransistor-project/internal/modules/inbox"
	"github.com/LArkema/dctransistor-project/internal/modules/intake"
	"github.com/LArkema/dctransistor-project/internal/modules/ledger"
	"github.com/LArkema/dctransistor-project/internal/modules/orders"
	"github.com/LArkema/dctransistor-project/internal/modules/payments"
	"github.com/LArkema/dctransistor-project/internal/modules/retention"
	"github.com/LArkema/dctransistor-project/internal/modules/shipping"
	"github.com/LArkema/dctransistor-project/internal/notify"
	"github.com/LArkema/dctransistor-project/internal/storage"
)

type App struct {
	Store ledger.Store

	Intake    *intake.Service
	Pickups   *shipping.PickupService
	Tracking  *shipping.Tracker
	Retention *retention.Sweeper
}

func New(ctx context.Context, cfg config.Config, logger *slog.Logger, db *gorm.DB) (*App, error) {
	store := ledger.NewRepo(db)

	mail := mailer.NewSMTPMailer(cfg.SMTP)
	notifier := notify.New(mail, cfg.SMTP)

	pay := payments.NewStripeClient(cfg.Stripe)
	in := inbox.NewGmailClient(cfg.Inbox)
	broker := shipping.NewShippoClient(cfg.Shippo)

	labels := shipping.NewLabelService(store, broker, notifier, cfg.Sender, cfg.Shippo)
	labels.SetLogger(logger)

	archive, err := storage.FromEnv(ctx)
	if err != nil {
		return nil, err
	}
	if archive.Storage != nil {
		labels.SetArchive(archive.Storage)
	}
	logger.InfoContext(ctx, "label archive backend", "driver", archive.Driver)

	recorder := orders.NewRecorder(store, pay, labels, notifier)
	recorder.SetLogger(logger)

	events := intake.NewGormEventLog(db)
	intakeSvc := intake.NewService(in, pay, recorder, events, cfg.Stripe)
	intakeSvc.SetLogger(logger)

	pickups := shipping.NewPickupService(store, broker, notifier, cfg.Sender, cfg.Shippo, cfg.Location())
	pickups.SetLogger(logger)

	tracker := shipping.NewTracker(store, broker)
	tracker.SetLogger(logger)

	sweeper := retention.NewSweeper(store, cfg.RetentionDays)
	sweeper.SetLogger(logger)

	return &App{
		Store:     store,
		Intake:    intakeSvc,
		Pickups:   pickups,
		Tracking:  tracker,
		Retention: sweeper,
	}, nil
}
