package shipping

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LArkema/dctransistor-project/internal/modules/ledger"
)

func awaitingOrder(id, payment, txn string) ledger.Order {
	o := seededOrder(id, payment)
	o.LabelTransactionID = txn
	o.TrackingURL = "https://tools.usps.com/track/" + txn
	return o
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestPickupWindow(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// Late evening: the window still starts tomorrow morning, never today.
	now := time.Date(2026, time.March, 10, 22, 30, 0, 0, loc)
	earliest, latest := pickupWindow(now, loc)

	assert.Equal(t, time.Date(2026, time.March, 11, 7, 0, 0, 0, loc), earliest)
	assert.Equal(t, time.Date(2026, time.March, 13, 23, 0, 0, 0, loc), latest)
	assert.True(t, earliest.After(now))
	assert.True(t, latest.After(earliest))
}

func TestFormatBrokerTime(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	ts := time.Date(2026, time.March, 11, 7, 0, 0, 0, loc)
	assert.Equal(t, "2026-03-11T07:00:00.000Z", formatBrokerTime(ts))
}

func TestSchedule_ConfirmedUpdatesEveryRow(t *testing.T) {
	loc, _ := time.LoadLocation("America/New_York")
	store := ledger.NewMemory(
		awaitingOrder("ord-a", "pi_a", "tx_a"),
		awaitingOrder("ord-b", "pi_b", "tx_b"),
		awaitingOrder("ord-c", "pi_c", "tx_c"),
	)
	broker := &fakeBroker{pickup: Pickup{
		ConfirmationCode: "WTC555",
		ConfirmedEndTime: "2026-03-12T23:00:00Z",
		Status:           PickupConfirmed,
	}}
	notifier, mock := testNotifier()

	svc := NewPickupService(store, broker, notifier, testSender(), testShippo(), loc)
	svc.SetClock(fixedClock(time.Date(2026, time.March, 10, 9, 0, 0, 0, loc)))

	out, err := svc.Schedule(context.Background())
	require.NoError(t, err)

	assert.True(t, out.Confirmed())
	assert.False(t, out.Partial())
	assert.Equal(t, "WTC555", out.ConfirmationCode)
	assert.Len(t, out.Requested, 3)
	assert.Len(t, out.Updated, 3)

	assert.Equal(t, []string{"tx_a", "tx_b", "tx_c"}, broker.lastPickup.Transactions)
	assert.Equal(t, "2026-03-11T07:00:00.000Z", broker.lastPickup.RequestedStartTime)
	assert.Equal(t, "2026-03-13T23:00:00.000Z", broker.lastPickup.RequestedEndTime)

	for _, id := range []string{"ord-a", "ord-b", "ord-c"} {
		got, gerr := store.Get(context.Background(), id)
		require.NoError(t, gerr)
		assert.Equal(t, ledger.PickupScheduled, got.PickupStatus)
		assert.Equal(t, "WTC555", got.PickupConfirmation)
		require.NotNil(t, got.ShipDate)
	}

	require.Len(t, mock.Sent, 3)
	assert.Equal(t, "DCTransistor Shipment Scheduled", mock.Sent[0].Subject)
}

func TestSchedule_NothingAwaiting(t *testing.T) {
	loc, _ := time.LoadLocation("America/New_York")
	store := ledger.NewMemory()
	broker := &fakeBroker{}
	notifier, mock := testNotifier()

	svc := NewPickupService(store, broker, notifier, testSender(), testShippo(), loc)

	out, err := svc.Schedule(context.Background())
	require.NoError(t, err)
	assert.Empty(t, out.Requested)
	assert.False(t, broker.pickupCalled)
	assert.Empty(t, mock.Sent)
}

func TestSchedule_RequestErrorFlagsFirstRowOnly(t *testing.T) {
	loc, _ := time.LoadLocation("America/New_York")
	store := ledger.NewMemory(
		awaitingOrder("ord-a", "pi_a", "tx_a"),
		awaitingOrder("ord-b", "pi_b", "tx_b"),
	)
	broker := &fakeBroker{pickupErr: errors.New("status 500")}
	notifier, mock := testNotifier()

	svc := NewPickupService(store, broker, notifier, testSender(), testShippo(), loc)

	out, err := svc.Schedule(context.Background())
	require.NoError(t, err)
	assert.False(t, out.Confirmed())
	assert.Equal(t, "ord-a", out.Flagged)
	assert.Empty(t, out.Updated)

	first, _ := store.Get(context.Background(), "ord-a")
	assert.Equal(t, ledger.PickupError, first.PickupStatus)

	// The second row stays pending for the next run.
	second, _ := store.Get(context.Background(), "ord-b")
	assert.Equal(t, ledger.PickupPending, second.PickupStatus)

	assert.Empty(t, mock.Sent)
}

func TestSchedule_UnconfirmedStatusFlagsFirstRow(t *testing.T) {
	loc, _ := time.LoadLocation("America/New_York")
	store := ledger.NewMemory(awaitingOrder("ord-a", "pi_a", "tx_a"))
	broker := &fakeBroker{pickup: Pickup{Status: "PENDING"}}
	notifier, _ := testNotifier()

	svc := NewPickupService(store, broker, notifier, testSender(), testShippo(), loc)

	out, err := svc.Schedule(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "PENDING", out.Status)
	assert.Equal(t, "ord-a", out.Flagged)
}

func TestSchedule_BadConfirmedEndFallsBackToWindowEnd(t *testing.T) {
	loc, _ := time.LoadLocation("America/New_York")
	store := ledger.NewMemory(awaitingOrder("ord-a", "pi_a", "tx_a"))
	broker := &fakeBroker{pickup: Pickup{
		ConfirmationCode: "WTC1",
		ConfirmedEndTime: "not-a-timestamp",
		Status:           PickupConfirmed,
	}}
	notifier, _ := testNotifier()

	svc := NewPickupService(store, broker, notifier, testSender(), testShippo(), loc)
	svc.SetClock(fixedClock(time.Date(2026, time.March, 10, 9, 0, 0, 0, loc)))

	out, err := svc.Schedule(context.Background())
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, time.March, 13, 23, 0, 0, 0, loc), out.ConfirmedEnd)
}
