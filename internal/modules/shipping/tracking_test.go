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

func TestTracker_StampsDeliveredRows(t *testing.T) {
	store := ledger.NewMemory(
		awaitingOrder("ord-a", "pi_a", "tx_a"),
		awaitingOrder("ord-b", "pi_b", "tx_b"),
	)
	broker := &fakeBroker{lookups: map[string]Transaction{
		"tx_a": {ObjectID: "tx_a", TrackingStatus: StatusDelivered},
		"tx_b": {ObjectID: "tx_b", TrackingStatus: "TRANSIT"},
	}}

	tracker := NewTracker(store, broker)
	today := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)
	tracker.SetClock(fixedClock(today))

	require.NoError(t, tracker.Run(context.Background()))

	a, _ := store.Get(context.Background(), "ord-a")
	require.NotNil(t, a.ReceiveDate)
	assert.True(t, a.ReceiveDate.Equal(today))

	b, _ := store.Get(context.Background(), "ord-b")
	assert.Nil(t, b.ReceiveDate)
}

func TestTracker_DeliveredRowsDropOutOfSweep(t *testing.T) {
	o := awaitingOrder("ord-a", "pi_a", "tx_a")
	received := time.Now()
	o.ReceiveDate = &received
	store := ledger.NewMemory(o)
	broker := &fakeBroker{lookups: map[string]Transaction{}}

	tracker := NewTracker(store, broker)
	require.NoError(t, tracker.Run(context.Background()))

	rows, err := store.InTransit(context.Background())
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestTracker_LookupFailureSkipsRow(t *testing.T) {
	store := ledger.NewMemory(awaitingOrder("ord-a", "pi_a", "tx_a"))
	broker := &fakeBroker{lookupErr: errors.New("status 502")}

	tracker := NewTracker(store, broker)
	require.NoError(t, tracker.Run(context.Background()))

	a, _ := store.Get(context.Background(), "ord-a")
	assert.Nil(t, a.ReceiveDate)
}
