package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testRepo(t *testing.T) *Repo {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Order{}))
	return NewRepo(db)
}

func strPtr(s string) *string { return &s }

func timeRef(t time.Time) *time.Time { return &t }

func newTestOrder(paymentID string) Order {
	now := time.Now()
	return Order{
		ID:                  uuid.NewString(),
		PaymentID:           strPtr(paymentID),
		ReceiptNumber:       "1234-5678",
		Name:                "Ada Lovelace",
		Email:               "ada@example.com",
		Product:             "DCTransistor Automated WMATA Map",
		SubtotalCents:       2000,
		ShippingCents:       500,
		TotalCents:          2500,
		ShippingMethod:      "USPS Priority",
		Zip:                 "20001",
		EmailSharingConsent: ConsentYes,
		OrderDate:           &now,
		LocalPickup:         LocalPickupNA,
	}
}

func TestRepo_CreateAndGet(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	o := newTestOrder("pi_abc123")
	require.NoError(t, repo.Create(ctx, &o))

	got, err := repo.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "pi_abc123", *got.PaymentID)
	assert.Equal(t, 2500, got.TotalCents)
	assert.False(t, got.Scrubbed())
}

func TestRepo_CreateDuplicatePayment(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	first := newTestOrder("pi_dup")
	require.NoError(t, repo.Create(ctx, &first))

	second := newTestOrder("pi_dup")
	err := repo.Create(ctx, &second)
	assert.ErrorIs(t, err, ErrDuplicatePayment)
}

func TestRepo_UpdateUnknownID(t *testing.T) {
	repo := testRepo(t)

	err := repo.Update(context.Background(), uuid.NewString(), map[string]any{"name": "x"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepo_AwaitingPickup(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	pending := newTestOrder("pi_pending")
	pending.PickupStatus = PickupPending
	pending.LabelTransactionID = "tx_1"
	require.NoError(t, repo.Create(ctx, &pending))

	scheduled := newTestOrder("pi_scheduled")
	scheduled.PickupStatus = PickupScheduled
	scheduled.LabelTransactionID = "tx_2"
	require.NoError(t, repo.Create(ctx, &scheduled))

	local := newTestOrder("pi_local")
	local.LocalPickup = LocalPickupPending
	require.NoError(t, repo.Create(ctx, &local))

	rows, err := repo.AwaitingPickup(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, pending.ID, rows[0].ID)
}

func TestRepo_InTransit(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	shipped := newTestOrder("pi_shipped")
	shipped.LabelTransactionID = "tx_shipped"
	require.NoError(t, repo.Create(ctx, &shipped))

	delivered := newTestOrder("pi_delivered")
	delivered.LabelTransactionID = "tx_delivered"
	delivered.ReceiveDate = timeRef(time.Now())
	require.NoError(t, repo.Create(ctx, &delivered))

	noLabel := newTestOrder("pi_nolabel")
	require.NoError(t, repo.Create(ctx, &noLabel))

	rows, err := repo.InTransit(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, shipped.ID, rows[0].ID)
}

func TestRepo_ScrubPreservesBookkeeping(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	received := time.Now().AddDate(0, 0, -10)
	o := newTestOrder("pi_old")
	o.LabelTransactionID = "tx_old"
	o.LabelURL = "https://example.com/label.pdf"
	o.TrackingURL = "https://example.com/track"
	o.PickupStatus = PickupScheduled
	o.PickupConfirmation = "WTC123"
	o.ShipDate = timeRef(received.AddDate(0, 0, -2))
	o.ReceiveDate = &received
	require.NoError(t, repo.Create(ctx, &o))

	candidates, err := repo.ScrubCandidates(ctx, time.Now().AddDate(0, 0, -7))
	require.NoError(t, err)
	require.Len(t, candidates, 1)

	require.NoError(t, repo.Scrub(ctx, o.ID))

	got, err := repo.Get(ctx, o.ID)
	require.NoError(t, err)

	assert.True(t, got.Scrubbed())
	assert.Empty(t, got.ReceiptNumber)
	assert.Empty(t, got.Name)
	assert.Empty(t, got.Email)
	assert.Empty(t, got.EmailSharingConsent)
	assert.Empty(t, got.LabelURL)
	assert.Empty(t, got.LabelTransactionID)
	assert.Empty(t, got.TrackingURL)
	assert.Empty(t, got.PickupStatus)
	assert.Empty(t, got.PickupConfirmation)
	assert.Empty(t, got.LocalPickup)

	// Bookkeeping survives.
	assert.Equal(t, "DCTransistor Automated WMATA Map", got.Product)
	assert.Equal(t, 2000, got.SubtotalCents)
	assert.Equal(t, 500, got.ShippingCents)
	assert.Equal(t, 2500, got.TotalCents)
	assert.Equal(t, "USPS Priority", got.ShippingMethod)
	assert.Equal(t, "20001", got.Zip)
	assert.NotNil(t, got.OrderDate)
	assert.NotNil(t, got.ShipDate)
	assert.NotNil(t, got.ReceiveDate)

	// Scrubbed rows no longer count as candidates.
	candidates, err = repo.ScrubCandidates(ctx, time.Now())
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestRepo_ScrubbedRowsDoNotCollide(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		o := newTestOrder("pi_" + uuid.NewString())
		received := time.Now().AddDate(0, 0, -10)
		o.ReceiveDate = &received
		require.NoError(t, repo.Create(ctx, &o))
		require.NoError(t, repo.Scrub(ctx, o.ID))
	}

	var count int64
	require.NoError(t, repo.DB().Model(&Order{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}
