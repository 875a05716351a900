package intake

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testEventLog(t *testing.T) *GormEventLog {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Event{}))
	return NewGormEventLog(db)
}

func TestGormEventLog_RecordAndSeen(t *testing.T) {
	log := testEventLog(t)
	ctx := context.Background()

	seen, err := log.Seen(ctx, "pi_abc")
	require.NoError(t, err)
	assert.False(t, seen)

	ev := &Event{
		ID:         uuid.NewString(),
		PaymentID:  "pi_abc",
		ChargeID:   "ch_abc",
		ReceivedAt: time.Now(),
	}
	require.NoError(t, log.Record(ctx, ev))

	seen, err = log.Seen(ctx, "pi_abc")
	require.NoError(t, err)
	assert.True(t, seen)
}

func TestGormEventLog_DuplicatePayment(t *testing.T) {
	log := testEventLog(t)
	ctx := context.Background()

	first := &Event{ID: uuid.NewString(), PaymentID: "pi_dup", ReceivedAt: time.Now()}
	require.NoError(t, log.Record(ctx, first))

	second := &Event{ID: uuid.NewString(), PaymentID: "pi_dup", ReceivedAt: time.Now()}
	err := log.Record(ctx, second)
	assert.ErrorIs(t, err, ErrEventExists)
}

func TestGormEventLog_MarkProcessedAndFailed(t *testing.T) {
	log := testEventLog(t)
	ctx := context.Background()

	ok := &Event{ID: uuid.NewString(), PaymentID: "pi_ok", ReceivedAt: time.Now()}
	require.NoError(t, log.Record(ctx, ok))
	require.NoError(t, log.MarkProcessed(ctx, ok.ID))

	bad := &Event{ID: uuid.NewString(), PaymentID: "pi_bad", ReceivedAt: time.Now()}
	require.NoError(t, log.Record(ctx, bad))
	require.NoError(t, log.MarkFailed(ctx, bad.ID, errors.New("parse receipt: boom")))

	var processed Event
	require.NoError(t, log.db.First(&processed, "id = ?", ok.ID).Error)
	assert.NotNil(t, processed.ProcessedAt)
	assert.Nil(t, processed.ProcessErr)

	var failed Event
	require.NoError(t, log.db.First(&failed, "id = ?", bad.ID).Error)
	require.NotNil(t, failed.ProcessErr)
	assert.Equal(t, "parse receipt: boom", *failed.ProcessErr)
}
