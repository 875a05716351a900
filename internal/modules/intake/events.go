package intake

import (
	"context"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/go-sql-driver/mysql"
)

var ErrEventExists = errors.New("intake: payment event already recorded")

// Event is the audit row kept for every payment notification pulled from
// the inbox, whether or not it produced an order.
type Event struct {
	ID          string         `gorm:"type:char(36);primaryKey" json:"id"`
	PaymentID   string         `gorm:"type:varchar(64);uniqueIndex;not null" json:"payment_id"`
	ChargeID    string         `gorm:"type:varchar(64);index" json:"charge_id"`
	PayloadJSON datatypes.JSON `gorm:"type:json" json:"payload"`
	ReceivedAt  time.Time      `gorm:"not null" json:"received_at"`
	ProcessedAt *time.Time     `json:"processed_at,omitempty"`
	ProcessErr  *string        `gorm:"type:varchar(512)" json:"process_err,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

func (Event) TableName() string { return "intake_events" }

// EventLog deduplicates and audits payment notifications.
type EventLog interface {
	Seen(ctx context.Context, paymentID string) (bool, error)
	Record(ctx context.Context, ev *Event) error
	MarkProcessed(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string, cause error) error
}

type GormEventLog struct {
	db *gorm.DB
}

func NewGormEventLog(db *gorm.DB) *GormEventLog {
	return &GormEventLog{db: db}
}

func (l *GormEventLog) Seen(ctx context.Context, paymentID string) (bool, error) {
	var count int64
	err := l.db.WithContext(ctx).
		Model(&Event{}).
		Where("payment_id = ?", paymentID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (l *GormEventLog) Record(ctx context.Context, ev *Event) error {
	err := l.db.WithContext(ctx).Create(ev).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || isDup(err) {
			return ErrEventExists
		}
		return err
	}
	return nil
}

func (l *GormEventLog) MarkProcessed(ctx context.Context, id string) error {
	now := time.Now()
	return l.db.WithContext(ctx).
		Model(&Event{}).
		Where("id = ?", id).
		Update("processed_at", &now).Error
}

func (l *GormEventLog) MarkFailed(ctx context.Context, id string, cause error) error {
	msg := cause.Error()
	if len(msg) > 512 {
		msg = msg[:512]
	}
	return l.db.WithContext(ctx).
		Model(&Event{}).
		Where("id = ?", id).
		Update("process_err", &msg).Error
}

func isDup(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}
