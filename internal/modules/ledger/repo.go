package ledger

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

// Repo is the gorm-backed Store (MySQL in production, sqlite in tests).
type Repo struct{ db *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{db: db} }

// DB returns the underlying database connection for direct queries.
func (r *Repo) DB() *gorm.DB { return r.db }

func (r *Repo) Create(ctx context.Context, o *Order) error {
	now := time.Now()
	if o.CreatedAt.IsZero() {
		o.CreatedAt = now
	}
	o.UpdatedAt = now

	if err := r.db.WithContext(ctx).Create(o).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || isDup(err) {
			return ErrDuplicatePayment
		}
		return err
	}
	return nil
}

func (r *Repo) Get(ctx context.Context, id string) (Order, error) {
	var o Order
	if err := r.db.WithContext(ctx).First(&o, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Order{}, ErrNotFound
		}
		return Order{}, err
	}
	return o, nil
}

func (r *Repo) Update(ctx context.Context, id string, fields map[string]any) error {
	fields["updated_at"] = time.Now()
	res := r.db.WithContext(ctx).Model(&Order{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) AwaitingPickup(ctx context.Context) ([]Order, error) {
	var rows []Order
	err := r.db.WithContext(ctx).
		Where("pickup_status = ?", PickupPending).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *Repo) InTransit(ctx context.Context) ([]Order, error) {
	var rows []Order
	err := r.db.WithContext(ctx).
		Where("label_transaction_id <> '' AND receive_date IS NULL").
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *Repo) ScrubCandidates(ctx context.Context, cutoff time.Time) ([]Order, error) {
	var rows []Order
	err := r.db.WithContext(ctx).
		Where("receive_date IS NOT NULL AND receive_date <= ? AND payment_id IS NOT NULL", cutoff).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *Repo) Scrub(ctx context.Context, id string) error {
	// Preserve-list: product, prices, shipping method, zip and the three
	// dates. Everything identifying goes blank.
	return r.Update(ctx, id, map[string]any{
		"payment_id":            nil,
		"receipt_number":        "",
		"name":                  "",
		"email":                 "",
		"email_sharing_consent": "",
		"label_url":             "",
		"label_transaction_id":  "",
		"tracking_url":          "",
		"pickup_status":         "",
		"pickup_confirmation":   "",
		"local_pickup":          "",
	})
}
