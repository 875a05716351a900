package ledger

import (
	"context"
	"sync"
	"time"
)

// Memory is an in-memory Store used by service tests, mirroring the
// mailer.Mock pattern. Rows keep insertion order.
type Memory struct {
	mu     sync.Mutex
	orders []*Order

	CreateErr error
	UpdateErr error
}

func NewMemory(seed ...Order) *Memory {
	m := &Memory{}
	for i := range seed {
		o := seed[i]
		m.orders = append(m.orders, &o)
	}
	return m
}

func (m *Memory) Create(ctx context.Context, o *Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateErr != nil {
		return m.CreateErr
	}
	for _, ex := range m.orders {
		if ex.PaymentID != nil && o.PaymentID != nil && *ex.PaymentID == *o.PaymentID {
			return ErrDuplicatePayment
		}
	}
	now := time.Now()
	o.CreatedAt, o.UpdatedAt = now, now
	cp := *o
	m.orders = append(m.orders, &cp)
	return nil
}

func (m *Memory) Get(ctx context.Context, id string) (Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.orders {
		if o.ID == id {
			return *o, nil
		}
	}
	return Order{}, ErrNotFound
}

func (m *Memory) Update(ctx context.Context, id string, fields map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	for _, o := range m.orders {
		if o.ID == id {
			applyFields(o, fields)
			o.UpdatedAt = time.Now()
			return nil
		}
	}
	return ErrNotFound
}

func (m *Memory) AwaitingPickup(ctx context.Context) ([]Order, error) {
	return m.filter(func(o *Order) bool { return o.PickupStatus == PickupPending }), nil
}

func (m *Memory) InTransit(ctx context.Context) ([]Order, error) {
	return m.filter(func(o *Order) bool {
		return o.LabelTransactionID != "" && o.ReceiveDate == nil
	}), nil
}

func (m *Memory) ScrubCandidates(ctx context.Context, cutoff time.Time) ([]Order, error) {
	return m.filter(func(o *Order) bool {
		return o.ReceiveDate != nil && !o.ReceiveDate.After(cutoff) && o.PaymentID != nil
	}), nil
}

func (m *Memory) Scrub(ctx context.Context, id string) error {
	return m.Update(ctx, id, map[string]any{
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

// All returns a snapshot of every row, in insertion order.
func (m *Memory) All() []Order {
	return m.filter(func(*Order) bool { return true })
}

func (m *Memory) filter(keep func(*Order) bool) []Order {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Order
	for _, o := range m.orders {
		if keep(o) {
			out = append(out, *o)
		}
	}
	return out
}

func applyFields(o *Order, fields map[string]any) {
	for k, v := range fields {
		switch k {
		case "payment_id":
			if v == nil {
				o.PaymentID = nil
			} else if s, ok := v.(string); ok {
				o.PaymentID = &s
			}
		case "receipt_number":
			o.ReceiptNumber, _ = v.(string)
		case "name":
			o.Name, _ = v.(string)
		case "email":
			o.Email, _ = v.(string)
		case "email_sharing_consent":
			o.EmailSharingConsent, _ = v.(string)
		case "label_url":
			o.LabelURL, _ = v.(string)
		case "label_transaction_id":
			o.LabelTransactionID, _ = v.(string)
		case "tracking_url":
			o.TrackingURL, _ = v.(string)
		case "pickup_status":
			o.PickupStatus, _ = v.(string)
		case "pickup_confirmation":
			o.PickupConfirmation, _ = v.(string)
		case "local_pickup":
			o.LocalPickup, _ = v.(string)
		case "ship_date":
			o.ShipDate = timePtr(v)
		case "receive_date":
			o.ReceiveDate = timePtr(v)
		case "order_date":
			o.OrderDate = timePtr(v)
		}
	}
}

func timePtr(v any) *time.Time {
	switch t := v.(type) {
	case *time.Time:
		return t
	case time.Time:
		return &t
	default:
		return nil
	}
}
