package ledger

import "time"

// Sentinel values carried in the ledger so failures are visible to the
// operator without digging through logs.
const (
	LabelError = "ERROR"

	PickupPending   = "FALSE"
	PickupScheduled = "TRUE"
	PickupError     = "ERROR: view execution logs"

	LocalPickupNA       = "N/A"
	LocalPickupPending  = "FALSE"
	LocalPickupArranged = "TRUE"

	ConsentYes = "Yes"
	ConsentNo  = "No"
	ConsentNA  = "N/A"
)

// Order is one fulfillment record: created when a payment is captured,
// mutated in place as label/pickup/delivery events happen, and scrubbed of
// identifying data after the retention window.
type Order struct {
	ID string `gorm:"type:char(36);primaryKey"`

	// PaymentID is nullable so the unique index survives retention
	// scrubbing (multiple NULLs are allowed, multiple '' are not).
	PaymentID     *string `gorm:"type:varchar(64);uniqueIndex:ux_orders_payment_id"`
	ReceiptNumber string  `gorm:"type:varchar(32)"`

	Name  string `gorm:"type:varchar(255)"`
	Email string `gorm:"type:varchar(255)"`

	Product       string `gorm:"type:varchar(255)"`
	SubtotalCents int    `gorm:"not null"`
	ShippingCents int    `gorm:"not null"`
	TotalCents    int    `gorm:"not null"`

	ShippingMethod      string `gorm:"type:varchar(64)"`
	Zip                 string `gorm:"type:varchar(16)"`
	EmailSharingConsent string `gorm:"type:varchar(8)"`

	OrderDate   *time.Time `gorm:"type:datetime(3)"`
	ShipDate    *time.Time `gorm:"type:datetime(3)"`
	ReceiveDate *time.Time `gorm:"type:datetime(3)"`

	LabelURL           string `gorm:"type:varchar(512)"`
	LabelTransactionID string `gorm:"type:varchar(64);index:ix_orders_label_txn"`
	TrackingURL        string `gorm:"type:varchar(512)"`

	PickupStatus       string `gorm:"type:varchar(32)"`
	PickupConfirmation string `gorm:"type:varchar(64)"`
	LocalPickup        string `gorm:"type:varchar(8)"`

	CreatedAt time.Time `gorm:"type:datetime(3);not null"`
	UpdatedAt time.Time `gorm:"type:datetime(3);not null"`
}

func (Order) TableName() string { return "orders" }

// Scrubbed reports whether the retention sweeper already cleared this row.
func (o Order) Scrubbed() bool { return o.PaymentID == nil }
