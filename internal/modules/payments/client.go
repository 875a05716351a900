package payments

import "context"

// Charge is the authoritative payment record returned by the processor.
// Amounts are integer cents.
type Charge struct {
	ID             string         `json:"id"`
	AmountCaptured int            `json:"amount_captured"`
	ReceiptURL     string         `json:"receipt_url"`
	ReceiptNumber  string         `json:"receipt_number"`
	Shipping       ShippingInfo   `json:"shipping"`
	BillingDetails BillingDetails `json:"billing_details"`
}

type ShippingInfo struct {
	Name    string  `json:"name"`
	Address Address `json:"address"`
}

type Address struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

type BillingDetails struct {
	Email string `json:"email"`
}

type PaymentIntent struct {
	ID           string `json:"id"`
	LatestCharge string `json:"latest_charge"`
}

// Client resolves a payment-intent token (scraped from a notification
// email) to a full charge, and fetches the customer-facing receipt.
type Client interface {
	PaymentIntent(ctx context.Context, id string) (PaymentIntent, error)
	Charge(ctx context.Context, id string) (Charge, error)
	Receipt(ctx context.Context, url string) (string, error)
}
