// Package orders turns a captured charge into a ledger row and kicks off
// the right fulfillment branch: a shipping label for mailed orders, or the
// operator and customer emails for local pickup.
package orders

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/LArkema/dctransistor-project/internal/modules/ledger"
	"github.com/LArkema/dctransistor-project/internal/modules/payments"
	"github.com/LArkema/dctransistor-project/internal/modules/receipt"
	"github.com/LArkema/dctransistor-project/internal/modules/shipping"
	"github.com/LArkema/dctransistor-project/internal/notify"
)

// AmountMismatch flags a charge whose receipt arithmetic disagrees with
// the captured amount. The order is still recorded; this is a warning for
// the operator, not a rejection.
type AmountMismatch struct {
	SubtotalCents int
	ShippingCents int
	ChargedCents  int
	CapturedCents int
}

func (m *AmountMismatch) String() string {
	return fmt.Sprintf("subtotal %d + shipping %d vs charged %d vs captured %d",
		m.SubtotalCents, m.ShippingCents, m.ChargedCents, m.CapturedCents)
}

type RecordResult struct {
	OrderID     string
	Skipped     bool
	LocalPickup bool
	Mismatch    *AmountMismatch
}

type Recorder struct {
	store    ledger.Store
	payments payments.Client
	labels   *shipping.LabelService
	notifier *notify.Notifier

	logger *slog.Logger
}

func NewRecorder(store ledger.Store, pay payments.Client, labels *shipping.LabelService, notifier *notify.Notifier) *Recorder {
	return &Recorder{
		store:    store,
		payments: pay,
		labels:   labels,
		notifier: notifier,
		logger:   slog.Default(),
	}
}

func (r *Recorder) SetLogger(logger *slog.Logger) { r.logger = logger }

// Record writes the charge into the ledger and runs its fulfillment
// branch. Charges with nothing captured are skipped without a row. A
// duplicate payment surfaces as ledger.ErrDuplicatePayment.
func (r *Recorder) Record(ctx context.Context, charge payments.Charge, receivedAt time.Time) (RecordResult, error) {
	if charge.AmountCaptured == 0 {
		r.logger.WarnContext(ctx, "charge captured nothing, skipping", "charge_id", charge.ID)
		return RecordResult{Skipped: true}, nil
	}

	html, err := r.payments.Receipt(ctx, charge.ReceiptURL)
	if err != nil {
		return RecordResult{}, fmt.Errorf("fetch receipt: %w", err)
	}
	rc, err := receipt.Parse(html)
	if err != nil {
		return RecordResult{}, fmt.Errorf("parse receipt: %w", err)
	}

	res := RecordResult{OrderID: uuid.NewString()}
	if rc.SubtotalCents+rc.ShippingCents != rc.AmountChargedCents ||
		rc.AmountChargedCents != charge.AmountCaptured {
		res.Mismatch = &AmountMismatch{
			SubtotalCents: rc.SubtotalCents,
			ShippingCents: rc.ShippingCents,
			ChargedCents:  rc.AmountChargedCents,
			CapturedCents: charge.AmountCaptured,
		}
		r.logger.WarnContext(ctx, "payment numbers do not add up",
			"charge_id", charge.ID, "detail", res.Mismatch.String())
	}

	localPickup := rc.ShippingMethod == receipt.MethodLocalPickup
	res.LocalPickup = localPickup

	orderDate := receivedAt
	order := ledger.Order{
		ID:            res.OrderID,
		PaymentID:     &charge.ID,
		ReceiptNumber: charge.ReceiptNumber,
		Name:          charge.Shipping.Name,
		Email:         charge.BillingDetails.Email,
		Product:       rc.Product,
		SubtotalCents: rc.SubtotalCents,
		ShippingCents: rc.ShippingCents,
		TotalCents:    rc.AmountChargedCents,

		ShippingMethod: rc.ShippingMethod,
		Zip:            charge.Shipping.Address.PostalCode,
		OrderDate:      &orderDate,
	}

	if localPickup {
		order.EmailSharingConsent = ledger.ConsentNA
		order.LocalPickup = ledger.LocalPickupPending
	} else {
		order.EmailSharingConsent = rc.ShareEmailConsent
		order.LocalPickup = ledger.LocalPickupNA
	}

	if err := r.store.Create(ctx, &order); err != nil {
		return RecordResult{}, err
	}
	r.logger.InfoContext(ctx, "order recorded",
		"order_id", order.ID, "receipt", order.ReceiptNumber, "method", order.ShippingMethod)

	if localPickup {
		r.notifyLocalPickup(ctx, order, charge.ReceiptURL)
		return res, nil
	}

	shippoEmail := ""
	if rc.ShareEmailConsent == ledger.ConsentYes {
		shippoEmail = order.Email
	}
	if _, err := r.labels.CreateLabel(ctx, shipping.LabelInput{
		OrderID:        order.ID,
		Name:           order.Name,
		Email:          order.Email,
		ShippoEmail:    shippoEmail,
		ReceiptNumber:  order.ReceiptNumber,
		ReceiptURL:     charge.ReceiptURL,
		ShippingMethod: order.ShippingMethod,
		Street1:        charge.Shipping.Address.Line1,
		Street2:        charge.Shipping.Address.Line2,
		City:           charge.Shipping.Address.City,
		State:          charge.Shipping.Address.State,
		Zip:            charge.Shipping.Address.PostalCode,
		Country:        charge.Shipping.Address.Country,
	}); err != nil {
		// Row exists; label generation has its own ERROR sentinel.
		r.logger.ErrorContext(ctx, "label generation failed", "order_id", order.ID, "err", err)
	}
	return res, nil
}

// notifyLocalPickup sends the operator alert and the customer
// confirmation. Mail failures only log; the order row is already written.
func (r *Recorder) notifyLocalPickup(ctx context.Context, order ledger.Order, receiptURL string) {
	if err := r.notifier.OperatorLocalPickupAlert(ctx, order.ReceiptNumber); err != nil {
		r.logger.ErrorContext(ctx, "operator pickup alert failed", "order_id", order.ID, "err", err)
	}
	if err := r.notifier.LocalPickupConfirmation(ctx, notify.LocalPickupParams{
		To:            order.Email,
		Name:          order.Name,
		ReceiptNumber: order.ReceiptNumber,
		ReceiptURL:    receiptURL,
	}); err != nil {
		r.logger.ErrorContext(ctx, "local pickup confirmation failed", "order_id", order.ID, "err", err)
	}
}
