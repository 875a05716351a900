// Package notify builds and sends the customer-facing mail the fulfillment
// workflow produces. Bodies are inline templates; a rendering engine is
// deliberately out of scope.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/LArkema/dctransistor-project/internal/config"
	"github.com/LArkema/dctransistor-project/internal/mailer"
)

const emailDateFormat = "January 02, 2006"

type Notifier struct {
	mail     mailer.Service
	from     string
	fromName string
	operator string
}

func New(mail mailer.Service, cfg config.SMTPConfig) *Notifier {
	return &Notifier{
		mail:     mail,
		from:     cfg.From,
		fromName: cfg.FromName,
		operator: cfg.Operator,
	}
}

type ShippedParams struct {
	To            string
	Name          string
	ReceiptNumber string
	ReceiptURL    string
	TrackingURL   string
	TrackingNum   string
}

// OrderShipped confirms the order and hands the customer their tracking link.
func (n *Notifier) OrderShipped(ctx context.Context, p ShippedParams) error {
	subject := "Confirmation: DCTransistor Board Order " + p.ReceiptNumber

	text := fmt.Sprintf("Hi %s,\n\nYour DCTransistor board order (receipt %s) is packed and has a USPS label.\nTrack your shipment: %s (tracking number %s)\n\nReceipt: %s\n\nThank you!",
		p.Name, p.ReceiptNumber, p.TrackingURL, p.TrackingNum, p.ReceiptURL)

	html := `
<html>
  <body style="font-family: sans-serif;">
    <h2>Your order is on its way</h2>
    <p>Hi ` + p.Name + `,</p>
    <p>Your DCTransistor board order (receipt #` + p.ReceiptNumber + `) is packed and has a USPS shipping label.</p>
    <p><strong>Tracking:</strong> <a href="` + p.TrackingURL + `">` + p.TrackingNum + `</a></p>
    <p><a href="` + p.ReceiptURL + `">View your receipt</a></p>
    <p>Thank you for supporting DCTransistor!</p>
  </body>
</html>
`
	return n.send(ctx, p.To, subject, html, text)
}

type PickupParams struct {
	To            string
	Name          string
	ReceiptNumber string
	TrackingURL   string
	PickupDate    time.Time
}

// PickupScheduled tells the customer when USPS collects their package.
func (n *Notifier) PickupScheduled(ctx context.Context, p PickupParams) error {
	subject := "DCTransistor Shipment Scheduled"
	date := p.PickupDate.Format(emailDateFormat)

	text := fmt.Sprintf("Hi %s,\n\nUSPS will pick up your order (receipt %s) by %s.\nTrack your shipment: %s\n\nThank you!",
		p.Name, p.ReceiptNumber, date, p.TrackingURL)

	html := `
<html>
  <body style="font-family: sans-serif;">
    <h2>Shipment scheduled</h2>
    <p>Hi ` + p.Name + `,</p>
    <p>USPS will pick up your order (receipt #` + p.ReceiptNumber + `) by <strong>` + date + `</strong>.</p>
    <p><a href="` + p.TrackingURL + `">Track your shipment</a></p>
    <p>Thank you for supporting DCTransistor!</p>
  </body>
</html>
`
	return n.send(ctx, p.To, subject, html, text)
}

type LocalPickupParams struct {
	To            string
	Name          string
	ReceiptNumber string
	ReceiptURL    string
}

// LocalPickupConfirmation confirms a local-pickup order; the operator
// follows up separately to arrange a time.
func (n *Notifier) LocalPickupConfirmation(ctx context.Context, p LocalPickupParams) error {
	subject := "Confirmation: DCTransistor Board Order " + p.ReceiptNumber

	text := fmt.Sprintf("Hi %s,\n\nYour DCTransistor board order (receipt %s) is confirmed for local pickup. We'll reach out shortly to arrange a time.\n\nReceipt: %s\n\nThank you!",
		p.Name, p.ReceiptNumber, p.ReceiptURL)

	html := `
<html>
  <body style="font-family: sans-serif;">
    <h2>Order confirmed</h2>
    <p>Hi ` + p.Name + `,</p>
    <p>Your DCTransistor board order (receipt #` + p.ReceiptNumber + `) is confirmed for local pickup in the DC area. We'll reach out shortly to arrange a time.</p>
    <p><a href="` + p.ReceiptURL + `">View your receipt</a></p>
    <p>Thank you for supporting DCTransistor!</p>
  </body>
</html>
`
	return n.send(ctx, p.To, subject, html, text)
}

// OperatorLocalPickupAlert nudges the operator to follow up on a new
// local-pickup order.
func (n *Notifier) OperatorLocalPickupAlert(ctx context.Context, receiptNumber string) error {
	return n.send(ctx, n.operator, "NEW LOCAL PICKUP", "", "Receipt "+receiptNumber)
}

func (n *Notifier) send(ctx context.Context, to, subject, html, text string) error {
	return n.mail.Send(ctx, mailer.Email{
		From:     n.from,
		FromName: n.fromName,
		ReplyTo:  n.from,
		To:       []string{to},
		Subject:  subject,
		HTMLBody: html,
		TextBody: text,
	})
}
