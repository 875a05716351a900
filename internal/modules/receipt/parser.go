// Package receipt extracts order fields from the payment processor's HTML
// receipts. The extraction is positional pattern matching against the
// vendor's current markup; the fixtures under testdata/ act as the contract
// with that format, and a vendor change is expected to surface here as
// parse errors, not silently elsewhere.
package receipt

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const (
	MethodUSPSPriority     = "USPS Priority"
	MethodUSPSFirstClass   = "USPS First Class"
	MethodUSPSParcelSelect = "USPS Parcel Select"
	MethodLocalPickup      = "Local Pickup"
)

// Receipt is the structured result of parsing one receipt document.
type Receipt struct {
	Product            string
	SubtotalCents      int
	ShippingCents      int
	AmountChargedCents int
	ShippingMethod     string
	ShareEmailConsent  string // "Yes" or "No"
}

var (
	descRe    = regexp.MustCompile(`(?m)class="Table-description.*\n.*`)
	amountRe  = regexp.MustCompile(`(?m)class="Table-amount.*\n.*`)
	consentRe = regexp.MustCompile(`Share email with USPS for shipping updates:</strong>.*`)

	plainCellRe  = regexp.MustCompile(`\n\s+[$\w\d].*`)
	plainTextRe  = regexp.MustCompile(`[^\s$].*`)
	strongCellRe = regexp.MustCompile(`<strong>.*<`)
	strongInner  = regexp.MustCompile(`>.*<`)
	strongTextRe = regexp.MustCompile(`[^<>:$]+`)

	consentTailRe = regexp.MustCompile(`>.*`)
	wordRe        = regexp.MustCompile(`\w+`)
)

// Parse scans receipt markup for the known table anchors. It returns a
// typed error when an expected anchor is missing so a format change in the
// vendor's receipts fails loudly.
func Parse(html string) (Receipt, error) {
	var r Receipt

	consent := consentRe.FindString(html)
	if consent == "" {
		return Receipt{}, ErrNoConsentLine
	}
	r.ShareEmailConsent = wordRe.FindString(consentTailRe.FindString(consent))

	descs := descRe.FindAllString(html, -1)
	amounts := amountRe.FindAllString(html, -1)
	if len(amounts) == 0 || len(descs) == 0 {
		return Receipt{}, ErrNoAmountTable
	}

	n := len(amounts)
	if len(descs) < n {
		n = len(descs)
	}

	for i := 0; i < n; i++ {
		line, err := cellText(descs[i])
		if err != nil {
			return Receipt{}, fmt.Errorf("description cell %d: %w", i, err)
		}

		switch {
		case strings.Contains(line, "DCTransistor"):
			r.Product = line

		case line == "Subtotal":
			if r.SubtotalCents, err = amountCents(amounts[i]); err != nil {
				return Receipt{}, fmt.Errorf("subtotal: %w", err)
			}

		case strings.Contains(line, "Shipping"):
			if r.ShippingCents, err = amountCents(amounts[i]); err != nil {
				return Receipt{}, fmt.Errorf("shipping: %w", err)
			}
			if strings.Contains(line, "USPS Priority Mail") {
				r.ShippingMethod = MethodUSPSPriority
			} else {
				r.ShippingMethod = MethodLocalPickup
			}

		case line == "Amount charged":
			if r.AmountChargedCents, err = amountCents(amounts[i]); err != nil {
				return Receipt{}, fmt.Errorf("amount charged: %w", err)
			}
		}
	}

	if r.AmountChargedCents == 0 {
		return Receipt{}, ErrNoAmountCharged
	}
	return r, nil
}

// cellText strips markup from one matched table cell. Values sit either on
// the line following the class attribute or inside a <strong> tag.
func cellText(cell string) (string, error) {
	if !strings.Contains(cell, "<strong>") {
		sub := plainCellRe.FindString(cell)
		if sub == "" {
			return "", ErrMalformedCell
		}
		out := plainTextRe.FindString(sub)
		if out == "" {
			return "", ErrMalformedCell
		}
		return out, nil
	}

	sub := strongCellRe.FindString(cell)
	if sub == "" {
		return "", ErrMalformedCell
	}
	out := strongTextRe.FindString(strongInner.FindString(sub))
	if out == "" {
		return "", ErrMalformedCell
	}
	return out, nil
}

func amountCents(cell string) (int, error) {
	text, err := cellText(cell)
	if err != nil {
		return 0, err
	}
	return parseCents(text)
}

// parseCents converts a money string like "1,024.50" to integer cents.
func parseCents(s string) (int, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "$"))
	s = strings.ReplaceAll(s, ",", "")

	whole, frac, _ := strings.Cut(s, ".")
	dollars, err := strconv.Atoi(whole)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrBadAmount, s)
	}

	cents := 0
	if frac != "" {
		if len(frac) > 2 {
			frac = frac[:2]
		}
		for len(frac) < 2 {
			frac += "0"
		}
		if cents, err = strconv.Atoi(frac); err != nil {
			return 0, fmt.Errorf("%w: %q", ErrBadAmount, s)
		}
	}
	return dollars*100 + cents, nil
}
