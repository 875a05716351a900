package receipt

import "errors"

var (
	ErrNoConsentLine   = errors.New("receipt: email sharing consent line not found")
	ErrNoAmountTable   = errors.New("receipt: description/amount table cells not found")
	ErrNoAmountCharged = errors.New("receipt: amount charged line not found")
	ErrMalformedCell   = errors.New("receipt: malformed table cell")
	ErrBadAmount       = errors.New("receipt: unparseable amount")
)
