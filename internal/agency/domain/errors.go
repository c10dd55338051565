package domain

import "errors"

// kindError is a comparable domain error carrying a classification kind.
// Values compare by kind and message, so errors.Is works through wrapping.
type kindError struct {
	kind string
	msg  string
}

func (e kindError) Error() string { return e.msg }
func (e kindError) Kind() string  { return e.kind }

var (
	ErrEmptyAmount             = kindError{kind: "empty_amount", msg: "amount is required"}
	ErrNotANumber              = kindError{kind: "not_a_number", msg: "amount is not a valid number"}
	ErrNonPositiveAmount       = kindError{kind: "non_positive_amount", msg: "amount must be greater than zero"}
	ErrUnknownService          = kindError{kind: "unknown_service", msg: "unknown service"}
	ErrInvalidRoute            = kindError{kind: "invalid_route", msg: "origin and destination must be set and differ"}
	ErrInvalidSchedule         = kindError{kind: "invalid_schedule", msg: "flight date or time is invalid"}
	ErrUnknownPaymentMethod    = kindError{kind: "unknown_payment_method", msg: "unknown payment method"}
	ErrNoPaymentMethodSelected = kindError{kind: "no_payment_method", msg: "no payment method selected"}
	ErrProviderUnavailable     = kindError{kind: "provider_unavailable", msg: "payment provider unavailable"}
)

var byKind = map[string]error{}

func init() {
	for _, err := range []kindError{
		ErrEmptyAmount,
		ErrNotANumber,
		ErrNonPositiveAmount,
		ErrUnknownService,
		ErrInvalidRoute,
		ErrInvalidSchedule,
		ErrUnknownPaymentMethod,
		ErrNoPaymentMethodSelected,
		ErrProviderUnavailable,
	} {
		byKind[err.kind] = err
	}
}

// ErrorByKind returns the domain error registered for kind.
// It is used to rebuild errors that crossed a process boundary.
func ErrorByKind(kind string) (error, bool) {
	err, ok := byKind[kind]
	return err, ok
}

// KindOf returns the kind of the first domain error in err's chain.
func KindOf(err error) (string, bool) {
	var k interface{ Kind() string }
	if !errors.As(err, &k) {
		return "", false
	}
	return k.Kind(), true
}
