// Package validator turns raw form input into a ReservationRequest.
package validator

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jcmexdev/travel-agency/internal/agency/domain"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"

	// MaxAmountDigits bounds the integer part of an amount.
	MaxAmountDigits = 12
)

// amountPattern is plain decimal notation with at most two fractional
// digits. Exponents are not accepted.
var amountPattern = regexp.MustCompile(fmt.Sprintf(`^-?(\d{1,%d}(\.\d{1,2})?|\.\d{1,2})$`, MaxAmountDigits))

// Input is the raw text collected by a presentation layer.
// Route and schedule fields are ignored unless Service is a flight.
type Input struct {
	Amount      string
	Service     string
	Payment     string
	Origin      string
	Destination string
	Date        string
	Time        string
}

// Validate checks in and returns a request ready for booking and payment.
//
// The amount is checked first, then the service, the payment method and,
// for flights, the route and schedule. The first failure is returned.
func Validate(in Input) (domain.ReservationRequest, error) {
	amount, err := ParseAmount(in.Amount)
	if err != nil {
		return domain.ReservationRequest{}, err
	}

	kind, err := domain.ParseServiceKind(in.Service)
	if err != nil {
		return domain.ReservationRequest{}, fmt.Errorf("service %q: %w", in.Service, err)
	}

	method, err := domain.ParsePaymentMethod(in.Payment)
	if err != nil {
		return domain.ReservationRequest{}, fmt.Errorf("payment %q: %w", in.Payment, err)
	}

	req := domain.ReservationRequest{
		Service: kind,
		Amount:  amount,
		Method:  method,
	}
	if kind != domain.ServiceFlight {
		return req, nil
	}

	route, err := parseRoute(in)
	if err != nil {
		return domain.ReservationRequest{}, err
	}
	req.Route = route
	return req, nil
}

// ParseAmount parses amount text as a decimal greater than zero.
// Surrounding whitespace is ignored. Only plain notation with up to
// MaxAmountDigits integer digits and two fractional digits is accepted,
// so every valid amount renders in cents without loss.
func ParseAmount(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Decimal{}, domain.ErrEmptyAmount
	}
	if !amountPattern.MatchString(s) {
		return decimal.Decimal{}, fmt.Errorf("amount %q: %w", s, domain.ErrNotANumber)
	}

	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("amount %q: %w", s, domain.ErrNotANumber)
	}
	if !amount.IsPositive() {
		return decimal.Decimal{}, fmt.Errorf("amount %s: %w", s, domain.ErrNonPositiveAmount)
	}
	return amount, nil
}

func parseRoute(in Input) (*domain.RouteInfo, error) {
	origin := strings.TrimSpace(in.Origin)
	destination := strings.TrimSpace(in.Destination)

	if origin == "" || destination == "" {
		return nil, fmt.Errorf("route: %w", domain.ErrInvalidRoute)
	}
	if origin == destination {
		return nil, fmt.Errorf("route %s -> %s: %w", origin, destination, domain.ErrInvalidRoute)
	}

	departs, err := parseSchedule(in.Date, in.Time)
	if err != nil {
		return nil, err
	}

	return &domain.RouteInfo{
		Origin:      origin,
		Destination: destination,
		DepartsAt:   departs,
	}, nil
}

// parseSchedule combines an optional date and time. A time without a date is
// rejected; a date without a time departs at midnight.
func parseSchedule(rawDate, rawTime string) (time.Time, error) {
	d := strings.TrimSpace(rawDate)
	tm := strings.TrimSpace(rawTime)

	switch {
	case d == "" && tm == "":
		return time.Time{}, nil
	case d == "":
		return time.Time{}, fmt.Errorf("time %q without a date: %w", tm, domain.ErrInvalidSchedule)
	case tm == "":
		day, err := time.Parse(dateLayout, d)
		if err != nil {
			return time.Time{}, fmt.Errorf("date %q: %w", d, domain.ErrInvalidSchedule)
		}
		return day, nil
	}

	departs, err := time.Parse(dateLayout+" "+timeLayout, d+" "+tm)
	if err != nil {
		return time.Time{}, fmt.Errorf("schedule %q %q: %w", d, tm, domain.ErrInvalidSchedule)
	}
	return departs, nil
}
