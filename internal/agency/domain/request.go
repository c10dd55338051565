package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ScheduleLayout is how a flight departure is rendered in summaries.
const ScheduleLayout = "2006-01-02 15:04"

// RouteInfo is the flight-only payload of a reservation.
type RouteInfo struct {
	Origin      string
	Destination string
	// DepartsAt is zero when the customer left the schedule open.
	DepartsAt time.Time
}

// Schedule renders the departure date and time for display.
func (r RouteInfo) Schedule() string {
	if r.DepartsAt.IsZero() {
		return "date to be confirmed"
	}
	return r.DepartsAt.Format(ScheduleLayout)
}

// ReservationRequest is a validated reservation ready for booking and payment.
// Route is non-nil only for flights.
type ReservationRequest struct {
	Service ServiceKind
	Route   *RouteInfo
	Amount  decimal.Decimal
	Method  PaymentMethod
}

// ReservationResult is the outcome of booking a service.
type ReservationResult struct {
	Succeeded bool
	Message   string
	// Price is the resolved route price; zero for non-flight services.
	Price decimal.Decimal
}

// PaymentResult is the outcome of a payment.
type PaymentResult struct {
	Succeeded bool
	Message   string
}
