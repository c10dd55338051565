// Package catalog books agency services. Hotels and cars always confirm;
// flights are priced from a fixed route table.
package catalog

import (
	"fmt"

	"github.com/jcmexdev/travel-agency/internal/agency/domain"
)

const (
	hotelConfirmation = "Hotel booked successfully."
	carConfirmation   = "Car rented successfully."
)

// Catalog resolves service bookings against a price table.
type Catalog struct {
	prices *PriceTable
}

// New returns a Catalog backed by prices. A nil table uses DefaultPriceTable.
func New(prices *PriceTable) *Catalog {
	if prices == nil {
		prices = DefaultPriceTable()
	}
	return &Catalog{prices: prices}
}

// Prices exposes the table the catalog books against.
func (c *Catalog) Prices() *PriceTable { return c.prices }

// Book reserves a service of the given kind. Flights require a route with
// distinct origin and destination.
//
// On failure the returned result carries the error text so presentation
// layers can render it directly.
func (c *Catalog) Book(kind domain.ServiceKind, route *domain.RouteInfo) (domain.ReservationResult, error) {
	switch kind {
	case domain.ServiceHotel:
		return domain.ReservationResult{Succeeded: true, Message: hotelConfirmation}, nil
	case domain.ServiceCar:
		return domain.ReservationResult{Succeeded: true, Message: carConfirmation}, nil
	case domain.ServiceFlight:
		return c.bookFlight(route)
	default:
		return failed(fmt.Errorf("book %q: %w", kind, domain.ErrUnknownService))
	}
}

func (c *Catalog) bookFlight(route *domain.RouteInfo) (domain.ReservationResult, error) {
	if route == nil || route.Origin == "" || route.Destination == "" {
		return failed(fmt.Errorf("book flight: %w", domain.ErrInvalidRoute))
	}
	if route.Origin == route.Destination {
		return failed(fmt.Errorf("book flight %s -> %s: %w", route.Origin, route.Destination, domain.ErrInvalidRoute))
	}

	price := c.prices.Lookup(route.Origin, route.Destination)
	return domain.ReservationResult{
		Succeeded: true,
		Message: fmt.Sprintf("Flight booked: %s -> %s, departing %s, fare %s.",
			route.Origin, route.Destination, route.Schedule(), domain.FormatAmount(price)),
		Price: price,
	}, nil
}

func failed(err error) (domain.ReservationResult, error) {
	return domain.ReservationResult{Succeeded: false, Message: err.Error()}, err
}
