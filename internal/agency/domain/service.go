// Package domain holds the value types shared by the reservation pipeline:
// service kinds, payment methods, routes, requests and their results.
package domain

import "strings"

// ServiceKind identifies a bookable service.
type ServiceKind string

const (
	ServiceHotel  ServiceKind = "hotel"
	ServiceCar    ServiceKind = "car"
	ServiceFlight ServiceKind = "flight"
)

var serviceAliases = map[string]ServiceKind{
	"hotel":  ServiceHotel,
	"car":    ServiceCar,
	"auto":   ServiceCar,
	"flight": ServiceFlight,
	"vuelo":  ServiceFlight,
}

// ParseServiceKind maps a user selection to a ServiceKind.
// Matching is case-insensitive and accepts the agency's Spanish labels.
func ParseServiceKind(raw string) (ServiceKind, error) {
	kind, ok := serviceAliases[strings.ToLower(strings.TrimSpace(raw))]
	if !ok {
		return "", ErrUnknownService
	}
	return kind, nil
}

// Valid reports whether k is one of the known kinds.
func (k ServiceKind) Valid() bool {
	switch k {
	case ServiceHotel, ServiceCar, ServiceFlight:
		return true
	}
	return false
}

func (k ServiceKind) String() string { return string(k) }
