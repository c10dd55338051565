package httpx

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// AmountText is the raw amount as typed. It accepts a JSON string or a JSON
// number and keeps the literal text either way.
type AmountText string

func (a *AmountText) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*a = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*a = AmountText(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("amount must be a string or a number")
	}
	*a = AmountText(n.String())
	return nil
}

type ReservationRequest struct {
	Amount        AmountText `json:"amount"`
	Service       string     `json:"service"`
	PaymentMethod string     `json:"payment_method"`
	Origin        string     `json:"origin,omitempty"`
	Destination   string     `json:"destination,omitempty"`
	Date          string     `json:"date,omitempty"`
	Time          string     `json:"time,omitempty"`
}

type PaymentRequest struct {
	Amount        AmountText `json:"amount"`
	PaymentMethod string     `json:"payment_method"`
}

type RouteResponse struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	Schedule    string `json:"schedule"`
}

type ValidatedRequestResponse struct {
	Service       string         `json:"service"`
	PaymentMethod string         `json:"payment_method"`
	Amount        string         `json:"amount"`
	Route         *RouteResponse `json:"route,omitempty"`
}

type SummaryResponse struct {
	Succeeded bool   `json:"succeeded"`
	Message   string `json:"message"`
	Price     string `json:"price,omitempty"`
}

type ReservationResponse struct {
	ReservationID string                   `json:"reservation_id"`
	Request       ValidatedRequestResponse `json:"request"`
	Reservation   SummaryResponse          `json:"reservation"`
	Payment       SummaryResponse          `json:"payment"`
}

type RoutePriceResponse struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	Price       string `json:"price"`
}

type RoutesResponse struct {
	Routes        []RoutePriceResponse `json:"routes"`
	Origins       []string             `json:"origins"`
	Destinations  []string             `json:"destinations"`
	FallbackPrice string               `json:"fallback_price"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	// Reservation is set when the pipeline started and was rolled back.
	Reservation *ReservationResponse `json:"reservation,omitempty"`
}
