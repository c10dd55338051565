package httpx

import (
	"net/http"

	"github.com/jcmexdev/travel-agency/internal/agency/domain"
)

var kindToStatus = map[string]int{
	"empty_amount":           http.StatusBadRequest,
	"not_a_number":           http.StatusBadRequest,
	"non_positive_amount":    http.StatusBadRequest,
	"unknown_service":        http.StatusBadRequest,
	"invalid_route":          http.StatusBadRequest,
	"invalid_schedule":       http.StatusBadRequest,
	"unknown_payment_method": http.StatusBadRequest,
	"no_payment_method":      http.StatusBadRequest,
	"provider_unavailable":   http.StatusServiceUnavailable,
}

// statusFor returns the HTTP status and error code for err.
func statusFor(err error) (int, string) {
	kind, ok := domain.KindOf(err)
	if !ok {
		return http.StatusInternalServerError, "internal_error"
	}
	if status, ok := kindToStatus[kind]; ok {
		return status, kind
	}
	return http.StatusInternalServerError, kind
}
