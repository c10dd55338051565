package httpx

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/jcmexdev/travel-agency/internal/agency/app"
	"github.com/jcmexdev/travel-agency/internal/agency/domain"
	"github.com/jcmexdev/travel-agency/internal/agency/validator"
	"github.com/jcmexdev/travel-agency/internal/api-gateway/core/ports"
	"github.com/jcmexdev/travel-agency/internal/pkg/interceptors"
)

// Handler serves the reservation API.
type Handler struct {
	service ports.ReservationService
}

func NewHandler(service ports.ReservationService) *Handler {
	return &Handler{service: service}
}

// Reserve validates, books and pays in one call.
func (h *Handler) Reserve(w http.ResponseWriter, r *http.Request) {
	var req ReservationRequest
	if !decode(w, r, &req) {
		return
	}

	ctx := r.Context()
	slog.InfoContext(ctx, "reservation requested",
		"request_id", interceptors.RequestID(ctx), "service", req.Service)

	out, err := h.service.Reserve(ctx, toInput(req))
	if err != nil {
		status, code := statusFor(err)
		resp := ErrorResponse{Error: code, Message: err.Error()}
		if out.ReservationID != uuid.Nil {
			rolledBack := mapOutcome(out)
			resp.Reservation = &rolledBack
		}
		writeJSON(w, status, resp)
		return
	}

	writeJSON(w, http.StatusCreated, mapOutcome(out))
}

// Validate checks the request without booking or paying.
func (h *Handler) Validate(w http.ResponseWriter, r *http.Request) {
	var req ReservationRequest
	if !decode(w, r, &req) {
		return
	}

	validated, err := h.service.ValidateRequest(toInput(req))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapRequest(validated))
}

// Pay runs a payment on its own.
func (h *Handler) Pay(w http.ResponseWriter, r *http.Request) {
	var req PaymentRequest
	if !decode(w, r, &req) {
		return
	}

	amount, err := validator.ParseAmount(string(req.Amount))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	method, err := domain.ParsePaymentMethod(req.PaymentMethod)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	res, err := h.service.ProcessPayment(r.Context(), method, amount)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SummaryResponse{Succeeded: res.Succeeded, Message: res.Message})
}

// ListRoutes returns the price table.
func (h *Handler) ListRoutes(w http.ResponseWriter, r *http.Request) {
	table := h.service.Prices()

	routes := table.Routes()
	resp := RoutesResponse{
		Routes:        make([]RoutePriceResponse, len(routes)),
		Origins:       table.Origins(),
		Destinations:  table.Destinations(),
		FallbackPrice: table.Fallback().StringFixed(2),
	}
	for i, rp := range routes {
		resp.Routes[i] = RoutePriceResponse{
			Origin:      rp.Origin,
			Destination: rp.Destination,
			Price:       rp.Price.StringFixed(2),
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// RoutePrice looks up a single fare. Unlisted routes get the fallback price.
func (h *Handler) RoutePrice(w http.ResponseWriter, r *http.Request) {
	origin := pathParam(r, "origin")
	destination := pathParam(r, "destination")

	price := h.service.Prices().Lookup(origin, destination)
	writeJSON(w, http.StatusOK, RoutePriceResponse{
		Origin:      origin,
		Destination: destination,
		Price:       price.StringFixed(2),
	})
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func toInput(req ReservationRequest) validator.Input {
	return validator.Input{
		Amount:      string(req.Amount),
		Service:     req.Service,
		Payment:     req.PaymentMethod,
		Origin:      req.Origin,
		Destination: req.Destination,
		Date:        req.Date,
		Time:        req.Time,
	}
}

func mapRequest(req domain.ReservationRequest) ValidatedRequestResponse {
	out := ValidatedRequestResponse{
		Service:       req.Service.String(),
		PaymentMethod: req.Method.String(),
		Amount:        req.Amount.String(),
	}
	if req.Route != nil {
		out.Route = &RouteResponse{
			Origin:      req.Route.Origin,
			Destination: req.Route.Destination,
			Schedule:    req.Route.Schedule(),
		}
	}
	return out
}

func mapOutcome(out app.Outcome) ReservationResponse {
	reservation := SummaryResponse{
		Succeeded: out.Reservation.Succeeded,
		Message:   out.Reservation.Message,
	}
	if out.Request.Service == domain.ServiceFlight {
		reservation.Price = out.Reservation.Price.StringFixed(2)
	}

	return ReservationResponse{
		ReservationID: out.ReservationID.String(),
		Request:       mapRequest(out.Request),
		Reservation:   reservation,
		Payment: SummaryResponse{
			Succeeded: out.Payment.Succeeded,
			Message:   out.Payment.Message,
		},
	}
}

func pathParam(r *http.Request, name string) string {
	v := chi.URLParam(r, name)
	if unescaped, err := url.PathUnescape(v); err == nil {
		return unescaped
	}
	return v
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return false
	}
	return true
}

func writeDomainError(w http.ResponseWriter, err error) {
	status, code := statusFor(err)
	writeError(w, status, code, err.Error())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, ErrorResponse{
		Error:   code,
		Message: msg,
	})
}
