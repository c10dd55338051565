package httpx

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jcmexdev/travel-agency/internal/api-gateway/infra/httpx/middlewares"
	"github.com/jcmexdev/travel-agency/internal/pkg/cache"
)

// IdempotencyTTL is how long a replayable response is kept.
const IdempotencyTTL = 24 * time.Hour

// NewRouter builds the gateway routes. idem may be nil to disable
// idempotent replays.
func NewRouter(handler *Handler, idem cache.Cache) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middlewares.AttachTracingMetadata)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", handler.Health)

	r.Group(func(r chi.Router) {
		if idem != nil {
			r.Use(middlewares.Idempotency(idem, IdempotencyTTL))
		}
		r.Post("/reservations", handler.Reserve)
		r.Post("/reservations/validate", handler.Validate)
		r.Post("/payments", handler.Pay)
	})

	r.Get("/routes", handler.ListRoutes)
	r.Get("/routes/{origin}/{destination}/price", handler.RoutePrice)
	return r
}
