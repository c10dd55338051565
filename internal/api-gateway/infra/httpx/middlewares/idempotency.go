package middlewares

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/jcmexdev/travel-agency/internal/pkg/cache"
	"github.com/jcmexdev/travel-agency/internal/pkg/interceptors/constants"
)

// HeaderReplayed marks a response served from the idempotency cache.
const HeaderReplayed = "Idempotent-Replayed"

// ErrorInProgress is the error code returned while another request with the
// same key is still running.
const ErrorInProgress = "request_in_progress"

// pendingMarker holds a claimed key until its response is stored.
const pendingMarker = "pending"

type storedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// Idempotency replays the stored response of a POST carrying an
// X-Idempotency-Key it has already seen.
//
// The first request claims the key with SetNX before running the handler.
// A concurrent request with the same key gets 409 request_in_progress
// instead of running the handler a second time. Responses with a 5xx status
// release the claim so the client can retry. Cache failures are logged and
// the request is served normally.
func Idempotency(c cache.Cache, ttl time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(constants.HeaderXIdempotencyKey)
			if r.Method != http.MethodPost || key == "" {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			cacheKey := c.Key(r.Method+" "+r.URL.Path, key)

			raw, found, err := c.Get(ctx, cacheKey)
			if err != nil {
				slog.WarnContext(ctx, "idempotency lookup failed", "key", key, "error", err)
			}
			if found {
				if raw == pendingMarker {
					inProgress(w)
					return
				}
				var stored storedResponse
				if err := json.Unmarshal([]byte(raw), &stored); err == nil {
					replay(w, stored)
					return
				}
				slog.WarnContext(ctx, "discarding unreadable idempotency entry", "key", key)
				if err := c.Delete(ctx, cacheKey); err != nil {
					slog.WarnContext(ctx, "idempotency delete failed", "key", key, "error", err)
				}
			}

			claimed, err := c.SetNX(ctx, cacheKey, pendingMarker, ttl)
			if err != nil {
				slog.WarnContext(ctx, "idempotency claim failed", "key", key, "error", err)
				next.ServeHTTP(w, r)
				return
			}
			if !claimed {
				inProgress(w)
				return
			}

			stored := false
			defer func() {
				if !stored {
					release(context.WithoutCancel(ctx), c, cacheKey, key)
				}
			}()

			var body bytes.Buffer
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			ww.Tee(&body)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			if status >= http.StatusInternalServerError {
				return
			}

			b, err := json.Marshal(storedResponse{
				Status:      status,
				ContentType: ww.Header().Get("Content-Type"),
				Body:        body.Bytes(),
			})
			if err != nil {
				return
			}
			if err := c.Set(context.WithoutCancel(ctx), cacheKey, string(b), ttl); err != nil {
				slog.WarnContext(ctx, "idempotency store failed", "key", key, "error", err)
				return
			}
			stored = true
		})
	}
}

func release(ctx context.Context, c cache.Cache, cacheKey, key string) {
	if err := c.Delete(ctx, cacheKey); err != nil {
		slog.WarnContext(ctx, "idempotency release failed", "key", key, "error", err)
	}
}

func replay(w http.ResponseWriter, stored storedResponse) {
	if stored.ContentType != "" {
		w.Header().Set("Content-Type", stored.ContentType)
	}
	w.Header().Set(HeaderReplayed, "true")
	w.WriteHeader(stored.Status)
	_, _ = w.Write(stored.Body)
}

func inProgress(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusConflict)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   ErrorInProgress,
		"message": "a request with this idempotency key is still being processed",
	})
}
