package middlewares

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/travel-agency/internal/pkg/interceptors"
)

type memoryCache struct {
	mu     sync.Mutex
	values map[string]string
	err    error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{values: make(map[string]string)}
}

func (c *memoryCache) Get(_ context.Context, key string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return "", false, c.err
	}
	v, ok := c.values[key]
	return v, ok, nil
}

func (c *memoryCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.values[key] = value
	return nil
}

func (c *memoryCache) SetNX(_ context.Context, key, value string, _ time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return false, c.err
	}
	if _, ok := c.values[key]; ok {
		return false, nil
	}
	c.values[key] = value
	return true, nil
}

func (c *memoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	delete(c.values, key)
	return nil
}

func (c *memoryCache) Key(operation, key string) string {
	return "test:" + operation + ":" + key
}

func countingHandler(status int) (http.Handler, *int) {
	calls := 0
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = fmt.Fprintf(w, `{"call":%d}`, calls)
	}), &calls
}

func post(h http.Handler, path, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, nil)
	if key != "" {
		req.Header.Set("X-Idempotency-Key", key)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestIdempotency_ReplaysStoredResponse(t *testing.T) {
	c := newMemoryCache()
	next, calls := countingHandler(http.StatusCreated)
	h := Idempotency(c, time.Minute)(next)

	first := post(h, "/reservations", "abc")
	second := post(h, "/reservations", "abc")

	assert.Equal(t, 1, *calls)
	assert.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, "application/json", second.Header().Get("Content-Type"))
	assert.Equal(t, "true", second.Header().Get(HeaderReplayed))
	assert.Empty(t, first.Header().Get(HeaderReplayed))
	assert.Contains(t, c.values, "test:POST /reservations:abc")
}

func TestIdempotency_KeysAreScopedByPath(t *testing.T) {
	next, calls := countingHandler(http.StatusOK)
	h := Idempotency(newMemoryCache(), time.Minute)(next)

	post(h, "/reservations", "abc")
	post(h, "/payments", "abc")
	assert.Equal(t, 2, *calls)
}

func TestIdempotency_PassThrough(t *testing.T) {
	t.Run("no_key", func(t *testing.T) {
		next, calls := countingHandler(http.StatusOK)
		h := Idempotency(newMemoryCache(), time.Minute)(next)
		post(h, "/payments", "")
		post(h, "/payments", "")
		assert.Equal(t, 2, *calls)
	})

	t.Run("server_errors_are_not_stored", func(t *testing.T) {
		c := newMemoryCache()
		next, calls := countingHandler(http.StatusServiceUnavailable)
		h := Idempotency(c, time.Minute)(next)
		post(h, "/reservations", "k")
		post(h, "/reservations", "k")
		assert.Equal(t, 2, *calls)
		assert.Empty(t, c.values)
	})

	t.Run("cache_down", func(t *testing.T) {
		c := newMemoryCache()
		c.err = errors.New("connection refused")
		next, calls := countingHandler(http.StatusCreated)
		h := Idempotency(c, time.Minute)(next)
		rec := post(h, "/reservations", "k")
		post(h, "/reservations", "k")
		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, 2, *calls)
	})

	t.Run("corrupt_entry", func(t *testing.T) {
		c := newMemoryCache()
		c.values["test:POST /reservations:k"] = "not json"
		next, calls := countingHandler(http.StatusCreated)
		h := Idempotency(c, time.Minute)(next)
		post(h, "/reservations", "k")
		replayed := post(h, "/reservations", "k")
		assert.Equal(t, 1, *calls)
		assert.Equal(t, "true", replayed.Header().Get(HeaderReplayed))
	})
}

func TestIdempotency_ConcurrentRequestIsRejected(t *testing.T) {
	c := newMemoryCache()
	entered := make(chan struct{})
	unblock := make(chan struct{})
	var calls atomic.Int32
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			close(entered)
			<-unblock
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"reservation":"r-1"}`))
	})
	h := Idempotency(c, time.Minute)(next)

	done := make(chan *httptest.ResponseRecorder)
	go func() { done <- post(h, "/reservations", "abc") }()
	<-entered

	dup := post(h, "/reservations", "abc")
	assert.Equal(t, http.StatusConflict, dup.Code)
	assert.JSONEq(t, `{"error":"request_in_progress","message":"a request with this idempotency key is still being processed"}`,
		dup.Body.String())

	close(unblock)
	first := <-done
	require.Equal(t, http.StatusCreated, first.Code)

	replayed := post(h, "/reservations", "abc")
	assert.Equal(t, http.StatusCreated, replayed.Code)
	assert.Equal(t, "true", replayed.Header().Get(HeaderReplayed))
	assert.Equal(t, first.Body.String(), replayed.Body.String())
	assert.Equal(t, int32(1), calls.Load())
}

func TestIdempotency_ClaimedByOtherInstance(t *testing.T) {
	c := newMemoryCache()
	c.values["test:POST /payments:k"] = pendingMarker
	next, calls := countingHandler(http.StatusOK)
	h := Idempotency(c, time.Minute)(next)

	rec := post(h, "/payments", "k")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, 0, *calls)
}

func TestIdempotency_PanicReleasesClaim(t *testing.T) {
	c := newMemoryCache()
	h := Idempotency(c, time.Minute)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	assert.Panics(t, func() { post(h, "/reservations", "k") })
	assert.Empty(t, c.values)
}

func TestAttachTracingMetadata(t *testing.T) {
	var requestID, idemKey string
	h := middleware.RequestID(AttachTracingMetadata(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID = interceptors.RequestID(r.Context())
		idemKey = interceptors.IdempotencyKey(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})))

	rec := post(h, "/reservations", "key-1")

	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.NotEmpty(t, requestID)
	assert.Equal(t, "key-1", idemKey)
}
