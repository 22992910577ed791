package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"github.com/prepmate/interview-server-go/internal/model"
	redisclient "github.com/prepmate/interview-server-go/internal/redis"
)

func testRedisClient(t *testing.T) *redisclient.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	return &redisclient.Client{Client: goredis.NewClient(&goredis.Options{Addr: mr.Addr()})}
}

func TestRedisRateLimiter(t *testing.T) {
	ctx := context.Background()

	t.Run("allows requests under the limit", func(t *testing.T) {
		limiter := NewRedisRateLimiter(testRedisClient(t))

		for i := 0; i < 3; i++ {
			allowed, _, _ := limiter.Check(ctx, "user-1", 3)
			assert.True(t, allowed, "request %d should be allowed", i+1)
		}
	})

	t.Run("blocks once the limit is reached", func(t *testing.T) {
		limiter := NewRedisRateLimiter(testRedisClient(t))

		for i := 0; i < 2; i++ {
			limiter.Check(ctx, "user-1", 2)
		}
		allowed, remaining, _ := limiter.Check(ctx, "user-1", 2)

		assert.False(t, allowed)
		assert.Zero(t, remaining)
	})

	t.Run("callers are limited independently", func(t *testing.T) {
		limiter := NewRedisRateLimiter(testRedisClient(t))

		limiter.Check(ctx, "user-1", 1)
		allowed, _, _ := limiter.Check(ctx, "user-2", 1)

		assert.True(t, allowed)
	})

	t.Run("fails open when redis is unreachable", func(t *testing.T) {
		client := &redisclient.Client{Client: goredis.NewClient(&goredis.Options{Addr: "127.0.0.1:1"})}
		limiter := NewRedisRateLimiter(client)

		allowed, _, _ := limiter.Check(ctx, "user-1", 1)
		assert.True(t, allowed)
	})
}

func TestRedisRateLimitMiddleware(t *testing.T) {
	t.Run("keys by authenticated user and sets headers", func(t *testing.T) {
		mw := NewRedisRateLimitMiddleware(testRedisClient(t), 1)
		handler := mw.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

		user := &model.User{ID: "user-1"}
		makeReq := func() *httptest.ResponseRecorder {
			req := httptest.NewRequest(http.MethodPost, "/", nil)
			req = req.WithContext(context.WithValue(req.Context(), UserContextKey, user))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			return rec
		}

		first := makeReq()
		assert.Equal(t, http.StatusOK, first.Code)
		assert.Equal(t, "1", first.Header().Get("X-RateLimit-Limit"))

		second := makeReq()
		assert.Equal(t, http.StatusTooManyRequests, second.Code)
		assert.Equal(t, "60", second.Header().Get("Retry-After"))
	})

	t.Run("anonymous requests are keyed by client ip", func(t *testing.T) {
		mw := NewRedisRateLimitMiddleware(testRedisClient(t), 1)
		handler := mw.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)

		req2 := httptest.NewRequest(http.MethodPost, "/", nil)
		req2.RemoteAddr = "10.0.0.1:5678"
		rec2 := httptest.NewRecorder()
		handler.ServeHTTP(rec2, req2)
		assert.Equal(t, http.StatusTooManyRequests, rec2.Code)

		req3 := httptest.NewRequest(http.MethodPost, "/", nil)
		req3.RemoteAddr = "10.0.0.2:1234"
		rec3 := httptest.NewRecorder()
		handler.ServeHTTP(rec3, req3)
		assert.Equal(t, http.StatusOK, rec3.Code)
	})
}
