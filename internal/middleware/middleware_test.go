package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-otta/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/time/rate"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestContextLogger_PropagatesIDs(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	r := gin.New()
	var gotRID string
	r.GET("/users/:id/today", ContextLogger(zap.New(core)), func(c *gin.Context) {
		gotRID = contextutil.GetRequestID(c.Request.Context())
		contextutil.GetLogger(c.Request.Context(), nil).Info("handled")
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/users/u1/today", nil)
	req.Header.Set("X-Request-ID", "rid-42")
	r.ServeHTTP(w, req)

	assert.Equal(t, "rid-42", gotRID)
	if assert.Equal(t, 1, logs.Len()) {
		fields := logs.All()[0].ContextMap()
		assert.Equal(t, "u1", fields["user_id"])
		assert.Equal(t, "rid-42", fields["request_id"])
	}
	assert.Equal(t, "rid-42", w.Header().Get("X-Request-ID"))
}

func TestContextLogger_GeneratesID(t *testing.T) {
	r := gin.New()
	r.GET("/healthz", ContextLogger(zap.NewNop()), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestIdempotency_FirstRequestTakesLock(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	cacheKey := "idemp:/users/:id/check-in:u1:k1"

	mock.ExpectGet(cacheKey).RedisNil()
	mock.ExpectSetNX(cacheKey+":lock", "locked", 30*time.Second).SetVal(true)

	r := gin.New()
	var seenCacheKey string
	r.POST("/users/:id/check-in", Idempotency(rdb), func(c *gin.Context) {
		seenCacheKey = c.GetString("idempotency_cache_key")
		c.Status(http.StatusCreated)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/users/u1/check-in", nil)
	req.Header.Set("Idempotency-Key", "k1")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, cacheKey, seenCacheKey)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIdempotency_ReplaysCachedResponse(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	cacheKey := "idemp:/users/:id/check-in:u1:k1"
	mock.ExpectGet(cacheKey).SetVal(`{"status":201,"data":{"id":"log-1"}}`)

	r := gin.New()
	called := false
	r.POST("/users/:id/check-in", Idempotency(rdb), func(c *gin.Context) { called = true })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/users/u1/check-in", nil)
	req.Header.Set("Idempotency-Key", "k1")
	r.ServeHTTP(w, req)

	assert.False(t, called)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"ok":true,"data":{"id":"log-1"}}`, w.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIdempotency_ConcurrentDuplicate(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	cacheKey := "idemp:/users/:id/check-in:u1:k1"
	mock.ExpectGet(cacheKey).RedisNil()
	mock.ExpectSetNX(cacheKey+":lock", "locked", 30*time.Second).SetVal(false)

	r := gin.New()
	r.POST("/users/:id/check-in", Idempotency(rdb), func(c *gin.Context) { c.Status(http.StatusCreated) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/users/u1/check-in", nil)
	req.Header.Set("Idempotency-Key", "k1")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "PROCESSING")
}

func TestIdempotency_NoKeyPassesThrough(t *testing.T) {
	rdb, mock := redismock.NewClientMock()

	r := gin.New()
	r.POST("/users/:id/check-in", Idempotency(rdb), func(c *gin.Context) { c.Status(http.StatusCreated) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/users/u1/check-in", nil))

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRateLimitByUser(t *testing.T) {
	r := gin.New()
	r.POST("/users/:id/check-out", RateLimitByUser(rate.Limit(0.001), 1), func(c *gin.Context) { c.Status(http.StatusOK) })

	do := func(id string) int {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/users/"+id+"/check-out", nil))
		return w.Code
	}

	assert.Equal(t, http.StatusOK, do("u1"))
	assert.Equal(t, http.StatusTooManyRequests, do("u1"))
	assert.Equal(t, http.StatusOK, do("u3"), "buckets are per user")
}

func TestCacheResponse_StoresStatusWithData(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	cacheKey := "idemp:/users/:id/check-in:u1:k1"
	mock.ExpectSet(cacheKey, []byte(`{"status":201,"data":{"id":"log-1"}}`), 24*time.Hour).SetVal("OK")

	err := CacheResponse(context.Background(), rdb, cacheKey, http.StatusCreated, map[string]string{"id": "log-1"})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
