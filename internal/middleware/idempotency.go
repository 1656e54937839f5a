package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go-otta/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	idempotencyLockTTL  = 30 * time.Second
	idempotencyCacheTTL = 24 * time.Hour
)

// CachedResponse is what a replay writes back: the original status and the
// envelope data.
type CachedResponse struct {
	Status int             `json:"status"`
	Data   json.RawMessage `json:"data"`
}

// CacheResponse stores data under cacheKey so a retry with the same
// Idempotency-Key gets the same status and body.
func CacheResponse(ctx context.Context, rdb *redis.Client, cacheKey string, status int, data any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(CachedResponse{Status: status, Data: raw})
	if err != nil {
		return err
	}
	return rdb.Set(ctx, cacheKey, payload, idempotencyCacheTTL).Err()
}

// Idempotency replays the cached response of a POST that carried the same
// Idempotency-Key, and rejects a duplicate that arrives while the first is
// still running. The handler stores the response under
// "idempotency_cache_key" and releases "idempotency_lock_key".
func Idempotency(rdb *redis.Client) gin.HandlerFunc {
	log := zap.L().Named("middleware.idempotency")

	return func(c *gin.Context) {
		idempKey := c.GetHeader("Idempotency-Key")
		if idempKey == "" || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		cacheKey := fmt.Sprintf("idemp:%s:%s:%s", c.FullPath(), c.Param("id"), idempKey)
		lockKey := cacheKey + ":lock"

		val, err := rdb.Get(c.Request.Context(), cacheKey).Result()
		if err == nil {
			var cached CachedResponse
			if jsonErr := json.Unmarshal([]byte(val), &cached); jsonErr == nil && cached.Status != 0 {
				log.Debug("idempotent replay", zap.String("cache_key", cacheKey), zap.Int("status", cached.Status))
				response.Success(c, cached.Status, cached.Data, nil)
				c.Abort()
				return
			}
		}

		isNew, err := rdb.SetNX(c.Request.Context(), lockKey, "locked", idempotencyLockTTL).Result()
		if err != nil {
			// redis down: process normally rather than refuse attendance
			log.Warn("idempotency lock failed", zap.Error(err))
			c.Next()
			return
		}
		if !isNew {
			response.Error(c, http.StatusConflict, "PROCESSING", "A request with this Idempotency-Key is still being processed", nil)
			c.Abort()
			return
		}

		c.Set("idempotency_cache_key", cacheKey)
		c.Set("idempotency_lock_key", lockKey)

		c.Next()
	}
}
