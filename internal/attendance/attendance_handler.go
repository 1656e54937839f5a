package attendance

import (
	"net/http"
	"time"

	"go-otta/internal/middleware"
	"go-otta/internal/shared/apperror"
	"go-otta/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const defaultTick = time.Second

type Handler struct {
	service Service
	rdb     *redis.Client
	tick    time.Duration
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service, tick: defaultTick}
}

// NewHandlerWithRedis enables idempotent check-in replay.
func NewHandlerWithRedis(service Service, rdb *redis.Client) *Handler {
	return &Handler{service: service, rdb: rdb, tick: defaultTick}
}

// WithTick changes the live summary refresh interval.
func (h *Handler) WithTick(d time.Duration) *Handler {
	if d > 0 {
		h.tick = d
	}
	return h
}

func writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) CheckIn(c *gin.Context) {
	lockKey, _ := c.Get("idempotency_lock_key")
	cacheKey, _ := c.Get("idempotency_cache_key")

	if h.rdb != nil {
		if lk, ok := lockKey.(string); ok && lk != "" {
			defer h.rdb.Del(c.Request.Context(), lk)
		}
	}

	resp, err := h.service.CheckIn(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	if h.rdb != nil {
		if ck, ok := cacheKey.(string); ok && ck != "" {
			_ = middleware.CacheResponse(c.Request.Context(), h.rdb, ck, http.StatusCreated, resp)
		}
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) CheckOut(c *gin.Context) {
	resp, err := h.service.CheckOut(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) ManualEntry(c *gin.Context) {
	var req ManualEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpErr := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, http.StatusBadRequest, apperror.CodeValidation, httpErr.Message, err.Error())
		return
	}

	resp, err := h.service.ManualEntry(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) GetActive(c *gin.Context) {
	resp, err := h.service.GetActive(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) ListByUser(c *gin.Context) {
	resp, err := h.service.ListByUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	page, pageSize := response.PageParams(c, 10)
	items, meta := response.Paginate(resp, page, pageSize)
	response.Success(c, http.StatusOK, items, &meta)
}

func (h *Handler) Today(c *gin.Context) {
	resp, err := h.service.Today(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

// TodayStream pushes the recomputed summary every tick until the client
// goes away. It never writes to the ledger.
func (h *Handler) TodayStream(c *gin.Context) {
	ctx := c.Request.Context()
	userID := c.Param("id")

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	ticker := time.NewTicker(h.tick)
	defer ticker.Stop()

	for {
		resp, err := h.service.Today(ctx, userID)
		if err != nil {
			c.SSEvent("error", apperror.ToHTTP(err).Message)
			c.Writer.Flush()
			return
		}
		c.SSEvent("tick", resp)
		c.Writer.Flush()

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
