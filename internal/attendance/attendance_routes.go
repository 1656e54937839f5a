package attendance

import (
	"go-otta/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RegisterRoutes mounts the attendance endpoints under /users/:id. guards
// run before every mutating route.
func RegisterRoutes(r *gin.RouterGroup, h *Handler, rdb *redis.Client, guards ...gin.HandlerFunc) {
	users := r.Group("/users/:id")
	{
		users.GET("/logs", h.ListByUser)
		users.GET("/logs/active", h.GetActive)
		users.GET("/today", h.Today)
		users.GET("/today/stream", h.TodayStream)

		checkIn := append([]gin.HandlerFunc{}, guards...)
		if rdb != nil {
			checkIn = append(checkIn, middleware.Idempotency(rdb))
		}
		users.POST("/check-in", append(checkIn, h.CheckIn)...)
		users.POST("/check-out", append(append([]gin.HandlerFunc{}, guards...), h.CheckOut)...)
		users.POST("/logs", append(append([]gin.HandlerFunc{}, guards...), h.ManualEntry)...)
	}
}
