package user

import (
	"go-otta/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	users := r.Group("/users")
	{
		users.GET("", handler.GetAll)
		users.POST("",
			middleware.RateLimitByIP(0.5, 3),
			handler.Create,
		)
		users.DELETE("/:id",
			middleware.RateLimitByIP(0.5, 3),
			handler.Delete,
		)
	}

	session := r.Group("/session")
	{
		session.GET("", handler.GetSession)
		session.PUT("", handler.StartSession)
		session.DELETE("", handler.EndSession)
	}

	theme := r.Group("/theme")
	{
		theme.GET("", handler.GetTheme)
		theme.PUT("", handler.SetTheme)
	}
}
