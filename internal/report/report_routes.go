package report

import "github.com/gin-gonic/gin"

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	reports := r.Group("/reports")
	{
		reports.GET("/attendance", h.Download)
		reports.GET("/attendance/preview", h.Preview)
	}
}
