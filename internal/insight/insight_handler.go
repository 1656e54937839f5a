package insight

import (
	"net/http"

	"go-otta/internal/shared/apperror"
	"go-otta/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Analyze(c *gin.Context) {
	resp, err := h.service.Analyze(c.Request.Context())
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func RegisterRoutes(r *gin.RouterGroup, h *Handler, guards ...gin.HandlerFunc) {
	handlers := append(guards, h.Analyze)
	r.POST("/insights", handlers...)
}
