package report

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

func writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func bindRange(c *gin.Context) (RangeQuery, bool) {
	var q RangeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httpErr := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, http.StatusBadRequest, apperror.CodeValidation, httpErr.Message, err.Error())
		return q, false
	}
	return q, true
}

func (h *Handler) Download(c *gin.Context) {
	q, ok := bindRange(c)
	if !ok {
		return
	}

	export, err := h.service.Export(c.Request.Context(), q.Start, q.End)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Attachment(c, export.FileName, ContentTypeXLSX, export.Body)
}

func (h *Handler) Preview(c *gin.Context) {
	q, ok := bindRange(c)
	if !ok {
		return
	}

	resp, err := h.service.Preview(c.Request.Context(), q.Start, q.End)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}
