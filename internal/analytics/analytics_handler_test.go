package analytics_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-otta/internal/analytics"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeService struct {
	summaryFn  func(ctx context.Context) (analytics.SummaryResponse, error)
	activityFn func(ctx context.Context, limit int) ([]analytics.ActivityResponse, error)
}

func (f *fakeService) Summary(ctx context.Context) (analytics.SummaryResponse, error) {
	return f.summaryFn(ctx)
}
func (f *fakeService) Activity(ctx context.Context, limit int) ([]analytics.ActivityResponse, error) {
	return f.activityFn(ctx, limit)
}

func serve(svc analytics.Service, target string) *httptest.ResponseRecorder {
	r := gin.New()
	analytics.RegisterRoutes(r.Group("/api/v1"), analytics.NewHandler(svc))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestHandler_Summary(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := &fakeService{
		summaryFn: func(ctx context.Context) (analytics.SummaryResponse, error) {
			return analytics.SummaryResponse{TotalHours: 12.5, UniqueEmployees: 2}, nil
		},
	}

	w := serve(svc, "/api/v1/analytics/summary")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"totalHours":12.5`)
}

func TestHandler_Summary_Failure(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := &fakeService{
		summaryFn: func(ctx context.Context) (analytics.SummaryResponse, error) {
			return analytics.SummaryResponse{}, errors.New("boom")
		},
	}

	w := serve(svc, "/api/v1/analytics/summary")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
}

func TestHandler_Activity(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var gotLimit int
	svc := &fakeService{
		activityFn: func(ctx context.Context, limit int) ([]analytics.ActivityResponse, error) {
			gotLimit = limit
			return []analytics.ActivityResponse{{ID: "a"}}, nil
		},
	}

	w := serve(svc, "/api/v1/analytics/activity?limit=20")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 20, gotLimit)

	w = serve(svc, "/api/v1/analytics/activity")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, gotLimit)

	w = serve(svc, "/api/v1/analytics/activity?limit=5000")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
