package report_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-otta/internal/report"
	reporterrors "go-otta/internal/report/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeService struct {
	exportFn  func(ctx context.Context, start, end string) (report.Export, error)
	previewFn func(ctx context.Context, start, end string) (report.PreviewResponse, error)
}

func (f *fakeService) Export(ctx context.Context, start, end string) (report.Export, error) {
	return f.exportFn(ctx, start, end)
}
func (f *fakeService) Preview(ctx context.Context, start, end string) (report.PreviewResponse, error) {
	return f.previewFn(ctx, start, end)
}

func serve(h *report.Handler, target string) *httptest.ResponseRecorder {
	r := gin.New()
	report.RegisterRoutes(r.Group("/api/v1"), h)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestHandler_Download(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := &fakeService{
		exportFn: func(ctx context.Context, start, end string) (report.Export, error) {
			assert.Equal(t, "2024-03-01", start)
			assert.Equal(t, "2024-03-07", end)
			return report.Export{FileName: report.FileName(start, end), Body: []byte("PK-data")}, nil
		},
	}

	w := serve(report.NewHandler(svc), "/api/v1/reports/attendance?start=2024-03-01&end=2024-03-07")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, report.ContentTypeXLSX, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "Attendance_Report_2024-03-01_to_2024-03-07.xlsx")
	assert.Equal(t, "PK-data", w.Body.String())
}

func TestHandler_Download_NoData(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := &fakeService{
		exportFn: func(ctx context.Context, start, end string) (report.Export, error) {
			return report.Export{}, reporterrors.ErrNoReportData
		},
	}

	w := serve(report.NewHandler(svc), "/api/v1/reports/attendance?start=2024-03-01&end=2024-03-07")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "No data found.")
}

func TestHandler_MissingRange(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := serve(report.NewHandler(&fakeService{}), "/api/v1/reports/attendance?start=2024-03-01")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
}

func TestHandler_Preview(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := &fakeService{
		previewFn: func(ctx context.Context, start, end string) (report.PreviewResponse, error) {
			return report.PreviewResponse{
				FileName: report.FileName(start, end),
				Sheets:   []report.Sheet{{Name: "Alex Rivera", Rows: []report.Row{{NatureOfWork: "ABSENT"}}}},
			}, nil
		},
	}

	w := serve(report.NewHandler(svc), "/api/v1/reports/attendance/preview?start=2024-03-01&end=2024-03-01")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"natureOfWork":"ABSENT"`)
}
