package handler

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/classroom-behavior-api/internal/middleware"
	"github.com/noah-isme/classroom-behavior-api/internal/models"
	"github.com/noah-isme/classroom-behavior-api/internal/service"
	appErrors "github.com/noah-isme/classroom-behavior-api/pkg/errors"
)

type reportServiceMock struct {
	summary   *models.ClassSummaryReport
	hit       bool
	err       error
	lastClass string
	lastStart *time.Time
	lastEnd   *time.Time
}

func (m *reportServiceMock) StudentReport(ctx context.Context, studentID string, start, end *time.Time) (*models.StudentReportView, bool, error) {
	return &models.StudentReportView{Student: models.Student{ID: studentID}}, m.hit, m.err
}

func (m *reportServiceMock) ClassSummary(ctx context.Context, classID string, start, end *time.Time) (*models.ClassSummaryReport, bool, error) {
	m.lastClass, m.lastStart, m.lastEnd = classID, start, end
	return m.summary, m.hit, m.err
}

func (m *reportServiceMock) StudentSummaries(ctx context.Context, start, end *time.Time) (*models.StudentSummaryReport, bool, error) {
	return &models.StudentSummaryReport{}, m.hit, m.err
}

type exportServiceMock struct {
	file   *service.ExportFile
	err    error
	format string
}

func (m *exportServiceMock) StudentReport(ctx context.Context, studentID string, start, end *time.Time, format string) (*service.ExportFile, error) {
	m.format = format
	return m.file, m.err
}

func (m *exportServiceMock) StudentSummaries(ctx context.Context, start, end *time.Time, format string) (*service.ExportFile, error) {
	m.format = format
	return m.file, m.err
}

func newGinContext(method, path string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func TestReportHandlerSummaryCacheHit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &reportServiceMock{summary: &models.ClassSummaryReport{ClassID: "c1"}, hit: true}
	h := NewReportHandler(mockSvc, nil)

	c, w := newGinContext(http.MethodGet, "/reports/summary?classId=c1&start=2024-05-01&end=2024-05-07", nil)
	h.Summary(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"cache_hit":true`)
	assert.Equal(t, "c1", mockSvc.lastClass)
	require.NotNil(t, mockSvc.lastStart)
	require.NotNil(t, mockSvc.lastEnd)
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), *mockSvc.lastStart)
	assert.Equal(t, time.Date(2024, 5, 7, 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC), *mockSvc.lastEnd)
}

func TestReportHandlerRejectsBadDate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewReportHandler(&reportServiceMock{}, nil)

	c, w := newGinContext(http.MethodGet, "/reports/students?end=05/07/2024", nil)
	h.Students(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReportHandlerPropagatesServiceError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewReportHandler(&reportServiceMock{err: appErrors.Clone(appErrors.ErrNotFound, "student not found")}, nil)

	c, w := newGinContext(http.MethodGet, "/reports/students/s9", nil)
	c.Params = gin.Params{{Key: "id", Value: "s9"}}
	h.Student(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReportHandlerExport(t *testing.T) {
	gin.SetMode(gin.TestMode)
	exports := &exportServiceMock{file: &service.ExportFile{Filename: "behavior_report_ada_20240515.pdf", ContentType: "application/pdf", Data: []byte("%PDF-1.3")}}
	h := NewReportHandler(nil, exports)

	c, w := newGinContext(http.MethodGet, "/reports/students/s1/export?format=pdf", nil)
	c.Params = gin.Params{{Key: "id", Value: "s1"}}
	h.ExportStudent(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pdf", exports.format)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="behavior_report_ada_20240515.pdf"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "%PDF-1.3", w.Body.String())

	exports.err = errors.New("disk full")
	c, w = newGinContext(http.MethodGet, "/reports/students/export", nil)
	h.ExportStudents(c)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestReportHandlerWithoutService(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewReportHandler(nil, nil)

	c, w := newGinContext(http.MethodGet, "/reports/summary", nil)
	h.Summary(c)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestMetricsHandlerReady(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewMetricsHandler(service.NewMetricsService(), map[string]ReadinessCheck{
		"storage": func(ctx context.Context) error { return nil },
		"cache":   func(ctx context.Context) error { return errors.New("connection refused") },
	})

	c, w := newGinContext(http.MethodGet, "/ready", nil)
	h.Ready(c)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"cache":"connection refused"`)
	assert.Contains(t, w.Body.String(), `"storage":"ok"`)

	h = NewMetricsHandler(nil, nil)
	c, w = newGinContext(http.MethodGet, "/ready", nil)
	h.Ready(c)
	assert.Equal(t, http.StatusOK, w.Code)

	c, w = newGinContext(http.MethodGet, "/metrics", nil)
	h.Prometheus(c)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestResponseMetaMiddlewareUsedByReports(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.WithResponseMeta())
	h := NewReportHandler(&reportServiceMock{summary: &models.ClassSummaryReport{}}, nil)
	r.GET("/reports/summary", h.Summary)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/reports/summary", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"cache_hit":false`)
}
