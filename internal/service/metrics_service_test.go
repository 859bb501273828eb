package service

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/classroom-behavior-api/internal/models"
)

func TestMetricsServiceSnapshot(t *testing.T) {
	m := NewMetricsService()
	m.ObserveHTTPRequest(http.MethodGet, "/api/v1/students", 200, 10*time.Millisecond)
	m.ObserveHTTPRequest(http.MethodGet, "/api/v1/students", 200, 30*time.Millisecond)
	m.ObserveStorage("get_many", 2*time.Millisecond)
	m.RecordEntryLogged(models.BehaviorPositive)
	m.RecordEntryLogged(models.BehaviorPositive)
	m.RecordEntryLogged(models.BehaviorNegative)

	snap := m.Snapshot()
	assert.Equal(t, uint64(2), snap.RequestsTotal)
	assert.InDelta(t, 20.0, snap.AverageRequestDurationMs, 0.001)
	assert.Equal(t, uint64(1), snap.StorageOperations)
	assert.Equal(t, int64(2), snap.EntriesLogged["positive"])
	assert.Equal(t, int64(1), snap.EntriesLogged["negative"])
}

func TestMetricsServiceHandlerExposesCollectors(t *testing.T) {
	m := NewMetricsService()
	m.RecordEntryLogged(models.BehaviorNegative)
	m.RecordReport("summary")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `behavior_entries_logged_total{type="negative"} 1`)
	assert.Contains(t, rec.Body.String(), `behavior_reports_generated_total{kind="summary"} 1`)

	var nilMetrics *MetricsService
	nilMetrics.RecordEntryLogged(models.BehaviorPositive)
	rec = httptest.NewRecorder()
	nilMetrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
