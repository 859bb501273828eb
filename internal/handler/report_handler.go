package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/classroom-behavior-api/internal/middleware"
	"github.com/noah-isme/classroom-behavior-api/internal/models"
	"github.com/noah-isme/classroom-behavior-api/internal/service"
	appErrors "github.com/noah-isme/classroom-behavior-api/pkg/errors"
	"github.com/noah-isme/classroom-behavior-api/pkg/response"
)

type reportService interface {
	StudentReport(ctx context.Context, studentID string, start, end *time.Time) (*models.StudentReportView, bool, error)
	ClassSummary(ctx context.Context, classID string, start, end *time.Time) (*models.ClassSummaryReport, bool, error)
	StudentSummaries(ctx context.Context, start, end *time.Time) (*models.StudentSummaryReport, bool, error)
}

type exportService interface {
	StudentReport(ctx context.Context, studentID string, start, end *time.Time, format string) (*service.ExportFile, error)
	StudentSummaries(ctx context.Context, start, end *time.Time, format string) (*service.ExportFile, error)
}

// ReportHandler serves computed behavior reports and their file exports.
type ReportHandler struct {
	reports reportService
	exports exportService
}

// NewReportHandler constructs the report handler.
func NewReportHandler(reports reportService, exports exportService) *ReportHandler {
	return &ReportHandler{reports: reports, exports: exports}
}

func (h *ReportHandler) respond(c *gin.Context, data interface{}, cacheHit bool) {
	middleware.SetCacheHit(c, cacheHit)
	response.JSON(c, http.StatusOK, data, nil, middleware.ExtractMeta(c))
}

// Summary godoc
// @Summary Positive/negative summary across all students or one class
// @Tags Reports
// @Produce json
// @Param classId query string false "Restrict to one class"
// @Param start query string false "Period start (RFC3339 or YYYY-MM-DD)"
// @Param end query string false "Period end (RFC3339 or YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /reports/summary [get]
func (h *ReportHandler) Summary(c *gin.Context) {
	if h.reports == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	start, end, err := parseRangeQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	summary, hit, err := h.reports.ClassSummary(c.Request.Context(), strings.TrimSpace(c.Query("classId")), start, end)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.respond(c, summary, hit)
}

// Students godoc
// @Summary Per-student counts and scores for a period
// @Tags Reports
// @Produce json
// @Param start query string false "Period start (RFC3339 or YYYY-MM-DD)"
// @Param end query string false "Period end (RFC3339 or YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /reports/students [get]
func (h *ReportHandler) Students(c *gin.Context) {
	if h.reports == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	start, end, err := parseRangeQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	summaries, hit, err := h.reports.StudentSummaries(c.Request.Context(), start, end)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.respond(c, summaries, hit)
}

// Student godoc
// @Summary Full behavior report for one student
// @Tags Reports
// @Produce json
// @Param id path string true "Student ID"
// @Param start query string false "Period start (RFC3339 or YYYY-MM-DD)"
// @Param end query string false "Period end (RFC3339 or YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /reports/students/{id} [get]
func (h *ReportHandler) Student(c *gin.Context) {
	if h.reports == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	start, end, err := parseRangeQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	view, hit, err := h.reports.StudentReport(c.Request.Context(), c.Param("id"), start, end)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.respond(c, view, hit)
}

// ExportStudent godoc
// @Summary Download one student's report
// @Tags Reports
// @Produce text/csv
// @Produce application/pdf
// @Param id path string true "Student ID"
// @Param format query string false "csv (default) or pdf"
// @Param start query string false "Period start (RFC3339 or YYYY-MM-DD)"
// @Param end query string false "Period end (RFC3339 or YYYY-MM-DD)"
// @Success 200 {file} file
// @Router /reports/students/{id}/export [get]
func (h *ReportHandler) ExportStudent(c *gin.Context) {
	if h.exports == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	start, end, err := parseRangeQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	file, err := h.exports.StudentReport(c.Request.Context(), c.Param("id"), start, end, c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Data)
}

// ExportStudents godoc
// @Summary Download the per-student summary table
// @Tags Reports
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv (default) or pdf"
// @Param start query string false "Period start (RFC3339 or YYYY-MM-DD)"
// @Param end query string false "Period end (RFC3339 or YYYY-MM-DD)"
// @Success 200 {file} file
// @Router /reports/students/export [get]
func (h *ReportHandler) ExportStudents(c *gin.Context) {
	if h.exports == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	start, end, err := parseRangeQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	file, err := h.exports.StudentSummaries(c.Request.Context(), start, end, c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Data)
}
