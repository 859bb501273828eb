package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/classroom-behavior-api/internal/middleware"
	"github.com/noah-isme/classroom-behavior-api/internal/models"
	"github.com/noah-isme/classroom-behavior-api/internal/service"
	"github.com/noah-isme/classroom-behavior-api/pkg/response"
)

// EntryHandler exposes behavior entry endpoints.
type EntryHandler struct {
	entries *service.EntryService
}

// NewEntryHandler constructs EntryHandler.
func NewEntryHandler(entries *service.EntryService) *EntryHandler {
	return &EntryHandler{entries: entries}
}

// List godoc
// @Summary List behavior entries, newest first
// @Tags Entries
// @Produce json
// @Param studentId query string false "Filter by student"
// @Param behaviorId query string false "Filter by behavior"
// @Param start query string false "Inclusive lower bound (RFC3339 or YYYY-MM-DD)"
// @Param end query string false "Inclusive upper bound (RFC3339 or YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /entries [get]
func (h *EntryHandler) List(c *gin.Context) {
	start, end, err := parseRangeQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	filter := models.BehaviorEntryFilter{
		StudentID:  strings.TrimSpace(c.Query("studentId")),
		BehaviorID: strings.TrimSpace(c.Query("behaviorId")),
		DateFrom:   start,
		DateTo:     end,
	}
	entries, err := h.entries.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}

// Create godoc
// @Summary Log a behavior for a student
// @Tags Entries
// @Accept json
// @Produce json
// @Param X-Teacher-ID header string false "Acting teacher"
// @Param payload body service.LogEntryRequest true "Entry payload"
// @Success 201 {object} response.Envelope
// @Router /entries [post]
func (h *EntryHandler) Create(c *gin.Context) {
	var req service.LogEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	entry, err := h.entries.Log(c.Request.Context(), req, middleware.TeacherID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, entry)
}

// Today godoc
// @Summary Entries logged today with positive/negative counts
// @Tags Entries
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /entries/today [get]
func (h *EntryHandler) Today(c *gin.Context) {
	summary, err := h.entries.Today(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}
