package handler

import (
	"bytes"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/classroom-behavior-api/internal/models"
	"github.com/noah-isme/classroom-behavior-api/internal/service"
	appErrors "github.com/noah-isme/classroom-behavior-api/pkg/errors"
	"github.com/noah-isme/classroom-behavior-api/pkg/response"
)

// maxImportBytes bounds a roster upload.
const maxImportBytes = 2 << 20

// StudentHandler exposes student endpoints.
type StudentHandler struct {
	students *service.StudentService
}

// NewStudentHandler constructs StudentHandler.
func NewStudentHandler(students *service.StudentService) *StudentHandler {
	return &StudentHandler{students: students}
}

// List godoc
// @Summary List students
// @Tags Students
// @Produce json
// @Param search query string false "Search by name"
// @Param classId query string false "Filter by class"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /students [get]
func (h *StudentHandler) List(c *gin.Context) {
	var filter models.StudentFilter
	filter.Search = strings.TrimSpace(c.Query("search"))
	filter.ClassID = strings.TrimSpace(c.Query("classId"))
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}

	students, pagination, err := h.students.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students, pagination)
}

// Get godoc
// @Summary Get student
// @Tags Students
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id} [get]
func (h *StudentHandler) Get(c *gin.Context) {
	student, err := h.students.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student, nil)
}

// Create godoc
// @Summary Create student
// @Tags Students
// @Accept json
// @Produce json
// @Param payload body service.CreateStudentRequest true "Student payload"
// @Success 201 {object} response.Envelope
// @Router /students [post]
func (h *StudentHandler) Create(c *gin.Context) {
	var req service.CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	student, err := h.students.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, student)
}

type batchStudentsRequest struct {
	Students []service.CreateStudentRequest `json:"students"`
}

// CreateBatch godoc
// @Summary Create several students at once
// @Tags Students
// @Accept json
// @Produce json
// @Param payload body batchStudentsRequest true "Students"
// @Success 201 {object} response.Envelope
// @Router /students/batch [post]
func (h *StudentHandler) CreateBatch(c *gin.Context) {
	var req batchStudentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	students, err := h.students.CreateBatch(c.Request.Context(), req.Students)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, students)
}

type importStudentsRequest struct {
	CSV string `json:"csv"`
}

// Import godoc
// @Summary Import students from a CSV roster
// @Description Accepts a raw text/csv body or JSON {"csv": "..."}.
// @Tags Students
// @Accept text/csv
// @Accept json
// @Produce json
// @Success 201 {object} response.Envelope
// @Router /students/import [post]
func (h *StudentHandler) Import(c *gin.Context) {
	var source io.Reader
	if strings.HasPrefix(c.ContentType(), "application/json") {
		var req importStudentsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, invalidPayload(err))
			return
		}
		source = strings.NewReader(req.CSV)
	} else {
		body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxImportBytes+1))
		if err != nil {
			response.Error(c, invalidPayload(err))
			return
		}
		if len(body) > maxImportBytes {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "csv upload is too large"))
			return
		}
		source = bytes.NewReader(body)
	}

	students, err := h.students.ImportCSV(c.Request.Context(), source)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, students, nil, map[string]interface{}{"imported": len(students)})
}

// Template godoc
// @Summary Download the roster CSV template
// @Tags Students
// @Produce text/csv
// @Success 200 {file} file
// @Router /students/import/template [get]
func (h *StudentHandler) Template(c *gin.Context) {
	response.Attachment(c, "students_template.csv", "text/csv", []byte(h.students.CSVTemplate()))
}

// Delete godoc
// @Summary Delete student and their entries
// @Tags Students
// @Produce json
// @Param id path string true "Student ID"
// @Success 204
// @Router /students/{id} [delete]
func (h *StudentHandler) Delete(c *gin.Context) {
	if err := h.students.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Dashboard godoc
// @Summary Student dashboard with all-time stats and history
// @Tags Students
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/dashboard [get]
func (h *StudentHandler) Dashboard(c *gin.Context) {
	dashboard, err := h.students.Dashboard(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dashboard, nil)
}
