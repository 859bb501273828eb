package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/classroom-behavior-api/internal/models"
	"github.com/noah-isme/classroom-behavior-api/internal/reporting"
	"github.com/noah-isme/classroom-behavior-api/pkg/csvimport"
	appErrors "github.com/noah-isme/classroom-behavior-api/pkg/errors"
)

const maxBatchSize = 500

// CreateStudentRequest holds payload for creating students.
type CreateStudentRequest struct {
	Name    string  `json:"name" validate:"required,max=120"`
	Email   *string `json:"email" validate:"omitempty,email"`
	ClassID *string `json:"class_id"`
}

func (r *CreateStudentRequest) normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = trimOptional(r.Email)
	r.ClassID = trimOptional(r.ClassID)
}

func trimOptional(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// StudentService handles roster use-cases.
type StudentService struct {
	store     collectionStore
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
	now       Clock
}

// NewStudentService constructs the student service.
func NewStudentService(store collectionStore, cache *CacheService, validate *validator.Validate, logger *zap.Logger, now Clock) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if now == nil {
		now = systemClock
	}
	return &StudentService{store: store, cache: cache, validator: validate, logger: logger, now: now}
}

// List returns students and pagination metadata.
func (s *StudentService) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, *models.Pagination, error) {
	ds, err := s.store.Load(ctx)
	if err != nil {
		return nil, nil, storeError(err, "failed to list students")
	}

	search := strings.ToLower(strings.TrimSpace(filter.Search))
	matched := make([]models.Student, 0, len(ds.Students))
	for _, st := range ds.Students {
		if search != "" && !strings.Contains(strings.ToLower(st.Name), search) {
			continue
		}
		if filter.ClassID != "" && (st.ClassID == nil || *st.ClassID != filter.ClassID) {
			continue
		}
		matched = append(matched, st)
	}

	page, size := normalizePagination(filter.Page, filter.PageSize)
	start := (page - 1) * size
	if start > len(matched) {
		start = len(matched)
	}
	end := start + size
	if end > len(matched) {
		end = len(matched)
	}
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: len(matched)}
	return matched[start:end], pagination, nil
}

// Get returns a single student.
func (s *StudentService) Get(ctx context.Context, id string) (*models.Student, error) {
	ds, err := s.store.Load(ctx)
	if err != nil {
		return nil, storeError(err, "failed to load student")
	}
	student, ok := ds.FindStudent(id)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	return student, nil
}

// Create registers a new student.
func (s *StudentService) Create(ctx context.Context, req CreateStudentRequest) (*models.Student, error) {
	created, err := s.CreateBatch(ctx, []CreateStudentRequest{req})
	if err != nil {
		return nil, err
	}
	return &created[0], nil
}

// CreateBatch registers several students in one write. Either all are stored or none.
func (s *StudentService) CreateBatch(ctx context.Context, reqs []CreateStudentRequest) ([]models.Student, error) {
	if len(reqs) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "at least one student is required")
	}
	if len(reqs) > maxBatchSize {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("at most %d students per batch", maxBatchSize))
	}
	for i := range reqs {
		reqs[i].normalize()
		if err := s.validator.Struct(reqs[i]); err != nil {
			msg := "invalid student payload"
			if len(reqs) > 1 {
				msg = fmt.Sprintf("invalid student payload at index %d", i)
			}
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, msg)
		}
	}

	created := make([]models.Student, len(reqs))
	now := s.now()
	for i, req := range reqs {
		created[i] = models.Student{
			ID:        newID(),
			Name:      req.Name,
			ClassID:   req.ClassID,
			Email:     req.Email,
			CreatedAt: now,
		}
	}

	_, err := s.store.Update(ctx, func(ds *models.Dataset) ([]models.Collection, error) {
		ds.Students = append(ds.Students, created...)
		return []models.Collection{models.CollectionStudents}, nil
	})
	if err != nil {
		return nil, storeError(err, "failed to create students")
	}
	s.cache.InvalidateReports(ctx)
	return created, nil
}

// ImportCSV parses a roster upload and stores every named row. Class labels
// are matched to existing classes by name, ignoring case; unmatched labels
// leave the student without a class.
func (s *StudentService) ImportCSV(ctx context.Context, r io.Reader) ([]models.Student, error) {
	rows, err := csvimport.ParseStudents(r)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}
	if len(rows) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "no students found in csv")
	}

	ds, err := s.store.Load(ctx)
	if err != nil {
		return nil, storeError(err, "failed to load classes")
	}
	classByName := make(map[string]string, len(ds.Classes))
	for _, c := range ds.Classes {
		key := strings.ToLower(strings.TrimSpace(c.Name))
		if _, exists := classByName[key]; !exists {
			classByName[key] = c.ID
		}
	}

	reqs := make([]CreateStudentRequest, len(rows))
	unmatched := 0
	for i, row := range rows {
		reqs[i] = CreateStudentRequest{Name: row.Name, Email: row.Email}
		if row.ClassName == "" {
			continue
		}
		if id, ok := classByName[strings.ToLower(row.ClassName)]; ok {
			classID := id
			reqs[i].ClassID = &classID
		} else {
			unmatched++
		}
	}

	created, err := s.CreateBatch(ctx, reqs)
	if err != nil {
		return nil, err
	}
	s.logger.Info("imported students from csv", zap.Int("count", len(created)), zap.Int("unmatched_classes", unmatched))
	return created, nil
}

// CSVTemplate returns a sample roster file.
func (s *StudentService) CSVTemplate() string {
	return csvimport.Template
}

// Delete removes a student and every entry logged for them in one write.
func (s *StudentService) Delete(ctx context.Context, id string) error {
	removed := 0
	_, err := s.store.Update(ctx, func(ds *models.Dataset) ([]models.Collection, error) {
		if _, ok := ds.FindStudent(id); !ok {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		students := ds.Students[:0]
		for _, st := range ds.Students {
			if st.ID != id {
				students = append(students, st)
			}
		}
		ds.Students = students

		entries := ds.Entries[:0]
		for _, e := range ds.Entries {
			if e.StudentID == id {
				removed++
				continue
			}
			entries = append(entries, e)
		}
		ds.Entries = entries
		return []models.Collection{models.CollectionStudents, models.CollectionEntries}, nil
	})
	if err != nil {
		return storeError(err, "failed to delete student")
	}
	s.cache.InvalidateReports(ctx)
	s.logger.Info("student deleted", zap.String("student_id", id), zap.Int("entries_removed", removed))
	return nil
}

// Dashboard returns the student with all-time stats and history, newest first.
func (s *StudentService) Dashboard(ctx context.Context, id string) (*models.StudentDashboard, error) {
	ds, err := s.store.Load(ctx)
	if err != nil {
		return nil, storeError(err, "failed to load student")
	}
	student, ok := ds.FindStudent(id)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	own := reporting.FilterEntriesByStudent(ds.Entries, id)
	return &models.StudentDashboard{
		Student:   *student,
		ClassName: reporting.ClassName(*student, ds.Classes),
		Stats:     reporting.ComputeStudentStats(id, own, ds.Categories),
		Entries:   reporting.SortEntriesNewestFirst(own),
	}, nil
}
