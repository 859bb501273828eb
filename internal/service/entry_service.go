package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/classroom-behavior-api/internal/models"
	"github.com/noah-isme/classroom-behavior-api/internal/reporting"
	appErrors "github.com/noah-isme/classroom-behavior-api/pkg/errors"
)

// LogEntryRequest describes a behavior observation.
type LogEntryRequest struct {
	StudentID  string  `json:"student_id" validate:"required"`
	BehaviorID string  `json:"behavior_id" validate:"required"`
	Notes      *string `json:"notes" validate:"omitempty,max=500"`
}

// EntryService records and lists behavior entries.
type EntryService struct {
	store          collectionStore
	cache          *CacheService
	metrics        *MetricsService
	validator      *validator.Validate
	logger         *zap.Logger
	now            Clock
	defaultTeacher string
}

// NewEntryService constructs the entry service. defaultTeacher attributes
// entries logged without a teacher id.
func NewEntryService(store collectionStore, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, now Clock, defaultTeacher string) *EntryService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if now == nil {
		now = systemClock
	}
	return &EntryService{
		store:          store,
		cache:          cache,
		metrics:        metrics,
		validator:      validate,
		logger:         logger,
		now:            now,
		defaultTeacher: defaultTeacher,
	}
}

// Log appends an entry stamped with the current time.
func (s *EntryService) Log(ctx context.Context, req LogEntryRequest, teacherID string) (*models.BehaviorEntry, error) {
	req.StudentID = strings.TrimSpace(req.StudentID)
	req.BehaviorID = strings.TrimSpace(req.BehaviorID)
	req.Notes = trimOptional(req.Notes)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid entry payload")
	}
	teacherID = strings.TrimSpace(teacherID)
	if teacherID == "" {
		teacherID = s.defaultTeacher
	}

	entry := models.BehaviorEntry{
		ID:         newID(),
		StudentID:  req.StudentID,
		BehaviorID: req.BehaviorID,
		Timestamp:  s.now(),
		Notes:      req.Notes,
		TeacherID:  teacherID,
	}

	var kind models.BehaviorType
	_, err := s.store.Update(ctx, func(ds *models.Dataset) ([]models.Collection, error) {
		if _, ok := ds.FindStudent(entry.StudentID); !ok {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		category, ok := ds.FindCategory(entry.BehaviorID)
		if !ok {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "behavior not found")
		}
		kind = category.Type
		ds.Entries = append(ds.Entries, entry)
		return []models.Collection{models.CollectionEntries}, nil
	})
	if err != nil {
		return nil, storeError(err, "failed to log behavior")
	}
	s.metrics.RecordEntryLogged(kind)
	s.cache.InvalidateReports(ctx)
	s.logger.Debug("behavior logged",
		zap.String("student_id", entry.StudentID),
		zap.String("behavior_id", entry.BehaviorID),
		zap.String("teacher_id", entry.TeacherID))
	return &entry, nil
}

// List returns entries matching the filter, newest first.
func (s *EntryService) List(ctx context.Context, filter models.BehaviorEntryFilter) ([]models.BehaviorEntry, error) {
	if filter.DateFrom != nil && filter.DateTo != nil && filter.DateFrom.After(*filter.DateTo) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "start must not be after end")
	}
	ds, err := s.store.Load(ctx)
	if err != nil {
		return nil, storeError(err, "failed to list entries")
	}

	out := make([]models.BehaviorEntry, 0)
	for _, e := range ds.Entries {
		if filter.StudentID != "" && e.StudentID != filter.StudentID {
			continue
		}
		if filter.BehaviorID != "" && e.BehaviorID != filter.BehaviorID {
			continue
		}
		if filter.DateFrom != nil && e.Timestamp.Before(*filter.DateFrom) {
			continue
		}
		if filter.DateTo != nil && e.Timestamp.After(*filter.DateTo) {
			continue
		}
		out = append(out, e)
	}
	return reporting.SortEntriesNewestFirst(out), nil
}

// Today summarises the entries logged on the current calendar day.
func (s *EntryService) Today(ctx context.Context) (*models.TodaySummary, error) {
	ds, err := s.store.Load(ctx)
	if err != nil {
		return nil, storeError(err, "failed to load entries")
	}
	now := s.now()
	today := reporting.EntriesOnDay(ds.Entries, now)
	positive, negative := reporting.ClassifyByType(today, ds.Categories)
	return &models.TodaySummary{
		Date:          now.Format("2006-01-02"),
		PositiveCount: len(positive),
		NegativeCount: len(negative),
		Entries:       reporting.SortEntriesNewestFirst(today),
	}, nil
}
