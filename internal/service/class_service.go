package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/classroom-behavior-api/internal/models"
	appErrors "github.com/noah-isme/classroom-behavior-api/pkg/errors"
)

// CreateClassRequest names a class and the students captured into it.
type CreateClassRequest struct {
	Name       string   `json:"name" validate:"required,max=120"`
	StudentIDs []string `json:"student_ids" validate:"required,min=1,dive,required"`
}

// ClassService manages class groupings.
type ClassService struct {
	store     collectionStore
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
	now       Clock
}

// NewClassService constructs the class service.
func NewClassService(store collectionStore, cache *CacheService, validate *validator.Validate, logger *zap.Logger, now Clock) *ClassService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if now == nil {
		now = systemClock
	}
	return &ClassService{store: store, cache: cache, validator: validate, logger: logger, now: now}
}

// List returns every class.
func (s *ClassService) List(ctx context.Context) ([]models.Class, error) {
	ds, err := s.store.Load(ctx)
	if err != nil {
		return nil, storeError(err, "failed to list classes")
	}
	return ds.Classes, nil
}

// Create stores a class holding a snapshot of the selected students. The
// snapshot is not updated when the roster changes later.
func (s *ClassService) Create(ctx context.Context, req CreateClassRequest) (*models.Class, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid class payload")
	}

	var created models.Class
	_, err := s.store.Update(ctx, func(ds *models.Dataset) ([]models.Collection, error) {
		seen := make(map[string]struct{}, len(req.StudentIDs))
		members := make([]models.Student, 0, len(req.StudentIDs))
		for _, id := range req.StudentIDs {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			student, ok := ds.FindStudent(id)
			if !ok {
				return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("student %s not found", id))
			}
			members = append(members, *student)
		}
		created = models.Class{
			ID:        newID(),
			Name:      req.Name,
			Students:  members,
			CreatedAt: s.now(),
		}
		ds.Classes = append(ds.Classes, created)
		return []models.Collection{models.CollectionClasses}, nil
	})
	if err != nil {
		return nil, storeError(err, "failed to create class")
	}
	s.cache.InvalidateReports(ctx)
	return &created, nil
}

// Delete removes a class grouping. Students and their entries are kept.
func (s *ClassService) Delete(ctx context.Context, id string) error {
	_, err := s.store.Update(ctx, func(ds *models.Dataset) ([]models.Collection, error) {
		if _, ok := ds.FindClass(id); !ok {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		classes := ds.Classes[:0]
		for _, c := range ds.Classes {
			if c.ID != id {
				classes = append(classes, c)
			}
		}
		ds.Classes = classes
		return []models.Collection{models.CollectionClasses}, nil
	})
	if err != nil {
		return storeError(err, "failed to delete class")
	}
	s.cache.InvalidateReports(ctx)
	return nil
}
