package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/classroom-behavior-api/internal/models"
	appErrors "github.com/noah-isme/classroom-behavior-api/pkg/errors"
)

// BehaviorService manages behavior categories.
type BehaviorService struct {
	store     collectionStore
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
	now       Clock
}

// NewBehaviorService constructs the service.
func NewBehaviorService(store collectionStore, cache *CacheService, validate *validator.Validate, logger *zap.Logger, now Clock) *BehaviorService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if now == nil {
		now = systemClock
	}
	svc := &BehaviorService{store: store, cache: cache, validator: validate, logger: logger, now: now}
	_ = svc.validator.RegisterValidation("behavior_type", func(fl validator.FieldLevel) bool {
		return models.BehaviorType(fl.Field().String()).Valid()
	})
	return svc
}

// CreateBehaviorRequest describes create payload. Points may be given with
// either sign; the stored sign always follows Type.
type CreateBehaviorRequest struct {
	Name   string `json:"name" validate:"required,max=80"`
	Type   string `json:"type" validate:"required,behavior_type"`
	Points int    `json:"points" validate:"required,min=-100,max=100"`
}

// UpdateBehaviorRequest describes a partial update.
type UpdateBehaviorRequest struct {
	Name   *string `json:"name" validate:"omitempty,max=80"`
	Type   *string `json:"type" validate:"omitempty,behavior_type"`
	Points *int    `json:"points" validate:"omitempty,min=-100,max=100"`
}

// normalizePoints forces the sign of points to match kind.
func normalizePoints(kind models.BehaviorType, points int) int {
	if points < 0 {
		points = -points
	}
	if kind == models.BehaviorNegative {
		return -points
	}
	return points
}

// List returns categories, optionally restricted to one type.
func (s *BehaviorService) List(ctx context.Context, kind string) ([]models.BehaviorCategory, error) {
	filter := models.BehaviorType(strings.ToLower(strings.TrimSpace(kind)))
	if filter != "" && !filter.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "type must be positive or negative")
	}
	ds, err := s.store.Load(ctx)
	if err != nil {
		return nil, storeError(err, "failed to list behaviors")
	}
	if filter == "" {
		return ds.Categories, nil
	}
	out := make([]models.BehaviorCategory, 0, len(ds.Categories))
	for _, c := range ds.Categories {
		if c.Type == filter {
			out = append(out, c)
		}
	}
	return out, nil
}

// Create adds a custom category.
func (s *BehaviorService) Create(ctx context.Context, req CreateBehaviorRequest) (*models.BehaviorCategory, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Type = strings.ToLower(strings.TrimSpace(req.Type))
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid behavior payload")
	}
	kind := models.BehaviorType(req.Type)
	category := models.BehaviorCategory{
		ID:        newID(),
		Name:      req.Name,
		Type:      kind,
		Points:    normalizePoints(kind, req.Points),
		IsCustom:  true,
		CreatedAt: s.now(),
	}
	_, err := s.store.Update(ctx, func(ds *models.Dataset) ([]models.Collection, error) {
		ds.Categories = append(ds.Categories, category)
		return []models.Collection{models.CollectionBehaviors}, nil
	})
	if err != nil {
		return nil, storeError(err, "failed to create behavior")
	}
	s.cache.InvalidateReports(ctx)
	return &category, nil
}

// Update edits a custom category. Default categories cannot be changed.
func (s *BehaviorService) Update(ctx context.Context, id string, req UpdateBehaviorRequest) (*models.BehaviorCategory, error) {
	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		if trimmed == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, "name cannot be empty")
		}
		req.Name = &trimmed
	}
	if req.Type != nil {
		lowered := strings.ToLower(strings.TrimSpace(*req.Type))
		if !models.BehaviorType(lowered).Valid() {
			return nil, appErrors.Clone(appErrors.ErrValidation, "type must be positive or negative")
		}
		req.Type = &lowered
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid behavior payload")
	}
	if req.Points != nil && *req.Points == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "points must be non-zero")
	}

	var updated models.BehaviorCategory
	_, err := s.store.Update(ctx, func(ds *models.Dataset) ([]models.Collection, error) {
		category, ok := ds.FindCategory(id)
		if !ok {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "behavior not found")
		}
		if !category.IsCustom {
			return nil, appErrors.Clone(appErrors.ErrDefaultBehavior, "default behaviors cannot be edited")
		}
		if req.Name != nil {
			category.Name = *req.Name
		}
		if req.Type != nil {
			category.Type = models.BehaviorType(*req.Type)
		}
		if req.Points != nil {
			category.Points = *req.Points
		}
		category.Points = normalizePoints(category.Type, category.Points)
		updated = *category
		return []models.Collection{models.CollectionBehaviors}, nil
	})
	if err != nil {
		return nil, storeError(err, "failed to update behavior")
	}
	s.cache.InvalidateReports(ctx)
	return &updated, nil
}

// Delete removes a custom category together with every entry referencing it
// and returns the number of entries removed.
func (s *BehaviorService) Delete(ctx context.Context, id string) (int, error) {
	removed := 0
	_, err := s.store.Update(ctx, func(ds *models.Dataset) ([]models.Collection, error) {
		category, ok := ds.FindCategory(id)
		if !ok {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "behavior not found")
		}
		if !category.IsCustom {
			return nil, appErrors.Clone(appErrors.ErrDefaultBehavior, "default behaviors cannot be deleted")
		}

		entries := ds.Entries[:0]
		for _, e := range ds.Entries {
			if e.BehaviorID == id {
				removed++
				continue
			}
			entries = append(entries, e)
		}
		ds.Entries = entries

		categories := ds.Categories[:0]
		for _, c := range ds.Categories {
			if c.ID != id {
				categories = append(categories, c)
			}
		}
		ds.Categories = categories
		return []models.Collection{models.CollectionEntries, models.CollectionBehaviors}, nil
	})
	if err != nil {
		return 0, storeError(err, "failed to delete behavior")
	}
	s.cache.InvalidateReports(ctx)
	s.logger.Info("behavior deleted", zap.String("behavior_id", id), zap.Int("entries_removed", removed))
	return removed, nil
}
