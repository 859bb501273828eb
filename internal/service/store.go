package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/classroom-behavior-api/internal/models"
	appErrors "github.com/noah-isme/classroom-behavior-api/pkg/errors"
)

// collectionStore is the persistence contract shared by the use-case services.
type collectionStore interface {
	Load(ctx context.Context) (*models.Dataset, error)
	Update(ctx context.Context, fn func(ds *models.Dataset) ([]models.Collection, error)) (*models.Dataset, error)
}

// Clock returns the current time.
type Clock func() time.Time

func systemClock() time.Time { return time.Now().UTC() }

func newID() string { return uuid.NewString() }

// storeError passes domain errors raised inside an update through untouched
// and wraps everything else as an internal failure.
func storeError(err error, message string) error {
	var appErr *appErrors.Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
}

func normalizePagination(page, size int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}
	if size > 100 {
		size = 100
	}
	return page, size
}
