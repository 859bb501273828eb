package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/classroom-behavior-api/pkg/errors"
)

func TestClassServiceCreateSnapshotsStudents(t *testing.T) {
	store := seededStore()
	svc := NewClassService(store, nil, nil, nil, fixedClock)

	class, err := svc.Create(context.Background(), CreateClassRequest{Name: " Art ", StudentIDs: []string{"s3", "s1", "s3"}})
	require.NoError(t, err)
	assert.Equal(t, "Art", class.Name)
	require.Len(t, class.Students, 2)
	assert.Equal(t, "Cy Young", class.Students[0].Name)
	assert.Len(t, store.ds.Classes, 2)

	store.ds.Students[0].Name = "Renamed"
	classes, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", classes[1].Students[1].Name)
}

func TestClassServiceCreateValidation(t *testing.T) {
	svc := NewClassService(seededStore(), nil, nil, nil, fixedClock)

	_, err := svc.Create(context.Background(), CreateClassRequest{Name: "Empty"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.Create(context.Background(), CreateClassRequest{Name: "", StudentIDs: []string{"s1"}})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.Create(context.Background(), CreateClassRequest{Name: "Ghosts", StudentIDs: []string{"nobody"}})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestClassServiceDeleteKeepsStudents(t *testing.T) {
	store := seededStore()
	svc := NewClassService(store, nil, nil, nil, fixedClock)

	require.NoError(t, svc.Delete(context.Background(), "c1"))
	assert.Empty(t, store.ds.Classes)
	assert.Len(t, store.ds.Students, 3)
	assert.Len(t, store.ds.Entries, 5)

	err := svc.Delete(context.Background(), "c1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
