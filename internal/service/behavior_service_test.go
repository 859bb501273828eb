package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/classroom-behavior-api/internal/models"
	appErrors "github.com/noah-isme/classroom-behavior-api/pkg/errors"
)

func newBehaviorServiceForTest(store *fakeStore) *BehaviorService {
	return NewBehaviorService(store, nil, nil, nil, fixedClock)
}

func TestBehaviorServiceCreateNormalisesSign(t *testing.T) {
	store := seededStore()
	svc := newBehaviorServiceForTest(store)

	neg, err := svc.Create(context.Background(), CreateBehaviorRequest{Name: "Late", Type: "negative", Points: 4})
	require.NoError(t, err)
	assert.Equal(t, -4, neg.Points)
	assert.True(t, neg.IsCustom)
	assert.Equal(t, testNow, neg.CreatedAt)

	pos, err := svc.Create(context.Background(), CreateBehaviorRequest{Name: "Kind", Type: "Positive", Points: -2})
	require.NoError(t, err)
	assert.Equal(t, 2, pos.Points)
	assert.Equal(t, models.BehaviorPositive, pos.Type)

	assert.Len(t, store.ds.Categories, 10)
}

func TestBehaviorServiceCreateValidation(t *testing.T) {
	svc := newBehaviorServiceForTest(seededStore())

	cases := []CreateBehaviorRequest{
		{Name: "Zero", Type: "positive", Points: 0},
		{Name: "", Type: "positive", Points: 1},
		{Name: "Odd", Type: "neutral", Points: 1},
		{Name: "Huge", Type: "positive", Points: 1000},
	}
	for _, req := range cases {
		_, err := svc.Create(context.Background(), req)
		require.Error(t, err, req.Name)
		assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code, req.Name)
	}
}

func TestBehaviorServiceDefaultsAreImmutable(t *testing.T) {
	store := seededStore()
	svc := newBehaviorServiceForTest(store)

	_, err := svc.Update(context.Background(), "1", UpdateBehaviorRequest{Name: strPtr("Renamed")})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrDefaultBehavior.Code, appErrors.FromError(err).Code)
	assert.Equal(t, 403, appErrors.FromError(err).Status)

	_, err = svc.Delete(context.Background(), "5")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrDefaultBehavior.Code, appErrors.FromError(err).Code)
	assert.Len(t, store.ds.Categories, 8)
	assert.Empty(t, store.saved)
}

func TestBehaviorServiceUpdate(t *testing.T) {
	store := seededStore()
	svc := newBehaviorServiceForTest(store)
	created, err := svc.Create(context.Background(), CreateBehaviorRequest{Name: "Late", Type: "negative", Points: 2})
	require.NoError(t, err)

	flipped := "positive"
	updated, err := svc.Update(context.Background(), created.ID, UpdateBehaviorRequest{Type: &flipped})
	require.NoError(t, err)
	assert.Equal(t, models.BehaviorPositive, updated.Type)
	assert.Equal(t, 2, updated.Points)

	zero := 0
	_, err = svc.Update(context.Background(), created.ID, UpdateBehaviorRequest{Points: &zero})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.Update(context.Background(), "missing", UpdateBehaviorRequest{Name: strPtr("x")})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestBehaviorServiceDeleteCascadesEntries(t *testing.T) {
	store := seededStore()
	svc := newBehaviorServiceForTest(store)
	custom, err := svc.Create(context.Background(), CreateBehaviorRequest{Name: "Late", Type: "negative", Points: 2})
	require.NoError(t, err)

	store.ds.Entries = append(store.ds.Entries,
		models.BehaviorEntry{ID: "x1", StudentID: "s1", BehaviorID: custom.ID, Timestamp: testNow},
		models.BehaviorEntry{ID: "x2", StudentID: "s2", BehaviorID: custom.ID, Timestamp: testNow},
	)
	before := len(store.ds.Entries)

	removed, err := svc.Delete(context.Background(), custom.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)
	assert.Len(t, store.ds.Entries, before-2)
	for _, e := range store.ds.Entries {
		assert.NotEqual(t, custom.ID, e.BehaviorID)
	}
	_, ok := store.ds.FindCategory(custom.ID)
	assert.False(t, ok)
}

func TestBehaviorServiceListByType(t *testing.T) {
	svc := newBehaviorServiceForTest(seededStore())

	all, err := svc.List(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 8)

	negative, err := svc.List(context.Background(), "negative")
	require.NoError(t, err)
	require.Len(t, negative, 4)
	for _, c := range negative {
		assert.Less(t, c.Points, 0)
	}

	_, err = svc.List(context.Background(), "bogus")
	require.Error(t, err)
}
