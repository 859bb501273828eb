package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/classroom-behavior-api/internal/models"
	appErrors "github.com/noah-isme/classroom-behavior-api/pkg/errors"
)

func TestEntryServiceLog(t *testing.T) {
	store := seededStore()
	metrics := NewMetricsService()
	svc := NewEntryService(store, nil, metrics, nil, nil, fixedClock, "current_teacher")

	entry, err := svc.Log(context.Background(), LogEntryRequest{StudentID: "s2", BehaviorID: "6", Notes: strPtr("  talking during test ")}, "")
	require.NoError(t, err)
	assert.Equal(t, testNow, entry.Timestamp)
	assert.Equal(t, "current_teacher", entry.TeacherID)
	require.NotNil(t, entry.Notes)
	assert.Equal(t, "talking during test", *entry.Notes)
	assert.Len(t, store.ds.Entries, 6)
	assert.Equal(t, int64(1), metrics.Snapshot().EntriesLogged["negative"])

	entry, err = svc.Log(context.Background(), LogEntryRequest{StudentID: "s2", BehaviorID: "1", Notes: strPtr("   ")}, "teacher-9")
	require.NoError(t, err)
	assert.Nil(t, entry.Notes)
	assert.Equal(t, "teacher-9", entry.TeacherID)
}

func TestEntryServiceLogRejectsUnknownReferences(t *testing.T) {
	store := seededStore()
	svc := NewEntryService(store, nil, nil, nil, nil, fixedClock, "")

	_, err := svc.Log(context.Background(), LogEntryRequest{StudentID: "ghost", BehaviorID: "1"}, "")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)

	_, err = svc.Log(context.Background(), LogEntryRequest{StudentID: "s1", BehaviorID: "99"}, "")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)

	_, err = svc.Log(context.Background(), LogEntryRequest{StudentID: "s1"}, "")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	assert.Len(t, store.ds.Entries, 5)
}

func TestEntryServiceList(t *testing.T) {
	svc := NewEntryService(seededStore(), nil, nil, nil, nil, fixedClock, "")

	from := testNow.AddDate(0, 0, -7)
	entries, err := svc.List(context.Background(), models.BehaviorEntryFilter{StudentID: "s1", DateFrom: &from})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "e1", entries[0].ID)
	assert.Equal(t, "e2", entries[1].ID)

	entries, err = svc.List(context.Background(), models.BehaviorEntryFilter{BehaviorID: "6"})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "e4", entries[0].ID)

	to := from.Add(-time.Hour)
	_, err = svc.List(context.Background(), models.BehaviorEntryFilter{DateFrom: &from, DateTo: &to})
	require.Error(t, err)
}

func TestEntryServiceToday(t *testing.T) {
	svc := NewEntryService(seededStore(), nil, nil, nil, nil, fixedClock, "")

	today, err := svc.Today(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2024-05-15", today.Date)
	assert.Equal(t, 1, today.PositiveCount)
	assert.Equal(t, 1, today.NegativeCount)
	require.Len(t, today.Entries, 2)
	assert.Equal(t, "e4", today.Entries[0].ID)
}
