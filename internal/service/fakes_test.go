package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/noah-isme/classroom-behavior-api/internal/models"
	appErrors "github.com/noah-isme/classroom-behavior-api/pkg/errors"
)

type fakeStore struct {
	ds      models.Dataset
	saved   [][]models.Collection
	loadErr error
	saveErr error
	onLoad  func()
}

func (f *fakeStore) snapshot() models.Dataset {
	return models.Dataset{
		Students:   append([]models.Student(nil), f.ds.Students...),
		Categories: append([]models.BehaviorCategory(nil), f.ds.Categories...),
		Entries:    append([]models.BehaviorEntry(nil), f.ds.Entries...),
		Classes:    append([]models.Class(nil), f.ds.Classes...),
	}
}

func (f *fakeStore) Load(ctx context.Context) (*models.Dataset, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	ds := f.snapshot()
	if f.onLoad != nil {
		f.onLoad()
	}
	return &ds, nil
}

func (f *fakeStore) Update(ctx context.Context, fn func(ds *models.Dataset) ([]models.Collection, error)) (*models.Dataset, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	ds := f.snapshot()
	changed, err := fn(&ds)
	if err != nil {
		return nil, err
	}
	if len(changed) == 0 {
		return &ds, nil
	}
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	f.ds = ds
	f.saved = append(f.saved, changed)
	return &ds, nil
}

type fakeCacheRepo struct {
	items   map[string][]byte
	deletes []string
}

func newFakeCacheRepo() *fakeCacheRepo {
	return &fakeCacheRepo{items: make(map[string][]byte)}
}

func (f *fakeCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := f.items[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (f *fakeCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.items[key] = raw
	return nil
}

func (f *fakeCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	f.deletes = append(f.deletes, pattern)
	f.items = make(map[string][]byte)
	return nil
}

var testNow = time.Date(2024, 5, 15, 10, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func strPtr(v string) *string { return &v }

// seededStore holds two students in class c1, the default categories and a
// few entries spread over the last days.
func seededStore() *fakeStore {
	ds := models.Dataset{
		Students: []models.Student{
			{ID: "s1", Name: "Ada Lovelace", ClassID: strPtr("c1"), CreatedAt: testNow.AddDate(0, -1, 0)},
			{ID: "s2", Name: "Bo Diddley", ClassID: strPtr("c1"), CreatedAt: testNow.AddDate(0, -1, 0)},
			{ID: "s3", Name: "Cy Young", CreatedAt: testNow.AddDate(0, -1, 0)},
		},
		Categories: models.DefaultBehaviorCategories(testNow.AddDate(0, -2, 0)),
		Classes: []models.Class{
			{ID: "c1", Name: "Math 101", CreatedAt: testNow.AddDate(0, -1, 0)},
		},
		Entries: []models.BehaviorEntry{
			{ID: "e1", StudentID: "s1", BehaviorID: "1", Timestamp: testNow.Add(-2 * time.Hour), TeacherID: "t"},
			{ID: "e2", StudentID: "s1", BehaviorID: "5", Timestamp: testNow.AddDate(0, 0, -3), TeacherID: "t"},
			{ID: "e3", StudentID: "s2", BehaviorID: "2", Timestamp: testNow.AddDate(0, 0, -10), TeacherID: "t"},
			{ID: "e4", StudentID: "s3", BehaviorID: "6", Timestamp: testNow.Add(-1 * time.Hour), TeacherID: "t"},
			{ID: "e5", StudentID: "s1", BehaviorID: "3", Timestamp: testNow.AddDate(0, -3, 0), TeacherID: "t"},
		},
	}
	return &fakeStore{ds: ds}
}
