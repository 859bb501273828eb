package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/classroom-behavior-api/internal/models"
)

// CollectionRepository stores the four record collections as whole JSON
// documents in a KVStore.
type CollectionRepository struct {
	store  KVStore
	logger *zap.Logger
	now    func() time.Time

	// serialises read-modify-write cycles made through Update and first-use seeding
	mu sync.Mutex
}

// NewCollectionRepository constructs the repository.
func NewCollectionRepository(store KVStore, logger *zap.Logger) *CollectionRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CollectionRepository{store: store, logger: logger, now: time.Now}
}

// WithClock overrides the clock used to stamp seeded categories.
func (r *CollectionRepository) WithClock(now func() time.Time) *CollectionRepository {
	r.now = now
	return r
}

func decode[T any](key models.Collection, raw []byte, ok bool) ([]T, error) {
	items := make([]T, 0)
	if !ok || len(raw) == 0 {
		return items, nil
	}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	if items == nil {
		items = make([]T, 0)
	}
	return items, nil
}

func encode[T any](key models.Collection, items []T) ([]byte, error) {
	if items == nil {
		items = make([]T, 0)
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", key, err)
	}
	return raw, nil
}

func loadOne[T any](ctx context.Context, store KVStore, key models.Collection) ([]T, error) {
	raw, ok, err := store.Get(ctx, string(key))
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", key, err)
	}
	return decode[T](key, raw, ok)
}

// LoadStudents returns every student.
func (r *CollectionRepository) LoadStudents(ctx context.Context) ([]models.Student, error) {
	return loadOne[models.Student](ctx, r.store, models.CollectionStudents)
}

// LoadEntries returns every behavior entry.
func (r *CollectionRepository) LoadEntries(ctx context.Context) ([]models.BehaviorEntry, error) {
	return loadOne[models.BehaviorEntry](ctx, r.store, models.CollectionEntries)
}

// LoadClasses returns every class.
func (r *CollectionRepository) LoadClasses(ctx context.Context) ([]models.Class, error) {
	return loadOne[models.Class](ctx, r.store, models.CollectionClasses)
}

// LoadCategories returns every behavior category, seeding the defaults the
// first time the collection is read.
func (r *CollectionRepository) LoadCategories(ctx context.Context) ([]models.BehaviorCategory, error) {
	raw, ok, err := r.store.Get(ctx, string(models.CollectionBehaviors))
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", models.CollectionBehaviors, err)
	}
	if ok {
		return decode[models.BehaviorCategory](models.CollectionBehaviors, raw, true)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	raw, ok, err = r.store.Get(ctx, string(models.CollectionBehaviors))
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", models.CollectionBehaviors, err)
	}
	if ok {
		return decode[models.BehaviorCategory](models.CollectionBehaviors, raw, true)
	}
	return r.seedCategories(ctx)
}

// seedCategories writes the defaults. Callers hold r.mu.
func (r *CollectionRepository) seedCategories(ctx context.Context) ([]models.BehaviorCategory, error) {
	defaults := models.DefaultBehaviorCategories(r.now())
	raw, err := encode(models.CollectionBehaviors, defaults)
	if err != nil {
		return nil, err
	}
	if err := r.store.SetMany(ctx, map[string][]byte{string(models.CollectionBehaviors): raw}); err != nil {
		return nil, fmt.Errorf("seed %s: %w", models.CollectionBehaviors, err)
	}
	r.logger.Info("seeded default behavior categories", zap.Int("count", len(defaults)))
	return defaults, nil
}

// Load reads all four collections in one round trip. Seeding the default
// categories happens under the write lock so it cannot overwrite a
// concurrent Update.
func (r *CollectionRepository) Load(ctx context.Context) (*models.Dataset, error) {
	ds, seeded, err := r.read(ctx)
	if err != nil || seeded {
		return ds, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loadLocked(ctx)
}

// loadLocked re-reads the dataset and seeds categories if still absent.
// Callers hold r.mu.
func (r *CollectionRepository) loadLocked(ctx context.Context) (*models.Dataset, error) {
	ds, seeded, err := r.read(ctx)
	if err != nil || seeded {
		return ds, err
	}
	if ds.Categories, err = r.seedCategories(ctx); err != nil {
		return nil, err
	}
	return ds, nil
}

// read decodes the stored collections. The flag is false when the
// behaviors key has never been written.
func (r *CollectionRepository) read(ctx context.Context) (*models.Dataset, bool, error) {
	keys := make([]string, len(models.AllCollections))
	for i, c := range models.AllCollections {
		keys[i] = string(c)
	}
	values, err := r.store.GetMany(ctx, keys)
	if err != nil {
		return nil, false, fmt.Errorf("load dataset: %w", err)
	}

	ds := &models.Dataset{}
	if ds.Students, err = fromValues[models.Student](values, models.CollectionStudents); err != nil {
		return nil, false, err
	}
	if ds.Entries, err = fromValues[models.BehaviorEntry](values, models.CollectionEntries); err != nil {
		return nil, false, err
	}
	if ds.Classes, err = fromValues[models.Class](values, models.CollectionClasses); err != nil {
		return nil, false, err
	}
	if _, ok := values[string(models.CollectionBehaviors)]; !ok {
		return ds, false, nil
	}
	if ds.Categories, err = fromValues[models.BehaviorCategory](values, models.CollectionBehaviors); err != nil {
		return nil, false, err
	}
	return ds, true, nil
}

func fromValues[T any](values map[string][]byte, key models.Collection) ([]T, error) {
	raw, ok := values[string(key)]
	return decode[T](key, raw, ok)
}

// Save writes the named collections of the dataset atomically. With no
// collections named, all four are written.
func (r *CollectionRepository) Save(ctx context.Context, ds *models.Dataset, collections ...models.Collection) error {
	if len(collections) == 0 {
		collections = models.AllCollections
	}
	values := make(map[string][]byte, len(collections))
	for _, c := range collections {
		var (
			raw []byte
			err error
		)
		switch c {
		case models.CollectionStudents:
			raw, err = encode(c, ds.Students)
		case models.CollectionBehaviors:
			raw, err = encode(c, ds.Categories)
		case models.CollectionEntries:
			raw, err = encode(c, ds.Entries)
		case models.CollectionClasses:
			raw, err = encode(c, ds.Classes)
		default:
			return fmt.Errorf("unknown collection %q", c)
		}
		if err != nil {
			return err
		}
		values[string(c)] = raw
	}
	if err := r.store.SetMany(ctx, values); err != nil {
		return fmt.Errorf("save collections: %w", err)
	}
	return nil
}

// Update loads the dataset, applies fn and saves the collections fn reports
// as changed. Calls are serialised so concurrent writers never lose updates.
// An error from fn aborts without writing.
func (r *CollectionRepository) Update(ctx context.Context, fn func(ds *models.Dataset) ([]models.Collection, error)) (*models.Dataset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ds, err := r.loadLocked(ctx)
	if err != nil {
		return nil, err
	}
	changed, err := fn(ds)
	if err != nil {
		return nil, err
	}
	if len(changed) == 0 {
		return ds, nil
	}
	if err := r.Save(ctx, ds, changed...); err != nil {
		return nil, err
	}
	return ds, nil
}
