package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type brokenCacheRepo struct{}

func (brokenCacheRepo) Get(context.Context, string, interface{}) error { return errors.New("down") }
func (brokenCacheRepo) Set(context.Context, string, interface{}, time.Duration) error {
	return errors.New("down")
}
func (brokenCacheRepo) DeleteByPattern(context.Context, string) error { return errors.New("down") }

func TestReportKey(t *testing.T) {
	assert.Equal(t, "report:summary:-:1:2", ReportKey("summary", "", "1", "2"))
	assert.Equal(t, "report:students", ReportKey("students"))
}

func TestCacheServiceHitAndMiss(t *testing.T) {
	metrics := NewMetricsService()
	svc := NewCacheService(newFakeCacheRepo(), metrics, time.Minute, nil, true)
	ctx := context.Background()

	var out map[string]int
	hit, err := svc.Get(ctx, "report:x", &out)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, svc.Set(ctx, "report:x", map[string]int{"a": 1}, 0))
	hit, err = svc.Get(ctx, "report:x", &out)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 1, out["a"])

	snap := metrics.Snapshot()
	assert.Equal(t, uint64(1), snap.CacheHits)
	assert.Equal(t, uint64(1), snap.CacheMisses)
	assert.InDelta(t, 0.5, snap.CacheHitRatio, 0.001)
}

func TestCacheServiceDisabled(t *testing.T) {
	svc := NewCacheService(newFakeCacheRepo(), nil, 0, nil, false)
	assert.False(t, svc.Enabled())
	hit, err := svc.Get(context.Background(), "k", &struct{}{})
	assert.NoError(t, err)
	assert.False(t, hit)

	var nilSvc *CacheService
	assert.False(t, nilSvc.Enabled())
	nilSvc.InvalidateReports(context.Background())
}

func TestCacheServiceFailuresSurface(t *testing.T) {
	svc := NewCacheService(brokenCacheRepo{}, nil, 0, nil, true)
	_, err := svc.Get(context.Background(), "k", &struct{}{})
	assert.Error(t, err)
	assert.Error(t, svc.Set(context.Background(), "k", 1, 0))
	assert.Error(t, svc.Invalidate(context.Background(), "report:*"))
}

func TestCacheServiceSetReportRespectsGeneration(t *testing.T) {
	repo := newFakeCacheRepo()
	svc := NewCacheService(repo, nil, time.Minute, nil, true)
	ctx := context.Background()

	gen := svc.ReportGeneration()
	svc.InvalidateReports(ctx)
	assert.Equal(t, gen+1, svc.ReportGeneration())
	require.NoError(t, svc.SetReport(ctx, gen, "report:summary:-", 1, 0))
	assert.Empty(t, repo.items)

	require.NoError(t, svc.SetReport(ctx, svc.ReportGeneration(), "report:summary:-", 1, 0))
	assert.Len(t, repo.items, 1)

	var nilSvc *CacheService
	assert.Zero(t, nilSvc.ReportGeneration())
	assert.NoError(t, nilSvc.SetReport(ctx, 0, "k", 1, 0))
}
