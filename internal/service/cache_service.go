package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/noah-isme/classroom-behavior-api/pkg/errors"
)

const (
	reportCachePrefix  = "report"
	reportCachePattern = reportCachePrefix + ":*"
)

// CacheRepository abstracts persistence for cached payloads.
type CacheRepository interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// CacheService orchestrates cache operations and related metrics.
type CacheService struct {
	repo       CacheRepository
	metrics    *MetricsService
	defaultTTL time.Duration
	logger     *zap.Logger
	enabled    bool

	// gen counts report invalidations. reportMu orders SetReport against
	// InvalidateReports so a fill started before a write never lands after it.
	reportMu sync.RWMutex
	gen      uint64
}

// NewCacheService constructs a cache service.
func NewCacheService(repo CacheRepository, metrics *MetricsService, defaultTTL time.Duration, logger *zap.Logger, enabled bool) *CacheService {
	if defaultTTL <= 0 {
		defaultTTL = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheService{repo: repo, metrics: metrics, defaultTTL: defaultTTL, logger: logger, enabled: enabled}
}

// ReportKey joins parts under the report namespace. Empty parts become "-".
func ReportKey(kind string, parts ...string) string {
	segments := make([]string, 0, len(parts)+2)
	segments = append(segments, reportCachePrefix, kind)
	for _, p := range parts {
		if p == "" {
			p = "-"
		}
		segments = append(segments, p)
	}
	return strings.Join(segments, ":")
}

// Enabled indicates whether caching is active.
func (s *CacheService) Enabled() bool {
	return s != nil && s.enabled && s.repo != nil
}

// Get attempts to retrieve a cached entry. It returns true when the cache was hit.
func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	if !s.Enabled() {
		return false, nil
	}
	start := time.Now()
	err := s.repo.Get(ctx, key, dest)
	duration := time.Since(start)
	if err != nil {
		s.metrics.RecordCacheOperation(false, duration)
		if errors.Is(err, appErrors.ErrCacheMiss) {
			return false, nil
		}
		s.logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		return false, err
	}
	s.metrics.RecordCacheOperation(true, duration)
	return true, nil
}

// Set stores the value in cache.
func (s *CacheService) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if !s.Enabled() {
		return nil
	}
	if ttl <= 0 {
		ttl = s.defaultTTL
	}
	start := time.Now()
	err := s.repo.Set(ctx, key, value, ttl)
	s.metrics.ObserveCacheWrite(time.Since(start))
	if err != nil {
		s.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
	return err
}

// Invalidate removes cached values for the provided pattern.
func (s *CacheService) Invalidate(ctx context.Context, pattern string) error {
	if !s.Enabled() {
		return nil
	}
	if err := s.repo.DeleteByPattern(ctx, pattern); err != nil {
		s.logger.Warn("cache invalidate failed", zap.String("pattern", pattern), zap.Error(err))
		return err
	}
	return nil
}

// ReportGeneration returns the current report generation. Capture it before
// loading the data a report is built from and hand it to SetReport.
func (s *CacheService) ReportGeneration() uint64 {
	if s == nil {
		return 0
	}
	s.reportMu.RLock()
	defer s.reportMu.RUnlock()
	return s.gen
}

// SetReport caches a report built at generation gen. It is a no-op when
// reports were invalidated since then.
func (s *CacheService) SetReport(ctx context.Context, gen uint64, key string, value interface{}, ttl time.Duration) error {
	if !s.Enabled() {
		return nil
	}
	s.reportMu.RLock()
	defer s.reportMu.RUnlock()
	if s.gen != gen {
		s.logger.Debug("cache fill skipped, reports invalidated", zap.String("key", key))
		return nil
	}
	return s.Set(ctx, key, value, ttl)
}

// InvalidateReports drops every cached report. Failures are logged only, a
// stale report expires with its TTL.
func (s *CacheService) InvalidateReports(ctx context.Context) {
	if s == nil {
		return
	}
	s.reportMu.Lock()
	defer s.reportMu.Unlock()
	s.gen++
	_ = s.Invalidate(ctx, reportCachePattern)
}
