package models

import "time"

// MetricsSnapshot is a point-in-time digest of the process counters.
type MetricsSnapshot struct {
	CacheHitRatio            float64          `json:"cache_hit_ratio"`
	CacheHits                uint64           `json:"cache_hits"`
	CacheMisses              uint64           `json:"cache_misses"`
	RequestsTotal            uint64           `json:"requests_total"`
	AverageRequestDurationMs float64          `json:"avg_request_duration_ms"`
	StorageOperations        uint64           `json:"storage_operations"`
	AverageStorageDurationMs float64          `json:"avg_storage_duration_ms"`
	EntriesLogged            map[string]int64 `json:"entries_logged"`
	Goroutines               int              `json:"goroutines"`
	GeneratedAt              time.Time        `json:"generated_at"`
}
