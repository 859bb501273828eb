package service

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/classroom-behavior-api/internal/models"
	"github.com/noah-isme/classroom-behavior-api/internal/reporting"
	appErrors "github.com/noah-isme/classroom-behavior-api/pkg/errors"
)

const (
	reportKindStudent  = "student"
	reportKindSummary  = "summary"
	reportKindStudents = "students"
)

// ReportServiceConfig governs default periods and caching.
type ReportServiceConfig struct {
	DefaultRange time.Duration
	CacheTTL     time.Duration
}

// ReportService derives reports from the stored collections.
type ReportService struct {
	store   collectionStore
	cache   *CacheService
	metrics *MetricsService
	logger  *zap.Logger
	now     Clock
	cfg     ReportServiceConfig
}

// NewReportService constructs the report service.
func NewReportService(store collectionStore, cache *CacheService, metrics *MetricsService, logger *zap.Logger, now Clock, cfg ReportServiceConfig) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if now == nil {
		now = systemClock
	}
	if cfg.DefaultRange <= 0 {
		cfg.DefaultRange = 30 * 24 * time.Hour
	}
	return &ReportService{store: store, cache: cache, metrics: metrics, logger: logger, now: now, cfg: cfg}
}

// ResolveRange fills a missing bound: end defaults to the last instant of
// the current day and start to end minus the default range. A start after
// end is kept as given and produces empty results.
func (s *ReportService) ResolveRange(start, end *time.Time) models.DateRange {
	r := models.DateRange{}
	if end != nil {
		r.End = *end
	} else {
		r.End = endOfDay(s.now())
	}
	if start != nil {
		r.Start = *start
	} else {
		r.Start = r.End.Add(-s.cfg.DefaultRange)
	}
	return r
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, t.Location()).Add(-time.Nanosecond)
}

func rangeKey(r models.DateRange) (string, string) {
	return strconv.FormatInt(r.Start.UnixNano(), 10), strconv.FormatInt(r.End.UnixNano(), 10)
}

// fromCache reports whether dest was filled from the cache. Cache failures
// degrade to a recompute.
func (s *ReportService) fromCache(ctx context.Context, key string, dest interface{}) bool {
	hit, err := s.cache.Get(ctx, key, dest)
	return err == nil && hit
}

// remember caches value unless a write invalidated reports after gen was read.
func (s *ReportService) remember(ctx context.Context, gen uint64, key string, value interface{}) {
	_ = s.cache.SetReport(ctx, gen, key, value, s.cfg.CacheTTL)
}

// StudentReport builds the report of one student, with its text rendering.
// The boolean reports a cache hit.
func (s *ReportService) StudentReport(ctx context.Context, studentID string, start, end *time.Time) (*models.StudentReportView, bool, error) {
	dateRange := s.ResolveRange(start, end)
	from, to := rangeKey(dateRange)
	key := ReportKey(reportKindStudent, studentID, from, to)

	var cached models.StudentReportView
	if s.fromCache(ctx, key, &cached) {
		return &cached, true, nil
	}

	gen := s.cache.ReportGeneration()
	ds, err := s.store.Load(ctx)
	if err != nil {
		return nil, false, storeError(err, "failed to load report data")
	}
	view, err := buildStudentReport(ds, studentID, dateRange)
	if err != nil {
		return nil, false, err
	}
	s.metrics.RecordReport(reportKindStudent)
	s.remember(ctx, gen, key, view)
	return view, false, nil
}

func buildStudentReport(ds *models.Dataset, studentID string, dateRange models.DateRange) (*models.StudentReportView, error) {
	student, ok := ds.FindStudent(studentID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	report := reporting.GenerateStudentReport(*student, ds.Entries, ds.Categories, dateRange)
	className := reporting.ClassName(*student, ds.Classes)
	return &models.StudentReportView{
		Student:   *student,
		ClassName: className,
		Period:    reporting.FormatDateRange(dateRange.Start, dateRange.End),
		Score:     reporting.ComputeScore(report.Entries, ds.Categories),
		Report:    report,
		Text:      reporting.FormatStudentReport(*student, className, report, ds.Categories),
	}, nil
}

// ClassSummary aggregates entries in the period. A non-empty classID limits
// the summary to students currently assigned to that class.
func (s *ReportService) ClassSummary(ctx context.Context, classID string, start, end *time.Time) (*models.ClassSummaryReport, bool, error) {
	dateRange := s.ResolveRange(start, end)
	from, to := rangeKey(dateRange)
	key := ReportKey(reportKindSummary, classID, from, to)

	var cached models.ClassSummaryReport
	if s.fromCache(ctx, key, &cached) {
		return &cached, true, nil
	}

	gen := s.cache.ReportGeneration()
	ds, err := s.store.Load(ctx)
	if err != nil {
		return nil, false, storeError(err, "failed to load report data")
	}

	entries := ds.Entries
	if classID != "" {
		if _, ok := ds.FindClass(classID); !ok {
			return nil, false, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		members := make(map[string]struct{})
		for _, st := range ds.Students {
			if st.ClassID != nil && *st.ClassID == classID {
				members[st.ID] = struct{}{}
			}
		}
		entries = make([]models.BehaviorEntry, 0)
		for _, e := range ds.Entries {
			if _, ok := members[e.StudentID]; ok {
				entries = append(entries, e)
			}
		}
	}

	result := &models.ClassSummaryReport{
		ClassID:   classID,
		DateRange: dateRange,
		Period:    reporting.FormatDateRange(dateRange.Start, dateRange.End),
		Summary:   reporting.ComputeClassSummary(entries, ds.Categories, dateRange),
	}
	s.metrics.RecordReport(reportKindSummary)
	s.remember(ctx, gen, key, result)
	return result, false, nil
}

// StudentSummaries lists counts and score for every student over the period.
func (s *ReportService) StudentSummaries(ctx context.Context, start, end *time.Time) (*models.StudentSummaryReport, bool, error) {
	dateRange := s.ResolveRange(start, end)
	from, to := rangeKey(dateRange)
	key := ReportKey(reportKindStudents, from, to)

	var cached models.StudentSummaryReport
	if s.fromCache(ctx, key, &cached) {
		return &cached, true, nil
	}

	gen := s.cache.ReportGeneration()
	ds, err := s.store.Load(ctx)
	if err != nil {
		return nil, false, storeError(err, "failed to load report data")
	}
	result := buildStudentSummaries(ds, dateRange)
	s.metrics.RecordReport(reportKindStudents)
	s.remember(ctx, gen, key, result)
	return result, false, nil
}

func buildStudentSummaries(ds *models.Dataset, dateRange models.DateRange) *models.StudentSummaryReport {
	inRange := reporting.FilterEntriesInRange(ds.Entries, dateRange.Start, dateRange.End)
	rows := make([]models.StudentSummaryRow, 0, len(ds.Students))
	for _, st := range ds.Students {
		stats := reporting.ComputeStudentStats(st.ID, inRange, ds.Categories)
		rows = append(rows, models.StudentSummaryRow{
			StudentID:     st.ID,
			Name:          st.Name,
			ClassName:     reporting.ClassName(st, ds.Classes),
			PositiveCount: stats.PositiveCount,
			NegativeCount: stats.NegativeCount,
			Score:         stats.Score,
		})
	}
	return &models.StudentSummaryReport{
		DateRange: dateRange,
		Period:    reporting.FormatDateRange(dateRange.Start, dateRange.End),
		Students:  rows,
	}
}
