package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/classroom-behavior-api/internal/models"
	"github.com/noah-isme/classroom-behavior-api/internal/reporting"
	appErrors "github.com/noah-isme/classroom-behavior-api/pkg/errors"
	"github.com/noah-isme/classroom-behavior-api/pkg/export"
)

type rangeResolver interface {
	ResolveRange(start, end *time.Time) models.DateRange
}

// ExportFile is a rendered download.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportService renders reports as CSV or PDF documents.
type ExportService struct {
	store  collectionStore
	ranges rangeResolver
	logger *zap.Logger
	now    Clock
}

// NewExportService constructs an ExportService.
func NewExportService(store collectionStore, ranges rangeResolver, logger *zap.Logger, now Clock) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if now == nil {
		now = systemClock
	}
	return &ExportService{store: store, ranges: ranges, logger: logger, now: now}
}

func exporterFor(format string) (export.Exporter, error) {
	exp, err := export.ForFormat(format)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "format must be csv or pdf")
	}
	return exp, nil
}

// StudentReport renders one student's report: the text summary as notes and
// every entry in the period as a table, newest first.
func (s *ExportService) StudentReport(ctx context.Context, studentID string, start, end *time.Time, format string) (*ExportFile, error) {
	exp, err := exporterFor(format)
	if err != nil {
		return nil, err
	}
	ds, err := s.store.Load(ctx)
	if err != nil {
		return nil, storeError(err, "failed to load report data")
	}
	view, err := buildStudentReport(ds, studentID, s.ranges.ResolveRange(start, end))
	if err != nil {
		return nil, err
	}

	categories := make(map[string]models.BehaviorCategory, len(ds.Categories))
	for _, c := range ds.Categories {
		categories[c.ID] = c
	}

	data := export.Dataset{
		Title:   "Behavior Report - " + view.Student.Name,
		Notes:   reportHeader(view.Text),
		Headers: []string{"Date", "Behavior", "Type", "Points", "Notes", "Teacher"},
	}
	for _, e := range reporting.SortEntriesNewestFirst(view.Report.Entries) {
		row := map[string]string{
			"Date":     e.Timestamp.Format(reporting.DateLayout),
			"Behavior": "Unknown",
			"Teacher":  e.TeacherID,
		}
		if c, ok := categories[e.BehaviorID]; ok {
			row["Behavior"] = c.Name
			row["Type"] = string(c.Type)
			row["Points"] = strconv.Itoa(c.Points)
		}
		if e.Notes != nil {
			row["Notes"] = *e.Notes
		}
		data.Rows = append(data.Rows, row)
	}

	return s.render(exp, data, "behavior_report_"+view.Student.Name)
}

// reportHeader keeps the text report up to its entry listing, which the
// table replaces.
func reportHeader(text string) []string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if strings.HasPrefix(line, "RECENT ENTRIES") {
			lines = lines[:i]
			break
		}
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// StudentSummaries renders the per-student listing for the period.
func (s *ExportService) StudentSummaries(ctx context.Context, start, end *time.Time, format string) (*ExportFile, error) {
	exp, err := exporterFor(format)
	if err != nil {
		return nil, err
	}
	ds, err := s.store.Load(ctx)
	if err != nil {
		return nil, storeError(err, "failed to load report data")
	}
	dateRange := s.ranges.ResolveRange(start, end)
	report := buildStudentSummaries(ds, dateRange)
	summary := reporting.ComputeClassSummary(ds.Entries, ds.Categories, dateRange)

	data := export.Dataset{
		Title: "Class Behavior Summary",
		Notes: []string{
			"Period: " + report.Period,
			fmt.Sprintf("Total Behaviors: %d", summary.TotalEntries),
			fmt.Sprintf("Positive: %d", summary.PositiveCount),
			fmt.Sprintf("Negative: %d", summary.NegativeCount),
			fmt.Sprintf("Positive Ratio: %.0f%%", summary.PositiveRatio),
		},
		Headers: []string{"Student", "Class", "Positive", "Negative", "Score"},
	}
	for _, row := range report.Students {
		data.Rows = append(data.Rows, map[string]string{
			"Student":  row.Name,
			"Class":    row.ClassName,
			"Positive": strconv.Itoa(row.PositiveCount),
			"Negative": strconv.Itoa(row.NegativeCount),
			"Score":    strconv.Itoa(row.Score),
		})
	}

	return s.render(exp, data, "behavior_summary")
}

func (s *ExportService) render(exp export.Exporter, data export.Dataset, base string) (*ExportFile, error) {
	payload, err := exp.Render(data)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}
	filename := fmt.Sprintf("%s_%s.%s", sanitizeFilename(base), s.now().Format("20060102"), exp.Extension())
	s.logger.Debug("export rendered", zap.String("filename", filename), zap.Int("bytes", len(payload)))
	return &ExportFile{Filename: filename, ContentType: exp.ContentType(), Data: payload}, nil
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "na"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".", "\"", "")
	result := strings.ToLower(replacer.Replace(raw))
	if len(result) > 100 {
		return result[:100]
	}
	return result
}
