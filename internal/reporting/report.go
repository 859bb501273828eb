package reporting

import (
	"fmt"
	"strings"
	"time"

	"github.com/noah-isme/classroom-behavior-api/internal/models"
)

const (
	// DateLayout renders dates in the short month/day/year form used in report text.
	DateLayout = "1/2/2006"

	// RecentEntriesLimit caps the entry list in a text report.
	RecentEntriesLimit = 10

	NoClassLabel      = "No Class"
	UnknownClassLabel = "Unknown Class"
	unknownBehavior   = "Unknown"
)

// GenerateStudentReport builds the report for one student over dateRange.
func GenerateStudentReport(student models.Student, entries []models.BehaviorEntry, categories []models.BehaviorCategory, dateRange models.DateRange) models.BehaviorReport {
	filtered := FilterEntriesInRange(FilterEntriesByStudent(entries, student.ID), dateRange.Start, dateRange.End)
	positive, negative := ClassifyByType(filtered, categories)

	return models.BehaviorReport{
		StudentID:     student.ID,
		DateRange:     dateRange,
		TotalPositive: len(positive),
		TotalNegative: len(negative),
		Entries:       filtered,
		Trends:        ComputeWeeklyTrends(filtered, categories, dateRange),
	}
}

// FormatDateRange renders "<start> - <end>".
func FormatDateRange(start, end time.Time) string {
	return fmt.Sprintf("%s - %s", start.Format(DateLayout), end.Format(DateLayout))
}

// ClassName resolves the display name of a student's class. A student without
// a class or pointing at a deleted class gets a fallback label.
func ClassName(student models.Student, classes []models.Class) string {
	if student.ClassID == nil || *student.ClassID == "" {
		return NoClassLabel
	}
	for _, c := range classes {
		if c.ID == *student.ClassID {
			if c.Name == "" {
				return UnknownClassLabel
			}
			return c.Name
		}
	}
	return UnknownClassLabel
}

// FormatStudentReport renders a plain-text report suitable for sharing.
func FormatStudentReport(student models.Student, className string, report models.BehaviorReport, categories []models.BehaviorCategory) string {
	idx := indexCategories(categories)

	var b strings.Builder
	b.WriteString("BEHAVIOR REPORT\n")
	fmt.Fprintf(&b, "Student: %s\n", student.Name)
	fmt.Fprintf(&b, "Class: %s\n", className)
	fmt.Fprintf(&b, "Period: %s\n", FormatDateRange(report.DateRange.Start, report.DateRange.End))
	b.WriteString("\nSUMMARY:\n")
	fmt.Fprintf(&b, "• Positive Behaviors: %d\n", report.TotalPositive)
	fmt.Fprintf(&b, "• Negative Behaviors: %d\n", report.TotalNegative)
	fmt.Fprintf(&b, "• Total Score: %d\n", ComputeScore(report.Entries, categories))
	b.WriteString("\nRECENT ENTRIES:")

	recent := report.Entries
	if len(recent) > RecentEntriesLimit {
		recent = recent[:RecentEntriesLimit]
	}
	for _, e := range recent {
		name := unknownBehavior
		if c, ok := idx[e.BehaviorID]; ok {
			name = c.Name
		}
		fmt.Fprintf(&b, "\n• %s - %s", name, e.Timestamp.Format(DateLayout))
	}
	return b.String()
}
