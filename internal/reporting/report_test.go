package reporting

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/classroom-behavior-api/internal/models"
)

func TestGenerateStudentReportWithDefaultCategories(t *testing.T) {
	categories := models.DefaultBehaviorCategories(base)
	student := models.Student{ID: "s1", Name: "Ada"}
	dateRange := models.DateRange{Start: base, End: base.Add(days(6))}

	entries := make([]models.BehaviorEntry, 0, len(categories)+1)
	for i, c := range categories {
		entries = append(entries, entry(fmt.Sprintf("e%d", i), "s1", c.ID, base.Add(time.Duration(i)*time.Hour)))
	}
	entries = append(entries, entry("other", "s2", "1", base))

	report := GenerateStudentReport(student, entries, categories, dateRange)
	assert.Equal(t, "s1", report.StudentID)
	assert.Equal(t, dateRange, report.DateRange)
	assert.Equal(t, 4, report.TotalPositive)
	assert.Equal(t, 4, report.TotalNegative)
	assert.Len(t, report.Entries, 8)
	assert.Equal(t, 6, ComputeScore(report.Entries, categories))
	require.Len(t, report.Trends, 1)
	assert.Equal(t, models.WeeklyTrend{Week: 1, PositiveCount: 4, NegativeCount: 4}, report.Trends[0])
}

func TestGenerateStudentReportWithoutEntries(t *testing.T) {
	student := models.Student{ID: "s1", Name: "Ada"}
	dateRange := models.DateRange{Start: base, End: base.Add(days(30))}

	report := GenerateStudentReport(student, nil, models.DefaultBehaviorCategories(base), dateRange)
	assert.Equal(t, 0, report.TotalPositive)
	assert.Equal(t, 0, report.TotalNegative)
	assert.NotNil(t, report.Entries)
	assert.Empty(t, report.Entries)
	require.Len(t, report.Trends, 5)
	for i, trend := range report.Trends {
		assert.Equal(t, i+1, trend.Week)
		assert.Zero(t, trend.PositiveCount)
		assert.Zero(t, trend.NegativeCount)
	}
}

func TestGenerateStudentReportIsDeterministic(t *testing.T) {
	categories := models.DefaultBehaviorCategories(base)
	student := models.Student{ID: "s1"}
	dateRange := models.DateRange{Start: base, End: base.Add(days(14))}
	entries := []models.BehaviorEntry{
		entry("e1", "s1", "1", base.Add(days(1))),
		entry("e2", "s1", "5", base.Add(days(8))),
	}

	first := GenerateStudentReport(student, entries, categories, dateRange)
	second := GenerateStudentReport(student, entries, categories, dateRange)
	assert.Equal(t, first, second)
}

func TestFormatDateRange(t *testing.T) {
	end := time.Date(2024, 3, 14, 18, 0, 0, 0, time.UTC)
	assert.Equal(t, "3/4/2024 - 3/14/2024", FormatDateRange(base, end))
}

func TestClassNameFallbacks(t *testing.T) {
	classes := []models.Class{{ID: "c1", Name: "Math 101"}}
	classID := "c1"
	dangling := "gone"
	empty := ""

	assert.Equal(t, "Math 101", ClassName(models.Student{ClassID: &classID}, classes))
	assert.Equal(t, NoClassLabel, ClassName(models.Student{}, classes))
	assert.Equal(t, NoClassLabel, ClassName(models.Student{ClassID: &empty}, classes))
	assert.Equal(t, UnknownClassLabel, ClassName(models.Student{ClassID: &dangling}, classes))
}

func TestFormatStudentReport(t *testing.T) {
	categories := models.DefaultBehaviorCategories(base)
	student := models.Student{ID: "s1", Name: "Ada"}
	dateRange := models.DateRange{Start: base, End: base.Add(days(10))}

	entries := []models.BehaviorEntry{
		entry("e1", "s1", "1", base),
		entry("e2", "s1", "missing", base.Add(days(1))),
	}
	for i := 0; i < 12; i++ {
		entries = append(entries, entry(fmt.Sprintf("f%d", i), "s1", "5", base.Add(days(2))))
	}

	report := GenerateStudentReport(student, entries, categories, dateRange)
	text := FormatStudentReport(student, "Math 101", report, categories)

	assert.True(t, strings.HasPrefix(text, "BEHAVIOR REPORT\nStudent: Ada\nClass: Math 101\nPeriod: 3/4/2024 - 3/14/2024\n"))
	assert.Contains(t, text, "• Positive Behaviors: 1")
	assert.Contains(t, text, "• Negative Behaviors: 12")
	assert.Contains(t, text, "• Total Score: -19")
	assert.Contains(t, text, "• Helping a Classmate - 3/4/2024")
	assert.Contains(t, text, "• Unknown - 3/5/2024")
	assert.Equal(t, 3+RecentEntriesLimit, strings.Count(text, "\n• "))
}
