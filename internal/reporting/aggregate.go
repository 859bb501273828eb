// Package reporting holds the pure aggregation and report assembly logic.
// Every function works on the collections it is given and never reads the
// clock, touches storage or mutates its inputs.
package reporting

import (
	"sort"
	"time"

	"github.com/noah-isme/classroom-behavior-api/internal/models"
)

// Week is the width of a trend bucket.
const Week = 7 * 24 * time.Hour

// categoryIndex maps category id to category for repeated lookups.
type categoryIndex map[string]models.BehaviorCategory

func indexCategories(categories []models.BehaviorCategory) categoryIndex {
	idx := make(categoryIndex, len(categories))
	for _, c := range categories {
		idx[c.ID] = c
	}
	return idx
}

// typeOf returns the category type for an entry and false when the category is unknown.
func (idx categoryIndex) typeOf(entry models.BehaviorEntry) (models.BehaviorType, bool) {
	c, ok := idx[entry.BehaviorID]
	if !ok {
		return "", false
	}
	return c.Type, true
}

// FilterEntriesInRange keeps entries with start <= timestamp <= end, preserving order.
func FilterEntriesInRange(entries []models.BehaviorEntry, start, end time.Time) []models.BehaviorEntry {
	filtered := make([]models.BehaviorEntry, 0)
	if start.After(end) {
		return filtered
	}
	r := models.DateRange{Start: start, End: end}
	for _, e := range entries {
		if r.Contains(e.Timestamp) {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

// FilterEntriesByStudent keeps entries logged against studentID, preserving order.
func FilterEntriesByStudent(entries []models.BehaviorEntry, studentID string) []models.BehaviorEntry {
	filtered := make([]models.BehaviorEntry, 0)
	for _, e := range entries {
		if e.StudentID == studentID {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

// ClassifyByType splits entries by the type of their category. Entries whose
// category cannot be resolved land in neither list.
func ClassifyByType(entries []models.BehaviorEntry, categories []models.BehaviorCategory) (positive, negative []models.BehaviorEntry) {
	idx := indexCategories(categories)
	positive = make([]models.BehaviorEntry, 0)
	negative = make([]models.BehaviorEntry, 0)
	for _, e := range entries {
		t, ok := idx.typeOf(e)
		if !ok {
			continue
		}
		switch t {
		case models.BehaviorPositive:
			positive = append(positive, e)
		case models.BehaviorNegative:
			negative = append(negative, e)
		}
	}
	return positive, negative
}

// ComputeScore sums the points of each entry's category. Unresolved entries add 0.
func ComputeScore(entries []models.BehaviorEntry, categories []models.BehaviorCategory) int {
	idx := indexCategories(categories)
	total := 0
	for _, e := range entries {
		if c, ok := idx[e.BehaviorID]; ok {
			total += c.Points
		}
	}
	return total
}

// ComputeWeeklyTrends partitions the range into consecutive seven day windows
// starting at Start, the last one clipped to End, and counts entries per window.
//
// Windows are half-open [ws, ws+7d) except the final window, which is closed at
// End. An entry exactly on the boundary between two windows is counted once, in
// the later window. A window ending exactly on End is followed by a zero-width
// final window [End, End].
func ComputeWeeklyTrends(entries []models.BehaviorEntry, categories []models.BehaviorCategory, dateRange models.DateRange) []models.WeeklyTrend {
	trends := make([]models.WeeklyTrend, 0)
	idx := indexCategories(categories)

	week := 1
	for ws := dateRange.Start; !ws.After(dateRange.End); ws = ws.Add(Week) {
		we := ws.Add(Week)
		last := we.After(dateRange.End)
		if last {
			we = dateRange.End
		}

		bucket := models.WeeklyTrend{Week: week}
		for _, e := range entries {
			if e.Timestamp.Before(ws) {
				continue
			}
			if last {
				if e.Timestamp.After(we) {
					continue
				}
			} else if !e.Timestamp.Before(we) {
				continue
			}
			switch t, _ := idx.typeOf(e); t {
			case models.BehaviorPositive:
				bucket.PositiveCount++
			case models.BehaviorNegative:
				bucket.NegativeCount++
			}
		}
		trends = append(trends, bucket)
		week++
	}
	return trends
}

// ComputeClassSummary aggregates the entries inside dateRange. TotalEntries
// includes entries whose category is unknown; the ratio only considers
// classified entries and is 0 when there are none.
func ComputeClassSummary(entries []models.BehaviorEntry, categories []models.BehaviorCategory, dateRange models.DateRange) models.ClassSummary {
	inRange := FilterEntriesInRange(entries, dateRange.Start, dateRange.End)
	positive, negative := ClassifyByType(inRange, categories)

	summary := models.ClassSummary{
		TotalEntries:  len(inRange),
		PositiveCount: len(positive),
		NegativeCount: len(negative),
	}
	if classified := summary.PositiveCount + summary.NegativeCount; classified > 0 {
		summary.PositiveRatio = float64(summary.PositiveCount) / float64(classified) * 100
	}
	return summary
}

// ComputeStudentStats returns counts and net score for one student over the given entries.
func ComputeStudentStats(studentID string, entries []models.BehaviorEntry, categories []models.BehaviorCategory) models.StudentStats {
	own := FilterEntriesByStudent(entries, studentID)
	positive, negative := ClassifyByType(own, categories)
	return models.StudentStats{
		StudentID:     studentID,
		PositiveCount: len(positive),
		NegativeCount: len(negative),
		Score:         ComputeScore(own, categories),
	}
}

// EntriesOnDay keeps entries logged on the same calendar day as day, in day's location.
func EntriesOnDay(entries []models.BehaviorEntry, day time.Time) []models.BehaviorEntry {
	y, m, d := day.Date()
	loc := day.Location()
	filtered := make([]models.BehaviorEntry, 0)
	for _, e := range entries {
		ey, em, ed := e.Timestamp.In(loc).Date()
		if ey == y && em == m && ed == d {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

// SortEntriesNewestFirst returns a copy of entries ordered by timestamp, latest first.
func SortEntriesNewestFirst(entries []models.BehaviorEntry) []models.BehaviorEntry {
	sorted := make([]models.BehaviorEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.After(sorted[j].Timestamp)
	})
	return sorted
}
