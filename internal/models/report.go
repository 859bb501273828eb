package models

import "time"

// DateRange is a closed time interval.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t lies within [Start, End].
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// WeeklyTrend counts positive and negative entries within one week bucket.
type WeeklyTrend struct {
	Week          int `json:"week"`
	PositiveCount int `json:"positive_count"`
	NegativeCount int `json:"negative_count"`
}

// BehaviorReport is the derived per-student report for a date range.
type BehaviorReport struct {
	StudentID     string          `json:"student_id"`
	DateRange     DateRange       `json:"date_range"`
	TotalPositive int             `json:"total_positive"`
	TotalNegative int             `json:"total_negative"`
	Entries       []BehaviorEntry `json:"entries"`
	Trends        []WeeklyTrend   `json:"trends"`
}

// ClassSummary aggregates behavior counts across a set of entries.
type ClassSummary struct {
	TotalEntries  int     `json:"total_entries"`
	PositiveCount int     `json:"positive_count"`
	NegativeCount int     `json:"negative_count"`
	PositiveRatio float64 `json:"positive_ratio"`
}

// StudentStats aggregates counts and net score for a single student.
type StudentStats struct {
	StudentID     string `json:"student_id"`
	PositiveCount int    `json:"positive_count"`
	NegativeCount int    `json:"negative_count"`
	Score         int    `json:"score"`
}

// StudentReportView bundles a report with presentation data.
type StudentReportView struct {
	Student   Student        `json:"student"`
	ClassName string         `json:"class_name"`
	Period    string         `json:"period"`
	Score     int            `json:"score"`
	Report    BehaviorReport `json:"report"`
	Text      string         `json:"text"`
}

// StudentSummaryRow is one line of the per-student report listing.
type StudentSummaryRow struct {
	StudentID     string `json:"student_id"`
	Name          string `json:"name"`
	ClassName     string `json:"class_name"`
	PositiveCount int    `json:"positive_count"`
	NegativeCount int    `json:"negative_count"`
	Score         int    `json:"score"`
}

// TodaySummary captures the behavior logged on the current day.
type TodaySummary struct {
	Date          string          `json:"date"`
	PositiveCount int             `json:"positive_count"`
	NegativeCount int             `json:"negative_count"`
	Entries       []BehaviorEntry `json:"entries"`
}

// ClassSummaryReport is the class overview for a period, optionally limited to one class.
type ClassSummaryReport struct {
	ClassID   string       `json:"class_id,omitempty"`
	DateRange DateRange    `json:"date_range"`
	Period    string       `json:"period"`
	Summary   ClassSummary `json:"summary"`
}

// StudentSummaryReport lists per-student counts for a period in roster order.
type StudentSummaryReport struct {
	DateRange DateRange           `json:"date_range"`
	Period    string              `json:"period"`
	Students  []StudentSummaryRow `json:"students"`
}
