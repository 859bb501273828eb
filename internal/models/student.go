package models

import "time"

// Student represents a learner on the teacher's roster.
type Student struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	ClassID   *string   `json:"class_id,omitempty"`
	Email     *string   `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// StudentFilter encapsulates allowed search parameters for listing students.
type StudentFilter struct {
	Search   string
	ClassID  string
	Page     int
	PageSize int
}

// StudentDashboard is the single-student view: identity, all-time stats and history.
type StudentDashboard struct {
	Student   Student         `json:"student"`
	ClassName string          `json:"class_name"`
	Stats     StudentStats    `json:"stats"`
	Entries   []BehaviorEntry `json:"entries"`
}
