package models

import "time"

// BehaviorType represents the polarity of a behavior category.
type BehaviorType string

const (
	BehaviorPositive BehaviorType = "positive"
	BehaviorNegative BehaviorType = "negative"
)

// Valid reports whether the type is one of the known polarities.
func (t BehaviorType) Valid() bool {
	return t == BehaviorPositive || t == BehaviorNegative
}

// BehaviorCategory is a named, signed point value used to tag logged events.
// Points carry the sign of Type: positive categories are > 0, negative < 0.
type BehaviorCategory struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Type      BehaviorType `json:"type"`
	Points    int          `json:"points"`
	IsCustom  bool         `json:"is_custom"`
	CreatedAt time.Time    `json:"created_at"`
}

// BehaviorEntry links one student to one behavior category at a point in time.
type BehaviorEntry struct {
	ID         string    `json:"id"`
	StudentID  string    `json:"student_id"`
	BehaviorID string    `json:"behavior_id"`
	Timestamp  time.Time `json:"timestamp"`
	Notes      *string   `json:"notes,omitempty"`
	TeacherID  string    `json:"teacher_id"`
}

// BehaviorEntryFilter narrows entry listings.
type BehaviorEntryFilter struct {
	StudentID  string
	BehaviorID string
	DateFrom   *time.Time
	DateTo     *time.Time
}

// DefaultBehaviorCategories returns the eight seeded categories.
func DefaultBehaviorCategories(now time.Time) []BehaviorCategory {
	seed := []struct {
		id     string
		name   string
		kind   BehaviorType
		points int
	}{
		{"1", "Helping a Classmate", BehaviorPositive, 5},
		{"2", "On-task Behavior", BehaviorPositive, 3},
		{"3", "Excellent Participation", BehaviorPositive, 5},
		{"4", "Following Directions", BehaviorPositive, 3},
		{"5", "Off-task Behavior", BehaviorNegative, -2},
		{"6", "Disruptive Talking", BehaviorNegative, -3},
		{"7", "Incomplete Work", BehaviorNegative, -2},
		{"8", "Not Following Directions", BehaviorNegative, -3},
	}
	categories := make([]BehaviorCategory, len(seed))
	for i, s := range seed {
		categories[i] = BehaviorCategory{
			ID:        s.id,
			Name:      s.name,
			Type:      s.kind,
			Points:    s.points,
			IsCustom:  false,
			CreatedAt: now,
		}
	}
	return categories
}
