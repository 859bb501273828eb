package models

// Collection names a persisted record collection. The value doubles as its storage key.
type Collection string

const (
	CollectionStudents  Collection = "students"
	CollectionBehaviors Collection = "behaviors"
	CollectionEntries   Collection = "behavior_entries"
	CollectionClasses   Collection = "classes"
)

// AllCollections lists every persisted collection.
var AllCollections = []Collection{CollectionStudents, CollectionBehaviors, CollectionEntries, CollectionClasses}

// Dataset is the complete in-memory state handed to the reporting core.
type Dataset struct {
	Students   []Student          `json:"students"`
	Categories []BehaviorCategory `json:"behaviors"`
	Entries    []BehaviorEntry    `json:"behavior_entries"`
	Classes    []Class            `json:"classes"`
}

// FindStudent looks up a student by id.
func (d *Dataset) FindStudent(id string) (*Student, bool) {
	for i := range d.Students {
		if d.Students[i].ID == id {
			return &d.Students[i], true
		}
	}
	return nil, false
}

// FindCategory looks up a behavior category by id.
func (d *Dataset) FindCategory(id string) (*BehaviorCategory, bool) {
	for i := range d.Categories {
		if d.Categories[i].ID == id {
			return &d.Categories[i], true
		}
	}
	return nil, false
}

// FindClass looks up a class by id.
func (d *Dataset) FindClass(id string) (*Class, bool) {
	for i := range d.Classes {
		if d.Classes[i].ID == id {
			return &d.Classes[i], true
		}
	}
	return nil, false
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
