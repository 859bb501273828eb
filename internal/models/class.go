package models

import "time"

// Class groups students. Students is a snapshot taken when the class was
// created and is not kept in sync with the roster afterwards.
type Class struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Students  []Student `json:"students"`
	CreatedAt time.Time `json:"created_at"`
}
