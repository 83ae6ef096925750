package models

import (
	"time"

	"gorm.io/datatypes"
)

// Assignment represents a graded essay prompt. Assignments are immutable after
// creation. An empty Sections list means the assignment is visible to every
// section.
type Assignment struct {
	ID             uint                       `gorm:"primaryKey" json:"id"`
	Title          string                     `gorm:"size:255;not null" json:"title"`
	Description    string                     `gorm:"type:text" json:"description"`
	DueDate        time.Time                  `gorm:"not null" json:"due_date"`
	TotalMarks     int                        `gorm:"not null" json:"total_marks"`
	Instructions   string                     `gorm:"type:text" json:"instructions"`
	AttachmentName string                     `gorm:"size:255" json:"attachment_name"`
	Sections       datatypes.JSONSlice[string] `gorm:"type:json" json:"sections"`
	CreatedAt      time.Time                  `json:"created_at"`
	UpdatedAt      time.Time                  `json:"updated_at"`
}

// IsPastDue returns true when the assignment deadline has already passed.
func (a Assignment) IsPastDue(reference time.Time) bool {
	return reference.After(a.DueDate)
}

// AllowsSection reports whether the assignment is open to the given section.
func (a Assignment) AllowsSection(section string) bool {
	if len(a.Sections) == 0 {
		return true
	}
	for _, s := range a.Sections {
		if s == section {
			return true
		}
	}
	return false
}
