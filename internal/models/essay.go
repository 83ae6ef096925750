package models

import (
	"time"

	"gorm.io/datatypes"
)

// Essay is a student submission against an assignment. The student_* columns
// are a point-in-time snapshot taken when the essay is written; they are not
// updated when the roster record changes later.
//
// The composite unique index on (student_roll, assignment_id) is the source of
// truth for the one-submission-per-student-per-assignment rule. AssignmentID is
// nullable, so essays graded without an assignment reference are exempt.
type Essay struct {
	ID             uint               `gorm:"primaryKey" json:"id"`
	Title          string             `gorm:"size:255;not null" json:"title"`
	Content        string             `gorm:"type:text;not null" json:"content"`
	StudentID      uint               `gorm:"not null" json:"student_id"`
	StudentName    string             `gorm:"size:255;not null" json:"student_name"`
	StudentEmail   string             `gorm:"size:255;not null" json:"student_email"`
	StudentRoll    string             `gorm:"size:255;not null;uniqueIndex:idx_essays_roll_assignment" json:"student_roll"`
	StudentSection string             `gorm:"size:64" json:"student_section"`
	AssignmentID   *uint              `gorm:"uniqueIndex:idx_essays_roll_assignment" json:"assignment_id"`
	Assignment     *Assignment        `json:"assignment,omitempty"`
	Grade          *float64           `json:"grade"`
	GradeLetter    *string            `gorm:"size:2" json:"grade_letter"`
	GPA            *float64           `json:"gpa"`
	Feedback       string             `gorm:"type:text" json:"feedback"`
	Evaluation     datatypes.JSONMap  `gorm:"type:json" json:"evaluation"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

// IsGraded reports whether the essay carries a final grade.
func (e Essay) IsGraded() bool {
	return e.Grade != nil
}
