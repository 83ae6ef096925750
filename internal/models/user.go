package models

import "time"

// Role values for authenticated principals.
const (
	RoleAdmin   = "admin"
	RoleTeacher = "teacher"
	RoleStudent = "student"
)

// User is an authentication principal. Role and section are authoritative
// here; token claims only carry the user id.
type User struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	Email              string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash       string    `gorm:"size:255;not null" json:"-"`
	Role               string    `gorm:"size:32;not null;default:student" json:"role"`
	Section            string    `gorm:"size:64" json:"section"`
	SecurityQuestion   string    `gorm:"size:255" json:"security_question,omitempty"`
	SecurityAnswerHash string    `gorm:"size:255" json:"-"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// IsStaff reports whether the user may grade and manage the catalog.
func (u User) IsStaff() bool {
	return u.Role == RoleAdmin || u.Role == RoleTeacher
}
