package models

import "time"

// Student is the roster projection used for essay attribution. It is created
// the first time a user submits and kept in section-sync with the owning User
// record (matched by email). Roll defaults to the email when no institutional
// roll is assigned.
type Student struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Email     string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Roll      string    `gorm:"size:255;uniqueIndex;not null" json:"roll"`
	Section   string    `gorm:"size:64" json:"section"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
