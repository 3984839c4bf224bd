package model

import "time"

// Learner owns exactly one progress record, keyed by ID.
type Learner struct {
	ID        string     `json:"id" gorm:"primaryKey;type:text;not null"`
	Username  string     `json:"username" gorm:"uniqueIndex;not null;size:50"`
	Password  string     `json:"-" gorm:"not null"`
	LastLogin *time.Time `json:"last_login,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
