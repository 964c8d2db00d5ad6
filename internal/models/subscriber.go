package models

import "time"

// Subscriber is a newsletter signup. Emails are stored lower-cased and
// duplicates are ignored on insert.
type Subscriber struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Email     string    `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	CreatedAt time.Time `json:"created_at"`
}
