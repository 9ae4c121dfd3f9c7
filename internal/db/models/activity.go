package models

import "time"

// Activity is one entry of the auth activity journal.
type Activity struct {
	ID         uint64    `gorm:"primaryKey"`
	Type       string    `gorm:"size:64;not null;index"`
	UserID     string    `gorm:"size:64;index"`
	Email      string    `gorm:"size:255;index"`
	Detail     string    `gorm:"size:512"`
	OccurredAt time.Time `gorm:"not null;index"`
}
