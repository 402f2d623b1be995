package models

import "time"

// Contact is a post on the feed. ImageURL stays nil until the author
// confirms a direct-to-storage upload for it.
type Contact struct {
	ID          uint `gorm:"primaryKey"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	UserID      uint    `gorm:"index;not null"` // author
	PostContent string  `gorm:"type:text;not null"`
	Name        string  `gorm:"size:255"` // author display name, denormalized at creation
	Email       string  `gorm:"size:255"`
	ImageURL    *string `gorm:"size:1024"`
}
