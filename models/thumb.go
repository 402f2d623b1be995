package models

import "time"

// Thumb is one user's vote on one post: -1, 0 or 1. The composite unique
// index guarantees at most one row per (contact, rater); votes overwrite.
type Thumb struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	ContactID uint `gorm:"not null;uniqueIndex:idx_contact_rater"`
	RaterID   uint `gorm:"not null;uniqueIndex:idx_contact_rater"`
	Rating    int  `gorm:"not null;default:0"`
}
