package models

import "time"

// PendingUpload tracks the storage-side lifecycle of a user's image upload.
// A row with Confirmed=false was staged (signed PUT URL issued) but the
// client never confirmed the bytes arrived; such rows are garbage-collected
// lazily on the next status query. Invariant: at most one row per owner —
// staging a new upload purges the owner's earlier rows first.
type PendingUpload struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	OwnerID   uint      `gorm:"index;not null"`
	FilePath  string    `gorm:"size:512;not null;index"` // unique per upload attempt: <prefix>/<uuid><ext>
	FileName  string    `gorm:"size:255"`
	FileType  string    `gorm:"size:128"`
	FileSize  int64
	FileDate  time.Time
	Confirmed bool `gorm:"default:false;index"`
}
