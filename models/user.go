package models

import (
	"time"
)

// User model
type User struct {
	ID             uint `gorm:"primaryKey"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      *time.Time `gorm:"index"`
	Username       string     `gorm:"size:255;not null;unique"`
	Email          string     `gorm:"size:255"`
	FirstName      string     `gorm:"size:128"`
	LastName       string     `gorm:"size:128"`
	HashedPassword []byte     `gorm:"not null"`
	Contacts       []Contact  `gorm:"foreignKey:UserID"`
	RoleID         *uint      `gorm:"index"`
	Role           Role       `gorm:"foreignKey:RoleID;references:ID"`
}

// DisplayName is the author name stamped onto posts.
func (u *User) DisplayName() string {
	if u.FirstName == "" && u.LastName == "" {
		return u.Username
	}
	return u.FirstName + " " + u.LastName
}
