package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a player account. Passwords are stored as bcrypt hashes only.
// Experience, gold and level are mutated exclusively through atomic SQL
// increments (see the answer submission path); never read-modify-write them.
type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Username     string `gorm:"size:64;uniqueIndex;not null" json:"username"`
	Email        string `gorm:"size:255" json:"email"`
	PasswordHash string `gorm:"size:255" json:"-"`
	RegisterIP   string `gorm:"size:45" json:"-"`

	Level      int `gorm:"not null;default:1" json:"level"`
	Experience int `gorm:"not null;default:0" json:"experience"`
	Gold       int `gorm:"not null;default:500" json:"gold"`
	// Hit points are carried on the account but not touched by the progress
	// engine.
	HitPoints    int `gorm:"not null;default:100" json:"hit_points"`
	MaxHitPoints int `gorm:"not null;default:100" json:"max_hit_points"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate hook ensures timestamps are set even when not provided.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	now := time.Now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	return nil
}

// BeforeUpdate ensures the UpdatedAt timestamp is refreshed.
func (u *User) BeforeUpdate(tx *gorm.DB) error {
	u.UpdatedAt = time.Now()
	return nil
}
