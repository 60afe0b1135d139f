package models

import "time"

// AchievementUnlock is a write-once row: the first unlock of an achievement
// wins and later attempts are ignored.
type AchievementUnlock struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"not null;uniqueIndex:idx_achievement_user" json:"user_id"`
	AchievementID string    `gorm:"size:64;not null;uniqueIndex:idx_achievement_user" json:"achievement_id"`
	UnlockedAt    time.Time `json:"unlocked_at"`
}

// BadgeEarned mirrors AchievementUnlock for badges.
type BadgeEarned struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	UserID   uint      `gorm:"not null;uniqueIndex:idx_badge_user" json:"user_id"`
	BadgeID  string    `gorm:"size:64;not null;uniqueIndex:idx_badge_user" json:"badge_id"`
	EarnedAt time.Time `json:"earned_at"`
}
