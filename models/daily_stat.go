package models

import "time"

// DailyStat is the per-user, per-calendar-day rollup of answer activity.
// Date is the server-local date in YYYY-MM-DD form; one row per (user, date),
// created lazily by the first event of the day and updated in place by an
// atomic upsert afterwards.
type DailyStat struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	UserID uint   `gorm:"not null;uniqueIndex:idx_daily_user_date" json:"user_id"`
	Date   string `gorm:"size:10;not null;uniqueIndex:idx_daily_user_date" json:"date"`

	QuestionsAnswered int `gorm:"not null;default:0" json:"questions_answered"`
	CorrectCount      int `gorm:"not null;default:0" json:"correct_count"`
	ExpGained         int `gorm:"not null;default:0" json:"exp_gained"`
	GoldGained        int `gorm:"not null;default:0" json:"gold_gained"`
	// Accumulated seconds reported by the client.
	TimeSpent int `gorm:"not null;default:0" json:"time_spent"`
	// Streak counts consecutive correct answers within the day; an incorrect
	// answer resets it to zero. MaxStreak never drops below Streak.
	Streak    int `gorm:"not null;default:0" json:"streak"`
	MaxStreak int `gorm:"not null;default:0" json:"max_streak"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DateLayout is the canonical encoding for DailyStat.Date.
const DateLayout = "2006-01-02"
