package models

import "time"

// ScenarioProgress records a user's best result for one scenario. Updates are
// monotone: the completed flag never clears and BestScore never decreases.
type ScenarioProgress struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	UserID     uint   `gorm:"not null;uniqueIndex:idx_scenario_user" json:"user_id"`
	ScenarioID string `gorm:"size:64;not null;uniqueIndex:idx_scenario_user" json:"scenario_id"`

	Completed bool `gorm:"not null;default:false" json:"completed"`
	BestScore int  `gorm:"not null;default:0" json:"best_score"`
	// Timestamp of the first completion; later completions keep it.
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
