package models

import "time"

// MasteryRecord tracks proficiency in one subject for one user. ConceptID is
// an optional finer-grained key; it is empty for plain subject tracking and
// participates in the unique index so concept rows never collide with the
// subject row.
type MasteryRecord struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	UserID    uint   `gorm:"not null;uniqueIndex:idx_mastery_user_subject" json:"user_id"`
	Subject   string `gorm:"size:128;not null;uniqueIndex:idx_mastery_user_subject" json:"subject"`
	ConceptID string `gorm:"size:64;not null;default:'';uniqueIndex:idx_mastery_user_subject" json:"concept_id,omitempty"`

	Attempts     int `gorm:"not null;default:0" json:"attempts"`
	CorrectCount int `gorm:"not null;default:0" json:"correct_count"`
	// MasteryLevel is correct/attempts*100, recomputed from the post-increment
	// counts on every event.
	MasteryLevel float64 `gorm:"not null;default:0" json:"mastery_level"`

	LastStudied time.Time `gorm:"index" json:"last_studied"`
	NextReview  time.Time `json:"next_review"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ReviewInterval is how long a subject may rest before it shows up in
// review recommendations.
const ReviewInterval = 72 * time.Hour
