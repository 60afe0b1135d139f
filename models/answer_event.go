package models

import "time"

// AnswerEvent is the append-only record of a graded answer submission.
// Rows are immutable once written.
type AnswerEvent struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"index;not null;uniqueIndex:idx_events_user_client" json:"user_id"`
	// EventUID is assigned by the server; ClientEventID is an optional
	// idempotency key supplied by the caller. Replaying the same
	// (user, client_event_id) pair does not create a second row. NULL keys
	// are distinct under SQLite unique semantics, so events without a key
	// never collide.
	EventUID      string  `gorm:"size:36;not null" json:"event_uid"`
	ClientEventID *string `gorm:"size:64;uniqueIndex:idx_events_user_client" json:"client_event_id,omitempty"`

	QuestionID    string `gorm:"size:64;not null" json:"question_id"`
	Subject       string `gorm:"size:128;index" json:"subject"`
	Correct       bool   `gorm:"not null" json:"correct"`
	Answer        string `gorm:"size:512" json:"answer"`
	CorrectAnswer string `gorm:"size:512" json:"correct_answer"`
	// Seconds spent on the question; nil when the client did not report it.
	TimeSpent *int `json:"time_spent,omitempty"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
}
