// backend/internal/models/quiz.go
package models

import (
	"time"

	"gorm.io/gorm"
)

// QuizType selects the tally semantics for every question in a quiz.
// It is fixed at creation; changing it would invalidate stored counters.
type QuizType string

const (
	QuizTypePoll QuizType = "poll"
	QuizTypeQA   QuizType = "qa"
)

func (t QuizType) Valid() bool {
	return t == QuizTypePoll || t == QuizTypeQA
}

type Quiz struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
	Title       string         `json:"title" gorm:"not null"`
	Type        QuizType       `json:"type" gorm:"type:varchar(8);not null"`
	Impressions int64          `json:"impressions" gorm:"not null;default:0"`
	CreatorID   uint           `json:"creator_id"`
	Questions   []Question     `json:"questions,omitempty" gorm:"foreignKey:QuizID"`
}

type Question struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
	QuizID    uint           `json:"quiz_id"`
	Position  int            `json:"position" gorm:"not null"`
	Text      string         `json:"text" gorm:"not null"`
	// Answer is the canonical answer for qa quizzes; empty for polls.
	Answer string `json:"answer,omitempty"`
	// Timer is display-only; the backend never enforces it.
	Timer *int `json:"timer,omitempty"`

	// Tally counters. Mutated only by answer application, via atomic
	// column increments in the repository.
	CorrectlyAnswered int64 `json:"correctly_answered" gorm:"not null;default:0"`
	WronglyAnswered   int64 `json:"wrongly_answered" gorm:"not null;default:0"`
	CountAttempted    int64 `json:"count_attempted" gorm:"not null;default:0"`

	Options []Option `json:"options,omitempty" gorm:"foreignKey:QuestionID"`
}

type Option struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`
	QuestionID uint           `json:"question_id"`
	Position   int            `json:"position" gorm:"not null"`
	Text       string         `json:"text"`
	ImageURL   string         `json:"image_url,omitempty"`
	IsCorrect  bool           `json:"is_correct"`
	// SelectedCount is this option's slot of the per-question tally;
	// keeping it on the option row keeps counts and options aligned.
	SelectedCount int64 `json:"selected_count" gorm:"not null;default:0"`
}
