// backend/internal/models/dto.go
package models

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validate runs struct-tag validation and folds failures into the shared
// error taxonomy so handlers can map them to 400 responses.
func Validate(v interface{}) error {
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}

type OptionSpec struct {
	Text      string `json:"text"`
	ImageURL  string `json:"image_url"`
	IsCorrect bool   `json:"is_correct"`
}

type QuestionSpec struct {
	Text    string       `json:"text" validate:"required"`
	Answer  string       `json:"answer"`
	Timer   *int         `json:"timer"`
	Options []OptionSpec `json:"options" validate:"dive"`
}

// ToQuestion builds a Question row for the given quiz and position.
func (s QuestionSpec) ToQuestion(quizID uint, position int) Question {
	options := make([]Option, len(s.Options))
	for i, opt := range s.Options {
		options[i] = Option{
			Position:  i,
			Text:      opt.Text,
			ImageURL:  opt.ImageURL,
			IsCorrect: opt.IsCorrect,
		}
	}
	return Question{
		QuizID:   quizID,
		Position: position,
		Text:     s.Text,
		Answer:   s.Answer,
		Timer:    s.Timer,
		Options:  options,
	}
}

type CreateQuizRequest struct {
	Title     string         `json:"title" validate:"required"`
	Type      QuizType       `json:"type" validate:"required,oneof=poll qa"`
	Questions []QuestionSpec `json:"questions" validate:"dive"`
}

type AddQuestionsRequest struct {
	Questions []QuestionSpec `json:"questions" validate:"required,min=1,dive"`
}

// QuestionEdit carries the editable fields only; counters and quiz
// membership are never touched through edits.
type QuestionEdit struct {
	ID      uint         `json:"id" validate:"required"`
	Text    string       `json:"text" validate:"required"`
	Timer   *int         `json:"timer"`
	Options []OptionSpec `json:"options" validate:"dive"`
}

type EditQuizRequest struct {
	Questions []QuestionEdit `json:"questions" validate:"required,min=1,dive"`
}

type SubmitAnswersRequest struct {
	UserAnswers []string `json:"userAnswers" validate:"required"`
}

type RegisterRequest struct {
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}
