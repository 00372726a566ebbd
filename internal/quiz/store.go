// backend/internal/quiz/store.go
package quiz

import "github.com/gunjand01/Quiz-App/internal/models"

// Store is the quiz aggregate store: it owns the durable quiz+questions
// unit and is the only place counters are written. The gorm Repository
// implements it against postgres; tests use an in-memory stand-in.
type Store interface {
	// CreateQuiz persists the quiz and any inline questions in one
	// transaction. Positions must already be set by the caller.
	CreateQuiz(quiz *models.Quiz) error

	// AttachQuestions appends questions to the quiz's stored order,
	// all-or-nothing, and returns the new question IDs.
	AttachQuestions(quizID uint, questions []models.Question) ([]uint, error)

	// LoadQuiz returns the quiz and its questions (with options) in
	// stored order.
	LoadQuiz(quizID uint) (*models.Quiz, []models.Question, error)

	// RecordImpression increments the impressions counter atomically at
	// the storage layer and returns the updated quiz with questions.
	RecordImpression(quizID uint) (*models.Quiz, []models.Question, error)

	// UpdateQuestionFields edits prompt, timer and options only; counters
	// and quiz membership are never altered through it.
	UpdateQuestionFields(quizID uint, edit models.QuestionEdit) error

	// DeleteQuizCascade removes the quiz and every question and option
	// referencing it as one transaction; no orphans may survive.
	DeleteQuizCascade(quizID uint) error

	// QuizzesByCreator lists a user's quizzes; no rows is an empty
	// slice, not an error.
	QuizzesByCreator(userID uint) ([]models.Quiz, error)

	// ApplyTally applies engine deltas as atomic column increments in a
	// single transaction.
	ApplyTally(deltas []TallyDelta) error
}
