// backend/internal/quiz/repository.go
package quiz

import (
	"errors"
	"fmt"
	"log"

	"github.com/gunjand01/Quiz-App/internal/models"

	"gorm.io/gorm"
)

// Repository is the postgres-backed Store.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) CreateQuiz(quiz *models.Quiz) error {
	// gorm persists the quiz together with its nested questions and
	// options in a single transaction.
	if err := r.db.Create(quiz).Error; err != nil {
		log.Printf("Error creating quiz: %v", err)
		return err
	}
	log.Printf("Created quiz %d with %d questions", quiz.ID, len(quiz.Questions))
	return nil
}

func (r *Repository) AttachQuestions(quizID uint, questions []models.Question) ([]uint, error) {
	ids := make([]uint, 0, len(questions))

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var quiz models.Quiz
		if err := tx.First(&quiz, quizID).Error; err != nil {
			return wrapNotFound(err, "quiz %d", quizID)
		}

		var next int
		if err := tx.Model(&models.Question{}).
			Where("quiz_id = ?", quizID).
			Select("COALESCE(MAX(position)+1, 0)").
			Scan(&next).Error; err != nil {
			return err
		}

		for i := range questions {
			questions[i].QuizID = quizID
			questions[i].Position = next + i
			for j := range questions[i].Options {
				questions[i].Options[j].Position = j
			}
			if err := tx.Create(&questions[i]).Error; err != nil {
				return err
			}
			ids = append(ids, questions[i].ID)
		}
		return nil
	})
	if err != nil {
		log.Printf("Error attaching questions to quiz %d: %v", quizID, err)
		return nil, err
	}

	log.Printf("Attached %d questions to quiz %d", len(ids), quizID)
	return ids, nil
}

func (r *Repository) LoadQuiz(quizID uint) (*models.Quiz, []models.Question, error) {
	var quiz models.Quiz
	if err := r.db.First(&quiz, quizID).Error; err != nil {
		log.Printf("Error getting quiz %d: %v", quizID, err)
		return nil, nil, wrapNotFound(err, "quiz %d", quizID)
	}

	questions, err := r.questionsFor(quizID)
	if err != nil {
		return nil, nil, err
	}
	return &quiz, questions, nil
}

func (r *Repository) questionsFor(quizID uint) ([]models.Question, error) {
	var questions []models.Question
	err := r.db.Where("quiz_id = ?", quizID).
		Order("position asc").
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("position asc")
		}).
		Find(&questions).Error
	if err != nil {
		log.Printf("Error getting questions for quiz %d: %v", quizID, err)
		return nil, err
	}
	return questions, nil
}

func (r *Repository) RecordImpression(quizID uint) (*models.Quiz, []models.Question, error) {
	// Single UPDATE so concurrent viewers never lose increments.
	result := r.db.Model(&models.Quiz{}).
		Where("id = ?", quizID).
		UpdateColumn("impressions", gorm.Expr("impressions + ?", 1))
	if result.Error != nil {
		log.Printf("Error incrementing impressions for quiz %d: %v", quizID, result.Error)
		return nil, nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil, fmt.Errorf("quiz %d: %w", quizID, models.ErrNotFound)
	}
	return r.LoadQuiz(quizID)
}

func (r *Repository) UpdateQuestionFields(quizID uint, edit models.QuestionEdit) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var question models.Question
		if err := tx.First(&question, edit.ID).Error; err != nil {
			return wrapNotFound(err, "question %d", edit.ID)
		}
		if question.QuizID != quizID {
			return fmt.Errorf("question %d in quiz %d: %w", edit.ID, quizID, models.ErrNotFound)
		}

		updates := map[string]interface{}{"text": edit.Text, "timer": edit.Timer}
		if err := tx.Model(&question).Updates(updates).Error; err != nil {
			return err
		}

		if edit.Options == nil {
			return nil
		}
		return r.replaceOptions(tx, question.ID, edit.Options)
	})
}

// replaceOptions edits options positionally: existing rows keep their
// selected_count, extra submitted options are appended with a fresh tally,
// surplus stored options are removed. The per-option counts therefore stay
// aligned with the options at all times.
func (r *Repository) replaceOptions(tx *gorm.DB, questionID uint, specs []models.OptionSpec) error {
	var existing []models.Option
	if err := tx.Where("question_id = ?", questionID).
		Order("position asc").
		Find(&existing).Error; err != nil {
		return err
	}

	for i, spec := range specs {
		if i < len(existing) {
			err := tx.Model(&existing[i]).Updates(map[string]interface{}{
				"text":       spec.Text,
				"image_url":  spec.ImageURL,
				"is_correct": spec.IsCorrect,
			}).Error
			if err != nil {
				return err
			}
			continue
		}
		opt := models.Option{
			QuestionID: questionID,
			Position:   i,
			Text:       spec.Text,
			ImageURL:   spec.ImageURL,
			IsCorrect:  spec.IsCorrect,
		}
		if err := tx.Create(&opt).Error; err != nil {
			return err
		}
	}

	if len(existing) > len(specs) {
		for _, opt := range existing[len(specs):] {
			if err := tx.Delete(&opt).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *Repository) DeleteQuizCascade(quizID uint) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var quiz models.Quiz
		if err := tx.First(&quiz, quizID).Error; err != nil {
			return wrapNotFound(err, "quiz %d", quizID)
		}

		questionIDs := tx.Model(&models.Question{}).
			Select("id").
			Where("quiz_id = ?", quizID)
		if err := tx.Where("question_id IN (?)", questionIDs).
			Delete(&models.Option{}).Error; err != nil {
			return err
		}
		if err := tx.Where("quiz_id = ?", quizID).
			Delete(&models.Question{}).Error; err != nil {
			return err
		}
		return tx.Delete(&quiz).Error
	})
	if err != nil {
		log.Printf("Error deleting quiz %d: %v", quizID, err)
		return err
	}

	log.Printf("Deleted quiz %d and its questions", quizID)
	return nil
}

func (r *Repository) QuizzesByCreator(userID uint) ([]models.Quiz, error) {
	quizzes := make([]models.Quiz, 0)
	err := r.db.Where("creator_id = ?", userID).Find(&quizzes).Error
	if err != nil {
		log.Printf("Error getting quizzes for creator %d: %v", userID, err)
		return nil, err
	}
	return quizzes, nil
}

func (r *Repository) ApplyTally(deltas []TallyDelta) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, d := range deltas {
			if err := applyDelta(tx, d); err != nil {
				log.Printf("Error applying tally delta for question %d: %v", d.QuestionID, err)
				return err
			}
		}
		return nil
	})
}

// applyDelta issues one atomic column increment. Counters are never
// written via load-mutate-save, so concurrent submissions cannot clobber
// each other.
func applyDelta(tx *gorm.DB, d TallyDelta) error {
	if d.Field == TallyOption {
		return tx.Model(&models.Option{}).
			Where("id = ? AND question_id = ?", d.OptionID, d.QuestionID).
			UpdateColumn("selected_count", gorm.Expr("selected_count + ?", 1)).Error
	}

	var column string
	switch d.Field {
	case TallyCorrect:
		column = "correctly_answered"
	case TallyWrong:
		column = "wrongly_answered"
	case TallyAttempted:
		column = "count_attempted"
	default:
		return fmt.Errorf("unknown tally field %d", d.Field)
	}

	return tx.Model(&models.Question{}).
		Where("id = ?", d.QuestionID).
		UpdateColumn(column, gorm.Expr(column+" + ?", 1)).Error
}

func wrapNotFound(err error, format string, args ...interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf(format+": %w", append(args, models.ErrNotFound)...)
	}
	return err
}
