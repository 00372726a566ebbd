// backend/internal/quiz/analysis.go
package quiz

import (
	"fmt"

	"github.com/gunjand01/Quiz-App/internal/models"
)

// OptionCount pairs an option's display text with its selection tally.
type OptionCount struct {
	Option string `json:"option"`
	Count  int64  `json:"count"`
}

// AnalysisEntry is the derived view of one question. Exactly one of the
// correct/wrong pair (qa) or OptionCounts (poll) is populated.
type AnalysisEntry struct {
	Question     string        `json:"question"`
	CorrectCount *int64        `json:"correctCount,omitempty"`
	WrongCount   *int64        `json:"wrongCount,omitempty"`
	OptionCounts []OptionCount `json:"optionCounts,omitempty"`
}

type Analysis struct {
	QuizTitle    string          `json:"quizTitle"`
	AnalysisData []AnalysisEntry `json:"analysisData"`
}

// BuildAnalysis derives the summary view from accumulated counters. Raw
// answer events are not retained, so this is a pure function of the current
// tallies: calling it twice without intervening submissions yields the same
// result.
func BuildAnalysis(quiz *models.Quiz, questions []models.Question) (Analysis, error) {
	analysis := Analysis{
		QuizTitle:    quiz.Title,
		AnalysisData: make([]AnalysisEntry, 0, len(questions)),
	}

	switch quiz.Type {
	case models.QuizTypeQA:
		for i := range questions {
			q := &questions[i]
			correct := q.CorrectlyAnswered
			wrong := q.CountAttempted - correct
			analysis.AnalysisData = append(analysis.AnalysisData, AnalysisEntry{
				Question:     q.Text,
				CorrectCount: &correct,
				WrongCount:   &wrong,
			})
		}
	case models.QuizTypePoll:
		for i := range questions {
			q := &questions[i]
			counts := make([]OptionCount, len(q.Options))
			for j, opt := range q.Options {
				counts[j] = OptionCount{Option: opt.Text, Count: opt.SelectedCount}
			}
			analysis.AnalysisData = append(analysis.AnalysisData, AnalysisEntry{
				Question:     q.Text,
				OptionCounts: counts,
			})
		}
	default:
		return Analysis{}, fmt.Errorf("%w: unknown quiz type %q", models.ErrValidation, quiz.Type)
	}

	return analysis, nil
}
