// backend/internal/quiz/engine.go
package quiz

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gunjand01/Quiz-App/internal/models"
)

// TallyField identifies which counter a delta increments.
type TallyField int

const (
	TallyCorrect TallyField = iota
	TallyWrong
	TallyAttempted
	TallyOption
)

// TallyDelta is a single +1 against one counter of one question. The engine
// emits deltas instead of rewritten rows so the store can apply them as
// atomic column increments; concurrent submissions then never lose updates.
type TallyDelta struct {
	QuestionID uint
	Field      TallyField
	OptionID   uint // set only when Field == TallyOption
}

// ApplyAnswers scores one taker's answer set against the quiz snapshot.
// Answers are positionally aligned with the stored question order. The
// snapshot counters are mutated in place and the matching deltas returned
// for persistence. Not idempotent: resubmitting increments again.
func ApplyAnswers(quiz *models.Quiz, questions []models.Question, answers []string) (int, []TallyDelta, error) {
	switch quiz.Type {
	case models.QuizTypeQA:
		score, deltas := applyQA(questions, answers)
		return score, deltas, nil
	case models.QuizTypePoll:
		return 0, applyPoll(questions, answers), nil
	default:
		return 0, nil, fmt.Errorf("%w: unknown quiz type %q", models.ErrValidation, quiz.Type)
	}
}

func applyQA(questions []models.Question, answers []string) (int, []TallyDelta) {
	score := 0
	deltas := make([]TallyDelta, 0, 2*len(questions))

	for i := range questions {
		q := &questions[i]

		answer := ""
		if i < len(answers) {
			answer = answers[i]
		}

		if matchesAnswer(q.Answer, answer) {
			q.CorrectlyAnswered++
			score++
			deltas = append(deltas, TallyDelta{QuestionID: q.ID, Field: TallyCorrect})
		} else {
			q.WronglyAnswered++
			deltas = append(deltas, TallyDelta{QuestionID: q.ID, Field: TallyWrong})
		}

		q.CountAttempted++
		deltas = append(deltas, TallyDelta{QuestionID: q.ID, Field: TallyAttempted})
	}

	return score, deltas
}

// matchesAnswer accepts an exact match, or a match on the text before the
// first comma since multi-select answers arrive as a comma-joined string.
func matchesAnswer(canonical, submitted string) bool {
	if submitted == canonical {
		return true
	}
	if head, _, found := strings.Cut(submitted, ","); found {
		return head == canonical
	}
	return false
}

func applyPoll(questions []models.Question, answers []string) []TallyDelta {
	deltas := make([]TallyDelta, 0, len(questions))

	for i := range questions {
		if i >= len(answers) {
			continue
		}

		// Answers carry a 1-based option index; anything unparsable or
		// out of range is a caller error and counts nothing.
		index, err := strconv.Atoi(strings.TrimSpace(answers[i]))
		if err != nil || index < 1 || index > len(questions[i].Options) {
			continue
		}

		opt := &questions[i].Options[index-1]
		opt.SelectedCount++
		deltas = append(deltas, TallyDelta{
			QuestionID: questions[i].ID,
			Field:      TallyOption,
			OptionID:   opt.ID,
		})
	}

	return deltas
}
