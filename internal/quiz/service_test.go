// backend/internal/quiz/service_test.go
package quiz_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gunjand01/Quiz-App/internal/models"
	"github.com/gunjand01/Quiz-App/internal/quiz"
)

// memStore is an in-memory Store used to exercise the service without
// postgres. LoadQuiz hands out deep copies so only ApplyTally can change
// persisted counters, mirroring the real repository.
type memStore struct {
	quizzes map[uint]*models.Quiz
	nextID  uint
}

func newMemStore() *memStore {
	return &memStore{quizzes: make(map[uint]*models.Quiz)}
}

func (m *memStore) id() uint {
	m.nextID++
	return m.nextID
}

func (m *memStore) CreateQuiz(q *models.Quiz) error {
	q.ID = m.id()
	for i := range q.Questions {
		q.Questions[i].ID = m.id()
		q.Questions[i].QuizID = q.ID
		for j := range q.Questions[i].Options {
			q.Questions[i].Options[j].ID = m.id()
			q.Questions[i].Options[j].QuestionID = q.Questions[i].ID
		}
	}
	m.quizzes[q.ID] = copyQuiz(q)
	return nil
}

func (m *memStore) AttachQuestions(quizID uint, questions []models.Question) ([]uint, error) {
	q, ok := m.quizzes[quizID]
	if !ok {
		return nil, fmt.Errorf("quiz %d: %w", quizID, models.ErrNotFound)
	}
	ids := make([]uint, len(questions))
	for i := range questions {
		questions[i].ID = m.id()
		questions[i].QuizID = quizID
		questions[i].Position = len(q.Questions)
		for j := range questions[i].Options {
			questions[i].Options[j].ID = m.id()
			questions[i].Options[j].QuestionID = questions[i].ID
		}
		q.Questions = append(q.Questions, questions[i])
		ids[i] = questions[i].ID
	}
	return ids, nil
}

func (m *memStore) LoadQuiz(quizID uint) (*models.Quiz, []models.Question, error) {
	q, ok := m.quizzes[quizID]
	if !ok {
		return nil, nil, fmt.Errorf("quiz %d: %w", quizID, models.ErrNotFound)
	}
	cp := copyQuiz(q)
	questions := cp.Questions
	cp.Questions = nil
	return cp, questions, nil
}

func (m *memStore) RecordImpression(quizID uint) (*models.Quiz, []models.Question, error) {
	q, ok := m.quizzes[quizID]
	if !ok {
		return nil, nil, fmt.Errorf("quiz %d: %w", quizID, models.ErrNotFound)
	}
	q.Impressions++
	return m.LoadQuiz(quizID)
}

func (m *memStore) UpdateQuestionFields(quizID uint, edit models.QuestionEdit) error {
	q, ok := m.quizzes[quizID]
	if !ok {
		return fmt.Errorf("quiz %d: %w", quizID, models.ErrNotFound)
	}
	for i := range q.Questions {
		qn := &q.Questions[i]
		if qn.ID != edit.ID {
			continue
		}
		qn.Text = edit.Text
		qn.Timer = edit.Timer
		if edit.Options == nil {
			return nil
		}
		options := make([]models.Option, len(edit.Options))
		for j, spec := range edit.Options {
			options[j] = models.Option{
				ID:         m.id(),
				QuestionID: qn.ID,
				Position:   j,
				Text:       spec.Text,
				ImageURL:   spec.ImageURL,
				IsCorrect:  spec.IsCorrect,
			}
			if j < len(qn.Options) {
				options[j].ID = qn.Options[j].ID
				options[j].SelectedCount = qn.Options[j].SelectedCount
			}
		}
		qn.Options = options
		return nil
	}
	return fmt.Errorf("question %d: %w", edit.ID, models.ErrNotFound)
}

func (m *memStore) DeleteQuizCascade(quizID uint) error {
	if _, ok := m.quizzes[quizID]; !ok {
		return fmt.Errorf("quiz %d: %w", quizID, models.ErrNotFound)
	}
	delete(m.quizzes, quizID)
	return nil
}

func (m *memStore) QuizzesByCreator(userID uint) ([]models.Quiz, error) {
	quizzes := make([]models.Quiz, 0)
	for _, q := range m.quizzes {
		if q.CreatorID == userID {
			quizzes = append(quizzes, *copyQuiz(q))
		}
	}
	return quizzes, nil
}

func (m *memStore) ApplyTally(deltas []quiz.TallyDelta) error {
	for _, d := range deltas {
		applied := false
		for _, q := range m.quizzes {
			for i := range q.Questions {
				qn := &q.Questions[i]
				if qn.ID != d.QuestionID {
					continue
				}
				switch d.Field {
				case quiz.TallyCorrect:
					qn.CorrectlyAnswered++
				case quiz.TallyWrong:
					qn.WronglyAnswered++
				case quiz.TallyAttempted:
					qn.CountAttempted++
				case quiz.TallyOption:
					for j := range qn.Options {
						if qn.Options[j].ID == d.OptionID {
							qn.Options[j].SelectedCount++
						}
					}
				}
				applied = true
			}
		}
		if !applied {
			return fmt.Errorf("question %d: %w", d.QuestionID, models.ErrNotFound)
		}
	}
	return nil
}

func copyQuiz(q *models.Quiz) *models.Quiz {
	cp := *q
	cp.Questions = make([]models.Question, len(q.Questions))
	for i, qn := range q.Questions {
		qcp := qn
		qcp.Options = append([]models.Option(nil), qn.Options...)
		cp.Questions[i] = qcp
	}
	return &cp
}

const ownerID = uint(7)

func newTestService(t *testing.T) (*quiz.Service, *memStore) {
	t.Helper()
	store := newMemStore()
	return quiz.NewService(store, nil, nil), store
}

func seedQAQuiz(t *testing.T, service *quiz.Service) uint {
	t.Helper()
	created, err := service.CreateQuiz(ownerID, models.CreateQuizRequest{
		Title: "Capitals",
		Type:  models.QuizTypeQA,
		Questions: []models.QuestionSpec{
			{Text: "Capital of France?", Answer: "Paris"},
		},
	})
	if err != nil {
		t.Fatalf("seed quiz failed: %v", err)
	}
	return created.ID
}

func TestCreateQuizValidation(t *testing.T) {
	service, _ := newTestService(t)

	_, err := service.CreateQuiz(ownerID, models.CreateQuizRequest{Title: "", Type: models.QuizTypeQA})
	if !errors.Is(err, models.ErrValidation) {
		t.Fatalf("expected validation error for empty title, got %v", err)
	}

	_, err = service.CreateQuiz(ownerID, models.CreateQuizRequest{Title: "x", Type: "trivia"})
	if !errors.Is(err, models.ErrValidation) {
		t.Fatalf("expected validation error for bad type, got %v", err)
	}
}

func TestCreateQuizWithInlineQuestions(t *testing.T) {
	service, _ := newTestService(t)
	quizID := seedQAQuiz(t, service)

	created, questions, err := service.GetQuiz(quizID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if created.Impressions != 0 {
		t.Fatalf("new quiz must start with 0 impressions, got %d", created.Impressions)
	}
	if len(questions) != 1 || questions[0].Answer != "Paris" {
		t.Fatalf("unexpected questions: %+v", questions)
	}
}

func TestAddQuestionsLimit(t *testing.T) {
	service, store := newTestService(t)
	quizID := seedQAQuiz(t, service)

	specs := make([]models.QuestionSpec, 6)
	for i := range specs {
		specs[i] = models.QuestionSpec{Text: fmt.Sprintf("Q%d", i), Answer: "a"}
	}

	_, err := service.AddQuestions(ownerID, quizID, specs)
	if !errors.Is(err, models.ErrLimitExceeded) {
		t.Fatalf("expected limit error for 6 questions, got %v", err)
	}

	// All-or-nothing: nothing may have been persisted.
	if got := len(store.quizzes[quizID].Questions); got != 1 {
		t.Fatalf("expected 1 stored question, got %d", got)
	}

	ids, err := service.AddQuestions(ownerID, quizID, specs[:5])
	if err != nil {
		t.Fatalf("5 questions should be accepted: %v", err)
	}
	if len(ids) != 5 {
		t.Fatalf("expected 5 new ids, got %d", len(ids))
	}
}

func TestAddQuestionsRequiresOwner(t *testing.T) {
	service, _ := newTestService(t)
	quizID := seedQAQuiz(t, service)

	_, err := service.AddQuestions(ownerID+1, quizID, []models.QuestionSpec{{Text: "Q", Answer: "a"}})
	if !errors.Is(err, models.ErrForbidden) {
		t.Fatalf("expected forbidden for non-owner, got %v", err)
	}

	_, err = service.AddQuestions(ownerID, 999, []models.QuestionSpec{{Text: "Q", Answer: "a"}})
	if !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected not found for unknown quiz, got %v", err)
	}
}

func TestSubmitAnswersPersistsTallies(t *testing.T) {
	service, _ := newTestService(t)
	quizID := seedQAQuiz(t, service)

	score, err := service.SubmitAnswers(quizID, []string{"Paris"})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if score != 1 {
		t.Fatalf("expected score 1, got %d", score)
	}

	_, questions, err := service.GetQuiz(quizID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if questions[0].CorrectlyAnswered != 1 || questions[0].CountAttempted != 1 {
		t.Fatalf("tallies not persisted: %+v", questions[0])
	}

	// Submission is not idempotent: a second (wrong) answer set counts again.
	score, err = service.SubmitAnswers(quizID, []string{"London"})
	if err != nil {
		t.Fatalf("resubmit failed: %v", err)
	}
	if score != 0 {
		t.Fatalf("expected score 0, got %d", score)
	}

	_, questions, _ = service.GetQuiz(quizID)
	if questions[0].CorrectlyAnswered != 1 || questions[0].WronglyAnswered != 1 || questions[0].CountAttempted != 2 {
		t.Fatalf("expected accumulated tallies 1/1/2, got %+v", questions[0])
	}
}

func TestSubmitAnswersPoll(t *testing.T) {
	service, _ := newTestService(t)
	created, err := service.CreateQuiz(ownerID, models.CreateQuizRequest{
		Title: "Colors",
		Type:  models.QuizTypePoll,
		Questions: []models.QuestionSpec{
			{Text: "Favorite color?", Options: []models.OptionSpec{
				{Text: "Red"}, {Text: "Green"}, {Text: "Blue"},
			}},
		},
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	score, err := service.SubmitAnswers(created.ID, []string{"2"})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if score != 0 {
		t.Fatalf("expected score 0 for poll, got %d", score)
	}

	_, questions, _ := service.GetQuiz(created.ID)
	counts := []int64{
		questions[0].Options[0].SelectedCount,
		questions[0].Options[1].SelectedCount,
		questions[0].Options[2].SelectedCount,
	}
	if counts[0] != 0 || counts[1] != 1 || counts[2] != 0 {
		t.Fatalf("expected counts [0 1 0], got %v", counts)
	}
}

func TestDeleteQuizCascades(t *testing.T) {
	service, _ := newTestService(t)
	quizID := seedQAQuiz(t, service)

	if err := service.DeleteQuiz(ownerID+1, quizID); !errors.Is(err, models.ErrForbidden) {
		t.Fatalf("expected forbidden for non-owner, got %v", err)
	}

	if err := service.DeleteQuiz(ownerID, quizID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	if _, _, err := service.GetQuiz(quizID); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected not found after cascade delete, got %v", err)
	}
	if _, err := service.GetQuestions(quizID); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected questions gone after cascade delete, got %v", err)
	}
}

func TestMyQuizzesEmptyIsSuccess(t *testing.T) {
	service, _ := newTestService(t)

	quizzes, err := service.MyQuizzes(ownerID)
	if err != nil {
		t.Fatalf("expected empty list to succeed, got %v", err)
	}
	if quizzes == nil || len(quizzes) != 0 {
		t.Fatalf("expected empty slice, got %#v", quizzes)
	}
}

func TestRecordImpression(t *testing.T) {
	service, _ := newTestService(t)
	quizID := seedQAQuiz(t, service)

	if _, _, err := service.RecordImpression(quizID); err != nil {
		t.Fatalf("impression failed: %v", err)
	}
	updated, _, err := service.RecordImpression(quizID)
	if err != nil {
		t.Fatalf("impression failed: %v", err)
	}
	if updated.Impressions != 2 {
		t.Fatalf("expected 2 impressions, got %d", updated.Impressions)
	}
}

func TestAnalysisThroughService(t *testing.T) {
	service, _ := newTestService(t)
	quizID := seedQAQuiz(t, service)

	if _, err := service.SubmitAnswers(quizID, []string{"Paris"}); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if _, err := service.SubmitAnswers(quizID, []string{"Rome"}); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	analysis, err := service.Analysis(quizID)
	if err != nil {
		t.Fatalf("analysis failed: %v", err)
	}
	entry := analysis.AnalysisData[0]
	if *entry.CorrectCount != 1 || *entry.WrongCount != 1 {
		t.Fatalf("expected 1 correct / 1 wrong, got %+v", entry)
	}

	again, err := service.Analysis(quizID)
	if err != nil {
		t.Fatalf("analysis failed: %v", err)
	}
	if *again.AnalysisData[0].CorrectCount != 1 || *again.AnalysisData[0].WrongCount != 1 {
		t.Fatalf("analysis must be stable between submissions: %+v", again)
	}
}

func TestEditQuestionsKeepsCounters(t *testing.T) {
	service, store := newTestService(t)
	created, err := service.CreateQuiz(ownerID, models.CreateQuizRequest{
		Title: "Colors",
		Type:  models.QuizTypePoll,
		Questions: []models.QuestionSpec{
			{Text: "Pick one", Options: []models.OptionSpec{{Text: "A"}, {Text: "B"}}},
		},
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := service.SubmitAnswers(created.ID, []string{"1"}); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	questionID := store.quizzes[created.ID].Questions[0].ID
	timer := 30
	err = service.EditQuestions(ownerID, created.ID, []models.QuestionEdit{
		{
			ID:    questionID,
			Text:  "Pick your favorite",
			Timer: &timer,
			Options: []models.OptionSpec{
				{Text: "Alpha"}, {Text: "Beta"},
			},
		},
	})
	if err != nil {
		t.Fatalf("edit failed: %v", err)
	}

	_, questions, _ := service.GetQuiz(created.ID)
	if questions[0].Text != "Pick your favorite" || questions[0].Timer == nil {
		t.Fatalf("edit not applied: %+v", questions[0])
	}
	if questions[0].CountAttempted != 0 {
		t.Fatalf("qa counters must stay untouched for polls: %+v", questions[0])
	}
	if questions[0].Options[0].SelectedCount != 1 {
		t.Fatalf("option tally must survive an in-place edit, got %+v", questions[0].Options[0])
	}
	if questions[0].Options[0].Text != "Alpha" {
		t.Fatalf("option text not updated: %+v", questions[0].Options[0])
	}
}
