// backend/internal/quiz/service.go
package quiz

import (
	"fmt"
	"log"
	"strconv"

	"github.com/gunjand01/Quiz-App/internal/models"
	"github.com/gunjand01/Quiz-App/pkg/cache"
	"github.com/gunjand01/Quiz-App/pkg/websocket"
)

// maxQuestionBatch is the most questions AddQuestions accepts per call.
const maxQuestionBatch = 5

type Service struct {
	store Store
	cache *cache.RedisCache
	wsHub *websocket.Hub
}

// NewService wires the quiz use cases. cache and wsHub may be nil; the
// service then skips caching and live broadcasts.
func NewService(store Store, cache *cache.RedisCache, wsHub *websocket.Hub) *Service {
	return &Service{
		store: store,
		cache: cache,
		wsHub: wsHub,
	}
}

// CreateQuiz allocates a quiz for creatorID, optionally with inline
// questions. The quiz type is fixed here for good; nothing may change it
// afterwards.
func (s *Service) CreateQuiz(creatorID uint, req models.CreateQuizRequest) (*models.Quiz, error) {
	if req.Title == "" {
		return nil, fmt.Errorf("%w: title is required", models.ErrValidation)
	}
	if !req.Type.Valid() {
		return nil, fmt.Errorf("%w: quiz type must be %q or %q", models.ErrValidation, models.QuizTypePoll, models.QuizTypeQA)
	}

	quiz := &models.Quiz{
		Title:     req.Title,
		Type:      req.Type,
		CreatorID: creatorID,
	}
	for i, spec := range req.Questions {
		quiz.Questions = append(quiz.Questions, spec.ToQuestion(0, i))
	}

	if err := s.store.CreateQuiz(quiz); err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetQuiz(quiz.ID, &cache.QuizSnapshot{Quiz: quiz, Questions: quiz.Questions}); err != nil {
			log.Printf("Error caching quiz %d: %v", quiz.ID, err)
		}
	}
	return quiz, nil
}

// AddQuestions appends up to maxQuestionBatch questions to the quiz,
// all-or-nothing.
func (s *Service) AddQuestions(creatorID, quizID uint, specs []models.QuestionSpec) ([]uint, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("%w: at least one question is required", models.ErrValidation)
	}
	if len(specs) > maxQuestionBatch {
		return nil, fmt.Errorf("%w: maximum %d questions are allowed", models.ErrLimitExceeded, maxQuestionBatch)
	}

	if err := s.requireOwner(quizID, creatorID); err != nil {
		return nil, err
	}

	questions := make([]models.Question, len(specs))
	for i, spec := range specs {
		questions[i] = spec.ToQuestion(quizID, 0) // positions assigned by the store
	}

	ids, err := s.store.AttachQuestions(quizID, questions)
	if err != nil {
		return nil, err
	}

	s.invalidate(quizID)
	return ids, nil
}

// GetQuiz returns a quiz with its questions in stored order, read through
// the cache.
func (s *Service) GetQuiz(quizID uint) (*models.Quiz, []models.Question, error) {
	if s.cache != nil {
		if snap, err := s.cache.GetQuiz(quizID); err == nil {
			return snap.Quiz, snap.Questions, nil
		}
	}

	quiz, questions, err := s.store.LoadQuiz(quizID)
	if err != nil {
		return nil, nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetQuiz(quizID, &cache.QuizSnapshot{Quiz: quiz, Questions: questions}); err != nil {
			log.Printf("Error caching quiz %d: %v", quizID, err)
		}
	}
	return quiz, questions, nil
}

// GetQuestions returns just the ordered questions of a quiz.
func (s *Service) GetQuestions(quizID uint) ([]models.Question, error) {
	_, questions, err := s.GetQuiz(quizID)
	return questions, err
}

// MyQuizzes lists the caller's quizzes. Having none is a success with an
// empty list, not an error.
func (s *Service) MyQuizzes(creatorID uint) ([]models.Quiz, error) {
	return s.store.QuizzesByCreator(creatorID)
}

// EditQuestions updates prompts, options and timers of the given quiz's
// questions. Counters are never touched through edits.
func (s *Service) EditQuestions(creatorID, quizID uint, edits []models.QuestionEdit) error {
	if err := s.requireOwner(quizID, creatorID); err != nil {
		return err
	}

	for _, edit := range edits {
		if err := s.store.UpdateQuestionFields(quizID, edit); err != nil {
			return err
		}
	}

	s.invalidate(quizID)
	return nil
}

// DeleteQuiz removes the quiz and all of its questions as one unit.
func (s *Service) DeleteQuiz(creatorID, quizID uint) error {
	if err := s.requireOwner(quizID, creatorID); err != nil {
		return err
	}
	if err := s.store.DeleteQuizCascade(quizID); err != nil {
		return err
	}
	s.invalidate(quizID)
	return nil
}

// SubmitAnswers applies one taker's answer set: the engine computes the
// score and counter deltas over a fresh snapshot, the store applies the
// deltas atomically, and live subscribers get the refreshed analysis.
// Resubmitting the same answers counts again; dedup is the caller's job.
func (s *Service) SubmitAnswers(quizID uint, answers []string) (int, error) {
	// Bypass the cache: tallies must come from the store of record.
	quiz, questions, err := s.store.LoadQuiz(quizID)
	if err != nil {
		return 0, err
	}

	score, deltas, err := ApplyAnswers(quiz, questions, answers)
	if err != nil {
		return 0, err
	}

	if err := s.store.ApplyTally(deltas); err != nil {
		return 0, err
	}

	s.invalidate(quizID)

	if s.wsHub != nil {
		// The engine already advanced the in-memory snapshot, so the
		// broadcast reflects this submission without a reload.
		if analysis, err := BuildAnalysis(quiz, questions); err == nil {
			s.wsHub.BroadcastMessage(quizRoom(quizID), "analysis_update", analysis)
		} else {
			log.Printf("Error building analysis for quiz %d broadcast: %v", quizID, err)
		}
	}

	return score, nil
}

// RecordImpression counts one view of the quiz and returns it.
func (s *Service) RecordImpression(quizID uint) (*models.Quiz, []models.Question, error) {
	quiz, questions, err := s.store.RecordImpression(quizID)
	if err != nil {
		return nil, nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetQuiz(quizID, &cache.QuizSnapshot{Quiz: quiz, Questions: questions}); err != nil {
			log.Printf("Error caching quiz %d: %v", quizID, err)
		}
	}
	return quiz, questions, nil
}

// Analysis derives the tabulated results view from the accumulated
// counters. It is a read: two calls without intervening submissions
// return identical data.
func (s *Service) Analysis(quizID uint) (Analysis, error) {
	if s.cache != nil {
		var analysis Analysis
		if err := s.cache.GetAnalysis(quizID, &analysis); err == nil {
			return analysis, nil
		}
	}

	quiz, questions, err := s.GetQuiz(quizID)
	if err != nil {
		return Analysis{}, err
	}

	analysis, err := BuildAnalysis(quiz, questions)
	if err != nil {
		return Analysis{}, err
	}

	if s.cache != nil {
		if err := s.cache.SetAnalysis(quizID, analysis); err != nil {
			log.Printf("Error caching analysis for quiz %d: %v", quizID, err)
		}
	}
	return analysis, nil
}

func (s *Service) requireOwner(quizID, creatorID uint) error {
	quiz, _, err := s.GetQuiz(quizID)
	if err != nil {
		return err
	}
	if quiz.CreatorID != creatorID {
		return fmt.Errorf("%w: only the quiz owner may modify it", models.ErrForbidden)
	}
	return nil
}

func (s *Service) invalidate(quizID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateQuiz(quizID); err != nil {
		log.Printf("Error invalidating cache for quiz %d: %v", quizID, err)
	}
}

func quizRoom(quizID uint) string {
	return strconv.FormatUint(uint64(quizID), 10)
}
