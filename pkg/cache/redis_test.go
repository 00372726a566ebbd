// backend/pkg/cache/redis_test.go
package cache_test

import (
	"testing"
	"time"

	"github.com/gunjand01/Quiz-App/internal/models"
	"github.com/gunjand01/Quiz-App/pkg/cache"

	"github.com/alicebob/miniredis/v2"
)

func newTestCache(t *testing.T) (*cache.RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	return cache.NewRedisCache(mr.Addr()), mr
}

func TestQuizSnapshotRoundTrip(t *testing.T) {
	c, _ := newTestCache(t)

	snap := &cache.QuizSnapshot{
		Quiz: &models.Quiz{ID: 1, Title: "Capitals", Type: models.QuizTypeQA},
		Questions: []models.Question{
			{ID: 10, QuizID: 1, Text: "Capital of France?", Answer: "Paris", CountAttempted: 3},
		},
	}
	if err := c.SetQuiz(1, snap); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	got, err := c.GetQuiz(1)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Quiz.Title != "Capitals" || len(got.Questions) != 1 {
		t.Fatalf("unexpected snapshot: %+v", got)
	}
	if got.Questions[0].CountAttempted != 3 {
		t.Fatalf("counters lost in cache: %+v", got.Questions[0])
	}
}

func TestGetQuizMiss(t *testing.T) {
	c, _ := newTestCache(t)

	if _, err := c.GetQuiz(99); err == nil {
		t.Fatal("expected miss for uncached quiz")
	}
}

func TestInvalidateDropsQuizAndAnalysis(t *testing.T) {
	c, _ := newTestCache(t)

	if err := c.SetQuiz(1, &cache.QuizSnapshot{Quiz: &models.Quiz{ID: 1}}); err != nil {
		t.Fatalf("set quiz failed: %v", err)
	}
	if err := c.SetAnalysis(1, map[string]string{"quizTitle": "x"}); err != nil {
		t.Fatalf("set analysis failed: %v", err)
	}

	if err := c.InvalidateQuiz(1); err != nil {
		t.Fatalf("invalidate failed: %v", err)
	}

	if _, err := c.GetQuiz(1); err == nil {
		t.Fatal("quiz snapshot should be gone")
	}
	var dest map[string]string
	if err := c.GetAnalysis(1, &dest); err == nil {
		t.Fatal("analysis should be gone")
	}
}

func TestAnalysisExpires(t *testing.T) {
	c, mr := newTestCache(t)

	if err := c.SetAnalysis(1, map[string]string{"quizTitle": "x"}); err != nil {
		t.Fatalf("set analysis failed: %v", err)
	}

	var dest map[string]string
	if err := c.GetAnalysis(1, &dest); err != nil {
		t.Fatalf("expected fresh analysis, got %v", err)
	}

	mr.FastForward(time.Minute)

	if err := c.GetAnalysis(1, &dest); err == nil {
		t.Fatal("analysis should expire after its TTL")
	}
}
