// backend/pkg/cache/redis.go
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gunjand01/Quiz-App/internal/models"

	"github.com/go-redis/redis/v8"
)

const (
	quizTTL     = 24 * time.Hour
	analysisTTL = 30 * time.Second
)

// QuizSnapshot is the cached quiz+questions unit, stored as one JSON value.
type QuizSnapshot struct {
	Quiz      *models.Quiz      `json:"quiz"`
	Questions []models.Question `json:"questions"`
}

type RedisCache struct {
	client *redis.Client
	ctx    context.Context
}

func NewRedisCache(addr string) *RedisCache {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	return &RedisCache{
		client: client,
		ctx:    context.Background(),
	}
}

func (c *RedisCache) SetQuiz(quizID uint, snap *QuizSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return c.client.Set(c.ctx, quizKey(quizID), data, quizTTL).Err()
}

func (c *RedisCache) GetQuiz(quizID uint) (*QuizSnapshot, error) {
	data, err := c.client.Get(c.ctx, quizKey(quizID)).Bytes()
	if err != nil {
		return nil, err
	}

	var snap QuizSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// InvalidateQuiz drops both the quiz snapshot and its derived analysis.
// Called after any mutation so readers never see stale tallies.
func (c *RedisCache) InvalidateQuiz(quizID uint) error {
	return c.client.Del(c.ctx, quizKey(quizID), analysisKey(quizID)).Err()
}

// SetAnalysis caches a derived analysis view briefly; the payload type
// lives with the engine, so it passes through as JSON.
func (c *RedisCache) SetAnalysis(quizID uint, analysis interface{}) error {
	data, err := json.Marshal(analysis)
	if err != nil {
		return err
	}
	return c.client.Set(c.ctx, analysisKey(quizID), data, analysisTTL).Err()
}

func (c *RedisCache) GetAnalysis(quizID uint, dest interface{}) error {
	data, err := c.client.Get(c.ctx, analysisKey(quizID)).Bytes()
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

func quizKey(quizID uint) string {
	return fmt.Sprintf("quiz:%d", quizID)
}

func analysisKey(quizID uint) string {
	return fmt.Sprintf("analysis:%d", quizID)
}
