package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/clearlabel/transparency-api/internal/models"
)

// QuestionCache caches generated question sets so repeated submissions of the
// same product text reuse the AI service's previous output instead of paying
// for a fresh generation. Question IDs are stable, so reuse is safe: the
// persistence layer upserts them idempotently.
type QuestionCache struct {
	redis *RedisClient
	ttl   time.Duration
}

// NewQuestionCache creates a new QuestionCache with the given entry TTL.
func NewQuestionCache(redis *RedisClient, ttl time.Duration) *QuestionCache {
	return &QuestionCache{redis: redis, ttl: ttl}
}

// key derives the Redis key from the product text. Name and description are
// trimmed and lowercased so trivial formatting differences still hit.
func (c *QuestionCache) key(name, description string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(name)) + "\x00" + strings.ToLower(strings.TrimSpace(description))))
	return fmt.Sprintf("questions:gen:%s", hex.EncodeToString(sum[:16]))
}

// Get returns the cached question set for the product text, or nil on miss.
func (c *QuestionCache) Get(ctx context.Context, name, description string) ([]models.Question, error) {
	raw, err := c.redis.Get(ctx, c.key(name, description))
	if err != nil {
		return nil, err
	}
	var questions []models.Question
	if err := json.Unmarshal([]byte(raw), &questions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached questions: %w", err)
	}
	return questions, nil
}

// Set stores a question set for the product text.
func (c *QuestionCache) Set(ctx context.Context, name, description string, questions []models.Question) error {
	raw, err := json.Marshal(questions)
	if err != nil {
		return fmt.Errorf("failed to marshal questions: %w", err)
	}
	return c.redis.Set(ctx, c.key(name, description), string(raw), c.ttl)
}
