package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/clearlabel/transparency-api/internal/cache"
	"github.com/clearlabel/transparency-api/internal/models"
	"github.com/clearlabel/transparency-api/pkg/aiservice"
)

// QuestionService proxies question generation to the AI service, with a
// short-lived cache so identical product text reuses the previous output.
type QuestionService struct {
	ai    *aiservice.Client
	cache *cache.QuestionCache
}

// NewQuestionService constructs a QuestionService. The cache may be nil,
// in which case every call reaches the AI service.
func NewQuestionService(ai *aiservice.Client, questionCache *cache.QuestionCache) *QuestionService {
	return &QuestionService{ai: ai, cache: questionCache}
}

// Generate returns the follow-up questions for the given product text.
// Single attempt against the AI service; a failed call is the caller's error.
func (s *QuestionService) Generate(ctx context.Context, name, description string) ([]models.Question, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, name, description); err == nil && len(cached) > 0 {
			log.Debug().Str("product_name", name).Msg("Question cache hit")
			return cached, nil
		}
	}

	generated, err := s.ai.GenerateQuestions(ctx, name, description)
	if err != nil {
		return nil, err
	}

	questions := make([]models.Question, 0, len(generated))
	for _, q := range generated {
		questions = append(questions, models.Question{
			ID:      q.ID,
			Text:    q.Text,
			Type:    models.AnswerType(q.Type),
			Options: q.Options,
		})
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, name, description, questions); err != nil {
			log.Warn().Err(err).Msg("Failed to cache generated questions")
		}
	}

	return questions, nil
}
