package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/clearlabel/transparency-api/internal/repository"
	"github.com/clearlabel/transparency-api/internal/utils"
	"github.com/clearlabel/transparency-api/pkg/aiservice"
)

// ScoreService computes on-demand transparency scores by forwarding a
// product's text and flattened question/answer pairs to the AI service.
// Scores are ephemeral and never persisted.
type ScoreService struct {
	productRepo *repository.ProductRepository
	answerRepo  *repository.AnswerRepository
	ai          *aiservice.Client
}

// NewScoreService constructs a ScoreService.
func NewScoreService(
	productRepo *repository.ProductRepository,
	answerRepo *repository.AnswerRepository,
	ai *aiservice.Client,
) *ScoreService {
	return &ScoreService{productRepo: productRepo, answerRepo: answerRepo, ai: ai}
}

// GetScore loads the product and its answers and requests a score.
// Returns utils.ErrProductNotFound for unknown ids. The score is clamped
// to [0, 100].
func (s *ScoreService) GetScore(ctx context.Context, productID int) (*aiservice.ScoreResponse, error) {
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to load product: %w", err)
	}

	answered, err := s.answerRepo.GetAnsweredQuestions(productID)
	if err != nil {
		return nil, fmt.Errorf("failed to load answers: %w", err)
	}

	pairs := make([]aiservice.QuestionAnswer, 0, len(answered))
	for _, a := range answered {
		pairs = append(pairs, aiservice.QuestionAnswer{
			QuestionText: a.QuestionText,
			AnswerValue:  a.Value,
		})
	}

	score, err := s.ai.TransparencyScore(ctx, &aiservice.ScoreRequest{
		ProductName:         product.Name,
		Description:         product.Description,
		QuestionsAndAnswers: pairs,
	})
	if err != nil {
		return nil, fmt.Errorf("scoring failed: %w", err)
	}

	if score.Score < 0 {
		score.Score = 0
	}
	if score.Score > 100 {
		score.Score = 100
	}
	return score, nil
}
