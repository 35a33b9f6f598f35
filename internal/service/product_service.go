package service

import (
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/clearlabel/transparency-api/internal/models"
	"github.com/clearlabel/transparency-api/internal/repository"
	"github.com/clearlabel/transparency-api/internal/utils"
)

// Reserved answer keys: basic-info fields may never collide with question ids.
var reservedAnswerKeys = map[string]bool{
	"name":        true,
	"description": true,
}

// CreateProductInput carries one aggregated submission.
type CreateProductInput struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Questions   []models.Question `json:"questions"`
	Answers     map[string]string `json:"answers"`
}

// CreateProductResult distinguishes full success from partial success: the
// product row exists either way, but individual answer inserts may have
// failed. Callers surface FailedAnswers instead of hiding the discrepancy.
type CreateProductResult struct {
	Product       *models.Product `json:"product"`
	FailedAnswers []string        `json:"failedAnswers,omitempty"`
}

// ProductService implements product listing and the aggregated create flow.
type ProductService struct {
	productRepo  *repository.ProductRepository
	questionRepo *repository.QuestionRepository
	answerRepo   *repository.AnswerRepository
	userRepo     *repository.UserRepository
}

// NewProductService constructs a ProductService.
func NewProductService(
	productRepo *repository.ProductRepository,
	questionRepo *repository.QuestionRepository,
	answerRepo *repository.AnswerRepository,
	userRepo *repository.UserRepository,
) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		questionRepo: questionRepo,
		answerRepo:   answerRepo,
		userRepo:     userRepo,
	}
}

// List returns all products, newest first.
func (s *ProductService) List() ([]models.Product, error) {
	return s.productRepo.GetAll()
}

// Create validates the submission, upserts its questions, inserts the product,
// then inserts one answer row per non-reserved key. Answer failures do not
// roll back the product; they are logged and reported in the result.
func (s *ProductService) Create(userID int, in *CreateProductInput) (*CreateProductResult, error) {
	name := strings.TrimSpace(in.Name)
	description := strings.TrimSpace(in.Description)
	if name == "" {
		return nil, utils.ErrMissingName
	}
	if description == "" {
		return nil, utils.ErrMissingDescription
	}

	// The owning company is resolved fresh on every write.
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user.CompanyID == nil {
		return nil, utils.ErrNoCompany
	}

	// Upsert questions first so every answer references an existing row.
	// Upserts are idempotent by question id.
	for i := range in.Questions {
		if err := s.questionRepo.Upsert(&in.Questions[i]); err != nil {
			return nil, err
		}
	}

	product := &models.Product{
		Name:        name,
		Description: description,
		CompanyID:   *user.CompanyID,
	}
	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}

	// Deterministic insert order.
	keys := make([]string, 0, len(in.Answers))
	for k := range in.Answers {
		if reservedAnswerKeys[k] {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var failed []string
	for _, questionID := range keys {
		answer := &models.Answer{
			ProductID:  product.ID,
			QuestionID: questionID,
			Value:      in.Answers[questionID],
		}
		if err := s.answerRepo.Insert(answer); err != nil {
			log.Error().
				Err(err).
				Int("product_id", product.ID).
				Str("question_id", questionID).
				Msg("Failed to insert answer")
			failed = append(failed, questionID)
		}
	}

	return &CreateProductResult{Product: product, FailedAnswers: failed}, nil
}
