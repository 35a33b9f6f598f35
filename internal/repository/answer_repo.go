package repository

import (
	"github.com/jmoiron/sqlx"

	"github.com/clearlabel/transparency-api/internal/models"
)

// AnswerRepository handles data access for submitted answers.
type AnswerRepository struct {
	db *sqlx.DB
}

// NewAnswerRepository creates a new AnswerRepository.
func NewAnswerRepository(db *sqlx.DB) *AnswerRepository {
	return &AnswerRepository{db: db}
}

// Insert stores one answer row. Answers are written once at submission time;
// the (product_id, question_id) primary key rejects duplicates.
func (r *AnswerRepository) Insert(answer *models.Answer) error {
	const q = `INSERT INTO answers (product_id, question_id, value)
              VALUES ($1, $2, $3)`

	_, err := r.db.Exec(q, answer.ProductID, answer.QuestionID, answer.Value)
	return err
}

// GetAnsweredQuestions returns all answers for a product joined with their
// question text, in question-id order for stable report layout.
func (r *AnswerRepository) GetAnsweredQuestions(productID int) ([]models.AnsweredQuestion, error) {
	const q = `
        SELECT a.question_id AS question_id,
               q.text AS question_text,
               a.value AS value
        FROM answers a
        JOIN questions q ON q.id = a.question_id
        WHERE a.product_id = $1
        ORDER BY a.question_id`

	var answered []models.AnsweredQuestion
	if err := r.db.Select(&answered, q, productID); err != nil {
		return nil, err
	}
	return answered, nil
}
