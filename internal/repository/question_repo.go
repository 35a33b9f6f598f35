package repository

import (
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/clearlabel/transparency-api/internal/models"
)

// QuestionRepository handles data access for generated questions.
type QuestionRepository struct {
	db *sqlx.DB
}

// NewQuestionRepository creates a new QuestionRepository.
func NewQuestionRepository(db *sqlx.DB) *QuestionRepository {
	return &QuestionRepository{db: db}
}

// Upsert inserts or updates a question by its stable id. Repeated generation
// of the same question reuses the existing row.
func (r *QuestionRepository) Upsert(question *models.Question) error {
	const q = `
        INSERT INTO questions (id, text, type, options)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (id) DO UPDATE SET
            text = EXCLUDED.text,
            type = EXCLUDED.type,
            options = EXCLUDED.options,
            updated_at = NOW()`

	_, err := r.db.Exec(q,
		question.ID,
		question.Text,
		question.Type,
		question.Options,
	)
	return err
}

// GetByID returns a single question by id.
func (r *QuestionRepository) GetByID(id string) (*models.Question, error) {
	const q = `SELECT * FROM questions WHERE id = $1 LIMIT 1`

	var question models.Question
	if err := r.db.Get(&question, q, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}
	return &question, nil
}
