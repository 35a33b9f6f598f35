package models

import "time"

// Answer pairs a product with a question. Values are stored as text regardless
// of the question's answer type. One row per (product, question); answers are
// written once at submission time and never updated.
type Answer struct {
	ProductID  int       `db:"product_id" json:"productId"`
	QuestionID string    `db:"question_id" json:"questionId"`
	Value      string    `db:"value" json:"value"`
	CreatedAt  time.Time `db:"created_at" json:"-"`
}

// AnsweredQuestion is an answer joined with its question metadata, used by the
// report renderer and the scoring path.
type AnsweredQuestion struct {
	QuestionID   string `db:"question_id" json:"questionId"`
	QuestionText string `db:"question_text" json:"questionText"`
	Value        string `db:"value" json:"value"`
}
