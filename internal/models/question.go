package models

import (
	"time"

	"github.com/lib/pq"
)

// AnswerType enumerates the supported question answer types.
type AnswerType string

const (
	AnswerTypeText    AnswerType = "text"
	AnswerTypeNumber  AnswerType = "number"
	AnswerTypeBoolean AnswerType = "boolean"
)

// Question is a follow-up question produced by the AI service. Question IDs are
// stable across generations so upserting the same question never duplicates rows.
type Question struct {
	ID        string         `db:"id" json:"id"`
	Text      string         `db:"text" json:"text"`
	Type      AnswerType     `db:"type" json:"type"`
	Options   pq.StringArray `db:"options" json:"options,omitempty"`
	CreatedAt time.Time      `db:"created_at" json:"-"`
	UpdatedAt time.Time      `db:"updated_at" json:"-"`
}
