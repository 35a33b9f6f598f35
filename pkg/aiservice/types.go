package aiservice

// Question is a follow-up question generated for a product.
type Question struct {
	ID      string   `json:"id"`
	Text    string   `json:"text"`
	Type    string   `json:"type"`
	Options []string `json:"options,omitempty"`
}

// GenerateQuestionsRequest is the payload for question generation.
type GenerateQuestionsRequest struct {
	ProductName string `json:"product_name"`
	Description string `json:"description"`
}

// QuestionAnswer is one flattened (question text, answer value) pair sent to
// the scoring endpoint.
type QuestionAnswer struct {
	QuestionText string `json:"question_text"`
	AnswerValue  string `json:"answer_value"`
}

// ScoreRequest is the payload for transparency scoring.
type ScoreRequest struct {
	ProductName         string           `json:"product_name"`
	Description         string           `json:"description"`
	QuestionsAndAnswers []QuestionAnswer `json:"questions_and_answers"`
}

// ScoreResponse carries the computed transparency score and its rationale.
type ScoreResponse struct {
	Score     float64 `json:"score"`
	Rationale string  `json:"rationale"`
}
