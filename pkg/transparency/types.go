package transparency

import "time"

// Product is a submitted product as returned by the gateway.
type Product struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CompanyID   int       `json:"companyId"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Question is a generated follow-up question.
type Question struct {
	ID      string   `json:"id"`
	Text    string   `json:"text"`
	Type    string   `json:"type"`
	Options []string `json:"options,omitempty"`
}

// Submission aggregates one complete product submission: basic info, the
// generated question list, and answers keyed by question id.
type Submission struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Questions   []Question        `json:"questions"`
	Answers     map[string]string `json:"answers"`
}

// CreateResult is the gateway's create-product response. FailedAnswers lists
// question ids whose answer rows could not be saved; the product itself was
// still created.
type CreateResult struct {
	Product       Product  `json:"product"`
	FailedAnswers []string `json:"failedAnswers,omitempty"`
}

// Score is an ephemeral transparency score with its rationale.
type Score struct {
	Score     float64 `json:"score"`
	Rationale string  `json:"rationale"`
}
