package workflow

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/clearlabel/transparency-api/pkg/transparency"
)

// State identifies one step of the submission workflow.
type State string

const (
	StateLanding          State = "landing"
	StateLogin            State = "login"
	StateBasicInfo        State = "basic_info"
	StateDynamicQuestions State = "dynamic_questions"
	StateReview           State = "review"
	StateProductList      State = "product_list"
)

// Validation errors surfaced before any network call is made.
var (
	ErrNameRequired        = errors.New("product name is required")
	ErrDescriptionRequired = errors.New("product description is required")
	ErrUnknownQuestion     = errors.New("unknown question id")
	ErrWrongState          = errors.New("action not available in current state")
)

// failedScoreRationale is shown when scoring fails. The scoring path degrades
// to a valid-shaped zero score instead of surfacing an error.
const failedScoreRationale = "Failed to fetch score."

// Gateway is the narrow interface the workflow needs from the server side.
// *transparency.Client satisfies it.
type Gateway interface {
	Login(ctx context.Context, email, password string) (string, error)
	SetToken(token string)
	GenerateQuestions(ctx context.Context, name, description string) ([]transparency.Question, error)
	CreateProduct(ctx context.Context, sub *transparency.Submission) (*transparency.CreateResult, error)
	ListProducts(ctx context.Context) ([]transparency.Product, error)
	TransparencyScore(ctx context.Context, productID int) (*transparency.Score, error)
	DownloadReport(ctx context.Context, productID int) (io.ReadCloser, string, error)
}

// ScoreView is what the product list renders for one product's score request.
type ScoreView struct {
	Loading   bool
	Score     float64
	Rationale string
}

// Workflow is the multi-step submission state machine:
// Landing → BasicInfo → DynamicQuestions → Review → ProductList, with Login
// interposed whenever no valid session exists.
//
// The workflow is single-threaded: it is driven by one view loop and exposes
// loading flags instead of concurrency. Every network operation suspends the
// calling interaction only.
type Workflow struct {
	gw       Gateway
	sessions *SessionSource
	session  *Session

	state  State
	resume State

	name        string
	description string
	questions   []transparency.Question
	answers     map[string]string

	products []transparency.Product
	scores   map[int]ScoreView

	loadingQuestions bool
	err              error
}

// New constructs a workflow subscribed to the given session source.
func New(gw Gateway, sessions *SessionSource) *Workflow {
	w := &Workflow{
		gw:       gw,
		sessions: sessions,
		state:    StateLanding,
		answers:  make(map[string]string),
		scores:   make(map[int]ScoreView),
	}
	sessions.Subscribe(w.onSessionChange)
	return w
}

// onSessionChange refreshes the explicit session context and keeps the
// gateway's forwarded credential in sync.
func (w *Workflow) onSessionChange(s *Session) {
	w.session = s
	if s.Valid() {
		w.gw.SetToken(s.Token)
	} else {
		w.gw.SetToken("")
	}
}

// State returns the current workflow state.
func (w *Workflow) State() State { return w.state }

// Err returns the most recent surfaced error, or nil.
func (w *Workflow) Err() error { return w.err }

// IsLoadingQuestions reports whether a question fetch is in flight.
func (w *Workflow) IsLoadingQuestions() bool { return w.loadingQuestions }

// Name returns the accumulated product name.
func (w *Workflow) Name() string { return w.name }

// Description returns the accumulated product description.
func (w *Workflow) Description() string { return w.description }

// Questions returns the fetched follow-up questions in order.
func (w *Workflow) Questions() []transparency.Question { return w.questions }

// Answer returns the accumulated answer for a question id.
func (w *Workflow) Answer(questionID string) string { return w.answers[questionID] }

// Products returns the most recently fetched product list.
func (w *Workflow) Products() []transparency.Product { return w.products }

// ScoreFor returns the score view for a product, if one was requested.
func (w *Workflow) ScoreFor(productID int) (ScoreView, bool) {
	v, ok := w.scores[productID]
	return v, ok
}

// requireSession short-circuits to the login state when no valid session
// exists, remembering the state the caller wanted.
func (w *Workflow) requireSession(target State) bool {
	if w.session.Valid() {
		return true
	}
	w.resume = target
	w.state = StateLogin
	return false
}

// Login submits credentials. On success the session source is updated (which
// re-invokes the subscription callback) and the workflow re-enters the state
// that was originally requested.
func (w *Workflow) Login(ctx context.Context, email, password string) error {
	token, err := w.gw.Login(ctx, email, password)
	if err != nil {
		w.err = err
		return err
	}

	w.sessions.Set(&Session{Token: token, Email: email})
	w.err = nil

	if w.resume != "" {
		w.state = w.resume
		w.resume = ""
	} else {
		w.state = StateBasicInfo
	}
	return nil
}

// Begin starts a new submission: Landing → BasicInfo. User-initiated, no
// precondition beyond a valid session.
func (w *Workflow) Begin() {
	if !w.requireSession(StateBasicInfo) {
		return
	}
	w.err = nil
	w.state = StateBasicInfo
}

// SetBasicInfo records the product name and description.
func (w *Workflow) SetBasicInfo(name, description string) {
	w.name = name
	w.description = description
}

// Advance moves BasicInfo → DynamicQuestions. The guard requires non-empty
// trimmed name and description; when it passes, one suspending question fetch
// runs and must complete (success or failure) before the workflow advances.
// On failure the state is unchanged and the error is surfaced.
func (w *Workflow) Advance(ctx context.Context) error {
	if w.state != StateBasicInfo {
		return ErrWrongState
	}
	if !w.requireSession(StateBasicInfo) {
		return nil
	}

	if strings.TrimSpace(w.name) == "" {
		w.err = ErrNameRequired
		return w.err
	}
	if strings.TrimSpace(w.description) == "" {
		w.err = ErrDescriptionRequired
		return w.err
	}

	w.loadingQuestions = true
	w.err = nil
	questions, err := w.gw.GenerateQuestions(ctx, w.name, w.description)
	w.loadingQuestions = false
	if err != nil {
		w.err = err
		return err
	}

	w.questions = questions
	// Merge defaults into the accumulating answer set without clobbering
	// answers the user already gave on an earlier pass.
	for _, q := range questions {
		if _, ok := w.answers[q.ID]; !ok {
			w.answers[q.ID] = defaultAnswer(q)
		}
	}

	w.state = StateDynamicQuestions
	return nil
}

// SetAnswer records the answer for a known question id. Unknown ids are
// rejected: the answer set is an explicit mapping, never a free-form merge.
func (w *Workflow) SetAnswer(questionID, value string) error {
	for _, q := range w.questions {
		if q.ID == questionID {
			w.answers[questionID] = value
			return nil
		}
	}
	return ErrUnknownQuestion
}

// Review moves DynamicQuestions → Review, unconditionally on user action.
func (w *Workflow) Review() error {
	if w.state != StateDynamicQuestions {
		return ErrWrongState
	}
	w.err = nil
	w.state = StateReview
	return nil
}

// Back steps one state backward within the submission sequence.
func (w *Workflow) Back() {
	switch w.state {
	case StateReview:
		w.state = StateDynamicQuestions
	case StateDynamicQuestions:
		w.state = StateBasicInfo
	}
}

// Submit aggregates the accumulated state into one payload and performs the
// suspending create-product call. Success resets the workflow and enters the
// product list; failure retains all state for retry.
func (w *Workflow) Submit(ctx context.Context) error {
	if w.state != StateReview {
		return ErrWrongState
	}
	if !w.requireSession(StateReview) {
		return nil
	}

	answers := make(map[string]string, len(w.answers))
	for id, value := range w.answers {
		answers[id] = value
	}
	sub := &transparency.Submission{
		Name:        strings.TrimSpace(w.name),
		Description: strings.TrimSpace(w.description),
		Questions:   w.questions,
		Answers:     answers,
	}

	if _, err := w.gw.CreateProduct(ctx, sub); err != nil {
		w.err = err
		return err
	}

	w.reset()
	w.loadProducts(ctx)
	w.state = StateProductList
	return nil
}

// OpenProducts navigates directly to the product list, fetching all visible
// products newest-first.
func (w *Workflow) OpenProducts(ctx context.Context) error {
	if !w.requireSession(StateProductList) {
		return nil
	}
	w.loadProducts(ctx)
	w.state = StateProductList
	return w.err
}

// FetchScore requests the transparency score for one listed product. While
// the call is pending the view shows a loading indicator; on any failure the
// displayed value is a zero score with a failure rationale, never an error.
func (w *Workflow) FetchScore(ctx context.Context, productID int) ScoreView {
	w.scores[productID] = ScoreView{Loading: true}

	score, err := w.gw.TransparencyScore(ctx, productID)
	var view ScoreView
	if err != nil {
		view = ScoreView{Score: 0, Rationale: failedScoreRationale}
	} else {
		view = ScoreView{Score: score.Score, Rationale: score.Rationale}
	}
	w.scores[productID] = view
	return view
}

// DownloadReport opens the report attachment stream for a listed product.
// The caller owns the returned reader.
func (w *Workflow) DownloadReport(ctx context.Context, productID int) (io.ReadCloser, string, error) {
	return w.gw.DownloadReport(ctx, productID)
}

func (w *Workflow) loadProducts(ctx context.Context) {
	products, err := w.gw.ListProducts(ctx)
	if err != nil {
		w.err = err
		return
	}
	w.products = products
	w.err = nil
}

// reset clears all accumulated submission state.
func (w *Workflow) reset() {
	w.name = ""
	w.description = ""
	w.questions = nil
	w.answers = make(map[string]string)
	w.err = nil
}

// defaultAnswer picks the initial answer for a freshly fetched question:
// boolean-choice questions default to the negative option, everything else
// to empty text.
func defaultAnswer(q transparency.Question) string {
	if q.Type != "boolean" {
		return ""
	}
	for _, opt := range q.Options {
		if strings.EqualFold(opt, "No") {
			return opt
		}
	}
	if len(q.Options) > 0 {
		return q.Options[len(q.Options)-1]
	}
	return "No"
}
