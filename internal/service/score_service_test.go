package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"sync/atomic"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	"github.com/clearlabel/transparency-api/internal/repository"
	"github.com/clearlabel/transparency-api/internal/utils"
	"github.com/clearlabel/transparency-api/pkg/aiservice"
)

func productColumns() []string {
	return []string{"id", "name", "description", "company_id", "created_at"}
}

func answeredColumns() []string {
	return []string{"question_id", "question_text", "value"}
}

func newScoreService(t *testing.T, upstream http.HandlerFunc) (*ScoreService, sqlmock.Sqlmock, *int32) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { mockDB.Close() })
	db := sqlx.NewDb(mockDB, "sqlmock")

	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		upstream(w, r)
	}))
	t.Cleanup(srv.Close)

	svc := NewScoreService(
		repository.NewProductRepository(db),
		repository.NewAnswerRepository(db),
		aiservice.NewClient(srv.URL),
	)
	return svc, mock, &calls
}

func TestGetScoreUnknownProductSkipsUpstream(t *testing.T) {
	svc, mock, calls := newScoreService(t, func(w http.ResponseWriter, r *http.Request) {})

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM products WHERE id = $1`)).
		WithArgs(99).
		WillReturnRows(sqlmock.NewRows(productColumns()))

	if _, err := svc.GetScore(context.Background(), 99); err != utils.ErrProductNotFound {
		t.Fatalf("err = %v, want ErrProductNotFound", err)
	}
	if n := atomic.LoadInt32(calls); n != 0 {
		t.Fatalf("upstream calls = %d, want 0", n)
	}
}

func TestGetScoreForwardsFlattenedAnswers(t *testing.T) {
	var received aiservice.ScoreRequest
	svc, mock, _ := newScoreService(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/transparency-score" {
			http.NotFound(w, r)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decode score request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(aiservice.ScoreResponse{Score: 250, Rationale: "Full disclosure."})
	})

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM products WHERE id = $1`)).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows(productColumns()).
			AddRow(7, "Widget", "A useful widget", 42, time.Now()))

	mock.ExpectQuery(`SELECT a\.question_id AS question_id`).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows(answeredColumns()).
			AddRow("q1", "Recyclable?", "Yes"))

	score, err := svc.GetScore(context.Background(), 7)
	if err != nil {
		t.Fatalf("get score: %v", err)
	}

	if received.ProductName != "Widget" || received.Description != "A useful widget" {
		t.Fatalf("forwarded product text = %q / %q", received.ProductName, received.Description)
	}
	if len(received.QuestionsAndAnswers) != 1 ||
		received.QuestionsAndAnswers[0].QuestionText != "Recyclable?" ||
		received.QuestionsAndAnswers[0].AnswerValue != "Yes" {
		t.Fatalf("flattened pairs = %+v", received.QuestionsAndAnswers)
	}

	// Out-of-range upstream values are clamped to [0, 100].
	if score.Score != 100 {
		t.Fatalf("score = %v, want clamped 100", score.Score)
	}
}

func TestGetScoreUpstreamFailureIsAnError(t *testing.T) {
	svc, mock, _ := newScoreService(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model unavailable", http.StatusServiceUnavailable)
	})

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM products WHERE id = $1`)).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows(productColumns()).
			AddRow(7, "Widget", "A useful widget", 42, time.Now()))

	mock.ExpectQuery(`SELECT a\.question_id AS question_id`).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows(answeredColumns()))

	if _, err := svc.GetScore(context.Background(), 7); err == nil {
		t.Fatal("expected error on upstream failure")
	}
}
