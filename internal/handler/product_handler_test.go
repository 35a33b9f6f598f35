package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"github.com/clearlabel/transparency-api/internal/middleware"
	"github.com/clearlabel/transparency-api/internal/repository"
	"github.com/clearlabel/transparency-api/internal/service"
	"github.com/clearlabel/transparency-api/internal/utils"
)

const testJWTSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func newProductRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { mockDB.Close() })
	db := sqlx.NewDb(mockDB, "sqlmock")

	svc := service.NewProductService(
		repository.NewProductRepository(db),
		repository.NewQuestionRepository(db),
		repository.NewAnswerRepository(db),
		repository.NewUserRepository(db),
	)
	h := NewProductHandler(svc)
	authMw := middleware.NewAuthMiddleware(testJWTSecret)

	router := gin.New()
	router.GET("/api/products", h.GetProducts)
	router.POST("/api/products", authMw.Handle(), h.CreateProduct)
	return router, mock
}

func bearerToken(t *testing.T, userID int) string {
	t.Helper()
	token, err := utils.GenerateJWT(testJWTSecret, userID, "maker@example.com", time.Hour)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return "Bearer " + token
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) utils.Response {
	t.Helper()
	var resp utils.Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v (body %s)", err, w.Body.String())
	}
	return resp
}

func TestCreateProductRequiresToken(t *testing.T) {
	router, mock := newProductRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/products", strings.NewReader(`{}`))
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	resp := decodeEnvelope(t, w)
	if resp.Success || resp.Error == nil || resp.Error.Code != "INVALID_TOKEN" {
		t.Fatalf("envelope = %+v", resp)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unexpected database access: %v", err)
	}
}

func TestCreateProductRejectsEmptyName(t *testing.T) {
	router, _ := newProductRouter(t)

	body := `{"name": "  ", "description": "A useful widget"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/products", strings.NewReader(body))
	req.Header.Set("Authorization", bearerToken(t, 1))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if resp := decodeEnvelope(t, w); resp.Error == nil || resp.Error.Code != "MISSING_NAME" {
		t.Fatalf("envelope = %+v", resp)
	}
}

func TestCreateProductRejectsIdentityWithoutCompany(t *testing.T) {
	router, mock := newProductRouter(t)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM users WHERE id = $1`)).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash", "name", "company_id", "is_active", "created_at", "updated_at"}).
			AddRow(1, "maker@example.com", "x", "Maker", nil, true, now, now))

	body := `{"name": "Widget", "description": "A useful widget"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/products", strings.NewReader(body))
	req.Header.Set("Authorization", bearerToken(t, 1))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}
	if resp := decodeEnvelope(t, w); resp.Error == nil || resp.Error.Code != "NO_COMPANY" {
		t.Fatalf("envelope = %+v", resp)
	}
}

func TestCreateProductPersistsSubmission(t *testing.T) {
	router, mock := newProductRouter(t)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM users WHERE id = $1`)).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash", "name", "company_id", "is_active", "created_at", "updated_at"}).
			AddRow(1, "maker@example.com", "x", "Maker", 42, true, now, now))

	mock.ExpectExec(`INSERT INTO questions .* ON CONFLICT \(id\) DO UPDATE`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO products (name, description, company_id)`)).
		WithArgs("Widget", "A useful widget", 42).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(7, now))

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO answers (product_id, question_id, value)`)).
		WithArgs(7, "q1", "Yes").
		WillReturnResult(sqlmock.NewResult(0, 1))

	body := `{
		"name": "Widget",
		"description": "A useful widget",
		"questions": [{"id": "q1", "text": "Recyclable?", "type": "boolean", "options": ["Yes", "No"]}],
		"answers": {"q1": "Yes", "name": "Widget", "description": "A useful widget"}
	}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/products", strings.NewReader(body))
	req.Header.Set("Authorization", bearerToken(t, 1))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (body %s)", w.Code, w.Body.String())
	}
	resp := decodeEnvelope(t, w)
	if !resp.Success || resp.Message != "Product created successfully" {
		t.Fatalf("envelope = %+v", resp)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestGetProductsListsNewestFirst(t *testing.T) {
	router, mock := newProductRouter(t)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM products ORDER BY created_at DESC`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "company_id", "created_at"}).
			AddRow(8, "Gadget", "A newer gadget", 42, now).
			AddRow(7, "Widget", "A useful widget", 42, now.Add(-time.Hour)))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	resp := decodeEnvelope(t, w)
	data, ok := resp.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("data = %T", resp.Data)
	}
	products, ok := data["products"].([]interface{})
	if !ok || len(products) != 2 {
		t.Fatalf("products = %v", data["products"])
	}
	first := products[0].(map[string]interface{})
	if first["name"] != "Gadget" {
		t.Fatalf("first product = %v, want newest", first)
	}
}
