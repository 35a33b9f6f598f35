package service

import (
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"github.com/clearlabel/transparency-api/internal/repository"
	"github.com/clearlabel/transparency-api/internal/utils"
)

func newAuthService(t *testing.T) (*AuthService, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { mockDB.Close() })
	db := sqlx.NewDb(mockDB, "sqlmock")
	return NewAuthService(repository.NewUserRepository(db), "test-secret", time.Hour), mock
}

func expectUserByEmail(t *testing.T, mock sqlmock.Sqlmock, password string, active bool) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM users WHERE email = $1`)).
		WithArgs("maker@example.com").
		WillReturnRows(sqlmock.NewRows(userColumns()).
			AddRow(1, "maker@example.com", string(hash), "Maker", 42, active, now, now))
}

func TestLoginIssuesValidSessionToken(t *testing.T) {
	svc, mock := newAuthService(t)
	expectUserByEmail(t, mock, "hunter2", true)

	token, err := svc.Login("maker@example.com", "hunter2")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	claims, err := utils.ValidateJWT("test-secret", token)
	if err != nil {
		t.Fatalf("issued token does not validate: %v", err)
	}
	if claims.UserID != 1 || claims.Email != "maker@example.com" {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	svc, mock := newAuthService(t)
	expectUserByEmail(t, mock, "hunter2", true)

	if _, err := svc.Login("maker@example.com", "wrong"); err != utils.ErrInvalidCredentials {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestLoginRejectsUnknownEmailWithSameError(t *testing.T) {
	svc, mock := newAuthService(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM users WHERE email = $1`)).
		WithArgs("nobody@example.com").
		WillReturnError(sql.ErrNoRows)

	// Unknown email and wrong password are indistinguishable to the caller.
	if _, err := svc.Login("nobody@example.com", "hunter2"); err != utils.ErrInvalidCredentials {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestLoginRejectsInactiveAccount(t *testing.T) {
	svc, mock := newAuthService(t)
	expectUserByEmail(t, mock, "hunter2", false)

	if _, err := svc.Login("maker@example.com", "hunter2"); err != utils.ErrAccountInactive {
		t.Fatalf("err = %v, want ErrAccountInactive", err)
	}
}
