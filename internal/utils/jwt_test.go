package utils

import (
	"testing"
	"time"
)

func TestJWTRoundTrip(t *testing.T) {
	token, err := GenerateJWT("secret", 7, "maker@example.com", time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := ValidateJWT("secret", token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.UserID != 7 || claims.Email != "maker@example.com" {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestJWTRejectsWrongSecret(t *testing.T) {
	token, err := GenerateJWT("secret", 7, "maker@example.com", time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := ValidateJWT("other-secret", token); err == nil {
		t.Fatal("expected validation failure with wrong secret")
	}
}

func TestJWTRejectsExpiredToken(t *testing.T) {
	token, err := GenerateJWT("secret", 7, "maker@example.com", -time.Minute)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := ValidateJWT("secret", token); err == nil {
		t.Fatal("expected validation failure for expired token")
	}
}

func TestJWTRejectsGarbage(t *testing.T) {
	if _, err := ValidateJWT("secret", "not-a-token"); err == nil {
		t.Fatal("expected validation failure for malformed token")
	}
}
