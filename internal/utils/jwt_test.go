package utils

import (
	"testing"
	"time"

	"salesops-web/internal/models"
)

func TestTokenRoundTrip(t *testing.T) {
	user := models.User{ID: 7, Username: "ops_admin", Role: "admin"}

	token, err := GenerateAccessToken(user, "test-secret", time.Minute)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	claims, err := ValidateToken(token, "test-secret")
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != 7 || claims.Username != "ops_admin" || claims.Role != "admin" {
		t.Errorf("claims = %+v, want user 7 ops_admin admin", claims)
	}
	if claims.Type != "access" {
		t.Errorf("token type = %q, want access", claims.Type)
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	user := models.User{ID: 1, Username: "u"}

	token, err := GenerateAccessToken(user, "right-secret", time.Minute)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	if _, err := ValidateToken(token, "wrong-secret"); err == nil {
		t.Fatal("expected validation failure with wrong secret")
	}
}

func TestValidateTokenExpired(t *testing.T) {
	user := models.User{ID: 1, Username: "u"}

	token, err := GenerateAccessToken(user, "secret", -time.Minute)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	if _, err := ValidateToken(token, "secret"); err == nil {
		t.Fatal("expected validation failure for expired token")
	}
}

func TestRefreshTokenType(t *testing.T) {
	user := models.User{ID: 2, Username: "u2"}

	token, err := GenerateRefreshToken(user, "secret", time.Hour)
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}

	claims, err := ValidateToken(token, "secret")
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.Type != "refresh" {
		t.Errorf("token type = %q, want refresh", claims.Type)
	}
}
