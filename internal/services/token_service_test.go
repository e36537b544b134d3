package services

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestTokenSignAndParse(t *testing.T) {
	s := NewTokenService("test-secret", time.Hour)

	token, err := s.Sign(42)
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	id, err := s.Parse(token)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if id != 42 {
		t.Errorf("Expected user id 42, got %d", id)
	}
}

func TestTokenParseExpired(t *testing.T) {
	s := NewTokenService("test-secret", -time.Minute)

	token, err := s.Sign(1)
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	_, err = s.Parse(token)
	if !errors.Is(err, jwt.ErrTokenExpired) {
		t.Errorf("Expected ErrTokenExpired, got %v", err)
	}
}

func TestTokenParseWrongSecret(t *testing.T) {
	token, err := NewTokenService("secret-a", time.Hour).Sign(1)
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	_, err = NewTokenService("secret-b", time.Hour).Parse(token)
	if !errors.Is(err, jwt.ErrTokenSignatureInvalid) {
		t.Errorf("Expected ErrTokenSignatureInvalid, got %v", err)
	}
}

func TestTokenParseGarbage(t *testing.T) {
	s := NewTokenService("test-secret", time.Hour)

	_, err := s.Parse("not-a-token")
	if !errors.Is(err, jwt.ErrTokenMalformed) {
		t.Errorf("Expected ErrTokenMalformed, got %v", err)
	}
}
