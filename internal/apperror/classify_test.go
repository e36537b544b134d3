package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func TestFrom(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{
			"invalid id",
			&InvalidIDError{Field: "id", Value: "abc"},
			http.StatusBadRequest,
			"Invalid id abc.",
		},
		{
			"postgres unique violation",
			&pgconn.PgError{Code: "23505", Detail: "Key (email)=(dup@example.com) already exists."},
			http.StatusBadRequest,
			"Duplicate field value dup@example.com. Please use another value!",
		},
		{
			"translated duplicate sentinel",
			gorm.ErrDuplicatedKey,
			http.StatusBadRequest,
			"Duplicate field value. Please use another value!",
		},
		{
			"token expired",
			jwt.ErrTokenExpired,
			http.StatusUnauthorized,
			"Token Expired. Please login again!",
		},
		{
			"token malformed",
			jwt.ErrTokenMalformed,
			http.StatusUnauthorized,
			"Invalid Token or has expired.",
		},
		{
			"token bad signature",
			jwt.ErrTokenSignatureInvalid,
			http.StatusUnauthorized,
			"Invalid Token or has expired.",
		},
		{
			"record not found",
			gorm.ErrRecordNotFound,
			http.StatusNotFound,
			"Document Not Found!",
		},
		{
			"wrapped record not found",
			fmt.Errorf("loading poll: %w", gorm.ErrRecordNotFound),
			http.StatusNotFound,
			"Document Not Found!",
		},
		{
			"unknown error",
			errors.New("connection reset"),
			http.StatusInternalServerError,
			"Something went very wrong!",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := From(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("Expected code %d, got %d", tt.wantCode, got.Code)
			}
			if got.Message != tt.wantMsg {
				t.Errorf("Expected message %q, got %q", tt.wantMsg, got.Message)
			}
		})
	}
}

func TestFromValidationError(t *testing.T) {
	ve := &ValidationError{}
	ve.Add("title", "A poll must have a title.")
	ve.Add("imageUrl", "A poll must have an image.")

	got := From(ve)
	if got.Code != http.StatusForbidden {
		t.Errorf("Expected 403, got %d", got.Code)
	}
	// 字段消息以 ". " 连接
	want := "A poll must have a title.. A poll must have an image."
	if got.Message != want {
		t.Errorf("Expected %q, got %q", want, got.Message)
	}
	if !got.Operational {
		t.Error("Expected operational error")
	}
}

func TestFromBindingValidation(t *testing.T) {
	v := validator.New()
	err := v.Struct(struct {
		Email string `validate:"required,email"`
	}{})
	if err == nil {
		t.Fatal("Expected validation error")
	}

	got := From(err)
	if got.Code != http.StatusForbidden {
		t.Errorf("Expected 403, got %d", got.Code)
	}
	if got.Message == "" {
		t.Error("Expected non-empty message")
	}
}

func TestFromAppErrorPassthrough(t *testing.T) {
	src := New("Option index out of bounds.", http.StatusBadRequest)
	got := From(src)
	if got != src {
		t.Error("Expected the same *AppError back")
	}
}

func TestFromUnknownIsNotOperational(t *testing.T) {
	got := From(errors.New("boom"))
	if got.Operational {
		t.Error("Expected non-operational error")
	}
	if got.Status() != "error" {
		t.Errorf("Expected status error, got %s", got.Status())
	}
}

func TestStatus(t *testing.T) {
	if s := New("nope", http.StatusNotFound).Status(); s != "fail" {
		t.Errorf("Expected fail for 404, got %s", s)
	}
	if s := New("boom", http.StatusInternalServerError).Status(); s != "error" {
		t.Errorf("Expected error for 500, got %s", s)
	}
}
