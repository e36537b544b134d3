package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestSecureHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(SecureHeaders())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	want := map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
		"X-XSS-Protection":       "0",
		"Referrer-Policy":        "no-referrer",
	}
	for k, v := range want {
		if got := rec.Header().Get(k); got != v {
			t.Errorf("Expected %s: %s, got %q", k, v, got)
		}
	}
}

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	// 自动生成
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Header().Get("X-Request-Id") == "" {
		t.Error("Expected generated request id")
	}

	// 透传调用方的 id
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", "client-id-123")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if got := rec.Header().Get("X-Request-Id"); got != "client-id-123" {
		t.Errorf("Expected client-id-123, got %q", got)
	}
}

func TestCleanXSS(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(CleanXSS())
	r.GET("/echo", func(c *gin.Context) {
		c.String(http.StatusOK, c.Query("q"))
	})
	r.POST("/form", func(c *gin.Context) {
		c.String(http.StatusOK, c.PostForm("title"))
	})

	t.Run("query", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/echo?q="+url.QueryEscape("<script>alert(1)</script>hi"), nil)
		r.ServeHTTP(rec, req)

		if rec.Body.String() != "hi" {
			t.Errorf("Expected sanitized query, got %q", rec.Body.String())
		}
	})

	t.Run("form", func(t *testing.T) {
		form := url.Values{"title": {"<b>bold</b> title"}}
		req := httptest.NewRequest(http.MethodPost, "/form", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if rec.Body.String() != "bold title" {
			t.Errorf("Expected sanitized form value, got %q", rec.Body.String())
		}
	})
}
