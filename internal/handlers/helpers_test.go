package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Umer-siddique/Polling-App-Backend/internal/middleware"
	"github.com/Umer-siddique/Polling-App-Backend/internal/models"
	"github.com/Umer-siddique/Polling-App-Backend/internal/services"
	"github.com/Umer-siddique/Polling-App-Backend/internal/testutil"
	"github.com/Umer-siddique/Polling-App-Backend/internal/utils"
)

// testEnv 用内存 store 和压缩替身搭起与生产一致的路由
type testEnv struct {
	polls  *testutil.MemPollStore
	users  *testutil.MemUserStore
	opt    *testutil.FakeOptimizer
	tokens *services.TokenService
	router *gin.Engine
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	env := &testEnv{
		polls:  testutil.NewMemPollStore(),
		users:  testutil.NewMemUserStore(),
		opt:    &testutil.FakeOptimizer{},
		tokens: services.NewTokenService("test-secret", time.Hour),
	}

	pollHandler := NewPollHandler(env.polls, env.opt, zap.NewNop())
	authHandler := NewAuthHandler(env.users, env.tokens)
	authProtect := middleware.AuthProtect(env.tokens, env.users)

	r := gin.New()
	r.Use(middleware.ErrorHandler(zap.NewNop(), false))

	api := r.Group("/api/v1")
	{
		users := api.Group("/users")
		{
			users.POST("/register", authHandler.Register)
			users.POST("/login", authHandler.Login)
			users.GET("/logout", authHandler.Logout)
		}

		polls := api.Group("/polls")
		{
			polls.GET("", pollHandler.List)
			polls.POST("", authProtect, pollHandler.Create)
			polls.PATCH("/:id/vote", pollHandler.Vote)

			guarded := polls.Group("/:id")
			guarded.Use(middleware.ValidateResourceExists(env.polls))
			{
				guarded.GET("", pollHandler.Fetch)
				guarded.PATCH("", authProtect, pollHandler.Update)
				guarded.DELETE("", authProtect, pollHandler.Delete)
			}
		}
	}

	env.router = r
	return env
}

// signup 直接向内存 store 写入用户并签发 token
func (e *testEnv) signup(t *testing.T, email string) (*models.User, string) {
	t.Helper()

	hash, err := utils.HashPassword("password123")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	user := &models.User{Username: "tester", Email: email, Password: hash}
	if err := e.users.Create(context.Background(), user); err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}

	token, err := e.tokens.Sign(user.ID)
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}
	return user, token
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Token   string          `json:"token"`
	Data    json.RawMessage `json:"data"`
}

type pollJSON struct {
	ID                 string   `json:"id"`
	Title              string   `json:"title"`
	ImageURL           string   `json:"imageUrl"`
	Options            []string `json:"options"`
	Votes              []int64  `json:"votes"`
	OriginalImageSize  int64    `json:"originalImageSize"`
	OptimizedImageSize int64    `json:"optimizedImageSize"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("Failed to decode response %q: %v", rec.Body.String(), err)
	}
	return env
}

func decodePoll(t *testing.T, rec *httptest.ResponseRecorder) pollJSON {
	t.Helper()
	env := decodeEnvelope(t, rec)
	var data struct {
		Poll pollJSON `json:"poll"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("Failed to decode poll data %q: %v", string(env.Data), err)
	}
	return data.Poll
}

// multipartPoll 构造创建投票的 multipart 请求体
func multipartPoll(t *testing.T, title string, options []string, withImage bool) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	if withImage {
		fw, err := w.CreateFormFile("image", "test.png")
		if err != nil {
			t.Fatalf("CreateFormFile failed: %v", err)
		}
		if _, err := fw.Write([]byte("fake-image-bytes")); err != nil {
			t.Fatalf("Failed to write image: %v", err)
		}
	}
	if err := w.WriteField("title", title); err != nil {
		t.Fatalf("WriteField failed: %v", err)
	}
	for _, o := range options {
		if err := w.WriteField("options", o); err != nil {
			t.Fatalf("WriteField failed: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to close writer: %v", err)
	}

	return body, w.FormDataContentType()
}

// createPoll 经由 HTTP 接口创建投票并返回响应体
func (e *testEnv) createPoll(t *testing.T, token, title string, options []string) pollJSON {
	t.Helper()

	body, contentType := multipartPoll(t, title, options, true)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/polls", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)

	rec := e.do(req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	return decodePoll(t, rec)
}

func jsonRequest(t *testing.T, method, path string, payload interface{}) *http.Request {
	t.Helper()

	var body bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&body).Encode(payload); err != nil {
			t.Fatalf("Failed to encode payload: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	return req
}
