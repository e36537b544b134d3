package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Umer-siddique/Polling-App-Backend/internal/apperror"
	"github.com/Umer-siddique/Polling-App-Backend/internal/models"
	"github.com/Umer-siddique/Polling-App-Backend/internal/services"
	"github.com/Umer-siddique/Polling-App-Backend/internal/store"
	"github.com/Umer-siddique/Polling-App-Backend/internal/utils"
)

type AuthHandler struct {
	users  store.UserStore
	tokens *services.TokenService
}

func NewAuthHandler(users store.UserStore, tokens *services.TokenService) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens}
}

type registerRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// Register 注册新用户并直接签发 token (POST /api/v1/users/register)
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// binding 校验错误按字段聚合后返回
		fail(c, err)
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		fail(c, err)
		return
	}

	user := &models.User{
		Username: utils.SanitizeText(strings.TrimSpace(req.Username)),
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Password: hash,
	}
	if err := h.users.Create(c.Request.Context(), user); err != nil {
		// 邮箱唯一约束冲突由分类层翻译
		fail(c, err)
		return
	}

	h.issueToken(c, http.StatusCreated, user)
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login 校验凭证并签发 token (POST /api/v1/users/login)
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, err)
		return
	}

	user, err := h.users.FindByEmail(c.Request.Context(), strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		fail(c, apperror.New("Incorrect email or password", http.StatusUnauthorized))
		return
	}
	if !utils.CheckPassword(req.Password, user.Password) {
		fail(c, apperror.New("Incorrect email or password", http.StatusUnauthorized))
		return
	}

	h.issueToken(c, http.StatusOK, user)
}

// Logout 用短命的占位 cookie 覆盖 token (GET /api/v1/users/logout)
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie("jwt", "loggedout", 10, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

func (h *AuthHandler) issueToken(c *gin.Context, code int, user *models.User) {
	token, err := h.tokens.Sign(user.ID)
	if err != nil {
		fail(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie("jwt", token, int(h.tokens.ExpiresIn().Seconds()), "/", "", false, true)

	c.JSON(code, gin.H{
		"status": "success",
		"token":  token,
		"data":   gin.H{"user": user},
	})
}
