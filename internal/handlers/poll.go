package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Umer-siddique/Polling-App-Backend/internal/apperror"
	"github.com/Umer-siddique/Polling-App-Backend/internal/models"
	"github.com/Umer-siddique/Polling-App-Backend/internal/services"
	"github.com/Umer-siddique/Polling-App-Backend/internal/store"
	"github.com/Umer-siddique/Polling-App-Backend/internal/utils"
)

type PollHandler struct {
	polls     store.PollStore
	optimizer services.ImageOptimizer
	log       *zap.Logger
}

func NewPollHandler(polls store.PollStore, optimizer services.ImageOptimizer, log *zap.Logger) *PollHandler {
	return &PollHandler{polls: polls, optimizer: optimizer, log: log}
}

// Create 创建投票 (POST /api/v1/polls)
// multipart 表单: title, options(数组或逗号分隔字符串), image 文件
// 图片先送外部服务压缩，压缩失败则整个创建不落库
func (h *PollHandler) Create(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		fail(c, apperror.New("You are not logged in! Please login to get access.", http.StatusUnauthorized))
		return
	}

	// Ensure image is available
	file, header, err := c.Request.FormFile("image")
	if err != nil {
		fail(c, apperror.New("Image is required", http.StatusBadRequest))
		return
	}
	defer file.Close()

	imageBytes, err := io.ReadAll(file)
	if err != nil {
		fail(c, err)
		return
	}

	title := utils.SanitizeText(strings.TrimSpace(c.PostForm("title")))
	options := utils.ParseOptions(c.PostFormArray("options"))
	for i := range options {
		options[i] = utils.SanitizeText(options[i])
	}

	// Image optimization
	result, err := h.optimizer.Optimize(c.Request.Context(), imageBytes)
	if err != nil {
		fail(c, err)
		return
	}

	h.log.Info(fmt.Sprintf("image optimized: %s -> %s",
		humanize.Bytes(uint64(header.Size)), humanize.Bytes(uint64(result.Size))))

	poll := &models.Poll{
		Title:              title,
		ImageURL:           result.URL,
		Options:            pq.StringArray(options),
		CreatedBy:          user.ID,
		OriginalImageSize:  header.Size,
		OptimizedImageSize: result.Size,
	}
	if err := h.polls.Create(c.Request.Context(), poll); err != nil {
		fail(c, err)
		return
	}
	poll.User = *user

	respondData(c, http.StatusCreated, gin.H{"poll": poll})
}

// List 返回全部投票，按创建时间倒序 (GET /api/v1/polls)
// 没有数据不算错误，返回空数组
func (h *PollHandler) List(c *gin.Context) {
	polls, err := h.polls.FindAll(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	if polls == nil {
		polls = []models.Poll{}
	}

	respondData(c, http.StatusOK, gin.H{"results": len(polls), "polls": polls})
}

// Fetch 返回存在性守卫挂载的文档，自身不再查询 (GET /api/v1/polls/:id)
func (h *PollHandler) Fetch(c *gin.Context) {
	poll, ok := documentPoll(c)
	if !ok {
		fail(c, apperror.New("Document Not Found!", http.StatusNotFound))
		return
	}

	respondData(c, http.StatusOK, gin.H{"poll": poll})
}

type updatePollRequest struct {
	Title   *string     `json:"title"`
	Options interface{} `json:"options"`
}

// Update 部分更新 title/options (PATCH /api/v1/polls/:id)
// options 数量变化时由模型层把 votes 重置为等长零数组
func (h *PollHandler) Update(c *gin.Context) {
	poll, ok := documentPoll(c)
	if !ok {
		fail(c, apperror.New("Document Not Found!", http.StatusNotFound))
		return
	}

	var req updatePollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apperror.New("Invalid request body", http.StatusBadRequest))
		return
	}

	if req.Title != nil {
		poll.Title = utils.SanitizeText(strings.TrimSpace(*req.Title))
	}
	if req.Options != nil {
		options, err := normalizeOptionsField(req.Options)
		if err != nil {
			fail(c, err)
			return
		}
		for i := range options {
			options[i] = utils.SanitizeText(options[i])
		}
		poll.Options = pq.StringArray(options)
	}

	if err := h.polls.Update(c.Request.Context(), poll); err != nil {
		fail(c, err)
		return
	}

	respondData(c, http.StatusOK, gin.H{"poll": poll})
}

// Delete 删除投票 (DELETE /api/v1/polls/:id)
// 存在性守卫在前，缺失 id 是 404 而非静默成功
func (h *PollHandler) Delete(c *gin.Context) {
	poll, ok := documentPoll(c)
	if !ok {
		fail(c, apperror.New("Document Not Found!", http.StatusNotFound))
		return
	}

	if err := h.polls.Delete(c.Request.Context(), poll.Pid); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": nil})
}

type voteRequest struct {
	OptionIndex json.Number `json:"optionIndex"`
}

// Vote 对指定选项计数 +1 (PATCH /api/v1/polls/:id/vote)
// 自增在数据库侧原子完成，并发投票不丢计数
func (h *PollHandler) Vote(c *gin.Context) {
	var req voteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apperror.New("Invalid option index.", http.StatusBadRequest))
		return
	}
	index64, err := req.OptionIndex.Int64()
	if err != nil {
		// 缺失、字符串、小数都拒绝
		fail(c, apperror.New("Invalid option index.", http.StatusBadRequest))
		return
	}
	index := int(index64)

	poll, err := h.polls.FindByPid(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fail(c, apperror.New("Poll not found!", http.StatusNotFound))
			return
		}
		fail(c, err)
		return
	}

	if index < 0 || index >= len(poll.Options) {
		fail(c, apperror.New("Option index out of bounds.", http.StatusBadRequest))
		return
	}

	updated, err := h.polls.IncrementVote(c.Request.Context(), poll.Pid, index)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fail(c, apperror.New("Poll not found!", http.StatusNotFound))
			return
		}
		fail(c, err)
		return
	}

	respondData(c, http.StatusOK, gin.H{"poll": updated})
}

// normalizeOptionsField JSON 中的 options 同样接受数组或逗号分隔字符串
func normalizeOptionsField(v interface{}) ([]string, error) {
	switch val := v.(type) {
	case string:
		return utils.ParseOptions([]string{val}), nil
	case []interface{}:
		raw := make([]string, 0, len(val))
		for _, item := range val {
			s, ok := item.(string)
			if !ok {
				return nil, apperror.New("Options must be strings", http.StatusBadRequest)
			}
			raw = append(raw, s)
		}
		return utils.ParseOptions(raw), nil
	}
	return nil, apperror.New("Options must be an array or a comma separated string", http.StatusBadRequest)
}
