package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// OptimizeResult 压缩结果：托管 URL 与压缩后字节数
type OptimizeResult struct {
	URL  string
	Size int64
}

// ImageOptimizer 外部图片压缩服务
type ImageOptimizer interface {
	Optimize(ctx context.Context, image []byte) (*OptimizeResult, error)
}

// tinifyResponse TinyPNG shrink 接口响应结构
type tinifyResponse struct {
	Output struct {
		URL  string `json:"url"`
		Size int64  `json:"size"`
	} `json:"output"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

// TinifyService 调用 TinyPNG 压缩图片
type TinifyService struct {
	apiURL string
	apiKey string
	client *http.Client
}

// NewTinifyService 创建 TinifyService 实例
func NewTinifyService(apiURL, apiKey string) *TinifyService {
	return &TinifyService{
		apiURL: apiURL,
		apiKey: apiKey,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// Optimize 上传原始图片字节，返回托管 URL 与压缩后大小
// 失败时不产生任何副作用，由调用方决定是否落库
func (s *TinifyService) Optimize(ctx context.Context, image []byte) (*OptimizeResult, error) {
	if s.apiKey == "" {
		return nil, fmt.Errorf("TINYPNG_API_KEY 未配置")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewReader(image))
	if err != nil {
		return nil, fmt.Errorf("创建请求失败: %w", err)
	}

	req.Header.Set("Content-Type", "application/octet-stream")
	auth := base64.StdEncoding.EncodeToString([]byte("api:" + s.apiKey))
	req.Header.Set("Authorization", "Basic "+auth)

	// 发送请求
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("压缩请求失败: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("读取响应失败: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("图片压缩失败: status %d", resp.StatusCode)
	}

	var tr tinifyResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return nil, fmt.Errorf("解析响应失败: %w", err)
	}
	if tr.Output.URL == "" {
		return nil, fmt.Errorf("压缩服务返回异常: %s %s", tr.Error, tr.Message)
	}

	return &OptimizeResult{URL: tr.Output.URL, Size: tr.Output.Size}, nil
}
