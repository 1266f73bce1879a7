package service

import (
	"context"
	"strings"
	"time"

	"recipe-hub/internal/core/ai/cache"
	"recipe-hub/internal/core/ai/provider"
	"recipe-hub/internal/infrastructure/config"
	"recipe-hub/internal/pkg/common"
)

// Response AI 回應結構
type Response struct {
	Content string
}

// Service AI 服務：提供者呼叫 + 回應快取
type Service struct {
	config       *config.Config
	provider     provider.Provider
	cacheManager *cache.CacheManager
}

// NewService 創建 AI 服務
func NewService(cfg *config.Config, p provider.Provider, cacheManager *cache.CacheManager) *Service {
	return &Service{
		config:       cfg,
		provider:     p,
		cacheManager: cacheManager,
	}
}

// ProcessRequest 統一對外方法
func (s *Service) ProcessRequest(ctx context.Context, prompt string) (*Response, error) {
	// 統一 prompt 格式，去除多餘空白，確保快取 key 一致
	cacheKey := strings.Join(strings.Fields(prompt), " ")

	// 檢查緩存
	if s.cacheManager != nil {
		if val, err := s.cacheManager.Get(ctx, cacheKey); err == nil && val != "" {
			return &Response{Content: val}, nil
		}
	}

	start := time.Now()
	resp, err := s.provider.Generate(ctx, &provider.Request{
		Messages: []provider.Message{
			{Role: "user", Content: prompt},
		},
		MaxTokens:   s.config.OpenRouter.MaxTokens,
		Temperature: s.config.OpenRouter.Temperature,
	})
	common.LogAICall(time.Since(start), err, "")
	if err != nil {
		return nil, err
	}

	if s.cacheManager != nil {
		_ = s.cacheManager.Set(ctx, cacheKey, resp.Content)
	}

	return &Response{Content: resp.Content}, nil
}
