package imagehost

import (
	"context"
	"fmt"
	"net/http"

	"recipe-hub/internal/infrastructure/config"
	"recipe-hub/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Rehoster 圖片轉存服務，方便測試時替換為假實作
type Rehoster interface {
	Rehost(ctx context.Context, sourceURL string) (string, error)
}

// Client 圖片轉存客戶端：把第三方圖片網址交給轉存服務，換回穩定網址
type Client struct {
	client   *resty.Client
	endpoint string
	enabled  bool
}

type rehostRequest struct {
	SourceURL string `json:"source_url"`
}

type rehostResponse struct {
	URL string `json:"url"`
}

// NewClient 創建圖片轉存客戶端
func NewClient(cfg *config.Config) *Client {
	client := resty.New().
		SetTimeout(cfg.ImageHost.Timeout).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.ImageHost.APIKey))

	return &Client{
		client:   client,
		endpoint: cfg.ImageHost.Endpoint,
		enabled:  cfg.ImageHost.Enabled,
	}
}

// Rehost 轉存一張圖片。失敗時回傳 SideEffectError；呼叫端必須把它視為非致命。
// 服務未啟用時原樣回傳來源網址。
func (c *Client) Rehost(ctx context.Context, sourceURL string) (string, error) {
	if !c.enabled {
		return sourceURL, nil
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(rehostRequest{SourceURL: sourceURL}).
		SetResult(&rehostResponse{}).
		Post(c.endpoint)

	if err != nil {
		return "", &common.SideEffectError{Op: "image_rehost", Err: err}
	}

	if resp.StatusCode() != http.StatusOK {
		return "", &common.SideEffectError{
			Op:  "image_rehost",
			Err: fmt.Errorf("image host returned status %d", resp.StatusCode()),
		}
	}

	result, ok := resp.Result().(*rehostResponse)
	if !ok || result.URL == "" {
		return "", &common.SideEffectError{
			Op:  "image_rehost",
			Err: fmt.Errorf("image host returned empty url"),
		}
	}

	common.LogInfo("圖片轉存成功",
		zap.String("source_url", sourceURL),
		zap.String("hosted_url", result.URL),
	)

	return result.URL, nil
}
