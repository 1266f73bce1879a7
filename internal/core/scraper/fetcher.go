package scraper

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/url"

	"recipe-hub/internal/infrastructure/config"
	"recipe-hub/internal/pkg/common"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// PageFetcher 抓取外部頁面並解析為 DOM，方便測試時替換為假實作
type PageFetcher interface {
	Fetch(ctx context.Context, target string) (*goquery.Document, error)
}

// Fetcher 透過 resty 抓取第三方食譜頁面，帶明確的逾時設定
type Fetcher struct {
	client       *resty.Client
	maxBodyBytes int64
}

// NewFetcher 創建頁面抓取器
func NewFetcher(cfg *config.Config) *Fetcher {
	client := resty.New().
		SetTimeout(cfg.Fetch.Timeout).
		SetHeader("User-Agent", cfg.Fetch.UserAgent).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(5))

	return &Fetcher{
		client:       client,
		maxBodyBytes: cfg.Fetch.MaxBodyBytes,
	}
}

// Fetch 抓取頁面並分類失敗原因：逾時、HTTP 狀態碼、或一般網路錯誤
func (f *Fetcher) Fetch(ctx context.Context, target string) (*goquery.Document, error) {
	resp, err := f.client.R().
		SetContext(ctx).
		Get(target)

	if err != nil {
		cause := common.FetchCauseNetwork
		var uerr *url.Error
		if errors.Is(err, context.DeadlineExceeded) ||
			(errors.As(err, &uerr) && uerr.Timeout()) {
			cause = common.FetchCauseTimeout
		}
		common.LogError("頁面抓取失敗",
			zap.String("url", target),
			zap.String("cause", string(cause)),
			zap.Error(err),
		)
		return nil, &common.UpstreamFetchError{Cause: cause, URL: target, Err: err}
	}

	if resp.StatusCode() != http.StatusOK {
		common.LogError("頁面回應非 200",
			zap.String("url", target),
			zap.Int("status_code", resp.StatusCode()),
		)
		return nil, &common.UpstreamFetchError{
			Cause:      common.FetchCauseStatus,
			StatusCode: resp.StatusCode(),
			URL:        target,
		}
	}

	if int64(len(resp.Body())) > f.maxBodyBytes {
		common.LogError("頁面內容超過大小限制",
			zap.String("url", target),
			zap.Int("body_bytes", len(resp.Body())),
			zap.Int64("max_body_bytes", f.maxBodyBytes),
		)
		return nil, &common.UpstreamFetchError{Cause: common.FetchCauseNetwork, URL: target}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body()))
	if err != nil {
		return nil, &common.UpstreamFetchError{Cause: common.FetchCauseNetwork, URL: target, Err: err}
	}

	common.LogInfo("頁面抓取成功",
		zap.String("url", target),
		zap.Int("body_bytes", len(resp.Body())),
	)

	return doc, nil
}
