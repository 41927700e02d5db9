package upstream

import (
	"Brandscope/internal/api/config"
	"context"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://api.scrapecreators.com"

// Client ScrapeCreators 聚合 API 客户端，YouTube 与 TikTok 共用
// 带全局限速，批量同步时所有适配器调用共享同一令牌桶
type Client struct {
	http    *resty.Client
	limiter *rate.Limiter
}

func NewClient(cfg config.UpstreamConfig) *Client {
	base := cfg.BaseURL
	if base == "" {
		base = defaultBaseURL
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 20 * time.Second
	}

	client := resty.New().
		SetBaseURL(base).
		SetTimeout(timeout).
		SetHeader("x-api-key", cfg.ApiKey)

	return &Client{
		http:    client,
		limiter: rate.NewLimiter(rate.Limit(cfg.RatePerSecond), 1),
	}
}

// get 发起一次带限速的 GET 请求并把响应解码到 out
func (s *Client) get(ctx context.Context, path string, params map[string]string, out interface{}) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}

	resp, err := s.http.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetResult(out).
		Get(path)
	if err != nil {
		return errors.Wrap(ErrUpstream, err.Error())
	}
	if resp.IsError() {
		return classifyStatus(resp.StatusCode(), resp.String())
	}
	return nil
}

// classifyStatus 将上游状态码归入错误分类
func classifyStatus(code int, body string) error {
	switch {
	case code == 402:
		return ErrQuotaExceeded
	case code == 401 || code == 403:
		return ErrUnauthorized
	case code == 404:
		return ErrChannelNotFound
	default:
		if len(body) > 200 {
			body = body[:200]
		}
		return errors.Wrapf(ErrUpstream, "HTTP %d: %s", code, body)
	}
}
