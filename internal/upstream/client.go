package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/himart-next/internal/config"
	"github.com/himart-next/internal/logger"
)

// Client 远端商城 API 客户端
// 所有带会话语义的调用透传浏览器 Cookie，本服务不持有任何用户凭证。
type Client struct {
	baseURL     string
	httpClient  *http.Client
	pingTimeout time.Duration
}

// NewClient 创建上游客户端
func NewClient(cfg *config.UpstreamConfig) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("upstream 配置缺失")
	}
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("upstream.base_url 未配置")
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("upstream.base_url 非法: %w", err)
	}
	timeout := time.Duration(cfg.TimeoutMS) * time.Millisecond
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	pingTimeout := time.Duration(cfg.PingTimeoutMS) * time.Millisecond
	if pingTimeout <= 0 {
		pingTimeout = 2 * time.Second
	}
	return &Client{
		baseURL:     base,
		httpClient:  &http.Client{Timeout: timeout},
		pingTimeout: pingTimeout,
	}, nil
}

// BaseURL 返回远端 API 地址
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Ping 探测远端连通性
// 任意 HTTP 响应都视为可达，只有网络层失败才算不可达。
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.pingTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.baseURL+"/", nil)
	if err != nil {
		return newError("ping", KindUnreachable, 0, err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return newError("ping", KindUnreachable, 0, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 1024))
	return nil
}

// ProxyResult 透传调用的结果（原始响应体 + 需回写浏览器的 Set-Cookie）
type ProxyResult struct {
	Status     int
	Body       json.RawMessage
	SetCookies []string
}

type request struct {
	op     string
	method string
	path   string
	query  url.Values
	cookie string
	body   interface{}
}

// do 发起上游请求并解码 JSON 响应
func (c *Client) do(ctx context.Context, r request, out interface{}) error {
	result, err := c.doRaw(ctx, r)
	if err != nil {
		return err
	}
	if out == nil || len(result.Body) == 0 {
		return nil
	}
	if err := json.Unmarshal(result.Body, out); err != nil {
		return newError(r.op, KindDecode, result.Status, err)
	}
	return nil
}

// doRaw 发起上游请求，返回原始响应
func (c *Client) doRaw(ctx context.Context, r request) (*ProxyResult, error) {
	target := c.baseURL + r.path
	if len(r.query) > 0 {
		target += "?" + r.query.Encode()
	}

	var reader io.Reader
	if r.body != nil {
		payload, err := json.Marshal(r.body)
		if err != nil {
			return nil, newError(r.op, KindDecode, 0, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, target, reader)
	if err != nil {
		return nil, newError(r.op, KindUnreachable, 0, err)
	}
	req.Header.Set("Accept", "application/json")
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.cookie != "" {
		req.Header.Set("Cookie", r.cookie)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, newError(r.op, KindUnreachable, 0, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, newError(r.op, KindDecode, resp.StatusCode, err)
	}

	result := &ProxyResult{
		Status:     resp.StatusCode,
		Body:       raw,
		SetCookies: resp.Header.Values("Set-Cookie"),
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return result, nil
	case resp.StatusCode == http.StatusUnauthorized:
		return result, newError(r.op, KindUnauthorized, resp.StatusCode, nil)
	case resp.StatusCode == http.StatusNotFound:
		return result, newError(r.op, KindNotFound, resp.StatusCode, nil)
	default:
		logger.Warnw("upstream_non_2xx",
			"op", r.op,
			"status", resp.StatusCode,
		)
		return result, newError(r.op, KindTransient, resp.StatusCode, nil)
	}
}
