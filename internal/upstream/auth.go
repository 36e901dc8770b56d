package upstream

import (
	"context"
	"net/http"

	"github.com/himart-next/internal/models"
)

// GetSession 解析当前用户会话
// 401 表示游客，调用方据此降级，不视为故障。
func (c *Client) GetSession(ctx context.Context, cookie string) (*models.Session, error) {
	var session models.Session
	err := c.do(ctx, request{
		op:     "get_session",
		method: http.MethodGet,
		path:   "/auth/session",
		cookie: cookie,
	}, &session)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// Login 透传登录请求
func (c *Client) Login(ctx context.Context, cookie string, body interface{}) (*ProxyResult, error) {
	return c.doRaw(ctx, request{
		op:     "login",
		method: http.MethodPost,
		path:   "/auth/login",
		cookie: cookie,
		body:   body,
	})
}

// Register 透传注册请求
func (c *Client) Register(ctx context.Context, cookie string, body interface{}) (*ProxyResult, error) {
	return c.doRaw(ctx, request{
		op:     "register",
		method: http.MethodPost,
		path:   "/auth/register",
		cookie: cookie,
		body:   body,
	})
}

// Logout 透传登出请求
func (c *Client) Logout(ctx context.Context, cookie string) (*ProxyResult, error) {
	return c.doRaw(ctx, request{
		op:     "logout",
		method: http.MethodPost,
		path:   "/auth/logout",
		cookie: cookie,
	})
}

// GetSellerSession 解析卖家会话
func (c *Client) GetSellerSession(ctx context.Context, cookie string) (*models.Session, error) {
	var session models.Session
	err := c.do(ctx, request{
		op:     "get_seller_session",
		method: http.MethodGet,
		path:   "/seller/session",
		cookie: cookie,
	}, &session)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// RegisterSeller 透传卖家注册请求
func (c *Client) RegisterSeller(ctx context.Context, cookie string, body interface{}) (*ProxyResult, error) {
	return c.doRaw(ctx, request{
		op:     "register_seller",
		method: http.MethodPost,
		path:   "/seller/register",
		cookie: cookie,
		body:   body,
	})
}

// GetSellerDashboard 透传卖家经营面板数据
func (c *Client) GetSellerDashboard(ctx context.Context, cookie string) (*ProxyResult, error) {
	return c.doRaw(ctx, request{
		op:     "get_seller_dashboard",
		method: http.MethodGet,
		path:   "/seller/dashboard",
		cookie: cookie,
	})
}
