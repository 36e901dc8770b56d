package store

import (
	"encoding/json"

	"github.com/himart-next/internal/http/response"
	"github.com/himart-next/internal/upstream"

	"github.com/gin-gonic/gin"
)

// Login 透传登录请求
// 凭证不在网关落地，远端 Set-Cookie 原样回写浏览器。
func (h *Handler) Login(c *gin.Context) {
	var body json.RawMessage
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	result, err := h.Upstream.Login(c.Request.Context(), cookieHeader(c), body)
	if err != nil {
		if upstream.IsUnauthorized(err) {
			respondError(c, response.CodeUnauthorized, "error.login_failed", nil)
			return
		}
		respondUpstreamError(c, err, "error.login_failed")
		return
	}

	// 会话身份变化，旧缓存作废
	h.SessionManager.Invalidate(c.Request.Context(), cookieHeader(c))
	relaySetCookies(c, result.SetCookies)
	response.Success(c, json.RawMessage(result.Body))
}

// Register 透传注册请求
func (h *Handler) Register(c *gin.Context) {
	var body json.RawMessage
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	result, err := h.Upstream.Register(c.Request.Context(), cookieHeader(c), body)
	if err != nil {
		respondUpstreamError(c, err, "error.register_failed")
		return
	}
	relaySetCookies(c, result.SetCookies)
	response.Success(c, json.RawMessage(result.Body))
}

// Logout 透传登出请求
// 无论远端结果如何都会丢弃本地会话缓存。
func (h *Handler) Logout(c *gin.Context) {
	result, err := h.Upstream.Logout(c.Request.Context(), cookieHeader(c))
	h.SessionManager.Invalidate(c.Request.Context(), cookieHeader(c))
	if err != nil {
		if upstream.IsUnauthorized(err) {
			// 会话已失效，视为登出成功
			response.Success(c, gin.H{"loggedOut": true})
			return
		}
		respondUpstreamError(c, err, "error.logout_failed")
		return
	}
	relaySetCookies(c, result.SetCookies)
	response.Success(c, gin.H{"loggedOut": true})
}
