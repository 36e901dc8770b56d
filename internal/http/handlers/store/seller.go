package store

import (
	"encoding/json"

	"github.com/himart-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetSellerSession 解析卖家会话
func (h *Handler) GetSellerSession(c *gin.Context) {
	snapshot, err := h.SessionManager.SellerSnapshot(c.Request.Context(), cookieHeader(c))
	if err != nil {
		respondUpstreamError(c, err, "error.session_fetch_failed")
		return
	}
	response.Success(c, gin.H{
		"state":   snapshot.State,
		"session": snapshot.Session,
	})
}

// GetSellerDashboard 透传卖家经营面板数据（依赖路由层卖家守卫）
func (h *Handler) GetSellerDashboard(c *gin.Context) {
	result, err := h.Upstream.GetSellerDashboard(c.Request.Context(), cookieHeader(c))
	if err != nil {
		respondUpstreamError(c, err, "error.session_fetch_failed")
		return
	}
	response.Success(c, json.RawMessage(result.Body))
}

// RegisterSeller 透传卖家注册请求
func (h *Handler) RegisterSeller(c *gin.Context) {
	var body json.RawMessage
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	result, err := h.Upstream.RegisterSeller(c.Request.Context(), cookieHeader(c), body)
	if err != nil {
		respondUpstreamError(c, err, "error.seller_register_failed")
		return
	}
	relaySetCookies(c, result.SetCookies)
	response.Success(c, json.RawMessage(result.Body))
}
