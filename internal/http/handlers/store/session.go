package store

import (
	"github.com/himart-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetSession 解析当前会话
// 远端 401 归为游客态；远端不可达返回错误，客户端保持挂起并稍后重试。
func (h *Handler) GetSession(c *gin.Context) {
	snapshot, err := h.SessionManager.Snapshot(c.Request.Context(), cookieHeader(c))
	if err != nil {
		respondUpstreamError(c, err, "error.session_fetch_failed")
		return
	}
	response.Success(c, gin.H{
		"state":                  snapshot.State,
		"session":                snapshot.Session,
		"refreshIntervalSeconds": int(h.SessionManager.RefreshInterval().Seconds()),
	})
}

// Health 服务健康检查（含远端连通性）
func (h *Handler) Health(c *gin.Context) {
	upstreamOK := h.Upstream.Ping(c.Request.Context()) == nil
	response.Success(c, gin.H{
		"status":   "ok",
		"upstream": upstreamOK,
	})
}
