package store

import (
	"strings"

	"github.com/himart-next/internal/guard"
	"github.com/himart-next/internal/http/response"
	"github.com/himart-next/internal/logger"
	"github.com/himart-next/internal/models"

	"github.com/gin-gonic/gin"
)

// GetPageState 路由守卫判定
// 连通性探测失败时直接返回 connection_error，跳过会话解析。
func (h *Handler) GetPageState(c *gin.Context) {
	path := strings.TrimSpace(c.Query("path"))
	if path == "" {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	ctx := c.Request.Context()
	connected := true
	if err := h.Upstream.Ping(ctx); err != nil {
		logger.Warnw("page_state_ping_failed", "error", err)
		connected = false
	}

	snapshot := models.SessionSnapshot{}
	if connected {
		var err error
		snapshot, err = h.SessionManager.Snapshot(ctx, cookieHeader(c))
		if err != nil {
			// 探测可达但会话解析失败，维持 loading 态等待客户端重试
			logger.Warnw("page_state_session_failed", "error", err)
		}
	}

	response.Success(c, guard.Evaluate(connected, snapshot, path))
}
