package store

import "github.com/himart-next/internal/provider"

// Handler 门店网关接口处理器入口
// 说明：该处理器服务浏览器侧 SPA，全部接口面向游客与买家/卖家会话。
type Handler struct {
	*provider.Container
}

// New 创建门店处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
