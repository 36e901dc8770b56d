package session

import (
	"context"
	"time"

	"github.com/himart-next/internal/cache"
	"github.com/himart-next/internal/config"
	"github.com/himart-next/internal/constants"
	"github.com/himart-next/internal/logger"
	"github.com/himart-next/internal/models"
	"github.com/himart-next/internal/upstream"
)

// Manager 会话解析器
// 解析结果按认证 Cookie 摘要缓存，客户端按 RefreshInterval 周期性重拉。
type Manager struct {
	upstream        *upstream.Client
	cacheTTL        time.Duration
	refreshInterval time.Duration
}

// NewManager 创建会话解析器
func NewManager(client *upstream.Client, cfg config.SessionConfig) *Manager {
	cacheTTL := time.Duration(cfg.CacheTTLSeconds) * time.Second
	if cacheTTL <= 0 {
		cacheTTL = 30 * time.Second
	}
	refreshInterval := time.Duration(cfg.RefreshIntervalSeconds) * time.Second
	if refreshInterval <= 0 {
		refreshInterval = time.Minute
	}
	return &Manager{
		upstream:        client,
		cacheTTL:        cacheTTL,
		refreshInterval: refreshInterval,
	}
}

// RefreshInterval 返回客户端重拉会话的建议间隔
func (m *Manager) RefreshInterval() time.Duration {
	return m.refreshInterval
}

// Snapshot 解析当前会话
// 远端 401 归为游客态；远端不可达时保持 loading 态并返回错误。
func (m *Manager) Snapshot(ctx context.Context, cookie string) (models.SessionSnapshot, error) {
	digest := cache.SessionDigest(cookie)
	if state, hit, err := cache.GetSessionState(ctx, digest); err == nil && hit {
		return state.Snapshot, nil
	} else if err != nil {
		logger.Warnw("session_cache_read_failed", "error", err)
	}

	snapshot, err := m.resolve(ctx, cookie)
	if err != nil {
		return snapshot, err
	}
	if err := cache.SetSessionState(ctx, digest, snapshot, m.cacheTTL); err != nil {
		logger.Warnw("session_cache_write_failed", "error", err)
	}
	return snapshot, nil
}

// SellerSnapshot 解析卖家会话（不走缓存，卖家页面低频访问）
func (m *Manager) SellerSnapshot(ctx context.Context, cookie string) (models.SessionSnapshot, error) {
	remote, err := m.upstream.GetSellerSession(ctx, cookie)
	if err != nil {
		if upstream.IsUnauthorized(err) {
			return guestSnapshot(), nil
		}
		return loadingSnapshot(), err
	}
	return authenticatedSnapshot(remote), nil
}

// Invalidate 清除会话缓存（登出后调用）
func (m *Manager) Invalidate(ctx context.Context, cookie string) {
	if err := cache.DelSessionState(ctx, cache.SessionDigest(cookie)); err != nil {
		logger.Warnw("session_cache_del_failed", "error", err)
	}
}

func (m *Manager) resolve(ctx context.Context, cookie string) (models.SessionSnapshot, error) {
	remote, err := m.upstream.GetSession(ctx, cookie)
	if err != nil {
		if upstream.IsUnauthorized(err) {
			return guestSnapshot(), nil
		}
		return loadingSnapshot(), err
	}
	return authenticatedSnapshot(remote), nil
}

func authenticatedSnapshot(remote *models.Session) models.SessionSnapshot {
	if remote == nil || remote.User == nil {
		return guestSnapshot()
	}
	return models.SessionSnapshot{
		State:   constants.SessionStateAuthenticated,
		Session: remote,
	}
}

func guestSnapshot() models.SessionSnapshot {
	return models.SessionSnapshot{State: constants.SessionStateGuest}
}

func loadingSnapshot() models.SessionSnapshot {
	return models.SessionSnapshot{State: constants.SessionStateLoading}
}
