package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/himart-next/internal/models"
)

const defaultSessionStateTTL = 30 * time.Second

// SessionState 远端会话的服务端缓存快照
// 以浏览器转发的认证 Cookie 摘要为键，避免缓存串号。
type SessionState struct {
	Snapshot  models.SessionSnapshot `json:"snapshot"`
	UpdatedAt int64                  `json:"updated_at"`
}

// SessionDigest 计算认证 Cookie 的缓存键摘要
func SessionDigest(cookieHeader string) string {
	trimmed := strings.TrimSpace(cookieHeader)
	if trimmed == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(trimmed))
	return hex.EncodeToString(sum[:16])
}

func sessionStateKey(digest string) string {
	return fmt.Sprintf("session:state:%s", digest)
}

// GetSessionState 获取会话快照缓存
func GetSessionState(ctx context.Context, digest string) (*SessionState, bool, error) {
	if digest == "" {
		return nil, false, nil
	}
	var state SessionState
	hit, err := GetJSON(ctx, sessionStateKey(digest), &state)
	if err != nil || !hit {
		return nil, hit, err
	}
	return &state, true, nil
}

// SetSessionState 写入会话快照缓存
func SetSessionState(ctx context.Context, digest string, snapshot models.SessionSnapshot, ttl time.Duration) error {
	if digest == "" {
		return nil
	}
	if ttl <= 0 {
		ttl = defaultSessionStateTTL
	}
	state := SessionState{
		Snapshot:  snapshot,
		UpdatedAt: time.Now().Unix(),
	}
	return SetJSON(ctx, sessionStateKey(digest), state, ttl)
}

// DelSessionState 删除会话快照缓存（登出后调用）
func DelSessionState(ctx context.Context, digest string) error {
	if digest == "" {
		return nil
	}
	return Del(ctx, sessionStateKey(digest))
}
