package guestcart

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/himart-next/internal/cache"
)

// RedisStore 游客购物车的 Redis 实现
// 依赖键级 TTL 做过期，PurgeStale 无需额外扫描。
type RedisStore struct {
	ttl time.Duration
}

// NewRedisStore 创建 Redis 存储
func NewRedisStore(ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &RedisStore{ttl: ttl}
}

func redisCartKey(visitorID string) string {
	return fmt.Sprintf("guestcart:%s", visitorID)
}

// Load 读取访客购物车负载
func (s *RedisStore) Load(ctx context.Context, visitorID string) (string, bool, error) {
	if strings.TrimSpace(visitorID) == "" {
		return "", false, ErrVisitorRequired
	}
	var payload string
	hit, err := cache.GetJSON(ctx, redisCartKey(visitorID), &payload)
	if err != nil || !hit {
		return "", hit, err
	}
	return payload, true, nil
}

// Save 整写访客购物车负载并续期
func (s *RedisStore) Save(ctx context.Context, visitorID, payload string) error {
	if strings.TrimSpace(visitorID) == "" {
		return ErrVisitorRequired
	}
	return cache.SetJSON(ctx, redisCartKey(visitorID), payload, s.ttl)
}

// Delete 删除访客购物车
func (s *RedisStore) Delete(ctx context.Context, visitorID string) error {
	if strings.TrimSpace(visitorID) == "" {
		return ErrVisitorRequired
	}
	return cache.Del(ctx, redisCartKey(visitorID))
}

// PurgeStale TTL 已覆盖过期清理
func (s *RedisStore) PurgeStale(ctx context.Context, before time.Time) (int64, error) {
	return 0, nil
}
