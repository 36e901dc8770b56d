package guestcart

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/himart-next/internal/constants"
	"github.com/himart-next/internal/logger"
)

// Service 游客购物车服务
// 读-改-写全程持锁串行化，避免并发请求互相覆盖。
type Service struct {
	store      Store
	maxPerLine int
	mu         sync.Mutex
}

// NewService 创建游客购物车服务
func NewService(store Store, maxPerLine int) *Service {
	if maxPerLine <= 0 {
		maxPerLine = constants.DefaultMaxQuantityPerLine
	}
	return &Service{store: store, maxPerLine: maxPerLine}
}

// MaxPerLine 返回单行数量上限
func (s *Service) MaxPerLine() int {
	return s.maxPerLine
}

// Load 读取访客购物车行
// 负载损坏时重置为空并返回 recovered=true，调用方据此提示用户。
func (s *Service) Load(ctx context.Context, visitorID string) ([]Line, bool, error) {
	payload, found, err := s.store.Load(ctx, visitorID)
	if err != nil {
		return nil, false, err
	}
	if !found || strings.TrimSpace(payload) == "" {
		return []Line{}, false, nil
	}

	lines, ok := decodeLines(payload)
	if !ok {
		logger.Warnw("guest_cart_payload_corrupt",
			"visitor_id", visitorID,
			"payload_len", len(payload),
		)
		if err := s.store.Delete(ctx, visitorID); err != nil {
			return nil, false, err
		}
		return []Line{}, true, nil
	}
	return lines, false, nil
}

// Save 整写访客购物车行
func (s *Service) Save(ctx context.Context, visitorID string, lines []Line) error {
	payload, err := encodeLines(lines)
	if err != nil {
		return err
	}
	return s.store.Save(ctx, visitorID, payload)
}

// Upsert 添加或覆盖某行数量
// add 模式累加已有数量，set 模式直接覆盖；set 为 0 时等同删除。
// 结果数量按 [1, min(stock, maxPerLine)] 收敛，超出上限时静默截断。
func (s *Service) Upsert(ctx context.Context, visitorID, productID string, quantity int, mode string, stock int) ([]Line, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return nil, ErrProductRequired
	}
	if mode == constants.QuantityModeSet && quantity == 0 {
		return s.Remove(ctx, visitorID, productID)
	}
	if quantity < 1 {
		return nil, ErrQuantityInvalid
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	lines, _, err := s.Load(ctx, visitorID)
	if err != nil {
		return nil, err
	}

	target := quantity
	idx := indexOf(lines, productID)
	if mode == constants.QuantityModeAdd && idx >= 0 {
		target = lines[idx].Quantity + quantity
	}
	target = s.clamp(target, stock)

	if idx >= 0 {
		lines[idx].Quantity = target
	} else {
		lines = append(lines, Line{ProductID: productID, Quantity: target})
	}

	if err := s.Save(ctx, visitorID, lines); err != nil {
		return nil, err
	}
	return lines, nil
}

// Remove 删除某行
func (s *Service) Remove(ctx context.Context, visitorID, productID string) ([]Line, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return nil, ErrProductRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	lines, _, err := s.Load(ctx, visitorID)
	if err != nil {
		return nil, err
	}
	idx := indexOf(lines, productID)
	if idx < 0 {
		return lines, nil
	}
	lines = append(lines[:idx], lines[idx+1:]...)
	if err := s.Save(ctx, visitorID, lines); err != nil {
		return nil, err
	}
	return lines, nil
}

// Clear 清空访客购物车
func (s *Service) Clear(ctx context.Context, visitorID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Delete(ctx, visitorID)
}

// Count 统计购物车总件数
func (s *Service) Count(ctx context.Context, visitorID string) (int, error) {
	lines, _, err := s.Load(ctx, visitorID)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, line := range lines {
		total += line.Quantity
	}
	return total, nil
}

// PurgeStale 清理超出保留期的游客购物车
func (s *Service) PurgeStale(ctx context.Context, retention time.Duration) (int64, error) {
	if retention <= 0 {
		retention = 30 * 24 * time.Hour
	}
	return s.store.PurgeStale(ctx, time.Now().Add(-retention))
}

func (s *Service) clamp(quantity, stock int) int {
	limit := s.maxPerLine
	if stock > 0 && stock < limit {
		limit = stock
	}
	if quantity > limit {
		return limit
	}
	if quantity < 1 {
		return 1
	}
	return quantity
}

func indexOf(lines []Line, productID string) int {
	for i, line := range lines {
		if line.ProductID == productID {
			return i
		}
	}
	return -1
}

func decodeLines(payload string) ([]Line, bool) {
	var lines []Line
	if err := json.Unmarshal([]byte(payload), &lines); err != nil {
		return nil, false
	}
	cleaned := make([]Line, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line.ProductID) == "" || line.Quantity < 1 {
			continue
		}
		cleaned = append(cleaned, line)
	}
	return cleaned, true
}

func encodeLines(lines []Line) (string, error) {
	if lines == nil {
		lines = []Line{}
	}
	payload, err := json.Marshal(lines)
	if err != nil {
		return "", err
	}
	return string(payload), nil
}
