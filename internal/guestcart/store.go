package guestcart

import (
	"context"
	"errors"
	"time"
)

// Line 游客购物车行（与浏览器本地存储格式一致）
type Line struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// 购物车操作的业务错误
var (
	ErrProductRequired = errors.New("product id required")
	ErrQuantityInvalid = errors.New("quantity must be at least 1")
	ErrOutOfStock      = errors.New("product out of stock")
	ErrVisitorRequired = errors.New("visitor id required")
)

// Store 游客购物车底层存储
// 按访客整读整写原始负载，序列化格式由上层 Service 负责。
type Store interface {
	Load(ctx context.Context, visitorID string) (string, bool, error)
	Save(ctx context.Context, visitorID, payload string) error
	Delete(ctx context.Context, visitorID string) error
	PurgeStale(ctx context.Context, before time.Time) (int64, error)
}
