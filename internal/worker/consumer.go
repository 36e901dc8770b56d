package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/himart-next/internal/guestcart"
	"github.com/himart-next/internal/logger"
	"github.com/himart-next/internal/models"
	"github.com/himart-next/internal/provider"
	"github.com/himart-next/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TypeGuestCartPurge, c.handleGuestCartPurge)
}

// handleGuestCartPurge 清理长期未更新的游客购物车
// Redis 后端靠键 TTL 过期，这里兜底清理数据库存量记录。
func (c *Consumer) handleGuestCartPurge(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_guest_cart_purge_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.GuestCartPurgePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_guest_cart_purge_unmarshal_failed", "error", err)
		return err
	}

	days := payload.RetentionDays
	if days <= 0 && c.Config != nil {
		days = c.Config.Cart.GuestRetentionDays
	}
	if days <= 0 {
		days = 30
	}
	before := time.Now().AddDate(0, 0, -days)

	store := guestcart.NewGormStore(models.DB)
	purged, err := store.PurgeStale(ctx, before)
	if err != nil {
		logger.Warnw("worker_guest_cart_purge_failed",
			"retention_days", days,
			"error", err,
		)
		return err
	}
	logger.Infow("worker_guest_cart_purge_done",
		"retention_days", days,
		"purged", purged,
	)
	return nil
}
