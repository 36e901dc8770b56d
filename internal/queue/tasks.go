package queue

import (
	"encoding/json"

	"github.com/himart-next/internal/constants"

	"github.com/hibiken/asynq"
)

// TypeGuestCartPurge 游客购物车过期清理任务
const TypeGuestCartPurge = constants.TaskGuestCartPurge

// GuestCartPurgePayload 清理任务负载
type GuestCartPurgePayload struct {
	RetentionDays int `json:"retention_days"`
}

// NewGuestCartPurgeTask 构建清理任务
func NewGuestCartPurgeTask(payload GuestCartPurgePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeGuestCartPurge, data), nil
}
