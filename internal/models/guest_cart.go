package models

import (
	"time"
)

// GuestCartRecord 游客购物车持久化记录
// Payload 为整份购物车的 JSON 序列化结果，按访客整读整写（last-writer-wins）。
type GuestCartRecord struct {
	ID         uint      `gorm:"primarykey" json:"id"`                          // 主键
	VisitorID  string    `gorm:"uniqueIndex;not null" json:"visitor_id"`        // 访客标识
	StorageKey string    `gorm:"type:varchar(64);not null" json:"storage_key"`  // 逻辑存储键（guest_cart）
	Payload    string    `gorm:"type:text" json:"payload"`                      // 序列化的行数据
	CreatedAt  time.Time `gorm:"index" json:"created_at"`                       // 创建时间
	UpdatedAt  time.Time `gorm:"index" json:"updated_at"`                       // 更新时间（清理任务依据）
}

// TableName 指定表名
func (GuestCartRecord) TableName() string {
	return "guest_carts"
}

// VisitorPreference 访客偏好记录（如深色模式）
type VisitorPreference struct {
	ID        uint      `gorm:"primarykey" json:"id"`                                       // 主键
	VisitorID string    `gorm:"not null;uniqueIndex:idx_pref_visitor_key" json:"visitor_id"` // 访客标识
	Key       string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_pref_visitor_key" json:"key"`
	Value     string    `gorm:"type:varchar(255)" json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName 指定表名
func (VisitorPreference) TableName() string {
	return "visitor_preferences"
}
