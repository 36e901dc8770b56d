package guestcart

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/himart-next/internal/constants"
	"github.com/himart-next/internal/models"

	"gorm.io/gorm"
)

// GormStore 游客购物车的数据库实现
type GormStore struct {
	db *gorm.DB
}

// NewGormStore 创建数据库存储
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Load 读取访客购物车负载
func (s *GormStore) Load(ctx context.Context, visitorID string) (string, bool, error) {
	if strings.TrimSpace(visitorID) == "" {
		return "", false, ErrVisitorRequired
	}
	var record models.GuestCartRecord
	err := s.db.WithContext(ctx).Where("visitor_id = ?", visitorID).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return record.Payload, true, nil
}

// Save 整写访客购物车负载
func (s *GormStore) Save(ctx context.Context, visitorID, payload string) error {
	if strings.TrimSpace(visitorID) == "" {
		return ErrVisitorRequired
	}
	var existing models.GuestCartRecord
	err := s.db.WithContext(ctx).Where("visitor_id = ?", visitorID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return s.db.WithContext(ctx).Create(&models.GuestCartRecord{
			VisitorID:  visitorID,
			StorageKey: constants.GuestCartStorageKey,
			Payload:    payload,
		}).Error
	}
	if err != nil {
		return err
	}
	updates := map[string]interface{}{
		"payload":    payload,
		"updated_at": time.Now(),
	}
	return s.db.WithContext(ctx).Model(&existing).Updates(updates).Error
}

// Delete 删除访客购物车
func (s *GormStore) Delete(ctx context.Context, visitorID string) error {
	if strings.TrimSpace(visitorID) == "" {
		return ErrVisitorRequired
	}
	return s.db.WithContext(ctx).Where("visitor_id = ?", visitorID).Delete(&models.GuestCartRecord{}).Error
}

// PurgeStale 清理长期未更新的游客购物车
func (s *GormStore) PurgeStale(ctx context.Context, before time.Time) (int64, error) {
	result := s.db.WithContext(ctx).Where("updated_at < ?", before).Delete(&models.GuestCartRecord{})
	return result.RowsAffected, result.Error
}
