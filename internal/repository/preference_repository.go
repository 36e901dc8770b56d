package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/himart-next/internal/models"

	"gorm.io/gorm"
)

// PreferenceRepository 访客偏好数据访问接口
type PreferenceRepository interface {
	Get(ctx context.Context, visitorID, key string) (string, bool, error)
	Set(ctx context.Context, visitorID, key, value string) error
	Delete(ctx context.Context, visitorID, key string) error
}

// GormPreferenceRepository GORM 实现
type GormPreferenceRepository struct {
	db *gorm.DB
}

// NewPreferenceRepository 创建偏好仓库
func NewPreferenceRepository(db *gorm.DB) *GormPreferenceRepository {
	return &GormPreferenceRepository{db: db}
}

// Get 读取偏好值
func (r *GormPreferenceRepository) Get(ctx context.Context, visitorID, key string) (string, bool, error) {
	if strings.TrimSpace(visitorID) == "" || strings.TrimSpace(key) == "" {
		return "", false, nil
	}
	var pref models.VisitorPreference
	err := r.db.WithContext(ctx).Where("visitor_id = ? AND key = ?", visitorID, key).First(&pref).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return pref.Value, true, nil
}

// Set 写入偏好值
func (r *GormPreferenceRepository) Set(ctx context.Context, visitorID, key, value string) error {
	if strings.TrimSpace(visitorID) == "" || strings.TrimSpace(key) == "" {
		return nil
	}
	var existing models.VisitorPreference
	err := r.db.WithContext(ctx).Where("visitor_id = ? AND key = ?", visitorID, key).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.db.WithContext(ctx).Create(&models.VisitorPreference{
			VisitorID: visitorID,
			Key:       key,
			Value:     value,
		}).Error
	}
	if err != nil {
		return err
	}
	updates := map[string]interface{}{
		"value":      value,
		"updated_at": time.Now(),
	}
	return r.db.WithContext(ctx).Model(&existing).Updates(updates).Error
}

// Delete 删除偏好值
func (r *GormPreferenceRepository) Delete(ctx context.Context, visitorID, key string) error {
	if strings.TrimSpace(visitorID) == "" || strings.TrimSpace(key) == "" {
		return nil
	}
	return r.db.WithContext(ctx).Where("visitor_id = ? AND key = ?", visitorID, key).Delete(&models.VisitorPreference{}).Error
}
