package repository

import (
	"context"
	"fmt"

	"TandaPredict/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FeedRepository 动态流事件仓储（平台动态页的数据入口）
type FeedRepository interface {
	CreateFeedEvent(ctx context.Context, event *model.FeedEvent) error
}

type feedRepository struct {
	db *gorm.DB
}

// NewFeedRepository 创建 FeedRepository 实例
func NewFeedRepository(db *gorm.DB) FeedRepository {
	return &feedRepository{db: db}
}

func (r *feedRepository) CreateFeedEvent(ctx context.Context, event *model.FeedEvent) error {
	if event.EventUUID == "" {
		event.EventUUID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("保存动态事件失败: %w", err)
	}
	return nil
}
