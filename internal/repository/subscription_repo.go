package repository

import (
	"context"
	"time"

	"TandaPredict/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SubscriptionRepository 订阅仓储。自动开通必须用条件写（insert if absent /
// update only if provider='trial'）保证并发解析同一用户时不互相踩踏
type SubscriptionRepository interface {
	// Get 用户当前订阅行（可能已过期），无记录返回nil
	Get(ctx context.Context, userID uint64) (*model.Subscription, error)
	// InsertIfAbsent 仅当该用户无任何订阅行时插入，返回是否真的插入了
	InsertIfAbsent(ctx context.Context, sub *model.Subscription) (bool, error)
	// UpsertUnlessPaid 插入或覆盖订阅行，但已有行来源非 trial 时不动它
	// （group_member 自动升级绝不允许覆盖付费订阅）
	UpsertUnlessPaid(ctx context.Context, sub *model.Subscription) error
	// IsActiveGroupMember 用户是否是任一未删除互助会的在会成员
	IsActiveGroupMember(ctx context.Context, userID uint64) (bool, error)
}

type subscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository 创建 SubscriptionRepository 实例
func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) Get(ctx context.Context, userID uint64) (*model.Subscription, error) {
	var sub model.Subscription
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&sub).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &sub, nil
}

// InsertIfAbsent ON CONFLICT DO NOTHING，靠 RowsAffected 区分是否插入
// 重复调用不会重置既有试用的时钟
func (r *subscriptionRepository) InsertIfAbsent(ctx context.Context, sub *model.Subscription) (bool, error) {
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(sub)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// UpsertUnlessPaid DO UPDATE 带 WHERE provider='trial'，付费行原样保留
func (r *subscriptionRepository) UpsertUnlessPaid(ctx context.Context, sub *model.Subscription) error {
	sub.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"tier":       sub.Tier,
			"provider":   sub.Provider,
			"expires_at": sub.ExpiresAt,
			"updated_at": sub.UpdatedAt,
		}),
		Where: clause.Where{Exprs: []clause.Expression{
			gorm.Expr("subscriptions.provider = ?", model.ProviderTrial),
		}},
	}).Create(sub).Error
}

func (r *subscriptionRepository) IsActiveGroupMember(ctx context.Context, userID uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.GroupMember{}).
		Joins("JOIN tanda_groups ON tanda_groups.id = group_members.group_id").
		Where("group_members.user_id = ? AND group_members.is_active = ?", userID, true).
		Where("tanda_groups.deleted_at IS NULL").
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
