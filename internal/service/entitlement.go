package service

import (
	"context"
	"fmt"
	"time"

	"TandaPredict/internal/interfaces"
	"TandaPredict/internal/model"
	"TandaPredict/internal/repository"

	"github.com/sirupsen/logrus"
)

// TrialDays 一次性试用时长（天）
const TrialDays = 30

// Entitlement 用户档位与配额的解析结果
type Entitlement struct {
	Tier           model.Tier `json:"tier"`
	IsTrial        bool       `json:"isTrial"`
	TrialEndsAt    *time.Time `json:"trialEndsAt"`
	MaxSpins       int        `json:"maxSpins"` // -1 = 不限
	NumbersPerSpin int        `json:"numbersPerSpin"`
	HasMLAccess    bool       `json:"hasMLAccess"`
}

// EntitlementService 档位解析与自动开通。
// 判定顺序：有效订阅 > 互助会会员自动升级 > 一次性30天试用
type EntitlementService struct {
	subRepo   repository.SubscriptionRepository
	publisher interfaces.Publisher
	logger    *logrus.Logger
}

// NewEntitlementService 创建 EntitlementService 实例
func NewEntitlementService(
	subRepo repository.SubscriptionRepository,
	publisher interfaces.Publisher,
	logger *logrus.Logger,
) *EntitlementService {
	return &EntitlementService{
		subRepo:   subRepo,
		publisher: publisher,
		logger:    logger,
	}
}

// Resolve 解析用户当前档位，必要时自动开通（条件写，天然抗并发竞态）
func (s *EntitlementService) Resolve(ctx context.Context, userID uint64) (*Entitlement, error) {
	now := time.Now()

	// 1. 已有未过期订阅 → 直接按其档位
	sub, err := s.subRepo.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("查询订阅失败: %w", err)
	}
	if sub != nil && sub.IsActive(now) {
		return entitlementFor(sub), nil
	}

	// 2. 互助会在会成员 → 自动升级premium（绝不覆盖付费行）
	isMember, err := s.subRepo.IsActiveGroupMember(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("查询会员资格失败: %w", err)
	}
	if isMember {
		provision := &model.Subscription{
			UserID:   userID,
			Tier:     model.TierPremium,
			Provider: model.ProviderGroupMember,
		}
		if err := s.subRepo.UpsertUnlessPaid(ctx, provision); err != nil {
			return nil, fmt.Errorf("会员自动升级写入失败: %w", err)
		}
		s.notify(ctx, userID, "互助会会员福利已激活",
			fmt.Sprintf("用户%d作为在会成员自动获得premium档位", userID))
		return entitlementFor(provision), nil
	}

	// 3. 一次性30天premium试用（insert if absent，重复调用不重置时钟）
	trialEnds := now.AddDate(0, 0, TrialDays)
	trial := &model.Subscription{
		UserID:    userID,
		Tier:      model.TierPremium,
		Provider:  model.ProviderTrial,
		ExpiresAt: &trialEnds,
	}
	created, err := s.subRepo.InsertIfAbsent(ctx, trial)
	if err != nil {
		return nil, fmt.Errorf("开通试用失败: %w", err)
	}
	if created {
		s.notify(ctx, userID, "欢迎体验预测功能",
			fmt.Sprintf("用户%d获得%d天premium试用", userID, TrialDays))
		return entitlementFor(trial), nil
	}

	// insert被跳过：已有行（过期试用或并发解析者刚写入的行），以库里那条为准
	sub, err = s.subRepo.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("查询订阅失败: %w", err)
	}
	if sub != nil && sub.IsActive(now) {
		return entitlementFor(sub), nil
	}
	// 试用已用完且到期 → free
	return entitlementFor(&model.Subscription{Tier: model.TierFree}), nil
}

// notify 欢迎/升级通知尽力而为，失败绝不影响解析结果
func (s *EntitlementService) notify(ctx context.Context, userID uint64, title, description string) {
	if s.publisher == nil {
		return
	}
	event := &model.FeedEvent{
		Type:        model.FeedEventSubscription,
		Title:       title,
		Description: description,
		ActionURL:   "/lottery",
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Warn("发送订阅通知失败")
	}
}

// entitlementFor 档位到配额的映射：
// diamond→不限次/5号/ML；premium→每日10次/3号；free→每日3次/1号
func entitlementFor(sub *model.Subscription) *Entitlement {
	ent := &Entitlement{
		Tier:           sub.Tier,
		MaxSpins:       sub.Tier.MaxSpinsPerDay(),
		NumbersPerSpin: sub.Tier.NumbersPerSpin(),
		HasMLAccess:    sub.Tier == model.TierDiamond,
	}
	if sub.Provider == model.ProviderTrial {
		ent.IsTrial = true
		ent.TrialEndsAt = sub.ExpiresAt
	}
	return ent
}
