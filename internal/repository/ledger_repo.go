package repository

import (
	"context"
	"fmt"

	"TandaPredict/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LedgerRepository 次数台账与预测记录仓储
type LedgerRepository interface {
	// SpinsUsed 某用户某日期键的已用次数，无记录视为0
	SpinsUsed(ctx context.Context, userID uint64, date string) (int, error)
	// IncrementSpin 原子自增 (user_id, date) 计数器。
	// 必须走存储层的 upsert-increment，不允许读改写，否则多端并发会丢更新
	IncrementSpin(ctx context.Context, userID uint64, date string) error
	// CreatePrediction 落预测记录，返回其UUID
	CreatePrediction(ctx context.Context, p *model.Prediction) (string, error)
	// SettlePrediction 结算任务回填实际结果（对外部回填任务暴露）
	SettlePrediction(ctx context.Context, predictionUUID string, actual int, wasCorrect bool) error
}

type ledgerRepository struct {
	db *gorm.DB
}

// NewLedgerRepository 创建 LedgerRepository 实例
func NewLedgerRepository(db *gorm.DB) LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) SpinsUsed(ctx context.Context, userID uint64, date string) (int, error) {
	var quota model.SpinQuota
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND quota_date = ?", userID, date).
		First(&quota).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return 0, nil
		}
		return 0, err
	}
	return quota.SpinsUsed, nil
}

// IncrementSpin ON CONFLICT ... DO UPDATE SET spins_used = spins_used + 1
func (r *ledgerRepository) IncrementSpin(ctx context.Context, userID uint64, date string) error {
	quota := &model.SpinQuota{UserID: userID, QuotaDate: date, SpinsUsed: 1}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "quota_date"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"spins_used": gorm.Expr("spin_quotas.spins_used + 1"),
		}),
	}).Create(quota).Error
}

func (r *ledgerRepository) CreatePrediction(ctx context.Context, p *model.Prediction) (string, error) {
	if p.PredictionUUID == "" {
		p.PredictionUUID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		return "", fmt.Errorf("保存预测记录失败: %w", err)
	}
	return p.PredictionUUID, nil
}

func (r *ledgerRepository) SettlePrediction(ctx context.Context, predictionUUID string, actual int, wasCorrect bool) error {
	return r.db.WithContext(ctx).Model(&model.Prediction{}).
		Where("prediction_uuid = ?", predictionUUID).
		Updates(map[string]interface{}{
			"actual_result": actual,
			"was_correct":   wasCorrect,
		}).Error
}
