package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"TandaPredict/internal/model"
	"TandaPredict/internal/repository"

	"github.com/sirupsen/logrus"
)

// QuotaExceededError 当日次数用尽。携带剩余配额信息，
// 调用方据此展示升级引导而不是当成一般性失败
type QuotaExceededError struct {
	MaxSpins  int `json:"maxSpins"`
	SpinsUsed int `json:"spinsUsed"`
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("当日预测次数已用尽（%d/%d）", e.SpinsUsed, e.MaxSpins)
}

// QuotaStatus 配额查询的输出契约
type QuotaStatus struct {
	Entitlement
	SpinsUsed      int  `json:"spinsUsed"`
	SpinsRemaining int  `json:"spinsRemaining"` // -1 = 不限
	CanSpin        bool `json:"canSpin"`
}

// SpinResult 一次用户预测调用的结果
type SpinResult struct {
	PredictionID   string        `json:"predictionId"`
	Output         *EngineOutput `json:"output"`
	SpinsRemaining int           `json:"spinsRemaining"`
}

// SpinService 次数台账：配额检查与用量记录。
// 检查与记录是两次调用，记录前会重查一次——本设计提供的是实用层面的
// at-most-max，严格串行化依赖存储层对自增的原子性
type SpinService struct {
	entitlement *EntitlementService
	engine      *PredictionEngine
	ledgerRepo  repository.LedgerRepository
	logger      *logrus.Logger
}

// NewSpinService 创建 SpinService 实例
func NewSpinService(
	entitlement *EntitlementService,
	engine *PredictionEngine,
	ledgerRepo repository.LedgerRepository,
	logger *logrus.Logger,
) *SpinService {
	return &SpinService{
		entitlement: entitlement,
		engine:      engine,
		ledgerRepo:  ledgerRepo,
		logger:      logger,
	}
}

// Status 当前配额状态（档位解析可能触发自动开通）
func (s *SpinService) Status(ctx context.Context, userID uint64) (*QuotaStatus, error) {
	ent, err := s.entitlement.Resolve(ctx, userID)
	if err != nil {
		return nil, err
	}
	used, err := s.ledgerRepo.SpinsUsed(ctx, userID, todayKey())
	if err != nil {
		return nil, fmt.Errorf("查询当日用量失败: %w", err)
	}
	return buildStatus(ent, used), nil
}

// Spin 完整的一次用户预测：解析档位 → 配额检查 → 出号 → 记账
func (s *SpinService) Spin(ctx context.Context, userID uint64, slot string) (*SpinResult, error) {
	ent, err := s.entitlement.Resolve(ctx, userID)
	if err != nil {
		return nil, err
	}

	today := todayKey()
	used, err := s.ledgerRepo.SpinsUsed(ctx, userID, today)
	if err != nil {
		return nil, fmt.Errorf("查询当日用量失败: %w", err)
	}
	if ent.MaxSpins >= 0 && used >= ent.MaxSpins {
		return nil, &QuotaExceededError{MaxSpins: ent.MaxSpins, SpinsUsed: used}
	}

	output, err := s.engine.Generate(ctx, slot, ent.Tier)
	if err != nil {
		return nil, fmt.Errorf("生成预测失败: %w", err)
	}

	// 记录前再查一次。生成耗时内别的设备可能已把额度用掉
	used, err = s.ledgerRepo.SpinsUsed(ctx, userID, today)
	if err != nil {
		return nil, fmt.Errorf("查询当日用量失败: %w", err)
	}
	if ent.MaxSpins >= 0 && used >= ent.MaxSpins {
		return nil, &QuotaExceededError{MaxSpins: ent.MaxSpins, SpinsUsed: used}
	}

	if err := s.ledgerRepo.IncrementSpin(ctx, userID, today); err != nil {
		return nil, fmt.Errorf("记录用量失败: %w", err)
	}

	numbersJSON, err := json.Marshal(output.Numbers)
	if err != nil {
		return nil, fmt.Errorf("序列化号码失败: %w", err)
	}
	prediction := &model.Prediction{
		UserID:           &userID,
		TargetDate:       today,
		TargetSlot:       output.DrawTime,
		Numbers:          numbersJSON,
		Confidence:       output.Confidence,
		AlgorithmVersion: AlgorithmVersion,
		Methodology:      output.Methodology,
	}
	predictionID, err := s.ledgerRepo.CreatePrediction(ctx, prediction)
	if err != nil {
		return nil, fmt.Errorf("保存预测失败: %w", err)
	}

	remaining := -1
	if ent.MaxSpins >= 0 {
		remaining = ent.MaxSpins - used - 1
	}
	return &SpinResult{
		PredictionID:   predictionID,
		Output:         output,
		SpinsRemaining: remaining,
	}, nil
}

func buildStatus(ent *Entitlement, used int) *QuotaStatus {
	status := &QuotaStatus{
		Entitlement:    *ent,
		SpinsUsed:      used,
		SpinsRemaining: -1,
		CanSpin:        true,
	}
	if ent.MaxSpins >= 0 {
		remaining := ent.MaxSpins - used
		if remaining < 0 {
			remaining = 0
		}
		status.SpinsRemaining = remaining
		status.CanSpin = remaining > 0
	}
	return status
}

// todayKey 当日日期键。跨天后额度自然恢复，无需任何显式清零
func todayKey() string {
	return time.Now().Format(model.DrawDateLayout)
}
