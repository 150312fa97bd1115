package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"TandaPredict/internal/interfaces"
	"TandaPredict/internal/repository"

	"github.com/sirupsen/logrus"
)

// SyncOutcome 一次同步的结果
type SyncOutcome struct {
	Cached   bool `json:"cached"`   // 命中冷却窗口，未发起网络请求
	Fetched  int  `json:"fetched"`  // 从开奖源拿到的场次数
	Upserted int  `json:"upserted"` // 实际入库（含覆盖）的条数
}

// HistoryService 开奖历史同步服务。
// 冷却时间戳是实例字段而非包级变量，多实例（含测试）之间互不共享
type HistoryService struct {
	adapter  interfaces.DrawFeedAdapter
	drawRepo repository.DrawRepository
	logger   *logrus.Logger
	slots    []string
	cooldown time.Duration

	mu          sync.Mutex
	lastAttempt time.Time
}

// NewHistoryService 创建 HistoryService 实例
func NewHistoryService(
	adapter interfaces.DrawFeedAdapter,
	drawRepo repository.DrawRepository,
	slots []string,
	cooldown time.Duration,
	logger *logrus.Logger,
) *HistoryService {
	return &HistoryService{
		adapter:  adapter,
		drawRepo: drawRepo,
		logger:   logger,
		slots:    slots,
		cooldown: cooldown,
	}
}

// SyncLatest 拉取并入库最新开奖。冷却窗口内的重复调用直接短路返回 cached，
// 不产生任何网络请求；首批并发者之间的竞态最多多打一次请求，无正确性问题
func (s *HistoryService) SyncLatest(ctx context.Context) (*SyncOutcome, error) {
	s.mu.Lock()
	if time.Since(s.lastAttempt) < s.cooldown {
		s.mu.Unlock()
		return &SyncOutcome{Cached: true}, nil
	}
	// 进入窗口即记时间戳（而非成功后再记），失败的尝试同样受冷却约束
	s.lastAttempt = time.Now()
	s.mu.Unlock()

	draws, err := s.adapter.FetchLatest(ctx, s.slots)
	if err != nil {
		return nil, fmt.Errorf("%s拉取开奖失败: %w", s.adapter.GetName(), err)
	}
	if len(draws) == 0 {
		s.logger.Warnf("%s未返回任何开奖场次", s.adapter.GetName())
		return &SyncOutcome{}, nil
	}

	upserted, err := s.drawRepo.UpsertDraws(ctx, draws)
	if err != nil {
		return nil, fmt.Errorf("开奖入库失败: %w", err)
	}

	s.logger.Infof("开奖同步完成：拉取%d场，入库%d条", len(draws), upserted)
	return &SyncOutcome{Fetched: len(draws), Upserted: upserted}, nil
}
