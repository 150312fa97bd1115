package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"TandaPredict/internal/interfaces"
	"TandaPredict/internal/model"
	"TandaPredict/internal/repository"
	"TandaPredict/internal/signal"

	"github.com/sirupsen/logrus"
)

// predictionGenerator 播报只需要引擎的出号能力（测试时可替换）
type predictionGenerator interface {
	Generate(ctx context.Context, slot string, tier model.Tier) (*EngineOutput, error)
}

// AnnounceService 每日预测播报：逐时段出号，合成一条动态，只发布一次。
// 单个时段失败不影响其余时段；全部失败则整次放弃、不发半截内容
type AnnounceService struct {
	engine    predictionGenerator
	drawRepo  repository.DrawRepository
	publisher interfaces.Publisher
	logger    *logrus.Logger
	slots     []string
}

// NewAnnounceService 创建 AnnounceService 实例
func NewAnnounceService(
	engine predictionGenerator,
	drawRepo repository.DrawRepository,
	publisher interfaces.Publisher,
	slots []string,
	logger *logrus.Logger,
) *AnnounceService {
	return &AnnounceService{
		engine:    engine,
		drawRepo:  drawRepo,
		publisher: publisher,
		logger:    logger,
		slots:     slots,
	}
}

// Run 执行一次播报。重复运行不做去重——去重明确不在本服务职责内
func (s *AnnounceService) Run(ctx context.Context) error {
	type slotPick struct {
		slot    string
		numbers []int
	}

	var picks []slotPick
	for _, slot := range s.slots {
		out, err := s.engine.Generate(ctx, slot, model.TierPremium)
		if err != nil {
			s.logger.WithError(err).WithField("slot", slot).Warn("时段预测失败，继续其余时段")
			continue
		}
		values := make([]int, 0, len(out.Numbers))
		for _, n := range out.Numbers {
			values = append(values, n.Value)
		}
		picks = append(picks, slotPick{slot: slot, numbers: values})
	}

	if len(picks) == 0 {
		return fmt.Errorf("全部%d个时段预测失败，本次播报放弃", len(s.slots))
	}

	// 合成一条播报：各时段推荐号 + 最近一期实际结果的拉号搭档
	var b strings.Builder
	b.WriteString("今日预测号码：\n")
	metadata := map[string]interface{}{"slots": map[string][]int{}}
	slotMeta := metadata["slots"].(map[string][]int)
	for _, p := range picks {
		b.WriteString(fmt.Sprintf("%s → %s\n", p.slot, joinNumbers(p.numbers)))
		slotMeta[p.slot] = p.numbers
	}

	if last, err := s.drawRepo.LastDraw(ctx, ""); err == nil && last != nil {
		partners := signal.GetPullingNumbers(last.MainNumber)
		b.WriteString(fmt.Sprintf("\n上期开出 %02d（%s），拉号：%s",
			last.MainNumber, last.AnimalSign, joinNumbers(partners)))
		metadata["lastDrawnNumber"] = last.MainNumber
		metadata["pullingNumbers"] = partners
	}

	metaJSON, err := json.Marshal(metadata)
	if err != nil {
		metaJSON = []byte("{}")
	}
	event := &model.FeedEvent{
		Type:        model.FeedEventLotteryPrediction,
		Title:       fmt.Sprintf("%s 动物彩预测", time.Now().Format(model.DrawDateLayout)),
		Description: b.String(),
		ActionURL:   "/lottery",
		Metadata:    metaJSON,
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		return fmt.Errorf("发布播报失败: %w", err)
	}

	s.logger.Infof("播报完成：%d/%d个时段出号", len(picks), len(s.slots))
	return nil
}

func joinNumbers(numbers []int) string {
	parts := make([]string, 0, len(numbers))
	for _, n := range numbers {
		parts = append(parts, fmt.Sprintf("%02d", n))
	}
	return strings.Join(parts, " ")
}
