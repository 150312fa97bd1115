package service

import (
	"context"
	"fmt"

	"TandaPredict/internal/config"
	"TandaPredict/internal/model"
	"TandaPredict/internal/repository"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
	"github.com/sirupsen/logrus"
)

// FeedPublisher 把事件落入动态流表，并尽力转发Telegram（若配置了）
// 落库失败算发布失败；Telegram失败只记日志
type FeedPublisher struct {
	feedRepo repository.FeedRepository
	notifier *TelegramNotifier
	logger   *logrus.Logger
}

// NewFeedPublisher 创建 FeedPublisher 实例（notifier可为nil）
func NewFeedPublisher(feedRepo repository.FeedRepository, notifier *TelegramNotifier, logger *logrus.Logger) *FeedPublisher {
	return &FeedPublisher{
		feedRepo: feedRepo,
		notifier: notifier,
		logger:   logger,
	}
}

func (p *FeedPublisher) Publish(ctx context.Context, event *model.FeedEvent) error {
	if err := p.feedRepo.CreateFeedEvent(ctx, event); err != nil {
		return err
	}
	if p.notifier != nil {
		if err := p.notifier.Send(ctx, fmt.Sprintf("%s\n\n%s", event.Title, event.Description)); err != nil {
			p.logger.WithError(err).Warn("Telegram转发失败")
		}
	}
	return nil
}

// TelegramNotifier 播报频道通知器
type TelegramNotifier struct {
	bot    *telego.Bot
	chatID int64
	logger *logrus.Logger
}

// NewTelegramNotifier 创建 TelegramNotifier。未开启或缺Token时返回nil（调用方跳过）
func NewTelegramNotifier(cfg *config.TelegramConfig, logger *logrus.Logger) (*TelegramNotifier, error) {
	if !cfg.Enabled || cfg.Token == "" {
		return nil, nil
	}
	bot, err := telego.NewBot(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("创建Telegram Bot失败: %w", err)
	}
	return &TelegramNotifier{bot: bot, chatID: cfg.ChatID, logger: logger}, nil
}

func (t *TelegramNotifier) Send(ctx context.Context, text string) error {
	_, err := t.bot.SendMessage(ctx, &telego.SendMessageParams{
		ChatID: tu.ID(t.chatID),
		Text:   text,
	})
	return err
}
