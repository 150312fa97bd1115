package interfaces

import (
	"context"

	"TandaPredict/internal/model"
)

// DrawFeedAdapter 外部开奖源适配器。单个时段解析失败不应中断其他时段
type DrawFeedAdapter interface {
	// GetName 开奖源名称（日志用）
	GetName() string
	// FetchLatest 拉取各时段的最新开奖记录，已规范化为 DrawResult
	FetchLatest(ctx context.Context, slots []string) ([]*model.DrawResult, error)
}
