package interfaces

import (
	"context"

	"TandaPredict/internal/model"
)

// Publisher 动态流发布出口，对引擎不透明。定时播报每次运行只调用一次
type Publisher interface {
	Publish(ctx context.Context, event *model.FeedEvent) error
}
