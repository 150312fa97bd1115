package model

import (
	"time"

	"gorm.io/datatypes"
)

// 动态事件类型
const (
	FeedEventLotteryPrediction = "lottery_prediction"
	FeedEventSubscription      = "subscription"
)

// FeedEvent 发往社交动态流的事件，定时播报每次运行只产生一条
type FeedEvent struct {
	ID          uint64         `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID"`
	EventUUID   string         `gorm:"column:event_uuid;type:varchar(64);uniqueIndex;not null;comment:全局唯一ID"`
	Type        string         `gorm:"column:type;type:varchar(32);not null;comment:事件类型"`
	Title       string         `gorm:"column:title;type:varchar(256);not null;comment:标题"`
	Description string         `gorm:"column:description;type:text;comment:正文"`
	ActionURL   string         `gorm:"column:action_url;type:varchar(256);comment:跳转地址"`
	Metadata    datatypes.JSON `gorm:"column:metadata;type:jsonb;comment:附加数据"`
	CreatedAt   time.Time      `gorm:"column:created_at;type:timestamp;default:now();comment:创建时间"`
}

func (FeedEvent) TableName() string { return "feed_events" }
