package model

import (
	"time"

	"gorm.io/datatypes"
)

// Prediction 每次生成预测落一条记录，开奖后由外部结算任务回填 actual_result/was_correct
type Prediction struct {
	ID               uint64         `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID"`
	PredictionUUID   string         `gorm:"column:prediction_uuid;type:varchar(64);uniqueIndex;not null;comment:全局唯一ID"`
	UserID           *uint64        `gorm:"column:user_id;type:bigint;index;comment:用户ID，定时任务生成时为空"`
	TargetDate       string         `gorm:"column:target_date;type:varchar(10);not null;comment:目标开奖日期"`
	TargetSlot       string         `gorm:"column:target_slot;type:varchar(5);not null;comment:目标时段"`
	Numbers          datatypes.JSON `gorm:"column:numbers;type:jsonb;not null;comment:推荐号码（按得分排序）"`
	Confidence       float64        `gorm:"column:confidence;type:numeric(5,2);default:0;comment:置信度 0-95"`
	AlgorithmVersion string         `gorm:"column:algorithm_version;type:varchar(16);not null;comment:算法版本"`
	Methodology      string         `gorm:"column:methodology;type:varchar(16);not null;comment:生成方式：ensemble/random"`
	ActualResult     *int           `gorm:"column:actual_result;type:int;comment:实际开奖号码（结算后回填）"`
	WasCorrect       *bool          `gorm:"column:was_correct;type:boolean;comment:是否命中（结算后回填）"`
	CreatedAt        time.Time      `gorm:"column:created_at;type:timestamp;default:now();comment:创建时间"`
}

// SpinQuota 用户每日已用预测次数，(user_id, quota_date) 唯一
// 不做显式清零，日期键翻篇即自然重置
type SpinQuota struct {
	ID        uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	UserID    uint64 `gorm:"column:user_id;type:bigint;not null;uniqueIndex:uk_user_date;comment:用户ID"`
	QuotaDate string `gorm:"column:quota_date;type:varchar(10);not null;uniqueIndex:uk_user_date;comment:日期键 YYYY-MM-DD"`
	SpinsUsed int    `gorm:"column:spins_used;type:int;default:0;comment:当日已用次数"`
}

func (Prediction) TableName() string { return "predictions" }
func (SpinQuota) TableName() string  { return "spin_quotas" }
