package model

import (
	"time"
)

// DrawDateLayout 开奖日期统一格式（同时作为配额的日期键）
const DrawDateLayout = "2006-01-02"

// DrawResult 每日各时段的开奖结果，自然键 (draw_date, slot)
// 重复入库时按自然键覆盖号码与生肖字段（幂等）
type DrawResult struct {
	ID              uint64    `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID"`
	DrawDate        string    `gorm:"column:draw_date;type:varchar(10);not null;uniqueIndex:uk_date_slot;comment:开奖日期 YYYY-MM-DD"`
	Slot            string    `gorm:"column:slot;type:varchar(5);not null;uniqueIndex:uk_date_slot;comment:开奖时段 HH:MM"`
	MainNumber      int       `gorm:"column:main_number;type:int;not null;comment:主号码 0-99"`
	CompanionNumber int       `gorm:"column:companion_number;type:int;comment:伴随号码"`
	AnimalSign      string    `gorm:"column:animal_sign;type:varchar(32);comment:动物标志（animalito）"`
	CreatedAt       time.Time `gorm:"column:created_at;type:timestamp;default:now();comment:创建时间"`
	UpdatedAt       time.Time `gorm:"column:updated_at;type:timestamp;default:now();comment:更新时间"`
}

// NumberStat 离线任务维护的号码统计表（本服务只读）
// slot 为空串表示不区分时段的全局统计
type NumberStat struct {
	ID         uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	Number     int    `gorm:"column:number;type:int;not null;index;comment:号码 0-99"`
	PeriodDays int    `gorm:"column:period_days;type:int;not null;comment:统计窗口天数"`
	Slot       string `gorm:"column:slot;type:varchar(5);default:'';index;comment:时段，空=全时段"`
	Frequency  int    `gorm:"column:frequency;type:int;default:0;comment:出现次数"`
	GapDays    int    `gorm:"column:gap_days;type:int;default:0;comment:距上次开出的天数"`
	IsHot      bool   `gorm:"column:is_hot;type:boolean;default:false;comment:是否热门号"`
	IsCold     bool   `gorm:"column:is_cold;type:boolean;default:false;comment:是否冷号"`
}

// MarkovEdge 离线任务维护的号码转移概率表（本服务只读）
type MarkovEdge struct {
	ID          uint64  `gorm:"column:id;primaryKey;autoIncrement"`
	FromNumber  int     `gorm:"column:from_number;type:int;not null;index;comment:前一期号码"`
	ToNumber    int     `gorm:"column:to_number;type:int;not null;comment:下一期号码"`
	Slot        string  `gorm:"column:slot;type:varchar(5);default:'';comment:时段，空=全时段"`
	Probability float64 `gorm:"column:probability;type:numeric(8,6);default:0;comment:历史转移概率"`
}

func (DrawResult) TableName() string { return "draw_results" }
func (NumberStat) TableName() string { return "number_stats" }
func (MarkovEdge) TableName() string { return "markov_edges" }
