package repository

import (
	"context"

	"TandaPredict/internal/model"

	"gorm.io/gorm"
)

// StatsRepository 离线聚合表（number_stats / markov_edges）的只读访问
type StatsRepository interface {
	// NumberStats 取指定时段的号码统计，叠加全时段行兜底；
	// 同一号码两边都有时保留 frequency 更高的一条
	NumberStats(ctx context.Context, slot string) (map[int]*model.NumberStat, error)
	// MarkovEdges 取某前号的转移概率（时段行+全时段行），重复边取概率最大值
	MarkovEdges(ctx context.Context, fromNumber int, slot string) (map[int]float64, error)
}

type statsRepository struct {
	db *gorm.DB
}

// NewStatsRepository 创建 StatsRepository 实例
func NewStatsRepository(db *gorm.DB) StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) NumberStats(ctx context.Context, slot string) (map[int]*model.NumberStat, error) {
	var rows []*model.NumberStat
	db := r.db.WithContext(ctx).Model(&model.NumberStat{})
	if slot != "" {
		db = db.Where("slot = ? OR slot = ''", slot)
	} else {
		db = db.Where("slot = ''")
	}
	if err := db.Find(&rows).Error; err != nil {
		return nil, err
	}

	stats := make(map[int]*model.NumberStat, len(rows))
	for _, row := range rows {
		existing, ok := stats[row.Number]
		// 时段行与全时段行并存时保留频次更高的
		if !ok || row.Frequency > existing.Frequency {
			stats[row.Number] = row
		}
	}
	return stats, nil
}

func (r *statsRepository) MarkovEdges(ctx context.Context, fromNumber int, slot string) (map[int]float64, error) {
	var rows []*model.MarkovEdge
	db := r.db.WithContext(ctx).Model(&model.MarkovEdge{}).Where("from_number = ?", fromNumber)
	if slot != "" {
		db = db.Where("slot = ? OR slot = ''", slot)
	} else {
		db = db.Where("slot = ''")
	}
	if err := db.Find(&rows).Error; err != nil {
		return nil, err
	}

	edges := make(map[int]float64, len(rows))
	for _, row := range rows {
		// 重复边（时段行+全时段行）按概率最大值归并
		if p, ok := edges[row.ToNumber]; !ok || row.Probability > p {
			edges[row.ToNumber] = row.Probability
		}
	}
	return edges, nil
}
