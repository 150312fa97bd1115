package repository

import (
	"context"
	"time"

	"TandaPredict/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DrawRepository 开奖历史仓储，按自然键 (draw_date, slot) 幂等入库
type DrawRepository interface {
	// UpsertDraws 批量入库，冲突时覆盖号码与生肖字段，返回处理条数
	UpsertDraws(ctx context.Context, draws []*model.DrawResult) (int, error)
	// ListSequence 按时段取时间正序的主号码序列（slot为空=全时段）
	ListSequence(ctx context.Context, slot string, limit int) ([]int, error)
	// ListSince 取某日期（含）之后的开奖记录，供短期动量统计
	ListSince(ctx context.Context, slot string, sinceDate string) ([]*model.DrawResult, error)
	// LastDraw 某时段最近一期（slot为空=所有时段中最近一期）
	LastDraw(ctx context.Context, slot string) (*model.DrawResult, error)
	// ListRecent 最近N期（倒序），供查询接口
	ListRecent(ctx context.Context, slot string, limit int) ([]*model.DrawResult, error)
}

type drawRepository struct {
	db *gorm.DB
}

// NewDrawRepository 创建 DrawRepository 实例
func NewDrawRepository(db *gorm.DB) DrawRepository {
	return &drawRepository{db: db}
}

// UpsertDraws 依赖存储层的 ON CONFLICT 保证幂等，重复入库不会产生第二行
func (r *drawRepository) UpsertDraws(ctx context.Context, draws []*model.DrawResult) (int, error) {
	if len(draws) == 0 {
		return 0, nil
	}
	count := 0
	for _, d := range draws {
		d.UpdatedAt = time.Now()
		if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "draw_date"}, {Name: "slot"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"main_number", "companion_number", "animal_sign", "updated_at",
			}),
		}).Create(d).Error; err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// ListSequence 时间正序（draw_date, slot 双关键字），用于信号计算
func (r *drawRepository) ListSequence(ctx context.Context, slot string, limit int) ([]int, error) {
	if limit <= 0 {
		limit = 500
	}
	db := r.db.WithContext(ctx).Model(&model.DrawResult{})
	if slot != "" {
		db = db.Where("slot = ?", slot)
	}

	// 先按倒序取limit条再反转，保证拿到的是"最近limit期"
	var draws []*model.DrawResult
	if err := db.Order("draw_date DESC, slot DESC").Limit(limit).Find(&draws).Error; err != nil {
		return nil, err
	}

	seq := make([]int, 0, len(draws))
	for i := len(draws) - 1; i >= 0; i-- {
		seq = append(seq, draws[i].MainNumber)
	}
	return seq, nil
}

func (r *drawRepository) ListSince(ctx context.Context, slot string, sinceDate string) ([]*model.DrawResult, error) {
	db := r.db.WithContext(ctx).Model(&model.DrawResult{}).Where("draw_date >= ?", sinceDate)
	if slot != "" {
		db = db.Where("slot = ?", slot)
	}
	var draws []*model.DrawResult
	if err := db.Order("draw_date ASC, slot ASC").Find(&draws).Error; err != nil {
		return nil, err
	}
	return draws, nil
}

func (r *drawRepository) LastDraw(ctx context.Context, slot string) (*model.DrawResult, error) {
	db := r.db.WithContext(ctx).Model(&model.DrawResult{})
	if slot != "" {
		db = db.Where("slot = ?", slot)
	}
	var draw model.DrawResult
	if err := db.Order("draw_date DESC, slot DESC").First(&draw).Error; err != nil {
		return nil, err
	}
	return &draw, nil
}

func (r *drawRepository) ListRecent(ctx context.Context, slot string, limit int) ([]*model.DrawResult, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	db := r.db.WithContext(ctx).Model(&model.DrawResult{})
	if slot != "" {
		db = db.Where("slot = ?", slot)
	}
	var draws []*model.DrawResult
	if err := db.Order("draw_date DESC, slot DESC").Limit(limit).Find(&draws).Error; err != nil {
		return nil, err
	}
	return draws, nil
}
