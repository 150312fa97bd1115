// Package scheduler 提供"每天固定本地时刻跑一次"的通用循环：
// 算下一次触发点 → 等待 → 执行 → 重复。不依赖任何调度库
package scheduler

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// DailyJob 每日定时任务。单个定时器驱动，每次运行完才算下一次触发，
// 定时运行之间不会重叠；手动触发可与定时运行并行（互不排斥）
type DailyJob struct {
	name   string
	at     string // HH:MM
	loc    *time.Location
	run    func(context.Context) error
	logger *logrus.Logger
}

// NewDailyJob 创建每日任务。timezone解析失败时退回系统本地时区
func NewDailyJob(name, at, timezone string, run func(context.Context) error, logger *logrus.Logger) *DailyJob {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		logger.WithError(err).Warnf("时区%q加载失败，使用系统本地时区", timezone)
		loc = time.Local
	}
	return &DailyJob{name: name, at: at, loc: loc, run: run, logger: logger}
}

// Start 在独立goroutine中循环，ctx取消后退出
func (j *DailyJob) Start(ctx context.Context) {
	go j.loop(ctx)
}

func (j *DailyJob) loop(ctx context.Context) {
	for {
		next := NextOccurrence(time.Now().In(j.loc), j.at, j.loc)
		j.logger.Infof("任务%s下次触发: %s", j.name, next.Format(time.RFC3339))

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			j.logger.Infof("任务%s已停止", j.name)
			return
		case <-timer.C:
		}

		if err := j.run(ctx); err != nil {
			j.logger.WithError(err).Errorf("任务%s执行失败", j.name)
		}
	}
}

// NextOccurrence 给定时刻 HH:MM 在 now 之后的下一次出现（本地时区语义）
func NextOccurrence(now time.Time, at string, loc *time.Location) time.Time {
	t, err := time.Parse("15:04", at)
	if err != nil {
		// 非法配置退化为24小时后，保持循环活着
		return now.Add(24 * time.Hour)
	}
	next := time.Date(now.Year(), now.Month(), now.Day(), t.Hour(), t.Minute(), 0, 0, loc)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
