// Package lotoven 对接 Lotoven 动物彩开奖源（按时段提供最近场次的JSON接口）
package lotoven

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"TandaPredict/internal/config"
	"TandaPredict/internal/interfaces"
	"TandaPredict/internal/model"
	"TandaPredict/internal/utils/httpclient"

	"github.com/sirupsen/logrus"
)

type Adapter struct {
	cfg        *config.FeedConfig
	httpClient *http.Client
	logger     *logrus.Logger
}

func NewLotovenAdapter(cfg *config.FeedConfig, logger *logrus.Logger) interfaces.DrawFeedAdapter {
	return &Adapter{
		cfg:        cfg,
		httpClient: httpclient.NewHTTPClient(cfg, logger),
		logger:     logger,
	}
}

// GetName ========== 实现DrawFeedAdapter接口 ==========
func (a *Adapter) GetName() string {
	return "Lotoven"
}

// rawSession 开奖源的单场记录。字段类型不稳定（数字可能是字符串），统一用 json.Number 兜底
type rawSession struct {
	Date      string      `json:"date"`
	Slot      string      `json:"slot"`
	Number    json.Number `json:"number"`
	Companion json.Number `json:"companion"`
	Sign      string      `json:"sign"`
}

// FetchLatest 逐时段拉取最近场次。单个时段失败只记日志，不影响其他时段
func (a *Adapter) FetchLatest(ctx context.Context, slots []string) ([]*model.DrawResult, error) {
	var results []*model.DrawResult

	for _, slot := range slots {
		sessionsURL := fmt.Sprintf("%s/api/sessions?slot=%s", a.cfg.BaseURL, slot)
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, sessionsURL, nil)
		if err != nil {
			return nil, fmt.Errorf("构造请求失败: %w", err)
		}

		resp, err := a.httpClient.Do(req)
		if err != nil {
			a.logger.Warnf("拉取%s时段开奖失败: %v", slot, err)
			continue
		}

		// 匿名函数包裹，每次循环立即关闭Body（避免资源泄漏）
		func() {
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				a.logger.Warnf("拉取%s时段开奖返回状态码%d", slot, resp.StatusCode)
				return
			}

			var sessions []rawSession
			if err := json.NewDecoder(resp.Body).Decode(&sessions); err != nil {
				a.logger.Warnf("解析%s时段开奖失败: %v", slot, err)
				return
			}

			for _, s := range sessions {
				draw, ok := a.normalize(slot, s)
				if !ok {
					continue
				}
				results = append(results, draw)
			}
		}()
	}

	return results, nil
}

// normalize 将原始场次转换为DrawResult，字段缺失/非法时跳过该场
func (a *Adapter) normalize(slot string, s rawSession) (*model.DrawResult, bool) {
	date := strings.TrimSpace(s.Date)
	if _, err := parseDate(date); err != nil {
		a.logger.Warnf("非法开奖日期 %q，跳过该场", s.Date)
		return nil, false
	}

	number, err := parseNumber(s.Number)
	if err != nil {
		a.logger.Warnf("非法主号码 %q（%s %s），跳过该场", s.Number.String(), date, slot)
		return nil, false
	}

	// 伴随号码缺失不致命，置-1表示无
	companion, err := parseNumber(s.Companion)
	if err != nil {
		companion = -1
	}

	// feed 偶尔不带动物标志，用静态映射兜底
	sign := strings.TrimSpace(s.Sign)
	if sign == "" {
		sign = model.AnimalSignFor(number)
	}

	// 场次自带时段优先（有的接口把多个时段混在一起返回）
	sessionSlot := strings.TrimSpace(s.Slot)
	if sessionSlot == "" {
		sessionSlot = slot
	}

	return &model.DrawResult{
		DrawDate:        date,
		Slot:            sessionSlot,
		MainNumber:      number,
		CompanionNumber: companion,
		AnimalSign:      sign,
	}, true
}

func parseDate(s string) (string, error) {
	if _, err := time.Parse(model.DrawDateLayout, s); err != nil {
		return "", fmt.Errorf("日期格式应为YYYY-MM-DD: %q", s)
	}
	return s, nil
}

func parseNumber(n json.Number) (int, error) {
	s := strings.TrimSpace(n.String())
	if s == "" {
		return 0, fmt.Errorf("号码为空")
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		// 部分源返回 "42.0" 这样的浮点字符串
		f, ferr := n.Float64()
		if ferr != nil {
			return 0, err
		}
		v = int(f)
	}
	if v < 0 || v > 99 {
		return 0, fmt.Errorf("号码越界: %d", v)
	}
	return v, nil
}
