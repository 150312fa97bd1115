package service

import (
	"context"
	crand "crypto/rand"
	"math"
	"math/big"
	mrand "math/rand"
	"sort"
	"time"

	"TandaPredict/internal/model"
	"TandaPredict/internal/repository"
	"TandaPredict/internal/signal"

	"github.com/sirupsen/logrus"
)

// AlgorithmVersion 当前打分算法版本，随权重调整递增
const AlgorithmVersion = "v2.3"

const (
	MethodologyEnsemble = "ensemble"
	MethodologyRandom   = "random"
)

// 加权求和的各分量权重。数字马尔可夫联合概率权重最高，
// EWMA 近因与历史马尔可夫概率大致等权
const (
	weightDigitMarkov = 0.30
	weightEWMA        = 0.20
	weightMarkov      = 0.20
	weightMomentum    = 0.15

	hotAdjust         = 0.05 // CUSUM 持续偏热的加成
	dueAdjust         = 0.03 // CUSUM 深度偏冷（该出）的加成
	cusumHotThreshold = 1.0
	cusumDueThreshold = -1.0

	gapBonusMinDays = 7    // 超过该天数未开才有缺席加成
	gapBonusPerDay  = 0.01 //
	gapBonusCap     = 0.08 // 缺席加成封顶

	pullingBonus = 0.05 // 是上一期号码的拉号搭档时的固定加成
	jitterMax    = 0.02 // 打破平分的有界随机扰动

	topPoolSize        = 8   // 从得分前8名中采样，同档位用户不会拿到完全一样的号
	momentumWindowDays = 7   // 短期动量窗口
	sequenceWindow     = 500 // 参与信号计算的最近期数
)

// PredictedNumber 单个推荐号码及其各信号明细
type PredictedNumber struct {
	Value           int     `json:"value"`
	Sign            string  `json:"sign"`
	IsHot           bool    `json:"isHot"`
	IsCold          bool    `json:"isCold"`
	Frequency       int     `json:"frequency"`
	GapDays         int     `json:"gapDays"`
	MarkovProb      float64 `json:"markovProb"`
	DigitMarkovProb float64 `json:"digitMarkovProb"`
	Ewma            float64 `json:"ewma"`
	Cusum           float64 `json:"cusum"`
}

// EngineOutput 一次预测的完整输出
type EngineOutput struct {
	Numbers         []PredictedNumber `json:"numbers"`
	Confidence      float64           `json:"confidence"`
	DrawTime        string            `json:"drawTime"`
	Tier            model.Tier        `json:"tier"`
	GeneratedAt     time.Time         `json:"generatedAt"`
	Methodology     string            `json:"methodology"`
	LastDrawnNumber *int              `json:"lastDrawnNumber"`
	LastDrawnSign   string            `json:"lastDrawnSign,omitempty"`
}

// historyRefresher 引擎只需要"尽力同步一次"这一个能力
type historyRefresher interface {
	SyncLatest(ctx context.Context) (*SyncOutcome, error)
}

// PredictionEngine 多信号融合预测引擎。
// 所有 I/O 步骤各自尽力而为，任何一步失败都不会让 Generate 返回错误——
// 最差情况退化为均匀随机出号
type PredictionEngine struct {
	history   historyRefresher
	drawRepo  repository.DrawRepository
	statsRepo repository.StatsRepository
	logger    *logrus.Logger
}

// NewPredictionEngine 创建 PredictionEngine 实例
func NewPredictionEngine(
	history historyRefresher,
	drawRepo repository.DrawRepository,
	statsRepo repository.StatsRepository,
	logger *logrus.Logger,
) *PredictionEngine {
	return &PredictionEngine{
		history:   history,
		drawRepo:  drawRepo,
		statsRepo: statsRepo,
		logger:    logger,
	}
}

// Generate 为指定时段按档位生成预测（slot为空=全时段口径）
func (e *PredictionEngine) Generate(ctx context.Context, slot string, tier model.Tier) (*EngineOutput, error) {
	// 1. 尽力触发一次历史同步，结果如何都继续
	if _, err := e.history.SyncLatest(ctx); err != nil {
		e.logger.WithError(err).Warn("同步最新开奖失败，使用既有历史继续")
	}

	// 2. 加载号码统计（时段行+全时段行兜底）
	stats, err := e.statsRepo.NumberStats(ctx, slot)
	if err != nil {
		e.logger.WithError(err).Warn("加载号码统计失败")
		stats = nil
	}

	// 3. 上一期号码（可能不存在）
	prev := -1
	prevSign := ""
	if last, lerr := e.drawRepo.LastDraw(ctx, slot); lerr == nil && last != nil {
		prev = last.MainNumber
		prevSign = last.AnimalSign
	}

	// 4. 完全无统计时退化为均匀随机，绝不因数据缺失报错
	if len(stats) == 0 {
		e.logger.Warnf("时段%q无任何号码统计，退化为随机出号", slot)
		return e.randomPrediction(slot, tier, prev, prevSign), nil
	}

	var edges map[int]float64
	if prev >= 0 {
		if edges, err = e.statsRepo.MarkovEdges(ctx, prev, slot); err != nil {
			e.logger.WithError(err).Warn("加载转移概率失败")
			edges = nil
		}
	}

	// 5. 重建时段序列并计算各信号
	seq, err := e.drawRepo.ListSequence(ctx, slot, sequenceWindow)
	if err != nil {
		e.logger.WithError(err).Warn("重建号码序列失败")
		seq = nil
	}
	ewma := signal.EWMA(seq, signal.DefaultAlpha)
	digit := signal.DigitMarkov(seq)
	cusum := signal.CUSUM(seq, signal.DefaultExpectedRate)
	momentum := e.momentumCounts(ctx, slot)

	// 归一化基准
	maxEwma, maxMomentum, maxFreq, maxDigit := 0.0, 0.0, 0, 0.0
	for number, stat := range stats {
		if number < 0 || number >= signal.NumberSpace {
			continue
		}
		if ewma[number] > maxEwma {
			maxEwma = ewma[number]
		}
		if momentum[number] > maxMomentum {
			maxMomentum = momentum[number]
		}
		if stat.Frequency > maxFreq {
			maxFreq = stat.Frequency
		}
		if prev >= 0 {
			if p := digit.JointProb(prev, number); p > maxDigit {
				maxDigit = p
			}
		}
	}

	partners := make(map[int]bool, 3)
	if prev >= 0 {
		for _, p := range signal.GetPullingNumbers(prev) {
			partners[p] = true
		}
	}

	// 6. 对每个有统计的候选号加权打分
	type scoredNumber struct {
		number int
		score  float64
	}
	candidates := make([]scoredNumber, 0, len(stats))
	for number := range stats {
		if number < 0 || number >= signal.NumberSpace {
			continue
		}
		stat := stats[number]
		score := 0.0

		if maxDigit > 0 {
			score += weightDigitMarkov * digit.JointProb(prev, number) / maxDigit
		}
		if maxEwma > 0 {
			score += weightEWMA * ewma[number] / maxEwma
		}
		score += weightMarkov * edges[number]
		if maxMomentum > 0 {
			score += weightMomentum * momentum[number] / maxMomentum
		}

		switch {
		case cusum[number] >= cusumHotThreshold:
			score += hotAdjust
		case cusum[number] <= cusumDueThreshold:
			score += dueAdjust
		}

		if stat.GapDays > gapBonusMinDays {
			score += math.Min(float64(stat.GapDays)*gapBonusPerDay, gapBonusCap)
		}
		if partners[number] {
			score += pullingBonus
		}
		score += mrand.Float64() * jitterMax

		candidates = append(candidates, scoredNumber{number: number, score: score})
	}

	// 7. 按得分降序排列
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score == candidates[j].score {
			return candidates[i].number < candidates[j].number
		}
		return candidates[i].score > candidates[j].score
	})

	// 8. 从前8名中无放回采样出档位数量；候选不足8就从现有里采
	count := tier.NumbersPerSpin()
	pool := topPoolSize
	if len(candidates) < pool {
		pool = len(candidates)
	}
	selected := make([]int, 0, count)
	for _, idx := range mrand.Perm(pool) {
		if len(selected) == count {
			break
		}
		selected = append(selected, candidates[idx].number)
	}
	// 候选比档位数量还少时用随机号补足，保证返回数量恒定
	selected = topUpDistinct(selected, count)

	// 输出内部按得分高低排列
	rank := make(map[int]int, len(candidates))
	for i, c := range candidates {
		rank[c.number] = i
	}
	sort.Slice(selected, func(i, j int) bool {
		ri, iok := rank[selected[i]]
		rj, jok := rank[selected[j]]
		if iok && jok {
			return ri < rj
		}
		return iok
	})

	// 9. 置信度取自被选集合的频次/转移概率/EWMA均值，封顶95
	numbers := make([]PredictedNumber, 0, count)
	sumFreq, sumMarkov, sumEwma := 0.0, 0.0, 0.0
	for _, n := range selected {
		detail := PredictedNumber{
			Value:           n,
			Sign:            model.AnimalSignFor(n),
			MarkovProb:      edges[n],
			DigitMarkovProb: digit.JointProb(prev, n),
			Ewma:            ewma[n],
			Cusum:           cusum[n],
		}
		if stat, ok := stats[n]; ok {
			detail.IsHot = stat.IsHot
			detail.IsCold = stat.IsCold
			detail.Frequency = stat.Frequency
			detail.GapDays = stat.GapDays
			if maxFreq > 0 {
				sumFreq += float64(stat.Frequency) / float64(maxFreq)
			}
		}
		if maxEwma > 0 {
			sumEwma += ewma[n] / maxEwma
		}
		sumMarkov += edges[n]
		numbers = append(numbers, detail)
	}
	n := float64(len(numbers))
	confidence := 40*(sumFreq/n) + 30*(sumMarkov/n) + 25*(sumEwma/n)
	confidence = math.Min(math.Max(confidence, 0), 95)

	out := &EngineOutput{
		Numbers:     numbers,
		Confidence:  math.Round(confidence*100) / 100,
		DrawTime:    slot,
		Tier:        tier,
		GeneratedAt: time.Now(),
		Methodology: MethodologyEnsemble,
	}
	if prev >= 0 {
		out.LastDrawnNumber = &prev
		out.LastDrawnSign = prevSign
	}
	return out, nil
}

// momentumCounts 最近7天各号码的出现次数
func (e *PredictionEngine) momentumCounts(ctx context.Context, slot string) [signal.NumberSpace]float64 {
	var counts [signal.NumberSpace]float64
	since := time.Now().AddDate(0, 0, -momentumWindowDays).Format(model.DrawDateLayout)
	draws, err := e.drawRepo.ListSince(ctx, slot, since)
	if err != nil {
		e.logger.WithError(err).Warn("加载短期动量数据失败")
		return counts
	}
	for _, d := range draws {
		if d.MainNumber >= 0 && d.MainNumber < signal.NumberSpace {
			counts[d.MainNumber]++
		}
	}
	return counts
}

// randomPrediction 无数据时的兜底：密码学随机的互异号码，
// 置信度固定落在[30,50)低区间，methodology标记为random供调用方区分
func (e *PredictionEngine) randomPrediction(slot string, tier model.Tier, prev int, prevSign string) *EngineOutput {
	count := tier.NumbersPerSpin()
	selected := topUpDistinct(nil, count)

	numbers := make([]PredictedNumber, 0, count)
	for _, n := range selected {
		numbers = append(numbers, PredictedNumber{
			Value: n,
			Sign:  model.AnimalSignFor(n),
		})
	}

	// 向下取两位小数，保证严格落在[30,50)内
	confidence := math.Floor((30+cryptoFloat()*20)*100) / 100
	out := &EngineOutput{
		Numbers:     numbers,
		Confidence:  confidence,
		DrawTime:    slot,
		Tier:        tier,
		GeneratedAt: time.Now(),
		Methodology: MethodologyRandom,
	}
	if prev >= 0 {
		out.LastDrawnNumber = &prev
		out.LastDrawnSign = prevSign
	}
	return out
}

// topUpDistinct 用密码学随机号把选集补足到count个（保持互异）
func topUpDistinct(selected []int, count int) []int {
	seen := make(map[int]bool, count)
	for _, n := range selected {
		seen[n] = true
	}
	for len(selected) < count {
		n := cryptoIntn(signal.NumberSpace)
		if seen[n] {
			continue
		}
		seen[n] = true
		selected = append(selected, n)
	}
	return selected
}

func cryptoIntn(n int) int {
	v, err := crand.Int(crand.Reader, big.NewInt(int64(n)))
	if err != nil {
		// crypto/rand 读取失败在常规环境不会发生，退回math/rand保持可用
		return mrand.Intn(n)
	}
	return int(v.Int64())
}

func cryptoFloat() float64 {
	const precision = 1 << 20
	return float64(cryptoIntn(precision)) / float64(precision)
}
