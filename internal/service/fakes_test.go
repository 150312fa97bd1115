package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"

	"TandaPredict/internal/model"

	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// ---------- 开奖仓储 ----------

type fakeDrawRepo struct {
	rows    map[string]*model.DrawResult // key = date|slot
	listErr error
}

func newFakeDrawRepo() *fakeDrawRepo {
	return &fakeDrawRepo{rows: make(map[string]*model.DrawResult)}
}

func drawKey(date, slot string) string { return date + "|" + slot }

func (f *fakeDrawRepo) UpsertDraws(_ context.Context, draws []*model.DrawResult) (int, error) {
	for _, d := range draws {
		f.rows[drawKey(d.DrawDate, d.Slot)] = d
	}
	return len(draws), nil
}

func (f *fakeDrawRepo) sorted(slot string) []*model.DrawResult {
	var out []*model.DrawResult
	for _, d := range f.rows {
		if slot == "" || d.Slot == slot {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DrawDate == out[j].DrawDate {
			return out[i].Slot < out[j].Slot
		}
		return out[i].DrawDate < out[j].DrawDate
	})
	return out
}

func (f *fakeDrawRepo) ListSequence(_ context.Context, slot string, _ int) ([]int, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var seq []int
	for _, d := range f.sorted(slot) {
		seq = append(seq, d.MainNumber)
	}
	return seq, nil
}

func (f *fakeDrawRepo) ListSince(_ context.Context, slot string, sinceDate string) ([]*model.DrawResult, error) {
	var out []*model.DrawResult
	for _, d := range f.sorted(slot) {
		if d.DrawDate >= sinceDate {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeDrawRepo) LastDraw(_ context.Context, slot string) (*model.DrawResult, error) {
	all := f.sorted(slot)
	if len(all) == 0 {
		return nil, errors.New("record not found")
	}
	return all[len(all)-1], nil
}

func (f *fakeDrawRepo) ListRecent(_ context.Context, slot string, limit int) ([]*model.DrawResult, error) {
	all := f.sorted(slot)
	var out []*model.DrawResult
	for i := len(all) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, all[i])
	}
	return out, nil
}

// ---------- 聚合仓储 ----------

type fakeStatsRepo struct {
	stats map[int]*model.NumberStat
	edges map[int]float64
	err   error
}

func (f *fakeStatsRepo) NumberStats(_ context.Context, _ string) (map[int]*model.NumberStat, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.stats, nil
}

func (f *fakeStatsRepo) MarkovEdges(_ context.Context, _ int, _ string) (map[int]float64, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.edges, nil
}

// ---------- 台账仓储 ----------

type fakeLedgerRepo struct {
	counts      map[string]int // key = userID|date
	predictions []*model.Prediction
}

func newFakeLedgerRepo() *fakeLedgerRepo {
	return &fakeLedgerRepo{counts: make(map[string]int)}
}

func ledgerKey(userID uint64, date string) string { return fmt.Sprintf("%d|%s", userID, date) }

func (f *fakeLedgerRepo) SpinsUsed(_ context.Context, userID uint64, date string) (int, error) {
	return f.counts[ledgerKey(userID, date)], nil
}

func (f *fakeLedgerRepo) IncrementSpin(_ context.Context, userID uint64, date string) error {
	f.counts[ledgerKey(userID, date)]++
	return nil
}

func (f *fakeLedgerRepo) CreatePrediction(_ context.Context, p *model.Prediction) (string, error) {
	if p.PredictionUUID == "" {
		p.PredictionUUID = fmt.Sprintf("pred-%d", len(f.predictions)+1)
	}
	f.predictions = append(f.predictions, p)
	return p.PredictionUUID, nil
}

func (f *fakeLedgerRepo) SettlePrediction(_ context.Context, uuid string, actual int, wasCorrect bool) error {
	for _, p := range f.predictions {
		if p.PredictionUUID == uuid {
			p.ActualResult = &actual
			p.WasCorrect = &wasCorrect
			return nil
		}
	}
	return errors.New("prediction not found")
}

// ---------- 订阅仓储 ----------

type fakeSubscriptionRepo struct {
	subs     map[uint64]*model.Subscription
	isMember bool
}

func newFakeSubscriptionRepo() *fakeSubscriptionRepo {
	return &fakeSubscriptionRepo{subs: make(map[uint64]*model.Subscription)}
}

func (f *fakeSubscriptionRepo) Get(_ context.Context, userID uint64) (*model.Subscription, error) {
	sub, ok := f.subs[userID]
	if !ok {
		return nil, nil
	}
	clone := *sub
	return &clone, nil
}

func (f *fakeSubscriptionRepo) InsertIfAbsent(_ context.Context, sub *model.Subscription) (bool, error) {
	if _, ok := f.subs[sub.UserID]; ok {
		return false, nil
	}
	clone := *sub
	f.subs[sub.UserID] = &clone
	return true, nil
}

func (f *fakeSubscriptionRepo) UpsertUnlessPaid(_ context.Context, sub *model.Subscription) error {
	existing, ok := f.subs[sub.UserID]
	if ok && existing.Provider != model.ProviderTrial {
		return nil // 非trial行保持不动
	}
	clone := *sub
	f.subs[sub.UserID] = &clone
	return nil
}

func (f *fakeSubscriptionRepo) IsActiveGroupMember(_ context.Context, _ uint64) (bool, error) {
	return f.isMember, nil
}

// ---------- 发布出口 ----------

type fakePublisher struct {
	events  []*model.FeedEvent
	failAll bool
}

func (f *fakePublisher) Publish(_ context.Context, event *model.FeedEvent) error {
	if f.failAll {
		return errors.New("publish sink down")
	}
	f.events = append(f.events, event)
	return nil
}

// ---------- 开奖源适配器 ----------

type fakeAdapter struct {
	results []*model.DrawResult
	calls   int
	err     error
}

func (f *fakeAdapter) GetName() string { return "fake" }

func (f *fakeAdapter) FetchLatest(_ context.Context, _ []string) ([]*model.DrawResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.results, nil
}

// ---------- 引擎替身（播报测试用） ----------

type fakeGenerator struct {
	outputs map[string]*EngineOutput
	errs    map[string]error
}

func (f *fakeGenerator) Generate(_ context.Context, slot string, _ model.Tier) (*EngineOutput, error) {
	if err, ok := f.errs[slot]; ok {
		return nil, err
	}
	if out, ok := f.outputs[slot]; ok {
		return out, nil
	}
	return nil, errors.New("no output configured")
}
