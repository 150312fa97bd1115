package service

import (
	"context"
	"testing"
	"time"

	"TandaPredict/internal/model"
)

func newTestEngine(drawRepo *fakeDrawRepo, statsRepo *fakeStatsRepo) *PredictionEngine {
	history := NewHistoryService(&fakeAdapter{}, drawRepo, []string{"09:00"}, time.Minute, testLogger())
	return NewPredictionEngine(history, drawRepo, statsRepo, testLogger())
}

func assertDistinct(t *testing.T, numbers []PredictedNumber) {
	t.Helper()
	seen := make(map[int]bool)
	for _, n := range numbers {
		if n.Value < 0 || n.Value > 99 {
			t.Fatalf("number %d out of range", n.Value)
		}
		if seen[n.Value] {
			t.Fatalf("duplicate number %d", n.Value)
		}
		seen[n.Value] = true
	}
}

func TestGenerateFallsBackToRandomWithoutData(t *testing.T) {
	tests := []struct {
		tier  model.Tier
		count int
	}{
		{model.TierFree, 1},
		{model.TierPremium, 3},
		{model.TierDiamond, 5},
	}
	for _, tt := range tests {
		t.Run(string(tt.tier), func(t *testing.T) {
			engine := newTestEngine(newFakeDrawRepo(), &fakeStatsRepo{})
			out, err := engine.Generate(context.Background(), "09:00", tt.tier)
			if err != nil {
				t.Fatalf("generate: %v", err)
			}
			if out.Methodology != MethodologyRandom {
				t.Fatalf("expected random methodology, got %q", out.Methodology)
			}
			if len(out.Numbers) != tt.count {
				t.Fatalf("expected %d numbers, got %d", tt.count, len(out.Numbers))
			}
			if out.Confidence < 30 || out.Confidence >= 50 {
				t.Fatalf("random confidence must be in [30,50), got %f", out.Confidence)
			}
			assertDistinct(t, out.Numbers)
			if out.LastDrawnNumber != nil {
				t.Fatalf("no history means no last drawn number, got %v", *out.LastDrawnNumber)
			}
		})
	}
}

func TestGenerateTierCountsWithFewStats(t *testing.T) {
	// 只有3行统计也必须准确返回档位数量（不足用随机补齐，不多不少）
	stats := map[int]*model.NumberStat{
		10: {Number: 10, Frequency: 5},
		20: {Number: 20, Frequency: 3},
		30: {Number: 30, Frequency: 1},
	}
	engine := newTestEngine(newFakeDrawRepo(), &fakeStatsRepo{stats: stats})
	out, err := engine.Generate(context.Background(), "09:00", model.TierDiamond)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(out.Numbers) != 5 {
		t.Fatalf("diamond must get exactly 5 numbers, got %d", len(out.Numbers))
	}
	assertDistinct(t, out.Numbers)
	if out.Methodology != MethodologyEnsemble {
		t.Fatalf("stats exist, methodology should be ensemble, got %q", out.Methodology)
	}
}

func TestGenerateSelectsFromCandidates(t *testing.T) {
	stats := make(map[int]*model.NumberStat)
	for n := 0; n < 20; n++ {
		stats[n] = &model.NumberStat{Number: n, Frequency: 20 - n}
	}
	drawRepo := newFakeDrawRepo()
	drawRepo.rows[drawKey("2026-08-28", "09:00")] = &model.DrawResult{
		DrawDate: "2026-08-28", Slot: "09:00", MainNumber: 42, AnimalSign: "Águila",
	}
	engine := newTestEngine(drawRepo, &fakeStatsRepo{stats: stats, edges: map[int]float64{3: 0.4}})

	out, err := engine.Generate(context.Background(), "09:00", model.TierPremium)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(out.Numbers) != 3 {
		t.Fatalf("premium must get exactly 3 numbers, got %d", len(out.Numbers))
	}
	for _, n := range out.Numbers {
		if _, ok := stats[n.Value]; !ok {
			t.Fatalf("selected number %d has no stat row despite 20 candidates", n.Value)
		}
	}
	if out.LastDrawnNumber == nil || *out.LastDrawnNumber != 42 {
		t.Fatalf("expected last drawn number 42, got %v", out.LastDrawnNumber)
	}
	if out.Confidence < 0 || out.Confidence > 95 {
		t.Fatalf("confidence must stay within [0,95], got %f", out.Confidence)
	}
}

func TestGenerateSurvivesStatsError(t *testing.T) {
	// 统计表读失败按"无统计"降级为随机，不向调用方冒错
	engine := newTestEngine(newFakeDrawRepo(), &fakeStatsRepo{err: context.DeadlineExceeded})
	out, err := engine.Generate(context.Background(), "09:00", model.TierFree)
	if err != nil {
		t.Fatalf("generate must not fail on stats error: %v", err)
	}
	if out.Methodology != MethodologyRandom {
		t.Fatalf("expected random fallback, got %q", out.Methodology)
	}
	if len(out.Numbers) != 1 {
		t.Fatalf("free tier must get exactly 1 number, got %d", len(out.Numbers))
	}
}
