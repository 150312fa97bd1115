package service

import (
	"context"
	"testing"
	"time"

	"TandaPredict/internal/model"
)

func TestSyncLatestCooldownShortCircuits(t *testing.T) {
	adapter := &fakeAdapter{results: []*model.DrawResult{
		{DrawDate: "2026-08-29", Slot: "09:00", MainNumber: 42, AnimalSign: "Águila"},
	}}
	repo := newFakeDrawRepo()
	svc := NewHistoryService(adapter, repo, []string{"09:00"}, time.Minute, testLogger())

	first, err := svc.SyncLatest(context.Background())
	if err != nil {
		t.Fatalf("first sync: %v", err)
	}
	if first.Cached || first.Fetched != 1 {
		t.Fatalf("first sync should fetch, got %+v", first)
	}

	second, err := svc.SyncLatest(context.Background())
	if err != nil {
		t.Fatalf("second sync: %v", err)
	}
	if !second.Cached {
		t.Fatalf("second sync within cooldown should be cached, got %+v", second)
	}
	if adapter.calls != 1 {
		t.Fatalf("expected exactly 1 network fetch, got %d", adapter.calls)
	}
}

func TestSyncLatestReingestIsIdempotent(t *testing.T) {
	adapter := &fakeAdapter{results: []*model.DrawResult{
		{DrawDate: "2026-08-29", Slot: "09:00", MainNumber: 42, AnimalSign: "Águila"},
	}}
	repo := newFakeDrawRepo()
	// 冷却为0，每次调用都真实拉取
	svc := NewHistoryService(adapter, repo, []string{"09:00"}, 0, testLogger())

	for i := 0; i < 3; i++ {
		if _, err := svc.SyncLatest(context.Background()); err != nil {
			t.Fatalf("sync %d: %v", i, err)
		}
	}
	if len(repo.rows) != 1 {
		t.Fatalf("re-ingesting the same (date,slot) must not create duplicates, got %d rows", len(repo.rows))
	}
}

func TestSyncLatestFailedAttemptStillCoolsDown(t *testing.T) {
	adapter := &fakeAdapter{err: context.DeadlineExceeded}
	repo := newFakeDrawRepo()
	svc := NewHistoryService(adapter, repo, []string{"09:00"}, time.Minute, testLogger())

	if _, err := svc.SyncLatest(context.Background()); err == nil {
		t.Fatal("expected fetch error")
	}
	outcome, err := svc.SyncLatest(context.Background())
	if err != nil {
		t.Fatalf("second call should hit cooldown, got error: %v", err)
	}
	if !outcome.Cached {
		t.Fatalf("expected cached outcome after failed attempt, got %+v", outcome)
	}
	if adapter.calls != 1 {
		t.Fatalf("expected exactly 1 fetch attempt, got %d", adapter.calls)
	}
}
