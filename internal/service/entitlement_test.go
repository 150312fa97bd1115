package service

import (
	"context"
	"testing"
	"time"

	"TandaPredict/internal/model"
)

func TestResolvePaidSubscriptionWinsVerbatim(t *testing.T) {
	subRepo := newFakeSubscriptionRepo()
	subRepo.subs[1] = &model.Subscription{UserID: 1, Tier: model.TierDiamond, Provider: model.ProviderPaid}
	svc := NewEntitlementService(subRepo, &fakePublisher{}, testLogger())

	ent, err := svc.Resolve(context.Background(), 1)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if ent.Tier != model.TierDiamond {
		t.Fatalf("expected diamond, got %s", ent.Tier)
	}
	if ent.IsTrial {
		t.Fatal("paid subscription must not be flagged as trial")
	}
	if ent.MaxSpins != -1 || ent.NumbersPerSpin != 5 || !ent.HasMLAccess {
		t.Fatalf("diamond quota mapping wrong: %+v", ent)
	}
}

func TestResolveGroupMemberAutoProvision(t *testing.T) {
	subRepo := newFakeSubscriptionRepo()
	subRepo.isMember = true
	pub := &fakePublisher{}
	svc := NewEntitlementService(subRepo, pub, testLogger())

	ent, err := svc.Resolve(context.Background(), 2)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if ent.Tier != model.TierPremium || ent.IsTrial {
		t.Fatalf("group member should get non-trial premium, got %+v", ent)
	}
	if ent.MaxSpins != 10 || ent.NumbersPerSpin != 3 {
		t.Fatalf("premium quota mapping wrong: %+v", ent)
	}
	sub := subRepo.subs[2]
	if sub == nil || sub.Provider != model.ProviderGroupMember {
		t.Fatalf("expected group_member provision row, got %+v", sub)
	}
	if sub.ExpiresAt != nil {
		t.Fatal("group provision must be non-expiring")
	}
	if len(pub.events) != 1 {
		t.Fatalf("expected 1 welcome notification, got %d", len(pub.events))
	}
}

func TestResolveGroupProvisionNeverClobbersPaid(t *testing.T) {
	expired := time.Now().Add(-time.Hour)
	subRepo := newFakeSubscriptionRepo()
	subRepo.isMember = true
	// 付费行已过期 → 走步骤2，但那条paid行必须原样保留
	subRepo.subs[3] = &model.Subscription{UserID: 3, Tier: model.TierDiamond, Provider: model.ProviderPaid, ExpiresAt: &expired}
	svc := NewEntitlementService(subRepo, &fakePublisher{}, testLogger())

	if _, err := svc.Resolve(context.Background(), 3); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if subRepo.subs[3].Provider != model.ProviderPaid {
		t.Fatalf("paid row was clobbered by auto-provision: %+v", subRepo.subs[3])
	}
}

func TestResolveTrialProvisionedOnce(t *testing.T) {
	subRepo := newFakeSubscriptionRepo()
	svc := NewEntitlementService(subRepo, &fakePublisher{}, testLogger())

	ent, err := svc.Resolve(context.Background(), 4)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !ent.IsTrial || ent.Tier != model.TierPremium {
		t.Fatalf("new user should get premium trial, got %+v", ent)
	}
	if ent.TrialEndsAt == nil {
		t.Fatal("trial must carry an expiry")
	}
	firstExpiry := *ent.TrialEndsAt

	// 再次解析：不得重置试用时钟
	again, err := svc.Resolve(context.Background(), 4)
	if err != nil {
		t.Fatalf("resolve again: %v", err)
	}
	if again.TrialEndsAt == nil || !again.TrialEndsAt.Equal(firstExpiry) {
		t.Fatalf("trial clock was reset: first %v, second %v", firstExpiry, again.TrialEndsAt)
	}
}

func TestResolveExpiredTrialFallsToFree(t *testing.T) {
	expired := time.Now().Add(-time.Hour)
	subRepo := newFakeSubscriptionRepo()
	subRepo.subs[5] = &model.Subscription{UserID: 5, Tier: model.TierPremium, Provider: model.ProviderTrial, ExpiresAt: &expired}
	svc := NewEntitlementService(subRepo, &fakePublisher{}, testLogger())

	ent, err := svc.Resolve(context.Background(), 5)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if ent.Tier != model.TierFree {
		t.Fatalf("expired trial should resolve to free, got %s", ent.Tier)
	}
	if ent.MaxSpins != 3 || ent.NumbersPerSpin != 1 || ent.HasMLAccess {
		t.Fatalf("free quota mapping wrong: %+v", ent)
	}
}

func TestResolveNotificationFailureIsSwallowed(t *testing.T) {
	subRepo := newFakeSubscriptionRepo()
	svc := NewEntitlementService(subRepo, &fakePublisher{failAll: true}, testLogger())

	if _, err := svc.Resolve(context.Background(), 6); err != nil {
		t.Fatalf("notification failure must not fail resolution: %v", err)
	}
}
