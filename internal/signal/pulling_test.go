package signal

import (
	"testing"
)

func TestGetPullingNumbers42(t *testing.T) {
	got := GetPullingNumbers(42)
	want := []int{17, 67, 92}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestGetPullingNumbersProperties(t *testing.T) {
	for n := 0; n < NumberSpace; n++ {
		partners := GetPullingNumbers(n)
		if len(partners) != 3 {
			t.Fatalf("number %d: expected 3 partners, got %d", n, len(partners))
		}
		for _, p := range partners {
			if p == n {
				t.Fatalf("number %d: partners must exclude the number itself", n)
			}
			if p%25 != n%25 {
				t.Fatalf("number %d: partner %d not in same mod-25 group", n, p)
			}
		}
	}
}

func TestGetGroupProperties(t *testing.T) {
	for n := 0; n < NumberSpace; n++ {
		group := GetGroup(n)
		if len(group) != 4 {
			t.Fatalf("number %d: expected group of 4, got %d", n, len(group))
		}
		containsSelf := false
		for _, g := range group {
			if g%25 != n%25 {
				t.Fatalf("number %d: group member %d has different mod-25 base", n, g)
			}
			if g == n {
				containsSelf = true
			}
		}
		if !containsSelf {
			t.Fatalf("number %d: group must contain the number itself", n)
		}
	}
}

func TestIsPullingPairSymmetric(t *testing.T) {
	tests := []struct {
		a, b int
		want bool
	}{
		{17, 42, true},
		{42, 92, true},
		{42, 43, false},
		{42, 42, false},
		{0, 75, true},
		{-1, 24, false},
		{100, 0, false},
	}
	for _, tt := range tests {
		if got := IsPullingPair(tt.a, tt.b); got != tt.want {
			t.Fatalf("IsPullingPair(%d,%d)=%v, want %v", tt.a, tt.b, got, tt.want)
		}
		if got := IsPullingPair(tt.b, tt.a); got != tt.want {
			t.Fatalf("IsPullingPair(%d,%d)=%v, want %v (symmetry)", tt.b, tt.a, got, tt.want)
		}
	}
}
