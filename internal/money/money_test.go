package money

import (
	"math"
	"testing"
)

func TestToFloatStrings(t *testing.T) {
	if got := ToFloat("199.50", 0); got != 199.5 {
		t.Fatalf("expected 199.5, got %v", got)
	}
	if got := ToFloat("  40 ", 0); got != 40 {
		t.Fatalf("expected 40, got %v", got)
	}
	if got := ToFloat("abc", 7); got != 7 {
		t.Fatalf("expected fallback 7, got %v", got)
	}
	if got := ToFloat("", 3); got != 3 {
		t.Fatalf("expected fallback 3, got %v", got)
	}
}

func TestToFloatNilAndNumbers(t *testing.T) {
	if got := ToFloat(nil, 9); got != 9 {
		t.Fatalf("expected fallback for nil, got %v", got)
	}
	if got := ToFloat(12, 0); got != 12 {
		t.Fatalf("expected 12, got %v", got)
	}
	if got := ToFloat(12.5, 0); got != 12.5 {
		t.Fatalf("expected 12.5, got %v", got)
	}
}

func TestToFloatNonFinite(t *testing.T) {
	if got := ToFloat(math.NaN(), 1); got != 1 {
		t.Fatalf("NaN must fall back, got %v", got)
	}
	if got := ToFloat(math.Inf(1), 2); got != 2 {
		t.Fatalf("Inf must fall back, got %v", got)
	}
}

func TestRound2(t *testing.T) {
	if got := Round2(36.005); got != 36.01 {
		t.Fatalf("expected 36.01, got %v", got)
	}
	if got := Round2(-1.005); got != -1 {
		t.Fatalf("expected -1, got %v", got)
	}
}

func TestMinorUnits(t *testing.T) {
	if got := MinorUnits(266); got != 26600 {
		t.Fatalf("expected 26600, got %d", got)
	}
	if got := MinorUnits(99.999); got != 10000 {
		t.Fatalf("expected 10000, got %d", got)
	}
}
