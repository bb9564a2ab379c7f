package pipeline

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestSizeScaling(t *testing.T) {
	capital := decimal.NewFromInt(1000)
	tests := []struct {
		name       string
		confidence int
		threshold  int
		want       string
	}{
		{"at threshold earns the floor", 70, 70, "30"},
		{"midway between floor and cap", 90, 70, "43.33"},
		{"full confidence earns the cap", 100, 70, "50"},
		{"just above threshold", 71, 70, "30.67"},
		{"below threshold clamps to floor", 50, 70, "30"},
	}
	for _, tt := range tests {
		got := Size(tt.confidence, capital, 0.05, tt.threshold)
		if !got.Equal(decimal.RequireFromString(tt.want)) {
			t.Fatalf("%s: Size(%d) = %s, want %s", tt.name, tt.confidence, got, tt.want)
		}
	}
}

func TestSizeBounds(t *testing.T) {
	capital := decimal.NewFromInt(1000)
	maxAlloc := decimal.NewFromInt(50)  // capital * pct
	minAlloc := decimal.NewFromInt(30)  // 0.6 floor
	for confidence := 0; confidence <= 100; confidence += 5 {
		got := Size(confidence, capital, 0.05, 80)
		if got.LessThan(minAlloc) || got.GreaterThan(maxAlloc) {
			t.Fatalf("Size(%d) = %s outside [%s, %s]", confidence, got, minAlloc, maxAlloc)
		}
	}
}

func TestSizeMonotonic(t *testing.T) {
	capital := decimal.NewFromInt(1000)
	prev := decimal.Zero
	for confidence := 80; confidence <= 100; confidence++ {
		got := Size(confidence, capital, 0.05, 80)
		if got.LessThan(prev) {
			t.Fatalf("Size(%d) = %s < Size(%d) = %s", confidence, got, confidence-1, prev)
		}
		prev = got
	}
}

func TestSizeThresholdOneHundred(t *testing.T) {
	// threshold 100 would divide by zero; the sizer falls back to the floor
	// allocation instead of panicking.
	got := Size(100, decimal.NewFromInt(1000), 0.05, 100)
	if !got.Equal(decimal.NewFromInt(30)) {
		t.Fatalf("Size(100, thr=100) = %s, want 30", got)
	}
}

func TestSizeRoundsToCents(t *testing.T) {
	got := Size(91, decimal.NewFromInt(777), 0.03, 80)
	if got.Exponent() < -2 {
		t.Fatalf("amount %s not rounded to cents", got)
	}
}
