// ABOUTME: Tests for calendar-day and circular time arithmetic.
// ABOUTME: Covers midnight wrap, gap-aware prefix sums, and stddev edge cases.
package window

import (
	"math"
	"testing"
)

func TestAddDaysAcrossMonthBoundary(t *testing.T) {
	if got := AddDays("2025-01-30", 3); got != "2025-02-02" {
		t.Errorf("AddDays = %s, want 2025-02-02", got)
	}
	if got := AddDays("2025-03-01", -1); got != "2025-02-28" {
		t.Errorf("AddDays = %s, want 2025-02-28", got)
	}
}

func TestDaysBetween(t *testing.T) {
	if got := DaysBetween("2025-01-01", "2025-01-15"); got != 14 {
		t.Errorf("DaysBetween = %d, want 14", got)
	}
	if got := DaysBetween("2025-01-15", "2025-01-01"); got != -14 {
		t.Errorf("DaysBetween = %d, want -14", got)
	}
}

func TestRangeDays(t *testing.T) {
	days := RangeDays("2025-01-30", "2025-02-01")
	want := []string{"2025-01-30", "2025-01-31", "2025-02-01"}
	if len(days) != len(want) {
		t.Fatalf("RangeDays len = %d, want %d", len(days), len(want))
	}
	for i := range want {
		if days[i] != want[i] {
			t.Errorf("RangeDays[%d] = %s, want %s", i, days[i], want[i])
		}
	}
	if got := RangeDays("2025-02-01", "2025-01-30"); got != nil {
		t.Errorf("reversed range = %v, want nil", got)
	}
}

func TestCircularDeltaWrapsAtMidnight(t *testing.T) {
	tests := []struct {
		actual, planned, want int
	}{
		{10, 1425, 25},    // 00:10 vs 23:45 plan -> +25
		{1425, 10, -25},   // 23:45 vs 00:10 plan -> -25
		{330, 330, 0},     // on plan
		{390, 330, 60},    // an hour late
		{270, 330, -60},   // an hour early
		{1050, 330, -720}, // exactly opposite stays in range
	}
	for _, tt := range tests {
		if got := CircularDelta(tt.actual, tt.planned); got != tt.want {
			t.Errorf("CircularDelta(%d, %d) = %d, want %d", tt.actual, tt.planned, got, tt.want)
		}
	}
}

func TestCircularMeanAroundMidnight(t *testing.T) {
	got := CircularMean([]int{1430, 10}) // 23:50 and 00:10
	if got == nil {
		t.Fatal("CircularMean returned nil")
	}
	if *got != 0 {
		t.Errorf("CircularMean = %d, want 0", *got)
	}
	if CircularMean(nil) != nil {
		t.Error("CircularMean(nil) should be nil")
	}
}

func TestMedian(t *testing.T) {
	if m := Median([]float64{5, 1, 3}); m == nil || *m != 3 {
		t.Errorf("odd median = %v, want 3", m)
	}
	if m := Median([]float64{4, 1, 3, 2}); m == nil || *m != 2.5 {
		t.Errorf("even median = %v, want 2.5", m)
	}
	if Median(nil) != nil {
		t.Error("Median(nil) should be nil")
	}
}

func TestPopStdDev(t *testing.T) {
	sd := PopStdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	if sd == nil {
		t.Fatal("PopStdDev returned nil")
	}
	if math.Abs(*sd-2.0) > 1e-9 {
		t.Errorf("PopStdDev = %f, want 2.0", *sd)
	}
	// One sample is unknown variance, not zero.
	if PopStdDev([]float64{5}) != nil {
		t.Error("PopStdDev of single sample should be nil")
	}
}

func TestPrefixSumsSkipGaps(t *testing.T) {
	f := func(v float64) *float64 { return &v }
	vals := []*float64{f(1), nil, f(3), nil, f(5)}
	p := NewPrefixSums(vals)

	if got := p.RangeSum(0, 5); got != 9 {
		t.Errorf("RangeSum = %f, want 9", got)
	}
	if got := p.RangeCount(0, 5); got != 3 {
		t.Errorf("RangeCount = %d, want 3", got)
	}
	if m := p.RangeMean(1, 2); m != nil {
		t.Errorf("mean over a gap = %v, want nil", m)
	}
	if m := p.RangeMean(2, 5); m == nil || *m != 4 {
		t.Errorf("RangeMean(2,5) = %v, want 4", m)
	}
	// Out-of-bounds queries clamp rather than panic.
	if got := p.RangeSum(-3, 99); got != 9 {
		t.Errorf("clamped RangeSum = %f, want 9", got)
	}
}

func TestClampAndRound(t *testing.T) {
	if Clamp(2.0, -1.5, 1.5) != 1.5 {
		t.Error("Clamp upper failed")
	}
	if Clamp(-2.0, -1.5, 1.5) != -1.5 {
		t.Error("Clamp lower failed")
	}
	if Round1(50.04) != 50.0 {
		t.Error("Round1 down failed")
	}
	if Round1(50.05) != 50.1 {
		t.Error("Round1 up failed")
	}
}
