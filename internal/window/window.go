// ABOUTME: Calendar-day and time-of-day arithmetic for rolling windows.
// ABOUTME: Circular minute deltas, population stddev, median, prefix sums.
package window

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// DayLayout is the wire format for logical days. All engine dates are
// plain YYYY-MM-DD strings in the user's logical day, never timestamps.
const DayLayout = "2006-01-02"

// MinutesPerDay is the circular modulus for time-of-day values.
const MinutesPerDay = 1440

// ParseDay validates a YYYY-MM-DD string.
func ParseDay(day string) (time.Time, error) {
	t, err := time.Parse(DayLayout, day)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid day %q: %w", day, err)
	}
	return t, nil
}

// AddDays returns day shifted by n calendar days. Invalid input is
// returned unchanged; callers validate at the ingestion boundary.
func AddDays(day string, n int) string {
	t, err := ParseDay(day)
	if err != nil {
		return day
	}
	return t.AddDate(0, 0, n).Format(DayLayout)
}

// DaysBetween returns b - a in calendar days (positive when b is later).
func DaysBetween(a, b string) int {
	ta, errA := ParseDay(a)
	tb, errB := ParseDay(b)
	if errA != nil || errB != nil {
		return 0
	}
	return int(tb.Sub(ta).Hours() / 24)
}

// RangeDays returns every day from start to end inclusive, oldest first.
// Returns nil when end precedes start.
func RangeDays(start, end string) []string {
	n := DaysBetween(start, end)
	if n < 0 {
		return nil
	}
	days := make([]string, 0, n+1)
	for i := 0; i <= n; i++ {
		days = append(days, AddDays(start, i))
	}
	return days
}

// Today returns the current logical day.
func Today() string {
	return time.Now().Format(DayLayout)
}

// CircularDelta returns the signed shortest distance in minutes from
// planned to actual on a mod-1440 clock. A bedtime of 00:10 against a
// 23:45 plan is +25, not -1415.
func CircularDelta(actualMin, plannedMin int) int {
	d := (actualMin - plannedMin) % MinutesPerDay
	if d > MinutesPerDay/2 {
		d -= MinutesPerDay
	}
	if d < -MinutesPerDay/2 {
		d += MinutesPerDay
	}
	return d
}

// CircularMean averages times-of-day on the circle, so 23:50 and 00:10
// average to midnight rather than noon.
func CircularMean(minutes []int) *int {
	if len(minutes) == 0 {
		return nil
	}
	var sinSum, cosSum float64
	for _, m := range minutes {
		rad := 2 * math.Pi * float64(m) / MinutesPerDay
		sinSum += math.Sin(rad)
		cosSum += math.Cos(rad)
	}
	rad := math.Atan2(sinSum, cosSum)
	m := int(math.Round(rad * MinutesPerDay / (2 * math.Pi)))
	m = ((m % MinutesPerDay) + MinutesPerDay) % MinutesPerDay
	return &m
}

// Mean returns the arithmetic mean, or nil for an empty slice.
func Mean(vals []float64) *float64 {
	if len(vals) == 0 {
		return nil
	}
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	m := sum / float64(len(vals))
	return &m
}

// Median returns the middle value (mean of the two middles for even
// counts), or nil for an empty slice.
func Median(vals []float64) *float64 {
	if len(vals) == 0 {
		return nil
	}
	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	var m float64
	if len(sorted)%2 == 0 {
		m = (sorted[mid-1] + sorted[mid]) / 2
	} else {
		m = sorted[mid]
	}
	return &m
}

// PopStdDev returns the population standard deviation, or nil when
// fewer than two samples are available. Insufficient samples must read
// as unknown, not as zero variance.
func PopStdDev(vals []float64) *float64 {
	if len(vals) < 2 {
		return nil
	}
	mean := *Mean(vals)
	var ss float64
	for _, v := range vals {
		d := v - mean
		ss += d * d
	}
	sd := math.Sqrt(ss / float64(len(vals)))
	return &sd
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Round1 rounds to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// PrefixSums answers sum/count range queries over a series with gaps in
// O(1) after O(n) construction. Gaps are represented as nil values and
// never contribute to either sum or count.
type PrefixSums struct {
	sums   []float64
	counts []int
}

// NewPrefixSums builds prefix aggregates over optional values.
func NewPrefixSums(vals []*float64) *PrefixSums {
	p := &PrefixSums{
		sums:   make([]float64, len(vals)+1),
		counts: make([]int, len(vals)+1),
	}
	for i, v := range vals {
		p.sums[i+1] = p.sums[i]
		p.counts[i+1] = p.counts[i]
		if v != nil {
			p.sums[i+1] += *v
			p.counts[i+1]++
		}
	}
	return p
}

// RangeSum returns the sum of present values in [lo, hi).
func (p *PrefixSums) RangeSum(lo, hi int) float64 {
	lo, hi = p.bound(lo, hi)
	return p.sums[hi] - p.sums[lo]
}

// RangeCount returns how many values are present in [lo, hi).
func (p *PrefixSums) RangeCount(lo, hi int) int {
	lo, hi = p.bound(lo, hi)
	return p.counts[hi] - p.counts[lo]
}

// RangeMean returns the mean of present values in [lo, hi), or nil when
// the range holds no observations.
func (p *PrefixSums) RangeMean(lo, hi int) *float64 {
	n := p.RangeCount(lo, hi)
	if n == 0 {
		return nil
	}
	m := p.RangeSum(lo, hi) / float64(n)
	return &m
}

func (p *PrefixSums) bound(lo, hi int) (int, int) {
	n := len(p.sums) - 1
	if lo < 0 {
		lo = 0
	}
	if hi > n {
		hi = n
	}
	if lo > hi {
		lo = hi
	}
	return lo, hi
}
