// ABOUTME: Primary driver ranker: picks the single dominant disruption.
// ABOUTME: Severity scales are calibrated so domains compare on one axis.
package driver

import (
	"fmt"
	"sort"
)

// Kind names a candidate disruption source.
type Kind string

const (
	SleepShortfall Kind = "sleep_shortfall"
	WakeDrift      Kind = "wake_drift"
	BedtimeDrift   Kind = "bedtime_drift"
	HRVDrop        Kind = "hrv_drop"
	RHRRise        Kind = "rhr_rise"
	ProxyDrop      Kind = "proxy_drop"
	AwakeInBed     Kind = "awake_in_bed"
)

// Firing thresholds and severity scales. Each severity is a linear
// scaling of the raw deviation chosen so one full swing of any metric
// lands in a comparable band.
const (
	sleepShortfallMinFire = 45.0 // minutes
	wakeDriftMinFire      = 30.0
	bedDriftMinFire       = 30.0
	hrvDropPctFire        = 8.0
	rhrRiseBpmFire        = 3.0
	proxyDropPctFire      = 10.0
	awakeInBedMinFire     = 45.0

	wakeDriftScale  = 0.9
	bedDriftScale   = 0.8
	hrvDropScale    = 0.6
	rhrRiseScale    = 4.0
	proxyDropScale  = 0.6
	awakeInBedScale = 0.6
)

// Candidate is one independently computed disruption with its severity.
type Candidate struct {
	Kind           Kind    `json:"kind"`
	Severity       float64 `json:"severity"`
	Detail         string  `json:"detail"`
	Recommendation string  `json:"recommendation"`
}

// Rank sorts candidates by severity descending and returns the dominant
// one, or nil when nothing cleared its firing threshold. Ties break by
// kind name so the result is deterministic.
func Rank(candidates []Candidate) *Candidate {
	if len(candidates) == 0 {
		return nil
	}
	sorted := make([]Candidate, len(candidates))
	copy(sorted, candidates)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Severity != sorted[j].Severity {
			return sorted[i].Severity > sorted[j].Severity
		}
		return sorted[i].Kind < sorted[j].Kind
	})
	top := sorted[0]
	return &top
}

// Builders. Each returns nil when the deviation did not clear its firing
// threshold or was not measurable.

// SleepShortfallCandidate fires on minutes short of the planned block.
// Severity is the shortfall itself.
func SleepShortfallCandidate(shortfallMin *float64) *Candidate {
	if shortfallMin == nil || *shortfallMin < sleepShortfallMinFire {
		return nil
	}
	return &Candidate{
		Kind:           SleepShortfall,
		Severity:       *shortfallMin,
		Detail:         fmt.Sprintf("%.0f min short of planned sleep", *shortfallMin),
		Recommendation: "protect the full sleep block tonight; move bedtime up, not wake time back",
	}
}

// WakeDriftCandidate fires on absolute circular wake-time drift.
func WakeDriftCandidate(driftMin *float64) *Candidate {
	d := absPtr(driftMin)
	if d == nil || *d < wakeDriftMinFire {
		return nil
	}
	return &Candidate{
		Kind:           WakeDrift,
		Severity:       *d * wakeDriftScale,
		Detail:         fmt.Sprintf("wake time drifting %.0f min off plan", *d),
		Recommendation: "anchor the wake time first; bedtime follows it within a few days",
	}
}

// BedtimeDriftCandidate fires on absolute circular bedtime drift.
func BedtimeDriftCandidate(driftMin *float64) *Candidate {
	d := absPtr(driftMin)
	if d == nil || *d < bedDriftMinFire {
		return nil
	}
	return &Candidate{
		Kind:           BedtimeDrift,
		Severity:       *d * bedDriftScale,
		Detail:         fmt.Sprintf("bedtime drifting %.0f min off plan", *d),
		Recommendation: "start the wind-down alarm 30 min before planned lights-out",
	}
}

// HRVDropCandidate fires on percent drop against baseline.
func HRVDropCandidate(pct *float64) *Candidate {
	if pct == nil || *pct > -hrvDropPctFire {
		return nil
	}
	return &Candidate{
		Kind:           HRVDrop,
		Severity:       -*pct * hrvDropScale,
		Detail:         fmt.Sprintf("hrv %.1f%% below baseline", -*pct),
		Recommendation: "cut training intensity until hrv recovers toward baseline",
	}
}

// RHRRiseCandidate fires on resting-heart-rate rise in bpm.
func RHRRiseCandidate(bpm *float64) *Candidate {
	if bpm == nil || *bpm < rhrRiseBpmFire {
		return nil
	}
	return &Candidate{
		Kind:           RHRRise,
		Severity:       *bpm * rhrRiseScale,
		Detail:         fmt.Sprintf("resting hr +%.1f bpm over baseline", *bpm),
		Recommendation: "check hydration, alcohol, and late meals; keep cardio in zone 2",
	}
}

// ProxyDropCandidate fires on percent drop of the androgen proxy.
func ProxyDropCandidate(pct *float64) *Candidate {
	if pct == nil || *pct > -proxyDropPctFire {
		return nil
	}
	return &Candidate{
		Kind:           ProxyDrop,
		Severity:       -*pct * proxyDropScale,
		Detail:         fmt.Sprintf("androgen proxy %.1f%% below baseline", -*pct),
		Recommendation: "prioritize sleep duration and calorie adequacy this week",
	}
}

// AwakeInBedCandidate fires on minutes awake in bed.
func AwakeInBedCandidate(min *float64) *Candidate {
	if min == nil || *min < awakeInBedMinFire {
		return nil
	}
	return &Candidate{
		Kind:           AwakeInBed,
		Severity:       *min * awakeInBedScale,
		Detail:         fmt.Sprintf("%.0f min awake in bed", *min),
		Recommendation: "get out of bed when awake; keep the bed-sleep association tight",
	}
}

// Collect builds the fired candidates from a full set of deviations and
// drops the nils.
func Collect(cs ...*Candidate) []Candidate {
	out := make([]Candidate, 0, len(cs))
	for _, c := range cs {
		if c != nil {
			out = append(out, *c)
		}
	}
	return out
}

func absPtr(v *float64) *float64 {
	if v == nil {
		return nil
	}
	a := *v
	if a < 0 {
		a = -a
	}
	return &a
}
