// ABOUTME: Fused 0-100 disturbance score over normalized physiological deltas.
// ABOUTME: Pure and total: absent inputs contribute 0 and never bias away from 50.
package disturb

import (
	"fmt"

	"github.com/conradlabs/coach/internal/window"
)

// Full-swing constants: the per-metric delta magnitude that counts as one
// full unit of disturbance, normalizing heterogeneous units onto a common
// scale.
const (
	SwingHRVPct   = 8.0
	SwingRHRBpm   = 3.0
	SwingSleepPct = 10.0
	SwingProxyPct = 10.0
	SwingLateRate = 3.0 / 7.0
	NormClampAbs  = 1.5
	NeutralScore  = 50.0
	ScorePerSwing = 25.0
)

// Fusion weights. Drift is a one-sided badness signal and carries the
// smallest weight.
const (
	WeightHRV   = 0.30
	WeightRHR   = 0.20
	WeightSleep = 0.20
	WeightProxy = 0.20
	WeightDrift = 0.10
)

// Deltas are the raw deviations of the short window against the personal
// baseline. Nil means the metric was not measurable for this day, which
// is different from a zero delta.
type Deltas struct {
	HRVPct   *float64 // % vs baseline, negative is worse
	RHRBpm   *float64 // bpm vs baseline, positive is worse
	SleepPct *float64 // % vs baseline, negative is worse
	ProxyPct *float64 // % vs baseline, negative is worse

	LateNights7d     int
	MeasuredNights7d int
}

// Components are the normalized, direction-aligned contributions, each in
// [-1.5, 1.5] (drift in [0, 1.5]). Positive always means more disturbed.
type Components struct {
	HRV      float64 `json:"hrv"`
	RHR      float64 `json:"rhr"`
	Sleep    float64 `json:"sleep"`
	Proxy    float64 `json:"proxy"`
	Drift    float64 `json:"drift"`
	LateRate float64 `json:"lateRate"`
}

// Result is the fused disturbance view for one day. Score 50 is neutral.
type Result struct {
	Score      float64    `json:"score"`
	Components Components `json:"components"`
	Reasons    []string   `json:"reasons"`
}

// Score fuses the deltas into a 0-100 disturbance score. It is a
// deterministic pure function of its inputs and never fails: every absent
// input contributes exactly 0.
func Score(d Deltas) Result {
	var c Components
	reasons := []string{}

	// Lower-is-worse metrics flip sign so positive means disturbed.
	if d.HRVPct != nil {
		c.HRV = window.Clamp(-*d.HRVPct/SwingHRVPct, -NormClampAbs, NormClampAbs)
		if *d.HRVPct <= -SwingHRVPct {
			reasons = append(reasons, fmt.Sprintf("hrv %.1f%% below baseline", -*d.HRVPct))
		}
	}
	if d.RHRBpm != nil {
		c.RHR = window.Clamp(*d.RHRBpm/SwingRHRBpm, -NormClampAbs, NormClampAbs)
		if *d.RHRBpm >= SwingRHRBpm {
			reasons = append(reasons, fmt.Sprintf("resting hr +%.1f bpm over baseline", *d.RHRBpm))
		}
	}
	if d.SleepPct != nil {
		c.Sleep = window.Clamp(-*d.SleepPct/SwingSleepPct, -NormClampAbs, NormClampAbs)
		if *d.SleepPct <= -SwingSleepPct {
			reasons = append(reasons, fmt.Sprintf("sleep %.1f%% below baseline", -*d.SleepPct))
		}
	}
	if d.ProxyPct != nil {
		c.Proxy = window.Clamp(-*d.ProxyPct/SwingProxyPct, -NormClampAbs, NormClampAbs)
		if *d.ProxyPct <= -SwingProxyPct {
			reasons = append(reasons, fmt.Sprintf("androgen proxy %.1f%% below baseline", -*d.ProxyPct))
		}
	}

	// Late-rate needs at least one measured night; zero measured nights
	// means no drift evidence, not perfect drift.
	if d.MeasuredNights7d > 0 {
		c.LateRate = float64(d.LateNights7d) / float64(d.MeasuredNights7d)
		c.Drift = window.Clamp(c.LateRate/SwingLateRate, 0, NormClampAbs)
		if c.LateRate >= SwingLateRate {
			reasons = append(reasons, fmt.Sprintf("%d of %d nights past planned bedtime", d.LateNights7d, d.MeasuredNights7d))
		}
	}

	raw := WeightHRV*c.HRV + WeightRHR*c.RHR + WeightSleep*c.Sleep +
		WeightProxy*c.Proxy + WeightDrift*c.Drift

	score := window.Clamp(window.Round1(NeutralScore+raw*ScorePerSwing), 0, 100)
	return Result{Score: score, Components: c, Reasons: reasons}
}

// Cortisol alignment thresholds: each signal fires at exactly one full
// swing of badness.
const (
	cortisolHRVPct   = -SwingHRVPct
	cortisolRHRBpm   = SwingRHRBpm
	cortisolSleepPct = -SwingSleepPct
	cortisolProxyPct = -SwingProxyPct
)

// CortisolFlagAligned reports whether at least 3 of the 4 suppression
// signals fire at once: an AND-of-several-signals alarm stricter than any
// continuous score level.
func CortisolFlagAligned(d Deltas) bool {
	fired := 0
	if d.HRVPct != nil && *d.HRVPct <= cortisolHRVPct {
		fired++
	}
	if d.RHRBpm != nil && *d.RHRBpm >= cortisolRHRBpm {
		fired++
	}
	if d.SleepPct != nil && *d.SleepPct <= cortisolSleepPct {
		fired++
	}
	if d.ProxyPct != nil && *d.ProxyPct <= cortisolProxyPct {
		fired++
	}
	return fired >= 3
}
