// ABOUTME: Per-day regimen color classifier with temporal hysteresis.
// ABOUTME: Hysteresis state is an explicit accumulator folded over sorted days.
package regimen

import (
	"fmt"

	"github.com/conradlabs/coach/internal/baseline"
	"github.com/conradlabs/coach/internal/window"
)

// Color is the mutually-exclusive per-day regimen classification.
type Color string

const (
	LeanGain   Color = "LEAN_GAIN"
	Cut        Color = "CUT"
	Recomp     Color = "RECOMP"
	Deload     Color = "DELOAD"
	Suppressed Color = "SUPPRESSED"
	Unknown    Color = "UNKNOWN"
)

// Classification thresholds.
const (
	hysteresisMinDays = 4

	suppressHRVRatio   = 0.90
	suppressSleepRatio = 0.85
	suppressProxyRatio = 0.80

	// Proxy only counts toward suppression with real coverage.
	proxyMinOf7  = 4
	proxyMinOf28 = 10

	gainBandLow  = 0.25 // lb/week
	gainBandHigh = 0.75
	cutThreshold = -0.25
	waistRecomp  = 0.25 // inches down over 14d

	hardStrain  = 70.0
	lightStrain = 40.0
)

// DayMark is one day's classification. Depends only on the prior 28 days.
type DayMark struct {
	Day        string   `json:"day"`
	Color      Color    `json:"color"`
	Confidence int      `json:"confidence"`
	Reasons    []string `json:"reasons,omitempty"`
	Missing    []string `json:"missing,omitempty"`
	Glyph      string   `json:"glyph"`
}

// TrainingDay is the per-day training evidence for the deload check.
type TrainingDay struct {
	Strain   *float64
	LiftDone *bool
}

// Inputs are the metric series the classifier reads. All series carry
// explicit gaps; the classifier never invents values.
type Inputs struct {
	Weight *baseline.Series // lb
	Waist  *baseline.Series // inches
	HRV    *baseline.Series // ms
	Sleep  *baseline.Series // minutes
	Proxy  *baseline.Series // score

	Training map[string]TrainingDay
}

// hysteresisState threads forward across a single date-ordered
// classification run. It is never persisted: classifying the same range
// twice is idempotent.
type hysteresisState struct {
	prevColor       Color
	candidateColor  Color
	candidateStreak int
}

func (h *hysteresisState) reset(confirmed Color) {
	h.prevColor = confirmed
	h.candidateColor = ""
	h.candidateStreak = 0
}

// ClassifyRange classifies every day from start to end inclusive,
// oldest first, threading hysteresis through the fold.
func ClassifyRange(in Inputs, startDay, endDay string) []DayMark {
	days := window.RangeDays(startDay, endDay)
	marks := make([]DayMark, 0, len(days))
	var h hysteresisState
	for _, day := range days {
		marks = append(marks, classifyDay(in, day, &h))
	}
	return marks
}

func classifyDay(in Inputs, day string, h *hysteresisState) DayMark {
	mark := DayMark{Day: day}

	trend := WeeklyTrend(in.Weight, day)
	suppressed, suppressReasons := suppressionCheck(in, day)

	mark.Glyph = glyph(trend, suppressed, false)

	// Suppression pre-empts everything and resets hysteresis.
	if suppressed {
		mark.Color = Suppressed
		mark.Confidence = 85
		mark.Reasons = suppressReasons
		h.reset(Suppressed)
		return mark
	}

	if deloadCheck(in.Training, day) {
		mark.Color = Deload
		mark.Confidence = 75
		mark.Reasons = []string{"light day after hard training block"}
		h.reset(Deload)
		return mark
	}

	candidate, conf, reasons, missing := trendCandidate(in, day, trend)
	mark.Reasons = reasons
	mark.Missing = missing

	// Previous SUPPRESSED/DELOAD/UNKNOWN states yield immediately; only
	// a confirmed trend color is protected against flapping.
	protected := h.prevColor == LeanGain || h.prevColor == Cut || h.prevColor == Recomp
	switch {
	case !protected || candidate == h.prevColor:
		mark.Color = candidate
		mark.Confidence = conf
		h.reset(candidate)
	default:
		if candidate == h.candidateColor {
			h.candidateStreak++
		} else {
			h.candidateColor = candidate
			h.candidateStreak = 1
		}
		if h.candidateStreak >= hysteresisMinDays {
			mark.Color = candidate
			mark.Confidence = conf
			h.reset(candidate)
		} else {
			mark.Color = h.prevColor
			mark.Confidence = 50
			mark.Reasons = append(mark.Reasons,
				fmt.Sprintf("holding %s: %s candidate on day %d of %d", h.prevColor, candidate, h.candidateStreak, hysteresisMinDays))
		}
	}

	if mark.Color == Recomp {
		mark.Glyph = glyph(trend, false, true)
	}
	return mark
}

// suppressionCheck compares today's HRV/sleep/proxy against their 14-day
// median baselines. Two of the available signals below their ratio
// thresholds classifies the day SUPPRESSED outright.
func suppressionCheck(in Inputs, day string) (bool, []string) {
	fired := 0
	var reasons []string

	check := func(s *baseline.Series, ratio float64, label string) {
		today := todayValue(s, day)
		base := baseline.MedianBaseline(s, day, 3)
		if today == nil || base == nil || *base == 0 {
			return
		}
		if *today < ratio**base {
			fired++
			reasons = append(reasons, fmt.Sprintf("%s at %.0f%% of 14d baseline", label, *today / *base * 100))
		}
	}

	check(in.HRV, suppressHRVRatio, "hrv")
	check(in.Sleep, suppressSleepRatio, "sleep")
	if in.Proxy.WindowCount(day, 7) >= proxyMinOf7 && in.Proxy.WindowCount(day, 28) >= proxyMinOf28 {
		check(in.Proxy, suppressProxyRatio, "androgen proxy")
	}

	return fired >= 2, reasons
}

// todayValue prefers the day's own reading, falling back to the 3-day
// mean ending today so one missed morning does not blind the check.
func todayValue(s *baseline.Series, day string) *float64 {
	if v := s.Value(day); v != nil {
		return v
	}
	return s.RollingMean(day, 3, 1)
}

// deloadCheck: a light or rest day after at least 3 hard days in the
// prior 7 reads as a deliberate deload, not a failed regimen.
func deloadCheck(training map[string]TrainingDay, day string) bool {
	today := training[day]
	lightToday := (today.LiftDone == nil || !*today.LiftDone) &&
		(today.Strain == nil || *today.Strain < lightStrain)
	if !lightToday {
		return false
	}

	hard := 0
	for i := 1; i <= 7; i++ {
		td := training[window.AddDays(day, -i)]
		switch {
		case td.Strain != nil && *td.Strain >= hardStrain:
			hard++
		case td.Strain == nil && td.LiftDone != nil && *td.LiftDone:
			hard++
		}
	}
	return hard >= 3
}

// WeeklyTrend is the 7-day average now minus the 7-day average a week
// ago, in lb/week. Needs at least 4 weight entries across the 14 days.
func WeeklyTrend(weight *baseline.Series, day string) *float64 {
	if weight.WindowCount(day, 14) < 4 {
		return nil
	}
	now := weight.RollingMean(day, 7, 2)
	prev := weight.RollingMean(window.AddDays(day, -7), 7, 2)
	if now == nil || prev == nil {
		return nil
	}
	t := *now - *prev
	return &t
}

func trendCandidate(in Inputs, day string, trend *float64) (Color, int, []string, []string) {
	if trend == nil {
		return Unknown, 30, nil, []string{"need 4 weight entries across 14 days"}
	}

	switch {
	case *trend >= gainBandLow && *trend <= gainBandHigh:
		return LeanGain, 75, []string{fmt.Sprintf("weight trend %+.2f lb/week in gain band", *trend)}, nil
	case *trend > gainBandHigh:
		return LeanGain, 60, []string{fmt.Sprintf("weight trend %+.2f lb/week above gain band", *trend)}, nil
	case *trend <= cutThreshold:
		return Cut, 75, []string{fmt.Sprintf("weight trend %+.2f lb/week", *trend)}, nil
	}

	// Flat weight: a shrinking waist reads as recomposition.
	if delta := waistDelta14(in.Waist, day); delta != nil {
		if *delta <= -waistRecomp {
			return Recomp, 70, []string{fmt.Sprintf("flat weight, waist %.2f in over 14d", *delta)}, nil
		}
		return Unknown, 40, []string{"flat weight, waist stable"}, nil
	}
	return Unknown, 30, nil, []string{"flat weight and no waist data in 14d"}
}

// waistDelta14 is last-minus-first waist over the 14 days ending today,
// nil with fewer than 2 tape measurements.
func waistDelta14(waist *baseline.Series, day string) *float64 {
	var first, last *float64
	n := 0
	for i := 13; i >= 0; i-- {
		if v := waist.Value(window.AddDays(day, -i)); v != nil {
			if first == nil {
				first = v
			}
			last = v
			n++
		}
	}
	if n < 2 {
		return nil
	}
	d := *last - *first
	return &d
}

// glyph renders the compact weekend summary symbol. Cosmetic only.
func glyph(trend *float64, suppressed, recomp bool) string {
	g := "▬"
	if trend != nil {
		switch {
		case *trend >= gainBandLow:
			g = "▲"
		case *trend <= cutThreshold:
			g = "▼"
		}
	}
	if suppressed {
		g += "!"
	}
	if recomp {
		g += "*"
	}
	return g
}
