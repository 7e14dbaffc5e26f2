// ABOUTME: Context phase decision tree over disturbance metrics.
// ABOUTME: Stateless per evaluation; only episode lifecycle persists across calls.
package lens

// Phase classifies how a tagged life context is affecting physiology.
type Phase string

const (
	InsufficientData      Phase = "INSUFFICIENT_DATA"
	NoveltyDisturbance    Phase = "NOVELTY_DISTURBANCE"
	ChronicSuppression    Phase = "CHRONIC_SUPPRESSION"
	AdaptiveStabilization Phase = "ADAPTIVE_STABILIZATION"
)

// Decision thresholds, points and points/week.
const (
	minTaggedDays = 3

	noveltyHighScore  = 62.0
	adjustmentSettleD = 14

	chronicScore     = 70.0
	chronicSlope     = 2.0 // points/week, still rising
	chronicFlagRate  = 0.30
	stabilizingSlope = -2.0
)

// PhaseInput is everything one evaluation reads. The classifier is a
// pure decision tree: same input, same phase.
type PhaseInput struct {
	TaggedDays21 int // days tagged with this context in the last 21

	Score float64  // current disturbance score
	Slope *float64 // 14-day disturbance slope, points/week; nil = unknowable

	AdjustmentAttempted bool
	DaysSinceAdjustment *int // nil when never attempted

	CortisolFlagRate float64 // share of tagged days with the aligned flag
}

// PhaseResult carries the phase with a confidence and human-readable
// reasoning.
type PhaseResult struct {
	Phase      Phase    `json:"phase"`
	Confidence int      `json:"confidence"`
	Reasons    []string `json:"reasons,omitempty"`
}

// Classify runs the priority-ordered transition rules.
func Classify(in PhaseInput) PhaseResult {
	// Rule 1: not enough evidence to say anything.
	if in.TaggedDays21 < minTaggedDays || in.Slope == nil {
		return PhaseResult{
			Phase:      InsufficientData,
			Confidence: 30,
			Reasons:    []string{"fewer than 3 tagged days or no comparable score 14 days back"},
		}
	}

	// Rule 2: an adjustment has not yet had time to take effect. The
	// system refuses to conclude chronicity before giving one a chance.
	recentAttempt := in.AdjustmentAttempted &&
		in.DaysSinceAdjustment != nil && *in.DaysSinceAdjustment < adjustmentSettleD
	if !in.AdjustmentAttempted || recentAttempt {
		conf := 55
		if in.Score >= noveltyHighScore {
			conf = 70
		}
		return PhaseResult{
			Phase:      NoveltyDisturbance,
			Confidence: conf,
			Reasons:    []string{"adjustment not yet attempted or still settling"},
		}
	}

	// Rule 3: suppression persisting despite a settled intervention.
	settled := in.DaysSinceAdjustment != nil && *in.DaysSinceAdjustment >= adjustmentSettleD
	if settled && ((in.Score >= chronicScore && *in.Slope >= chronicSlope) || in.CortisolFlagRate >= chronicFlagRate) {
		return PhaseResult{
			Phase:      ChronicSuppression,
			Confidence: 90,
			Reasons:    []string{"disturbance persists 14+ days after adjustment"},
		}
	}

	// Rule 4: flat or improving slope reads as adaptation.
	if *in.Slope <= chronicSlope {
		conf := 70
		reason := "disturbance no longer rising"
		if *in.Slope <= stabilizingSlope {
			conf = 85
			reason = "disturbance falling week over week"
		}
		return PhaseResult{Phase: AdaptiveStabilization, Confidence: conf, Reasons: []string{reason}}
	}

	// Rule 5: rising slope but moderate score and no flag rate.
	return PhaseResult{
		Phase:      AdaptiveStabilization,
		Confidence: 65,
		Reasons:    []string{"mixed signal"},
	}
}
