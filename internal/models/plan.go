// ABOUTME: PlanSettings model with the locked daily-template defaults.
// ABOUTME: Planned times are minutes since midnight.
package models

// PlanSettings holds the user-configured daily schedule the regulators
// score against. Unset plans fall back to DefaultPlan.
type PlanSettings struct {
	UserID string

	BedMin  int // planned lights-out
	WakeMin int // planned wake

	CardioStartMin int
	CardioEndMin   int

	LiftStartMin int
	LiftEndMin   int

	// BedtimeLateToleranceMin is how far past plan a sleep start may be
	// before the night counts as late for the drift-rate component.
	BedtimeLateToleranceMin int
}

// DefaultPlan is the locked daily template: bed 21:45, wake 05:30,
// cardio 06:00-06:40, lift 15:45-17:00.
func DefaultPlan(userID string) *PlanSettings {
	return &PlanSettings{
		UserID:                  userID,
		BedMin:                  21*60 + 45,
		WakeMin:                 5*60 + 30,
		CardioStartMin:          6 * 60,
		CardioEndMin:            6*60 + 40,
		LiftStartMin:            15*60 + 45,
		LiftEndMin:              17 * 60,
		BedtimeLateToleranceMin: 30,
	}
}

// PlannedSleepMin returns the planned sleep duration on the circular
// clock (bed 21:45 to wake 05:30 is 465 minutes).
func (p *PlanSettings) PlannedSleepMin() int {
	return (p.WakeMin - p.BedMin + 1440) % 1440
}

// PlannedCardioMin returns the planned cardio session length.
func (p *PlanSettings) PlannedCardioMin() int {
	return (p.CardioEndMin - p.CardioStartMin + 1440) % 1440
}

// PlannedLiftMin returns the planned lift session length.
func (p *PlanSettings) PlannedLiftMin() int {
	return (p.LiftEndMin - p.LiftStartMin + 1440) % 1440
}
