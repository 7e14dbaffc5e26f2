// ABOUTME: DailyLog and ProxyScore models for the per-day measurement row.
// ABOUTME: Optional fields are pointers; missing is nil, never zero.
package models

// DefaultUserID identifies the single tracked individual when callers do
// not pass a user explicitly.
const DefaultUserID = "local"

// DailyLog is one calendar day of logged measurements. Every field other
// than UserID and Day is optional: a nil pointer means the measurement was
// not taken that day and must never be read as zero. Re-logging a day
// replaces the whole row (last write wins per user+day).
type DailyLog struct {
	UserID string
	Day    string // YYYY-MM-DD

	MorningWeightLb *float64
	WaistIn         *float64

	// Sleep timing, minutes since midnight with mod-1440 semantics.
	SleepStartMin *int
	SleepEndMin   *int
	SleepMinutes  *int
	AwakeInBedMin *int

	HRVMs        *float64
	RestingHRBpm *float64

	// Cardio session timing and zone-minute breakdown.
	CardioStartMin *int
	CardioEndMin   *int
	CardioZone1Min *int
	CardioZone2Min *int
	CardioZone3Min *int

	// Lift session timing and execution.
	LiftStartMin   *int
	LiftEndMin     *int
	LiftWorkingMin *int
	LiftIdleMin    *int
	LiftDone       *bool
	SessionStrain  *float64 // 0-100

	// Placeholder rows are seeded by episode start so rolling windows do
	// not show a hard gap while a context is being tagged.
	Placeholder bool

	Notes *string
}

// SleepDurationMin returns recorded sleep minutes, deriving them from
// start/end timing when only timing was logged.
func (d *DailyLog) SleepDurationMin() *int {
	if d.SleepMinutes != nil {
		return d.SleepMinutes
	}
	if d.SleepStartMin == nil || d.SleepEndMin == nil {
		return nil
	}
	mins := (*d.SleepEndMin - *d.SleepStartMin + 1440) % 1440
	return &mins
}

// HasAnyData reports whether the row carries at least one real
// observation. Placeholder rows seeded with only a carried-forward
// weight do not count.
func (d *DailyLog) HasAnyData() bool {
	if d.Placeholder {
		return false
	}
	return d.MorningWeightLb != nil || d.WaistIn != nil ||
		d.SleepStartMin != nil || d.SleepEndMin != nil || d.SleepMinutes != nil ||
		d.HRVMs != nil || d.RestingHRBpm != nil ||
		d.CardioStartMin != nil || d.LiftStartMin != nil ||
		d.LiftDone != nil || d.SessionStrain != nil
}

// ProxyScore is one day of the externally derived androgen-proxy series.
// The upstream snapshot pipeline that produces it is not part of this
// system; it arrives as a finished daily score.
type ProxyScore struct {
	UserID string
	Day    string
	Score  float64
}

// Float returns a pointer to v. Convenience for building optional fields.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }

// Bool returns a pointer to v.
func Bool(v bool) *bool { return &v }
