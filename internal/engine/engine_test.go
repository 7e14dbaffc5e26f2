// ABOUTME: End-to-end engine tests over a seeded SQLite store.
// ABOUTME: Covers disturbance, slope, stability, regimen, phase, driver, report.
package engine

import (
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/conradlabs/coach/internal/cache"
	"github.com/conradlabs/coach/internal/lens"
	"github.com/conradlabs/coach/internal/models"
	"github.com/conradlabs/coach/internal/regimen"
	"github.com/conradlabs/coach/internal/storage"
	"github.com/conradlabs/coach/internal/window"
)

const (
	testUser = "local"
	testDay  = "2026-03-31"
)

func setupEngine(t *testing.T) (*Engine, storage.Repository) {
	t.Helper()
	repo, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("storage.Open() error = %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return New(repo, nil), repo
}

// seedDays writes one row per day for the n days ending at endDay,
// oldest first. build receives the day offset from the oldest day.
func seedDays(t *testing.T, repo storage.Repository, endDay string, n int, build func(day string, i int) *models.DailyLog) {
	t.Helper()
	start := window.AddDays(endDay, -(n - 1))
	for i, day := range window.RangeDays(start, endDay) {
		log := build(day, i)
		if log == nil {
			continue
		}
		log.UserID = testUser
		log.Day = day
		if err := repo.UpsertDailyLog(log); err != nil {
			t.Fatalf("UpsertDailyLog(%s) error = %v", day, err)
		}
	}
}

func steadyLog(string, int) *models.DailyLog {
	return &models.DailyLog{
		HRVMs:         models.Float(60),
		RestingHRBpm:  models.Float(50),
		SleepStartMin: models.Int(1305),
		SleepEndMin:   models.Int(330),
	}
}

func TestDisturbanceSteadyStateIsNeutral(t *testing.T) {
	e, repo := setupEngine(t)
	seedDays(t, repo, testDay, 50, steadyLog)

	d, err := e.Disturbance(testUser, testDay)
	if err != nil {
		t.Fatalf("Disturbance() error = %v", err)
	}
	if d.Score != 50.0 {
		t.Errorf("Score = %v, want exactly 50.0 for steady state", d.Score)
	}
	if len(d.Reasons) != 0 {
		t.Errorf("Reasons = %v, want none", d.Reasons)
	}
	if d.SlopePerWeek == nil || *d.SlopePerWeek != 0 {
		t.Errorf("SlopePerWeek = %v, want 0", d.SlopePerWeek)
	}
	if d.CortisolFlag {
		t.Error("CortisolFlag = true for steady state")
	}
}

func TestDisturbanceHRVDropRaisesScore(t *testing.T) {
	e, repo := setupEngine(t)
	seedDays(t, repo, testDay, 50, func(day string, i int) *models.DailyLog {
		log := steadyLog(day, i)
		if i >= 43 { // last 7 days
			log.HRVMs = models.Float(48)
		}
		return log
	})

	d, err := e.Disturbance(testUser, testDay)
	if err != nil {
		t.Fatalf("Disturbance() error = %v", err)
	}
	if d.Score <= 55 {
		t.Errorf("Score = %v, want > 55 after 20%% hrv drop", d.Score)
	}
	if len(d.Reasons) == 0 {
		t.Error("expected an hrv reason")
	}
	if d.SlopePerWeek == nil || *d.SlopePerWeek <= 0 {
		t.Errorf("SlopePerWeek = %v, want positive", d.SlopePerWeek)
	}
}

func TestDisturbanceSlopeNilWithoutPastData(t *testing.T) {
	e, repo := setupEngine(t)
	// Only the last 7 days exist: nothing is measurable 14 days back.
	seedDays(t, repo, testDay, 7, steadyLog)

	d, err := e.Disturbance(testUser, testDay)
	if err != nil {
		t.Fatalf("Disturbance() error = %v", err)
	}
	if d.SlopePerWeek != nil {
		t.Errorf("SlopePerWeek = %v, want nil without a comparable past score", *d.SlopePerWeek)
	}
}

func TestSleepStabilityOnPlan(t *testing.T) {
	e, repo := setupEngine(t)
	seedDays(t, repo, testDay, 21, steadyLog)

	st, err := e.Stability(testUser, "sleep", testDay)
	if err != nil {
		t.Fatalf("Stability() error = %v", err)
	}
	if st.Alignment == nil || *st.Alignment != 100 {
		t.Errorf("Alignment = %v, want 100 on plan", st.Alignment)
	}
	if st.Consistency == nil || *st.Consistency != 100 {
		t.Errorf("Consistency = %v, want 100 with zero variance", st.Consistency)
	}
	if st.Recovery.EventFound {
		t.Error("Recovery.EventFound = true, want false with no drift")
	}
	if st.Recovery.Score == nil || *st.Recovery.Score != 100 {
		t.Errorf("Recovery.Score = %v, want 100 with nothing to recover from", st.Recovery.Score)
	}
	if st.Outcome.Adequacy == nil || *st.Outcome.Adequacy != 100 {
		t.Errorf("Outcome.Adequacy = %v, want 100 at full planned sleep", st.Outcome.Adequacy)
	}
}

func TestLiftStabilityMissedSessionEvent(t *testing.T) {
	e, repo := setupEngine(t)
	eventDay := window.AddDays(testDay, -3)
	seedDays(t, repo, testDay, 14, func(day string, i int) *models.DailyLog {
		if day == eventDay {
			return &models.DailyLog{LiftDone: models.Bool(false)}
		}
		if window.DaysBetween(eventDay, day) > 0 {
			// On-plan sessions after the miss.
			return &models.DailyLog{LiftStartMin: models.Int(945), LiftDone: models.Bool(true)}
		}
		return nil
	})

	st, err := e.Stability(testUser, "lift", testDay)
	if err != nil {
		t.Fatalf("Stability() error = %v", err)
	}
	if !st.Recovery.EventFound {
		t.Fatal("Recovery.EventFound = false, want true after missed session")
	}
	if st.Recovery.EventDay != eventDay {
		t.Errorf("Recovery.EventDay = %s, want %s", st.Recovery.EventDay, eventDay)
	}
	// Only 3 follow days exist, so confidence degrades with a reason.
	if st.Recovery.Confidence != "low" {
		t.Errorf("Recovery.Confidence = %s, want low with partial follow window", st.Recovery.Confidence)
	}
	// Full recovery (75 -> 0 drift), discounted only by the lingering
	// average deviation: 75/4 = 18.75 min -> driftFactor 0.84375.
	if st.Recovery.Score == nil || math.Abs(*st.Recovery.Score-84.375) > 0.01 {
		t.Errorf("Recovery.Score = %v, want 84.375", st.Recovery.Score)
	}
}

func TestRegimenRangeLeanGain(t *testing.T) {
	e, repo := setupEngine(t)
	// Weight rising 0.05 lb/day = 0.35 lb/week, inside the gain band.
	seedDays(t, repo, testDay, 40, func(day string, i int) *models.DailyLog {
		return &models.DailyLog{MorningWeightLb: models.Float(180 + 0.05*float64(i))}
	})

	marks, err := e.RegimenRange(testUser, testDay, testDay)
	if err != nil {
		t.Fatalf("RegimenRange() error = %v", err)
	}
	if len(marks) != 1 {
		t.Fatalf("RegimenRange() returned %d marks, want 1", len(marks))
	}
	if marks[0].Color != regimen.LeanGain {
		t.Errorf("Color = %s, want LEAN_GAIN at +0.35 lb/week", marks[0].Color)
	}
}

func TestContextPhaseInsufficientData(t *testing.T) {
	e, repo := setupEngine(t)
	for _, day := range []string{window.AddDays(testDay, -1), testDay} {
		if err := repo.UpsertContextEvent(&models.ContextEvent{UserID: testUser, Day: day, Tag: "travel"}); err != nil {
			t.Fatalf("UpsertContextEvent() error = %v", err)
		}
	}

	status, err := e.ContextPhase(testUser, "travel", testDay)
	if err != nil {
		t.Fatalf("ContextPhase() error = %v", err)
	}
	if status.Phase.Phase != lens.InsufficientData {
		t.Errorf("Phase = %s, want INSUFFICIENT_DATA with 2 tagged days", status.Phase.Phase)
	}
	if status.TaggedDays21 != 2 {
		t.Errorf("TaggedDays21 = %d, want 2", status.TaggedDays21)
	}
}

func TestContextPhaseNoveltyWithoutAdjustment(t *testing.T) {
	e, repo := setupEngine(t)
	seedDays(t, repo, testDay, 50, steadyLog)
	for i := 0; i < 5; i++ {
		day := window.AddDays(testDay, -i)
		if err := repo.UpsertContextEvent(&models.ContextEvent{UserID: testUser, Day: day, Tag: "travel"}); err != nil {
			t.Fatalf("UpsertContextEvent() error = %v", err)
		}
	}

	status, err := e.ContextPhase(testUser, "travel", testDay)
	if err != nil {
		t.Fatalf("ContextPhase() error = %v", err)
	}
	if status.Phase.Phase != lens.NoveltyDisturbance {
		t.Errorf("Phase = %s, want NOVELTY_DISTURBANCE before any adjustment", status.Phase.Phase)
	}
}

func TestPrimaryDriverSleepShortfall(t *testing.T) {
	e, repo := setupEngine(t)
	if err := repo.UpsertDailyLog(&models.DailyLog{
		UserID:        testUser,
		Day:           testDay,
		SleepStartMin: models.Int(1305),
		SleepMinutes:  models.Int(360), // 105 min short of the 465 plan
	}); err != nil {
		t.Fatalf("UpsertDailyLog() error = %v", err)
	}

	top, err := e.PrimaryDriver(testUser, testDay)
	if err != nil {
		t.Fatalf("PrimaryDriver() error = %v", err)
	}
	if top == nil {
		t.Fatal("PrimaryDriver() = nil, want sleep shortfall")
	}
	if top.Kind != "sleep_shortfall" {
		t.Errorf("Kind = %s, want sleep_shortfall", top.Kind)
	}
	if top.Severity != 105 {
		t.Errorf("Severity = %v, want 105", top.Severity)
	}
}

func TestPrimaryDriverNilWhenNothingFires(t *testing.T) {
	e, repo := setupEngine(t)
	seedDays(t, repo, testDay, 40, steadyLog)

	top, err := e.PrimaryDriver(testUser, testDay)
	if err != nil {
		t.Fatalf("PrimaryDriver() error = %v", err)
	}
	if top != nil {
		t.Errorf("PrimaryDriver() = %+v, want nil in steady state", top)
	}
}

func TestReportStalledTrendAndFuelNote(t *testing.T) {
	e, repo := setupEngine(t)
	seedDays(t, repo, testDay, 14, func(day string, i int) *models.DailyLog {
		log := &models.DailyLog{MorningWeightLb: models.Float(180)}
		if day == testDay {
			log.CardioStartMin = models.Int(360)
			log.CardioEndMin = models.Int(420) // 60 min session
		}
		return log
	})

	r, err := e.Report(testUser, testDay)
	if err != nil {
		t.Fatalf("Report() error = %v", err)
	}
	if r.WeeklyTrendLb == nil || math.Abs(*r.WeeklyTrendLb) > 0.001 {
		t.Errorf("WeeklyTrendLb = %v, want ~0", r.WeeklyTrendLb)
	}
	if r.CalorieAdjustment == nil || *r.CalorieAdjustment != 100 {
		t.Errorf("CalorieAdjustment = %v, want +100 for a stalled trend", r.CalorieAdjustment)
	}
	found := false
	for _, n := range r.Notes {
		if strings.Contains(n, "carbs") {
			found = true
		}
	}
	if !found {
		t.Errorf("Notes = %v, want a carb fuel note for the 60 min session", r.Notes)
	}
}

func TestLogDayInvalidatesCache(t *testing.T) {
	repo, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("storage.Open() error = %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	c, err := cache.Open(t.TempDir())
	if err != nil {
		t.Fatalf("cache.Open() error = %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	e := New(repo, c)

	seedDays(t, repo, testDay, 50, steadyLog)

	before, err := e.Disturbance(testUser, testDay)
	if err != nil {
		t.Fatalf("Disturbance() error = %v", err)
	}
	if before.Score != 50.0 {
		t.Fatalf("Score = %v, want 50.0 before re-log", before.Score)
	}

	// Re-log today with a collapsed hrv; the cached result must not be
	// served back.
	log := steadyLog(testDay, 0)
	log.UserID = testUser
	log.Day = testDay
	log.HRVMs = models.Float(30)
	if err := e.LogDay(log); err != nil {
		t.Fatalf("LogDay() error = %v", err)
	}

	after, err := e.Disturbance(testUser, testDay)
	if err != nil {
		t.Fatalf("Disturbance() error = %v", err)
	}
	if after.Score <= before.Score {
		t.Errorf("Score = %v after hrv collapse, want above cached %v", after.Score, before.Score)
	}
}
