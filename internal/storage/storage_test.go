// ABOUTME: Tests for the SQLite storage layer against a temp database.
// ABOUTME: Covers upserts, null round-trips, episode lifecycle, compaction.
package storage

import (
	"path/filepath"
	"testing"

	"github.com/conradlabs/coach/internal/models"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestDailyLogRoundTrip(t *testing.T) {
	db := setupTestDB(t)

	log := &models.DailyLog{
		UserID:          "local",
		Day:             "2026-03-01",
		MorningWeightLb: models.Float(181.4),
		SleepStartMin:   models.Int(1320),
		SleepEndMin:     models.Int(330),
		HRVMs:           models.Float(62),
		LiftDone:        models.Bool(true),
		SessionStrain:   models.Float(71.5),
	}
	if err := db.UpsertDailyLog(log); err != nil {
		t.Fatalf("UpsertDailyLog() error = %v", err)
	}

	got, err := db.GetDailyLog("local", "2026-03-01")
	if err != nil {
		t.Fatalf("GetDailyLog() error = %v", err)
	}
	if got == nil {
		t.Fatal("GetDailyLog() = nil, want row")
	}
	if got.MorningWeightLb == nil || *got.MorningWeightLb != 181.4 {
		t.Errorf("MorningWeightLb = %v, want 181.4", got.MorningWeightLb)
	}
	if got.SleepStartMin == nil || *got.SleepStartMin != 1320 {
		t.Errorf("SleepStartMin = %v, want 1320", got.SleepStartMin)
	}
	if got.LiftDone == nil || !*got.LiftDone {
		t.Errorf("LiftDone = %v, want true", got.LiftDone)
	}
	// Fields never logged come back nil, not zero.
	if got.WaistIn != nil {
		t.Errorf("WaistIn = %v, want nil", got.WaistIn)
	}
	if got.RestingHRBpm != nil {
		t.Errorf("RestingHRBpm = %v, want nil", got.RestingHRBpm)
	}
	if got.Placeholder {
		t.Error("Placeholder = true, want false")
	}
}

func TestDailyLogUpsertReplacesWholeRow(t *testing.T) {
	db := setupTestDB(t)

	first := &models.DailyLog{
		UserID:          "local",
		Day:             "2026-03-01",
		MorningWeightLb: models.Float(181.4),
		HRVMs:           models.Float(62),
	}
	if err := db.UpsertDailyLog(first); err != nil {
		t.Fatalf("UpsertDailyLog() error = %v", err)
	}

	second := &models.DailyLog{
		UserID:          "local",
		Day:             "2026-03-01",
		MorningWeightLb: models.Float(180.9),
	}
	if err := db.UpsertDailyLog(second); err != nil {
		t.Fatalf("UpsertDailyLog() re-log error = %v", err)
	}

	got, err := db.GetDailyLog("local", "2026-03-01")
	if err != nil {
		t.Fatalf("GetDailyLog() error = %v", err)
	}
	if got.MorningWeightLb == nil || *got.MorningWeightLb != 180.9 {
		t.Errorf("MorningWeightLb = %v, want 180.9", got.MorningWeightLb)
	}
	// Last write wins: the HRV from the first write is gone.
	if got.HRVMs != nil {
		t.Errorf("HRVMs = %v, want nil after replacement", got.HRVMs)
	}
}

func TestGetDailyLogMissing(t *testing.T) {
	db := setupTestDB(t)

	got, err := db.GetDailyLog("local", "2026-03-01")
	if err != nil {
		t.Fatalf("GetDailyLog() error = %v", err)
	}
	if got != nil {
		t.Errorf("GetDailyLog() = %+v, want nil for unlogged day", got)
	}
}

func TestListDailyLogsRange(t *testing.T) {
	db := setupTestDB(t)

	for _, day := range []string{"2026-03-01", "2026-03-03", "2026-03-05"} {
		if err := db.UpsertDailyLog(&models.DailyLog{UserID: "local", Day: day, HRVMs: models.Float(60)}); err != nil {
			t.Fatalf("UpsertDailyLog(%s) error = %v", day, err)
		}
	}

	logs, err := db.ListDailyLogs("local", "2026-03-01", "2026-03-04")
	if err != nil {
		t.Fatalf("ListDailyLogs() error = %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("ListDailyLogs() returned %d rows, want 2", len(logs))
	}
	if logs[0].Day != "2026-03-01" || logs[1].Day != "2026-03-03" {
		t.Errorf("days = %s, %s, want ascending 2026-03-01, 2026-03-03", logs[0].Day, logs[1].Day)
	}
}

func TestLatestWeightOnOrBefore(t *testing.T) {
	db := setupTestDB(t)

	if err := db.UpsertDailyLog(&models.DailyLog{UserID: "local", Day: "2026-03-01", MorningWeightLb: models.Float(181.0)}); err != nil {
		t.Fatalf("UpsertDailyLog() error = %v", err)
	}
	// Later day with no weight must not shadow the earlier weight.
	if err := db.UpsertDailyLog(&models.DailyLog{UserID: "local", Day: "2026-03-02", HRVMs: models.Float(60)}); err != nil {
		t.Fatalf("UpsertDailyLog() error = %v", err)
	}

	w, err := db.LatestWeightOnOrBefore("local", "2026-03-02")
	if err != nil {
		t.Fatalf("LatestWeightOnOrBefore() error = %v", err)
	}
	if w == nil || *w != 181.0 {
		t.Errorf("LatestWeightOnOrBefore() = %v, want 181.0", w)
	}

	w, err = db.LatestWeightOnOrBefore("local", "2026-02-28")
	if err != nil {
		t.Fatalf("LatestWeightOnOrBefore() error = %v", err)
	}
	if w != nil {
		t.Errorf("LatestWeightOnOrBefore() before any data = %v, want nil", w)
	}
}

func TestProxyScoreUpsert(t *testing.T) {
	db := setupTestDB(t)

	if err := db.UpsertProxyScore(&models.ProxyScore{UserID: "local", Day: "2026-03-01", Score: 55}); err != nil {
		t.Fatalf("UpsertProxyScore() error = %v", err)
	}
	if err := db.UpsertProxyScore(&models.ProxyScore{UserID: "local", Day: "2026-03-01", Score: 58}); err != nil {
		t.Fatalf("UpsertProxyScore() re-log error = %v", err)
	}

	scores, err := db.ListProxyScores("local", "2026-03-01", "2026-03-01")
	if err != nil {
		t.Fatalf("ListProxyScores() error = %v", err)
	}
	if len(scores) != 1 || scores[0].Score != 58 {
		t.Errorf("ListProxyScores() = %+v, want single row with score 58", scores)
	}
}

func TestContextEventUpsertAndList(t *testing.T) {
	db := setupTestDB(t)

	ev := &models.ContextEvent{UserID: "local", Day: "2026-03-01", Tag: "travel"}
	if err := db.UpsertContextEvent(ev); err != nil {
		t.Fatalf("UpsertContextEvent() error = %v", err)
	}
	ev.AdjustmentAttempted = true
	if err := db.UpsertContextEvent(ev); err != nil {
		t.Fatalf("UpsertContextEvent() update error = %v", err)
	}

	events, err := db.ListContextEvents("local", "travel", "2026-03-01", "2026-03-01")
	if err != nil {
		t.Fatalf("ListContextEvents() error = %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("ListContextEvents() returned %d events, want 1", len(events))
	}
	if !events[0].AdjustmentAttempted {
		t.Error("AdjustmentAttempted = false, want true after update")
	}
}

func TestOpenEpisodeUniqueness(t *testing.T) {
	db := setupTestDB(t)

	first := models.NewLensEpisode("local", "travel", "2026-03-01")
	if err := db.CreateEpisode(first); err != nil {
		t.Fatalf("CreateEpisode() error = %v", err)
	}

	// The partial unique index rejects a second open episode for the tag.
	second := models.NewLensEpisode("local", "travel", "2026-03-05")
	if err := db.CreateEpisode(second); err == nil {
		t.Fatal("CreateEpisode() second open episode succeeded, want constraint error")
	}

	// A different tag is fine.
	other := models.NewLensEpisode("local", "new-job", "2026-03-05")
	if err := db.CreateEpisode(other); err != nil {
		t.Fatalf("CreateEpisode() different tag error = %v", err)
	}

	open, err := db.OpenEpisode("local", "travel")
	if err != nil {
		t.Fatalf("OpenEpisode() error = %v", err)
	}
	if open == nil || open.ID != first.ID {
		t.Errorf("OpenEpisode() = %+v, want first episode", open)
	}
}

func TestConcludeEpisodeTransaction(t *testing.T) {
	db := setupTestDB(t)

	ep := models.NewLensEpisode("local", "travel", "2026-03-01")
	if err := db.CreateEpisode(ep); err != nil {
		t.Fatalf("CreateEpisode() error = %v", err)
	}
	for _, day := range []string{"2026-03-01", "2026-03-02", "2026-03-03"} {
		if err := db.UpsertContextEvent(&models.ContextEvent{UserID: "local", Day: day, Tag: "travel"}); err != nil {
			t.Fatalf("UpsertContextEvent(%s) error = %v", day, err)
		}
	}
	// A stray event past the concluded span must survive compaction.
	if err := db.UpsertContextEvent(&models.ContextEvent{UserID: "local", Day: "2026-03-09", Tag: "travel"}); err != nil {
		t.Fatalf("UpsertContextEvent() error = %v", err)
	}

	archive, err := db.ConcludeEpisode(ep, "2026-03-03", `{"tag":"travel"}`)
	if err != nil {
		t.Fatalf("ConcludeEpisode() error = %v", err)
	}
	if archive.SummaryJSON != `{"tag":"travel"}` {
		t.Errorf("SummaryJSON = %q", archive.SummaryJSON)
	}

	open, err := db.OpenEpisode("local", "travel")
	if err != nil {
		t.Fatalf("OpenEpisode() error = %v", err)
	}
	if open != nil {
		t.Errorf("OpenEpisode() after conclude = %+v, want nil", open)
	}

	events, err := db.ListContextEvents("local", "travel", "2026-01-01", "2026-12-31")
	if err != nil {
		t.Fatalf("ListContextEvents() error = %v", err)
	}
	if len(events) != 1 || events[0].Day != "2026-03-09" {
		t.Errorf("events after compaction = %+v, want only 2026-03-09", events)
	}

	archives, err := db.ListArchives("local", "travel", 0)
	if err != nil {
		t.Fatalf("ListArchives() error = %v", err)
	}
	if len(archives) != 1 || archives[0].EndDay != "2026-03-03" {
		t.Errorf("ListArchives() = %+v, want single archive ending 2026-03-03", archives)
	}
}

func TestConcludeEpisodeAlreadyClosed(t *testing.T) {
	db := setupTestDB(t)

	ep := models.NewLensEpisode("local", "travel", "2026-03-01")
	if err := db.CreateEpisode(ep); err != nil {
		t.Fatalf("CreateEpisode() error = %v", err)
	}
	if _, err := db.ConcludeEpisode(ep, "2026-03-03", "{}"); err != nil {
		t.Fatalf("ConcludeEpisode() error = %v", err)
	}
	if _, err := db.ConcludeEpisode(ep, "2026-03-04", "{}"); err == nil {
		t.Fatal("ConcludeEpisode() on closed episode succeeded, want error")
	}
	// The failed second conclude must not have written a second archive.
	archives, err := db.ListArchives("local", "travel", 0)
	if err != nil {
		t.Fatalf("ListArchives() error = %v", err)
	}
	if len(archives) != 1 {
		t.Errorf("ListArchives() returned %d archives, want 1", len(archives))
	}
}

func TestPlanDefaultsAndSave(t *testing.T) {
	db := setupTestDB(t)

	plan, err := db.GetPlan("local")
	if err != nil {
		t.Fatalf("GetPlan() error = %v", err)
	}
	if plan.BedMin != 21*60+45 || plan.WakeMin != 5*60+30 {
		t.Errorf("default plan bed/wake = %d/%d, want 1305/330", plan.BedMin, plan.WakeMin)
	}

	plan.BedMin = 22 * 60
	if err := db.SavePlan("local", plan); err != nil {
		t.Fatalf("SavePlan() error = %v", err)
	}
	got, err := db.GetPlan("local")
	if err != nil {
		t.Fatalf("GetPlan() after save error = %v", err)
	}
	if got.BedMin != 22*60 {
		t.Errorf("BedMin = %d, want 1320", got.BedMin)
	}
}
