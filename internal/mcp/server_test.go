// ABOUTME: Tests for MCP server, tools, and resources.
// ABOUTME: Covers NewServer, tool handlers, and the episode lifecycle tools.
package mcp

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/conradlabs/coach/internal/engine"
	"github.com/conradlabs/coach/internal/models"
	"github.com/conradlabs/coach/internal/regimen"
	"github.com/conradlabs/coach/internal/storage"
)

const testDay = "2026-03-31"

// setupServer creates a server over a temp-dir store.
func setupServer(t *testing.T) (*Server, storage.Repository) {
	t.Helper()

	repo, err := storage.Open(filepath.Join(t.TempDir(), "coach.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })

	server, err := NewServer(engine.New(repo, nil), models.DefaultUserID)
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	return server, repo
}

func TestNewServer(t *testing.T) {
	server, _ := setupServer(t)

	if server.mcpServer == nil {
		t.Error("Expected non-nil mcpServer")
	}
	if server.engine == nil {
		t.Error("Expected non-nil engine")
	}
	if server.userID != models.DefaultUserID {
		t.Errorf("userID = %q, want %q", server.userID, models.DefaultUserID)
	}
}

func TestHandleLogDay(t *testing.T) {
	server, repo := setupServer(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		input   logDayInput
		wantErr bool
	}{
		{
			name: "full morning log",
			input: logDayInput{
				Day:             testDay,
				MorningWeightLb: models.Float(181.2),
				HRVMs:           models.Float(62),
				SleepStartMin:   models.Int(1310),
				SleepEndMin:     models.Int(330),
			},
		},
		{
			name:  "weight only",
			input: logDayInput{Day: "2026-04-01", MorningWeightLb: models.Float(181.0)},
		},
		{
			name:    "invalid day",
			input:   logDayInput{Day: "not-a-day"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, out, err := server.handleLogDay(ctx, nil, tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("handleLogDay error = %v", err)
			}
			if !strings.Contains(out.Message, tt.input.Day) {
				t.Errorf("Message = %q, want it to mention %s", out.Message, tt.input.Day)
			}
		})
	}

	got, err := repo.GetDailyLog(models.DefaultUserID, testDay)
	if err != nil {
		t.Fatalf("GetDailyLog error = %v", err)
	}
	if got == nil || got.HRVMs == nil || *got.HRVMs != 62 {
		t.Errorf("stored log = %+v, want hrv 62", got)
	}
}

func TestHandleLogProxy(t *testing.T) {
	server, repo := setupServer(t)
	ctx := context.Background()

	_, out, err := server.handleLogProxy(ctx, nil, logProxyInput{Day: testDay, Score: 57.5})
	if err != nil {
		t.Fatalf("handleLogProxy error = %v", err)
	}
	if !strings.Contains(out.Message, "57.5") {
		t.Errorf("Message = %q, want score mentioned", out.Message)
	}

	scores, err := repo.ListProxyScores(models.DefaultUserID, testDay, testDay)
	if err != nil {
		t.Fatalf("ListProxyScores error = %v", err)
	}
	if len(scores) != 1 || scores[0].Score != 57.5 {
		t.Errorf("stored scores = %+v, want single 57.5", scores)
	}
}

func TestHandleGetDisturbanceEmptyStore(t *testing.T) {
	server, _ := setupServer(t)
	ctx := context.Background()

	_, out, err := server.handleGetDisturbance(ctx, nil, dayInput{Day: testDay})
	if err != nil {
		t.Fatalf("handleGetDisturbance error = %v", err)
	}
	d, ok := out.(*engine.Disturbance)
	if !ok {
		t.Fatalf("output type = %T, want *engine.Disturbance", out)
	}
	// No data at all reads as exactly neutral, never an error.
	if d.Score != 50.0 {
		t.Errorf("Score = %v, want 50.0 on empty store", d.Score)
	}
}

func TestHandleGetStabilityUnknownDomain(t *testing.T) {
	server, _ := setupServer(t)
	ctx := context.Background()

	_, _, err := server.handleGetStability(ctx, nil, stabilityInput{Domain: "yoga", Day: testDay})
	if err == nil {
		t.Fatal("expected error for unknown domain")
	}
}

func TestHandleContextLifecycle(t *testing.T) {
	server, repo := setupServer(t)
	ctx := context.Background()

	_, out, err := server.handleStartContext(ctx, nil, contextInput{Tag: "travel", Day: testDay})
	if err != nil {
		t.Fatalf("handleStartContext error = %v", err)
	}
	if !strings.Contains(out.Message, "travel") {
		t.Errorf("Message = %q, want tag mentioned", out.Message)
	}

	// Starting the same tag again must be rejected.
	if _, _, err := server.handleStartContext(ctx, nil, contextInput{Tag: "travel", Day: testDay}); err == nil {
		t.Fatal("expected error starting a second open episode")
	}

	if _, _, err := server.handleMarkAdjustment(ctx, nil, contextInput{Tag: "travel", Day: testDay}); err != nil {
		t.Fatalf("handleMarkAdjustment error = %v", err)
	}

	_, summaryOut, err := server.handleConcludeContext(ctx, nil, contextInput{Tag: "travel", Day: testDay})
	if err != nil {
		t.Fatalf("handleConcludeContext error = %v", err)
	}
	if summaryOut == nil {
		t.Fatal("expected a summary output")
	}

	archives, err := repo.ListArchives(models.DefaultUserID, "travel", 0)
	if err != nil {
		t.Fatalf("ListArchives error = %v", err)
	}
	if len(archives) != 1 {
		t.Errorf("archives = %d, want 1 after conclude", len(archives))
	}

	// Concluding again must fail: no open episode remains.
	if _, _, err := server.handleConcludeContext(ctx, nil, contextInput{Tag: "travel", Day: testDay}); err == nil {
		t.Fatal("expected error concluding with no open episode")
	}
}

func TestHandleGetPrimaryDriverNoFiring(t *testing.T) {
	server, _ := setupServer(t)
	ctx := context.Background()

	_, out, err := server.handleGetPrimaryDriver(ctx, nil, dayInput{Day: testDay})
	if err != nil {
		t.Fatalf("handleGetPrimaryDriver error = %v", err)
	}
	if m, ok := out.(map[string]interface{}); !ok || m["message"] == nil {
		t.Errorf("output = %#v, want a no-driver message", out)
	}
}

func TestHandleGetRegimenRange(t *testing.T) {
	server, repo := setupServer(t)
	ctx := context.Background()

	if err := repo.UpsertDailyLog(&models.DailyLog{
		UserID:          models.DefaultUserID,
		Day:             testDay,
		MorningWeightLb: models.Float(181),
	}); err != nil {
		t.Fatalf("UpsertDailyLog error = %v", err)
	}

	_, out, err := server.handleGetRegimenRange(ctx, nil, rangeInput{StartDay: testDay, EndDay: testDay})
	if err != nil {
		t.Fatalf("handleGetRegimenRange error = %v", err)
	}
	marks, ok := out.([]regimen.DayMark)
	if !ok {
		t.Fatalf("output type = %T, want []regimen.DayMark", out)
	}
	if len(marks) != 1 {
		t.Errorf("marks = %d, want 1", len(marks))
	}
	if marks[0].Color != regimen.Unknown {
		t.Errorf("Color = %s, want UNKNOWN with one weight entry", marks[0].Color)
	}
}
