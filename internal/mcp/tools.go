// ABOUTME: MCP tool implementations for the coach engine.
// ABOUTME: Exposes logging, scoring, classification, and episode lifecycle.
package mcp

import (
	"context"
	"fmt"

	"github.com/conradlabs/coach/internal/models"
	"github.com/conradlabs/coach/internal/window"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerTools() {
	// log_day
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "log_day",
		Description: "Record a day's measurements (sleep, hrv, rhr, weight, sessions). Re-logging a day replaces it.",
	}, s.handleLogDay)

	// log_proxy
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "log_proxy",
		Description: "Record a day's derived androgen-proxy score",
	}, s.handleLogProxy)

	// get_disturbance
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_disturbance",
		Description: "Get the fused 0-100 disturbance score for a day (50 = neutral)",
	}, s.handleGetDisturbance)

	// get_regimen_range
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_regimen_range",
		Description: "Classify each day in a range into a regimen color (LEAN_GAIN, CUT, RECOMP, DELOAD, SUPPRESSED, UNKNOWN)",
	}, s.handleGetRegimenRange)

	// get_stability
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_stability",
		Description: "Get schedule stability (alignment/consistency/recovery/outcome) for sleep, cardio, or lift",
	}, s.handleGetStability)

	// start_context
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "start_context",
		Description: "Start tracking a life context (travel, new job, ...) as an episode",
	}, s.handleStartContext)

	// tag_day
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "tag_day",
		Description: "Mark a day as covered by an open context episode",
	}, s.handleTagDay)

	// mark_adjustment
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "mark_adjustment",
		Description: "Record that an intervention for an open context was attempted on a day",
	}, s.handleMarkAdjustment)

	// conclude_context
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "conclude_context",
		Description: "Conclude an open context episode and archive its dual-baseline summary",
	}, s.handleConcludeContext)

	// get_context_phase
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_context_phase",
		Description: "Classify how a tagged context is affecting physiology (novelty, chronic, adaptive)",
	}, s.handleGetContextPhase)

	// get_primary_driver
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_primary_driver",
		Description: "Get the single dominant disruption for a day with a recommendation",
	}, s.handleGetPrimaryDriver)

	// get_report
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_report",
		Description: "Daily coaching summary: weekly weight trend, calorie suggestion, fuel notes",
	}, s.handleGetReport)
}

// Tool input/output types

type logDayInput struct {
	Day             string   `json:"day" jsonschema:"Day (YYYY-MM-DD)"`
	MorningWeightLb *float64 `json:"morning_weight_lb,omitempty" jsonschema:"Morning weight in pounds"`
	WaistIn         *float64 `json:"waist_in,omitempty" jsonschema:"Waist in inches"`
	SleepStartMin   *int     `json:"sleep_start_min,omitempty" jsonschema:"Sleep start in minutes since midnight"`
	SleepEndMin     *int     `json:"sleep_end_min,omitempty" jsonschema:"Sleep end in minutes since midnight"`
	SleepMinutes    *int     `json:"sleep_minutes,omitempty" jsonschema:"Minutes asleep"`
	AwakeInBedMin   *int     `json:"awake_in_bed_min,omitempty" jsonschema:"Minutes awake in bed"`
	HRVMs           *float64 `json:"hrv_ms,omitempty" jsonschema:"Morning HRV in ms"`
	RestingHRBpm    *float64 `json:"resting_hr_bpm,omitempty" jsonschema:"Resting heart rate in bpm"`
	CardioStartMin  *int     `json:"cardio_start_min,omitempty" jsonschema:"Cardio start in minutes since midnight"`
	CardioEndMin    *int     `json:"cardio_end_min,omitempty" jsonschema:"Cardio end in minutes since midnight"`
	CardioZone1Min  *int     `json:"cardio_z1_min,omitempty" jsonschema:"Zone 1 minutes"`
	CardioZone2Min  *int     `json:"cardio_z2_min,omitempty" jsonschema:"Zone 2 minutes"`
	CardioZone3Min  *int     `json:"cardio_z3_min,omitempty" jsonschema:"Zone 3 minutes"`
	LiftStartMin    *int     `json:"lift_start_min,omitempty" jsonschema:"Lift start in minutes since midnight"`
	LiftEndMin      *int     `json:"lift_end_min,omitempty" jsonschema:"Lift end in minutes since midnight"`
	LiftWorkingMin  *int     `json:"lift_working_min,omitempty" jsonschema:"Working-set minutes"`
	LiftIdleMin     *int     `json:"lift_idle_min,omitempty" jsonschema:"Idle minutes in the gym"`
	LiftDone        *bool    `json:"lift_done,omitempty" jsonschema:"Whether the planned lift happened"`
	SessionStrain   *float64 `json:"session_strain,omitempty" jsonschema:"Session strain 0-100"`
	Notes           *string  `json:"notes,omitempty" jsonschema:"Free-text notes"`
}

type logProxyInput struct {
	Day   string  `json:"day" jsonschema:"Day (YYYY-MM-DD)"`
	Score float64 `json:"score" jsonschema:"Androgen-proxy score"`
}

type dayInput struct {
	Day string `json:"day,omitempty" jsonschema:"Day (YYYY-MM-DD), defaults to today"`
}

type rangeInput struct {
	StartDay string `json:"start_day" jsonschema:"First day (YYYY-MM-DD)"`
	EndDay   string `json:"end_day" jsonschema:"Last day (YYYY-MM-DD)"`
}

type stabilityInput struct {
	Domain string `json:"domain" jsonschema:"Regulated domain: sleep, cardio, or lift"`
	Day    string `json:"day,omitempty" jsonschema:"Day (YYYY-MM-DD), defaults to today"`
}

type contextInput struct {
	Tag string `json:"tag" jsonschema:"Context tag (travel, new-job, ...)"`
	Day string `json:"day,omitempty" jsonschema:"Day (YYYY-MM-DD), defaults to today"`
}

type simpleOutput struct {
	Message string `json:"message"`
}

func orToday(day string) string {
	if day == "" {
		return window.Today()
	}
	return day
}

// Tool handlers

func (s *Server) handleLogDay(ctx context.Context, req *mcp.CallToolRequest, input logDayInput) (*mcp.CallToolResult, simpleOutput, error) {
	log := &models.DailyLog{
		UserID:          s.userID,
		Day:             input.Day,
		MorningWeightLb: input.MorningWeightLb,
		WaistIn:         input.WaistIn,
		SleepStartMin:   input.SleepStartMin,
		SleepEndMin:     input.SleepEndMin,
		SleepMinutes:    input.SleepMinutes,
		AwakeInBedMin:   input.AwakeInBedMin,
		HRVMs:           input.HRVMs,
		RestingHRBpm:    input.RestingHRBpm,
		CardioStartMin:  input.CardioStartMin,
		CardioEndMin:    input.CardioEndMin,
		CardioZone1Min:  input.CardioZone1Min,
		CardioZone2Min:  input.CardioZone2Min,
		CardioZone3Min:  input.CardioZone3Min,
		LiftStartMin:    input.LiftStartMin,
		LiftEndMin:      input.LiftEndMin,
		LiftWorkingMin:  input.LiftWorkingMin,
		LiftIdleMin:     input.LiftIdleMin,
		LiftDone:        input.LiftDone,
		SessionStrain:   input.SessionStrain,
		Notes:           input.Notes,
	}
	if err := s.engine.LogDay(log); err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to log day: %w", err)
	}
	return nil, simpleOutput{Message: fmt.Sprintf("Logged %s", input.Day)}, nil
}

func (s *Server) handleLogProxy(ctx context.Context, req *mcp.CallToolRequest, input logProxyInput) (*mcp.CallToolResult, simpleOutput, error) {
	if err := s.engine.LogProxy(&models.ProxyScore{UserID: s.userID, Day: input.Day, Score: input.Score}); err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to log proxy score: %w", err)
	}
	return nil, simpleOutput{Message: fmt.Sprintf("Logged proxy %.1f for %s", input.Score, input.Day)}, nil
}

func (s *Server) handleGetDisturbance(ctx context.Context, req *mcp.CallToolRequest, input dayInput) (*mcp.CallToolResult, any, error) {
	d, err := s.engine.Disturbance(s.userID, orToday(input.Day))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to compute disturbance: %w", err)
	}
	return nil, d, nil
}

func (s *Server) handleGetRegimenRange(ctx context.Context, req *mcp.CallToolRequest, input rangeInput) (*mcp.CallToolResult, any, error) {
	marks, err := s.engine.RegimenRange(s.userID, input.StartDay, input.EndDay)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to classify range: %w", err)
	}
	return nil, marks, nil
}

func (s *Server) handleGetStability(ctx context.Context, req *mcp.CallToolRequest, input stabilityInput) (*mcp.CallToolResult, any, error) {
	st, err := s.engine.Stability(s.userID, input.Domain, orToday(input.Day))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to compute stability: %w", err)
	}
	return nil, st, nil
}

func (s *Server) handleStartContext(ctx context.Context, req *mcp.CallToolRequest, input contextInput) (*mcp.CallToolResult, simpleOutput, error) {
	ep, err := s.engine.Lens().StartEpisode(s.userID, input.Tag, orToday(input.Day))
	if err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to start context: %w", err)
	}
	return nil, simpleOutput{
		Message: fmt.Sprintf("Started context %q from %s (episode %s)", ep.Tag, ep.StartDay, ep.ID.String()[:8]),
	}, nil
}

func (s *Server) handleTagDay(ctx context.Context, req *mcp.CallToolRequest, input contextInput) (*mcp.CallToolResult, simpleOutput, error) {
	day := orToday(input.Day)
	if err := s.engine.Lens().TagDay(s.userID, input.Tag, day); err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to tag day: %w", err)
	}
	return nil, simpleOutput{Message: fmt.Sprintf("Tagged %q on %s", input.Tag, day)}, nil
}

func (s *Server) handleMarkAdjustment(ctx context.Context, req *mcp.CallToolRequest, input contextInput) (*mcp.CallToolResult, simpleOutput, error) {
	day := orToday(input.Day)
	if err := s.engine.Lens().MarkAdjustment(s.userID, input.Tag, day); err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to mark adjustment: %w", err)
	}
	return nil, simpleOutput{Message: fmt.Sprintf("Marked adjustment for %q on %s", input.Tag, day)}, nil
}

func (s *Server) handleConcludeContext(ctx context.Context, req *mcp.CallToolRequest, input contextInput) (*mcp.CallToolResult, any, error) {
	summary, _, err := s.engine.Lens().ConcludeEpisode(s.userID, input.Tag, orToday(input.Day))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to conclude context: %w", err)
	}
	return nil, summary, nil
}

func (s *Server) handleGetContextPhase(ctx context.Context, req *mcp.CallToolRequest, input contextInput) (*mcp.CallToolResult, any, error) {
	status, err := s.engine.ContextPhase(s.userID, input.Tag, orToday(input.Day))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to classify context: %w", err)
	}
	return nil, status, nil
}

func (s *Server) handleGetPrimaryDriver(ctx context.Context, req *mcp.CallToolRequest, input dayInput) (*mcp.CallToolResult, any, error) {
	top, err := s.engine.PrimaryDriver(s.userID, orToday(input.Day))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to rank drivers: %w", err)
	}
	if top == nil {
		return nil, map[string]interface{}{"message": "No disruption cleared its firing threshold."}, nil
	}
	return nil, top, nil
}

func (s *Server) handleGetReport(ctx context.Context, req *mcp.CallToolRequest, input dayInput) (*mcp.CallToolResult, any, error) {
	r, err := s.engine.Report(s.userID, orToday(input.Day))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build report: %w", err)
	}
	return nil, r, nil
}
