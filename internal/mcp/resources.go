// ABOUTME: MCP resource implementations for the coach engine.
// ABOUTME: Provides coach://today and coach://dashboard resources.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/conradlabs/coach/internal/window"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerResources() {
	// coach://today - today's disturbance view and primary driver
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "coach://today",
		Name:        "Today's Regulation View",
		Description: "Disturbance score, slope, and primary driver for today",
		MIMEType:    "application/json",
	}, s.handleTodayResource)

	// coach://dashboard - last 7 days of regimen marks plus the report
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "coach://dashboard",
		Name:        "Weekly Dashboard",
		Description: "Last 7 days of regimen colors plus the daily coaching report",
		MIMEType:    "application/json",
	}, s.handleDashboardResource)
}

// Resource handlers

func (s *Server) handleTodayResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	today := window.Today()

	d, err := s.engine.Disturbance(s.userID, today)
	if err != nil {
		return nil, fmt.Errorf("failed to compute disturbance: %w", err)
	}
	top, err := s.engine.PrimaryDriver(s.userID, today)
	if err != nil {
		return nil, fmt.Errorf("failed to rank drivers: %w", err)
	}

	result := map[string]interface{}{
		"disturbance":    d,
		"primary_driver": top,
	}
	return jsonResource("coach://today", result)
}

func (s *Server) handleDashboardResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	today := window.Today()

	marks, err := s.engine.RegimenRange(s.userID, window.AddDays(today, -6), today)
	if err != nil {
		return nil, fmt.Errorf("failed to classify week: %w", err)
	}
	report, err := s.engine.Report(s.userID, today)
	if err != nil {
		return nil, fmt.Errorf("failed to build report: %w", err)
	}

	result := map[string]interface{}{
		"regimen": marks,
		"report":  report,
	}
	return jsonResource("coach://dashboard", result)
}

func jsonResource(uri string, v interface{}) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
