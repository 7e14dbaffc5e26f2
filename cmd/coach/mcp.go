// ABOUTME: CLI command for starting MCP server.
// ABOUTME: Runs stdio-based MCP server for AI assistant integration.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/conradlabs/coach/internal/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant integration.

MCP allows AI assistants like Claude to read and log your physiology data
through a standardized protocol. The server communicates via stdin/stdout.

CLAUDE DESKTOP CONFIGURATION:

  Add this to your Claude Desktop config (claude_desktop_config.json):

  {
    "mcpServers": {
      "coach": {
        "command": "coach",
        "args": ["mcp"]
      }
    }
  }

  On macOS, the config is at:
    ~/Library/Application Support/Claude/claude_desktop_config.json

AVAILABLE TOOLS:

  log_day             Record a day's metrics
  log_proxy           Record an external readiness score
  get_disturbance     Disturbance score with components and slope
  get_regimen_range   Regimen colors for a day range
  get_stability       Schedule stability for a domain
  start_context       Open a tagged context episode
  tag_day             Mark a day as covered by an open episode
  mark_adjustment     Mark a protocol adjustment
  conclude_context    Close an episode and archive its summary
  get_context_phase   Phase classification for a tagged context
  get_primary_driver  The day's dominant disruption
  get_report          Daily report with trend and calorie band

AVAILABLE RESOURCES:

  coach://today       Today's disturbance and primary driver
  coach://dashboard   Last 7 days of regimen colors plus the report`,
	RunE: func(cmd *cobra.Command, args []string) error {
		server, err := mcp.NewServer(eng, userID)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Handle shutdown signals
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigChan
			cancel()
		}()

		return server.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
