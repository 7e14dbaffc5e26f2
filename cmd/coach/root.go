// ABOUTME: Root Cobra command for coach CLI.
// ABOUTME: Opens storage, cache, and engine via PersistentPre/PostRunE.
package main

import (
	"fmt"

	"github.com/conradlabs/coach/internal/cache"
	"github.com/conradlabs/coach/internal/config"
	"github.com/conradlabs/coach/internal/engine"
	"github.com/conradlabs/coach/internal/storage"
	"github.com/spf13/cobra"
)

var (
	repo        storage.Repository
	resultCache *cache.Cache
	eng         *engine.Engine
	userID      string
)

var rootCmd = &cobra.Command{
	Use:   "coach",
	Short: "Daily physiological regulation and classification engine",
	Long: `Coach turns irregular daily logs (sleep timing, HRV, resting heart rate,
weight/waist, training sessions, a derived androgen-proxy score) into
regulatory signals against a personal baseline.

QUICK START:

  $ coach log 2026-03-31 --weight 181.4 --hrv 62 --sleep-start 21:50 --sleep-end 05:30
  $ coach proxy 2026-03-31 57.5           # Log the derived proxy score
  $ coach disturbance                     # Fused 0-100 disturbance (50 = neutral)
  $ coach regimen --from 2026-03-25       # Per-day regimen colors with hysteresis
  $ coach stability sleep                 # Alignment / consistency / recovery
  $ coach driver                          # The single dominant disruption today
  $ coach report                          # Weekly trend + calorie suggestion

CONTEXTS:

  Tag life events and watch how they land physiologically.

  $ coach context start travel            # Open an episode, back-fills tagged days
  $ coach context tag travel              # Mark today as covered by the context
  $ coach context status travel           # Phase: novelty / chronic / adaptive
  $ coach context adjust travel           # Record an intervention attempt
  $ coach context conclude travel         # Archive the dual-baseline summary

MCP INTEGRATION:

  Run 'coach mcp' to start the Model Context Protocol server for use with
  MCP-compatible AI assistants:

  {
    "mcpServers": {
      "coach": { "command": "coach", "args": ["mcp"] }
    }
  }

DATA STORAGE:

  Rows live in SQLite at ~/.local/share/coach/coach.db; computed views are
  memoized in a local cache that is invalidated whenever a day is re-logged.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip storage init for commands that don't need it
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		userID = cfg.GetUserID()

		repo, err = cfg.OpenStorage()
		if err != nil {
			return fmt.Errorf("failed to open storage: %w", err)
		}

		// The cache is a pure optimization; a locked or corrupt cache
		// directory must not block the CLI.
		resultCache, _ = cfg.OpenCache()

		eng = engine.New(repo, resultCache)
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if resultCache != nil {
			_ = resultCache.Close()
		}
		if repo != nil {
			return repo.Close()
		}
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
