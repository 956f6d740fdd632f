// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/rmd2tex/internal/runlog"
	"github.com/pdiddy/rmd2tex/pkg/types"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded conversion runs",
	Long: `Runs lists the conversion history recorded by the convert command,
newest first. Filter to one manuscript with --manuscript.`,
	RunE: runRuns,
}

func runRuns(cmd *cobra.Command, args []string) error {
	logDir, _ := cmd.Flags().GetString("log-dir")
	limit, _ := cmd.Flags().GetInt("limit")
	manuscript, _ := cmd.Flags().GetString("manuscript")

	store, err := runlog.NewStore(types.RunLogConfig{Dir: logDir})
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.List(context.Background(), manuscript, limit)
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-20s  %-10s  %-6s  %-6s  %-10s  %s\n",
		"ID", "Manuscript", "Status", "Tables", "Assets", "Duration", "When")
	for _, r := range runs {
		name := r.Manuscript
		if len(name) > 20 {
			name = name[:17] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-4d  %-20s  %-10s  %-6d  %-6d  %-10s  %s\n",
			r.ID, name, r.Status, r.TablesRewritten, r.AssetsCopied,
			r.Duration.Round(time.Millisecond), r.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	fmt.Fprintf(os.Stdout, "\n%d runs\n", len(runs))
	return nil
}

func init() {
	runsCmd.Flags().String("log-dir", "", "run history directory (default: .rmd2tex)")
	runsCmd.Flags().Int("limit", 0, "maximum runs to list (0 = default)")
	runsCmd.Flags().String("manuscript", "", "filter by manuscript slug")
	runsCmd.Flags().Bool("json", false, "output runs as JSON")

	rootCmd.AddCommand(runsCmd)
}
