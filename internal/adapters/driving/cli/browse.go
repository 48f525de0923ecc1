package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/defbrowser-cli/internal/adapters/driving/tui"
	"github.com/custodia-labs/defbrowser-cli/internal/logger"
)

var browseCmd = &cobra.Command{
	Use:   "browse [data-root]",
	Short: "Scan a data folder and browse the records in the terminal",
	Long: `Scans the data root like build does, then opens an interactive
terminal browser over the records instead of writing an HTML file.

Controls:
  type       - Filter records
  ↑/k, ↓/j   - Navigate
  Enter      - Open record detail
  Esc, q     - Back / Quit`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	// Recover with a stack trace so a rendering panic doesn't leave
	// the terminal in the alternate screen with no explanation.
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "panic in browser: %v\n%s\n", r, debug.Stack())
		}
	}()

	cfg, store, err := resolveBuildConfig(args)
	if err != nil {
		return err
	}
	applyVerboseConfig(cmd, store)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	index, report, err := indexBuilder.Build(ctx, cfg)
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}

	for _, diag := range report.ParseErrors {
		logger.Warn("parse error in %s: %s", diag.FilePath, diag.Message)
	}
	logger.Info("browsing %d records from %d source(s)", len(index.Records), len(index.Sources))

	return tui.Run(ctx, index)
}
