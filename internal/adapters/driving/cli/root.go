// Package cli implements the cobra command tree. Commands talk to the
// core through the driving ports only; adapters are wired in once at
// startup.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/defbrowser-cli/internal/adapters/driven/emitter"
	"github.com/custodia-labs/defbrowser-cli/internal/adapters/driven/walker"
	"github.com/custodia-labs/defbrowser-cli/internal/adapters/driven/xmlparser"
	"github.com/custodia-labs/defbrowser-cli/internal/core/ports/driven"
	"github.com/custodia-labs/defbrowser-cli/internal/core/ports/driving"
	"github.com/custodia-labs/defbrowser-cli/internal/core/services"
	"github.com/custodia-labs/defbrowser-cli/internal/logger"
)

// version is overridden at release time via -ldflags.
var version = "dev"

var (
	indexBuilder driving.IndexBuilder
	renderer     driven.Renderer
	verboseFlag  bool
)

var rootCmd = &cobra.Command{
	Use:   "defbrowser",
	Short: "Build a browsable HTML index of game def and patch XML files",
	Long: `defbrowser scans a game data folder (Core plus any DLC subfolders)
for XML definition and patch files and produces a single self-contained
HTML document for browsing, filtering and searching them offline.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "verbose logging to stderr")
}

// Execute wires the default adapters and runs the command tree.
func Execute() error {
	if indexBuilder == nil {
		indexBuilder = services.NewBuilderService(walker.New(), xmlparser.New())
	}
	if renderer == nil {
		renderer = emitter.New()
	}
	return rootCmd.Execute()
}
