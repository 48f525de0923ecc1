// defbrowser scans a moddable game's data folder for XML def and
// patch files and emits a single self-contained HTML browser over
// them, or browses them directly in the terminal.
package main

import (
	"os"

	"github.com/custodia-labs/defbrowser-cli/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
