package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	configfile "github.com/custodia-labs/defbrowser-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/defbrowser-cli/internal/adapters/driven/walker"
	"github.com/custodia-labs/defbrowser-cli/internal/core/domain"
	"github.com/custodia-labs/defbrowser-cli/internal/core/ports/driven"
	"github.com/custodia-labs/defbrowser-cli/internal/core/ports/driving"
	"github.com/custodia-labs/defbrowser-cli/internal/logger"
)

const defaultOutputFile = "DefsBrowser.html"

var (
	buildOut     string
	buildSources []string
	buildWatch   bool
)

var buildCmd = &cobra.Command{
	Use:   "build [data-root]",
	Short: "Scan a data folder and emit the HTML browser",
	Long: `Scans every source subfolder of the data root (Core first, then DLCs)
for XML def and patch files and writes one self-contained HTML document.
Defaults to the current directory as the data root.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringVarP(&buildOut, "out", "o", "", "output file (default DefsBrowser.html inside the data root)")
	buildCmd.Flags().StringArrayVar(&buildSources, "source", nil, "explicit source root as label=path (repeatable, overrides discovery)")
	buildCmd.Flags().BoolVarP(&buildWatch, "watch", "w", false, "rebuild whenever an XML file changes")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, store, err := resolveBuildConfig(args)
	if err != nil {
		return err
	}
	applyVerboseConfig(cmd, store)

	outPath := resolveOutputPath(cfg.DataRoot, store)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := buildOnce(ctx, cmd, cfg, outPath); err != nil {
		return err
	}

	if !buildWatch {
		return nil
	}
	return watchAndRebuild(ctx, cmd, cfg, outPath)
}

// resolveBuildConfig assembles the immutable build configuration from
// args, flags, the optional defbrowser.toml, and directory discovery.
// Flags take precedence over config, config over discovery defaults.
func resolveBuildConfig(args []string) (driving.BuildConfig, driven.ConfigStore, error) {
	dataRoot := "."
	if len(args) > 0 {
		dataRoot = args[0]
	}
	dataRoot, err := filepath.Abs(dataRoot)
	if err != nil {
		return driving.BuildConfig{}, nil, err
	}

	var store driven.ConfigStore
	if s, cfgErr := configfile.NewConfigStore(dataRoot); cfgErr != nil {
		logger.Warn("ignoring config file: %v", cfgErr)
	} else {
		store = s
	}

	roots, err := resolveRoots(dataRoot, store)
	if err != nil {
		return driving.BuildConfig{}, nil, err
	}
	if len(roots) == 0 {
		return driving.BuildConfig{}, nil, fmt.Errorf("%w under %s", domain.ErrNoSources, dataRoot)
	}

	return driving.BuildConfig{DataRoot: dataRoot, Roots: roots}, store, nil
}

func resolveRoots(dataRoot string, store driven.ConfigStore) ([]domain.SourceRoot, error) {
	if len(buildSources) > 0 {
		roots := make([]domain.SourceRoot, 0, len(buildSources))
		for _, spec := range buildSources {
			label, path, ok := strings.Cut(spec, "=")
			if !ok || label == "" || path == "" {
				return nil, fmt.Errorf("%w: --source wants label=path, got %q", domain.ErrInvalidInput, spec)
			}
			abs, err := filepath.Abs(path)
			if err != nil {
				return nil, err
			}
			roots = append(roots, domain.SourceRoot{Label: label, Path: abs})
		}
		return roots, nil
	}

	var exclude []string
	if store != nil {
		exclude = store.GetStringSlice("scan.exclude")
	}
	return walker.DiscoverRoots(dataRoot, exclude)
}

// applyVerboseConfig defaults logger verbosity from the config file's
// `verbose` key. An explicit --verbose flag always wins.
func applyVerboseConfig(cmd *cobra.Command, store driven.ConfigStore) {
	if store == nil {
		return
	}
	if f := cmd.Flag("verbose"); f != nil && f.Changed {
		return
	}
	if store.GetBool("verbose") {
		logger.SetVerbose(true)
	}
}

func resolveOutputPath(dataRoot string, store driven.ConfigStore) string {
	out := buildOut
	if out == "" && store != nil {
		out = store.GetString("output.file")
	}
	if out == "" {
		out = defaultOutputFile
	}
	if !filepath.IsAbs(out) {
		out = filepath.Join(dataRoot, out)
	}
	return out
}

func buildOnce(ctx context.Context, cmd *cobra.Command, cfg driving.BuildConfig, outPath string) error {
	buildID := uuid.New().String()
	logger.Info("build %s: %d root(s) under %s", buildID, len(cfg.Roots), cfg.DataRoot)

	index, report, err := indexBuilder.Build(ctx, cfg)
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}
	report.BuildID = buildID

	meta := driven.RenderMeta{
		GeneratedAt: time.Now().Format("2006-01-02 15:04:05"),
		Version:     version,
	}
	doc, err := renderer.Render(index, report, meta)
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	// The document is the whole point: a write failure is fatal.
	if err := os.WriteFile(outPath, []byte(doc), 0o644); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrOutputWrite, err)
	}

	cmd.Print(renderSummary(report, outPath))
	return nil
}

func watchAndRebuild(ctx context.Context, cmd *cobra.Command, cfg driving.BuildConfig, outPath string) error {
	w, err := walker.NewWatcher(cfg.Roots)
	if err != nil {
		return fmt.Errorf("watch failed: %w", err)
	}
	defer w.Close()

	cmd.Println("Watching for XML changes. Press Ctrl+C to stop.")
	changes := w.Changes(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-changes:
			if !ok {
				return nil
			}
			if err := buildOnce(ctx, cmd, cfg, outPath); err != nil {
				if errors.Is(err, context.Canceled) {
					return nil
				}
				// Keep watching; a broken intermediate state should
				// not kill the session.
				logger.Error("rebuild failed: %v", err)
			}
		}
	}
}
