package driving

import (
	"context"

	"github.com/custodia-labs/defbrowser-cli/internal/core/domain"
)

// BuildConfig is the immutable configuration for one build run,
// assembled by the CLI from flags, the config file, and discovery.
type BuildConfig struct {
	// DataRoot is the directory the sources live under.
	DataRoot string

	// Roots lists the source roots to scan, in scan order.
	Roots []domain.SourceRoot
}

// IndexBuilder runs the scan pipeline: walk the roots, parse every XML
// file into records, resolve inheritance, and index similarity.
//
// The returned Report carries every recoverable diagnostic; the error
// is non-nil only for conditions that make a build impossible
// (for example no usable source roots).
type IndexBuilder interface {
	Build(ctx context.Context, cfg BuildConfig) (*domain.Index, *domain.Report, error)
}
