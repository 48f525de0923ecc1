package driven

import (
	"context"

	"github.com/custodia-labs/defbrowser-cli/internal/core/domain"
)

// Walker enumerates candidate XML files under a set of source roots.
//
// The returned slice is deterministic: files appear in root order, then
// lexicographic path order within each root. An unreadable root is
// reported on the Report and skipped; it never fails the walk.
type Walker interface {
	Walk(ctx context.Context, roots []domain.SourceRoot, report *domain.Report) []domain.FileRef
}
