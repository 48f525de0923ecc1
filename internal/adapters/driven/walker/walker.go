// Package walker enumerates XML files under the configured source
// roots. Order is deterministic: roots in configuration order, files
// in lexicographic path order within each root, so repeated runs over
// an unchanged tree produce identical output.
package walker

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/defbrowser-cli/internal/core/domain"
	"github.com/custodia-labs/defbrowser-cli/internal/core/ports/driven"
	"github.com/custodia-labs/defbrowser-cli/internal/logger"
)

// Ensure Walker implements the interface.
var _ driven.Walker = (*Walker)(nil)

// Walker is the filesystem implementation of driven.Walker.
type Walker struct{}

// New creates a new filesystem walker.
func New() *Walker {
	return &Walker{}
}

// Walk returns every *.xml file under the given roots. An unreadable
// root is reported and skipped; the walk continues with the rest.
func (w *Walker) Walk(ctx context.Context, roots []domain.SourceRoot, report *domain.Report) []domain.FileRef {
	var refs []domain.FileRef

	for _, root := range roots {
		if err := ctx.Err(); err != nil {
			return refs
		}

		info, err := os.Stat(root.Path)
		if err != nil || !info.IsDir() {
			msg := "not a directory"
			if err != nil {
				msg = err.Error()
			}
			logger.Warn("skipping root %s: %s", root.Label, msg)
			if report != nil {
				report.AddRootError(root.Path, msg)
			}
			continue
		}

		logger.Debug("walking %s (%s)", root.Label, root.Path)
		refs = append(refs, walkRoot(root)...)
	}

	return refs
}

// walkRoot collects XML files under one root. filepath.WalkDir visits
// entries in lexical order, which gives the deterministic ordering the
// emitter depends on.
func walkRoot(root domain.SourceRoot) []domain.FileRef {
	var refs []domain.FileRef

	_ = filepath.WalkDir(root.Path, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subtree: skip it, keep walking siblings.
			logger.Debug("walk error at %s: %v", path, err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		name := d.Name()
		if strings.HasPrefix(name, ".") && path != root.Path {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if !strings.EqualFold(filepath.Ext(name), ".xml") {
			return nil
		}

		rel, relErr := filepath.Rel(root.Path, path)
		if relErr != nil {
			rel = name
		}
		refs = append(refs, domain.FileRef{
			Source:  root.Label,
			Path:    path,
			RelPath: filepath.ToSlash(rel),
		})
		return nil
	})

	return refs
}

// DiscoverRoots lists the immediate subdirectories of dataRoot as
// source roots. "Core" is ordered first when present; the rest follow
// lexicographically, matching the game's load order convention.
func DiscoverRoots(dataRoot string, exclude []string) ([]domain.SourceRoot, error) {
	entries, err := os.ReadDir(dataRoot)
	if err != nil {
		return nil, err
	}

	skip := make(map[string]bool, len(exclude))
	for _, name := range exclude {
		skip[name] = true
	}

	var core []domain.SourceRoot
	var rest []domain.SourceRoot
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") || skip[e.Name()] {
			continue
		}
		root := domain.SourceRoot{Label: e.Name(), Path: filepath.Join(dataRoot, e.Name())}
		if e.Name() == domain.CoreLabel {
			core = append(core, root)
		} else {
			rest = append(rest, root)
		}
	}

	return append(core, rest...), nil
}
