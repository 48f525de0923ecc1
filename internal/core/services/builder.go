package services

import (
	"context"
	"fmt"
	"os"

	"github.com/custodia-labs/defbrowser-cli/internal/core/domain"
	"github.com/custodia-labs/defbrowser-cli/internal/core/ports/driven"
	"github.com/custodia-labs/defbrowser-cli/internal/core/ports/driving"
	"github.com/custodia-labs/defbrowser-cli/internal/logger"
)

// Ensure BuilderService implements the interface.
var _ driving.IndexBuilder = (*BuilderService)(nil)

// BuilderService runs the scan pipeline:
// walk roots, parse files, resolve inheritance, index similarity.
type BuilderService struct {
	walker driven.Walker
	parser driven.RecordParser

	// readFile is injectable for tests; defaults to os.ReadFile.
	readFile func(string) ([]byte, error)
}

// NewBuilderService creates a new builder service.
func NewBuilderService(walker driven.Walker, parser driven.RecordParser) *BuilderService {
	return &BuilderService{
		walker:   walker,
		parser:   parser,
		readFile: os.ReadFile,
	}
}

// Build scans the configured roots and returns the annotated index.
//
// Recoverable problems (unreadable roots, malformed files, duplicate
// defNames) land on the Report; the error return is reserved for
// conditions that make a build impossible.
func (s *BuilderService) Build(ctx context.Context, cfg driving.BuildConfig) (*domain.Index, *domain.Report, error) {
	if len(cfg.Roots) == 0 {
		return nil, nil, domain.ErrNoSources
	}

	report := &domain.Report{}

	logger.Section("Scan")
	refs := s.walker.Walk(ctx, cfg.Roots, report)
	if len(report.RootErrors) == len(cfg.Roots) {
		return nil, report, fmt.Errorf("%w: all %d roots unreadable", domain.ErrNoSources, len(cfg.Roots))
	}

	index := &domain.Index{
		DataRoot: cfg.DataRoot,
		Sources:  cfg.Roots,
	}

	// Duplicate guard: first (source, defType, defName) wins, later
	// ones are shadowed with a warning. Records without a defName
	// (abstract defs, typically) are exempt.
	seen := make(map[string]bool)

	for _, ref := range refs {
		if err := ctx.Err(); err != nil {
			return nil, report, err
		}

		data, err := s.readFile(ref.Path)
		if err != nil {
			report.AddParseError(ref.Path, err.Error())
			continue
		}
		report.FilesScanned++

		records, err := s.parser.ParseFile(ref, data)
		if err != nil {
			logger.Debug("parse failed: %s: %v", ref.Path, err)
			report.AddParseError(ref.Path, err.Error())
			continue
		}

		for _, rec := range records {
			if rec.Kind == domain.KindDef && rec.DefName != "" {
				if seen[rec.ID] {
					report.AddDuplicateWarning(ref.Path,
						fmt.Sprintf("%s:%s already defined in %s, shadowed", rec.DefType, rec.DefName, rec.Source))
					continue
				}
				seen[rec.ID] = true
			}
			switch rec.Kind {
			case domain.KindDef:
				report.DefCount++
			case domain.KindPatch:
				report.PatchCount++
			}
			index.Records = append(index.Records, rec)
		}
	}

	logger.Section("Resolve")
	ResolveInheritance(index.Records)
	logger.Section("Similarity")
	IndexSimilarity(index.Records)

	logger.Info("built index: %d defs, %d patches, %d files",
		report.DefCount, report.PatchCount, report.FilesScanned)

	return index, report, nil
}
