package services

import (
	"fmt"
	"sort"

	"github.com/custodia-labs/defbrowser-cli/internal/core/domain"
	"github.com/custodia-labs/defbrowser-cli/internal/logger"
)

// maxChainDepth caps a parent walk. Real def hierarchies are a handful
// of levels deep; anything past this is garbage input.
const maxChainDepth = 100

type defKey struct {
	defType string
	defName string
}

// defLookup indexes def records per source for parent resolution.
type defLookup struct {
	bySource map[string]map[defKey]*domain.Record
	sources  []string
}

func buildLookup(records []domain.Record) *defLookup {
	l := &defLookup{bySource: make(map[string]map[defKey]*domain.Record)}
	for i := range records {
		rec := &records[i]
		if rec.Kind != domain.KindDef || rec.DefName == "" {
			continue
		}
		m := l.bySource[rec.Source]
		if m == nil {
			m = make(map[defKey]*domain.Record)
			l.bySource[rec.Source] = m
			l.sources = append(l.sources, rec.Source)
		}
		key := defKey{rec.DefType, rec.DefName}
		// First seen wins; the builder already warned about duplicates.
		if _, ok := m[key]; !ok {
			m[key] = rec
		}
	}
	sort.Strings(l.sources)
	return l
}

// resolve finds a parent def, preferring the record's own source, then
// Core, then the remaining sources alphabetically. Parents are looked
// up within the same defType only.
func (l *defLookup) resolve(curSource, defType, parentName string) *domain.Record {
	key := defKey{defType, parentName}
	if rec, ok := l.bySource[curSource][key]; ok {
		return rec
	}
	if rec, ok := l.bySource[domain.CoreLabel][key]; ok {
		return rec
	}
	for _, src := range l.sources {
		if src == curSource || src == domain.CoreLabel {
			continue
		}
		if rec, ok := l.bySource[src][key]; ok {
			return rec
		}
	}
	return nil
}

// ResolveInheritance annotates every def record with its resolved
// ancestor chain (nearest first) and the effective merged field set.
//
// Missing parents and cycles are expected input, not errors: the walk
// records what it found and stops. Patch records are left untouched.
func ResolveInheritance(records []domain.Record) {
	lookup := buildLookup(records)

	for i := range records {
		rec := &records[i]
		if rec.Kind != domain.KindDef {
			continue
		}

		chain := walkChain(lookup, rec)
		rec.ResolvedAncestors = chain.ids
		rec.AncestorLabels = chain.labels
		rec.InheritedFields = mergeFields(rec, chain.ancestors)
	}
}

type parentChain struct {
	ids       []string
	labels    []string
	ancestors []*domain.Record // nearest first
}

type visitKey struct {
	source  string
	defType string
	name    string
}

func walkChain(lookup *defLookup, rec *domain.Record) parentChain {
	var chain parentChain

	// Seed the visited set with the record itself: a chain must never
	// loop back to where it started.
	visited := map[visitKey]bool{
		{rec.Source, rec.DefType, rec.DefName}: true,
	}

	curSource := rec.Source
	curType := rec.DefType
	parentName := rec.ParentName

	for depth := 0; parentName != ""; depth++ {
		if depth >= maxChainDepth {
			chain.labels = append(chain.labels, fmt.Sprintf("(stopped: depth>%d)", maxChainDepth))
			break
		}
		key := visitKey{curSource, curType, parentName}
		if visited[key] {
			logger.Debug("inheritance cycle at %s:%s (from %s)", curType, parentName, rec.ID)
			chain.labels = append(chain.labels, "(stopped: cycle)")
			break
		}
		visited[key] = true

		parent := lookup.resolve(curSource, curType, parentName)
		if parent == nil {
			chain.labels = append(chain.labels, fmt.Sprintf("%s:%s (missing)", curType, parentName))
			break
		}
		if parent.ID == rec.ID {
			logger.Debug("inheritance cycle back to %s", rec.ID)
			chain.labels = append(chain.labels, "(stopped: cycle)")
			break
		}

		chain.ids = append(chain.ids, parent.ID)
		chain.labels = append(chain.labels, parent.DisplayLabel())
		chain.ancestors = append(chain.ancestors, parent)

		parentName = parent.ParentName
		curType = parent.DefType
		curSource = parent.Source
	}

	return chain
}

// mergeFields computes the effective field set: ancestors applied
// furthest first, then the record's own fields on top. A nearer value
// overrides a further one in place, so field order follows the first
// (furthest) definition.
func mergeFields(rec *domain.Record, ancestors []*domain.Record) []domain.Field {
	if len(ancestors) == 0 {
		return rec.Fields
	}

	pos := make(map[string]int)
	var merged []domain.Field

	apply := func(fields []domain.Field) {
		for _, f := range fields {
			if i, ok := pos[f.Key]; ok {
				merged[i].Value = f.Value
				continue
			}
			pos[f.Key] = len(merged)
			merged = append(merged, f)
		}
	}

	for i := len(ancestors) - 1; i >= 0; i-- {
		apply(ancestors[i].Fields)
	}
	apply(rec.Fields)

	return merged
}
