package services

import (
	"sort"

	"github.com/custodia-labs/defbrowser-cli/internal/core/domain"
)

type tagKey struct {
	key   string
	value string
}

// IndexSimilarity annotates every def record with the field/value
// pairs it shares with at least one other def record. Counts are per
// record, so a pair repeated inside one record does not make that
// record similar to itself.
func IndexSimilarity(records []domain.Record) {
	counts := make(map[tagKey]int)
	for i := range records {
		if records[i].Kind != domain.KindDef {
			continue
		}
		for _, k := range recordTagKeys(&records[i]) {
			counts[k]++
		}
	}

	for i := range records {
		rec := &records[i]
		if rec.Kind != domain.KindDef {
			continue
		}

		var tags []domain.SimilarTag
		for _, k := range recordTagKeys(rec) {
			n := counts[k]
			if n < 2 {
				continue
			}
			tags = append(tags, domain.SimilarTag{Key: k.key, Value: k.value, Count: n})
		}
		sort.Slice(tags, func(a, b int) bool {
			if tags[a].Key != tags[b].Key {
				return tags[a].Key < tags[b].Key
			}
			return tags[a].Value < tags[b].Value
		})
		rec.SimilarTags = tags
	}
}

// recordTagKeys returns the record's distinct (key, value) pairs in
// field order.
func recordTagKeys(rec *domain.Record) []tagKey {
	seen := make(map[tagKey]bool, len(rec.Fields))
	keys := make([]tagKey, 0, len(rec.Fields))
	for _, f := range rec.Fields {
		k := tagKey{f.Key, f.Value}
		if seen[k] {
			continue
		}
		seen[k] = true
		keys = append(keys, k)
	}
	return keys
}
