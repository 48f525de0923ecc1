package driven

import "github.com/custodia-labs/defbrowser-cli/internal/core/domain"

// RecordParser turns one XML file's bytes into zero or more records.
//
// A file whose root is neither <Defs> nor patch-shaped yields no records
// and no error. Malformed XML returns the decoder error; the caller
// records it as a parse diagnostic and moves on.
type RecordParser interface {
	ParseFile(ref domain.FileRef, data []byte) ([]domain.Record, error)
}
