// Package emitter serializes an index into one self-contained HTML
// document: a fixed shell with the full record set embedded as a JSON
// data block. Rendering is a pure function of its inputs, so identical
// record sets produce byte-identical documents.
package emitter

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/custodia-labs/defbrowser-cli/internal/core/domain"
	"github.com/custodia-labs/defbrowser-cli/internal/core/ports/driven"
)

//go:embed shell.html
var shell string

// Ensure Emitter implements the interface.
var _ driven.Renderer = (*Emitter)(nil)

// Emitter renders the embedded HTML shell around the record payload.
type Emitter struct{}

// New creates a new HTML emitter.
func New() *Emitter {
	return &Emitter{}
}

// payload is the data contract the viewer consumes. Consumers must
// treat it as read-only input.
type payload struct {
	Records []domain.Record    `json:"records"`
	Errors  []domain.Diagnostic `json:"errors"`
}

// Render produces the final document. The JSON encoder escapes '<',
// '>' and '&' to \u-sequences, so no field value, raw XML snippet or
// file path can terminate the enclosing <script> block.
func (e *Emitter) Render(index *domain.Index, report *domain.Report, meta driven.RenderMeta) (string, error) {
	if index == nil {
		return "", domain.ErrInvalidInput
	}

	p := payload{
		Records: index.Records,
		Errors:  parseErrors(report),
	}
	if p.Records == nil {
		p.Records = []domain.Record{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(true)
	if err := enc.Encode(p); err != nil {
		return "", fmt.Errorf("encode payload: %w", err)
	}
	dataJSON := strings.TrimRight(buf.String(), "\n")

	doc := strings.NewReplacer(
		"__DATA_JSON__", dataJSON,
		"__DATA_ROOT__", htmlEscape(index.DataRoot),
		"__GEN_TIME__", htmlEscape(meta.GeneratedAt),
		"__VERSION__", htmlEscape(meta.Version),
		"__TOTAL__", strconv.Itoa(len(index.Records)),
		"__SRC_COUNT__", strconv.Itoa(sourceCount(index)),
	).Replace(shell)

	return doc, nil
}

func parseErrors(report *domain.Report) []domain.Diagnostic {
	if report == nil || len(report.ParseErrors) == 0 {
		return []domain.Diagnostic{}
	}
	return report.ParseErrors
}

// sourceCount counts sources that actually contributed records.
func sourceCount(index *domain.Index) int {
	seen := make(map[string]bool)
	for i := range index.Records {
		seen[index.Records[i].Source] = true
	}
	return len(seen)
}

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

func htmlEscape(s string) string {
	return htmlEscaper.Replace(s)
}
