package driven

import "github.com/custodia-labs/defbrowser-cli/internal/core/domain"

// RenderMeta is the only non-deterministic input to rendering. It is an
// explicit parameter so tests can pin it and compare whole documents.
type RenderMeta struct {
	// GeneratedAt is a preformatted timestamp shown in the header.
	GeneratedAt string

	// Version is the generator version shown in the header.
	Version string
}

// Renderer serializes an index into one self-contained HTML document.
//
// Render is a pure function: no I/O, and identical inputs produce
// byte-identical output. Embedded values must be escaped so they cannot
// break out of the document's script or markup context.
type Renderer interface {
	Render(index *domain.Index, report *domain.Report, meta RenderMeta) (string, error)
}
