// Package domain defines the core entities for the defs browser.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - SourceRoot: A labelled data directory (Core or a DLC)
//   - Record: One parsed definition or patch operation
//   - Index: The full record set produced by one build
//   - Report: Diagnostics collected during a build
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
