package domain

// CoreLabel is the conventional name of the base game data directory.
// Parent resolution prefers it when a defName exists in several sources.
const CoreLabel = "Core"

// SourceRoot is a labelled data directory to scan, e.g. "Core" or a
// DLC such as "Royalty". Roots are built once at startup and never
// mutated afterwards.
type SourceRoot struct {
	// Label tags every record found under this root.
	Label string

	// Path is the absolute directory path.
	Path string
}

// FileRef is one candidate XML file yielded by the walker.
type FileRef struct {
	// Source is the label of the root the file was found under.
	Source string

	// Path is the absolute file path.
	Path string

	// RelPath is the path relative to the source root, with forward
	// slashes. Used for display and stable record IDs.
	RelPath string
}
