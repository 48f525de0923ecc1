package domain

// Diagnostic is one recoverable problem found during a build, tied to
// the file (or root) it came from. Diagnostics never abort the scan;
// they are collected and surfaced as a post-run summary.
type Diagnostic struct {
	FilePath string `json:"filePath"`
	Message  string `json:"message"`
}

// Report accumulates counters and diagnostics across one build.
type Report struct {
	// BuildID identifies this run in logs. Never embedded in the
	// output document, which must stay deterministic.
	BuildID string

	FilesScanned int
	DefCount     int
	PatchCount   int

	// RootErrors lists source roots that could not be read.
	RootErrors []Diagnostic

	// ParseErrors lists files whose XML failed to parse.
	ParseErrors []Diagnostic

	// DuplicateWarnings lists (source, defType, defName) collisions.
	// The first-seen record wins; later ones are shadowed.
	DuplicateWarnings []Diagnostic
}

// AddRootError records an unreadable source root.
func (r *Report) AddRootError(path, msg string) {
	r.RootErrors = append(r.RootErrors, Diagnostic{FilePath: path, Message: msg})
}

// AddParseError records a file that failed to parse.
func (r *Report) AddParseError(path, msg string) {
	r.ParseErrors = append(r.ParseErrors, Diagnostic{FilePath: path, Message: msg})
}

// AddDuplicateWarning records a shadowed duplicate defName.
func (r *Report) AddDuplicateWarning(path, msg string) {
	r.DuplicateWarnings = append(r.DuplicateWarnings, Diagnostic{FilePath: path, Message: msg})
}

// HasProblems reports whether any diagnostic was collected.
func (r *Report) HasProblems() bool {
	return len(r.RootErrors) > 0 || len(r.ParseErrors) > 0 || len(r.DuplicateWarnings) > 0
}
