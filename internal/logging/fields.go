package logging

// Structured field names shared by every log call site.
const (
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldWorkingDir = "working_dir"
	FieldConfig     = "config"
	FieldSource     = "source"
	FieldInput      = "input"
	FieldOutput     = "output"

	// Run options.
	FieldCheck   = "check"
	FieldEmit    = "emit"
	FieldFormat  = "format"
	FieldJobs    = "jobs"
	FieldTimeout = "timeout"

	// Run statistics.
	FieldFilesDiscovered = "files_discovered"
	FieldFilesFormatted  = "files_formatted"
	FieldFilesChanged    = "files_changed"
	FieldFilesFailed     = "files_failed"
	FieldDiagnostics     = "diagnostics"
	FieldDuration        = "duration"

	// Per-file outcome.
	FieldNonFormatted = "non_formatted"
	FieldKind         = "kind"
	FieldLine         = "line"

	// Build information.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
