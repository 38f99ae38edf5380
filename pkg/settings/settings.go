// Package settings provides build metadata, per-run configuration, and
// context helpers shared by the kvpath CLI and library packages.
package settings

// CliBinaryName is the canonical binary name for this tool.
const CliBinaryName = "kvpath"

// VersionInformation is populated at build time via ldflags.
var VersionInformation = VersionInfo{
	Commit:       "unknown",
	BuildVersion: "v0.0.0-nightly",
	BuildTime:    "unknown",
}

// VersionInfo holds metadata about the build.
type VersionInfo struct {
	Commit       string
	BuildVersion string
	BuildTime    string
}

// InputSettings describes where the root document comes from.
type InputSettings struct {
	// Path is the file to load; empty or "-" means stdin.
	Path      string
	FromStdin bool
}

// Run holds the resolved configuration for a single invocation after the
// config file and flags have been merged.
type Run struct {
	MinLogLevel int8
	Input       InputSettings
	Output      string
	Indexing    bool
	Decode      bool
	Assert      string
	IsQuiet     bool
	ExitOnError bool
}

// NewCliParams returns the CLI defaults.
func NewCliParams() *Run {
	return &Run{
		MinLogLevel: 0,
		Input: InputSettings{
			FromStdin: true,
		},
		Output:      "auto",
		ExitOnError: true,
	}
}
