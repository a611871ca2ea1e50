// Package cli implements the command-line contract shared by every
// processor built on this library: a fixed option grammar parsed
// left-to-right into a normalized Options record, with early-exit
// informational commands and worker/server mode detection.
package cli

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"ocrdkit/internal/ocrd"
	"ocrdkit/internal/trace"
)

// Options is the normalized configuration produced by Parse. Once
// validation completes, METS names an existing file, WorkingDir an existing
// directory, LogLevel is part of the fixed enumeration and both file groups
// are non-empty.
type Options struct {
	LogLevel      string
	LogFilename   string
	Debug         bool
	Overwrite     bool
	Profile       bool
	ProfileFile   string
	METS          string
	METSServerURL string
	WorkingDir    string
	PageID        string
	InputFileGrp  string
	OutputFileGrp string

	Parameters []string
	Overrides  []ocrd.Override
}

// Env carries the process-wide bindings a parse needs: the delegate, the
// filesystem, the working directory of the process, and the tool identity
// established by the wrapper.
type Env struct {
	Delegate   ocrd.Delegate
	FS         afero.Fs
	Cwd        string
	Descriptor string
	ToolName   string
	Stdout     io.Writer
	Stderr     io.Writer

	// Tracer is installed by Parse when profiling is requested.
	Tracer *trace.Tracer
}

func defaultOptions(cwd string) *Options {
	return &Options{
		METS: filepath.Join(cwd, "mets.xml"),
	}
}

// absPath resolves a possibly file://-prefixed or relative path against cwd.
func absPath(path, cwd string) string {
	path = strings.TrimPrefix(path, "file://")
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(cwd, path)
}
