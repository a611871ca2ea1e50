// Package resmgr locates processor resources on disk following the OCR-D
// lookup order: current directory, the processor's PATH-style environment
// variable, the XDG data location, the system location, and the module
// directory.
package resmgr

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/afero"

	"ocrdkit/internal/config"
)

// SystemDir is the system-wide resource location.
const SystemDir = "/usr/local/share/ocrd-resources"

// Manager resolves and lists processor resources.
type Manager struct {
	FS        afero.Fs
	Cwd       string
	DataHome  string // defaults to $XDG_DATA_HOME
	SystemDir string
	ModuleDir string
}

// NewManager creates a manager rooted in the real filesystem.
func NewManager() *Manager {
	cwd, _ := os.Getwd()
	return &Manager{
		FS:        afero.NewOsFs(),
		Cwd:       cwd,
		DataHome:  config.String("XDG_DATA_HOME"),
		SystemDir: SystemDir,
	}
}

// pathVar is the name of the PATH-style environment variable consulted for
// the given executable, e.g. OCRD_CP_PATH for ocrd-cp.
func pathVar(executable string) string {
	return strings.ToUpper(strings.ReplaceAll(executable, "-", "_")) + "_PATH"
}

// CandidatePaths returns the locations where a resource named fname may
// live for the given executable, in lookup order. The paths are not checked
// for existence.
func (m *Manager) CandidatePaths(executable, fname string) []string {
	candidates := []string{filepath.Join(m.Cwd, fname)}
	if dirs, ok := os.LookupEnv(pathVar(executable)); ok {
		for _, dir := range strings.Split(dirs, ":") {
			if dir != "" {
				candidates = append(candidates, filepath.Join(dir, fname))
			}
		}
	}
	candidates = append(candidates,
		filepath.Join(m.DataHome, "ocrd-resources", executable, fname),
		filepath.Join(m.SystemDir, executable, fname),
	)
	if m.ModuleDir != "" {
		candidates = append(candidates, filepath.Join(m.ModuleDir, fname))
	}
	return candidates
}

// Resolve returns the first existing candidate path for fname, or "" when
// none exists.
func (m *Manager) Resolve(executable, fname string) string {
	for _, candidate := range m.CandidatePaths(executable, fname) {
		if ok, _ := afero.Exists(m.FS, candidate); ok {
			return candidate
		}
	}
	return ""
}

// ListAll returns the names of every resource present in the filesystem for
// the given executable, sorted and de-duplicated.
func (m *Manager) ListAll(executable string) []string {
	seen := map[string]bool{}
	var names []string
	add := func(dir string) {
		entries, err := afero.ReadDir(m.FS, dir)
		if err != nil {
			return
		}
		for _, e := range entries {
			if !seen[e.Name()] {
				seen[e.Name()] = true
				names = append(names, e.Name())
			}
		}
	}
	if dirs, ok := os.LookupEnv(pathVar(executable)); ok {
		for _, dir := range strings.Split(dirs, ":") {
			if dir != "" {
				add(dir)
			}
		}
	}
	add(filepath.Join(m.DataHome, "ocrd-resources", executable))
	add(filepath.Join(m.SystemDir, executable))
	if m.ModuleDir != "" {
		add(m.ModuleDir)
	}
	sort.Strings(names)
	return names
}

// MediaType guesses the media type of a resource file, content first, then
// by extension.
func (m *Manager) MediaType(path string) string {
	if f, err := m.FS.Open(path); err == nil {
		defer f.Close()
		if mt, err := mimetype.DetectReader(f); err == nil && mt.String() != "application/octet-stream" {
			return mt.String()
		}
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return "application/json"
	case ".yml", ".yaml":
		return "text/yaml"
	case ".xml":
		return "application/xml"
	case ".txt":
		return "text/plain"
	}
	return "application/octet-stream"
}
