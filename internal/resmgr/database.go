package resmgr

import (
	"path/filepath"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"ocrdkit/internal/config"
)

const userListComment = "# OCR-D resource list for downloadable processor resources\n"

// Resource is one entry of a resource list: a downloadable file a processor
// needs at runtime.
type Resource struct {
	Name          string `yaml:"name"`
	Description   string `yaml:"description,omitempty"`
	URL           string `yaml:"url,omitempty"`
	Size          int64  `yaml:"size,omitempty"`
	Type          string `yaml:"type,omitempty"` // file, directory or archive
	VersionRange  string `yaml:"version_range,omitempty"`
	PathInArchive string `yaml:"path_in_archive,omitempty"`
}

// Database maps executable names to their known resources.
type Database map[string][]Resource

// UserListPath returns the location of the user resource database.
func UserListPath() string {
	return filepath.Join(config.String("XDG_CONFIG_HOME"), "ocrd", "resources.yml")
}

// LoadDatabase reads a resource list file. A missing file yields an empty
// database.
func LoadDatabase(fs afero.Fs, path string) (Database, error) {
	raw, err := afero.ReadFile(fs, path)
	if err != nil {
		return Database{}, nil
	}
	db := Database{}
	if err := yaml.Unmarshal(raw, &db); err != nil {
		return nil, err
	}
	return db, nil
}

// Merge prepends other's entries, so that user-provided resources sort
// before builtin ones.
func (db Database) Merge(other Database) {
	for executable, resources := range other {
		db[executable] = append(append([]Resource(nil), resources...), db[executable]...)
	}
}

// Dedup removes duplicate resource names per executable, keeping the first
// occurrence.
func (db Database) Dedup() {
	for executable, resources := range db {
		seen := map[string]bool{}
		kept := resources[:0]
		for _, r := range resources {
			if !seen[r.Name] {
				seen[r.Name] = true
				kept = append(kept, r)
			}
		}
		db[executable] = kept
	}
}

// Save writes the database to path, creating parent directories as needed.
func (db Database) Save(fs afero.Fs, path string) error {
	db.Dedup()
	raw, err := yaml.Marshal(db)
	if err != nil {
		return err
	}
	if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return afero.WriteFile(fs, path, append([]byte(userListComment), raw...), 0o644)
}

// Find returns the resources known for an executable, filtered by name when
// name is non-empty.
func (db Database) Find(executable, name string) []Resource {
	var found []Resource
	for _, r := range db[executable] {
		if name == "" || r.Name == name {
			found = append(found, r)
		}
	}
	return found
}
