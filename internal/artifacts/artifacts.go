// Package artifacts names and writes screenshot files.
package artifacts

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/oklog/ulid/v2"
)

// Store writes screenshots under Dir.
type Store struct {
	Dir string
}

// NewStore returns a store rooted at dir, defaulting to the OS temp dir.
func NewStore(dir string) *Store {
	if dir == "" {
		dir = os.TempDir()
	}
	return &Store{Dir: dir}
}

// NewRunID returns a lexically sortable, collision-free run identifier.
func NewRunID() string {
	return strings.ToLower(ulid.Make().String())
}

// Path returns the file a screenshot for the given run and tag is written to.
// The name is sample-<slug>-<runID>-<tag>.png.
func (s *Store) Path(slug, runID, tag string) string {
	name := fmt.Sprintf("sample-%s-%s-%s.png", slug, runID, tag)
	return filepath.Join(s.Dir, name)
}

// Write stores data for the given run and tag and returns the path.
func (s *Store) Write(slug, runID, tag string, data []byte) (string, error) {
	path := s.Path(slug, runID, tag)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("creating screenshot directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing screenshot %s: %w", path, err)
	}
	return path, nil
}
