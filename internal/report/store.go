// Package report renders every artifact of a pipeline run: markdown
// reports, CSV tables, chart data, the aggregates JSON and the
// reproducibility manifest. All writers are pure formatting over the
// core's result structures; statistics are never recomputed here.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// ArtifactStore writes run artifacts under one output directory and
// remembers what it wrote so the manifest can hash the full set.
type ArtifactStore struct {
	dir string

	mu      sync.Mutex
	written []string
}

// NewArtifactStore creates the output directory (and figures/ below it)
// and returns a store rooted there.
func NewArtifactStore(dir string) (*ArtifactStore, error) {
	if err := os.MkdirAll(filepath.Join(dir, "figures"), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	return &ArtifactStore{dir: dir}, nil
}

// Dir returns the output directory root.
func (s *ArtifactStore) Dir() string {
	return s.dir
}

// WriteArtifact writes one named artifact. Names may contain a relative
// subdirectory (figures/...). Safe for concurrent use by the persona
// fan-out.
func (s *ArtifactStore) WriteArtifact(name string, content []byte) (string, error) {
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", fmt.Errorf("failed to write artifact %s: %w", name, err)
	}

	s.mu.Lock()
	s.written = append(s.written, name)
	s.mu.Unlock()

	return path, nil
}

// Written returns the sorted names of all artifacts written so far.
func (s *ArtifactStore) Written() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, len(s.written))
	copy(names, s.written)
	sort.Strings(names)
	return names
}
