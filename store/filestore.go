package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/beatty/myagent/artifact"
	"github.com/beatty/myagent/core"
	"github.com/beatty/myagent/logging"
)

// ErrNotFound is returned when a logical name exists in neither the artifact
// backend nor the fallback directory.
var ErrNotFound = errors.New("file not found")

// artifactNamespace prefixes the namespaced lookup variant tried on reads.
const artifactNamespace = "user:"

// ReadResult carries the bytes of a read together with classification and
// provenance.
type ReadResult struct {
	Name     string
	Data     []byte
	MIMEType string
	Source   string // "artifact" or "local"
}

// Options configure a FileStore.
type Options struct {
	// Artifacts is the optional backend. When nil, the store is local-only.
	Artifacts core.ArtifactStore
	// Logger receives structured store events.
	Logger logging.Logger
}

// FileStore reads and writes named files against an optional artifact
// backend with a local fallback directory as the source of truth.
//
// Concurrent writers to the same logical name race with last-write-wins
// semantics; no locks are held.
type FileStore struct {
	root      string
	artifacts core.ArtifactStore
	logger    logging.Logger
}

// NewFileStore constructs a FileStore rooted at the given fallback
// directory.
func NewFileStore(root string, optFns ...func(o *Options)) *FileStore {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	return &FileStore{root: root, artifacts: opts.Artifacts, logger: opts.Logger}
}

// Root returns the fallback directory.
func (s *FileStore) Root() string { return s.root }

// resolve maps a logical name to a filesystem path. A name with no directory
// separator and not absolute lives under the fallback root; anything else is
// used as given.
func (s *FileStore) resolve(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	if strings.ContainsRune(name, '/') || strings.ContainsRune(name, os.PathSeparator) {
		return name
	}
	return filepath.Join(s.root, name)
}

// Write persists content under the logical name: local directory first (the
// source of truth for the fallback path), then best-effort mirror to the
// artifact backend. Mirroring failure is logged and never rolls back or
// fails the local write.
func (s *FileStore) Write(ctx context.Context, sessionID, name string, data []byte) error {
	path := s.resolve(name)
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create parent directories for %s: %w", name, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	s.logger.Debug("store.write.local", "name", name, "path", path, "bytes", len(data))

	if s.artifacts != nil {
		if err := s.artifacts.Save(ctx, sessionID, name, data); err != nil {
			s.logger.Warn("store.mirror.failed", "name", name, "error", err.Error())
		} else {
			s.logger.Debug("store.mirror.saved", "name", name, "bytes", len(data))
		}
	}
	return nil
}

// Read fetches the logical name, preferring the artifact backend (exact
// name, then the namespaced variant) and falling back to the local path on
// miss or backend error. Returns ErrNotFound when the name exists nowhere.
func (s *FileStore) Read(ctx context.Context, sessionID, name string) (*ReadResult, error) {
	if s.artifacts != nil {
		for _, key := range []string{name, artifactNamespace + name} {
			data, err := s.artifacts.Get(ctx, sessionID, key)
			if err == nil {
				return &ReadResult{Name: name, Data: data, MIMEType: MIMEType(name), Source: "artifact"}, nil
			}
			if !errors.Is(err, artifact.ErrNotFound) {
				s.logger.Warn("store.artifact.read_failed", "name", key, "error", err.Error())
				break // backend unhealthy, go straight to disk
			}
		}
	}

	path := s.resolve(name)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return &ReadResult{Name: name, Data: data, MIMEType: MIMEType(name), Source: "local"}, nil
}

// List enumerates plain files directly under the fallback root unioned with
// the names reported by the artifact backend (namespace prefix stripped),
// deduplicated and sorted. There is no recursion into subdirectories.
// Backend unavailability degrades to the local listing.
func (s *FileStore) List(ctx context.Context, sessionID string) ([]string, error) {
	seen := map[string]struct{}{}

	entries, err := os.ReadDir(s.root)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("list %s: %w", s.root, err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		seen[e.Name()] = struct{}{}
	}

	if s.artifacts != nil {
		names, err := s.artifacts.List(ctx, sessionID)
		if err != nil {
			s.logger.Warn("store.artifact.list_failed", "error", err.Error())
		} else {
			for _, n := range names {
				seen[strings.TrimPrefix(n, artifactNamespace)] = struct{}{}
			}
		}
	}

	out := make([]string, 0, len(seen))
	for n := range seen {
		out = append(out, n)
	}
	sort.Strings(out)
	return out, nil
}
