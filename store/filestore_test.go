package store

import (
	"context"
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/beatty/myagent/artifact"
	"github.com/beatty/myagent/core"
	"github.com/stretchr/testify/assert"
)

func TestMIMEType(t *testing.T) {
	cases := map[string]string{
		"photo.jpg":  "image/jpeg",
		"photo.JPEG": "image/jpeg",
		"chart.png":  "image/png",
		"report.PDF": "application/pdf",
		"data.json":  "application/json",
		"notes.txt":  "text/plain",
		"README":     "text/plain",
	}
	for name, want := range cases {
		assert.Equal(t, want, MIMEType(name), "name %q", name)
	}
}

func TestEncodeContent(t *testing.T) {
	// Binary MIME types are always base64, even for valid text bytes.
	content, enc := EncodeContent([]byte("fake png"), "image/png")
	assert.Equal(t, "base64", enc)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("fake png")), content)

	// Text content stays text.
	content, enc = EncodeContent([]byte("hello"), "text/plain")
	assert.Equal(t, "text", enc)
	assert.Equal(t, "hello", content)

	// Invalid UTF-8 falls back to base64.
	raw := []byte{0xff, 0xfe, 0x00, 0x01}
	content, enc = EncodeContent(raw, "text/plain")
	assert.Equal(t, "base64", enc)
	assert.Equal(t, base64.StdEncoding.EncodeToString(raw), content)
}

func TestFileStore_WriteReadRoundtripLocal(t *testing.T) {
	ctx := context.Background()
	fs := NewFileStore(t.TempDir())

	if err := fs.Write(ctx, "s1", "notes.txt", []byte("hello")); err != nil {
		t.Fatalf("write: %v", err)
	}
	res, err := fs.Read(ctx, "s1", "notes.txt")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	assert.Equal(t, []byte("hello"), res.Data)
	assert.Equal(t, "text/plain", res.MIMEType)
	assert.Equal(t, "local", res.Source)
}

func TestFileStore_ReadPrefersArtifactBackend(t *testing.T) {
	ctx := context.Background()
	arts := artifact.NewInMemoryStore()
	fs := NewFileStore(t.TempDir(), func(o *Options) { o.Artifacts = arts })

	if err := arts.Save(ctx, "s1", "remote.txt", []byte("from backend")); err != nil {
		t.Fatal(err)
	}
	res, err := fs.Read(ctx, "s1", "remote.txt")
	assert.NoError(t, err)
	assert.Equal(t, "artifact", res.Source)
	assert.Equal(t, []byte("from backend"), res.Data)
}

func TestFileStore_ReadNamespacedVariant(t *testing.T) {
	ctx := context.Background()
	arts := artifact.NewInMemoryStore()
	fs := NewFileStore(t.TempDir(), func(o *Options) { o.Artifacts = arts })

	if err := arts.Save(ctx, "s1", "user:scoped.txt", []byte("namespaced")); err != nil {
		t.Fatal(err)
	}
	res, err := fs.Read(ctx, "s1", "scoped.txt")
	assert.NoError(t, err)
	assert.Equal(t, "artifact", res.Source)
	assert.Equal(t, []byte("namespaced"), res.Data)
}

func TestFileStore_WriteMirrorsToBackend(t *testing.T) {
	ctx := context.Background()
	arts := artifact.NewInMemoryStore()
	fs := NewFileStore(t.TempDir(), func(o *Options) { o.Artifacts = arts })

	if err := fs.Write(ctx, "s1", "both.txt", []byte("dual")); err != nil {
		t.Fatal(err)
	}
	data, err := arts.Get(ctx, "s1", "both.txt")
	assert.NoError(t, err)
	assert.Equal(t, []byte("dual"), data)
}

// failingStore simulates an unavailable backend.
type failingStore struct{}

func (failingStore) Save(context.Context, string, string, []byte) error {
	return errors.New("backend down")
}
func (failingStore) Get(context.Context, string, string) ([]byte, error) {
	return nil, errors.New("backend down")
}
func (failingStore) List(context.Context, string) ([]string, error) {
	return nil, errors.New("backend down")
}
func (failingStore) Delete(context.Context, string, string) error {
	return errors.New("backend down")
}

var _ core.ArtifactStore = failingStore{}

func TestFileStore_BackendFailureDegradesToLocal(t *testing.T) {
	ctx := context.Background()
	fs := NewFileStore(t.TempDir(), func(o *Options) { o.Artifacts = failingStore{} })

	// Write succeeds despite mirror failure.
	if err := fs.Write(ctx, "s1", "local.txt", []byte("still here")); err != nil {
		t.Fatalf("write: %v", err)
	}

	// Read falls through to disk.
	res, err := fs.Read(ctx, "s1", "local.txt")
	assert.NoError(t, err)
	assert.Equal(t, "local", res.Source)
	assert.Equal(t, []byte("still here"), res.Data)

	// List degrades to the local set.
	names, err := fs.List(ctx, "s1")
	assert.NoError(t, err)
	assert.Equal(t, []string{"local.txt"}, names)
}

func TestFileStore_ReadMissing(t *testing.T) {
	fs := NewFileStore(t.TempDir())
	_, err := fs.Read(context.Background(), "s1", "nope.txt")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileStore_ListUnionDedupSorted(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	arts := artifact.NewInMemoryStore()
	fs := NewFileStore(root, func(o *Options) { o.Artifacts = arts })

	// Local files, including one shared with the backend and a subdirectory
	// that must be skipped.
	if err := os.WriteFile(filepath.Join(root, "b.txt"), []byte("b"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "shared.txt"), []byte("s"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(root, "subdir"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := arts.Save(ctx, "s1", "shared.txt", []byte("s")); err != nil {
		t.Fatal(err)
	}
	if err := arts.Save(ctx, "s1", "user:a.txt", []byte("a")); err != nil {
		t.Fatal(err)
	}

	names, err := fs.List(ctx, "s1")
	assert.NoError(t, err)
	assert.Equal(t, []string{"a.txt", "b.txt", "shared.txt"}, names)
}

func TestFileStore_ListEmptyRootMissing(t *testing.T) {
	fs := NewFileStore(filepath.Join(t.TempDir(), "does-not-exist-yet"))
	names, err := fs.List(context.Background(), "s1")
	assert.NoError(t, err)
	assert.Empty(t, names)
}

func TestFileStore_PathResolution(t *testing.T) {
	root := t.TempDir()
	fs := NewFileStore(root)

	// Bare name resolves under the root.
	assert.Equal(t, filepath.Join(root, "plain.txt"), fs.resolve("plain.txt"))

	// Absolute and relative paths with separators are used as given.
	abs := filepath.Join(root, "sub", "x.txt")
	assert.Equal(t, abs, fs.resolve(abs))
	assert.Equal(t, "sub/x.txt", fs.resolve("sub/x.txt"))
}

func TestFileStore_WriteCreatesParents(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	fs := NewFileStore(root)

	nested := filepath.Join(root, "deep", "nested", "f.txt")
	if err := fs.Write(ctx, "s1", nested, []byte("x")); err != nil {
		t.Fatalf("write: %v", err)
	}
	data, err := os.ReadFile(nested)
	assert.NoError(t, err)
	assert.Equal(t, []byte("x"), data)
}
