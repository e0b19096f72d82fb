// Package testutil holds the scratch-directory helpers barky tests share.
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestEnv is a per-test scratch directory. Every path handed out by it is
// checked to stay inside that directory, and the directory is removed when
// the test ends.
type TestEnv struct {
	t    *testing.T
	root string
}

// NewTestEnv returns a TestEnv rooted at t.TempDir().
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()
	return &TestEnv{t: t, root: t.TempDir()}
}

// RootDir returns the scratch directory.
func (e *TestEnv) RootDir() string {
	return e.root
}

// Path joins elem under the scratch directory. Paths that would resolve
// outside it fail the test.
func (e *TestEnv) Path(elem ...string) string {
	e.t.Helper()

	p := filepath.Join(append([]string{e.root}, elem...)...)
	if !e.contains(p) {
		e.t.Fatalf("path %q is outside test dir %q", p, e.root)
	}
	return p
}

// DBPath returns the path of a database file named name inside the scratch
// directory, adding a .db extension when name has none.
func (e *TestEnv) DBPath(name string) string {
	e.t.Helper()

	if filepath.Ext(name) == "" {
		name += ".db"
	}
	return e.Path(name)
}

func (e *TestEnv) contains(p string) bool {
	rel, err := filepath.Rel(e.root, filepath.Clean(p))
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// WriteFileString writes content to rel, creating parent directories.
func (e *TestEnv) WriteFileString(rel, content string) {
	e.t.Helper()

	p := e.Path(rel)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		e.t.Fatalf("mkdir %s: %v", filepath.Dir(p), err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		e.t.Fatalf("write %s: %v", p, err)
	}
}

// ReadFile returns the contents of rel.
func (e *TestEnv) ReadFile(rel string) []byte {
	e.t.Helper()

	data, err := os.ReadFile(e.Path(rel))
	if err != nil {
		e.t.Fatalf("read %s: %v", rel, err)
	}
	return data
}

// ReadFileString returns the contents of rel as a string.
func (e *TestEnv) ReadFileString(rel string) string {
	e.t.Helper()
	return string(e.ReadFile(rel))
}

// MkdirAll creates rel and its parents.
func (e *TestEnv) MkdirAll(rel string) {
	e.t.Helper()

	if err := os.MkdirAll(e.Path(rel), 0o755); err != nil {
		e.t.Fatalf("mkdir %s: %v", rel, err)
	}
}

// FileExists reports whether anything exists at rel.
func (e *TestEnv) FileExists(rel string) bool {
	e.t.Helper()

	_, err := os.Stat(e.Path(rel))
	return err == nil
}
