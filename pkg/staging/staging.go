// Package staging manages the per-run scratch directory that output files
// are written to before they are bundled.
package staging

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/wdm0006/tabsplit/pkg/bundle"
)

// Area is a uniquely named directory owned by one run.
type Area struct {
	dir string
}

// New creates <root>/<prefix>-<uuid>. An empty root means os.TempDir().
func New(root, prefix string) (*Area, error) {
	if root == "" {
		root = os.TempDir()
	}
	if prefix == "" {
		prefix = "tabsplit"
	}
	dir := filepath.Join(root, prefix+"-"+uuid.NewString())
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("staging root: %w", err)
	}
	// Mkdir, not MkdirAll: an existing directory is never reused
	if err := os.Mkdir(dir, 0o700); err != nil {
		return nil, fmt.Errorf("staging: %w", err)
	}
	return &Area{dir: dir}, nil
}

func (a *Area) Dir() string { return a.dir }

// Path joins name onto the area directory.
func (a *Area) Path(name string) string { return filepath.Join(a.dir, filepath.FromSlash(name)) }

func (a *Area) Write(name string, data []byte) error {
	p := a.Path(name)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	return os.WriteFile(p, data, 0o644)
}

// Create opens name for writing, creating parent directories.
func (a *Area) Create(name string) (*os.File, error) {
	p := a.Path(name)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return nil, err
	}
	return os.Create(p)
}

// Bundle packs every file in the area.
func (a *Area) Bundle() (*bundle.Bundle, error) { return bundle.FromDir(a.dir) }

// Remove deletes the area and everything in it. It is safe to call twice.
func (a *Area) Remove() error { return os.RemoveAll(a.dir) }
