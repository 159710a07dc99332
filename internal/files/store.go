// Package files confines tool file access to a single directory.
package files

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrOutsideRoot is returned for paths that resolve outside the store.
var ErrOutsideRoot = errors.New("path escapes files directory")

type Store struct {
	root string
}

// NewStore creates root if needed and anchors the store at its absolute path.
func NewStore(root string) (*Store, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve files dir: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create files dir: %w", err)
	}
	return &Store{root: abs}, nil
}

func (s *Store) Root() string { return s.root }

// Resolve maps a relative or absolute name to an absolute path inside the store.
func (s *Store) Resolve(name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", errors.New("empty path")
	}
	p := name
	if !filepath.IsAbs(p) {
		p = filepath.Join(s.root, p)
	}
	p = filepath.Clean(p)
	rel, err := filepath.Rel(s.root, p)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrOutsideRoot, name)
	}
	return p, nil
}

// List returns the entry names of the store root, sorted.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

func (s *Store) Read(name string) (string, error) {
	p, err := s.Resolve(name)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Write replaces the file content, creating parent directories, and returns
// the absolute path written.
func (s *Store) Write(name, content string) (string, error) {
	p, err := s.Resolve(name)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		return "", err
	}
	return p, nil
}

// Create opens name for writing, truncating any previous content.
func (s *Store) Create(name string) (*os.File, error) {
	p, err := s.Resolve(name)
	if err != nil {
		return nil, err
	}
	return os.Create(p)
}

func (s *Store) Remove(name string) error {
	p, err := s.Resolve(name)
	if err != nil {
		return err
	}
	return os.Remove(p)
}
