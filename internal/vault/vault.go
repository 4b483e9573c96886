// Package vault is the document store the generated briefings are written
// into: a key-value store of text documents keyed by slash-separated path,
// with existence-check, create, folder-create, rename, and listing.
package vault

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Store is the orchestrator's only means of persisting output. Read exists
// for user-supplied template documents.
type Store interface {
	Exists(p string) bool
	Create(p, content string) error
	Read(p string) (string, error)
	CreateFolder(p string) error
	Rename(oldPath, newPath string) error
	List(folder string) ([]string, error)
}

// DocumentName returns the flat document name for a date.
func DocumentName(t time.Time) string {
	return "Daily News - " + t.Format("2006-01-02") + ".md"
}

// MonthFolder returns the monthly subfolder for a date, relative to the
// archive root.
func MonthFolder(archive string, t time.Time) string {
	return path.Join(archive, t.Format("2006-01"))
}

// DocumentPath returns the deterministic target path for a date:
// {archive}/{YYYY-MM}/Daily News - {YYYY-MM-DD}.md
func DocumentPath(archive string, t time.Time) string {
	return path.Join(MonthFolder(archive, t), DocumentName(t))
}

// --- Filesystem store ---

// FS stores documents on the local filesystem under a root directory.
type FS struct {
	Root string
}

var _ Store = (*FS)(nil)

func NewFS(root string) *FS { return &FS{Root: root} }

func (f *FS) abs(p string) string {
	p = filepath.FromSlash(p)
	if f.Root == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(f.Root, p)
}

func (f *FS) Exists(p string) bool {
	_, err := os.Stat(f.abs(p))
	return err == nil
}

func (f *FS) Create(p, content string) error {
	target := f.abs(p)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("creating folder for %s: %w", p, err)
	}
	if err := os.WriteFile(target, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", p, err)
	}
	return nil
}

func (f *FS) Read(p string) (string, error) {
	data, err := os.ReadFile(f.abs(p))
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", p, err)
	}
	return string(data), nil
}

func (f *FS) CreateFolder(p string) error {
	if err := os.MkdirAll(f.abs(p), 0o755); err != nil {
		return fmt.Errorf("creating folder %s: %w", p, err)
	}
	return nil
}

func (f *FS) Rename(oldPath, newPath string) error {
	target := f.abs(newPath)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("creating folder for %s: %w", newPath, err)
	}
	if err := os.Rename(f.abs(oldPath), target); err != nil {
		return fmt.Errorf("renaming %s: %w", oldPath, err)
	}
	return nil
}

// List returns the names of regular files directly inside folder.
func (f *FS) List(folder string) ([]string, error) {
	entries, err := os.ReadDir(f.abs(folder))
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", folder, err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// --- In-memory store ---

// Memory is an in-memory Store for tests.
type Memory struct {
	Docs    map[string]string
	Folders map[string]bool

	CreateErr       error // injected fault for Create
	CreateFolderErr error // injected fault for CreateFolder
}

var _ Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{Docs: make(map[string]string), Folders: make(map[string]bool)}
}

func (m *Memory) Exists(p string) bool {
	_, ok := m.Docs[p]
	return ok || m.Folders[p]
}

func (m *Memory) Create(p, content string) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.Docs[p] = content
	return nil
}

func (m *Memory) Read(p string) (string, error) {
	content, ok := m.Docs[p]
	if !ok {
		return "", fmt.Errorf("reading %s: not found", p)
	}
	return content, nil
}

func (m *Memory) CreateFolder(p string) error {
	if m.CreateFolderErr != nil {
		return m.CreateFolderErr
	}
	m.Folders[p] = true
	return nil
}

func (m *Memory) Rename(oldPath, newPath string) error {
	content, ok := m.Docs[oldPath]
	if !ok {
		return fmt.Errorf("renaming %s: not found", oldPath)
	}
	if _, exists := m.Docs[newPath]; exists {
		return fmt.Errorf("renaming %s: target exists", oldPath)
	}
	delete(m.Docs, oldPath)
	m.Docs[newPath] = content
	return nil
}

func (m *Memory) List(folder string) ([]string, error) {
	prefix := strings.TrimSuffix(folder, "/") + "/"
	var names []string
	for p := range m.Docs {
		if !strings.HasPrefix(p, prefix) {
			continue
		}
		rest := strings.TrimPrefix(p, prefix)
		if !strings.Contains(rest, "/") {
			names = append(names, rest)
		}
	}
	sort.Strings(names)
	return names, nil
}
