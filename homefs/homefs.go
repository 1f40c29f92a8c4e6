// Package homefs provides per-user file access confined to a home directory.
//
// Every path is resolved relative to the user's home; anything escaping it
// (via .. or absolute paths outside the home) is rejected. Confinement here
// is by path resolution only — OS-level isolation such as containers or
// chroot is a deployment concern layered on top.
package homefs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var (
	// ErrOutsideHome is returned when the resolved path escapes the home directory.
	ErrOutsideHome = errors.New("access denied: path outside home directory")
	// ErrNotDirectory is returned when a listing target is not a directory.
	ErrNotDirectory = errors.New("not a directory")
	// ErrNotFound is returned when the target does not exist.
	ErrNotFound = errors.New("file not found")
)

// Entry describes one name inside a directory listing.
type Entry struct {
	Name     string `json:"name"`
	Type     string `json:"type"` // "file" or "directory"
	Size     int64  `json:"size"`
	Modified int64  `json:"modified"` // Unix milliseconds
}

// Service resolves and serves paths inside user home directories.
type Service struct {
	maxFileSize int64
}

// Option configures the Service.
type Option func(*Service)

// WithMaxFileSize caps the size of files accepted by Save. Zero disables the cap.
func WithMaxFileSize(n int64) Option {
	return func(s *Service) { s.maxFileSize = n }
}

// NewService creates a home file service.
func NewService(opts ...Option) *Service {
	s := &Service{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Resolve expands a user-supplied path ("~" means the home root) and
// verifies it stays inside homeDir. The returned path is absolute.
func (s *Service) Resolve(homeDir, target string) (string, error) {
	if target == "" {
		target = "~"
	}
	if strings.HasPrefix(target, "~") {
		target = filepath.Join(homeDir, strings.TrimPrefix(target, "~"))
	} else if !filepath.IsAbs(target) {
		target = filepath.Join(homeDir, target)
	}
	resolved := filepath.Clean(target)
	homeAbs, err := filepath.Abs(homeDir)
	if err != nil {
		return "", err
	}
	if resolved != homeAbs && !strings.HasPrefix(resolved, homeAbs+string(filepath.Separator)) {
		return "", ErrOutsideHome
	}
	return resolved, nil
}

// DisplayPath renders an absolute in-home path with the home replaced by "~".
func (s *Service) DisplayPath(homeDir, resolved string) string {
	homeAbs, err := filepath.Abs(homeDir)
	if err != nil {
		return resolved
	}
	if resolved == homeAbs {
		return "~"
	}
	return "~" + strings.TrimPrefix(resolved, homeAbs)
}

// List returns the entries of a directory inside the home, directories
// first, then case-insensitive by name.
func (s *Service) List(homeDir, target string) (string, []Entry, error) {
	resolved, err := s.Resolve(homeDir, target)
	if err != nil {
		return "", nil, err
	}
	info, err := os.Stat(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil, fmt.Errorf("%s: %w", target, ErrNotFound)
		}
		return "", nil, err
	}
	if !info.IsDir() {
		return "", nil, fmt.Errorf("%s: %w", target, ErrNotDirectory)
	}

	dirents, err := os.ReadDir(resolved)
	if err != nil {
		return "", nil, err
	}
	entries := make([]Entry, 0, len(dirents))
	for _, de := range dirents {
		fi, err := de.Info()
		if err != nil {
			continue
		}
		e := Entry{
			Name:     de.Name(),
			Type:     "file",
			Modified: fi.ModTime().UnixMilli(),
		}
		if de.IsDir() {
			e.Type = "directory"
		} else {
			e.Size = fi.Size()
		}
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Type != entries[j].Type {
			return entries[i].Type == "directory"
		}
		return strings.ToLower(entries[i].Name) < strings.ToLower(entries[j].Name)
	})
	return s.DisplayPath(homeDir, resolved), entries, nil
}

// Read returns the contents of a file inside the home.
func (s *Service) Read(homeDir, target string) ([]byte, error) {
	resolved, err := s.Resolve(homeDir, target)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", target, ErrNotFound)
		}
		return nil, err
	}
	return data, nil
}

// Save writes a file inside the home atomically (temp file + rename),
// creating parent directories as needed.
func (s *Service) Save(homeDir, target string, content []byte) error {
	if s.maxFileSize > 0 && int64(len(content)) > s.maxFileSize {
		return fmt.Errorf("file exceeds maximum size of %d bytes", s.maxFileSize)
	}
	resolved, err := s.Resolve(homeDir, target)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(resolved), 0o750); err != nil {
		return err
	}
	return writeFileAtomic(resolved, content, 0o640)
}

// Delete removes a file or empty directory inside the home. Deleting a
// missing path is an error so callers can report it.
func (s *Service) Delete(homeDir, target string) error {
	resolved, err := s.Resolve(homeDir, target)
	if err != nil {
		return err
	}
	if _, err := os.Stat(resolved); errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%s: %w", target, ErrNotFound)
	}
	return os.Remove(resolved)
}

// EnsureHome creates the user's home directory if it does not exist.
func EnsureHome(homeDir string) error {
	return os.MkdirAll(homeDir, 0o750)
}

// writeFileAtomic writes to a temp file in the same directory and renames
// it over the target, so readers never observe a partial write.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
