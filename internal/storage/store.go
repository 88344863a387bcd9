// =============================================================================
// EDI Order Translator - File Store
// =============================================================================
//
// This module provides the filesystem operations used by the router, the
// artifact writer and the process log. All paths are relative to the store
// root, so the same code runs against:
//   - the real EDI share (afero.NewBasePathFs over afero.NewOsFs)
//   - an in-memory filesystem in tests (afero.NewMemMapFs)
//
// OPERATIONS:
//   - List:           files in a directory matching a glob pattern
//   - Exists:         whether a file is present
//   - Move:           relocate a file, creating the target directory
//   - ReadLines:      non-empty lines of a text file
//   - WriteAll:       create or truncate a file with new content
//   - Append:         add content at the end of a file
//   - SetPermissions: chmod
//
// =============================================================================

package storage

import (
	"errors"
	"fmt"
	"os"
	"path"
	"sort"

	"github.com/ginjaninja78/edi-order-translator/internal/csvparser"
	"github.com/spf13/afero"
)

// FileStore is the filesystem capability the pipeline depends on.
type FileStore interface {
	List(dir, pattern string) ([]string, error)
	Exists(name string) (bool, error)
	Move(from, to string) error
	ReadLines(name string) ([]string, error)
	WriteAll(name string, data []byte) error
	Append(name string, data []byte) error
	SetPermissions(name string, mode os.FileMode) error
}

const (
	dirMode  os.FileMode = 0o755
	fileMode os.FileMode = 0o644
)

// =============================================================================
// AFERO STORE
// =============================================================================

// Store implements FileStore over an afero filesystem.
type Store struct {
	fs afero.Fs
}

// New wraps an afero filesystem.
func New(fs afero.Fs) *Store {
	return &Store{fs: fs}
}

// NewOS returns a store rooted at dir on the local disk.
func NewOS(root string) *Store {
	return New(afero.NewBasePathFs(afero.NewOsFs(), root))
}

// NewMemory returns a store backed by an in-memory filesystem.
func NewMemory() *Store {
	return New(afero.NewMemMapFs())
}

// Fs exposes the underlying filesystem.
func (s *Store) Fs() afero.Fs {
	return s.fs
}

// List returns the paths of the regular files in dir whose names match
// pattern, sorted by name.
//
// PARAMETERS:
//   - dir:     The directory to scan, relative to the store root.
//   - pattern: A glob pattern for the file name (e.g. "*.INF").
//
// RETURNS:
//   - The matching paths (dir joined with the file name).
//   - An error if the pattern is invalid or the directory cannot be read.
//     A missing directory yields an empty list.
func (s *Store) List(dir, pattern string) ([]string, error) {
	matches, err := afero.Glob(s.fs, path.Join(dir, pattern))
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
	}

	files := make([]string, 0, len(matches))
	for _, m := range matches {
		info, err := s.fs.Stat(m)
		if err != nil {
			continue
		}
		if !info.IsDir() {
			files = append(files, m)
		}
	}

	sort.Strings(files)
	return files, nil
}

// Exists reports whether name is present.
func (s *Store) Exists(name string) (bool, error) {
	ok, err := afero.Exists(s.fs, name)
	if err != nil {
		return false, fmt.Errorf("failed to stat %s: %w", name, err)
	}
	return ok, nil
}

// Move relocates a file, creating the target directory when needed.
// An existing target file is replaced.
func (s *Store) Move(from, to string) error {
	if err := s.fs.MkdirAll(path.Dir(to), dirMode); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", to, err)
	}

	if err := s.fs.Rename(from, to); err != nil {
		// Rename can fail across devices; copy and delete instead.
		if copyErr := s.copyFile(from, to); copyErr != nil {
			return fmt.Errorf("failed to move %s to %s: %w", from, to, errors.Join(err, copyErr))
		}
		if err := s.fs.Remove(from); err != nil {
			return fmt.Errorf("failed to remove %s after copy: %w", from, err)
		}
	}

	return nil
}

// ReadLines returns the non-empty lines of a text file.
func (s *Store) ReadLines(name string) ([]string, error) {
	f, err := s.fs.Open(name)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", name, err)
	}
	defer f.Close()

	lines, err := csvparser.ReadLines(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return lines, nil
}

// WriteAll creates or truncates name and writes data to it.
func (s *Store) WriteAll(name string, data []byte) error {
	if err := s.fs.MkdirAll(path.Dir(name), dirMode); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", name, err)
	}
	if err := afero.WriteFile(s.fs, name, data, fileMode); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}

// Append adds data at the end of name, creating it if needed.
func (s *Store) Append(name string, data []byte) error {
	if err := s.fs.MkdirAll(path.Dir(name), dirMode); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", name, err)
	}

	f, err := s.fs.OpenFile(name, os.O_APPEND|os.O_CREATE|os.O_WRONLY, fileMode)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", name, err)
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("failed to append to %s: %w", name, err)
	}
	return f.Close()
}

// SetPermissions changes the mode of name.
func (s *Store) SetPermissions(name string, mode os.FileMode) error {
	if err := s.fs.Chmod(name, mode); err != nil {
		return fmt.Errorf("failed to chmod %s: %w", name, err)
	}
	return nil
}

// copyFile copies a file from src to dst.
func (s *Store) copyFile(src, dst string) error {
	data, err := afero.ReadFile(s.fs, src)
	if err != nil {
		return err
	}
	return afero.WriteFile(s.fs, dst, data, fileMode)
}
