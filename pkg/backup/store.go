// Package backup manages timestamped backup directories on disk.
package backup

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const (
	dirPrefix       = "backup_"
	timestampLayout = "2006-01-02_15-04-05"
)

// Store persists backup directories under a base directory.
type Store struct {
	baseDir string
}

// NewStore ensures the base directory exists and returns a handle.
func NewStore(baseDir string) (*Store, error) {
	if baseDir == "" {
		baseDir = "./backups"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create backup directory: %w", err)
	}
	return &Store{baseDir: baseDir}, nil
}

// Begin creates a fresh timestamped backup directory and returns its name.
func (s *Store) Begin(now time.Time) (string, error) {
	name := dirPrefix + now.Format(timestampLayout)
	if err := os.MkdirAll(filepath.Join(s.baseDir, name), 0o755); err != nil {
		return "", fmt.Errorf("create backup dir %s: %w", name, err)
	}
	return name, nil
}

// WriteFile writes one file into the named backup directory.
func (s *Store) WriteFile(backupName, filename string, data []byte) error {
	path := filepath.Join(s.baseDir, backupName, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write backup file %s: %w", filename, err)
	}
	return nil
}

// List returns backup directory names sorted ascending, which is
// chronological given the timestamp naming.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list backups: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() && strings.HasPrefix(entry.Name(), dirPrefix) {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Remove deletes the named backup directory recursively.
func (s *Store) Remove(backupName string) error {
	if err := os.RemoveAll(filepath.Join(s.baseDir, backupName)); err != nil {
		return fmt.Errorf("remove backup %s: %w", backupName, err)
	}
	return nil
}

// Size walks the named backup directory and sums regular file sizes.
func (s *Store) Size(backupName string) (int64, error) {
	return DirectorySize(filepath.Join(s.baseDir, backupName))
}

// CreatedAt parses the creation time out of a backup directory name.
func CreatedAt(backupName string) (time.Time, error) {
	raw := strings.TrimPrefix(backupName, dirPrefix)
	t, err := time.Parse(timestampLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse backup timestamp %q: %w", backupName, err)
	}
	return t, nil
}

// Exists reports whether the named backup directory is present.
func (s *Store) Exists(backupName string) bool {
	info, err := os.Stat(filepath.Join(s.baseDir, backupName))
	return err == nil && info.IsDir()
}

// Path exposes the absolute path of a backup (useful for debugging).
func (s *Store) Path(backupName string) string {
	return filepath.Join(s.baseDir, backupName)
}

// DirectorySize recursively sums regular file sizes under path. A missing
// path contributes 0.
func DirectorySize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}
	if !info.IsDir() {
		return info.Size(), nil
	}
	var total int64
	err = filepath.WalkDir(path, func(_ string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		fi, err := d.Info()
		if err != nil {
			return err
		}
		total += fi.Size()
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("walk %s: %w", path, err)
	}
	return total, nil
}
