package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/taskmaster/planner/internal/ports"
)

var backupStamp = strings.NewReplacer(":", "-", ".", "-")

// JSONFile stores a collection as one indented JSON array on disk.
type JSONFile[T any] struct {
	path string
	now  func() time.Time
}

// NewJSONFile creates a store for path. The parent directory is created on
// first save.
func NewJSONFile[T any](path string) *JSONFile[T] {
	return &JSONFile[T]{path: path, now: time.Now}
}

var _ ports.Store[struct{}] = (*JSONFile[struct{}])(nil)

// Path returns the backing file path.
func (f *JSONFile[T]) Path() string {
	return f.path
}

// Load reads the collection. A missing or empty file yields an empty slice.
func (f *JSONFile[T]) Load() ([]T, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []T{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", f.path, err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return []T{}, nil
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", f.path, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// Save rewrites the whole collection. The data is written to a temporary
// sibling first and renamed into place.
func (f *JSONFile[T]) Save(items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", f.path, err)
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("replace %s: %w", f.path, err)
	}
	return nil
}

// Backup copies the current file to <name>_backup_<timestamp>.json next to
// it and returns the copy's path. It returns "" without error when there is
// nothing to back up.
func (f *JSONFile[T]) Backup() (string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("read %s: %w", f.path, err)
	}

	ext := filepath.Ext(f.path)
	name := strings.TrimSuffix(filepath.Base(f.path), ext)
	stamp := backupStamp.Replace(f.now().UTC().Format("2006-01-02T15:04:05.000Z"))
	dst := filepath.Join(filepath.Dir(f.path), fmt.Sprintf("%s_backup_%s.json", name, stamp))

	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return "", fmt.Errorf("write backup %s: %w", dst, err)
	}
	return dst, nil
}

// Stats reports whether the file exists, its size and modification time.
func (f *JSONFile[T]) Stats() (ports.StoreStats, error) {
	stats := ports.StoreStats{Path: f.path}

	info, err := os.Stat(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return stats, nil
		}
		return stats, fmt.Errorf("stat %s: %w", f.path, err)
	}

	modified := info.ModTime()
	stats.FileExists = true
	stats.FileSize = info.Size()
	stats.LastModified = &modified
	return stats, nil
}
