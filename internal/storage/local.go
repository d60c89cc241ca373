package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// LocalClient stores cycle artifacts on the local file system. The
// rendering pipeline needs local paths anyway (file:// URLs for the
// screenshot tool, the panel spool file), so this is the only backend.
type LocalClient struct {
	baseDir string
}

// NewLocalClient creates a local storage client rooted at baseDir.
func NewLocalClient(baseDir string) (*LocalClient, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory %s: %w", baseDir, err)
	}

	return &LocalClient{
		baseDir: baseDir,
	}, nil
}

// Close is a no-op for local storage.
func (l *LocalClient) Close() error {
	return nil
}

// BaseDir returns the store root.
func (l *LocalClient) BaseDir() string {
	return l.baseDir
}

// resolve maps a store-relative path onto the base directory, rejecting
// paths that would escape it. Operator-supplied paths from /files/ pass
// through here.
func (l *LocalClient) resolve(relPath string) (string, error) {
	if filepath.IsAbs(relPath) {
		return "", fmt.Errorf("absolute path not allowed: %s", relPath)
	}
	cleaned := filepath.Clean(relPath)
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path escapes storage root: %s", relPath)
	}
	return filepath.Join(l.baseDir, cleaned), nil
}

// CreateDir creates a directory (and any necessary parent directories)
func (l *LocalClient) CreateDir(ctx context.Context, dirPath string) error {
	full, err := l.resolve(dirPath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(full, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dirPath, err)
	}
	return nil
}

// StoreFile writes a file, creating its parent directories.
func (l *LocalClient) StoreFile(ctx context.Context, filePath string, fileData []byte) error {
	full, err := l.resolve(filePath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", filePath, err)
	}
	if err := os.WriteFile(full, fileData, 0644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", filePath, err)
	}
	return nil
}

// GetFile retrieves a file from the store.
func (l *LocalClient) GetFile(ctx context.Context, filePath string) ([]byte, error) {
	full, err := l.resolve(filePath)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(full)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filePath, err)
	}
	return data, nil
}

// ListDir lists directory contents as store-relative paths, sorted.
// Recursive listings return files only.
func (l *LocalClient) ListDir(ctx context.Context, dirPath string, recursive bool) ([]string, error) {
	full, err := l.resolve(dirPath)
	if err != nil {
		return nil, err
	}

	var paths []string
	if recursive {
		err = filepath.Walk(full, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return nil // Skip unreadable entries and continue
			}
			if !info.IsDir() {
				rel, _ := filepath.Rel(l.baseDir, path)
				paths = append(paths, rel)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk directory %s: %w", dirPath, err)
		}
	} else {
		entries, err := os.ReadDir(full)
		if err != nil {
			return nil, fmt.Errorf("failed to list directory %s: %w", dirPath, err)
		}
		for _, entry := range entries {
			rel, _ := filepath.Rel(l.baseDir, filepath.Join(full, entry.Name()))
			paths = append(paths, rel)
		}
	}

	sort.Strings(paths)
	return paths, nil
}

// FileExists checks if a file exists at the specified path.
func (l *LocalClient) FileExists(ctx context.Context, filePath string) (bool, error) {
	full, err := l.resolve(filePath)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(full); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat %s: %w", filePath, err)
	}
	return true, nil
}

// ListCycles lists cycle folders for a station, newest first. A station
// with no stored cycles yields an empty list, not an error.
func (l *LocalClient) ListCycles(ctx context.Context, station string, limit int) ([]string, error) {
	full, err := l.resolve(station)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(full)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list cycles for %s: %w", station, err)
	}

	var cycles []string
	for _, entry := range entries {
		if entry.IsDir() && ValidCycleFolder(entry.Name()) {
			cycles = append(cycles, entry.Name())
		}
	}

	// Folder names sort chronologically; reverse for newest first
	sort.Sort(sort.Reverse(sort.StringSlice(cycles)))

	if limit > 0 && limit < len(cycles) {
		cycles = cycles[:limit]
	}
	return cycles, nil
}

// PruneCycles removes all but the newest keep cycle folders for a
// station, returning the number removed.
func (l *LocalClient) PruneCycles(ctx context.Context, station string, keep int) (int, error) {
	if keep < 0 {
		keep = 0
	}

	cycles, err := l.ListCycles(ctx, station, 0)
	if err != nil {
		return 0, err
	}
	if len(cycles) <= keep {
		return 0, nil
	}

	removed := 0
	for _, cycle := range cycles[keep:] {
		full, err := l.resolve(filepath.Join(station, cycle))
		if err != nil {
			return removed, err
		}
		if err := os.RemoveAll(full); err != nil {
			return removed, fmt.Errorf("failed to remove cycle %s: %w", cycle, err)
		}
		removed++
	}
	return removed, nil
}
