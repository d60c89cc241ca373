package storage

import (
	"context"
)

// Client defines the interface for cycle artifact storage. All paths
// are relative to the store root.
type Client interface {
	// Close closes the storage client
	Close() error

	// CreateDir creates a directory (and any necessary parent directories)
	CreateDir(ctx context.Context, dirPath string) error

	// StoreFile stores a file at the specified path
	StoreFile(ctx context.Context, filePath string, fileData []byte) error

	// GetFile retrieves a file from the specified path
	GetFile(ctx context.Context, filePath string) ([]byte, error)

	// ListDir lists contents of a directory
	ListDir(ctx context.Context, dirPath string, recursive bool) ([]string, error)

	// FileExists checks if a file exists at the specified path
	FileExists(ctx context.Context, filePath string) (bool, error)

	// ListCycles lists stored cycle folders for a station, newest first
	ListCycles(ctx context.Context, station string, limit int) ([]string, error)

	// PruneCycles removes all but the newest keep cycle folders for a
	// station, returning the number removed
	PruneCycles(ctx context.Context, station string, keep int) (int, error)
}
