package objectstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// FileSystemStore implements Store on the local file system.
// Objects live at root/{bucket}/{key}; keys may contain slashes, which map
// to subdirectories.
type FileSystemStore struct {
	rootDir string
}

// NewFileSystemStore creates a file system backed object store rooted at
// the given directory.
func NewFileSystemStore(rootDir string) *FileSystemStore {
	return &FileSystemStore{
		rootDir: rootDir,
	}
}

func (s *FileSystemStore) objectPath(bucket, key string) string {
	return filepath.Join(s.rootDir, bucket, filepath.FromSlash(key))
}

func (s *FileSystemStore) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	content, err := os.ReadFile(s.objectPath(bucket, key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read object %s/%s: %w", bucket, key, err)
	}
	return content, nil
}

func (s *FileSystemStore) Put(ctx context.Context, bucket, key string, body []byte) error {
	path := s.objectPath(bucket, key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create object directory: %w", err)
	}
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return fmt.Errorf("failed to write object %s/%s: %w", bucket, key, err)
	}
	return nil
}
