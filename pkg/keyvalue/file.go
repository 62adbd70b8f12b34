package keyvalue

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// File persists each key as a single file under a base directory.
// All operations are confined to baseDir to prevent path traversal attacks.
// Writes go through a temp file plus rename so readers never observe a
// partially written value.
type File struct {
	baseDir string // Absolute path - all values stored within this directory
}

// NewFile creates a file-backed store rooted at baseDir.
// baseDir is resolved to an absolute path and created if it doesn't exist.
// Session payloads live here, so the directory is owner-only (0700).
func NewFile(baseDir string) (*File, error) {
	if baseDir == "" {
		return nil, fmt.Errorf("keyvalue: base directory is required")
	}

	// Must resolve to absolute path for security - prevents relative path confusion
	absBaseDir, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("keyvalue: failed to resolve base directory: %w", err)
	}

	if err := os.MkdirAll(absBaseDir, 0o700); err != nil {
		return nil, fmt.Errorf("keyvalue: failed to create base directory: %w", err)
	}

	return &File{baseDir: absBaseDir}, nil
}

// Get reads the value for key.
func (f *File) Get(ctx context.Context, key string) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	path, err := f.resolveKey(key)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("keyvalue: failed to read %s: %w", key, err)
	}
	return data, nil
}

// Set writes value for key atomically via a temp file and rename.
func (f *File) Set(ctx context.Context, key string, value []byte) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	path, err := f.resolveKey(key)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(f.baseDir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("keyvalue: failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(value); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath) // Clean up partial file
		return fmt.Errorf("keyvalue: failed to write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("keyvalue: failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o600); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("keyvalue: failed to set permissions: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("keyvalue: failed to store %s: %w", key, err)
	}
	return nil
}

// Delete removes the file for key. Absent keys are not an error.
func (f *File) Delete(ctx context.Context, key string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	path, err := f.resolveKey(key)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("keyvalue: failed to delete %s: %w", key, err)
	}
	return nil
}

// resolveKey validates key and maps it to a path inside baseDir.
// Critical security function that keeps every resolved path within baseDir
// bounds; keys are restricted to a filename-safe charset so no key can name
// a directory component.
func (f *File) resolveKey(key string) (string, error) {
	if key == "" || !isSafeKey(key) {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}

	path := filepath.Join(f.baseDir, key)
	if !strings.HasPrefix(path, f.baseDir+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return path, nil
}

// isSafeKey permits [A-Za-z0-9._-] with no leading dot, which covers every
// key the session layer generates without allowing traversal sequences.
func isSafeKey(key string) bool {
	if strings.HasPrefix(key, ".") {
		return false
	}
	for _, r := range key {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '.' || r == '_' || r == '-':
		default:
			return false
		}
	}
	return true
}
