// Package security confines file system access to a root directory.
package security

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	ErrEmptyPath    = errors.New("file path cannot be empty")
	ErrForbidden    = errors.New("file path contains forbidden character")
	ErrEscapesRoot  = errors.New("file path escapes base directory")
	ErrEmptyBaseDir = errors.New("base directory cannot be empty")
)

// forbiddenChars are shell metacharacters and control characters never
// allowed in a stored path.
const forbiddenChars = ";&|$`<>!\n\r\x00"

// ValidateFilePathInDir resolves rel against baseDir and returns the absolute
// path, rejecting anything that would land outside baseDir.
func ValidateFilePathInDir(rel, baseDir string) (string, error) {
	if rel == "" {
		return "", ErrEmptyPath
	}
	if baseDir == "" {
		return "", ErrEmptyBaseDir
	}
	if i := strings.IndexAny(rel, forbiddenChars); i >= 0 {
		return "", fmt.Errorf("%w %q: %s", ErrForbidden, rel[i], rel)
	}

	base, err := resolve(baseDir)
	if err != nil {
		return "", fmt.Errorf("resolve base directory: %w", err)
	}

	candidate := rel
	if !filepath.IsAbs(candidate) {
		candidate = filepath.Join(base, candidate)
	}
	full, err := resolve(candidate)
	if err != nil {
		return "", fmt.Errorf("resolve file path: %w", err)
	}

	if full != base && !strings.HasPrefix(full, base+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s is not within %s", ErrEscapesRoot, rel, baseDir)
	}
	return full, nil
}

// ReadFileInDir reads rel from inside baseDir.
func ReadFileInDir(rel, baseDir string) ([]byte, error) {
	path, err := ValidateFilePathInDir(rel, baseDir)
	if err != nil {
		return nil, err
	}
	// #nosec G304 - path is confined to baseDir above
	return os.ReadFile(path)
}

// WriteFileInDir writes data to rel inside baseDir, creating parent
// directories. The file is written to a temporary name and renamed so readers
// never observe a partial file.
func WriteFileInDir(rel, baseDir string, data []byte) (string, error) {
	path, err := ValidateFilePathInDir(rel, baseDir)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".upload-*")
	if err != nil {
		return "", err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", err
	}
	return path, nil
}

// resolve makes path absolute and follows symlinks of its longest existing prefix.
func resolve(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	existing := abs
	var rest []string
	for {
		resolved, err := filepath.EvalSymlinks(existing)
		if err == nil {
			return filepath.Join(append([]string{resolved}, rest...)...), nil
		}
		if !os.IsNotExist(err) {
			return "", err
		}
		parent := filepath.Dir(existing)
		if parent == existing {
			return abs, nil
		}
		rest = append([]string{filepath.Base(existing)}, rest...)
		existing = parent
	}
}
