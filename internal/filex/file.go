// Package filex prepares local paths used by the session stores.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnsureFileDir creates the directory that will hold the file at path and
// returns path made absolute. ":memory:" and "file:" URIs are returned as is.
func EnsureFileDir(path string) (string, error) {
	if path == ":memory:" || strings.HasPrefix(path, "file:") {
		return path, nil
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("abs %s: %w", path, err)
	}

	dir := filepath.Dir(abs)
	if err := os.MkdirAll(dir, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return abs, nil
}
