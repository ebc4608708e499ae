// SPDX-License-Identifier: MPL-2.0

package cookfile

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultFileName is the conventional recipe source file name, looked up in
// the working directory when no --cookfile override is given.
const DefaultFileName = "cookfile"

// Parse reads and parses a cookfile from the given path.
func Parse(path string) (*Cookfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read cookfile at %s: %w", path, err)
	}
	return ParseBytes(data, path)
}

// ParseBytes parses cookfile content from bytes. The path is used for error
// reporting only.
func ParseBytes(data []byte, path string) (*Cookfile, error) {
	return parseSource(data, path)
}

// Discover returns the cookfile path for an invocation: the override when
// non-empty, otherwise DefaultFileName in the given directory. The file must
// exist; discovery across parent directories is the caller's concern.
func Discover(dir, override string) (string, error) {
	path := override
	if path == "" {
		path = filepath.Join(dir, DefaultFileName)
	}
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("no cookfile found at %s: %w", path, err)
	}
	return path, nil
}
