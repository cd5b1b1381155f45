package utils

import (
	"os"
	"path/filepath"
	"strings"
)

// userHomeDir is swapped out in tests.
var userHomeDir = os.UserHomeDir

// ExpandPath resolves a leading "~" to the home directory and cleans the result.
func ExpandPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := userHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return filepath.Clean(path), nil
}
