package ops

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hpungsan/sorteador/internal/errors"
)

// PathCheckMode indicates whether the path check is for reading or writing.
type PathCheckMode int

const (
	PathCheckRead  PathCheckMode = iota // for load (read spreadsheet)
	PathCheckWrite                      // for export (write workbook)
)

// ResolvePath expands a leading ~, makes path absolute and rejects targets
// that can never be a spreadsheet file:
// - an empty path
// - an existing directory
// - a symlink as the write target (the new workbook replaces the file)
//
// Missing files are left for the reader to report as NOT_FOUND.
func ResolvePath(path string, mode PathCheckMode) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", errors.NewInvalidRequest("path is required")
	}

	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", errors.NewInternal(fmt.Errorf("failed to get home directory: %w", err))
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}

	absPath, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return "", errors.NewInvalidRequest(fmt.Sprintf("invalid path: %v", err))
	}

	info, err := os.Lstat(absPath)
	if err != nil {
		return absPath, nil
	}
	if info.IsDir() {
		return "", errors.NewInvalidRequest(fmt.Sprintf("path is a directory: %s", absPath))
	}
	if mode == PathCheckWrite && info.Mode()&os.ModeSymlink != 0 {
		return "", errors.NewInvalidRequest("path must not be a symlink")
	}
	return absPath, nil
}
