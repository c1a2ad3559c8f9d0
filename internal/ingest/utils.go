package ingest

import (
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/policy-renamer/constants"
)

// AllowedPath checks the path's extension against constants.AllowedExtensions.
func AllowedPath(path string) bool {
	return constants.IsAllowedExt(filepath.Ext(path))
}

// IsHidden checks if a file or directory is hidden (starts with '.').
func IsHidden(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".") && base != "." && base != ".."
}
