package constants

import "strings"

// AllowedExtensions holds the file extensions the renamer will process.
var AllowedExtensions = map[string]struct{}{
	"pdf": {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// IsAllowedExt reports whether ext (with or without the dot) can be processed.
func IsAllowedExt(ext string) bool {
	_, ok := AllowedExtensions[NormalizeExt(ext)]
	return ok
}

// Default metadata values used when no strategy produces a value.
const (
	DefaultInsured    = "UnknownInsured"
	DefaultCompany    = "UnknownCompany"
	DefaultDate       = "0000-00-00"
	DefaultTypeDetail = "Doc"
)
