package ingest

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Stats summarizes a Collect call.
type Stats struct {
	Scanned uint32 // entries visited under directory arguments
	Matched uint32 // files returned
}

// Collect expands command-line arguments into the list of files to process.
// File arguments are returned as given, whatever their extension, so that
// unsupported files are reported as skipped. Directory arguments are walked
// and only allowed files are kept. Order follows the arguments, then walk
// order (lexical) within each directory.
func Collect(args []string, skipHidden bool) ([]string, Stats, error) {
	var (
		files []string
		stats Stats
	)
	for _, arg := range args {
		if strings.TrimSpace(arg) == "" {
			continue
		}
		info, err := os.Stat(arg)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, stats, fmt.Errorf("no such file or directory: %s", arg)
			}
			return nil, stats, fmt.Errorf("stat %s: %w", arg, err)
		}
		if !info.IsDir() {
			files = append(files, arg)
			stats.Matched++
			continue
		}

		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if path != arg && skipHidden && IsHidden(path) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				return nil
			}
			stats.Scanned++
			if !d.Type().IsRegular() || !AllowedPath(path) {
				return nil
			}
			files = append(files, path)
			stats.Matched++
			return nil
		})
		if err != nil {
			return nil, stats, fmt.Errorf("walk %s: %w", arg, err)
		}
	}
	return files, stats, nil
}
