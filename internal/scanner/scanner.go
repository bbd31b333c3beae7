package scanner

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"github.com/fjglira/tapparser/internal/domain"
)

// Scanner discovers TAP result files and documents that embed TAP output.
type Scanner interface {
	Scan(rootDir string, patterns []string, excludes []string) ([]string, error)
}

// FileScanner implements Scanner by walking an afero.Fs.
type FileScanner struct {
	Recursive bool
	FS        afero.Fs
}

// NewScanner creates a new FileScanner over the OS filesystem.
func NewScanner(recursive bool) *FileScanner {
	return NewScannerWithFs(afero.NewOsFs(), recursive)
}

// NewScannerWithFs creates a new FileScanner over fs.
func NewScannerWithFs(fs afero.Fs, recursive bool) *FileScanner {
	return &FileScanner{Recursive: recursive, FS: fs}
}

// Scan walks rootDir and returns sorted file paths matching any of the given
// glob patterns while excluding paths that match any exclude pattern.
func (s *FileScanner) Scan(rootDir string, patterns []string, excludes []string) ([]string, error) {
	var files []string

	err := afero.Walk(s.FS, rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		relPath, relErr := filepath.Rel(rootDir, path)
		if relErr != nil {
			relPath = path
		}

		if info.IsDir() {
			if relPath == "." {
				return nil
			}
			if !s.Recursive || matchesAny(relPath, excludes) {
				return filepath.SkipDir
			}
			return nil
		}

		if !matchesAny(relPath, excludes) && matchesAny(relPath, patterns) {
			files = append(files, path)
		}
		return nil
	})

	if err != nil {
		return nil, domain.NewErrorWithSuggestion("scan", rootDir, 0,
			"failed to scan directory",
			"check input.directories in tapparser.yaml",
			err)
	}

	sort.Strings(files)
	return files, nil
}

func matchesAny(path string, patterns []string) bool {
	for _, p := range patterns {
		if matchGlob(path, p) {
			return true
		}
	}
	return false
}

// matchGlob matches a path against a glob pattern, supporting ** for recursive matching.
func matchGlob(path, pattern string) bool {
	if strings.Contains(pattern, "**") {
		parts := strings.SplitN(pattern, "**", 2)
		prefix := strings.TrimSuffix(parts[0], "/")
		suffix := strings.TrimPrefix(parts[1], "/")
		path = filepath.ToSlash(path)

		if prefix != "" {
			if path != prefix && !strings.HasPrefix(path, prefix+"/") {
				return false
			}
			path = strings.TrimPrefix(strings.TrimPrefix(path, prefix), "/")
		}

		if suffix == "" {
			return true
		}

		// Try matching suffix against each possible subpath
		pathParts := strings.Split(path, "/")
		for i := range pathParts {
			if matched, _ := filepath.Match(suffix, strings.Join(pathParts[i:], "/")); matched {
				return true
			}
		}
		return false
	}

	if matched, _ := filepath.Match(pattern, filepath.Base(path)); matched {
		return true
	}
	matched, _ := filepath.Match(pattern, filepath.ToSlash(path))
	return matched
}
