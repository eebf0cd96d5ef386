package checker

import (
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"bugbear/internal/errors"
)

// pythonExts are the file extensions collected from directories.
var pythonExts = []string{".py", ".pyi"}

// Discover expands paths into the Python files to check. Files named
// explicitly are always kept; directories are walked, skipping entries that
// match an exclude pattern. Paths that cannot be read are returned as
// failed results.
func Discover(paths, exclude []string) ([]string, []FileResult) {
	seen := make(map[string]bool)
	var files []string
	var failed []FileResult

	add := func(path string) {
		path = filepath.Clean(path)
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			failed = append(failed, FileResult{
				Path: root,
				Err:  errors.New(errors.FileUnreadable, "cannot stat path", err).WithPath(root),
			})
			continue
		}
		if !info.IsDir() {
			add(root)
			continue
		}

		walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				failed = append(failed, FileResult{
					Path: path,
					Err:  errors.New(errors.FileUnreadable, "cannot read directory", err).WithPath(path),
				})
				if d != nil && d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if path != root && excluded(root, path, exclude) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if !d.IsDir() && slices.Contains(pythonExts, filepath.Ext(path)) {
				add(path)
			}
			return nil
		})
		if walkErr != nil {
			failed = append(failed, FileResult{
				Path: root,
				Err:  errors.New(errors.FileUnreadable, "walk failed", walkErr).WithPath(root),
			})
		}
	}

	slices.Sort(files)
	return files, failed
}

// excluded matches a pattern against the base name and against the path
// relative to the walk root, using filepath.Match syntax.
func excluded(root, path string, patterns []string) bool {
	base := filepath.Base(path)
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}
	rel = filepath.ToSlash(rel)
	for _, p := range patterns {
		p = strings.TrimSuffix(strings.TrimSpace(p), "/")
		if p == "" {
			continue
		}
		if ok, _ := filepath.Match(p, base); ok {
			return true
		}
		if ok, _ := filepath.Match(p, rel); ok {
			return true
		}
	}
	return false
}
