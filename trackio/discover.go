package trackio

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Discover expands roots into the readable track files beneath them.
// Files are kept if named directly, even with an unknown extension, so that
// the caller reports them. Within directories only readable files count,
// and files whose base name already ends in suffix are skipped as outputs
// of an earlier run. The result is sorted and free of duplicates.
func Discover(roots []string, suffix string) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			add(filepath.Clean(root))
			continue
		}
		err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if p != root && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if !IsReadable(p) || IsOutput(p, suffix) {
				return nil
			}
			add(p)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	sort.Strings(out)
	return out, nil
}

// IsOutput reports whether path's stem ends in suffix.
func IsOutput(path, suffix string) bool {
	if suffix == "" {
		return false
	}
	return strings.HasSuffix(Stem(path), suffix)
}
