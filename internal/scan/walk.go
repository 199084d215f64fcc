// Package scan produces the structural and language snapshot of a working tree.
package scan

import (
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/repobrief/repobrief/internal/ignore"
)

// Structure enumerates every regular non-ignored file under root and groups
// the basenames by immediate parent directory, relative to root. Files in
// the root itself are keyed as ".". File lists are sorted. Symlinks are not
// followed, so cyclic links cannot loop the walk.
func Structure(root string) (map[string][]string, error) {
	structure := map[string][]string{}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable entries are skipped, not fatal
		}
		rel, err := filepath.Rel(root, path)
		if err != nil || rel == "." {
			return nil
		}
		if ignore.Match(rel) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}

		dir := filepath.ToSlash(filepath.Dir(rel))
		structure[dir] = append(structure[dir], d.Name())
		return nil
	})
	if err != nil {
		return nil, err
	}

	for dir := range structure {
		sort.Strings(structure[dir])
	}
	return structure, nil
}

// Flatten converts a directory structure into a flat, sorted list of
// slash-separated file paths relative to the tree root.
func Flatten(structure map[string][]string) []string {
	var all []string
	for dir, files := range structure {
		for _, name := range files {
			if dir == "." {
				all = append(all, name)
			} else {
				all = append(all, dir+"/"+name)
			}
		}
	}
	sort.Strings(all)
	return all
}
