package scan

import (
	"bufio"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/go-enry/go-enry/v2"

	"github.com/repobrief/repobrief/internal/ignore"
	"github.com/repobrief/repobrief/internal/lang"
)

// maxLineBytes bounds a single line during counting. Files with longer
// lines are treated as unreadable rather than miscounted.
const maxLineBytes = 1024 * 1024

// SkippedFile records a file left out of language aggregation and why.
type SkippedFile struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// Languages walks root and accumulates per-language line counts for every
// non-ignored file whose extension is recognized. Binary or undecodable
// files are skipped and reported in the second return value; a single bad
// file never aborts the scan.
//
// Line counting convention: a line is one newline-delimited record; a
// non-empty final line without a trailing newline still counts as one line.
func Languages(root string) (map[string]int, []SkippedFile, error) {
	languages := map[string]int{}
	var skipped []SkippedFile

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil || rel == "." {
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

		language, ok := lang.ByExtension(rel)
		if !ok {
			return nil
		}

		lines, readErr := countFileLines(path)
		if readErr != nil {
			skipped = append(skipped, SkippedFile{Path: filepath.ToSlash(rel), Reason: readErr.Error()})
			return nil
		}
		languages[language] += lines
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return languages, skipped, nil
}

func countFileLines(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	head := make([]byte, 8000)
	n, err := f.Read(head)
	if err != nil && err != io.EOF {
		return 0, fmt.Errorf("read: %w", err)
	}
	if enry.IsBinary(head[:n]) {
		return 0, fmt.Errorf("binary content")
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return 0, fmt.Errorf("seek: %w", err)
	}

	return CountLines(f)
}

// CountLines counts newline-delimited records in r. A trailing unterminated
// non-empty line counts as one line.
func CountLines(r io.Reader) (int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	lines := 0
	for scanner.Scan() {
		lines++
	}
	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("count lines: %w", err)
	}
	return lines, nil
}
