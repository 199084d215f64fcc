package scan

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/boyter/scc/v3/processor"

	"github.com/repobrief/repobrief/internal/ignore"
	"github.com/repobrief/repobrief/internal/model"
)

var sccOnce sync.Once

// CodeStats walks root and returns deep per-language code statistics
// (code/comment/blank lines and complexity) using scc's processor. This is
// a richer signal than the fixed-table line counts and the two are reported
// side by side; their language tables intentionally differ.
func CodeStats(ctx context.Context, root string) (*model.CodeStats, error) {
	sccOnce.Do(func() {
		processor.ProcessConstants()
	})

	langMap := map[string]*model.LanguageStats{}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
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

		content, readErr := os.ReadFile(path)
		if readErr != nil {
			return nil
		}

		possible, _ := processor.DetectLanguage(d.Name())
		if len(possible) == 0 {
			return nil
		}

		job := &processor.FileJob{
			Filename:          d.Name(),
			Content:           content,
			Bytes:             int64(len(content)),
			PossibleLanguages: possible,
		}
		job.Language = processor.DetermineLanguage(job.Filename, job.Language, job.PossibleLanguages, job.Content)
		if job.Language == "" {
			return nil
		}

		processor.CountStats(job)
		if job.Binary {
			return nil
		}

		ls, ok := langMap[job.Language]
		if !ok {
			ls = &model.LanguageStats{Name: job.Language}
			langMap[job.Language] = ls
		}
		ls.Files++
		ls.Lines += job.Lines
		ls.Code += job.Code
		ls.Comments += job.Comment
		ls.Blanks += job.Blank
		ls.Complexity += job.Complexity
		return nil
	})
	if err != nil {
		return nil, err
	}

	stats := &model.CodeStats{}
	for _, ls := range langMap {
		stats.Languages = append(stats.Languages, *ls)
		stats.Totals.Files += ls.Files
		stats.Totals.Lines += ls.Lines
		stats.Totals.Code += ls.Code
		stats.Totals.Comments += ls.Comments
		stats.Totals.Blanks += ls.Blanks
		stats.Totals.Complexity += ls.Complexity
	}
	sort.Slice(stats.Languages, func(i, j int) bool {
		if stats.Languages[i].Code != stats.Languages[j].Code {
			return stats.Languages[i].Code > stats.Languages[j].Code
		}
		return stats.Languages[i].Name < stats.Languages[j].Name
	})

	return stats, nil
}
