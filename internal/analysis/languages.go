// Package analysis builds the bounded agent input and classifies files when
// no agent is available.
package analysis

import (
	"github.com/repobrief/repobrief/internal/model"
	"github.com/repobrief/repobrief/internal/sample"
)

// Languages turns raw per-language line counts into LanguageInfo rollups
// with file counts, percentages and a bounded per-language file sample.
func Languages(lineCounts map[string]int, allFiles []string) map[string]model.LanguageInfo {
	total := 0
	for _, lines := range lineCounts {
		total += lines
	}
	if total == 0 {
		total = 1
	}

	languages := make(map[string]model.LanguageInfo, len(lineCounts))
	for name, lines := range lineCounts {
		files := sample.FilesForLanguage(name, allFiles)
		languages[name] = model.LanguageInfo{
			Name:        name,
			LineCount:   lines,
			FileCount:   len(files),
			Percentage:  float64(lines) / float64(total) * 100,
			SampleFiles: sample.ForLanguage(files),
		}
	}
	return languages
}

// PrimaryLanguage returns the language with the most lines, or "Unknown"
// for a repository with no classified files. Ties resolve to the
// lexically smaller name so the answer is stable.
func PrimaryLanguage(languages map[string]model.LanguageInfo) string {
	primary := ""
	best := -1
	for name, info := range languages {
		if info.LineCount > best || (info.LineCount == best && name < primary) {
			primary = name
			best = info.LineCount
		}
	}
	if primary == "" {
		return "Unknown"
	}
	return primary
}
