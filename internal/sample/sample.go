// Package sample selects bounded, deterministic subsets of representative files.
package sample

import (
	"path"
	"sort"
	"strings"

	"github.com/repobrief/repobrief/internal/lang"
	"github.com/repobrief/repobrief/internal/model"
)

// Keywords that mark a file as likely central to understanding a codebase.
var priorityKeywords = []string{
	"main", "app", "index", "server", "config", "settings",
	"models", "views", "routes", "controllers", "services", "run",
}

const (
	perLanguageCap      = 10
	perLanguagePriority = 5
	perLanguageInRepo   = 3
)

func isPriority(file string) bool {
	stem := strings.ToLower(path.Base(file))
	if i := strings.LastIndex(stem, "."); i > 0 {
		stem = stem[:i]
	}
	for _, kw := range priorityKeywords {
		if strings.Contains(stem, kw) {
			return true
		}
	}
	return false
}

// ForLanguage returns up to 10 representative files: the first 5
// priority-keyword matches, then the first 5 non-matching files. Each half
// is capped independently; a language with no priority matches yields at
// most 5 files, not 10. Input order is preserved, so sorted input yields a
// deterministic sample.
func ForLanguage(files []string) []string {
	if len(files) == 0 {
		return nil
	}

	var prioritized, others []string
	for _, f := range files {
		if isPriority(f) {
			prioritized = append(prioritized, f)
		} else {
			others = append(others, f)
		}
	}

	if len(prioritized) > perLanguagePriority {
		prioritized = prioritized[:perLanguagePriority]
	}
	if len(others) > perLanguageCap-perLanguagePriority {
		others = others[:perLanguageCap-perLanguagePriority]
	}
	return append(prioritized, others...)
}

// FilesForLanguage filters all to the files whose extension belongs to the
// named language.
func FilesForLanguage(language string, all []string) []string {
	exts := lang.Extensions(language)
	if len(exts) == 0 {
		return nil
	}
	extSet := make(map[string]struct{}, len(exts))
	for _, e := range exts {
		extSet[e] = struct{}{}
	}

	var files []string
	for _, f := range all {
		if _, ok := extSet[strings.ToLower(path.Ext(f))]; ok {
			files = append(files, f)
		}
	}
	return files
}

// Repository builds the repository-wide bounded sample: root-level files and
// priority-keyword matches first, then the top per-language samples, then
// everything else, deduplicated and capped at count. The result is stable
// for identical inputs.
func Repository(allFiles []string, languages map[string]model.LanguageInfo, count int) []string {
	if len(allFiles) == 0 || count <= 0 {
		return nil
	}

	var priority, regular []string
	for _, f := range allFiles {
		if isPriority(f) || !strings.Contains(f, "/") {
			priority = append(priority, f)
		} else {
			regular = append(regular, f)
		}
	}

	// Language iteration order: line count descending, name ascending on
	// ties, so the combined sample does not depend on map ordering.
	names := make([]string, 0, len(languages))
	for name := range languages {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		li, lj := languages[names[i]], languages[names[j]]
		if li.LineCount != lj.LineCount {
			return li.LineCount > lj.LineCount
		}
		return names[i] < names[j]
	})

	var langSamples []string
	for _, name := range names {
		files := languages[name].SampleFiles
		if len(files) > perLanguageInRepo {
			files = files[:perLanguageInRepo]
		}
		langSamples = append(langSamples, files...)
	}

	seen := make(map[string]struct{}, count)
	var result []string
	for _, f := range concat(priority, langSamples, regular) {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		result = append(result, f)
		if len(result) == count {
			break
		}
	}
	return result
}

func concat(lists ...[]string) []string {
	var out []string
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}
