// Package output renders analysis reports as JSON or markdown.
package output

import (
	"fmt"
	"io"
	"sort"

	"github.com/repobrief/repobrief/internal/model"
)

// WriteMarkdown writes the report as GitHub-flavored markdown to w.
func WriteMarkdown(w io.Writer, report model.Report) error {
	repo := report.Repository
	fmt.Fprintf(w, "# Repository Analysis\n\n")
	fmt.Fprintf(w, "**Repository:** %s\n", repo.URL)
	fmt.Fprintf(w, "**Branch:** %s\n", repo.Branch)
	if repo.License != "" {
		fmt.Fprintf(w, "**License:** %s\n", repo.License)
	}
	fmt.Fprintf(w, "**Generated:** %s\n\n", report.GeneratedAt)

	if report.Overview != nil && report.Overview.Summary != "" {
		fmt.Fprintf(w, "## Overview\n\n%s\n\n", report.Overview.Summary)
	}

	fmt.Fprintf(w, "## Summary\n\n")
	fmt.Fprintf(w, "| Metric | Value |\n")
	fmt.Fprintf(w, "|--------|-------|\n")
	fmt.Fprintf(w, "| Commits | %d |\n", repo.TotalCommits)
	fmt.Fprintf(w, "| Authors | %d |\n", len(repo.Authors))
	fmt.Fprintf(w, "| Last commit | %s |\n", repo.LastCommit)
	if report.Activity != nil {
		fmt.Fprintf(w, "| Activity | %s (%d days since last commit) |\n",
			report.Activity.Category, report.Activity.DaysSinceCommit)
	}
	fmt.Fprintln(w)

	writeLanguages(w, report)
	writeImportantFiles(w, report.ImportantFiles)
	writeCommits(w, report.Commits)
	writeChangedOften(w, report.ChangedOften)
	writeCodeStats(w, report.CodeStats)

	if len(report.Insights) > 0 {
		fmt.Fprintf(w, "## Insights\n\n")
		for _, insight := range report.Insights {
			fmt.Fprintf(w, "- %s\n", insight)
		}
		fmt.Fprintln(w)
	}

	return nil
}

func writeLanguages(w io.Writer, report model.Report) {
	if report.Input == nil || len(report.Input.Languages) == 0 {
		return
	}

	names := make([]string, 0, len(report.Input.Languages))
	for name := range report.Input.Languages {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		li, lj := report.Input.Languages[names[i]], report.Input.Languages[names[j]]
		if li.LineCount != lj.LineCount {
			return li.LineCount > lj.LineCount
		}
		return names[i] < names[j]
	})

	fmt.Fprintf(w, "## Languages\n\n")
	fmt.Fprintf(w, "**Primary language:** %s\n\n", report.Input.PrimaryLanguage)
	fmt.Fprintf(w, "| Language | Lines | Files | Share |\n")
	fmt.Fprintf(w, "|----------|------:|------:|------:|\n")
	for _, name := range names {
		info := report.Input.Languages[name]
		fmt.Fprintf(w, "| %s | %d | %d | %.1f%% |\n",
			info.Name, info.LineCount, info.FileCount, info.Percentage)
	}
	fmt.Fprintln(w)
}

func writeImportantFiles(w io.Writer, files []model.ImportantFile) {
	if len(files) == 0 {
		return
	}
	fmt.Fprintf(w, "## Important Files\n\n")
	fmt.Fprintf(w, "| File | Importance | Confidence | Type |\n")
	fmt.Fprintf(w, "|------|------------|-----------:|------|\n")
	for _, f := range files {
		fmt.Fprintf(w, "| %s | %s | %.2f | %s |\n", f.Path, f.Importance, f.Confidence, f.ContentType)
	}
	fmt.Fprintln(w)
}

func writeCommits(w io.Writer, commits []model.CommitAnalysis) {
	if len(commits) == 0 {
		return
	}
	fmt.Fprintf(w, "## Recent Commits\n\n")
	fmt.Fprintf(w, "| Commit | Author | Date | Files | +/- |\n")
	fmt.Fprintf(w, "|--------|--------|------|------:|-----|\n")
	for _, c := range commits {
		hash := c.Hash
		if len(hash) > 8 {
			hash = hash[:8]
		}
		fmt.Fprintf(w, "| %s | %s | %s | %d | +%d/-%d |\n",
			hash, c.Author, c.Date.UTC().Format("2006-01-02"), len(c.Files), c.TotalAdditions, c.TotalDeletions)
	}
	fmt.Fprintln(w)
}

func writeChangedOften(w io.Writer, freqs []model.FileFrequency) {
	if len(freqs) == 0 {
		return
	}
	fmt.Fprintf(w, "## Frequently Changed Files\n\n")
	fmt.Fprintf(w, "| File | Changes |\n")
	fmt.Fprintf(w, "|------|--------:|\n")
	for _, f := range freqs {
		fmt.Fprintf(w, "| %s | %d |\n", f.Path, f.Count)
	}
	fmt.Fprintln(w)
}

func writeCodeStats(w io.Writer, stats *model.CodeStats) {
	if stats == nil || len(stats.Languages) == 0 {
		return
	}
	fmt.Fprintf(w, "## Code Statistics\n\n")
	fmt.Fprintf(w, "| Language | Files | Code | Comments | Blanks | Complexity |\n")
	fmt.Fprintf(w, "|----------|------:|-----:|---------:|-------:|-----------:|\n")
	for _, lang := range stats.Languages {
		fmt.Fprintf(w, "| %s | %d | %d | %d | %d | %d |\n",
			lang.Name, lang.Files, lang.Code, lang.Comments, lang.Blanks, lang.Complexity)
	}
	fmt.Fprintf(w, "| **Total** | %d | %d | %d | %d | %d |\n\n",
		stats.Totals.Files, stats.Totals.Code, stats.Totals.Comments, stats.Totals.Blanks, stats.Totals.Complexity)
}
