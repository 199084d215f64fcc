package analysis

import (
	"context"
	"fmt"
	"strings"

	"github.com/repobrief/repobrief/internal/model"
)

const (
	fallbackMaxFiles       = 15
	fallbackFileConfidence = 0.5
	fallbackConfidence     = 0.4
)

var (
	entryPointPatterns = []string{"main.", "index.", "app.", "__init__", "setup."}
	configPatterns     = []string{"config", "settings", ".env", "package.json", "requirements", "pom.xml"}
	docPatterns        = []string{"readme", "license", "changelog"}
	testPatterns       = []string{"test", "spec"}
)

// PatternCollaborator classifies files with filename heuristics alone. It is
// the always-available fallback when no agent is wired in, and never errors.
type PatternCollaborator struct{}

var _ Collaborator = (*PatternCollaborator)(nil)

// AnalyzeFiles classifies the first files of the sample by filename
// patterns, at lower confidence than a real agent would report.
func (PatternCollaborator) AnalyzeFiles(_ context.Context, input *model.AnalysisInput) (*model.AnalysisResult, error) {
	files := input.SampleFiles
	if len(files) > fallbackMaxFiles {
		files = files[:fallbackMaxFiles]
	}

	important := make([]model.ImportantFile, 0, len(files))
	for _, path := range files {
		importance, reason, contentType := classify(path)
		important = append(important, model.ImportantFile{
			Path:           path,
			Importance:     importance,
			Confidence:     fallbackFileConfidence,
			Reasons:        []string{reason},
			ContentType:    contentType,
			EstimatedLines: 100,
		})
	}

	return &model.AnalysisResult{
		ImportantFiles: important,
		Insights: []string{
			fmt.Sprintf("Pattern-based analysis identified %d potentially important files", len(important)),
			fmt.Sprintf("Primary language: %s", input.PrimaryLanguage),
		},
		Recommendations: []string{
			"Review pattern-based classifications manually",
			"Focus on CRITICAL and HIGH importance files first",
		},
		Confidence: fallbackConfidence,
		Method:     "pattern",
	}, nil
}

// ProjectOverview produces a short deterministic summary from the input
// alone.
func (PatternCollaborator) ProjectOverview(_ context.Context, input *model.AnalysisInput, content *model.AggregatedContent) (*model.OverviewResult, error) {
	analyzed := 0
	if content != nil {
		analyzed = content.SuccessfulReads
	}
	summary := fmt.Sprintf("%s project with %d files across %d languages.",
		input.PrimaryLanguage, input.TotalFiles, len(input.Languages))
	if input.RepoDescription != "" {
		summary += " " + input.RepoDescription
	}
	return &model.OverviewResult{
		Summary:       summary,
		Method:        "pattern",
		FilesAnalyzed: analyzed,
		Status:        "completed",
	}, nil
}

func classify(path string) (model.Importance, string, string) {
	lower := strings.ToLower(path)
	switch {
	case matchAny(lower, entryPointPatterns):
		return model.ImportanceCritical, "Entry point or main application file", "Application entry point"
	case matchAny(lower, configPatterns):
		return model.ImportanceHigh, "Configuration or dependency file", "Configuration file"
	case matchAny(lower, docPatterns):
		return model.ImportanceHigh, "Documentation file", "Documentation"
	case matchAny(lower, testPatterns):
		return model.ImportanceMedium, "Test file", "Test file"
	default:
		return model.ImportanceMedium, "Identified through pattern analysis", "General file"
	}
}

func matchAny(s string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}
