package analysis

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/repobrief/repobrief/internal/model"
)

// Collaborator is the agent that classifies files and writes the project
// overview. The pipeline treats it as a black box: it only depends on the
// input and result shapes.
type Collaborator interface {
	AnalyzeFiles(ctx context.Context, input *model.AnalysisInput) (*model.AnalysisResult, error)
	ProjectOverview(ctx context.Context, input *model.AnalysisInput, content *model.AggregatedContent) (*model.OverviewResult, error)
}

// AnalyzeFiles runs the collaborator and falls back to pattern
// classification when it fails. The result is always validated, so callers
// never see out-of-range confidence scores or empty paths.
func AnalyzeFiles(ctx context.Context, c Collaborator, input *model.AnalysisInput, log zerolog.Logger) *model.AnalysisResult {
	if c != nil {
		result, err := c.AnalyzeFiles(ctx, input)
		if err == nil {
			return Validate(result)
		}
		log.Warn().Err(err).Msg("collaborator failed, using pattern classification")
	}

	result, _ := (&PatternCollaborator{}).AnalyzeFiles(ctx, input)
	return Validate(result)
}

// Validate normalizes a collaborator result in place: confidence scores are
// clamped to [0, 1], files without a path are dropped, and unknown
// importance levels degrade to MEDIUM.
func Validate(result *model.AnalysisResult) *model.AnalysisResult {
	if result == nil {
		return &model.AnalysisResult{}
	}

	result.Confidence = clamp01(result.Confidence)
	kept := result.ImportantFiles[:0]
	for _, f := range result.ImportantFiles {
		if f.Path == "" {
			continue
		}
		f.Confidence = clamp01(f.Confidence)
		switch f.Importance {
		case model.ImportanceCritical, model.ImportanceHigh, model.ImportanceMedium, model.ImportanceLow:
		default:
			f.Importance = model.ImportanceMedium
		}
		kept = append(kept, f)
	}
	result.ImportantFiles = kept
	return result
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
