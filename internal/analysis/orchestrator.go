package analysis

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/repobrief/repobrief/internal/model"
	"github.com/repobrief/repobrief/internal/sample"
	"github.com/repobrief/repobrief/internal/scan"
)

const (
	// DefaultSampleCount bounds the repository-wide file sample handed to
	// the collaborator.
	DefaultSampleCount = 50

	descriptionMaxChars = 500
	descriptionMaxLines = 3
)

var readmeNames = []string{"README.md", "README.rst", "README.txt", "README"}

// Source supplies the repository facts the orchestrator assembles into an
// AnalysisInput. *gitrepo.Repository satisfies it.
type Source interface {
	Info() (*model.RepositoryInfo, error)
	Structure() (map[string][]string, error)
	WorkDir() string
}

// Orchestrator assembles the bounded AnalysisInput for a repository.
type Orchestrator struct {
	source Source
	log    zerolog.Logger
}

// NewOrchestrator creates an Orchestrator reading from source.
func NewOrchestrator(source Source, log zerolog.Logger) *Orchestrator {
	return &Orchestrator{source: source, log: log}
}

// PrepareInput builds the AnalysisInput: repository metadata, language
// rollups, directory structure and a deterministic bounded file sample.
func (o *Orchestrator) PrepareInput(sampleCount int) (*model.AnalysisInput, error) {
	if sampleCount <= 0 {
		sampleCount = DefaultSampleCount
	}

	info, err := o.source.Info()
	if err != nil {
		return nil, err
	}
	structure, err := o.source.Structure()
	if err != nil {
		return nil, err
	}

	allFiles := scan.Flatten(structure)
	languages := Languages(info.Languages, allFiles)

	input := &model.AnalysisInput{
		RepoURL:            info.URL,
		RepoDescription:    repoDescription(o.source.WorkDir()),
		Languages:          languages,
		PrimaryLanguage:    PrimaryLanguage(languages),
		TotalFiles:         len(allFiles),
		DirectoryStructure: structure,
		SampleFiles:        sample.Repository(allFiles, languages, sampleCount),
		TotalCommits:       info.TotalCommits,
		AuthorsCount:       len(info.Authors),
		LastCommitDate:     info.LastCommitDate,
	}

	o.log.Info().
		Int("languages", len(languages)).
		Int("files", len(allFiles)).
		Int("sample", len(input.SampleFiles)).
		Msg("prepared analysis input")
	return input, nil
}

// repoDescription extracts a short description from the first README found:
// the first three non-empty, non-heading lines, capped at 500 characters.
// A repository without a README yields an empty description.
func repoDescription(workDir string) string {
	for _, name := range readmeNames {
		path := filepath.Join(workDir, name)
		f, err := os.Open(path)
		if err != nil {
			continue
		}

		var lines []string
		s := bufio.NewScanner(f)
		for s.Scan() && len(lines) < descriptionMaxLines {
			line := strings.TrimSpace(s.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			lines = append(lines, line)
		}
		f.Close()

		desc := strings.Join(lines, " ")
		if len(desc) > descriptionMaxChars {
			desc = desc[:descriptionMaxChars]
		}
		return desc
	}
	return ""
}
