// Package model defines the data structures shared across the analysis pipeline.
package model

import "time"

// RepositoryInfo is a snapshot of a repository at the time of a query.
// It is rebuilt on every request and never cached.
type RepositoryInfo struct {
	URL            string         `json:"url"`
	LocalPath      string         `json:"local_path"`
	Branch         string         `json:"branch"`
	LastCommit     string         `json:"last_commit"`
	LastCommitDate *time.Time     `json:"last_commit_date,omitempty"`
	TotalCommits   int            `json:"total_commits"`
	Authors        []string       `json:"authors"`
	Languages      map[string]int `json:"languages"`
	License        string         `json:"license,omitempty"`
}

// ChangeKind classifies a single file change within a commit.
type ChangeKind string

const (
	ChangeAdded    ChangeKind = "added"
	ChangeModified ChangeKind = "modified"
	ChangeDeleted  ChangeKind = "deleted"
	ChangeRenamed  ChangeKind = "renamed"
)

// FileChange is one file's change within a commit, derived from a single
// diff entry.
type FileChange struct {
	Path         string     `json:"path"`
	Kind         ChangeKind `json:"kind"`
	OldPath      string     `json:"old_path,omitempty"`
	LinesAdded   int        `json:"lines_added"`
	LinesDeleted int        `json:"lines_deleted"`
}

// CommitAnalysis is one commit's full change set.
type CommitAnalysis struct {
	Hash           string       `json:"hash"`
	Author         string       `json:"author"`
	Date           time.Time    `json:"date"`
	Message        string       `json:"message"`
	Files          []FileChange `json:"files"`
	TotalAdditions int          `json:"total_additions"`
	TotalDeletions int          `json:"total_deletions"`
}

// FileFrequency records how many recent commits touched a file path.
type FileFrequency struct {
	Path  string `json:"path"`
	Count int    `json:"count"`
}

// LanguageInfo is a per-language rollup with a bounded sample of
// representative files.
type LanguageInfo struct {
	Name        string   `json:"name"`
	LineCount   int      `json:"line_count"`
	FileCount   int      `json:"file_count"`
	Percentage  float64  `json:"percentage"`
	SampleFiles []string `json:"sample_files"`
}

// AnalysisInput is the bounded payload handed to the agent collaborator.
type AnalysisInput struct {
	RepoURL            string                  `json:"repo_url"`
	RepoDescription    string                  `json:"repo_description,omitempty"`
	Languages          map[string]LanguageInfo `json:"languages"`
	PrimaryLanguage    string                  `json:"primary_language"`
	TotalFiles         int                     `json:"total_files"`
	DirectoryStructure map[string][]string     `json:"directory_structure"`
	SampleFiles        []string                `json:"sample_files"`
	TotalCommits       int                     `json:"total_commits"`
	AuthorsCount       int                     `json:"authors_count"`
	LastCommitDate     *time.Time              `json:"last_commit_date,omitempty"`
}

// Importance is the agent's classification level for a file.
type Importance string

const (
	ImportanceCritical Importance = "CRITICAL"
	ImportanceHigh     Importance = "HIGH"
	ImportanceMedium   Importance = "MEDIUM"
	ImportanceLow      Importance = "LOW"
)

// ImportantFile is the collaborator's classification of a single file. The
// core treats it as an opaque value object beyond type shape.
type ImportantFile struct {
	Path           string     `json:"path"`
	Importance     Importance `json:"importance"`
	Confidence     float64    `json:"confidence"`
	Reasons        []string   `json:"reasons"`
	ContentType    string     `json:"content_type"`
	EstimatedLines int        `json:"estimated_lines"`
}

// AnalysisResult is the collaborator's answer for file importance.
type AnalysisResult struct {
	ImportantFiles  []ImportantFile `json:"important_files"`
	Insights        []string        `json:"insights,omitempty"`
	Recommendations []string        `json:"recommendations,omitempty"`
	Confidence      float64         `json:"confidence"`
	Method          string          `json:"method,omitempty"`
}

// OverviewResult is the collaborator's narrative project overview.
type OverviewResult struct {
	Summary       string `json:"summary"`
	Method        string `json:"method,omitempty"`
	FilesAnalyzed int    `json:"files_analyzed"`
	Status        string `json:"status,omitempty"`
}

// LanguageStats holds deep code statistics for a single language.
type LanguageStats struct {
	Name       string `json:"name"`
	Files      int64  `json:"files"`
	Lines      int64  `json:"lines"`
	Code       int64  `json:"code"`
	Comments   int64  `json:"comments"`
	Blanks     int64  `json:"blanks"`
	Complexity int64  `json:"complexity"`
}

// CodeStats aggregates deep code statistics across a working tree.
type CodeStats struct {
	Languages []LanguageStats `json:"languages"`
	Totals    LanguageStats   `json:"totals"`
}

// FileContent is the content of one important file, with diagnostics when
// the file could not be read.
type FileContent struct {
	Path         string     `json:"path"`
	Content      string     `json:"content,omitempty"`
	Importance   Importance `json:"importance"`
	ContentType  string     `json:"content_type"`
	SizeBytes    int64      `json:"size_bytes"`
	LineCount    int        `json:"line_count"`
	IsReadable   bool       `json:"is_readable"`
	ErrorMessage string     `json:"error_message,omitempty"`
}

// AggregatedContent collects the contents of all important files.
type AggregatedContent struct {
	Files           []FileContent `json:"files"`
	TotalFiles      int           `json:"total_files"`
	SuccessfulReads int           `json:"successful_reads"`
	FailedReads     int           `json:"failed_reads"`
	TotalLines      int           `json:"total_lines"`
	TotalSizeBytes  int64         `json:"total_size_bytes"`
	CriticalFiles   int           `json:"critical_files"`
	HighFiles       int           `json:"high_files"`
	MediumFiles     int           `json:"medium_files"`
}

// ActivityCategory classifies a repository's recency of development.
type ActivityCategory string

const (
	ActivityActive     ActivityCategory = "active"
	ActivityMaintained ActivityCategory = "maintained"
	ActivityDormant    ActivityCategory = "dormant"
)

// Activity holds the activity classification for a repository.
type Activity struct {
	Category        ActivityCategory `json:"category"`
	LastCommitDate  string           `json:"last_commit_date"`
	DaysSinceCommit int              `json:"days_since_commit"`
}

// Report is the top-level output structure.
type Report struct {
	GeneratedAt    string           `json:"generated_at"`
	Repository     RepositoryInfo   `json:"repository"`
	Input          *AnalysisInput   `json:"input,omitempty"`
	ImportantFiles []ImportantFile  `json:"important_files,omitempty"`
	Insights       []string         `json:"insights,omitempty"`
	Overview       *OverviewResult  `json:"overview,omitempty"`
	CodeStats      *CodeStats       `json:"code_stats,omitempty"`
	Activity       *Activity        `json:"activity,omitempty"`
	Commits        []CommitAnalysis `json:"commits,omitempty"`
	ChangedOften   []FileFrequency  `json:"changed_often,omitempty"`
}
