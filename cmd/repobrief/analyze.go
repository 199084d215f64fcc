package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/repobrief/repobrief/internal/activity"
	"github.com/repobrief/repobrief/internal/analysis"
	"github.com/repobrief/repobrief/internal/cache"
	"github.com/repobrief/repobrief/internal/config"
	"github.com/repobrief/repobrief/internal/content"
	"github.com/repobrief/repobrief/internal/gitrepo"
	"github.com/repobrief/repobrief/internal/license"
	"github.com/repobrief/repobrief/internal/logging"
	"github.com/repobrief/repobrief/internal/model"
	"github.com/repobrief/repobrief/internal/output"
	"github.com/repobrief/repobrief/internal/scan"
	"github.com/repobrief/repobrief/internal/ui"
)

type analyzeOptions struct {
	configPath  string
	branch      string
	format      string
	outputPath  string
	cacheDir    string
	logLevel    string
	commitLimit int
	threshold   int
	sampleCount int
	timeout     int
	noCache     bool
	noProgress  bool
}

func newAnalyzeCmd() *cobra.Command {
	var opts analyzeOptions

	cmd := &cobra.Command{
		Use:   "analyze <repository>",
		Short: "Analyze a repository and write a structured report",
		Long: `Analyze clones or opens the given repository, scans its languages and
structure, mines its commit history, classifies its important files and
writes a report to stdout or a file. The repository may be a local path or
a remote URL.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config", "", "Path to config file")
	cmd.Flags().StringVar(&opts.branch, "branch", "", "Branch to analyze (default: repository HEAD)")
	cmd.Flags().StringVar(&opts.format, "format", "", "Output format: markdown or json")
	cmd.Flags().StringVarP(&opts.outputPath, "output", "o", "", "Write the report to a file instead of stdout")
	cmd.Flags().StringVar(&opts.cacheDir, "cache-dir", "", "Directory for cached clones")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	cmd.Flags().IntVar(&opts.commitLimit, "commit-limit", 0, "How many recent commits to report")
	cmd.Flags().IntVar(&opts.threshold, "frequency-threshold", 0, "Minimum change count for frequently changed files")
	cmd.Flags().IntVar(&opts.sampleCount, "sample-count", 0, "Size of the repository-wide file sample")
	cmd.Flags().IntVar(&opts.timeout, "timeout", 0, "Pipeline timeout in seconds (0 = config default)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "Clone remote repositories into a temp dir instead of the cache")
	cmd.Flags().BoolVar(&opts.noProgress, "no-progress", false, "Disable progress display")

	return cmd
}

func runAnalyze(cmd *cobra.Command, locator string, opts analyzeOptions) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	applyOverrides(cfg, opts)

	log := logging.New(os.Stderr, cfg.LogLevel, true)

	ctx := cmd.Context()
	if cfg.Timeout() > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout())
		defer cancel()
	}

	progress := newProgress(opts.noProgress)
	defer progress.close()

	report, err := buildReport(ctx, locator, opts.branch, cfg, log, progress)
	if err != nil {
		progress.close()
		return err
	}
	progress.done(locator)

	out := io.Writer(os.Stdout)
	if opts.outputPath != "" {
		f, err := os.Create(opts.outputPath)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	switch cfg.Format {
	case "json":
		return output.WriteJSON(out, *report)
	case "markdown", "md", "":
		return output.WriteMarkdown(out, *report)
	default:
		return fmt.Errorf("unknown format %q (use markdown or json)", cfg.Format)
	}
}

func applyOverrides(cfg *config.Config, opts analyzeOptions) {
	if opts.format != "" {
		cfg.Format = opts.format
	}
	if opts.cacheDir != "" {
		cfg.CacheDir = opts.cacheDir
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}
	if opts.commitLimit > 0 {
		cfg.CommitLimit = opts.commitLimit
	}
	if opts.threshold > 0 {
		cfg.FrequencyThreshold = opts.threshold
	}
	if opts.sampleCount > 0 {
		cfg.SampleCount = opts.sampleCount
	}
	if opts.timeout > 0 {
		cfg.TimeoutSeconds = opts.timeout
	}
	if opts.noCache {
		// An empty cache dir routes remote repositories to a throwaway clone.
		cfg.CacheDir = ""
	}
}

const pipelineStages = 7

func buildReport(ctx context.Context, locator, branch string, cfg *config.Config, log zerolog.Logger, progress *progressReporter) (*model.Report, error) {
	progress.stage(1, "preparing repository")
	repo, err := acquireRepo(ctx, locator, branch, cfg, log)
	if err != nil {
		return nil, err
	}
	defer repo.Close()

	progress.stage(2, "scanning languages and structure")
	info, err := repo.Info()
	if err != nil {
		return nil, fmt.Errorf("repository info: %w", err)
	}
	info.License = license.Detect(repo.WorkDir())

	progress.stage(3, "building analysis input")
	orchestrator := analysis.NewOrchestrator(repo, log)
	input, err := orchestrator.PrepareInput(cfg.SampleCount)
	if err != nil {
		return nil, fmt.Errorf("prepare input: %w", err)
	}
	input.RepoURL = info.URL

	progress.stage(4, "classifying important files")
	result := analysis.AnalyzeFiles(ctx, analysis.PatternCollaborator{}, input, log)

	progress.stage(5, "reading important files")
	reader := content.NewReader(repo.WorkDir(), log)
	aggregated := reader.ReadAll(result.ImportantFiles)
	overview, err := analysis.PatternCollaborator{}.ProjectOverview(ctx, input, aggregated)
	if err != nil {
		log.Warn().Err(err).Msg("overview generation failed")
	}

	progress.stage(6, "mining commit history")
	commits, err := repo.RecentCommits(cfg.CommitLimit, nil)
	if err != nil {
		log.Warn().Err(err).Msg("commit analysis failed")
	}
	changedOften, err := repo.ImportantFiles(cfg.FrequencyThreshold)
	if err != nil {
		log.Warn().Err(err).Msg("change-frequency mining failed")
	}

	progress.stage(7, "computing code statistics")
	stats, err := scan.CodeStats(ctx, repo.WorkDir())
	if err != nil {
		log.Warn().Err(err).Msg("code statistics failed")
	}

	return &model.Report{
		GeneratedAt:    time.Now().UTC().Format(time.RFC3339),
		Repository:     *info,
		Input:          input,
		ImportantFiles: result.ImportantFiles,
		Insights:       result.Insights,
		Overview:       overview,
		CodeStats:      stats,
		Activity:       activity.FromInfo(info, time.Now()),
		Commits:        commits,
		ChangedOften:   changedOften,
	}, nil
}

// acquireRepo turns a locator into an open repository: local paths open in
// place, remote URLs materialize through the cache (or a throwaway clone
// with --no-cache).
func acquireRepo(ctx context.Context, locator, branch string, cfg *config.Config, log zerolog.Logger) (*gitrepo.Repository, error) {
	if !gitrepo.IsRemote(locator) {
		repo, err := gitrepo.Open(locator, log)
		if err != nil {
			return nil, err
		}
		if branch != "" {
			if err := repo.CheckoutBranch(branch); err != nil {
				repo.Close()
				return nil, err
			}
		}
		return repo, nil
	}

	if cfg.CacheDir == "" {
		return gitrepo.Clone(ctx, locator, "", branch, log)
	}

	path, err := cache.New(cfg.CacheDir, log).Materialize(ctx, locator, branch)
	if err != nil {
		return nil, err
	}
	return gitrepo.Open(path, log)
}

// progressReporter drives either the TUI or plain-line progress output.
type progressReporter struct {
	plain   *ui.PlainProgress
	program *tea.Program
	doneCh  chan struct{}
}

func newProgress(disabled bool) *progressReporter {
	if disabled {
		return &progressReporter{}
	}
	if !ui.IsTTY() {
		return &progressReporter{
			plain: ui.NewPlainProgress(func(msg string) {
				fmt.Fprintln(os.Stderr, msg)
			}),
		}
	}

	p := ui.RunTUI(pipelineStages)
	r := &progressReporter{program: p, doneCh: make(chan struct{})}
	go func() {
		defer close(r.doneCh)
		_, _ = p.Run()
	}()
	return r
}

func (r *progressReporter) stage(completed int, name string) {
	switch {
	case r.program != nil:
		r.program.Send(ui.StageMsg{Completed: completed, Total: pipelineStages, Stage: name})
	case r.plain != nil:
		r.plain.Update(completed, pipelineStages, name)
	}
}

func (r *progressReporter) done(repo string) {
	switch {
	case r.program != nil:
		r.program.Send(ui.DoneMsg{Repo: repo})
		<-r.doneCh
		r.program = nil
	case r.plain != nil:
		r.plain.Done(repo)
	}
}

func (r *progressReporter) close() {
	if r.program != nil {
		r.program.Quit()
		<-r.doneCh
		r.program = nil
	}
}
