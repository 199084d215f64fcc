package main

import (
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/repobrief/repobrief/internal/gitrepo"
	"github.com/repobrief/repobrief/internal/logging"
	"github.com/repobrief/repobrief/internal/output"
)

func newHistoryCmd() *cobra.Command {
	var (
		repoPath string
		logLevel string
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Query the commit history of a local repository",
	}
	cmd.PersistentFlags().StringVarP(&repoPath, "repo", "r", ".", "Path to the repository")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")

	open := func() (*gitrepo.Repository, error) {
		return gitrepo.Open(repoPath, logging.New(os.Stderr, logLevel, true))
	}

	commitsCmd := &cobra.Command{
		Use:   "commits [count]",
		Short: "Show recent commits with their file changes",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			count := 20
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil {
					return err
				}
				count = n
			}

			repo, err := open()
			if err != nil {
				return err
			}
			defer repo.Close()

			commits, err := repo.RecentCommits(count, nil)
			if err != nil {
				return err
			}
			return writeJSON(commits)
		},
	}

	fileCmd := &cobra.Command{
		Use:   "file <path>",
		Short: "Show the commits that touched a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := open()
			if err != nil {
				return err
			}
			defer repo.Close()

			commits, err := repo.FileHistory(args[0], 50)
			if err != nil {
				return err
			}
			return writeJSON(commits)
		},
	}

	diffCmd := &cobra.Command{
		Use:   "diff <from> <to>",
		Short: "Show the file changes between two revisions",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := open()
			if err != nil {
				return err
			}
			defer repo.Close()

			changes, err := repo.ChangedFiles(args[0], args[1])
			if err != nil {
				return err
			}
			return writeJSON(changes)
		},
	}

	churnCmd := &cobra.Command{
		Use:   "churn [threshold]",
		Short: "Show the most frequently changed files",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			threshold := 2
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil {
					return err
				}
				threshold = n
			}

			repo, err := open()
			if err != nil {
				return err
			}
			defer repo.Close()

			freqs, err := repo.ImportantFiles(threshold)
			if err != nil {
				return err
			}
			return writeJSON(freqs)
		},
	}

	cmd.AddCommand(commitsCmd, fileCmd, diffCmd, churnCmd)
	return cmd
}

func writeJSON(v any) error {
	return output.WriteJSONValue(os.Stdout, v)
}
