package gitrepo

import (
	"fmt"
	"sort"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/repobrief/repobrief/internal/model"
	"github.com/repobrief/repobrief/internal/scan"
)

// authorWindow bounds how many recent commits contribute author names.
const authorWindow = 100

func branchRef(branch string) plumbing.ReferenceName {
	return plumbing.NewBranchReferenceName(branch)
}

// Info builds a fresh snapshot of the repository: branch, commit totals,
// bounded author set and per-language line counts. Nothing is cached; each
// call re-reads the repository.
func (r *Repository) Info() (*model.RepositoryInfo, error) {
	url := r.locator
	if remotes, err := r.repo.Remotes(); err == nil && len(remotes) > 0 {
		if urls := remotes[0].Config().URLs; len(urls) > 0 {
			url = urls[0]
		}
	}

	head, err := r.repo.Head()
	if err != nil {
		return nil, fmt.Errorf("head: %w", err)
	}

	branch := head.Name().Short()
	if !head.Name().IsBranch() {
		// Detached HEAD: fall back to the short commit id.
		branch = head.Hash().String()[:8]
	}

	iter, err := r.repo.Log(&git.LogOptions{From: head.Hash()})
	if err != nil {
		return nil, fmt.Errorf("log: %w", err)
	}
	defer iter.Close()

	totalCommits := 0
	lastCommit := ""
	var lastCommitDate *time.Time
	authorSet := map[string]struct{}{}
	err = iter.ForEach(func(c *object.Commit) error {
		if totalCommits == 0 {
			lastCommit = c.Hash.String()
			when := c.Author.When
			lastCommitDate = &when
		}
		if totalCommits < authorWindow {
			authorSet[c.Author.Name] = struct{}{}
		}
		totalCommits++
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk commits: %w", err)
	}

	authors := make([]string, 0, len(authorSet))
	for name := range authorSet {
		authors = append(authors, name)
	}
	sort.Strings(authors)

	languages, skipped, err := scan.Languages(r.workDir)
	if err != nil {
		return nil, fmt.Errorf("scan languages: %w", err)
	}
	for _, s := range skipped {
		r.log.Debug().Str("file", s.Path).Str("reason", s.Reason).Msg("skipped during language scan")
	}

	return &model.RepositoryInfo{
		URL:            url,
		LocalPath:      r.workDir,
		Branch:         branch,
		LastCommit:     lastCommit,
		LastCommitDate: lastCommitDate,
		TotalCommits:   totalCommits,
		Authors:        authors,
		Languages:      languages,
	}, nil
}

// Structure returns the directory to file-basenames index of the working tree.
func (r *Repository) Structure() (map[string][]string, error) {
	return scan.Structure(r.workDir)
}
