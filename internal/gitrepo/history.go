package gitrepo

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	fdiff "github.com/go-git/go-git/v5/plumbing/format/diff"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
	"github.com/go-git/go-git/v5/utils/merkletrie"

	"github.com/repobrief/repobrief/internal/model"
)

// frequencyWindow bounds how many recent commits feed change-frequency
// mining. Unbounded history walks are deliberately not supported.
const frequencyWindow = 200

// RecentCommits analyzes up to count commits, newest first, following first
// parents only. Merge commits are diffed against their first parent, which
// understates changes a merge introduces. When since is non-nil the walk
// stops at the first commit older than it.
func (r *Repository) RecentCommits(count int, since *time.Time) ([]model.CommitAnalysis, error) {
	head, err := r.repo.Head()
	if err != nil {
		return nil, fmt.Errorf("head: %w", err)
	}

	var analyses []model.CommitAnalysis
	err = r.walkFirstParent(head.Hash(), count, func(c *object.Commit) (bool, error) {
		if since != nil && c.Committer.When.Before(*since) {
			return false, nil
		}
		analyses = append(analyses, r.analyzeCommit(c))
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return analyses, nil
}

// ChangedFiles diffs two revisions (hashes or refs such as "HEAD") and
// returns one FileChange per diff entry.
func (r *Repository) ChangedFiles(from, to string) ([]model.FileChange, error) {
	fromCommit, err := r.resolveCommit(from)
	if err != nil {
		return nil, err
	}
	toCommit, err := r.resolveCommit(to)
	if err != nil {
		return nil, err
	}

	changes, err := r.diffCommits(fromCommit, toCommit)
	if err != nil {
		return nil, fmt.Errorf("diff %s..%s: %w", from, to, err)
	}

	files, _, _ := fileChanges(changes)
	return files, nil
}

// FileHistory returns up to max commit analyses touching path, newest first.
func (r *Repository) FileHistory(path string, max int) ([]model.CommitAnalysis, error) {
	head, err := r.repo.Head()
	if err != nil {
		return nil, fmt.Errorf("head: %w", err)
	}

	iter, err := r.repo.Log(&git.LogOptions{
		From:       head.Hash(),
		PathFilter: func(p string) bool { return p == path },
	})
	if err != nil {
		return nil, fmt.Errorf("log %s: %w", path, err)
	}
	defer iter.Close()

	var analyses []model.CommitAnalysis
	err = iter.ForEach(func(c *object.Commit) error {
		if max > 0 && len(analyses) >= max {
			return storer.ErrStop
		}
		analyses = append(analyses, r.analyzeCommit(c))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s history: %w", path, err)
	}
	return analyses, nil
}

// ImportantFiles mines change frequency over the most recent commits and
// returns the paths touched by at least threshold commits, sorted by touch
// count descending, ties broken by lexical path order.
func (r *Repository) ImportantFiles(threshold int) ([]model.FileFrequency, error) {
	head, err := r.repo.Head()
	if err != nil {
		return nil, fmt.Errorf("head: %w", err)
	}

	counts := map[string]int{}
	err = r.walkFirstParent(head.Hash(), frequencyWindow, func(c *object.Commit) (bool, error) {
		changes, diffErr := r.diffAgainstFirstParent(c)
		if diffErr != nil {
			// Recoverable: this commit contributes no changes.
			r.log.Debug().Err(diffErr).Str("commit", c.Hash.String()).Msg("diff failed, skipping commit")
			return true, nil
		}
		for _, change := range changes {
			if path := changePath(change); path != "" {
				counts[path]++
			}
		}
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	var frequent []model.FileFrequency
	for path, count := range counts {
		if count >= threshold {
			frequent = append(frequent, model.FileFrequency{Path: path, Count: count})
		}
	}
	sort.Slice(frequent, func(i, j int) bool {
		if frequent[i].Count != frequent[j].Count {
			return frequent[i].Count > frequent[j].Count
		}
		return frequent[i].Path < frequent[j].Path
	})
	return frequent, nil
}

// walkFirstParent visits commits from start following first parents only,
// newest first, for at most max commits (max <= 0 means no bound). The
// visit function returns false to stop early.
func (r *Repository) walkFirstParent(start plumbing.Hash, max int, visit func(*object.Commit) (bool, error)) error {
	commit, err := r.repo.CommitObject(start)
	if err != nil {
		return fmt.Errorf("commit %s: %w", start, err)
	}

	visited := 0
	for commit != nil {
		if max > 0 && visited >= max {
			return nil
		}
		cont, err := visit(commit)
		if err != nil {
			return err
		}
		if !cont {
			return nil
		}
		visited++

		if commit.NumParents() == 0 {
			return nil
		}
		parent, err := commit.Parent(0)
		if err != nil {
			return fmt.Errorf("parent of %s: %w", commit.Hash, err)
		}
		commit = parent
	}
	return nil
}

func (r *Repository) resolveCommit(rev string) (*object.Commit, error) {
	hash, err := r.repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", rev, err)
	}
	commit, err := r.repo.CommitObject(*hash)
	if err != nil {
		return nil, fmt.Errorf("commit %s: %w", rev, err)
	}
	return commit, nil
}

// analyzeCommit builds a CommitAnalysis from a commit's diff against its
// first parent. A failed diff yields an analysis with zero file changes;
// per-commit diff failures never abort a traversal.
func (r *Repository) analyzeCommit(c *object.Commit) model.CommitAnalysis {
	analysis := model.CommitAnalysis{
		Hash:    c.Hash.String(),
		Author:  c.Author.Name,
		Date:    c.Committer.When,
		Message: strings.TrimSpace(c.Message),
	}

	changes, err := r.diffAgainstFirstParent(c)
	if err != nil {
		r.log.Debug().Err(err).Str("commit", c.Hash.String()).Msg("diff failed, recording commit without changes")
		return analysis
	}

	files, additions, deletions := fileChanges(changes)
	analysis.Files = files
	analysis.TotalAdditions = additions
	analysis.TotalDeletions = deletions
	return analysis
}

// diffAgainstFirstParent diffs a commit against its first parent, or
// against the empty tree for a root commit.
func (r *Repository) diffAgainstFirstParent(c *object.Commit) (object.Changes, error) {
	if c.NumParents() == 0 {
		tree, err := c.Tree()
		if err != nil {
			return nil, fmt.Errorf("tree: %w", err)
		}
		return object.DiffTree(nil, tree)
	}

	parent, err := c.Parent(0)
	if err != nil {
		return nil, fmt.Errorf("first parent: %w", err)
	}
	return r.diffCommits(parent, c)
}

func (r *Repository) diffCommits(from, to *object.Commit) (object.Changes, error) {
	fromTree, err := from.Tree()
	if err != nil {
		return nil, fmt.Errorf("from tree: %w", err)
	}
	toTree, err := to.Tree()
	if err != nil {
		return nil, fmt.Errorf("to tree: %w", err)
	}
	return object.DiffTreeWithOptions(context.Background(), fromTree, toTree, &object.DiffTreeOptions{DetectRenames: true})
}

// fileChanges converts tree changes into FileChange records with line
// deltas and running totals.
func fileChanges(changes object.Changes) (files []model.FileChange, additions, deletions int) {
	for _, change := range changes {
		fc, ok := toFileChange(change)
		if !ok {
			continue
		}
		files = append(files, fc)
		additions += fc.LinesAdded
		deletions += fc.LinesDeleted
	}
	return files, additions, deletions
}

func toFileChange(change *object.Change) (model.FileChange, bool) {
	action, err := change.Action()
	if err != nil {
		return model.FileChange{}, false
	}

	fc := model.FileChange{}
	switch action {
	case merkletrie.Insert:
		fc.Path = change.To.Name
		fc.Kind = model.ChangeAdded
	case merkletrie.Delete:
		fc.Path = change.From.Name
		fc.Kind = model.ChangeDeleted
	case merkletrie.Modify:
		fc.Path = change.To.Name
		if change.From.Name != change.To.Name {
			fc.Kind = model.ChangeRenamed
			fc.OldPath = change.From.Name
		} else {
			fc.Kind = model.ChangeModified
		}
	default:
		return model.FileChange{}, false
	}

	fc.LinesAdded, fc.LinesDeleted = countChangeLines(change)
	return fc, true
}

// countChangeLines counts added and deleted lines from the change's patch.
// Binary or unpatchable changes count as zero.
func countChangeLines(change *object.Change) (added, deleted int) {
	patch, err := change.Patch()
	if err != nil {
		return 0, 0
	}
	for _, fp := range patch.FilePatches() {
		if fp.IsBinary() {
			continue
		}
		for _, chunk := range fp.Chunks() {
			n := chunkLines(chunk.Content())
			switch chunk.Type() {
			case fdiff.Add:
				added += n
			case fdiff.Delete:
				deleted += n
			}
		}
	}
	return added, deleted
}

func chunkLines(content string) int {
	if content == "" {
		return 0
	}
	lines := strings.Count(content, "\n")
	if !strings.HasSuffix(content, "\n") {
		lines++
	}
	return lines
}

// changePath returns the path a change should be attributed to for
// frequency mining: the new path when present, otherwise the old one.
func changePath(change *object.Change) string {
	if change.To.Name != "" {
		return change.To.Name
	}
	return change.From.Name
}
