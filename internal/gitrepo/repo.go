// Package gitrepo wraps a single git working tree and derives repository
// metadata, commit analyses and change-frequency signals from it.
package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/rs/zerolog"
)

// Error kinds surfaced to callers. Per-file and per-commit failures are
// absorbed as diagnostics instead.
var (
	// ErrNotFound means the referenced local path does not exist.
	ErrNotFound = errors.New("repository path does not exist")
	// ErrInvalidRepo means the path exists but holds no git metadata.
	ErrInvalidRepo = errors.New("not a git repository")
	// ErrRemote means a clone or fetch against the remote failed.
	ErrRemote = errors.New("remote operation failed")
)

// Repository is a handle over exactly one working tree. It is only ever
// constructed in a bound state, by Open or Clone. If Clone created a
// temporary directory, Close removes it; callers must defer Close.
type Repository struct {
	locator string
	repo    *git.Repository
	workDir string
	tempDir string
	log     zerolog.Logger
}

// IsRemote reports whether the locator is a remote URL rather than a local
// path. Anything not starting with a known remote prefix is treated as local.
func IsRemote(locator string) bool {
	for _, prefix := range []string{"http://", "https://", "git@", "ssh://"} {
		if strings.HasPrefix(locator, prefix) {
			return true
		}
	}
	return false
}

// Open binds a handle to an existing local repository.
func Open(path string, log zerolog.Logger) (*Repository, error) {
	if IsRemote(path) {
		return nil, fmt.Errorf("%s is a URL, use Clone", path)
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}

	repo, err := git.PlainOpen(path)
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidRepo, path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	log.Debug().Str("path", path).Msg("opened repository")
	return &Repository{locator: path, repo: repo, workDir: path, log: log}, nil
}

// Clone clones url into dir. An empty dir clones into a new temporary
// directory owned by the returned handle and removed by Close. branch, when
// non-empty, selects the branch to check out.
func Clone(ctx context.Context, url, dir, branch string, log zerolog.Logger) (*Repository, error) {
	if !IsRemote(url) {
		return nil, fmt.Errorf("%s is a local path, use Open", url)
	}

	tempDir := ""
	if dir == "" {
		tmp, err := os.MkdirTemp("", "repobrief-*")
		if err != nil {
			return nil, fmt.Errorf("create temp dir: %w", err)
		}
		dir = tmp
		tempDir = tmp
	}

	opts := &git.CloneOptions{URL: url}
	if branch != "" {
		opts.ReferenceName = branchRef(branch)
	}

	log.Info().Str("url", url).Str("dir", dir).Msg("cloning repository")
	repo, err := git.PlainCloneContext(ctx, dir, false, opts)
	if err != nil {
		if tempDir != "" {
			os.RemoveAll(tempDir)
		}
		return nil, fmt.Errorf("%w: clone %s: %v", ErrRemote, url, err)
	}

	return &Repository{locator: url, repo: repo, workDir: dir, tempDir: tempDir, log: log}, nil
}

// WorkDir returns the working tree path.
func (r *Repository) WorkDir() string { return r.workDir }

// Locator returns the URL or path the handle was created from.
func (r *Repository) Locator() string { return r.locator }

// Close releases the handle and removes a self-created temporary working
// tree. It is a no-op for opened or caller-directed clones.
func (r *Repository) Close() error {
	if r.tempDir == "" {
		return nil
	}
	dir := r.tempDir
	r.tempDir = ""
	if err := os.RemoveAll(dir); err != nil {
		r.log.Warn().Err(err).Str("dir", dir).Msg("failed to remove temp working tree")
		return err
	}
	r.log.Debug().Str("dir", dir).Msg("removed temp working tree")
	return nil
}

// Fetch updates the local repository from origin. Already-up-to-date is
// not an error.
func (r *Repository) Fetch(ctx context.Context) error {
	remotes, err := r.repo.Remotes()
	if err != nil || len(remotes) == 0 {
		r.log.Debug().Msg("no remotes, skipping fetch")
		return nil
	}

	err = r.repo.FetchContext(ctx, &git.FetchOptions{RemoteName: "origin"})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return fmt.Errorf("%w: fetch: %v", ErrRemote, err)
	}
	return nil
}

// CheckoutBranch forces the working tree onto the named branch.
func (r *Repository) CheckoutBranch(branch string) error {
	wt, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("worktree: %w", err)
	}
	if err := wt.Checkout(&git.CheckoutOptions{Branch: branchRef(branch), Force: true}); err != nil {
		return fmt.Errorf("checkout %s: %w", branch, err)
	}
	return nil
}
