// Package cache reuses cloned working trees keyed by normalized locator.
package cache

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/rs/zerolog"

	"github.com/repobrief/repobrief/internal/gitrepo"
)

// Key normalizes a repository locator into a stable, filesystem-safe cache
// key. The https and ssh forms of the same remote normalize to the same
// key, so a cache entry is shared across both.
func Key(locator string) string {
	key := locator
	for _, scheme := range []string{"http://", "https://", "ssh://"} {
		key = strings.TrimPrefix(key, scheme)
	}
	if at := strings.Index(key, "@"); at >= 0 {
		key = key[at+1:]
	}
	// SSH colon-path syntax (host:owner/repo) becomes slash syntax.
	key = strings.Replace(key, ":", "/", 1)
	key = strings.TrimSuffix(key, ".git")
	key = strings.NewReplacer("/", "_", ".", "_", "-", "_").Replace(key)
	return key
}

// Cache materializes repositories under a root directory, one entry per
// normalized locator. One entry must only ever be written by one
// Materialize call at a time; concurrent use against the same key requires
// external locking.
type Cache struct {
	root string
	log  zerolog.Logger

	// clone performs the actual clone. Swappable so tests can count or
	// stub clone operations.
	clone func(ctx context.Context, url, dir, branch string) error
}

// New creates a cache rooted at dir.
func New(dir string, log zerolog.Logger) *Cache {
	c := &Cache{root: dir, log: log}
	c.clone = func(ctx context.Context, url, dir, branch string) error {
		r, err := gitrepo.Clone(ctx, url, dir, branch, log)
		if err != nil {
			return err
		}
		return r.Close()
	}
	return c
}

// Materialize returns a local working tree for locator, cloning it on a
// cache miss. A cached entry is opened and updated via fetch and optional
// branch checkout; any failure during the update deletes the entry and
// falls through to a fresh clone, so a half-updated tree is never kept.
func (c *Cache) Materialize(ctx context.Context, locator, branch string) (string, error) {
	if !gitrepo.IsRemote(locator) {
		return "", fmt.Errorf("locator %s is not a remote URL", locator)
	}

	path := filepath.Join(c.root, Key(locator))

	if _, err := os.Stat(path); err == nil {
		updateErr := c.update(ctx, path, branch)
		if updateErr == nil {
			c.log.Debug().Str("locator", locator).Str("path", path).Msg("reusing cached repository")
			return path, nil
		}
		c.log.Warn().Err(updateErr).Str("path", path).Msg("cache entry unusable, recloning")
		if rmErr := os.RemoveAll(path); rmErr != nil {
			return "", fmt.Errorf("remove stale cache entry: %w", rmErr)
		}
	}

	if err := os.MkdirAll(c.root, 0o755); err != nil {
		return "", fmt.Errorf("create cache root: %w", err)
	}
	if err := c.clone(ctx, locator, path, branch); err != nil {
		os.RemoveAll(path)
		return "", err
	}
	c.log.Info().Str("locator", locator).Str("path", path).Msg("cloned into cache")
	return path, nil
}

// update opens a cached entry and brings it up to date. Any error marks
// the entry corrupt; the caller nukes and reclones.
func (c *Cache) update(ctx context.Context, path, branch string) error {
	r, err := gitrepo.Open(path, c.log)
	if err != nil {
		return err
	}
	if err := r.Fetch(ctx); err != nil {
		return err
	}
	if branch != "" {
		if err := r.CheckoutBranch(branch); err != nil {
			return err
		}
	}
	return nil
}

// Materialized reports whether a valid cache entry for locator exists
// without touching the network.
func (c *Cache) Materialized(locator string) bool {
	path := filepath.Join(c.root, Key(locator))
	if _, err := os.Stat(path); err != nil {
		return false
	}
	_, err := git.PlainOpen(path)
	return err == nil
}
