package cache

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/repobrief/repobrief/internal/logging"
)

func TestKey(t *testing.T) {
	cases := []struct {
		locator string
		want    string
	}{
		{"https://github.com/owner/repo.git", "github_com_owner_repo"},
		{"https://github.com/owner/repo", "github_com_owner_repo"},
		{"git@github.com:owner/repo.git", "github_com_owner_repo"},
		{"ssh://git@github.com/owner/repo.git", "github_com_owner_repo"},
		{"http://host.example/a/b-c.git", "host_example_a_b_c"},
	}
	for _, tc := range cases {
		if got := Key(tc.locator); got != tc.want {
			t.Errorf("Key(%q) = %q, want %q", tc.locator, got, tc.want)
		}
	}
}

func TestKeyEquivalentForms(t *testing.T) {
	https := Key("https://host/owner/repo.git")
	ssh := Key("git@host:owner/repo.git")
	bare := Key("https://host/owner/repo")
	if https != ssh || https != bare {
		t.Errorf("equivalent locators normalize differently: %q, %q, %q", https, ssh, bare)
	}
}

// fakeClone initializes a real repository with one commit at dir, standing
// in for a network clone.
func fakeClone(t *testing.T) func(ctx context.Context, url, dir, branch string) error {
	t.Helper()
	return func(_ context.Context, _, dir, _ string) error {
		repo, err := git.PlainInit(dir, false)
		if err != nil {
			return err
		}
		wt, err := repo.Worktree()
		if err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(dir, "README.md"), []byte("# repo\n"), 0o644); err != nil {
			return err
		}
		if _, err := wt.Add("README.md"); err != nil {
			return err
		}
		_, err = wt.Commit("initial", &git.CommitOptions{
			Author: &object.Signature{Name: "Test", Email: "test@example.com"},
		})
		return err
	}
}

func TestMaterializeRoundTrip(t *testing.T) {
	c := New(t.TempDir(), logging.Nop())

	cloneCalls := 0
	realFake := fakeClone(t)
	c.clone = func(ctx context.Context, url, dir, branch string) error {
		cloneCalls++
		return realFake(ctx, url, dir, branch)
	}

	url := "https://host/owner/repo.git"
	ctx := context.Background()

	first, err := c.Materialize(ctx, url, "")
	if err != nil {
		t.Fatalf("first Materialize: %v", err)
	}
	if cloneCalls != 1 {
		t.Fatalf("expected 1 clone, got %d", cloneCalls)
	}

	second, err := c.Materialize(ctx, url, "")
	if err != nil {
		t.Fatalf("second Materialize: %v", err)
	}
	if second != first {
		t.Errorf("paths differ across calls: %s vs %s", first, second)
	}
	if cloneCalls != 1 {
		t.Errorf("second Materialize re-cloned: %d clone calls", cloneCalls)
	}

	if !c.Materialized(url) {
		t.Error("Materialized should report true for a cached entry")
	}
}

func TestMaterializeSharedAcrossLocatorForms(t *testing.T) {
	c := New(t.TempDir(), logging.Nop())

	cloneCalls := 0
	realFake := fakeClone(t)
	c.clone = func(ctx context.Context, url, dir, branch string) error {
		cloneCalls++
		return realFake(ctx, url, dir, branch)
	}

	ctx := context.Background()
	httpsPath, err := c.Materialize(ctx, "https://host/owner/repo.git", "")
	if err != nil {
		t.Fatalf("https Materialize: %v", err)
	}
	sshPath, err := c.Materialize(ctx, "git@host:owner/repo.git", "")
	if err != nil {
		t.Fatalf("ssh Materialize: %v", err)
	}
	if httpsPath != sshPath {
		t.Errorf("https and ssh forms use different cache entries: %s vs %s", httpsPath, sshPath)
	}
	if cloneCalls != 1 {
		t.Errorf("expected a single clone across forms, got %d", cloneCalls)
	}
}

func TestMaterializeNukesCorruptEntry(t *testing.T) {
	root := t.TempDir()
	c := New(root, logging.Nop())

	cloneCalls := 0
	realFake := fakeClone(t)
	c.clone = func(ctx context.Context, url, dir, branch string) error {
		cloneCalls++
		return realFake(ctx, url, dir, branch)
	}

	url := "https://host/owner/repo.git"

	// A directory without repository metadata simulates a corrupt entry.
	entry := filepath.Join(root, Key(url))
	if err := os.MkdirAll(entry, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(entry, "junk"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	path, err := c.Materialize(context.Background(), url, "")
	if err != nil {
		t.Fatalf("Materialize: %v", err)
	}
	if cloneCalls != 1 {
		t.Errorf("expected reclone of corrupt entry, got %d clone calls", cloneCalls)
	}
	if _, err := git.PlainOpen(path); err != nil {
		t.Errorf("recloned entry is not a valid repository: %v", err)
	}
	if _, err := os.Stat(filepath.Join(path, "junk")); !os.IsNotExist(err) {
		t.Error("corrupt entry contents survived the reclone")
	}
}

func TestMaterializeRejectsLocalPath(t *testing.T) {
	c := New(t.TempDir(), logging.Nop())
	if _, err := c.Materialize(context.Background(), "/tmp/some/repo", ""); err == nil {
		t.Error("expected error for local path locator")
	}
}
