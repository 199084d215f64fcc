package gitrepo_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/repobrief/repobrief/internal/gitrepo"
	"github.com/repobrief/repobrief/internal/logging"
	"github.com/repobrief/repobrief/internal/model"
)

var baseTime = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func commitFiles(t *testing.T, wt *git.Worktree, dir, message string, offset time.Duration, files map[string]string) string {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", rel, err)
		}
		if _, err := wt.Add(rel); err != nil {
			t.Fatalf("add %s: %v", rel, err)
		}
	}
	hash, err := wt.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  "Test Author",
			Email: "test@example.com",
			When:  baseTime.Add(offset),
		},
	})
	if err != nil {
		t.Fatalf("commit %q: %v", message, err)
	}
	return hash.String()
}

// newTwoCommitRepo builds the canonical fixture: a first commit adding
// README.md (3 lines), main.py (1 line) and src/module.py (2 lines), and a
// second commit appending 2 lines to main.py.
func newTwoCommitRepo(t *testing.T) (dir, first, second string) {
	t.Helper()
	dir = t.TempDir()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("worktree: %v", err)
	}

	first = commitFiles(t, wt, dir, "initial import", 0, map[string]string{
		"README.md":     "# project\n\nA test project.\n",
		"main.py":       "print('hello')\n",
		"src/module.py": "x = 1\ny = 2\n",
	})
	second = commitFiles(t, wt, dir, "extend main", time.Minute, map[string]string{
		"main.py": "print('hello')\nprint('again')\nprint('done')\n",
	})
	return dir, first, second
}

func openRepo(t *testing.T, dir string) *gitrepo.Repository {
	t.Helper()
	r, err := gitrepo.Open(dir, logging.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return r
}

func TestOpenErrors(t *testing.T) {
	if _, err := gitrepo.Open(filepath.Join(t.TempDir(), "missing"), logging.Nop()); !errors.Is(err, gitrepo.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	if _, err := gitrepo.Open(t.TempDir(), logging.Nop()); !errors.Is(err, gitrepo.ErrInvalidRepo) {
		t.Errorf("expected ErrInvalidRepo, got %v", err)
	}
}

func TestIsRemote(t *testing.T) {
	cases := []struct {
		locator string
		want    bool
	}{
		{"https://github.com/owner/repo.git", true},
		{"http://host/repo", true},
		{"git@github.com:owner/repo.git", true},
		{"ssh://git@host/repo.git", true},
		{"/home/user/repo", false},
		{"./relative/repo", false},
		{"repo", false},
	}
	for _, tc := range cases {
		if got := gitrepo.IsRemote(tc.locator); got != tc.want {
			t.Errorf("IsRemote(%q) = %v, want %v", tc.locator, got, tc.want)
		}
	}
}

func TestInfo(t *testing.T) {
	dir, _, second := newTwoCommitRepo(t)
	r := openRepo(t, dir)

	info, err := r.Info()
	if err != nil {
		t.Fatalf("Info: %v", err)
	}

	if info.TotalCommits != 2 {
		t.Errorf("TotalCommits = %d, want 2", info.TotalCommits)
	}
	if info.LastCommit != second {
		t.Errorf("LastCommit = %s, want %s", info.LastCommit, second)
	}
	if len(info.Authors) != 1 || info.Authors[0] != "Test Author" {
		t.Errorf("Authors = %v, want [Test Author]", info.Authors)
	}
	if info.LastCommitDate == nil || !info.LastCommitDate.Equal(baseTime.Add(time.Minute)) {
		t.Errorf("LastCommitDate = %v, want %v", info.LastCommitDate, baseTime.Add(time.Minute))
	}
	if info.Branch == "" {
		t.Error("expected non-empty branch name")
	}
	// main.py has 3 lines after the second commit, src/module.py has 2.
	if info.Languages["Python"] != 5 {
		t.Errorf("Python lines = %d, want 5", info.Languages["Python"])
	}
	if info.Languages["Markdown"] != 3 {
		t.Errorf("Markdown lines = %d, want 3", info.Languages["Markdown"])
	}
}

func TestStructure(t *testing.T) {
	dir, _, _ := newTwoCommitRepo(t)
	r := openRepo(t, dir)

	structure, err := r.Structure()
	if err != nil {
		t.Fatalf("Structure: %v", err)
	}
	if got := structure["."]; len(got) != 2 || got[0] != "README.md" || got[1] != "main.py" {
		t.Errorf("root files = %v, want [README.md main.py]", got)
	}
	if got := structure["src"]; len(got) != 1 || got[0] != "module.py" {
		t.Errorf("src files = %v, want [module.py]", got)
	}
}

func TestRecentCommits(t *testing.T) {
	dir, first, second := newTwoCommitRepo(t)
	r := openRepo(t, dir)

	commits, err := r.RecentCommits(10, nil)
	if err != nil {
		t.Fatalf("RecentCommits: %v", err)
	}
	if len(commits) != 2 {
		t.Fatalf("got %d commits, want 2", len(commits))
	}
	if commits[0].Hash != second || commits[1].Hash != first {
		t.Errorf("commits not newest-first: %s, %s", commits[0].Hash, commits[1].Hash)
	}

	newest := commits[0]
	if len(newest.Files) != 1 {
		t.Fatalf("newest commit has %d file changes, want 1", len(newest.Files))
	}
	if newest.Files[0].Path != "main.py" || newest.Files[0].Kind != model.ChangeModified {
		t.Errorf("unexpected change: %+v", newest.Files[0])
	}
	if newest.TotalAdditions != 2 {
		t.Errorf("TotalAdditions = %d, want 2", newest.TotalAdditions)
	}

	root := commits[1]
	if len(root.Files) != 3 {
		t.Errorf("root commit has %d file changes, want 3", len(root.Files))
	}
	for _, fc := range root.Files {
		if fc.Kind != model.ChangeAdded {
			t.Errorf("root commit change %s kind = %s, want added", fc.Path, fc.Kind)
		}
	}
}

func TestRecentCommitsCount(t *testing.T) {
	dir, _, second := newTwoCommitRepo(t)
	r := openRepo(t, dir)

	commits, err := r.RecentCommits(1, nil)
	if err != nil {
		t.Fatalf("RecentCommits: %v", err)
	}
	if len(commits) != 1 || commits[0].Hash != second {
		t.Errorf("expected only the newest commit, got %v", commits)
	}
}

func TestRecentCommitsSince(t *testing.T) {
	dir, _, _ := newTwoCommitRepo(t)
	r := openRepo(t, dir)

	cutoff := baseTime.Add(30 * time.Second)
	commits, err := r.RecentCommits(10, &cutoff)
	if err != nil {
		t.Fatalf("RecentCommits: %v", err)
	}
	if len(commits) != 1 {
		t.Errorf("got %d commits since cutoff, want 1", len(commits))
	}
}

func TestChangedFiles(t *testing.T) {
	dir, first, second := newTwoCommitRepo(t)
	r := openRepo(t, dir)

	changes, err := r.ChangedFiles(first, second)
	if err != nil {
		t.Fatalf("ChangedFiles: %v", err)
	}
	if len(changes) != 1 {
		t.Fatalf("got %d changes, want 1", len(changes))
	}
	fc := changes[0]
	if fc.Path != "main.py" || fc.Kind != model.ChangeModified {
		t.Errorf("unexpected change: %+v", fc)
	}
	if fc.LinesAdded != 2 || fc.LinesDeleted != 0 {
		t.Errorf("line delta = +%d/-%d, want +2/-0", fc.LinesAdded, fc.LinesDeleted)
	}
}

func TestChangedFilesHeadRef(t *testing.T) {
	dir, first, _ := newTwoCommitRepo(t)
	r := openRepo(t, dir)

	changes, err := r.ChangedFiles(first, "HEAD")
	if err != nil {
		t.Fatalf("ChangedFiles: %v", err)
	}
	if len(changes) != 1 || changes[0].Path != "main.py" {
		t.Errorf("unexpected changes: %v", changes)
	}
}

func TestFileHistory(t *testing.T) {
	dir, first, second := newTwoCommitRepo(t)
	r := openRepo(t, dir)

	history, err := r.FileHistory("main.py", 50)
	if err != nil {
		t.Fatalf("FileHistory: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("got %d entries, want 2", len(history))
	}
	if history[0].Hash != second || history[1].Hash != first {
		t.Errorf("history not newest-first: %s, %s", history[0].Hash, history[1].Hash)
	}

	one, err := r.FileHistory("src/module.py", 50)
	if err != nil {
		t.Fatalf("FileHistory: %v", err)
	}
	if len(one) != 1 {
		t.Errorf("src/module.py history has %d entries, want 1", len(one))
	}
}

func TestFileHistoryMax(t *testing.T) {
	dir, _, second := newTwoCommitRepo(t)
	r := openRepo(t, dir)

	history, err := r.FileHistory("main.py", 1)
	if err != nil {
		t.Fatalf("FileHistory: %v", err)
	}
	if len(history) != 1 || history[0].Hash != second {
		t.Errorf("expected only newest entry, got %v", history)
	}
}

func TestImportantFiles(t *testing.T) {
	dir, _, _ := newTwoCommitRepo(t)
	r := openRepo(t, dir)

	frequent, err := r.ImportantFiles(1)
	if err != nil {
		t.Fatalf("ImportantFiles: %v", err)
	}
	if len(frequent) != 3 {
		t.Fatalf("got %d entries, want 3: %v", len(frequent), frequent)
	}
	if frequent[0].Path != "main.py" || frequent[0].Count != 2 {
		t.Errorf("top entry = %+v, want main.py with count 2", frequent[0])
	}
	// Equal counts are ordered by lexical path.
	if frequent[1].Path != "README.md" || frequent[2].Path != "src/module.py" {
		t.Errorf("tie-break order wrong: %v", frequent)
	}

	onlyFrequent, err := r.ImportantFiles(2)
	if err != nil {
		t.Fatalf("ImportantFiles: %v", err)
	}
	if len(onlyFrequent) != 1 || onlyFrequent[0].Path != "main.py" {
		t.Errorf("threshold filter wrong: %v", onlyFrequent)
	}
}
