package content

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/repobrief/repobrief/internal/logging"
	"github.com/repobrief/repobrief/internal/model"
)

func writeFile(t *testing.T, root, name, body string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestReadAll(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.py", "import os\n\nprint('hi')\n")
	writeFile(t, root, "docs/README.md", "# Demo\n")

	r := NewReader(root, logging.Nop())
	agg := r.ReadAll([]model.ImportantFile{
		{Path: "main.py", Importance: model.ImportanceCritical, ContentType: "entry_point"},
		{Path: "docs/README.md", Importance: model.ImportanceHigh, ContentType: "documentation"},
	})

	if agg.TotalFiles != 2 || agg.SuccessfulReads != 2 || agg.FailedReads != 0 {
		t.Fatalf("counts = %d/%d/%d, want 2/2/0", agg.TotalFiles, agg.SuccessfulReads, agg.FailedReads)
	}
	if agg.CriticalFiles != 1 || agg.HighFiles != 1 || agg.MediumFiles != 0 {
		t.Errorf("importance counts = %d/%d/%d", agg.CriticalFiles, agg.HighFiles, agg.MediumFiles)
	}
	if got := agg.Files[0]; !got.IsReadable || !strings.Contains(got.Content, "print('hi')") {
		t.Errorf("main.py content = %+v", got)
	}
	if got := agg.Files[0].LineCount; got != 3 {
		t.Errorf("main.py LineCount = %d, want 3", got)
	}
}

func TestReadAllLineCountConvention(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "terminated.txt", "one\ntwo\nthree\n")
	writeFile(t, root, "unterminated.txt", "one\ntwo")
	writeFile(t, root, "empty.txt", "")

	r := NewReader(root, logging.Nop())
	agg := r.ReadAll([]model.ImportantFile{
		{Path: "terminated.txt", Importance: model.ImportanceMedium},
		{Path: "unterminated.txt", Importance: model.ImportanceMedium},
		{Path: "empty.txt", Importance: model.ImportanceMedium},
	})

	want := map[string]int{
		"terminated.txt":   3,
		"unterminated.txt": 2,
		"empty.txt":        0,
	}
	for _, fc := range agg.Files {
		if !fc.IsReadable {
			t.Errorf("%s unreadable: %s", fc.Path, fc.ErrorMessage)
			continue
		}
		if fc.LineCount != want[fc.Path] {
			t.Errorf("%s LineCount = %d, want %d", fc.Path, fc.LineCount, want[fc.Path])
		}
	}
	if agg.TotalLines != 5 {
		t.Errorf("TotalLines = %d, want 5", agg.TotalLines)
	}
}

func TestReadAllMissingFile(t *testing.T) {
	r := NewReader(t.TempDir(), logging.Nop())
	agg := r.ReadAll([]model.ImportantFile{{Path: "gone.py", Importance: model.ImportanceHigh}})

	if agg.FailedReads != 1 {
		t.Fatalf("FailedReads = %d, want 1", agg.FailedReads)
	}
	fc := agg.Files[0]
	if fc.IsReadable {
		t.Error("missing file reported readable")
	}
	if fc.ErrorMessage != "file does not exist" {
		t.Errorf("ErrorMessage = %q", fc.ErrorMessage)
	}
}

func TestReadAllSkipsBinaryExtension(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "app.exe", "MZ\x90\x00")

	r := NewReader(root, logging.Nop())
	agg := r.ReadAll([]model.ImportantFile{{Path: "app.exe", Importance: model.ImportanceLow}})

	fc := agg.Files[0]
	if fc.IsReadable {
		t.Error("binary extension reported readable")
	}
	if !strings.Contains(fc.ErrorMessage, "skipped binary file type") {
		t.Errorf("ErrorMessage = %q", fc.ErrorMessage)
	}
}

func TestReadAllSkipsBinaryContent(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "blob.dat", "\x00\x01\x02\x03")

	r := NewReader(root, logging.Nop())
	agg := r.ReadAll([]model.ImportantFile{{Path: "blob.dat", Importance: model.ImportanceLow}})

	if fc := agg.Files[0]; fc.IsReadable || fc.ErrorMessage != "binary content" {
		t.Errorf("got %+v", agg.Files[0])
	}
}

func TestReadAllTooLarge(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "big.txt", strings.Repeat("x", MaxFileSize+1))

	r := NewReader(root, logging.Nop())
	agg := r.ReadAll([]model.ImportantFile{{Path: "big.txt", Importance: model.ImportanceMedium}})

	fc := agg.Files[0]
	if fc.IsReadable {
		t.Error("oversized file reported readable")
	}
	if !strings.Contains(fc.ErrorMessage, "file too large") {
		t.Errorf("ErrorMessage = %q", fc.ErrorMessage)
	}
	if fc.SizeBytes != MaxFileSize+1 {
		t.Errorf("SizeBytes = %d", fc.SizeBytes)
	}
}

func TestReadAllTruncatesLongFiles(t *testing.T) {
	root := t.TempDir()
	var b strings.Builder
	for i := 0; i < MaxLines+100; i++ {
		b.WriteString("line\n")
	}
	writeFile(t, root, "long.txt", b.String())

	r := NewReader(root, logging.Nop())
	agg := r.ReadAll([]model.ImportantFile{{Path: "long.txt", Importance: model.ImportanceMedium}})

	fc := agg.Files[0]
	if !fc.IsReadable {
		t.Fatalf("long file unreadable: %s", fc.ErrorMessage)
	}
	if fc.LineCount != MaxLines {
		t.Errorf("LineCount = %d, want %d", fc.LineCount, MaxLines)
	}
	if !strings.Contains(fc.Content, "... (truncated, showing first 2000 lines)") {
		t.Error("missing truncation marker")
	}
}
