// Package content reads and aggregates the contents of important files.
package content

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-enry/go-enry/v2"
	"github.com/rs/zerolog"

	"github.com/repobrief/repobrief/internal/model"
)

const (
	// MaxFileSize bounds how large a file may be before it is flagged
	// unreadable instead of loaded.
	MaxFileSize = 1024 * 1024
	// MaxLines bounds how many lines of a file are kept; longer files are
	// truncated with an explicit marker.
	MaxLines = 2000
)

// Extensions that are never worth reading as text.
var skipExtensions = map[string]struct{}{
	".so": {}, ".dll": {}, ".exe": {}, ".bin": {}, ".o": {}, ".a": {},
	".jpg": {}, ".jpeg": {}, ".png": {}, ".gif": {}, ".ico": {}, ".bmp": {},
	".pdf": {}, ".zip": {}, ".tar": {}, ".gz": {}, ".bz2": {}, ".7z": {},
	".mp3": {}, ".mp4": {}, ".avi": {}, ".mov": {},
	".db": {}, ".sqlite": {}, ".sqlite3": {},
}

// Reader loads important files from a working tree with size and line caps.
type Reader struct {
	root string
	log  zerolog.Logger
}

// NewReader creates a Reader rooted at the working tree.
func NewReader(root string, log zerolog.Logger) *Reader {
	return &Reader{root: root, log: log}
}

// ReadAll reads every important file and aggregates the results. Files
// that cannot be read are recorded with a reason and never fail the batch.
func (r *Reader) ReadAll(files []model.ImportantFile) *model.AggregatedContent {
	agg := &model.AggregatedContent{TotalFiles: len(files)}

	for _, f := range files {
		switch f.Importance {
		case model.ImportanceCritical:
			agg.CriticalFiles++
		case model.ImportanceHigh:
			agg.HighFiles++
		case model.ImportanceMedium:
			agg.MediumFiles++
		}

		fc := r.readOne(f)
		agg.Files = append(agg.Files, fc)
		if fc.IsReadable {
			agg.SuccessfulReads++
			agg.TotalLines += fc.LineCount
			agg.TotalSizeBytes += fc.SizeBytes
		} else {
			agg.FailedReads++
			r.log.Debug().Str("file", fc.Path).Str("reason", fc.ErrorMessage).Msg("unreadable important file")
		}
	}
	return agg
}

func (r *Reader) readOne(f model.ImportantFile) model.FileContent {
	fc := model.FileContent{
		Path:        f.Path,
		Importance:  f.Importance,
		ContentType: f.ContentType,
	}

	path := filepath.Join(r.root, filepath.FromSlash(f.Path))
	info, err := os.Stat(path)
	if err != nil {
		fc.ErrorMessage = "file does not exist"
		return fc
	}
	if info.IsDir() {
		fc.ErrorMessage = "path is not a file"
		return fc
	}
	if _, skip := skipExtensions[strings.ToLower(filepath.Ext(path))]; skip {
		fc.ErrorMessage = fmt.Sprintf("skipped binary file type: %s", filepath.Ext(path))
		return fc
	}

	fc.SizeBytes = info.Size()
	if info.Size() > MaxFileSize {
		fc.ErrorMessage = fmt.Sprintf("file too large: %d bytes > %d bytes", info.Size(), MaxFileSize)
		return fc
	}

	data, err := os.ReadFile(path)
	if err != nil {
		fc.ErrorMessage = fmt.Sprintf("read failed: %v", err)
		return fc
	}
	if enry.IsBinary(data) {
		fc.ErrorMessage = "binary content"
		return fc
	}

	text := string(data)
	// Same line convention as the language scan: a trailing newline does
	// not open an extra empty line, an unterminated final line counts.
	lines := strings.Split(text, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	if len(lines) > MaxLines {
		lines = lines[:MaxLines]
		text = strings.Join(lines, "\n") +
			fmt.Sprintf("\n\n... (truncated, showing first %d lines)", MaxLines)
	}

	fc.Content = text
	fc.LineCount = len(lines)
	fc.IsReadable = true
	return fc
}
