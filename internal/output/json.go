package output

import (
	"encoding/json"
	"io"

	"github.com/repobrief/repobrief/internal/model"
)

// WriteJSON writes the report as pretty-printed JSON to w.
func WriteJSON(w io.Writer, report model.Report) error {
	return WriteJSONValue(w, report)
}

// WriteJSONValue writes any value as pretty-printed JSON to w.
func WriteJSONValue(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
