package report

import (
	"bytes"
	"encoding/json"
	"io"

	"leanixcli/internal/analytics"
)

// JSONWriter outputs the analysis snapshot as indented JSON for
// machine consumption and archival.
type JSONWriter struct {
	baseWriter
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer) *JSONWriter {
	return &JSONWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the snapshot as JSON.
func (w *JSONWriter) Write(snapshot *analytics.Snapshot) (int, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snapshot); err != nil {
		return 0, err
	}
	return w.output.Write(buf.Bytes())
}
