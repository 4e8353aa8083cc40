package report

import (
	"fmt"
	"io"

	"leanixcli/internal/analytics"
)

// Writer renders an analysis snapshot to an output stream.
type Writer interface {
	// Write renders the snapshot and returns the number of bytes intended
	// for the output.
	Write(snapshot *analytics.Snapshot) (int, error)
}

// Format identifies a report output format.
type Format string

const (
	FormatConsole  Format = "console"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

// NewWriter creates a report writer for the given format.
func NewWriter(format Format, output io.Writer) (Writer, error) {
	switch format {
	case FormatConsole:
		return NewConsoleWriter(output), nil
	case FormatMarkdown:
		return NewMarkdownWriter(output), nil
	case FormatJSON:
		return NewJSONWriter(output), nil
	default:
		return nil, fmt.Errorf("unknown report format: %s", format)
	}
}

// baseWriter carries the shared output stream.
type baseWriter struct {
	output io.Writer
}

func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// money formats a currency amount with two decimals.
func money(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

// pct formats a percentage with one decimal.
func pct(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}
