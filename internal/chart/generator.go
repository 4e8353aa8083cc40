// Package chart renders analysis snapshots into standalone HTML chart
// pages. Each page embeds a mermaid chart definition and loads the
// mermaid runtime from a CDN, so the files open directly in a browser
// without a server.
package chart

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"leanixcli/internal/analytics"
	apperrors "leanixcli/internal/errors"
)

const (
	// CostDistributionFile is the output file name for the maintenance
	// cost histogram.
	CostDistributionFile = "cost_distribution.html"

	// CorrelationMatrixFile is the output file name for the numeric
	// column correlation heatmap.
	CorrelationMatrixFile = "correlation_matrix.html"

	// DepartmentAnalysisFile is the output file name for the per
	// department application count chart.
	DepartmentAnalysisFile = "department_analysis.html"
)

// Generator renders chart pages from an analysis snapshot.
type Generator struct {
	dir    string
	logger *slog.Logger
}

// NewGenerator creates a Generator that writes chart files into dir.
func NewGenerator(dir string, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{
		dir:    dir,
		logger: logger,
	}
}

// Generate writes all chart pages for the snapshot. The files are
// written concurrently and the first error aborts the remaining writes.
// Returns the list of files written.
func (g *Generator) Generate(ctx context.Context, snapshot *analytics.Snapshot) ([]string, error) {
	if snapshot == nil || snapshot.NoData() {
		return nil, apperrors.NewValidationError("no data available for chart generation")
	}

	if err := os.MkdirAll(g.dir, 0o755); err != nil {
		return nil, apperrors.NewStorageError("create charts directory", err)
	}

	pages := []struct {
		name   string
		render func(*analytics.Snapshot) (string, error)
	}{
		{CostDistributionFile, g.renderCostDistribution},
		{CorrelationMatrixFile, g.renderCorrelationMatrix},
		{DepartmentAnalysisFile, g.renderDepartmentAnalysis},
	}

	eg, ctx := errgroup.WithContext(ctx)
	written := make([]string, len(pages))
	for i, page := range pages {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			content, err := page.render(snapshot)
			if err != nil {
				return err
			}
			path := filepath.Join(g.dir, page.name)
			if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
				return apperrors.NewStorageError("write chart file", err).
					WithContext("path", path)
			}
			written[i] = path
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	g.logger.InfoContext(ctx, "generated chart files",
		slog.String("dir", g.dir),
		slog.Int("count", len(written)))

	return written, nil
}

func (g *Generator) renderCostDistribution(snapshot *analytics.Snapshot) (string, error) {
	bins := snapshot.Business.CostHistogram
	if len(bins) == 0 {
		return renderPage("Maintenance Cost Distribution",
			"pie title Maintenance Cost Distribution\n    \"No cost data\" : 1")
	}

	labels := make([]string, len(bins))
	counts := make([]string, len(bins))
	maxCount := 0
	for i, bin := range bins {
		labels[i] = fmt.Sprintf("\"%s\"", compactMoney(bin.Low))
		counts[i] = fmt.Sprintf("%d", bin.Count)
		if bin.Count > maxCount {
			maxCount = bin.Count
		}
	}

	var b strings.Builder
	b.WriteString("xychart-beta\n")
	b.WriteString("    title \"Maintenance Cost Distribution\"\n")
	fmt.Fprintf(&b, "    x-axis [%s]\n", strings.Join(labels, ", "))
	fmt.Fprintf(&b, "    y-axis \"Applications\" 0 --> %d\n", maxCount+1)
	fmt.Fprintf(&b, "    bar [%s]\n", strings.Join(counts, ", "))

	return renderPage("Maintenance Cost Distribution", b.String())
}

func (g *Generator) renderDepartmentAnalysis(snapshot *analytics.Snapshot) (string, error) {
	departments := snapshot.Performance.Departments
	if len(departments) == 0 {
		return renderPage("Applications by Department",
			"pie title Applications by Department\n    \"Unknown\" : 1")
	}

	labels := make([]string, len(departments))
	counts := make([]string, len(departments))
	maxCount := 0
	for i, bucket := range departments {
		labels[i] = fmt.Sprintf("\"%s\"", bucket.Value)
		counts[i] = fmt.Sprintf("%d", bucket.Count)
		if bucket.Count > maxCount {
			maxCount = bucket.Count
		}
	}

	var b strings.Builder
	b.WriteString("xychart-beta\n")
	b.WriteString("    title \"Applications by Department\"\n")
	fmt.Fprintf(&b, "    x-axis [%s]\n", strings.Join(labels, ", "))
	fmt.Fprintf(&b, "    y-axis \"Applications\" 0 --> %d\n", maxCount+1)
	fmt.Fprintf(&b, "    bar [%s]\n", strings.Join(counts, ", "))

	return renderPage("Applications by Department", b.String())
}

// renderCorrelationMatrix renders a table heatmap. Mermaid has no
// heatmap chart, so the matrix is rendered as a colored HTML table.
func (g *Generator) renderCorrelationMatrix(snapshot *analytics.Snapshot) (string, error) {
	matrix := snapshot.Correlation

	type cell struct {
		Text  string
		Color template.CSS
	}
	type row struct {
		Label string
		Cells []cell
	}

	data := struct {
		Title   string
		Columns []string
		Rows    []row
	}{
		Title: "Numeric Column Correlation",
	}
	for _, col := range matrix.Columns {
		data.Columns = append(data.Columns, string(col))
	}
	for i, col := range matrix.Columns {
		r := row{Label: string(col)}
		for j := range matrix.Columns {
			v := matrix.Values[i][j]
			r.Cells = append(r.Cells, cell{
				Text:  fmt.Sprintf("%.2f", v),
				Color: heatColor(v),
			})
		}
		data.Rows = append(data.Rows, r)
	}

	var buf bytes.Buffer
	if err := correlationTemplate.Execute(&buf, data); err != nil {
		return "", apperrors.NewParsingError("render correlation matrix", err)
	}
	return buf.String(), nil
}

// heatColor maps a correlation coefficient in [-1, 1] to a background
// color, blue for negative and red for positive.
func heatColor(v float64) template.CSS {
	if v > 1 {
		v = 1
	}
	if v < -1 {
		v = -1
	}
	if v >= 0 {
		intensity := int(255 - v*120)
		return template.CSS(fmt.Sprintf("background:rgb(255,%d,%d)", intensity, intensity))
	}
	intensity := int(255 + v*120)
	return template.CSS(fmt.Sprintf("background:rgb(%d,%d,255)", intensity, intensity))
}

func compactMoney(v float64) string {
	switch {
	case v >= 1_000_000:
		return fmt.Sprintf("$%.1fM", v/1_000_000)
	case v >= 1_000:
		return fmt.Sprintf("$%.0fk", v/1_000)
	default:
		return fmt.Sprintf("$%.0f", v)
	}
}

func renderPage(title, mermaid string) (string, error) {
	var buf bytes.Buffer
	err := mermaidTemplate.Execute(&buf, struct {
		Title   string
		Mermaid string
	}{Title: title, Mermaid: mermaid})
	if err != nil {
		return "", apperrors.NewParsingError("render chart page", err)
	}
	return buf.String(), nil
}

var mermaidTemplate = template.Must(template.New("mermaid").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<script type="module">
import mermaid from "https://cdn.jsdelivr.net/npm/mermaid@11/dist/mermaid.esm.min.mjs";
mermaid.initialize({ startOnLoad: true });
</script>
<style>
body { font-family: sans-serif; margin: 2rem; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<pre class="mermaid">
{{.Mermaid}}
</pre>
</body>
</html>
`))

var correlationTemplate = template.Must(template.New("correlation").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; margin: 2rem; }
table { border-collapse: collapse; }
th, td { border: 1px solid #ccc; padding: 0.5rem 0.8rem; text-align: center; }
th { background: #f4f4f4; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<table>
<tr><th></th>{{range .Columns}}<th>{{.}}</th>{{end}}</tr>
{{range .Rows}}<tr><th>{{.Label}}</th>{{range .Cells}}<td style="{{.Color}}">{{.Text}}</td>{{end}}</tr>
{{end}}</table>
</body>
</html>
`))
