package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"leanixcli/internal/analytics"
)

// MarkdownWriter outputs the comprehensive analysis report in Markdown
// format, suitable for sharing and for the dashboard's download button.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the full report in Markdown format.
func (w *MarkdownWriter) Write(snapshot *analytics.Snapshot) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, snapshot)

	if snapshot.NoData() {
		md.Warning("No application records were found in the source file. Nothing to report.")
		return len(md.String()), md.Build()
	}

	w.writeMainMetrics(md, snapshot)
	w.writeBusinessMetrics(md, snapshot)
	w.writeColumnAnalysis(md, snapshot)
	w.writeCriticality(md, snapshot)
	w.writeRiskAnalysis(md, snapshot)
	w.writeRecommendations(md, snapshot)
	w.writeFooter(md, snapshot)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, snapshot *analytics.Snapshot) {
	md.H1("Comprehensive LeanIX Data Analysis Report")
	md.PlainText("")
	md.PlainTextf("**Analysis Date:** %s", snapshot.GeneratedAt.Format("2006-01-02 15:04:05"))
	md.PlainText("")
}

func (w *MarkdownWriter) writeMainMetrics(md *markdown.Markdown, snapshot *analytics.Snapshot) {
	md.H2("Main Metrics")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Total records", strconv.Itoa(snapshot.Overview.Records)},
			{"Total columns", strconv.Itoa(snapshot.Overview.Columns)},
			{"Missing values", strconv.Itoa(snapshot.Overview.MissingValues)},
			{"Duplicate records", strconv.Itoa(snapshot.Overview.DuplicateRecords)},
			{"Data completeness", pct(snapshot.Quality.Completeness)},
			{"Data accuracy", pct(snapshot.Quality.Accuracy)},
			{"Data consistency", pct(snapshot.Quality.Consistency)},
			{"Quality rating", snapshot.Quality.Label},
		},
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeBusinessMetrics(md *markdown.Markdown, snapshot *analytics.Snapshot) {
	md.H2("Business Metrics")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Total maintenance costs", money(snapshot.Business.TotalMaintenanceCost)},
			{"Total development costs", money(snapshot.Business.TotalDevelopmentCost)},
			{"Total costs", money(snapshot.Business.TotalCost)},
			{"Average security score", fmt.Sprintf("%.1f/100", snapshot.Security.AverageSecurityScore)},
			{"Average performance score", fmt.Sprintf("%.1f/100", snapshot.Performance.AveragePerformanceScore)},
			{"Average availability", fmt.Sprintf("%.2f%%", snapshot.Performance.AverageAvailability)},
		},
	})
	md.PlainText("")

	if len(snapshot.Business.TopExpensive) > 0 {
		md.H3(fmt.Sprintf("Top %d Most Expensive Applications", len(snapshot.Business.TopExpensive)))
		md.PlainText("")
		rows := make([][]string, len(snapshot.Business.TopExpensive))
		for i, entry := range snapshot.Business.TopExpensive {
			rows[i] = []string{entry.Name, money(entry.TotalCost)}
		}
		md.Table(markdown.TableSet{
			Header: []string{"Application", "Total Cost"},
			Rows:   rows,
		})
		md.PlainText("")
	}
}

func (w *MarkdownWriter) writeColumnAnalysis(md *markdown.Markdown, snapshot *analytics.Snapshot) {
	md.H2("Column Analysis")
	md.PlainText("")
	rows := make([][]string, len(snapshot.Overview.ColumnMissing))
	for i, cm := range snapshot.Overview.ColumnMissing {
		rows[i] = []string{
			string(cm.Column),
			strconv.Itoa(cm.Missing),
			pct(cm.Percent),
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Column", "Missing", "Missing %"},
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeCriticality(md *markdown.Markdown, snapshot *analytics.Snapshot) {
	if len(snapshot.Business.Criticality) == 0 {
		return
	}

	md.H2("Application Criticality Distribution")
	md.PlainText("")

	rows := make([][]string, len(snapshot.Business.Criticality))
	for i, bucket := range snapshot.Business.Criticality {
		rows[i] = []string{
			bucket.Value,
			strconv.Itoa(bucket.Count),
			pct(bucket.Percent),
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Criticality", "Count", "Share"},
		Rows:   rows,
	})

	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Application Criticality Distribution"),
		piechart.WithShowData(true),
	)
	for _, bucket := range snapshot.Business.Criticality {
		chart.LabelAndIntValue(bucket.Value, uint64(bucket.Count))
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

func (w *MarkdownWriter) writeRiskAnalysis(md *markdown.Markdown, snapshot *analytics.Snapshot) {
	if len(snapshot.Business.RiskLevels) == 0 {
		return
	}

	md.H2("Risk Analysis")
	md.PlainText("")
	md.PlainTextf("- **Applications with high/critical risk:** %d", snapshot.Business.HighRiskCount)
	md.PlainTextf("- **Percentage of high-risk applications:** %s", pct(snapshot.Business.HighRiskPercent))
	md.PlainText("")

	switch {
	case snapshot.Business.HighRiskPercent >= 50:
		md.Cautionf("More than half of the portfolio (%s) carries high or critical risk.", pct(snapshot.Business.HighRiskPercent))
	case snapshot.Business.HighRiskCount > 0:
		md.Warningf("%d application(s) carry high or critical risk.", snapshot.Business.HighRiskCount)
	default:
		md.Tip("No high-risk applications detected.")
	}
	md.PlainText("")
}

func (w *MarkdownWriter) writeRecommendations(md *markdown.Markdown, snapshot *analytics.Snapshot) {
	md.H2("Recommendations")
	md.PlainText("")
	md.OrderedList(
		"Check columns with high percentage of missing data",
		"Establish rules for filling mandatory fields",
		"Regularly monitor data quality",
		"Create data cleaning process",
		"Improve security of applications with low scores",
		"Optimize performance of problematic applications",
		"Develop risk reduction plan for high-risk applications",
	)
	md.PlainText("")
}

func (w *MarkdownWriter) writeFooter(md *markdown.Markdown, snapshot *analytics.Snapshot) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Created: %s*", snapshot.GeneratedAt.Format("2006-01-02 15:04:05"))
}
