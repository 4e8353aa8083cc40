package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"leanixcli/internal/analytics"
)

// ConsoleWriter outputs a human-readable analysis report to the terminal
// with ANSI color for section headers and warnings.
type ConsoleWriter struct {
	baseWriter

	header  *color.Color
	section *color.Color
	warn    *color.Color
	good    *color.Color
}

// NewConsoleWriter creates a ConsoleWriter that outputs to the given writer.
func NewConsoleWriter(output io.Writer) *ConsoleWriter {
	return &ConsoleWriter{
		baseWriter: newBaseWriter(output),
		header:     color.New(color.FgCyan, color.Bold),
		section:    color.New(color.FgYellow, color.Bold),
		warn:       color.New(color.FgRed),
		good:       color.New(color.FgGreen),
	}
}

// Write outputs the full report to the console.
func (w *ConsoleWriter) Write(snapshot *analytics.Snapshot) (int, error) {
	var b strings.Builder

	w.writeTitle(&b, snapshot)

	if snapshot.NoData() {
		b.WriteString(w.warn.Sprint("No application records found in the source file.\n"))
		return w.flush(b.String())
	}

	w.writeOverview(&b, snapshot)
	w.writeQuality(&b, snapshot)
	w.writeBusiness(&b, snapshot)
	w.writeSecurity(&b, snapshot)
	w.writePerformance(&b, snapshot)

	return w.flush(b.String())
}

func (w *ConsoleWriter) flush(s string) (int, error) {
	return io.WriteString(w.output, s)
}

func (w *ConsoleWriter) writeTitle(b *strings.Builder, snapshot *analytics.Snapshot) {
	rule := strings.Repeat("=", 60)
	b.WriteString(w.header.Sprintln(rule))
	b.WriteString(w.header.Sprintln("LEANIX PORTFOLIO ANALYSIS"))
	b.WriteString(w.header.Sprintln(rule))
	fmt.Fprintf(b, "Source: %s\n", snapshot.Source)
	fmt.Fprintf(b, "Generated: %s\n\n", snapshot.GeneratedAt.Format("2006-01-02 15:04:05"))
}

func (w *ConsoleWriter) writeOverview(b *strings.Builder, snapshot *analytics.Snapshot) {
	w.sectionHeader(b, "BASIC DATA INFORMATION")
	fmt.Fprintf(b, "Number of records: %d\n", snapshot.Overview.Records)
	fmt.Fprintf(b, "Number of columns: %d\n", snapshot.Overview.Columns)
	fmt.Fprintf(b, "Missing values: %d\n", snapshot.Overview.MissingValues)
	fmt.Fprintf(b, "Duplicate records: %d\n", snapshot.Overview.DuplicateRecords)

	for _, cm := range snapshot.Overview.ColumnMissing {
		if cm.Missing == 0 {
			continue
		}
		fmt.Fprintf(b, "  %-22s missing %d (%s)\n", cm.Column+":", cm.Missing, pct(cm.Percent))
	}
	b.WriteString("\n")
}

func (w *ConsoleWriter) writeQuality(b *strings.Builder, snapshot *analytics.Snapshot) {
	w.sectionHeader(b, "DATA QUALITY")
	fmt.Fprintf(b, "Completeness: %s\n", pct(snapshot.Quality.Completeness))
	fmt.Fprintf(b, "Accuracy:     %s\n", pct(snapshot.Quality.Accuracy))
	fmt.Fprintf(b, "Consistency:  %s\n", pct(snapshot.Quality.Consistency))

	label := snapshot.Quality.Label
	line := fmt.Sprintf("Overall:      %s (%s)\n", pct(snapshot.Quality.Overall), label)
	if label == "Poor" || label == "Fair" {
		b.WriteString(w.warn.Sprint(line))
	} else {
		b.WriteString(w.good.Sprint(line))
	}
	b.WriteString("\n")
}

func (w *ConsoleWriter) writeBusiness(b *strings.Builder, snapshot *analytics.Snapshot) {
	w.sectionHeader(b, "BUSINESS ANALYSIS")

	if len(snapshot.Business.Criticality) > 0 {
		b.WriteString("Criticality distribution:\n")
		table := tablewriter.NewWriter(b)
		table.Header("Criticality", "Applications", "Share")
		for _, bucket := range snapshot.Business.Criticality {
			table.Append([]string{bucket.Value, strconv.Itoa(bucket.Count), pct(bucket.Percent)})
		}
		table.Render()
	}

	fmt.Fprintf(b, "Total maintenance costs: %s\n", money(snapshot.Business.TotalMaintenanceCost))
	fmt.Fprintf(b, "Total development costs: %s\n", money(snapshot.Business.TotalDevelopmentCost))
	fmt.Fprintf(b, "Total costs:             %s\n", money(snapshot.Business.TotalCost))

	if len(snapshot.Business.TopExpensive) > 0 {
		fmt.Fprintf(b, "Top %d most expensive applications:\n", len(snapshot.Business.TopExpensive))
		table := tablewriter.NewWriter(b)
		table.Header("Rank", "Application", "Total Cost")
		for i, entry := range snapshot.Business.TopExpensive {
			table.Append([]string{strconv.Itoa(i + 1), entry.Name, money(entry.TotalCost)})
		}
		table.Render()
	}

	if snapshot.Business.HighRiskCount > 0 {
		b.WriteString(w.warn.Sprintf(
			"High/critical risk applications: %d (%s)\n",
			snapshot.Business.HighRiskCount, pct(snapshot.Business.HighRiskPercent),
		))
	} else {
		b.WriteString(w.good.Sprint("No high-risk applications detected.\n"))
	}
	b.WriteString("\n")
}

func (w *ConsoleWriter) writeSecurity(b *strings.Builder, snapshot *analytics.Snapshot) {
	w.sectionHeader(b, "SECURITY ANALYSIS")
	fmt.Fprintf(b, "Average security score: %.1f/100\n", snapshot.Security.AverageSecurityScore)
	fmt.Fprintf(b, "Average vulnerabilities per application: %.1f\n", snapshot.Security.AverageVulnerabilities)

	if snapshot.Security.LowSecurityCount > 0 {
		b.WriteString(w.warn.Sprintf(
			"Applications with security score below %.0f: %d (%s)\n",
			snapshot.Security.LowSecurityCutoff,
			snapshot.Security.LowSecurityCount,
			pct(snapshot.Security.LowSecurityPercent),
		))
	}
	if snapshot.Security.HighVulnerabilityCount > 0 {
		b.WriteString(w.warn.Sprintf(
			"Applications with more than %d vulnerabilities: %d\n",
			snapshot.Security.HighVulnerabilityCutoff,
			snapshot.Security.HighVulnerabilityCount,
		))
	}
	if snapshot.Security.NonCompliantCount > 0 {
		b.WriteString(w.warn.Sprintf(
			"Non-compliant applications: %d (%s)\n",
			snapshot.Security.NonCompliantCount,
			pct(snapshot.Security.NonCompliantPercent),
		))
	}
	b.WriteString("\n")
}

func (w *ConsoleWriter) writePerformance(b *strings.Builder, snapshot *analytics.Snapshot) {
	w.sectionHeader(b, "PERFORMANCE ANALYSIS")
	fmt.Fprintf(b, "Average performance score: %.1f/100\n", snapshot.Performance.AveragePerformanceScore)
	fmt.Fprintf(b, "Average availability: %.2f%%\n", snapshot.Performance.AverageAvailability)

	if snapshot.Performance.LowPerformanceCount > 0 {
		b.WriteString(w.warn.Sprintf(
			"Applications with performance score below %.0f: %d (%s)\n",
			snapshot.Performance.LowPerformanceCutoff,
			snapshot.Performance.LowPerformanceCount,
			pct(snapshot.Performance.LowPerformancePercent),
		))
	}
	if snapshot.Performance.LowAvailabilityCount > 0 {
		b.WriteString(w.warn.Sprintf(
			"Applications with availability below %.0f%%: %d\n",
			snapshot.Performance.LowAvailabilityCutoff,
			snapshot.Performance.LowAvailabilityCount,
		))
	}

	if len(snapshot.Performance.Departments) > 0 {
		b.WriteString("Applications per department:\n")
		table := tablewriter.NewWriter(b)
		table.Header("Department", "Applications")
		for _, bucket := range snapshot.Performance.Departments {
			table.Append([]string{bucket.Value, strconv.Itoa(bucket.Count)})
		}
		table.Render()
	}
	b.WriteString("\n")
}

func (w *ConsoleWriter) sectionHeader(b *strings.Builder, title string) {
	b.WriteString(w.section.Sprintln(title))
	b.WriteString(strings.Repeat("-", len(title)) + "\n")
}
