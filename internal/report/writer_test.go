package report

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leanixcli/internal/analytics"
	"leanixcli/internal/quality"
	"leanixcli/pkg/contracts/domain"
)

func testSnapshot() *analytics.Snapshot {
	return &analytics.Snapshot{
		GeneratedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Source:      "portfolio.xlsx",
		Quality: quality.Score{
			Completeness: 98.5,
			Accuracy:     100,
			Consistency:  90,
			Overall:      96.2,
			Label:        "Excellent",
			TotalCells:   44,
			MissingCells: 1,
		},
		Overview: analytics.OverviewSummary{
			Records:       4,
			Columns:       len(domain.Columns),
			MissingValues: 1,
			ColumnMissing: []analytics.ColumnMissing{
				{Column: domain.ColumnDepartment, Missing: 1, Percent: 25},
			},
		},
		Business: analytics.BusinessSummary{
			Criticality: []analytics.Bucket{
				{Value: "High", Count: 2, Percent: 50},
				{Value: "Low", Count: 2, Percent: 50},
			},
			TotalMaintenanceCost: 42000,
			TotalDevelopmentCost: 25000,
			TotalCost:            67000,
			TopExpensive: []analytics.CostEntry{
				{Name: "ERP", TotalCost: 35000},
				{Name: "CRM", TotalCost: 30000},
			},
			RiskLevels:      []analytics.Bucket{{Value: "High", Count: 1, Percent: 25}},
			HighRiskCount:   1,
			HighRiskPercent: 25,
		},
		Security: analytics.SecuritySummary{
			AverageSecurityScore:    75,
			LowSecurityCount:        2,
			LowSecurityPercent:      50,
			LowSecurityCutoff:       80,
			NonCompliantCount:       1,
			NonCompliantPercent:     25,
			AverageVulnerabilities:  5,
			HighVulnerabilityCount:  1,
			HighVulnerabilityCutoff: 5,
		},
		Performance: analytics.PerformanceSummary{
			AveragePerformanceScore: 76.7,
			LowPerformanceCount:     1,
			LowPerformancePercent:   25,
			LowPerformanceCutoff:    70,
			AverageAvailability:     98.97,
			LowAvailabilityCount:    1,
			LowAvailabilityCutoff:   99,
			Departments:             []analytics.Bucket{{Value: "IT", Count: 2, Percent: 50}},
		},
	}
}

func noDataSnapshot() *analytics.Snapshot {
	return &analytics.Snapshot{
		GeneratedAt: time.Now(),
		Source:      "empty.xlsx",
		Quality:     quality.Score{Label: "No Data", NoData: true},
		Overview:    analytics.OverviewSummary{Columns: len(domain.Columns), NoData: true},
	}
}

func TestNewWriter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format  Format
		wantErr bool
	}{
		{format: FormatConsole},
		{format: FormatMarkdown},
		{format: FormatJSON},
		{format: Format("yaml"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			t.Parallel()
			w, err := NewWriter(tt.format, &bytes.Buffer{})
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, w)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, w)
		})
	}
}

func TestConsoleWriter(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	w := NewConsoleWriter(&buf)

	n, err := w.Write(testSnapshot())
	require.NoError(t, err)
	assert.Equal(t, buf.Len(), n)

	out := buf.String()
	assert.Contains(t, out, "LEANIX PORTFOLIO ANALYSIS")
	assert.Contains(t, out, "BASIC DATA INFORMATION")
	assert.Contains(t, out, "Number of records: 4")
	assert.Contains(t, out, "Completeness: 98.5%")
	assert.Contains(t, out, "Total costs:             $67000.00")
	assert.Contains(t, out, "Average security score: 75.0/100")
	assert.Contains(t, out, "Average availability: 98.97%")

	// Criticality, top expensive and department breakdowns render as tables
	for _, cell := range []string{
		"Criticality", "Share",
		"Rank", "Application", "Total Cost", "ERP", "$35000.00",
		"Department", "Applications", "IT",
	} {
		assert.Contains(t, out, cell)
	}
}

func TestConsoleWriterNoData(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	w := NewConsoleWriter(&buf)

	_, err := w.Write(noDataSnapshot())
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "No application records found")
}

func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewMarkdownWriter(&buf)

	_, err := w.Write(testSnapshot())
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "# Comprehensive LeanIX Data Analysis Report")
	assert.Contains(t, out, "## Main Metrics")
	assert.Contains(t, out, "## Business Metrics")
	assert.Contains(t, out, "$67000.00")
	assert.Contains(t, out, "## Column Analysis")
	assert.Contains(t, out, "Owner_Department")
	assert.Contains(t, out, "```mermaid")
	assert.Contains(t, out, "## Recommendations")
	assert.Contains(t, out, "Develop risk reduction plan for high-risk applications")
	assert.Contains(t, out, "**Analysis Date:** 2025-06-01 12:00:00")
}

func TestMarkdownWriterNoData(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewMarkdownWriter(&buf)

	_, err := w.Write(noDataSnapshot())
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "No application records were found")
}

func TestJSONWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewJSONWriter(&buf)

	snapshot := testSnapshot()
	_, err := w.Write(snapshot)
	require.NoError(t, err)

	var decoded analytics.Snapshot
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, snapshot.Source, decoded.Source)
	assert.InDelta(t, snapshot.Business.TotalCost, decoded.Business.TotalCost, 1e-9)
	assert.Equal(t, snapshot.Quality.Label, decoded.Quality.Label)
}
