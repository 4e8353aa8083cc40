package chart

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leanixcli/internal/analytics"
	"leanixcli/internal/quality"
	"leanixcli/pkg/contracts/domain"
)

func testSnapshot() *analytics.Snapshot {
	return &analytics.Snapshot{
		GeneratedAt: time.Now(),
		Source:      "portfolio.xlsx",
		Quality:     quality.Score{Label: "Good"},
		Overview:    analytics.OverviewSummary{Records: 3, Columns: len(domain.Columns)},
		Business: analytics.BusinessSummary{
			CostHistogram: []analytics.HistogramBin{
				{Low: 0, High: 10000, Count: 2},
				{Low: 10000, High: 20000, Count: 1},
			},
		},
		Performance: analytics.PerformanceSummary{
			Departments: []analytics.Bucket{
				{Value: "IT", Count: 2, Percent: 66.7},
				{Value: "Sales", Count: 1, Percent: 33.3},
			},
		},
		Correlation: analytics.CorrelationMatrix{
			Columns: domain.NumericColumns,
			Values: [][]float64{
				{1, 0.5, -0.2, 0},
				{0.5, 1, 0.1, 0.3},
				{-0.2, 0.1, 1, 0.9},
				{0, 0.3, 0.9, 1},
			},
		},
	}
}

func TestGenerate(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "charts")
	g := NewGenerator(dir, nil)

	files, err := g.Generate(context.Background(), testSnapshot())
	require.NoError(t, err)
	require.Len(t, files, 3)

	for _, name := range []string{CostDistributionFile, CorrelationMatrixFile, DepartmentAnalysisFile} {
		path := filepath.Join(dir, name)
		assert.Contains(t, files, path)

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(content), "<!DOCTYPE html>")
	}
}

func TestGenerateChartContents(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	g := NewGenerator(dir, nil)

	_, err := g.Generate(context.Background(), testSnapshot())
	require.NoError(t, err)

	cost, err := os.ReadFile(filepath.Join(dir, CostDistributionFile))
	require.NoError(t, err)
	assert.Contains(t, string(cost), "xychart-beta")
	assert.Contains(t, string(cost), "Maintenance Cost Distribution")

	departments, err := os.ReadFile(filepath.Join(dir, DepartmentAnalysisFile))
	require.NoError(t, err)
	assert.Contains(t, string(departments), "Applications by Department")
	assert.Contains(t, string(departments), "IT")

	correlation, err := os.ReadFile(filepath.Join(dir, CorrelationMatrixFile))
	require.NoError(t, err)
	assert.Contains(t, string(correlation), "Numeric Column Correlation")
	assert.Contains(t, string(correlation), "Maintenance_Cost")
	assert.Contains(t, string(correlation), "0.50")
}

func TestGenerateNoData(t *testing.T) {
	t.Parallel()

	g := NewGenerator(t.TempDir(), nil)

	_, err := g.Generate(context.Background(), &analytics.Snapshot{
		Overview: analytics.OverviewSummary{NoData: true},
	})
	assert.Error(t, err)

	_, err = g.Generate(context.Background(), nil)
	assert.Error(t, err)
}

func TestHeatColorBounds(t *testing.T) {
	t.Parallel()

	assert.Equal(t, heatColor(1), heatColor(2))
	assert.Equal(t, heatColor(-1), heatColor(-5))
	assert.NotEqual(t, heatColor(0.9), heatColor(-0.9))
}

func TestCompactMoney(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "$500", compactMoney(500))
	assert.Equal(t, "$12k", compactMoney(12000))
	assert.Equal(t, "$1.5M", compactMoney(1_500_000))
}
