package analytics

import (
	"context"
	"log/slog"
	"sort"

	"leanixcli/internal/config"
	"leanixcli/pkg/contracts/domain"
)

// Analyzer computes the business, security and performance aggregates for a
// portfolio. All methods are pure functions of the input table; the analyzer
// itself only carries thresholds and a logger.
type Analyzer struct {
	cfg    config.AnalysisConfig
	logger *slog.Logger
}

// NewAnalyzer creates an analyzer with the given thresholds.
func NewAnalyzer(cfg config.AnalysisConfig, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.TopExpensiveCount <= 0 {
		cfg.TopExpensiveCount = 5
	}
	return &Analyzer{cfg: cfg, logger: logger}
}

// Overview computes the basic table statistics.
func (a *Analyzer) Overview(ctx context.Context, p *domain.Portfolio) OverviewSummary {
	if p == nil || p.RecordCount() == 0 {
		return OverviewSummary{Columns: len(domain.Columns), NoData: true}
	}

	summary := OverviewSummary{
		Records:          p.RecordCount(),
		Columns:          p.ColumnCount(),
		MissingValues:    p.MissingCells(),
		DuplicateRecords: p.DuplicateRecords(),
	}

	missing := p.MissingByColumn()
	for _, col := range domain.Columns {
		summary.ColumnMissing = append(summary.ColumnMissing, ColumnMissing{
			Column:  col,
			Missing: missing[col],
			Percent: percent(missing[col], summary.Records),
		})
	}

	a.logger.InfoContext(ctx, "computed portfolio overview",
		slog.Int("records", summary.Records),
		slog.Int("missing_values", summary.MissingValues),
		slog.Int("duplicate_records", summary.DuplicateRecords))

	return summary
}

// Business computes criticality distribution, cost totals, the most
// expensive applications and the high-risk share.
func (a *Analyzer) Business(ctx context.Context, p *domain.Portfolio) BusinessSummary {
	if p == nil || p.RecordCount() == 0 {
		return BusinessSummary{NoData: true}
	}

	summary := BusinessSummary{
		Criticality: distribution(p.Apps, func(app domain.Application) string { return app.Criticality }),
		RiskLevels:  distribution(p.Apps, func(app domain.Application) string { return app.RiskLevel }),
	}

	var entries []CostEntry
	for _, app := range p.Apps {
		if app.MaintenanceCost != nil {
			summary.TotalMaintenanceCost += *app.MaintenanceCost
		}
		if app.DevelopmentCost != nil {
			summary.TotalDevelopmentCost += *app.DevelopmentCost
		}
		if total, ok := app.TotalCost(); ok {
			entries = append(entries, CostEntry{Name: app.Name, TotalCost: total})
		}
	}
	summary.TotalCost = summary.TotalMaintenanceCost + summary.TotalDevelopmentCost

	var maintenance []float64
	for _, app := range p.Apps {
		if app.MaintenanceCost != nil {
			maintenance = append(maintenance, *app.MaintenanceCost)
		}
	}
	summary.CostHistogram = histogram(maintenance, a.cfg.HistogramBins)

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].TotalCost > entries[j].TotalCost
	})
	if len(entries) > a.cfg.TopExpensiveCount {
		entries = entries[:a.cfg.TopExpensiveCount]
	}
	summary.TopExpensive = entries

	for _, bucket := range summary.RiskLevels {
		if bucket.Value == "High" || bucket.Value == "Critical" {
			summary.HighRiskCount += bucket.Count
		}
	}
	summary.HighRiskPercent = percent(summary.HighRiskCount, p.RecordCount())

	a.logger.InfoContext(ctx, "computed business analysis",
		slog.Float64("total_cost", summary.TotalCost),
		slog.Int("high_risk_count", summary.HighRiskCount))

	return summary
}

// Security computes security score, compliance and vulnerability aggregates.
func (a *Analyzer) Security(ctx context.Context, p *domain.Portfolio) SecuritySummary {
	if p == nil || p.RecordCount() == 0 {
		return SecuritySummary{NoData: true}
	}

	summary := SecuritySummary{
		LowSecurityCutoff:       a.cfg.LowSecurityCutoff,
		HighVulnerabilityCutoff: a.cfg.HighVulnerabilityCount,
		Compliance:              distribution(p.Apps, func(app domain.Application) string { return app.ComplianceStatus }),
	}

	var securitySum float64
	var securityN int
	var vulnSum float64
	var vulnN int

	for _, app := range p.Apps {
		if app.SecurityScore != nil {
			securitySum += *app.SecurityScore
			securityN++
			if *app.SecurityScore < a.cfg.LowSecurityCutoff {
				summary.LowSecurityCount++
			}
		}
		if app.VulnerabilityCount != nil {
			vulnSum += float64(*app.VulnerabilityCount)
			vulnN++
			if *app.VulnerabilityCount > a.cfg.HighVulnerabilityCount {
				summary.HighVulnerabilityCount++
			}
		}
	}

	summary.AverageSecurityScore = mean(securitySum, securityN)
	summary.AverageVulnerabilities = mean(vulnSum, vulnN)
	summary.LowSecurityPercent = percent(summary.LowSecurityCount, p.RecordCount())

	for _, bucket := range summary.Compliance {
		if bucket.Value == "Non-Compliant" {
			summary.NonCompliantCount += bucket.Count
		}
	}
	summary.NonCompliantPercent = percent(summary.NonCompliantCount, p.RecordCount())

	a.logger.InfoContext(ctx, "computed security analysis",
		slog.Float64("average_security_score", summary.AverageSecurityScore),
		slog.Int("low_security_count", summary.LowSecurityCount))

	return summary
}

// Performance computes performance score, availability and department
// aggregates.
func (a *Analyzer) Performance(ctx context.Context, p *domain.Portfolio) PerformanceSummary {
	if p == nil || p.RecordCount() == 0 {
		return PerformanceSummary{NoData: true}
	}

	summary := PerformanceSummary{
		LowPerformanceCutoff:  a.cfg.LowPerformanceCutoff,
		LowAvailabilityCutoff: a.cfg.LowAvailabilityCutoff,
		Departments:           distribution(p.Apps, func(app domain.Application) string { return app.Department }),
	}

	var perfSum, availSum float64
	var perfN, availN int

	for _, app := range p.Apps {
		if app.PerformanceScore != nil {
			perfSum += *app.PerformanceScore
			perfN++
			if *app.PerformanceScore < a.cfg.LowPerformanceCutoff {
				summary.LowPerformanceCount++
			}
		}
		if app.Availability != nil {
			availSum += *app.Availability
			availN++
			if *app.Availability < a.cfg.LowAvailabilityCutoff {
				summary.LowAvailabilityCount++
			}
		}
	}

	summary.AveragePerformanceScore = mean(perfSum, perfN)
	summary.AverageAvailability = mean(availSum, availN)
	summary.LowPerformancePercent = percent(summary.LowPerformanceCount, p.RecordCount())

	a.logger.InfoContext(ctx, "computed performance analysis",
		slog.Float64("average_performance_score", summary.AveragePerformanceScore),
		slog.Int("low_performance_count", summary.LowPerformanceCount))

	return summary
}

// distribution builds a categorical distribution ignoring missing values,
// ordered by descending count then value for determinism.
func distribution(apps []domain.Application, key func(domain.Application) string) []Bucket {
	counts := make(map[string]int)
	for _, app := range apps {
		v := key(app)
		if v == "" {
			continue
		}
		counts[v]++
	}

	buckets := make([]Bucket, 0, len(counts))
	for value, count := range counts {
		buckets = append(buckets, Bucket{
			Value:   value,
			Count:   count,
			Percent: percent(count, len(apps)),
		})
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].Count == buckets[j].Count {
			return buckets[i].Value < buckets[j].Value
		}
		return buckets[i].Count > buckets[j].Count
	})
	return buckets
}

func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

func mean(sum float64, n int) float64 {
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// histogram splits the values into bins of equal width between the observed
// minimum and maximum. The last bin is closed on both ends.
func histogram(values []float64, bins int) []HistogramBin {
	if len(values) == 0 || bins <= 0 {
		return nil
	}

	low, high := values[0], values[0]
	for _, v := range values[1:] {
		if v < low {
			low = v
		}
		if v > high {
			high = v
		}
	}

	if low == high {
		return []HistogramBin{{Low: low, High: high, Count: len(values)}}
	}

	width := (high - low) / float64(bins)
	result := make([]HistogramBin, bins)
	for i := range result {
		result[i].Low = low + float64(i)*width
		result[i].High = low + float64(i+1)*width
	}
	result[bins-1].High = high

	for _, v := range values {
		idx := int((v - low) / width)
		if idx >= bins {
			idx = bins - 1
		}
		result[idx].Count++
	}
	return result
}
