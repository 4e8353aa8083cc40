package analytics

import (
	"leanixcli/pkg/contracts/domain"
)

// Bucket is one slice of a categorical distribution.
type Bucket struct {
	Value   string  `json:"value"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// HistogramBin is one interval of a numeric distribution.
type HistogramBin struct {
	Low   float64 `json:"low"`
	High  float64 `json:"high"`
	Count int     `json:"count"`
}

// CostEntry is one application in the most-expensive ranking.
type CostEntry struct {
	Name      string  `json:"name"`
	TotalCost float64 `json:"total_cost"`
}

// OverviewSummary holds basic table statistics.
type OverviewSummary struct {
	Records          int             `json:"records"`
	Columns          int             `json:"columns"`
	MissingValues    int             `json:"missing_values"`
	DuplicateRecords int             `json:"duplicate_records"`
	ColumnMissing    []ColumnMissing `json:"column_missing"`
	NoData           bool            `json:"no_data"`
}

// ColumnMissing reports missingness for a single column.
type ColumnMissing struct {
	Column  domain.Column `json:"column"`
	Missing int           `json:"missing"`
	Percent float64       `json:"percent"`
}

// BusinessSummary holds criticality, cost and risk aggregates.
type BusinessSummary struct {
	Criticality []Bucket `json:"criticality"`

	TotalMaintenanceCost float64 `json:"total_maintenance_cost"`
	TotalDevelopmentCost float64 `json:"total_development_cost"`
	TotalCost            float64 `json:"total_cost"`

	TopExpensive  []CostEntry    `json:"top_expensive"`
	CostHistogram []HistogramBin `json:"cost_histogram"`

	RiskLevels      []Bucket `json:"risk_levels"`
	HighRiskCount   int      `json:"high_risk_count"`
	HighRiskPercent float64  `json:"high_risk_percent"`

	NoData bool `json:"no_data"`
}

// SecuritySummary holds security score, compliance and vulnerability aggregates.
type SecuritySummary struct {
	AverageSecurityScore float64 `json:"average_security_score"`
	LowSecurityCount     int     `json:"low_security_count"`
	LowSecurityPercent   float64 `json:"low_security_percent"`
	LowSecurityCutoff    float64 `json:"low_security_cutoff"`

	Compliance          []Bucket `json:"compliance"`
	NonCompliantCount   int      `json:"non_compliant_count"`
	NonCompliantPercent float64  `json:"non_compliant_percent"`

	AverageVulnerabilities  float64 `json:"average_vulnerabilities"`
	HighVulnerabilityCount  int     `json:"high_vulnerability_count"`
	HighVulnerabilityCutoff int64   `json:"high_vulnerability_cutoff"`

	NoData bool `json:"no_data"`
}

// PerformanceSummary holds performance score and availability aggregates.
type PerformanceSummary struct {
	AveragePerformanceScore float64 `json:"average_performance_score"`
	LowPerformanceCount     int     `json:"low_performance_count"`
	LowPerformancePercent   float64 `json:"low_performance_percent"`
	LowPerformanceCutoff    float64 `json:"low_performance_cutoff"`

	AverageAvailability   float64 `json:"average_availability"`
	LowAvailabilityCount  int     `json:"low_availability_count"`
	LowAvailabilityCutoff float64 `json:"low_availability_cutoff"`

	Departments []Bucket `json:"departments"`

	NoData bool `json:"no_data"`
}

// CorrelationMatrix holds a symmetric Pearson correlation matrix across the
// numeric columns, computed pairwise-complete.
type CorrelationMatrix struct {
	Columns []domain.Column `json:"columns"`
	Values  [][]float64     `json:"values"`
	NoData  bool            `json:"no_data"`
}
