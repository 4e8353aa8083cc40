package analytics

import (
	"time"

	"leanixcli/internal/quality"
)

// Snapshot is the complete result of one analysis run. Reporters, the
// visualizer and the dashboard all consume the same snapshot so every output
// surface shows the same numbers.
type Snapshot struct {
	GeneratedAt time.Time          `json:"generated_at"`
	Source      string             `json:"source"`
	Quality     quality.Score      `json:"quality"`
	Overview    OverviewSummary    `json:"overview"`
	Business    BusinessSummary    `json:"business"`
	Security    SecuritySummary    `json:"security"`
	Performance PerformanceSummary `json:"performance"`
	Correlation CorrelationMatrix  `json:"correlation"`
}

// NoData reports whether the snapshot was computed from an empty table.
func (s *Snapshot) NoData() bool {
	return s.Overview.NoData
}
