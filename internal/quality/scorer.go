package quality

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"leanixcli/pkg/contracts/domain"
)

// Label thresholds for the overall quality classification.
const (
	excellentThreshold = 95.0
	goodThreshold      = 85.0
	fairThreshold      = 70.0
)

// Score holds the three data-quality percentages and the derived label.
type Score struct {
	Completeness float64 `json:"completeness"`
	Accuracy     float64 `json:"accuracy"`
	Consistency  float64 `json:"consistency"`
	Overall      float64 `json:"overall"`
	Label        string  `json:"label"`

	TotalCells   int  `json:"total_cells"`
	MissingCells int  `json:"missing_cells"`
	InvalidRows  int  `json:"invalid_rows"`
	NoData       bool `json:"no_data"`
}

// Scorer computes completeness, accuracy and consistency for a portfolio.
type Scorer struct {
	logger   *slog.Logger
	validate *validator.Validate
}

// NewScorer creates a quality scorer.
func NewScorer(logger *slog.Logger) *Scorer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scorer{
		logger:   logger,
		validate: validator.New(),
	}
}

// Score computes the quality score for the portfolio. An empty table yields
// a defined no-data result rather than an error.
func (s *Scorer) Score(ctx context.Context, p *domain.Portfolio) Score {
	if p == nil || p.RecordCount() == 0 {
		return Score{Label: "No Data", NoData: true}
	}

	score := Score{
		TotalCells: p.TotalCells(),
	}

	score.MissingCells = p.MissingCells()
	score.Completeness = percentage(score.TotalCells-score.MissingCells, score.TotalCells)
	score.Accuracy, score.InvalidRows = s.accuracy(ctx, p)
	score.Consistency = s.consistency(p)

	score.Overall = (score.Completeness + score.Accuracy + score.Consistency) / 3
	score.Label = labelFor(score.Overall)

	s.logger.InfoContext(ctx, "computed data quality score",
		slog.Float64("completeness", score.Completeness),
		slog.Float64("accuracy", score.Accuracy),
		slog.Float64("consistency", score.Consistency),
		slog.String("label", score.Label))

	return score
}

// accuracy is the fraction of rows passing the type and range constraints
// declared on the Application record.
func (s *Scorer) accuracy(ctx context.Context, p *domain.Portfolio) (float64, int) {
	var invalid int
	for i, app := range p.Apps {
		if err := s.validate.StructCtx(ctx, app); err != nil {
			invalid++
			s.logger.DebugContext(ctx, "row failed accuracy checks",
				slog.Int("row", i),
				slog.String("application", app.Name),
				slog.String("error", err.Error()))
		}
	}
	return percentage(p.RecordCount()-invalid, p.RecordCount()), invalid
}

// consistency is the fraction of columns with no conflicting values across
// rows that share the same application name.
func (s *Scorer) consistency(p *domain.Portfolio) float64 {
	byName := make(map[string][]domain.Application)
	for _, app := range p.Apps {
		name := strings.TrimSpace(app.Name)
		if name == "" {
			continue
		}
		byName[name] = append(byName[name], app)
	}

	conflicted := make(map[domain.Column]bool)
	for _, group := range byName {
		if len(group) < 2 {
			continue
		}
		for _, col := range domain.Columns {
			if col == domain.ColumnName || conflicted[col] {
				continue
			}
			if columnConflicts(group, col) {
				conflicted[col] = true
			}
		}
	}

	// Name column never conflicts with itself
	checked := len(domain.Columns) - 1
	return percentage(checked-len(conflicted), checked)
}

// columnConflicts reports whether duplicate-keyed rows disagree on a column.
// Missing cells do not count as disagreement.
func columnConflicts(group []domain.Application, col domain.Column) bool {
	var seen string
	var have bool
	for _, app := range group {
		if app.Missing(col) {
			continue
		}
		key := cellValue(app, col)
		if have && key != seen {
			return true
		}
		seen = key
		have = true
	}
	return false
}

func cellValue(app domain.Application, col domain.Column) string {
	switch col {
	case domain.ColumnCriticality:
		return app.Criticality
	case domain.ColumnRiskLevel:
		return app.RiskLevel
	case domain.ColumnComplianceStatus:
		return app.ComplianceStatus
	case domain.ColumnDepartment:
		return app.Department
	default:
		if v, ok := app.Numeric(col); ok {
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
		return ""
	}
}

func labelFor(overall float64) string {
	switch {
	case overall >= excellentThreshold:
		return "Excellent"
	case overall >= goodThreshold:
		return "Good"
	case overall >= fairThreshold:
		return "Fair"
	default:
		return "Poor"
	}
}

func percentage(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}
