package analytics

import (
	"context"
	"log/slog"
	"math"

	"leanixcli/pkg/contracts/domain"
)

// Correlation computes a Pearson correlation matrix over the numeric
// columns. Pairs are computed pairwise-complete: a row contributes to a pair
// only when both cells are present.
func (a *Analyzer) Correlation(ctx context.Context, p *domain.Portfolio) CorrelationMatrix {
	if p == nil || p.RecordCount() == 0 {
		return CorrelationMatrix{NoData: true}
	}

	cols := domain.NumericColumns
	n := len(cols)

	matrix := CorrelationMatrix{
		Columns: cols,
		Values:  make([][]float64, n),
	}
	for i := range matrix.Values {
		matrix.Values[i] = make([]float64, n)
		matrix.Values[i][i] = 1
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			r := pearson(p.Apps, cols[i], cols[j])
			matrix.Values[i][j] = r
			matrix.Values[j][i] = r
		}
	}

	a.logger.DebugContext(ctx, "computed correlation matrix",
		slog.Int("columns", n))

	return matrix
}

// pearson computes the Pearson correlation coefficient for two columns over
// rows where both values are present. Returns 0 for degenerate inputs.
func pearson(apps []domain.Application, x, y domain.Column) float64 {
	var n, sumX, sumY, sumXX, sumYY, sumXY float64

	for _, app := range apps {
		xv, okX := app.Numeric(x)
		yv, okY := app.Numeric(y)
		if !okX || !okY {
			continue
		}
		n++
		sumX += xv
		sumY += yv
		sumXX += xv * xv
		sumYY += yv * yv
		sumXY += xv * yv
	}

	if n < 2 {
		return 0
	}

	denom := math.Sqrt((n*sumXX - sumX*sumX) * (n*sumYY - sumY*sumY))
	if denom == 0 {
		return 0
	}

	r := (n*sumXY - sumX*sumY) / denom
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	return r
}
