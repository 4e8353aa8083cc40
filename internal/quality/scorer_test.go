package quality

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"leanixcli/pkg/contracts/domain"
)

func validApp(name string) domain.Application {
	return domain.Application{
		Name:               name,
		Criticality:        "High",
		MaintenanceCost:    domain.Float64(1000),
		DevelopmentCost:    domain.Float64(2000),
		RiskLevel:          "Medium",
		SecurityScore:      domain.Float64(85),
		ComplianceStatus:   "Compliant",
		VulnerabilityCount: domain.Int64(2),
		PerformanceScore:   domain.Float64(90),
		Availability:       domain.Float64(99.9),
		Department:         "IT",
	}
}

func TestScoreEmptyPortfolio(t *testing.T) {
	t.Parallel()

	scorer := NewScorer(nil)

	tests := []struct {
		name      string
		portfolio *domain.Portfolio
	}{
		{name: "nil portfolio", portfolio: nil},
		{name: "zero records", portfolio: &domain.Portfolio{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			score := scorer.Score(context.Background(), tt.portfolio)
			assert.True(t, score.NoData)
			assert.Equal(t, "No Data", score.Label)
			assert.Zero(t, score.Overall)
		})
	}
}

func TestScoreCompleteness(t *testing.T) {
	t.Parallel()

	scorer := NewScorer(nil)

	t.Run("fully populated table", func(t *testing.T) {
		t.Parallel()
		p := &domain.Portfolio{Apps: []domain.Application{validApp("CRM"), validApp("ERP")}}
		score := scorer.Score(context.Background(), p)

		assert.InDelta(t, 100.0, score.Completeness, 1e-9)
		assert.Equal(t, 2*len(domain.Columns), score.TotalCells)
		assert.Zero(t, score.MissingCells)
	})

	t.Run("missing cells reduce completeness exactly", func(t *testing.T) {
		t.Parallel()
		app := validApp("CRM")
		app.Department = ""
		app.SecurityScore = nil

		p := &domain.Portfolio{Apps: []domain.Application{app, validApp("ERP")}}
		score := scorer.Score(context.Background(), p)

		total := 2 * len(domain.Columns)
		want := float64(total-2) / float64(total) * 100
		assert.InDelta(t, want, score.Completeness, 1e-9)
		assert.Equal(t, 2, score.MissingCells)
	})
}

func TestScoreAccuracy(t *testing.T) {
	t.Parallel()

	scorer := NewScorer(nil)

	t.Run("out of range and unknown enum rows fail", func(t *testing.T) {
		t.Parallel()
		badScore := validApp("A")
		badScore.SecurityScore = domain.Float64(140)

		badEnum := validApp("B")
		badEnum.Criticality = "Severe"

		negativeCost := validApp("C")
		negativeCost.MaintenanceCost = domain.Float64(-10)

		p := &domain.Portfolio{Apps: []domain.Application{
			validApp("D"), badScore, badEnum, negativeCost,
		}}
		score := scorer.Score(context.Background(), p)

		assert.Equal(t, 3, score.InvalidRows)
		assert.InDelta(t, 25.0, score.Accuracy, 1e-9)
	})

	t.Run("missing optional cells do not fail accuracy", func(t *testing.T) {
		t.Parallel()
		sparse := validApp("A")
		sparse.SecurityScore = nil
		sparse.ComplianceStatus = ""

		p := &domain.Portfolio{Apps: []domain.Application{sparse}}
		score := scorer.Score(context.Background(), p)

		assert.Zero(t, score.InvalidRows)
		assert.InDelta(t, 100.0, score.Accuracy, 1e-9)
	})

	t.Run("missing name fails accuracy", func(t *testing.T) {
		t.Parallel()
		unnamed := validApp("")

		p := &domain.Portfolio{Apps: []domain.Application{unnamed}}
		score := scorer.Score(context.Background(), p)

		assert.Equal(t, 1, score.InvalidRows)
	})
}

func TestScoreConsistency(t *testing.T) {
	t.Parallel()

	scorer := NewScorer(nil)

	t.Run("agreeing duplicate names stay consistent", func(t *testing.T) {
		t.Parallel()
		p := &domain.Portfolio{Apps: []domain.Application{validApp("CRM"), validApp("CRM")}}
		score := scorer.Score(context.Background(), p)
		assert.InDelta(t, 100.0, score.Consistency, 1e-9)
	})

	t.Run("conflicting columns reduce consistency per column", func(t *testing.T) {
		t.Parallel()
		a := validApp("CRM")
		b := validApp("CRM")
		b.Department = "Finance"
		b.MaintenanceCost = domain.Float64(5555)

		p := &domain.Portfolio{Apps: []domain.Application{a, b}}
		score := scorer.Score(context.Background(), p)

		checked := len(domain.Columns) - 1
		want := float64(checked-2) / float64(checked) * 100
		assert.InDelta(t, want, score.Consistency, 1e-9)
	})

	t.Run("missing cells are not conflicts", func(t *testing.T) {
		t.Parallel()
		a := validApp("CRM")
		b := validApp("CRM")
		b.Department = ""

		p := &domain.Portfolio{Apps: []domain.Application{a, b}}
		score := scorer.Score(context.Background(), p)
		assert.InDelta(t, 100.0, score.Consistency, 1e-9)
	})
}

func TestLabelFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		overall float64
		want    string
	}{
		{overall: 100, want: "Excellent"},
		{overall: 95, want: "Excellent"},
		{overall: 94.9, want: "Good"},
		{overall: 85, want: "Good"},
		{overall: 84.9, want: "Fair"},
		{overall: 70, want: "Fair"},
		{overall: 69.9, want: "Poor"},
		{overall: 0, want: "Poor"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, labelFor(tt.overall))
		})
	}
}

func TestScoreOverallIsMeanOfComponents(t *testing.T) {
	t.Parallel()

	scorer := NewScorer(nil)
	app := validApp("CRM")
	app.Department = ""

	p := &domain.Portfolio{Apps: []domain.Application{app}}
	score := scorer.Score(context.Background(), p)

	want := (score.Completeness + score.Accuracy + score.Consistency) / 3
	assert.InDelta(t, want, score.Overall, 1e-9)
}
