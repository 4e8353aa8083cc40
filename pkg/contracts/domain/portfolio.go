package domain

import (
	"strconv"
	"strings"
)

// Portfolio is the in-memory table of application records for one analysis
// run. It is stateless: loaded, computed over, then discarded.
type Portfolio struct {
	Source string        `json:"source"`
	Apps   []Application `json:"apps"`
}

// RecordCount returns the number of rows in the portfolio.
func (p *Portfolio) RecordCount() int {
	return len(p.Apps)
}

// ColumnCount returns the number of columns in the expected schema.
func (p *Portfolio) ColumnCount() int {
	return len(Columns)
}

// TotalCells returns rows times columns.
func (p *Portfolio) TotalCells() int {
	return p.RecordCount() * p.ColumnCount()
}

// MissingCells counts empty cells across the whole table.
func (p *Portfolio) MissingCells() int {
	var missing int
	for _, app := range p.Apps {
		for _, col := range Columns {
			if app.Missing(col) {
				missing++
			}
		}
	}
	return missing
}

// MissingByColumn counts empty cells per column, in schema order.
func (p *Portfolio) MissingByColumn() map[Column]int {
	counts := make(map[Column]int, len(Columns))
	for _, col := range Columns {
		counts[col] = 0
	}
	for _, app := range p.Apps {
		for _, col := range Columns {
			if app.Missing(col) {
				counts[col]++
			}
		}
	}
	return counts
}

// DuplicateRecords counts rows that are exact duplicates of an earlier row,
// comparing every cell after trimming. This matches counting repeated rows
// while keeping the first occurrence.
func (p *Portfolio) DuplicateRecords() int {
	seen := make(map[string]bool, len(p.Apps))
	var dups int
	for _, app := range p.Apps {
		key := app.rowKey()
		if seen[key] {
			dups++
			continue
		}
		seen[key] = true
	}
	return dups
}

// rowKey builds a canonical representation of the full row.
func (a Application) rowKey() string {
	parts := make([]string, 0, len(Columns))
	for _, col := range Columns {
		parts = append(parts, a.cellKey(col))
	}
	return strings.Join(parts, "\x1f")
}

func formatCellNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Float64 returns a pointer to v. Convenience for building records in tests
// and parsers.
func Float64(v float64) *float64 { return &v }

// Int64 returns a pointer to v.
func Int64(v int64) *int64 { return &v }
