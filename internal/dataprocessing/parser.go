package dataprocessing

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"leanixcli/internal/errors"
	"leanixcli/pkg/contracts/domain"
)

// preferredSheets are tried first when locating the data sheet.
var preferredSheets = []string{"Applications", "applications", "Data", "data", "Sheet1"}

// requiredHeaders must all be present for a row to qualify as the header row.
var requiredHeaders = []string{"application", "criticality"}

// ParseFile reads a LeanIX export and extracts the application records.
// Both .xlsx workbooks and .csv files with the same schema are accepted.
func ParseFile(path string, logger *slog.Logger) (*domain.Portfolio, error) {
	if logger == nil {
		logger = slog.Default()
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return parseCSV(path, logger)
	default:
		return parseWorkbook(path, logger)
	}
}

// parseWorkbook reads application records from an Excel workbook.
func parseWorkbook(path string, logger *slog.Logger) (*domain.Portfolio, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.NewParsingError("failed to open workbook", err).WithContext("path", path)
	}
	defer f.Close()

	rows, sheetName, err := findDataSheet(f)
	if err != nil {
		return nil, err
	}

	logger.Info("found application data sheet",
		slog.String("sheet_name", sheetName),
		slog.Int("total_rows", len(rows)))

	return buildPortfolio(path, rows, logger)
}

// parseCSV reads application records from a CSV file with the same schema.
func parseCSV(path string, logger *slog.Logger) (*domain.Portfolio, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.NewParsingError("failed to open csv file", err).WithContext("path", path)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.NewParsingError("failed to read csv row", err).WithContext("path", path)
		}
		rows = append(rows, record)
	}

	return buildPortfolio(path, rows, logger)
}

// findDataSheet locates the sheet holding application records: preferred
// names first, then any sheet whose first rows look like the expected header.
func findDataSheet(f *excelize.File) ([][]string, string, error) {
	for _, name := range preferredSheets {
		if rows, err := f.GetRows(name); err == nil && len(rows) > 0 {
			return rows, name, nil
		}
	}

	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil || len(rows) == 0 {
			continue
		}
		limit := len(rows)
		if limit > 4 {
			limit = 4
		}
		for _, row := range rows[:limit] {
			if looksLikeHeader(row) {
				return rows, name, nil
			}
		}
	}

	return nil, "", errors.NewParsingError("could not find application data sheet in workbook", nil)
}

// looksLikeHeader checks whether a row contains the key column names.
func looksLikeHeader(row []string) bool {
	rowText := strings.ToLower(strings.Join(row, " "))
	for _, h := range requiredHeaders {
		if !strings.Contains(rowText, h) {
			return false
		}
	}
	return true
}

// buildPortfolio maps header names to columns dynamically and extracts one
// Application per data row.
func buildPortfolio(source string, rows [][]string, logger *slog.Logger) (*domain.Portfolio, error) {
	headerRow, columnMap := mapColumns(rows)
	if headerRow == -1 {
		return nil, errors.NewParsingError("could not find header row in application data", nil)
	}

	// Name and criticality are the minimum usable schema
	for _, col := range []domain.Column{domain.ColumnName, domain.ColumnCriticality} {
		if _, exists := columnMap[col]; !exists {
			return nil, errors.NewParsingError(
				fmt.Sprintf("could not find required column: %s", col), nil)
		}
	}

	portfolio := &domain.Portfolio{Source: source}

	for i := headerRow + 1; i < len(rows); i++ {
		row := rows[i]

		if isBlankRow(row) {
			continue
		}
		// Skip footer/total rows some exports append
		if strings.Contains(strings.ToLower(cell(row, 0)), "total") {
			continue
		}

		app := domain.Application{
			Name:             getString(row, columnMap, domain.ColumnName),
			Criticality:      getString(row, columnMap, domain.ColumnCriticality),
			RiskLevel:        getString(row, columnMap, domain.ColumnRiskLevel),
			ComplianceStatus: getString(row, columnMap, domain.ColumnComplianceStatus),
			Department:       getString(row, columnMap, domain.ColumnDepartment),
		}
		app.MaintenanceCost = getFloat(row, columnMap, domain.ColumnMaintenanceCost)
		app.DevelopmentCost = getFloat(row, columnMap, domain.ColumnDevelopmentCost)
		app.SecurityScore = getFloat(row, columnMap, domain.ColumnSecurityScore)
		app.PerformanceScore = getFloat(row, columnMap, domain.ColumnPerformanceScore)
		app.Availability = getFloat(row, columnMap, domain.ColumnAvailability)
		app.VulnerabilityCount = getInt(row, columnMap, domain.ColumnVulnerabilityCount)

		portfolio.Apps = append(portfolio.Apps, app)
	}

	logger.Info("parsed application records",
		slog.String("source", source),
		slog.Int("record_count", len(portfolio.Apps)))

	return portfolio, nil
}

// mapColumns finds the header row and maps column positions by header name.
func mapColumns(rows [][]string) (int, map[domain.Column]int) {
	for i, row := range rows {
		if !looksLikeHeader(row) {
			continue
		}

		columnMap := make(map[domain.Column]int)
		for j, header := range row {
			headerLower := strings.ToLower(strings.TrimSpace(header))
			switch {
			case strings.Contains(headerLower, "application") && strings.Contains(headerLower, "name"):
				columnMap[domain.ColumnName] = j
			case strings.Contains(headerLower, "criticality"):
				columnMap[domain.ColumnCriticality] = j
			case strings.Contains(headerLower, "maintenance") && strings.Contains(headerLower, "cost"):
				columnMap[domain.ColumnMaintenanceCost] = j
			case strings.Contains(headerLower, "development") && strings.Contains(headerLower, "cost"):
				columnMap[domain.ColumnDevelopmentCost] = j
			case strings.Contains(headerLower, "risk"):
				columnMap[domain.ColumnRiskLevel] = j
			case strings.Contains(headerLower, "security") && strings.Contains(headerLower, "score"):
				columnMap[domain.ColumnSecurityScore] = j
			case strings.Contains(headerLower, "compliance"):
				columnMap[domain.ColumnComplianceStatus] = j
			case strings.Contains(headerLower, "vulnerab"):
				columnMap[domain.ColumnVulnerabilityCount] = j
			case strings.Contains(headerLower, "performance") && strings.Contains(headerLower, "score"):
				columnMap[domain.ColumnPerformanceScore] = j
			case strings.Contains(headerLower, "availability"):
				columnMap[domain.ColumnAvailability] = j
			case strings.Contains(headerLower, "department"):
				columnMap[domain.ColumnDepartment] = j
			}
		}
		return i, columnMap
	}
	return -1, nil
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func cell(row []string, idx int) string {
	if idx < len(row) {
		return row[idx]
	}
	return ""
}

func getString(row []string, columnMap map[domain.Column]int, col domain.Column) string {
	if idx, exists := columnMap[col]; exists && idx < len(row) {
		return strings.TrimSpace(row[idx])
	}
	return ""
}

// getFloat parses a numeric cell tolerantly: thousands separators and
// currency prefixes are stripped, blank cells stay missing.
func getFloat(row []string, columnMap map[domain.Column]int, col domain.Column) *float64 {
	idx, exists := columnMap[col]
	if !exists || idx >= len(row) {
		return nil
	}
	raw := strings.TrimSpace(row[idx])
	if raw == "" {
		return nil
	}
	raw = strings.ReplaceAll(raw, ",", "")
	raw = strings.TrimPrefix(raw, "$")
	raw = strings.TrimSuffix(raw, "%")
	val, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &val
}

func getInt(row []string, columnMap map[domain.Column]int, col domain.Column) *int64 {
	f := getFloat(row, columnMap, col)
	if f == nil {
		return nil
	}
	v := int64(*f)
	return &v
}
