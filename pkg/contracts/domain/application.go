package domain

import (
	"strings"
)

// Application represents a single enterprise-architecture application record
// loaded from a LeanIX export. Optional numeric cells are pointers so that
// missing values stay observable to the quality scorer instead of collapsing
// to zero.
type Application struct {
	Name               string   `json:"name" validate:"required"`
	Criticality        string   `json:"criticality" validate:"omitempty,oneof=Low Medium High Critical"`
	MaintenanceCost    *float64 `json:"maintenance_cost,omitempty" validate:"omitempty,gte=0"`
	DevelopmentCost    *float64 `json:"development_cost,omitempty" validate:"omitempty,gte=0"`
	RiskLevel          string   `json:"risk_level" validate:"omitempty,oneof=Low Medium High Critical"`
	SecurityScore      *float64 `json:"security_score,omitempty" validate:"omitempty,gte=0,lte=100"`
	ComplianceStatus   string   `json:"compliance_status" validate:"omitempty,oneof=Compliant Non-Compliant Partial"`
	VulnerabilityCount *int64   `json:"vulnerability_count,omitempty" validate:"omitempty,gte=0"`
	PerformanceScore   *float64 `json:"performance_score,omitempty" validate:"omitempty,gte=0,lte=100"`
	Availability       *float64 `json:"availability,omitempty" validate:"omitempty,gte=0,lte=100"`
	Department         string   `json:"department"`
}

// Column identifies a field of the Application record using the column
// headers of the source spreadsheet.
type Column string

const (
	ColumnName               Column = "Application_Name"
	ColumnCriticality        Column = "Business_Criticality"
	ColumnMaintenanceCost    Column = "Maintenance_Cost"
	ColumnDevelopmentCost    Column = "Development_Cost"
	ColumnRiskLevel          Column = "Risk_Level"
	ColumnSecurityScore      Column = "Security_Score"
	ColumnComplianceStatus   Column = "Compliance_Status"
	ColumnVulnerabilityCount Column = "Vulnerability_Count"
	ColumnPerformanceScore   Column = "Performance_Score"
	ColumnAvailability       Column = "Availability_Percentage"
	ColumnDepartment         Column = "Owner_Department"
)

// Columns lists the expected schema in spreadsheet order.
var Columns = []Column{
	ColumnName,
	ColumnCriticality,
	ColumnMaintenanceCost,
	ColumnDevelopmentCost,
	ColumnRiskLevel,
	ColumnSecurityScore,
	ColumnComplianceStatus,
	ColumnVulnerabilityCount,
	ColumnPerformanceScore,
	ColumnAvailability,
	ColumnDepartment,
}

// NumericColumns lists the columns used for correlation analysis.
var NumericColumns = []Column{
	ColumnMaintenanceCost,
	ColumnDevelopmentCost,
	ColumnPerformanceScore,
	ColumnSecurityScore,
}

// Missing reports whether the cell for the given column has no value.
func (a Application) Missing(c Column) bool {
	switch c {
	case ColumnName:
		return strings.TrimSpace(a.Name) == ""
	case ColumnCriticality:
		return strings.TrimSpace(a.Criticality) == ""
	case ColumnMaintenanceCost:
		return a.MaintenanceCost == nil
	case ColumnDevelopmentCost:
		return a.DevelopmentCost == nil
	case ColumnRiskLevel:
		return strings.TrimSpace(a.RiskLevel) == ""
	case ColumnSecurityScore:
		return a.SecurityScore == nil
	case ColumnComplianceStatus:
		return strings.TrimSpace(a.ComplianceStatus) == ""
	case ColumnVulnerabilityCount:
		return a.VulnerabilityCount == nil
	case ColumnPerformanceScore:
		return a.PerformanceScore == nil
	case ColumnAvailability:
		return a.Availability == nil
	case ColumnDepartment:
		return strings.TrimSpace(a.Department) == ""
	default:
		return true
	}
}

// Numeric returns the value of a numeric column and whether it is present.
func (a Application) Numeric(c Column) (float64, bool) {
	switch c {
	case ColumnMaintenanceCost:
		if a.MaintenanceCost != nil {
			return *a.MaintenanceCost, true
		}
	case ColumnDevelopmentCost:
		if a.DevelopmentCost != nil {
			return *a.DevelopmentCost, true
		}
	case ColumnSecurityScore:
		if a.SecurityScore != nil {
			return *a.SecurityScore, true
		}
	case ColumnPerformanceScore:
		if a.PerformanceScore != nil {
			return *a.PerformanceScore, true
		}
	case ColumnAvailability:
		if a.Availability != nil {
			return *a.Availability, true
		}
	case ColumnVulnerabilityCount:
		if a.VulnerabilityCount != nil {
			return float64(*a.VulnerabilityCount), true
		}
	}
	return 0, false
}

// TotalCost returns maintenance plus development cost, treating a missing
// component as zero, and whether any cost information was present at all.
func (a Application) TotalCost() (float64, bool) {
	var total float64
	var present bool
	if a.MaintenanceCost != nil {
		total += *a.MaintenanceCost
		present = true
	}
	if a.DevelopmentCost != nil {
		total += *a.DevelopmentCost
		present = true
	}
	return total, present
}

// cellKey returns a canonical string form of the cell used for duplicate
// detection. Missing cells map to the empty string.
func (a Application) cellKey(c Column) string {
	switch c {
	case ColumnName:
		return strings.TrimSpace(a.Name)
	case ColumnCriticality:
		return strings.TrimSpace(a.Criticality)
	case ColumnRiskLevel:
		return strings.TrimSpace(a.RiskLevel)
	case ColumnComplianceStatus:
		return strings.TrimSpace(a.ComplianceStatus)
	case ColumnDepartment:
		return strings.TrimSpace(a.Department)
	default:
		if v, ok := a.Numeric(c); ok {
			return formatCellNumber(v)
		}
		return ""
	}
}
