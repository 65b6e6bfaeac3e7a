package telemetry

import "time"

// Sample is one unit's energy and production for one calendar day. Samples
// are immutable once generated; dates carry no time-of-day resolution.
type Sample struct {
	UnitID     string  `json:"unitId"`
	Date       string  `json:"date"` // ISO calendar day, e.g. "2026-08-14"
	Energy     float64 `json:"energy"`     // MWh
	Production float64 `json:"production"` // bbl
}

// DailyTotal is derived, never stored: one per distinct sample date.
type DailyTotal struct {
	Date            string  `json:"date"`
	TotalEnergy     float64 `json:"totalEnergy"`
	TotalProduction float64 `json:"totalProduction"`
}

type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

type KPI struct {
	Name          string  `json:"name"`
	Value         float64 `json:"value"`
	Unit          string  `json:"unit"`
	Trend         Trend   `json:"trend"`
	ChangePercent float64 `json:"changePercent"`
}

type AlertType string

const (
	AlertCritical AlertType = "critical"
	AlertWarning  AlertType = "warning"
	AlertInfo     AlertType = "info"
)

// SeverityRank orders alert types for display: critical before warning
// before info. Unknown types sort last.
func (t AlertType) SeverityRank() int {
	switch t {
	case AlertCritical:
		return 0
	case AlertWarning:
		return 1
	case AlertInfo:
		return 2
	default:
		return 3
	}
}

type Alert struct {
	ID           string    `json:"id"`
	UnitID       string    `json:"unitId"`
	Type         AlertType `json:"type"`
	Message      string    `json:"message"`
	Timestamp    time.Time `json:"timestamp"`
	Acknowledged bool      `json:"acknowledged"`
}

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

type Recommendation struct {
	ID                 string   `json:"id"`
	UnitID             string   `json:"unitId,omitempty"`
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	Priority           Priority `json:"priority"`
	PotentialSavings   string   `json:"potentialSavings"`   // currency per year
	ImplementationTime string   `json:"implementationTime"`
}

type UnitStatus string

const (
	StatusOnline      UnitStatus = "online"
	StatusWarning     UnitStatus = "warning"
	StatusMaintenance UnitStatus = "maintenance"
	StatusOffline     UnitStatus = "offline"
)

type RefineryUnit struct {
	UnitID      string     `json:"unitId"`
	Name        string     `json:"name"`
	Status      UnitStatus `json:"status"`
	Capacity    float64    `json:"capacity"`    // bbl/day
	CurrentLoad float64    `json:"currentLoad"` // bbl/day
	Efficiency  float64    `json:"efficiency"`  // 0-100
}

// DisplayLoadRatio is CurrentLoad/Capacity clamped for presentation: units
// under maintenance show as idle even if a residual load is stored.
func (u RefineryUnit) DisplayLoadRatio() float64 {
	if u.Status == StatusMaintenance || u.Capacity <= 0 {
		return 0
	}
	ratio := u.CurrentLoad / u.Capacity
	if ratio < 0 {
		return 0
	}
	return ratio
}

// Prediction is a forecast point for fleet-wide daily energy.
type Prediction struct {
	Date       string  `json:"date"`
	Predicted  float64 `json:"predicted"` // MWh
	LowerBound float64 `json:"lowerBound"`
	UpperBound float64 `json:"upperBound"`
}
