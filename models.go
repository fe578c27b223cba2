package main

import "time"

// Project is the operations API's project record. Date fields arrive as
// strings because the API mixes ISO dates with sentinel placeholders
// ("N/A", "PENDING", "TBD") for milestones that are not yet known. The
// op* fields are the baseline (originally planned) dates.
type Project struct {
	ID            int64  `json:"id"`
	ProjectNumber string `json:"projectNumber"`
	Name          string `json:"name"`
	Status        string `json:"status"` // "Active", "Delivered", "Cancelled", ...

	ContractDate        string `json:"contractDate"`
	ChassisETA          string `json:"chassisEta"`
	MechShop            string `json:"mechShop"`
	FabricationStart    string `json:"fabricationStart"`
	PaintStart          string `json:"paintStart"`
	ProductionStart     string `json:"productionStart"`
	ITStart             string `json:"itStart"`
	WrapDate            string `json:"wrapDate"`
	NTCTestingDate      string `json:"ntcTestingDate"`
	QCStartDate         string `json:"qcStartDate"`
	ExecutiveReviewDate string `json:"executiveReviewDate"`
	ShipDate            string `json:"shipDate"`
	DeliveryDate        string `json:"deliveryDate"`

	OpContractDate        string `json:"opContractDate"`
	OpChassisETA          string `json:"opChassisEta"`
	OpMechShop            string `json:"opMechShop"`
	OpFabricationStart    string `json:"opFabricationStart"`
	OpPaintStart          string `json:"opPaintStart"`
	OpProductionStart     string `json:"opProductionStart"`
	OpITStart             string `json:"opItStart"`
	OpWrapDate            string `json:"opWrapDate"`
	OpNTCTestingDate      string `json:"opNtcTestingDate"`
	OpQCStartDate         string `json:"opQcStartDate"`
	OpExecutiveReviewDate string `json:"opExecutiveReviewDate"`
	OpShipDate            string `json:"opShipDate"`
	OpDeliveryDate        string `json:"opDeliveryDate"`
}

func (p Project) IsTerminal() bool {
	return p.Status == "Delivered" || p.Status == "Cancelled"
}

type ManufacturingBay struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	TeamID int64  `json:"teamId"`
}

type ManufacturingSchedule struct {
	ID        int64  `json:"id"`
	BayID     int64  `json:"bayId"`
	ProjectID int64  `json:"projectId"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

type TeamMember struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	BayID          int64   `json:"bayId"`
	IsActive       bool    `json:"isActive"`
	HoursPerWeek   float64 `json:"hoursPerWeek"`   // 0 means not set; default 40
	EfficiencyRate float64 `json:"efficiencyRate"` // percent; 0 means not set; default 100
}

// Variance is the signed day drift of one milestone against its baseline.
// Derived fresh from project state on every assessment; never persisted.
type Variance struct {
	Field          string
	DisplayName    string
	BaselineDate   time.Time
	CurrentDate    time.Time
	DaysDifference int
	IsDelayed      bool
}

type ImpactLevel string

const (
	ImpactLow      ImpactLevel = "low"
	ImpactMedium   ImpactLevel = "medium"
	ImpactHigh     ImpactLevel = "high"
	ImpactCritical ImpactLevel = "critical"
)

// DepartmentImpact is a rule-derived statement that a department is
// affected by the current variance set.
type DepartmentImpact struct {
	Department        string
	ImpactLevel       ImpactLevel
	Description       string
	SpecificImpacts   []string
	MitigationActions []string
	EstimatedCost     string // empty when the rule defines no cost range
	TimelineImpact    string // "<N> days", empty when no variance triggered it
}

// CapacityRecord summarizes one team's roster and load.
type CapacityRecord struct {
	MemberCount        int
	TotalCapacityHours float64
	ActiveProjectCount int
	UtilizationPercent int
}

type InsightEntry struct {
	Severity string `json:"severity"` // "info", "warning", "danger"
	Text     string `json:"text"`
	Detail   string `json:"detail,omitempty"`
}

// AIInsight is the narrative service's payload. Treated as untrusted and
// optional; callers always receive a usable value (see FetchInsights).
type AIInsight struct {
	Insights   []InsightEntry `json:"insights"`
	Confidence float64        `json:"confidence"`
	Summary    string         `json:"summary"`
}
