package main

import (
	"strings"
	"time"
)

// FieldPair names one tracked milestone and how to read its baseline and
// current dates off a project. The accessor functions replace the string
// keyed field lookups the dashboard uses, so a typo is a compile error
// instead of a silent nil.
type FieldPair struct {
	Name        string
	DisplayName string
	Baseline    func(Project) string
	Current     func(Project) string
}

// ScheduleFieldPairs is the fixed, versioned list of recognized milestone
// pairs. Variance output order follows this declaration order.
var ScheduleFieldPairs = []FieldPair{
	{"contractDate", "Contract Date", func(p Project) string { return p.OpContractDate }, func(p Project) string { return p.ContractDate }},
	{"chassisEta", "Chassis ETA", func(p Project) string { return p.OpChassisETA }, func(p Project) string { return p.ChassisETA }},
	{"mechShop", "Mech Shop", func(p Project) string { return p.OpMechShop }, func(p Project) string { return p.MechShop }},
	{"fabricationStart", "Fabrication Start", func(p Project) string { return p.OpFabricationStart }, func(p Project) string { return p.FabricationStart }},
	{"paintStart", "Paint Start", func(p Project) string { return p.OpPaintStart }, func(p Project) string { return p.PaintStart }},
	{"productionStart", "Production Start", func(p Project) string { return p.OpProductionStart }, func(p Project) string { return p.ProductionStart }},
	{"itStart", "IT Start", func(p Project) string { return p.OpITStart }, func(p Project) string { return p.ITStart }},
	{"wrapDate", "Wrap", func(p Project) string { return p.OpWrapDate }, func(p Project) string { return p.WrapDate }},
	{"ntcTestingDate", "NTC Testing", func(p Project) string { return p.OpNTCTestingDate }, func(p Project) string { return p.NTCTestingDate }},
	{"qcStartDate", "QC Start", func(p Project) string { return p.OpQCStartDate }, func(p Project) string { return p.QCStartDate }},
	{"executiveReviewDate", "Executive Review", func(p Project) string { return p.OpExecutiveReviewDate }, func(p Project) string { return p.ExecutiveReviewDate }},
	{"shipDate", "Ship", func(p Project) string { return p.OpShipDate }, func(p Project) string { return p.ShipDate }},
	{"deliveryDate", "Delivery", func(p Project) string { return p.OpDeliveryDate }, func(p Project) string { return p.DeliveryDate }},
}

var dateSentinels = map[string]bool{
	"":        true,
	"N/A":     true,
	"PENDING": true,
	"TBD":     true,
}

// normalizeDateValue maps sentinel placeholders to the empty string so
// every downstream check is a single "is it empty" test.
func normalizeDateValue(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if dateSentinels[strings.ToUpper(trimmed)] {
		return ""
	}
	return trimmed
}

// parseProjectDate parses a date-only value anchored at UTC midnight.
// RFC3339 timestamps are truncated to their date part first, so a
// timezone offset in the source can never shift the calendar day.
func parseProjectDate(value string) (time.Time, error) {
	if len(value) > 10 {
		value = value[:10]
	}
	return time.Parse("2006-01-02", value)
}

// daysBetween is an exact calendar-day subtraction of two UTC-midnight
// dates, not floating-point hour math.
func daysBetween(baseline, current time.Time) int {
	return int(current.Sub(baseline).Hours() / 24)
}
