package main

import "fmt"

// impactRule is one row of the fixed department rule table. Trigger
// returns the variances that fire the rule; an empty result means the
// rule does not apply. Cost, when set, picks a fixed range string from
// the same triggering set.
type impactRule struct {
	Department        string
	Level             func(triggered []Variance) ImpactLevel
	Trigger           func(variances []Variance) []Variance
	Description       string
	SpecificImpacts   []string
	MitigationActions []string
	Cost              func(triggered []Variance) string
}

// Cost heuristics carried over from the operations team unchanged; there
// is no documented derivation behind the ranges.
const (
	salesCostContractDelay = "$50,000 - $250,000"
	salesCostGeneralDelay  = "$10,000 - $50,000"
	fabricationCost        = "$25,000 - $100,000"
	productionCost         = "$50,000 - $200,000"
)

func anyDelayed(variances []Variance) []Variance {
	var out []Variance
	for _, v := range variances {
		if v.IsDelayed {
			out = append(out, v)
		}
	}
	return out
}

func delayedFields(variances []Variance, fields ...string) []Variance {
	var out []Variance
	for _, v := range variances {
		if !v.IsDelayed {
			continue
		}
		for _, f := range fields {
			if v.Field == f {
				out = append(out, v)
				break
			}
		}
	}
	return out
}

func anyVarianceFields(variances []Variance, fields ...string) []Variance {
	var out []Variance
	for _, v := range variances {
		for _, f := range fields {
			if v.Field == f {
				out = append(out, v)
				break
			}
		}
	}
	return out
}

func fixedLevel(level ImpactLevel) func([]Variance) ImpactLevel {
	return func([]Variance) ImpactLevel { return level }
}

func hasField(variances []Variance, field string) bool {
	for _, v := range variances {
		if v.Field == field {
			return true
		}
	}
	return false
}

// impactRules is evaluated in order; every matching rule fires, so one
// project can impact all eleven departments at once.
var impactRules = []impactRule{
	{
		Department: "Sales",
		Trigger:    anyDelayed,
		Level: func(triggered []Variance) ImpactLevel {
			if hasField(triggered, "contractDate") {
				return ImpactHigh
			}
			return ImpactMedium
		},
		Description: "Schedule slippage affects committed customer delivery dates and contract milestones.",
		SpecificImpacts: []string{
			"Customer delivery commitments at risk",
			"Potential contract penalty exposure",
			"Future order confidence impacted",
		},
		MitigationActions: []string{
			"Notify affected customers of revised dates",
			"Review contract penalty clauses",
			"Prepare recovery schedule communication",
		},
		Cost: func(triggered []Variance) string {
			if hasField(triggered, "contractDate") {
				return salesCostContractDelay
			}
			return salesCostGeneralDelay
		},
	},
	{
		Department: "Engineering",
		Trigger: func(variances []Variance) []Variance {
			return delayedFields(variances, "chassisEta", "fabricationStart")
		},
		Level:       fixedLevel(ImpactMedium),
		Description: "Upstream material and fabrication delays compress the engineering release window.",
		SpecificImpacts: []string{
			"Drawing release schedule compressed",
			"Change-order turnaround time reduced",
		},
		MitigationActions: []string{
			"Prioritize release packages for delayed milestones",
			"Freeze non-critical design changes",
		},
	},
	{
		Department: "Supply Chain",
		Trigger: func(variances []Variance) []Variance {
			return anyVarianceFields(variances, "chassisEta", "mechShop")
		},
		Level:       fixedLevel(ImpactHigh),
		Description: "Chassis and mech shop movement requires re-sequencing inbound material and vendor commitments.",
		SpecificImpacts: []string{
			"Inbound material sequencing invalidated",
			"Vendor delivery windows need renegotiation",
			"Storage and staging capacity affected",
		},
		MitigationActions: []string{
			"Re-sequence purchase order delivery dates",
			"Confirm vendor flexibility on revised windows",
			"Reserve staging space for early arrivals",
		},
	},
	{
		Department: "Finance",
		Trigger:    anyDelayed,
		Level:      fixedLevel(ImpactMedium),
		Description: "Delays shift revenue recognition and increase carrying costs for work in progress.",
		SpecificImpacts: []string{
			"Revenue recognition pushed to later periods",
			"WIP carrying cost increases",
		},
		MitigationActions: []string{
			"Update revenue forecast for affected periods",
			"Review progress billing milestones",
		},
	},
	{
		Department: "Fabrication",
		Trigger: func(variances []Variance) []Variance {
			return delayedFields(variances, "fabricationStart")
		},
		Level:       fixedLevel(ImpactCritical),
		Description: "Fabrication start slipped; downstream shop loading and weld sequencing are directly blocked.",
		SpecificImpacts: []string{
			"Shop loading plan invalidated",
			"Weld and fit-up sequencing blocked",
			"Overtime likely to recover schedule",
		},
		MitigationActions: []string{
			"Rebuild shop loading plan from revised start",
			"Evaluate overtime and second-shift coverage",
			"Escalate blocking material shortages",
		},
		Cost: func([]Variance) string { return fabricationCost },
	},
	{
		Department: "Paint",
		Trigger: func(variances []Variance) []Variance {
			return delayedFields(variances, "paintStart")
		},
		Level:       fixedLevel(ImpactHigh),
		Description: "Paint start slipped; booth scheduling and cure windows must be rebooked.",
		SpecificImpacts: []string{
			"Booth reservation conflicts with other projects",
			"Cure window scheduling compressed",
		},
		MitigationActions: []string{
			"Rebook booth slots against revised start",
			"Coordinate with production on handoff date",
		},
	},
	{
		Department: "Production",
		Trigger: func(variances []Variance) []Variance {
			return delayedFields(variances, "productionStart")
		},
		Level:       fixedLevel(ImpactCritical),
		Description: "Production start slipped; the assembly line slot and crew plan for this unit are invalid.",
		SpecificImpacts: []string{
			"Assembly bay slot conflicts downstream units",
			"Crew assignments need rebalancing",
			"Takt schedule for the line disrupted",
		},
		MitigationActions: []string{
			"Re-slot the unit in the bay schedule",
			"Rebalance crew assignments across bays",
			"Assess pull-ahead of a trailing unit",
		},
		Cost: func([]Variance) string { return productionCost },
	},
	{
		Department: "IT",
		Trigger: func(variances []Variance) []Variance {
			return delayedFields(variances, "itStart")
		},
		Level:       fixedLevel(ImpactMedium),
		Description: "IT integration start slipped; systems installation and network provisioning move.",
		SpecificImpacts: []string{
			"Systems installation window moved",
			"Network and rack provisioning rescheduled",
		},
		MitigationActions: []string{
			"Reschedule installation technicians",
			"Pre-stage equipment to shorten onsite time",
		},
	},
	{
		Department: "NTC",
		Trigger: func(variances []Variance) []Variance {
			return delayedFields(variances, "ntcTestingDate")
		},
		Level:       fixedLevel(ImpactHigh),
		Description: "NTC testing slipped; test range booking and instrumentation staffing are affected.",
		SpecificImpacts: []string{
			"Test range booking must be moved",
			"Instrumentation staff reassignment required",
		},
		MitigationActions: []string{
			"Rebook test range for revised date",
			"Confirm instrumentation staff availability",
		},
	},
	{
		Department: "QC",
		Trigger: func(variances []Variance) []Variance {
			return delayedFields(variances, "qcStartDate")
		},
		Level:       fixedLevel(ImpactHigh),
		Description: "QC start slipped; inspection capacity and hold-point scheduling compress.",
		SpecificImpacts: []string{
			"Inspection hold points compressed",
			"Inspector capacity conflicts with other units",
		},
		MitigationActions: []string{
			"Reprioritize inspector assignments",
			"Pre-clear documentation ahead of inspection",
		},
	},
	{
		Department: "FSW",
		Trigger: func(variances []Variance) []Variance {
			return delayedFields(variances, "executiveReviewDate", "shipDate", "deliveryDate")
		},
		Level:       fixedLevel(ImpactCritical),
		Description: "Final stage gates slipped; field service, logistics, and customer handoff are directly affected.",
		SpecificImpacts: []string{
			"Transport and logistics booking invalid",
			"Field service commissioning window moved",
			"Customer acceptance scheduling affected",
		},
		MitigationActions: []string{
			"Rebook transport for revised ship date",
			"Realign field service crew schedule",
			"Coordinate revised acceptance with customer",
		},
	},
}

// DeriveImpacts evaluates the fixed department rule table against a
// variance set. Pure function: identical input yields identical output,
// and an empty variance set yields no impacts.
func DeriveImpacts(variances []Variance) []DepartmentImpact {
	if len(variances) == 0 {
		return nil
	}

	var out []DepartmentImpact
	for _, rule := range impactRules {
		triggered := rule.Trigger(variances)
		if len(triggered) == 0 {
			continue
		}

		impact := DepartmentImpact{
			Department:        rule.Department,
			ImpactLevel:       rule.Level(triggered),
			Description:       rule.Description,
			SpecificImpacts:   rule.SpecificImpacts,
			MitigationActions: rule.MitigationActions,
			TimelineImpact:    fmt.Sprintf("%d days", maxAbsDays(triggered)),
		}
		if rule.Cost != nil {
			impact.EstimatedCost = rule.Cost(triggered)
		}
		out = append(out, impact)
	}
	return out
}

func maxAbsDays(variances []Variance) int {
	max := 0
	for _, v := range variances {
		d := v.DaysDifference
		if d < 0 {
			d = -d
		}
		if d > max {
			max = d
		}
	}
	return max
}

// CriticalDepartments lists the departments whose impact level is
// critical, in rule order.
func CriticalDepartments(impacts []DepartmentImpact) []string {
	var out []string
	for _, imp := range impacts {
		if imp.ImpactLevel == ImpactCritical {
			out = append(out, imp.Department)
		}
	}
	return out
}

// SplitCriticalHigh counts critical and high impacts.
func SplitCriticalHigh(impacts []DepartmentImpact) (critical, high int) {
	for _, imp := range impacts {
		switch imp.ImpactLevel {
		case ImpactCritical:
			critical++
		case ImpactHigh:
			high++
		}
	}
	return critical, high
}
