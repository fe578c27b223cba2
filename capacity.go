package main

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

const (
	defaultHoursPerWeek   = 40.0
	defaultEfficiencyRate = 100.0
)

// Stepped utilization by concurrent active-project count. These are the
// operations team's thresholds, kept verbatim: a team past two concurrent
// projects is modeled as overloaded.
const (
	utilizationIdle       = 0   // 0 projects
	utilizationSingle     = 75  // 1 project
	utilizationFull       = 100 // 2 projects
	utilizationOverloaded = 120 // 3+ projects
)

// SteppedUtilization maps an active-project count to the fixed
// utilization percentage.
func SteppedUtilization(activeProjects int) int {
	switch {
	case activeProjects <= 0:
		return utilizationIdle
	case activeProjects == 1:
		return utilizationSingle
	case activeProjects == 2:
		return utilizationFull
	default:
		return utilizationOverloaded
	}
}

// EstimateUtilization computes one team's capacity record from live
// roster, schedule, and project data. A team with no matching bays or
// members yields an all-zero record. now bounds the schedule filter so
// the result is a pure function of its inputs.
func EstimateUtilization(teamBayIDs []int64, members []TeamMember, schedules []ManufacturingSchedule, projects []Project, now time.Time) CapacityRecord {
	bays := make(map[int64]bool, len(teamBayIDs))
	for _, id := range teamBayIDs {
		bays[id] = true
	}

	projectByID := make(map[int64]Project, len(projects))
	for _, p := range projects {
		projectByID[p.ID] = p
	}

	// Distinct non-terminal projects still scheduled on a team bay.
	seen := make(map[int64]bool)
	active := 0
	for _, sched := range schedules {
		if !bays[sched.BayID] || seen[sched.ProjectID] {
			continue
		}
		end, err := parseProjectDate(normalizeDateValue(sched.EndDate))
		if err != nil || end.Before(now) {
			continue
		}
		seen[sched.ProjectID] = true
		p, ok := projectByID[sched.ProjectID]
		if ok && p.IsTerminal() {
			continue
		}
		active++
	}

	memberCount := 0
	totalHours := 0.0
	for _, m := range members {
		if !m.IsActive || !bays[m.BayID] {
			continue
		}
		memberCount++
		hours := m.HoursPerWeek
		if hours == 0 {
			hours = defaultHoursPerWeek
		}
		efficiency := m.EfficiencyRate
		if efficiency == 0 {
			efficiency = defaultEfficiencyRate
		}
		totalHours += hours * (efficiency / 100)
	}

	return CapacityRecord{
		MemberCount:        memberCount,
		TotalCapacityHours: totalHours,
		ActiveProjectCount: active,
		UtilizationPercent: SteppedUtilization(active),
	}
}

// TeamCapacity pairs one team's bays with its capacity record and the
// workload-ratio reading.
type TeamCapacity struct {
	TeamID          int64
	BayIDs          []int64
	Record          CapacityRecord
	WorkloadPercent float64
}

// BuildTeamCapacities fetches bays, schedules, members, and projects and
// computes a capacity record per team, teams ordered by ID. Bays without
// a team are grouped under team 0.
func BuildTeamCapacities(cfg Config, now time.Time) ([]TeamCapacity, error) {
	bays, err := FetchManufacturingBays(cfg)
	if err != nil {
		return nil, fmt.Errorf("fetching bays: %w", err)
	}
	schedules, err := FetchManufacturingSchedules(cfg)
	if err != nil {
		return nil, fmt.Errorf("fetching schedules: %w", err)
	}
	members, err := FetchTeamMembers(cfg)
	if err != nil {
		return nil, fmt.Errorf("fetching members: %w", err)
	}
	projects, err := FetchProjects(cfg)
	if err != nil {
		return nil, fmt.Errorf("fetching projects: %w", err)
	}

	baysByTeam := make(map[int64][]int64)
	for _, bay := range bays {
		baysByTeam[bay.TeamID] = append(baysByTeam[bay.TeamID], bay.ID)
	}

	teamIDs := make([]int64, 0, len(baysByTeam))
	for teamID := range baysByTeam {
		teamIDs = append(teamIDs, teamID)
	}
	sort.Slice(teamIDs, func(i, j int) bool { return teamIDs[i] < teamIDs[j] })

	out := make([]TeamCapacity, 0, len(teamIDs))
	for _, teamID := range teamIDs {
		bayIDs := baysByTeam[teamID]
		record := EstimateUtilization(bayIDs, members, schedules, projects, now)
		out = append(out, TeamCapacity{
			TeamID:          teamID,
			BayIDs:          bayIDs,
			Record:          record,
			WorkloadPercent: EstimateWorkloadUtilization(record, cfg.TargetHoursPerUnit),
		})
	}
	return out, nil
}

// FormatCapacitySummary renders one line per team.
func FormatCapacitySummary(teams []TeamCapacity) string {
	if len(teams) == 0 {
		return "No manufacturing bays found."
	}
	var lines []string
	for _, team := range teams {
		lines = append(lines, fmt.Sprintf(
			"Team %d: %d members, %.0f capacity hours/week, %d active projects, %d%% utilization (workload %.0f%%)",
			team.TeamID, team.Record.MemberCount, team.Record.TotalCapacityHours,
			team.Record.ActiveProjectCount, team.Record.UtilizationPercent, team.WorkloadPercent))
	}
	return strings.Join(lines, "\n")
}

// EstimateWorkloadUtilization is the continuous workload-hours variant
// some capacity screens use instead of the stepped model: demanded hours
// against capacity hours, as a percentage. Kept separate because the two
// formulas are intentionally not reconciled; the stepped model is
// canonical for impact assessment.
func EstimateWorkloadUtilization(record CapacityRecord, hoursPerProject float64) float64 {
	if record.TotalCapacityHours == 0 {
		return 0
	}
	demand := float64(record.ActiveProjectCount) * hoursPerProject
	return demand / record.TotalCapacityHours * 100
}
