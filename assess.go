package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/slack-go/slack"
)

// fetchInsightsFn is swapped out in tests.
var fetchInsightsFn = FetchInsights

// AssessmentResult summarizes one project's assessment run.
type AssessmentResult struct {
	ProjectNumber       string
	VarianceCount       int
	DelayedCount        int
	MaxDelayDays        int
	ImpactCount         int
	CriticalDepartments []string
	ReportPath          string
}

// SweepResult tracks counters across a full assessment sweep.
type SweepResult struct {
	TotalProjects int
	Assessed      int
	SkippedClean  int
	Errors        []string
	Critical      []string // "PX-123: Fabrication, Production"
}

// renderInFlight guards the PDF side effect: a second trigger while one
// render runs is dropped, never run concurrently.
var renderInFlight atomic.Bool

// AssessProject derives variances and impacts for one project, fetches
// insights when a provider is configured, renders the PDF, and records
// the run. The derivation itself never fails; only the I/O edges can.
func AssessProject(ctx context.Context, cfg Config, db *sql.DB, project Project) (AssessmentResult, error) {
	variances := ComputeVariances(project, ScheduleFieldPairs)
	impacts := DeriveImpacts(variances)
	delayed, _ := SplitDelayedAdvanced(variances)

	result := AssessmentResult{
		ProjectNumber:       project.ProjectNumber,
		VarianceCount:       len(variances),
		DelayedCount:        delayed,
		MaxDelayDays:        MaxDelayDays(variances),
		ImpactCount:         len(impacts),
		CriticalDepartments: CriticalDepartments(impacts),
	}

	var insights *AIInsight
	if cfg.InsightsConfigured() && len(variances) > 0 {
		insight := fetchInsightsFn(ctx, cfg, InsightRequest{
			ProjectNumber:     project.ProjectNumber,
			ProjectName:       project.Name,
			Variances:         variances,
			DepartmentImpacts: impacts,
		})
		insights = &insight
	}

	if !renderInFlight.CompareAndSwap(false, true) {
		return result, fmt.Errorf("report render already in flight for another request")
	}
	defer renderInFlight.Store(false)

	generatedAt := time.Now().In(cfg.Location)
	path, err := RenderImpactReport(cfg, project, variances, impacts, insights, generatedAt)
	if err != nil {
		return result, fmt.Errorf("rendering report for %s: %w", project.ProjectNumber, err)
	}
	result.ReportPath = path
	log.Printf("assess project=%s variances=%d impacts=%d critical=%d report=%s",
		project.ProjectNumber, len(variances), len(impacts), len(result.CriticalDepartments), path)

	if db != nil {
		_, err = InsertAssessment(db, AssessmentRecord{
			ProjectNumber:       project.ProjectNumber,
			ProjectName:         project.Name,
			VarianceCount:       len(variances),
			DelayedCount:        delayed,
			MaxDelayDays:        result.MaxDelayDays,
			CriticalDepartments: joinDepartments(result.CriticalDepartments),
			ReportPath:          path,
			GeneratedAt:         generatedAt,
		})
		if err != nil {
			return result, fmt.Errorf("recording assessment for %s: %w", project.ProjectNumber, err)
		}
	}

	return result, nil
}

// RunSweep assesses every non-terminal project. A failure on one project
// is logged and counted; the rest of the sweep continues.
func RunSweep(ctx context.Context, cfg Config, db *sql.DB) (SweepResult, error) {
	projects, err := FetchProjects(cfg)
	if err != nil {
		return SweepResult{}, fmt.Errorf("fetching projects: %w", err)
	}

	var result SweepResult
	for _, project := range projects {
		if project.IsTerminal() {
			continue
		}
		result.TotalProjects++

		variances := ComputeVariances(project, ScheduleFieldPairs)
		if len(variances) == 0 {
			result.SkippedClean++
			continue
		}

		res, err := AssessProject(ctx, cfg, db, project)
		if err != nil {
			log.Printf("sweep error project=%s: %v", project.ProjectNumber, err)
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", project.ProjectNumber, err))
			continue
		}
		result.Assessed++
		if len(res.CriticalDepartments) > 0 {
			result.Critical = append(result.Critical,
				fmt.Sprintf("%s: %s", res.ProjectNumber, strings.Join(res.CriticalDepartments, ", ")))
		}
	}

	if len(result.Errors) > 0 && result.Assessed == 0 && result.SkippedClean == 0 {
		return result, fmt.Errorf("all assessments failed: %s", strings.Join(result.Errors, "; "))
	}
	return result, nil
}

// FormatSweepSummary returns a human-readable summary of a SweepResult.
func FormatSweepSummary(result SweepResult) string {
	if result.TotalProjects == 0 {
		return "No active projects to assess."
	}

	var parts []string
	parts = append(parts, fmt.Sprintf("%d assessed", result.Assessed))
	if result.SkippedClean > 0 {
		parts = append(parts, fmt.Sprintf("%d on baseline", result.SkippedClean))
	}
	msg := fmt.Sprintf("Assessed %d active projects: %s", result.TotalProjects, strings.Join(parts, ", "))

	if len(result.Critical) > 0 {
		msg += "\nCritical impacts:\n- " + strings.Join(result.Critical, "\n- ")
	}
	if len(result.Errors) > 0 {
		msg += "\nWarnings:\n" + strings.Join(result.Errors, "\n")
	}
	return msg
}

// StartAssessmentScheduler starts a cron-based scheduler that sweeps all
// active projects and posts a summary plus any critical-impact alerts to
// the alert channel. The schedule is a standard 5-field cron expression.
func StartAssessmentScheduler(cfg Config, db *sql.DB, api *slack.Client) {
	schedule := strings.TrimSpace(cfg.AssessSchedule)
	if schedule == "" {
		log.Println("Scheduled assessments disabled (assess_schedule not set)")
		return
	}

	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	sched, err := parser.Parse(schedule)
	if err != nil {
		log.Printf("Invalid assess_schedule '%s': %v — scheduled assessments disabled", schedule, err)
		return
	}
	log.Printf("Assessments scheduled (cron: %s)", schedule)

	go func() {
		for {
			now := time.Now().In(cfg.Location)
			next := sched.Next(now)
			wait := next.Sub(now)
			log.Printf("Next assessment sweep at %s (in %s)", next.Format("Mon Jan 2 15:04"), wait.Round(time.Minute))

			time.Sleep(wait)

			result, sweepErr := RunSweep(context.Background(), cfg, db)
			summary := FormatSweepSummary(result)
			if sweepErr != nil {
				log.Printf("Sweep error: %v", sweepErr)
			}
			log.Printf("Sweep complete: %s", summary)

			if api != nil && cfg.AlertChannelID != "" {
				NotifySweep(api, cfg.AlertChannelID, result)
			}
		}
	}()
}
