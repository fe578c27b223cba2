package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"
)

func stubInsights(t *testing.T, insight AIInsight) {
	t.Helper()
	orig := fetchInsightsFn
	fetchInsightsFn = func(_ context.Context, _ Config, _ InsightRequest) AIInsight {
		return insight
	}
	t.Cleanup(func() { fetchInsightsFn = orig })
}

func TestAssessProjectEndToEnd(t *testing.T) {
	cfg := Config{
		ReportOutputDir: t.TempDir(),
		ProductName:     "ImpactBot",
		InsightProvider: "endpoint",
		InsightEndpoint: "http://stubbed",
		Location:        time.UTC,
	}
	stubInsights(t, fallbackInsight())
	db := testDB(t)

	project := Project{
		ProjectNumber:      "PX-1042",
		Name:               "Mobile Command Unit 7",
		Status:             "Active",
		FabricationStart:   "2024-03-10",
		OpFabricationStart: "2024-03-01",
	}

	result, err := AssessProject(context.Background(), cfg, db, project)
	if err != nil {
		t.Fatalf("assessment failed: %v", err)
	}
	if result.VarianceCount != 1 || result.DelayedCount != 1 || result.MaxDelayDays != 9 {
		t.Fatalf("unexpected counters: %+v", result)
	}
	if len(result.CriticalDepartments) == 0 || result.CriticalDepartments[0] != "Fabrication" {
		t.Fatalf("expected critical Fabrication, got %v", result.CriticalDepartments)
	}
	if _, err := os.Stat(result.ReportPath); err != nil {
		t.Fatalf("report file missing: %v", err)
	}

	rec, err := LatestAssessment(db, "PX-1042")
	if err != nil {
		t.Fatalf("history row missing: %v", err)
	}
	if rec.MaxDelayDays != 9 || !strings.Contains(rec.CriticalDepartments, "Fabrication") {
		t.Fatalf("history row wrong: %+v", rec)
	}
}

func TestAssessProjectCleanBaseline(t *testing.T) {
	cfg := Config{ReportOutputDir: t.TempDir(), ProductName: "ImpactBot", InsightProvider: "off", Location: time.UTC}
	db := testDB(t)

	project := Project{ProjectNumber: "PX-2000", Name: "Baseline Unit", Status: "Active"}
	result, err := AssessProject(context.Background(), cfg, db, project)
	if err != nil {
		t.Fatalf("clean assessment failed: %v", err)
	}
	if result.VarianceCount != 0 || result.ImpactCount != 0 {
		t.Fatalf("clean project produced derived data: %+v", result)
	}
	if _, err := os.Stat(result.ReportPath); err != nil {
		t.Fatalf("clean project should still produce a report: %v", err)
	}
}

func TestRunSweepSkipsTerminalAndClean(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"id":1,"projectNumber":"PX-1","status":"Active","fabricationStart":"2024-03-10","opFabricationStart":"2024-03-01"},
			{"id":2,"projectNumber":"PX-2","status":"Active"},
			{"id":3,"projectNumber":"PX-3","status":"Delivered","shipDate":"2024-06-10","opShipDate":"2024-06-01"}
		]`))
	}))
	defer server.Close()

	cfg := Config{
		APIBaseURL:      server.URL,
		ReportOutputDir: t.TempDir(),
		ProductName:     "ImpactBot",
		InsightProvider: "off",
		Location:        time.UTC,
	}
	db := testDB(t)

	result, err := RunSweep(context.Background(), cfg, db)
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if result.TotalProjects != 2 {
		t.Fatalf("delivered project must be excluded, got %d total", result.TotalProjects)
	}
	if result.Assessed != 1 || result.SkippedClean != 1 {
		t.Fatalf("unexpected sweep counters: %+v", result)
	}
	if len(result.Critical) != 1 || !strings.Contains(result.Critical[0], "PX-1") {
		t.Fatalf("expected PX-1 critical entry, got %v", result.Critical)
	}
}

func TestFormatSweepSummary(t *testing.T) {
	summary := FormatSweepSummary(SweepResult{})
	if summary != "No active projects to assess." {
		t.Fatalf("unexpected empty summary: %q", summary)
	}

	summary = FormatSweepSummary(SweepResult{
		TotalProjects: 3,
		Assessed:      2,
		SkippedClean:  1,
		Critical:      []string{"PX-1: Fabrication"},
		Errors:        []string{"PX-9: fetch failed"},
	})
	for _, fragment := range []string{"3 active projects", "2 assessed", "1 on baseline", "PX-1: Fabrication", "PX-9: fetch failed"} {
		if !strings.Contains(summary, fragment) {
			t.Fatalf("summary missing %q:\n%s", fragment, summary)
		}
	}
}

func TestFormatCriticalAlert(t *testing.T) {
	text := FormatCriticalAlert(AssessmentResult{
		ProjectNumber:       "PX-1042",
		VarianceCount:       2,
		DelayedCount:        2,
		MaxDelayDays:        9,
		CriticalDepartments: []string{"Fabrication", "FSW"},
		ReportPath:          "/reports/x.pdf",
	})
	for _, fragment := range []string{"PX-1042", "Fabrication, FSW", "max delay 9 days", "/reports/x.pdf"} {
		if !strings.Contains(text, fragment) {
			t.Fatalf("alert missing %q:\n%s", fragment, text)
		}
	}
}
