package main

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

var reportGeneratedAt = time.Date(2024, 4, 2, 9, 30, 0, 0, time.UTC)

func sampleAssessment() (Project, []Variance, []DepartmentImpact) {
	p := Project{
		ProjectNumber:      "PX-1042",
		Name:               "Mobile Command Unit 7",
		FabricationStart:   "2024-03-10",
		OpFabricationStart: "2024-03-01",
		ShipDate:           "2024-06-05",
		OpShipDate:         "2024-06-01",
	}
	variances := ComputeVariances(p, ScheduleFieldPairs)
	return p, variances, DeriveImpacts(variances)
}

func TestBuildReportSectionsOrdering(t *testing.T) {
	_, variances, impacts := sampleAssessment()
	insight := fallbackInsight()

	got := buildReportSections(variances, impacts, &insight)
	want := []string{"title", "project", "tiles", "summary", "variances", "departments", "insights"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("section order mismatch:\nwant %v\ngot  %v", want, got)
	}
}

func TestBuildReportSectionsZeroVariance(t *testing.T) {
	got := buildReportSections(nil, nil, nil)
	want := []string{"title", "project", "tiles", "summary", "variances"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("zero-variance report should omit department and insight sections:\nwant %v\ngot  %v", want, got)
	}
}

func TestBuildSummaryTilesColors(t *testing.T) {
	// Clean project: all green (department tile blue baseline).
	tiles := buildSummaryTiles(nil, nil)
	if tiles[0].Color != tileGreen || tiles[1].Color != tileBlue || tiles[2].Color != tileGreen {
		t.Fatalf("clean project tile colors wrong: %+v", tiles)
	}
	if tiles[0].Value != "0" || tiles[2].Value != "0 days" {
		t.Fatalf("clean project tile values wrong: %+v", tiles)
	}

	// Delayed project with a critical department and a 9-day slip.
	_, variances, impacts := sampleAssessment()
	tiles = buildSummaryTiles(variances, impacts)
	if tiles[0].Color != tileRed {
		t.Fatalf("delayed variances should redden the variance tile, got %s", tiles[0].Color)
	}
	if tiles[1].Color != tileRed {
		t.Fatalf("critical department should redden the department tile, got %s", tiles[1].Color)
	}
	if tiles[2].Color != tileAmber {
		t.Fatalf("9-day max delay should be amber, got %s", tiles[2].Color)
	}
	if tiles[0].Subtitle != "2 delayed / 0 advanced" {
		t.Fatalf("unexpected variance split subtitle: %q", tiles[0].Subtitle)
	}
}

func TestBuildSummaryTilesMaxDelayThresholds(t *testing.T) {
	mk := func(days int) []Variance {
		return []Variance{{Field: "shipDate", DaysDifference: days, IsDelayed: true}}
	}
	if tiles := buildSummaryTiles(mk(5), nil); tiles[2].Color != tileGreen {
		t.Fatalf("5-day delay should be green, got %s", tiles[2].Color)
	}
	if tiles := buildSummaryTiles(mk(6), nil); tiles[2].Color != tileAmber {
		t.Fatalf("6-day delay should be amber, got %s", tiles[2].Color)
	}
	if tiles := buildSummaryTiles(mk(11), nil); tiles[2].Color != tileRed {
		t.Fatalf("11-day delay should be red, got %s", tiles[2].Color)
	}
}

func TestFormatSignedDays(t *testing.T) {
	if got := formatSignedDays(9); got != "+9" {
		t.Fatalf("expected +9, got %q", got)
	}
	if got := formatSignedDays(-4); got != "-4" {
		t.Fatalf("expected -4, got %q", got)
	}
}

func TestReportFilename(t *testing.T) {
	got := ReportFilename("PX-1042", reportGeneratedAt)
	if got != "Impact-Assessment-PX-1042-2024-04-02.pdf" {
		t.Fatalf("unexpected filename: %q", got)
	}
	if got := ReportFilename("PX 10/42", reportGeneratedAt); got != "Impact-Assessment-PX_10_42-2024-04-02.pdf" {
		t.Fatalf("unsafe characters not sanitized: %q", got)
	}
}

func TestBuildExecutiveSummaryInterpolatesCounts(t *testing.T) {
	project, variances, impacts := sampleAssessment()
	summary := buildExecutiveSummary(project, variances, impacts)
	for _, fragment := range []string{"PX-1042", "2 schedule variance", "2 delayed", "maximum delay of 9 day"} {
		if !bytes.Contains([]byte(summary), []byte(fragment)) {
			t.Fatalf("summary missing %q:\n%s", fragment, summary)
		}
	}

	clean := buildExecutiveSummary(project, nil, nil)
	if !bytes.Contains([]byte(clean), []byte("tracking to its baseline")) {
		t.Fatalf("clean summary wording changed:\n%s", clean)
	}
}

func TestRenderImpactReportWritesPDF(t *testing.T) {
	cfg := Config{ReportOutputDir: t.TempDir(), ProductName: "ImpactBot"}
	project, variances, impacts := sampleAssessment()
	insight := fallbackInsight()

	path, err := RenderImpactReport(cfg, project, variances, impacts, &insight, reportGeneratedAt)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if filepath.Base(path) != "Impact-Assessment-PX-1042-2024-04-02.pdf" {
		t.Fatalf("unexpected report path: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("report not readable: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("file is not a PDF (starts with %q)", data[:8])
	}

	// Re-rendering the same assessment must regenerate, not corrupt.
	path2, err := RenderImpactReport(cfg, project, variances, impacts, &insight, reportGeneratedAt)
	if err != nil {
		t.Fatalf("re-render failed: %v", err)
	}
	if path2 != path {
		t.Fatalf("re-render changed the path: %s vs %s", path, path2)
	}
	data2, err := os.ReadFile(path2)
	if err != nil || !bytes.HasPrefix(data2, []byte("%PDF")) {
		t.Fatalf("re-rendered file corrupt: err=%v", err)
	}
}

func TestRenderImpactReportZeroVariance(t *testing.T) {
	cfg := Config{ReportOutputDir: t.TempDir(), ProductName: "ImpactBot"}
	project := Project{ProjectNumber: "PX-2000", Name: "Baseline Unit"}

	path, err := RenderImpactReport(cfg, project, nil, nil, nil, reportGeneratedAt)
	if err != nil {
		t.Fatalf("zero-variance render must succeed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("report not written: %v", err)
	}
}

func TestRenderImpactReportLongListsPaginate(t *testing.T) {
	cfg := Config{ReportOutputDir: t.TempDir(), ProductName: "ImpactBot"}

	// Enough delayed milestones to fire every rule and push content well
	// past one page; the render must still succeed.
	p := Project{ProjectNumber: "PX-3000", Name: "Everything Slipped"}
	p.ContractDate, p.OpContractDate = "2024-02-01", "2024-01-01"
	p.ChassisETA, p.OpChassisETA = "2024-02-02", "2024-01-02"
	p.MechShop, p.OpMechShop = "2024-02-03", "2024-01-03"
	p.FabricationStart, p.OpFabricationStart = "2024-02-04", "2024-01-04"
	p.PaintStart, p.OpPaintStart = "2024-02-05", "2024-01-05"
	p.ProductionStart, p.OpProductionStart = "2024-02-06", "2024-01-06"
	p.ITStart, p.OpITStart = "2024-02-07", "2024-01-07"
	p.WrapDate, p.OpWrapDate = "2024-02-08", "2024-01-08"
	p.NTCTestingDate, p.OpNTCTestingDate = "2024-02-09", "2024-01-09"
	p.QCStartDate, p.OpQCStartDate = "2024-02-10", "2024-01-10"
	p.ExecutiveReviewDate, p.OpExecutiveReviewDate = "2024-02-11", "2024-01-11"
	p.ShipDate, p.OpShipDate = "2024-02-12", "2024-01-12"
	p.DeliveryDate, p.OpDeliveryDate = "2024-02-13", "2024-01-13"

	variances := ComputeVariances(p, ScheduleFieldPairs)
	if len(variances) != 13 {
		t.Fatalf("expected all 13 pairs to vary, got %d", len(variances))
	}
	impacts := DeriveImpacts(variances)
	insight := fallbackInsight()

	path, err := RenderImpactReport(cfg, p, variances, impacts, &insight, reportGeneratedAt)
	if err != nil {
		t.Fatalf("multi-page render failed: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil || info.Size() == 0 {
		t.Fatalf("multi-page report not written: %v", err)
	}
}
