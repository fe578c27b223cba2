package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-pdf/fpdf"
)

// tileColor codes a summary tile by severity.
type tileColor string

const (
	tileGreen tileColor = "green"
	tileAmber tileColor = "amber"
	tileBlue  tileColor = "blue"
	tileRed   tileColor = "red"
)

type summaryTile struct {
	Title    string
	Value    string
	Subtitle string
	Color    tileColor
}

// buildSummaryTiles derives the three metric tiles. Thresholds are fixed:
// any delay reddens the variance tile; any critical department reddens the
// department tile (high -> amber, otherwise blue); max delay over 10 days
// is red, over 5 amber, otherwise green.
func buildSummaryTiles(variances []Variance, impacts []DepartmentImpact) []summaryTile {
	delayed, advanced := SplitDelayedAdvanced(variances)
	critical, high := SplitCriticalHigh(impacts)
	maxDelay := MaxDelayDays(variances)

	varianceColor := tileGreen
	if delayed > 0 {
		varianceColor = tileRed
	}

	departmentColor := tileBlue
	if critical > 0 {
		departmentColor = tileRed
	} else if high > 0 {
		departmentColor = tileAmber
	}

	delayColor := tileGreen
	if maxDelay > 10 {
		delayColor = tileRed
	} else if maxDelay > 5 {
		delayColor = tileAmber
	}

	return []summaryTile{
		{
			Title:    "Schedule Variances",
			Value:    fmt.Sprintf("%d", len(variances)),
			Subtitle: fmt.Sprintf("%d delayed / %d advanced", delayed, advanced),
			Color:    varianceColor,
		},
		{
			Title:    "Departments Affected",
			Value:    fmt.Sprintf("%d", len(impacts)),
			Subtitle: fmt.Sprintf("%d critical / %d high", critical, high),
			Color:    departmentColor,
		},
		{
			Title:    "Max Delay",
			Value:    fmt.Sprintf("%d days", maxDelay),
			Subtitle: "largest milestone slip",
			Color:    delayColor,
		},
	}
}

// buildExecutiveSummary interpolates the tile counts into the narrative
// paragraph that opens the report body.
func buildExecutiveSummary(project Project, variances []Variance, impacts []DepartmentImpact) string {
	if len(variances) == 0 {
		return fmt.Sprintf("Project %s (%s) is tracking to its baseline schedule. "+
			"No milestone variances were detected and no department impacts apply.",
			project.Name, project.ProjectNumber)
	}
	delayed, advanced := SplitDelayedAdvanced(variances)
	critical, high := SplitCriticalHigh(impacts)
	maxDelay := MaxDelayDays(variances)
	return fmt.Sprintf("Project %s (%s) shows %d schedule variance(s): %d delayed and %d advanced, "+
		"with a maximum delay of %d day(s). %d department(s) are affected, "+
		"%d at critical and %d at high impact. Mitigation actions are listed per department below.",
		project.Name, project.ProjectNumber, len(variances), delayed, advanced,
		maxDelay, len(impacts), critical, high)
}

// formatSignedDays renders a variance delta with the explicit-plus
// convention used in the variance table.
func formatSignedDays(days int) string {
	if days > 0 {
		return fmt.Sprintf("+%d", days)
	}
	return fmt.Sprintf("%d", days)
}

func varianceStateLabel(v Variance) string {
	if v.IsDelayed {
		return "Delayed"
	}
	return "Advanced"
}

// buildReportSections returns the ordered section names the renderer will
// write. The order is a contract; tests assert it directly instead of
// parsing PDF bytes.
func buildReportSections(variances []Variance, impacts []DepartmentImpact, insights *AIInsight) []string {
	sections := []string{"title", "project", "tiles", "summary", "variances"}
	if len(impacts) > 0 {
		sections = append(sections, "departments")
	}
	if insights != nil {
		sections = append(sections, "insights")
	}
	return sections
}

// ReportFilename is Impact-Assessment-<projectNumber>-<YYYY-MM-DD>.pdf.
func ReportFilename(projectNumber string, generatedAt time.Time) string {
	return fmt.Sprintf("Impact-Assessment-%s-%s.pdf", sanitizeFilename(projectNumber), generatedAt.Format("2006-01-02"))
}

func sanitizeFilename(s string) string {
	out := []rune(s)
	for i, r := range out {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			out[i] = '_'
		}
	}
	return string(out)
}

var tileRGB = map[tileColor][3]int{
	tileGreen: {22, 133, 62},
	tileAmber: {204, 138, 0},
	tileBlue:  {37, 99, 195},
	tileRed:   {190, 30, 45},
}

var levelRGB = map[ImpactLevel][3]int{
	ImpactLow:      {37, 99, 195},
	ImpactMedium:   {204, 138, 0},
	ImpactHigh:     {214, 90, 20},
	ImpactCritical: {190, 30, 45},
}

var severityRGB = map[string][3]int{
	"info":    {37, 99, 195},
	"warning": {204, 138, 0},
	"danger":  {190, 30, 45},
}

const (
	pageMarginMM   = 15.0
	bodyFontSize   = 10.0
	footerMarginMM = 18.0
)

// RenderImpactReport assembles the PDF and saves it atomically under
// cfg.ReportOutputDir. On any assembly error nothing is written, so a
// retry can never leave a corrupt file behind. Returns the saved path.
func RenderImpactReport(cfg Config, project Project, variances []Variance, impacts []DepartmentImpact, insights *AIInsight, generatedAt time.Time) (string, error) {
	var buf bytes.Buffer
	if err := writeImpactPDF(&buf, cfg.ProductName, project, variances, impacts, insights, generatedAt); err != nil {
		return "", fmt.Errorf("assembling report: %w", err)
	}

	if err := os.MkdirAll(cfg.ReportOutputDir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(cfg.ReportOutputDir, ReportFilename(project.ProjectNumber, generatedAt))
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0644); err != nil {
		return "", err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return "", err
	}
	return path, nil
}

func writeImpactPDF(out *bytes.Buffer, productName string, project Project, variances []Variance, impacts []DepartmentImpact, insights *AIInsight, generatedAt time.Time) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMarginMM, pageMarginMM, pageMarginMM)
	pdf.SetAutoPageBreak(false, footerMarginMM)
	pdf.AliasNbPages("")

	timestamp := generatedAt.Format("2006-01-02 15:04 MST")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Helvetica", "", 8)
		pdf.SetTextColor(120, 120, 120)
		pdf.CellFormat(0, 5,
			fmt.Sprintf("%s  |  Generated %s  |  Page %d of {nb}", productName, timestamp, pdf.PageNo()),
			"", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	for _, section := range buildReportSections(variances, impacts, insights) {
		switch section {
		case "title":
			writeTitleBlock(pdf, productName)
		case "project":
			writeProjectBlock(pdf, project, timestamp)
		case "tiles":
			writeTileRow(pdf, buildSummaryTiles(variances, impacts))
		case "summary":
			writeSummaryBlock(pdf, buildExecutiveSummary(project, variances, impacts))
		case "variances":
			writeVarianceTable(pdf, variances)
		case "departments":
			writeDepartmentBlocks(pdf, impacts)
		case "insights":
			writeInsightBlock(pdf, *insights)
		}
	}

	return pdf.Output(out)
}

// ensureSpace starts a new page when fewer than needed millimeters remain
// above the footer. Callers check before every block and every bullet so
// long lists never overflow a page boundary.
func ensureSpace(pdf *fpdf.Fpdf, needed float64) {
	_, pageHeight := pdf.GetPageSize()
	if pdf.GetY()+needed > pageHeight-footerMarginMM {
		pdf.AddPage()
	}
}

func writeTitleBlock(pdf *fpdf.Fpdf, productName string) {
	pdf.SetFont("Helvetica", "B", 20)
	pdf.SetTextColor(30, 30, 30)
	pdf.CellFormat(0, 12, "Impact Assessment Report", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(110, 110, 110)
	pdf.CellFormat(0, 6, productName+" Schedule Variance Analysis", "", 1, "L", false, 0, "")
	pdf.Ln(4)
}

func writeProjectBlock(pdf *fpdf.Fpdf, project Project, timestamp string) {
	ensureSpace(pdf, 22)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(30, 30, 30)
	pdf.CellFormat(0, 7, project.Name, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(80, 80, 80)
	pdf.CellFormat(0, 6, "Project Number: "+project.ProjectNumber, "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Generated: "+timestamp, "", 1, "L", false, 0, "")
	pdf.Ln(4)
}

func writeTileRow(pdf *fpdf.Fpdf, tiles []summaryTile) {
	const tileHeight = 26.0
	ensureSpace(pdf, tileHeight+6)

	pageWidth, _ := pdf.GetPageSize()
	usable := pageWidth - 2*pageMarginMM
	gap := 4.0
	tileWidth := (usable - gap*float64(len(tiles)-1)) / float64(len(tiles))

	top := pdf.GetY()
	x := pageMarginMM
	for _, tile := range tiles {
		rgb := tileRGB[tile.Color]
		pdf.SetFillColor(rgb[0], rgb[1], rgb[2])
		pdf.Rect(x, top, tileWidth, tileHeight, "F")

		pdf.SetXY(x+3, top+3)
		pdf.SetFont("Helvetica", "", 8)
		pdf.SetTextColor(255, 255, 255)
		pdf.CellFormat(tileWidth-6, 4, tile.Title, "", 0, "L", false, 0, "")

		pdf.SetXY(x+3, top+9)
		pdf.SetFont("Helvetica", "B", 15)
		pdf.CellFormat(tileWidth-6, 8, tile.Value, "", 0, "L", false, 0, "")

		pdf.SetXY(x+3, top+18)
		pdf.SetFont("Helvetica", "", 7.5)
		pdf.CellFormat(tileWidth-6, 4, tile.Subtitle, "", 0, "L", false, 0, "")

		x += tileWidth + gap
	}
	pdf.SetXY(pageMarginMM, top+tileHeight+6)
}

func writeSummaryBlock(pdf *fpdf.Fpdf, summary string) {
	ensureSpace(pdf, 20)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(30, 30, 30)
	pdf.CellFormat(0, 7, "Executive Summary", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", bodyFontSize)
	pdf.SetTextColor(50, 50, 50)
	pdf.MultiCell(0, 5, summary, "", "L", false)
	pdf.Ln(4)
}

func writeVarianceTable(pdf *fpdf.Fpdf, variances []Variance) {
	ensureSpace(pdf, 20)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(30, 30, 30)
	pdf.CellFormat(0, 7, "Schedule Variances", "", 1, "L", false, 0, "")

	if len(variances) == 0 {
		pdf.SetFont("Helvetica", "I", bodyFontSize)
		pdf.SetTextColor(110, 110, 110)
		pdf.CellFormat(0, 6, "All tracked milestones match their baseline dates.", "", 1, "L", false, 0, "")
		pdf.Ln(4)
		return
	}

	widths := []float64{50, 32, 32, 32, 34}
	headers := []string{"Phase", "Original Date", "Current Date", "Variance", "Status"}

	writeHeader := func() {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(235, 235, 235)
		pdf.SetTextColor(30, 30, 30)
		for i, h := range headers {
			pdf.CellFormat(widths[i], 7, h, "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
	}
	writeHeader()

	for _, v := range variances {
		ensureSpace(pdf, 7)
		if pdf.GetY() == pageMarginMM { // ensureSpace started a fresh page
			writeHeader()
		}
		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(50, 50, 50)
		pdf.CellFormat(widths[0], 6, v.DisplayName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 6, v.BaselineDate.Format("2006-01-02"), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 6, v.CurrentDate.Format("2006-01-02"), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[3], 6, formatSignedDays(v.DaysDifference)+" days", "1", 0, "R", false, 0, "")
		if v.IsDelayed {
			pdf.SetTextColor(190, 30, 45)
		} else {
			pdf.SetTextColor(22, 133, 62)
		}
		pdf.CellFormat(widths[4], 6, varianceStateLabel(v), "1", 0, "L", false, 0, "")
		pdf.Ln(-1)
	}
	pdf.Ln(4)
}

func writeDepartmentBlocks(pdf *fpdf.Fpdf, impacts []DepartmentImpact) {
	ensureSpace(pdf, 20)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(30, 30, 30)
	pdf.CellFormat(0, 7, "Department Impacts", "", 1, "L", false, 0, "")
	pdf.Ln(1)

	for _, imp := range impacts {
		ensureSpace(pdf, 18)

		rgb := levelRGB[imp.ImpactLevel]
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetTextColor(30, 30, 30)
		pdf.CellFormat(60, 6, imp.Department, "", 0, "L", false, 0, "")
		pdf.SetTextColor(rgb[0], rgb[1], rgb[2])
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(0, 6, string(imp.ImpactLevel), "", 1, "L", false, 0, "")

		pdf.SetFont("Helvetica", "", bodyFontSize)
		pdf.SetTextColor(50, 50, 50)
		pdf.MultiCell(0, 5, imp.Description, "", "L", false)

		writeBulletList(pdf, "Specific Impacts", imp.SpecificImpacts)
		writeBulletList(pdf, "Mitigation Actions", imp.MitigationActions)

		if imp.EstimatedCost != "" {
			ensureSpace(pdf, 6)
			pdf.SetFont("Helvetica", "", 9)
			pdf.CellFormat(0, 5, "Estimated Cost Impact: "+imp.EstimatedCost, "", 1, "L", false, 0, "")
		}
		if imp.TimelineImpact != "" {
			ensureSpace(pdf, 6)
			pdf.SetFont("Helvetica", "", 9)
			pdf.CellFormat(0, 5, "Timeline Impact: "+imp.TimelineImpact, "", 1, "L", false, 0, "")
		}
		pdf.Ln(3)
	}
}

// writeBulletList page-checks each bullet individually so a long
// mitigation list cannot run past the footer.
func writeBulletList(pdf *fpdf.Fpdf, title string, items []string) {
	if len(items) == 0 {
		return
	}
	ensureSpace(pdf, 6)
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(70, 70, 70)
	pdf.CellFormat(0, 5, title+":", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(50, 50, 50)
	for _, item := range items {
		ensureSpace(pdf, 5)
		pdf.SetX(pageMarginMM + 4)
		pdf.MultiCell(0, 5, "- "+item, "", "L", false)
	}
}

func writeInsightBlock(pdf *fpdf.Fpdf, insight AIInsight) {
	ensureSpace(pdf, 20)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(30, 30, 30)
	pdf.CellFormat(0, 7, "AI Insights", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", bodyFontSize)
	pdf.SetTextColor(50, 50, 50)
	pdf.MultiCell(0, 5, insight.Summary, "", "L", false)
	pdf.Ln(1)

	for _, entry := range insight.Insights {
		ensureSpace(pdf, 10)
		rgb, ok := severityRGB[entry.Severity]
		if !ok {
			rgb = severityRGB["info"]
		}
		pdf.SetFont("Helvetica", "B", 9.5)
		pdf.SetTextColor(rgb[0], rgb[1], rgb[2])
		pdf.MultiCell(0, 5, entry.Text, "", "L", false)
		if entry.Detail != "" {
			ensureSpace(pdf, 5)
			pdf.SetFont("Helvetica", "", 9)
			pdf.SetTextColor(80, 80, 80)
			pdf.SetX(pageMarginMM + 4)
			pdf.MultiCell(0, 5, entry.Detail, "", "L", false)
		}
		pdf.Ln(1)
	}

	ensureSpace(pdf, 6)
	pdf.SetFont("Helvetica", "I", 8.5)
	pdf.SetTextColor(110, 110, 110)
	pdf.CellFormat(0, 5, fmt.Sprintf("Confidence: %.0f%%", insight.Confidence*100), "", 1, "L", false, 0, "")
}
