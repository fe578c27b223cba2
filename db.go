package main

import (
	"database/sql"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// AssessmentRecord is one row of assessment history: a snapshot of the
// derived counters plus the saved report path. The variances themselves
// are never persisted; they are recomputed from project state.
type AssessmentRecord struct {
	ID                  int64
	ProjectNumber       string
	ProjectName         string
	VarianceCount       int
	DelayedCount        int
	MaxDelayDays        int
	CriticalDepartments string // comma-separated
	ReportPath          string
	GeneratedAt         time.Time
}

func InitDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	schema := `
	CREATE TABLE IF NOT EXISTS assessments (
		id                   INTEGER PRIMARY KEY AUTOINCREMENT,
		project_number       TEXT NOT NULL,
		project_name         TEXT DEFAULT '',
		variance_count       INTEGER NOT NULL DEFAULT 0,
		delayed_count        INTEGER NOT NULL DEFAULT 0,
		max_delay_days       INTEGER NOT NULL DEFAULT 0,
		critical_departments TEXT DEFAULT '',
		report_path          TEXT DEFAULT '',
		generated_at         DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_assessments_project ON assessments(project_number);
	CREATE INDEX IF NOT EXISTS idx_assessments_generated ON assessments(generated_at);
	`
	_, err = db.Exec(schema)
	if err != nil {
		return nil, err
	}

	return db, nil
}

func InsertAssessment(db *sql.DB, rec AssessmentRecord) (int64, error) {
	res, err := db.Exec(
		`INSERT INTO assessments (project_number, project_name, variance_count, delayed_count, max_delay_days, critical_departments, report_path, generated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ProjectNumber, rec.ProjectName, rec.VarianceCount, rec.DelayedCount,
		rec.MaxDelayDays, rec.CriticalDepartments, rec.ReportPath, rec.GeneratedAt,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// LatestAssessment returns the most recent run for a project, or
// sql.ErrNoRows when none exists.
func LatestAssessment(db *sql.DB, projectNumber string) (AssessmentRecord, error) {
	row := db.QueryRow(
		`SELECT id, project_number, project_name, variance_count, delayed_count, max_delay_days, critical_departments, report_path, generated_at
		 FROM assessments WHERE project_number = ? ORDER BY generated_at DESC, id DESC LIMIT 1`,
		projectNumber,
	)
	return scanAssessment(row)
}

// RecentAssessments returns the newest runs across all projects.
func RecentAssessments(db *sql.DB, limit int) ([]AssessmentRecord, error) {
	rows, err := db.Query(
		`SELECT id, project_number, project_name, variance_count, delayed_count, max_delay_days, critical_departments, report_path, generated_at
		 FROM assessments ORDER BY generated_at DESC, id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AssessmentRecord
	for rows.Next() {
		rec, err := scanAssessment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAssessment(row rowScanner) (AssessmentRecord, error) {
	var rec AssessmentRecord
	err := row.Scan(
		&rec.ID, &rec.ProjectNumber, &rec.ProjectName, &rec.VarianceCount,
		&rec.DelayedCount, &rec.MaxDelayDays, &rec.CriticalDepartments,
		&rec.ReportPath, &rec.GeneratedAt,
	)
	return rec, err
}

func joinDepartments(departments []string) string {
	return strings.Join(departments, ",")
}
