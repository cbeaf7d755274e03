package explore

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/kai-do/fire-department-response-times-analysis/internal/registry"
)

// Store caches department attributes and per-year incident counts in an
// embedded SQLite database so the year join and averaging run as SQL.
// Use ":memory:" for a throwaway store.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS departments (
    fdid TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    hq_state TEXT NOT NULL,
    county TEXT,
    dept_type TEXT NOT NULL,
    organization_type TEXT NOT NULL,
    number_of_stations INTEGER NOT NULL,
    active_firefighters_career INTEGER NOT NULL,
    active_firefighters_volunteer INTEGER NOT NULL,
    active_firefighters_paid_per_call INTEGER NOT NULL,
    civilian_personnel_career INTEGER NOT NULL,
    civilian_personnel_volunteer INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS incident_counts (
    fdid TEXT NOT NULL,
    year INTEGER NOT NULL,
    incidents INTEGER NOT NULL,
    PRIMARY KEY (fdid, year)
);

CREATE INDEX IF NOT EXISTS idx_incident_counts_fdid ON incident_counts(fdid);
`

// OpenStore opens (or creates) the store at path and ensures the schema.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	// SQLite allows one writer, and a pooled second connection to
	// ":memory:" would see a different empty database.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// LoadRegistry upserts department attribute rows. Records sharing an FDID
// keep the last occurrence.
func (s *Store) LoadRegistry(records []registry.DepartmentRecord) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO departments
        (fdid, name, hq_state, county, dept_type, organization_type,
         number_of_stations, active_firefighters_career, active_firefighters_volunteer,
         active_firefighters_paid_per_call, civilian_personnel_career, civilian_personnel_volunteer)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare departments: %w", err)
	}
	defer stmt.Close()
	for i := range records {
		r := &records[i]
		if _, err := stmt.Exec(r.FDID, r.Name, r.HQState, r.County, r.DeptType, r.OrgType,
			r.Stations, r.CareerFirefighters, r.VolunteerFirefighters,
			r.PaidPerCallFirefighters, r.CivilianCareer, r.CivilianVolunteer); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert department %s: %w", r.FDID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit departments: %w", err)
	}
	return nil
}

// AddIncidentCounts upserts per-year incident counts.
func (s *Store) AddIncidentCounts(counts []IncidentCount) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO incident_counts (fdid, year, incidents) VALUES (?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare incident_counts: %w", err)
	}
	defer stmt.Close()
	for _, c := range counts {
		if _, err := stmt.Exec(c.FDID, c.Year, c.Incidents); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert incidents %s/%d: %w", c.FDID, c.Year, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit incident_counts: %w", err)
	}
	return nil
}

// FeatureRow is one department's feature vector: the registry staffing
// counts plus its incident count averaged over the years present.
// Values are parallel to FeatureNames.
type FeatureRow struct {
	FDID     string
	Name     string
	DeptType string
	OrgType  string
	Values   []float64
}

var featureNames = []string{
	"number_of_stations",
	"active_firefighters_career",
	"active_firefighters_volunteer",
	"active_firefighters_paid_per_call",
	"civilian_personnel_career",
	"civilian_personnel_volunteer",
	"avg_annual_incidents",
}

// FeatureNames returns the feature columns in vector order.
func FeatureNames() []string {
	out := make([]string, len(featureNames))
	copy(out, featureNames)
	return out
}

// AverageIncidents joins departments to their incident counts and averages
// over years. Departments with no incident data are excluded; row order is
// deterministic (by FDID).
func (s *Store) AverageIncidents() ([]FeatureRow, error) {
	rows, err := s.db.Query(`
        SELECT d.fdid, d.name, d.dept_type, d.organization_type,
               d.number_of_stations, d.active_firefighters_career,
               d.active_firefighters_volunteer, d.active_firefighters_paid_per_call,
               d.civilian_personnel_career, d.civilian_personnel_volunteer,
               AVG(i.incidents)
        FROM departments d
        JOIN incident_counts i ON i.fdid = d.fdid
        GROUP BY d.fdid
        ORDER BY d.fdid`)
	if err != nil {
		return nil, fmt.Errorf("query averages: %w", err)
	}
	defer rows.Close()

	var out []FeatureRow
	for rows.Next() {
		var fr FeatureRow
		var stations, career, vol, ppc, civCareer, civVol int
		var avg float64
		if err := rows.Scan(&fr.FDID, &fr.Name, &fr.DeptType, &fr.OrgType,
			&stations, &career, &vol, &ppc, &civCareer, &civVol, &avg); err != nil {
			return nil, fmt.Errorf("scan average row: %w", err)
		}
		fr.Values = []float64{
			float64(stations), float64(career), float64(vol),
			float64(ppc), float64(civCareer), float64(civVol), avg,
		}
		out = append(out, fr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate averages: %w", err)
	}
	return out, nil
}

// Summary describes what the store currently holds.
type Summary struct {
	Departments      int
	WithIncidentData int
	Years            int
}

// Summarize counts departments, join coverage, and distinct years.
func (s *Store) Summarize() (*Summary, error) {
	var sum Summary
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM departments`).Scan(&sum.Departments); err != nil {
		return nil, fmt.Errorf("count departments: %w", err)
	}
	if err := s.db.QueryRow(`SELECT COUNT(DISTINCT fdid) FROM incident_counts
        WHERE fdid IN (SELECT fdid FROM departments)`).Scan(&sum.WithIncidentData); err != nil {
		return nil, fmt.Errorf("count joined departments: %w", err)
	}
	if err := s.db.QueryRow(`SELECT COUNT(DISTINCT year) FROM incident_counts`).Scan(&sum.Years); err != nil {
		return nil, fmt.Errorf("count years: %w", err)
	}
	return &sum, nil
}
