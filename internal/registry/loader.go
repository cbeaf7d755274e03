package registry

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/kai-do/fire-department-response-times-analysis/internal/labels"
)

// Required registry columns in normalized form. Raw headers may carry dots
// and spaces; they are normalized before matching. Extra input columns are
// ignored.
var requiredColumns = []string{
	"fdid",
	"fire_dept_name",
	"hq_city",
	"hq_state",
	"county",
	"dept_type",
	"organization_type",
	"number_of_stations",
	"active_firefighters_career",
	"active_firefighters_volunteer",
	"active_firefighters_paid_per_call",
	"civilian_personnel_career",
	"civilian_personnel_volunteer",
	"primary_emergency_mgmt_agency",
}

var countColumns = []string{
	"number_of_stations",
	"active_firefighters_career",
	"active_firefighters_volunteer",
	"active_firefighters_paid_per_call",
	"civilian_personnel_career",
	"civilian_personnel_volunteer",
}

// RequiredColumns returns the normalized column whitelist in schema order.
func RequiredColumns() []string {
	out := make([]string, len(requiredColumns))
	copy(out, requiredColumns)
	return out
}

// ColumnKind classifies a required column: "count" for numeric staffing
// columns, "tri-state" for yes/no/unknown, "text" otherwise.
func ColumnKind(name string) string {
	for _, c := range countColumns {
		if c == name {
			return "count"
		}
	}
	if name == "primary_emergency_mgmt_agency" {
		return "tri-state"
	}
	return "text"
}

// SchemaError reports required input columns that are absent from the header.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("input schema missing required columns: %s", strings.Join(e.Missing, ", "))
}

// Options controls registry loading.
type Options struct {
	// Delimiter for delimited input. If 0, detects from the file extension
	// (.tsv/.tab mean tab, everything else comma). Ignored for workbooks.
	Delimiter rune
	// MaxRows limits rows processed; 0 means unlimited.
	MaxRows int
	// Sheet selects a worksheet by name for .xlsx input. When empty,
	// SheetIndex picks by 1-based position, 0 meaning the first sheet.
	Sheet      string
	SheetIndex int
}

// LoadResult carries the loaded records, the enumerations observed while
// loading, and any warnings worth surfacing.
type LoadResult struct {
	Source    string
	Records   []DepartmentRecord
	DeptTypes *LevelSet
	OrgTypes  *LevelSet
	Rows      int
	Warnings  []string
}

// LoadFile reads a registry file into typed records. CSV and TSV exports
// are read directly; .xlsx workbooks go through the worksheet reader.
// Missing required columns are a fatal SchemaError naming every absent
// column; unrecognized categorical values become new enumeration members.
func LoadFile(path string, opt Options) (*LoadResult, error) {
	if strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		return loadWorkbook(path, opt)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open registry: %w", err)
	}
	defer f.Close()
	delim := opt.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(path)
	}
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.Comma = delim
	return load(filepath.Base(path), r.Read, opt)
}

// load drains rows from next, which yields io.EOF after the last row.
func load(name string, next func() ([]string, error), opt Options) (*LoadResult, error) {
	header, err := next()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &SchemaError{Missing: RequiredColumns()}
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	colIdx := make(map[string]int, len(header))
	for i, h := range header {
		key := labels.Normalize(strings.TrimSpace(h))
		if _, ok := colIdx[key]; !ok {
			colIdx[key] = i
		}
	}
	var missing []string
	for _, col := range requiredColumns {
		if _, ok := colIdx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Missing: missing}
	}

	res := &LoadResult{
		Source:    name,
		DeptTypes: NewLevelSet("dept_type"),
		OrgTypes:  NewLevelSet("organization_type"),
	}
	maxRows := opt.MaxRows
	if maxRows <= 0 {
		maxRows = int(^uint(0) >> 1)
	}
	malformed := map[string]int{}

	for {
		rec, err := next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row %d: %w", res.Rows+1, err)
		}
		res.Rows++
		if len(res.Records) >= maxRows {
			continue
		}
		field := func(col string) string {
			i := colIdx[col]
			if i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}
		count := func(col string) int {
			return parseCount(field(col), col, malformed)
		}

		d := DepartmentRecord{
			FDID:                    field("fdid"),
			Name:                    field("fire_dept_name"),
			HQCity:                  field("hq_city"),
			HQState:                 field("hq_state"),
			County:                  field("county"),
			Stations:                count("number_of_stations"),
			CareerFirefighters:      count("active_firefighters_career"),
			VolunteerFirefighters:   count("active_firefighters_volunteer"),
			PaidPerCallFirefighters: count("active_firefighters_paid_per_call"),
			CivilianCareer:          count("civilian_personnel_career"),
			CivilianVolunteer:       count("civilian_personnel_volunteer"),
			PrimaryEMAgency:         ParseTriState(field("primary_emergency_mgmt_agency")),
		}
		d.DeptType = res.DeptTypes.Add(field("dept_type"))
		d.OrgType = res.OrgTypes.Add(field("organization_type"))
		res.Records = append(res.Records, d)
	}

	if res.Rows > len(res.Records) {
		res.Warnings = append(res.Warnings, fmt.Sprintf("processed only %d/%d rows due to MaxRows", len(res.Records), res.Rows))
	}
	for _, col := range countColumns {
		if n := malformed[col]; n > 0 {
			res.Warnings = append(res.Warnings, fmt.Sprintf("%d non-numeric value(s) in %s coerced to zero", n, col))
		}
	}
	return res, nil
}

// parseCount coerces a count cell to an integer. Blanks are zero; anything
// non-numeric is zero with the column flagged for a warning.
func parseCount(s, col string, malformed map[string]int) int {
	if s == "" {
		return 0
	}
	s = strings.ReplaceAll(s, ",", "")
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		malformed[col]++
		return 0
	}
	return n
}

func sniffDelimiter(path string) rune {
	name := strings.ToLower(path)
	if strings.HasSuffix(name, ".tsv") || strings.HasSuffix(name, ".tab") {
		return '\t'
	}
	return ','
}
