package explore

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/kai-do/fire-department-response-times-analysis/internal/labels"
	"github.com/kai-do/fire-department-response-times-analysis/internal/registry"
)

// IncidentCount is one department-year incident total.
type IncidentCount struct {
	FDID      string
	Year      int
	Incidents int
}

var incidentColumns = []string{"fdid", "year", "incidents"}

// LoadIncidentFile reads a delimited incident file. Headers are matched
// after normalization, so "FDID,Year,Incidents" and "fdid,year,incidents"
// are the same schema. Rows with a blank FDID or a malformed year or count
// are skipped, not coerced: a fabricated zero would drag the average down.
// Pass delimiter 0 to infer it from the file extension.
func LoadIncidentFile(path string, delimiter rune) ([]IncidentCount, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open incident file: %w", err)
	}
	defer f.Close()

	if delimiter == 0 {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".tsv", ".tab":
			delimiter = '\t'
		default:
			delimiter = ','
		}
	}

	r := csv.NewReader(f)
	r.Comma = delimiter
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err == io.EOF {
		return nil, nil, &registry.SchemaError{Missing: incidentColumns}
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		name := labels.Normalize(strings.TrimSpace(h))
		if _, ok := index[name]; !ok {
			index[name] = i
		}
	}
	var missing []string
	for _, col := range incidentColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, nil, &registry.SchemaError{Missing: missing}
	}

	var (
		counts  []IncidentCount
		skipped int
	)
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("read row: %w", err)
		}
		field := func(col string) string {
			i := index[col]
			if i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}
		fdid := field("fdid")
		year, yerr := strconv.Atoi(field("year"))
		n, nerr := strconv.Atoi(strings.ReplaceAll(field("incidents"), ",", ""))
		if fdid == "" || yerr != nil || nerr != nil || n < 0 {
			skipped++
			continue
		}
		counts = append(counts, IncidentCount{FDID: fdid, Year: year, Incidents: n})
	}

	var warnings []string
	if skipped > 0 {
		warnings = append(warnings, fmt.Sprintf("%d row(s) in %s skipped: blank FDID or malformed year/incident count", skipped, filepath.Base(path)))
	}
	return counts, warnings, nil
}
