package explore

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kai-do/fire-department-response-times-analysis/internal/registry"
)

func writeIncidentFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadIncidentFile(t *testing.T) {
	path := writeIncidentFile(t, "incidents.csv",
		"FDID,Year,Incidents\n"+
			"01001,2019,100\n"+
			"01001,2020,\"1,200\"\n"+
			"02002,2019,5000\n")

	counts, warnings, err := LoadIncidentFile(path, 0)
	if err != nil {
		t.Fatalf("LoadIncidentFile: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if len(counts) != 3 {
		t.Fatalf("expected 3 counts, got %d", len(counts))
	}
	want := IncidentCount{FDID: "01001", Year: 2020, Incidents: 1200}
	if counts[1] != want {
		t.Errorf("counts[1] = %+v, want %+v", counts[1], want)
	}
}

func TestLoadIncidentFileSkipsMalformedRows(t *testing.T) {
	path := writeIncidentFile(t, "incidents.csv",
		"fdid,year,incidents\n"+
			"01001,2019,100\n"+
			",2019,50\n"+
			"02002,twenty-nineteen,50\n"+
			"02002,2019,-5\n")

	counts, warnings, err := LoadIncidentFile(path, 0)
	if err != nil {
		t.Fatalf("LoadIncidentFile: %v", err)
	}
	if len(counts) != 1 {
		t.Fatalf("expected 1 count, got %d: %+v", len(counts), counts)
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0], "3 row(s)") {
		t.Errorf("expected a single skipped-rows warning, got %v", warnings)
	}
}

func TestLoadIncidentFileMissingColumns(t *testing.T) {
	path := writeIncidentFile(t, "incidents.csv", "fdid,count\n01001,100\n")

	_, _, err := LoadIncidentFile(path, 0)
	var schemaErr *registry.SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected SchemaError, got %v", err)
	}
	want := []string{"year", "incidents"}
	if len(schemaErr.Missing) != len(want) {
		t.Fatalf("Missing = %v, want %v", schemaErr.Missing, want)
	}
	for i := range want {
		if schemaErr.Missing[i] != want[i] {
			t.Fatalf("Missing = %v, want %v", schemaErr.Missing, want)
		}
	}
}

func TestLoadIncidentFileTabDelimited(t *testing.T) {
	path := writeIncidentFile(t, "incidents.tsv",
		"fdid\tyear\tincidents\n01001\t2019\t100\n")

	counts, _, err := LoadIncidentFile(path, 0)
	if err != nil {
		t.Fatalf("LoadIncidentFile: %v", err)
	}
	if len(counts) != 1 || counts[0].Incidents != 100 {
		t.Fatalf("unexpected counts: %+v", counts)
	}
}
