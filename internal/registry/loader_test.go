package registry

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const registryHeader = "FDID,Fire Dept. Name,HQ City,HQ State,County,Dept Type,Organization Type," +
	"Number Of Stations,Active Firefighters Career,Active Firefighters Volunteer," +
	"Active Firefighters Paid Per Call,Civilian Personnel Career,Civilian Personnel Volunteer," +
	"Primary Emergency Mgmt Agency"

func writeTempFile(t *testing.T, name string, lines []string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeTempFile(t, "registry.csv", []string{
		registryHeader,
		`01001,"Autauga FD",Prattville,AL,Autauga,Career,Local,3,45,0,0,4,1,Yes`,
		`01003,"Baldwin FD",Daphne,AL,Baldwin,Volunteer,Local,1,0,28,2,0,0,No`,
		`48201,"Harris FD",Houston,TX,Harris,Mostly Career,County,12,230,15,0,31,2,`,
	})

	res, err := LoadFile(path, Options{})
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(res.Records) != 3 || res.Rows != 3 {
		t.Fatalf("records = %d rows = %d, want 3/3", len(res.Records), res.Rows)
	}
	if len(res.Warnings) != 0 {
		t.Fatalf("warnings = %#v, want none", res.Warnings)
	}

	first := res.Records[0]
	if first.FDID != "01001" {
		t.Fatalf("FDID = %q, want leading zero preserved", first.FDID)
	}
	if first.Name != "Autauga FD" || first.HQState != "AL" || first.County != "Autauga" {
		t.Fatalf("unexpected first record: %+v", first)
	}
	if first.Stations != 3 || first.CareerFirefighters != 45 || first.CivilianCareer != 4 {
		t.Fatalf("counts wrong: %+v", first)
	}
	if first.PrimaryEMAgency != TriYes {
		t.Fatalf("PrimaryEMAgency = %v, want yes", first.PrimaryEMAgency)
	}
	if res.Records[1].PrimaryEMAgency != TriNo {
		t.Fatalf("PrimaryEMAgency = %v, want no", res.Records[1].PrimaryEMAgency)
	}
	// Blank is unknown, never false.
	if res.Records[2].PrimaryEMAgency != TriUnknown {
		t.Fatalf("PrimaryEMAgency = %v, want unknown", res.Records[2].PrimaryEMAgency)
	}

	wantDept := []string{"Career", "Volunteer", "Mostly Career"}
	if got := res.DeptTypes.Levels(); !equalStrings(got, wantDept) {
		t.Fatalf("dept levels = %v, want %v", got, wantDept)
	}
	wantOrg := []string{"Local", "County"}
	if got := res.OrgTypes.Levels(); !equalStrings(got, wantOrg) {
		t.Fatalf("org levels = %v, want %v", got, wantOrg)
	}
}

func TestLoadFileUnseenCategoryBecomesMember(t *testing.T) {
	path := writeTempFile(t, "registry.csv", []string{
		registryHeader,
		`1,A,X,AL,C1,Career,Local,1,1,0,0,0,0,Yes`,
		`2,B,Y,AL,C2,Combination Station,Tribal,1,1,0,0,0,0,No`,
	})
	res, err := LoadFile(path, Options{})
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if !res.DeptTypes.Has("Combination Station") {
		t.Fatalf("new dept type not registered: %v", res.DeptTypes.Levels())
	}
	if !res.OrgTypes.Has("Tribal") {
		t.Fatalf("new org type not registered: %v", res.OrgTypes.Levels())
	}
}

func TestLoadFileMissingColumns(t *testing.T) {
	path := writeTempFile(t, "registry.csv", []string{
		"FDID,Fire Dept. Name,HQ City,HQ State,County,Dept Type,Number Of Stations," +
			"Active Firefighters Career,Active Firefighters Volunteer,Active Firefighters Paid Per Call," +
			"Civilian Personnel Career,Civilian Personnel Volunteer",
		"1,A,X,AL,C1,Career,1,1,0,0,0,0",
	})
	_, err := LoadFile(path, Options{})
	if err == nil {
		t.Fatalf("expected SchemaError")
	}
	var se *SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("error = %v (%T), want SchemaError", err, err)
	}
	want := []string{"organization_type", "primary_emergency_mgmt_agency"}
	if !equalStrings(se.Missing, want) {
		t.Fatalf("Missing = %v, want %v", se.Missing, want)
	}
	if !strings.Contains(err.Error(), "organization_type") {
		t.Fatalf("error text should name missing columns: %v", err)
	}
}

func TestLoadFileEmptyInputIsSchemaError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	_, err := LoadFile(path, Options{})
	var se *SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("error = %v (%T), want SchemaError", err, err)
	}
	if len(se.Missing) != len(RequiredColumns()) {
		t.Fatalf("Missing = %d columns, want all %d", len(se.Missing), len(RequiredColumns()))
	}
}

func TestLoadFileMalformedCounts(t *testing.T) {
	path := writeTempFile(t, "registry.csv", []string{
		registryHeader,
		`1,A,X,AL,C1,Career,Local,three,1,0,0,0,0,Yes`,
		`2,B,Y,AL,C2,Career,Local,,1,0,0,0,0,Yes`,
	})
	res, err := LoadFile(path, Options{})
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if res.Records[0].Stations != 0 || res.Records[1].Stations != 0 {
		t.Fatalf("stations = %d/%d, want 0/0", res.Records[0].Stations, res.Records[1].Stations)
	}
	// "three" warns; the blank is a silent zero.
	if len(res.Warnings) != 1 || !strings.Contains(res.Warnings[0], "number_of_stations") {
		t.Fatalf("warnings = %#v", res.Warnings)
	}
}

func TestLoadFileTabDelimited(t *testing.T) {
	header := strings.ReplaceAll(registryHeader, ",", "\t")
	row := strings.Join([]string{"1", "A", "X", "AL", "C1", "Career", "Local", "1", "1", "0", "0", "0", "0", "Yes"}, "\t")
	path := writeTempFile(t, "registry.tsv", []string{header, row})

	res, err := LoadFile(path, Options{})
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(res.Records) != 1 || res.Records[0].OrgType != "Local" {
		t.Fatalf("unexpected result: %+v", res.Records)
	}
}

func TestLoadFileMaxRows(t *testing.T) {
	path := writeTempFile(t, "registry.csv", []string{
		registryHeader,
		`1,A,X,AL,C1,Career,Local,1,1,0,0,0,0,Yes`,
		`2,B,Y,AL,C2,Career,Local,1,1,0,0,0,0,Yes`,
		`3,C,Z,AL,C3,Career,Local,1,1,0,0,0,0,Yes`,
	})
	res, err := LoadFile(path, Options{MaxRows: 2})
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(res.Records) != 2 || res.Rows != 3 {
		t.Fatalf("records = %d rows = %d, want 2/3", len(res.Records), res.Rows)
	}
	if len(res.Warnings) != 1 || res.Warnings[0] != "processed only 2/3 rows due to MaxRows" {
		t.Fatalf("warnings = %#v", res.Warnings)
	}
}

func TestColumnKind(t *testing.T) {
	cases := []struct {
		col  string
		want string
	}{
		{"fdid", "text"},
		{"hq_state", "text"},
		{"number_of_stations", "count"},
		{"civilian_personnel_volunteer", "count"},
		{"primary_emergency_mgmt_agency", "tri-state"},
	}
	for _, c := range cases {
		if got := ColumnKind(c.col); got != c.want {
			t.Fatalf("ColumnKind(%q) = %q, want %q", c.col, got, c.want)
		}
	}
	if n := len(RequiredColumns()); n != 14 {
		t.Fatalf("RequiredColumns = %d entries, want 14", n)
	}
}

func TestLoadFileIgnoresExtraColumns(t *testing.T) {
	path := writeTempFile(t, "registry.csv", []string{
		registryHeader + ",Website,Notes",
		`1,A,X,AL,C1,Career,Local,1,1,0,0,0,0,Yes,http://example.com,none`,
	})
	res, err := LoadFile(path, Options{})
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(res.Records) != 1 || res.Records[0].FDID != "1" {
		t.Fatalf("unexpected result: %+v", res.Records)
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
