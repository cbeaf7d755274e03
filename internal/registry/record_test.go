package registry

import "testing"

func TestParseTriState(t *testing.T) {
	cases := []struct {
		in   string
		want TriState
	}{
		{"Yes", TriYes},
		{"No", TriNo},
		{"", TriUnknown},
		{"Maybe", TriUnknown},
		{"yes", TriUnknown}, // source casing is exact
		{"N/A", TriUnknown},
	}
	for _, c := range cases {
		if got := ParseTriState(c.in); got != c.want {
			t.Fatalf("ParseTriState(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestTriStateBool(t *testing.T) {
	if v, known := TriYes.Bool(); !v || !known {
		t.Fatalf("TriYes.Bool() = %v,%v", v, known)
	}
	if v, known := TriNo.Bool(); v || !known {
		t.Fatalf("TriNo.Bool() = %v,%v", v, known)
	}
	if _, known := TriUnknown.Bool(); known {
		t.Fatalf("TriUnknown should not be known")
	}
}

func TestFieldValue(t *testing.T) {
	r := &DepartmentRecord{OrgType: "Local", DeptType: "Career", HQState: "AL", County: "Autauga"}
	cases := []struct {
		f    Field
		want string
	}{
		{FieldOrgType, "Local"},
		{FieldDeptType, "Career"},
		{FieldHQState, "AL"},
		{FieldCounty, "Autauga"},
	}
	for _, c := range cases {
		if got := c.f.Value(r); got != c.want {
			t.Fatalf("%s.Value = %q, want %q", c.f, got, c.want)
		}
	}
}

func TestParseField(t *testing.T) {
	f, err := ParseField("organization_type")
	if err != nil || f != FieldOrgType {
		t.Fatalf("ParseField = %v, %v", f, err)
	}
	if _, err := ParseField("station_count"); err == nil {
		t.Fatalf("expected error for unknown field")
	}
}

func TestLevelSetOrderAndDedup(t *testing.T) {
	s := NewLevelSet("organization_type")
	s.Add("Local")
	s.Add("Private")
	s.Add("Local")
	s.Add("State")

	want := []string{"Local", "Private", "State"}
	got := s.Levels()
	if len(got) != len(want) {
		t.Fatalf("levels = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("levels = %v, want %v", got, want)
		}
	}
	if !s.Has("Private") || s.Has("Tribal") {
		t.Fatalf("Has misbehaves")
	}
	if s.Len() != 3 {
		t.Fatalf("Len = %d, want 3", s.Len())
	}

	// Returned slice is a copy.
	got[0] = "mutated"
	if s.Levels()[0] != "Local" {
		t.Fatalf("Levels must return a copy")
	}
}
