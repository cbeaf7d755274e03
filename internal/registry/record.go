package registry

import "fmt"

// TriState is a boolean that distinguishes "unknown" from false.
// Survey text that is neither "Yes" nor "No" must stay unknown; it is never
// coerced to false.
type TriState int

const (
	TriUnknown TriState = iota
	TriNo
	TriYes
)

// ParseTriState maps source text to a TriState: "Yes" is true, "No" is
// false, anything else (including blank) is unknown.
func ParseTriState(s string) TriState {
	switch s {
	case "Yes":
		return TriYes
	case "No":
		return TriNo
	default:
		return TriUnknown
	}
}

func (t TriState) String() string {
	switch t {
	case TriYes:
		return "yes"
	case TriNo:
		return "no"
	default:
		return "unknown"
	}
}

// Bool reports the underlying value and whether it is known.
func (t TriState) Bool() (value, known bool) {
	switch t {
	case TriYes:
		return true, true
	case TriNo:
		return false, true
	default:
		return false, false
	}
}

// DepartmentRecord is one row of the national fire department registry.
// Records are loaded once and read-only thereafter.
type DepartmentRecord struct {
	FDID     string
	Name     string
	HQCity   string
	HQState  string
	County   string
	DeptType string
	OrgType  string

	Stations                int
	CareerFirefighters      int
	VolunteerFirefighters   int
	PaidPerCallFirefighters int
	CivilianCareer          int
	CivilianVolunteer       int

	PrimaryEMAgency TriState
}

// Field selects one categorical dimension of a DepartmentRecord for
// grouping and cross-tabulation.
type Field string

const (
	FieldOrgType  Field = "organization_type"
	FieldDeptType Field = "dept_type"
	FieldHQState  Field = "hq_state"
	FieldCounty   Field = "county"
)

var allFields = []Field{FieldOrgType, FieldDeptType, FieldHQState, FieldCounty}

// ParseField resolves a normalized column name to a categorical Field.
func ParseField(name string) (Field, error) {
	for _, f := range allFields {
		if string(f) == name {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown categorical field %q (valid: %s, %s, %s, %s)",
		name, FieldOrgType, FieldDeptType, FieldHQState, FieldCounty)
}

// Value extracts the field's value from a record.
func (f Field) Value(r *DepartmentRecord) string {
	switch f {
	case FieldOrgType:
		return r.OrgType
	case FieldDeptType:
		return r.DeptType
	case FieldHQState:
		return r.HQState
	case FieldCounty:
		return r.County
	default:
		return ""
	}
}

// LevelSet is an open, data-driven enumeration of categorical values.
// Members register in first-encountered order at load time; unseen values
// become new members, never errors.
type LevelSet struct {
	name   string
	index  map[string]int
	levels []string
}

func NewLevelSet(name string) *LevelSet {
	return &LevelSet{name: name, index: make(map[string]int)}
}

// Name returns the dimension this set enumerates.
func (s *LevelSet) Name() string { return s.name }

// Add registers a value if it is new and returns it unchanged.
func (s *LevelSet) Add(value string) string {
	if _, ok := s.index[value]; !ok {
		s.index[value] = len(s.levels)
		s.levels = append(s.levels, value)
	}
	return value
}

// Has reports whether the value has been observed.
func (s *LevelSet) Has(value string) bool {
	_, ok := s.index[value]
	return ok
}

// Levels returns the observed values in first-encountered order.
func (s *LevelSet) Levels() []string {
	out := make([]string, len(s.levels))
	copy(out, s.levels)
	return out
}

// Len returns the number of distinct observed values.
func (s *LevelSet) Len() int { return len(s.levels) }
