package labels

import (
	"context"
	"errors"
	"testing"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"HQ State", "hq_state"},
		{"Fire Dept. Name", "fire_dept_name"},
		{"Organization Type", "organization_type"},
		{"Active  Firefighters Career", "active_firefighters_career"},
		{"Number.Of.Stations", "number_of_stations"},
		{"county", "county"},
		{"FDID", "fdid"},
		{"a . b", "a_b"},
	}
	for _, c := range cases {
		if got := Normalize(c.in); got != c.want {
			t.Fatalf("Normalize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestTitleize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"hq_state", "Hq State"},
		{"fire_dept_name", "Fire Dept Name"},
		{"organization_type", "Organization Type"},
		{"dept.type", "Dept Type"},
		{"", ""},
	}
	for _, c := range cases {
		if got := Titleize(c.in); got != c.want {
			t.Fatalf("Titleize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

type fakeDict struct {
	words map[string]bool
	err   error
	calls int
}

func (d *fakeDict) Lookup(_ context.Context, word string) (bool, error) {
	d.calls++
	if d.err != nil {
		return false, d.err
	}
	return d.words[word], nil
}

func TestTitlerUpperCasesUnknownWords(t *testing.T) {
	dict := &fakeDict{words: map[string]bool{"state": true, "fire": true, "dept": true, "name": true}}
	tl := NewTitler(dict)

	if got := tl.Titleize(context.Background(), "hq_state"); got != "HQ State" {
		t.Fatalf("Titleize(hq_state) = %q, want %q", got, "HQ State")
	}
	if got := tl.Titleize(context.Background(), "fdid"); got != "FDID" {
		t.Fatalf("Titleize(fdid) = %q, want %q", got, "FDID")
	}
	if got := tl.Titleize(context.Background(), "fire_dept_name"); got != "Fire Dept Name" {
		t.Fatalf("Titleize(fire_dept_name) = %q, want %q", got, "Fire Dept Name")
	}
	if len(tl.Warnings) != 0 {
		t.Fatalf("warnings = %#v, want none", tl.Warnings)
	}
}

func TestTitlerMemoizesLookups(t *testing.T) {
	dict := &fakeDict{words: map[string]bool{"state": true}}
	tl := NewTitler(dict)

	tl.Titleize(context.Background(), "hq_state")
	tl.Titleize(context.Background(), "hq_state")
	tl.Titleize(context.Background(), "state")

	// hq and state resolved once each despite three renders.
	if dict.calls != 2 {
		t.Fatalf("lookup calls = %d, want 2", dict.calls)
	}
}

func TestTitlerDegradesOnLookupError(t *testing.T) {
	dict := &fakeDict{err: errors.New("connection refused")}
	tl := NewTitler(dict)

	if got := tl.Titleize(context.Background(), "hq_state"); got != "HQ STATE" {
		t.Fatalf("Titleize(hq_state) = %q, want %q", got, "HQ STATE")
	}
	if got := tl.Titleize(context.Background(), "county"); got != "COUNTY" {
		t.Fatalf("Titleize(county) = %q, want %q", got, "COUNTY")
	}
	if len(tl.Warnings) != 1 {
		t.Fatalf("warnings = %#v, want exactly one", tl.Warnings)
	}
	// The dictionary is left alone once it has failed.
	if dict.calls != 1 {
		t.Fatalf("lookup calls = %d, want 1", dict.calls)
	}
}

func TestTitlerWithoutDictionary(t *testing.T) {
	tl := NewTitler(nil)
	if got := tl.Titleize(context.Background(), "hq_state"); got != "Hq State" {
		t.Fatalf("Titleize(hq_state) = %q, want %q", got, "Hq State")
	}
}
