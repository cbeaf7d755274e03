package freqtable

import (
	"context"
	"strings"
	"testing"

	"github.com/kai-do/fire-department-response-times-analysis/internal/crosstab"
	"github.com/kai-do/fire-department-response-times-analysis/internal/labels"
	"github.com/kai-do/fire-department-response-times-analysis/internal/registry"
)

type group struct {
	org, dept string
	n         int
}

func tabulateFixture(t *testing.T, groups ...group) *crosstab.Result {
	t.Helper()
	var records []registry.DepartmentRecord
	for _, g := range groups {
		for i := 0; i < g.n; i++ {
			records = append(records, registry.DepartmentRecord{OrgType: g.org, DeptType: g.dept})
		}
	}
	res, err := crosstab.Tabulate(records, registry.FieldOrgType, registry.FieldDeptType)
	if err != nil {
		t.Fatalf("Tabulate: %v", err)
	}
	return res
}

func TestRenderMergedCellsAndFooter(t *testing.T) {
	res := tabulateFixture(t,
		group{"Local", "Career", 3},
		group{"Local", "Volunteer", 7},
		group{"Private", "Career", 2},
	)
	rd := NewRenderer(nil)
	out := rd.Render(context.Background(), res)

	for _, want := range []string{
		"Organization Type", // stub title
		"Dept Type",         // spanner title
		"Career",
		"Volunteer",
		"Local",
		"Private",
		"3 (0.2500)",
		"7 (0.5833)",
		"2 (0.1667)",
		"0 (<0.0000)", // unseen combination: explicit zero with flagged frequency
		"Total",
		"10",
		"12",
		"5 (0.4167)", // footer column summary
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("rendered table missing %q:\n%s", want, out)
		}
	}
	if len(rd.Warnings()) != 0 {
		t.Fatalf("warnings = %#v", rd.Warnings())
	}
}

func TestRenderTotalsUseThousandsSeparators(t *testing.T) {
	res := tabulateFixture(t,
		group{"Local", "Career", 1200},
		group{"Local", "Volunteer", 300},
		group{"Private", "Career", 2},
	)
	out := NewRenderer(nil).Render(context.Background(), res)
	if !strings.Contains(out, "1,500") {
		t.Fatalf("row total should be humanized:\n%s", out)
	}
	if !strings.Contains(out, "1,502") {
		t.Fatalf("grand total should be humanized:\n%s", out)
	}
	// Counts inside merged cells keep separators too but never the "<" prefix.
	if !strings.Contains(out, "1,200 (0.7989)") {
		t.Fatalf("merged cell formatting wrong:\n%s", out)
	}
}

func TestRenderHTML(t *testing.T) {
	res := tabulateFixture(t,
		group{"Local", "Career", 3},
		group{"Private", "Career", 2},
	)
	out := NewRenderer(nil).RenderHTML(context.Background(), res)
	if !strings.Contains(out, "<table") {
		t.Fatalf("not an HTML table:\n%s", out)
	}
	if !strings.Contains(out, "3 (0.6000)") {
		t.Fatalf("HTML missing merged cell:\n%s", out)
	}
}

func TestRenderMarkdown(t *testing.T) {
	res := tabulateFixture(t,
		group{"Local", "Career", 3},
		group{"Private", "Career", 2},
	)
	out := NewRenderer(nil).RenderMarkdown(context.Background(), res)
	if !strings.HasPrefix(strings.TrimSpace(out), "|") {
		t.Fatalf("not a markdown table:\n%s", out)
	}
	if !strings.Contains(out, "3 (0.6000)") {
		t.Fatalf("markdown missing merged cell:\n%s", out)
	}
}

func TestRendererDictionaryTitles(t *testing.T) {
	dict := &staticDict{words: map[string]bool{"organization": true, "type": true, "dept": true,
		"local": true, "private": true, "career": true, "volunteer": true, "total": true}}
	rd := NewRenderer(labels.NewTitler(dict))

	res := tabulateFixture(t,
		group{"Local", "Career", 3},
		group{"Private", "Volunteer", 2},
	)
	out := rd.Render(context.Background(), res)
	if !strings.Contains(out, "Organization Type") {
		t.Fatalf("dictionary-known words should title-case:\n%s", out)
	}
	if len(rd.Warnings()) != 0 {
		t.Fatalf("warnings = %#v", rd.Warnings())
	}
}

type staticDict struct {
	words map[string]bool
}

func (d *staticDict) Lookup(_ context.Context, word string) (bool, error) {
	return d.words[word], nil
}

func TestDocument(t *testing.T) {
	res := tabulateFixture(t,
		group{"Local", "Career", 3},
		group{"Local", "Volunteer", 7},
		group{"Private", "Career", 2},
	)
	doc := NewRenderer(nil).Document(context.Background(), res, "registry.csv")

	for _, want := range []string{
		"# Organization Type by Dept Type",
		"Source: registry.csv",
		"12 departments tabulated.",
		"Local is the largest organization type group with 10 departments (83.3% of the total).",
	} {
		if !strings.Contains(doc, want) {
			t.Fatalf("document missing %q:\n%s", want, doc)
		}
	}
}
