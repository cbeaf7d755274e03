package explore

import (
	"bytes"
	"strings"
	"testing"
)

func TestRenderCharts(t *testing.T) {
	rows := []FeatureRow{
		{FDID: "01001", Name: "Autauga FD"},
		{FDID: "02002", Name: "Anchorage FD"},
		{FDID: "04003", Name: "Sedona FD"},
	}
	cl := &Clustering{K: 2, Assignments: []int{0, 1, 0}, Sizes: []int{2, 1}}
	proj := &Projection{
		Points:            [][2]float64{{-1.2, 0.3}, {2.4, -0.1}, {-1.1, -0.2}},
		ExplainedVariance: [2]float64{0.61, 0.22},
	}

	var buf bytes.Buffer
	if err := RenderCharts(&buf, rows, cl, proj, "Department Clusters"); err != nil {
		t.Fatalf("RenderCharts: %v", err)
	}

	html := buf.String()
	for _, want := range []string{
		"echarts",
		"Department Clusters",
		"Cluster 1",
		"Cluster 2",
		"Cluster Sizes",
		"01001 Autauga FD",
		"PC1 61.0%",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("rendered page missing %q", want)
		}
	}
}

func TestRenderChartsRejectsMismatchedInputs(t *testing.T) {
	rows := []FeatureRow{{FDID: "01001"}}
	cl := &Clustering{K: 1, Assignments: []int{0, 0}, Sizes: []int{2}}
	proj := &Projection{Points: [][2]float64{{0, 0}}}

	var buf bytes.Buffer
	if err := RenderCharts(&buf, rows, cl, proj, "x"); err == nil {
		t.Fatal("expected error for mismatched input lengths")
	}
}
