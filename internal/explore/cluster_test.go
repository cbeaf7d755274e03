package explore

import "testing"

func TestClusterSeparatesDistantGroups(t *testing.T) {
	// Two tight groups far apart: any k-means run lands on the same split.
	matrix := [][]float64{
		{0, 0}, {0.1, 0}, {0, 0.1},
		{100, 100}, {100.1, 100}, {100, 100.1},
	}

	cl, err := Cluster(matrix, 2)
	if err != nil {
		t.Fatalf("Cluster: %v", err)
	}
	if cl.K != 2 {
		t.Fatalf("K = %d, want 2", cl.K)
	}
	if len(cl.Assignments) != len(matrix) {
		t.Fatalf("got %d assignments, want %d", len(cl.Assignments), len(matrix))
	}
	if cl.Sizes[0]+cl.Sizes[1] != len(matrix) {
		t.Fatalf("sizes %v do not cover all rows", cl.Sizes)
	}

	// Cluster numbering is arbitrary; membership is not.
	first := cl.Assignments[0]
	for i := 1; i < 3; i++ {
		if cl.Assignments[i] != first {
			t.Errorf("rows 0-2 split across clusters: %v", cl.Assignments)
		}
	}
	for i := 3; i < 6; i++ {
		if cl.Assignments[i] == first {
			t.Errorf("rows 3-5 merged with rows 0-2: %v", cl.Assignments)
		}
	}
	if cl.Sizes[0] != 3 || cl.Sizes[1] != 3 {
		t.Errorf("Sizes = %v, want two groups of 3", cl.Sizes)
	}
}

func TestClusterRejectsBadCounts(t *testing.T) {
	matrix := [][]float64{{0, 0}, {1, 1}}
	if _, err := Cluster(matrix, 0); err == nil {
		t.Fatal("expected error for k=0")
	}
	if _, err := Cluster(matrix, 3); err == nil {
		t.Fatal("expected error for k larger than the row count")
	}
}
