package explore

import (
	"math"
	"testing"
)

func featureRows(values ...[]float64) []FeatureRow {
	rows := make([]FeatureRow, len(values))
	for i, v := range values {
		rows[i] = FeatureRow{FDID: string(rune('A' + i)), Values: v}
	}
	return rows
}

func TestStandardize(t *testing.T) {
	rows := featureRows(
		[]float64{1, 5},
		[]float64{2, 5},
		[]float64{3, 5},
	)

	z, err := Standardize(rows)
	if err != nil {
		t.Fatalf("Standardize: %v", err)
	}

	// First column has mean 2 and sample deviation 1.
	want := []float64{-1, 0, 1}
	for i := range z {
		if math.Abs(z[i][0]-want[i]) > 1e-12 {
			t.Errorf("z[%d][0] = %v, want %v", i, z[i][0], want[i])
		}
	}
	// The constant column must come out as zeros, not NaN.
	for i := range z {
		if z[i][1] != 0 {
			t.Errorf("z[%d][1] = %v, want 0", i, z[i][1])
		}
	}
}

func TestStandardizeSingleRow(t *testing.T) {
	z, err := Standardize(featureRows([]float64{7, 9}))
	if err != nil {
		t.Fatalf("Standardize: %v", err)
	}
	for j, v := range z[0] {
		if v != 0 {
			t.Errorf("z[0][%d] = %v, want 0", j, v)
		}
	}
}

func TestStandardizeRejectsRaggedRows(t *testing.T) {
	rows := featureRows([]float64{1, 2}, []float64{1})
	if _, err := Standardize(rows); err == nil {
		t.Fatal("expected error for ragged feature rows")
	}
	if _, err := Standardize(nil); err == nil {
		t.Fatal("expected error for empty input")
	}
}
