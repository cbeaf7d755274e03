package explore

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// Standardize centers every feature column to zero mean and scales it to
// unit variance, so station counts and incident averages weigh equally in
// distance computations. Zero-variance columns become all zeros.
func Standardize(rows []FeatureRow) ([][]float64, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("no feature rows to standardize")
	}
	dims := len(rows[0].Values)
	for i := range rows {
		if len(rows[i].Values) != dims {
			return nil, fmt.Errorf("feature row %s has %d values, want %d", rows[i].FDID, len(rows[i].Values), dims)
		}
	}

	col := make([]float64, len(rows))
	means := make([]float64, dims)
	stds := make([]float64, dims)
	for j := 0; j < dims; j++ {
		for i := range rows {
			col[i] = rows[i].Values[j]
		}
		means[j] = stat.Mean(col, nil)
		stds[j] = stat.StdDev(col, nil)
	}

	out := make([][]float64, len(rows))
	for i := range rows {
		z := make([]float64, dims)
		for j := 0; j < dims; j++ {
			if stds[j] > 0 {
				z[j] = (rows[i].Values[j] - means[j]) / stds[j]
			}
		}
		out[i] = z
	}
	return out, nil
}
