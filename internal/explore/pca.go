package explore

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Projection is a two-dimensional principal-component view of the feature
// matrix. ExplainedVariance holds the proportion of total variance carried
// by each plotted component.
type Projection struct {
	Points            [][2]float64
	ExplainedVariance [2]float64
}

// Project computes the first two principal components of matrix and maps
// every row onto them. With a single feature column the second component
// is zero.
func Project(matrix [][]float64) (*Projection, error) {
	n := len(matrix)
	if n < 2 {
		return nil, fmt.Errorf("need at least 2 rows to project, got %d", n)
	}
	dims := len(matrix[0])

	flat := make([]float64, 0, n*dims)
	for _, row := range matrix {
		if len(row) != dims {
			return nil, fmt.Errorf("ragged matrix: row has %d columns, want %d", len(row), dims)
		}
		flat = append(flat, row...)
	}
	data := mat.NewDense(n, dims, flat)

	var pc stat.PC
	if ok := pc.PrincipalComponents(data, nil); !ok {
		return nil, fmt.Errorf("principal component decomposition failed")
	}

	k := 2
	if dims < k {
		k = dims
	}
	var vectors mat.Dense
	pc.VectorsTo(&vectors)
	var projected mat.Dense
	projected.Mul(data, vectors.Slice(0, dims, 0, k))

	vars := pc.VarsTo(nil)
	var total float64
	for _, v := range vars {
		total += v
	}

	proj := &Projection{Points: make([][2]float64, n)}
	for i := 0; i < n; i++ {
		proj.Points[i][0] = projected.At(i, 0)
		if k > 1 {
			proj.Points[i][1] = projected.At(i, 1)
		}
	}
	if total > 0 {
		proj.ExplainedVariance[0] = vars[0] / total
		if k > 1 {
			proj.ExplainedVariance[1] = vars[1] / total
		}
	}
	return proj, nil
}
