package explore

import (
	"fmt"

	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
)

// Clustering assigns every feature row to one of K clusters.
type Clustering struct {
	K           int
	Assignments []int
	Sizes       []int
}

// observation carries the row index through Partition so assignments can
// be read back off the returned clusters.
type observation struct {
	row    int
	coords clusters.Coordinates
}

func (o observation) Coordinates() clusters.Coordinates { return o.coords }

func (o observation) Distance(point clusters.Coordinates) float64 {
	return o.coords.Distance(point)
}

// Cluster partitions the standardized feature matrix into k groups with
// k-means.
func Cluster(matrix [][]float64, k int) (*Clustering, error) {
	if k < 1 {
		return nil, fmt.Errorf("cluster count must be at least 1, got %d", k)
	}
	if len(matrix) < k {
		return nil, fmt.Errorf("cannot split %d departments into %d clusters", len(matrix), k)
	}

	obs := make(clusters.Observations, len(matrix))
	for i, row := range matrix {
		obs[i] = observation{row: i, coords: clusters.Coordinates(row)}
	}

	km := kmeans.New()
	parts, err := km.Partition(obs, k)
	if err != nil {
		return nil, fmt.Errorf("k-means: %w", err)
	}

	cl := &Clustering{
		K:           len(parts),
		Assignments: make([]int, len(matrix)),
		Sizes:       make([]int, len(parts)),
	}
	for ci, part := range parts {
		for _, o := range part.Observations {
			p, ok := o.(observation)
			if !ok {
				return nil, fmt.Errorf("unexpected observation type %T", o)
			}
			cl.Assignments[p.row] = ci
			cl.Sizes[ci]++
		}
	}
	return cl, nil
}
