package crosstab

import (
	"fmt"
	"sort"

	"github.com/kai-do/fire-department-response-times-analysis/internal/registry"
)

// Result is a two-way cross-tabulation: one Row per distinct row-dimension
// value, one count per distinct column-dimension value observed across the
// entire record set, and relative frequencies against the grand total.
// Results are immutable once computed and hold no reference to the records
// they were derived from.
type Result struct {
	RowDim     string   `json:"row_dim"`
	ColDim     string   `json:"col_dim"`
	Cols       []string `json:"col_values"`
	Rows       []Row    `json:"rows"`
	GrandTotal int      `json:"grand_total"`
}

// Row is one row of the pivot. Counts and RelFreq are parallel to
// Result.Cols; combinations with no observed records hold explicit zeros.
type Row struct {
	Key          string    `json:"key"`
	Counts       []int     `json:"counts"`
	Total        int       `json:"total"`
	RelFreq      []float64 `json:"relative_frequency"`
	RelFreqTotal float64   `json:"relative_frequency_total"`
}

// EmptyInputError reports a tabulation attempted over zero records, where
// relative frequencies are mathematically undefined.
type EmptyInputError struct {
	RowDim, ColDim string
}

func (e *EmptyInputError) Error() string {
	return fmt.Sprintf("cross-tabulation of %s by %s over zero records: relative frequencies are undefined", e.RowDim, e.ColDim)
}

// Tabulate groups records by the two categorical dimensions, counts each
// combination, and pivots the column dimension wide.
//
// The computation is two passes: the first builds the dense pair histogram,
// the value encounter orders, and the grand total; the second derives each
// row's counts and frequencies with the grand total passed as a value. Rows
// come back sorted by descending total, ties keeping first-encountered
// order.
func Tabulate(records []registry.DepartmentRecord, rowDim, colDim registry.Field) (*Result, error) {
	if len(records) == 0 {
		return nil, &EmptyInputError{RowDim: string(rowDim), ColDim: string(colDim)}
	}

	type pairKey struct{ row, col string }
	pairs := make(map[pairKey]int)
	rowSet := registry.NewLevelSet(string(rowDim))
	colSet := registry.NewLevelSet(string(colDim))
	for i := range records {
		r := &records[i]
		rv := rowSet.Add(rowDim.Value(r))
		cv := colSet.Add(colDim.Value(r))
		pairs[pairKey{rv, cv}]++
	}
	grand := 0
	for _, n := range pairs {
		grand += n
	}

	cols := colSet.Levels()
	rows := make([]Row, 0, rowSet.Len())
	for _, rv := range rowSet.Levels() {
		row := Row{
			Key:     rv,
			Counts:  make([]int, len(cols)),
			RelFreq: make([]float64, len(cols)),
		}
		for j, cv := range cols {
			n := pairs[pairKey{row: rv, col: cv}]
			row.Counts[j] = n
			row.Total += n
		}
		for j := range cols {
			row.RelFreq[j] = float64(row.Counts[j]) / float64(grand)
		}
		row.RelFreqTotal = float64(row.Total) / float64(grand)
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Total > rows[j].Total
	})

	return &Result{
		RowDim:     string(rowDim),
		ColDim:     string(colDim),
		Cols:       cols,
		Rows:       rows,
		GrandTotal: grand,
	}, nil
}

// ColumnTotals sums each column across all rows.
func (r *Result) ColumnTotals() []int {
	out := make([]int, len(r.Cols))
	for _, row := range r.Rows {
		for j, n := range row.Counts {
			out[j] += n
		}
	}
	return out
}

// ColumnShares returns each column's total as a proportion of the grand
// total.
func (r *Result) ColumnShares() []float64 {
	totals := r.ColumnTotals()
	out := make([]float64, len(totals))
	for j, n := range totals {
		out[j] = float64(n) / float64(r.GrandTotal)
	}
	return out
}
