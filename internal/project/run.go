package project

import (
	"fmt"
	"time"
)

// Run kinds recorded in the ledger.
const (
	RunCrosstab = "crosstab"
	RunExplore  = "explore"
)

// Run holds metadata for one completed analysis run.
type Run struct {
	ID         string    `json:"id"`
	Kind       string    `json:"kind"`
	Input      string    `json:"input"`
	Outputs    []string  `json:"outputs,omitempty"`
	Rows       int       `json:"rows"`
	GrandTotal int       `json:"grand_total,omitempty"`
	Warnings   int       `json:"warnings,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Describe renders a one-line listing entry for the run.
func (r *Run) Describe() string {
	s := fmt.Sprintf("%s  %-8s  %s (%d rows", r.CreatedAt.Format("2006-01-02 15:04"), r.Kind, r.Input, r.Rows)
	if r.Warnings > 0 {
		s += fmt.Sprintf(", %d warnings", r.Warnings)
	}
	return s + ")"
}
