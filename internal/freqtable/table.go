package freqtable

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/kai-do/fire-department-response-times-analysis/internal/crosstab"
	"github.com/kai-do/fire-department-response-times-analysis/internal/format"
	"github.com/kai-do/fire-department-response-times-analysis/internal/labels"
)

// Renderer turns a cross-tabulation into display tables. Each value column
// merges its count and relative frequency into one "count (frequency)"
// cell; totals render as plain integers with thousands separators and a
// grand-summary footer closes the table. All styling is presentation-only.
type Renderer struct {
	titler *labels.Titler
}

// NewRenderer returns a Renderer using the given titler for row, column,
// and dimension labels. A nil titler means plain title-casing.
func NewRenderer(titler *labels.Titler) *Renderer {
	if titler == nil {
		titler = labels.NewTitler(nil)
	}
	return &Renderer{titler: titler}
}

// Warnings surfaces degradations collected while titleizing.
func (rd *Renderer) Warnings() []string { return rd.titler.Warnings }

// Render produces the terminal form of the frequency table.
func (rd *Renderer) Render(ctx context.Context, res *crosstab.Result) string {
	return rd.build(ctx, res, true).Render()
}

// RenderHTML produces an HTML fragment suitable for embedding.
func (rd *Renderer) RenderHTML(ctx context.Context, res *crosstab.Result) string {
	return rd.build(ctx, res, true).RenderHTML()
}

// RenderMarkdown produces a markdown table. Markdown has no merged header
// cells, so the spanner row is left out.
func (rd *Renderer) RenderMarkdown(ctx context.Context, res *crosstab.Result) string {
	return rd.build(ctx, res, false).RenderMarkdown()
}

func (rd *Renderer) build(ctx context.Context, res *crosstab.Result, spanner bool) table.Writer {
	rowTitle := rd.titler.Titleize(ctx, res.RowDim)
	colTitle := rd.titler.Titleize(ctx, res.ColDim)

	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Format.Header = text.FormatDefault
	tbl.Style().Format.Footer = text.FormatDefault

	ncols := len(res.Cols)
	if spanner {
		// One merged cell spanning the value columns, blank over the stub
		// and total columns.
		span := make(table.Row, ncols+2)
		span[0] = ""
		for j := 0; j < ncols; j++ {
			span[j+1] = colTitle
		}
		span[ncols+1] = ""
		tbl.AppendHeader(span, table.RowConfig{AutoMerge: true})
	}

	header := make(table.Row, ncols+2)
	header[0] = rowTitle
	for j, c := range res.Cols {
		header[j+1] = rd.titler.Titleize(ctx, c)
	}
	header[ncols+1] = "Total"
	tbl.AppendHeader(header)

	for _, row := range res.Rows {
		out := make(table.Row, ncols+2)
		out[0] = rd.titler.Titleize(ctx, row.Key)
		for j := range res.Cols {
			out[j+1] = format.Cell(row.Counts[j], row.RelFreq[j])
		}
		out[ncols+1] = format.Count(row.Total)
		tbl.AppendRow(out)
	}

	totals := res.ColumnTotals()
	shares := res.ColumnShares()
	footer := make(table.Row, ncols+2)
	footer[0] = "Total"
	for j := range res.Cols {
		footer[j+1] = format.Cell(totals[j], shares[j])
	}
	footer[ncols+1] = format.Count(res.GrandTotal)
	tbl.AppendFooter(footer)

	configs := make([]table.ColumnConfig, 0, ncols+2)
	configs = append(configs, table.ColumnConfig{Number: 1, Colors: text.Colors{text.Bold}})
	for j := 0; j < ncols; j++ {
		configs = append(configs, table.ColumnConfig{Number: j + 2, Align: text.AlignRight, AlignFooter: text.AlignRight})
	}
	configs = append(configs, table.ColumnConfig{
		Number:      ncols + 2,
		Align:       text.AlignRight,
		AlignFooter: text.AlignRight,
		Colors:      text.Colors{text.Bold},
	})
	tbl.SetColumnConfigs(configs)
	return tbl
}

// Document assembles a small markdown report around the table: a header
// with provenance, the table itself, and a narrative summary of the
// leading row.
func (rd *Renderer) Document(ctx context.Context, res *crosstab.Result, source string) string {
	var sb strings.Builder
	rowTitle := rd.titler.Titleize(ctx, res.RowDim)
	colTitle := rd.titler.Titleize(ctx, res.ColDim)

	sb.WriteString(fmt.Sprintf("# %s by %s\n\n", rowTitle, colTitle))
	if source != "" {
		sb.WriteString(fmt.Sprintf("Source: %s\n\n", source))
	}
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", time.Now().Format("2006-01-02")))
	sb.WriteString(rd.RenderMarkdown(ctx, res))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("%s departments tabulated.", format.Count(res.GrandTotal)))
	if len(res.Rows) > 0 {
		lead := res.Rows[0]
		sb.WriteString(fmt.Sprintf(" %s is the largest %s group with %s departments (%s of the total).",
			rd.titler.Titleize(ctx, lead.Key), strings.ToLower(rowTitle),
			format.Count(lead.Total), format.Percent(lead.RelFreqTotal)))
	}
	sb.WriteString("\n")
	return sb.String()
}
