package explore

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

var clusterPalette = []string{
	"#5470c6", "#91cc75", "#fac858", "#ee6666", "#73c0de",
	"#3ba272", "#fc8452", "#9a60b4", "#ea7ccc",
}

func clusterLabel(i int) string { return fmt.Sprintf("Cluster %d", i+1) }

// RenderCharts writes a self-contained HTML page with the cluster scatter
// (departments on the first two principal components) and a cluster-size
// bar chart.
func RenderCharts(w io.Writer, rows []FeatureRow, cl *Clustering, proj *Projection, title string) error {
	if len(rows) != len(cl.Assignments) || len(rows) != len(proj.Points) {
		return fmt.Errorf("chart inputs disagree: %d rows, %d assignments, %d points",
			len(rows), len(cl.Assignments), len(proj.Points))
	}

	page := components.NewPage()
	page.PageTitle = title
	page.AddCharts(clusterScatter(rows, cl, proj, title), clusterSizes(cl))
	if err := page.Render(w); err != nil {
		return fmt.Errorf("render charts: %w", err)
	}
	return nil
}

func clusterScatter(rows []FeatureRow, cl *Clustering, proj *Projection, title string) *charts.Scatter {
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:     "1100px",
			Height:    "650px",
			PageTitle: title,
		}),
		charts.WithTitleOpts(opts.Title{
			Title: title,
			Subtitle: fmt.Sprintf("k-means over standardized staffing and incident features; PC1 %.1f%%, PC2 %.1f%% of variance",
				proj.ExplainedVariance[0]*100, proj.ExplainedVariance[1]*100),
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "item",
		}),
		charts.WithXAxisOpts(opts.XAxis{Name: "PC1", Type: "value"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "PC2", Type: "value"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
	)

	series := make([][]opts.ScatterData, cl.K)
	for i, row := range rows {
		ci := cl.Assignments[i]
		series[ci] = append(series[ci], opts.ScatterData{
			Value:      []any{proj.Points[i][0], proj.Points[i][1], row.FDID + " " + row.Name},
			SymbolSize: 8,
		})
	}
	for ci, data := range series {
		scatter.AddSeries(clusterLabel(ci), data,
			charts.WithItemStyleOpts(opts.ItemStyle{Color: clusterPalette[ci%len(clusterPalette)]}))
	}
	return scatter
}

func clusterSizes(cl *Clustering) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:  "1100px",
			Height: "400px",
		}),
		charts.WithTitleOpts(opts.Title{Title: "Cluster Sizes"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	axis := make([]string, cl.K)
	data := make([]opts.BarData, cl.K)
	for ci := 0; ci < cl.K; ci++ {
		axis[ci] = clusterLabel(ci)
		data[ci] = opts.BarData{Value: cl.Sizes[ci]}
	}
	bar.SetXAxis(axis).AddSeries("Departments", data)
	return bar
}
