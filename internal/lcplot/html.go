// Public domain.

package lcplot

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/astrolabs/difphot/internal/diffphot"
)

// HTML writes an interactive light curve page with one scatter series
// per target - comparison star series.
func HTML(fn, title string, rows []diffphot.Row, comps []string) error {
	t0 := Start(rows)
	var all []float64
	for i := range comps {
		all = append(all, diffphot.Mags(diffphot.Series(rows, i))...)
	}
	if len(all) == 0 {
		return fmt.Errorf("%s: no differential photometry to plot", fn)
	}
	st := diffphot.Summarize(all)
	pad := math.Max(.05, .1*(st.Max-st.Min))
	sc := charts.NewScatter()
	sc.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: title,
			Width:     "1200px",
			Height:    "700px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: fmt.Sprintf("%d epochs from MJD %.5f", len(rows), t0),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Name: "Hours", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Differential Mag [mag]",
			NameLocation: "middle", NameGap: 40,
			Min: round3(st.Min - pad), Max: round3(st.Max + pad)}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "inside"}),
	)
	for i, c := range comps {
		s := diffphot.Series(rows, i)
		if len(s) == 0 {
			continue
		}
		data := make([]opts.ScatterData, len(s))
		for j, r := range s {
			data[j] = opts.ScatterData{Value: []interface{}{Hours(r.MJD, t0), r.Mag, r.Err}}
		}
		sc.AddSeries(diffphot.SeriesLabel("target", c), data,
			charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 6}))
	}
	if err := os.MkdirAll(filepath.Dir(fn), 0755); err != nil {
		return err
	}
	f, err := os.Create(fn)
	if err != nil {
		return err
	}
	if err = sc.Render(f); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", fn, err)
	}
	return f.Close()
}

func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
