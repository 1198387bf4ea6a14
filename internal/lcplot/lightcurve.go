// Public domain.

package lcplot

import (
	"fmt"
	"math"

	"github.com/soniakeys/meeus/v3/julian"

	"github.com/astrolabs/difphot/internal/diffphot"
	"github.com/astrolabs/difphot/internal/phot"
)

// DefaultSigma is the default y range of light curve panels in standard
// deviations from the median.
const DefaultSigma = 3.

// Start returns the earliest MJD of rows.
func Start(rows []diffphot.Row) float64 {
	t0 := math.Inf(1)
	for _, r := range rows {
		t0 = math.Min(t0, r.MJD)
	}
	return t0
}

// XLabel labels a time axis in hours from t0, an MJD.
func XLabel(t0 float64) string {
	t := julian.JDToTime(t0 + phot.JDOffset).UTC()
	return fmt.Sprintf("Hours since MJD %.5f (%s UTC)",
		t0, t.Format("2006-01-02 15:04"))
}

// SeriesPanel makes a light curve panel of one differential series.
// The y range is median ± k·σ, inverted.
func SeriesPanel(label string, s []diffphot.Record, t0, k float64) Panel {
	c := Curve{Label: label}
	for _, r := range s {
		c.X = append(c.X, Hours(r.MJD, t0))
		c.Y = append(c.Y, r.Mag)
		c.Err = append(c.Err, r.Err)
	}
	st := diffphot.Summarize(c.Y)
	lo, hi := Limits(c.Y, k)
	return Panel{
		Title: fmt.Sprintf("%s   median %.4f mag, σ = %.4f mag, N = %d",
			label, st.Median, st.Std, st.N),
		YLabel: "Differential Mag [mag]",
		Curves: []Curve{c},
		Lo:     lo,
		Hi:     hi,
		Invert: true,
		Lines:  []float64{st.Median},
	}
}

// LightCurvePanels makes one panel per target - comparison star series
// and, with at least two comparison stars, a Comp1 - Comp2 panel.
// Empty series are left out.
func LightCurvePanels(rows []diffphot.Row, comps []string, k float64) []Panel {
	t0 := Start(rows)
	var pn []Panel
	for i, c := range comps {
		if s := diffphot.Series(rows, i); len(s) > 0 {
			pn = append(pn, SeriesPanel(diffphot.SeriesLabel("target", c), s, t0, k))
		}
	}
	if len(comps) >= 2 {
		if s := diffphot.CompSeries(rows, 0, 1); len(s) > 0 {
			p := SeriesPanel(diffphot.SeriesLabel(comps[0], comps[1]), s, t0, k)
			p.Curves[0].Color = Colors[2]
			pn = append(pn, p)
		}
	}
	return pn
}

// LightCurve writes the light curve PNG.
func LightCurve(fn string, rows []diffphot.Row, comps []string, k float64) error {
	pn := LightCurvePanels(rows, comps, k)
	if len(pn) == 0 {
		return fmt.Errorf("%s: no differential photometry to plot", fn)
	}
	return Render(fn, XLabel(Start(rows)), pn)
}
