// Public domain.

package lcplot

import (
	"fmt"

	"gonum.org/v1/plot/vg/draw"

	"github.com/astrolabs/difphot/internal/diffphot"
)

// ResidualRange is the half height of residual panels, in magnitudes.
const ResidualRange = .05

// lightCurveRange is the half height of the two light curve panels.
const lightCurveRange = .1

// Comparison holds two photometry sets of the same field at paired times.
// Each set has three differential series: target - first comparison star,
// target - second comparison star, and first - second comparison star.
type Comparison struct {
	T0            float64 // MJD of the time axis origin
	MJD, RefMJD   []float64
	Ours, Ref     [3][]float64
	Err           []float64 // errors of Ours[0]
	Labels        [3]string
	RefLabels     [3]string
	Name, RefName string
}

// Residuals returns Ref - Ours for series i.
func (c *Comparison) Residuals(i int) []float64 {
	r := make([]float64, len(c.Ours[i]))
	for j := range r {
		r[j] = c.Ref[i][j] - c.Ours[i][j]
	}
	return r
}

// ComparisonPanels makes the two light curve panels and three residual
// panels.
func ComparisonPanels(c *Comparison) []Panel {
	h := make([]float64, len(c.MJD))
	for i, t := range c.MJD {
		h[i] = Hours(t, c.T0)
	}
	hr := make([]float64, len(c.RefMJD))
	for i, t := range c.RefMJD {
		hr[i] = Hours(t, c.T0)
	}
	set := func(title string, x []float64, y [3][]float64, labels [3]string,
		err []float64, shape draw.GlyphDrawer) Panel {
		m := diffphot.Median(y[0])
		p := Panel{
			Title:  title,
			YLabel: "Differential Mag [mag]",
			Lo:     m - lightCurveRange,
			Hi:     m + lightCurveRange,
			Invert: true,
			Lines:  []float64{m},
		}
		for i := range y {
			cv := Curve{Label: labels[i], X: x, Y: y[i], Shape: shape}
			if i == 0 {
				cv.Err = err
			}
			p.Curves = append(p.Curves, cv)
		}
		return p
	}
	pn := []Panel{
		set(c.Name, h, c.Ours, c.Labels, c.Err, nil),
		set(c.RefName, hr, c.Ref, c.RefLabels, nil, draw.BoxGlyph{}),
	}
	for i := range c.Ours {
		r := c.Residuals(i)
		s := diffphot.Summarize(r)
		pn = append(pn, Panel{
			Title: fmt.Sprintf("%s residuals (%s - %s)   mean %.3f, median %.3f, σ = %.4f mag",
				c.Labels[i], c.RefName, c.Name, s.Mean, s.Median, s.Std),
			YLabel: "Residuals [mag]",
			Curves: []Curve{{X: h, Y: r, Color: Colors[i]}},
			Lo:     s.Median - ResidualRange,
			Hi:     s.Median + ResidualRange,
			Lines:  []float64{0, s.Median},
		})
	}
	return pn
}

// Compare writes the comparison PNG.
func Compare(fn string, c *Comparison) error {
	if len(c.MJD) == 0 {
		return fmt.Errorf("%s: no paired epochs", fn)
	}
	return Render(fn, XLabel(c.T0), ComparisonPanels(c))
}
