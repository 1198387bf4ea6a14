// Public domain.

// Package lcplot renders light curves and field charts.
//
// Plots are presentation only.  Callers log failures and carry on.
package lcplot

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/astrolabs/difphot/internal/diffphot"
)

// Colors used for successive curves of a panel.
var Colors = []color.Color{
	color.RGBA{R: 31, G: 119, B: 180, A: 255},  // blue
	color.RGBA{R: 214, G: 39, B: 40, A: 255},   // red
	color.RGBA{R: 44, G: 160, B: 44, A: 255},   // green
	color.RGBA{R: 148, G: 103, B: 189, A: 255}, // purple
	color.RGBA{R: 255, G: 127, B: 14, A: 255},  // orange
}

var gray = color.RGBA{R: 128, G: 128, B: 128, A: 255}

// Curve is one plotted series.  Err may be nil.
type Curve struct {
	Label string
	X, Y  []float64
	Err   []float64
	Color color.Color
	Shape draw.GlyphDrawer // nil for circles
}

// Panel is one set of axes.
type Panel struct {
	Title  string
	YLabel string
	Curves []Curve
	Lo, Hi float64   // y limits, unused if equal
	Invert bool      // magnitudes: brighter up
	Lines  []float64 // dashed horizontal reference lines
}

// Size of one panel.
var (
	Width       = 14 * vg.Inch
	PanelHeight = 4 * vg.Inch
)

// Render draws panels stacked vertically with a shared x label and writes
// a PNG file.  The directory of fn is created as needed.
func Render(fn, xLabel string, panels []Panel) error {
	if len(panels) == 0 {
		return fmt.Errorf("%s: nothing to plot", fn)
	}
	plots := make([][]*plot.Plot, len(panels))
	for i, pn := range panels {
		p, err := pn.plot(xLabel)
		if err != nil {
			return fmt.Errorf("%s: panel %d: %w", fn, i+1, err)
		}
		plots[i] = []*plot.Plot{p}
	}
	img := vgimg.New(Width, PanelHeight*vg.Length(len(panels)))
	dc := draw.New(img)
	t := draw.Tiles{
		Rows:      len(panels),
		Cols:      1,
		PadX:      vg.Millimeter,
		PadY:      4 * vg.Millimeter,
		PadTop:    2 * vg.Millimeter,
		PadBottom: 2 * vg.Millimeter,
		PadLeft:   2 * vg.Millimeter,
		PadRight:  2 * vg.Millimeter,
	}
	canvases := plot.Align(plots, t, dc)
	for i := range plots {
		plots[i][0].Draw(canvases[i][0])
	}
	if err := os.MkdirAll(filepath.Dir(fn), 0755); err != nil {
		return err
	}
	f, err := os.Create(fn)
	if err != nil {
		return err
	}
	if _, err = (vgimg.PngCanvas{Canvas: img}).WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", fn, err)
	}
	return f.Close()
}

func (pn *Panel) plot(xLabel string) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = pn.Title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = pn.YLabel
	p.Add(plotter.NewGrid())
	xmin, xmax := math.Inf(1), math.Inf(-1)
	for i, c := range pn.Curves {
		if len(c.X) == 0 {
			continue
		}
		col := c.Color
		if col == nil {
			col = Colors[i%len(Colors)]
		}
		pts := make(plotter.XYs, len(c.X))
		for j := range c.X {
			pts[j] = plotter.XY{X: c.X[j], Y: c.Y[j]}
			xmin = math.Min(xmin, c.X[j])
			xmax = math.Max(xmax, c.X[j])
		}
		s, err := plotter.NewScatter(pts)
		if err != nil {
			return nil, err
		}
		s.GlyphStyle.Color = col
		s.GlyphStyle.Radius = vg.Points(2.5)
		if c.Shape != nil {
			s.GlyphStyle.Shape = c.Shape
		} else {
			s.GlyphStyle.Shape = draw.CircleGlyph{}
		}
		if c.Err != nil {
			eb, err := plotter.NewYErrorBars(errPoints{pts, c.Err})
			if err != nil {
				return nil, err
			}
			eb.LineStyle.Color = col
			eb.CapWidth = vg.Points(3)
			p.Add(eb)
		}
		p.Add(s)
		if c.Label != "" {
			p.Legend.Add(c.Label, s)
		}
	}
	if xmin <= xmax {
		for _, y := range pn.Lines {
			l, err := plotter.NewLine(plotter.XYs{{X: xmin, Y: y}, {X: xmax, Y: y}})
			if err != nil {
				return nil, err
			}
			l.Color = gray
			l.Width = vg.Points(1)
			l.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
			p.Add(l)
		}
	}
	if pn.Lo != pn.Hi {
		p.Y.Min, p.Y.Max = math.Min(pn.Lo, pn.Hi), math.Max(pn.Lo, pn.Hi)
	}
	if pn.Invert {
		p.Y.Scale = plot.InvertedScale{Normalizer: p.Y.Scale}
	}
	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10
	return p, nil
}

// errPoints pairs points with symmetric y errors for plotter.NewYErrorBars.
type errPoints struct {
	plotter.XYs
	err []float64
}

func (e errPoints) YError(i int) (float64, float64) { return e.err[i], e.err[i] }

// Limits returns y limits of median ± k·σ for values y.  Where σ is zero
// or undefined the limits are median ± .05.
func Limits(y []float64, k float64) (lo, hi float64) {
	s := diffphot.Summarize(y)
	d := k * s.Std
	if !(d > 0) {
		d = .05
	}
	return s.Median - d, s.Median + d
}

// Hours converts MJD to hours since t0, an MJD.
func Hours(mjd, t0 float64) float64 {
	return (mjd - t0) * 24
}
