// Public domain.

package lcplot

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"github.com/soniakeys/coord"
	"github.com/soniakeys/unit"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/astrolabs/difphot/internal/catalog"
	"github.com/astrolabs/difphot/internal/phot"
)

// Tangent projects p on the plane tangent to the sky at center.  xi
// increases to the east, eta to the north.
func Tangent(center, p coord.Equa) (xi, eta unit.Angle) {
	sd0, cd0 := math.Sincos(center.Dec.Rad())
	sd, cd := math.Sincos(p.Dec.Rad())
	sa, ca := math.Sincos(p.RA.Rad() - center.RA.Rad())
	c := sd0*sd + cd0*cd*ca
	return unit.Angle(cd * sa / c), unit.Angle((cd0*sd - sd0*cd*ca) / c)
}

// FieldMargin is added around the catalog positions to size the chart.
var FieldMargin = unit.AngleFromSec(30)

// Field writes a chart of one epoch's detections with circles of the
// matching radius and labels at the catalog positions.  Offsets are in
// arc seconds from the target, north up, east left.
func Field(fn, title string, c *catalog.Catalog, dets []phot.Detection,
	radius unit.Angle) error {
	center := c.Target.Equa
	var span float64
	var marks plotter.XYs
	var names []string
	for _, o := range c.All() {
		xi, eta := Tangent(center, o.Equa)
		marks = append(marks, plotter.XY{X: xi.Sec(), Y: eta.Sec()})
		names = append(names, o.Name)
		span = math.Max(span, math.Max(math.Abs(xi.Sec()), math.Abs(eta.Sec())))
	}
	span += FieldMargin.Sec()

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "East offset [arcsec]"
	p.Y.Label.Text = "North offset [arcsec]"
	p.Add(plotter.NewGrid())

	var pts plotter.XYs
	for i := range dets {
		d := &dets[i]
		if !d.ValidPosition() {
			continue
		}
		xi, eta := Tangent(center, d.Equa)
		x, y := xi.Sec(), eta.Sec()
		if math.Abs(x) <= span && math.Abs(y) <= span {
			pts = append(pts, plotter.XY{X: x, Y: y})
		}
	}
	if len(pts) > 0 {
		s, err := plotter.NewScatter(pts)
		if err != nil {
			return err
		}
		s.GlyphStyle.Color = gray
		s.GlyphStyle.Radius = vg.Points(2)
		s.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(s)
		p.Legend.Add(fmt.Sprintf("detections (%d)", len(pts)), s)
	}

	for i, m := range marks {
		col := color.Color(Colors[1])
		if i > 0 {
			col = Colors[0]
		}
		l, err := plotter.NewLine(circle(m, radius.Sec()))
		if err != nil {
			return err
		}
		l.Color = col
		l.Width = vg.Points(1.5)
		p.Add(l)
	}
	lb, err := plotter.NewLabels(plotter.XYLabels{XYs: marks, Labels: names})
	if err != nil {
		return err
	}
	lb.Offset = vg.Point{X: vg.Points(6), Y: vg.Points(6)}
	p.Add(lb)

	p.X.Min, p.X.Max = -span, span
	p.Y.Min, p.Y.Max = -span, span
	p.X.Scale = plot.InvertedScale{Normalizer: p.X.Scale}
	p.Legend.Top = true

	if err := os.MkdirAll(filepath.Dir(fn), 0755); err != nil {
		return err
	}
	return p.Save(10*vg.Inch, 10*vg.Inch, fn)
}

func circle(c plotter.XY, r float64) plotter.XYs {
	const n = 48
	pts := make(plotter.XYs, n+1)
	for i := range pts {
		s, co := math.Sincos(2 * math.Pi * float64(i) / n)
		pts[i] = plotter.XY{X: c.X + r*co, Y: c.Y + r*s}
	}
	return pts
}
