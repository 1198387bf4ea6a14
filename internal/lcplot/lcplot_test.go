// Public domain.

package lcplot_test

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/soniakeys/coord"
	"github.com/soniakeys/observation"
	"github.com/soniakeys/unit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astrolabs/difphot/internal/catalog"
	"github.com/astrolabs/difphot/internal/diffphot"
	"github.com/astrolabs/difphot/internal/lcplot"
	"github.com/astrolabs/difphot/internal/phot"
)

func testRows() []diffphot.Row {
	var rows []diffphot.Row
	for i := 0; i < 20; i++ {
		v := .01 * math.Sin(float64(i))
		rows = append(rows, diffphot.Row{
			MJD:    60000.1 + float64(i)/288,
			Target: diffphot.Mag{Mag: 14.8 + v, Err: .004, Matched: true},
			Comps: []diffphot.Mag{
				{Mag: 14.2, Err: .003, Matched: true},
				{Mag: 13.5 + v/3, Err: .002, Matched: i%5 != 0},
			},
		})
	}
	return rows
}

func TestLimits(t *testing.T) {
	lo, hi := lcplot.Limits([]float64{1, 1, 1}, 3)
	assert.InDelta(t, .95, lo, 1e-12)
	assert.InDelta(t, 1.05, hi, 1e-12)

	lo, hi = lcplot.Limits([]float64{1, 2, 3}, 2)
	assert.InDelta(t, 0, lo, 1e-12)
	assert.InDelta(t, 4, hi, 1e-12)
}

func TestHours(t *testing.T) {
	assert.InDelta(t, 6, lcplot.Hours(60000.25, 60000), 1e-9)
	assert.Equal(t, 60000.1, lcplot.Start(testRows()))
}

func TestLightCurvePanels(t *testing.T) {
	pn := lcplot.LightCurvePanels(testRows(), []string{"comp1", "comp2"}, 3)
	require.Len(t, pn, 3)
	assert.True(t, strings.HasPrefix(pn[0].Title, "Target - Comp1"))
	assert.True(t, strings.HasPrefix(pn[2].Title, "Comp1 - Comp2"))
	assert.Len(t, pn[0].Curves[0].X, 20)
	assert.Len(t, pn[1].Curves[0].X, 16)
	assert.True(t, pn[0].Invert)
	assert.Less(t, pn[0].Lo, pn[0].Hi)

	pn = lcplot.LightCurvePanels(testRows(), []string{"comp1"}, 3)
	assert.Len(t, pn, 1)
}

func TestLightCurve(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "plots", "magnitude_ratios.png")
	require.NoError(t, lcplot.LightCurve(fn, testRows(), []string{"comp1", "comp2"}, 3))
	fi, err := os.Stat(fn)
	require.NoError(t, err)
	assert.Positive(t, fi.Size())

	assert.Error(t, lcplot.LightCurve(fn, nil, []string{"comp1"}, 3))
}

func TestHTML(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "lightcurve.html")
	require.NoError(t, lcplot.HTML(fn, "test field", testRows(), []string{"comp1", "comp2"}))
	b, err := os.ReadFile(fn)
	require.NoError(t, err)
	assert.Contains(t, string(b), "Target - Comp2")

	assert.Error(t, lcplot.HTML(fn, "empty", nil, []string{"comp1"}))
}

func TestCompare(t *testing.T) {
	c := &lcplot.Comparison{
		T0:        60000,
		Name:      "PSF",
		RefName:   "Aperture",
		Labels:    [3]string{"Target - Comp1", "Target - Comp2", "Comp1 - Comp2"},
		RefLabels: [3]string{"T1 - C2", "T1 - C3", "C2 - C3"},
	}
	for i := 0; i < 10; i++ {
		c.MJD = append(c.MJD, 60000.1+float64(i)/288)
		c.RefMJD = append(c.RefMJD, 60000.1+float64(i)/288+1e-4)
		c.Err = append(c.Err, .004)
		for k := range c.Ours {
			c.Ours[k] = append(c.Ours[k], float64(k)+.001*float64(i))
			c.Ref[k] = append(c.Ref[k], float64(k)+.001*float64(i)+.02)
		}
	}
	pn := lcplot.ComparisonPanels(c)
	require.Len(t, pn, 5)
	assert.InDelta(t, -.03, pn[2].Lo, 1e-9)
	assert.InDelta(t, .07, pn[2].Hi, 1e-9)
	for _, r := range c.Residuals(1) {
		assert.InDelta(t, .02, r, 1e-9)
	}

	fn := filepath.Join(t.TempDir(), "photometry_comparison.png")
	require.NoError(t, lcplot.Compare(fn, c))
	assert.Error(t, lcplot.Compare(fn, &lcplot.Comparison{}))
}

func TestTangent(t *testing.T) {
	center := coord.Equa{RA: unit.RAFromDeg(150), Dec: unit.AngleFromDeg(20)}
	xi, eta := lcplot.Tangent(center, center)
	assert.InDelta(t, 0, xi.Sec(), 1e-9)
	assert.InDelta(t, 0, eta.Sec(), 1e-9)

	north := coord.Equa{RA: center.RA, Dec: unit.AngleFromDeg(20 + 10./3600)}
	xi, eta = lcplot.Tangent(center, north)
	assert.InDelta(t, 0, xi.Sec(), 1e-6)
	assert.InDelta(t, 10, eta.Sec(), 1e-3)

	east := coord.Equa{RA: unit.RAFromDeg(150 + 10./3600/math.Cos(20*math.Pi/180)),
		Dec: center.Dec}
	xi, _ = lcplot.Tangent(center, east)
	assert.InDelta(t, 10, xi.Sec(), 1e-3)
}

func TestField(t *testing.T) {
	c, err := catalog.Read(strings.NewReader(
		"target 150 20\ncomp1 150.01 20\ncomp2 149.99 20.01\n"))
	require.NoError(t, err)
	var dets []phot.Detection
	for _, o := range c.All() {
		dets = append(dets, phot.Detection{VMeas: observation.VMeas{Equa: o.Equa, VMag: 14}})
	}
	dets = append(dets, phot.Detection{VMeas: observation.VMeas{Equa: coord.Equa{
		RA: unit.RAFromDeg(10), Dec: unit.AngleFromDeg(-5)}}})
	fn := filepath.Join(t.TempDir(), "plots", "field.png")
	require.NoError(t, lcplot.Field(fn, "field", c, dets, unit.AngleFromSec(5)))
	_, err = os.Stat(fn)
	assert.NoError(t, err)
}
