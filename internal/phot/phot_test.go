// Public domain.

package phot_test

import (
	"fmt"
	"math"
	"testing"

	"github.com/soniakeys/coord"
	"github.com/soniakeys/observation"
	"github.com/soniakeys/unit"
	"github.com/stretchr/testify/assert"

	"github.com/astrolabs/difphot/internal/phot"
)

func epochs() []phot.Epoch {
	return []phot.Epoch{
		{ID: 3, MJD: 60002, Band: "GaiaSP/r"},
		{ID: 2, MJD: 60001, Band: "GaiaSP/g"},
		{ID: 1, MJD: 60001, Band: "gaiasp/G"},
		{ID: 4, MJD: 60000},
	}
}

func ExampleSortByMJD() {
	e := epochs()
	phot.SortByMJD(e)
	for _, ep := range e {
		fmt.Println(ep.ID, ep.MJD)
	}
	// Output:
	// 4 60000
	// 1 60001
	// 2 60001
	// 3 60002
}

func ExampleBands() {
	fmt.Println(phot.Bands(epochs()))
	// Output:
	// [GaiaSP/g GaiaSP/r Unknown gaiasp/G]
}

func TestFilterBand(t *testing.T) {
	e := epochs()
	assert.Len(t, phot.FilterBand(e, ""), 4)
	g := phot.FilterBand(e, "GAIASP/G")
	if assert.Len(t, g, 2) {
		assert.Equal(t, int64(2), g[0].ID)
		assert.Equal(t, int64(1), g[1].ID)
	}
	assert.Empty(t, phot.FilterBand(e, "V"))
}

// Every band Bands lists selects at least one epoch.
func TestFilterBandListed(t *testing.T) {
	e := epochs()
	for _, b := range phot.Bands(e) {
		assert.NotEmpty(t, phot.FilterBand(e, b), b)
	}
	u := phot.FilterBand(e, "unknown")
	if assert.Len(t, u, 1) {
		assert.Equal(t, int64(4), u[0].ID)
	}
}

var detectionCases = []struct {
	ra, dec, mag, err float64
	finite, valid     bool
}{
	{150, 20, -9, .01, true, true},
	{150, 20, math.NaN(), .01, false, true},
	{150, 20, -9, math.Inf(1), false, true},
	{0, -90, -9, .01, true, true},
	{150, 91, -9, .01, true, false},
	{-1, 20, -9, .01, true, false},
}

func TestDetection(t *testing.T) {
	for i, c := range detectionCases {
		d := phot.Detection{
			VMeas: observation.VMeas{
				Equa: coord.Equa{
					RA:  unit.RA(unit.AngleFromDeg(c.ra)),
					Dec: unit.AngleFromDeg(c.dec),
				},
				VMag: c.mag,
			},
			MagErr: c.err,
		}
		assert.Equal(t, c.finite, d.Finite(), "case %d", i)
		assert.Equal(t, c.valid, d.ValidPosition(), "case %d", i)
	}
}
