// Public domain.

package dpprog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astrolabs/difphot/internal/catalog"
	"github.com/astrolabs/difphot/internal/diffphot"
	"github.com/astrolabs/difphot/internal/lcplot"
)

func TestParseConfigDefaults(t *testing.T) {
	opt, err := parseConfig(strings.NewReader("# nothing\n\n"))
	require.NoError(t, err)
	assert.Equal(t, defaultOptions(), opt)
	assert.True(t, opt.plots)
	assert.True(t, opt.html)
	assert.Equal(t, 5., opt.radius)
	assert.Equal(t, lcplot.DefaultSigma, opt.sigma)
}

func TestParseConfig(t *testing.T) {
	opt, err := parseConfig(strings.NewReader(`
# test config
band = GaiaSP/g
radius=3.5
sigma = 2
stability = 0.02
errfloor = .01
errfloor GaiaSP/r = .005
noplots
nohtml
verbose
`))
	require.NoError(t, err)
	assert.Equal(t, &options{
		band:      "GaiaSP/g",
		sigma:     2,
		radius:    3.5,
		stability: .02,
		floor: diffphot.ErrFloor{
			Default: .01,
			Band:    map[string]float64{"GaiaSP/r": .005},
		},
		verbose: true,
	}, opt)
}

func TestParseConfigErrors(t *testing.T) {
	for _, l := range []string{
		"radius = 0",
		"radius = -1",
		"sigma = x",
		"errfloor",
		"errfloor = 2",
		"colour = red",
		"headings",
	} {
		_, err := parseConfig(strings.NewReader(l + "\n"))
		assert.Error(t, err, l)
	}
}

func TestOverride(t *testing.T) {
	cl := &commandLine{
		band:   "V",
		sigma:  4,
		radius: 2,
		set:    map[string]bool{"f": true, "r": true},
	}
	opt := defaultOptions()
	cl.override(opt)
	assert.Equal(t, "V", opt.band)
	assert.Equal(t, 2., opt.radius)
	assert.Equal(t, lcplot.DefaultSigma, opt.sigma)
}

func TestFixupCP(t *testing.T) {
	cl := &commandLine{dp: "work"}
	assert.Equal(t, "x.dat", cl.fixupCP("x.dat", ObjectsFile))
	assert.Equal(t, "work/objects.dat", cl.fixupCP("", ObjectsFile))
}

func TestCompNames(t *testing.T) {
	c := &catalog.Catalog{Comps: []catalog.Object{{Name: "comp1"}, {Name: "comp2"}}}
	assert.Equal(t, []string{"comp1", "comp2"}, compNames(c))
}
