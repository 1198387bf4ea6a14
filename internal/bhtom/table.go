// Public domain.

package bhtom

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/soniakeys/coord"
	"github.com/soniakeys/observation"
	"github.com/soniakeys/unit"

	"github.com/astrolabs/difphot/internal/phot"
)

// Detection is one row of a source extraction table, columns
// NUMBER ALPHA_J2000 DELTA_J2000 XWIN_IMAGE YWIN_IMAGE MAG_AUTO MAGERR_AUTO.
type Detection struct {
	Number      int
	RA, Dec     float64 // degrees
	X, Y        float64
	Mag, MagErr float64
}

// ParseTable reads a source extraction table.
//
// Lines starting with # are comments.  Lines that do not hold seven
// numeric columns, such as column headings, are quietly ignored.
func ParseTable(r io.Reader) ([]Detection, error) {
	var dets []Detection
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		f := strings.Fields(line)
		if len(f) != 7 {
			continue
		}
		n, err := strconv.Atoi(f[0])
		if err != nil {
			continue
		}
		var v [6]float64
		for i := range v {
			if v[i], err = strconv.ParseFloat(f[i+1], 64); err != nil {
				break
			}
		}
		if err != nil {
			continue
		}
		dets = append(dets, Detection{n, v[0], v[1], v[2], v[3], v[4], v[5]})
	}
	return dets, sc.Err()
}

// Phot converts a table row to a phot.Detection.
func (d Detection) Phot(mjd float64, band, object string) phot.Detection {
	return phot.Detection{
		VMeas: observation.VMeas{
			MJD: mjd,
			Equa: coord.Equa{
				RA:  unit.RAFromDeg(d.RA),
				Dec: unit.AngleFromDeg(d.Dec),
			},
			VMag: d.Mag,
			Qual: band,
		},
		Number: d.Number,
		X:      d.X,
		Y:      d.Y,
		MagErr: d.MagErr,
		Object: object,
	}
}
