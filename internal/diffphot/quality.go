// Public domain.

package diffphot

import (
	"math"

	"github.com/soniakeys/astro"
	"github.com/soniakeys/coord"
	"github.com/soniakeys/lmfit"
	"github.com/soniakeys/unit"
)

// DefaultStability is the default Comp1 - Comp2 departure, in magnitudes,
// beyond which an epoch is flagged.
const DefaultStability = .05

// StabilityReport is the check-star comparison of two comparison stars.
type StabilityReport struct {
	Series  []Record
	Median  float64
	Flagged []Record // epochs departing from Median by more than the threshold
}

// Stability compares comparison stars a and b.  Where their difference
// departs from its median over the run by more than threshold magnitudes
// the epoch is flagged.  Flags are a data quality signal only.
func Stability(rows []Row, a, b int, threshold float64) StabilityReport {
	s := CompSeries(rows, a, b)
	r := StabilityReport{Series: s, Median: Median(Mags(s))}
	for _, rec := range s {
		if math.Abs(rec.Mag-r.Median) > threshold {
			r.Flagged = append(r.Flagged, rec)
		}
	}
	return r
}

// Astrometry fits a great circle with linear motion to the measured target
// positions and returns the rms of residuals.  For a fixed target this is
// the scatter of the astrometric solutions across epochs.  ok is false with
// fewer than three distinct epochs.
func Astrometry(rows []Row) (rms unit.Angle, ok bool) {
	t := make([]float64, 0, len(rows))
	s := make(coord.EquaS, 0, len(rows))
	for _, r := range rows {
		if len(t) > 0 && r.MJD <= t[len(t)-1] {
			continue // rows are chronological; skip repeated times
		}
		t = append(t, r.MJD)
		s = append(s, coord.Equa{
			RA:  unit.RAFromDeg(r.TargetRA),
			Dec: unit.AngleFromDeg(r.TargetDec),
		})
	}
	if len(t) < 3 {
		return 0, false
	}
	return lmfit.New(t, s).Rms(), true
}

// MinElongation is the solar elongation below which photometry is taken in
// twilight or at high airmass and is worth a second look.
var MinElongation = unit.AngleFromDeg(30)

// Elongation computes the angle between the sun and position p as seen
// from the geocenter at time mjd.
func Elongation(mjd float64, p coord.Equa) unit.Angle {
	sunEarth, _, _ := astro.Se2000(mjd)
	sdr, cdr := math.Sincos(p.RA.Rad())
	sdd, cdd := math.Sincos(p.Dec.Rad())
	dir := coord.Cart{X: cdd * cdr, Y: cdd * sdr, Z: sdd}
	// sunEarth is geocentric, pointing at the sun
	c := dir.Dot(&sunEarth) / math.Sqrt(sunEarth.Square())
	return unit.Angle(math.Acos(math.Max(-1, math.Min(1, c))))
}
