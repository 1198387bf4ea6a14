// Public domain.

// Package lcfile converts differential photometry results to the light
// curve text formats used for exchange with other photometry tools.
//
// All conversions are row-wise.  Times are written as Julian dates,
// MJD + 2400000.5.
package lcfile

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/astrolabs/difphot/internal/diffphot"
	"github.com/astrolabs/difphot/internal/phot"
)

// Column headings of the text tables.
const (
	DiffMagHeader = "#JD_UTC\tdiff_mag\terror_diff_mag"
	FluxHeader    = "#JD_UTC\tflux_source\terror_flux_source"
	RelFluxHeader = "#JD_UTC\trel_flux\terror_rel_flux"
)

// fluxErrFac converts a magnitude error to a relative flux error.
var fluxErrFac = math.Ln10 / 2.5

// MagToFlux converts a magnitude and its error to flux relative to zero
// point zp.  A magnitude of zp has flux 1.
func MagToFlux(mag, magErr, zp float64) (flux, fluxErr float64) {
	flux = math.Pow(10, -.4*(mag-zp))
	return flux, flux * fluxErrFac * magErr
}

// FluxToMag is the inverse of MagToFlux.
func FluxToMag(flux, fluxErr, zp float64) (mag, magErr float64) {
	return zp - 2.5*math.Log10(flux), fluxErr / (flux * fluxErrFac)
}

// Point is one row of a three column light curve table.
type Point struct {
	JD, Value, Err float64
}

// DiffMag returns target minus comparison star comp for each row where
// that star matched.  The error is the quadrature sum.
func DiffMag(rows []diffphot.Row, comp int) []Point {
	s := diffphot.Series(rows, comp)
	p := make([]Point, len(s))
	for i, r := range s {
		p[i] = Point{r.MJD + phot.JDOffset, r.Mag, r.Err}
	}
	return p
}

// Flux returns the target flux of each row.
func Flux(rows []diffphot.Row, zp float64) []Point {
	p := make([]Point, len(rows))
	for i, r := range rows {
		f, e := MagToFlux(r.Target.Mag, r.Target.Err, zp)
		p[i] = Point{r.MJD + phot.JDOffset, f, e}
	}
	return p
}

// RelFlux converts differential magnitudes to target/comparison flux
// ratios.  Brighter targets have larger ratios.
func RelFlux(dm []Point) []Point {
	p := make([]Point, len(dm))
	for i, d := range dm {
		f, e := MagToFlux(d.Value, d.Err, 0)
		p[i] = Point{d.JD, f, e}
	}
	return p
}

// RelFluxToDiffMag is the inverse of RelFlux.
func RelFluxToDiffMag(rf []Point) []Point {
	p := make([]Point, len(rf))
	for i, f := range rf {
		m, e := FluxToMag(f.Value, f.Err, 0)
		p[i] = Point{f.JD, m, e}
	}
	return p
}

// WriteDiffMag writes a differential magnitude table.
func WriteDiffMag(w io.Writer, p []Point) error {
	return writeTable(w, DiffMagHeader, "%.10f\t%.6f\t%.6f\n", p)
}

// WriteFlux writes a flux table.  WriteFlux is also used for relative
// flux tables, with header RelFluxHeader.
func WriteFlux(w io.Writer, header string, p []Point) error {
	return writeTable(w, header, "%.10f\t%.10e\t%.10e\n", p)
}

func writeTable(w io.Writer, header, format string, p []Point) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, header)
	for _, pt := range p {
		fmt.Fprintf(bw, format, pt.JD, pt.Value, pt.Err)
	}
	return bw.Flush()
}

// ReadTable reads any of the three column tables.  Lines starting with #
// are ignored.  Columns may be separated by any white space.
func ReadTable(r io.Reader) ([]Point, error) {
	var p []Point
	sc := bufio.NewScanner(r)
	for ln := 1; sc.Scan(); ln++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		f := strings.Fields(line)
		if len(f) != 3 {
			return nil, fmt.Errorf("line %d: want 3 columns, got %d", ln, len(f))
		}
		var v [3]float64
		for i := range v {
			var err error
			if v[i], err = strconv.ParseFloat(f[i], 64); err != nil {
				return nil, fmt.Errorf("line %d: %w", ln, err)
			}
		}
		p = append(p, Point{v[0], v[1], v[2]})
	}
	return p, sc.Err()
}

// WriteFluxCSV writes the full flux file: target flux and error,
// comparison star fluxes, and measured target position.  Comparison stars
// not matched at an epoch are written as empty fields.
func WriteFluxCSV(w io.Writer, rows []diffphot.Row, comps []string, zp float64) error {
	cw := csv.NewWriter(w)
	h := []string{"JD_UTC", "flux_source", "error_flux_source"}
	for _, c := range comps {
		h = append(h, "flux_"+strings.ToLower(c))
	}
	h = append(h, "TARGET_RA", "TARGET_DEC", "TARGET_SEP")
	if err := cw.Write(h); err != nil {
		return err
	}
	f8 := func(v float64) string { return strconv.FormatFloat(v, 'f', 8, 64) }
	for _, r := range rows {
		f, e := MagToFlux(r.Target.Mag, r.Target.Err, zp)
		rec := []string{f8(r.MJD + phot.JDOffset), f8(f), f8(e)}
		for i := range comps {
			if i >= len(r.Comps) || !r.Comps[i].Matched {
				rec = append(rec, "")
				continue
			}
			cf, _ := MagToFlux(r.Comps[i].Mag, 0, zp)
			rec = append(rec, f8(cf))
		}
		rec = append(rec, f8(r.TargetRA), f8(r.TargetDec), f8(r.TargetSep))
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
