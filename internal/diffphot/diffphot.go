// Public domain.

// Package diffphot computes differential photometry of a target against
// comparison stars from epoch-wise matched detections.
package diffphot

import (
	"fmt"
	"log"
	"math"

	"github.com/astrolabs/difphot/internal/catalog"
	"github.com/astrolabs/difphot/internal/phot"
	"github.com/astrolabs/difphot/internal/xmatch"
)

// Mag is a magnitude with its uncertainty.  Matched is false where the
// object had no usable detection at the epoch.
type Mag struct {
	Mag, Err float64
	Matched  bool
}

// Row is the measurement of the target and all comparison stars at one
// epoch.  Comps is parallel to the catalog's comparison stars.
type Row struct {
	EpochID   int64
	MJD       float64
	TargetRA  float64 // degrees, measured
	TargetDec float64 // degrees, measured
	TargetSep float64 // arc seconds from the catalog position
	Target    Mag
	Comps     []Mag
}

// Dropped describes an epoch excluded from the output.
type Dropped struct {
	EpochID int64
	MJD     float64
	Reason  string
}

// Processor turns epochs into rows.
type Processor struct {
	Catalog *catalog.Catalog
	Matcher *xmatch.Matcher
	Floor   ErrFloor
	Verbose bool // log each epoch's matches
}

// Process matches each epoch and builds a row for every epoch where the
// target and at least one comparison star have a finite measurement.
// Epochs are processed in chronological order.
func (p *Processor) Process(epochs []phot.Epoch) (rows []Row, dropped []Dropped) {
	e := append([]phot.Epoch{}, epochs...)
	phot.SortByMJD(e)
	objs := p.Catalog.All()
	for i := range e {
		ep := &e[i]
		m := p.Matcher.Epoch(ep, objs)
		if p.Verbose {
			for _, o := range objs {
				if mt, ok := m[o.Name]; ok {
					log.Printf("data id %d: found %s at separation %.1f arcsec",
						ep.ID, o.Name, mt.Sep.Sec())
				}
			}
		}
		row, reason := p.row(ep, m)
		if reason != "" {
			log.Printf("Warning: data id %d (MJD %.6f): %s", ep.ID, ep.MJD, reason)
			dropped = append(dropped, Dropped{ep.ID, ep.MJD, reason})
			continue
		}
		rows = append(rows, row)
	}
	return
}

func (p *Processor) row(ep *phot.Epoch, m map[string]xmatch.Match) (Row, string) {
	tm, ok := m[catalog.TargetName]
	if !ok {
		return Row{}, "target not found"
	}
	if !tm.Detection.Finite() {
		return Row{}, "invalid target magnitude"
	}
	r := Row{
		EpochID:   ep.ID,
		MJD:       ep.MJD,
		TargetRA:  tm.Detection.RA.Deg(),
		TargetDec: tm.Detection.Dec.Deg(),
		TargetSep: tm.Sep.Sec(),
		Target:    p.mag(tm.Detection, ep.Band),
		Comps:     make([]Mag, len(p.Catalog.Comps)),
	}
	var n int
	for i, c := range p.Catalog.Comps {
		cm, ok := m[c.Name]
		if !ok || !cm.Detection.Finite() {
			continue
		}
		r.Comps[i] = p.mag(cm.Detection, ep.Band)
		n++
	}
	if n == 0 {
		return Row{}, "no comparison star found"
	}
	return r, ""
}

func (p *Processor) mag(d *phot.Detection, band string) Mag {
	return Mag{
		Mag:     d.Mag(),
		Err:     p.Floor.clip(d.MagErr, band),
		Matched: true,
	}
}

// Record is one point of a differential light curve.
type Record struct {
	EpochID int64
	MJD     float64
	Mag     float64
	Err     float64
}

// Diff returns a minus b with the uncertainty propagated as the
// quadrature sum of the two errors.
func Diff(a, b Mag) (mag, err float64) {
	return a.Mag - b.Mag, math.Hypot(a.Err, b.Err)
}

// Series returns target minus comparison star comp (an index into the
// catalog's comparison stars) for every row where that star was matched.
func Series(rows []Row, comp int) []Record {
	var s []Record
	for _, r := range rows {
		if comp >= len(r.Comps) || !r.Comps[comp].Matched {
			continue
		}
		m, e := Diff(r.Target, r.Comps[comp])
		s = append(s, Record{r.EpochID, r.MJD, m, e})
	}
	return s
}

// CompSeries returns comparison star a minus comparison star b for every
// row where both were matched.
func CompSeries(rows []Row, a, b int) []Record {
	var s []Record
	for _, r := range rows {
		if a >= len(r.Comps) || b >= len(r.Comps) ||
			!r.Comps[a].Matched || !r.Comps[b].Matched {
			continue
		}
		m, e := Diff(r.Comps[a], r.Comps[b])
		s = append(s, Record{r.EpochID, r.MJD, m, e})
	}
	return s
}

// Mags extracts the magnitudes of a series.
func Mags(s []Record) []float64 {
	m := make([]float64, len(s))
	for i, r := range s {
		m[i] = r.Mag
	}
	return m
}

// SeriesLabel names a series the way plots and logs show it,
// for example "Target - Comp1".
func SeriesLabel(a, b string) string {
	return fmt.Sprintf("%s - %s", title(a), title(b))
}

func title(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if b[0] >= 'a' && b[0] <= 'z' {
		b[0] -= 'a' - 'A'
	}
	return string(b)
}
