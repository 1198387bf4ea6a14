// Public domain.

// Package phot defines the observation data shared by the pipeline steps:
// detections from a source-extraction catalog, grouped by epoch.
package phot

import (
	"math"
	"sort"
	"strings"

	"github.com/soniakeys/observation"
)

// JDOffset converts between Julian date and modified Julian date.
const JDOffset = 2400000.5

// Detection is one source measured on one image.
//
// The embedded VMeas carries MJD, position, and instrumental magnitude.
// Qual holds the filter band.
type Detection struct {
	observation.VMeas
	Number int     // source number within the extraction catalog
	X, Y   float64 // pixel position, XWIN_IMAGE, YWIN_IMAGE
	MagErr float64
	Object string // name of the object the data product was requested for
}

// Mag returns the instrumental magnitude.
func (d *Detection) Mag() float64 { return d.VMag }

// Finite reports whether magnitude and error are usable numbers.
func (d *Detection) Finite() bool {
	return !math.IsNaN(d.VMag) && !math.IsInf(d.VMag, 0) &&
		!math.IsNaN(d.MagErr) && !math.IsInf(d.MagErr, 0)
}

// ValidPosition reports whether RA and Dec are in range.  Extraction
// catalogs occasionally carry sentinel values for failed astrometry.
func (d *Detection) ValidPosition() bool {
	ra, dec := d.RA.Deg(), d.Dec.Deg()
	return ra >= 0 && ra < 360 && dec >= -90 && dec <= 90
}

// Epoch is one data product, a single timestamped image of the field.
type Epoch struct {
	ID         int64 // data product id assigned by the catalog service
	MJD        float64
	Band       string
	Object     string
	Detections []Detection
}

// SortByMJD orders epochs chronologically, ties by id.
func SortByMJD(e []Epoch) {
	sort.SliceStable(e, func(i, j int) bool {
		if e[i].MJD != e[j].MJD {
			return e[i].MJD < e[j].MJD
		}
		return e[i].ID < e[j].ID
	})
}

// Unknown names the band of epochs that carry none.
const Unknown = "Unknown"

// FilterBand returns the epochs observed in band, compared case-insensitively.
// An empty band selects all epochs.  Band Unknown selects epochs without
// a band, as listed by Bands.
func FilterBand(e []Epoch, band string) []Epoch {
	if band == "" {
		return e
	}
	if strings.EqualFold(band, Unknown) {
		band = ""
	}
	var f []Epoch
	for _, ep := range e {
		if strings.EqualFold(ep.Band, band) {
			f = append(f, ep)
		}
	}
	return f
}

// Bands lists the distinct bands present, sorted.  Epochs without a band
// are listed as Unknown.
func Bands(e []Epoch) []string {
	m := map[string]bool{}
	for _, ep := range e {
		b := ep.Band
		if b == "" {
			b = Unknown
		}
		m[b] = true
	}
	bs := make([]string, 0, len(m))
	for b := range m {
		bs = append(bs, b)
	}
	sort.Strings(bs)
	return bs
}
