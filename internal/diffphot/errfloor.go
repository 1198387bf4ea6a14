// Public domain.

package diffphot

// ErrFloor is a lower limit on magnitude errors.  Extraction catalogs
// underestimate errors of bright sources; a floor keeps a few very
// confident points from dominating.
type ErrFloor struct {
	Default float64            // applies to bands not in Band
	Band    map[string]float64 // from config file
}

// clip computes the magnitude error to use based on the reported error and
// configured floors.
func (f ErrFloor) clip(reported float64, band string) float64 {
	// look for config file specified floor for this band
	floor, ok := f.Band[band]
	if !ok {
		// not there, fall back on default
		floor = f.Default
	}
	if floor == 0 {
		// no floor configured
		return reported
	}
	if reported > floor {
		return reported
	}
	return floor
}
