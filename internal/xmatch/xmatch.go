// Public domain.

// Package xmatch matches catalog positions to detections of a single epoch.
package xmatch

import (
	"errors"

	"github.com/soniakeys/meeus/v3/angle"
	"github.com/soniakeys/unit"

	"github.com/astrolabs/difphot/internal/catalog"
	"github.com/astrolabs/difphot/internal/phot"
)

// DefaultRadius is the default matching tolerance.
var DefaultRadius = unit.AngleFromSec(5)

// Match is the detection found for a catalog entry.
type Match struct {
	Object    catalog.Object
	Detection *phot.Detection
	Sep       unit.Angle // separation from the catalog position
}

// Matcher finds nearest detections within a fixed radius.
type Matcher struct {
	radius unit.Angle
}

// New creates a Matcher.  Radius must be positive.
func New(radius unit.Angle) (*Matcher, error) {
	if !(radius > 0) {
		return nil, errors.New("matching radius must be positive")
	}
	return &Matcher{radius}, nil
}

// Radius returns the matching tolerance.
func (m *Matcher) Radius() unit.Angle { return m.radius }

// Nearest returns the detection nearest to o and its separation.
// Detections with out-of-range positions are ignored.  Among detections at
// equal separation the first one wins.  ok is false if no detection lies
// within the matching radius.
func (m *Matcher) Nearest(dets []phot.Detection, o catalog.Object) (
	best *phot.Detection, sep unit.Angle, ok bool) {
	for i := range dets {
		d := &dets[i]
		if !d.ValidPosition() {
			continue
		}
		// haversine form, periodic in the RA difference across 0h
		s := angle.SepHav(unit.Angle(o.RA), o.Dec, unit.Angle(d.RA), d.Dec)
		if best == nil || s < sep {
			best, sep = d, s
		}
	}
	if best == nil || sep > m.radius {
		return nil, 0, false
	}
	return best, sep, true
}

// Epoch matches every object against the detections of one epoch.
// The result is keyed by object name; unmatched objects are absent.
func (m *Matcher) Epoch(e *phot.Epoch, objs []catalog.Object) map[string]Match {
	r := make(map[string]Match, len(objs))
	for _, o := range objs {
		if d, sep, ok := m.Nearest(e.Detections, o); ok {
			r[o.Name] = Match{Object: o, Detection: d, Sep: sep}
		}
	}
	return r
}
