// Public domain.

// Package catalog reads the static list of named positions, the target and
// its comparison stars, that photometry is measured at.
package catalog

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/soniakeys/coord"
	"github.com/soniakeys/unit"
)

// TargetName is the (case-folded) name that identifies the target entry.
const TargetName = "target"

// Object is a named celestial position with fixed J2000 coordinates.
type Object struct {
	Name string // lower case
	coord.Equa
}

// Catalog holds the target and comparison stars in file order.
type Catalog struct {
	Target Object
	Comps  []Object
}

// All returns the target followed by the comparison stars.
func (c *Catalog) All() []Object {
	return append([]Object{c.Target}, c.Comps...)
}

// Comp returns the comparison star with the given name.
func (c *Catalog) Comp(name string) (Object, bool) {
	name = strings.ToLower(name)
	for _, o := range c.Comps {
		if o.Name == name {
			return o, true
		}
	}
	return Object{}, false
}

// ReadFile reads a catalog file.  See Read.
func ReadFile(fn string) (*Catalog, error) {
	f, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	c, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fn, err)
	}
	return c, nil
}

// Read parses lines of name, right ascension and declination, both in
// decimal degrees.  Fields are separated by commas or white space.  Empty
// lines and lines beginning with # are ignored.
//
// Exactly one entry must be named "target" (any case).  All other entries
// are comparison stars and at least one is required.
func Read(r io.Reader) (*Catalog, error) {
	var c Catalog
	var haveTarget bool
	seen := map[string]bool{}
	sc := bufio.NewScanner(r)
	for ln := 1; sc.Scan(); ln++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		o, err := parseLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", ln, err)
		}
		if seen[o.Name] {
			return nil, fmt.Errorf("line %d: duplicate name %q", ln, o.Name)
		}
		seen[o.Name] = true
		if o.Name == TargetName {
			c.Target = o
			haveTarget = true
		} else {
			c.Comps = append(c.Comps, o)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	switch {
	case !haveTarget:
		return nil, errors.New("no target entry")
	case len(c.Comps) == 0:
		return nil, errors.New("no comparison stars")
	}
	return &c, nil
}

func parseLine(line string) (o Object, err error) {
	f := strings.FieldsFunc(line, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	if len(f) != 3 {
		return o, fmt.Errorf("want 3 fields, got %d", len(f))
	}
	ra, err := strconv.ParseFloat(f[1], 64)
	if err != nil {
		return o, fmt.Errorf("invalid RA: %w", err)
	}
	dec, err := strconv.ParseFloat(f[2], 64)
	if err != nil {
		return o, fmt.Errorf("invalid Dec: %w", err)
	}
	if ra < 0 || ra >= 360 {
		return o, fmt.Errorf("RA %g out of range [0, 360)", ra)
	}
	if dec < -90 || dec > 90 {
		return o, fmt.Errorf("Dec %g out of range [-90, 90]", dec)
	}
	o.Name = strings.ToLower(f[0])
	o.RA = unit.RAFromDeg(ra)
	o.Dec = unit.AngleFromDeg(dec)
	return o, nil
}
