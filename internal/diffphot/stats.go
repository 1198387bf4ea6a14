// Public domain.

package diffphot

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Stats summarizes a series of values.  Std is the sample standard
// deviation; it is zero for fewer than two values.
type Stats struct {
	N      int
	Mean   float64
	Median float64
	Std    float64
	Min    float64
	Max    float64
}

// Summarize computes Stats of x.  x is not modified.
func Summarize(x []float64) Stats {
	s := Stats{N: len(x)}
	if len(x) == 0 {
		return s
	}
	s.Mean = stat.Mean(x, nil)
	s.Median = Median(x)
	if len(x) > 1 {
		s.Std = stat.StdDev(x, nil)
	}
	s.Min = floats.Min(x)
	s.Max = floats.Max(x)
	return s
}

// Median returns the median of x, the mean of the two middle values for
// even lengths.  It returns NaN for empty x.
func Median(x []float64) float64 {
	n := len(x)
	if n == 0 {
		return math.NaN()
	}
	s := append([]float64{}, x...)
	sort.Float64s(s)
	if n%2 == 1 {
		return s[n/2]
	}
	return (s[n/2-1] + s[n/2]) / 2
}
