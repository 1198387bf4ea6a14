// Public domain.

package lcfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/astrolabs/difphot/internal/diffphot"
	"github.com/astrolabs/difphot/internal/phot"
)

// DefaultPairWindow is the largest time difference at which an AstroImageJ
// measurement is paired with a result row.
const DefaultPairWindow = 180 * time.Second

// AIJ is an AstroImageJ measurement table.
type AIJ struct {
	Columns []string
	Rows    [][]float64 // parallel to Columns; NaN where a field is not numeric
	jd      int
}

// ReadAIJFile reads an AstroImageJ measurement table.  See ReadAIJ.
func ReadAIJFile(fn string) (*AIJ, error) {
	f, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	t, err := ReadAIJ(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fn, err)
	}
	return t, nil
}

// ReadAIJ reads a tab delimited AstroImageJ table.  The first line holds
// column names and one column must be JD_UTC, usually written "#JD_UTC".
func ReadAIJ(r io.Reader) (*AIJ, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(nil, 1<<20)
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, err
		}
		return nil, errors.New("empty table")
	}
	t := &AIJ{jd: -1}
	for i, c := range strings.Split(sc.Text(), "\t") {
		c = strings.TrimPrefix(strings.TrimSpace(c), "#")
		t.Columns = append(t.Columns, c)
		if c == "JD_UTC" && t.jd < 0 {
			t.jd = i
		}
	}
	if t.jd < 0 {
		return nil, errors.New("no JD_UTC column")
	}
	for ln := 2; sc.Scan(); ln++ {
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		f := strings.Split(line, "\t")
		if len(f) != len(t.Columns) {
			return nil, fmt.Errorf("line %d: %d fields, want %d",
				ln, len(f), len(t.Columns))
		}
		row := make([]float64, len(f))
		for i, s := range f {
			v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err != nil {
				v = math.NaN()
			}
			row[i] = v
		}
		if math.IsNaN(row[t.jd]) {
			return nil, fmt.Errorf("line %d: invalid JD_UTC %q", ln, f[t.jd])
		}
		t.Rows = append(t.Rows, row)
	}
	return t, sc.Err()
}

// Column returns the index of the named column.
func (t *AIJ) Column(name string) (int, error) {
	for i, c := range t.Columns {
		if c == name {
			return i, nil
		}
	}
	return -1, fmt.Errorf("no column %q", name)
}

// MJD returns the time of row i.
func (t *AIJ) MJD(i int) float64 {
	return t.Rows[i][t.jd] - phot.JDOffset
}

// Pair is a result row matched in time to an AstroImageJ row.
type Pair struct {
	Row diffphot.Row
	AIJ int     // row index in the AstroImageJ table
	DT  float64 // seconds, AstroImageJ minus result
}

// PairByTime pairs each result row with the AstroImageJ row closest in
// time, where that is no more than window away.  Result rows with no
// AstroImageJ row in the window are left out.  Pairs are in the order of
// rows.
func PairByTime(rows []diffphot.Row, t *AIJ, window time.Duration) []Pair {
	idx := make([]int, len(t.Rows))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return t.MJD(idx[a]) < t.MJD(idx[b]) })
	w := window.Seconds()
	var pairs []Pair
	for _, r := range rows {
		k := sort.Search(len(idx), func(i int) bool { return t.MJD(idx[i]) >= r.MJD })
		best, bestDT := -1, math.Inf(1)
		for _, c := range []int{k - 1, k} {
			if c < 0 || c >= len(idx) {
				continue
			}
			dt := (t.MJD(idx[c]) - r.MJD) * 86400
			if math.Abs(dt) < math.Abs(bestDT) {
				best, bestDT = idx[c], dt
			}
		}
		if best >= 0 && math.Abs(bestDT) <= w {
			pairs = append(pairs, Pair{r, best, bestDT})
		}
	}
	return pairs
}

// RelFluxMag converts a ratio of AstroImageJ relative fluxes to a
// differential magnitude, -2.5 log10(num/den).
func RelFluxMag(num, den float64) float64 {
	return -2.5 * math.Log10(num/den)
}
