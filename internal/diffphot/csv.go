// Public domain.

package diffphot

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// fixed leading columns of the results file
var head = []string{
	"MJD", "TARGET_RA", "TARGET_DEC", "TARGET_SEP",
	"TARGET_MAG", "TARGET_MAGERR",
}

// Header returns the results file column names for the named comparison
// stars.
func Header(comps []string) []string {
	h := append([]string{}, head...)
	for _, c := range comps {
		c = strings.ToUpper(c)
		h = append(h, c+"_MAG", c+"_MAGERR")
	}
	return h
}

// WriteCSV writes rows as the results file.  Comparison stars not matched
// at an epoch are written as empty fields.
func WriteCSV(w io.Writer, rows []Row, comps []string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header(comps)); err != nil {
		return err
	}
	rec := make([]string, 0, len(head)+2*len(comps))
	for _, r := range rows {
		if len(r.Comps) != len(comps) {
			return fmt.Errorf("epoch %.6f: %d comparison stars, want %d",
				r.MJD, len(r.Comps), len(comps))
		}
		rec = append(rec[:0],
			ff(r.MJD), ff(r.TargetRA), ff(r.TargetDec), ff(r.TargetSep),
			ff(r.Target.Mag), ff(r.Target.Err))
		for _, c := range r.Comps {
			if c.Matched {
				rec = append(rec, ff(c.Mag), ff(c.Err))
			} else {
				rec = append(rec, "", "")
			}
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSVFile writes the results file, creating its directory as needed.
func WriteCSVFile(fn string, rows []Row, comps []string) error {
	if err := os.MkdirAll(filepath.Dir(fn), 0755); err != nil {
		return err
	}
	f, err := os.Create(fn)
	if err != nil {
		return err
	}
	if err = WriteCSV(f, rows, comps); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func ff(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ReadCSV reads a results file written by WriteCSV.  Comparison star names
// are recovered from the column names, in lower case.  Files with only
// COMPn_MAG columns are also accepted; their comparison star errors read
// as zero.
func ReadCSV(r io.Reader) (rows []Row, comps []string, err error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	h, err := cr.Read()
	if err == io.EOF {
		return nil, nil, errors.New("empty results file")
	}
	if err != nil {
		return nil, nil, err
	}
	if len(h) < len(head) {
		return nil, nil, fmt.Errorf("unexpected header: %v", h)
	}
	for i, c := range head {
		if !strings.EqualFold(strings.TrimSpace(h[i]), c) {
			return nil, nil, fmt.Errorf("column %d is %q, want %q", i+1, h[i], c)
		}
	}
	stride := 2
	if legacyHeader(h[len(head):]) {
		stride = 1
	} else if (len(h)-len(head))%2 != 0 {
		return nil, nil, fmt.Errorf("unexpected header: %v", h)
	}
	for i := len(head); i < len(h); i += stride {
		name := strings.TrimSuffix(strings.ToUpper(strings.TrimSpace(h[i])), "_MAG")
		if stride == 2 && !strings.EqualFold(strings.TrimSpace(h[i+1]), name+"_MAGERR") {
			return nil, nil, fmt.Errorf("column %d is %q, want %s_MAGERR",
				i+2, h[i+1], name)
		}
		comps = append(comps, strings.ToLower(name))
	}
	for ln := 2; ; ln++ {
		rec, err := cr.Read()
		if err == io.EOF {
			return rows, comps, nil
		}
		if err != nil {
			return nil, nil, err
		}
		if len(rec) != len(h) {
			return nil, nil, fmt.Errorf("line %d: %d fields, want %d",
				ln, len(rec), len(h))
		}
		row, err := parseRow(rec, len(comps), stride)
		if err != nil {
			return nil, nil, fmt.Errorf("line %d: %w", ln, err)
		}
		rows = append(rows, row)
	}
}

// ReadCSVFile reads a results file.
func ReadCSVFile(fn string) ([]Row, []string, error) {
	f, err := os.Open(fn)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	rows, comps, err := ReadCSV(f)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", fn, err)
	}
	return rows, comps, nil
}

// legacyHeader reports whether the comparison star columns are magnitudes
// only, as in files written before errors were recorded.
func legacyHeader(cols []string) bool {
	if len(cols) == 0 {
		return false
	}
	for _, c := range cols {
		c = strings.ToUpper(strings.TrimSpace(c))
		if !strings.HasSuffix(c, "_MAG") || c == "_MAG" {
			return false
		}
	}
	return true
}

// parseRow parses a data record.  stride is 2 when each comparison star
// has a magnitude and error column, 1 when it has a magnitude column only.
func parseRow(rec []string, nComp, stride int) (r Row, err error) {
	v := make([]float64, len(head))
	for i := range head {
		if v[i], err = strconv.ParseFloat(strings.TrimSpace(rec[i]), 64); err != nil {
			return r, fmt.Errorf("%s: %w", head[i], err)
		}
	}
	r.MJD, r.TargetRA, r.TargetDec, r.TargetSep = v[0], v[1], v[2], v[3]
	r.Target = Mag{v[4], v[5], true}
	r.Comps = make([]Mag, nComp)
	for i := range r.Comps {
		col := len(head) + stride*i
		ms := strings.TrimSpace(rec[col])
		if ms == "" {
			continue
		}
		c := &r.Comps[i]
		if c.Mag, err = strconv.ParseFloat(ms, 64); err != nil {
			return r, err
		}
		if stride == 2 {
			es := strings.TrimSpace(rec[col+1])
			if es != "" {
				if c.Err, err = strconv.ParseFloat(es, 64); err != nil {
					return r, err
				}
			}
		}
		c.Matched = !math.IsNaN(c.Mag)
	}
	return r, nil
}
