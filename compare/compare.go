// Public domain.

package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"time"

	"github.com/soniakeys/exit"

	"github.com/astrolabs/difphot/internal/diffphot"
	"github.com/astrolabs/difphot/internal/lcfile"
	"github.com/astrolabs/difphot/internal/lcplot"
)

const versionString = "compare version 1.0"
const copyrightString = "Public domain."

const defaultOut = "plots/photometry_comparison.png"

func main() {
	defer exit.Handler()

	flag.Usage = func() {
		os.Stderr.WriteString(
			"Usage: compare [options] <results.csv> <aij-measurements>\n")
		flag.PrintDefaults()
		os.Stderr.WriteString(`
For full documentation:
   go doc github.com/astrolabs/difphot/compare
`)
	}
	window := flag.Float64("t", lcfile.DefaultPairWindow.Seconds(), "pairing window, seconds")
	var cols columns
	flag.StringVar(&cols.target, "t1", "rel_flux_T1", "AstroImageJ target column")
	flag.StringVar(&cols.comp1, "c2", "rel_flux_C2", "AstroImageJ first comparison star column")
	flag.StringVar(&cols.comp2, "c3", "rel_flux_C3", "AstroImageJ second comparison star column")
	out := flag.String("o", defaultOut, "output file")
	vers := flag.Bool("v", false, "display version and copyright")
	flag.Parse()
	if *vers {
		fmt.Println(versionString)
		fmt.Println(copyrightString)
		os.Exit(0)
	}
	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(1)
	}

	rows, comps, err := diffphot.ReadCSVFile(flag.Arg(0))
	if err != nil {
		exit.Log(err)
	}
	if len(comps) < 2 {
		exit.Log("Comparison needs two comparison stars in the results file.")
	}
	t, err := lcfile.ReadAIJFile(flag.Arg(1))
	if err != nil {
		exit.Log(err)
	}
	w := time.Duration(*window * float64(time.Second))
	c, dts, err := comparison(rows, comps, t, cols, w)
	if err != nil {
		exit.Log(err)
	}
	log.Printf("%d results, %d AstroImageJ rows, %d pairs within %s",
		len(rows), len(t.Rows), len(c.MJD), w)
	if len(dts) == 0 {
		exit.Log("No epochs pair in time.")
	}
	st := diffphot.Summarize(dts)
	log.Printf("time differences (s): mean %.1f, median %.1f, max %.1f",
		st.Mean, st.Median, math.Max(-st.Min, st.Max))
	for i := range c.Ours {
		s := diffphot.Summarize(c.Residuals(i))
		log.Printf("%s residuals: mean %.4f, median %.4f, std %.4f",
			c.Labels[i], s.Mean, s.Median, s.Std)
	}
	if err := lcplot.Compare(*out, c); err != nil {
		exit.Log(err)
	}
	log.Println("comparison plot saved to", *out)
}

// columns names the AstroImageJ relative flux columns.
type columns struct {
	target, comp1, comp2 string
}

// comparison pairs rows with AstroImageJ rows and builds the three series
// of each set.  Pairs where either comparison star is unmatched, or where
// an AstroImageJ flux is not positive, are left out.  dts are the time
// differences of the pairs used, in seconds.
func comparison(rows []diffphot.Row, comps []string, t *lcfile.AIJ, cols columns,
	window time.Duration) (c *lcplot.Comparison, dts []float64, err error) {
	var ix [3]int
	for i, name := range []string{cols.target, cols.comp1, cols.comp2} {
		if ix[i], err = t.Column(name); err != nil {
			return nil, nil, err
		}
	}
	c = &lcplot.Comparison{
		T0:      lcplot.Start(rows),
		Name:    "difphot",
		RefName: "AstroImageJ",
		Labels: [3]string{
			diffphot.SeriesLabel("target", comps[0]),
			diffphot.SeriesLabel("target", comps[1]),
			diffphot.SeriesLabel(comps[0], comps[1]),
		},
		RefLabels: [3]string{
			cols.target + " / " + cols.comp1,
			cols.target + " / " + cols.comp2,
			cols.comp1 + " / " + cols.comp2,
		},
	}
	for _, p := range lcfile.PairByTime(rows, t, window) {
		r := p.Row
		if len(r.Comps) < 2 || !r.Comps[0].Matched || !r.Comps[1].Matched {
			continue
		}
		f := t.Rows[p.AIJ]
		ft, f1, f2 := f[ix[0]], f[ix[1]], f[ix[2]]
		if !(ft > 0 && f1 > 0 && f2 > 0) {
			continue
		}
		d1, e1 := diffphot.Diff(r.Target, r.Comps[0])
		d2, _ := diffphot.Diff(r.Target, r.Comps[1])
		d3, _ := diffphot.Diff(r.Comps[0], r.Comps[1])
		c.MJD = append(c.MJD, r.MJD)
		c.RefMJD = append(c.RefMJD, t.MJD(p.AIJ))
		c.Err = append(c.Err, e1)
		c.Ours[0] = append(c.Ours[0], d1)
		c.Ours[1] = append(c.Ours[1], d2)
		c.Ours[2] = append(c.Ours[2], d3)
		c.Ref[0] = append(c.Ref[0], lcfile.RelFluxMag(ft, f1))
		c.Ref[1] = append(c.Ref[1], lcfile.RelFluxMag(ft, f2))
		c.Ref[2] = append(c.Ref[2], lcfile.RelFluxMag(f1, f2))
		dts = append(dts, p.DT)
	}
	return c, dts, nil
}
