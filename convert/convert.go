// Public domain.

package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/soniakeys/exit"

	"github.com/astrolabs/difphot/internal/diffphot"
	"github.com/astrolabs/difphot/internal/lcfile"
)

const versionString = "convert version 1.0"
const copyrightString = "Public domain."

const (
	defaultResults = "output/photometry_results.csv"
	defaultDiffMag = "output/photometry_results_diffmag.dat"
	defaultFlux    = "output/photometry_results_flux.csv"
	defaultRelFlux = "output/photometry_results_relflux.dat"
)

func main() {
	defer exit.Handler()

	flag.Usage = func() {
		os.Stderr.WriteString(
			"Usage: convert [options] [input]\n")
		flag.PrintDefaults()
		os.Stderr.WriteString(`
For full documentation:
   go doc github.com/astrolabs/difphot/convert
`)
	}
	to := flag.String("to", "diffmag", "output format: diffmag, flux, or relflux")
	comp := flag.Int("comp", 1, "comparison star number for diffmag")
	zp := flag.Float64("zp", 0, "magnitude zero point for flux")
	out := flag.String("o", "", "output file")
	vers := flag.Bool("v", false, "display version and copyright")
	flag.Parse()
	if *vers {
		fmt.Println(versionString)
		fmt.Println(copyrightString)
		os.Exit(0)
	}
	if flag.NArg() > 1 {
		flag.Usage()
		os.Exit(1)
	}
	in := flag.Arg(0)

	var err error
	switch *to {
	case "diffmag":
		if in == "" {
			in = defaultResults
		}
		err = toDiffMag(in, or(*out, defaultDiffMag), *comp)
	case "flux":
		if in == "" {
			in = defaultResults
		}
		err = toFlux(in, or(*out, defaultFlux), *zp)
	case "relflux":
		if in == "" {
			in = defaultDiffMag
		}
		err = toRelFlux(in, or(*out, defaultRelFlux))
	default:
		flag.Usage()
		os.Exit(1)
	}
	if err != nil {
		exit.Log(err)
	}
}

func or(s, def string) string {
	if s > "" {
		return s
	}
	return def
}

// toDiffMag converts a results CSV, or a relative flux table back to
// differential magnitudes.
func toDiffMag(in, out string, comp int) error {
	var p []lcfile.Point
	if strings.EqualFold(filepath.Ext(in), ".csv") {
		rows, comps, err := diffphot.ReadCSVFile(in)
		if err != nil {
			return err
		}
		if comp < 1 || comp > len(comps) {
			return fmt.Errorf("-comp %d: %s has %d comparison stars", comp, in, len(comps))
		}
		p = lcfile.DiffMag(rows, comp-1)
		log.Printf("%d rows, %s", len(p), diffphot.SeriesLabel("target", comps[comp-1]))
	} else {
		rf, err := readTable(in)
		if err != nil {
			return err
		}
		p = lcfile.RelFluxToDiffMag(rf)
	}
	if err := writeFile(out, func(w io.Writer) error {
		return lcfile.WriteDiffMag(w, p)
	}); err != nil {
		return err
	}
	log.Println("Differential magnitude file saved to", out)
	return nil
}

// toFlux writes the full flux CSV and beside it a simple three column
// table.
func toFlux(in, out string, zp float64) error {
	rows, comps, err := diffphot.ReadCSVFile(in)
	if err != nil {
		return err
	}
	if err := writeFile(out, func(w io.Writer) error {
		return lcfile.WriteFluxCSV(w, rows, comps, zp)
	}); err != nil {
		return err
	}
	log.Printf("%d rows, flux saved to %s", len(rows), out)
	simple := strings.TrimSuffix(out, filepath.Ext(out)) + "_simple.dat"
	if err := writeFile(simple, func(w io.Writer) error {
		return lcfile.WriteFlux(w, lcfile.FluxHeader, lcfile.Flux(rows, zp))
	}); err != nil {
		return err
	}
	log.Println("Simple flux file saved to", simple)
	return nil
}

func toRelFlux(in, out string) error {
	dm, err := readTable(in)
	if err != nil {
		return err
	}
	if err := writeFile(out, func(w io.Writer) error {
		return lcfile.WriteFlux(w, lcfile.RelFluxHeader, lcfile.RelFlux(dm))
	}); err != nil {
		return err
	}
	log.Printf("%d rows, relative flux saved to %s", len(dm), out)
	return nil
}

func readTable(fn string) ([]lcfile.Point, error) {
	f, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	p, err := lcfile.ReadTable(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fn, err)
	}
	return p, nil
}

// writeFile creates fn and its directory and calls write.
func writeFile(fn string, write func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(fn), 0755); err != nil {
		return err
	}
	f, err := os.Create(fn)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(f)
	if err = write(bw); err == nil {
		err = bw.Flush()
	}
	if cErr := f.Close(); err == nil {
		err = cErr
	}
	return err
}
