// Public domain.

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/soniakeys/exit"
	sexa "github.com/soniakeys/sexagesimal"
	"github.com/soniakeys/unit"

	"github.com/astrolabs/difphot/internal/archive"
	"github.com/astrolabs/difphot/internal/catalog"
	"github.com/astrolabs/difphot/internal/lcplot"
	"github.com/astrolabs/difphot/internal/phot"
	"github.com/astrolabs/difphot/internal/xmatch"
)

const versionString = "field version 1.0"
const copyrightString = "Public domain."

func main() {
	defer exit.Handler()

	flag.Usage = func() {
		os.Stderr.WriteString("Usage: field [options]\n")
		flag.PrintDefaults()
		os.Stderr.WriteString(`
For full documentation:
   go doc github.com/astrolabs/difphot/field
`)
	}
	objects := flag.String("o", "objects.dat", "objects file")
	arch := flag.String("d", archive.DefaultFile, "epoch archive")
	band := flag.String("f", "", "band")
	id := flag.Int64("e", 0, "data id of the epoch to chart, default the first")
	radius := flag.Float64("r", xmatch.DefaultRadius.Sec(), "match radius, arc seconds")
	out := flag.String("out", "plots/field.png", "output file")
	vers := flag.Bool("v", false, "display version and copyright")
	flag.Parse()
	if *vers {
		fmt.Println(versionString)
		fmt.Println(copyrightString)
		os.Exit(0)
	}
	if flag.NArg() != 0 {
		flag.Usage()
		os.Exit(1)
	}

	cat, err := catalog.ReadFile(*objects)
	if err != nil {
		exit.Log(err)
	}
	a, err := archive.ReadFile(*arch)
	if err != nil {
		exit.Log(err)
	}
	epochs := phot.FilterBand(a.Epochs, *band)
	if len(epochs) == 0 {
		exit.Log(fmt.Sprintf("No epochs in band %q.  Available bands: %s",
			*band, strings.Join(phot.Bands(a.Epochs), ", ")))
	}
	ep, err := selectEpoch(epochs, *id)
	if err != nil {
		exit.Log(err)
	}
	m, err := xmatch.New(unit.AngleFromSec(*radius))
	if err != nil {
		exit.Log(err)
	}

	log.Printf("data id %d, MJD %.6f, band %s, %d sources",
		ep.ID, ep.MJD, ep.Band, len(ep.Detections))
	matches := m.Epoch(ep, cat.All())
	for _, o := range cat.All() {
		mt, ok := matches[o.Name]
		if !ok {
			log.Printf("%-8s %.2s %.1s  not found", o.Name,
				sexa.FmtRA(o.RA), sexa.FmtAngle(o.Dec))
			continue
		}
		log.Printf("%-8s %.2s %.1s  source %d at %.2f arcsec, mag %.3f",
			o.Name, sexa.FmtRA(o.RA), sexa.FmtAngle(o.Dec),
			mt.Detection.Number, mt.Sep.Sec(), mt.Detection.Mag())
	}

	title := fmt.Sprintf("%s  MJD %.5f  %s", a.Target, ep.MJD, ep.Band)
	if err := lcplot.Field(*out, title, cat, ep.Detections, m.Radius()); err != nil {
		exit.Log(err)
	}
	log.Println("field chart saved to", *out)
}

// selectEpoch returns the epoch with data id id, or with id 0 the earliest.
func selectEpoch(epochs []phot.Epoch, id int64) (*phot.Epoch, error) {
	if id == 0 {
		e := append([]phot.Epoch{}, epochs...)
		phot.SortByMJD(e)
		return &e[0], nil
	}
	for i := range epochs {
		if epochs[i].ID == id {
			return &epochs[i], nil
		}
	}
	return nil, fmt.Errorf("no epoch with data id %d", id)
}
