// Public domain.

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/soniakeys/exit"
	"github.com/soniakeys/meeus/v3/julian"

	"github.com/astrolabs/difphot/internal/archive"
	"github.com/astrolabs/difphot/internal/bhtom"
	"github.com/astrolabs/difphot/internal/config"
	"github.com/astrolabs/difphot/internal/metrics"
	"github.com/astrolabs/difphot/internal/phot"
)

const versionString = "fetch version 1.0 Go source."
const copyrightString = "Public domain."

const defaultDays = 365

func main() {
	defer exit.Handler()

	flag.Usage = func() {
		os.Stderr.WriteString(`Usage:
  fetch [options] <target>     Download epochs of target.
  fetch -v                     Display version and copyright.

Options:
  -days <n>                    Days back from now, default 365.
  -mjd <min,max>               MJD range, instead of -days.
  -o <archive>                 Default ` + archive.DefaultFile + `.
  -env <file>                  Default .env.
  -m <metrics-textfile>

For full documentation:
   go doc github.com/astrolabs/difphot/fetch
`)
	}
	days := flag.Float64("days", defaultDays, "")
	mjdRange := flag.String("mjd", "", "")
	out := flag.String("o", archive.DefaultFile, "")
	envFile := flag.String("env", ".env", "")
	metricsFile := flag.String("m", "", "")
	vers := flag.Bool("v", false, "")
	flag.Parse()
	if *vers {
		fmt.Println(versionString)
		fmt.Println(copyrightString)
		os.Exit(0)
	}
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}
	target := flag.Arg(0)

	var mjdMin, mjdMax float64
	if *mjdRange > "" {
		var err error
		if mjdMin, mjdMax, err = parseRange(*mjdRange); err != nil {
			exit.Log(err)
		}
		log.Printf("Time range: MJD %.2f to %.2f", mjdMin, mjdMax)
	} else {
		if !(*days > 0) {
			exit.Log("-days must be positive.")
		}
		mjdMax = julian.TimeToJD(time.Now()) - phot.JDOffset
		mjdMin = mjdMax - *days
		log.Printf("Time range: %g days (MJD %.2f to %.2f)", *days, mjdMin, mjdMax)
	}

	cfg, err := config.Load(*envFile)
	if err != nil {
		exit.Log(err)
	}
	mc := metrics.NewCollector(metrics.Namespace)
	c := newClient(cfg, mc)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log.Println("Downloading data for", target)
	timer := mc.NewTimer(mc.DownloadDuration)
	epochs, err := c.FetchEpochs(ctx, target, mjdMin, mjdMax)
	if err != nil {
		exit.Log(err)
	}
	d := timer.ObserveDuration()
	if len(epochs) == 0 {
		exit.Log("No data products with photometry found.")
	}
	phot.SortByMJD(epochs)
	mc.ProductsTotal.Add(float64(len(epochs)))
	mc.EpochsTotal.Add(float64(len(epochs)))

	a := &archive.Archive{
		Run:    archive.NewRun(target, mjdMin, mjdMax),
		Epochs: epochs,
	}
	if err := archive.WriteFile(*out, a); err != nil {
		exit.Log(err)
	}
	log.Printf("%d epochs saved to %s in %s, run %s",
		len(epochs), *out, d.Round(time.Second), a.ID)
	first := epochs[0]
	log.Printf("first epoch: data id %d, MJD %.6f, band %s, %d sources",
		first.ID, first.MJD, first.Band, len(first.Detections))
	log.Println("bands:", strings.Join(phot.Bands(epochs), ", "))

	if *metricsFile > "" {
		mc.Done()
		if err := mc.WriteTextfile(*metricsFile); err != nil {
			log.Println("Warning: metrics:", err)
		}
	}
}

// newClient returns an API client that counts skipped products in mc.
func newClient(cfg config.Env, mc *metrics.Collector) *bhtom.Client {
	c := cfg.Client()
	c.Skipped = func(id int64, reason string) {
		mc.ProductsTotal.Inc()
		mc.RecordSkip(reason)
	}
	return c
}

// parseRange parses "min,max".
func parseRange(s string) (mjdMin, mjdMax float64, err error) {
	f := strings.Split(s, ",")
	if len(f) != 2 {
		return 0, 0, fmt.Errorf("invalid MJD range %q, want min,max", s)
	}
	if mjdMin, err = strconv.ParseFloat(strings.TrimSpace(f[0]), 64); err != nil {
		return 0, 0, fmt.Errorf("invalid MJD range %q: %w", s, err)
	}
	if mjdMax, err = strconv.ParseFloat(strings.TrimSpace(f[1]), 64); err != nil {
		return 0, 0, fmt.Errorf("invalid MJD range %q: %w", s, err)
	}
	if mjdMax < mjdMin {
		return 0, 0, fmt.Errorf("invalid MJD range %q, min > max", s)
	}
	return mjdMin, mjdMax, nil
}
