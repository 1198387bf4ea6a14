// Public domain.

// Package dpprog is the processing command: it matches archived epochs
// against the object catalog and writes differential photometry.
package dpprog

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/soniakeys/exit"
	sexa "github.com/soniakeys/sexagesimal"
	"github.com/soniakeys/unit"

	"github.com/astrolabs/difphot/internal/archive"
	"github.com/astrolabs/difphot/internal/catalog"
	"github.com/astrolabs/difphot/internal/diffphot"
	"github.com/astrolabs/difphot/internal/lcplot"
	"github.com/astrolabs/difphot/internal/metrics"
	"github.com/astrolabs/difphot/internal/phot"
	"github.com/astrolabs/difphot/internal/xmatch"
)

const versionString = "difphot version 1.0 Go source."
const copyrightString = "Public domain."

// Default file names, relative to the -p path.
const (
	ConfigFile  = "difphot.config"
	ObjectsFile = "objects.dat"
	ResultsFile = "output/photometry_results.csv"
	PlotFile    = "plots/magnitude_ratios.png"
	HTMLFile    = "plots/lightcurve.html"
)

func Main() {
	defer exit.Handler()

	cl := parseCommandLine()
	if cl.v {
		os.Exit(0)
	}
	opt := readConfig(cl)
	cl.override(opt)

	cat, err := catalog.ReadFile(cl.fixupCP(cl.do, ObjectsFile))
	if err != nil {
		exit.Log(err)
	}
	log.Printf("target at %.2s %.1s, %d comparison stars",
		sexa.FmtRA(cat.Target.RA), sexa.FmtAngle(cat.Target.Dec), len(cat.Comps))

	a, err := archive.ReadFile(cl.fixupCP(cl.dd, archive.DefaultFile))
	if err != nil {
		log.Println(err)
		exit.Log(`Use command "fetch" to download photometry.`)
	}
	log.Printf("run %s: %s, %d epochs, MJD %.1f to %.1f",
		a.ID, a.Target, len(a.Epochs), a.MJDMin, a.MJDMax)

	epochs := phot.FilterBand(a.Epochs, opt.band)
	if len(epochs) == 0 {
		exit.Log(fmt.Sprintf("No epochs in band %q.  Available bands: %s",
			opt.band, strings.Join(phot.Bands(a.Epochs), ", ")))
	}
	if opt.band > "" {
		log.Printf("%d epochs in band %s", len(epochs), opt.band)
	}

	m, err := xmatch.New(unit.AngleFromSec(opt.radius))
	if err != nil {
		exit.Log(err)
	}
	mc := metrics.NewCollector(metrics.Namespace)
	p := &diffphot.Processor{
		Catalog: cat,
		Matcher: m,
		Floor:   opt.floor,
		Verbose: opt.verbose,
	}
	timer := mc.NewTimer(mc.ProcessingDuration)
	rows, dropped := p.Process(epochs)
	timer.ObserveDuration()
	names := compNames(cat)
	mc.RecordProcess(len(epochs), rows, dropped, names)
	if len(rows) == 0 {
		exit.Log("No epochs with the target and a comparison star matched.")
	}
	log.Printf("%d epochs processed, %d dropped", len(rows), len(dropped))

	fn := filepath.Join(cl.dp, ResultsFile)
	if err := diffphot.WriteCSVFile(fn, rows, names); err != nil {
		exit.Log(err)
	}
	log.Println("results saved to", fn)

	report(rows, cat, opt, mc)

	if opt.plots {
		fn := filepath.Join(cl.dp, PlotFile)
		if err := lcplot.LightCurve(fn, rows, names, opt.sigma); err != nil {
			log.Println("Warning: light curve plot:", err)
		} else {
			log.Println("plot saved to", fn)
		}
	}
	if opt.html {
		fn := filepath.Join(cl.dp, HTMLFile)
		title := fmt.Sprintf("%s differential photometry", a.Target)
		if err := lcplot.HTML(fn, title, rows, names); err != nil {
			log.Println("Warning: interactive plot:", err)
		} else {
			log.Println("interactive plot saved to", fn)
		}
	}

	if cl.dm > "" {
		mc.Done()
		if err := mc.WriteTextfile(cl.dm); err != nil {
			log.Println("Warning: metrics:", err)
		}
	}
}

func compNames(c *catalog.Catalog) []string {
	n := make([]string, len(c.Comps))
	for i, o := range c.Comps {
		n[i] = o.Name
	}
	return n
}

// report logs summaries and data quality checks.  Nothing here alters the
// results.
func report(rows []diffphot.Row, cat *catalog.Catalog, opt *options, mc *metrics.Collector) {
	for i, c := range cat.Comps {
		s := diffphot.Series(rows, i)
		if len(s) == 0 {
			continue
		}
		st := diffphot.Summarize(diffphot.Mags(s))
		log.Printf("%s: n=%d median %.4f mean %.4f std %.4f range %.4f to %.4f",
			diffphot.SeriesLabel(catalog.TargetName, c.Name),
			st.N, st.Median, st.Mean, st.Std, st.Min, st.Max)
	}

	if len(cat.Comps) >= 2 {
		sr := diffphot.Stability(rows, 0, 1, opt.stability)
		mc.UnstableEpochs.Set(float64(len(sr.Flagged)))
		label := diffphot.SeriesLabel(cat.Comps[0].Name, cat.Comps[1].Name)
		if len(sr.Series) > 0 {
			log.Printf("%s: median %.4f, %d of %d epochs beyond %.3f mag",
				label, sr.Median, len(sr.Flagged), len(sr.Series), opt.stability)
		}
		for _, f := range sr.Flagged {
			log.Printf("Warning: data id %d (MJD %.6f): %s = %.4f",
				f.EpochID, f.MJD, label, f.Mag)
		}
	}

	if rms, ok := diffphot.Astrometry(rows); ok {
		log.Printf("target astrometric rms %.2f arcsec", rms.Sec())
	}

	for _, r := range rows {
		if el := diffphot.Elongation(r.MJD, cat.Target.Equa); el < diffphot.MinElongation {
			log.Printf("Warning: data id %d (MJD %.6f): solar elongation %.1f deg",
				r.EpochID, r.MJD, el.Deg())
		}
	}
}

type commandLine struct {
	dc string // config file
	dd string // epoch archive
	dm string // metrics textfile
	do string // objects file
	dp string // default path
	v  bool   // -v option

	// processing flags, applied over the config file when set
	band      string
	sigma     float64
	radius    float64
	stability float64
	set       map[string]bool
}

func parseCommandLine() *commandLine {
	cl := commandLine{dp: ".", set: map[string]bool{}}
	dh := flag.Bool("h", false, "")
	dv := flag.Bool("v", false, "")
	flag.StringVar(&cl.dc, "c", "", "")
	flag.StringVar(&cl.dd, "d", "", "")
	flag.StringVar(&cl.dm, "m", "", "")
	flag.StringVar(&cl.do, "o", "", "")
	flag.StringVar(&cl.dp, "p", cl.dp, "")
	flag.StringVar(&cl.band, "f", "", "")
	flag.Float64Var(&cl.sigma, "ylim-sigma", lcplot.DefaultSigma, "")
	flag.Float64Var(&cl.radius, "r", xmatch.DefaultRadius.Sec(), "")
	flag.Float64Var(&cl.stability, "s", diffphot.DefaultStability, "")
	flag.Usage = func() {
		os.Stderr.WriteString(`
Usage: difphot [options]    compute differential photometry
       difphot -h           display help and quick reference
       difphot -v           display version and copyright

Options:
       -c <config-file>
       -d <epoch-archive>
       -f <band>
       -m <metrics-textfile>
       -o <objects-file>
       -p <path>
       -r <match-radius-arcsec>
       -s <stability-threshold-mag>
       -ylim-sigma <k>
`)
	}
	flag.Parse()
	flag.Visit(func(f *flag.Flag) { cl.set[f.Name] = true })
	switch {
	case *dh:
		printHelp()
		os.Exit(0)
	case *dv:
		fmt.Println(versionString)
		fmt.Println(copyrightString)
		cl.v = true
	case flag.NArg() != 0:
		flag.Usage()
		os.Exit(1)
	}
	return &cl
}

func (cl *commandLine) fixupCP(fnSpec, fnDefault string) string {
	if fnSpec > "" {
		return fnSpec
	}
	return filepath.Join(cl.dp, fnDefault)
}

// override applies command line flags to opt.
func (cl *commandLine) override(opt *options) {
	if cl.set["f"] {
		opt.band = cl.band
	}
	if cl.set["ylim-sigma"] {
		opt.sigma = cl.sigma
	}
	if cl.set["r"] {
		opt.radius = cl.radius
	}
	if cl.set["s"] {
		opt.stability = cl.stability
	}
}

type options struct {
	band      string
	sigma     float64 // y axis limit multiplier
	radius    float64 // arc seconds
	stability float64 // magnitudes
	floor     diffphot.ErrFloor
	plots     bool
	html      bool
	verbose   bool
}

func defaultOptions() *options {
	return &options{
		sigma:     lcplot.DefaultSigma,
		radius:    xmatch.DefaultRadius.Sec(),
		stability: diffphot.DefaultStability,
		floor:     diffphot.ErrFloor{Band: map[string]float64{}},
		plots:     true,
		html:      true,
	}
}

// readConfig reads the config file.  A missing default config file is not
// an error.
func readConfig(cl *commandLine) *options {
	f, err := os.Open(cl.fixupCP(cl.dc, ConfigFile))
	if err != nil {
		if cl.dc == "" {
			return defaultOptions()
		}
		exit.Log(err)
	}
	defer f.Close()
	opt, err := parseConfig(f)
	if err != nil {
		exit.Log(err)
	}
	return opt
}

var rxKeyValue = regexp.MustCompile(`^[ \t]*(.*?)[ \t]*=[ \t]*(.+)$`)

func parseConfig(r io.Reader) (*options, error) {
	opt := defaultOptions()
	positive := func(ls, v string) (float64, error) {
		x, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, fmt.Errorf("%w\nConfig file line: %s", err, ls)
		}
		if !(x > 0) {
			return 0, fmt.Errorf("Value must be positive.\nConfig file line: %s", ls)
		}
		return x, nil
	}
	parseFloor := func(ls string) error {
		ss := rxKeyValue.FindStringSubmatch(ls[len("errfloor"):])
		if len(ss) != 3 {
			return fmt.Errorf("Invalid format for errfloor.\nConfig file line: %s", ls)
		}
		x, err := strconv.ParseFloat(ss[2], 64)
		if err != nil {
			return fmt.Errorf("%w\nConfig file line: %s", err, ls)
		}
		if x < 0 || x > 1 {
			return fmt.Errorf("Error floor must be between 0 and 1 mag.\nConfig file line: %s", ls)
		}
		if ss[1] == "" {
			opt.floor.Default = x
		} else {
			opt.floor.Band[ss[1]] = x
		}
		return nil
	}

	for sc := bufio.NewScanner(r); ; {
		if !sc.Scan() {
			return opt, sc.Err()
		}
		ls := strings.TrimSpace(sc.Text())
		if ls == "" || ls[0] == '#' {
			continue
		}
		switch ls {
		case "plots":
			opt.plots = true
			continue
		case "noplots":
			opt.plots = false
			continue
		case "html":
			opt.html = true
			continue
		case "nohtml":
			opt.html = false
			continue
		case "verbose":
			opt.verbose = true
			continue
		case "quiet":
			opt.verbose = false
			continue
		}
		if strings.HasPrefix(ls, "errfloor") {
			if err := parseFloor(ls); err != nil {
				return nil, err
			}
			continue
		}
		ss := rxKeyValue.FindStringSubmatch(ls)
		if len(ss) != 3 {
			return nil, fmt.Errorf("Unrecognized line in config file: %s", ls)
		}
		var err error
		switch ss[1] {
		case "band":
			opt.band = ss[2]
		case "radius":
			opt.radius, err = positive(ls, ss[2])
		case "sigma":
			opt.sigma, err = positive(ls, ss[2])
		case "stability":
			opt.stability, err = positive(ls, ss[2])
		default:
			err = fmt.Errorf("Unrecognized line in config file: %s", ls)
		}
		if err != nil {
			return nil, err
		}
	}
}

func printHelp() {
	fmt.Println(`
Difphot matches archived photometry epochs against a target and its
comparison stars and computes target minus comparison magnitudes.
Input is the epoch archive written by fetch and an objects file of name,
RA, and Dec in degrees.  Output is a results CSV and light curve plots.

Default files, relative to -p:
   ` + ConfigFile + `
   ` + ObjectsFile + `
   ` + archive.DefaultFile + `
   ` + ResultsFile + `
   ` + PlotFile + `
   ` + HTMLFile + `

Config file keywords:
   band = <band>
   radius = <arcsec>
   sigma = <k>
   stability = <mag>
   errfloor = <mag>
   errfloor <band> = <mag>
   plots
   noplots
   html
   nohtml
   verbose
   quiet

For full documentation:
   go doc github.com/astrolabs/difphot`)
}
