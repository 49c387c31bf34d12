// plotfeed feeds a textual stream of numeric samples to a gnuplot
// backend, either in one shot (batch) or live (stream mode with
// periodic and event-driven redraws).
//
// Typical uses:
//
//	seq 100 | awk '{print $1, $1*$1}' | plotfeed --domain
//	vmstat 1 | awk 'NR>2 {print $13; fflush()}' | plotfeed --stream --xlen 60
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/sgostarter/i/l"
	"github.com/sgostarter/plotfeed/config"
	"github.com/sgostarter/plotfeed/curve"
	"github.com/sgostarter/plotfeed/render"
	"github.com/sgostarter/plotfeed/render/impls/gnuplotexec"
	"github.com/sgostarter/plotfeed/stream"
)

type repeatedFlag []string

func (f *repeatedFlag) String() string {
	return strings.Join(*f, ",")
}

func (f *repeatedFlag) Set(v string) error {
	*f = append(*f, v)

	return nil
}

func main() {
	logger := l.NewConsoleLoggerWrapper()

	defaults := config.Default()

	var (
		fStream     = flag.Bool("stream", defaults.Stream, "stream mode: redraw while data arrives")
		fPeriod     = flag.Float64("period", defaults.Period, "redraw period in seconds; 0 redraws only on 'replot' lines")
		fDomain     = flag.Bool("domain", defaults.Domain, "first value on each line is the domain coordinate")
		fThreeD     = flag.Bool("3d", defaults.ThreeD, "3-d plotting; needs --domain, reads two domain values per line")
		fDataID     = flag.Bool("dataid", defaults.DataID, "curve ids precede their values on each line")
		fVals       = flag.Int("vals", defaults.ValuesPerPoint, "payload values per point")
		fMonotonic  = flag.Bool("monotonic", defaults.Monotonic, "a backward domain step resets all curves")
		fXLen       = flag.Float64("xlen", defaults.XLen, "trailing domain window; older points are dropped (stream mode)")
		fMaxCurves  = flag.Int("maxcurves", defaults.MaxCurves, "maximum number of curves")
		fStyle      = flag.String("style", defaults.DefaultStyle, "default style for curves without their own")
		fAutoLegend = flag.Bool("autolegend", defaults.AutoLegend, "title curves by their id when no legend is set")
		fHistMode   = flag.String("histmode", string(defaults.HistogramMode), "histogram aggregation: freq, cum, uniq or cnorm")
		fBinWidth   = flag.Float64("binwidth", defaults.BinWidth, "histogram bin width")
		fConfig     = flag.String("config", "", "yaml config file; flags override it")
		fDump       = flag.Bool("dump", false, "write the backend protocol to stdout instead of plotting")
		fPersist    = flag.Bool("persist", false, "keep the plot window open after input ends")

		fLegends     repeatedFlag
		fCurveStyles repeatedFlag
		fHistograms  repeatedFlag
	)

	flag.Var(&fLegends, "legend", "id=text legend for one curve (repeatable)")
	flag.Var(&fCurveStyles, "curvestyle", "id=style extra style for one curve (repeatable)")
	flag.Var(&fHistograms, "histogram", "render this curve id as a histogram (repeatable)")

	flag.Parse()

	cfg := defaults

	if *fConfig != "" {
		if err := cfg.Load(*fConfig); err != nil {
			logger.WithFields(l.ErrorField(err), l.StringField("file", *fConfig)).Fatal("load config")
		}
	}

	// Flags the user actually passed win over the config file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "stream":
			cfg.Stream = *fStream
		case "period":
			cfg.Period = *fPeriod
		case "domain":
			cfg.Domain = *fDomain
		case "3d":
			cfg.ThreeD = *fThreeD
		case "dataid":
			cfg.DataID = *fDataID
		case "vals":
			cfg.ValuesPerPoint = *fVals
		case "monotonic":
			cfg.Monotonic = *fMonotonic
		case "xlen":
			cfg.XLen = *fXLen
		case "maxcurves":
			cfg.MaxCurves = *fMaxCurves
		case "style":
			cfg.DefaultStyle = *fStyle
		case "autolegend":
			cfg.AutoLegend = *fAutoLegend
		case "histmode":
			cfg.HistogramMode = config.HistogramMode(*fHistMode)
		case "binwidth":
			cfg.BinWidth = *fBinWidth
		}
	})

	if cfg.Legends == nil {
		cfg.Legends = make(map[string]string)
	}

	if cfg.CurveStyles == nil {
		cfg.CurveStyles = make(map[string][]string)
	}

	for _, kv := range fLegends {
		id, text, err := splitAssignment(kv)
		if err != nil {
			logger.WithFields(l.ErrorField(err)).Fatal("bad --legend")
		}

		cfg.Legends[id] = text
	}

	for _, kv := range fCurveStyles {
		id, text, err := splitAssignment(kv)
		if err != nil {
			logger.WithFields(l.ErrorField(err)).Fatal("bad --curvestyle")
		}

		cfg.CurveStyles[id] = append(cfg.CurveStyles[id], text)
	}

	cfg.HistogramIDs = append(cfg.HistogramIDs, fHistograms...)

	if err := cfg.Validate(); err != nil {
		logger.WithFields(l.ErrorField(err)).Fatal("invalid configuration")
	}

	var input io.Reader = os.Stdin

	if flag.NArg() > 0 {
		f, err := os.Open(flag.Arg(0))
		if err != nil {
			logger.WithFields(l.ErrorField(err), l.StringField("file", flag.Arg(0))).Fatal("open input")
		}

		defer func() {
			_ = f.Close()
		}()

		input = f
	}

	var (
		sink render.Backend
		err  error
	)

	if *fDump {
		sink = render.NewWriterBackend(os.Stdout)
	} else {
		sink, err = gnuplotexec.New(*fPersist, logger)
		if err != nil {
			logger.WithFields(l.ErrorField(err)).Fatal("open backend")
		}

		if version, verr := sink.Version(); verr == nil {
			logger.WithFields(l.StringField("version", version)).Debug("backend ready")
		}
	}

	reg := curve.NewRegistry(cfg, logger)

	if err = applyCurveOptions(cfg, reg); err != nil {
		logger.WithFields(l.ErrorField(err)).Fatal("apply curve options")
	}

	bridge := render.NewBridge(cfg, logger)

	if err = bridge.Prelude(sink); err != nil {
		logger.WithFields(l.ErrorField(err)).Fatal("write prelude")
	}

	if cfg.Stream {
		err = stream.NewCoordinator(cfg, reg, bridge, sink, logger).Run(input)
	} else {
		err = stream.RunBatch(cfg, input, reg, bridge, sink, logger)
	}

	if err != nil {
		logger.WithFields(l.ErrorField(err)).Fatal("plotting failed")
	}

	if err = sink.Close(); err != nil {
		logger.WithFields(l.ErrorField(err)).Fatal("close backend")
	}
}

// applyCurveOptions seeds curves referenced by config before any data
// arrives. Map keys are walked sorted so the render order of
// option-only curves is stable across runs.
func applyCurveOptions(cfg config.Config, reg curve.Registry) error {
	for _, id := range sortedKeys(cfg.Legends) {
		if err := reg.SetLegend(id, cfg.Legends[id]); err != nil {
			return err
		}
	}

	for _, id := range sortedKeys(cfg.CurveStyles) {
		for _, text := range cfg.CurveStyles[id] {
			if err := reg.AddStyle(id, text); err != nil {
				return err
			}
		}
	}

	for _, id := range cfg.HistogramIDs {
		if err := reg.SetHistogram(id, cfg.HistogramMode); err != nil {
			return err
		}
	}

	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))

	for k := range m {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}

func splitAssignment(kv string) (id, text string, err error) {
	parts := strings.SplitN(kv, "=", 2)
	if len(parts) != 2 || parts[0] == "" {
		err = fmt.Errorf("expected id=text, got %q", kv)

		return
	}

	id = parts[0]
	text = parts[1]

	return
}
