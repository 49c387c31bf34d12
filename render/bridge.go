package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sgostarter/i/l"
	"github.com/sgostarter/plotfeed/config"
	"github.com/sgostarter/plotfeed/curve"
)

// Range is an optional domain-range directive for one redraw.
type Range struct {
	Lo float64
	Hi float64
}

// Bridge serializes registry state into the backend's block protocol.
// Emit is deterministic: fixed registry state yields identical bytes
// on every call.
type Bridge interface {
	// Prelude writes one-time global directives and is called once
	// before the first Emit.
	Prelude(w io.Writer) error

	Emit(w io.Writer, reg curve.Registry, rangeHint *Range) error
}

func NewBridge(cfg config.Config, logger l.Wrapper) Bridge {
	if logger == nil {
		logger = l.NewNopLoggerWrapper()
	}

	return &bridgeImpl{
		cfg:    cfg,
		logger: logger.WithFields(l.StringField(l.ClsKey, "bridgeImpl")),
	}
}

type bridgeImpl struct {
	cfg    config.Config
	logger l.Wrapper
}

func (impl *bridgeImpl) Prelude(w io.Writer) error {
	if len(impl.cfg.HistogramIDs) == 0 {
		return nil
	}

	// bin(x) = binWidth * round(x / binWidth); the backend spells
	// round as floor(x+0.5).
	bw := formatValue(impl.cfg.BinWidth)

	if _, err := fmt.Fprintf(w, "bin(x)=%s*floor(x/%s+0.5)\n", bw, bw); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "set boxwidth %s\n", bw)

	return err
}

func (impl *bridgeImpl) Emit(w io.Writer, reg curve.Registry, rangeHint *Range) error {
	selected := make([]*curve.Curve, 0, reg.Len())

	for _, c := range reg.Curves() {
		if len(c.Points) > 0 {
			selected = append(selected, c)
		}
	}

	if len(selected) == 0 {
		return nil
	}

	if rangeHint != nil {
		if _, err := fmt.Fprintf(w, "set xrange [%s:%s]\n", formatValue(rangeHint.Lo), formatValue(rangeHint.Hi)); err != nil {
			return err
		}
	}

	plotWord := "plot"
	if impl.cfg.ThreeD {
		plotWord = "splot"
	}

	specs := make([]string, 0, len(selected))

	for _, c := range selected {
		specs = append(specs, "'-' "+c.Options())
	}

	if _, err := fmt.Fprintf(w, "%s %s\n", plotWord, strings.Join(specs, ", ")); err != nil {
		return err
	}

	for _, c := range selected {
		for _, pt := range c.Points {
			if _, err := fmt.Fprintln(w, formatPoint(pt)); err != nil {
				return err
			}
		}

		if _, err := fmt.Fprintln(w, "e"); err != nil {
			return err
		}
	}

	return nil
}

func formatPoint(pt curve.Point) string {
	fields := make([]string, 0, len(pt.Domain)+len(pt.Values))

	for _, v := range pt.Domain {
		fields = append(fields, formatValue(v))
	}

	for _, v := range pt.Values {
		fields = append(fields, formatValue(v))
	}

	return strings.Join(fields, " ")
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
