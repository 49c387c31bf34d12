package config

import (
	"fmt"
	"os"

	"github.com/sgostarter/i/commerr"
	"github.com/sgostarter/libeasygo/cuserror"
	"gopkg.in/yaml.v3"
)

// HistogramMode selects the smoothing directive passed through to the
// backend for histogram curves. The registry never bins data itself.
type HistogramMode string

const (
	HistogramFreq             HistogramMode = "freq"
	HistogramCumulative       HistogramMode = "cum"
	HistogramUnique           HistogramMode = "uniq"
	HistogramCumulativeNormal HistogramMode = "cnorm"
)

const (
	defaultMaxCurves           = 100
	defaultValuesPerPoint      = 1
	defaultBinWidth            = float64(1)
	defaultStreamPeriodSeconds = float64(1)
)

type Config struct {
	// Input shape.
	Domain         bool `yaml:"domain"`
	ThreeD         bool `yaml:"3d"`
	DataID         bool `yaml:"dataid"`
	ValuesPerPoint int  `yaml:"valuesPerPoint"`

	// History policy.
	Monotonic bool    `yaml:"monotonic"`
	XLen      float64 `yaml:"xlen"`
	MaxCurves int     `yaml:"maxCurves"`

	// Redraw policy.
	Stream bool    `yaml:"stream"`
	Period float64 `yaml:"period"` // seconds; 0 means event-trigger only

	// Render options.
	DefaultStyle string              `yaml:"style"`
	AutoLegend   bool                `yaml:"autolegend"`
	Legends      map[string]string   `yaml:"legends"`
	CurveStyles  map[string][]string `yaml:"curveStyles"`
	HistogramIDs []string            `yaml:"histogramIDs"`

	HistogramMode HistogramMode `yaml:"histogramMode"`
	BinWidth      float64       `yaml:"binWidth"`
}

func Default() Config {
	return Config{
		ValuesPerPoint: defaultValuesPerPoint,
		MaxCurves:      defaultMaxCurves,
		Period:         defaultStreamPeriodSeconds,
		HistogramMode:  HistogramFreq,
		BinWidth:       defaultBinWidth,
	}
}

// Load overlays a yaml file on top of the receiver. Missing keys keep
// their current values.
func (cfg *Config) Load(fileName string) error {
	d, err := os.ReadFile(fileName)
	if err != nil {
		return err
	}

	return yaml.Unmarshal(d, cfg)
}

func (cfg *Config) Validate() error {
	if cfg.ValuesPerPoint < 1 {
		return cuserror.NewWithErrorMsg(fmt.Sprintf("valuesPerPoint %d: %v", cfg.ValuesPerPoint, commerr.ErrInvalidArgument))
	}

	if cfg.MaxCurves <= 0 {
		return cuserror.NewWithErrorMsg(fmt.Sprintf("maxCurves %d: %v", cfg.MaxCurves, commerr.ErrInvalidArgument))
	}

	if cfg.XLen < 0 {
		return cuserror.NewWithErrorMsg(fmt.Sprintf("xlen %v: %v", cfg.XLen, commerr.ErrInvalidArgument))
	}

	if cfg.Period < 0 {
		return cuserror.NewWithErrorMsg(fmt.Sprintf("period %v: %v", cfg.Period, commerr.ErrInvalidArgument))
	}

	if cfg.XLen > 0 && !cfg.Stream {
		return cuserror.NewWithErrorMsg("xlen needs stream mode")
	}

	if cfg.ThreeD && !cfg.Domain {
		return cuserror.NewWithErrorMsg("3d needs an explicit domain")
	}

	if len(cfg.HistogramIDs) > 0 {
		switch cfg.HistogramMode {
		case HistogramFreq, HistogramCumulative, HistogramUnique, HistogramCumulativeNormal:
		default:
			return cuserror.NewWithErrorMsg(fmt.Sprintf("histogram mode %s: %v", cfg.HistogramMode, commerr.ErrInvalidArgument))
		}

		if cfg.BinWidth <= 0 {
			return cuserror.NewWithErrorMsg(fmt.Sprintf("binWidth %v: %v", cfg.BinWidth, commerr.ErrInvalidArgument))
		}

		if cfg.ThreeD {
			return cuserror.NewWithErrorMsg("histograms are 2d only")
		}
	}

	return nil
}

// DomainWidth is the number of leading domain values on a data record
// when the domain is explicit.
func (cfg *Config) DomainWidth() int {
	if !cfg.Domain {
		return 0
	}

	if cfg.ThreeD {
		return 2
	}

	return 1
}

// SmoothDirective maps the aggregation mode to the backend's smooth
// keyword.
func (m HistogramMode) SmoothDirective() string {
	switch m {
	case HistogramCumulative:
		return "cumulative"
	case HistogramUnique:
		return "unique"
	case HistogramCumulativeNormal:
		return "cnormal"
	default:
		return "frequency"
	}
}
