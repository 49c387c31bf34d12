package curve

import (
	"fmt"
	"strings"

	"github.com/sgostarter/i/commerr"
	"github.com/sgostarter/i/l"
	"github.com/sgostarter/plotfeed/config"
)

// Registry owns every curve. Keys are unique and insertion order is
// the rendering order for the lifetime of the process. The registry
// is not goroutine safe: in streaming mode all calls come from the
// single consumer routine.
type Registry interface {
	GetOrCreate(id string) (*Curve, error)
	SetLegend(id, text string) error
	AddStyle(id, text string) error
	SetHistogram(id string, mode config.HistogramMode) error
	Append(id string, pt Point) error
	ClearAll()

	Curves() []*Curve
	Len() int
}

func NewRegistry(cfg config.Config, logger l.Wrapper) Registry {
	if logger == nil {
		logger = l.NewNopLoggerWrapper()
	}

	return &registryImpl{
		cfg:    cfg,
		logger: logger.WithFields(l.StringField(l.ClsKey, "registryImpl")),
		m:      make(map[string]*Curve),
	}
}

type registryImpl struct {
	cfg    config.Config
	logger l.Wrapper

	m     map[string]*Curve
	order []*Curve
}

func (impl *registryImpl) GetOrCreate(id string) (*Curve, error) {
	if c, ok := impl.m[id]; ok {
		return c, nil
	}

	if len(impl.order) >= impl.cfg.MaxCurves {
		impl.logger.WithFields(l.StringField("id", id)).Error("too many curves")

		return nil, commerr.ErrResourceExhausted
	}

	c := &Curve{
		ID: id,
	}

	impl.refreshOptions(c)

	impl.m[id] = c
	impl.order = append(impl.order, c)

	return c, nil
}

func (impl *registryImpl) SetLegend(id, text string) error {
	c, err := impl.GetOrCreate(id)
	if err != nil {
		return err
	}

	c.legend = text
	c.hasLegend = true

	impl.refreshOptions(c)

	return nil
}

func (impl *registryImpl) AddStyle(id, text string) error {
	c, err := impl.GetOrCreate(id)
	if err != nil {
		return err
	}

	c.styles = append(c.styles, text)

	impl.refreshOptions(c)

	return nil
}

func (impl *registryImpl) SetHistogram(id string, mode config.HistogramMode) error {
	c, err := impl.GetOrCreate(id)
	if err != nil {
		return err
	}

	c.histogram = true
	c.smooth = mode.SmoothDirective()

	impl.refreshOptions(c)

	return nil
}

func (impl *registryImpl) Append(id string, pt Point) error {
	c, err := impl.GetOrCreate(id)
	if err != nil {
		return err
	}

	c.Points = append(c.Points, pt)

	return nil
}

func (impl *registryImpl) ClearAll() {
	for _, c := range impl.order {
		c.Points = c.Points[:0]
	}
}

func (impl *registryImpl) Curves() []*Curve {
	return impl.order
}

func (impl *registryImpl) Len() int {
	return len(impl.order)
}

// refreshOptions recomputes the derived backend options clause. The
// explicit notitle matters: without it the backend invents a legend
// entry from the data source.
func (impl *registryImpl) refreshOptions(c *Curve) {
	var parts []string

	if c.histogram {
		parts = append(parts, "using (bin($1)):(1.0)")
	}

	switch {
	case c.hasLegend:
		parts = append(parts, fmt.Sprintf("title %q", c.legend))
	case impl.cfg.AutoLegend:
		parts = append(parts, fmt.Sprintf("title %q", c.ID))
	default:
		parts = append(parts, "notitle")
	}

	if c.histogram {
		parts = append(parts, "smooth "+c.smooth, "with boxes")
	}

	parts = append(parts, c.styles...)

	if len(c.styles) == 0 && !c.histogram && impl.cfg.DefaultStyle != "" {
		parts = append(parts, impl.cfg.DefaultStyle)
	}

	c.options = strings.Join(parts, " ")
}
