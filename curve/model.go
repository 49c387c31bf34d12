package curve

// Point is one buffered sample. Domain carries the primary domain
// coordinate first (two coordinates in 3-D mode); Values is the
// fixed-width payload tuple. Points are immutable once appended.
type Point struct {
	Domain []float64
	Values []float64
}

func (pt Point) PrimaryDomain() float64 {
	if len(pt.Domain) == 0 {
		return 0
	}

	return pt.Domain[0]
}

// Curve is a named ordered series of points plus its render options.
// All mutation goes through the registry.
type Curve struct {
	ID     string
	Points []Point

	legend    string
	hasLegend bool
	styles    []string
	histogram bool
	smooth    string

	options string // derived, see registryImpl.refreshOptions
}

// Options is the backend-facing options clause for this curve,
// combining title, histogram transform and style text.
func (c *Curve) Options() string {
	return c.options
}

func (c *Curve) Histogram() bool {
	return c.histogram
}
