package record

type Kind int

const (
	KindComment Kind = iota
	KindClear
	KindReplot
	KindData
)

// Group is one curve reference on a data line: the curve id plus a
// fixed-width tuple of payload values.
type Group struct {
	ID     string
	Values []float64
}

// Record is one classified input line. Domain carries the primary
// domain coordinate first (two coordinates in 3-D mode); it is
// populated only for KindData.
type Record struct {
	Kind   Kind
	Domain []float64
	Groups []Group
}

func (r *Record) PrimaryDomain() float64 {
	if len(r.Domain) == 0 {
		return 0
	}

	return r.Domain[0]
}
