package stream

import (
	"bufio"
	"io"

	"github.com/sgostarter/i/l"
	"github.com/sgostarter/plotfeed/config"
	"github.com/sgostarter/plotfeed/curve"
	"github.com/sgostarter/plotfeed/record"
	"github.com/sgostarter/plotfeed/render"
)

// RunBatch is the sequential degenerate case: ingest everything, then
// one terminal redraw with no range directive. Control words are not
// recognized outside streaming mode.
func RunBatch(cfg config.Config, input io.Reader, reg curve.Registry, bridge render.Bridge, sink render.Backend, logger l.Wrapper) error {
	if logger == nil {
		logger = l.NewNopLoggerWrapper()
	}

	parser := record.NewParser(cfg)
	scanner := bufio.NewScanner(input)

	var (
		seq        uint64
		lastDomain float64
		haveDomain bool
	)

	for scanner.Scan() {
		line := scanner.Text()

		rec, ok := parser.ParseLine(line, seq)
		seq++

		if !ok {
			logger.WithFields(l.StringField("line", line)).Debug("skipped line")

			continue
		}

		if rec.Kind != record.KindData {
			continue
		}

		if haveDomain && curve.MonotonicBroke(cfg.Monotonic, rec.PrimaryDomain(), lastDomain) {
			reg.ClearAll()
		}

		for _, group := range rec.Groups {
			if err := reg.Append(group.ID, curve.Point{
				Domain: rec.Domain,
				Values: group.Values,
			}); err != nil {
				return err
			}
		}

		lastDomain = rec.PrimaryDomain()
		haveDomain = true
	}

	if err := scanner.Err(); err != nil {
		return err
	}

	if err := bridge.Emit(sink, reg, nil); err != nil {
		return err
	}

	return sink.Flush()
}
