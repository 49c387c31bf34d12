package stream

import (
	"bufio"
	"context"
	"io"
	"time"

	"github.com/sgostarter/i/l"
	"github.com/sgostarter/libeasygo/routineman"
	"github.com/sgostarter/plotfeed/config"
	"github.com/sgostarter/plotfeed/curve"
	"github.com/sgostarter/plotfeed/record"
	"github.com/sgostarter/plotfeed/render"
)

type msgKind int

const (
	msgLine msgKind = iota
	msgRedraw
	msgIngestDone
	msgTriggersDone
)

// message is the tagged variant carried on the queue. line/seq are
// set for msgLine only; seq is the zero-based input line position,
// carried along because the consumer runs in another routine and
// cannot observe input position itself.
type message struct {
	kind msgKind
	line string
	seq  uint64
}

// Coordinator runs streaming mode: an ingest routine and an optional
// periodic trigger routine feed the queue, and a single consumer owns
// all curve state. Run blocks until end of input and the final
// redraw.
type Coordinator interface {
	Run(input io.Reader) error
}

func NewCoordinator(cfg config.Config, reg curve.Registry, bridge render.Bridge, sink render.Backend, logger l.Wrapper) Coordinator {
	if logger == nil {
		logger = l.NewNopLoggerWrapper()
	}

	return &coordinatorImpl{
		cfg:    cfg,
		logger: logger.WithFields(l.StringField(l.ClsKey, "coordinatorImpl")),
		reg:    reg,
		bridge: bridge,
		sink:   sink,
		parser: record.NewParser(cfg),
	}
}

type coordinatorImpl struct {
	cfg    config.Config
	logger l.Wrapper
	reg    curve.Registry
	bridge render.Bridge
	sink   render.Backend
	parser record.Parser

	q          *queue[message]
	ingestDone chan struct{}

	// Consumer-owned state. No lock: only the consumer touches it.
	newData    bool
	lastDomain float64
	haveDomain bool
}

func (impl *coordinatorImpl) Run(input io.Reader) error {
	impl.q = newQueue[message]()
	impl.ingestDone = make(chan struct{})

	routineMan := routineman.NewRoutineMan(context.Background(), impl.logger)

	routineMan.StartRoutine(func(_ context.Context, _ func() bool) {
		impl.ingestRoutine(input)
	}, "ingestRoutine")

	if impl.cfg.Period > 0 {
		routineMan.StartRoutine(impl.triggerRoutine, "triggerRoutine")
	}

	err := impl.consume()

	routineMan.TriggerStop()

	if err != nil {
		// The ingest routine may still be blocked on input; the
		// process is going down on this path anyway.
		return err
	}

	routineMan.Wait()

	impl.q.closeIn()

	return nil
}

func (impl *coordinatorImpl) ingestRoutine(input io.Reader) {
	scanner := bufio.NewScanner(input)

	var seq uint64

	for scanner.Scan() {
		impl.q.push(message{
			kind: msgLine,
			line: scanner.Text(),
			seq:  seq,
		})

		seq++
	}

	if err := scanner.Err(); err != nil {
		impl.logger.WithFields(l.ErrorField(err)).Error("read input")
	}

	close(impl.ingestDone)

	impl.q.push(message{kind: msgIngestDone})
}

func (impl *coordinatorImpl) triggerRoutine(ctx context.Context, _ func() bool) {
	period := time.Duration(impl.cfg.Period * float64(time.Second))

	for {
		select {
		case <-ctx.Done():
			return
		case <-impl.ingestDone:
			impl.q.push(message{kind: msgTriggersDone})

			return
		case <-time.After(period):
			impl.q.push(message{kind: msgRedraw})
		}
	}
}

func (impl *coordinatorImpl) consume() error {
	ingestFinished := false
	triggersFinished := impl.cfg.Period <= 0 // no trigger role in event-trigger mode

	for !ingestFinished || !triggersFinished {
		msg := <-impl.q.out

		switch msg.kind {
		case msgLine:
			if err := impl.consumeLine(msg.line, msg.seq); err != nil {
				return err
			}
		case msgRedraw:
			if err := impl.redrawIfNewData(); err != nil {
				return err
			}
		case msgIngestDone:
			ingestFinished = true
		case msgTriggersDone:
			triggersFinished = true
		}
	}

	// The last batch of data is always shown, new-data flag or not.
	if err := impl.redraw(); err != nil {
		return err
	}

	return impl.sink.Flush()
}

func (impl *coordinatorImpl) consumeLine(line string, seq uint64) error {
	rec, ok := impl.parser.ParseLine(line, seq)
	if !ok {
		impl.logger.WithFields(l.StringField("line", line)).Debug("skipped line")

		return nil
	}

	switch rec.Kind {
	case record.KindComment:
	case record.KindClear:
		impl.reg.ClearAll()
	case record.KindReplot:
		return impl.redrawIfNewData()
	case record.KindData:
		return impl.applyData(rec)
	}

	return nil
}

func (impl *coordinatorImpl) applyData(rec record.Record) error {
	if impl.haveDomain && curve.MonotonicBroke(impl.cfg.Monotonic, rec.PrimaryDomain(), impl.lastDomain) {
		impl.reg.ClearAll()
	}

	for _, group := range rec.Groups {
		if err := impl.reg.Append(group.ID, curve.Point{
			Domain: rec.Domain,
			Values: group.Values,
		}); err != nil {
			return err
		}
	}

	impl.lastDomain = rec.PrimaryDomain()
	impl.haveDomain = true
	impl.newData = true

	return nil
}

func (impl *coordinatorImpl) redrawIfNewData() error {
	if !impl.newData {
		return nil
	}

	return impl.redraw()
}

func (impl *coordinatorImpl) redraw() error {
	var hint *render.Range

	if impl.cfg.XLen > 0 && impl.haveDomain {
		// Window lower bound follows the most recent domain value
		// seen, not the global maximum.
		lo := impl.lastDomain - impl.cfg.XLen

		for _, c := range impl.reg.Curves() {
			c.Prune(lo)
		}

		hint = &render.Range{Lo: lo, Hi: impl.lastDomain}
	}

	if err := impl.bridge.Emit(impl.sink, impl.reg, hint); err != nil {
		return err
	}

	impl.newData = false

	return impl.sink.Flush()
}
