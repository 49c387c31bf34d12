package stream

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sgostarter/i/commerr"
	"github.com/sgostarter/plotfeed/config"
	"github.com/sgostarter/plotfeed/curve"
	"github.com/sgostarter/plotfeed/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchSingleCurve(t *testing.T) {
	cfg := config.Default()
	cfg.Domain = true

	reg := curve.NewRegistry(cfg, nil)
	bridge := render.NewBridge(cfg, nil)

	var buf bytes.Buffer

	input := strings.NewReader("1 5\n2 7\n3 2\n")

	require.NoError(t, RunBatch(cfg, input, reg, bridge, render.NewWriterBackend(&buf), nil))

	// One curve, points in arrival order, no range directive.
	assert.Equal(t, "plot '-' notitle\n1 5\n2 7\n3 2\ne\n", buf.String())
}

func TestBatchImplicitDomain(t *testing.T) {
	cfg := config.Default()

	reg := curve.NewRegistry(cfg, nil)
	bridge := render.NewBridge(cfg, nil)

	var buf bytes.Buffer

	input := strings.NewReader("5\n7\n2\n")

	require.NoError(t, RunBatch(cfg, input, reg, bridge, render.NewWriterBackend(&buf), nil))

	assert.Equal(t, "plot '-' notitle\n0 5\n1 7\n2 2\ne\n", buf.String())
}

func TestBatchMultiCurveAndComments(t *testing.T) {
	cfg := config.Default()

	reg := curve.NewRegistry(cfg, nil)
	bridge := render.NewBridge(cfg, nil)

	var buf bytes.Buffer

	input := strings.NewReader("# header\n5 6\nbogus line\n7 8\n")

	require.NoError(t, RunBatch(cfg, input, reg, bridge, render.NewWriterBackend(&buf), nil))

	// Line numbers feed the implicit domain, malformed lines included.
	assert.Equal(t, "plot '-' notitle, '-' notitle\n1 5\n3 7\ne\n1 6\n3 8\ne\n", buf.String())
}

func TestBatchMonotonicReset(t *testing.T) {
	cfg := config.Default()
	cfg.Domain = true
	cfg.Monotonic = true

	reg := curve.NewRegistry(cfg, nil)
	bridge := render.NewBridge(cfg, nil)

	var buf bytes.Buffer

	input := strings.NewReader("1 10\n2 20\n3 30\n1 11\n5 50\n")

	require.NoError(t, RunBatch(cfg, input, reg, bridge, render.NewWriterBackend(&buf), nil))

	assert.Equal(t, "plot '-' notitle\n1 11\n5 50\ne\n", buf.String())
}

func TestBatchMaxCurvesFatal(t *testing.T) {
	cfg := config.Default()
	cfg.Domain = true
	cfg.MaxCurves = 2

	reg := curve.NewRegistry(cfg, nil)
	bridge := render.NewBridge(cfg, nil)

	var buf bytes.Buffer

	input := strings.NewReader("1 5 6 7\n")

	err := RunBatch(cfg, input, reg, bridge, render.NewWriterBackend(&buf), nil)
	assert.ErrorIs(t, err, commerr.ErrResourceExhausted)

	// No partial protocol block for the offending state.
	assert.Empty(t, buf.String())
}
