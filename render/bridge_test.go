package render

import (
	"bytes"
	"testing"

	"github.com/sgostarter/plotfeed/config"
	"github.com/sgostarter/plotfeed/curve"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmitSingleCurve(t *testing.T) {
	reg := curve.NewRegistry(config.Default(), nil)

	for _, pt := range [][2]float64{{1, 5}, {2, 7}, {3, 2}} {
		require.NoError(t, reg.Append("0", curve.Point{
			Domain: []float64{pt[0]},
			Values: []float64{pt[1]},
		}))
	}

	b := NewBridge(config.Default(), nil)

	var buf bytes.Buffer

	require.NoError(t, b.Emit(&buf, reg, nil))

	assert.Equal(t, "plot '-' notitle\n1 5\n2 7\n3 2\ne\n", buf.String())
}

func TestEmitIdempotent(t *testing.T) {
	cfg := config.Default()
	cfg.DefaultStyle = "with lines"

	reg := curve.NewRegistry(cfg, nil)

	require.NoError(t, reg.SetLegend("a", "first"))
	require.NoError(t, reg.Append("a", curve.Point{Domain: []float64{1}, Values: []float64{2}}))
	require.NoError(t, reg.Append("b", curve.Point{Domain: []float64{1}, Values: []float64{3}}))

	b := NewBridge(cfg, nil)

	var first, second bytes.Buffer

	require.NoError(t, b.Emit(&first, reg, nil))
	require.NoError(t, b.Emit(&second, reg, nil))

	assert.NotEmpty(t, first.String())
	assert.Equal(t, first.String(), second.String())
}

func TestEmitSkipsEmptyCurves(t *testing.T) {
	reg := curve.NewRegistry(config.Default(), nil)

	_, err := reg.GetOrCreate("empty")
	require.NoError(t, err)
	require.NoError(t, reg.Append("full", curve.Point{Domain: []float64{1}, Values: []float64{1}}))

	b := NewBridge(config.Default(), nil)

	var buf bytes.Buffer

	require.NoError(t, b.Emit(&buf, reg, nil))

	assert.Equal(t, "plot '-' notitle\n1 1\ne\n", buf.String())
}

func TestEmitNothingWithoutPoints(t *testing.T) {
	reg := curve.NewRegistry(config.Default(), nil)

	_, err := reg.GetOrCreate("empty")
	require.NoError(t, err)

	b := NewBridge(config.Default(), nil)

	var buf bytes.Buffer

	require.NoError(t, b.Emit(&buf, reg, nil))
	assert.Empty(t, buf.String())
}

func TestEmitRangeHint(t *testing.T) {
	reg := curve.NewRegistry(config.Default(), nil)

	require.NoError(t, reg.Append("0", curve.Point{Domain: []float64{10}, Values: []float64{1}}))

	b := NewBridge(config.Default(), nil)

	var buf bytes.Buffer

	require.NoError(t, b.Emit(&buf, reg, &Range{Lo: 5, Hi: 10}))

	assert.Equal(t, "set xrange [5:10]\nplot '-' notitle\n10 1\ne\n", buf.String())
}

func TestEmitMultiCurveOrder(t *testing.T) {
	reg := curve.NewRegistry(config.Default(), nil)

	require.NoError(t, reg.Append("y", curve.Point{Domain: []float64{1}, Values: []float64{1}}))
	require.NoError(t, reg.Append("x", curve.Point{Domain: []float64{1}, Values: []float64{2}}))

	b := NewBridge(config.Default(), nil)

	var buf bytes.Buffer

	require.NoError(t, b.Emit(&buf, reg, nil))

	// Registry insertion order, not key order.
	assert.Equal(t, "plot '-' notitle, '-' notitle\n1 1\ne\n1 2\ne\n", buf.String())
}

func TestEmit3D(t *testing.T) {
	cfg := config.Default()
	cfg.Domain = true
	cfg.ThreeD = true

	reg := curve.NewRegistry(cfg, nil)

	require.NoError(t, reg.Append("0", curve.Point{Domain: []float64{1, 2}, Values: []float64{3}}))

	b := NewBridge(cfg, nil)

	var buf bytes.Buffer

	require.NoError(t, b.Emit(&buf, reg, nil))

	assert.Equal(t, "splot '-' notitle\n1 2 3\ne\n", buf.String())
}

func TestPrelude(t *testing.T) {
	cfg := config.Default()
	cfg.HistogramIDs = []string{"0"}
	cfg.BinWidth = 0.5

	b := NewBridge(cfg, nil)

	var buf bytes.Buffer

	require.NoError(t, b.Prelude(&buf))
	assert.Equal(t, "bin(x)=0.5*floor(x/0.5+0.5)\nset boxwidth 0.5\n", buf.String())

	// No histograms configured: empty prelude.
	buf.Reset()

	b = NewBridge(config.Default(), nil)
	require.NoError(t, b.Prelude(&buf))
	assert.Empty(t, buf.String())
}
