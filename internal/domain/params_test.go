package domain

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoBinDSD() *DropSizeDistribution {
	dsd := NewDropSizeDistribution(
		[]int{60, 120, 180},
		[][]float64{{0, 0}, {10, 0}, {10, 10}},
		[]float64{1, 1},
		nil,
	)
	dsd.Diameter = []float64{1, 2}
	return dsd
}

func TestDropSizeDistribution_Moment(t *testing.T) {
	dsd := twoBinDSD()
	assert.Equal(t, []float64{0, 10, 20}, dsd.Moment(0))
	assert.Equal(t, []float64{0, 10, 90}, dsd.Moment(3))

	// Widths come from the bin edges when no spread is attached.
	dsd.Spread = nil
	dsd.BinEdges = []float64{0.5, 1.5, 2.5}
	assert.Equal(t, []float64{0, 10, 170}, dsd.Moment(4))

	dsd.BinEdges = nil
	assert.Equal(t, []float64{0, 0, 0}, dsd.Moment(4), "no geometry")
}

func TestDropSizeDistribution_Parameterization(t *testing.T) {
	params := twoBinDSD().Parameterization(StandardAirPressureMb)
	require.Len(t, params, 3)

	assert.Equal(t, IntervalParams{}, params[0], "empty interval")

	single := params[1]
	assert.InDelta(t, 10.0, single.Nt, 1e-9)
	assert.InDelta(t, math.Pi/6*1e-2, single.W, 1e-12)
	assert.InDelta(t, 1.0, single.D0, 1e-12)
	assert.InDelta(t, 1.0, single.Dm, 1e-12)
	assert.InDelta(t, 2560.0/6, single.Nw, 1e-9)
	assert.InDelta(t, 1.0, single.Dmax, 1e-12)
	assert.InDelta(t, math.Sqrt(12), single.Lambda, 1e-12)
	assert.InDelta(t, 5*math.Pow(12, 1.5), single.N0, 1e-9)
	assert.Zero(t, single.FluxRainRate, "smallest class has no fall speed")

	both := params[2]
	assert.InDelta(t, 20.0, both.Nt, 1e-9)
	assert.InDelta(t, 0.0471238898, both.W, 1e-9)
	assert.InDelta(t, 1.4375, both.D0, 1e-12)
	assert.InDelta(t, 170.0/90, both.Dm, 1e-12)
	assert.InDelta(t, 301.6515606853, both.Nw, 1e-6)
	assert.InDelta(t, 2.0, both.Dmax, 1e-12)
	assert.InDelta(t, 1.8786728732, both.Lambda, 1e-9)
	assert.InDelta(t, 165.7652535225, both.N0, 1e-6)
	assert.InDelta(t, 0.9873698408, both.FluxRainRate, 1e-9)
}

func TestMedianVolumeDiameter_HalfInFirstBin(t *testing.T) {
	// The first bin alone holds at least half the water.
	d0 := medianVolumeDiameter([]float64{100, 1}, []float64{1, 2}, []float64{1, 1})
	assert.InDelta(t, 1.0, d0, 1e-12)
}

func TestFallSpeed(t *testing.T) {
	v := FallSpeed([]float64{0.5, 1, 4}, 1000)
	require.Len(t, v, 3)
	assert.Zero(t, v[0])
	assert.InDelta(t, 9.65-10.3*math.Exp(-0.6), v[1], 1e-12)
	assert.Greater(t, v[2], v[1])

	thin := FallSpeed([]float64{0.5, 1}, 800)
	assert.InDelta(t, v[1]*math.Pow(0.8, 0.4), thin[1], 1e-12)
}

func TestDropSizeDistribution_IntervalsCarryParams(t *testing.T) {
	freezeClock(t)
	reader := NewReader(ParsivelGeometry(), ConditionalMatrix{})
	dsd, _, err := reader.ReadStream(strings.NewReader(rawLines(fullInterval(60), fullInterval(120))), "inline")
	require.NoError(t, err)

	want := dsd.Parameterization(StandardAirPressureMb)
	recs := dsd.Intervals()
	require.Len(t, recs, 2)
	assert.Equal(t, want[1], recs[1].Params)
	assert.Positive(t, recs[1].Params.Nt)

	body, err := json.Marshal(recs[1])
	require.NoError(t, err)
	assert.Contains(t, string(body), `"params":{"nt":`)
}
