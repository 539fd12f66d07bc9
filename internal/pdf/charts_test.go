package pdf

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func series(values ...float64) []SeriesEntry {
	th := DefaultTheme()
	out := make([]SeriesEntry, len(values))
	for i, v := range values {
		out[i] = SeriesEntry{Label: "entry", Value: v, Color: th.SeriesColor(i)}
	}
	return out
}

func TestPieAnglesSumToFullCircle(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
	}{
		{"two equal", []float64{1, 1}},
		{"uneven", []float64{3, 1}},
		{"many", []float64{5, 3, 2, 7, 1}},
		{"single", []float64{42}},
		{"with zero entry", []float64{2, 0, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slices := pieAngles(series(tt.values...))
			require.Len(t, slices, len(tt.values))

			var sum float64
			for _, s := range slices {
				assert.GreaterOrEqual(t, s.span, 0.0)
				sum += s.span
			}
			assert.InDelta(t, 2*math.Pi, sum, 1e-9)
		})
	}
}

func TestPieAnglesStartAtTwelveOClockClockwise(t *testing.T) {
	slices := pieAngles(series(1, 3))
	require.Len(t, slices, 2)

	assert.InDelta(t, -math.Pi/2, slices[0].start, 1e-9)
	assert.InDelta(t, math.Pi/2, slices[0].span, 1e-9)
	// Second slice begins exactly where the first ended; input order is
	// preserved, never sorted by value.
	assert.InDelta(t, slices[0].start+slices[0].span, slices[1].start, 1e-9)
	assert.InDelta(t, 3*math.Pi/2, slices[1].span, 1e-9)
}

func TestPieAnglesZeroTotal(t *testing.T) {
	assert.Nil(t, pieAngles(series(0, 0)))
	assert.Nil(t, pieAngles(nil))
	assert.Nil(t, pieAngles(series(-1, -2)))
}

func TestBarLengthsBounds(t *testing.T) {
	const track = 100.0
	entries := series(0, 1, 50, 100)
	lengths := barLengths(entries, 100, track)
	require.Len(t, lengths, 4)

	// Zero value still gets the minimum visible length.
	assert.Equal(t, minBarLen, lengths[0])
	for _, ln := range lengths {
		assert.Greater(t, ln, 0.0)
		assert.LessOrEqual(t, ln, track)
	}
	// value == max fills the track exactly.
	assert.InDelta(t, track, lengths[3], 1e-9)
	assert.InDelta(t, 50.0, lengths[2], 1e-9)
}

func TestBarLengthsComputedMax(t *testing.T) {
	lengths := barLengths(series(10, 20, 40), 0, 80)
	require.Len(t, lengths, 3)
	assert.InDelta(t, 80.0, lengths[2], 1e-9)
	assert.InDelta(t, 40.0, lengths[1], 1e-9)
}

func TestBarLengthsZeroSeries(t *testing.T) {
	assert.Nil(t, barLengths(series(0, 0), 0, 100))
	assert.Nil(t, barLengths(nil, 0, 100))
}

func TestDrawPieChartZeroTotalDrawsNothing(t *testing.T) {
	l := newLayout(DefaultTheme(), "Acme", testTime(), true)
	l.StartNewPage()
	pagesBefore := l.doc.PageCount()

	drawn := l.DrawPieChart(60, 80, 22, series(0, 0), true)

	assert.False(t, drawn)
	assert.Equal(t, pagesBefore, l.doc.PageCount())
}

func TestDrawBarChartZeroSeries(t *testing.T) {
	l := newLayout(DefaultTheme(), "Acme", testTime(), true)
	l.StartNewPage()

	drawn := l.DrawBarChart(series(0, 0), 0, func(SeriesEntry) string { return "0" })
	assert.False(t, drawn)
}
