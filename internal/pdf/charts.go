package pdf

import (
	"math"

	"github.com/go-pdf/fpdf"

	"tender-reporter/internal/format"
)

// SeriesEntry is one labeled value in a chart series.
type SeriesEntry struct {
	Label string
	Value float64
	Color RGB
}

// arcStepRad caps the angular width of each fan triangle so slices
// stay smooth without native arc primitives.
const arcStepRad = 3 * math.Pi / 180

// minBarLen keeps zero and near-zero bars visible.
const minBarLen = 2.0

type pieSlice struct {
	start float64 // radians, -Pi/2 is 12 o'clock
	span  float64
}

// pieAngles computes slice geometry in input order: no sorting, the
// first entry starts at 12 o'clock and slices proceed clockwise. A
// zero or negative total yields no slices.
func pieAngles(entries []SeriesEntry) []pieSlice {
	var total float64
	for _, e := range entries {
		if e.Value > 0 {
			total += e.Value
		}
	}
	if total <= 0 {
		return nil
	}

	out := make([]pieSlice, 0, len(entries))
	angle := -math.Pi / 2
	for _, e := range entries {
		v := e.Value
		if v < 0 {
			v = 0
		}
		span := 2 * math.Pi * v / total
		out = append(out, pieSlice{start: angle, span: span})
		angle += span
	}
	return out
}

// barLengths maps values onto a track of the given width. max <= 0
// means "use the series' own maximum"; a series whose maximum is still
// zero gets no bars at all.
func barLengths(entries []SeriesEntry, max, track float64) []float64 {
	if max <= 0 {
		for _, e := range entries {
			if e.Value > max {
				max = e.Value
			}
		}
	}
	if max <= 0 {
		return nil
	}

	out := make([]float64, len(entries))
	for i, e := range entries {
		ln := track * e.Value / max
		if ln < minBarLen {
			ln = minBarLen
		}
		if ln > track {
			ln = track
		}
		out[i] = ln
	}
	return out
}

// DrawPieChart renders the series as a pie (or donut) centered at
// cx,cy with a legend to the right. Returns false without drawing
// anything when the series total is zero; callers fall back to their
// empty-state path.
func (l *Layout) DrawPieChart(cx, cy, r float64, entries []SeriesEntry, donut bool) bool {
	slices := pieAngles(entries)
	if slices == nil {
		return false
	}

	doc := l.doc
	for i, s := range slices {
		if s.span <= 0 {
			continue
		}
		c := entries[i].Color
		doc.SetFillColor(c.R, c.G, c.B)

		// Fan of thin triangles from the center; the PDF viewer sees
		// one sector per slice.
		steps := int(math.Ceil(s.span / arcStepRad))
		for t := 0; t < steps; t++ {
			a0 := s.start + float64(t)*s.span/float64(steps)
			a1 := s.start + float64(t+1)*s.span/float64(steps)
			doc.Polygon([]fpdf.PointType{
				{X: cx, Y: cy},
				{X: cx + r*math.Cos(a0), Y: cy + r*math.Sin(a0)},
				{X: cx + r*math.Cos(a1), Y: cy + r*math.Sin(a1)},
			}, "F")
		}
	}

	if donut {
		doc.SetFillColor(255, 255, 255)
		doc.Circle(cx, cy, r*0.55, "F")
	}

	l.drawLegend(cx+r+8, cy-r, entries)
	return true
}

// DrawBarChart renders horizontal bars at the current cursor, one row
// per entry: fixed-width label column, track, value text after the
// bar. max <= 0 uses the series maximum. Returns false when nothing
// can be drawn.
func (l *Layout) DrawBarChart(entries []SeriesEntry, max float64, valueText func(SeriesEntry) string) bool {
	th := l.theme
	pal := th.Palette

	const labelW = 52.0
	const valueW = 26.0
	const rowH = 6.0
	const rowGap = 2.0
	track := l.ContentWidth() - labelW - valueW - 4

	lengths := barLengths(entries, max, track)
	if lengths == nil {
		return false
	}

	doc := l.doc
	for i, e := range entries {
		l.EnsureSpace(rowH + rowGap)
		y := doc.GetY()

		doc.SetFont(th.FontFamily, "", 8)
		doc.SetTextColor(pal.TextDark.R, pal.TextDark.G, pal.TextDark.B)
		doc.SetXY(th.Margin, y)
		doc.CellFormat(labelW, rowH, format.Truncate(format.Clean(e.Label), 32), "", 0, "L", false, 0, "")

		// Track background, then the bar.
		doc.SetFillColor(pal.Background.R, pal.Background.G, pal.Background.B)
		doc.Rect(th.Margin+labelW+2, y+1, track, rowH-2, "F")
		doc.SetFillColor(e.Color.R, e.Color.G, e.Color.B)
		doc.Rect(th.Margin+labelW+2, y+1, lengths[i], rowH-2, "F")

		doc.SetXY(th.Margin+labelW+2+track+2, y)
		doc.SetFont(th.FontFamily, "B", 8)
		doc.CellFormat(valueW, rowH, valueText(e), "", 1, "L", false, 0, "")

		doc.SetY(y + rowH + rowGap)
	}
	doc.Ln(2)
	return true
}

func (l *Layout) drawLegend(x, y float64, entries []SeriesEntry) {
	th := l.theme
	pal := th.Palette
	doc := l.doc

	doc.SetFont(th.FontFamily, "", 8)
	for _, e := range entries {
		doc.SetFillColor(e.Color.R, e.Color.G, e.Color.B)
		doc.Rect(x, y+1, 3, 3, "F")
		doc.SetXY(x+5, y)
		doc.SetTextColor(pal.TextDark.R, pal.TextDark.G, pal.TextDark.B)
		doc.CellFormat(60, 5, format.Truncate(format.Clean(e.Label), 34), "", 1, "L", false, 0, "")
		y += 5.5
	}
}
