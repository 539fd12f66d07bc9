package pdf

import (
	"tender-reporter/internal/format"
)

// Column describes one table column. Width is in mm; Align is the
// fpdf alignment string ("L", "C", "R"). Color and Bold override the
// body style for the column (used for highlighted price columns).
type Column struct {
	Title string
	Width float64
	Align string
	Color *RGB
	Bold  bool
}

// Table renders a header band plus striped body rows. Cell values
// must already be display strings; currency and dates are formatted
// upstream. When the body crosses the page boundary the renderer
// opens a new page, invokes onNewPage and repeats the header row.
type Table struct {
	Columns []Column
	Rows    [][]string
}

// Render draws the table at the current cursor and returns the final
// Y so following content resumes directly below it. onNewPage may be
// nil; when set it runs after every internal page break so
// surrounding decorations stay consistent.
func (t *Table) Render(l *Layout, onNewPage func()) float64 {
	if len(t.Columns) == 0 {
		return l.Y()
	}

	th := l.theme

	// A table never starts with an orphaned header at the page bottom.
	if l.EnsureSpace(th.HeaderHeight + th.RowHeight) {
		if onNewPage != nil {
			onNewPage()
		}
	}

	t.drawHeader(l)

	fill := false
	for _, row := range t.Rows {
		if l.Y()+th.RowHeight > l.BottomLimit() {
			l.StartNewPage()
			if onNewPage != nil {
				onNewPage()
			}
			t.drawHeader(l)
			fill = false
		}
		t.drawRow(l, row, fill)
		fill = !fill
	}

	l.lastTableY = l.Y()
	l.doc.Ln(3)
	return l.lastTableY
}

func (t *Table) drawHeader(l *Layout) {
	th := l.theme
	pal := th.Palette
	doc := l.doc

	doc.SetX(th.Margin)
	doc.SetFillColor(pal.TableHeader.R, pal.TableHeader.G, pal.TableHeader.B)
	doc.SetTextColor(255, 255, 255)
	doc.SetFont(th.FontFamily, "B", 8)

	for _, col := range t.Columns {
		doc.CellFormat(col.Width, th.HeaderHeight, fitCell(col.Title, col.Width), "1", 0, "C", true, 0, "")
	}
	doc.Ln(-1)
}

func (t *Table) drawRow(l *Layout, row []string, fill bool) {
	th := l.theme
	pal := th.Palette
	doc := l.doc

	doc.SetX(th.Margin)
	if fill {
		doc.SetFillColor(pal.TableAlt.R, pal.TableAlt.G, pal.TableAlt.B)
	} else {
		doc.SetFillColor(255, 255, 255)
	}

	for i, col := range t.Columns {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}

		style := ""
		if col.Bold {
			style = "B"
		}
		doc.SetFont(th.FontFamily, style, 8)

		if col.Color != nil {
			doc.SetTextColor(col.Color.R, col.Color.G, col.Color.B)
		} else {
			doc.SetTextColor(pal.TextDark.R, pal.TextDark.G, pal.TextDark.B)
		}

		align := col.Align
		if align == "" {
			align = "L"
		}
		doc.CellFormat(col.Width, th.RowHeight, fitCell(cell, col.Width), "1", 0, align, true, 0, "")
	}
	doc.Ln(-1)
}

// fitCell truncates a cell to the column's character budget. The
// budget is width-derived rather than measured, so sanitization and
// truncation must have happened before layout.
func fitCell(s string, width float64) string {
	// ~1.7mm per character at the 8pt body font.
	budget := int(width / 1.7)
	if budget < 4 {
		budget = 4
	}
	return format.Truncate(s, budget)
}
