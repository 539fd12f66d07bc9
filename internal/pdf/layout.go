package pdf

import (
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"

	"tender-reporter/internal/format"
)

// Layout owns the document, the theme and the vertical cursor. Every
// drawing primitive takes it explicitly; nothing draws through shared
// package state. Automatic page breaking is disabled; EnsureSpace is
// the only way a page ends.
type Layout struct {
	doc   *fpdf.Fpdf
	theme *Theme

	sellerName string
	generated  time.Time

	pageW float64
	pageH float64

	// lastTableY is the final cursor of the most recent table render,
	// kept so freeform content after a table resumes below it.
	lastTableY float64
}

func newLayout(theme *Theme, sellerName string, generated time.Time, compress bool) *Layout {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetMargins(theme.Margin, theme.Margin, theme.Margin)
	doc.SetAutoPageBreak(false, 0)
	doc.SetCompression(compress)
	doc.AliasNbPages("")
	doc.SetFont(theme.FontFamily, "", 10)

	w, h := doc.GetPageSize()
	return &Layout{
		doc:        doc,
		theme:      theme,
		sellerName: sellerName,
		generated:  generated,
		pageW:      w,
		pageH:      h,
	}
}

// Doc exposes the underlying document for primitives in this package.
func (l *Layout) Doc() *fpdf.Fpdf { return l.doc }

// ContentWidth is the usable width between the margins.
func (l *Layout) ContentWidth() float64 {
	return l.pageW - 2*l.theme.Margin
}

// TopSafeY is where content starts on a standard page, below the
// header band.
func (l *Layout) TopSafeY() float64 {
	return l.theme.Margin + l.theme.HeaderBand
}

// BottomLimit is the last Y a block may reach on the current page.
func (l *Layout) BottomLimit() float64 {
	return l.pageH - l.theme.FooterBand - l.theme.SafetyPad
}

// Y returns the current cursor.
func (l *Layout) Y() float64 { return l.doc.GetY() }

// SetY moves the cursor.
func (l *Layout) SetY(y float64) { l.doc.SetY(y) }

// StartCoverPage opens the first page without the standard
// header/footer stamp; the cover carries its own full-bleed treatment.
func (l *Layout) StartCoverPage() {
	l.doc.AddPage()
}

// StartNewPage appends a page, stamps the header and footer
// decorations and resets the cursor to the top safe offset.
func (l *Layout) StartNewPage() {
	l.doc.AddPage()
	l.stampHeader()
	l.stampFooter()
	l.doc.SetY(l.TopSafeY())
}

// EnsureSpace guarantees the next block of the given height fits on
// the current page, opening a new one when it would cross the bottom
// boundary. Returns true when a break happened so callers can react
// (tables manage their own per-row breaks and do not use this).
func (l *Layout) EnsureSpace(height float64) bool {
	if l.doc.GetY()+height > l.BottomLimit() {
		l.StartNewPage()
		return true
	}
	return false
}

func (l *Layout) stampHeader() {
	th := l.theme
	pal := th.Palette

	l.doc.SetFillColor(pal.Primary.R, pal.Primary.G, pal.Primary.B)
	l.doc.Rect(0, 0, l.pageW, 2.5, "F")

	l.doc.SetXY(th.Margin, 5)
	l.doc.SetFont(th.FontFamily, "B", 9)
	l.doc.SetTextColor(pal.Primary.R, pal.Primary.G, pal.Primary.B)
	l.doc.CellFormat(l.ContentWidth()/2, 6, format.Truncate(format.Clean(l.sellerName), 48), "", 0, "L", false, 0, "")

	l.doc.SetFont(th.FontFamily, "", 8)
	l.doc.SetTextColor(pal.TextMuted.R, pal.TextMuted.G, pal.TextMuted.B)
	l.doc.CellFormat(l.ContentWidth()/2, 6, "Generated "+format.Date(l.generated), "", 1, "R", false, 0, "")

	l.doc.SetDrawColor(pal.GridLine.R, pal.GridLine.G, pal.GridLine.B)
	l.doc.SetLineWidth(0.3)
	l.doc.Line(th.Margin, th.Margin+th.HeaderBand-4, l.pageW-th.Margin, th.Margin+th.HeaderBand-4)
}

func (l *Layout) stampFooter() {
	th := l.theme
	pal := th.Palette
	y := l.pageH - th.FooterBand + 3

	l.doc.SetDrawColor(pal.GridLine.R, pal.GridLine.G, pal.GridLine.B)
	l.doc.SetLineWidth(0.3)
	l.doc.Line(th.Margin, y, l.pageW-th.Margin, y)

	l.doc.SetXY(th.Margin, y+2)
	l.doc.SetFont(th.FontFamily, "", 7)
	l.doc.SetTextColor(pal.TextMuted.R, pal.TextMuted.G, pal.TextMuted.B)
	l.doc.CellFormat(l.ContentWidth()/2, 5, th.Confidential, "", 0, "L", false, 0, "")
	// The cover counts as page 1; it just carries no footer itself, so
	// the number and the {nb} total stay consistent.
	l.doc.CellFormat(l.ContentWidth()/2, 5, fmt.Sprintf("Page %d of {nb}", l.doc.PageNo()), "", 0, "R", false, 0, "")
}

// SectionHeader emits the colored band that opens every section,
// breaking the page first when the band plus one row would not fit.
func (l *Layout) SectionHeader(title string) {
	th := l.theme
	pal := th.Palette

	l.EnsureSpace(10 + th.RowHeight)

	y := l.doc.GetY() + 2
	l.doc.SetFillColor(pal.Primary.R, pal.Primary.G, pal.Primary.B)
	l.doc.Rect(th.Margin, y, 1.8, 8, "F")
	l.doc.SetFillColor(pal.Background.R, pal.Background.G, pal.Background.B)
	l.doc.Rect(th.Margin+1.8, y, l.ContentWidth()-1.8, 8, "F")

	l.doc.SetXY(th.Margin+4, y)
	l.doc.SetFont(th.FontFamily, "B", 12)
	l.doc.SetTextColor(pal.Primary.R, pal.Primary.G, pal.Primary.B)
	l.doc.CellFormat(l.ContentWidth()-4, 8, format.Clean(title), "", 1, "L", false, 0, "")
	l.doc.SetY(y + 11)
}

// Paragraph writes body text wrapped to the content width. Text is
// sanitized before measurement, never after.
func (l *Layout) Paragraph(text string) {
	text = format.Clean(text)
	if text == "" {
		return
	}
	th := l.theme
	pal := th.Palette

	l.doc.SetFont(th.FontFamily, "", 10)
	l.doc.SetTextColor(pal.TextDark.R, pal.TextDark.G, pal.TextDark.B)

	lines := l.doc.SplitText(text, l.ContentWidth())
	const lineH = 5.0
	for _, line := range lines {
		l.EnsureSpace(lineH)
		l.doc.SetX(th.Margin)
		l.doc.CellFormat(l.ContentWidth(), lineH, line, "", 1, "L", false, 0, "")
	}
	l.doc.Ln(2)
}

// Bullet writes a single indented bullet line.
func (l *Layout) Bullet(text string) {
	text = format.Clean(text)
	if text == "" {
		return
	}
	th := l.theme
	pal := th.Palette

	l.doc.SetFont(th.FontFamily, "", 10)
	l.doc.SetTextColor(pal.TextDark.R, pal.TextDark.G, pal.TextDark.B)

	lines := l.doc.SplitText(text, l.ContentWidth()-6)
	const lineH = 5.0
	for i, line := range lines {
		l.EnsureSpace(lineH)
		l.doc.SetX(th.Margin)
		marker := "-"
		if i > 0 {
			marker = ""
		}
		l.doc.CellFormat(6, lineH, marker, "", 0, "C", false, 0, "")
		l.doc.CellFormat(l.ContentWidth()-6, lineH, line, "", 1, "L", false, 0, "")
	}
}

// EmptyNote renders the one-line fallback for a section whose data is
// missing.
func (l *Layout) EmptyNote(msg string) {
	th := l.theme
	pal := th.Palette

	l.EnsureSpace(8)
	l.doc.SetFont(th.FontFamily, "I", 10)
	l.doc.SetTextColor(pal.TextMuted.R, pal.TextMuted.G, pal.TextMuted.B)
	l.doc.SetX(th.Margin)
	l.doc.CellFormat(l.ContentWidth(), 8, format.Clean(msg), "", 1, "L", false, 0, "")
	l.doc.Ln(2)
}

// KPICard is one headline metric box.
type KPICard struct {
	Label string
	Value string
	Color RGB
}

// KPICardRow lays out a row of equal-width metric cards.
func (l *Layout) KPICardRow(cards []KPICard) {
	if len(cards) == 0 {
		return
	}
	th := l.theme
	pal := th.Palette

	l.EnsureSpace(th.CardHeight + th.CardGap)

	y := l.doc.GetY()
	w := (l.ContentWidth() - float64(len(cards)-1)*th.CardGap) / float64(len(cards))

	for i, c := range cards {
		x := th.Margin + float64(i)*(w+th.CardGap)

		l.doc.SetFillColor(255, 255, 255)
		l.doc.SetDrawColor(pal.GridLine.R, pal.GridLine.G, pal.GridLine.B)
		l.doc.RoundedRect(x, y, w, th.CardHeight, th.CardRadius, "1234", "FD")

		l.doc.SetFillColor(c.Color.R, c.Color.G, c.Color.B)
		l.doc.Rect(x, y, w, 2, "F")

		l.doc.SetXY(x+3, y+5)
		l.doc.SetFont(th.FontFamily, "B", 14)
		l.doc.SetTextColor(c.Color.R, c.Color.G, c.Color.B)
		l.doc.CellFormat(w-6, 8, c.Value, "", 1, "L", false, 0, "")

		l.doc.SetXY(x+3, y+14)
		l.doc.SetFont(th.FontFamily, "", 8)
		l.doc.SetTextColor(pal.TextMuted.R, pal.TextMuted.G, pal.TextMuted.B)
		l.doc.CellFormat(w-6, 5, c.Label, "", 1, "L", false, 0, "")
	}

	l.doc.SetY(y + th.CardHeight + th.CardGap)
}
