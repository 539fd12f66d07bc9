package pdf

import (
	"fmt"
	"io"
	"os"

	"github.com/go-pdf/fpdf"

	"tender-reporter/internal/format"
	"tender-reporter/internal/report"
)

// Generator renders one analytics payload into a paginated PDF.
// It holds only the theme; every Generate call owns its own document
// and cursor, so a single Generator is safe for concurrent use.
type Generator struct {
	theme    *Theme
	compress bool
}

// NewGenerator creates a generator for the given theme (nil means the
// default theme).
func NewGenerator(theme *Theme) *Generator {
	if theme == nil {
		theme = DefaultTheme()
	}
	return &Generator{theme: theme, compress: true}
}

// Document is the finished report. The caller decides the file name
// and where the bytes go.
type Document struct {
	doc      *fpdf.Fpdf
	Sections []string
}

// Output writes the PDF to w.
func (d *Document) Output(w io.Writer) error {
	return d.doc.Output(w)
}

// SaveAs writes the PDF to the named file.
func (d *Document) SaveAs(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()
	return d.doc.Output(f)
}

// PageCount reports the number of pages, cover included.
func (d *Document) PageCount() int {
	return d.doc.PageCount()
}

// Generate runs the section composer over the payload: the cover page
// first, then every template section that is either unconditional or
// both selected and backed by data. The whole document is built in a
// single synchronous pass; later sections depend on every earlier
// section's cursor and page number.
func (g *Generator) Generate(in *report.ReportInput, sel report.FilterSelection) (*Document, error) {
	if in == nil {
		return nil, fmt.Errorf("nil report input")
	}
	in.Normalize()

	l := newLayout(g.theme, in.Meta.ParamsUsed.SellerName, in.Meta.GeneratedAt, g.compress)
	st := &renderState{l: l, in: in, kpi: in.KPIs()}

	doc := &Document{doc: l.doc}

	g.coverPage(st)
	l.StartNewPage()

	for _, def := range sectionTemplate() {
		if def.id != "" && !sel.Has(def.id) {
			continue
		}

		if def.hasData != nil && !def.hasData(st) {
			switch def.emptyMode {
			case EmptyMessage:
				l.SectionHeader(def.title)
				l.EmptyNote(def.emptyMsg)
				doc.Sections = append(doc.Sections, def.title)
			case EmptySkip:
			}
			continue
		}

		if def.freshPage {
			l.StartNewPage()
		}
		l.SectionHeader(def.title)
		def.body(st)
		doc.Sections = append(doc.Sections, def.title)
	}

	if err := l.doc.Error(); err != nil {
		return nil, fmt.Errorf("pdf generation failed: %w", err)
	}
	return doc, nil
}

// coverPage draws the full-bleed title page. It bypasses the standard
// header/footer stamp on purpose.
func (g *Generator) coverPage(s *renderState) {
	l := s.l
	th := g.theme
	pal := th.Palette
	doc := l.doc
	p := s.in.Meta.ParamsUsed

	l.StartCoverPage()

	doc.SetFillColor(pal.Primary.R, pal.Primary.G, pal.Primary.B)
	doc.Rect(0, 0, l.pageW, 10, "F")
	doc.Rect(0, l.pageH-10, l.pageW, 10, "F")

	doc.SetY(60)
	doc.SetFont(th.FontFamily, "B", 26)
	doc.SetTextColor(pal.Primary.R, pal.Primary.G, pal.Primary.B)
	doc.CellFormat(0, 14, "Tender Analysis Report", "", 1, "C", false, 0, "")

	doc.SetFont(th.FontFamily, "", 12)
	doc.SetTextColor(pal.TextMuted.R, pal.TextMuted.G, pal.TextMuted.B)
	doc.CellFormat(0, 8, "Government e-Marketplace Intelligence", "", 1, "C", false, 0, "")

	// Parameter box
	doc.SetY(110)
	boxX := 35.0
	boxW := l.pageW - 70
	doc.SetFillColor(pal.Background.R, pal.Background.G, pal.Background.B)
	doc.SetDrawColor(pal.GridLine.R, pal.GridLine.G, pal.GridLine.B)
	doc.RoundedRect(boxX, doc.GetY(), boxW, 62, 3, "1234", "FD")

	doc.SetY(doc.GetY() + 8)
	doc.SetFont(th.FontFamily, "B", 10)
	doc.SetTextColor(pal.TextMuted.R, pal.TextMuted.G, pal.TextMuted.B)
	doc.CellFormat(0, 6, "SELLER", "", 1, "C", false, 0, "")
	doc.SetFont(th.FontFamily, "B", 16)
	doc.SetTextColor(pal.TextDark.R, pal.TextDark.G, pal.TextDark.B)
	doc.CellFormat(0, 9, format.Truncate(format.Clean(p.SellerName), 50), "", 1, "C", false, 0, "")

	detail := func(label, value string) {
		if value == "" {
			return
		}
		doc.SetFont(th.FontFamily, "", 10)
		doc.SetTextColor(pal.TextMuted.R, pal.TextMuted.G, pal.TextMuted.B)
		doc.CellFormat(0, 6, label+": "+format.Truncate(format.Clean(value), 60), "", 1, "C", false, 0, "")
	}
	detail("Department", p.Department)
	detail("Offered Item", p.OfferedItem)
	detail("Window", fmt.Sprintf("Last %d days, top %d results", p.Days, p.Limit))

	doc.SetY(l.pageH - 55)
	doc.SetFont(th.FontFamily, "", 10)
	doc.SetTextColor(pal.TextMuted.R, pal.TextMuted.G, pal.TextMuted.B)
	doc.CellFormat(0, 6, "Generated "+format.DateTime(s.in.Meta.GeneratedAt), "", 1, "C", false, 0, "")
	doc.SetFont(th.FontFamily, "", 8)
	doc.CellFormat(0, 5, th.Confidential, "", 1, "C", false, 0, "")
}
