package pdf

import (
	"fmt"

	"tender-reporter/internal/format"
	"tender-reporter/internal/report"
)

// EmptyMode selects how a section behaves when its backing data is
// empty: render a one-line note, or vanish entirely. The behavior is
// deliberately per-section, not global.
type EmptyMode int

const (
	EmptySkip EmptyMode = iota
	EmptyMessage
)

// sectionDef is one entry of the report's section-order template.
// An empty id means the section is unconditional and ignores the
// filter selection.
type sectionDef struct {
	id        report.Section
	title     string
	emptyMode EmptyMode
	emptyMsg  string
	freshPage bool
	hasData   func(*renderState) bool
	body      func(*renderState)
}

// renderState threads everything a section body needs; sections never
// reach for package-level state.
type renderState struct {
	l   *Layout
	in  *report.ReportInput
	kpi report.KPI
}

func (s *renderState) theme() *Theme { return s.l.theme }

// sectionTemplate is the canonical ordering. Variants that reorder
// sections swap this slice, not the bodies.
func sectionTemplate() []sectionDef {
	return []sectionDef{
		{
			title: "Performance Summary",
			body:  (*renderState).kpiSummary,
		},
		{
			title: "AI Strategic Overview",
			body:  (*renderState).strategicOverview,
		},
		{
			id:        report.SectionBidsSummary,
			title:     "Bids Summary",
			emptyMode: EmptyMessage,
			emptyMsg:  "No bid activity was recorded in the selected period.",
			hasData:   func(s *renderState) bool { return s.kpi.TotalBids > 0 },
			body:      (*renderState).bidsSummary,
		},
		{
			id:        report.SectionMarketOverview,
			title:     "Market Overview",
			emptyMode: EmptyMessage,
			emptyMsg:  "No market data available for the offered item.",
			hasData: func(s *renderState) bool {
				return s.in.Data.PriceBand != nil || len(s.in.Data.MissedButWinnable.MarketWins) > 0
			},
			body: (*renderState).marketOverview,
		},
		{
			id:      report.SectionTopPerformer,
			title:   "Top Performers",
			hasData: func(s *renderState) bool { return len(s.in.Data.TopSellers) > 0 },
			body:    (*renderState).topPerformers,
		},
		{
			id:        report.SectionMissedTenders,
			title:     "Missed But Winnable Tenders",
			freshPage: true,
			hasData: func(s *renderState) bool {
				return len(s.in.Data.MissedButWinnable.AI.LikelyWins) > 0
			},
			body: (*renderState).missedTenders,
		},
		{
			id:        report.SectionBuyerInsights,
			title:     "Buyer Insights",
			emptyMode: EmptyMessage,
			emptyMsg:  "No buyer affinity signals were detected.",
			hasData: func(s *renderState) bool {
				sig := s.in.Data.MissedButWinnable.AI.Signals
				return len(sig.Organisations)+len(sig.Departments)+len(sig.Ministries)+
					len(sig.QuantityNotes)+len(sig.PriceNotes) > 0
			},
			body: (*renderState).buyerInsights,
		},
		{
			id:      report.SectionRivalryScore,
			title:   "Rivalry Scorecard",
			hasData: func(s *renderState) bool { return len(s.in.Data.TopSellers) > 0 },
			body:    (*renderState).rivalryScore,
		},
		{
			id:      report.SectionLowCompetition,
			title:   "Low Competition Opportunities",
			hasData: func(s *renderState) bool { return len(s.in.Data.LowCompetition) > 0 },
			body:    (*renderState).lowCompetition,
		},
		{
			id:        report.SectionCategoryAnalysis,
			title:     "Category Analysis",
			emptyMode: EmptyMessage,
			emptyMsg:  "No category distribution data available.",
			hasData:   func(s *renderState) bool { return len(s.in.Data.CategoryCounts) > 0 },
			body:      (*renderState).categoryAnalysis,
		},
		{
			id:        report.SectionStatesAnalysis,
			title:     "States Analysis",
			emptyMode: EmptyMessage,
			emptyMsg:  "No state-wise distribution data available.",
			hasData:   func(s *renderState) bool { return len(s.in.Data.TopStates) > 0 },
			body:      (*renderState).statesAnalysis,
		},
		{
			id:        report.SectionDepartmentsAnalysis,
			title:     "Departments Analysis",
			emptyMode: EmptyMessage,
			emptyMsg:  "No department-wise distribution data available.",
			hasData:   func(s *renderState) bool { return len(s.in.Data.DepartmentCounts) > 0 },
			body:      (*renderState).departmentsAnalysis,
		},
		{
			title: "Disclaimer",
			body:  (*renderState).disclaimer,
		},
	}
}

// --- Section bodies ---

func (s *renderState) kpiSummary() {
	th := s.theme()
	pal := th.Palette
	k := s.kpi

	s.l.KPICardRow([]KPICard{
		{Label: "Win Rate", Value: format.Percent(k.WinRate), Color: pal.Accent},
		{Label: "Total Bids", Value: format.GroupInt(int64(k.TotalBids)), Color: pal.Secondary},
		{Label: "Successful Wins", Value: format.GroupInt(int64(k.Wins)), Color: pal.Primary},
	})
	s.l.KPICardRow([]KPICard{
		{Label: "Total Order Value", Value: format.Currency(k.TotalValue), Color: pal.Primary},
		{Label: "Average Order Value", Value: format.Currency(k.AvgValue), Color: pal.Secondary},
		{Label: "Avg Bids / Day", Value: fmt.Sprintf("%.1f", k.AvgBidsPerDay), Color: pal.Warning},
	})
}

func (s *renderState) strategicOverview() {
	ai := s.in.Data.MissedButWinnable.AI

	if ai.StrategySummary == "" {
		s.l.EmptyNote("No strategic narrative was generated for this request.")
	} else {
		s.l.Paragraph(ai.StrategySummary)
	}

	if g := ai.Guidance; g != nil {
		if len(g.NextSteps) > 0 {
			s.l.Paragraph("Recommended next steps:")
			for _, step := range g.NextSteps {
				s.l.Bullet(step)
			}
			s.l.doc.Ln(2)
		}
		if len(g.ExpansionAreas) > 0 {
			s.l.Paragraph("Expansion areas worth exploring:")
			for _, area := range g.ExpansionAreas {
				s.l.Bullet(area)
			}
			s.l.doc.Ln(2)
		}
	}
}

func (s *renderState) bidsSummary() {
	th := s.theme()
	pal := th.Palette
	k := s.kpi

	if k.TotalBids > 0 {
		entries := []SeriesEntry{
			{Label: fmt.Sprintf("Won (%d)", k.Wins), Value: float64(k.Wins), Color: pal.Accent},
			{Label: fmt.Sprintf("Lost (%d)", k.Losses), Value: float64(k.Losses), Color: pal.Danger},
		}
		s.chartBlock(entries, true)
	}

	wins := s.in.Data.MissedButWinnable.RecentWins
	if len(wins) == 0 {
		return
	}
	s.l.Paragraph("Recent contract wins:")
	t := tenderTable(th, wins, false)
	t.Render(s.l, nil)
}

func (s *renderState) marketOverview() {
	th := s.theme()
	pal := th.Palette

	if pb := s.in.Data.PriceBand; pb != nil {
		s.l.KPICardRow([]KPICard{
			{Label: "Lowest Winning Price", Value: format.Currency(pb.Low), Color: pal.Accent},
			{Label: "Average Winning Price", Value: format.Currency(pb.Average), Color: pal.Secondary},
			{Label: "Highest Winning Price", Value: format.Currency(pb.High), Color: pal.Danger},
		})
	}

	market := s.in.Data.MissedButWinnable.MarketWins
	if len(market) == 0 {
		return
	}
	s.l.Paragraph("Contracts awarded across the market in the same window:")
	t := tenderTable(th, market, true)
	t.Render(s.l, nil)
}

func (s *renderState) topPerformers() {
	th := s.theme()

	sellers := s.in.Data.TopSellers
	entries := make([]SeriesEntry, 0, len(sellers))
	for i, e := range sellers {
		entries = append(entries, SeriesEntry{
			Label: e.Label,
			Value: float64(e.Count),
			Color: th.SeriesColor(i),
		})
	}

	s.l.EnsureSpace(float64(len(entries))*8 + 6)
	s.l.DrawBarChart(entries, 0, func(e SeriesEntry) string {
		return format.GroupInt(int64(e.Value))
	})

	t := rankedTable(th, "Seller", sellers)
	t.Render(s.l, nil)
}

func (s *renderState) missedTenders() {
	th := s.theme()
	pal := th.Palette

	s.l.Paragraph("Tenders the analysis ranks as likely wins for your catalog, with the evidence behind each ranking:")

	for i, opp := range s.in.Data.MissedButWinnable.AI.LikelyWins {
		s.l.EnsureSpace(16)

		s.l.doc.SetFont(th.FontFamily, "B", 10)
		s.l.doc.SetTextColor(pal.Primary.R, pal.Primary.G, pal.Primary.B)
		s.l.doc.SetX(th.Margin)
		title := fmt.Sprintf("%d. %s", i+1, format.Clean(opp.Item))
		s.l.doc.CellFormat(s.l.ContentWidth(), 6, format.Truncate(title, 90), "", 1, "L", false, 0, "")

		s.l.doc.SetFont(th.FontFamily, "", 8)
		s.l.doc.SetTextColor(pal.TextMuted.R, pal.TextMuted.G, pal.TextMuted.B)
		s.l.doc.SetX(th.Margin)
		s.l.doc.CellFormat(s.l.ContentWidth(), 5, "Bid "+format.Clean(opp.BidNumber), "", 1, "L", false, 0, "")

		if opp.Reason != "" {
			s.l.Paragraph(opp.Reason)
		}

		if len(opp.Evidence) > 0 {
			t := &Table{
				Columns: []Column{
					{Title: "Bid Number", Width: 40},
					{Title: "Buyer", Width: 70},
					{Title: "Awarded Price", Width: 35, Align: "R", Color: &pal.Accent, Bold: true},
					{Title: "Note", Width: 35},
				},
			}
			for _, ev := range opp.Evidence {
				t.Rows = append(t.Rows, []string{
					format.Clean(ev.BidNumber),
					format.Clean(ev.Buyer),
					format.Currency(ev.Price),
					format.Clean(ev.Note),
				})
			}
			t.Render(s.l, nil)
		}
	}
}

func (s *renderState) buyerInsights() {
	sig := s.in.Data.MissedButWinnable.AI.Signals

	s.affinityTable("Organisations showing affinity", "Organisation", sig.Organisations)
	s.affinityTable("Departments showing affinity", "Department", sig.Departments)
	s.affinityTable("Ministries showing affinity", "Ministry", sig.Ministries)

	if len(sig.QuantityNotes) > 0 {
		s.l.Paragraph("Quantity patterns:")
		for _, n := range sig.QuantityNotes {
			s.l.Bullet(n)
		}
		s.l.doc.Ln(2)
	}
	if len(sig.PriceNotes) > 0 {
		s.l.Paragraph("Price range patterns:")
		for _, n := range sig.PriceNotes {
			s.l.Bullet(n)
		}
		s.l.doc.Ln(2)
	}
}

func (s *renderState) affinityTable(caption, entity string, list []report.Affinity) {
	if len(list) == 0 {
		return
	}
	pal := s.theme().Palette

	s.l.Paragraph(caption + ":")
	t := &Table{
		Columns: []Column{
			{Title: "#", Width: 10, Align: "C"},
			{Title: entity, Width: 75},
			{Title: "Signal", Width: 95, Color: &pal.TextMuted},
		},
	}
	for i, a := range list {
		t.Rows = append(t.Rows, []string{
			fmt.Sprintf("%d", i+1),
			format.Clean(a.Name),
			format.Clean(a.Signal),
		})
	}
	t.Render(s.l, nil)
}

func (s *renderState) rivalryScore() {
	th := s.theme()
	pal := th.Palette

	sellers := s.in.Data.TopSellers
	var total int
	for _, e := range sellers {
		total += e.Count
	}

	entries := make([]SeriesEntry, 0, len(sellers))
	for i, e := range sellers {
		entries = append(entries, SeriesEntry{
			Label: e.Label,
			Value: float64(e.Count),
			Color: th.SeriesColor(i),
		})
	}
	s.chartBlock(entries, true)

	t := &Table{
		Columns: []Column{
			{Title: "Rank", Width: 14, Align: "C"},
			{Title: "Rival Seller", Width: 86},
			{Title: "Contracts", Width: 30, Align: "R"},
			{Title: "Market Share", Width: 50, Align: "R", Color: &pal.Secondary, Bold: true},
		},
	}
	for i, e := range sellers {
		share := 0.0
		if total > 0 {
			share = float64(e.Count) / float64(total)
		}
		t.Rows = append(t.Rows, []string{
			fmt.Sprintf("%d", i+1),
			format.Clean(e.Label),
			format.GroupInt(int64(e.Count)),
			format.Percent(share),
		})
	}
	t.Render(s.l, nil)
}

func (s *renderState) lowCompetition() {
	th := s.theme()
	pal := th.Palette

	s.l.Paragraph("Open tenders with few participating bidders:")
	t := &Table{
		Columns: []Column{
			{Title: "Bid Number", Width: 36},
			{Title: "Item", Width: 58},
			{Title: "Organisation", Width: 40},
			{Title: "Bidders", Width: 18, Align: "C", Color: &pal.Warning, Bold: true},
			{Title: "Closes", Width: 28, Align: "C"},
		},
	}
	for _, td := range s.in.Data.LowCompetition {
		t.Rows = append(t.Rows, []string{
			format.Clean(td.BidNumber),
			format.Clean(td.Item),
			format.Clean(td.Organisation),
			fmt.Sprintf("%d", td.Bidders),
			format.Clean(td.EndDate),
		})
	}
	t.Render(s.l, nil)
}

func (s *renderState) categoryAnalysis() {
	th := s.theme()

	cats := s.in.Data.CategoryCounts
	entries := make([]SeriesEntry, 0, len(cats))
	for i, e := range cats {
		entries = append(entries, SeriesEntry{
			Label: e.Label,
			Value: float64(e.Count),
			Color: th.SeriesColor(i),
		})
	}
	s.chartBlock(entries, false)

	t := rankedTable(th, "Category", cats)
	t.Render(s.l, nil)
}

func (s *renderState) statesAnalysis() {
	th := s.theme()

	states := s.in.Data.TopStates
	entries := make([]SeriesEntry, 0, len(states))
	for i, e := range states {
		entries = append(entries, SeriesEntry{
			Label: e.Label,
			Value: float64(e.Count),
			Color: th.SeriesColor(i),
		})
	}

	s.l.EnsureSpace(float64(len(entries))*8 + 6)
	s.l.DrawBarChart(entries, 0, func(e SeriesEntry) string {
		return format.GroupInt(int64(e.Value))
	})

	t := rankedTable(th, "State", states)
	t.Render(s.l, nil)
}

func (s *renderState) departmentsAnalysis() {
	th := s.theme()

	depts := s.in.Data.DepartmentCounts
	entries := make([]SeriesEntry, 0, len(depts))
	for i, e := range depts {
		entries = append(entries, SeriesEntry{
			Label: e.Label,
			Value: float64(e.Count),
			Color: th.SeriesColor(i),
		})
	}

	s.l.EnsureSpace(float64(len(entries))*8 + 6)
	s.l.DrawBarChart(entries, 0, func(e SeriesEntry) string {
		return format.GroupInt(int64(e.Value))
	})

	t := rankedTable(th, "Department", depts)
	t.Render(s.l, nil)
}

func (s *renderState) disclaimer() {
	s.l.Paragraph("This report is generated from publicly available tender data and " +
		"AI-assisted analysis. Figures are indicative and should be verified against " +
		"official portal records before making commercial decisions. Rankings and " +
		"signals reflect historical patterns and do not guarantee future outcomes.")
}

// --- shared helpers ---

// chartBlock reserves vertical space for a pie/donut with its legend
// and advances the cursor past it. A zero-total series draws nothing.
func (s *renderState) chartBlock(entries []SeriesEntry, donut bool) {
	const radius = 22.0
	blockH := 2*radius + 8

	legendH := float64(len(entries))*5.5 + 4
	if legendH > blockH {
		blockH = legendH
	}

	s.l.EnsureSpace(blockH)
	y := s.l.Y()
	cx := s.theme().Margin + radius + 10
	cy := y + radius + 2

	if s.l.DrawPieChart(cx, cy, radius, entries, donut) {
		s.l.SetY(y + blockH)
		s.l.doc.Ln(2)
	}
}

// tenderTable builds the standard bid-record table. withWinner adds
// the winning seller column used by market-wide listings.
func tenderTable(th *Theme, tenders []report.Tender, withWinner bool) *Table {
	pal := th.Palette

	var cols []Column
	if withWinner {
		cols = []Column{
			{Title: "Bid Number", Width: 34},
			{Title: "Item", Width: 48},
			{Title: "Winner", Width: 38},
			{Title: "Qty", Width: 14, Align: "R"},
			{Title: "Contract Value", Width: 28, Align: "R", Color: &pal.Accent, Bold: true},
			{Title: "Closed", Width: 18, Align: "C"},
		}
	} else {
		cols = []Column{
			{Title: "Bid Number", Width: 36},
			{Title: "Item", Width: 56},
			{Title: "Organisation", Width: 40},
			{Title: "Qty", Width: 14, Align: "R"},
			{Title: "Contract Value", Width: 34, Align: "R", Color: &pal.Accent, Bold: true},
		}
	}

	t := &Table{Columns: cols}
	for _, td := range tenders {
		if withWinner {
			t.Rows = append(t.Rows, []string{
				format.Clean(td.BidNumber),
				format.Clean(td.Item),
				format.Clean(td.Winner),
				format.GroupInt(int64(td.Quantity)),
				format.Currency(td.TotalPrice),
				format.Clean(td.EndDate),
			})
		} else {
			t.Rows = append(t.Rows, []string{
				format.Clean(td.BidNumber),
				format.Clean(td.Item),
				format.Clean(td.Organisation),
				format.GroupInt(int64(td.Quantity)),
				format.Currency(td.TotalPrice),
			})
		}
	}
	return t
}

// rankedTable is the two-column rank/count listing shared by the
// distribution sections.
func rankedTable(th *Theme, entity string, list []report.RankedEntry) *Table {
	pal := th.Palette

	t := &Table{
		Columns: []Column{
			{Title: "Rank", Width: 14, Align: "C"},
			{Title: entity, Width: 110},
			{Title: "Tenders", Width: 26, Align: "R"},
			{Title: "Value", Width: 30, Align: "R", Color: &pal.Secondary},
		},
	}
	for i, e := range list {
		val := "-"
		if e.Value > 0 {
			val = format.Currency(e.Value)
		}
		t.Rows = append(t.Rows, []string{
			fmt.Sprintf("%d", i+1),
			format.Clean(e.Label),
			format.GroupInt(int64(e.Count)),
			val,
		})
	}
	return t
}
