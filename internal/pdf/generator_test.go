package pdf

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tender-reporter/internal/report"
)

func fullInput() *report.ReportInput {
	in := &report.ReportInput{}
	in.Meta.GeneratedAt = testTime()
	in.Meta.ParamsUsed = report.Params{
		SellerName:  "Acme Supplies Pvt Ltd",
		Department:  "Ministry of Defence",
		OfferedItem: "Office Chairs",
		Days:        30,
		Limit:       50,
	}

	mb := &in.Data.MissedButWinnable
	mb.RecentWins = []report.Tender{
		{BidNumber: "GEM/2026/B/001", Item: "Office Chairs", Organisation: "Northern Command", Quantity: 120, TotalPrice: 100_000},
		{BidNumber: "GEM/2026/B/002", Item: "Office Chairs", Organisation: "Air HQ", Quantity: 80, TotalPrice: 100_000},
		{BidNumber: "GEM/2026/B/003", Item: "Office Desks", Organisation: "Naval Dockyard", Quantity: 40, TotalPrice: 100_000},
	}
	mb.MarketWins = []report.Tender{
		{BidNumber: "GEM/2026/B/004", Item: "Office Chairs", Winner: "Rival Traders", Quantity: 200, TotalPrice: 450_000},
	}
	mb.AI = report.AIInsights{
		StrategySummary: "Focus on defence organisations in the northern region.",
		LikelyWins: []report.Opportunity{
			{
				BidNumber: "GEM/2026/B/010",
				Item:      "Ergonomic Chairs",
				Reason:    "Buyer previously awarded at your price point.",
				Evidence: []report.Evidence{
					{BidNumber: "GEM/2025/B/900", Buyer: "Northern Command", Price: 95_000, Note: "repeat buyer"},
				},
			},
		},
		Signals: report.Signals{
			Organisations: []report.Affinity{{Name: "Northern Command", Signal: "3 awards in 90 days"}},
			QuantityNotes: []string{"Orders cluster between 50 and 150 units."},
		},
	}

	in.Data.PriceBand = &report.PriceBand{Low: 80_000, Average: 120_000, High: 450_000}
	in.Data.TopSellers = []report.RankedEntry{
		{Label: "Rival Traders", Count: 9},
		{Label: "Acme Supplies Pvt Ltd", Count: 3},
	}
	in.Data.TopStates = []report.RankedEntry{{Label: "Maharashtra", Count: 12}, {Label: "Delhi", Count: 7}}
	in.Data.CategoryCounts = []report.RankedEntry{{Label: "Furniture", Count: 15}}
	in.Data.DepartmentCounts = []report.RankedEntry{{Label: "Defence", Count: 11}}
	in.Data.LowCompetition = []report.Tender{
		{BidNumber: "GEM/2026/B/020", Item: "Office Chairs", Organisation: "District Court", Bidders: 2, EndDate: "12 Sep 2026"},
	}
	return in
}

func generateUncompressed(t *testing.T, in *report.ReportInput, sel report.FilterSelection) (*Document, []byte) {
	t.Helper()
	g := NewGenerator(nil)
	g.compress = false

	doc, err := g.Generate(in, sel)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, doc.Output(&buf))
	return doc, buf.Bytes()
}

func TestGenerateBidsSummaryOnly(t *testing.T) {
	in := fullInput()
	sel := report.NewFilterSelection([]string{"bidsSummary"})

	doc, out := generateUncompressed(t, in, sel)

	// Derived KPI values, recomputed from the win lists.
	assert.Contains(t, doc.Sections, "Performance Summary")
	assert.True(t, bytes.Contains(out, []byte("Win Rate")))
	assert.True(t, bytes.Contains(out, []byte("75.0%")))
	assert.True(t, bytes.Contains(out, []byte("Total Bids")))
	assert.True(t, bytes.Contains(out, []byte("Successful Wins")))
	assert.True(t, bytes.Contains(out, []byte("Rs 3.00 L")))

	assert.Contains(t, doc.Sections, "Bids Summary")

	// Unselected sections are absent even though their data exists.
	assert.NotContains(t, doc.Sections, "Rivalry Scorecard")
	assert.False(t, bytes.Contains(out, []byte("Rivalry Scorecard")))
	assert.NotContains(t, doc.Sections, "States Analysis")
}

func TestGenerateUnconditionalSections(t *testing.T) {
	in := fullInput()
	doc, out := generateUncompressed(t, in, report.NewFilterSelection(nil))

	assert.Equal(t, []string{"Performance Summary", "AI Strategic Overview", "Disclaimer"}, doc.Sections)
	assert.True(t, bytes.Contains(out, []byte("Tender Analysis Report")))
	assert.True(t, bytes.Contains(out, []byte("Acme Supplies Pvt Ltd")))
	assert.True(t, bytes.Contains(out, []byte("northern region")))
	assert.GreaterOrEqual(t, doc.PageCount(), 2)
}

func TestGenerateAllSections(t *testing.T) {
	in := fullInput()
	ids := make([]string, len(report.AllSections))
	for i, s := range report.AllSections {
		ids[i] = string(s)
	}

	doc, out := generateUncompressed(t, in, report.NewFilterSelection(ids))

	for _, title := range []string{
		"Bids Summary", "Market Overview", "Top Performers",
		"Missed But Winnable Tenders", "Buyer Insights", "Rivalry Scorecard",
		"Low Competition Opportunities", "Category Analysis",
		"States Analysis", "Departments Analysis",
	} {
		assert.Contains(t, doc.Sections, title)
	}
	assert.True(t, bytes.Contains(out, []byte("Rs 4.50 L")), "market winner value formatted")
	assert.True(t, bytes.Contains(out, []byte("Northern Command")))
}

func TestGenerateEmptyModeBehavior(t *testing.T) {
	in := fullInput()
	in.Data.TopStates = nil      // EmptyMessage section
	in.Data.TopSellers = nil     // EmptySkip sections (topPerformer, rivalryScore)
	in.Data.LowCompetition = nil // EmptySkip

	ids := []string{"statesAnalysis", "topPerformer", "rivalryScore", "lowCompetition"}
	doc, out := generateUncompressed(t, in, report.NewFilterSelection(ids))

	// Message-mode section renders a header plus fallback line.
	assert.Contains(t, doc.Sections, "States Analysis")
	assert.True(t, bytes.Contains(out, []byte("No state-wise distribution data available.")))

	// Skip-mode sections vanish entirely.
	assert.NotContains(t, doc.Sections, "Top Performers")
	assert.NotContains(t, doc.Sections, "Rivalry Scorecard")
	assert.NotContains(t, doc.Sections, "Low Competition Opportunities")
	assert.False(t, bytes.Contains(out, []byte("Rivalry Scorecard")))
}

func TestGenerateZeroBids(t *testing.T) {
	in := fullInput()
	in.Data.MissedButWinnable.RecentWins = nil
	in.Data.MissedButWinnable.MarketWins = nil

	doc, out := generateUncompressed(t, in, report.NewFilterSelection([]string{"bidsSummary"}))

	assert.Contains(t, doc.Sections, "Bids Summary")
	assert.True(t, bytes.Contains(out, []byte("No bid activity was recorded in the selected period.")))
	assert.True(t, bytes.Contains(out, []byte("0.0%")))
}

func TestGenerateNilInput(t *testing.T) {
	g := NewGenerator(nil)
	_, err := g.Generate(nil, report.NewFilterSelection(nil))
	assert.Error(t, err)
}

func TestGeneratorConcurrentUse(t *testing.T) {
	g := NewGenerator(nil)
	done := make(chan error, 4)

	for i := 0; i < 4; i++ {
		go func() {
			_, err := g.Generate(fullInput(), report.NewFilterSelection([]string{"bidsSummary"}))
			done <- err
		}()
	}
	for i := 0; i < 4; i++ {
		assert.NoError(t, <-done)
	}
}
