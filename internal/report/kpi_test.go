package report

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleInput(wins, losses int, pricePerWin float64, days int) *ReportInput {
	in := &ReportInput{}
	in.Meta.ParamsUsed = Params{SellerName: "Acme Supplies", Days: days, Limit: 50}
	for i := 0; i < wins; i++ {
		in.Data.MissedButWinnable.RecentWins = append(in.Data.MissedButWinnable.RecentWins, Tender{
			BidNumber:  "GEM/2026/B/100",
			TotalPrice: pricePerWin,
		})
	}
	for i := 0; i < losses; i++ {
		in.Data.MissedButWinnable.MarketWins = append(in.Data.MissedButWinnable.MarketWins, Tender{
			BidNumber: "GEM/2026/B/200",
		})
	}
	in.Normalize()
	return in
}

func TestKPIsDerived(t *testing.T) {
	in := sampleInput(3, 1, 100_000, 30)
	k := in.KPIs()

	assert.Equal(t, 4, k.TotalBids)
	assert.Equal(t, 3, k.Wins)
	assert.Equal(t, 1, k.Losses)
	assert.InDelta(t, 0.75, k.WinRate, 1e-9)
	assert.InDelta(t, 300_000, k.TotalValue, 1e-9)
	assert.InDelta(t, 100_000, k.AvgValue, 1e-9)
	assert.InDelta(t, 4.0/30.0, k.AvgBidsPerDay, 1e-9)
}

func TestWinAndLossRatesSumToOne(t *testing.T) {
	for _, tc := range []struct{ wins, losses int }{{1, 0}, {0, 1}, {7, 3}, {13, 29}} {
		k := sampleInput(tc.wins, tc.losses, 1000, 10).KPIs()
		assert.InDelta(t, 1.0, k.WinRate+k.LossRate, 1e-9, "wins=%d losses=%d", tc.wins, tc.losses)
	}
}

func TestKPIsZeroBids(t *testing.T) {
	k := sampleInput(0, 0, 0, 30).KPIs()

	assert.Equal(t, 0, k.TotalBids)
	assert.Zero(t, k.WinRate)
	assert.Zero(t, k.LossRate)
	assert.Zero(t, k.AvgValue)
	assert.Zero(t, k.TotalValue)
}

func TestKPIsZeroDayWindow(t *testing.T) {
	k := sampleInput(2, 2, 500, 0).KPIs()
	assert.Zero(t, k.AvgBidsPerDay)
}

func TestNormalizeDefaultsEverything(t *testing.T) {
	raw := `{"meta":{"params_used":{"sellerName":"Acme","days":30,"limit":10}},"data":{"missedButWinnable":{"ai":{"likelyWins":[{"bid_number":"B1"}],"guidance":{}}}}}`

	var in ReportInput
	require.NoError(t, json.Unmarshal([]byte(raw), &in))
	in.Normalize()

	assert.NotNil(t, in.Data.TopStates)
	assert.NotNil(t, in.Data.TopSellers)
	assert.NotNil(t, in.Data.CategoryCounts)
	assert.NotNil(t, in.Data.DepartmentCounts)
	assert.NotNil(t, in.Data.LowCompetition)
	assert.NotNil(t, in.Data.MissedButWinnable.RecentWins)
	assert.NotNil(t, in.Data.MissedButWinnable.MarketWins)
	assert.NotNil(t, in.Data.MissedButWinnable.AI.Signals.Organisations)
	assert.NotNil(t, in.Data.MissedButWinnable.AI.Signals.QuantityNotes)
	require.Len(t, in.Data.MissedButWinnable.AI.LikelyWins, 1)
	assert.NotNil(t, in.Data.MissedButWinnable.AI.LikelyWins[0].Evidence)
	require.NotNil(t, in.Data.MissedButWinnable.AI.Guidance)
	assert.NotNil(t, in.Data.MissedButWinnable.AI.Guidance.NextSteps)
}

func TestFilterSelection(t *testing.T) {
	sel := NewFilterSelection([]string{"bidsSummary", "rivalryScore", "bogusSection"})

	assert.True(t, sel.Has(SectionBidsSummary))
	assert.True(t, sel.Has(SectionRivalryScore))
	assert.False(t, sel.Has(SectionMarketOverview))
	assert.Equal(t, []string{"bidsSummary", "rivalryScore"}, sel.Identifiers())
}

func TestRequestValidate(t *testing.T) {
	valid := Request{SellerName: "Acme", Days: 30, Limit: 50}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name string
		mut  func(*Request)
	}{
		{"empty seller", func(r *Request) { r.SellerName = "  " }},
		{"zero days", func(r *Request) { r.Days = 0 }},
		{"too many days", func(r *Request) { r.Days = MaxDays + 1 }},
		{"zero limit", func(r *Request) { r.Limit = 0 }},
		{"limit too high", func(r *Request) { r.Limit = MaxLimit + 1 }},
		{"bad data format", func(r *Request) { r.DataFormat = "pdfx" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valid
			tt.mut(&r)
			assert.ErrorIs(t, r.Validate(), ErrInvalidRequest)
		})
	}
}
