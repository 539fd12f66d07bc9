package report

// KPI holds the headline metrics for the summary cards. They are
// always recomputed from the win lists; any aggregate the upstream
// service precomputed is ignored.
type KPI struct {
	TotalBids     int
	Wins          int
	Losses        int
	WinRate       float64 // 0..1
	LossRate      float64 // 0..1
	TotalValue    float64
	AvgValue      float64
	AvgBidsPerDay float64
}

// KPIs derives the summary metrics. All divisions are guarded, so a
// payload with no wins or a zero day-window yields zeros instead of
// NaN.
func (in *ReportInput) KPIs() KPI {
	mb := in.Data.MissedButWinnable

	k := KPI{
		Wins:      len(mb.RecentWins),
		Losses:    len(mb.MarketWins),
		TotalBids: len(mb.RecentWins) + len(mb.MarketWins),
	}

	for _, w := range mb.RecentWins {
		k.TotalValue += w.TotalPrice
	}

	if k.TotalBids > 0 {
		k.WinRate = float64(k.Wins) / float64(k.TotalBids)
		k.LossRate = 1 - k.WinRate
	}
	if k.Wins > 0 {
		k.AvgValue = k.TotalValue / float64(k.Wins)
	}
	if days := in.Meta.ParamsUsed.Days; days > 0 {
		k.AvgBidsPerDay = float64(k.TotalBids) / float64(days)
	}

	return k
}
