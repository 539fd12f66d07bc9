package export

import (
	"fmt"
	"io"
	"time"

	"tender-reporter/internal/report"
)

// ExportResult summarizes one dataset export for job stats and the
// notification email.
type ExportResult struct {
	Datasets      int
	RowsProcessed int
	Duration      time.Duration
}

// NewEncoder picks the encoder for a requested format. The format
// strings match report.Request.DataFormat.
func NewEncoder(formatName string, w io.Writer) (DatasetEncoder, error) {
	switch formatName {
	case "csv":
		return NewCSVEncoder(w), nil
	case "json":
		return NewJSONEncoder(w), nil
	case "excel":
		return NewExcelEncoder(w), nil
	default:
		return nil, fmt.Errorf("unsupported export format %q", formatName)
	}
}

// Extension maps a format to its file extension.
func Extension(formatName string) string {
	if formatName == "excel" {
		return "xlsx"
	}
	return formatName
}

// Write streams every non-empty facet of the payload through the
// encoder as a named dataset. The caller closes the encoder.
func Write(in *report.ReportInput, enc DatasetEncoder) (*ExportResult, error) {
	start := time.Now()
	res := &ExportResult{}

	writeTenders := func(name string, tenders []report.Tender) error {
		if len(tenders) == 0 {
			return nil
		}
		cols := []string{"bid_number", "item", "organisation", "department", "state", "quantity", "total_price", "bidders", "end_date", "winner"}
		if err := enc.StartDataset(name, cols); err != nil {
			return err
		}
		res.Datasets++
		for _, t := range tenders {
			err := enc.WriteRow([]interface{}{
				t.BidNumber, t.Item, t.Organisation, t.Department, t.State,
				t.Quantity, t.TotalPrice, t.Bidders, t.EndDate, t.Winner,
			})
			if err != nil {
				return err
			}
			res.RowsProcessed++
		}
		return nil
	}

	writeRanked := func(name string, list []report.RankedEntry) error {
		if len(list) == 0 {
			return nil
		}
		if err := enc.StartDataset(name, []string{"rank", "label", "count", "value"}); err != nil {
			return err
		}
		res.Datasets++
		for i, e := range list {
			if err := enc.WriteRow([]interface{}{i + 1, e.Label, e.Count, e.Value}); err != nil {
				return err
			}
			res.RowsProcessed++
		}
		return nil
	}

	mb := in.Data.MissedButWinnable
	steps := []func() error{
		func() error { return writeTenders("recent_wins", mb.RecentWins) },
		func() error { return writeTenders("market_wins", mb.MarketWins) },
		func() error { return writeTenders("low_competition", in.Data.LowCompetition) },
		func() error { return writeRanked("top_states", in.Data.TopStates) },
		func() error { return writeRanked("top_sellers", in.Data.TopSellers) },
		func() error { return writeRanked("category_counts", in.Data.CategoryCounts) },
		func() error { return writeRanked("department_counts", in.Data.DepartmentCounts) },
		func() error { return writeLikelyWins(in, enc, res) },
	}

	for _, step := range steps {
		if err := step(); err != nil {
			return nil, fmt.Errorf("dataset export failed: %w", err)
		}
	}
	if err := enc.Error(); err != nil {
		return nil, fmt.Errorf("dataset export failed: %w", err)
	}

	res.Duration = time.Since(start)
	return res, nil
}

func writeLikelyWins(in *report.ReportInput, enc DatasetEncoder, res *ExportResult) error {
	wins := in.Data.MissedButWinnable.AI.LikelyWins
	if len(wins) == 0 {
		return nil
	}

	if err := enc.StartDataset("likely_wins", []string{"rank", "bid_number", "item", "reason", "evidence_count"}); err != nil {
		return err
	}
	res.Datasets++
	for i, o := range wins {
		if err := enc.WriteRow([]interface{}{i + 1, o.BidNumber, o.Item, o.Reason, len(o.Evidence)}); err != nil {
			return err
		}
		res.RowsProcessed++
	}
	return nil
}
