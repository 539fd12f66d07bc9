package report

import "time"

// ReportInput is the analytics payload the upstream service returns
// for one report request. Every list is optional on the wire;
// Normalize fills the nils so the layout engine never branches on
// missing slices.
type ReportInput struct {
	Meta Meta `json:"meta"`
	Data Data `json:"data"`
}

// Meta records when the payload was produced and with which request
// parameters.
type Meta struct {
	GeneratedAt time.Time `json:"generated_at"`
	ParamsUsed  Params    `json:"params_used"`
}

// Params are the report request parameters, echoed back by the
// analytics service and stamped on the cover page.
type Params struct {
	SellerName  string `json:"sellerName"`
	Department  string `json:"department"`
	OfferedItem string `json:"offeredItem"`
	Days        int    `json:"days"`
	Limit       int    `json:"limit"`
	Email       string `json:"email,omitempty"`
}

// Data is the bag of analytic facets. Only MissedButWinnable is
// guaranteed by the upstream contract; everything else may be absent.
type Data struct {
	PriceBand         *PriceBand        `json:"priceBand,omitempty"`
	TopStates         []RankedEntry     `json:"topStates"`
	TopSellers        []RankedEntry     `json:"topSellers"`
	CategoryCounts    []RankedEntry     `json:"categoryCounts"`
	DepartmentCounts  []RankedEntry     `json:"departmentCounts"`
	LowCompetition    []Tender          `json:"lowCompetition"`
	MissedButWinnable MissedButWinnable `json:"missedButWinnable"`
}

// PriceBand summarizes the winning-price spread for the offered item.
type PriceBand struct {
	High    float64 `json:"high"`
	Low     float64 `json:"low"`
	Average float64 `json:"average"`
}

// RankedEntry is one row of a ranked list (top states, top sellers,
// category counts, department counts).
type RankedEntry struct {
	Label string  `json:"label"`
	Count int     `json:"count"`
	Value float64 `json:"value,omitempty"`
}

// Tender is a single bid record as published on the portal.
type Tender struct {
	BidNumber    string  `json:"bid_number"`
	Item         string  `json:"item"`
	Organisation string  `json:"organisation"`
	Department   string  `json:"department"`
	State        string  `json:"state"`
	Quantity     int     `json:"quantity"`
	TotalPrice   float64 `json:"total_price"`
	Bidders      int     `json:"bidders"`
	EndDate      string  `json:"end_date"`
	Winner       string  `json:"winner,omitempty"`
}

// MissedButWinnable carries the seller's own recent wins, the
// market-wide comparison set and the AI narrative. All derived KPIs
// are recomputed from the two win lists; precomputed aggregates from
// upstream are never trusted.
type MissedButWinnable struct {
	RecentWins []Tender   `json:"recentWins"`
	MarketWins []Tender   `json:"marketWins"`
	AI         AIInsights `json:"ai"`
}

// AIInsights is the narrative block produced by the upstream model.
type AIInsights struct {
	StrategySummary string        `json:"strategySummary"`
	LikelyWins      []Opportunity `json:"likelyWins"`
	Signals         Signals       `json:"signals"`
	Guidance        *Guidance     `json:"guidance,omitempty"`
}

// Opportunity is one ranked "likely win" with its supporting evidence.
type Opportunity struct {
	BidNumber string     `json:"bid_number"`
	Item      string     `json:"item"`
	Reason    string     `json:"reason"`
	Evidence  []Evidence `json:"evidence"`
}

// Evidence is a historical record backing an opportunity ranking.
type Evidence struct {
	BidNumber string  `json:"bid_number"`
	Buyer     string  `json:"buyer"`
	Price     float64 `json:"price"`
	Note      string  `json:"note"`
}

// Signals are ranked affinity lists plus free-text observations.
type Signals struct {
	Organisations []Affinity `json:"organisations"`
	Departments   []Affinity `json:"departments"`
	Ministries    []Affinity `json:"ministries"`
	QuantityNotes []string   `json:"quantityNotes"`
	PriceNotes    []string   `json:"priceNotes"`
}

// Affinity pairs an entity with a short engagement signal.
type Affinity struct {
	Name   string `json:"name"`
	Signal string `json:"signal"`
}

// Guidance is the optional next-steps block.
type Guidance struct {
	NextSteps      []string `json:"nextSteps"`
	ExpansionAreas []string `json:"expansionAreas"`
}

// Normalize replaces every nil slice with an empty one so downstream
// code can range and len() without nil checks. Called once after
// decoding the upstream response.
func (in *ReportInput) Normalize() {
	d := &in.Data
	if d.TopStates == nil {
		d.TopStates = []RankedEntry{}
	}
	if d.TopSellers == nil {
		d.TopSellers = []RankedEntry{}
	}
	if d.CategoryCounts == nil {
		d.CategoryCounts = []RankedEntry{}
	}
	if d.DepartmentCounts == nil {
		d.DepartmentCounts = []RankedEntry{}
	}
	if d.LowCompetition == nil {
		d.LowCompetition = []Tender{}
	}

	mb := &d.MissedButWinnable
	if mb.RecentWins == nil {
		mb.RecentWins = []Tender{}
	}
	if mb.MarketWins == nil {
		mb.MarketWins = []Tender{}
	}
	if mb.AI.LikelyWins == nil {
		mb.AI.LikelyWins = []Opportunity{}
	}
	for i := range mb.AI.LikelyWins {
		if mb.AI.LikelyWins[i].Evidence == nil {
			mb.AI.LikelyWins[i].Evidence = []Evidence{}
		}
	}

	sig := &mb.AI.Signals
	if sig.Organisations == nil {
		sig.Organisations = []Affinity{}
	}
	if sig.Departments == nil {
		sig.Departments = []Affinity{}
	}
	if sig.Ministries == nil {
		sig.Ministries = []Affinity{}
	}
	if sig.QuantityNotes == nil {
		sig.QuantityNotes = []string{}
	}
	if sig.PriceNotes == nil {
		sig.PriceNotes = []string{}
	}

	if g := mb.AI.Guidance; g != nil {
		if g.NextSteps == nil {
			g.NextSteps = []string{}
		}
		if g.ExpansionAreas == nil {
			g.ExpansionAreas = []string{}
		}
	}
}
