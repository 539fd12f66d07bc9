package report

// Section identifies one includable report block. The identifiers are
// the exact strings the dashboard sends in its filter list.
type Section string

const (
	SectionBidsSummary         Section = "bidsSummary"
	SectionMarketOverview      Section = "marketOverview"
	SectionTopPerformer        Section = "topPerformer"
	SectionMissedTenders       Section = "missedTenders"
	SectionBuyerInsights       Section = "buyerInsights"
	SectionRivalryScore        Section = "rivalryScore"
	SectionLowCompetition      Section = "lowCompetition"
	SectionCategoryAnalysis    Section = "categoryAnalysis"
	SectionStatesAnalysis      Section = "statesAnalysis"
	SectionDepartmentsAnalysis Section = "departmentsAnalysis"
)

// AllSections lists every filterable section in canonical report order.
var AllSections = []Section{
	SectionBidsSummary,
	SectionMarketOverview,
	SectionTopPerformer,
	SectionMissedTenders,
	SectionBuyerInsights,
	SectionRivalryScore,
	SectionLowCompetition,
	SectionCategoryAnalysis,
	SectionStatesAnalysis,
	SectionDepartmentsAnalysis,
}

// FilterSelection is the set of sections the caller asked for.
// A section absent from the set is suppressed even when its backing
// data is present. Unconditional blocks (cover, KPI summary, strategic
// overview, disclaimer) ignore the selection entirely.
type FilterSelection map[Section]bool

// NewFilterSelection builds a selection from the raw identifier list,
// dropping identifiers outside the known enumeration.
func NewFilterSelection(ids []string) FilterSelection {
	valid := make(map[Section]bool, len(AllSections))
	for _, s := range AllSections {
		valid[s] = true
	}

	sel := make(FilterSelection, len(ids))
	for _, id := range ids {
		if s := Section(id); valid[s] {
			sel[s] = true
		}
	}
	return sel
}

// Has reports whether the section was requested.
func (f FilterSelection) Has(s Section) bool {
	return f[s]
}

// Identifiers returns the selected identifiers in canonical order,
// for persistence and logging.
func (f FilterSelection) Identifiers() []string {
	ids := make([]string, 0, len(f))
	for _, s := range AllSections {
		if f[s] {
			ids = append(ids, string(s))
		}
	}
	return ids
}
