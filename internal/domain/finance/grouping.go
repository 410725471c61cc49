package finance

// Grouping selects how per-file lines are arranged for presentation.
// Grouping never changes the underlying per-file numbers or the grand
// totals, only sub-totaling.
type Grouping string

const (
	GroupingFlat   Grouping = "flat"
	GroupingByTier Grouping = "by-tier"
)

// TierGroup is one price tier's sub-table in the by-tier view.
type TierGroup struct {
	Lines    []FileBreakdown
	Subtotal Totals

	// ShowSubtotal is true only when the tier contains more than one file;
	// single-file tiers render without a Total row.
	ShowSubtotal bool
}

// GroupByTier arranges per-file lines into sub-tables of files sharing an
// identical price. Unpriced files group together at price zero. Tier order
// follows first appearance in the per-file order.
func GroupByTier(perFile []FileBreakdown) []TierGroup {
	var groups []TierGroup
	index := make(map[string]int)

	for _, line := range perFile {
		key := line.Price.String()
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, TierGroup{})
		}
		groups[i].Lines = append(groups[i].Lines, line)
		groups[i].Subtotal.Add(line)
	}

	for i := range groups {
		groups[i].ShowSubtotal = len(groups[i].Lines) > 1
	}
	return groups
}
