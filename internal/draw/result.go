package draw

import "time"

// NoCategory is the category selector that means "draw from every item".
const NoCategory = "(Sem classificação)"

// Item is one name read from the spreadsheet, with its optional category.
type Item struct {
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
}

// Names returns the item names in order.
func Names(items []Item) []string {
	names := make([]string, len(items))
	for i, it := range items {
		names[i] = it.Name
	}
	return names
}

// Kind tags the variant carried by a Result.
type Kind string

const (
	KindPlain       Kind = "plain"
	KindRanked      Kind = "ranked"
	KindGrouped     Kind = "grouped"
	KindCategorized Kind = "categorized"
)

// Result is the outcome of one draw operation. Only the fields of its Kind
// are populated. A Result is never mutated after the engine returns it.
type Result struct {
	Kind      Kind      `json:"kind"`
	Timestamp time.Time `json:"timestamp"`
	Column    string    `json:"column,omitempty"`

	// Items is set for plain, ranked and categorized results. For ranked
	// results, position i holds rank i+1.
	Items []string `json:"items,omitempty"`

	// Prizes may be shorter than Items; ranks past its end are unprized.
	Prizes []string `json:"prizes,omitempty"`

	Groups   [][]string `json:"groups,omitempty"`
	Category string     `json:"category,omitempty"`
}

// PrizeFor returns the prize for a 1-based rank.
func (r *Result) PrizeFor(rank int) (string, bool) {
	if rank < 1 || rank > len(r.Prizes) {
		return "", false
	}
	return r.Prizes[rank-1], true
}

// Quantity is the number of names the result selected.
func (r *Result) Quantity() int {
	if r.Kind == KindGrouped {
		total := 0
		for _, g := range r.Groups {
			total += len(g)
		}
		return total
	}
	return len(r.Items)
}

// GroupSizes returns len of each group, in group order.
func (r *Result) GroupSizes() []int {
	sizes := make([]int, len(r.Groups))
	for i, g := range r.Groups {
		sizes[i] = len(g)
	}
	return sizes
}
