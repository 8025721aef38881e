package feed

import "github.com/Abdurahmanit/GroupProject/domain-market/internal/listing/domain"

// Params is one evaluation of the feed.
type Params struct {
	Criteria
	Saved       SavedSet
	PageSize    int
	RevealCount int
}

type Result struct {
	Items       []domain.Listing
	Total       int
	PageSize    int
	RevealCount int
	HasMore     bool
}

// Apply filters, orders and pages source. source is never modified; Items
// holds copies of the visible listings.
func Apply(source []domain.Listing, p Params) Result {
	c := p.Criteria.Normalize()
	pageSize := atLeastOne(p.PageSize)
	reveal := atLeastOne(p.RevealCount)

	m := newMatcher(c, p.Saved)
	candidates := make([]*domain.Listing, 0, len(source))
	for i := range source {
		if m.match(&source[i]) {
			candidates = append(candidates, &source[i])
		}
	}
	Sort(candidates, c.Sort)

	n := window(len(candidates), pageSize, reveal)
	items := make([]domain.Listing, n)
	for i := 0; i < n; i++ {
		items[i] = *candidates[i]
	}
	return Result{
		Items:       items,
		Total:       len(candidates),
		PageSize:    pageSize,
		RevealCount: reveal,
		HasMore:     n < len(candidates),
	}
}
