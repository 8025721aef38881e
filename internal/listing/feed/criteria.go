// Package feed derives the visible, ordered and paged slice of a listing
// collection. It performs no I/O: callers supply the listings, the saved-id
// overlay and the grid column count.
package feed

import "strings"

// All disables the category or TLD filter.
const All = "all"

type SortKey string

const (
	SortNewest     SortKey = "newest"
	SortOldest     SortKey = "oldest"
	SortPriceLow   SortKey = "price-low"
	SortPriceHigh  SortKey = "price-high"
	SortOffersLow  SortKey = "offers-low"
	SortOffersHigh SortKey = "offers-high"
	SortPopular    SortKey = "popular"
)

// ParseSortKey maps unknown or empty keys to SortNewest.
func ParseSortKey(s string) SortKey {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case SortNewest, SortOldest, SortPriceLow, SortPriceHigh, SortOffersLow, SortOffersHigh, SortPopular:
		return k
	}
	return SortNewest
}

// AdvancedFilters are opt-in predicates; a false field is not applied.
type AdvancedFilters struct {
	HasWebsite        bool `json:"has_website,omitempty"`
	HasLogo           bool `json:"has_logo,omitempty"`
	HasSocialMedia    bool `json:"has_social_media,omitempty"`
	HasBusinessAssets bool `json:"has_business_assets,omitempty"`
	HasVariants       bool `json:"has_variants,omitempty"`
}

// Criteria is everything that selects and orders the feed. Two Criteria are
// the same view when they compare equal with ==.
type Criteria struct {
	SearchText     string          `json:"search_text,omitempty"`
	Category       string          `json:"category"`
	TLD            string          `json:"tld"`
	ShowRestricted bool            `json:"show_restricted,omitempty"`
	Sort           SortKey         `json:"sort"`
	Advanced       AdvancedFilters `json:"advanced"`
	SavedOnly      bool            `json:"saved_only,omitempty"`
	GroupsOnly     bool            `json:"groups_only,omitempty"`
}

func DefaultCriteria() Criteria {
	return Criteria{Category: All, TLD: All, Sort: SortNewest}
}

// Normalize fills empty selectors with All and canonicalizes the sort key.
func (c Criteria) Normalize() Criteria {
	if c.Category == "" {
		c.Category = All
	}
	c.TLD = strings.TrimPrefix(c.TLD, ".")
	if c.TLD == "" {
		c.TLD = All
	}
	c.Sort = ParseSortKey(string(c.Sort))
	return c
}

// SavedSet is the caller's favorited listing ids.
type SavedSet map[string]struct{}

func NewSavedSet(ids ...string) SavedSet {
	s := make(SavedSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s SavedSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}
