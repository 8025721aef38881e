package feed

import (
	"cmp"
	"slices"
	"time"

	"github.com/Abdurahmanit/GroupProject/domain-market/internal/listing/domain"
)

// Sort orders listings promoted-first, then by key within each group, then by ID.
func Sort(items []*domain.Listing, key SortKey) {
	key = ParseSortKey(string(key))
	slices.SortFunc(items, func(a, b *domain.Listing) int {
		if a.IsPromoted != b.IsPromoted {
			if a.IsPromoted {
				return -1
			}
			return 1
		}
		if c := compareBy(key, a, b); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}

func compareBy(key SortKey, a, b *domain.Listing) int {
	switch key {
	case SortOldest:
		return cmp.Compare(createdKey(a), createdKey(b))
	case SortPriceLow:
		return cmp.Compare(a.Price, b.Price)
	case SortPriceHigh:
		return cmp.Compare(b.Price, a.Price)
	case SortOffersLow:
		return cmp.Compare(a.Offers, b.Offers)
	case SortOffersHigh:
		return cmp.Compare(b.Offers, a.Offers)
	case SortPopular:
		return cmp.Compare(b.Popularity(), a.Popularity())
	default:
		return cmp.Compare(createdKey(b), createdKey(a))
	}
}

// createdKey treats a missing creation time as the Unix epoch.
func createdKey(l *domain.Listing) int64 {
	if l.CreatedAt.IsZero() {
		return time.Unix(0, 0).UnixMilli()
	}
	return l.CreatedAt.UnixMilli()
}
