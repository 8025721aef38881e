package feed

import (
	"strings"

	"github.com/Abdurahmanit/GroupProject/domain-market/internal/listing/domain"
)

type matcher struct {
	c      Criteria
	search string
	saved  SavedSet
}

func newMatcher(c Criteria, saved SavedSet) matcher {
	return matcher{c: c, search: strings.ToLower(c.SearchText), saved: saved}
}

// Match reports whether l passes every active predicate of c.
func Match(l *domain.Listing, c Criteria, saved SavedSet) bool {
	return newMatcher(c.Normalize(), saved).match(l)
}

func (m matcher) match(l *domain.Listing) bool {
	if m.search != "" && !strings.Contains(strings.ToLower(l.Domain), m.search) {
		return false
	}
	if m.c.Category != All && l.Category != m.c.Category {
		return false
	}
	if m.c.TLD != All && l.EffectiveTLD() != m.c.TLD {
		return false
	}
	if !m.c.ShowRestricted && l.ContentType != domain.ContentGeneral {
		return false
	}
	if !m.advanced(l) {
		return false
	}
	if m.c.SavedOnly && !m.saved.Has(l.ID) {
		return false
	}
	if m.c.GroupsOnly && !l.InGroup() {
		return false
	}
	return true
}

func (m matcher) advanced(l *domain.Listing) bool {
	a := m.c.Advanced
	switch {
	case a.HasWebsite && !l.HasWebsite:
		return false
	case a.HasLogo && !l.HasLogo:
		return false
	case a.HasSocialMedia && !l.HasSocialAccounts:
		return false
	case a.HasBusinessAssets && !l.HasBusinessAssets:
		return false
	case a.HasVariants && !l.HasVariants():
		return false
	}
	return true
}
