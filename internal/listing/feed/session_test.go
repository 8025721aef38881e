package feed

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSessionResetsOnCriteriaChange(t *testing.T) {
	changes := map[string]func(*Criteria){
		"category":    func(c *Criteria) { c.Category = "Finance" },
		"tld":         func(c *Criteria) { c.TLD = "io" },
		"search":      func(c *Criteria) { c.SearchText = "shop" },
		"sort":        func(c *Criteria) { c.Sort = SortPopular },
		"website":     func(c *Criteria) { c.Advanced.HasWebsite = true },
		"logo":        func(c *Criteria) { c.Advanced.HasLogo = true },
		"social":      func(c *Criteria) { c.Advanced.HasSocialMedia = true },
		"assets":      func(c *Criteria) { c.Advanced.HasBusinessAssets = true },
		"variants":    func(c *Criteria) { c.Advanced.HasVariants = true },
		"restricted":  func(c *Criteria) { c.ShowRestricted = true },
		"saved only":  func(c *Criteria) { c.SavedOnly = true },
		"groups only": func(c *Criteria) { c.GroupsOnly = true },
	}
	for name, change := range changes {
		t.Run(name, func(t *testing.T) {
			s := NewSession("s1", DefaultCriteria())
			assert.True(t, s.Reveal(1))
			assert.True(t, s.Reveal(2))
			assert.Equal(t, 3, s.RevealCount)

			c := DefaultCriteria()
			change(&c)
			assert.True(t, s.SetCriteria(c))
			assert.Equal(t, 1, s.RevealCount)
		})
	}
}

func TestSessionKeepsWindowForEquivalentCriteria(t *testing.T) {
	s := NewSession("s1", DefaultCriteria())
	s.Reveal(1)

	assert.False(t, s.SetCriteria(Criteria{}), "empty selectors normalize to the defaults")
	assert.False(t, s.SetCriteria(Criteria{Category: All, TLD: All, Sort: "NEWEST"}))
	assert.Equal(t, 2, s.RevealCount)
}

func TestSessionRevealIsIdempotentPerPage(t *testing.T) {
	s := NewSession("s1", DefaultCriteria())

	assert.True(t, s.Reveal(1))
	assert.False(t, s.Reveal(1), "second trigger for page 1 must not skip a page")
	assert.Equal(t, 2, s.RevealCount)

	assert.False(t, s.Reveal(5))
	assert.Equal(t, 2, s.RevealCount)
	assert.True(t, s.Reveal(2))
	assert.Equal(t, 3, s.RevealCount)
}

func TestSessionClampsCorruptRevealCount(t *testing.T) {
	s := &Session{ID: "s", Criteria: DefaultCriteria(), RevealCount: 0}
	p := s.Params(nil, 4)
	assert.Equal(t, 1, p.RevealCount)
	assert.Equal(t, 100, p.PageSize)

	assert.True(t, s.Reveal(1))
	assert.Equal(t, 2, s.RevealCount)
}

func TestParseSortKey(t *testing.T) {
	assert.Equal(t, SortPriceHigh, ParseSortKey(" Price-High "))
	assert.Equal(t, SortNewest, ParseSortKey(""))
	assert.Equal(t, SortNewest, ParseSortKey("cheapest"))
}
