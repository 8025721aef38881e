package feed

// Session is the per-viewer page window. It carries no listings, only the
// criteria in effect and how many pages have been revealed.
type Session struct {
	ID          string   `json:"id"`
	Criteria    Criteria `json:"criteria"`
	RevealCount int      `json:"reveal_count"`
}

func NewSession(id string, c Criteria) *Session {
	return &Session{ID: id, Criteria: c.Normalize(), RevealCount: 1}
}

// SetCriteria installs c and resets the window to one page if it differs from
// the criteria in effect. It reports whether a reset happened.
func (s *Session) SetCriteria(c Criteria) bool {
	c = c.Normalize()
	if c == s.Criteria {
		s.RevealCount = atLeastOne(s.RevealCount)
		return false
	}
	s.Criteria = c
	s.RevealCount = 1
	return true
}

// Reveal advances the window by one page, but only when seen matches the
// current reveal count. A repeated trigger for a page that was already
// advanced past is a no-op.
func (s *Session) Reveal(seen int) bool {
	s.RevealCount = atLeastOne(s.RevealCount)
	if seen != s.RevealCount {
		return false
	}
	s.RevealCount++
	return true
}

// Params builds engine parameters for the session's current window.
func (s *Session) Params(saved SavedSet, columns int) Params {
	return Params{
		Criteria:    s.Criteria,
		Saved:       saved,
		PageSize:    PageSizeFor(columns),
		RevealCount: atLeastOne(s.RevealCount),
	}
}
