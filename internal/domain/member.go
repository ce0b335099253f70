package domain

// Member is a validated roster entry.
type Member struct {
	ID                 MemberID  `json:"id"`
	Name               string    `json:"name"`
	PrimaryArchetype   Archetype `json:"primaryArchetype"`
	SecondaryArchetype Archetype `json:"secondaryArchetype,omitempty"`
	Years              int       `json:"years"`
	Level              Level     `json:"level"`
}

// HasArchetype reports whether a fills the primary or secondary slot.
func (m Member) HasArchetype(a Archetype) bool {
	return m.PrimaryArchetype == a || (m.SecondaryArchetype != "" && m.SecondaryArchetype == a)
}

// Candidate is unvalidated member input from a form, an import row or an API body.
// Years is a pointer so "missing" can be told apart from zero; it is a float so
// fractional and non-finite values can be reported instead of silently truncated.
type Candidate struct {
	ID                 MemberID  `json:"id,omitempty"`
	Name               string    `json:"name"`
	PrimaryArchetype   Archetype `json:"primaryArchetype"`
	SecondaryArchetype Archetype `json:"secondaryArchetype,omitempty"`
	Years              *float64  `json:"years"`
	Level              Level     `json:"level"`
}

// CandidateFromMember is the inverse of NewMember, used when re-validating a merged update.
func CandidateFromMember(m Member) Candidate {
	y := float64(m.Years)
	return Candidate{
		ID:                 m.ID,
		Name:               m.Name,
		PrimaryArchetype:   m.PrimaryArchetype,
		SecondaryArchetype: m.SecondaryArchetype,
		Years:              &y,
		Level:              m.Level,
	}
}

func YearsPtr(y float64) *float64 { return &y }
