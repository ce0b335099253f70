package domain

import "strings"

// Archetype is a member's working style. The Korean label is the stored and exported value.
type Archetype string

const (
	ArchetypeProblemSolving Archetype = "문제 해결형"
	ArchetypeArchitecture   Archetype = "설계/아키텍처형"
	ArchetypeResearch       Archetype = "연구/개선형"
	ArchetypeOperations     Archetype = "현장/운영형"
	ArchetypeMentorship     Archetype = "리더/멘토형"
)

var ValidArchetypes = []Archetype{
	ArchetypeProblemSolving,
	ArchetypeArchitecture,
	ArchetypeResearch,
	ArchetypeOperations,
	ArchetypeMentorship,
}

var archetypeSlugs = map[Archetype]string{
	ArchetypeProblemSolving: "problem-solving",
	ArchetypeArchitecture:   "architecture",
	ArchetypeResearch:       "research",
	ArchetypeOperations:     "operations",
	ArchetypeMentorship:     "mentorship",
}

func (a Archetype) Valid() bool {
	_, ok := archetypeSlugs[a]
	return ok
}

// Slug is the ASCII form used in URLs and CLI flags.
func (a Archetype) Slug() string { return archetypeSlugs[a] }

// ParseArchetype accepts either the stored label or its slug.
func ParseArchetype(s string) (Archetype, error) {
	s = strings.TrimSpace(s)
	if a := Archetype(s); a.Valid() {
		return a, nil
	}
	for a, slug := range archetypeSlugs {
		if strings.EqualFold(slug, s) {
			return a, nil
		}
	}
	return "", NewValidationError(msgInvalidArchetype)
}

// ArchetypeMatch selects which archetype slot a filter looks at.
type ArchetypeMatch string

const (
	MatchPrimary   ArchetypeMatch = "primary"
	MatchSecondary ArchetypeMatch = "secondary"
	MatchEither    ArchetypeMatch = "both"
)
