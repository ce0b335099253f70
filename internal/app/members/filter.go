package members

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/ecgf-team/roster-api/internal/domain"
)

// SearchConfig controls name matching.
type SearchConfig struct {
	CaseSensitive bool `yaml:"caseSensitive"`
	PartialMatch  bool `yaml:"partialMatch"`
}

func DefaultSearchConfig() SearchConfig {
	return SearchConfig{CaseSensitive: false, PartialMatch: true}
}

// Query is an ephemeral filter request. Zero-valued fields pass everything through.
type Query struct {
	SearchTerm    string
	Level         domain.Level
	Archetype     domain.Archetype
	ArchetypeType domain.ArchetypeMatch
	YearsMin      *int
	YearsMax      *int
}

// ApplyFilters runs name search, level, archetype and years filters in that order.
// The input slice is never modified.
func ApplyFilters(ms []domain.Member, q Query, cfg SearchConfig) []domain.Member {
	out := append([]domain.Member(nil), ms...)
	if q.SearchTerm != "" {
		out = SearchByName(out, q.SearchTerm, cfg)
	}
	if q.Level != "" {
		out = FilterByLevel(out, q.Level)
	}
	if q.Archetype != "" {
		mode := q.ArchetypeType
		if mode == "" {
			mode = domain.MatchPrimary
		}
		out = FilterByArchetype(out, q.Archetype, mode)
	}
	if q.YearsMin != nil || q.YearsMax != nil {
		out = FilterByYearsRange(out, q.YearsMin, q.YearsMax)
	}
	return out
}

// SearchByName matches the trimmed term against member names. A blank term matches all.
func SearchByName(ms []domain.Member, term string, cfg SearchConfig) []domain.Member {
	term = domain.NormalizeHumanName(term)
	if term == "" {
		return ms
	}
	if !cfg.CaseSensitive {
		term = fold(term)
	}
	return filter(ms, func(m domain.Member) bool {
		if m.Name == "" {
			return false
		}
		name := m.Name
		if !cfg.CaseSensitive {
			name = fold(name)
		}
		if cfg.PartialMatch {
			return strings.Contains(name, term)
		}
		return name == term
	})
}

// FilterByLevel keeps members at level. An unknown level matches nothing.
func FilterByLevel(ms []domain.Member, level domain.Level) []domain.Member {
	if level == "" {
		return ms
	}
	if !level.Valid() {
		return []domain.Member{}
	}
	return filter(ms, func(m domain.Member) bool { return m.Level == level })
}

// FilterByArchetype keeps members whose selected slot holds a.
func FilterByArchetype(ms []domain.Member, a domain.Archetype, mode domain.ArchetypeMatch) []domain.Member {
	if a == "" {
		return ms
	}
	return filter(ms, func(m domain.Member) bool {
		switch mode {
		case domain.MatchPrimary:
			return m.PrimaryArchetype == a
		case domain.MatchSecondary:
			return m.SecondaryArchetype == a
		case domain.MatchEither:
			return m.HasArchetype(a)
		}
		return false
	})
}

// FilterByYearsRange keeps members with lo <= years <= hi. A nil bound is open.
// An inverted range matches nothing.
func FilterByYearsRange(ms []domain.Member, lo, hi *int) []domain.Member {
	if lo != nil && hi != nil && *lo > *hi {
		return []domain.Member{}
	}
	return filter(ms, func(m domain.Member) bool {
		if lo != nil && m.Years < *lo {
			return false
		}
		if hi != nil && m.Years > *hi {
			return false
		}
		return true
	})
}

func filter(ms []domain.Member, keep func(domain.Member) bool) []domain.Member {
	out := make([]domain.Member, 0, len(ms))
	for _, m := range ms {
		if keep(m) {
			out = append(out, m)
		}
	}
	return out
}

func fold(s string) string {
	return cases.Fold().String(s)
}
