package growth

import (
	"slices"

	"github.com/ecgf-team/roster-api/internal/domain"
)

const DefaultMinLevelGap = 2

// Matcher proposes mentors and mentees by level distance.
type Matcher struct {
	// MinLevelGap is the smallest rank difference between mentor and mentee.
	// Values below 1 fall back to DefaultMinLevelGap.
	MinLevelGap int `yaml:"minLevelGap"`
	// PreferSameArchetype lists mentors sharing the mentee's primary archetype first.
	PreferSameArchetype bool `yaml:"preferSameArchetype"`
}

func DefaultMatcher() Matcher {
	return Matcher{MinLevelGap: DefaultMinLevelGap, PreferSameArchetype: true}
}

func (mt Matcher) gap() int {
	if mt.MinLevelGap < 1 {
		return DefaultMinLevelGap
	}
	return mt.MinLevelGap
}

// Match pairs a mentor with a mentee. Reverse marks the junior teaching the senior.
type Match struct {
	Mentee  domain.Member `json:"mentee"`
	Mentor  domain.Member `json:"mentor"`
	Reverse bool          `json:"reverse"`
}

// FindMentors returns roster members at least MinLevelGap ranks above mentee, in roster
// order. With PreferSameArchetype, those holding the mentee's primary archetype in either
// slot come first.
func (mt Matcher) FindMentors(roster []domain.Member, mentee domain.Member) []domain.Member {
	menteeRank := mentee.Level.Rank()
	if menteeRank == 0 {
		return []domain.Member{}
	}
	out := make([]domain.Member, 0)
	for _, m := range roster {
		if m.ID == mentee.ID {
			continue
		}
		r := m.Level.Rank()
		if r != 0 && r-menteeRank >= mt.gap() {
			out = append(out, m)
		}
	}
	if mt.PreferSameArchetype {
		slices.SortStableFunc(out, func(a, b domain.Member) int {
			return matchOrder(a, mentee.PrimaryArchetype) - matchOrder(b, mentee.PrimaryArchetype)
		})
	}
	return out
}

func matchOrder(m domain.Member, a domain.Archetype) int {
	if m.HasArchetype(a) {
		return 0
	}
	return 1
}

// FindMentees returns roster members at least MinLevelGap ranks below mentor, in roster order.
func (mt Matcher) FindMentees(roster []domain.Member, mentor domain.Member) []domain.Member {
	mentorRank := mentor.Level.Rank()
	if mentorRank == 0 {
		return []domain.Member{}
	}
	out := make([]domain.Member, 0)
	for _, m := range roster {
		if m.ID == mentor.ID {
			continue
		}
		r := m.Level.Rank()
		if r != 0 && mentorRank-r >= mt.gap() {
			out = append(out, m)
		}
	}
	return out
}

// MatchRoster pairs every member that has a mentor with its best one.
func (mt Matcher) MatchRoster(roster []domain.Member) []Match {
	matches := make([]Match, 0)
	for _, m := range roster {
		mentors := mt.FindMentors(roster, m)
		if len(mentors) == 0 {
			continue
		}
		matches = append(matches, Match{Mentee: m, Mentor: mentors[0]})
	}
	return matches
}

// Pair records an explicit pairing without checking levels.
func Pair(mentor, mentee domain.Member, reverse bool) Match {
	return Match{Mentee: mentee, Mentor: mentor, Reverse: reverse}
}
