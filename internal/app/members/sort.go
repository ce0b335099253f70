package members

import (
	"cmp"
	"slices"

	"github.com/ecgf-team/roster-api/internal/domain"
)

// SortMembers returns a copy ordered by level descending, then years descending.
// Exact level and years ties keep their input order.
func SortMembers(ms []domain.Member) []domain.Member {
	out := append([]domain.Member(nil), ms...)
	slices.SortStableFunc(out, func(a, b domain.Member) int {
		if c := cmp.Compare(b.Level.Rank(), a.Level.Rank()); c != 0 {
			return c
		}
		return cmp.Compare(b.Years, a.Years)
	})
	return out
}
