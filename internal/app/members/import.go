package members

import (
	"fmt"

	"github.com/ecgf-team/roster-api/internal/domain"
)

// ValidateImported checks every imported row and prefixes messages with the 1-based row number.
func ValidateImported(cands []domain.Candidate) domain.Verdict {
	var errs []string
	for i, c := range cands {
		for _, msg := range domain.Validate(c).Errors {
			errs = append(errs, fmt.Sprintf("행 %d: %s", i+1, msg))
		}
	}
	if errs == nil {
		errs = []string{}
	}
	return domain.Verdict{Valid: len(errs) == 0, Errors: errs}
}

// Merge appends imported members to existing ones. With SkipDuplicates, a member matching
// an existing or earlier imported one by opts.Key is dropped. A kept member whose id is
// already taken gets a fresh one. The second result lists what was actually added.
func Merge(existing, imported []domain.Member, opts MergeOptions) ([]domain.Member, []domain.Member) {
	merged := append([]domain.Member(nil), existing...)
	added := make([]domain.Member, 0, len(imported))

	newID := opts.NewID
	if newID == nil {
		newID = NewMemberID
	}
	key := func(m domain.Member) string {
		if opts.Key == DuplicateByID {
			return "id:" + string(m.ID)
		}
		return "name:" + m.Name
	}
	seen := make(map[string]struct{}, len(merged))
	ids := make(map[domain.MemberID]struct{}, len(merged))
	for _, m := range merged {
		seen[key(m)] = struct{}{}
		ids[m.ID] = struct{}{}
	}

	for _, m := range imported {
		if opts.SkipDuplicates {
			if _, dup := seen[key(m)]; dup {
				continue
			}
		}
		seen[key(m)] = struct{}{}
		for {
			if _, taken := ids[m.ID]; !taken {
				break
			}
			m.ID = newID()
		}
		ids[m.ID] = struct{}{}
		merged = append(merged, m)
		added = append(added, m)
	}
	return merged, added
}
