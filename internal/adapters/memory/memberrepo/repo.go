package memberrepo

import (
	"context"
	"sync"

	"github.com/ecgf-team/roster-api/internal/domain"
	"github.com/ecgf-team/roster-api/internal/ports/out/memberrepo"
)

// Repo is an in-memory implementation of memberrepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu      sync.RWMutex
	members []domain.Member
}

func NewRepo() *Repo {
	return &Repo{}
}

func (r *Repo) Load(ctx context.Context) ([]domain.Member, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneMembers(r.members), nil
}

func (r *Repo) Save(ctx context.Context, members []domain.Member) error {
	_ = ctx
	seen := make(map[domain.MemberID]struct{}, len(members))
	for _, m := range members {
		if _, dup := seen[m.ID]; dup {
			return memberrepo.ErrDuplicateID
		}
		seen[m.ID] = struct{}{}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.members = cloneMembers(members)
	return nil
}

func cloneMembers(ms []domain.Member) []domain.Member {
	out := make([]domain.Member, len(ms))
	copy(out, ms)
	return out
}
