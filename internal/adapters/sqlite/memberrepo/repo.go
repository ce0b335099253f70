package memberrepo

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/ecgf-team/roster-api/internal/adapters/sqlite"
	"github.com/ecgf-team/roster-api/internal/domain"
	"github.com/ecgf-team/roster-api/internal/ports/out/memberrepo"
)

// Repo is a SQLite implementation of memberrepo.Repository.
// The roster is stored as one JSON array under sqlite.KeyMembers.
type Repo struct {
	store *sqlite.Store
}

func NewRepo(store *sqlite.Store) *Repo {
	return &Repo{store: store}
}

func (r *Repo) Load(ctx context.Context) ([]domain.Member, error) {
	raw, ok, err := r.store.Get(ctx, sqlite.KeyMembers)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []domain.Member{}, nil
	}
	var ms []domain.Member
	if err := json.Unmarshal(raw, &ms); err != nil {
		return nil, fmt.Errorf("%w: %v", memberrepo.ErrCorrupt, err)
	}
	if ms == nil {
		ms = []domain.Member{}
	}
	return ms, nil
}

func (r *Repo) Save(ctx context.Context, members []domain.Member) error {
	seen := make(map[domain.MemberID]struct{}, len(members))
	for _, m := range members {
		if _, dup := seen[m.ID]; dup {
			return memberrepo.ErrDuplicateID
		}
		seen[m.ID] = struct{}{}
	}
	if members == nil {
		members = []domain.Member{}
	}
	raw, err := json.Marshal(members)
	if err != nil {
		return fmt.Errorf("encode roster: %w", err)
	}
	return r.store.Put(ctx, sqlite.KeyMembers, raw)
}
