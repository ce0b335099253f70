package memberrepo

import (
	"context"

	"github.com/ecgf-team/roster-api/internal/domain"
)

// Repository persists the roster as a whole collection.
//
// Callers read the full roster, change it, and write it back. There is exactly one logical
// writer at a time, so implementations only need to make each call atomic.
//
// Ordering expectations:
// - Load returns members in the order they were last saved.
type Repository interface {
	Load(ctx context.Context) ([]domain.Member, error)
	Save(ctx context.Context, members []domain.Member) error
}
