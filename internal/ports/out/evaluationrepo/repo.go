package evaluationrepo

import (
	"context"
	"errors"

	"github.com/ecgf-team/roster-api/internal/domain"
)

// ErrCorrupt indicates the stored evaluations could not be decoded.
var ErrCorrupt = errors.New("stored evaluations are corrupt")

// Repository persists the evaluation log: at most one record per member.
type Repository interface {
	Load(ctx context.Context) ([]domain.EvaluationRecord, error)
	Save(ctx context.Context, records []domain.EvaluationRecord) error
}
