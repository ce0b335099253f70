package evaluationrepo

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/ecgf-team/roster-api/internal/adapters/sqlite"
	"github.com/ecgf-team/roster-api/internal/domain"
	"github.com/ecgf-team/roster-api/internal/ports/out/evaluationrepo"
)

// Repo is a SQLite implementation of evaluationrepo.Repository, stored under sqlite.KeyEvaluations.
type Repo struct {
	store *sqlite.Store
}

func NewRepo(store *sqlite.Store) *Repo {
	return &Repo{store: store}
}

func (r *Repo) Load(ctx context.Context) ([]domain.EvaluationRecord, error) {
	raw, ok, err := r.store.Get(ctx, sqlite.KeyEvaluations)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []domain.EvaluationRecord{}, nil
	}
	var records []domain.EvaluationRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", evaluationrepo.ErrCorrupt, err)
	}
	if records == nil {
		records = []domain.EvaluationRecord{}
	}
	return records, nil
}

func (r *Repo) Save(ctx context.Context, records []domain.EvaluationRecord) error {
	if records == nil {
		records = []domain.EvaluationRecord{}
	}
	raw, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode evaluations: %w", err)
	}
	return r.store.Put(ctx, sqlite.KeyEvaluations, raw)
}
