package evaluationrepo

import (
	"context"
	"sync"

	"github.com/ecgf-team/roster-api/internal/domain"
)

// Repo is an in-memory implementation of evaluationrepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu      sync.RWMutex
	records []domain.EvaluationRecord
}

func NewRepo() *Repo {
	return &Repo{}
}

func (r *Repo) Load(ctx context.Context) ([]domain.EvaluationRecord, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneRecords(r.records), nil
}

func (r *Repo) Save(ctx context.Context, records []domain.EvaluationRecord) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = cloneRecords(records)
	return nil
}

func cloneRecords(rs []domain.EvaluationRecord) []domain.EvaluationRecord {
	out := make([]domain.EvaluationRecord, len(rs))
	for i, rec := range rs {
		out[i] = cloneRecord(rec)
	}
	return out
}

func cloneRecord(rec domain.EvaluationRecord) domain.EvaluationRecord {
	out := rec
	if rec.Evaluation.Scores != nil {
		s := *rec.Evaluation.Scores
		out.Evaluation.Scores = &s
	}
	if rec.Evaluation.Checklists != nil {
		c := *rec.Evaluation.Checklists
		c.Technical = cloneChecklist(c.Technical)
		c.ProblemSolving = cloneChecklist(c.ProblemSolving)
		c.Collaboration = cloneChecklist(c.Collaboration)
		c.Assetization = cloneChecklist(c.Assetization)
		out.Evaluation.Checklists = &c
	}
	return out
}

func cloneChecklist(p *domain.Checklist) *domain.Checklist {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
