package evaluationrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ecgf-team/roster-api/internal/domain"
	"github.com/ecgf-team/roster-api/internal/ports/out/evaluationrepo"
)

// Repo is a Postgres implementation of evaluationrepo.Repository.
// The two evaluation shapes and the computed score are stored as JSONB.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) Load(ctx context.Context) ([]domain.EvaluationRecord, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT member_id, scores, checklists, score, evaluated_at
		FROM evaluations
		ORDER BY position
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.EvaluationRecord{}
	for rows.Next() {
		var (
			rec                       domain.EvaluationRecord
			id                        string
			scores, checklists, score []byte
			at                        time.Time
		)
		if err := rows.Scan(&id, &scores, &checklists, &score, &at); err != nil {
			return nil, err
		}
		rec.MemberID = domain.MemberID(id)
		rec.Timestamp = at.UTC()
		if err := decode(scores, &rec.Evaluation.Scores); err != nil {
			return nil, err
		}
		if err := decode(checklists, &rec.Evaluation.Checklists); err != nil {
			return nil, err
		}
		if err := decode(score, &rec.Score); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) Save(ctx context.Context, records []domain.EvaluationRecord) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	batch := &pgx.Batch{}
	batch.Queue(`DELETE FROM evaluations`)
	for i, rec := range records {
		scores, err := encode(rec.Evaluation.Scores)
		if err != nil {
			return err
		}
		checklists, err := encode(rec.Evaluation.Checklists)
		if err != nil {
			return err
		}
		score, err := json.Marshal(rec.Score)
		if err != nil {
			return err
		}
		batch.Queue(`
			INSERT INTO evaluations (member_id, position, scores, checklists, score, evaluated_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, string(rec.MemberID), i, scores, checklists, score, rec.Timestamp.UTC())
	}

	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		return tx.SendBatch(ctx, batch).Close()
	})
}

// encode returns nil for an absent shape so the column stays NULL.
func encode[T any](v *T) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}

func decode(raw []byte, dst any) error {
	if raw == nil {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%w: %v", evaluationrepo.ErrCorrupt, err)
	}
	return nil
}
