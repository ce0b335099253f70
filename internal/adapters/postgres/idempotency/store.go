package idempotency

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ecgf-team/roster-api/internal/ports/out/idempotency"
)

const (
	selectRecord = `SELECT status_code, content_type, body, created_at FROM idempotency_keys
		WHERE (idempotency_key, method, route, body_hash) = ($1, $2, $3, $4)`

	upsertRecord = `INSERT INTO idempotency_keys
		(idempotency_key, method, route, body_hash, status_code, content_type, body, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (idempotency_key, method, route, body_hash) DO UPDATE
		SET status_code = excluded.status_code, content_type = excluded.content_type,
			body = excluded.body, created_at = excluded.created_at`

	deleteBefore = `DELETE FROM idempotency_keys WHERE created_at < $1`
)

var errNoPool = errors.New("idempotency: postgres pool is not configured")

// Store keeps replay records in the idempotency_keys table.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func fpArgs(fp idempotency.Fingerprint) []any {
	return []any{string(fp.Key), fp.Method, fp.Route, fp.BodyHash}
}

func (s *Store) Get(ctx context.Context, fp idempotency.Fingerprint) (idempotency.Record, bool, error) {
	if s.pool == nil {
		return idempotency.Record{}, false, errNoPool
	}
	var r idempotency.Record
	err := s.pool.QueryRow(ctx, selectRecord, fpArgs(fp)...).Scan(&r.StatusCode, &r.ContentType, &r.Body, &r.CreatedAt)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return idempotency.Record{}, false, nil
	case err != nil:
		return idempotency.Record{}, false, err
	}
	r.CreatedAt = r.CreatedAt.UTC()
	return r, true, nil
}

func (s *Store) Put(ctx context.Context, fp idempotency.Fingerprint, r idempotency.Record) error {
	if s.pool == nil {
		return errNoPool
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	if r.Body == nil {
		r.Body = []byte{}
	}
	args := append(fpArgs(fp), r.StatusCode, r.ContentType, r.Body, r.CreatedAt.UTC())
	_, err := s.pool.Exec(ctx, upsertRecord, args...)
	return err
}

func (s *Store) DeleteBefore(ctx context.Context, cutoff time.Time) (int, error) {
	if s.pool == nil {
		return 0, errNoPool
	}
	tag, err := s.pool.Exec(ctx, deleteBefore, cutoff.UTC())
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}
