package idempotency

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/ecgf-team/roster-api/internal/adapters/sqlite"
	"github.com/ecgf-team/roster-api/internal/ports/out/idempotency"
)

// Store is a SQLite implementation of idempotency.Store.
// Each record is a JSON document under sqlite.KeyIdempotencyPrefix plus a digest of the fingerprint.
type Store struct {
	kv *sqlite.Store
}

func NewStore(kv *sqlite.Store) *Store {
	return &Store{kv: kv}
}

type record struct {
	StatusCode  int       `json:"statusCode"`
	ContentType string    `json:"contentType"`
	Body        []byte    `json:"body"`
	CreatedAt   time.Time `json:"createdAt"`
}

func key(fp idempotency.Fingerprint) string {
	sum := sha256.Sum256([]byte(string(fp.Key) + "\x00" + fp.Method + "\x00" + fp.Route + "\x00" + fp.BodyHash))
	return sqlite.KeyIdempotencyPrefix + hex.EncodeToString(sum[:])
}

func (s *Store) Get(ctx context.Context, fp idempotency.Fingerprint) (idempotency.Record, bool, error) {
	raw, ok, err := s.kv.Get(ctx, key(fp))
	if err != nil || !ok {
		return idempotency.Record{}, false, err
	}
	var rec record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return idempotency.Record{}, false, fmt.Errorf("decode idempotency record: %w", err)
	}
	return idempotency.Record{
		StatusCode:  rec.StatusCode,
		ContentType: rec.ContentType,
		Body:        rec.Body,
		CreatedAt:   rec.CreatedAt.UTC(),
	}, true, nil
}

func (s *Store) Put(ctx context.Context, fp idempotency.Fingerprint, rec idempotency.Record) error {
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	raw, err := json.Marshal(record{
		StatusCode:  rec.StatusCode,
		ContentType: rec.ContentType,
		Body:        rec.Body,
		CreatedAt:   createdAt,
	})
	if err != nil {
		return fmt.Errorf("encode idempotency record: %w", err)
	}
	return s.kv.Put(ctx, key(fp), raw)
}

func (s *Store) DeleteBefore(ctx context.Context, cutoff time.Time) (int, error) {
	all, err := s.kv.Scan(ctx, sqlite.KeyIdempotencyPrefix)
	if err != nil {
		return 0, err
	}
	var stale []string
	for k, raw := range all {
		var rec record
		if err := json.Unmarshal(raw, &rec); err != nil {
			return 0, fmt.Errorf("decode idempotency record %s: %w", k, err)
		}
		if rec.CreatedAt.Before(cutoff) {
			stale = append(stale, k)
		}
	}
	if err := s.kv.Delete(ctx, stale...); err != nil {
		return 0, err
	}
	return len(stale), nil
}
