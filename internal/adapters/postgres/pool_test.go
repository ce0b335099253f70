package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestAsPgError(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("insert: %w", &pgconn.PgError{Code: UniqueViolationCode, ConstraintName: "members_pkey"})
	pe, ok := AsPgError(wrapped)
	if !ok || pe.Code != UniqueViolationCode || pe.ConstraintName != "members_pkey" {
		t.Fatalf("AsPgError()=%v,%v", pe, ok)
	}

	if _, ok := AsPgError(errors.New("boom")); ok {
		t.Fatalf("AsPgError(plain error) ok=true")
	}
}

func TestNewPool_RejectsBadURL(t *testing.T) {
	t.Parallel()

	if _, err := NewPool(context.Background(), "postgres://%zz", PoolOptions{}); err == nil {
		t.Fatalf("expected error for malformed url")
	}
}

func TestMigrationsEmbedded(t *testing.T) {
	t.Parallel()

	b, err := migrationFS.ReadFile("migrations/0001_roster.sql")
	if err != nil || len(b) == 0 {
		t.Fatalf("embedded migration missing: err=%v", err)
	}
}
