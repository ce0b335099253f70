package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_GetPut(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "roster.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	ctx := context.Background()

	_, ok, err := s.Get(ctx, KeyMembers)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Put(ctx, KeyMembers, []byte(`[1]`)))
	require.NoError(t, s.Put(ctx, KeyMembers, []byte(`[2]`)))

	v, ok, err := s.Get(ctx, KeyMembers)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[2]`, string(v))

	_, ok, err = s.Get(ctx, KeyEvaluations)
	require.NoError(t, err)
	assert.False(t, ok, "keys are independent")
}

func TestStore_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roster.db")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Put(context.Background(), KeyEvaluations, []byte(`[]`)))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	_, ok, err := s.Get(context.Background(), KeyEvaluations)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestOpen_RequiresPath(t *testing.T) {
	_, err := Open("  ")
	assert.Error(t, err)
}

func TestStore_PutStampsAndWrapsErrors(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	s := New(db)
	s.now = func() time.Time { return time.UnixMilli(1234) }

	mock.ExpectExec(`INSERT INTO kv`).
		WithArgs(KeyMembers, `[]`, int64(1234)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO kv`).
		WillReturnError(errors.New("disk I/O error"))

	require.NoError(t, s.Put(context.Background(), KeyMembers, []byte(`[]`)))
	err = s.Put(context.Background(), KeyMembers, []byte(`[]`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "put ecgf_members")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_GetWrapsErrors(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectQuery(`SELECT value FROM kv`).
		WithArgs(KeyMembers).
		WillReturnError(errors.New("database is locked"))

	_, _, err = New(db).Get(context.Background(), KeyMembers)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database is locked")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Unconfigured(t *testing.T) {
	var s *Store
	_, _, err := s.Get(context.Background(), KeyMembers)
	assert.Error(t, err)
	assert.Error(t, s.Put(context.Background(), KeyMembers, nil))
	assert.NoError(t, s.Close())
}

func TestStore_ScanAndDelete(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "roster.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, KeyMembers, []byte(`[]`)))
	require.NoError(t, s.Put(ctx, KeyIdempotencyPrefix+"a", []byte(`1`)))
	require.NoError(t, s.Put(ctx, KeyIdempotencyPrefix+"b", []byte(`2`)))

	got, err := s.Scan(ctx, KeyIdempotencyPrefix)
	require.NoError(t, err)
	assert.Equal(t, map[string][]byte{"idem:a": []byte(`1`), "idem:b": []byte(`2`)}, got)

	require.NoError(t, s.Delete(ctx, KeyIdempotencyPrefix+"a", "missing"))
	got, err = s.Scan(ctx, KeyIdempotencyPrefix)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	_, ok, err := s.Get(ctx, KeyMembers)
	require.NoError(t, err)
	assert.True(t, ok, "other keys untouched")
}
