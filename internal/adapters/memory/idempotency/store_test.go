package idempotency

import (
	"context"
	"testing"
	"time"

	"github.com/ecgf-team/roster-api/internal/ports/out/idempotency"
)

func TestStore_ReturnsCopies(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewStore()
	fp := idempotency.Fingerprint{Key: "k1", Method: "POST", Route: "/members/import", BodyHash: "abc123"}
	body := []byte(`{"skipped":0}`)

	if err := s.Put(ctx, fp, idempotency.Record{StatusCode: 200, ContentType: "application/json", Body: body}); err != nil {
		t.Fatalf("Put() err=%v", err)
	}
	body[0] = 'X'

	got, ok, err := s.Get(ctx, fp)
	if err != nil || !ok {
		t.Fatalf("Get() ok=%v err=%v", ok, err)
	}
	if string(got.Body) != `{"skipped":0}` {
		t.Fatalf("stored body aliased the caller's slice: %q", got.Body)
	}
	got.Body[0] = 'Y'
	again, _, _ := s.Get(ctx, fp)
	if string(again.Body) != `{"skipped":0}` {
		t.Fatalf("Get() returned the stored slice: %q", again.Body)
	}
	if again.CreatedAt.IsZero() {
		t.Fatalf("Put() left CreatedAt zero")
	}
}

func TestStore_DeleteBeforeIsStrict(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewStore()
	cutoff := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	at := idempotency.Fingerprint{Key: "at"}
	if err := s.Put(ctx, at, idempotency.Record{CreatedAt: cutoff}); err != nil {
		t.Fatalf("Put() err=%v", err)
	}
	if n, err := s.DeleteBefore(ctx, cutoff); err != nil || n != 0 {
		t.Fatalf("DeleteBefore() n=%d err=%v, want 0", n, err)
	}
	if _, ok, _ := s.Get(ctx, at); !ok {
		t.Fatalf("record created at the cutoff was deleted")
	}
}
