package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	memclock "github.com/ecgf-team/roster-api/internal/adapters/memory/clock"
	memevaluationrepo "github.com/ecgf-team/roster-api/internal/adapters/memory/evaluationrepo"
	memidempotency "github.com/ecgf-team/roster-api/internal/adapters/memory/idempotency"
	memmemberrepo "github.com/ecgf-team/roster-api/internal/adapters/memory/memberrepo"
	"github.com/ecgf-team/roster-api/internal/app/evaluations"
	"github.com/ecgf-team/roster-api/internal/app/growth"
	"github.com/ecgf-team/roster-api/internal/app/members"
	"github.com/ecgf-team/roster-api/internal/ports/out/idempotency"
)

func newIdempotentRouter(t *testing.T) (http.Handler, *members.Service) {
	t.Helper()
	memberRepo := memmemberrepo.NewRepo()
	memberSvc := members.NewService(memberRepo, nil)
	evalSvc := evaluations.NewService(memevaluationrepo.NewRepo(), memclock.NewManualClock(time.Unix(0, 0)), nil)
	api := NewServer(memberSvc, evalSvc, growth.NewService(memberRepo, evalSvc, nil))
	return NewRouterWithOptions(api, RouterOptions{Idempotency: memidempotency.NewStore()}), memberSvc
}

func postWithKey(t *testing.T, h http.Handler, target, key, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	if key != "" {
		req.Header.Set(IdempotencyKeyHeader, key)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestIdempotency_ReplaysCreate(t *testing.T) {
	h, svc := newIdempotentRouter(t)
	body := `{"name":"Kim","primaryArchetype":"research","years":3,"level":"L1"}`

	first := postWithKey(t, h, "/members", "create-1", body)
	if first.Code != http.StatusCreated {
		t.Fatalf("first status=%d body=%s", first.Code, first.Body.String())
	}
	second := postWithKey(t, h, "/members", "create-1", body)
	if second.Code != http.StatusCreated || second.Header().Get(IdempotencyReplayedHeader) != "true" {
		t.Fatalf("second status=%d replayed=%q", second.Code, second.Header().Get(IdempotencyReplayedHeader))
	}
	if second.Body.String() != first.Body.String() {
		t.Fatalf("replayed body differs:\n%s\n%s", first.Body.String(), second.Body.String())
	}

	ms, err := svc.List(context.Background())
	if err != nil || len(ms) != 1 {
		t.Fatalf("List n=%d err=%v, want exactly one member", len(ms), err)
	}
}

func TestIdempotency_KeyReuseWithOtherPayload(t *testing.T) {
	h, _ := newIdempotentRouter(t)

	postWithKey(t, h, "/members/import?format=json", "imp-1", "[]")
	rec := postWithKey(t, h, "/members/import?format=json&skipDuplicates=false", "imp-1", "[]")
	if rec.Code != http.StatusConflict || decodeError(t, rec).Code != "IDEMPOTENCY_KEY_REUSE" {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
}

func TestIdempotency_FailuresAreNotReplayed(t *testing.T) {
	h, _ := newIdempotentRouter(t)
	body := `{"name":"","primaryArchetype":"research","years":3,"level":"L1"}`

	for i := 0; i < 2; i++ {
		rec := postWithKey(t, h, "/members", "bad-1", body)
		if rec.Code != http.StatusUnprocessableEntity || rec.Header().Get(IdempotencyReplayedHeader) != "" {
			t.Fatalf("attempt %d status=%d replayed=%q", i, rec.Code, rec.Header().Get(IdempotencyReplayedHeader))
		}
	}
}

func TestIdempotency_WithoutKeyPassesThrough(t *testing.T) {
	h, svc := newIdempotentRouter(t)
	body := `{"name":"Kim","primaryArchetype":"research","years":3,"level":"L1"}`

	postWithKey(t, h, "/members", "", body)
	postWithKey(t, h, "/members", "", body)
	ms, _ := svc.List(context.Background())
	if len(ms) != 2 {
		t.Fatalf("n=%d, want 2", len(ms))
	}
}

func TestIdempotency_ExpiredKeyIsFresh(t *testing.T) {
	store := memidempotency.NewStore()
	memberRepo := memmemberrepo.NewRepo()
	memberSvc := members.NewService(memberRepo, nil)
	evalSvc := evaluations.NewService(memevaluationrepo.NewRepo(), memclock.NewManualClock(time.Unix(0, 0)), nil)
	api := NewServer(memberSvc, evalSvc, growth.NewService(memberRepo, evalSvc, nil))
	h := NewRouterWithOptions(api, RouterOptions{Idempotency: store, IdempotencyTTL: time.Hour})

	// A claim left by a request two hours ago with another payload.
	old := time.Now().UTC().Add(-2 * time.Hour)
	fp := idempotency.Fingerprint{Key: "old-1", Method: http.MethodPost, Route: "/members"}
	if err := store.Put(context.Background(), fp, idempotency.Record{Body: []byte("stale-hash"), CreatedAt: old}); err != nil {
		t.Fatalf("Put() err=%v", err)
	}

	rec := postWithKey(t, h, "/members", "old-1", `{"name":"Kim","primaryArchetype":"research","years":3,"level":"L1"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status=%d body=%s, want expired key to be accepted", rec.Code, rec.Body.String())
	}
}

func TestPurgeIdempotency_DeletesOldRecordsAndStops(t *testing.T) {
	store := memidempotency.NewStore()
	ctx, cancel := context.WithCancel(context.Background())

	old := idempotency.Fingerprint{Key: "old"}
	fresh := idempotency.Fingerprint{Key: "fresh"}
	_ = store.Put(ctx, old, idempotency.Record{CreatedAt: time.Now().UTC().Add(-48 * time.Hour)})
	_ = store.Put(ctx, fresh, idempotency.Record{CreatedAt: time.Now().UTC()})

	done := make(chan struct{})
	go func() {
		PurgeIdempotency(ctx, store, 24*time.Hour, time.Hour, zap.NewNop())
		close(done)
	}()

	deadline := time.After(5 * time.Second)
	for {
		if _, ok, _ := store.Get(context.Background(), old); !ok {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("old record was not purged")
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()
	<-done

	if _, ok, _ := store.Get(context.Background(), fresh); !ok {
		t.Fatalf("fresh record was purged")
	}
}
