package contracttest

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ecgf-team/roster-api/internal/domain"
	evaluationrepoport "github.com/ecgf-team/roster-api/internal/ports/out/evaluationrepo"
	idempotencyport "github.com/ecgf-team/roster-api/internal/ports/out/idempotency"
	memberrepoport "github.com/ecgf-team/roster-api/internal/ports/out/memberrepo"
)

type CleanupFunc = func()

type MemberRepoFactory func(t *testing.T) (memberrepoport.Repository, CleanupFunc)
type EvaluationRepoFactory func(t *testing.T) (evaluationrepoport.Repository, CleanupFunc)
type IdemStoreFactory func(t *testing.T) (idempotencyport.Store, CleanupFunc)

func RunIdempotencyStore(t *testing.T, newStore IdemStoreFactory) {
	t.Helper()
	ctx := context.Background()

	store, cleanup := newStore(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	fp := idempotencyport.Fingerprint{
		Key:      "k-1",
		Method:   "POST",
		Route:    "/members/import",
		BodyHash: "",
	}
	if _, ok, err := store.Get(ctx, fp); err != nil || ok {
		t.Fatalf("Get before Put: ok=%v err=%v", ok, err)
	}

	rec := idempotencyport.Record{
		StatusCode:  0,
		ContentType: "text/plain",
		Body:        []byte("hash-abc"),
		CreatedAt:   time.Unix(123, 0).UTC(),
	}
	if err := store.Put(ctx, fp, rec); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok, err := store.Get(ctx, fp)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatalf("expected ok=true")
	}
	if string(got.Body) != "hash-abc" || got.ContentType != "text/plain" || got.StatusCode != 0 || !got.CreatedAt.Equal(rec.CreatedAt) {
		t.Fatalf("unexpected record: %+v", got)
	}

	// Overwrite semantics.
	rec2 := rec
	rec2.Body = []byte("hash-def")
	if err := store.Put(ctx, fp, rec2); err != nil {
		t.Fatalf("Put overwrite: %v", err)
	}
	got, ok, err = store.Get(ctx, fp)
	if err != nil || !ok || string(got.Body) != "hash-def" {
		t.Fatalf("expected overwritten record, got ok=%v err=%v body=%q", ok, err, string(got.Body))
	}

	// Each part of the fingerprint is significant.
	for _, other := range []idempotencyport.Fingerprint{
		{Key: "k-2", Method: fp.Method, Route: fp.Route},
		{Key: fp.Key, Method: "PUT", Route: fp.Route},
		{Key: fp.Key, Method: fp.Method, Route: "/members"},
		{Key: fp.Key, Method: fp.Method, Route: fp.Route, BodyHash: "x"},
	} {
		if _, ok, err := store.Get(ctx, other); err != nil || ok {
			t.Fatalf("Get(%+v): ok=%v err=%v, want miss", other, ok, err)
		}
	}

	// Purge by age.
	fresh := idempotencyport.Fingerprint{Key: "k-fresh", Method: "POST", Route: "/members"}
	if err := store.Put(ctx, fresh, idempotencyport.Record{StatusCode: 201, Body: []byte("{}"), CreatedAt: time.Unix(5000, 0).UTC()}); err != nil {
		t.Fatalf("Put fresh: %v", err)
	}
	n, err := store.DeleteBefore(ctx, time.Unix(1000, 0).UTC())
	if err != nil {
		t.Fatalf("DeleteBefore: %v", err)
	}
	if n != 1 {
		t.Fatalf("DeleteBefore removed %d records, want 1", n)
	}
	if _, ok, _ := store.Get(ctx, fp); ok {
		t.Fatalf("old record survived DeleteBefore")
	}
	if got, ok, _ := store.Get(ctx, fresh); !ok || got.StatusCode != 201 {
		t.Fatalf("fresh record lost: ok=%v rec=%+v", ok, got)
	}
}

func RunMemberRepo(t *testing.T, newRepo MemberRepoFactory) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	// Empty store loads as an empty roster.
	got, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load empty: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("Load empty: got %d members, want 0", len(got))
	}

	a := domain.Member{
		ID:                 domain.MemberID(uuid.NewString()),
		Name:               "김민수",
		PrimaryArchetype:   domain.ArchetypeArchitecture,
		SecondaryArchetype: domain.ArchetypeResearch,
		Years:              9,
		Level:              domain.LevelL3,
	}
	b := domain.Member{
		ID:               domain.MemberID(uuid.NewString()),
		Name:             "Alice",
		PrimaryArchetype: domain.ArchetypeOperations,
		Years:            0,
		Level:            domain.LevelL1,
	}
	if err := repo.Save(ctx, []domain.Member{a, b}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	// Order and every field survive a round trip; absent secondary stays absent.
	got, err = repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 2 || got[0] != a || got[1] != b {
		t.Fatalf("Load()=%#v, want [%#v %#v]", got, a, b)
	}

	// Save replaces the whole collection.
	b.Years = 2
	if err := repo.Save(ctx, []domain.Member{b}); err != nil {
		t.Fatalf("Save replace: %v", err)
	}
	got, err = repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load after replace: %v", err)
	}
	if len(got) != 1 || got[0] != b {
		t.Fatalf("Load() after replace=%#v, want [%#v]", got, b)
	}

	// Callers cannot mutate stored state through the returned slice.
	got[0].Name = "mutated"
	again, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load again: %v", err)
	}
	if again[0].Name != "Alice" {
		t.Fatalf("stored member was mutated through Load result: %#v", again[0])
	}

	// Duplicate ids are rejected and leave the stored roster untouched.
	if err := repo.Save(ctx, []domain.Member{a, a}); err == nil {
		t.Fatalf("expected duplicate id error")
	}
	again, err = repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load after rejected save: %v", err)
	}
	if len(again) != 1 || again[0].ID != b.ID {
		t.Fatalf("rejected save changed the roster: %#v", again)
	}

	// Saving an empty roster clears it.
	if err := repo.Save(ctx, nil); err != nil {
		t.Fatalf("Save empty: %v", err)
	}
	got, err = repo.Load(ctx)
	if err != nil || len(got) != 0 {
		t.Fatalf("Load after clear: n=%d err=%v", len(got), err)
	}
}

func RunEvaluationRepo(t *testing.T, newRepo EvaluationRepoFactory) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	got, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load empty: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("Load empty: got %d records, want 0", len(got))
	}

	ts := time.Unix(1700000000, 0).UTC()
	rec := domain.EvaluationRecord{
		MemberID: domain.MemberID(uuid.NewString()),
		Evaluation: domain.Evaluation{
			Scores: &domain.Scores{Technical: 80, ProblemSolving: 70, Collaboration: 60, Assetization: 50},
			Checklists: &domain.Checklists{
				Technical:    &domain.Checklist{Achieved: 2, Total: 3},
				Assetization: &domain.Checklist{Achieved: 1, Total: 2},
			},
		},
		Timestamp: ts,
		Score:     domain.WeightedScore{TechnicalScore: 32, ProblemSolvingScore: 17.5, CollaborationScore: 12, AssetizationScore: 7.5, TotalScore: 69},
	}
	bare := domain.EvaluationRecord{
		MemberID:  domain.MemberID(uuid.NewString()),
		Timestamp: ts.Add(time.Minute),
	}
	if err := repo.Save(ctx, []domain.EvaluationRecord{rec, bare}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err = repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Load: got %d records, want 2", len(got))
	}
	g := got[0]
	if g.MemberID != rec.MemberID || !g.Timestamp.Equal(ts) || g.Score != rec.Score {
		t.Fatalf("Load()[0]=%#v, want %#v", g, rec)
	}
	if g.Evaluation.Scores == nil || *g.Evaluation.Scores != *rec.Evaluation.Scores {
		t.Fatalf("scores not preserved: %#v", g.Evaluation.Scores)
	}
	if c := g.Evaluation.Checklists; c == nil || c.Technical == nil || *c.Technical != (domain.Checklist{Achieved: 2, Total: 3}) || c.ProblemSolving != nil {
		t.Fatalf("checklists not preserved: %#v", g.Evaluation.Checklists)
	}
	if got[1].Evaluation.Scores != nil || got[1].Evaluation.Checklists != nil {
		t.Fatalf("absent evaluation shapes must stay absent: %#v", got[1].Evaluation)
	}

	// Mutating a loaded record does not leak into the store.
	got[0].Evaluation.Scores.Technical = 1
	again, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load again: %v", err)
	}
	if again[0].Evaluation.Scores.Technical != 80 {
		t.Fatalf("stored record was mutated through Load result")
	}

	if err := repo.Save(ctx, []domain.EvaluationRecord{bare}); err != nil {
		t.Fatalf("Save replace: %v", err)
	}
	got, err = repo.Load(ctx)
	if err != nil || len(got) != 1 || got[0].MemberID != bare.MemberID {
		t.Fatalf("Load after replace: %#v err=%v", got, err)
	}
}
