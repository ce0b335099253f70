package members

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ecgf-team/roster-api/internal/domain"
)

func TestMerge_SkipsDuplicatesByName(t *testing.T) {
	t.Parallel()

	existing := []domain.Member{{ID: "1", Name: "Kim"}}
	imported := []domain.Member{
		{ID: "2", Name: "Kim"},
		{ID: "3", Name: "Lee"},
		{ID: "4", Name: "Lee"},
	}

	merged, added := Merge(existing, imported, DefaultMergeOptions())
	if diff := cmp.Diff([]domain.MemberID{"1", "3"}, ids(merged)); diff != "" {
		t.Fatalf("merged mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]domain.MemberID{"3"}, ids(added)); diff != "" {
		t.Fatalf("added mismatch (-want +got):\n%s", diff)
	}
}

func TestMerge_ByID(t *testing.T) {
	t.Parallel()

	existing := []domain.Member{{ID: "1", Name: "Kim"}}
	imported := []domain.Member{{ID: "1", Name: "Other"}, {ID: "2", Name: "Kim"}}

	merged, _ := Merge(existing, imported, MergeOptions{SkipDuplicates: true, Key: DuplicateByID})
	if diff := cmp.Diff([]domain.MemberID{"1", "2"}, ids(merged)); diff != "" {
		t.Fatalf("merged mismatch (-want +got):\n%s", diff)
	}
}

func TestMerge_KeepAllReKeysSharedIDs(t *testing.T) {
	t.Parallel()

	existing := []domain.Member{{ID: "1", Name: "Kim"}}
	imported := []domain.Member{{ID: "2", Name: "Kim"}, {ID: "1", Name: "Lee"}, {ID: "2", Name: "Park"}}
	n := 0
	opts := MergeOptions{SkipDuplicates: false, NewID: func() domain.MemberID {
		n++
		// The first fresh id collides too and must be skipped over.
		return domain.MemberID([]string{"2", "new-1", "new-2"}[n-1])
	}}

	merged, added := Merge(existing, imported, opts)
	if diff := cmp.Diff([]domain.MemberID{"1", "2", "new-1", "new-2"}, ids(merged)); diff != "" {
		t.Fatalf("merged mismatch (-want +got):\n%s", diff)
	}
	if len(added) != 3 || added[1].Name != "Lee" || added[2].Name != "Park" {
		t.Fatalf("added=%+v, want every imported row kept", added)
	}
}

func TestValidateImported(t *testing.T) {
	t.Parallel()

	v := ValidateImported([]domain.Candidate{
		{Name: "ok", PrimaryArchetype: domain.ArchetypeResearch, Years: domain.YearsPtr(3), Level: domain.LevelL1},
		{Name: "bad", PrimaryArchetype: domain.ArchetypeResearch, Years: domain.YearsPtr(60), Level: domain.LevelL1},
	})
	if v.Valid {
		t.Fatalf("expected invalid verdict")
	}
	want := []string{"행 2: 근무 연차는 0~50년 사이여야 합니다."}
	if diff := cmp.Diff(want, v.Errors); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}

	if v := ValidateImported(nil); !v.Valid || v.Errors == nil {
		t.Fatalf("ValidateImported(nil)=%+v", v)
	}
}

func TestComputeStatistics(t *testing.T) {
	t.Parallel()

	st := ComputeStatistics(roster(), false)
	if st.Total != 4 {
		t.Fatalf("Total=%d", st.Total)
	}
	wantLevels := map[domain.Level]int{"L1": 1, "L2": 1, "L3": 1, "L4": 0, "L5": 1}
	if diff := cmp.Diff(wantLevels, st.LevelDistribution); diff != "" {
		t.Fatalf("levels mismatch (-want +got):\n%s", diff)
	}
	wantYears := map[string]int{"0-3": 1, "4-7": 1, "8-12": 1, "13-20": 0, "21+": 1}
	if diff := cmp.Diff(wantYears, st.YearsDistribution); diff != "" {
		t.Fatalf("years mismatch (-want +got):\n%s", diff)
	}
	if st.ArchetypeDistribution[domain.ArchetypeProblemSolving] != 1 || st.ArchetypeDistribution[domain.ArchetypeOperations] != 0 {
		t.Fatalf("archetypes=%v", st.ArchetypeDistribution)
	}

	withSecondary := ComputeStatistics(roster(), true)
	if withSecondary.ArchetypeDistribution[domain.ArchetypeProblemSolving] != 2 || withSecondary.ArchetypeDistribution[domain.ArchetypeResearch] != 2 {
		t.Fatalf("archetypes incl. secondary=%v", withSecondary.ArchetypeDistribution)
	}

	empty := ComputeStatistics(nil, false)
	if empty.Total != 0 || len(empty.LevelDistribution) != 5 {
		t.Fatalf("empty stats=%+v", empty)
	}
}
