package transfer

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecgf-team/roster-api/internal/domain"
)

func fixture() []domain.Member {
	return []domain.Member{
		{ID: "1", Name: "Hong Gildong", PrimaryArchetype: domain.ArchetypeProblemSolving, SecondaryArchetype: domain.ArchetypeArchitecture, Years: 2, Level: domain.LevelL1},
		{ID: "2", Name: "Kim Cheolsu", PrimaryArchetype: domain.ArchetypeResearch, Years: 0, Level: domain.LevelL1},
		{ID: "3", Name: "Choi Jiyoung", PrimaryArchetype: domain.ArchetypeMentorship, Years: 25, Level: domain.LevelL5},
	}
}

// withoutIDs is what an export-then-import round trip can reproduce.
func withoutIDs(ms []domain.Member) []domain.Candidate {
	out := make([]domain.Candidate, len(ms))
	for i, m := range ms {
		out[i] = domain.CandidateFromMember(m)
		out[i].ID = ""
	}
	return out
}

func assertFormatError(t *testing.T, err error) {
	t.Helper()
	fe := (*domain.FormatError)(nil)
	require.Error(t, err)
	require.True(t, errors.As(err, &fe), "err=%v (type=%T), want *domain.FormatError", err, err)
}

func TestEncodeCSV_Shape(t *testing.T) {
	out, err := EncodeCSV(fixture()[:2])
	require.NoError(t, err)

	want := "\ufeff이름,주요성향,보조성향,연차,레벨\n" +
		"Hong Gildong,문제 해결형,설계/아키텍처형,2,L1\n" +
		"Kim Cheolsu,연구/개선형,,0,L1\n"
	assert.Equal(t, want, string(out))
}

func TestEncodeCSV_Empty(t *testing.T) {
	out, err := EncodeCSV(nil)
	require.NoError(t, err)
	assert.Equal(t, "\ufeff이름,주요성향,보조성향,연차,레벨\n", string(out))
}

func TestCSV_RoundTrip(t *testing.T) {
	out, err := EncodeCSV(fixture())
	require.NoError(t, err)

	got, err := ParseCSV(out)
	require.NoError(t, err)
	if diff := cmp.Diff(withoutIDs(fixture()), got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
	assert.Empty(t, got[1].SecondaryArchetype)
}

func TestParseCSV_FormatErrors(t *testing.T) {
	cases := map[string]string{
		"empty":          "",
		"only bom":       "\ufeff  \n",
		"header only":    "이름,주요성향,보조성향,연차,레벨\n",
		"missing header": "이름,주요성향,레벨\nKim,연구/개선형,L1\n",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseCSV([]byte(in))
			assertFormatError(t, err)
		})
	}

	_, err := ParseCSV([]byte("이름,레벨\nKim,L1\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "주요성향, 연차")
}

func TestParseCSV_Lenient(t *testing.T) {
	in := strings.Join([]string{
		"레벨 , 이름,연차,주요성향",
		"L2,Lee,5,research",
		"L1,Short,2",
		"",
		"l3,Park,10년,설계/아키텍처형",
		"L1,Kim,abc,연구/개선형",
	}, "\n")

	got, err := ParseCSV([]byte(in))
	require.NoError(t, err)
	require.Len(t, got, 3, "the row with a missing field is skipped")

	assert.Equal(t, "Lee", got[0].Name)
	assert.Equal(t, domain.ArchetypeResearch, got[0].PrimaryArchetype, "slugs are canonicalised")
	assert.Equal(t, domain.LevelL3, got[1].Level)
	assert.Equal(t, 10.0, *got[1].Years)
	assert.Equal(t, 0.0, *got[2].Years, "unreadable years become 0")
	for _, c := range got {
		assert.Empty(t, c.SecondaryArchetype)
	}
}

func TestParseCSV_UnbalancedQuoteCostsOneRow(t *testing.T) {
	in := strings.Join([]string{
		"이름,주요성향,보조성향,연차,레벨",
		`"broken,문제 해결형,,3,L1`,
		"Lee,연구/개선형,,5,L2",
		"Park,설계/아키텍처형,,9,L3",
	}, "\n")

	got, err := ParseCSV([]byte(in))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Lee", got[0].Name)
	assert.Equal(t, domain.LevelL3, got[1].Level)
}

func TestParseCSV_QuotedFields(t *testing.T) {
	out, err := EncodeCSV([]domain.Member{{Name: "Kim, Jr.", PrimaryArchetype: domain.ArchetypeOperations, Years: 4, Level: domain.LevelL2}})
	require.NoError(t, err)

	got, err := ParseCSV(out)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Kim, Jr.", got[0].Name)
}

func TestEncodeJSON(t *testing.T) {
	out, err := EncodeJSON(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(out))

	out, err = EncodeJSON(fixture()[1:2])
	require.NoError(t, err)
	assert.Contains(t, string(out), "\n  {\n    \"id\": \"2\",")
	assert.NotContains(t, string(out), "secondaryArchetype")
}

func TestJSON_RoundTrip(t *testing.T) {
	out, err := EncodeJSON(fixture())
	require.NoError(t, err)

	got, err := ParseJSON(out)
	require.NoError(t, err)

	want := make([]domain.Candidate, 0, len(fixture()))
	for _, m := range fixture() {
		want = append(want, domain.CandidateFromMember(m))
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestParseJSON_FormatErrors(t *testing.T) {
	for name, in := range map[string]string{
		"empty":     "  ",
		"malformed": "[{",
		"object":    `{"name":"Kim"}`,
		"string":    `"members"`,
		"bad row":   `[{"name": 5}]`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseJSON([]byte(in))
			assertFormatError(t, err)
		})
	}
}

func TestParseJSON_YearsShapes(t *testing.T) {
	got, err := ParseJSON([]byte(`[
		{"name": "a", "years": 3},
		{"name": "b"},
		{"name": "c", "years": "3"},
		{"name": "d", "years": 2.5}
	]`))
	require.NoError(t, err)
	require.Len(t, got, 4)

	assert.Equal(t, 3.0, *got[0].Years)
	assert.Nil(t, got[1].Years)
	assert.True(t, math.IsNaN(*got[2].Years))
	assert.Equal(t, 2.5, *got[3].Years)

	v := domain.Validate(got[2])
	assert.Contains(t, v.Errors, "연차는 정수여야 합니다.")
}

func TestXLSX_RoundTrip(t *testing.T) {
	out, err := EncodeXLSX(fixture())
	require.NoError(t, err)
	require.NotEmpty(t, out)

	got, err := ParseXLSX(out)
	require.NoError(t, err)
	if diff := cmp.Diff(withoutIDs(fixture()), got, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestParseXLSX_NotAWorkbook(t *testing.T) {
	_, err := ParseXLSX([]byte("이름,주요성향\n"))
	assertFormatError(t, err)
}

func TestEncodeAndParse_Dispatch(t *testing.T) {
	for _, f := range []Format{FormatCSV, FormatJSON, FormatXLSX} {
		out, err := Encode(f, fixture())
		require.NoError(t, err, "Encode(%s)", f)
		got, err := Parse(f, out)
		require.NoError(t, err, "Parse(%s)", f)
		assert.Len(t, got, 3, "Parse(%s)", f)
	}

	_, err := Encode("yaml", nil)
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(" CSV ")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	f, err = ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	_, err = ParseFormat("pdf")
	assert.Error(t, err)

	assert.Equal(t, "members.xlsx", FormatXLSX.Filename())
	assert.Contains(t, FormatCSV.ContentType(), "text/csv")
}
