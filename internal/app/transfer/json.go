package transfer

import (
	"bytes"
	"math"

	"github.com/goccy/go-json"

	"github.com/ecgf-team/roster-api/internal/domain"
)

// EncodeJSON renders the roster as an indented array.
func EncodeJSON(ms []domain.Member) ([]byte, error) {
	if ms == nil {
		ms = []domain.Member{}
	}
	return json.MarshalIndent(ms, "", "  ")
}

type jsonRow struct {
	ID                 domain.MemberID `json:"id"`
	Name               string          `json:"name"`
	PrimaryArchetype   string          `json:"primaryArchetype"`
	SecondaryArchetype string          `json:"secondaryArchetype"`
	Years              json.RawMessage `json:"years"`
	Level              string          `json:"level"`
}

// ParseJSON reads candidates from a JSON array. Years that are not numbers are kept as NaN
// so validation reports them against the row.
func ParseJSON(data []byte) ([]domain.Candidate, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, &domain.FormatError{Format: string(FormatJSON), Reason: "JSON 파일 내용이 비어있습니다."}
	}
	if !json.Valid(trimmed) {
		return nil, &domain.FormatError{Format: string(FormatJSON), Reason: "잘못된 JSON 형식입니다."}
	}
	if trimmed[0] != '[' {
		return nil, &domain.FormatError{Format: string(FormatJSON), Reason: "JSON 데이터는 배열 형식이어야 합니다."}
	}

	var rows []jsonRow
	if err := json.Unmarshal(trimmed, &rows); err != nil {
		return nil, &domain.FormatError{Format: string(FormatJSON), Reason: "부서원 항목의 형식이 올바르지 않습니다.", Err: err}
	}

	out := make([]domain.Candidate, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.Candidate{
			ID:                 r.ID,
			Name:               r.Name,
			PrimaryArchetype:   archetype(r.PrimaryArchetype),
			SecondaryArchetype: archetype(r.SecondaryArchetype),
			Years:              jsonYears(r.Years),
			Level:              level(r.Level),
		})
	}
	return out, nil
}

func jsonYears(raw json.RawMessage) *float64 {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	var y float64
	if err := json.Unmarshal(raw, &y); err != nil {
		y = math.NaN()
	}
	return &y
}
